package config

// DefaultBaseURL is the SE Suite deployment used when none is configured.
const DefaultBaseURL = "https://sesuite.sicredi.com.br"

// DefaultDownloadDir is where downloaded files are written.
const DefaultDownloadDir = "downloads"

// DefaultLogLevel only surfaces warnings and errors.
const DefaultLogLevel = "warn"

// DefaultLogFormat is human-readable text.
const DefaultLogFormat = "text"

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		BaseURL:     DefaultBaseURL,
		DownloadDir: DefaultDownloadDir,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Sources:     make(map[string]string),
	}

	for _, key := range []string{"baseUrl", "downloadDir", "logLevel", "logFormat", "timeout", "json"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
