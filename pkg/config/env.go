package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names
const (
	EnvToken       = "SESUITE_TOKEN"
	EnvBaseURL     = "SESUITE_BASE_URL"
	EnvUserID      = "SESUITE_USER_ID"
	EnvDownloadDir = "SESUITE_DOWNLOAD_DIR"
	EnvLogLevel    = "SESUITE_LOG_LEVEL"
	EnvLogFormat   = "SESUITE_LOG_FORMAT"
	EnvLogFile     = "SESUITE_LOG_FILE"
	EnvTimeout     = "SESUITE_TIMEOUT"
	EnvJSON        = "SESUITE_JSON"
	EnvConfig      = "SESUITE_CONFIG"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	for env, field := range map[string]struct {
		key string
		dst *string
	}{
		EnvToken:       {"token", &cfg.Token},
		EnvBaseURL:     {"baseUrl", &cfg.BaseURL},
		EnvUserID:      {"userId", &cfg.UserID},
		EnvDownloadDir: {"downloadDir", &cfg.DownloadDir},
		EnvLogLevel:    {"logLevel", &cfg.LogLevel},
		EnvLogFormat:   {"logFormat", &cfg.LogFormat},
		EnvLogFile:     {"logFile", &cfg.LogFile},
	} {
		if v := os.Getenv(env); v != "" {
			*field.dst = v
			cfg.Sources[field.key] = SourceEnv
		}
	}

	// SESUITE_TIMEOUT accepts a duration ("30s") or whole seconds ("30").
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := ParseTimeout(v); err == nil {
			cfg.Timeout = d
			cfg.Sources["timeout"] = SourceEnv
		}
	}

	// SESUITE_JSON
	if v := os.Getenv(EnvJSON); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.JSON = b
			cfg.Sources["json"] = SourceEnv
		}
	}
}

// ParseTimeout parses a duration ("30s", "1m") or a number of whole seconds.
func ParseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid timeout %q: expected a duration like 30s", s)
}
