package config

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	mergeString(target, "baseUrl", &target.BaseURL, source.BaseURL, sourceType)
	mergeString(target, "token", &target.Token, source.Token, sourceType)
	mergeString(target, "userId", &target.UserID, source.UserID, sourceType)
	mergeString(target, "downloadDir", &target.DownloadDir, source.DownloadDir, sourceType)
	mergeString(target, "logLevel", &target.LogLevel, source.LogLevel, sourceType)
	mergeString(target, "logFormat", &target.LogFormat, source.LogFormat, sourceType)
	mergeString(target, "logFile", &target.LogFile, source.LogFile, sourceType)

	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		target.Sources["timeout"] = sourceType
	}
	// An explicit false is only visible through SetFields; without it only
	// true is merged.
	if source.SetFields != nil && source.SetFields["json"] || source.SetFields == nil && source.JSON {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

func mergeString(target *Config, key string, dst *string, value, sourceType string) {
	if value == "" {
		return
	}
	*dst = value
	target.Sources[key] = sourceType
}
