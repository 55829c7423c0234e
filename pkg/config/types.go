// Package config provides configuration types and loading for the sesuite CLI.
package config

import (
	"strconv"
	"time"
)

// Config represents the complete configuration for the sesuite CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Explicit config file (--config)
// 4. Local config file (.sesuiterc.yaml in current directory)
// 5. Global config file (~/.config/sesuite/config.yaml)
// 6. Default values (lowest priority)
type Config struct {
	// Connection settings
	BaseURL string        `yaml:"baseUrl" json:"baseUrl"`
	Token   string        `yaml:"token,omitempty" json:"-"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// UserID is sent with operations that accept an acting user.
	UserID string `yaml:"userId,omitempty" json:"userId,omitempty"`

	// Download settings
	DownloadDir string `yaml:"downloadDir" json:"downloadDir"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the keys present in a loaded file, so an explicit
	// false can be told apart from an absent key.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}
