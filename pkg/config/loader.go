package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "sesuite"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".sesuiterc.yaml", ".sesuiterc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .sesuiterc.yaml or .sesuiterc.yml in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return firstExisting(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return firstExisting(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

// SearchPaths returns every path checked for global and local config, in
// load order.
func SearchPaths() []string {
	var paths []string
	if configDir, err := os.UserConfigDir(); err == nil {
		for _, name := range GlobalConfigFileNames {
			paths = append(paths, filepath.Join(configDir, GlobalConfigDir, name))
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		for _, name := range LocalConfigFileNames {
			paths = append(paths, filepath.Join(cwd, name))
		}
	}
	return paths
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// LoadConfigFile loads a Config from a YAML file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, newConfigError(path, err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, newConfigError(path, err)
	}
	cfg.SetFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.SetFields[k] = true
	}

	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

func newConfigError(path string, err error) *ConfigError {
	ce := &ConfigError{Path: path, Message: err.Error()}
	if m := yamlLine.FindStringSubmatch(ce.Message); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
	}
	return ce
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > explicit file > local config > global config > defaults.
// Flags are merged by the caller. An explicit path that cannot be read is an
// error; malformed global or local files are errors too.
func LoadAll(explicitPath string) (*Config, error) {
	cfg := NewDefault()

	if globalPath, err := FindGlobalConfig(); err == nil && globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	if localPath, err := FindLocalConfig(); err == nil && localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, localCfg, SourceLocal)
	}

	if explicitPath == "" {
		explicitPath = os.Getenv(EnvConfig)
	}
	if explicitPath != "" {
		fileCfg, err := LoadConfigFile(explicitPath)
		if err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				return nil, err
			}
			return nil, &ConfigError{Path: explicitPath, Message: err.Error()}
		}
		MergeConfig(cfg, fileCfg, SourceFile)
	}

	LoadEnvConfig(cfg)

	return cfg, nil
}
