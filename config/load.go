package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/fabric/errors"
)

// EnvPrefix prefixes environment overrides: FABRIC_OUTPUT_ROOT
const EnvPrefix = "FABRIC"

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration once and caches it
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if config.Extension == nil {
		config.Extension = map[string]string{}
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, defaults applied
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	Sources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// FindProjectConfig walks up from the working directory looking for fabric.toml.
// It returns "" when there is none.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// UserConfigPath returns ~/.fabric/fabric.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fabric", FileName)
}

// mergeConfigFiles merges config files in precedence order: user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	layers := []struct {
		path   string
		source Source
	}{
		{UserConfigPath(), SourceUser},
		{FindProjectConfig(), SourceProject},
	}

	for _, layer := range layers {
		if layer.path == "" {
			continue
		}
		if _, err := os.Stat(layer.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(layer.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		for _, key := range tempViper.AllKeys() {
			v.Set(key, tempViper.Get(key))
			Sources[key] = SourceInfo{Source: layer.source, Path: layer.path}
		}
		v.SetConfigFile(layer.path)
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}
