package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Source represents where a configuration value came from
type Source string

const (
	SourceDefault     Source = "default"
	SourceUser        Source = "user"        // ~/.fabric/fabric.toml
	SourceProject     Source = "project"     // fabric.toml found walking up
	SourceEnvironment Source = "environment" // FABRIC_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source Source
	Path   string // File path or environment variable name
}

// Sources records, per key, the file that set it during loading
var Sources = make(map[string]SourceInfo)

// Setting is one effective configuration value
type Setting struct {
	Key        string      `json:"key" yaml:"key"`
	Value      interface{} `json:"value" yaml:"value"`
	Source     Source      `json:"source" yaml:"source"`
	SourcePath string      `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// Introspect lists every effective setting of v with its source, sorted by key
func Introspect(v *viper.Viper) []Setting {
	keys := v.AllKeys()
	sort.Strings(keys)

	settings := make([]Setting, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := Sources[key]; ok {
			info = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		settings = append(settings, Setting{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return settings
}
