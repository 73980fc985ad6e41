// Package config loads fabric settings from fabric.toml files and FABRIC_* environment variables.
package config

import "strings"

// Config represents the fabric configuration
type Config struct {
	Output    OutputConfig      `mapstructure:"output" toml:"output"`
	Process   ProcessConfig     `mapstructure:"process" toml:"process"`
	Events    EventsConfig      `mapstructure:"events" toml:"events"`
	Barrel    BarrelConfig      `mapstructure:"barrel" toml:"barrel"`
	Graph     GraphConfig       `mapstructure:"graph" toml:"graph"`
	Extension map[string]string `mapstructure:"extension" toml:"extension"` // ts = "js"; "" drops the extension
	Log       LogConfig         `mapstructure:"log" toml:"log"`
}

// OutputConfig controls where and how files are written
type OutputConfig struct {
	Root   string `mapstructure:"root" toml:"root"`       // Directory barrels and the graph are built from
	DryRun bool   `mapstructure:"dry_run" toml:"dry_run"` // Print without writing
	Clean  bool   `mapstructure:"clean" toml:"clean"`     // Remove root before writing
	Sanity bool   `mapstructure:"sanity" toml:"sanity"`   // Re-read every written file
}

// ProcessConfig controls the processing pass
type ProcessConfig struct {
	Mode        string `mapstructure:"mode" toml:"mode"`               // sequential or parallel
	Concurrency int    `mapstructure:"concurrency" toml:"concurrency"` // Files in flight in parallel mode (default: 100)
}

// EventsConfig controls the event pipeline
type EventsConfig struct {
	Mode string `mapstructure:"mode" toml:"mode"` // sequential or parallel
}

// BarrelConfig controls barrel generation
type BarrelConfig struct {
	Mode      string `mapstructure:"mode" toml:"mode"`           // all, named, propagate or off
	Extension string `mapstructure:"extension" toml:"extension"` // Barrel file extension (default: .ts)
}

// GraphConfig controls the graph output
type GraphConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" toml:"path"`
}

// LogConfig controls logging output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Theme string `mapstructure:"theme" toml:"theme"` // gruvbox or everforest
}

// ExtensionMap returns the extension mapping keyed and valued with leading dots
func (c *Config) ExtensionMap() map[string]string {
	out := make(map[string]string, len(c.Extension))
	for from, to := range c.Extension {
		out[dotted(from)] = dotted(to)
	}
	return out
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// FileName is the project and user config file name
const FileName = "fabric.toml"
