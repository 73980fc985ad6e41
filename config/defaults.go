package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Output defaults
	v.SetDefault("output.root", "src")
	v.SetDefault("output.dry_run", false)
	v.SetDefault("output.clean", false)
	v.SetDefault("output.sanity", false)

	// Processing defaults
	v.SetDefault("process.mode", "sequential")
	v.SetDefault("process.concurrency", 100) // Bounds open files in parallel mode

	// Event pipeline defaults
	v.SetDefault("events.mode", "sequential")

	// Barrel defaults
	v.SetDefault("barrel.mode", "named")
	v.SetDefault("barrel.extension", ".ts")

	// Graph defaults
	v.SetDefault("graph.enabled", false)
	v.SetDefault("graph.path", "fabric-graph.json")

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "gruvbox")
}
