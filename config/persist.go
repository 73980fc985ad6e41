package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/logger"
)

// Save writes cfg to path as TOML, rotating up to three backups of an existing file
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// Default returns the configuration produced by SetDefaults alone
func Default() *Config {
	cfg := &Config{
		Output:    OutputConfig{Root: "src"},
		Process:   ProcessConfig{Mode: "sequential", Concurrency: 100},
		Events:    EventsConfig{Mode: "sequential"},
		Barrel:    BarrelConfig{Mode: "named", Extension: ".ts"},
		Graph:     GraphConfig{Path: "fabric-graph.json"},
		Extension: map[string]string{},
		Log:       LogConfig{Theme: "gruvbox"},
	}
	return cfg
}

// createBackup rotates .back1 -> .back2 -> .back3 and copies path to .back1
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back1, back2, back3 := path+".back1", path+".back2", path+".back3"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
