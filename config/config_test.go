package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
root = "gen"
dry_run = true

[process]
mode = "parallel"
concurrency = 8

[barrel]
mode = "all"

[extension]
ts = "js"
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gen", cfg.Output.Root)
	assert.True(t, cfg.Output.DryRun)
	assert.Equal(t, "parallel", cfg.Process.Mode)
	assert.Equal(t, 8, cfg.Process.Concurrency)
	assert.Equal(t, "all", cfg.Barrel.Mode)
	assert.Equal(t, ".ts", cfg.Barrel.Extension, "defaults fill unset keys")
	assert.Equal(t, map[string]string{".ts": ".js"}, cfg.ExtensionMap())
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "parallel processing", mutate: func(c *Config) { c.Process.Mode = "parallel" }},
		{name: "unknown process mode", mutate: func(c *Config) { c.Process.Mode = "async" }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Process.Concurrency = 0 }, wantErr: true},
		{name: "unknown event mode", mutate: func(c *Config) { c.Events.Mode = "burst" }, wantErr: true},
		{name: "barrel false", mutate: func(c *Config) { c.Barrel.Mode = "false" }},
		{name: "unknown barrel mode", mutate: func(c *Config) { c.Barrel.Mode = "every" }, wantErr: true},
		{name: "graph without path", mutate: func(c *Config) { c.Graph.Enabled = true; c.Graph.Path = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtensionMap(t *testing.T) {
	cfg := &Config{Extension: map[string]string{"ts": "", ".tsx": "js"}}
	assert.Equal(t, map[string]string{".ts": "", ".tsx": ".js"}, cfg.ExtensionMap())
}

func TestSaveRoundTripWithBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Output.Root = "first"
	require.NoError(t, Save(path, cfg))

	cfg.Output.Root = "second"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Output.Root)

	backup, err := LoadFromFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "first", backup.Output.Root)
}

func TestIntrospect(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("FABRIC_OUTPUT_ROOT", "from-env")

	v := viper.New()
	SetDefaults(v)
	Sources["barrel.mode"] = SourceInfo{Source: SourceProject, Path: "/repo/fabric.toml"}

	byKey := map[string]Setting{}
	for _, s := range Introspect(v) {
		byKey[s.Key] = s
	}

	assert.Equal(t, SourceDefault, byKey["process.concurrency"].Source)
	assert.Equal(t, SourceProject, byKey["barrel.mode"].Source)
	assert.Equal(t, SourceEnvironment, byKey["output.root"].Source)
	assert.Equal(t, "FABRIC_OUTPUT_ROOT", byKey["output.root"].SourcePath)
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: []\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()
	w.SetDebounce(10 * time.Millisecond)

	changed := make(chan string, 4)
	w.OnChange(func(p string) error {
		changed <- p
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("files: [1]\n"), 0o644))

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
