package fsplugin

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
)

func setup(t *testing.T, opts Options) (*fabric.Fabric, WriteFunc) {
	t.Helper()
	ctx := context.Background()

	f := fabric.New()
	require.NoError(t, f.Use(ctx, Plugin, opts))

	write, err := fabric.Capability[WriteFunc](f, Capability)
	require.NoError(t, err)

	_, err = f.AddFile(ctx,
		file.File{Path: "gen/a.ts", Sources: []file.Source{{Value: "export const a = 1"}}},
		file.File{Path: "gen/empty.ts"},
	)
	require.NoError(t, err)
	return f, write
}

func TestWriteCapability(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, write := setup(t, Options{Fs: fs, Sanity: true})

	written, err := write(context.Background(), filemanager.ProcessOptions{})
	require.NoError(t, err)
	assert.Len(t, written, 2)

	data, err := afero.ReadFile(fs, "gen/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "export const a = 1", string(data))

	exists, err := afero.Exists(fs, "gen/empty.ts")
	require.NoError(t, err)
	assert.False(t, exists, "blank output is not written")
}

func TestDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, write := setup(t, Options{Fs: fs, DryRun: true})

	_, err := write(context.Background(), filemanager.ProcessOptions{})
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "gen/a.ts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCleanOnInstall(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "gen/stale.ts", []byte("old"), 0o644))

	setup(t, Options{Fs: fs, Clean: "gen"})

	exists, err := afero.Exists(fs, "gen/stale.ts")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOnBeforeWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	var seen []string
	_, write := setup(t, Options{Fs: fs, OnBeforeWrite: func(path, _ string) error {
		seen = append(seen, path)
		return nil
	}})

	_, err := write(context.Background(), filemanager.ProcessOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"gen/a.ts", "gen/empty.ts"}, seen)
}

func TestOnBeforeWriteError(t *testing.T) {
	fs := afero.NewMemMapFs()
	veto := errors.New("read-only path")
	f, write := setup(t, Options{Fs: fs, OnBeforeWrite: func(string, string) error { return veto }})

	_, err := write(context.Background(), filemanager.ProcessOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, veto))
	assert.Len(t, f.Files(), 2, "a failed pass keeps the cache")
}
