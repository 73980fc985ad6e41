package graphplugin

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/plugins/barrelplugin"
	"github.com/teranos/fabric/tree"
)

func run(t *testing.T, opts Options) {
	t.Helper()
	ctx := context.Background()

	f := fabric.New()
	require.NoError(t, f.Use(ctx, Plugin, opts))
	_, err := f.AddFile(ctx,
		file.File{Path: "src/models/pet.ts"},
		file.File{Path: "src/client.ts"},
	)
	require.NoError(t, err)

	_, err = f.Write(ctx, filemanager.ProcessOptions{DryRun: true})
	require.NoError(t, err)
}

func TestGraphWritten(t *testing.T) {
	fs := afero.NewMemMapFs()
	run(t, Options{Root: "src", Path: "out/graph.json", Fs: fs})

	data, err := afero.ReadFile(fs, "out/graph.json")
	require.NoError(t, err)

	var g tree.Graph
	require.NoError(t, json.Unmarshal(data, &g))
	assert.Len(t, g.Nodes, 4)
	assert.Contains(t, g.Edges, tree.Edge{From: "src/models", To: "src/models/pet.ts"})
}

func TestGraphSkippedOnDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	run(t, Options{Root: "src", Fs: fs, DryRun: true})

	exists, err := afero.Exists(fs, DefaultPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGraphIncludesBarrelsWithParallelEvents(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		fs := afero.NewMemMapFs()
		f := fabric.New(fabric.WithEventMode(event.Parallel))
		require.NoError(t, f.Use(ctx, Plugin, Options{Root: "src", Fs: fs}))
		require.NoError(t, f.Use(ctx, barrelplugin.Plugin, barrelplugin.Options{Root: "src", Mode: tree.ModeAll}))

		_, err := f.AddFile(ctx, file.File{
			Path:    "src/models/pet.ts",
			Sources: []file.Source{{Name: "Pet", Value: "export type Pet = {}", IsExportable: true, IsTypeOnly: true}},
		})
		require.NoError(t, err)

		_, err = f.Write(ctx, filemanager.ProcessOptions{DryRun: true})
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, DefaultPath)
		require.NoError(t, err)

		var g tree.Graph
		require.NoError(t, json.Unmarshal(data, &g))
		assert.Contains(t, g.Nodes, tree.Node{ID: "src/models/index.ts", Label: "index.ts"})
		assert.Contains(t, g.Nodes, tree.Node{ID: "src/index.ts", Label: "index.ts"})
	}
}
