package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/fabric/file"
)

func resolved(t *testing.T, files ...file.File) []*file.ResolvedFile {
	t.Helper()
	out := make([]*file.ResolvedFile, 0, len(files))
	for _, f := range files {
		r, err := file.CreateFile(f)
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func leafPaths(n *TreeNode) []string {
	var out []string
	for _, l := range n.Leaves() {
		out = append(out, l.Data.Path)
	}
	return out
}

func TestFromFilesEmpty(t *testing.T) {
	assert.Nil(t, FromFiles(nil, "src"))
	assert.Nil(t, FromFiles([]*file.ResolvedFile{}, "src"))
}

func TestFromFilesSkipsJSON(t *testing.T) {
	files := resolved(t,
		file.File{Path: "src/schema.json"},
		file.File{Path: "src/meta/info.json"},
	)
	assert.Nil(t, FromFiles(files, "src"))
}

func TestFromFilesOutsideRoot(t *testing.T) {
	files := resolved(t, file.File{Path: "lib/a.ts"}, file.File{Path: "srcs/b.ts"})
	assert.Nil(t, FromFiles(files, "src"))
}

func TestFromFilesBuildsSegments(t *testing.T) {
	files := resolved(t,
		file.File{Path: "src/models/pet.ts"},
		file.File{Path: `src\models\tag.ts`},
		file.File{Path: "src/client.ts"},
		file.File{Path: "other/x.ts"},
	)

	root := FromFiles(files, "./src/")
	require.NotNil(t, root)

	assert.Equal(t, "src", root.Data.Path)
	assert.Equal(t, "src", root.Data.Name)
	require.Len(t, root.Children, 2)

	models := root.Child("models")
	require.NotNil(t, models)
	assert.Equal(t, KindDirectory, models.Data.Kind)
	assert.Equal(t, []string{"src/models/pet.ts", "src/models/tag.ts"}, leafPaths(models))
	assert.Equal(t, []string{"src/models/pet.ts", "src/models/tag.ts", "src/client.ts"}, leafPaths(root))
}

func TestLeavesCacheInvalidatedOnInsert(t *testing.T) {
	root := NewNode(Data{Name: "src", Path: "src", Kind: KindDirectory})
	dir := root.AddChild(Data{Name: "a", Path: "src/a", Kind: KindDirectory})
	dir.AddChild(Data{Name: "x.ts", Path: "src/a/x.ts", Kind: KindFile})

	assert.Len(t, root.Leaves(), 1)

	dir.AddChild(Data{Name: "y.ts", Path: "src/a/y.ts", Kind: KindFile})
	assert.Equal(t, []string{"src/a/x.ts", "src/a/y.ts"}, leafPaths(root))
}

func TestToGraph(t *testing.T) {
	files := resolved(t,
		file.File{Path: "src/models/pet.ts"},
		file.File{Path: "src/client.ts"},
	)

	g := ToGraph(FromFiles(files, "src"))

	assert.Equal(t, []Node{
		{ID: "src", Label: "src"},
		{ID: "src/models", Label: "models"},
		{ID: "src/models/pet.ts", Label: "pet.ts"},
		{ID: "src/client.ts", Label: "client.ts"},
	}, g.Nodes)
	assert.Equal(t, []Edge{
		{From: "src", To: "src/models"},
		{From: "src", To: "src/client.ts"},
		{From: "src/models", To: "src/models/pet.ts"},
	}, g.Edges)

	empty := ToGraph(nil)
	assert.Empty(t, empty.Nodes)
	assert.NotNil(t, empty.Edges)
}
