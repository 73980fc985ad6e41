package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/fabric/errors"
)

func TestCreateFile(t *testing.T) {
	f := File{
		Path:     "src/models/pet.ts",
		BaseName: "pet.ts",
		Sources: []Source{
			{Name: "Pet", Value: "export type Pet = { tag: Tag }", IsExportable: true, IsTypeOnly: true},
		},
		Imports: []Import{
			{Name: List("Tag"), Path: "./tag", IsTypeOnly: true},
			{Name: List("Unused"), Path: "./tag"},
		},
		Exports: []Export{
			{Name: List("Pet"), Path: "./pet"},
		},
		Banner: "/* generated */",
	}

	resolved, err := CreateFile(f)
	require.NoError(t, err)

	assert.Equal(t, "pet", resolved.Name)
	assert.Equal(t, ".ts", resolved.Extname)
	assert.Equal(t, ID("src/models/pet.ts"), resolved.ID)
	assert.Len(t, resolved.ID, 64)
	assert.Equal(t, "/* generated */", resolved.Banner)
	assert.Equal(t, []Import{{Name: List("Tag"), Path: "./tag", IsTypeOnly: true}}, resolved.Imports)
	assert.NotNil(t, resolved.Meta)
}

func TestCreateFileDerivesBaseName(t *testing.T) {
	resolved, err := CreateFile(File{Path: `src\models\index.ts`})
	require.NoError(t, err)

	assert.Equal(t, "index.ts", resolved.BaseName)
	assert.Equal(t, "index", resolved.Name)
}

func TestCreateFileWithoutExtension(t *testing.T) {
	for _, baseName := range []string{"Makefile", ".ts"} {
		t.Run(baseName, func(t *testing.T) {
			_, err := CreateFile(File{Path: "out/" + baseName, BaseName: baseName})
			require.Error(t, err)

			assert.True(t, errors.Is(err, errors.ErrInvalidFile))
			var invalid *InvalidFileError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, baseName, invalid.BaseName)
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestCreateFileWithoutSourcesDropsImports(t *testing.T) {
	resolved, err := CreateFile(File{
		Path:    "a.ts",
		Imports: []Import{{Name: List("x"), Path: "./x"}},
	})
	require.NoError(t, err)
	assert.Empty(t, resolved.Imports)
}

func TestCreateFileIsIdempotent(t *testing.T) {
	f := File{
		Path: "src/index.ts",
		Sources: []Source{
			{Value: "a(); b(); c()"},
			{Name: "x", Value: "const x = 1", IsExportable: true},
		},
		Imports: []Import{
			{Name: List("b"), Path: "./m"},
			{Name: List("a", "z"), Path: "./m"},
			{Name: Ident("c"), Path: "./c"},
			{Name: List("a"), Path: "./m", IsTypeOnly: true},
		},
		Exports: []Export{
			{Path: "./pet"},
			{Name: List("y"), Path: "./y"},
			{Name: List("x"), Path: "./y"},
		},
	}

	first, err := CreateFile(f)
	require.NoError(t, err)
	second, err := CreateFile(f)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	again, err := CreateFile(first.File)
	require.NoError(t, err)
	assert.Equal(t, first.Sources, again.Sources)
	assert.Equal(t, first.Imports, again.Imports)
	assert.Equal(t, first.Exports, again.Exports)
}

func TestMerge(t *testing.T) {
	a := File{
		Path:    "a.ts",
		Sources: []Source{{Value: "x;"}},
		Imports: []Import{{Name: List("x"), Path: "./m"}},
		Meta:    map[string]any{"owner": "a"},
	}
	b := File{
		Path:     "a.ts",
		BaseName: "a.ts",
		Imports:  []Import{{Name: List("y"), Path: "./m"}},
		Footer:   "// end",
		Meta:     map[string]any{"owner": "b", "tag": "pets"},
	}

	merged := Merge(a, b)

	assert.Len(t, merged.Imports, 2)
	assert.Len(t, merged.Sources, 1)
	assert.Equal(t, "a.ts", merged.BaseName)
	assert.Equal(t, "// end", merged.Footer)
	assert.Equal(t, map[string]any{"owner": "a", "tag": "pets"}, merged.Meta)
	assert.Len(t, a.Imports, 1, "inputs are not modified")
}
