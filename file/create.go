package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/teranos/fabric/errors"
)

// InvalidFileError reports a File that cannot be resolved.
type InvalidFileError struct {
	Path     string
	BaseName string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("no extname found for %q (path %q)", e.BaseName, e.Path)
}

// Unwrap lets errors.Is(err, errors.ErrInvalidFile) match.
func (e *InvalidFileError) Unwrap() error {
	return errors.ErrInvalidFile
}

// ID returns the content address of a file path.
func ID(p string) string {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

// CreateFile resolves f into a ResolvedFile. It is pure and fails only when
// the base name carries no extension.
func CreateFile(f File) (*ResolvedFile, error) {
	baseName := f.BaseName
	if baseName == "" {
		baseName = path.Base(NormalizePath(f.Path))
	}

	extname := path.Ext(baseName)
	if extname == "" || extname == baseName {
		return nil, errors.WithHint(
			&InvalidFileError{Path: f.Path, BaseName: baseName},
			"give the base name an extension such as .ts",
		)
	}

	source := SourceText(f.Sources)
	exports := CombineExports(f.Exports)
	imports := []Import{}
	if len(f.Imports) > 0 && source != "" {
		imports = CombineImports(f.Imports, exports, source)
	}

	resolved := f
	resolved.BaseName = baseName
	resolved.Sources = CombineSources(f.Sources)
	resolved.Imports = imports
	resolved.Exports = exports
	resolved.Meta = make(map[string]any, len(f.Meta))
	for k, v := range f.Meta {
		resolved.Meta[k] = v
	}

	return &ResolvedFile{
		File:    resolved,
		ID:      ID(f.Path),
		Name:    TrimExtName(baseName),
		Extname: extname,
	}, nil
}

// SourceText joins non-empty source values with a blank line between them.
func SourceText(sources []Source) string {
	values := make([]string, 0, len(sources))
	for _, s := range sources {
		if s.Value == "" {
			continue
		}
		values = append(values, s.Value)
	}
	return strings.Join(values, "\n\n")
}
