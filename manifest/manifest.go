// Package manifest decodes file descriptions from YAML, JSON or TOML documents.
//
// A manifest lists the files to generate:
//
//	files:
//	  - path: src/models/pet.ts
//	    imports:
//	      - name: [Owner]
//	        path: ./owner
//	        isTypeOnly: true
//	    sources:
//	      - name: Pet
//	        value: "export type Pet = { owner: Owner }"
//	        isExportable: true
//	        isTypeOnly: true
//
// Import and export names are a string, a list of strings and
// {propertyName, name} objects, or absent.
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/file"
)

// Format is a manifest encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		err := errors.Newf("unsupported manifest extension %q", filepath.Ext(path))
		return "", errors.WithHint(err, "use .yaml, .yml, .json or .toml")
	}
}

// Manifest is a decoded manifest document
type Manifest struct {
	Files []file.File
}

type document struct {
	Files []fileDoc `yaml:"files" toml:"files"`
}

type fileDoc struct {
	Path     string         `yaml:"path" toml:"path"`
	BaseName string         `yaml:"baseName" toml:"baseName"`
	Banner   string         `yaml:"banner" toml:"banner"`
	Footer   string         `yaml:"footer" toml:"footer"`
	Meta     map[string]any `yaml:"meta" toml:"meta"`
	Sources  []sourceDoc    `yaml:"sources" toml:"sources"`
	Imports  []importDoc    `yaml:"imports" toml:"imports"`
	Exports  []exportDoc    `yaml:"exports" toml:"exports"`
}

type sourceDoc struct {
	Name         string `yaml:"name" toml:"name"`
	Value        string `yaml:"value" toml:"value"`
	IsExportable bool   `yaml:"isExportable" toml:"isExportable"`
	IsTypeOnly   bool   `yaml:"isTypeOnly" toml:"isTypeOnly"`
	IsIndexable  bool   `yaml:"isIndexable" toml:"isIndexable"`
}

type importDoc struct {
	Name        any    `yaml:"name" toml:"name"`
	Path        string `yaml:"path" toml:"path"`
	Root        string `yaml:"root" toml:"root"`
	IsTypeOnly  bool   `yaml:"isTypeOnly" toml:"isTypeOnly"`
	IsNameSpace bool   `yaml:"isNameSpace" toml:"isNameSpace"`
}

type exportDoc struct {
	Name       any    `yaml:"name" toml:"name"`
	Path       string `yaml:"path" toml:"path"`
	IsTypeOnly bool   `yaml:"isTypeOnly" toml:"isTypeOnly"`
	AsAlias    bool   `yaml:"asAlias" toml:"asAlias"`
}

// Load reads and decodes the manifest at path
func Load(fs afero.Fs, path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	m, err := Decode(data, format)
	if err != nil {
		return nil, errors.WithDetail(err, fmt.Sprintf("Manifest: %s", path))
	}
	return m, nil
}

// Decode parses data in the given format. JSON is decoded as YAML, which accepts it.
func Decode(data []byte, format Format) (*Manifest, error) {
	var doc document
	switch format {
	case FormatYAML, FormatJSON:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s manifest", format)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode toml manifest")
		}
	default:
		return nil, errors.Newf("unsupported manifest format %q", format)
	}

	m := &Manifest{Files: make([]file.File, 0, len(doc.Files))}
	for i, fd := range doc.Files {
		f, err := fd.toFile()
		if err != nil {
			return nil, errors.Wrapf(err, "files[%d]", i)
		}
		m.Files = append(m.Files, f)
	}
	return m, nil
}

func (fd fileDoc) toFile() (file.File, error) {
	if fd.Path == "" {
		return file.File{}, errors.New("path is required")
	}

	f := file.File{
		Path:     fd.Path,
		BaseName: fd.BaseName,
		Banner:   fd.Banner,
		Footer:   fd.Footer,
		Meta:     fd.Meta,
	}

	for _, s := range fd.Sources {
		f.Sources = append(f.Sources, file.Source(s))
	}

	for j, id := range fd.Imports {
		name, err := file.ParseName(id.Name)
		if err != nil {
			return file.File{}, errors.Wrapf(err, "imports[%d]", j)
		}
		f.Imports = append(f.Imports, file.Import{
			Name:        name,
			Path:        id.Path,
			Root:        id.Root,
			IsTypeOnly:  id.IsTypeOnly,
			IsNameSpace: id.IsNameSpace,
		})
	}

	for j, ed := range fd.Exports {
		name, err := file.ParseName(ed.Name)
		if err != nil {
			return file.File{}, errors.Wrapf(err, "exports[%d]", j)
		}
		f.Exports = append(f.Exports, file.Export{
			Name:       name,
			Path:       ed.Path,
			IsTypeOnly: ed.IsTypeOnly,
			AsAlias:    ed.AsAlias,
		})
	}

	return f, nil
}
