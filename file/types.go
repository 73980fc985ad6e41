package file

// Source is one declaration or code fragment destined for a file body.
type Source struct {
	Name         string `json:"name,omitempty"`
	Value        string `json:"value,omitempty"`
	IsExportable bool   `json:"isExportable,omitempty"`
	IsTypeOnly   bool   `json:"isTypeOnly,omitempty"`
	IsIndexable  bool   `json:"isIndexable,omitempty"`
}

// Import is a module dependency of a file.
// When Root is set, Path is printed relative to Root's directory.
type Import struct {
	Name        Name   `json:"name"`
	Path        string `json:"path"`
	Root        string `json:"root,omitempty"`
	IsTypeOnly  bool   `json:"isTypeOnly,omitempty"`
	IsNameSpace bool   `json:"isNameSpace,omitempty"`
}

// Export is a re-export declared by a file. A zero Name re-exports everything.
type Export struct {
	Name       Name   `json:"name"`
	Path       string `json:"path"`
	IsTypeOnly bool   `json:"isTypeOnly,omitempty"`
	AsAlias    bool   `json:"asAlias,omitempty"`
}

// File is a caller-authored description of one output file.
// Path is its identity; BaseName defaults to the last element of Path.
type File struct {
	Path     string         `json:"path"`
	BaseName string         `json:"baseName"`
	Sources  []Source       `json:"sources,omitempty"`
	Imports  []Import       `json:"imports,omitempty"`
	Exports  []Export       `json:"exports,omitempty"`
	Banner   string         `json:"banner,omitempty"`
	Footer   string         `json:"footer,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// ResolvedFile is a File after merge and de-duplication, ready for printing.
type ResolvedFile struct {
	File

	// ID is a content address derived from Path.
	ID string `json:"id"`
	// Name is BaseName without its extension.
	Name string `json:"name"`
	// Extname is the extension of BaseName, including the leading dot.
	Extname string `json:"extname"`
}

// Merge appends b's sources, imports and exports to a copy of a.
// a's banner, footer and meta win; b fills in the ones a lacks.
func Merge(a, b File) File {
	out := a
	out.Sources = append(append([]Source{}, a.Sources...), b.Sources...)
	out.Imports = append(append([]Import{}, a.Imports...), b.Imports...)
	out.Exports = append(append([]Export{}, a.Exports...), b.Exports...)
	if out.BaseName == "" {
		out.BaseName = b.BaseName
	}
	if out.Banner == "" {
		out.Banner = b.Banner
	}
	if out.Footer == "" {
		out.Footer = b.Footer
	}
	if len(b.Meta) > 0 {
		meta := make(map[string]any, len(a.Meta)+len(b.Meta))
		for k, v := range b.Meta {
			meta[k] = v
		}
		for k, v := range a.Meta {
			meta[k] = v
		}
		out.Meta = meta
	}
	return out
}
