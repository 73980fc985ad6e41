package tree

import (
	"path"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/file"
)

// Mode selects how barrel files re-export their directory
type Mode string

const (
	// ModeAll re-exports each file with a wildcard.
	ModeAll Mode = "all"
	// ModeNamed re-exports each exportable source by name.
	ModeNamed Mode = "named"
	// ModePropagate and ModeOff generate no barrels.
	ModePropagate Mode = "propagate"
	ModeOff       Mode = "off"
)

// ParseMode converts a configuration string into a Mode.
// "false" and "" mean ModeOff.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModeNamed, ModePropagate, ModeOff:
		return Mode(s), nil
	case "", "false":
		return ModeOff, nil
	default:
		return "", errors.Newf("unknown barrel mode %q (expected all, named, propagate or off)", s)
	}
}

// BarrelOptions configure barrel generation
type BarrelOptions struct {
	Root string
	Mode Mode
	// Extension of generated barrels, ".ts" when empty.
	Extension string
}

func (o BarrelOptions) extension() string {
	if o.Extension == "" {
		return ".ts"
	}
	return o.Extension
}

// BarrelFiles returns an index file for every directory under opts.Root,
// parents before children. Directories without exportable sources get none.
func BarrelFiles(files []*file.ResolvedFile, opts BarrelOptions) []file.File {
	if opts.Mode != ModeAll && opts.Mode != ModeNamed {
		return nil
	}
	root := FromFiles(files, opts.Root)
	if root == nil {
		return nil
	}

	var barrels []file.File
	root.Walk(func(n *TreeNode) {
		if n.Data.Kind != KindDirectory {
			return
		}
		if b, ok := barrelFor(n, opts); ok {
			barrels = append(barrels, b)
		}
	})
	return barrels
}

// EntryBarrel returns the single index file for opts.Root
func EntryBarrel(files []*file.ResolvedFile, opts BarrelOptions) (file.File, bool) {
	if opts.Mode != ModeAll && opts.Mode != ModeNamed {
		return file.File{}, false
	}
	root := FromFiles(files, opts.Root)
	if root == nil {
		return file.File{}, false
	}
	return barrelFor(root, opts)
}

func barrelFor(dir *TreeNode, opts BarrelOptions) (file.File, bool) {
	baseName := "index" + opts.extension()
	barrelPath := path.Join(dir.Data.Path, baseName)

	barrel := file.File{Path: barrelPath, BaseName: baseName}
	seen := make(map[string]struct{})

	for _, leaf := range dir.Leaves() {
		f := leaf.Data.File
		if f == nil || f.Path == barrelPath {
			continue
		}

		var values, types []string
		for _, s := range f.Sources {
			if !s.IsExportable || s.Name == "" {
				continue
			}
			if opts.Mode == ModeNamed {
				if _, dup := seen[s.Name]; dup {
					continue
				}
				seen[s.Name] = struct{}{}
				if s.IsTypeOnly {
					types = append(types, s.Name)
				} else {
					values = append(values, s.Name)
				}
			}
			barrel.Sources = append(barrel.Sources, file.Source{
				Name:         s.Name,
				IsTypeOnly:   s.IsTypeOnly,
				IsExportable: true,
				IsIndexable:  true,
			})
		}

		rel := file.RelativePath(dir.Data.Path, f.Path)
		switch opts.Mode {
		case ModeAll:
			if hasExportable(f.Sources) {
				barrel.Exports = append(barrel.Exports, file.Export{Path: rel})
			}
		case ModeNamed:
			if len(values) > 0 {
				barrel.Exports = append(barrel.Exports, file.Export{Name: file.List(values...), Path: rel})
			}
			if len(types) > 0 {
				barrel.Exports = append(barrel.Exports, file.Export{Name: file.List(types...), Path: rel, IsTypeOnly: true})
			}
		}
	}

	return barrel, len(barrel.Exports) > 0
}

func hasExportable(sources []file.Source) bool {
	for _, s := range sources {
		if s.IsExportable {
			return true
		}
	}
	return false
}
