package file

import (
	"sort"
	"strings"
)

type sourceKey struct {
	id         string
	unnamed    bool
	exportable bool
	typeOnly   bool
}

// CombineSources drops later sources that repeat an earlier one's
// (name, isExportable, isTypeOnly). Unnamed sources are keyed by value.
func CombineSources(sources []Source) []Source {
	seen := make(map[sourceKey]struct{}, len(sources))
	out := make([]Source, 0, len(sources))

	for _, s := range sources {
		k := sourceKey{id: s.Name, exportable: s.IsExportable, typeOnly: s.IsTypeOnly}
		if s.Name == "" {
			k.id = s.Value
			k.unnamed = true
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}

	return out
}

// declaration is the shape shared by imports and exports during sorting.
type declaration struct {
	name     Name
	path     string
	typeOnly bool
}

// less orders declarations: list names first, value forms before type-only,
// then path, absent names first, then the sorted name.
func less(a, b declaration) bool {
	if a.name.IsList() != b.name.IsList() {
		return a.name.IsList()
	}
	if a.typeOnly != b.typeOnly {
		return !a.typeOnly
	}
	if a.path != b.path {
		return a.path < b.path
	}
	if a.name.IsZero() != b.name.IsZero() {
		return a.name.IsZero()
	}
	return a.name.sortKey() < b.name.sortKey()
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func joinKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// CombineExports sorts and folds exports into a minimal, duplicate-free set.
func CombineExports(exports []Export) []Export {
	sorted := append([]Export{}, exports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(
			declaration{sorted[i].Name, sorted[i].Path, sorted[i].IsTypeOnly},
			declaration{sorted[j].Name, sorted[j].Path, sorted[j].IsTypeOnly},
		)
	})

	result := make([]Export, 0, len(sorted))
	byPath := make(map[string]int)
	typeOnly := make(map[string]struct{})
	unique := make(map[string]struct{})

	register := func(i int) {
		e := result[i]
		byPath[e.Path] = i
		unique[joinKey(e.Path, e.Name.key(), flag(e.IsTypeOnly), flag(e.AsAlias))] = struct{}{}
		if e.IsTypeOnly {
			typeOnly[joinKey(e.Path, e.Name.key())] = struct{}{}
		}
	}

	for _, curr := range sorted {
		name := curr.Name.unique()

		if _, ok := typeOnly[joinKey(curr.Path, name.key())]; ok {
			continue
		}
		if _, ok := unique[joinKey(curr.Path, name.key(), flag(curr.IsTypeOnly), flag(curr.AsAlias))]; ok {
			continue
		}
		if name.IsList() && name.Len() == 0 {
			continue
		}

		prev, hasPrev := byPath[curr.Path]
		if hasPrev && result[prev].AsAlias && !curr.AsAlias {
			continue
		}

		switch {
		case !hasPrev:
			curr.Name = name
			result = append(result, curr)
			register(len(result) - 1)
		case result[prev].Name.IsList() && name.IsList() && result[prev].IsTypeOnly == curr.IsTypeOnly:
			result[prev].Name = result[prev].Name.union(name)
			register(prev)
		default:
			curr.Name = name
			result = append(result, curr)
			register(len(result) - 1)
		}
	}

	return dropShadowedExports(result, typeOnly)
}

// dropShadowedExports removes value-form exports whose path and name are
// covered by a type-only export, including names produced by a union.
func dropShadowedExports(exports []Export, typeOnly map[string]struct{}) []Export {
	out := exports[:0]
	for _, e := range exports {
		if _, ok := typeOnly[joinKey(e.Path, e.Name.key())]; ok && !e.IsTypeOnly {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CombineImports sorts and folds imports into a minimal, duplicate-free set.
// When source is non-empty, names that occur neither in source nor among the
// exported names are stripped first.
func CombineImports(imports []Import, exports []Export, source string) []Import {
	exported := make(map[string]struct{})
	for _, e := range exports {
		for _, id := range e.Name.Identifiers() {
			exported[id] = struct{}{}
		}
	}

	usage := make(map[string]bool)
	used := func(name string) bool {
		if source == "" {
			return true
		}
		if v, ok := usage[name]; ok {
			return v
		}
		_, isExported := exported[name]
		v := isExported || strings.Contains(source, name)
		usage[name] = v
		return v
	}

	sorted := append([]Import{}, imports...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(
			declaration{sorted[i].Name, sorted[i].Path, sorted[i].IsTypeOnly},
			declaration{sorted[j].Name, sorted[j].Path, sorted[j].IsTypeOnly},
		)
	})

	result := make([]Import, 0, len(sorted))
	byPath := make(map[string]int)
	typeOnly := make(map[string]struct{})
	unique := make(map[string]struct{})

	register := func(i int) {
		imp := result[i]
		byPath[joinKey(imp.Path, flag(imp.IsTypeOnly))] = i
		unique[joinKey(imp.Path, imp.Name.key(), flag(imp.IsTypeOnly))] = struct{}{}
		if imp.IsTypeOnly {
			typeOnly[joinKey(imp.Path, imp.Name.key())] = struct{}{}
		}
	}

	for _, curr := range sorted {
		if curr.Root != "" && curr.Root == curr.Path {
			continue
		}

		name := curr.Name.unique()
		if name.IsList() {
			name = name.filter(func(s Specifier) bool { return used(s.Local()) })
		} else if name.Ident() != "" && !used(name.Ident()) {
			continue
		}

		if _, ok := typeOnly[joinKey(curr.Path, name.key())]; ok {
			continue
		}
		if _, ok := unique[joinKey(curr.Path, name.key(), flag(curr.IsTypeOnly))]; ok {
			continue
		}
		if name.IsList() && name.Len() == 0 {
			continue
		}

		prev, hasPrev := byPath[joinKey(curr.Path, flag(curr.IsTypeOnly))]
		switch {
		case !hasPrev:
			curr.Name = name
			result = append(result, curr)
			register(len(result) - 1)
		case result[prev].Name.IsList() && name.IsList():
			result[prev].Name = result[prev].Name.union(name)
			register(prev)
		default:
			curr.Name = name
			result = append(result, curr)
			register(len(result) - 1)
		}
	}

	return dropShadowedImports(result, typeOnly)
}

// dropShadowedImports removes value-form imports whose path and name are
// covered by a type-only import, including names produced by a union.
func dropShadowedImports(imports []Import, typeOnly map[string]struct{}) []Import {
	out := imports[:0]
	for _, imp := range imports {
		if _, ok := typeOnly[joinKey(imp.Path, imp.Name.key())]; ok && !imp.IsTypeOnly {
			continue
		}
		out = append(out, imp)
	}
	return out
}
