package file

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/teranos/fabric/errors"
)

// Specifier is one member of a list-valued import or export name.
// PropertyName is the exported identifier; Name is an optional local alias.
type Specifier struct {
	PropertyName string `json:"propertyName"`
	Name         string `json:"name,omitempty"`
}

// Local returns the identifier the specifier binds in the importing module.
func (s Specifier) Local() string {
	if s.Name != "" {
		return s.Name
	}
	return s.PropertyName
}

// String renders the specifier the way it appears inside braces.
func (s Specifier) String() string {
	if s.Name != "" && s.Name != s.PropertyName {
		return s.PropertyName + " as " + s.Name
	}
	return s.PropertyName
}

// Name is either a single identifier or an ordered list of specifiers.
// The zero Name is absent (a bare re-export or a side-effect import).
type Name struct {
	ident  string
	list   []Specifier
	isList bool
}

// Ident returns a single-identifier name.
func Ident(ident string) Name {
	return Name{ident: ident}
}

// List returns a list-valued name of plain identifiers.
func List(names ...string) Name {
	specs := make([]Specifier, 0, len(names))
	for _, n := range names {
		specs = append(specs, Specifier{PropertyName: n})
	}
	return Name{list: specs, isList: true}
}

// Specifiers returns a list-valued name from explicit specifiers.
func Specifiers(specs ...Specifier) Name {
	return Name{list: append([]Specifier{}, specs...), isList: true}
}

// IsList reports whether the name is list-valued.
func (n Name) IsList() bool { return n.isList }

// IsZero reports whether the name is absent.
func (n Name) IsZero() bool { return !n.isList && n.ident == "" }

// Ident returns the single identifier, or "" for list-valued names.
func (n Name) Ident() string { return n.ident }

// Specifiers returns a copy of the list members.
func (n Name) Specifiers() []Specifier {
	if !n.isList {
		return nil
	}
	return append([]Specifier{}, n.list...)
}

// Len returns the number of list members, or 1 for a present identifier.
func (n Name) Len() int {
	if n.isList {
		return len(n.list)
	}
	if n.ident == "" {
		return 0
	}
	return 1
}

// Identifiers returns every identifier the name mentions, aliases included.
func (n Name) Identifiers() []string {
	if !n.isList {
		if n.ident == "" {
			return nil
		}
		return []string{n.ident}
	}
	out := make([]string, 0, len(n.list))
	for _, s := range n.list {
		out = append(out, s.PropertyName)
		if s.Name != "" && s.Name != s.PropertyName {
			out = append(out, s.Name)
		}
	}
	return out
}

// Equal compares two names with set semantics for lists.
func (n Name) Equal(o Name) bool {
	return n.key() == o.key()
}

// String renders the name for diagnostics.
func (n Name) String() string {
	if !n.isList {
		return n.ident
	}
	parts := make([]string, 0, len(n.list))
	for _, s := range n.list {
		parts = append(parts, s.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// unique drops repeated list members, keeping first occurrences.
func (n Name) unique() Name {
	if !n.isList {
		return n
	}
	seen := make(map[Specifier]struct{}, len(n.list))
	out := make([]Specifier, 0, len(n.list))
	for _, s := range n.list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return Name{list: out, isList: true}
}

// union appends the members of o that n does not have yet.
func (n Name) union(o Name) Name {
	merged := make([]Specifier, 0, len(n.list)+len(o.list))
	merged = append(merged, n.list...)
	merged = append(merged, o.list...)
	return Name{list: merged, isList: true}.unique()
}

// filter keeps list members accepted by keep.
func (n Name) filter(keep func(Specifier) bool) Name {
	out := make([]Specifier, 0, len(n.list))
	for _, s := range n.list {
		if keep(s) {
			out = append(out, s)
		}
	}
	return Name{list: out, isList: true}
}

// sortKey orders names for deterministic processing; list members are sorted first.
func (n Name) sortKey() string {
	if !n.isList {
		return n.ident
	}
	parts := make([]string, 0, len(n.list))
	for _, s := range n.list {
		parts = append(parts, s.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// key identifies the name for duplicate detection.
func (n Name) key() string {
	if !n.isList {
		return "s:" + n.ident
	}
	return "l:" + n.sortKey()
}

// MarshalJSON encodes a list as an array (plain strings for unaliased members),
// an identifier as a string, and an absent name as null.
func (n Name) MarshalJSON() ([]byte, error) {
	if !n.isList {
		if n.ident == "" {
			return []byte("null"), nil
		}
		return json.Marshal(n.ident)
	}
	items := make([]any, 0, len(n.list))
	for _, s := range n.list {
		if s.Name == "" {
			items = append(items, s.PropertyName)
			continue
		}
		items = append(items, s)
	}
	return json.Marshal(items)
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (n *Name) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseName(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseName converts a decoded JSON/YAML/TOML value into a Name:
// nil, a string, or a list of strings and {propertyName, name} objects.
func ParseName(raw any) (Name, error) {
	switch v := raw.(type) {
	case nil:
		return Name{}, nil
	case string:
		return Ident(v), nil
	case []any:
		specs := make([]Specifier, 0, len(v))
		for i, item := range v {
			switch it := item.(type) {
			case string:
				specs = append(specs, Specifier{PropertyName: it})
			case map[string]any:
				prop, _ := it["propertyName"].(string)
				alias, _ := it["name"].(string)
				if prop == "" {
					return Name{}, errors.Newf("name[%d]: propertyName is required", i)
				}
				specs = append(specs, Specifier{PropertyName: prop, Name: alias})
			default:
				return Name{}, errors.Newf("name[%d]: unsupported specifier type %T", i, item)
			}
		}
		return Specifiers(specs...), nil
	case []string:
		return List(v...), nil
	default:
		return Name{}, errors.Newf("unsupported name type %T", raw)
	}
}
