package file

import (
	"path"
	"strings"
)

// NormalizePath converts Windows separators to forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// TrimExtName removes the last extension from p: "src/pet.ts" -> "src/pet".
func TrimExtName(p string) string {
	ext := path.Ext(p)
	if ext == "" || strings.HasSuffix(p, "/"+ext) || p == ext {
		return p
	}
	return strings.TrimSuffix(p, ext)
}

// IsIndex reports whether p names a barrel file (base name "index" plus extension).
func IsIndex(p string) bool {
	base := path.Base(NormalizePath(p))
	return TrimExtName(base) == "index" && path.Ext(base) != ""
}

// RelativePath returns filePath relative to rootDir as an import specifier,
// prefixed with "./" unless it already climbs out with "../".
func RelativePath(rootDir, filePath string) string {
	rel := relative(path.Clean(NormalizePath(rootDir)), path.Clean(NormalizePath(filePath)))
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return rel
	}
	return "./" + rel
}

// relative computes a forward-slash relative path between two cleaned paths.
func relative(from, to string) string {
	if from == "." {
		from = ""
	}
	if to == "." {
		to = ""
	}
	fromParts := splitPath(from)
	toParts := splitPath(to)

	i := 0
	for i < len(fromParts) && i < len(toParts) && fromParts[i] == toParts[i] {
		i++
	}

	parts := make([]string, 0, len(fromParts)-i+len(toParts)-i)
	for range fromParts[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
