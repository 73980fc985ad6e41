// Package typescript prints resolved files as TypeScript modules.
package typescript

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
)

// ExtNames are the extensions the parser claims
var ExtNames = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts"}

// Parser prints TypeScript and JavaScript files
var Parser = fabric.DefineParser(fabric.ParserDef[struct{}]{
	Name:     "typescript",
	ExtNames: ExtNames,
	Parse:    Print,
})

// Print renders f: banner, imports, exports, source bodies, footer
func Print(_ context.Context, f *file.ResolvedFile, opts filemanager.PrintOptions) (string, error) {
	var header []string
	for _, imp := range f.Imports {
		header = append(header, PrintImport(imp, opts))
	}
	for _, exp := range f.Exports {
		header = append(header, PrintExport(exp, opts))
	}

	var body []string
	if len(header) > 0 {
		body = append(body, strings.Join(header, "\n"))
	}
	if text := file.SourceText(f.Sources); text != "" {
		body = append(body, text)
	}

	return filemanager.Wrap(f.Banner, strings.Join(body, "\n\n"), f.Footer) + "\n", nil
}

// PrintImport renders one import statement
func PrintImport(imp file.Import, opts filemanager.PrintOptions) string {
	p := imp.Path
	if imp.Root != "" {
		p = file.RelativePath(path.Dir(file.NormalizePath(imp.Root)), imp.Path)
	}
	p = rewriteExt(p, opts)

	keyword := "import"
	if imp.IsTypeOnly {
		keyword = "import type"
	}

	switch {
	case imp.Name.IsZero():
		return fmt.Sprintf("import %q;", p)
	case imp.Name.IsList():
		return fmt.Sprintf("%s { %s } from %q;", keyword, specifiers(imp.Name), p)
	case imp.IsNameSpace:
		return fmt.Sprintf("%s * as %s from %q;", keyword, imp.Name.Ident(), p)
	default:
		return fmt.Sprintf("%s %s from %q;", keyword, imp.Name.Ident(), p)
	}
}

// PrintExport renders one export statement
func PrintExport(exp file.Export, opts filemanager.PrintOptions) string {
	p := rewriteExt(exp.Path, opts)

	keyword := "export"
	if exp.IsTypeOnly {
		keyword = "export type"
	}

	switch {
	case exp.Name.IsZero():
		return fmt.Sprintf("%s * from %q;", keyword, p)
	case exp.Name.IsList():
		return fmt.Sprintf("%s { %s } from %q;", keyword, specifiers(exp.Name), p)
	case exp.AsAlias:
		return fmt.Sprintf("%s * as %s from %q;", keyword, exp.Name.Ident(), p)
	default:
		return fmt.Sprintf("%s { %s } from %q;", keyword, exp.Name.Ident(), p)
	}
}

func specifiers(n file.Name) string {
	specs := n.Specifiers()
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

// rewriteExt swaps the extension of a relative script module path when a
// mapping applies. Bare specifiers, extensionless paths and non-script
// modules (./data.json, ./pet.schema) are left alone.
func rewriteExt(p string, opts filemanager.PrintOptions) string {
	if !opts.Mapped {
		return p
	}
	if !strings.HasPrefix(p, "./") && !strings.HasPrefix(p, "../") {
		return p
	}
	ext := path.Ext(p)
	if !isScript(ext) {
		return p
	}
	return strings.TrimSuffix(p, ext) + opts.Extname
}

func isScript(ext string) bool {
	for _, e := range ExtNames {
		if e == ext {
			return true
		}
	}
	return false
}
