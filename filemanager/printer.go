package filemanager

import (
	"context"
	"strings"

	"github.com/teranos/fabric/file"
)

// PrintOptions are passed to a Printer for one file
type PrintOptions struct {
	// Extname replaces the extension of printed import/export paths when
	// Mapped is set. Empty drops it.
	Extname string
	// Mapped is false when no extension mapping applies; paths print unchanged.
	Mapped bool
}

// Printer renders a resolved file to text
type Printer interface {
	Print(ctx context.Context, f *file.ResolvedFile, opts PrintOptions) (string, error)
}

// PrinterFunc adapts a function to Printer
type PrinterFunc func(ctx context.Context, f *file.ResolvedFile, opts PrintOptions) (string, error)

// Print calls fn
func (fn PrinterFunc) Print(ctx context.Context, f *file.ResolvedFile, opts PrintOptions) (string, error) {
	return fn(ctx, f, opts)
}

// DefaultPrinter joins source values with a blank line, wrapped by banner and footer
var DefaultPrinter Printer = PrinterFunc(func(_ context.Context, f *file.ResolvedFile, _ PrintOptions) (string, error) {
	return Wrap(f.Banner, file.SourceText(f.Sources), f.Footer), nil
})

// Wrap places banner and footer around body, skipping whichever is empty
func Wrap(banner, body, footer string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{banner, body, footer} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}
