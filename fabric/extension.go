package fabric

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
)

// ExtensionType tags the two kinds of extension
type ExtensionType string

const (
	TypePlugin ExtensionType = "plugin"
	TypeParser ExtensionType = "parser"
)

// Extension is a *Plugin or a *Parser. Identity is the pointer.
type Extension interface {
	Type() ExtensionType
	ExtensionName() string
}

// Context is handed to Install and Inject
type Context struct {
	Fabric      *Fabric
	Events      *event.Emitter
	FileManager *filemanager.Manager
	Logger      *zap.SugaredLogger
}

// Plugin extends the orchestrator. Inject returns capabilities that are
// merged before Install runs.
type Plugin struct {
	Name    string
	Install func(ctx context.Context, c *Context, options any) error
	Inject  func(ctx context.Context, c *Context, options any) (Capabilities, error)
}

// Type returns TypePlugin
func (p *Plugin) Type() ExtensionType { return TypePlugin }

// ExtensionName returns the plugin name
func (p *Plugin) ExtensionName() string { return p.Name }

// Parser prints files whose extension is one of ExtNames
type Parser struct {
	Name     string
	ExtNames []string
	Install  func(ctx context.Context, c *Context, options any) error
	Parse    func(ctx context.Context, f *file.ResolvedFile, opts filemanager.PrintOptions) (string, error)
}

// Type returns TypeParser
func (p *Parser) Type() ExtensionType { return TypeParser }

// ExtensionName returns the parser name
func (p *Parser) ExtensionName() string { return p.Name }

// Print implements filemanager.Printer
func (p *Parser) Print(ctx context.Context, f *file.ResolvedFile, opts filemanager.PrintOptions) (string, error) {
	if p.Parse == nil {
		return filemanager.DefaultPrinter.Print(ctx, f, opts)
	}
	return p.Parse(ctx, f, opts)
}

// PluginDef describes a plugin with typed options
type PluginDef[O any] struct {
	Name    string
	Install func(ctx context.Context, c *Context, options O) error
	Inject  func(ctx context.Context, c *Context, options O) (Capabilities, error)
}

// DefinePlugin builds a Plugin whose hooks receive options as O
func DefinePlugin[O any](def PluginDef[O]) *Plugin {
	p := &Plugin{Name: def.Name}
	if def.Install != nil {
		p.Install = func(ctx context.Context, c *Context, raw any) error {
			opts, err := optionsAs[O](def.Name, raw)
			if err != nil {
				return err
			}
			return def.Install(ctx, c, opts)
		}
	}
	if def.Inject != nil {
		p.Inject = func(ctx context.Context, c *Context, raw any) (Capabilities, error) {
			opts, err := optionsAs[O](def.Name, raw)
			if err != nil {
				return nil, err
			}
			return def.Inject(ctx, c, opts)
		}
	}
	return p
}

// ParserDef describes a parser with typed options
type ParserDef[O any] struct {
	Name     string
	ExtNames []string
	Install  func(ctx context.Context, c *Context, options O) error
	Parse    func(ctx context.Context, f *file.ResolvedFile, opts filemanager.PrintOptions) (string, error)
}

// DefineParser builds a Parser whose Install receives options as O
func DefineParser[O any](def ParserDef[O]) *Parser {
	p := &Parser{
		Name:     def.Name,
		ExtNames: append([]string{}, def.ExtNames...),
		Parse:    def.Parse,
	}
	if def.Install != nil {
		p.Install = func(ctx context.Context, c *Context, raw any) error {
			opts, err := optionsAs[O](def.Name, raw)
			if err != nil {
				return err
			}
			return def.Install(ctx, c, opts)
		}
	}
	return p
}

// optionsAs accepts nil (zero O), an O, or a *O
func optionsAs[O any](name string, raw any) (O, error) {
	var zero O
	switch v := raw.(type) {
	case nil:
		return zero, nil
	case O:
		return v, nil
	case *O:
		if v == nil {
			return zero, nil
		}
		return *v, nil
	default:
		return zero, errors.Newf("extension %s: options must be %T, got %T", name, zero, raw)
	}
}
