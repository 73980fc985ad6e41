// Package fabric wires the file manager, event pipeline and extension
// registry into a single orchestrator.
package fabric

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
	"github.com/teranos/fabric/observable"
)

// Progress is the latest processing progress
type Progress struct {
	Path       string
	Processed  int
	Total      int
	Percentage float64
}

// Fabric is the orchestrator handle
type Fabric struct {
	events  *event.Emitter
	manager *filemanager.Manager
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	installed map[Extension]struct{}
	parsers   map[string]*Parser
	caps      Capabilities

	progress *observable.Value[Progress]
}

// Option configures a Fabric
type Option func(*config)

type config struct {
	events    *event.Emitter
	eventMode event.Mode
	logger    *zap.SugaredLogger
}

// WithEvents uses an existing emitter
func WithEvents(e *event.Emitter) Option {
	return func(c *config) {
		c.events = e
	}
}

// WithEventMode selects the emitter mode when no emitter is supplied
func WithEventMode(mode event.Mode) Option {
	return func(c *config) {
		c.eventMode = mode
	}
}

// WithLogger sets the orchestrator logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an orchestrator with no extensions installed
func New(opts ...Option) *Fabric {
	cfg := config{eventMode: event.Sequential}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.ComponentLogger("fabric")
	}
	if cfg.events == nil {
		cfg.events = event.NewEmitter(event.WithMode(cfg.eventMode), event.WithLogger(cfg.logger))
	}

	f := &Fabric{
		events:    cfg.events,
		manager:   filemanager.New(cfg.events, filemanager.WithLogger(cfg.logger)),
		logger:    cfg.logger,
		installed: make(map[Extension]struct{}),
		parsers:   make(map[string]*Parser),
		caps:      make(Capabilities),
		progress:  observable.New(Progress{}),
	}

	event.On(f.events, filemanager.EventProcessStart, func(_ context.Context, p filemanager.FilesPayload) error {
		f.progress.Set(Progress{Total: len(p.Files)})
		return nil
	})
	event.On(f.events, filemanager.EventProcessProgress, func(_ context.Context, p filemanager.ProgressPayload) error {
		f.progress.Set(Progress{
			Path:       p.File.Path,
			Processed:  p.Processed,
			Total:      p.Total,
			Percentage: p.Percentage,
		})
		return nil
	})

	return f
}

// Events returns the lifecycle emitter
func (f *Fabric) Events() *event.Emitter {
	return f.events
}

// FileManager returns the file manager
func (f *Fabric) FileManager() *filemanager.Manager {
	return f.manager
}

// Progress returns the observable processing progress
func (f *Fabric) Progress() *observable.Value[Progress] {
	return f.progress
}

// Use installs ext with optional options. Using the same extension twice is
// a no-op. A parser claiming an extension that another parser already owns
// takes it over.
func (f *Fabric) Use(ctx context.Context, ext Extension, options ...any) error {
	if ext == nil {
		return errors.NewInvalidRequestError("use: extension is nil")
	}

	var opts any
	if len(options) > 0 {
		opts = options[0]
	}

	f.mu.Lock()
	_, done := f.installed[ext]
	f.mu.Unlock()
	if done {
		f.logger.Warnw("Extension already installed, skipping",
			extensionField(ext), ext.ExtensionName(),
		)
		return nil
	}

	c := &Context{
		Fabric:      f,
		Events:      f.events,
		FileManager: f.manager,
		Logger:      f.logger.With(extensionField(ext), ext.ExtensionName()),
	}

	switch ext.Type() {
	case TypePlugin:
		p, ok := ext.(*Plugin)
		if !ok {
			return errors.Newf("extension %s: type plugin must be a *Plugin, got %T", ext.ExtensionName(), ext)
		}
		if err := f.usePlugin(ctx, c, p, opts); err != nil {
			return err
		}
	case TypeParser:
		p, ok := ext.(*Parser)
		if !ok {
			return errors.Newf("extension %s: type parser must be a *Parser, got %T", ext.ExtensionName(), ext)
		}
		if err := f.useParser(ctx, c, p, opts); err != nil {
			return err
		}
	default:
		return errors.Newf("extension %s: unknown type %q", ext.ExtensionName(), ext.Type())
	}

	f.mu.Lock()
	f.installed[ext] = struct{}{}
	f.mu.Unlock()

	f.logger.Debugw("Installed extension",
		extensionField(ext), ext.ExtensionName(),
	)
	return nil
}

func (f *Fabric) usePlugin(ctx context.Context, c *Context, p *Plugin, opts any) error {
	if p.Inject != nil {
		caps, err := p.Inject(ctx, c, opts)
		if err != nil {
			err = errors.Wrapf(err, "plugin %s: inject failed", p.Name)
			return errors.WithDetail(err, fmt.Sprintf("Plugin: %s", p.Name))
		}
		f.merge(p.Name, caps)
	}

	if p.Install != nil {
		if err := p.Install(ctx, c, opts); err != nil {
			err = errors.Wrapf(err, "plugin %s: install failed", p.Name)
			return errors.WithDetail(err, fmt.Sprintf("Plugin: %s", p.Name))
		}
	}
	return nil
}

func (f *Fabric) useParser(ctx context.Context, c *Context, p *Parser, opts any) error {
	if p.Install != nil {
		if err := p.Install(ctx, c, opts); err != nil {
			err = errors.Wrapf(err, "parser %s: install failed", p.Name)
			return errors.WithDetail(err, fmt.Sprintf("Parser: %s", p.Name))
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ext := range p.ExtNames {
		if prev, ok := f.parsers[ext]; ok && prev != p {
			f.logger.Warnw("Parser overrides extension",
				logger.FieldParser, p.Name,
				logger.FieldExtname, ext,
				"previous_parser", prev.Name,
			)
		}
		f.parsers[ext] = p
	}
	return nil
}

func (f *Fabric) merge(plugin string, caps Capabilities) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for name, v := range caps {
		if _, exists := f.caps[name]; exists {
			f.logger.Warnw("Capability replaced",
				logger.FieldPlugin, plugin,
				"capability", name,
			)
		}
		f.caps[name] = v
	}
}

// Parsers returns the printer for each claimed extension
func (f *Fabric) Parsers() map[string]filemanager.Printer {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]filemanager.Printer, len(f.parsers))
	for ext, p := range f.parsers {
		out[ext] = p
	}
	return out
}

// Parser returns the parser owning ext, or nil
func (f *Fabric) Parser(ext string) *Parser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parsers[ext]
}

// AddFile adds files to the file manager
func (f *Fabric) AddFile(ctx context.Context, files ...file.File) ([]*file.ResolvedFile, error) {
	return f.manager.Add(ctx, files...)
}

// Files returns the cached files in write order
func (f *Fabric) Files() []*file.ResolvedFile {
	return f.manager.Files()
}

// Write runs a processing pass bracketed by start and end events.
// Registered parsers are used unless opts.Parsers is set.
func (f *Fabric) Write(ctx context.Context, opts filemanager.ProcessOptions) ([]*file.ResolvedFile, error) {
	if opts.Parsers == nil {
		opts.Parsers = f.Parsers()
	}

	if err := event.Emit(ctx, f.events, filemanager.EventStart, struct{}{}); err != nil {
		return nil, errors.Wrap(err, "start listener failed")
	}

	files, err := f.manager.Write(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := event.Emit(ctx, f.events, filemanager.EventEnd, struct{}{}); err != nil {
		return files, errors.Wrap(err, "end listener failed")
	}

	f.logger.Infow("Write complete",
		logger.FieldCount, len(files),
		logger.FieldDryRun, opts.DryRun,
	)
	return files, nil
}

// Capabilities returns the sorted names of injected capabilities
func (f *Fabric) Capabilities() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.caps))
	for name := range f.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func extensionField(ext Extension) string {
	if ext.Type() == TypeParser {
		return logger.FieldParser
	}
	return logger.FieldPlugin
}
