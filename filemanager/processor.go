package filemanager

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/logger"
)

// DefaultConcurrency bounds in-flight files in parallel mode
const DefaultConcurrency = 100

const tracerName = "github.com/teranos/fabric/filemanager"

// ProcessOptions configure one processing pass
type ProcessOptions struct {
	// Parsers maps a file extension (".ts") to its printer.
	Parsers map[string]Printer
	// Extension maps a file extension to the one used in printed paths.
	// Files whose extension has no entry print their paths unchanged.
	Extension map[string]string
	// DryRun prints and emits every event but asks writers not to write.
	DryRun bool
	// Mode is Sequential (default) or Parallel.
	Mode event.Mode
	// Concurrency limits parallel mode. Zero means DefaultConcurrency.
	Concurrency int
}

// Processor prints files and reports progress through the emitter
type Processor struct {
	events *event.Emitter
	logger *zap.SugaredLogger
	tracer trace.Tracer
}

// NewProcessor creates a processor that emits on events
func NewProcessor(events *event.Emitter, log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = logger.ComponentLogger("processor")
	}
	return &Processor{
		events: events,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
}

// Run processes files. process:start and process:end bracket the pass even
// when files is empty. The first printer or listener error aborts the pass.
func (p *Processor) Run(ctx context.Context, files []*file.ResolvedFile, opts ProcessOptions) error {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "fabric.process", trace.WithAttributes(
		attribute.Int("fabric.files", len(files)),
		attribute.Bool("fabric.dry_run", opts.DryRun),
		attribute.String("fabric.mode", string(opts.Mode)),
	))
	defer span.End()

	if err := event.Emit(ctx, p.events, EventProcessStart, FilesPayload{Files: files}); err != nil {
		return p.fail(span, errors.Wrap(err, "process:start listener failed"))
	}

	total := len(files)
	var processed atomic.Int64

	handle := func(ctx context.Context, index int, f *file.ResolvedFile) error {
		ctx, fileSpan := p.tracer.Start(ctx, "fabric.file", trace.WithAttributes(
			attribute.String("fabric.path", f.Path),
			attribute.String("fabric.extname", f.Extname),
		))
		defer fileSpan.End()

		if err := event.Emit(ctx, p.events, EventFileStart, FilePayload{File: f, Index: index, Total: total}); err != nil {
			return p.fail(fileSpan, errors.Wrapf(err, "file:start listener failed for %s", f.Path))
		}

		source, err := p.print(ctx, f, opts)
		if err != nil {
			err = errors.Wrapf(err, "failed to print %s", f.Path)
			err = errors.WithDetail(err, fmt.Sprintf("Extname: %s", f.Extname))
			return p.fail(fileSpan, err)
		}

		n := int(processed.Add(1))
		progress := ProgressPayload{
			File:       f,
			Source:     source,
			Processed:  n,
			Total:      total,
			Percentage: float64(n) / float64(total) * 100,
			DryRun:     opts.DryRun,
		}
		if err := event.Emit(ctx, p.events, EventProcessProgress, progress); err != nil {
			return p.fail(fileSpan, errors.Wrapf(err, "process:progress listener failed for %s", f.Path))
		}

		if err := event.Emit(ctx, p.events, EventFileEnd, FilePayload{File: f, Index: index, Total: total}); err != nil {
			return p.fail(fileSpan, errors.Wrapf(err, "file:end listener failed for %s", f.Path))
		}
		return nil
	}

	var err error
	if opts.Mode == event.Parallel {
		limit := opts.Concurrency
		if limit <= 0 {
			limit = DefaultConcurrency
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for i, f := range files {
			g.Go(func() error {
				return handle(gctx, i, f)
			})
		}
		err = g.Wait()
	} else {
		for i, f := range files {
			if err = handle(ctx, i, f); err != nil {
				break
			}
		}
	}
	if err != nil {
		return p.fail(span, err)
	}

	if err := event.Emit(ctx, p.events, EventProcessEnd, FilesPayload{Files: files}); err != nil {
		return p.fail(span, errors.Wrap(err, "process:end listener failed"))
	}

	p.logger.Debugw("Processed files",
		logger.FieldCount, total,
		logger.FieldMode, string(opts.Mode),
		logger.FieldDryRun, opts.DryRun,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Processor) print(ctx context.Context, f *file.ResolvedFile, opts ProcessOptions) (string, error) {
	po := PrintOptions{}
	if mapped, ok := opts.Extension[f.Extname]; ok {
		po = PrintOptions{Extname: mapped, Mapped: true}
	}

	printer, ok := opts.Parsers[f.Extname]
	if !ok || printer == nil {
		p.logger.Warnw("No parser registered for extension, using default printer",
			logger.FieldPath, f.Path,
			logger.FieldExtname, f.Extname,
		)
		printer = DefaultPrinter
	}

	return printer.Print(ctx, f, po)
}

func (p *Processor) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
