// Package loggerplugin reports lifecycle events through zap.
package loggerplugin

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
)

// Options configure the plugin
type Options struct {
	// Logger defaults to the installing fabric's logger.
	Logger *zap.SugaredLogger
	// Verbosity selects output categories, see logger.ShouldOutput.
	Verbosity int
}

// Plugin is the logger plugin
var Plugin = fabric.DefinePlugin(fabric.PluginDef[Options]{
	Name: "logger",
	Install: func(_ context.Context, c *fabric.Context, opts Options) error {
		log := opts.Logger
		if log == nil {
			log = c.Logger
		}
		attach(c.Events, log, opts.Verbosity)
		return nil
	},
})

func attach(events *event.Emitter, log *zap.SugaredLogger, verbosity int) {
	var started time.Time

	event.On(events, filemanager.EventStart, func(context.Context, struct{}) error {
		started = time.Now()
		log.Infow("Generation started")
		return nil
	})
	event.On(events, filemanager.EventEnd, func(context.Context, struct{}) error {
		fields := []interface{}{}
		if logger.ShouldOutput(verbosity, logger.OutputTiming) {
			fields = append(fields, logger.FieldDurationMS, time.Since(started).Milliseconds())
		}
		log.Infow("Generation finished", fields...)
		return nil
	})
	event.On(events, filemanager.EventRender, func(context.Context, struct{}) error {
		log.Debugw("Render requested")
		return nil
	})

	event.On(events, filemanager.EventFileAdd, func(_ context.Context, p filemanager.FilesPayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputEventFlow) {
			log.Debugw("Files added", logger.FieldCount, len(p.Files))
		}
		return nil
	})
	event.On(events, filemanager.EventWriteStart, func(_ context.Context, p filemanager.FilesPayload) error {
		log.Infow("Writing files", logger.FieldCount, len(p.Files))
		return nil
	})
	event.On(events, filemanager.EventWriteEnd, func(_ context.Context, p filemanager.FilesPayload) error {
		log.Infow("Files written", logger.FieldCount, len(p.Files))
		return nil
	})

	event.On(events, filemanager.EventProcessStart, func(_ context.Context, p filemanager.FilesPayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputProgress) {
			log.Infow("Processing files", logger.FieldTotalCount, len(p.Files))
		}
		return nil
	})
	event.On(events, filemanager.EventProcessEnd, func(_ context.Context, p filemanager.FilesPayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputProgress) {
			log.Infow("Processing finished", logger.FieldTotalCount, len(p.Files))
		}
		return nil
	})

	event.On(events, filemanager.EventFileStart, func(_ context.Context, p filemanager.FilePayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputFileEvents) {
			log.Debugw("File started", logger.FieldPath, p.File.Path, logger.FieldTotalCount, p.Total)
		}
		return nil
	})
	event.On(events, filemanager.EventFileEnd, func(_ context.Context, p filemanager.FilePayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputFileEvents) {
			log.Debugw("File finished", logger.FieldPath, p.File.Path)
		}
		return nil
	})
	event.On(events, filemanager.EventProcessProgress, func(_ context.Context, p filemanager.ProgressPayload) error {
		if logger.ShouldOutput(verbosity, logger.OutputProgress) {
			log.Infow("Progress",
				logger.FieldPath, p.File.Path,
				logger.FieldProcessed, p.Processed,
				logger.FieldTotalCount, p.Total,
				logger.FieldPercentage, p.Percentage,
				logger.FieldDryRun, p.DryRun,
			)
		}
		if logger.ShouldOutput(verbosity, logger.OutputDataDump) {
			log.Debugw("Printed file", logger.FieldPath, p.File.Path, "source", p.Source)
		}
		return nil
	})
}
