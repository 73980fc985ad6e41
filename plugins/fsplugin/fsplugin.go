// Package fsplugin writes printed files to disk and injects the "write" capability.
package fsplugin

import (
	"context"

	"github.com/spf13/afero"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
	"github.com/teranos/fabric/writer"
)

// Capability is the name of the injected WriteFunc
const Capability = "write"

// WriteFunc runs a write pass with the plugin's dry-run setting applied
type WriteFunc func(ctx context.Context, opts filemanager.ProcessOptions) ([]*file.ResolvedFile, error)

// Options configure the plugin
type Options struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// DryRun prints without writing.
	DryRun bool
	// Clean is a directory removed when the plugin is installed.
	Clean string
	// Sanity re-reads every written file.
	Sanity bool
	// OnBeforeWrite runs before each write; an error aborts the pass.
	OnBeforeWrite func(path, source string) error
}

// Plugin is the filesystem plugin
var Plugin = fabric.DefinePlugin(fabric.PluginDef[Options]{
	Name: "fs",
	Inject: func(_ context.Context, c *fabric.Context, opts Options) (fabric.Capabilities, error) {
		write := WriteFunc(func(ctx context.Context, po filemanager.ProcessOptions) ([]*file.ResolvedFile, error) {
			po.DryRun = po.DryRun || opts.DryRun
			return c.Fabric.Write(ctx, po)
		})
		return fabric.Capabilities{Capability: write}, nil
	},
	Install: install,
})

func install(ctx context.Context, c *fabric.Context, opts Options) error {
	w := writer.New(opts.Fs, c.Logger)

	if opts.Clean != "" && !opts.DryRun {
		if err := w.Clean(opts.Clean); err != nil {
			return err
		}
	}

	event.On(c.Events, filemanager.EventProcessProgress, func(_ context.Context, p filemanager.ProgressPayload) error {
		if p.DryRun || opts.DryRun {
			return nil
		}

		if opts.OnBeforeWrite != nil {
			if err := opts.OnBeforeWrite(p.File.Path, p.Source); err != nil {
				return errors.Wrapf(err, "before write hook failed for %s", p.File.Path)
			}
		}

		wrote, err := w.Write(p.File.Path, p.Source, writer.Options{Sanity: opts.Sanity})
		if err != nil {
			return err
		}
		if wrote {
			c.Logger.Debugw("Wrote file",
				logger.FieldPath, p.File.Path,
				logger.FieldSize, len(p.Source),
			)
		}
		return nil
	})
	return nil
}
