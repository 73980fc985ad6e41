// Package barrelplugin adds index files that re-export generated modules.
package barrelplugin

import (
	"context"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
	"github.com/teranos/fabric/tree"
)

// Capability is the name of the injected WriteEntryFunc
const Capability = "writeEntry"

// WriteEntryFunc adds a single barrel at root re-exporting every file below it
type WriteEntryFunc func(ctx context.Context, root string, mode tree.Mode) error

// Options configure the plugin
type Options struct {
	Root      string
	Mode      tree.Mode
	Extension string
}

// Plugin is the barrel plugin
var Plugin = fabric.DefinePlugin(fabric.PluginDef[Options]{
	Name: "barrel",
	Inject: func(_ context.Context, c *fabric.Context, opts Options) (fabric.Capabilities, error) {
		writeEntry := WriteEntryFunc(func(ctx context.Context, root string, mode tree.Mode) error {
			entry, ok := tree.EntryBarrel(c.FileManager.Files(), tree.BarrelOptions{
				Root:      root,
				Mode:      mode,
				Extension: opts.Extension,
			})
			if !ok {
				return nil
			}
			if _, err := c.FileManager.Add(ctx, entry); err != nil {
				return errors.Wrapf(err, "failed to add entry barrel for %s", root)
			}
			return nil
		})
		return fabric.Capabilities{Capability: writeEntry}, nil
	},
	Install: func(_ context.Context, c *fabric.Context, opts Options) error {
		if opts.Mode != tree.ModeAll && opts.Mode != tree.ModeNamed {
			return nil
		}

		event.On(c.Events, filemanager.EventWriteStart, func(ctx context.Context, p filemanager.FilesPayload) error {
			barrels := tree.BarrelFiles(p.Files, tree.BarrelOptions{
				Root:      opts.Root,
				Mode:      opts.Mode,
				Extension: opts.Extension,
			})
			if len(barrels) == 0 {
				return nil
			}
			if _, err := c.FileManager.Add(ctx, barrels...); err != nil {
				return errors.Wrap(err, "failed to add barrel files")
			}
			c.Logger.Debugw("Added barrel files",
				logger.FieldRoot, opts.Root,
				logger.FieldMode, string(opts.Mode),
				logger.FieldCount, len(barrels),
			)
			return nil
		})
		return nil
	},
})
