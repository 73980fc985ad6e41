// Package graphplugin writes the generated file tree as a node/edge graph.
package graphplugin

import (
	"context"
	"encoding/json"

	"github.com/spf13/afero"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
	"github.com/teranos/fabric/tree"
	"github.com/teranos/fabric/writer"
)

// DefaultPath is where the graph is written when Options.Path is empty
const DefaultPath = "fabric-graph.json"

// Options configure the plugin
type Options struct {
	Root   string
	Path   string
	Fs     afero.Fs
	DryRun bool
}

// Plugin is the graph plugin
var Plugin = fabric.DefinePlugin(fabric.PluginDef[Options]{
	Name: "graph",
	Install: func(_ context.Context, c *fabric.Context, opts Options) error {
		out := opts.Path
		if out == "" {
			out = DefaultPath
		}
		w := writer.New(opts.Fs, c.Logger)

		// process:start carries the final file list, barrels added on write:start included
		event.On(c.Events, filemanager.EventProcessStart, func(_ context.Context, p filemanager.FilesPayload) error {
			if opts.DryRun {
				return nil
			}

			root := tree.FromFiles(p.Files, opts.Root)
			if root == nil {
				return nil
			}
			g := tree.ToGraph(root)

			data, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to encode graph")
			}
			if _, err := w.Write(out, string(data)+"\n", writer.Options{}); err != nil {
				return err
			}

			c.Logger.Debugw("Wrote graph",
				logger.FieldPath, out,
				logger.FieldCount, len(g.Nodes),
			)
			return nil
		})
		return nil
	},
})
