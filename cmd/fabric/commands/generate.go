package commands

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/fabric/config"
	"github.com/teranos/fabric/display"
	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/filemanager"
	"github.com/teranos/fabric/logger"
	"github.com/teranos/fabric/manifest"
	"github.com/teranos/fabric/parsers/typescript"
	"github.com/teranos/fabric/plugins/barrelplugin"
	"github.com/teranos/fabric/plugins/fsplugin"
	"github.com/teranos/fabric/plugins/graphplugin"
	"github.com/teranos/fabric/plugins/loggerplugin"
	"github.com/teranos/fabric/tree"
)

// GenerateCmd generates files from one or more manifests
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate files from manifests",
	Long: `Generate source files described by one or more manifests.

Manifests are YAML, JSON or TOML documents listing files with their
sources, imports and exports. Files sharing a path are merged, imports
are pruned to what the sources use, and barrels are added per directory.

Examples:
  fabric generate -m fabric.yaml
  fabric generate -m models.yaml -m api.toml --root src/gen
  fabric generate -m fabric.yaml --dry-run -vv
  fabric generate -m fabric.yaml --watch`,
	RunE: runGenerate,
}

var (
	genManifests []string
	genRoot      string
	genDryRun    bool
	genBarrel    string
	genGraph     bool
	genParallel  bool
	genWatch     bool
)

func init() {
	GenerateCmd.Flags().StringArrayVarP(&genManifests, "manifest", "m", nil, "Manifest file (repeatable)")
	GenerateCmd.Flags().StringVar(&genRoot, "root", "", "Output root for barrels and the graph (overrides output.root)")
	GenerateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Print without writing")
	GenerateCmd.Flags().StringVar(&genBarrel, "barrel", "", "Barrel mode: all, named, propagate, off (overrides barrel.mode)")
	GenerateCmd.Flags().BoolVar(&genGraph, "graph", false, "Write the file graph as JSON")
	GenerateCmd.Flags().BoolVar(&genParallel, "parallel", false, "Process files in parallel")
	GenerateCmd.Flags().BoolVar(&genWatch, "watch", false, "Regenerate when a manifest or fabric.toml changes")
	GenerateCmd.Flags().BoolP("json", "j", false, "Output the generation summary as JSON")
	_ = GenerateCmd.MarkFlagRequired("manifest")
}

// Generation is the outcome of one generate run
type Generation struct {
	Files    []GeneratedFile `json:"files"`
	DryRun   bool            `json:"dry_run"`
	Duration time.Duration   `json:"duration_ns"`
}

// GeneratedFile is one printed file
type GeneratedFile struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	fs := afero.NewOsFs()

	run := func(ctx context.Context, cfg *config.Config) error {
		gen, err := Generate(ctx, fs, cfg, genManifests, verbosity)
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			return display.WriteJSON(cmd.OutOrStdout(), gen)
		}
		printSummary(gen)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !genWatch {
		return err
	} else if err != nil {
		pterm.Error.Println(err)
	}

	if !genWatch {
		return nil
	}
	return watch(ctx, cmd, run)
}

// applyGenerateFlags lets explicitly set flags override configuration
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Output.Root = genRoot
	}
	if flags.Changed("dry-run") {
		cfg.Output.DryRun = genDryRun
	}
	if flags.Changed("barrel") {
		cfg.Barrel.Mode = genBarrel
	}
	if flags.Changed("graph") {
		cfg.Graph.Enabled = genGraph
	}
	if flags.Changed("parallel") && genParallel {
		cfg.Process.Mode = string(event.Parallel)
	}
}

func watch(ctx context.Context, cmd *cobra.Command, run func(context.Context, *config.Config) error) error {
	paths := append([]string{}, genManifests...)
	if project := config.FindProjectConfig(); project != "" {
		paths = append(paths, project)
	}

	w, err := config.NewWatcher(paths...)
	if err != nil {
		return err
	}
	defer w.Stop()

	w.OnChange(func(path string) error {
		pterm.Info.Printfln("%s changed, regenerating", path)
		cfg, err := reloadConfig(cmd)
		if err != nil {
			return err
		}
		return run(ctx, cfg)
	})
	w.Start()

	pterm.Info.Printfln("Watching %d file(s), press Ctrl+C to stop", len(paths))
	<-ctx.Done()
	return nil
}

// reloadConfig drops the cached configuration so edits to fabric.toml apply
func reloadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.Reset()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	applyGenerateFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Generate wires a fabric from cfg, adds every manifest's files and writes them to fs
func Generate(ctx context.Context, fs afero.Fs, cfg *config.Config, manifests []string, verbosity int) (*Generation, error) {
	start := time.Now()

	processMode, err := event.ParseMode(cfg.Process.Mode)
	if err != nil {
		return nil, err
	}
	eventMode, err := event.ParseMode(cfg.Events.Mode)
	if err != nil {
		return nil, err
	}
	barrelMode, err := tree.ParseMode(cfg.Barrel.Mode)
	if err != nil {
		return nil, err
	}

	f := fabric.New(
		fabric.WithEventMode(eventMode),
		fabric.WithLogger(logger.ComponentLogger("generate")),
	)

	extensions := []extensionUse{
		{loggerplugin.Plugin, loggerplugin.Options{Verbosity: logger.ClampVerbosity(verbosity)}},
		{typescript.Parser, nil},
		{fsplugin.Plugin, fsplugin.Options{
			Fs:     fs,
			DryRun: cfg.Output.DryRun,
			Clean:  cleanDir(cfg),
			Sanity: cfg.Output.Sanity,
		}},
		{barrelplugin.Plugin, barrelplugin.Options{
			Root:      cfg.Output.Root,
			Mode:      barrelMode,
			Extension: cfg.Barrel.Extension,
		}},
	}
	if cfg.Graph.Enabled {
		extensions = append(extensions, extensionUse{graphplugin.Plugin, graphplugin.Options{
			Root:   cfg.Output.Root,
			Path:   cfg.Graph.Path,
			Fs:     fs,
			DryRun: cfg.Output.DryRun,
		}})
	}
	for _, e := range extensions {
		if err := f.Use(ctx, e.ext, e.opts); err != nil {
			return nil, err
		}
	}

	for _, path := range manifests {
		m, err := manifest.Load(fs, path)
		if err != nil {
			return nil, err
		}
		if _, err := f.AddFile(ctx, m.Files...); err != nil {
			return nil, errors.Wrapf(err, "failed to add files from %s", path)
		}
	}

	var mu sync.Mutex
	sizes := make(map[string]int)
	event.On(f.Events(), filemanager.EventProcessProgress, func(_ context.Context, p filemanager.ProgressPayload) error {
		mu.Lock()
		defer mu.Unlock()
		sizes[p.File.Path] = len(p.Source)
		return nil
	})

	write, err := fabric.Capability[fsplugin.WriteFunc](f, fsplugin.Capability)
	if err != nil {
		return nil, err
	}
	files, err := write(ctx, filemanager.ProcessOptions{
		Extension:   cfg.ExtensionMap(),
		DryRun:      cfg.Output.DryRun,
		Mode:        processMode,
		Concurrency: cfg.Process.Concurrency,
	})
	if err != nil {
		return nil, err
	}

	gen := &Generation{DryRun: cfg.Output.DryRun, Duration: time.Since(start)}
	for _, rf := range files {
		gen.Files = append(gen.Files, GeneratedFile{Path: rf.Path, Size: sizes[rf.Path]})
	}
	sort.SliceStable(gen.Files, func(i, j int) bool { return gen.Files[i].Path < gen.Files[j].Path })
	return gen, nil
}

type extensionUse struct {
	ext  fabric.Extension
	opts any
}

func cleanDir(cfg *config.Config) string {
	if !cfg.Output.Clean {
		return ""
	}
	return cfg.Output.Root
}

func printSummary(gen *Generation) {
	data := pterm.TableData{{"File", "Size"}}
	total := 0
	for _, f := range gen.Files {
		data = append(data, []string{f.Path, humanize.Bytes(uint64(f.Size))})
		total += f.Size
	}
	if len(gen.Files) > 0 {
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	verb := "Generated"
	if gen.DryRun {
		verb = "Dry run printed"
	}
	pterm.Success.Printfln("%s %d file(s), %s in %s",
		verb, len(gen.Files), humanize.Bytes(uint64(total)), gen.Duration.Round(time.Millisecond))
}
