package filemanager

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
)

func resolve(t *testing.T, files ...file.File) []*file.ResolvedFile {
	t.Helper()
	out := make([]*file.ResolvedFile, 0, len(files))
	for _, f := range files {
		r, err := file.CreateFile(f)
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestProcessorDryRunStillPrints(t *testing.T) {
	emitter := event.NewEmitter()
	p := NewProcessor(emitter, zap.NewNop().Sugar())

	var progress []ProgressPayload
	event.On(emitter, EventProcessProgress, func(_ context.Context, pp ProgressPayload) error {
		progress = append(progress, pp)
		return nil
	})

	files := resolve(t,
		file.File{Path: "a.ts", Sources: []file.Source{{Value: "const a = 1"}}},
		file.File{Path: "b.ts", Sources: []file.Source{{Value: "const b = 2"}}, Banner: "// banner"},
	)
	require.NoError(t, p.Run(context.Background(), files, ProcessOptions{DryRun: true}))

	require.Len(t, progress, 2)
	assert.True(t, progress[0].DryRun)
	assert.Equal(t, "const a = 1", progress[0].Source)
	assert.Equal(t, 1, progress[0].Processed)
	assert.Equal(t, 50.0, progress[0].Percentage)
	assert.Equal(t, "// banner\nconst b = 2", progress[1].Source)
	assert.Equal(t, 100.0, progress[1].Percentage)
}

func TestProcessorParallelReportsEveryFileOnce(t *testing.T) {
	emitter := event.NewEmitter(event.WithMode(event.Parallel))
	p := NewProcessor(emitter, zap.NewNop().Sugar())

	var mu sync.Mutex
	starts := map[string]int{}
	ends := map[string]int{}
	seen := map[int]bool{}
	event.On(emitter, EventFileStart, func(_ context.Context, fp FilePayload) error {
		mu.Lock()
		defer mu.Unlock()
		starts[fp.File.Path]++
		return nil
	})
	event.On(emitter, EventFileEnd, func(_ context.Context, fp FilePayload) error {
		mu.Lock()
		defer mu.Unlock()
		ends[fp.File.Path]++
		return nil
	})
	event.On(emitter, EventProcessProgress, func(_ context.Context, pp ProgressPayload) error {
		mu.Lock()
		defer mu.Unlock()
		seen[pp.Processed] = true
		return nil
	})

	var files []file.File
	for i := 0; i < 25; i++ {
		files = append(files, file.File{Path: fmt.Sprintf("gen/f%d.ts", i)})
	}
	require.NoError(t, p.Run(context.Background(), resolve(t, files...), ProcessOptions{
		Mode:        event.Parallel,
		Concurrency: 4,
	}))

	assert.Len(t, starts, 25)
	assert.Len(t, ends, 25)
	for path, n := range starts {
		assert.Equal(t, 1, n, path)
		assert.Equal(t, 1, ends[path], path)
	}
	for i := 1; i <= 25; i++ {
		assert.True(t, seen[i], "processed count %d reported", i)
	}
}

func TestProcessorUsesParserAndExtensionMapping(t *testing.T) {
	emitter := event.NewEmitter()
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewProcessor(emitter, zap.New(core).Sugar())

	got := make(map[string]PrintOptions)
	ts := PrinterFunc(func(_ context.Context, f *file.ResolvedFile, opts PrintOptions) (string, error) {
		got[f.Path] = opts
		return "printed " + f.BaseName, nil
	})

	var sources []string
	event.On(emitter, EventProcessProgress, func(_ context.Context, pp ProgressPayload) error {
		sources = append(sources, pp.Source)
		return nil
	})

	files := resolve(t,
		file.File{Path: "a.ts"},
		file.File{Path: "b.md", Sources: []file.Source{{Value: "# B"}}},
		file.File{Path: "c.tsx"},
	)
	err := p.Run(context.Background(), files, ProcessOptions{
		Parsers:   map[string]Printer{".ts": ts, ".tsx": ts},
		Extension: map[string]string{".ts": ".js"},
	})
	require.NoError(t, err)

	assert.Equal(t, PrintOptions{Extname: ".js", Mapped: true}, got["a.ts"])
	assert.Equal(t, PrintOptions{}, got["c.tsx"], "no mapping for .tsx")
	assert.Equal(t, []string{"printed a.ts", "# B", "printed c.tsx"}, sources)

	warnings := logs.FilterMessage("No parser registered for extension, using default printer").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, ".md", warnings[0].ContextMap()["extname"])
}

func TestProcessorPrinterErrorAbortsPass(t *testing.T) {
	emitter := event.NewEmitter()
	p := NewProcessor(emitter, zap.NewNop().Sugar())

	var ended bool
	event.On(emitter, EventProcessEnd, func(context.Context, FilesPayload) error {
		ended = true
		return nil
	})

	boom := errors.New("syntax")
	failing := PrinterFunc(func(context.Context, *file.ResolvedFile, PrintOptions) (string, error) {
		return "", boom
	})

	err := p.Run(context.Background(), resolve(t, file.File{Path: "a.ts"}), ProcessOptions{
		Parsers: map[string]Printer{".ts": failing},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "failed to print a.ts")
	assert.False(t, ended)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "body", Wrap("", "body", ""))
	assert.Equal(t, "top\nbody\nbottom", Wrap("top", "body", "bottom"))
	assert.Equal(t, "", Wrap("", "", ""))
}
