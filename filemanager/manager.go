// Package filemanager accumulates files by path, resolves them through the
// merge engine and drives the processing pass that prints them.
package filemanager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/teranos/fabric/cache"
	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/logger"
)

// Manager owns the path-keyed file cache. A manager is driven from one
// logical flow; it is not meant to be shared between orchestrators.
type Manager struct {
	raw       *cache.Cache[string, file.File]
	resolved  *cache.Cache[string, *file.ResolvedFile]
	events    *event.Emitter
	processor *Processor
	logger    *zap.SugaredLogger

	mu    sync.Mutex
	files []*file.ResolvedFile // memoized Files(); nil when stale
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the manager's logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a manager that emits lifecycle events on events
func New(events *event.Emitter, opts ...Option) *Manager {
	if events == nil {
		events = event.NewEmitter()
	}
	m := &Manager{
		raw:      cache.New[string, file.File](),
		resolved: cache.New[string, *file.ResolvedFile](),
		events:   events,
		logger:   logger.ComponentLogger("filemanager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.processor = NewProcessor(events, m.logger)
	return m
}

// Events returns the emitter the manager reports on
func (m *Manager) Events() *event.Emitter {
	return m.events
}

// Add merges files into the cache and returns their resolved forms, one per
// distinct path, in the order the paths first appear. Files sharing a path
// are merged with each other and then with what is already cached.
// Nothing is stored if any file fails to resolve.
func (m *Manager) Add(ctx context.Context, files ...file.File) ([]*file.ResolvedFile, error) {
	order := make([]string, 0, len(files))
	grouped := make(map[string]file.File, len(files))
	for _, f := range files {
		prev, ok := grouped[f.Path]
		if !ok {
			order = append(order, f.Path)
			grouped[f.Path] = f
			continue
		}
		grouped[f.Path] = file.Merge(prev, f)
	}

	raws := make([]file.File, 0, len(order))
	batch := make([]*file.ResolvedFile, 0, len(order))
	for _, p := range order {
		merged := grouped[p]
		if cached, ok := m.raw.Get(p); ok {
			merged = file.Merge(cached, merged)
		}

		resolved, err := file.CreateFile(merged)
		if err != nil {
			err = errors.Wrap(err, "failed to add file")
			err = errors.WithDetail(err, fmt.Sprintf("Path: %s", p))
			return nil, err
		}
		raws = append(raws, merged)
		batch = append(batch, resolved)
	}

	for i, resolved := range batch {
		m.raw.Set(resolved.Path, raws[i])
		m.resolved.Set(resolved.Path, resolved)
	}
	m.invalidate()

	m.logger.Debugw("Added files", logger.FieldCount, len(batch))

	if err := event.Emit(ctx, m.events, EventFileAdd, FilesPayload{Files: batch}); err != nil {
		return batch, errors.Wrap(err, "file:add listener failed")
	}
	return batch, nil
}

// GetByPath returns the resolved file for path, or nil
func (m *Manager) GetByPath(path string) *file.ResolvedFile {
	f, _ := m.resolved.Get(path)
	return f
}

// DeleteByPath removes path from the cache
func (m *Manager) DeleteByPath(path string) {
	m.raw.Delete(path)
	if m.resolved.Delete(path) {
		m.invalidate()
	}
}

// Clear empties the cache
func (m *Manager) Clear() {
	m.raw.Clear()
	m.resolved.Clear()
	m.invalidate()
}

// Files returns every cached file by ascending path length, index files
// after other files of the same length.
func (m *Manager) Files() []*file.ResolvedFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.files == nil {
		m.files = SortFiles(m.resolved.Values())
	}
	return append([]*file.ResolvedFile{}, m.files...)
}

func (m *Manager) invalidate() {
	m.mu.Lock()
	m.files = nil
	m.mu.Unlock()
}

// SortFiles orders files by path length; index files go after other files of the same length
func SortFiles(files []*file.ResolvedFile) []*file.ResolvedFile {
	sorted := append(make([]*file.ResolvedFile, 0, len(files)), files...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := len(sorted[i].Path), len(sorted[j].Path)
		if li != lj {
			return li < lj
		}
		return !file.IsIndex(sorted[i].Path) && file.IsIndex(sorted[j].Path)
	})
	return sorted
}

// Write runs one processing pass over the cached files and clears the cache.
// Files added by write:start listeners (barrels, for example) are included.
func (m *Manager) Write(ctx context.Context, opts ProcessOptions) ([]*file.ResolvedFile, error) {
	if err := event.Emit(ctx, m.events, EventWriteStart, FilesPayload{Files: m.Files()}); err != nil {
		return nil, errors.Wrap(err, "write:start listener failed")
	}

	files := m.Files()
	if err := m.processor.Run(ctx, files, opts); err != nil {
		return nil, err
	}

	m.Clear()

	if err := event.Emit(ctx, m.events, EventWriteEnd, FilesPayload{Files: files}); err != nil {
		return files, errors.Wrap(err, "write:end listener failed")
	}
	return files, nil
}
