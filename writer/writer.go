// Package writer persists printed files.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/logger"
)

// Writer writes files through an afero filesystem
type Writer struct {
	fs     afero.Fs
	logger *zap.SugaredLogger
}

// New creates a writer on fs; nil means the OS filesystem
func New(fs afero.Fs, log *zap.SugaredLogger) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.ComponentLogger("writer")
	}
	return &Writer{fs: fs, logger: log}
}

// Fs returns the underlying filesystem
func (w *Writer) Fs() afero.Fs {
	return w.fs
}

// Options control a single write
type Options struct {
	// Sanity re-reads the file after writing and fails on any difference.
	Sanity bool
}

// Write stores data at path and reports whether anything was written.
// Empty or whitespace-only data and unchanged content are skipped.
func (w *Writer) Write(path, data string, opts Options) (bool, error) {
	if strings.TrimSpace(data) == "" {
		return false, nil
	}

	existing, err := afero.ReadFile(w.fs, path)
	if err == nil && string(existing) == data {
		w.logger.Debugw("Skipping unchanged file", logger.FieldPath, path)
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := afero.WriteFile(w.fs, path, []byte(data), 0o644); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", path)
	}

	if opts.Sanity {
		if err := w.verify(path, data); err != nil {
			return true, err
		}
	}

	w.logger.Debugw("Wrote file",
		logger.FieldPath, path,
		logger.FieldSize, len(data),
	)
	return true, nil
}

func (w *Writer) verify(path, expected string) error {
	saved, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return errors.Wrapf(err, "failed to re-read %s for sanity check", path)
	}
	if string(saved) == expected {
		return nil
	}

	dmp := diffmatchpatch.New()
	patch := dmp.PatchToText(dmp.PatchMake(expected, string(saved)))

	err = errors.Wrapf(errors.ErrSanityCheck, "sanity check failed for %s", path)
	err = errors.WithDetail(err, fmt.Sprintf("Expected length: %d", len(expected)))
	err = errors.WithDetail(err, fmt.Sprintf("Saved length: %d", len(saved)))
	err = errors.WithDetail(err, fmt.Sprintf("Expected:\n%s", expected))
	err = errors.WithDetail(err, fmt.Sprintf("Saved:\n%s", string(saved)))
	err = errors.WithDetail(err, fmt.Sprintf("Patch:\n%s", patch))
	return err
}

// Clean removes dir and everything below it. A missing dir is not an error.
func (w *Writer) Clean(dir string) error {
	if err := w.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "failed to clean %s", dir)
	}
	w.logger.Debugw("Cleaned output directory", logger.FieldPath, dir)
	return nil
}
