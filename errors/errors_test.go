package errors_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/event"
	"github.com/teranos/fabric/fabric"
	"github.com/teranos/fabric/file"
	"github.com/teranos/fabric/writer"
)

func TestInvalidFileFromCreateFile(t *testing.T) {
	_, err := file.CreateFile(file.File{Path: "build/Makefile"})
	require.Error(t, err)

	assert.True(t, errors.IsInvalidFileError(err))
	assert.False(t, errors.IsSanityCheckError(err))

	var invalid *file.InvalidFileError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "Makefile", invalid.BaseName)
	assert.Equal(t, "build/Makefile", invalid.Path)

	assert.NotEmpty(t, errors.GetAllHints(err))

	wrapped := errors.Wrap(err, "register models")
	assert.True(t, errors.IsInvalidFileError(wrapped))
	assert.Contains(t, wrapped.Error(), "register models")
}

// lostWriteFs sends every write to a separate sink, so reads keep seeing the
// previous content.
type lostWriteFs struct {
	afero.Fs
	sink afero.Fs
}

func (fs lostWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return fs.sink.OpenFile(name, flag, perm)
	}
	return fs.Fs.OpenFile(name, flag, perm)
}

func TestSanityCheckFromWriter(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "pet.ts", []byte("export type Pet = {};\n"), 0o644))

	w := writer.New(lostWriteFs{Fs: base, sink: afero.NewMemMapFs()}, zap.NewNop().Sugar())
	wrote, err := w.Write("pet.ts", "export type Pet = { name: string };\n", writer.Options{Sanity: true})
	require.Error(t, err)
	assert.True(t, wrote)

	assert.True(t, errors.IsSanityCheckError(err))
	assert.False(t, errors.IsInvalidFileError(err))
	assert.Contains(t, err.Error(), "pet.ts")

	details := strings.Join(errors.GetAllDetails(err), "\n")
	assert.Contains(t, details, "Expected:")
	assert.Contains(t, details, "Patch:")
}

func TestSanityCheckSkippedWithoutOption(t *testing.T) {
	base := afero.NewMemMapFs()
	w := writer.New(lostWriteFs{Fs: base, sink: afero.NewMemMapFs()}, zap.NewNop().Sugar())

	wrote, err := w.Write("pet.ts", "export type Pet = {};\n", writer.Options{})
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestAggregateListenerErrors(t *testing.T) {
	for _, mode := range []event.Mode{event.Sequential, event.Parallel} {
		t.Run(string(mode), func(t *testing.T) {
			em := event.NewEmitter(event.WithMode(mode), event.WithLogger(zap.NewNop().Sugar()))

			_, invalid := file.CreateFile(file.File{Path: "README"})
			require.Error(t, invalid)
			sanity := errors.Wrap(errors.ErrSanityCheck, "sanity check failed for pet.ts")

			em.On("write:end", func(context.Context, any) error { return invalid })
			em.On("write:end", func(context.Context, any) error { return sanity })
			em.On("write:end", func(context.Context, any) error { return nil })

			err := em.Emit(context.Background(), "write:end", nil)
			require.Error(t, err)

			var agg *event.AggregateError
			require.True(t, errors.As(err, &agg))
			assert.Equal(t, "write:end", agg.Event)
			assert.Len(t, agg.Errors, 2)
			assert.Contains(t, err.Error(), "write:end")

			assert.True(t, errors.Is(err, errors.ErrInvalidFile))
			assert.True(t, errors.Is(err, errors.ErrSanityCheck))
			assert.False(t, errors.Is(err, errors.ErrCapabilityNotFound))
		})
	}
}

func TestSingleListenerErrorIsNotAggregated(t *testing.T) {
	em := event.NewEmitter(event.WithLogger(zap.NewNop().Sugar()))
	em.On("process:start", func(context.Context, any) error {
		return errors.Wrap(errors.ErrSanityCheck, "listener")
	})

	err := em.Emit(context.Background(), "process:start", nil)
	require.Error(t, err)

	var agg *event.AggregateError
	assert.False(t, errors.As(err, &agg))
	assert.True(t, errors.IsSanityCheckError(err))
}

func TestCapabilityNotFound(t *testing.T) {
	f := fabric.New()

	_, err := fabric.Capability[string](f, "graph")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCapabilityNotFound))
	assert.Contains(t, err.Error(), `"graph"`)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestInvalidRequestError(t *testing.T) {
	err := errors.NewInvalidRequestError("unknown event mode %q", "batch")
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	assert.Contains(t, err.Error(), `unknown event mode "batch"`)
}

func TestPredicatesRejectNil(t *testing.T) {
	assert.False(t, errors.IsInvalidFileError(nil))
	assert.False(t, errors.IsSanityCheckError(nil))
}
