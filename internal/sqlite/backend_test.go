package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachingtorch/torch/internal/storage/storagetest"
	"github.com/teachingtorch/torch/pkg/types"
)

func attached(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func TestBackendContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) types.KVStore {
		return attached(t, t.TempDir())
	})
}

func TestAttachCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	b := attached(t, dir)

	assert.Equal(t, filepath.Join(dir, "torch.db"), b.Path())
	_, err := os.Stat(b.Path())
	assert.NoError(t, err)
}

func TestAttachTwiceFails(t *testing.T) {
	dir := t.TempDir()
	b := attached(t, dir)

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAttached)
}

func TestDetachIsIdempotent(t *testing.T) {
	b := attached(t, t.TempDir())
	assert.NoError(t, b.Detach())
	assert.NoError(t, b.Detach())
}

func TestOperationsAfterDetach(t *testing.T) {
	b := attached(t, t.TempDir())
	require.NoError(t, b.Detach())

	_, err := b.Get(types.KeySnapshot)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, b.Set(types.KeySnapshot, "{}"), types.ErrStoreClosed)
	assert.ErrorIs(t, b.Remove(types.KeySnapshot), types.ErrStoreClosed)
}

func TestValuesPersistAcrossAttach(t *testing.T) {
	dir := t.TempDir()

	first := NewBackend()
	require.NoError(t, first.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	require.NoError(t, first.Set(types.KeySnapshot, `{"grades":{}}`))
	require.NoError(t, first.Detach())

	second := attached(t, dir)
	got, err := second.Get(types.KeySnapshot)
	require.NoError(t, err)
	assert.Equal(t, `{"grades":{}}`, got)
}

func TestEmptyKeyRejected(t *testing.T) {
	b := attached(t, t.TempDir())

	_, err := b.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
	assert.ErrorIs(t, b.Set("", "x"), types.ErrInvalidKey)
	assert.ErrorIs(t, b.Remove(""), types.ErrInvalidKey)
}
