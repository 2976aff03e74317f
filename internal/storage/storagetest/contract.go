// Package storagetest holds the behavioural contract every KVStore backend
// must satisfy. Backend test files call Run with a constructor.
package storagetest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachingtorch/torch/pkg/types"
)

// Run exercises newStore against the KVStore contract. Each subtest gets a
// fresh store.
func Run(t *testing.T, newStore func(t *testing.T) types.KVStore) {
	t.Helper()

	t.Run("get missing key returns ErrKeyNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(types.KeySnapshot)
		assert.ErrorIs(t, err, types.ErrKeyNotFound)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(types.KeySchemaVersion, "2.0.0"))

		got, err := s.Get(types.KeySchemaVersion)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(types.KeySnapshot, `{"a":1}`))
		require.NoError(t, s.Set(types.KeySnapshot, `{"a":2}`))

		got, err := s.Get(types.KeySnapshot)
		require.NoError(t, err)
		assert.Equal(t, `{"a":2}`, got)
	})

	t.Run("large value survives", func(t *testing.T) {
		s := newStore(t)
		big := strings.Repeat("x", 256*1024)
		require.NoError(t, s.Set(types.KeyUploadedFiles, big))

		got, err := s.Get(types.KeyUploadedFiles)
		require.NoError(t, err)
		assert.Equal(t, big, got)
	})

	t.Run("empty value is distinct from missing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(types.KeyForceRefresh, ""))

		got, err := s.Get(types.KeyForceRefresh)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("remove deletes key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(types.KeyAdminLoggedIn, "true"))
		require.NoError(t, s.Remove(types.KeyAdminLoggedIn))

		_, err := s.Get(types.KeyAdminLoggedIn)
		assert.ErrorIs(t, err, types.ErrKeyNotFound)
	})

	t.Run("remove missing key succeeds", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Remove(types.KeyRecentUploads))
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set(types.KeyUploadedFiles, "[1]"))
		require.NoError(t, s.Set(types.KeyRecentUploads, "[2]"))
		require.NoError(t, s.Remove(types.KeyUploadedFiles))

		got, err := s.Get(types.KeyRecentUploads)
		require.NoError(t, err)
		assert.Equal(t, "[2]", got)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}
