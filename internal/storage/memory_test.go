package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachingtorch/torch/internal/storage/storagetest"
	"github.com/teachingtorch/torch/pkg/types"
)

func TestMemoryContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) types.KVStore {
		return NewMemory()
	})
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(types.KeySnapshot, "{}"))
	require.NoError(t, m.Close())

	_, err := m.Get(types.KeySnapshot)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, m.Set(types.KeySnapshot, "{}"), types.ErrStoreClosed)
	assert.ErrorIs(t, m.Remove(types.KeySnapshot), types.ErrStoreClosed)
}

func TestMemoryRejectsInvalidKeys(t *testing.T) {
	m := NewMemory()
	for _, key := range []string{"", "../escape", "a/b", "has space"} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, m.Set(key, "x"), types.ErrInvalidKey)
			_, err := m.Get(key)
			assert.ErrorIs(t, err, types.ErrInvalidKey)
			assert.ErrorIs(t, m.Remove(key), types.ErrInvalidKey)
		})
	}
	assert.Equal(t, 0, m.Len())
}
