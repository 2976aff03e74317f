package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachingtorch/torch/pkg/types"
)

func TestOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(types.KeySelectedLanguage, "tamil"))
	require.NoError(t, kv.Close())

	kv, err = Open(dir)
	require.NoError(t, err)
	defer kv.Close()
	v, err := kv.Get(types.KeySelectedLanguage)
	require.NoError(t, err)
	assert.Equal(t, "tamil", v)
}
