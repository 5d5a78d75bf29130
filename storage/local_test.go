package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocal_Set_Get_Remove(t *testing.T) {
	req := require.New(t)
	local := NewLocal(openTestDB(t))

	// Missing key
	_, ok := local.Get("draft:c1")
	req.False(ok)

	// Roundtrip
	req.NoError(local.Set("draft:c1", "half-typed message"))
	value, ok := local.Get("draft:c1")
	req.True(ok)
	req.Equal("half-typed message", value)

	// Overwrite
	req.NoError(local.Set("draft:c1", "rewritten"))
	value, _ = local.Get("draft:c1")
	req.Equal("rewritten", value)

	// Remove, twice
	req.NoError(local.Remove("draft:c1"))
	_, ok = local.Get("draft:c1")
	req.False(ok)
	req.NoError(local.Remove("draft:c1"))
}
