package drafts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore fakes the local persistence collaborator.
type memStore map[string]string

func (m memStore) Get(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

func (m memStore) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m memStore) Remove(key string) error {
	delete(m, key)
	return nil
}

func TestCache_Set_And_Get_Per_Chat(t *testing.T) {
	req := require.New(t)
	store := memStore{}
	cache := NewCache(store)

	req.NoError(cache.Set("c1", "half a thought"))
	req.NoError(cache.Set("c2", "other chat"))

	// Each chat keeps its own draft
	req.Equal("half a thought", cache.Get("c1"))
	req.Equal("other chat", cache.Get("c2"))
	req.Empty(cache.Get("c3"))
}

func TestCache_Empty_Text_Clears_Entry(t *testing.T) {
	req := require.New(t)
	store := memStore{}
	cache := NewCache(store)

	req.NoError(cache.Set("c1", "typed"))
	req.NoError(cache.Set("c1", ""))

	req.Empty(cache.Get("c1"))
	_, ok := store["draft:c1"]
	req.False(ok)
}

func TestCache_Clear_Removes_Draft(t *testing.T) {
	req := require.New(t)
	store := memStore{}
	cache := NewCache(store)

	req.NoError(cache.Set("c1", "typed"))
	req.NoError(cache.Clear("c1"))

	req.Empty(cache.Get("c1"))
}

func TestCache_Key_Is_Chat_Only(t *testing.T) {
	req := require.New(t)
	store := memStore{}
	cache := NewCache(store)

	req.NoError(cache.Set("c1", "typed"))

	// The key carries no user id: a second account on the same device
	// reads the same draft. Faithful to the portal's behavior.
	_, ok := store["draft:c1"]
	req.True(ok)
}
