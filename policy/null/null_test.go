package null

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/evictcache/policy"
)

// Any Set followed by Get must miss; Len stays 0.
func TestNull_AlwaysMisses(t *testing.T) {
	t.Parallel()

	c := New[string, int]()
	c.Set("a", 1)
	c.Update("b", 2)
	c.ItemAccessed("a", "b")

	_, err := c.Get("a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, policy.ErrNotFound))
	assert.False(t, c.Contains("a"))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Cap())
	assert.Equal(t, policy.None, c.Kind())

	for range c.Keys() {
		t.Fatal("null cache must not yield keys")
	}

	c.EvictByKey("a")
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
