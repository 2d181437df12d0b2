package lfu

import (
	"fmt"
	"slices"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/evictcache/policy"
)

// check panics (via require) on any broken structural invariant:
// strictly increasing counts, no empty nonzero bucket, correct
// back-references and map/list agreement.
func check[K comparable, V any](t *testing.T, c *Cache[K, V]) {
	t.Helper()
	c.freq.Check()

	items := 0
	first := true
	var prev uint64
	for b := range c.freq.All() {
		b.Value.items.Check()
		if !first {
			require.Greater(t, b.Value.count, prev, "bucket counts must strictly increase")
		}
		first, prev = false, b.Value.count
		if b.Value.count != 0 {
			require.NotZero(t, b.Value.items.Len(), "empty bucket with count %d", b.Value.count)
		}
		for e := range b.Value.items.All() {
			require.Same(t, b, e.Value.bucket, "item %v points at the wrong bucket", e.Value.key)
			require.Same(t, e, c.m[e.Value.key], "map does not point at item %v", e.Value.key)
			items++
		}
	}
	require.Equal(t, len(c.m), items, "map and buckets disagree")
}

func counts[K comparable, V any](c *Cache[K, V]) []uint64 {
	var out []uint64
	for b := range c.freq.All() {
		out = append(out, b.Value.count)
	}
	return out
}

// A,B,C inserted; A read twice, B once; inserting D evicts C.
func TestLFU_Scenario(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := New(3, policy.WithOnEvict(func(k string, _ int) { evicted = append(evicted, k) }))
	c.Set("A", 1)
	c.Set("B", 2)
	c.Set("C", 3)
	_, _ = c.Get("A")
	_, _ = c.Get("A")
	_, _ = c.Get("B")
	check(t, c)

	fa, _ := c.Frequency("A")
	fb, _ := c.Frequency("B")
	fc, _ := c.Frequency("C")
	assert.Equal(t, []uint64{2, 1, 0}, []uint64{fa, fb, fc})

	c.Set("D", 4)
	check(t, c)
	assert.Equal(t, []string{"C"}, evicted)
	assert.False(t, c.Contains("C"))
	for _, k := range []string{"A", "B", "D"} {
		assert.True(t, c.Contains(k), k)
	}
	assert.Equal(t, []string{"D", "B", "A"}, slices.Collect(c.Keys()))
}

// Same setup under MFU evicts A (highest count).
func TestMFU_Scenario(t *testing.T) {
	t.Parallel()

	c := NewMFU[string, int](3)
	c.Set("A", 1)
	c.Set("B", 2)
	c.Set("C", 3)
	_, _ = c.Get("A")
	_, _ = c.Get("A")
	_, _ = c.Get("B")

	c.Set("D", 4)
	check(t, c)
	assert.False(t, c.Contains("A"))
	for _, k := range []string{"B", "C", "D"} {
		assert.True(t, c.Contains(k), k)
	}
	assert.Equal(t, policy.MFU, c.Kind())
}

// Oldest item wins ties within a bucket.
func TestLFU_TieBreakOldestFirst(t *testing.T) {
	t.Parallel()

	for _, c := range []*Cache[int, int]{New[int, int](3), NewMFU[int, int](3)} {
		c.Set(1, 1)
		c.Set(2, 2)
		c.Set(3, 3)
		c.ItemAccessed(2, 1, 3) // all at count 1, order 2,1,3
		c.Set(4, 4)
		check(t, c)
		assert.False(t, c.Contains(2), c.Kind().String())
	}
}

// A lone item relabels its bucket instead of allocating a new one.
func TestLFU_SingletonBucketRelabel(t *testing.T) {
	t.Parallel()

	c := New[string, int](policy.Unbounded)
	c.Set("a", 1)
	zero := c.freq.Front()

	for i := 0; i < 5; i++ {
		_, err := c.Get("a")
		require.NoError(t, err)
	}
	check(t, c)
	require.Equal(t, 1, c.freq.Len())
	assert.Same(t, zero, c.freq.Front(), "bucket must be reused, not reallocated")
	assert.Equal(t, []uint64{5}, counts(c))

	// A new insert recreates the count-0 landing bucket at the head.
	c.Set("b", 2)
	check(t, c)
	assert.Equal(t, []uint64{0, 5}, counts(c))
}

// Relabelling must never produce a duplicate count: when n+1 exists the
// item moves there and its old bucket disappears.
func TestLFU_SingletonMovesIntoExistingNextBucket(t *testing.T) {
	t.Parallel()

	c := New[string, int](policy.Unbounded)
	c.Set("a", 1)
	c.Set("b", 2)
	c.ItemAccessed("a")      // buckets 0:[b] 1:[a]
	c.ItemAccessed("a", "a") // 0:[b] 3:[a] (relabelled)
	c.ItemAccessed("b", "b") // 2:[b] 3:[a] (bucket 0 relabelled twice)
	check(t, c)
	assert.Equal(t, []uint64{2, 3}, counts(c))

	c.ItemAccessed("b") // b joins bucket 3, bucket 2 is removed
	check(t, c)
	assert.Equal(t, []uint64{3}, counts(c))
	assert.Equal(t, []string{"a", "b"}, slices.Collect(c.Keys()))
}

func TestLFU_ZeroBucketPersistsWhenEmpty(t *testing.T) {
	t.Parallel()

	c := New[string, int](policy.Unbounded)
	c.Set("a", 1)
	c.Set("b", 2)
	c.ItemAccessed("a", "b")
	check(t, c)
	assert.Equal(t, []uint64{0, 1}, counts(c))
	assert.Zero(t, c.freq.Front().Value.items.Len())
}

func TestLFU_EvictByKeyRoundTrip(t *testing.T) {
	t.Parallel()

	c := New[string, string](4)
	c.Set("k", "v")
	c.Set("x", "y")
	c.ItemAccessed("k", "k")
	c.EvictByKey("k")
	c.EvictByKey("missing")
	check(t, c)

	assert.False(t, c.Contains("k"))
	_, err := c.Get("k")
	assert.True(t, errors.Is(err, policy.ErrNotFound))
	assert.Equal(t, []uint64{0}, counts(c), "bucket 2 must go with its last item")

	c.Set("k", "v2")
	f, ok := c.Frequency("k")
	require.True(t, ok)
	assert.Zero(t, f, "re-insert starts from count 0")
	v, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestLFU_SetFirstWriteWinsUpdateOverwrites(t *testing.T) {
	t.Parallel()

	c := New[string, string](2)
	c.Set("k", "v")
	c.Set("k", "v2")
	v, _ := c.Get("k")
	assert.Equal(t, "v", v)

	c.Update("k", "v2")
	f, _ := c.Frequency("k")
	assert.Equal(t, uint64(1), f, "Update must not count as an access")
	v, _ = c.Get("k")
	assert.Equal(t, "v2", v)

	c.Update("new", "n")
	assert.True(t, c.Contains("new"))
}

func TestLFU_ClearTearsDown(t *testing.T) {
	t.Parallel()

	c := New[int, int](policy.Unbounded)
	for i := 0; i < 50; i++ {
		c.Set(i, i)
		for j := 0; j < i%7; j++ {
			c.ItemAccessed(i)
		}
	}
	check(t, c)
	c.Clear()
	check(t, c)
	assert.Zero(t, c.Len())
	assert.Zero(t, c.freq.Len())

	c.Set(1, 1)
	check(t, c)
	assert.Equal(t, 1, c.Len())
}

func TestLFU_Disabled(t *testing.T) {
	t.Parallel()

	c := New[int, int](0)
	c.Set(1, 1)
	c.Update(2, 2)
	assert.Zero(t, c.Len())
	assert.Zero(t, c.freq.Len())
}

// op is one randomly generated engine call.
type op struct {
	Code uint8
	Key  uint8
	Val  int
}

// Random operation sequences must keep every structural invariant and the
// capacity bound, for both scan directions.
func TestLFU_RandomOpsKeepInvariants(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{1, 3, 16, policy.Unbounded} {
		for _, mfu := range []bool{false, true} {
			name := fmt.Sprintf("cap=%d/mfu=%v", capacity, mfu)
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				var ops []op
				fuzz.NewWithSeed(int64(capacity)*31+7).NilChance(0).NumElements(500, 1000).Fuzz(&ops)

				c := newCache[uint8, int](capacity, mfu, nil)
				for i, o := range ops {
					k := o.Key % 24
					switch o.Code % 6 {
					case 0, 1:
						c.Set(k, o.Val)
					case 2:
						_, _ = c.Get(k)
					case 3:
						c.ItemAccessed(k, k+1)
					case 4:
						c.Update(k, o.Val)
					case 5:
						c.EvictByKey(k)
					}
					if capacity >= 0 {
						require.LessOrEqual(t, c.Len(), capacity, "op %d", i)
					}
					if i%25 == 0 {
						check(t, c)
					}
				}
				check(t, c)
			})
		}
	}
}

func BenchmarkLFU_GetSet(b *testing.B) {
	c := New[int, int](1 << 12)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := i & (1<<13 - 1)
		if _, err := c.Get(k); err != nil {
			c.Set(k, i)
		}
	}
}
