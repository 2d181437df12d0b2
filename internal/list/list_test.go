package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values[T any](l *List[T]) []T {
	var out []T
	for e := range l.All() {
		out = append(out, e.Value)
	}
	return out
}

func backward[T any](l *List[T]) []T {
	var out []T
	for e := range l.Backward() {
		out = append(out, e.Value)
	}
	return out
}

func TestList_EmptyZeroValue(t *testing.T) {
	t.Parallel()

	var l List[int]
	l.Check()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
	assert.Nil(t, l.PopFront())
	assert.Nil(t, l.PopBack())
	assert.Nil(t, l.Pop(nil))
}

func TestList_NilAnchorOnEmptyList(t *testing.T) {
	t.Parallel()

	l := New[string]()
	a := NewEntry("a")
	l.InsertBefore(nil, a)
	l.Check()
	assert.Same(t, a, l.Front())
	assert.Same(t, a, l.Back())

	l2 := New[string]()
	b := NewEntry("b")
	l2.InsertAfter(nil, b)
	l2.Check()
	assert.Same(t, b, l2.Front())
	assert.Same(t, b, l2.Back())
}

func TestList_InsertPositions(t *testing.T) {
	t.Parallel()

	l := New[int]()
	two := NewEntry(2)
	l.PushBack(two)
	l.PushFront(NewEntry(0))
	l.PushBack(NewEntry(4))
	l.InsertBefore(two, NewEntry(1))
	l.InsertAfter(two, NewEntry(3))
	l.Check()

	require.Equal(t, 5, l.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, values(l))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, backward(l))
}

func TestList_PopKeepsPayload(t *testing.T) {
	t.Parallel()

	l := New[string]()
	a, b, c := NewEntry("a"), NewEntry("b"), NewEntry("c")
	l.PushBack(a)
	l.PushBack(b)
	l.PushBack(c)

	got := l.Pop(b)
	l.Check()
	require.Same(t, b, got)
	assert.Equal(t, "b", got.Value)
	assert.False(t, got.Linked())
	assert.Nil(t, got.Next())
	assert.Nil(t, got.Prev())
	assert.Equal(t, []string{"a", "c"}, values(l))

	// A popped entry can move to another list.
	other := New[string]()
	other.PushBack(got)
	other.Check()
	assert.Equal(t, []string{"b"}, values(other))
}

func TestList_RemoveReleasesPayload(t *testing.T) {
	t.Parallel()

	l := New[*int]()
	v := 7
	e := NewEntry(&v)
	l.PushBack(e)
	l.Remove(e)
	l.Check()
	assert.Nil(t, e.Value)
	assert.Equal(t, 0, l.Len())
}

func TestList_PopHeadAndTail(t *testing.T) {
	t.Parallel()

	l := New[int]()
	for i := 0; i < 4; i++ {
		l.PushBack(NewEntry(i))
	}
	assert.Equal(t, 0, l.PopFront().Value)
	assert.Equal(t, 3, l.PopBack().Value)
	l.Check()
	assert.Equal(t, []int{1, 2}, values(l))

	assert.Equal(t, 1, l.PopFront().Value)
	assert.Equal(t, 2, l.PopFront().Value)
	l.Check()
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
}

func TestList_ClearUnlinksEverything(t *testing.T) {
	t.Parallel()

	l := New[int]()
	entries := make([]*Entry[int], 0, 5)
	for i := 0; i < 5; i++ {
		e := NewEntry(i + 1)
		entries = append(entries, e)
		l.PushBack(e)
	}
	l.Clear()
	l.Check()

	assert.Equal(t, 0, l.Len())
	for _, e := range entries {
		assert.False(t, e.Linked())
		assert.Nil(t, e.Next())
		assert.Nil(t, e.Prev())
		assert.Zero(t, e.Value)
	}
}

func TestList_OwnershipMisuse(t *testing.T) {
	t.Parallel()

	a, b := New[int](), New[int]()
	e := NewEntry(1)
	a.PushBack(e)

	assert.Panics(t, func() { b.PushBack(e) }, "double link")
	assert.Panics(t, func() { b.Pop(e) }, "pop from foreign list")
	assert.Panics(t, func() { a.InsertAfter(nil, NewEntry(2)) }, "nil anchor on non-empty list")
}

func TestList_IteratorStopsEarly(t *testing.T) {
	t.Parallel()

	l := New[int]()
	for i := 0; i < 10; i++ {
		l.PushBack(NewEntry(i))
	}
	n := 0
	for range l.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
