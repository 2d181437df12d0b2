// Package list implements a generic intrusive doubly linked list.
//
// Unlike container/list, callers allocate entries themselves and keep direct
// references to them, so any entry (not only head or tail) can be detached in
// O(1). Every entry records the list that currently owns it; misuse such as
// inserting an owned entry or popping an entry of another list panics, since it
// means the structure is already corrupted.
package list

import "iter"

// Entry is a list element. The payload lives in Value; prev/next/owner are
// managed by the list.
type Entry[T any] struct {
	Value T

	prev  *Entry[T]
	next  *Entry[T]
	owner *List[T]
}

// NewEntry allocates a detached entry holding v.
func NewEntry[T any](v T) *Entry[T] { return &Entry[T]{Value: v} }

// Next returns the following entry or nil.
func (e *Entry[T]) Next() *Entry[T] { return e.next }

// Prev returns the preceding entry or nil.
func (e *Entry[T]) Prev() *Entry[T] { return e.prev }

// Linked reports whether e currently belongs to some list.
func (e *Entry[T]) Linked() bool { return e.owner != nil }

// List is a doubly linked list of *Entry[T]. The zero value is an empty list.
// head is the oldest end by convention of the callers in this module.
type List[T any] struct {
	head *Entry[T]
	tail *Entry[T]
	len  int
}

// New returns an empty list.
func New[T any]() *List[T] { return &List[T]{} }

// Len returns the number of entries in O(1).
func (l *List[T]) Len() int { return l.len }

// Front returns the head entry or nil.
func (l *List[T]) Front() *Entry[T] { return l.head }

// Back returns the tail entry or nil.
func (l *List[T]) Back() *Entry[T] { return l.tail }

// InsertBefore links e right before anchor. A nil anchor means the list is
// empty and e becomes both head and tail.
func (l *List[T]) InsertBefore(anchor, e *Entry[T]) {
	l.adopt(e)
	if anchor == nil {
		l.linkFirst(e)
		return
	}
	l.assertOwned(anchor)
	prev := anchor.prev
	e.prev = prev
	e.next = anchor
	anchor.prev = e
	if prev == nil {
		l.head = e
	} else {
		prev.next = e
	}
	l.len++
}

// InsertAfter links e right after anchor. A nil anchor means the list is
// empty and e becomes both head and tail.
func (l *List[T]) InsertAfter(anchor, e *Entry[T]) {
	l.adopt(e)
	if anchor == nil {
		l.linkFirst(e)
		return
	}
	l.assertOwned(anchor)
	next := anchor.next
	e.next = next
	e.prev = anchor
	anchor.next = e
	if next == nil {
		l.tail = e
	} else {
		next.prev = e
	}
	l.len++
}

// PushFront inserts e at the head.
func (l *List[T]) PushFront(e *Entry[T]) { l.InsertBefore(l.head, e) }

// PushBack inserts e at the tail.
func (l *List[T]) PushBack(e *Entry[T]) { l.InsertAfter(l.tail, e) }

// Pop detaches e and returns it untouched otherwise, so it can be linked into
// another list. Pop(nil) returns nil.
func (l *List[T]) Pop(e *Entry[T]) *Entry[T] {
	if e == nil {
		return nil
	}
	l.assertOwned(e)
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next, e.owner = nil, nil, nil
	l.len--
	return e
}

// Remove detaches e and releases its payload.
func (l *List[T]) Remove(e *Entry[T]) {
	if l.Pop(e) == nil {
		return
	}
	var zero T
	e.Value = zero
}

// PopFront detaches and returns the head, or nil if the list is empty.
func (l *List[T]) PopFront() *Entry[T] { return l.Pop(l.head) }

// PopBack detaches and returns the tail, or nil if the list is empty.
func (l *List[T]) PopBack() *Entry[T] { return l.Pop(l.tail) }

// Clear unlinks every entry one by one and releases the payloads.
// It is O(n): no entry keeps references into the list afterwards.
func (l *List[T]) Clear() {
	for l.head != nil {
		l.Remove(l.head)
	}
}

// All walks head to tail. The list must not be modified during the walk.
func (l *List[T]) All() iter.Seq[*Entry[T]] {
	return func(yield func(*Entry[T]) bool) {
		for e := l.head; e != nil; e = e.next {
			if !yield(e) {
				return
			}
		}
	}
}

// Backward walks tail to head. The list must not be modified during the walk.
func (l *List[T]) Backward() iter.Seq[*Entry[T]] {
	return func(yield func(*Entry[T]) bool) {
		for e := l.tail; e != nil; e = e.prev {
			if !yield(e) {
				return
			}
		}
	}
}

// ---- internals ----

func (l *List[T]) linkFirst(e *Entry[T]) {
	if l.len != 0 {
		panic("list: nil anchor on a non-empty list")
	}
	e.prev, e.next = nil, nil
	l.head, l.tail = e, e
	l.len = 1
}

func (l *List[T]) adopt(e *Entry[T]) {
	if e == nil {
		panic("list: insert of nil entry")
	}
	if e.owner != nil {
		panic("list: entry is already linked")
	}
	e.owner = l
}

func (l *List[T]) assertOwned(e *Entry[T]) {
	if e.owner != l {
		panic("list: entry does not belong to this list")
	}
}
