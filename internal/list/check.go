package list

import "fmt"

// Check walks the list in both directions and panics if the links, owners or
// the cached length disagree. It is O(n) and meant for tests and debugging.
func (l *List[T]) Check() {
	if (l.head == nil) != (l.tail == nil) {
		panic(fmt.Sprintf("list: head=%p tail=%p, exactly one is nil", l.head, l.tail))
	}
	if l.head != nil && l.head.prev != nil {
		panic("list: head has a predecessor")
	}
	if l.tail != nil && l.tail.next != nil {
		panic("list: tail has a successor")
	}

	forward := make([]*Entry[T], 0, l.len)
	for e := l.head; e != nil; e = e.next {
		if e.owner != l {
			panic("list: reachable entry owned by another list")
		}
		if e.next != nil && e.next.prev != e {
			panic("list: next.prev does not point back")
		}
		forward = append(forward, e)
		if len(forward) > l.len {
			panic(fmt.Sprintf("list: more than len=%d entries reachable from head", l.len))
		}
	}
	if len(forward) != l.len {
		panic(fmt.Sprintf("list: len=%d but %d entries reachable from head", l.len, len(forward)))
	}

	i := len(forward) - 1
	for e := l.tail; e != nil; e = e.prev {
		if i < 0 || forward[i] != e {
			panic("list: backward walk is not the reverse of the forward walk")
		}
		i--
	}
	if i != -1 {
		panic("list: backward walk is shorter than the forward walk")
	}
}
