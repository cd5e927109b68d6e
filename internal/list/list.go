// Package list implements an ordered container backed by an arena of nodes.
//
// Nodes live in a single slice and link to each other by index. Removed
// nodes go onto a free list and are reused by later inserts, so a list that
// is used as a stack settles into a fixed allocation. Insertion at either end
// is O(1). Indexed access walks from whichever end is closer to the target,
// comparing the index against half the count.
package list

import (
	"fmt"
	"strings"
)

const none = -1

// Handler supplies per-element behavior to a List. Release is called when
// the list discards an element it still owns; Describe renders an element
// for String.
type Handler[T any] interface {
	Release(T)
	Describe(T) string
}

type node[T any] struct {
	value T
	prev  int
	next  int
}

// List is a doubly linked list addressed by position, where position 0 is
// the head. The zero value is not usable; call New.
type List[T any] struct {
	nodes   []node[T]
	free    []int
	head    int
	tail    int
	count   int
	handler Handler[T]
}

// New returns an empty list. A nil handler means elements are dropped
// without a release callback and described with %v.
func New[T any](handler Handler[T]) *List[T] {
	return &List[T]{head: none, tail: none, handler: handler}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.count
}

// Cap returns the number of node slots allocated in the arena.
func (l *List[T]) Cap() int {
	return len(l.nodes)
}

func (l *List[T]) alloc(value T) int {
	if n := len(l.free); n > 0 {
		idx := l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[idx] = node[T]{value: value, prev: none, next: none}
		return idx
	}
	l.nodes = append(l.nodes, node[T]{value: value, prev: none, next: none})
	return len(l.nodes) - 1
}

func (l *List[T]) release(idx int) T {
	var zero T
	value := l.nodes[idx].value
	l.nodes[idx] = node[T]{value: zero, prev: none, next: none}
	l.free = append(l.free, idx)
	return value
}

// AddHead inserts value before the current head.
func (l *List[T]) AddHead(value T) {
	idx := l.alloc(value)
	if l.count == 0 {
		l.head, l.tail = idx, idx
	} else {
		l.nodes[idx].next = l.head
		l.nodes[l.head].prev = idx
		l.head = idx
	}
	l.count++
}

// AddTail inserts value after the current tail.
func (l *List[T]) AddTail(value T) {
	idx := l.alloc(value)
	if l.count == 0 {
		l.head, l.tail = idx, idx
	} else {
		l.nodes[idx].prev = l.tail
		l.nodes[l.tail].next = idx
		l.tail = idx
	}
	l.count++
}

// nodeAt returns the arena index of the element at position, or none.
func (l *List[T]) nodeAt(position int) int {
	if position < 0 || position >= l.count {
		return none
	}
	if position < l.count/2 {
		idx := l.head
		for ; position > 0; position-- {
			idx = l.nodes[idx].next
		}
		return idx
	}
	idx := l.tail
	for steps := l.count - 1 - position; steps > 0; steps-- {
		idx = l.nodes[idx].prev
	}
	return idx
}

// At returns the element at position.
func (l *List[T]) At(position int) (T, bool) {
	idx := l.nodeAt(position)
	if idx == none {
		var zero T
		return zero, false
	}
	return l.nodes[idx].value, true
}

// Head returns the first element.
func (l *List[T]) Head() (T, bool) {
	return l.At(0)
}

// Tail returns the last element.
func (l *List[T]) Tail() (T, bool) {
	return l.At(l.count - 1)
}

func (l *List[T]) unlink(idx int) T {
	n := l.nodes[idx]
	if n.prev != none {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != none {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.count--
	return l.release(idx)
}

// PopTail removes and returns the last element. Ownership passes to the
// caller, so the handler's Release is not called.
func (l *List[T]) PopTail() (T, bool) {
	if l.count == 0 {
		var zero T
		return zero, false
	}
	return l.unlink(l.tail), true
}

// PopHead removes and returns the first element without releasing it.
func (l *List[T]) PopHead() (T, bool) {
	if l.count == 0 {
		var zero T
		return zero, false
	}
	return l.unlink(l.head), true
}

// Delete removes and releases the element at position.
func (l *List[T]) Delete(position int) bool {
	idx := l.nodeAt(position)
	if idx == none {
		return false
	}
	value := l.unlink(idx)
	if l.handler != nil {
		l.handler.Release(value)
	}
	return true
}

// DeleteRange removes and releases size elements starting at start. It
// returns false, removing nothing, if the range does not fit.
func (l *List[T]) DeleteRange(start, size int) bool {
	if start < 0 || size < 0 || start+size > l.count {
		return false
	}
	if size == 0 {
		return true
	}
	idx := l.nodeAt(start)
	for ; size > 0; size-- {
		next := l.nodes[idx].next
		value := l.unlink(idx)
		if l.handler != nil {
			l.handler.Release(value)
		}
		idx = next
	}
	return true
}

// Each calls fn for every element from head to tail until fn returns false.
func (l *List[T]) Each(fn func(position int, value T) bool) {
	position := 0
	for idx := l.head; idx != none; idx = l.nodes[idx].next {
		if !fn(position, l.nodes[idx].value) {
			return
		}
		position++
	}
}

// Release removes every element, calling the handler's Release on each.
func (l *List[T]) Release() {
	for idx := l.head; idx != none; idx = l.nodes[idx].next {
		if l.handler != nil {
			l.handler.Release(l.nodes[idx].value)
		}
	}
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.head, l.tail = none, none
	l.count = 0
}

func (l *List[T]) describe(value T) string {
	if l.handler != nil {
		return l.handler.Describe(value)
	}
	return fmt.Sprintf("%v", value)
}

// String returns the elements from head to tail, e.g. "[1 2 3]".
func (l *List[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	l.Each(func(position int, value T) bool {
		if position > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(l.describe(value))
		return true
	})
	b.WriteByte(']')
	return b.String()
}
