// Package queue implements the interpreter's program queue: a FIFO of
// pending value.Items that combinators can prepend whole ranges onto in
// O(1).
package queue

import "github.com/alexjc/joyfl/value"

// segment is one prepended range, sitting in front of whatever was queued
// before it. Representing the queue as a linked list of segments (rather
// than a single flat slice) makes Prepend O(1) regardless of the size of
// the range being prepended or of the queue already pending.
type segment struct {
	items []value.Item
	pos   int
	next  *segment
}

// Queue is the interpreter's program deque: pop from the front, prepend
// ranges at the front. It is owned exclusively by one interpreter call
// frame and is never shared or locked.
type Queue struct {
	head *segment
}

// New returns a queue seeded with prog, in order.
func New(prog value.Program) *Queue {
	q := &Queue{}
	q.Prepend(prog)
	return q
}

// Empty reports whether the queue has no more pending items.
func (q *Queue) Empty() bool {
	q.dropSpent()
	return q.head == nil
}

func (q *Queue) dropSpent() {
	for q.head != nil && q.head.pos >= len(q.head.items) {
		q.head = q.head.next
	}
}

// PeekFront returns the front item without removing it.
func (q *Queue) PeekFront() (value.Item, bool) {
	q.dropSpent()
	if q.head == nil {
		return nil, false
	}
	return q.head.items[q.head.pos], true
}

// PopFront removes and returns the front item.
func (q *Queue) PopFront() (value.Item, bool) {
	q.dropSpent()
	if q.head == nil {
		return nil, false
	}
	item := q.head.items[q.head.pos]
	q.head.pos++
	return item, true
}

// Prepend splices items onto the very front of the queue, ahead of
// anything already pending. Combinators use this to expand a quotation's
// contents into the queue the interpreter is draining.
func (q *Queue) Prepend(items value.Program) {
	if len(items) == 0 {
		return
	}
	q.head = &segment{items: items, next: q.head}
}

// PrependOne prepends a single item.
func (q *Queue) PrependOne(item value.Item) {
	q.Prepend(value.Program{item})
}
