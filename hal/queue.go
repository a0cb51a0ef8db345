package hal

import "sync/atomic"

const eventSlots = 64

// eventQueue is a fixed-size single-producer, single-consumer ring of
// events. TryPush drops when full, like a server whose client stopped
// reading.
type eventQueue struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [eventSlots]Event
}

// TryPush enqueues ev, returning false if the queue is full.
func (q *eventQueue) TryPush(ev Event) bool {
	head := q.head.Load()
	if head-q.tail.Load() >= eventSlots {
		return false
	}
	q.slots[head%eventSlots] = ev
	q.head.Store(head + 1)
	return true
}

// TryPop dequeues one event, returning false if the queue is empty.
func (q *eventQueue) TryPop() (Event, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return Event{}, false
	}
	ev := q.slots[tail%eventSlots]
	q.tail.Store(tail + 1)
	return ev, true
}

// Len returns the number of queued events.
func (q *eventQueue) Len() int {
	return int(q.head.Load() - q.tail.Load())
}
