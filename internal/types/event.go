package types

import (
	"slices"

	"svcore/internal/source"
)

// ProcessID identifies a suspended process. The scheduler owns its meaning.
type ProcessID uint32

// SyncQueue holds the processes waiting on an event, oldest first.
type SyncQueue struct {
	waiting   []ProcessID
	triggered bool
}

// Enqueue appends p to the wait list.
func (q *SyncQueue) Enqueue(p ProcessID) {
	q.waiting = append(q.waiting, p)
}

// Dequeue removes and returns the oldest waiter.
func (q *SyncQueue) Dequeue() (ProcessID, bool) {
	if len(q.waiting) == 0 {
		return 0, false
	}
	p := q.waiting[0]
	q.waiting = q.waiting[1:]
	if len(q.waiting) == 0 {
		q.waiting = nil
	}
	return p, true
}

func (q *SyncQueue) Len() int { return len(q.waiting) }

// Waiting returns the waiters in FIFO order without removing them.
func (q *SyncQueue) Waiting() []ProcessID { return slices.Clone(q.waiting) }

// Event is a synchronization object. Event handles assigned from one another
// share a single queue.
type Event struct {
	decl
	sync *SyncQueue
}

func NewEvent(name string, origin *source.Origin) *Event {
	return &Event{decl: declOf(name, origin), sync: &SyncQueue{}}
}

func (t *Event) Kind() Kind     { return KindEvent }
func (t *Event) String() string { return t.label("event") }

// Queue exposes the synchronization queue.
func (t *Event) Queue() *SyncQueue { return t.sync }

// Assign makes t refer to the same synchronization object as src. Processes
// already waiting on t's old object stay there.
func (t *Event) Assign(src *Event) {
	t.sync = src.sync
}

// Shares reports whether both handles refer to one synchronization object.
func (t *Event) Shares(o *Event) bool { return t.sync == o.sync }

// Trigger marks the event as triggered for the current time step and
// releases every waiter in FIFO order.
func (t *Event) Trigger() []ProcessID {
	released := t.sync.waiting
	t.sync.waiting = nil
	t.sync.triggered = true
	return released
}

// Triggered reports whether Trigger ran since the last ResetTriggered.
func (t *Event) Triggered() bool { return t.sync.triggered }

// ResetTriggered clears the triggered state at the end of a time step.
func (t *Event) ResetTriggered() { t.sync.triggered = false }
