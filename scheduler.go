package desim

import (
	"container/heap"
	"math"
)

// scheduledEntry is the 4-tuple (time, priority, seq, event) described in
// spec.md's data model, grounded on the teacher's eventHeap
// (eventqueue.go) generalized with a priority and an explicit
// insertion-sequence tiebreaker.
type scheduledEntry struct {
	time     VTime
	priority Priority
	seq      uint64
	event    *Event
}

// entryHeap implements container/heap.Interface, exactly the pattern the
// teacher uses for its EventQueueImpl (eventqueue.go), extended to order
// lexicographically on (time, priority, seq) instead of time alone.
type entryHeap []*scheduledEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*scheduledEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return entry
}

// schedule pushes (now+delay, priority, seq++, event) onto the heap. It is
// used by the public Environment.Schedule and internally by
// Event.Succeed/Fail and the Timeout/Initialize/Interruption constructors;
// the only other insertion is runUntilTime's stop event, which is pushed
// directly because it is due at an absolute time.
func (env *Environment) schedule(e *Event, priority Priority, delay VTime) {
	if delay < 0 {
		panic(newUserError("scheduling delay must be >= 0, got %v", delay))
	}

	env.seq++
	heap.Push(&env.heap, &scheduledEntry{
		time:     env.now + delay,
		priority: priority,
		seq:      env.seq,
		event:    e,
	})
}

// Schedule is the public scheduling entry point described in spec.md §6. It
// is meant for events that have already been triggered by a Succeed/Fail
// call performed elsewhere (e.g. resource machinery); ordinary user code
// should prefer Event.Succeed/Event.Fail, which schedule for you.
func (env *Environment) Schedule(e *Event, priority Priority, delay VTime) {
	env.schedule(e, priority, delay)
}

// Peek returns the time of the earliest pending event, or +Inf if the
// schedule is empty.
func (env *Environment) Peek() VTime {
	if len(env.heap) == 0 {
		return VTime(math.Inf(1))
	}
	return env.heap[0].time
}
