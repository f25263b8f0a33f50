package desim

// queueOp is one pending Put or Get request sitting in a resource's queue.
// attempt tries to satisfy it against the resource's current state; it
// returns true if the request was triggered (and should be removed from
// its queue), false if it must keep waiting.
//
// Grounded on the teacher's Buffer (buffer.go), generalized from a plain
// FIFO ring of arbitrary payloads into the put/get admission machinery
// spec.md §4.5 calls the "service loop": every state-changing resource
// operation reruns this loop so that any waiter who can now be satisfied
// is satisfied in the same simulation instant.
type queueOp interface {
	attempt() bool
}

// runServiceLoop repeatedly scans putQueue then getQueue, in policy order,
// removing and triggering every entry that can currently be satisfied,
// until a full pass makes no progress. This is spec.md §4.5's pseudocode
// verbatim.
func runServiceLoop(putQueue *[]queueOp, getQueue *[]queueOp) {
	for {
		progress := false

		if drainOnce(putQueue) {
			progress = true
		}
		if drainOnce(getQueue) {
			progress = true
		}

		if !progress {
			return
		}
	}
}

func drainOnce(queue *[]queueOp) bool {
	progress := false
	remaining := (*queue)[:0]
	for _, op := range *queue {
		if op.attempt() {
			progress = true
			continue
		}
		remaining = append(remaining, op)
	}
	*queue = remaining
	return progress
}

// insertSorted inserts op into queue, keeping it ordered by less (op
// belongs immediately before the first existing entry that less reports
// as "after" it). Equal-ranked entries keep FIFO order because insertion
// only moves an entry earlier than a strictly-worse existing one.
func insertSorted(queue *[]queueOp, op queueOp, less func(a, b queueOp) bool) {
	i := 0
	for i < len(*queue) && !less(op, (*queue)[i]) {
		i++
	}
	*queue = append(*queue, nil)
	copy((*queue)[i+1:], (*queue)[i:])
	(*queue)[i] = op
}
