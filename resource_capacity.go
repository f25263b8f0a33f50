package desim

// PreemptionCause is the payload carried by the Interrupt delivered to a
// user of a PreemptiveResource who was displaced to make room for a
// higher-priority request (spec.md §4.6).
type PreemptionCause struct {
	By         *Request
	UsageSince VTime
}

// Request is returned by a capacity resource's admission call. It
// succeeds, with itself as its value, once the requester has become a
// user of the resource.
type Request struct {
	*Event

	resource *capacityCore
	priority int
	preempt  bool
	reqTime  VTime
	seq      uint64
	holder   *Process

	usageSince VTime
}

// Release is returned by a capacity resource's release call. It always
// succeeds, once processed, and reruns the resource's service loop so a
// waiting Request can be admitted in the same instant.
type Release struct {
	*Event

	resource *capacityCore
	request  *Request
}

// capacityCore is the N-slot semaphore machinery shared by Resource,
// PriorityResource and PreemptiveResource -- the three types differ only
// in whether admission is FIFO or key-ordered and whether preemption is
// permitted, per spec.md §4.6's "builds on" progression.
//
// Grounded on the teacher's Buffer capacity bookkeeping (buffer.go:
// Capacity/Size/CanPush), generalized from a single push/pop counter into
// the put/get admission queues resource_base.go's service loop drains.
type capacityCore struct {
	env        *Environment
	capacity   int
	users      []*Request
	putQueue   []queueOp
	getQueue   []queueOp
	seq        uint64
	ordered    bool
	preemptive bool
}

func newCapacityCore(env *Environment, capacity int, ordered, preemptive bool) *capacityCore {
	if capacity <= 0 {
		panic(newUserError("resource capacity must be > 0, got %d", capacity))
	}
	return &capacityCore{env: env, capacity: capacity, ordered: ordered, preemptive: preemptive}
}

func (core *capacityCore) request(priority int, preempt bool, holder *Process) *Request {
	core.seq++
	req := &Request{
		Event:    newEvent(core.env),
		resource: core,
		priority: priority,
		preempt:  preempt,
		reqTime:  core.env.Now(),
		seq:      core.seq,
		holder:   holder,
	}

	if core.ordered {
		insertSorted(&core.getQueue, queueOp(req), requestLess)
	} else {
		core.getQueue = append(core.getQueue, queueOp(req))
	}

	runServiceLoop(&core.putQueue, &core.getQueue)
	return req
}

func (core *capacityCore) release(req *Request) *Release {
	rel := &Release{Event: newEvent(core.env), resource: core, request: req}
	core.putQueue = append(core.putQueue, queueOp(rel))
	runServiceLoop(&core.putQueue, &core.getQueue)
	return rel
}

func (core *capacityCore) admit(req *Request) {
	req.usageSince = core.env.Now()
	core.users = append(core.users, req)
	_ = req.Succeed(req)
	core.env.InvokeHook(HookCtx{Domain: core.env, Pos: HookPosResourceAdmitted, Item: req})
}

func (core *capacityCore) worstUser() (*Request, int) {
	if len(core.users) == 0 {
		return nil, -1
	}
	idx := 0
	for i := 1; i < len(core.users); i++ {
		if keyWorse(core.users[i], core.users[idx]) {
			idx = i
		}
	}
	return core.users[idx], idx
}

// keyWorse reports whether a's admission key is worse (later-served) than
// b's under the (priority, request_time, seq) ordering spec.md §4.6
// defines for PriorityResource and PreemptiveResource.
func keyWorse(a, b *Request) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.reqTime != b.reqTime {
		return a.reqTime > b.reqTime
	}
	return a.seq > b.seq
}

func keyBetter(a, b *Request) bool { return keyWorse(b, a) }

func requestLess(a, b queueOp) bool {
	return keyBetter(a.(*Request), b.(*Request))
}

func (req *Request) attempt() bool {
	core := req.resource

	if len(core.users) < core.capacity {
		core.admit(req)
		return true
	}

	if core.preemptive && req.preempt {
		worst, idx := core.worstUser()
		if worst != nil && keyBetter(req, worst) {
			core.users = append(core.users[:idx], core.users[idx+1:]...)
			if worst.holder != nil {
				worst.holder.Interrupt(PreemptionCause{By: req, UsageSince: worst.usageSince})
			}
			core.admit(req)
			return true
		}
	}

	return false
}

func (rel *Release) attempt() bool {
	core := rel.resource
	for i, u := range core.users {
		if u == rel.request {
			core.users = append(core.users[:i], core.users[i+1:]...)
			break
		}
	}
	_ = rel.Succeed(nil)
	return true
}

// Resource is a FIFO N-slot semaphore: Request calls queue in arrival
// order and are admitted as slots free up.
type Resource struct {
	core *capacityCore
}

// NewResource creates a Resource with the given number of slots.
func NewResource(env *Environment, capacity int) *Resource {
	return &Resource{core: newCapacityCore(env, capacity, false, false)}
}

// Request asks for one slot, returning an Event that succeeds once
// admitted.
func (r *Resource) Request() *Request { return r.core.request(0, false, nil) }

// Release gives a previously-admitted slot back.
func (r *Resource) Release(req *Request) *Release { return r.core.release(req) }

// Count returns the number of slots currently in use.
func (r *Resource) Count() int { return len(r.core.users) }

// Capacity returns the total number of slots.
func (r *Resource) Capacity() int { return r.core.capacity }

// Users returns the requests currently holding a slot.
func (r *Resource) Users() []*Request { return append([]*Request(nil), r.core.users...) }

// QueueLen returns the number of requests currently waiting.
func (r *Resource) QueueLen() int { return len(r.core.getQueue) }

// Status reports the resource's current state for the monitor package.
func (r *Resource) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "Resource", "capacity": r.Capacity(), "count": r.Count(), "queue": r.QueueLen(),
	}
}

// PriorityResource is a capacity resource whose Request calls are
// admitted in (priority, request_time, seq) order rather than plain
// arrival order (spec.md §4.6).
type PriorityResource struct {
	core *capacityCore
}

// NewPriorityResource creates a PriorityResource with the given number of
// slots.
func NewPriorityResource(env *Environment, capacity int) *PriorityResource {
	return &PriorityResource{core: newCapacityCore(env, capacity, true, false)}
}

// Request asks for one slot at the given priority (smaller values are
// served first among waiters).
func (r *PriorityResource) Request(priority int) *Request {
	return r.core.request(priority, false, nil)
}

// Release gives a previously-admitted slot back.
func (r *PriorityResource) Release(req *Request) *Release { return r.core.release(req) }

// Count returns the number of slots currently in use.
func (r *PriorityResource) Count() int { return len(r.core.users) }

// Capacity returns the total number of slots.
func (r *PriorityResource) Capacity() int { return r.core.capacity }

// Users returns the requests currently holding a slot.
func (r *PriorityResource) Users() []*Request { return append([]*Request(nil), r.core.users...) }

// QueueLen returns the number of requests currently waiting.
func (r *PriorityResource) QueueLen() int { return len(r.core.getQueue) }

// Status reports the resource's current state for the monitor package.
func (r *PriorityResource) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "PriorityResource", "capacity": r.Capacity(), "count": r.Count(), "queue": r.QueueLen(),
	}
}

// PreemptiveResource is a PriorityResource whose requests can additionally
// displace a lower-priority current user, interrupting the process
// holding it (spec.md §4.6).
type PreemptiveResource struct {
	core *capacityCore
}

// NewPreemptiveResource creates a PreemptiveResource with the given
// number of slots.
func NewPreemptiveResource(env *Environment, capacity int) *PreemptiveResource {
	return &PreemptiveResource{core: newCapacityCore(env, capacity, true, true)}
}

// Request asks for one slot on behalf of proc's process, at the given
// priority. If preempt is true and no slot is free, the request may
// displace the current user with the worst (priority, request_time, seq)
// key, provided the requester's own key is strictly better.
func (r *PreemptiveResource) Request(proc *Proc, priority int, preempt bool) *Request {
	return r.core.request(priority, preempt, proc.process)
}

// Release gives a previously-admitted slot back.
func (r *PreemptiveResource) Release(req *Request) *Release { return r.core.release(req) }

// Count returns the number of slots currently in use.
func (r *PreemptiveResource) Count() int { return len(r.core.users) }

// Capacity returns the total number of slots.
func (r *PreemptiveResource) Capacity() int { return r.core.capacity }

// Users returns the requests currently holding a slot.
func (r *PreemptiveResource) Users() []*Request { return append([]*Request(nil), r.core.users...) }

// QueueLen returns the number of requests currently waiting.
func (r *PreemptiveResource) QueueLen() int { return len(r.core.getQueue) }

// Status reports the resource's current state for the monitor package.
func (r *PreemptiveResource) Status() map[string]interface{} {
	return map[string]interface{}{
		"kind": "PreemptiveResource", "capacity": r.Capacity(), "count": r.Count(), "queue": r.QueueLen(),
	}
}
