package desim

import (
	"container/heap"
	"log"
)

// Environment owns the scheduler heap, the virtual clock, and the
// currently active Process. All mutable simulation state lives on one
// Environment; nothing here is safe to share across Environments, and
// Step must never be called re-entrantly from inside a callback (spec.md
// §5), mirroring the teacher's SerialEngine, which is likewise driven by a
// single call to Run at a time (serialengine.go).
type Environment struct {
	HookableBase

	now    VTime
	heap   entryHeap
	seq    uint64
	active *Process

	idgen IDGenerator
}

// NewEnvironment creates an Environment starting at initialTime.
func NewEnvironment(initialTime VTime) *Environment {
	env := &Environment{
		now:   initialTime,
		idgen: GetIDGenerator(),
	}
	return env
}

// Now returns the current virtual time.
func (env *Environment) Now() VTime { return env.now }

// ActiveProcess returns the Process currently executing, or nil if none
// is (e.g. between events, or before the simulation starts).
func (env *Environment) ActiveProcess() *Process { return env.active }

// Timeout creates a Timeout that fires at Now()+delay.
func (env *Environment) Timeout(delay VTime, value interface{}) *Timeout {
	return newTimeout(env, delay, value)
}

// Event creates a new, untriggered Event.
func (env *Environment) Event() *Event {
	return newEvent(env)
}

// Process spawns a Process driving fn. fn receives a *Proc used to yield
// events and is run on its own goroutine, resumed exactly once per
// scheduler step per spec.md §4.3.
func (env *Environment) Process(fn func(p *Proc) (interface{}, error)) *Process {
	return newProcess(env, fn)
}

// AllOf builds a Condition that succeeds once every event in events has
// triggered.
func (env *Environment) AllOf(events ...*Event) *Condition {
	return newCondition(env, events, allOfPredicate)
}

// AnyOf builds a Condition that succeeds once at least one event in events
// has triggered.
func (env *Environment) AnyOf(events ...*Event) *Condition {
	return newCondition(env, events, anyOfPredicate)
}

// Step pops the smallest scheduled entry, advances Now to its time, marks
// the event processed and fires its callbacks in insertion order. If the
// event's outcome is a failure that no callback defused, Step returns that
// failure so the driver can surface it. Step on an empty schedule returns
// EmptySchedule.
func (env *Environment) Step() error {
	if len(env.heap) == 0 {
		return &EmptySchedule{}
	}

	entry := heap.Pop(&env.heap).(*scheduledEntry)

	if entry.time < env.now {
		log.Panicf("desim: cannot run event in the past: scheduled at %v, now %v",
			entry.time, env.now)
	}
	env.now = entry.time

	evt := entry.event

	hookCtx := HookCtx{Domain: env, Pos: HookPosBeforeEvent, Item: evt}
	env.InvokeHook(hookCtx)

	callbacks := evt.markProcessed()
	for _, cb := range callbacks {
		cb.fn(evt)
	}

	hookCtx.Pos = HookPosAfterEvent
	env.InvokeHook(hookCtx)

	if err, unhandled := evt.isFailedAndNotDefused(); unhandled {
		return err
	}
	return nil
}

// Run drives the loop. With until == nil it runs until the schedule is
// empty (which may never happen). With a VTime it runs through every
// event strictly before that time and stops with Now() set to exactly that
// time. With a *Event (or a *Timeout, *Process or *Condition) it runs until
// that event is processed, re-raising its failure (if any) on return.
func (env *Environment) Run(until interface{}) error {
	switch u := until.(type) {
	case nil:
		return env.runUntilEmpty()
	case VTime:
		return env.runUntilTime(u)
	case *Event:
		return env.runUntilEvent(u)
	case *Timeout:
		return env.runUntilEvent(u.Event)
	case *Process:
		return env.runUntilEvent(u.Event)
	case *Condition:
		return env.runUntilEvent(u.Event)
	default:
		return newUserError("Run: unsupported until value %T", until)
	}
}

func (env *Environment) runUntilEmpty() error {
	for {
		err := env.Step()
		if _, empty := err.(*EmptySchedule); empty {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (env *Environment) runUntilTime(n VTime) error {
	if n < env.now {
		return newUserError("Run: until time %v is before now %v", n, env.now)
	}

	stopEvent := newEvent(env)
	// Triggered directly as a failure (not through Fail, which would
	// re-schedule it) carrying stopSimulation: Step surfaces this the same
	// way it surfaces any undefused failure, and the loop below recognizes
	// the sentinel type to unwind cleanly instead of propagating it. Urgent
	// priority makes it fire ahead of any Normal event also due at n --
	// which is what makes events scheduled at exactly n not execute during
	// this run.
	stopEvent.triggered = true
	stopEvent.ok = false
	stopEvent.err = &stopSimulation{}
	env.seq++
	heap.Push(&env.heap, &scheduledEntry{
		time:     n,
		priority: Urgent,
		seq:      env.seq,
		event:    stopEvent,
	})

	for {
		err := env.Step()
		if _, empty := err.(*EmptySchedule); empty {
			return newUserError("Run: schedule emptied before until=%v was reached", n)
		}
		if _, stopped := err.(*stopSimulation); stopped {
			env.now = n
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (env *Environment) runUntilEvent(target *Event) error {
	for {
		if target.Processed() {
			if err, hasErr := readOutcomeErr(target); hasErr {
				return err
			}
			return nil
		}

		err := env.Step()
		if _, empty := err.(*EmptySchedule); empty {
			return newUserError("Run: schedule emptied before the awaited event was processed")
		}
		if err != nil {
			return err
		}
	}
}

func readOutcomeErr(e *Event) (error, bool) {
	if !e.OK() {
		return e.Err(), true
	}
	return nil, false
}
