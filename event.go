package desim

import "sync"

// VTime is the type used to represent virtual simulation time.
//
// Grounded on the teacher's VTimeInSec (event.go), generalized to a
// dimensionless virtual-time unit since this engine's clock is not tied to
// seconds.
type VTime float64

// Priority orders events that are scheduled at the same virtual time.
// Smaller values run first.
type Priority int

const (
	// Urgent is the priority used for the engine's own bookkeeping events
	// (Initialize, Interruption) so that they always resolve ahead of
	// ordinary events scheduled at the same instant.
	Urgent Priority = 0
	// Normal is the default priority for user-triggered events.
	Normal Priority = 1
)

// Callback is invoked when the Event it was registered on is processed.
type Callback func(e *Event)

type callbackEntry struct {
	id int
	fn Callback
}

// Event is a triggerable value/failure carrier with an ordered list of
// callbacks. It progresses through three states, in order:
// untriggered -> triggered (scheduled) -> processed.
//
// Timeout, Condition and Process are all built by embedding an *Event and
// adding their own fields and construction-time behavior, mirroring the
// teacher's EventBase-embedding idiom (event.go) generalized from an
// open Handler-dispatch hierarchy to this package's closed,
// callback-driven one.
type Event struct {
	mu sync.Mutex

	env *Environment

	id string

	triggered bool
	processed bool
	ok        bool
	defused   bool

	value interface{}
	err   error

	callbacks []callbackEntry
	nextCBID  int
}

func newEvent(env *Environment) *Event {
	return &Event{
		env: env,
		id:  env.idgen.Generate(),
	}
}

// NewEvent creates a fresh, untriggered Event owned by env.
func (env *Environment) NewEvent() *Event {
	return newEvent(env)
}

// ID returns the identifier assigned to the event at construction.
func (e *Event) ID() string { return e.id }

// Triggered reports whether the event has been given a value or failure and
// scheduled. It does not imply the event has been processed yet.
func (e *Event) Triggered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggered
}

// Processed reports whether the scheduler has already fired every callback
// registered on this event. Once true, the event is immutable.
func (e *Event) Processed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processed
}

// OK reports whether the event succeeded. It is only meaningful once
// Triggered is true.
func (e *Event) OK() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ok
}

// Value returns the event's success payload. It is only meaningful once
// Triggered is true and OK is true.
func (e *Event) Value() interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Err returns the event's failure. It is only meaningful once Triggered is
// true and OK is false.
func (e *Event) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Defuse marks the event so that an unhandled failure carried by it will
// not be re-raised out of Environment.Step when it is processed. Condition
// and Process machinery call this once they have taken responsibility for
// interpreting a failure; user code observing a failure through a Condition
// or a resource request may call it too.
func (e *Event) Defuse() {
	e.mu.Lock()
	e.defused = true
	e.mu.Unlock()
}

// Succeed marks the event triggered with a success value and schedules it
// to be processed at the current time, Normal priority. Calling Succeed or
// Fail on an already-triggered event is a UserError.
func (e *Event) Succeed(value interface{}) error {
	e.mu.Lock()
	if e.triggered {
		e.mu.Unlock()
		return newUserError("event %s already triggered", e.id)
	}
	e.triggered = true
	e.ok = true
	e.value = value
	e.mu.Unlock()

	e.env.schedule(e, Normal, 0)
	return nil
}

// Fail marks the event triggered with a failure and schedules it to be
// processed at the current time, Normal priority. Calling Succeed or Fail
// on an already-triggered event is a UserError.
func (e *Event) Fail(err error) error {
	if err == nil {
		return newUserError("event %s failed with a nil error", e.id)
	}

	e.mu.Lock()
	if e.triggered {
		e.mu.Unlock()
		return newUserError("event %s already triggered", e.id)
	}
	e.triggered = true
	e.ok = false
	e.err = err
	e.mu.Unlock()

	e.env.schedule(e, Normal, 0)
	return nil
}

// AddCallback appends a callback to the event's callback list. It is
// invalid, and returns a UserError, to add a callback to a processed
// event. AddCallback returns a token that RemoveCallback can later use to
// take the callback back out before it fires.
func (e *Event) AddCallback(cb Callback) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.processed {
		return 0, newUserError("cannot add a callback to processed event %s", e.id)
	}

	id := e.nextCBID
	e.nextCBID++
	e.callbacks = append(e.callbacks, callbackEntry{id: id, fn: cb})
	return id, nil
}

// RemoveCallback removes the callback previously registered under token,
// if it is still pending. It is a no-op if the event has already been
// processed or the token is unknown.
func (e *Event) RemoveCallback(token int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.processed {
		return
	}

	for i, c := range e.callbacks {
		if c.id == token {
			e.callbacks = append(e.callbacks[:i], e.callbacks[i+1:]...)
			return
		}
	}
}

// markProcessed removes and returns the callback list, marking the event
// processed. Concurrency note: only ever called by Environment.Step, which
// is not reentrant (see Environment doc).
func (e *Event) markProcessed() []callbackEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	cbs := e.callbacks
	e.callbacks = nil
	e.processed = true
	return cbs
}

func (e *Event) isFailedAndNotDefused() (error, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ok && !e.defused {
		return e.err, true
	}
	return nil, false
}
