package desim

import (
	"log"
	"time"
)

// RealtimeEnvironment paces Step against the wall clock instead of running
// as fast as possible: each popped entry's virtual time is translated to a
// wall-clock deadline via factor (wall-clock seconds per unit of virtual
// time), and Step blocks until that deadline before returning.
//
// Grounded on the teacher's Freq (sim/freq.go), which converts between
// virtual time and tick counts; RealtimeEnvironment reuses the same
// virtual-time-to-wall-clock conversion idea but anchors it to a
// wall-clock start instant instead of a tick period, which is what
// spec.md §6's real-time collaborator boundary calls for.
type RealtimeEnvironment struct {
	*Environment

	factor float64
	strict bool

	wallStart time.Time
	simStart  VTime
}

// NewRealtimeEnvironment wraps env so that Step paces itself against the
// wall clock: factor wall-clock seconds elapse per unit of virtual time.
// If strict is true, a Step that falls behind schedule panics instead of
// silently running ahead.
func NewRealtimeEnvironment(env *Environment, factor float64, strict bool) *RealtimeEnvironment {
	if factor <= 0 {
		panic(newUserError("realtime factor must be > 0, got %v", factor))
	}
	return &RealtimeEnvironment{
		Environment: env,
		factor:      factor,
		strict:      strict,
		wallStart:   time.Now(),
		simStart:    env.Now(),
	}
}

// Step waits until the wall clock has caught up to the next entry's
// virtual time (scaled by factor) before delegating to the wrapped
// Environment's Step.
func (r *RealtimeEnvironment) Step() error {
	if len(r.Environment.heap) == 0 {
		return r.Environment.Step()
	}

	target := r.Environment.Peek()

	deadline := r.wallStart.Add(time.Duration(
		float64(target-r.simStart) * r.factor * float64(time.Second)))

	delay := time.Until(deadline)
	if delay > 0 {
		time.Sleep(delay)
	} else if delay < 0 && r.strict {
		log.Panicf("desim: realtime environment fell behind by %v at virtual time %v",
			-delay, target)
	}

	return r.Environment.Step()
}

// Run mirrors Environment.Run but drives the loop through r.Step() so
// wall-clock pacing applies uniformly regardless of the stopping
// condition. It duplicates Environment's three branches because Go's
// embedding does not let Environment.Run's internal env.Step() calls
// dispatch back to RealtimeEnvironment.Step.
func (r *RealtimeEnvironment) Run(until interface{}) error {
	switch u := until.(type) {
	case nil:
		return r.runUntilEmpty()
	case VTime:
		return r.runUntilTime(u)
	case *Event:
		return r.runUntilEvent(u)
	case *Timeout:
		return r.runUntilEvent(u.Event)
	case *Process:
		return r.runUntilEvent(u.Event)
	case *Condition:
		return r.runUntilEvent(u.Event)
	default:
		return newUserError("Run: unsupported until value %T", until)
	}
}

func (r *RealtimeEnvironment) runUntilEmpty() error {
	for {
		err := r.Step()
		if _, empty := err.(*EmptySchedule); empty {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *RealtimeEnvironment) runUntilTime(n VTime) error {
	for r.Environment.Peek() < n {
		if err := r.Step(); err != nil {
			if _, empty := err.(*EmptySchedule); empty {
				break
			}
			return err
		}
	}
	r.Environment.now = n
	return nil
}

func (r *RealtimeEnvironment) runUntilEvent(target *Event) error {
	for {
		if target.Processed() {
			if err, hasErr := readOutcomeErr(target); hasErr {
				return err
			}
			return nil
		}

		err := r.Step()
		if _, empty := err.(*EmptySchedule); empty {
			return newUserError("Run: schedule emptied before the awaited event was processed")
		}
		if err != nil {
			return err
		}
	}
}
