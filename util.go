package desim

// Delayed spawns fn as a new Process, but suspends it for dt virtual-time
// units before its body starts running, i.e. before it can observe any
// simulation state. Panics if dt is not > 0.
//
// Grounded on the original SimPy's util.delayed helper (util.py), which
// wraps a target PEM in a starter that holds for dt before starting it.
func Delayed(env *Environment, dt VTime, fn func(p *Proc) (interface{}, error)) *Process {
	if dt <= 0 {
		panic(newUserError("Delayed: dt=%v must be > 0", dt))
	}
	return env.Process(func(p *Proc) (interface{}, error) {
		if _, err := p.Yield(env.Timeout(dt, nil).Event); err != nil {
			return nil, err
		}
		return fn(p)
	})
}

// At spawns fn as a new Process that starts running at virtual time t.
// Panics if t is not strictly in the future.
//
// Grounded on the original SimPy's util.at helper (util.py).
func At(env *Environment, t VTime, fn func(p *Proc) (interface{}, error)) *Process {
	now := env.Now()
	if t <= now {
		panic(newUserError("At: t=%v must be in the future (> %v)", t, now))
	}
	return Delayed(env, t-now, fn)
}

// WaitForAll spawns a Process that waits for every process in procs to
// terminate and resolves to their results, in the same order procs was
// given. Panics if procs is empty.
//
// Grounded on the original SimPy's util.wait_for_all helper (util.py),
// reimplemented here on top of AllOf rather than the original's manual
// yield-in-a-loop, since AllOf already gives ordered, short-circuiting
// aggregation.
func WaitForAll(env *Environment, procs []*Process) *Process {
	if len(procs) == 0 {
		panic(newUserError("WaitForAll: no processes were passed"))
	}

	events := make([]*Event, len(procs))
	for i, pr := range procs {
		events[i] = pr.Event
	}

	return env.Process(func(p *Proc) (interface{}, error) {
		val, err := p.Yield(env.AllOf(events...).Event)
		if err != nil {
			return nil, err
		}

		result := val.(*ConditionResult)
		values := make([]interface{}, len(events))
		for i, e := range events {
			values[i], _ = result.Get(e)
		}
		return values, nil
	})
}

// WaitForAnyResult is what a WaitForAny process resolves to: which process
// finished first, and which of the originally-passed processes are still
// running.
type WaitForAnyResult struct {
	Finished  *Process
	Remaining []*Process
}

// WaitForAny spawns a Process that waits until the first of procs
// terminates, resolving to a WaitForAnyResult naming the winner and the
// still-running rest. Pass Remaining back in for a repeat call to wait for
// the next one to finish. Panics if procs is empty.
//
// Grounded on the original SimPy's util.wait_for_any helper (util.py); the
// original delivers the winner via an Interrupt raised on a synthetic
// hold(), this reimplements the same "who finished first" result using
// AnyOf instead, since this engine already has that primitive.
func WaitForAny(env *Environment, procs []*Process) *Process {
	if len(procs) == 0 {
		panic(newUserError("WaitForAny: no processes were passed"))
	}

	events := make([]*Event, len(procs))
	for i, pr := range procs {
		events[i] = pr.Event
	}

	return env.Process(func(p *Proc) (interface{}, error) {
		val, err := p.Yield(env.AnyOf(events...).Event)
		if err != nil {
			return nil, err
		}

		result := val.(*ConditionResult)
		finished := result.Events()[0]

		var finishedProc *Process
		remaining := make([]*Process, 0, len(procs)-1)
		for _, pr := range procs {
			if pr.Event == finished {
				finishedProc = pr
				continue
			}
			remaining = append(remaining, pr)
		}

		return WaitForAnyResult{Finished: finishedProc, Remaining: remaining}, nil
	})
}
