package desim

// Proc is the handle a Process's routine uses to suspend itself. Yield
// blocks the calling goroutine until the given event is processed, then
// returns its outcome, injected back at the suspension point exactly the
// way spec.md §4.3's "Resumption step" describes.
type Proc struct {
	env     *Environment
	process *Process
}

// Env returns the Environment the process runs in.
func (p *Proc) Env() *Environment { return p.env }

// Yield suspends the calling routine until e is processed, returning e's
// success value or its failure. Yielding an already-processed event is a
// UserError (spec.md's "deferred-value rule"): use the event's value
// directly instead.
func (p *Proc) Yield(e *Event) (interface{}, error) {
	if e.Processed() {
		panic(newUserError("cannot yield a processed event; use its value directly"))
	}
	return p.process.yield(e)
}

// yieldResult is what the process goroutine sends back to the scheduler
// goroutine: either "I suspended on this event" or "I'm done".
type yieldResult struct {
	yielded *Event
	done    bool
	value   interface{}
	err     error
}

// Process drives a suspendable routine on Environment callbacks. It is
// itself an Event: it succeeds with the routine's return value on normal
// termination, or fails with the routine's error (or panic, converted to
// an error) on abnormal termination.
//
// Grounded on the teacher's Handler/Engine split (engine.go, event.go):
// the teacher resumes a Handler synchronously from Engine.Run when its
// event fires. This engine needs the resumed code to be able to suspend
// mid-function, which a Handler.Handle callback cannot do; a goroutine
// blocked on an unbuffered channel is this package's stand-in for the
// suspendable coroutine spec.md §9 calls for -- exactly one of the
// scheduler goroutine or the process goroutine ever runs at a time, which
// is what keeps the engine single-threaded-cooperative in practice even
// though real goroutines back it.
type Process struct {
	*Event

	env    *Environment
	proc   *Proc
	target *Event
	cbTok  int
	alive  bool

	toProcess   chan struct{}
	fromProcess chan yieldResult

	pendingValue interface{}
	pendingErr   error
}

func newProcess(env *Environment, fn func(p *Proc) (interface{}, error)) *Process {
	pr := &Process{
		Event:       newEvent(env),
		env:         env,
		alive:       true,
		toProcess:   make(chan struct{}),
		fromProcess: make(chan yieldResult),
	}
	pr.proc = &Proc{env: env, process: pr}

	go pr.run(fn)

	init := newEvent(env)
	init.triggered = true
	init.ok = true
	env.schedule(init, Urgent, 0)

	tok, _ := init.AddCallback(pr.advance)
	pr.target = init
	pr.cbTok = tok

	return pr
}

// IsAlive reports whether the process has not yet terminated (spec.md's
// is_alive attribute).
func (pr *Process) IsAlive() bool { return pr.alive }

// Target returns the event the process is currently suspended on, or nil
// if the process has already terminated.
func (pr *Process) Target() *Event {
	if !pr.alive {
		return nil
	}
	return pr.target
}

func (pr *Process) run(fn func(p *Proc) (interface{}, error)) {
	<-pr.toProcess

	var val interface{}
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					err = newUserError("process panicked: %v", r)
				}
			}
		}()
		val, err = fn(pr.proc)
	}()

	pr.fromProcess <- yieldResult{done: true, value: val, err: err}
}

// yield is called from the process's own goroutine (via Proc.Yield) to
// hand control back to the scheduler and block until e resolves.
func (pr *Process) yield(e *Event) (interface{}, error) {
	pr.fromProcess <- yieldResult{yielded: e}
	<-pr.toProcess
	return pr.pendingValue, pr.pendingErr
}

// advance is the callback attached to whatever event the process is
// currently suspended on (or, for the very first step, the private
// Initialize event). It implements the "Resumption step" of spec.md §4.3.
func (pr *Process) advance(target *Event) {
	target.Defuse()
	pr.deliver(target.OK(), target.Value(), target.Err())
}

// deliver hands (value, err) to the suspended routine and drives it to its
// next suspension point or termination. It is shared between normal
// resumption (advance, reading a fired target) and interrupt delivery
// (Process.Interrupt's Interruption event, which injects a synthetic
// failure without an underlying target having fired).
func (pr *Process) deliver(ok bool, value interface{}, err error) {
	if !pr.alive {
		return
	}

	pr.env.active = pr
	if ok {
		pr.pendingValue, pr.pendingErr = value, nil
	} else {
		pr.pendingValue, pr.pendingErr = nil, err
	}

	pr.env.InvokeHook(HookCtx{Domain: pr.env, Pos: HookPosProcessResumed, Item: pr})

	pr.toProcess <- struct{}{}
	res := <-pr.fromProcess
	pr.env.active = nil

	if res.done {
		pr.alive = false
		pr.target = nil
		if res.err != nil {
			_ = pr.Fail(res.err)
		} else {
			_ = pr.Succeed(res.value)
		}
		return
	}

	pr.target = res.yielded
	tok, addErr := res.yielded.AddCallback(pr.advance)
	if addErr != nil {
		panic(addErr)
	}
	pr.cbTok = tok
}
