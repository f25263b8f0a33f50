package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Environment", func() {
	It("starts at the given initial time", func() {
		env := NewEnvironment(10)
		Expect(env.Now()).To(Equal(VTime(10)))
	})

	It("Step reports EmptySchedule when there is nothing to run", func() {
		env := NewEnvironment(0)
		err := env.Step()
		Expect(err).To(BeAssignableToTypeOf(&EmptySchedule{}))
	})

	It("panics if an entry's time is behind now (should be unreachable via the public API)", func() {
		env := NewEnvironment(5)
		e := env.Event()
		env.seq++
		env.heap = append(env.heap, &scheduledEntry{time: 1, priority: Normal, seq: env.seq, event: e})
		// heap.Push wasn't used, so re-establish heap invariants isn't needed for len==1.
		Expect(func() { _ = env.Step() }).To(Panic())
	})

	Describe("Run(nil)", func() {
		It("drains the schedule to completion", func() {
			env := NewEnvironment(0)
			var ticks int
			var tick func()
			tick = func() {
				ticks++
				if ticks >= 5 {
					return
				}
				t := env.Timeout(1, nil)
				_, _ = t.AddCallback(func(*Event) { tick() })
			}
			tick()
			Expect(env.Run(nil)).To(Succeed())
			Expect(ticks).To(Equal(5))
			Expect(env.Now()).To(Equal(VTime(4)))
		})
	})

	Describe("Run(VTime)", func() {
		It("stops exactly at the given time, excluding events scheduled at it", func() {
			env := NewEnvironment(0)
			var fired []VTime
			for _, delay := range []VTime{1, 2, 3} {
				d := delay
				t := env.Timeout(d, nil)
				_, _ = t.AddCallback(func(*Event) { fired = append(fired, d) })
			}
			Expect(env.Run(VTime(2))).To(Succeed())
			Expect(env.Now()).To(Equal(VTime(2)))
			Expect(fired).To(Equal([]VTime{1}))
		})

		It("rejects a stop time before now", func() {
			env := NewEnvironment(5)
			Expect(env.Run(VTime(1))).To(HaveOccurred())
		})
	})

	Describe("Run(*Event)", func() {
		It("runs until the given event is processed and surfaces its failure", func() {
			env := NewEnvironment(0)
			e := env.Event()
			Expect(e.Fail(newUserError("boom"))).To(Succeed())
			err := env.Run(e)
			Expect(err).To(HaveOccurred())
		})

		It("errors if the schedule empties before the target fires", func() {
			env := NewEnvironment(0)
			e := env.Event()
			err := env.Run(e)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Run with an unsupported until value", func() {
		It("returns a UserError", func() {
			env := NewEnvironment(0)
			err := env.Run(42)
			Expect(err).To(HaveOccurred())
			Expect(err).To(BeAssignableToTypeOf(&UserError{}))
		})
	})

	It("exposes the active process only while it is running", func() {
		env := NewEnvironment(0)
		var seenDuring *Process
		var proc *Process
		proc = env.Process(func(p *Proc) (interface{}, error) {
			seenDuring = p.Env().ActiveProcess()
			return nil, nil
		})
		Expect(env.Run(proc)).To(Succeed())
		Expect(seenDuring).To(Equal(proc))
		Expect(env.ActiveProcess()).To(BeNil())
	})
})
