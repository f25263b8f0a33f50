package desim

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("entryHeap", func() {
	It("pops non-decreasing in time", func() {
		env := NewEnvironment(0)

		for i := 0; i < 50; i++ {
			t := VTime(rand.Intn(5))
			p := Priority(rand.Intn(2))
			e := env.Event()
			env.schedule(e, p, t)
		}

		var lastTime VTime
		for len(env.heap) > 0 {
			Expect(env.Step()).To(Succeed())
			Expect(env.now).To(BeNumerically(">=", lastTime))
			lastTime = env.now
		}
	})

	It("breaks same-time ties by priority", func() {
		env := NewEnvironment(0)
		normal := env.Event()
		urgent := env.Event()
		env.schedule(normal, Normal, 3)
		env.schedule(urgent, Urgent, 3)

		var fired []*Event
		_, _ = normal.AddCallback(func(e *Event) { fired = append(fired, e) })
		_, _ = urgent.AddCallback(func(e *Event) { fired = append(fired, e) })

		Expect(env.Step()).To(Succeed())
		Expect(env.Step()).To(Succeed())
		Expect(fired).To(Equal([]*Event{urgent, normal}))
	})

	It("Peek reports +Inf on an empty schedule", func() {
		env := NewEnvironment(0)
		Expect(env.Peek()).To(Equal(VTime(math.Inf(1))))
	})

	It("Peek reports the earliest pending time", func() {
		env := NewEnvironment(0)
		e1 := env.Event()
		e2 := env.Event()
		env.schedule(e2, Normal, 5)
		env.schedule(e1, Normal, 2)
		Expect(env.Peek()).To(Equal(VTime(2)))
	})

	It("panics on a negative delay", func() {
		env := NewEnvironment(0)
		e := env.Event()
		Expect(func() { env.schedule(e, Normal, -1) }).To(Panic())
	})
})
