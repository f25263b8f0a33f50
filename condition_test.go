package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Condition", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment(0)
	})

	Describe("AllOf", func() {
		It("succeeds once every child has triggered, with a result keyed by all children", func() {
			t1 := env.Timeout(1, "spam")
			t2 := env.Timeout(2, "eggs")
			cond := env.AllOf(t1.Event, t2.Event)

			Expect(env.Run(cond)).To(Succeed())
			Expect(env.Now()).To(Equal(VTime(2)))

			result := cond.Value().(*ConditionResult)
			v1, ok1 := result.Get(t1.Event)
			Expect(ok1).To(BeTrue())
			Expect(v1).To(Equal("spam"))
			v2, ok2 := result.Get(t2.Event)
			Expect(ok2).To(BeTrue())
			Expect(v2).To(Equal("eggs"))
			Expect(result.Events()).To(Equal([]*Event{t1.Event, t2.Event}))
		})

		It("fails as soon as any child fails, without waiting for the rest", func() {
			e1 := env.Event()
			e2 := env.Event()
			cond := env.AllOf(e1, e2)

			Expect(e1.Fail(newUserError("boom"))).To(Succeed())
			Expect(env.Run(cond)).To(HaveOccurred())

			Expect(cond.Processed()).To(BeTrue())
			Expect(cond.OK()).To(BeFalse())
			Expect(e2.Triggered()).To(BeFalse())
		})

		It("succeeds immediately if all children are already processed", func() {
			t1 := env.Timeout(0, 1)
			t2 := env.Timeout(0, 2)
			Expect(env.Run(VTime(1))).To(Succeed())

			cond := env.AllOf(t1.Event, t2.Event)
			Expect(cond.Triggered()).To(BeTrue())
		})
	})

	Describe("AnyOf", func() {
		It("succeeds once the first child triggers", func() {
			t1 := env.Timeout(1, "spam")
			t2 := env.Timeout(2, "eggs")
			cond := env.AnyOf(t1.Event, t2.Event)

			Expect(env.Run(cond)).To(Succeed())
			Expect(env.Now()).To(Equal(VTime(1)))

			result := cond.Value().(*ConditionResult)
			_, ok := result.Get(t1.Event)
			Expect(ok).To(BeTrue())
			_, ok = result.Get(t2.Event)
			Expect(ok).To(BeFalse())
		})

		It("succeeds vacuously when given no children at all", func() {
			cond := env.AnyOf()
			Expect(cond.Triggered()).To(BeTrue())
			Expect(cond.OK()).To(BeTrue())
		})
	})

	Describe("And/Or", func() {
		It("And builds the same thing as AllOf over two events", func() {
			t1 := env.Timeout(1, nil)
			t2 := env.Timeout(2, nil)
			cond := t1.Event.And(t2.Event)
			Expect(env.Run(cond)).To(Succeed())
			Expect(env.Now()).To(Equal(VTime(2)))
		})

		It("Or builds the same thing as AnyOf over two events", func() {
			t1 := env.Timeout(1, nil)
			t2 := env.Timeout(2, nil)
			cond := t1.Event.Or(t2.Event)
			Expect(env.Run(cond)).To(Succeed())
			Expect(env.Now()).To(Equal(VTime(1)))
		})
	})
})
