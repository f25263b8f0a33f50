package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timeout", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment(0)
	})

	It("is already triggered at construction time", func() {
		t := env.Timeout(3, "payload")
		Expect(t.Triggered()).To(BeTrue())
		Expect(t.OK()).To(BeTrue())
		Expect(t.Delay).To(Equal(VTime(3)))
	})

	It("fires at now+delay carrying its value", func() {
		t := env.Timeout(3, "payload")
		Expect(env.Run(t)).To(Succeed())
		Expect(env.Now()).To(Equal(VTime(3)))
		Expect(t.Value()).To(Equal("payload"))
	})

	It("supports a zero delay", func() {
		t := env.Timeout(0, nil)
		Expect(env.Run(t)).To(Succeed())
		Expect(env.Now()).To(Equal(VTime(0)))
	})

	It("panics on a negative delay", func() {
		Expect(func() { env.Timeout(-1, nil) }).To(Panic())
	})
})
