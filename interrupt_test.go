package desim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Process.Interrupt", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment(0)
	})

	It("delivers an Interrupt carrying its cause to the victim's suspension point", func() {
		var caught *Interrupt
		victim := env.Process(func(p *Proc) (interface{}, error) {
			_, err := p.Yield(p.Env().Timeout(10, nil).Event)
			if err != nil {
				if it, ok := err.(*Interrupt); ok {
					caught = it
					return nil, nil
				}
				return nil, err
			}
			return "not interrupted", nil
		})

		env.Process(func(p *Proc) (interface{}, error) {
			_, err := p.Yield(p.Env().Timeout(1, nil).Event)
			if err != nil {
				return nil, err
			}
			victim.Interrupt("driver needs the car")
			return nil, nil
		})

		Expect(env.Run(victim)).To(Succeed())
		Expect(caught).NotTo(BeNil())
		Expect(caught.Cause).To(Equal("driver needs the car"))
		Expect(env.Now()).To(Equal(VTime(1)))
	})

	It("is a no-op against an already-terminated process", func() {
		victim := env.Process(func(p *Proc) (interface{}, error) {
			return nil, nil
		})
		Expect(env.Run(victim)).To(Succeed())
		Expect(func() { victim.Interrupt("too late") }).NotTo(Panic())
	})

	It("formats without a cause", func() {
		i := NewInterrupt(nil)
		Expect(i.Error()).To(ContainSubstring("interrupted"))
	})
})
