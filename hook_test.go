package desim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	desim "github.com/desimgo/desim"
	"github.com/desimgo/desim/internal/mocks"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		env      *desim.Environment
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		env = desim.NewEnvironment(0)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("invokes every registered hook, in registration order, for both hook sites Step visits", func() {
		var seen []string

		first := mocks.NewMockHook(mockCtrl)
		first.EXPECT().Func(gomock.Any()).Do(func(ctx desim.HookCtx) {
			seen = append(seen, "first:"+ctx.Pos.Name)
		}).Times(2)

		second := mocks.NewMockHook(mockCtrl)
		second.EXPECT().Func(gomock.Any()).Do(func(ctx desim.HookCtx) {
			seen = append(seen, "second:"+ctx.Pos.Name)
		}).Times(2)

		env.AcceptHook(first)
		env.AcceptHook(second)

		e := env.Event()
		Expect(e.Succeed(nil)).To(Succeed())
		Expect(env.Run(e)).To(Succeed())

		Expect(seen).To(Equal([]string{
			"first:BeforeEvent", "second:BeforeEvent",
			"first:AfterEvent", "second:AfterEvent",
		}))
	})

	It("reports the number of registered hooks", func() {
		Expect(env.NumHooks()).To(Equal(0))
		env.AcceptHook(mocks.NewMockHook(mockCtrl))
		Expect(env.NumHooks()).To(Equal(1))
	})

	It("fires HookPosResourceAdmitted when a capacity resource admits a request", func() {
		hook := mocks.NewMockHook(mockCtrl)
		var sawAdmitted bool
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx desim.HookCtx) {
			if ctx.Pos == desim.HookPosResourceAdmitted {
				sawAdmitted = true
			}
		}).AnyTimes()
		env.AcceptHook(hook)

		res := desim.NewResource(env, 1)
		req := res.Request()
		Expect(env.Run(req.Event)).To(Succeed())
		Expect(sawAdmitted).To(BeTrue())
	})

	It("fires HookPosProcessResumed each time a process is handed control", func() {
		hook := mocks.NewMockHook(mockCtrl)
		var resumed int
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx desim.HookCtx) {
			if ctx.Pos == desim.HookPosProcessResumed {
				resumed++
			}
		}).AnyTimes()
		env.AcceptHook(hook)

		proc := env.Process(func(p *desim.Proc) (interface{}, error) {
			if _, err := p.Yield(p.Env().Timeout(1, nil).Event); err != nil {
				return nil, err
			}
			return nil, nil
		})

		Expect(env.Run(proc)).To(Succeed())
		Expect(resumed).To(Equal(2))
	})
})
