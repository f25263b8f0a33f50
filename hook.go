package desim

//go:generate mockgen -source=hook.go -destination=internal/mocks/mock_hook.go -package=mocks

// HookPos names a site at which a Hookable object invokes its hooks.
//
// Grounded on the teacher's hook.go, kept nearly verbatim: this is the
// ambient logging/observability seam the core needs but must not itself
// depend on a logging framework for (see SPEC_FULL.md's AMBIENT STACK).
type HookPos struct {
	Name string
}

// HookCtx carries the information available at a hook site.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is anything that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

var (
	// HookPosBeforeEvent fires just before Environment.Step hands an event
	// to its callbacks.
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	// HookPosAfterEvent fires just after Environment.Step has run an
	// event's callbacks.
	HookPosAfterEvent = &HookPos{Name: "AfterEvent"}
	// HookPosProcessResumed fires whenever a Process is handed control
	// again, whether by its target firing or by an interrupt.
	HookPosProcessResumed = &HookPos{Name: "ProcessResumed"}
	// HookPosResourceAdmitted fires whenever a resource's service loop
	// admits a pending Put or Get.
	HookPosResourceAdmitted = &HookPos{Name: "ResourceAdmitted"}
)

// Hook is a short piece of program a Hookable object invokes at its hook
// sites.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func implements Hook.
func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// HookableBase implements bookkeeping shared by every Hookable in this
// package.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks are registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook runs every registered hook with ctx, in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
