package clock

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosTickStart is a hook position that triggers when a tick begins, after
// the wait phase completes and the time reference advances.
var HookPosTickStart = &HookPos{Name: "TickStart"}

// HookPosBeforeFire is a hook position that triggers before a callback is
// invoked.
var HookPosBeforeFire = &HookPos{Name: "BeforeFire"}

// HookPosAfterFire is a hook position that triggers after a callback returns.
var HookPosAfterFire = &HookPos{Name: "AfterFire"}

// HookPosFireError is a hook position that triggers when a callback returns a
// non-nil error.
var HookPosFireError = &HookPos{Name: "FireError"}

// HookPosIterationCeiling is a hook position that triggers when the
// before-frame iteration limit is exceeded and the remaining work is deferred
// to the next tick.
var HookPosIterationCeiling = &HookPos{Name: "IterationCeiling"}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the register Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
