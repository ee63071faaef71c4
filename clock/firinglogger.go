package clock

import "log"

// A LogHook is a hook that is responsible for recording information from the
// running clock
type LogHook interface {
	Hook
}

// LogHookBase provides the common logic for all LogHooks
type LogHookBase struct {
	*log.Logger
}

// FiringLogger is a hook that prints every callback dispatch
type FiringLogger struct {
	LogHookBase
}

// NewFiringLogger returns a new FiringLogger which will write into the logger
func NewFiringLogger(logger *log.Logger) *FiringLogger {
	h := new(FiringLogger)
	h.Logger = logger
	return h
}

// Func writes the dispatch information into the logger
func (h *FiringLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeFire {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	dt, _ := ctx.Detail.(VTimeInSec)
	h.Logger.Printf("%.10f, evt %s, priority %d, dt %.10f",
		evt.LastEventTime(), evt.ID(), evt.Priority(), dt)
}
