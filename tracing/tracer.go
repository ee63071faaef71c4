package tracing

import (
	"github.com/openpinball/cadence/clock"
)

// A timeTeller reports the scheduling state of the traced clock.
type timeTeller interface {
	CurrentTime() clock.VTimeInSec
	TickCount() uint64
}

// A FiringTracer is a hook that stores every callback dispatch into a
// Recorder.
type FiringTracer struct {
	recorder Recorder
}

// NewFiringTracer creates a FiringTracer that writes into recorder.
func NewFiringTracer(recorder Recorder) *FiringTracer {
	return &FiringTracer{recorder: recorder}
}

// Trace attaches a FiringTracer to a clock.
func Trace(c clock.Hookable, recorder Recorder) *FiringTracer {
	t := NewFiringTracer(recorder)
	c.AcceptHook(t)
	return t
}

// Func records the dispatch described by ctx.
func (t *FiringTracer) Func(ctx clock.HookCtx) {
	if ctx.Pos != clock.HookPosAfterFire {
		return
	}

	evt, ok := ctx.Item.(*clock.Event)
	if !ok {
		return
	}

	rec := FiringRecord{
		EventID:  evt.ID(),
		Priority: evt.Priority(),
	}

	if dt, ok := ctx.Detail.(clock.VTimeInSec); ok {
		rec.DT = float64(dt)
	}

	if teller, ok := ctx.Domain.(timeTeller); ok {
		rec.Time = float64(teller.CurrentTime())
		rec.Tick = teller.TickCount()
	}

	t.recorder.Record(rec)
}
