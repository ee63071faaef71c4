package clock

// A Trigger is a reusable activator around a single callback. It owns exactly
// one event for its whole lifetime and toggles it between idle and pending
// instead of allocating a new one per activation, so any number of Fire calls
// between two ticks collapse into a single firing.
type Trigger struct {
	evt *Event
}

// Fire arms the trigger's event if it is idle, capturing the current time as
// the baseline for the callback's dt argument. Firing an already pending
// trigger is a no-op. Returns whether this call performed the activation.
func (t *Trigger) Fire() bool {
	return t.evt.activate()
}

// Cancel unschedules the trigger's event if it is pending. The trigger
// remains usable; a later Fire arms it again.
func (t *Trigger) Cancel() {
	t.evt.Cancel()
}

// IsTriggered reports whether the trigger's event is currently pending.
func (t *Trigger) IsTriggered() bool {
	return t.evt.IsTriggered()
}

// Event returns the event owned by the trigger.
func (t *Trigger) Event() *Event {
	return t.evt
}
