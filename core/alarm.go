package core

// Alarm fires a callback once, when the counter reaches a pre-computed value.
// Alarms are for low-level needs that want precision on a particular tick;
// software that can tolerate jitter in exchange for a simpler interface
// should use a Timer instead.
type Alarm[T Ticks[T]] interface {
	Time[T]

	// SetAlarmHandler registers fn to be invoked when the counter reaches
	// the armed deadline. Registering replaces any previously installed
	// handler; a nil fn clears the slot. By the time fn runs the alarm is
	// already considered disarmed; fn may immediately re-arm from within
	// its own invocation.
	SetAlarmHandler(fn func())

	// SetAlarm arms the callback for when Now() reaches reference+dt,
	// replacing any pending deadline (the prior one is abandoned without a
	// callback). The callback may be delayed by interrupt latency but never
	// fires before the deadline is reached. The split (reference, dt) form
	// is deliberate: it lets the implementation tell a deadline in the very
	// recent past from one in the far future, which a single wrapped
	// absolute value cannot express once the distance crosses the wrap
	// boundary. A dt smaller than MinimumDt is silently raised to it.
	SetAlarm(reference, dt T)

	// Deadline returns reference+dt from the last SetAlarm call. Undefined
	// before the first arm.
	Deadline() T

	// Disarm cancels a pending alarm. On nil return no future callback will
	// occur for that arm; on ErrFailed the alarm is still armed.
	Disarm() error

	// IsArmed reports the intended armed state. It is not a reliable
	// predictor of whether a callback is still coming: hardware may have
	// latched a fire that has not yet invoked the handler, in which case
	// IsArmed already reads false while the callback is in flight.
	IsArmed() bool

	// MinimumDt returns the smallest supported delta. Requests below it are
	// clamped up; the alarm never promises sub-minimum resolution.
	MinimumDt() T
}
