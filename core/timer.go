package core

// Timer schedules callbacks after an interval, one-shot or repeating. It
// trades precision for convenience: the callback arrives at least the
// requested interval in the future, with some jitter tolerated. Code
// that must fire on an exact tick should use an Alarm.
type Timer[T Ticks[T]] interface {
	Time[T]

	// SetTimerHandler registers fn to be invoked when the interval expires.
	// Registering replaces any previously installed handler; a nil fn
	// clears the slot. fn may start a new timer from within its own
	// invocation.
	SetTimerHandler(fn func())

	// Oneshot starts a timer that fires once, at least interval ticks from
	// now. Any pending timer on this instance, either mode, is cancelled
	// first. After the callback the timer is disabled and must not fire
	// again until restarted. Returns the granted interval, which is never
	// smaller than requested but may be rounded up.
	Oneshot(interval T) T

	// Repeating starts a timer that fires every interval ticks, re-arming
	// itself after each callback with the same granted interval until
	// cancelled or replaced. Any pending timer is cancelled first. Returns
	// the granted interval, never smaller than requested.
	Repeating(interval T) T

	// Interval returns the granted interval of the last requested timer,
	// or false if no timer was ever set or the last one was cancelled.
	Interval() (T, bool)

	// IsOneshot reports whether the current timer is one-shot. Mutually
	// exclusive with IsRepeating; both are false when disabled.
	IsOneshot() bool

	// IsRepeating reports whether the current timer is repeating.
	IsRepeating() bool

	// TimeRemaining returns the ticks until the next callback, or false if
	// the timer is disabled. The value is approximate: registration can lag
	// the request, so the remaining time may read slightly higher than a
	// naive computation made just before starting the timer.
	TimeRemaining() (T, bool)

	// IsEnabled reports whether a callback is still expected. Once false,
	// no callback fires until Oneshot or Repeating restarts the timer.
	IsEnabled() bool

	// Cancel stops the pending timer, if any. On nil return no further
	// callback will occur; on ErrFailed the timer is still pending.
	Cancel() error
}
