package core

// Counter is a free-running hardware counter that can be started, stopped and
// reset, and that notifies a single observer each time it wraps through its
// full width back to zero.
type Counter[T Ticks[T]] interface {
	Time[T]

	// SetOverflowHandler registers fn to be invoked once per full-width wrap
	// of the counter. Registering replaces any previously installed handler;
	// there is no listener list at this layer. A nil fn clears the slot.
	// The handler runs in interrupt context and must not block.
	SetOverflowHandler(fn func())

	// Start begins counting. It returns nil and leaves IsRunning true, or
	// ErrOff if underlying clocks or power are not enabled, or ErrFailed for
	// an unidentified failure (counter not running).
	Start() error

	// Stop halts counting and suppresses further overflow notifications. It
	// returns nil and leaves IsRunning false, or ErrBusy if the counter is
	// in use in a way that prevents stopping it safely, or ErrFailed for an
	// unidentified failure (counter still running).
	Stop() error

	// Reset forces the counter value to zero. It may introduce jitter and
	// has no effect on an overflow notification that is already pending; a
	// client that wants a clean slate should Stop before Reset. Returns
	// ErrFailed if the reset could not be confirmed.
	Reset() error

	// IsRunning reports the current run state.
	IsRunning() bool
}
