package core

import "errors"

// The timer layer reports failures from a small closed set, always as return
// values to the immediate caller. Nothing here retries, logs, or aborts;
// arming, querying and unit conversion are infallible by contract (extreme
// inputs saturate or clamp instead of erroring).
var (
	// ErrOff means required clocks or power domains are not enabled. Only
	// starting a counter can fail this way.
	ErrOff = errors.New("clocks off")

	// ErrBusy means the operation is unsafe in the current mode. Only
	// stopping a counter can fail this way.
	ErrBusy = errors.New("busy")

	// ErrFailed is the unspecified failure used when a reset, disarm or
	// cancel could not be confirmed.
	ErrFailed = errors.New("operation failed")
)
