//go:build tinygo

package core

import "runtime/interrupt"

// State holds saved interrupt state for restore.
type State = interrupt.State

// Registration slots and timer state are mutated from both thread and
// interrupt context, so mutations happen inside these guards.
func disableInterrupts() State {
	return interrupt.Disable()
}

func restoreInterrupts(state State) {
	interrupt.Restore(state)
}
