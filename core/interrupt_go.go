//go:build !tinygo

package core

// State holds saved interrupt state. On regular Go there are no interrupts
// to mask; the guards exist so host builds and tests share the same code
// paths as firmware.
type State uintptr

func disableInterrupts() State { return 0 }

func restoreInterrupts(State) {}
