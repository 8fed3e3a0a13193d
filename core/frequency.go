package core

// Frequency is a counter's tick rate in Hz. It carries no per-instance state;
// a hardware binding picks one constant and all unit conversions derive from
// it. Consumers may define their own values for clocks not listed here.
type Frequency uint32

const (
	Freq100MHz Frequency = 100000000
	Freq16MHz  Frequency = 16000000
	Freq1MHz   Frequency = 1000000
	Freq32KHz  Frequency = 32768
	Freq16KHz  Frequency = 16000
	Freq1KHz   Frequency = 1000
)

// Hertz returns the rate as a plain uint32.
func (f Frequency) Hertz() uint32 { return uint32(f) }
