package core

// Time is the capability exposed by every counter-backed component: a tick
// source of a known width and frequency. Two calls to Now may return
// different values; nothing here promises a constant sample. Code that needs
// a fixed moment should ask for a Timestamp instead.
type Time[T Ticks[T]] interface {
	// Now returns a fresh sample of the counter.
	Now() T

	// Frequency returns the tick rate of the source.
	Frequency() Frequency
}

// Timestamp is a Time whose Now returns the same value on every call. It is
// a distinct capability, not the default: implementations that hand one out
// promise the constant-value behavior.
type Timestamp[T Ticks[T]] interface {
	Time[T]
}

// TicksFromSeconds returns the number of ticks in s seconds at frequency f,
// rounding any fraction down. If the result does not fit the width of T it
// saturates to Max rather than wrapping: a huge requested duration must never
// silently become a near-term deadline.
func TicksFromSeconds[T Ticks[T]](f Frequency, s uint32) T {
	return saturatingTicks[T](uint64(f) * uint64(s))
}

// TicksFromMillis returns the number of ticks in ms milliseconds at frequency
// f, rounding down and saturating to Max on overflow.
func TicksFromMillis[T Ticks[T]](f Frequency, ms uint32) T {
	return saturatingTicks[T](uint64(f) * uint64(ms) / 1000)
}

// TicksFromMicros returns the number of ticks in us microseconds at frequency
// f, rounding down and saturating to Max on overflow.
func TicksFromMicros[T Ticks[T]](f Frequency, us uint32) T {
	return saturatingTicks[T](uint64(f) * uint64(us) / 1000000)
}

// The multiply above is done in uint64 so it cannot itself overflow for any
// uint32 frequency and amount; only the final narrowing can lose bits.
func saturatingTicks[T Ticks[T]](val uint64) T {
	var zero T
	max := zero.Max()
	if val >= max.Uint64() {
		return max
	}
	return zero.FromUint64(val)
}
