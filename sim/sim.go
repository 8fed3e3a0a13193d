// Package sim provides a deterministic, manually advanced implementation of
// the counter and alarm contracts. It stands in for a hardware timer
// peripheral in host builds and tests: time moves only when Advance is
// called, and callbacks are delivered from inside Advance exactly where the
// hardware interrupt would deliver them.
package sim

import "tickhal/core"

// Clock is a simulated free-running counter with one alarm comparator. It is
// not safe for concurrent use; like the contract it implements, it models a
// single-threaded execution where each callback runs to completion before
// the next event is processed.
type Clock[T core.Ticks[T]] struct {
	freq     core.Frequency
	now      T
	running  bool
	powered  bool
	stopBusy bool

	overflowFn func()

	alarmFn  func()
	deadline T
	armed    bool
	pending  bool // armed with a deadline already reached; fires on next Advance
	minDt    T
}

// NewClock returns a stopped, powered clock at counter value zero.
func NewClock[T core.Ticks[T]](freq core.Frequency) *Clock[T] {
	return &Clock[T]{freq: freq, powered: true}
}

func (c *Clock[T]) Now() T                    { return c.now }
func (c *Clock[T]) Frequency() core.Frequency { return c.freq }

// SetPowered controls the simulated clock gate; Start fails with ErrOff
// while powered off.
func (c *Clock[T]) SetPowered(on bool) { c.powered = on }

// SetStopBusy makes Stop fail with ErrBusy, simulating a counter mode that
// cannot be halted safely.
func (c *Clock[T]) SetStopBusy(busy bool) { c.stopBusy = busy }

// SetMinimumDt sets the comparator's minimum delta; smaller SetAlarm deltas
// are clamped up to it.
func (c *Clock[T]) SetMinimumDt(dt T) { c.minDt = dt }

// SetTicks jumps the counter without delivering any notifications, like
// loading a hardware count register directly.
func (c *Clock[T]) SetTicks(v T) { c.now = v }

func (c *Clock[T]) SetOverflowHandler(fn func()) { c.overflowFn = fn }

func (c *Clock[T]) Start() error {
	if !c.powered {
		return core.ErrOff
	}
	c.running = true
	return nil
}

func (c *Clock[T]) Stop() error {
	if c.stopBusy {
		return core.ErrBusy
	}
	c.running = false
	return nil
}

func (c *Clock[T]) Reset() error {
	var zero T
	c.now = zero
	// An armed alarm or latched fire is left untouched, matching hardware
	// where resetting the count register does not clear the comparator.
	return nil
}

func (c *Clock[T]) IsRunning() bool { return c.running }

func (c *Clock[T]) SetAlarmHandler(fn func()) { c.alarmFn = fn }

func (c *Clock[T]) SetAlarm(reference, dt T) {
	if dt.Uint64() < c.minDt.Uint64() {
		dt = c.minDt
	}
	c.deadline = reference.Add(dt)
	c.armed = true
	// If the counter already left [reference, deadline) the deadline is in
	// the recent past: latch an immediate fire instead of waiting a full
	// wrap. This is the distinction the (reference, dt) form exists for.
	c.pending = !c.now.WithinRange(reference, c.deadline)
}

func (c *Clock[T]) Deadline() T { return c.deadline }

func (c *Clock[T]) Disarm() error {
	c.armed = false
	c.pending = false
	return nil
}

func (c *Clock[T]) IsArmed() bool { return c.armed }

func (c *Clock[T]) MinimumDt() T { return c.minDt }

// Advance moves the counter forward dt ticks, delivering overflow and alarm
// callbacks in the order the hardware would. A callback may re-arm the
// alarm; a re-armed deadline inside the remaining span fires within the same
// Advance call. While the counter is stopped only latched fires are
// delivered and the count does not move.
func (c *Clock[T]) Advance(dt T) {
	var zero T
	steps := dt.Uint64()
	for {
		if c.armed && c.pending {
			c.fireAlarm()
		}
		if steps == 0 || !c.running {
			return
		}

		span := steps
		if c.armed {
			if d := c.deadline.Sub(c.now).Uint64(); d <= span {
				span = d
			}
		}
		if w := zero.Sub(c.now).Uint64(); w != 0 && w <= span {
			span = w
		}

		c.now = c.now.Add(zero.FromUint64(span))
		steps -= span

		if c.now == zero {
			if fn := c.overflowFn; fn != nil {
				fn()
			}
		}
		if c.armed && c.now == c.deadline {
			c.fireAlarm()
		}
	}
}

// fireAlarm disarms before invoking the handler: by the time the callback
// runs the alarm already reads as disarmed, and the handler may re-arm.
func (c *Clock[T]) fireAlarm() {
	c.armed = false
	c.pending = false
	if fn := c.alarmFn; fn != nil {
		fn()
	}
}

// Timestamp is a fixed moment: its Now returns the same sample on every
// call, the distinguished constant-value capability of the Time contract.
type Timestamp[T core.Ticks[T]] struct {
	freq core.Frequency
	at   T
}

// NewTimestamp pins a timestamp at the given counter value.
func NewTimestamp[T core.Ticks[T]](freq core.Frequency, at T) *Timestamp[T] {
	return &Timestamp[T]{freq: freq, at: at}
}

func (ts *Timestamp[T]) Now() T                    { return ts.at }
func (ts *Timestamp[T]) Frequency() core.Frequency { return ts.freq }

var (
	_ core.Counter[core.Ticks32]   = (*Clock[core.Ticks32])(nil)
	_ core.Alarm[core.Ticks32]     = (*Clock[core.Ticks32])(nil)
	_ core.Timestamp[core.Ticks32] = (*Timestamp[core.Ticks32])(nil)
)
