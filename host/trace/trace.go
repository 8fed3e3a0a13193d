// Package trace reconstructs a continuous timeline from the wrapped counter
// samples a target streams while it is being brought up, and keeps the
// statistics the monitor prints: observed tick rate, wrap count and
// inter-report jitter.
package trace

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"tickhal/core"
	"tickhal/protocol"
)

// Tracker folds 32-bit wrapped samples into a widened 64-bit timeline.
// Deltas between consecutive samples are taken with modular subtraction, so
// the timeline is correct across wrap boundaries as long as reports arrive
// more often than once per counter period.
type Tracker struct {
	freq core.Frequency

	last            core.Ticks32
	haveLast        bool
	elapsed         uint64 // widened ticks since the first sample
	wraps           uint64
	deviceOverflows uint32
	samples         uint64

	firstWall time.Time
	lastWall  time.Time

	jitter *hdrhistogram.Histogram // µs between consecutive reports
}

// NewTracker returns a tracker for a target whose counter runs at freq.
func NewTracker(freq core.Frequency) *Tracker {
	return &Tracker{
		freq:   freq,
		jitter: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Observe folds one report into the timeline. at is the host receive time,
// used for rate estimation and jitter only, never for ordering ticks.
func (t *Tracker) Observe(at time.Time, r protocol.Report) {
	cur := core.Ticks32(r.Clock)

	if t.haveLast {
		delta := cur.Sub(t.last)
		t.elapsed += delta.Uint64()
		// The counter passed the wrap point when advancing by delta landed
		// below delta itself; valid under the reports-per-period
		// precondition above.
		if delta.Uint64() > cur.Uint64() {
			t.wraps++
		}
		_ = t.jitter.RecordValue(at.Sub(t.lastWall).Microseconds())
	} else {
		t.firstWall = at
	}

	t.last = cur
	t.haveLast = true
	t.lastWall = at
	t.deviceOverflows = r.Overflows
	t.samples++
}

// Stats is a snapshot of the reconstructed timeline.
type Stats struct {
	Samples      uint64
	ElapsedTicks uint64
	Wraps        uint64 // wraps inferred from samples
	Overflows    uint32 // wraps the device itself reported
	NominalHz    uint32
	ObservedHz   float64
	JitterP50    time.Duration
	JitterP99    time.Duration
}

// Stats returns the current statistics. ObservedHz is zero until two
// samples have arrived.
func (t *Tracker) Stats() Stats {
	s := Stats{
		Samples:      t.samples,
		ElapsedTicks: t.elapsed,
		Wraps:        t.wraps,
		Overflows:    t.deviceOverflows,
		NominalHz:    t.freq.Hertz(),
	}
	if wall := t.lastWall.Sub(t.firstWall); wall > 0 {
		s.ObservedHz = float64(t.elapsed) / wall.Seconds()
	}
	if t.jitter.TotalCount() > 0 {
		s.JitterP50 = time.Duration(t.jitter.ValueAtQuantile(50)) * time.Microsecond
		s.JitterP99 = time.Duration(t.jitter.ValueAtQuantile(99)) * time.Microsecond
	}
	return s
}

// Drift returns the relative error of the observed rate against nominal,
// e.g. 0.001 for a clock running 0.1% fast. Zero until a rate is known.
func (t *Tracker) Drift() float64 {
	s := t.Stats()
	if s.ObservedHz == 0 || s.NominalHz == 0 {
		return 0
	}
	return s.ObservedHz/float64(s.NominalHz) - 1
}
