// Package report drives periodic counter telemetry: one framed tick report
// per timer fire, written to whatever transport the target wires up
// (typically USB CDC or a UART).
package report

import (
	"io"

	"tickhal/core"
	"tickhal/protocol"
)

// Reporter samples a counter on a repeating timer and writes one report
// frame per fire. It claims both the counter's overflow slot and the
// timer's handler slot.
type Reporter[T core.Ticks[T]] struct {
	counter core.Counter[T]
	timer   core.Timer[T]
	out     io.Writer

	seq       uint8
	overflows uint32
	scratch   [protocol.FrameLengthMax]byte
}

// NewReporter wires the reporter into counter and timer. The two must share
// the same underlying clock or the reported samples are meaningless.
func NewReporter[T core.Ticks[T]](counter core.Counter[T], timer core.Timer[T], out io.Writer) *Reporter[T] {
	r := &Reporter[T]{counter: counter, timer: timer, out: out}
	counter.SetOverflowHandler(r.overflow)
	timer.SetTimerHandler(r.emit)
	return r
}

// Start begins counting and reporting every interval ticks. Returns the
// granted interval, which may be larger than requested.
func (r *Reporter[T]) Start(interval T) (T, error) {
	var zero T
	if err := r.counter.Start(); err != nil {
		return zero, err
	}
	return r.timer.Repeating(interval), nil
}

// Stop cancels reporting and halts the counter. If either step fails the
// reporter is left in a partially stopped state and the error is returned.
func (r *Reporter[T]) Stop() error {
	if err := r.timer.Cancel(); err != nil {
		return err
	}
	return r.counter.Stop()
}

// Overflows returns the wraps observed since the reporter was created.
func (r *Reporter[T]) Overflows() uint32 { return r.overflows }

func (r *Reporter[T]) overflow() { r.overflows++ }

// emit runs in the timer callback. The frame is built in the fixed scratch
// buffer; a short or failed write is dropped rather than retried, the next
// report supersedes it.
func (r *Reporter[T]) emit() {
	frame := protocol.AppendFrame(r.scratch[:0], r.seq, protocol.Report{
		Clock:     r.counter.Now().Uint32(),
		Overflows: r.overflows,
		Running:   r.counter.IsRunning(),
	})
	r.seq = (r.seq + 1) & protocol.SeqMask
	_, _ = r.out.Write(frame)
}
