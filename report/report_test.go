package report

import (
	"bytes"
	"testing"

	"tickhal/core"
	"tickhal/protocol"
	"tickhal/sim"
)

func TestReporterEmitsSamples(t *testing.T) {
	clk := sim.NewClock[core.Ticks32](core.Freq1MHz)
	tm := core.NewAlarmTimer[core.Ticks32](clk)
	var buf bytes.Buffer

	r := NewReporter[core.Ticks32](clk, tm, &buf)
	granted, err := r.Start(1000)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if granted != 1000 {
		t.Errorf("granted = %d, want 1000", granted)
	}

	for i := 0; i < 4; i++ {
		clk.Advance(1000)
	}

	d := protocol.NewDecoder()
	got := d.Feed(buf.Bytes())
	if len(got) != 4 {
		t.Fatalf("decoded %d reports, want 4", len(got))
	}
	for i, rep := range got {
		want := uint32((i + 1) * 1000)
		if rep.Clock != want {
			t.Errorf("report %d clock = %d, want %d", i, rep.Clock, want)
		}
		if !rep.Running {
			t.Errorf("report %d not marked running", i)
		}
	}
	if s := d.Stats(); s.SeqGaps != 0 || s.CRCErrors != 0 {
		t.Errorf("stream not clean: %+v", s)
	}
}

func TestReporterCountsOverflows(t *testing.T) {
	clk := sim.NewClock[core.Ticks16](core.Freq32KHz)
	tm := core.NewAlarmTimer[core.Ticks16](clk)
	var buf bytes.Buffer

	r := NewReporter[core.Ticks16](clk, tm, &buf)
	if _, err := r.Start(0x4000); err != nil {
		t.Fatal(err)
	}

	// Five report intervals of 0x4000 ticks wrap the 16-bit counter once.
	for i := 0; i < 5; i++ {
		clk.Advance(0x4000)
	}

	got := protocol.NewDecoder().Feed(buf.Bytes())
	if len(got) != 5 {
		t.Fatalf("decoded %d reports, want 5", len(got))
	}
	last := got[len(got)-1]
	if last.Overflows != 1 {
		t.Errorf("overflows = %d, want 1", last.Overflows)
	}
	if r.Overflows() != 1 {
		t.Errorf("Overflows() = %d, want 1", r.Overflows())
	}
}

func TestReporterStop(t *testing.T) {
	clk := sim.NewClock[core.Ticks32](core.Freq1MHz)
	tm := core.NewAlarmTimer[core.Ticks32](clk)
	var buf bytes.Buffer

	r := NewReporter[core.Ticks32](clk, tm, &buf)
	if _, err := r.Start(100); err != nil {
		t.Fatal(err)
	}
	clk.Advance(100)
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	n := buf.Len()

	clk.Advance(10000)
	if buf.Len() != n {
		t.Error("reports still written after Stop")
	}
	if clk.IsRunning() {
		t.Error("counter still running after Stop")
	}
}
