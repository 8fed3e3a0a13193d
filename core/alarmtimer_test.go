package core_test

import (
	"testing"

	"tickhal/core"
	"tickhal/sim"
)

func newTimer(t *testing.T) (*sim.Clock[core.Ticks32], *core.AlarmTimer[core.Ticks32]) {
	t.Helper()
	clk := sim.NewClock[core.Ticks32](core.Freq1MHz)
	if err := clk.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return clk, core.NewAlarmTimer[core.Ticks32](clk)
}

func TestOneshotFiresOnceThenDisables(t *testing.T) {
	clk, tm := newTimer(t)
	fires := 0
	tm.SetTimerHandler(func() { fires++ })

	granted := tm.Oneshot(100)
	if granted != 100 {
		t.Errorf("granted = %d, want 100", granted)
	}
	if !tm.IsOneshot() || tm.IsRepeating() || !tm.IsEnabled() {
		t.Error("mode flags wrong after Oneshot")
	}

	clk.Advance(99)
	if fires != 0 {
		t.Fatal("one-shot fired early")
	}
	clk.Advance(1)
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}
	if tm.IsEnabled() || tm.IsOneshot() {
		t.Error("one-shot must be disabled after firing")
	}

	// No further callback without a new request.
	clk.Advance(100000)
	if fires != 1 {
		t.Errorf("fires = %d after disable, want 1", fires)
	}
}

func TestOneshotClampsToMinimum(t *testing.T) {
	clk, tm := newTimer(t)
	clk.SetMinimumDt(25)
	fires := 0
	tm.SetTimerHandler(func() { fires++ })

	granted := tm.Oneshot(0)
	if granted != 25 {
		t.Fatalf("granted = %d, want the 25-tick minimum", granted)
	}
	clk.Advance(24)
	if fires != 0 {
		t.Fatal("timer fired before the minimum interval elapsed")
	}
	clk.Advance(1)
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
}

func TestRepeatingKeepsIntervalAndMode(t *testing.T) {
	clk, tm := newTimer(t)
	fires := 0
	tm.SetTimerHandler(func() {
		fires++
		if iv, ok := tm.Interval(); !ok || iv != 50 {
			t.Errorf("Interval during fire %d = %v,%v, want 50,true", fires, iv, ok)
		}
		if !tm.IsRepeating() {
			t.Errorf("IsRepeating = false during fire %d", fires)
		}
	})

	if granted := tm.Repeating(50); granted != 50 {
		t.Fatalf("granted = %d, want 50", granted)
	}
	for i := 0; i < 5; i++ {
		clk.Advance(50)
	}
	if fires != 5 {
		t.Errorf("fires = %d, want 5", fires)
	}
	if !tm.IsEnabled() {
		t.Error("repeating timer must stay enabled")
	}
}

func TestTimerReplaceCancelsPrevious(t *testing.T) {
	clk, tm := newTimer(t)
	fires := 0
	tm.SetTimerHandler(func() { fires++ })

	tm.Repeating(100)
	tm.Oneshot(500) // replaces the repeating timer before it ever fires

	clk.Advance(400)
	if fires != 0 {
		t.Fatal("replaced timer still fired")
	}
	if !tm.IsOneshot() || tm.IsRepeating() {
		t.Error("mode flags wrong after replacement")
	}
	clk.Advance(100)
	if fires != 1 {
		t.Errorf("fires = %d, want 1 from the replacement", fires)
	}
}

func TestTimerCancel(t *testing.T) {
	clk, tm := newTimer(t)
	fires := 0
	tm.SetTimerHandler(func() { fires++ })

	tm.Oneshot(100)
	if err := tm.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if tm.IsEnabled() {
		t.Error("IsEnabled = true after Cancel")
	}
	if _, ok := tm.Interval(); ok {
		t.Error("Interval must read unset after Cancel")
	}

	clk.Advance(100000)
	if fires != 0 {
		t.Errorf("fires = %d after successful Cancel, want 0", fires)
	}
}

func TestTimeRemaining(t *testing.T) {
	clk, tm := newTimer(t)
	tm.SetTimerHandler(func() {})

	if _, ok := tm.TimeRemaining(); ok {
		t.Error("TimeRemaining must read unset while disabled")
	}

	tm.Oneshot(100)
	clk.Advance(30)
	if rem, ok := tm.TimeRemaining(); !ok || rem != 70 {
		t.Errorf("TimeRemaining = %v,%v, want 70,true", rem, ok)
	}
}

func TestTimerRestartFromHandler(t *testing.T) {
	clk, tm := newTimer(t)
	fires := 0
	tm.SetTimerHandler(func() {
		fires++
		if fires == 1 {
			// A callback may immediately start a new timer on the same
			// instance.
			tm.Oneshot(10)
		}
	})

	tm.Oneshot(100)
	clk.Advance(100)
	if fires != 1 {
		t.Fatalf("fires = %d, want 1", fires)
	}
	if !tm.IsEnabled() {
		t.Fatal("restart from handler did not take")
	}
	clk.Advance(10)
	if fires != 2 {
		t.Errorf("fires = %d, want 2 after restart", fires)
	}
}

func TestRepeatingAcrossCounterWrap(t *testing.T) {
	clk := sim.NewClock[core.Ticks16](core.Freq32KHz)
	if err := clk.Start(); err != nil {
		t.Fatal(err)
	}
	tm := core.NewAlarmTimer[core.Ticks16](clk)
	fires := 0
	tm.SetTimerHandler(func() { fires++ })

	clk.SetTicks(0xFFC0)
	tm.Repeating(0x30)

	// Three periods straddling the 16-bit wrap.
	clk.Advance(0x30)
	clk.Advance(0x30)
	clk.Advance(0x30)
	if fires != 3 {
		t.Errorf("fires = %d, want 3 across the wrap", fires)
	}
}

func TestTimerFrequencyPassthrough(t *testing.T) {
	_, tm := newTimer(t)
	if tm.Frequency() != core.Freq1MHz {
		t.Errorf("Frequency = %d, want 1MHz", tm.Frequency())
	}
	iv := core.TicksFromMillis[core.Ticks32](tm.Frequency(), 10)
	if iv != 10000 {
		t.Errorf("10ms at 1MHz = %d ticks, want 10000", iv)
	}
}
