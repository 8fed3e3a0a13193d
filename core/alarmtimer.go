package core

type timerMode uint8

const (
	modeDisabled timerMode = iota
	modeOneshot
	modeRepeating
)

// AlarmTimer implements the Timer contract on top of a single Alarm. It owns
// the alarm's handler slot: after NewAlarmTimer the client must not call
// SetAlarmHandler on the underlying alarm, and should talk to the alarm only
// through the timer. This is one timer per alarm, not a multiplexer.
type AlarmTimer[T Ticks[T]] struct {
	alarm       Alarm[T]
	handler     func()
	interval    T
	hasInterval bool
	mode        timerMode
}

// NewAlarmTimer wraps alarm in a Timer. The alarm must be disarmed.
func NewAlarmTimer[T Ticks[T]](alarm Alarm[T]) *AlarmTimer[T] {
	t := &AlarmTimer[T]{alarm: alarm}
	alarm.SetAlarmHandler(t.alarmFired)
	return t
}

func (t *AlarmTimer[T]) Now() T               { return t.alarm.Now() }
func (t *AlarmTimer[T]) Frequency() Frequency { return t.alarm.Frequency() }

func (t *AlarmTimer[T]) SetTimerHandler(fn func()) {
	state := disableInterrupts()
	t.handler = fn
	restoreInterrupts(state)
}

func (t *AlarmTimer[T]) Oneshot(interval T) T {
	return t.start(interval, modeOneshot)
}

func (t *AlarmTimer[T]) Repeating(interval T) T {
	return t.start(interval, modeRepeating)
}

func (t *AlarmTimer[T]) start(interval T, mode timerMode) T {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	// Intervals are plain magnitudes, not counter points, so the unsigned
	// compare is safe here.
	granted := interval
	if min := t.alarm.MinimumDt(); granted.Uint64() < min.Uint64() {
		granted = min
	}

	t.mode = mode
	t.interval = granted
	t.hasInterval = true

	// SetAlarm replaces any pending deadline, which is what cancels a
	// previously running timer of either mode.
	t.alarm.SetAlarm(t.alarm.Now(), granted)
	return granted
}

// alarmFired runs in the alarm's callback context. A one-shot is disabled
// before its handler is invoked; a repeating timer is re-armed first so the
// handler observes an enabled timer and may still replace it.
func (t *AlarmTimer[T]) alarmFired() {
	state := disableInterrupts()
	fire := t.handler
	switch t.mode {
	case modeOneshot:
		t.mode = modeDisabled
	case modeRepeating:
		t.alarm.SetAlarm(t.alarm.Now(), t.interval)
	default:
		// Cancelled with a fire already in flight; swallow it.
		fire = nil
	}
	restoreInterrupts(state)

	if fire != nil {
		fire()
	}
}

func (t *AlarmTimer[T]) Interval() (T, bool) {
	var zero T
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if !t.hasInterval {
		return zero, false
	}
	return t.interval, true
}

func (t *AlarmTimer[T]) IsOneshot() bool   { return t.mode == modeOneshot }
func (t *AlarmTimer[T]) IsRepeating() bool { return t.mode == modeRepeating }
func (t *AlarmTimer[T]) IsEnabled() bool   { return t.mode != modeDisabled }

func (t *AlarmTimer[T]) TimeRemaining() (T, bool) {
	var zero T
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if t.mode == modeDisabled {
		return zero, false
	}
	return t.alarm.Deadline().Sub(t.alarm.Now()), true
}

func (t *AlarmTimer[T]) Cancel() error {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	if t.mode != modeDisabled {
		if err := t.alarm.Disarm(); err != nil {
			// Alarm still armed; the timer stays pending.
			return err
		}
		t.mode = modeDisabled
	}
	t.hasInterval = false
	return nil
}

var _ Timer[Ticks32] = (*AlarmTimer[Ticks32])(nil)
