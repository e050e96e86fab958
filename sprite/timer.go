package sprite

import "time"

// TimerMode selects whether a Timer stops or wraps when it reaches its
// duration.
type TimerMode int

const (
	Once TimerMode = iota
	Repeating
)

func (m TimerMode) String() string {
	if m == Repeating {
		return "Repeating"
	}
	return "Once"
}

// Timer counts elapsed time towards a duration.
type Timer struct {
	Duration time.Duration
	Mode     TimerMode
	Paused   bool

	elapsed       time.Duration
	finished      bool
	timesFinished int
}

func NewTimer(duration time.Duration, mode TimerMode) Timer {
	return Timer{Duration: duration, Mode: mode}
}

// Tick advances the timer by delta. A repeating timer wraps its elapsed time
// and is finished only on ticks where it wrapped; a one-shot timer stays
// finished once it reached its duration.
func (t *Timer) Tick(delta time.Duration) {
	if t.Paused {
		t.timesFinished = 0
		if t.Mode == Repeating {
			t.finished = false
		}
		return
	}

	if t.Mode == Once && t.finished {
		t.timesFinished = 0
		return
	}

	t.elapsed += delta
	if t.elapsed < t.Duration {
		t.finished = false
		t.timesFinished = 0
		return
	}

	t.finished = true
	if t.Mode == Once {
		t.timesFinished = 1
		t.elapsed = t.Duration
		return
	}

	if t.Duration <= 0 {
		t.timesFinished = 1
		t.elapsed = 0
		return
	}
	t.timesFinished = int(t.elapsed / t.Duration)
	t.elapsed %= t.Duration
}

// Finished reports whether the timer reached its duration. For repeating
// timers this only holds on the tick that wrapped.
func (t *Timer) Finished() bool {
	return t.finished
}

// JustFinished reports whether the last Tick made the timer finish.
func (t *Timer) JustFinished() bool {
	return t.timesFinished > 0
}

// TimesFinishedThisTick returns how many durations the last Tick covered.
func (t *Timer) TimesFinishedThisTick() int {
	return t.timesFinished
}

func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Fraction returns elapsed/duration in [0, 1].
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.Duration)
}

// Reset rewinds the timer without changing its duration or mode.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesFinished = 0
}
