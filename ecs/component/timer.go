package component

import (
	"fmt"
	"math"
)

type TimerMode uint8

const (
	TimerOnce TimerMode = iota
	TimerRepeating
)

func (m TimerMode) String() string {
	switch m {
	case TimerOnce:
		return "once"
	case TimerRepeating:
		return "repeating"
	default:
		return fmt.Sprintf("TimerMode(%d)", uint8(m))
	}
}

// timerEpsilon absorbs float drift from summing frame deltas, so 10 ticks of
// 0.1s finish a 1s timer.
const timerEpsilon = 1e-9

// Timer accumulates elapsed seconds. A repeating timer resets Elapsed to zero
// each time it finishes; a one-shot timer finishes once and then stays put.
type Timer struct {
	Elapsed  float64
	Duration float64
	Mode     TimerMode

	finished     bool
	justFinished bool
}

// NewTimer panics when duration is not positive.
func NewTimer(duration float64, mode TimerMode) Timer {
	mustValidDuration(duration)
	return Timer{Duration: duration, Mode: mode}
}

// Tick advances the timer by dt seconds and reports whether it finished on
// this call.
func (t *Timer) Tick(dt float64) bool {
	mustValidDuration(t.Duration)
	if dt < 0 || math.IsNaN(dt) {
		panic(fmt.Errorf("%w: %v", ErrNegativeDelta, dt))
	}

	t.justFinished = false
	if t.Mode == TimerOnce && t.finished {
		return false
	}

	t.Elapsed += dt
	if t.Elapsed+timerEpsilon < t.Duration {
		return false
	}

	t.justFinished = true
	if t.Mode == TimerRepeating {
		t.Elapsed = 0
		return true
	}
	t.Elapsed = t.Duration
	t.finished = true
	return true
}

func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Finished reports whether a one-shot timer has run out. Repeating timers
// never stay finished.
func (t *Timer) Finished() bool {
	return t.finished
}

func (t *Timer) Remaining() float64 {
	r := t.Duration - t.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

func mustValidDuration(d float64) {
	if !(d > 0) || math.IsInf(d, 0) {
		panic(fmt.Errorf("%w: %v", ErrInvalidDuration, d))
	}
}
