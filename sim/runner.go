package sim

import (
	"context"
	"sync"
	"time"

	"github.com/milk9111/towersim/internal/logging"
)

// Pacing describes how Run spaces out steps.
type Pacing int

const (
	// RealTime waits one Step duration of wall-clock time per step.
	RealTime Pacing = iota
	// Accelerated steps as fast as the loop can run.
	Accelerated
)

// Observer is called on the runner goroutine after every advancing step
// with the wall-clock time the tick took.
type Observer func(s *Simulation, took time.Duration)

// Runner owns the goroutine that drives a Simulation at a fixed step. Other
// goroutines talk to it through Enqueue and SetMode.
type Runner struct {
	sim    *Simulation
	Step   time.Duration
	Pacing Pacing
	log    logging.Logger

	mu        sync.Mutex
	mode      Mode
	pending   []func(*Simulation)
	observers []Observer
}

// DefaultStep is 60 ticks per second.
const DefaultStep = time.Second / 60

func NewRunner(s *Simulation, step time.Duration, pacing Pacing, log logging.Logger) *Runner {
	if step <= 0 {
		step = DefaultStep
	}
	return &Runner{
		sim:    s,
		Step:   step,
		Pacing: pacing,
		log:    logging.OrNoop(log),
		mode:   Menu,
	}
}

func (r *Runner) Simulation() *Simulation { return r.sim }

func (r *Runner) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Runner) SetMode(m Mode) {
	r.mu.Lock()
	prev := r.mode
	r.mode = m
	r.mu.Unlock()
	if prev != m {
		r.log.Info(context.Background(), "mode changed", logging.Stringer("from", prev), logging.Stringer("to", m))
	}
}

// Enqueue schedules fn to run on the runner goroutine before the next step,
// whatever the mode.
func (r *Runner) Enqueue(fn func(*Simulation)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.pending = append(r.pending, fn)
	r.mu.Unlock()
}

// AddObserver registers fn. Call it before Run.
func (r *Runner) AddObserver(fn Observer) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// StepOnce applies queued work and, when the mode is InGame, advances the
// simulation by one Step. It reports whether the simulation advanced.
func (r *Runner) StepOnce() bool {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	mode := r.mode
	observers := r.observers
	r.mu.Unlock()

	for _, fn := range pending {
		fn(r.sim)
	}

	if mode != InGame {
		return false
	}

	start := time.Now()
	r.sim.Advance(r.Step.Seconds())
	took := time.Since(start)

	for _, fn := range observers {
		fn(r.sim, took)
	}
	return true
}

// Run steps until ctx is cancelled or, when duration > 0, until that much
// simulated time has passed. Paused and menu steps do not count towards
// duration.
func (r *Runner) Run(ctx context.Context, duration time.Duration) error {
	var ticker *time.Ticker
	if r.Pacing == RealTime {
		ticker = time.NewTicker(r.Step)
		defer ticker.Stop()
	}

	var simulated time.Duration
	for {
		if duration > 0 && simulated >= duration {
			return nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if r.StepOnce() {
			simulated += r.Step
		} else if ticker == nil {
			// Nothing advanced; yield so an accelerated loop in Menu or
			// Paused does not spin.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.Step):
			}
		}
	}
}
