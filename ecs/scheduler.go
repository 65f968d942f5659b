package ecs

import (
	"fmt"
	"math"

	"github.com/milk9111/towersim/ecs/component"
)

// System is a unit of per-tick logic. dt is the elapsed time in seconds.
type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) { f(w, dt) }

// Scheduler runs systems in a fixed order. One Tick is:
//
//  1. flush commands queued between ticks (scene setup, player input)
//  2. run every system in order
//  3. event phase: dispatch events to listeners
//  4. commit: flush the commands the systems and listeners queued
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Tick advances w by dt seconds. It panics on a negative or NaN dt.
func (s *Scheduler) Tick(w *World, dt float64) {
	if w == nil {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		panic(fmt.Errorf("%w: %v", component.ErrNegativeDelta, dt))
	}

	w.Flush()
	w.events.flush()

	for _, system := range s.systems {
		system.Update(w, dt)
	}

	w.events.Dispatch(w)
	w.Flush()
	w.tick++
}
