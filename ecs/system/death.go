package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// DeathSystem despawns every entity whose health is at or below zero and
// raises one TargetDied event for each.
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem { return &DeathSystem{} }

func (s *DeathSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.HealthComponent.Kind(), func(e ecs.Entity, h *component.Health) {
		if !h.Dead() {
			return
		}
		w.Commands().MustDespawn(e)
		w.Events().Push(ecs.Event{Type: TargetDied, Entity: e})
	})
}
