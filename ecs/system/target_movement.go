package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// TargetMovementSystem walks targets along +X at their own speed.
type TargetMovementSystem struct{}

func NewTargetMovementSystem() *TargetMovementSystem { return &TargetMovementSystem{} }

func (s *TargetMovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.TargetComponent.Kind(), component.PositionComponent.Kind(), func(_ ecs.Entity, t *component.Target, pos *component.Position) {
		pos.X += t.Speed * dt
	})
}
