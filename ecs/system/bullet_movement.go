package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// BulletMovementSystem moves bullets along their direction. The direction is
// normalized on every tick so drift away from unit length never changes the
// effective speed.
type BulletMovementSystem struct{}

func NewBulletMovementSystem() *BulletMovementSystem { return &BulletMovementSystem{} }

func (s *BulletMovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.BulletComponent.Kind(), component.PositionComponent.Kind(), func(_ ecs.Entity, b *component.Bullet, pos *component.Position) {
		pos.Vec3 = pos.Add(b.Direction.Normalize().Scale(b.Speed * dt))
	})
}
