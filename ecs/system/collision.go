package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// DefaultHitRadius is the bullet/target distance under which a hit lands.
const DefaultHitRadius = 0.2

// CollisionSystem tests every bullet against every target. A bullet closer
// than HitRadius to a target damages it and is despawned; it never hits a
// second target in the same tick. Both lists are scanned in ascending entity
// id, so when a bullet overlaps several targets the lowest id takes the hit.
type CollisionSystem struct {
	HitRadius float64
}

func NewCollisionSystem(hitRadius float64) *CollisionSystem {
	return &CollisionSystem{HitRadius: hitRadius}
}

func (s *CollisionSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}

	targets := w.Query(component.TargetComponent.Kind(), component.PositionComponent.Kind())
	if len(targets) == 0 {
		return
	}

	ecs.ForEach2(w, component.BulletComponent.Kind(), component.PositionComponent.Kind(), func(b ecs.Entity, bullet *component.Bullet, bpos *component.Position) {
		for _, t := range targets {
			tpos, ok := ecs.Get(w, t, component.PositionComponent.Kind())
			if !ok {
				continue
			}
			// NaN distances never hit
			if !(bpos.Distance(tpos.Vec3) < s.HitRadius) {
				continue
			}

			remaining := 0
			if h, ok := ecs.Get(w, t, component.HealthComponent.Kind()); ok {
				h.Value -= bullet.Damage
				remaining = h.Value
			}
			w.Commands().MustDespawn(b)
			w.Events().Push(ecs.Event{
				Type:   TargetHit,
				Entity: t,
				Data:   HitData{Bullet: b, Damage: bullet.Damage, Remaining: remaining},
			})
			return
		}
	})
}
