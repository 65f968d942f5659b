package entity

import (
	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// NewBullet queues a projectile at origin heading along dir. The lifetime is
// a failsafe: the bullet is despawned when it runs out even if it never hits.
func NewBullet(cmds *ecs.Commands, origin, dir common.Vec3, kind component.TowerKind, profile component.BulletProfile, lifetime float64) ecs.Entity {
	return cmds.Spawn(
		ecs.With(component.PositionComponent.Kind(), &component.Position{Vec3: origin}),
		ecs.With(component.LifetimeComponent.Kind(), component.NewLifetime(lifetime)),
		ecs.With(component.BulletComponent.Kind(), &component.Bullet{
			Direction: dir,
			Speed:     profile.Speed,
			Damage:    profile.Damage,
			Kind:      kind,
		}),
	)
}
