package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

const (
	// TargetDied is raised once per target whose health reached zero.
	TargetDied ecs.EventType = "target_died"
	// BulletFired is raised once per successful shot.
	BulletFired ecs.EventType = "bullet_fired"
	// TargetHit is raised when a bullet connects with a target.
	TargetHit ecs.EventType = "target_hit"
)

// ShotData is the payload of a BulletFired event; the event entity is the
// tower.
type ShotData struct {
	Bullet ecs.Entity
	Target ecs.Entity
	Kind   component.TowerKind
}

// HitData is the payload of a TargetHit event; the event entity is the
// target.
type HitData struct {
	Bullet    ecs.Entity
	Damage    int
	Remaining int
}
