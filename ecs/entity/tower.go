package entity

import (
	"fmt"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// NewTower queues a tower of the given kind at pos with a repeating cooldown
// and no firing offset.
func NewTower(cmds *ecs.Commands, kind component.TowerKind, pos common.Vec3, cooldown float64) (ecs.Entity, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("tower: %w: %d", component.ErrUnknownTowerKind, uint8(kind))
	}
	if !(cooldown > 0) {
		return 0, fmt.Errorf("tower: cooldown %v: %w", cooldown, component.ErrInvalidDuration)
	}

	return cmds.Spawn(
		ecs.With(component.PositionComponent.Kind(), &component.Position{Vec3: pos}),
		ecs.With(component.TowerComponent.Kind(), component.NewTower(kind, cooldown)),
	), nil
}
