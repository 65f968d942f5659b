package entity

import (
	"fmt"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

func NewTarget(cmds *ecs.Commands, pos common.Vec3, speed float64, health int) (ecs.Entity, error) {
	if speed < 0 {
		return 0, fmt.Errorf("target: speed %v is negative", speed)
	}
	if health <= 0 {
		return 0, fmt.Errorf("target: health %d must be positive", health)
	}

	return cmds.Spawn(
		ecs.With(component.PositionComponent.Kind(), &component.Position{Vec3: pos}),
		ecs.With(component.TargetComponent.Kind(), &component.Target{Speed: speed}),
		ecs.With(component.HealthComponent.Kind(), &component.Health{Value: health}),
	), nil
}
