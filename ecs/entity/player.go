package entity

import (
	"fmt"

	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

func NewPlayer(cmds *ecs.Commands, money int) (ecs.Entity, error) {
	if money < 0 {
		return 0, fmt.Errorf("player: money %d is negative", money)
	}
	return cmds.Spawn(ecs.With(component.PlayerComponent.Kind(), &component.Player{Money: money})), nil
}
