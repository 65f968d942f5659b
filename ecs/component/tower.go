package component

import "github.com/milk9111/towersim/common"

// Tower fires at the nearest target each time Cooldown finishes. Offset is
// added to the tower position to get the firing point.
type Tower struct {
	Cooldown Timer
	Offset   common.Vec3
	Kind     TowerKind
}

func NewTower(kind TowerKind, cooldown float64) *Tower {
	return &Tower{
		Cooldown: NewTimer(cooldown, TimerRepeating),
		Kind:     kind,
	}
}

var TowerComponent = NewComponent[Tower]()
