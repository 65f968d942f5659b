package component

import "github.com/milk9111/towersim/common"

type Bullet struct {
	// Direction is unit length at spawn; movement re-normalizes it every tick.
	Direction common.Vec3
	Speed     float64
	Damage    int
	Kind      TowerKind
}

var BulletComponent = NewComponent[Bullet]()
