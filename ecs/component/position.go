package component

import "github.com/milk9111/towersim/common"

// Position is an entity's location in world space. Only the kinematics
// systems and explicit placement write it.
type Position struct {
	common.Vec3
}

var PositionComponent = NewComponent[Position]()
