package component

// Player holds the economy. Money only grows, through the reward listener.
type Player struct {
	Money int
}

var PlayerComponent = NewComponent[Player]()
