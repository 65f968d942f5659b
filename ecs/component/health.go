package component

// Health may go negative between a hit and the end-of-tick despawn. A value
// of zero or less marks the entity dead.
type Health struct {
	Value int
}

func (h *Health) Dead() bool {
	return h.Value <= 0
}

var HealthComponent = NewComponent[Health]()
