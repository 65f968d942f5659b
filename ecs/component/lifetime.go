package component

// Lifetime is a one-shot timer; when it finishes the owning entity is
// despawned. It is a failsafe independent of collisions.
type Lifetime struct {
	Timer Timer
}

func NewLifetime(seconds float64) *Lifetime {
	return &Lifetime{Timer: NewTimer(seconds, TimerOnce)}
}

var LifetimeComponent = NewComponent[Lifetime]()
