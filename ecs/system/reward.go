package system

import (
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// DefaultKillReward is the money credited per TargetDied event.
const DefaultKillReward = 10

// RewardListener credits the player for every kill. It only ever sees
// events raised in the tick it is dispatched in.
type RewardListener struct {
	Reward int
}

func NewRewardListener(reward int) *RewardListener {
	return &RewardListener{Reward: reward}
}

// Subscribe registers the listener on w's event bus.
func (l *RewardListener) Subscribe(w *ecs.World) {
	w.Events().Subscribe(TargetDied, l.OnTargetDied)
}

func (l *RewardListener) OnTargetDied(w *ecs.World, evt ecs.Event) {
	if l == nil || evt.Type != TargetDied {
		return
	}
	player, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	p.Money += l.Reward
}
