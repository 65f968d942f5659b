package sim

import (
	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

// Snapshot is an immutable copy of the renderable state after a tick.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Elapsed float64       `json:"elapsed"`
	Money   int           `json:"money"`
	Towers  []TowerState  `json:"towers"`
	Targets []TargetState `json:"targets"`
	Bullets []BulletState `json:"bullets"`
}

// EntityRef identifies an entity on the wire. The slot id and generation
// travel as separate fields so JSON number decoders keep them exact.
type EntityRef struct {
	Entity     ecs.Entity `json:"-"`
	ID         uint32     `json:"id"`
	Generation uint32     `json:"gen"`
}

func refOf(e ecs.Entity) EntityRef {
	id, gen := e.Parts()
	return EntityRef{Entity: e, ID: id, Generation: gen}
}

type TowerState struct {
	EntityRef
	Kind     component.TowerKind `json:"kind"`
	Position common.Vec3         `json:"position"`
}

type TargetState struct {
	EntityRef
	Position common.Vec3 `json:"position"`
	Health   int         `json:"health"`
}

type BulletState struct {
	EntityRef
	Kind      component.TowerKind `json:"kind"`
	Model     string              `json:"model"`
	Position  common.Vec3         `json:"position"`
	Direction common.Vec3         `json:"direction"`
}

func (s *Simulation) Snapshot() Snapshot {
	w := s.world
	snap := Snapshot{
		Tick:    w.Tick(),
		Elapsed: s.elapsed,
		Towers:  []TowerState{},
		Targets: []TargetState{},
		Bullets: []BulletState{},
	}
	snap.Money, _ = s.Money()

	ecs.ForEach2(w, component.TowerComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, t *component.Tower, p *component.Position) {
		snap.Towers = append(snap.Towers, TowerState{EntityRef: refOf(e), Kind: t.Kind, Position: p.Vec3})
	})
	ecs.ForEach2(w, component.TargetComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, _ *component.Target, p *component.Position) {
		ts := TargetState{EntityRef: refOf(e), Position: p.Vec3}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			ts.Health = h.Value
		}
		snap.Targets = append(snap.Targets, ts)
	})
	ecs.ForEach2(w, component.BulletComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, b *component.Bullet, p *component.Position) {
		bs := BulletState{EntityRef: refOf(e), Kind: b.Kind, Position: p.Vec3, Direction: b.Direction}
		if profile, err := s.cfg.Kinds.Lookup(b.Kind); err == nil {
			bs.Model = profile.Model
		}
		snap.Bullets = append(snap.Bullets, bs)
	})

	return snap
}

// Counts returns the number of towers, targets and bullets in the snapshot.
func (s Snapshot) Counts() (towers, targets, bullets int) {
	return len(s.Towers), len(s.Targets), len(s.Bullets)
}
