package system

import (
	"math"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/ecs/entity"
)

// TowerFiringSystem ticks tower cooldowns and, each time one finishes,
// fires a bullet at the target nearest the tower's firing point. Targeting
// is recomputed from scratch on every shot.
type TowerFiringSystem struct {
	Kinds          component.TowerKindTable
	BulletLifetime float64
}

func NewTowerFiringSystem(kinds component.TowerKindTable, bulletLifetime float64) *TowerFiringSystem {
	return &TowerFiringSystem{Kinds: kinds, BulletLifetime: bulletLifetime}
}

func (s *TowerFiringSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}

	targets := w.Query(component.TargetComponent.Kind(), component.PositionComponent.Kind())

	ecs.ForEach2(w, component.TowerComponent.Kind(), component.PositionComponent.Kind(), func(e ecs.Entity, tower *component.Tower, pos *component.Position) {
		if !tower.Cooldown.Tick(dt) {
			return
		}

		origin := pos.Add(tower.Offset)
		target, aim, ok := NearestTarget(w, targets, origin)
		if !ok {
			// cooldown is spent even when there is nothing to shoot
			return
		}

		profile, err := s.Kinds.Lookup(tower.Kind)
		if err != nil {
			panic(err)
		}

		dir := aim.Sub(origin).Normalize()
		bullet := entity.NewBullet(w.Commands(), origin, dir, tower.Kind, profile, s.BulletLifetime)

		w.Events().Push(ecs.Event{
			Type:   BulletFired,
			Entity: e,
			Data:   ShotData{Bullet: bullet, Target: target, Kind: tower.Kind},
		})
	})
}

// NearestTarget returns the candidate closest to origin and its position.
// Candidates are scanned in order and only a strictly closer one replaces
// the current pick, so ties go to the first encountered.
func NearestTarget(w *ecs.World, candidates []ecs.Entity, origin common.Vec3) (ecs.Entity, common.Vec3, bool) {
	var (
		best     ecs.Entity
		bestPos  common.Vec3
		bestDist = math.Inf(1)
		found    bool
	)
	for _, c := range candidates {
		pos, ok := ecs.Get(w, c, component.PositionComponent.Kind())
		if !ok {
			continue
		}
		d := pos.Distance(origin)
		if d < bestDist {
			best, bestPos, bestDist, found = c, pos.Vec3, d, true
		}
	}
	return best, bestPos, found
}
