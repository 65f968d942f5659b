package system

import (
	"testing"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

func TestBulletMovement(t *testing.T) {
	cases := []struct {
		name  string
		dir   common.Vec3
		speed float64
		dt    float64
		want  common.Vec3
	}{
		{"unit_x", common.V3(1, 0, 0), 5.5, 1, common.V3(5.5, 0, 0)},
		{"non_unit_renormalized", common.V3(0, 0, 3), 2, 0.5, common.V3(0, 0, 1)},
		{"zero_direction_stays", common.Vec3{}, 5, 1, common.Vec3{}},
		{"zero_dt", common.V3(1, 0, 0), 5, 0, common.Vec3{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := addBullet(t, w, common.Vec3{}, c.dir, c.speed)
			NewBulletMovementSystem().Update(w, c.dt)

			pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
			if pos.Vec3 != c.want {
				t.Fatalf("position = %v, want %v", pos.Vec3, c.want)
			}
		})
	}
}

func TestTargetMovement(t *testing.T) {
	w := ecs.NewWorld()
	e := addTarget(t, w, common.V3(1, 2, 3), 1)
	tc, _ := ecs.Get(w, e, component.TargetComponent.Kind())
	tc.Speed = 0.5

	NewTargetMovementSystem().Update(w, 2)

	pos, _ := ecs.Get(w, e, component.PositionComponent.Kind())
	if pos.Vec3 != common.V3(2, 2, 3) {
		t.Fatalf("position = %v, want (2,2,3)", pos.Vec3)
	}
}

func TestLifetimeExpiry(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.LifetimeComponent.Kind(), component.NewLifetime(5.5)); err != nil {
		t.Fatal(err)
	}

	s := ecs.NewScheduler(NewLifetimeSystem())
	for i := 0; i < 10; i++ {
		s.Tick(w, 0.5)
	}
	if !ecs.IsAlive(w, e) {
		t.Fatalf("entity should survive 5.0s of a 5.5s lifetime")
	}
	s.Tick(w, 0.5)
	if ecs.IsAlive(w, e) {
		t.Fatalf("entity should be despawned at 5.5s")
	}
}

func TestLifetimeAndCollisionSameTick(t *testing.T) {
	w := ecs.NewWorld()
	target := addTarget(t, w, common.Vec3{}, 3)
	b := addBullet(t, w, common.Vec3{}, common.V3(1, 0, 0), 0)
	if err := ecs.Add(w, b, component.LifetimeComponent.Kind(), component.NewLifetime(0.1)); err != nil {
		t.Fatal(err)
	}

	s := ecs.NewScheduler(NewLifetimeSystem(), NewCollisionSystem(DefaultHitRadius))
	s.Tick(w, 0.1)

	if ecs.IsAlive(w, b) {
		t.Fatalf("bullet should be gone")
	}
	h, _ := ecs.Get(w, target, component.HealthComponent.Kind())
	if h.Value != 2 {
		t.Fatalf("health = %d, want 2", h.Value)
	}
}
