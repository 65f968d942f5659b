package system

import (
	"testing"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
)

func addTarget(t *testing.T, w *ecs.World, pos common.Vec3, health int) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PositionComponent.Kind(), &component.Position{Vec3: pos}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.TargetComponent.Kind(), &component.Target{}); err != nil {
		t.Fatal(err)
	}
	if health > 0 {
		if err := ecs.Add(w, e, component.HealthComponent.Kind(), &component.Health{Value: health}); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func addTower(t *testing.T, w *ecs.World, pos common.Vec3, cooldown float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PositionComponent.Kind(), &component.Position{Vec3: pos}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.TowerComponent.Kind(), component.NewTower(component.TowerBasic, cooldown)); err != nil {
		t.Fatal(err)
	}
	return e
}

func addBullet(t *testing.T, w *ecs.World, pos, dir common.Vec3, speed float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PositionComponent.Kind(), &component.Position{Vec3: pos}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.BulletComponent.Kind(), &component.Bullet{Direction: dir, Speed: speed, Damage: 1}); err != nil {
		t.Fatal(err)
	}
	return e
}

func bullets(w *ecs.World) []ecs.Entity {
	return w.Query(component.BulletComponent.Kind())
}

func eventsOf(evts []ecs.Event, typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, e := range evts {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}
