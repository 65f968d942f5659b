package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/ecs/system"
)

func newSim(t *testing.T, cfg Config) *Simulation {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TowerCooldown = 0
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSpawnTowerVisibleNextTick(t *testing.T) {
	s := newSim(t, DefaultConfig())

	e, err := s.SpawnTower(component.TowerBasic, common.V3(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if ecs.IsAlive(s.World(), e) {
		t.Fatalf("tower must not exist before the next tick")
	}

	s.Advance(0)
	if !ecs.IsAlive(s.World(), e) {
		t.Fatalf("tower should exist after a tick")
	}
	tower, _ := ecs.Get(s.World(), e, component.TowerComponent.Kind())
	if tower.Cooldown.Duration != DefaultTowerCooldown || tower.Cooldown.Mode != component.TimerRepeating || tower.Offset != (common.Vec3{}) {
		t.Fatalf("unexpected tower %+v", tower)
	}
}

func TestSpawnTowerUnknownKind(t *testing.T) {
	s := newSim(t, DefaultConfig())
	_, err := s.SpawnTower(component.TowerKind(42), common.Vec3{})
	if !errors.Is(err, component.ErrUnknownTowerKind) {
		t.Fatalf("expected ErrUnknownTowerKind, got %v", err)
	}
	if spawns, _ := s.World().Commands().Pending(); spawns != 0 {
		t.Fatalf("failed spawn must not queue anything")
	}
}

func TestAdvanceNegativeDeltaPanics(t *testing.T) {
	s := newSim(t, DefaultConfig())
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, component.ErrNegativeDelta) {
			t.Fatalf("expected ErrNegativeDelta panic, got %v", r)
		}
	}()
	s.Advance(-0.1)
}

// One tower, one stationary target 2.1 units away: the tower fires at 1.0s,
// the bullet covers 0.55 per tick and lands on the fourth tick after it
// appears.
func TestKillPipeline(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if _, err := s.SpawnPlayer(100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SpawnTower(component.TowerBasic, common.Vec3{}); err != nil {
		t.Fatal(err)
	}
	target, err := s.SpawnTarget(common.V3(2.1, 0, 0), 0, 1)
	if err != nil {
		t.Fatal(err)
	}

	var shots, hits, deaths int
	s.Subscribe(system.BulletFired, func(*ecs.World, ecs.Event) { shots++ })
	s.Subscribe(system.TargetHit, func(*ecs.World, ecs.Event) { hits++ })
	s.Subscribe(system.TargetDied, func(_ *ecs.World, evt ecs.Event) {
		deaths++
		if evt.Entity != target {
			t.Errorf("death for %v, want %v", evt.Entity, target)
		}
	})

	for i := 0; i < 13; i++ {
		s.Advance(0.1)
	}
	if deaths != 0 || shots != 1 {
		t.Fatalf("after 1.3s: shots=%d deaths=%d", shots, deaths)
	}
	if snap := s.Snapshot(); len(snap.Bullets) != 1 || snap.Bullets[0].Model != "bullet_basic" {
		t.Fatalf("expected one basic bullet in flight, got %+v", snap.Bullets)
	}

	s.Advance(0.1)
	if hits != 1 || deaths != 1 {
		t.Fatalf("expected the hit and the kill on tick 14, hits=%d deaths=%d", hits, deaths)
	}
	if ecs.IsAlive(s.World(), target) {
		t.Fatalf("target should be despawned")
	}
	if money, ok := s.Money(); !ok || money != 110 {
		t.Fatalf("money = %d, want 110", money)
	}

	for i := 0; i < 10; i++ {
		s.Advance(0.1)
	}
	snap := s.Snapshot()
	if deaths != 1 || snap.Money != 110 {
		t.Fatalf("kill must be rewarded exactly once, deaths=%d money=%d", deaths, snap.Money)
	}
	if len(snap.Bullets) != 0 || len(snap.Targets) != 0 {
		t.Fatalf("no targets left means no more bullets, got %+v", snap)
	}
}

func TestBulletExpiresWithoutHit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BulletLifetime = 1
	s := newSim(t, cfg)
	if _, err := s.SpawnTower(component.TowerCabbage, common.Vec3{}); err != nil {
		t.Fatal(err)
	}
	// out of reach of a 3.0 speed bullet living 1s
	if _, err := s.SpawnTarget(common.V3(0, 0, 50), 0, 1); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		s.Advance(0.1)
	}
	if got := len(s.Snapshot().Bullets); got != 1 {
		t.Fatalf("expected the first bullet in flight, got %d", got)
	}
	for i := 0; i < 10; i++ {
		s.Advance(0.1)
	}
	snap := s.Snapshot()
	if len(snap.Bullets) != 1 || snap.Bullets[0].Position.Z != 0 {
		t.Fatalf("first bullet should have expired and a second replaced it, got %+v", snap.Bullets)
	}
}

func TestTargetsWalkAlongX(t *testing.T) {
	s := newSim(t, DefaultConfig())
	cfg := s.Config()
	e, err := s.SpawnTarget(common.V3(-5, 0, 1), cfg.TargetSpeed, cfg.TargetHealth)
	if err != nil {
		t.Fatal(err)
	}
	s.Advance(0)
	s.Advance(0.5)

	pos, _ := ecs.Get(s.World(), e, component.PositionComponent.Kind())
	if !common.ApproxEqual(pos.X, -4.5, 1e-9) || pos.Z != 1 {
		t.Fatalf("position = %v", pos.Vec3)
	}
}

func TestReconfigureChangesReward(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if _, err := s.SpawnPlayer(0); err != nil {
		t.Fatal(err)
	}
	e, _ := s.SpawnTarget(common.Vec3{}, 0, 1)
	s.Advance(0)

	cfg := DefaultConfig()
	cfg.KillReward = 3
	if err := s.Reconfigure(cfg); err != nil {
		t.Fatal(err)
	}
	bad := cfg
	bad.HitRadius = 0
	if err := s.Reconfigure(bad); err == nil {
		t.Fatalf("invalid config should be rejected")
	}

	h, _ := ecs.Get(s.World(), e, component.HealthComponent.Kind())
	h.Value = 0
	s.Advance(0.1)

	if money, _ := s.Money(); money != 3 {
		t.Fatalf("money = %d, want 3", money)
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := newSim(t, DefaultConfig())
	if _, err := s.SpawnPlayer(42); err != nil {
		t.Fatal(err)
	}
	tower, err := s.SpawnTower(component.TowerPotato, common.V3(1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SpawnTarget(common.V3(5, 0, 0), 0, 2); err != nil {
		t.Fatal(err)
	}
	s.Advance(0)

	snap := s.Snapshot()
	if towers, targets, bullets := snap.Counts(); towers != 1 || targets != 1 || bullets != 0 {
		t.Fatalf("counts = %d/%d/%d", towers, targets, bullets)
	}
	if snap.Tick != 1 || snap.Money != 42 || snap.Targets[0].Health != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	id, gen := tower.Parts()
	if ref := snap.Towers[0].EntityRef; ref.Entity != tower || ref.ID != id || ref.Generation != gen {
		t.Fatalf("tower ref = %+v, want %v", ref, tower)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"kind":"potato"`, `"money":42`, `"bullets":[]`, `"position":{"x":1,"y":0,"z":0}`, fmt.Sprintf(`"id":%d,"gen":%d,`, id, gen)} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("snapshot JSON missing %s: %s", want, data)
		}
	}
}
