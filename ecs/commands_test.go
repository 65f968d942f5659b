package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/towersim/ecs/component"
)

func TestCommandsSpawnInvisibleUntilFlush(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e := w.Commands().Spawn(With(h.Kind(), intPtr(7)))
	if !e.Valid() {
		t.Fatalf("Spawn should return a valid pending handle")
	}
	if IsAlive(w, e) {
		t.Fatalf("pending entity must not be alive before flush")
	}
	if got := w.Query(h.Kind()); len(got) != 0 {
		t.Fatalf("pending entity must not show in queries, got %v", got)
	}
	if err := Add(w, e, h.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("adding to pending entity should fail, got %v", err)
	}

	w.Flush()

	if !IsAlive(w, e) {
		t.Fatalf("entity should be alive after flush")
	}
	v, ok := Get(w, e, h.Kind())
	if !ok || *v != 7 {
		t.Fatalf("expected spawned component 7, got %v ok=%v", v, ok)
	}
}

func TestCommandsDespawnDeferredAndIdempotent(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)
	other := CreateEntity(w)
	_ = Add(w, e, h.Kind(), intPtr(1))
	_ = Add(w, other, h.Kind(), intPtr(2))

	cmds := w.Commands()
	if err := cmds.Despawn(e); err != nil {
		t.Fatalf("first despawn: %v", err)
	}
	if err := cmds.Despawn(e); err != nil {
		t.Fatalf("second despawn in same tick should be a no-op, got %v", err)
	}
	if _, despawns := cmds.Pending(); despawns != 1 {
		t.Fatalf("expected 1 queued despawn, got %d", despawns)
	}
	if !cmds.Queued(e) {
		t.Fatalf("expected e to be queued")
	}
	if !IsAlive(w, e) {
		t.Fatalf("despawn must not take effect before flush")
	}

	w.Flush()

	if IsAlive(w, e) {
		t.Fatalf("entity should be gone after flush")
	}
	if !IsAlive(w, other) {
		t.Fatalf("unrelated entity must survive")
	}
	if got := w.Query(h.Kind()); len(got) != 1 || got[0] != other {
		t.Fatalf("expected only other in query, got %v", got)
	}

	err := cmds.Despawn(e)
	if !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("despawn after commit should report ErrEntityNotAlive, got %v", err)
	}
}

func TestCommandsMustDespawnPanicsOnDeadEntity(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	DestroyEntity(w, e)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, component.ErrEntityNotAlive) {
			t.Fatalf("expected ErrEntityNotAlive panic, got %v", r)
		}
	}()
	w.Commands().MustDespawn(e)
}

func TestCommandsSpawnThenDespawnSameTick(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e := w.Commands().Spawn(With(h.Kind(), intPtr(1)))
	if err := w.Commands().Despawn(e); err != nil {
		t.Fatalf("despawning a pending entity should be legal: %v", err)
	}
	w.Flush()

	if IsAlive(w, e) {
		t.Fatalf("entity spawned and despawned in one tick must never be alive")
	}
	if got := w.Query(h.Kind()); len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
	if w.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", w.Len())
	}
}

func TestCommandsApplyInIssueOrder(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	var spawned []Entity
	for i := 0; i < 3; i++ {
		spawned = append(spawned, w.Commands().Spawn(With(h.Kind(), intPtr(i))))
	}
	w.Flush()

	got := w.Query(h.Kind())
	if len(got) != 3 {
		t.Fatalf("expected 3 entities, got %v", got)
	}
	for i, e := range got {
		if e != spawned[i] {
			t.Fatalf("entity %d = %v, want %v", i, e, spawned[i])
		}
		if v, _ := Get(w, e, h.Kind()); *v != i {
			t.Fatalf("entity %d value = %d", i, *v)
		}
	}
}

func TestWithNilValueSkipsComponent(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := w.Commands().Spawn(With[int](h.Kind(), nil))
	w.Flush()
	if !IsAlive(w, e) {
		t.Fatalf("entity should be alive")
	}
	if Has(w, e, h.Kind()) {
		t.Fatalf("nil component should not be stored")
	}
}
