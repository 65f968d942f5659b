package ecs

import (
	"fmt"

	"github.com/milk9111/towersim/ecs/component"
)

// World owns entities, component stores, the deferred command buffer and the
// per-tick event bus.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	commands Commands
	events   EventBus
	tick     uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	w := &World{
		stores: make(map[component.ComponentID]*SparseSet),
	}
	w.commands.world = w
	return w
}

// CreateEntity allocates an entity that is visible immediately. It is meant
// for setup and tests; systems spawn through Commands.
func (w *World) CreateEntity() Entity {
	e := w.entities.reserve()
	w.entities.activate(e)
	return e
}

// DestroyEntity removes an entity and all its components immediately.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.matches(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.release(e)
}

// IsAlive reports whether an entity handle refers to a committed entity.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of committed entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.alive
}

// Tick returns how many ticks the scheduler has completed on this world.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Commands returns the deferred command buffer.
func (w *World) Commands() *Commands {
	if w == nil {
		return nil
	}
	return &w.commands
}

// Events returns the world event bus.
func (w *World) Events() *EventBus {
	if w == nil {
		return nil
	}
	return &w.events
}

// Flush applies buffered spawns and despawns.
func (w *World) Flush() {
	if w == nil {
		return
	}
	w.commands.flush()
}

func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(id, true).Set(e, value)
	return nil
}

func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	store := w.store(id, false)
	if !store.Has(e) {
		return nil, false
	}
	return store.Get(e), true
}

func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	_, ok := w.GetComponent(e, id)
	return ok
}

func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(id, false).Remove(e)
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
