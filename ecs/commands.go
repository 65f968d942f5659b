package ecs

import (
	"fmt"

	"github.com/milk9111/towersim/ecs/component"
)

// ComponentValue pairs a component kind with a value for a deferred spawn.
type ComponentValue struct {
	id    component.ComponentID
	value any
}

// With packs a component for Commands.Spawn. It panics on an invalid kind.
func With[T any](kind component.ComponentKind[T], value *T) ComponentValue {
	if !kind.Valid() {
		panic(component.ErrInvalidComponentKind)
	}
	cv := ComponentValue{id: kind.ID()}
	if value != nil {
		cv.value = value
	}
	return cv
}

type spawnCommand struct {
	entity     Entity
	components []ComponentValue
}

// Commands buffers structural changes issued while systems run. The buffer
// is drained once, by World.Flush: spawns first, then despawns, each in the
// order issued.
type Commands struct {
	world    *World
	spawns   []spawnCommand
	despawns []Entity
	queued   map[Entity]struct{}
}

// Spawn reserves an entity id and queues its components. The entity is not
// visible to queries until the next flush.
func (c *Commands) Spawn(components ...ComponentValue) Entity {
	e := c.world.entities.reserve()
	c.spawns = append(c.spawns, spawnCommand{entity: e, components: components})
	return e
}

// Despawn queues removal of e and all its components. Queuing the same entity
// twice before a flush is a no-op. Despawning an entity that was already
// removed returns ErrEntityNotAlive.
func (c *Commands) Despawn(e Entity) error {
	if _, ok := c.queued[e]; ok {
		return nil
	}
	if !c.world.entities.isAlive(e) && !c.world.entities.isPending(e) {
		return fmt.Errorf("despawn %s: %w", e, component.ErrEntityNotAlive)
	}
	if c.queued == nil {
		c.queued = make(map[Entity]struct{})
	}
	c.queued[e] = struct{}{}
	c.despawns = append(c.despawns, e)
	return nil
}

// MustDespawn is Despawn for callers that only ever despawn entities they
// just read from a query. A failure there means world state is corrupt.
func (c *Commands) MustDespawn(e Entity) {
	if err := c.Despawn(e); err != nil {
		panic(err)
	}
}

// Queued reports whether e has a pending despawn.
func (c *Commands) Queued(e Entity) bool {
	_, ok := c.queued[e]
	return ok
}

// Pending returns the number of buffered spawns and despawns.
func (c *Commands) Pending() (spawns, despawns int) {
	return len(c.spawns), len(c.despawns)
}

func (c *Commands) flush() {
	w := c.world
	for _, cmd := range c.spawns {
		if !w.entities.activate(cmd.entity) {
			continue
		}
		for _, cv := range cmd.components {
			if cv.value == nil {
				continue
			}
			w.store(cv.id, true).Set(cmd.entity, cv.value)
		}
	}
	for _, e := range c.despawns {
		w.DestroyEntity(e)
	}

	clear(c.spawns)
	clear(c.despawns)
	c.spawns = c.spawns[:0]
	c.despawns = c.despawns[:0]
	clear(c.queued)
}
