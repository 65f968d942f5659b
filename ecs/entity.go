package ecs

import "strconv"

// Entity is an opaque handle: the low 32 bits hold the slot id, the high 32
// bits its generation. A handle stops resolving once its entity is despawned,
// even if the slot is reused.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

// Parts splits the handle into its slot id and generation, for encoders that
// cannot carry a full uint64.
func (e Entity) Parts() (id, gen uint32) {
	return uint32(e.id()), uint32(e.generation())
}

func (e Entity) Valid() bool {
	return e.id() > 0
}
