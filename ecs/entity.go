package ecs

import "strconv"

// Entity packs a slot id (low 32 bits) and its generation (high 32 bits).
// The zero Entity is never handed out and means "no entity".
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

// None is the empty entity reference.
const None Entity = 0

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

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Slot returns the entity's storage slot, stable for its lifetime.
func (e Entity) Slot() uint32 {
	return uint32(e.id())
}
