package ecs

type slotState uint8

const (
	slotFree slotState = iota
	slotPending
	slotAlive
)

// entityStore tracks entity generations, slot states and free ids. Ids start
// at 1; slot i lives at index i-1.
type entityStore struct {
	gen   []generation
	state []slotState
	free  []entityID
	alive int
}

// reserve allocates a handle without making it visible. activate publishes it.
func (s *entityStore) reserve() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.state = append(s.state, slotFree)
		id = entityID(len(s.gen))
	}
	s.state[id-1] = slotPending
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) activate(e Entity) bool {
	if !s.matches(e) || s.state[e.id()-1] != slotPending {
		return false
	}
	s.state[e.id()-1] = slotAlive
	s.alive++
	return true
}

// release frees the slot of a pending or alive entity and bumps its
// generation so the old handle no longer resolves.
func (s *entityStore) release(e Entity) bool {
	if !s.matches(e) {
		return false
	}
	idx := e.id() - 1
	switch s.state[idx] {
	case slotFree:
		return false
	case slotAlive:
		s.alive--
	}
	s.state[idx] = slotFree
	s.gen[idx]++
	s.free = append(s.free, e.id())
	return true
}

func (s *entityStore) matches(e Entity) bool {
	id := e.id()
	return id > 0 && int(id) <= len(s.gen) && s.gen[id-1] == e.generation()
}

func (s *entityStore) isAlive(e Entity) bool {
	return s.matches(e) && s.state[e.id()-1] == slotAlive
}

func (s *entityStore) isPending(e Entity) bool {
	return s.matches(e) && s.state[e.id()-1] == slotPending
}

func (s *entityStore) each(fn func(Entity)) {
	for i, st := range s.state {
		if st == slotAlive {
			fn(makeEntity(entityID(i+1), s.gen[i]))
		}
	}
}
