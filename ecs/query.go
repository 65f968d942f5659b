package ecs

import (
	"slices"

	"github.com/milk9111/towersim/ecs/component"
)

// Query returns the committed entities holding every requested kind, in
// ascending entity-id order. The result is a fresh slice, so callers may
// queue commands while ranging over it; queued spawns and despawns do not
// show up until the next flush.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}

	stores := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		if k == nil || !k.Valid() {
			return nil
		}
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		stores = append(stores, s)
	}

	// iterate the smallest store
	slices.SortFunc(stores, func(a, b *SparseSet) int { return a.Len() - b.Len() })

	out := make([]Entity, 0, stores[0].Len())
	for _, e := range stores[0].Entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		matched := true
		for _, s := range stores[1:] {
			if !s.Has(e) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, e)
		}
	}
	sortByID(out)
	return out
}

func sortByID(ents []Entity) {
	slices.SortFunc(ents, func(a, b Entity) int {
		switch {
		case a.id() < b.id():
			return -1
		case a.id() > b.id():
			return 1
		default:
			return 0
		}
	})
}
