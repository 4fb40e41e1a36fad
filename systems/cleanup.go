package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/forcefield/forces"
)

// CleanupSystem removes particles that reached the end of their life.
type CleanupSystem struct {
	filter   *ecs.Filter1[forces.Particle]
	toRemove []ecs.Entity
}

// NewCleanupSystem creates a new cleanup system.
func NewCleanupSystem(w *ecs.World) *CleanupSystem {
	return &CleanupSystem{
		filter: ecs.NewFilter1[forces.Particle](w),
	}
}

// Update removes dead particles and returns how many were removed.
func (s *CleanupSystem) Update(w *ecs.World) int {
	// First pass: collect (the world is locked while the query runs)
	s.toRemove = s.toRemove[:0]
	query := s.filter.Query()
	for query.Next() {
		if p := query.Get(); p.Dead() {
			s.toRemove = append(s.toRemove, query.Entity())
		}
	}

	// Second pass: remove
	for _, e := range s.toRemove {
		w.RemoveEntity(e)
	}
	return len(s.toRemove)
}
