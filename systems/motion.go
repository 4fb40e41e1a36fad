package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/forcefield/components"
)

// MotionSystem integrates particle positions.
type MotionSystem struct {
	filter *ecs.Filter2[components.Position, components.Velocity]
}

// NewMotionSystem creates a new motion system.
func NewMotionSystem(w *ecs.World) *MotionSystem {
	return &MotionSystem{
		filter: ecs.NewFilter2[components.Position, components.Velocity](w),
	}
}

// Update stores each position as Prev and advances it by velocity * dt.
func (s *MotionSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		pos.Prev = pos.Value
		pos.Value = r3.Add(pos.Value, r3.Scale(dt, vel.Value))
	}
}
