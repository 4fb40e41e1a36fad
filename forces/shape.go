package forces

import "gonum.org/v1/gonum/spatial/r3"

// IsInside reports whether p lies in the force's influence volume. Bounds
// are inclusive.
func IsInside(c *Common, p r3.Vec) bool {
	switch c.Shape {
	case ShapeBox:
		half := c.HalfBoxSize()
		box := r3.Box{Min: r3.Sub(c.Position, half), Max: r3.Add(c.Position, half)}
		return box.Contains(p)
	case ShapeSphere:
		return r3.Norm2(r3.Sub(c.Position, p)) <= c.SquareRadius()
	}
	return false
}

// inRange is the shape gate: infinite-range forces skip the test.
func inRange(c *Common, p r3.Vec) bool {
	return c.InfinityRange || IsInside(c, p)
}
