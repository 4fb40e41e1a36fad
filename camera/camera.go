// Package camera provides a 2D orthographic view of the effect-space XY plane.
package camera

import "gonum.org/v1/gonum/spatial/r3"

// Camera maps effect-space coordinates (y up, unbounded) to screen pixels
// (y down). Z is dropped.
type Camera struct {
	// Center is the effect-space point at screen center
	X, Y float64

	// Scale is pixels per effect-space unit at zoom 1
	Scale float64

	// Zoom level (1.0 = Scale pixels per unit)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the effect-space origin at zoom 1.
func New(viewportW, viewportH float32, scale float64) *Camera {
	if scale <= 0 {
		scale = 1
	}
	return &Camera{
		Scale:     scale,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   0.1,
		MaxZoom:   10.0,
	}
}

// pixelsPerUnit returns the current effective scale.
func (c *Camera) pixelsPerUnit() float64 {
	return c.Scale * c.Zoom
}

// WorldToScreen projects an effect-space point to screen coordinates.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float32) {
	k := c.pixelsPerUnit()
	sx = c.ViewportW/2 + float32((p.X-c.X)*k)
	sy = c.ViewportH/2 - float32((p.Y-c.Y)*k)
	return sx, sy
}

// ScreenToWorld converts screen coordinates to an effect-space point on z = 0.
func (c *Camera) ScreenToWorld(sx, sy float32) r3.Vec {
	k := c.pixelsPerUnit()
	return r3.Vec{
		X: c.X + float64(sx-c.ViewportW/2)/k,
		Y: c.Y - float64(sy-c.ViewportH/2)/k,
	}
}

// Length converts an effect-space distance to pixels.
func (c *Camera) Length(d float64) float32 {
	return float32(d * c.pixelsPerUnit())
}

// IsVisible returns true if a circle at p with the given effect-space
// radius could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p r3.Vec, radius float64) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return p.X >= minX-radius && p.X <= maxX+radius &&
		p.Y >= minY-radius && p.Y <= maxY+radius
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the view by the given delta in screen pixels, as when dragging
// the scene: dragging right moves the content right.
func (c *Camera) Pan(dx, dy float32) {
	k := c.pixelsPerUnit()
	c.X -= float64(dx) / k
	c.Y += float64(dy) / k
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = min(max(zoom, c.MinZoom), c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the effect-space point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor float64, sx, sy float32) {
	anchor := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	moved := c.ScreenToWorld(sx, sy)
	c.X += anchor.X - moved.X
	c.Y += anchor.Y - moved.Y
}

// Reset returns the camera to the origin at zoom 1.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the effect-space bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	k := c.pixelsPerUnit()
	halfW := float64(c.ViewportW) / (2 * k)
	halfH := float64(c.ViewportH) / (2 * k)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}
