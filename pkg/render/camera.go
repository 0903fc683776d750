package render

import (
	"math"

	"github.com/golang/geo/r3"
)

// Camera is the orbit camera around the arm. Owned exclusively by the render
// goroutine; input events reach it only through the loop's input channel, so
// no locking is needed.
type Camera struct {
	Yaw      float64 // radians, wrapped to (-pi, pi]
	Pitch    float64 // radians, clamped to [-pi/2, pi/2]
	Distance float64

	MinDistance float64
	MaxDistance float64
	RotateSens  float64 // radians per drag unit
	ZoomSens    float64 // distance units per scroll unit
}

// NewCamera creates a camera with the given initial angles (radians) and
// limits. Out-of-range initial values are clamped like any other update.
func NewCamera(yaw, pitch, distance, minDist, maxDist, rotateSens, zoomSens float64) *Camera {
	c := &Camera{
		MinDistance: minDist,
		MaxDistance: maxDist,
		RotateSens:  rotateSens,
		ZoomSens:    zoomSens,
	}
	c.Yaw = wrapYaw(yaw)
	c.Pitch = clamp(pitch, -math.Pi/2, math.Pi/2)
	c.Distance = clamp(distance, minDist, maxDist)
	return c
}

// Drag applies a mouse drag delta: horizontal drag orbits (wrapped),
// vertical drag tilts (clamped). Purely local; never touches robot state.
func (c *Camera) Drag(dx, dy float64) {
	c.Yaw = wrapYaw(c.Yaw + dx*c.RotateSens)
	c.Pitch = clamp(c.Pitch-dy*c.RotateSens, -math.Pi/2, math.Pi/2)
}

// Scroll applies a wheel delta to the orbit distance, clamped to the
// configured range. Positive delta zooms in.
func (c *Camera) Scroll(delta float64) {
	c.Distance = clamp(c.Distance-delta*c.ZoomSens, c.MinDistance, c.MaxDistance)
}

// Eye returns the camera position orbiting the given center.
func (c *Camera) Eye(center r3.Vector) r3.Vector {
	horiz := c.Distance * math.Cos(c.Pitch)
	return r3.Vector{
		X: center.X + horiz*math.Sin(c.Yaw),
		Y: center.Y + c.Distance*math.Sin(c.Pitch),
		Z: center.Z + horiz*math.Cos(c.Yaw),
	}
}

func wrapYaw(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
