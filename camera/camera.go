// Package camera provides an orbit camera for viewing the scene.
package camera

import "math"

// Camera orbits a target point at a controlled distance. Angles are in
// radians; pitch is clamped short of the poles so the view never flips.
type Camera struct {
	// Target is the orbit center in world coordinates.
	TargetX, TargetY, TargetZ float32

	// Yaw rotates around the world Y axis; Pitch tilts above or below
	// the horizon.
	Yaw, Pitch float32

	// Distance from the target along the view ray.
	Distance float32

	// Distance constraints
	MinDistance, MaxDistance float32
}

// pitchLimit keeps the camera off the poles where yaw degenerates.
const pitchLimit = float32(math.Pi/2) * 0.99

// New creates a camera looking at the origin from the given distance,
// slightly above the horizon.
func New(distance, minDistance, maxDistance float32) *Camera {
	return &Camera{
		Yaw:         float32(math.Pi) / 4,
		Pitch:       float32(math.Pi) / 6,
		Distance:    distance,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	}
}

// Orbit rotates the camera by the given yaw and pitch deltas.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	// Keep yaw bounded so it never accumulates precision loss
	twoPi := float32(2 * math.Pi)
	for c.Yaw > twoPi {
		c.Yaw -= twoPi
	}
	for c.Yaw < -twoPi {
		c.Yaw += twoPi
	}

	c.Pitch += dPitch
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Dolly moves the camera along the view ray, clamped to the distance
// constraints. Positive delta moves away from the target.
func (c *Camera) Dolly(delta float32) {
	c.Distance += delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Pan shifts the orbit target in the camera's screen plane: right along
// the view's horizontal axis, up along world Y.
func (c *Camera) Pan(dRight, dUp float32) {
	rightX, _, rightZ := c.right()
	c.TargetX += rightX * dRight
	c.TargetZ += rightZ * dRight
	c.TargetY += dUp
}

// Position returns the camera's world position.
func (c *Camera) Position() (x, y, z float32) {
	cosP := float32(math.Cos(float64(c.Pitch)))
	x = c.TargetX + c.Distance*cosP*float32(math.Cos(float64(c.Yaw)))
	y = c.TargetY + c.Distance*float32(math.Sin(float64(c.Pitch)))
	z = c.TargetZ + c.Distance*cosP*float32(math.Sin(float64(c.Yaw)))
	return x, y, z
}

// right returns the unit vector pointing screen-right.
func (c *Camera) right() (x, y, z float32) {
	// Perpendicular to the view direction in the horizontal plane.
	return -float32(math.Sin(float64(c.Yaw))), 0, float32(math.Cos(float64(c.Yaw)))
}
