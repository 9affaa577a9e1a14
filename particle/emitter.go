package particle

import (
	"math"
	"math/rand"
)

// Emitter produces spawn positions and initial velocities for one
// emission config. It owns no state beyond the config reference; all
// randomness comes from the caller-supplied RNG so runs are reproducible
// under a fixed seed.
type Emitter struct {
	cfg *EmissionConfig
}

// NewEmitter creates an emitter over the given config.
func NewEmitter(cfg *EmissionConfig) *Emitter {
	return &Emitter{cfg: cfg}
}

// SamplePosition draws a spawn position: a local sample from the
// configured shape, rotated (Euler X then Y then Z) and translated.
func (e *Emitter) SamplePosition(rng *rand.Rand) Vec3 {
	c := e.cfg
	local := e.sampleLocal(rng)
	rot := newRotation(c.RotationX, c.RotationY, c.RotationZ)
	p := rot.apply(local)
	return p.Add(Vec3{c.TranslationX, c.TranslationY, c.TranslationZ})
}

// sampleLocal draws a point in the shape's own frame.
//
// Shell sampling (inner extent > 0) deliberately interpolates a scalar
// radius linearly between the inner and outer extent, which concentrates
// samples toward the inner surface instead of being area/volume uniform.
// That density gradient is the established behavior users tune against,
// so it is preserved rather than corrected.
func (e *Emitter) sampleLocal(rng *rand.Rand) Vec3 {
	c := e.cfg
	switch c.Shape {
	case ShapeCube:
		if c.InnerLength <= 0 {
			l := c.OuterLength
			return Vec3{
				(rng.Float32() - 0.5) * l,
				(rng.Float32() - 0.5) * l,
				(rng.Float32() - 0.5) * l,
			}
		}
		return sampleCubeShell(rng, c.InnerLength, c.OuterLength)

	case ShapeSphere:
		dir := sampleUnitSphere(rng)
		var r float32
		if c.InnerRadius <= 0 {
			// Cube-root law keeps the solid sphere volume-uniform.
			r = c.OuterRadius * float32(math.Cbrt(float64(rng.Float32())))
		} else {
			r = c.InnerRadius + rng.Float32()*(c.OuterRadius-c.InnerRadius)
		}
		return dir.Scale(r)

	case ShapeSquare:
		if c.SquareInnerSize <= 0 {
			s := c.SquareSize
			return Vec3{(rng.Float32() - 0.5) * s, (rng.Float32() - 0.5) * s, 0}
		}
		return sampleSquareShell(rng, c.SquareInnerSize, c.SquareSize)

	case ShapeCircle:
		a := rng.Float64() * 2 * math.Pi
		var r float32
		if c.CircleInnerRadius <= 0 {
			// Square-root law keeps the solid disc area-uniform.
			r = c.CircleOuterRadius * float32(math.Sqrt(float64(rng.Float32())))
		} else {
			r = c.CircleInnerRadius + rng.Float32()*(c.CircleOuterRadius-c.CircleInnerRadius)
		}
		return Vec3{r * float32(math.Cos(a)), r * float32(math.Sin(a)), 0}

	case ShapeCylinder:
		a := rng.Float64() * 2 * math.Pi
		var r float32
		if c.InnerRadius <= 0 {
			r = c.OuterRadius * float32(math.Sqrt(float64(rng.Float32())))
		} else {
			r = c.InnerRadius + rng.Float32()*(c.OuterRadius-c.InnerRadius)
		}
		y := (rng.Float32() - 0.5) * c.CylinderHeight
		return Vec3{r * float32(math.Cos(a)), y, r * float32(math.Sin(a))}

	default: // ShapePoint
		return Vec3{}
	}
}

// sampleCubeShell picks one of the six faces, samples two face-local
// coordinates in [-0.5, 0.5], interpolates a radius between the inner and
// outer extent, and scales all three coordinates by it. The shell is
// therefore thicker along the radius than across the face; preserved
// behavior, see sampleLocal.
func sampleCubeShell(rng *rand.Rand, inner, outer float32) Vec3 {
	face := rng.Intn(6)
	u := rng.Float32() - 0.5
	v := rng.Float32() - 0.5
	r := inner + rng.Float32()*(outer-inner)

	var p Vec3
	switch face {
	case 0:
		p = Vec3{0.5, u, v}
	case 1:
		p = Vec3{-0.5, u, v}
	case 2:
		p = Vec3{u, 0.5, v}
	case 3:
		p = Vec3{u, -0.5, v}
	case 4:
		p = Vec3{u, v, 0.5}
	default:
		p = Vec3{u, v, -0.5}
	}
	return p.Scale(r)
}

// sampleSquareShell is the 2D analogue of sampleCubeShell: pick one of
// four perimeter sides, then scale by an interpolated extent.
func sampleSquareShell(rng *rand.Rand, inner, outer float32) Vec3 {
	side := rng.Intn(4)
	u := rng.Float32() - 0.5
	r := inner + rng.Float32()*(outer-inner)

	var p Vec3
	switch side {
	case 0:
		p = Vec3{0.5, u, 0}
	case 1:
		p = Vec3{-0.5, u, 0}
	case 2:
		p = Vec3{u, 0.5, 0}
	default:
		p = Vec3{u, -0.5, 0}
	}
	return p.Scale(r)
}

// sampleUnitSphere draws a direction uniformly on the unit sphere:
// azimuth uniform in [0, 2π), polar angle via acos(2u-1).
func sampleUnitSphere(rng *rand.Rand) Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	sp := math.Sin(phi)
	return Vec3{
		float32(sp * math.Cos(theta)),
		float32(math.Cos(phi)),
		float32(sp * math.Sin(theta)),
	}
}

// InitialVelocity computes the spawn velocity for a particle at pos.
// Default direction is radially away from the transformed shape origin;
// tangential mode (circle/cylinder) computes the tangent in the shape's
// own un-rotated frame and re-applies the rotation, because tangents do
// not commute with translation the way radial directions do. Per-axis
// overrides replace the corresponding component outright.
func (e *Emitter) InitialVelocity(pos Vec3, rng *rand.Rand) Vec3 {
	c := e.cfg
	origin := Vec3{c.TranslationX, c.TranslationY, c.TranslationZ}

	var dir Vec3
	if c.TangentialVelocity && (c.Shape == ShapeCircle || c.Shape == ShapeCylinder) {
		rot := newRotation(c.RotationX, c.RotationY, c.RotationZ)
		local := rot.invert(pos.Sub(origin))
		var tangent Vec3
		if c.Shape == ShapeCircle {
			// Cross-section in the XY plane.
			tangent = Vec3{-local.Y, local.X, 0}
		} else {
			// Cross-section in the XZ plane, axis along Y.
			tangent = Vec3{-local.Z, 0, local.X}
		}
		dir = rot.apply(tangent).Normalized()
	} else {
		dir = pos.Sub(origin).Normalized()
	}
	if dir == (Vec3{}) {
		// Point shape (or a sample exactly at the origin) has no radial
		// direction; fall back to a uniform random one.
		dir = sampleUnitSphere(rng)
	}

	speed := c.Speed
	if c.RandomSpeed {
		speed = c.MinSpeed + rng.Float32()*(c.MaxSpeed-c.MinSpeed)
	}
	v := dir.Scale(speed)

	if c.OverrideX {
		v.X = c.VelocityX
	}
	if c.OverrideY {
		v.Y = c.VelocityY
	}
	if c.OverrideZ {
		v.Z = c.VelocityZ
	}
	return v
}

// SpawnLifetime draws a particle lifetime: base * (1 ± LifetimeJitter).
func (e *Emitter) SpawnLifetime(rng *rand.Rand) float32 {
	jitter := 1 + (rng.Float32()*2-1)*LifetimeJitter
	return e.cfg.Lifetime * jitter
}

// SpawnColor returns the color a particle is born with: the gradient
// start color when color transition is on, the flat color otherwise.
func (e *Emitter) SpawnColor() [3]float32 {
	if e.cfg.ColorTransition {
		return e.cfg.StartColor
	}
	return e.cfg.Color
}

// SpawnInto samples a complete particle into the given buffer slot:
// position, birth color, age 0, jittered lifetime, and initial velocity.
func (e *Emitter) SpawnInto(b *Buffers, slot int, rng *rand.Rand) {
	pos := e.SamplePosition(rng)
	vel := e.InitialVelocity(pos, rng)
	b.WriteSlot(slot, pos, e.SpawnColor(), 0, e.SpawnLifetime(rng), vel)
}
