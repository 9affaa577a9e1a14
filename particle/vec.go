package particle

import "math"

// Vec3 is a 3-component float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns |v|.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalized returns v scaled to unit length, or the zero vector when v is
// (near) zero.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < 1e-6 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// rotation is a precomputed Euler rotation (X then Y then Z) with its
// inverse. Angles are taken in degrees.
type rotation struct {
	sinX, cosX float32
	sinY, cosY float32
	sinZ, cosZ float32
}

func newRotation(degX, degY, degZ float32) rotation {
	rx := float64(degX) * math.Pi / 180
	ry := float64(degY) * math.Pi / 180
	rz := float64(degZ) * math.Pi / 180
	return rotation{
		sinX: float32(math.Sin(rx)), cosX: float32(math.Cos(rx)),
		sinY: float32(math.Sin(ry)), cosY: float32(math.Cos(ry)),
		sinZ: float32(math.Sin(rz)), cosZ: float32(math.Cos(rz)),
	}
}

// apply rotates v about X, then Y, then Z.
func (r rotation) apply(v Vec3) Vec3 {
	// X axis
	y := v.Y*r.cosX - v.Z*r.sinX
	z := v.Y*r.sinX + v.Z*r.cosX
	v.Y, v.Z = y, z
	// Y axis
	x := v.X*r.cosY + v.Z*r.sinY
	z = -v.X*r.sinY + v.Z*r.cosY
	v.X, v.Z = x, z
	// Z axis
	x = v.X*r.cosZ - v.Y*r.sinZ
	y = v.X*r.sinZ + v.Y*r.cosZ
	v.X, v.Y = x, y
	return v
}

// invert undoes apply: negated angles in reverse axis order (Z, Y, X).
func (r rotation) invert(v Vec3) Vec3 {
	// Z axis, negated angle
	x := v.X*r.cosZ + v.Y*r.sinZ
	y := -v.X*r.sinZ + v.Y*r.cosZ
	v.X, v.Y = x, y
	// Y axis, negated angle
	x = v.X*r.cosY - v.Z*r.sinY
	z := v.X*r.sinY + v.Z*r.cosY
	v.X, v.Z = x, z
	// X axis, negated angle
	y = v.Y*r.cosX + v.Z*r.sinX
	z = -v.Y*r.sinX + v.Z*r.cosX
	v.Y, v.Z = y, z
	return v
}
