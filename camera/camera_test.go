package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(12, 2, 60)
	if cam.Distance != 12 {
		t.Errorf("expected distance 12, got %f", cam.Distance)
	}
	if cam.TargetX != 0 || cam.TargetY != 0 || cam.TargetZ != 0 {
		t.Error("expected camera targeting the origin")
	}
}

func TestPosition_DistanceFromTarget(t *testing.T) {
	cam := New(10, 2, 60)
	cam.TargetX = 3
	cam.TargetY = -1

	x, y, z := cam.Position()
	dx, dy, dz := x-3, y-(-1), z-0
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	if math.Abs(dist-10) > 1e-4 {
		t.Errorf("expected position 10 from target, got %f", dist)
	}
}

func TestOrbit_FullYawTurnReturns(t *testing.T) {
	cam := New(10, 2, 60)
	x0, y0, z0 := cam.Position()

	cam.Orbit(2*math.Pi, 0)
	x1, y1, z1 := cam.Position()
	if math.Abs(float64(x1-x0)) > 1e-3 || math.Abs(float64(y1-y0)) > 1e-3 || math.Abs(float64(z1-z0)) > 1e-3 {
		t.Errorf("full yaw turn moved camera: (%f,%f,%f) vs (%f,%f,%f)", x0, y0, z0, x1, y1, z1)
	}
}

func TestOrbit_PitchClampedAtPoles(t *testing.T) {
	cam := New(10, 2, 60)
	cam.Orbit(0, 10) // way past vertical
	if cam.Pitch >= float32(math.Pi/2) {
		t.Errorf("pitch not clamped: %f", cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch <= -float32(math.Pi/2) {
		t.Errorf("negative pitch not clamped: %f", cam.Pitch)
	}
}

func TestDolly_Clamped(t *testing.T) {
	cam := New(10, 2, 60)
	cam.Dolly(-100)
	if cam.Distance != 2 {
		t.Errorf("expected min distance 2, got %f", cam.Distance)
	}
	cam.Dolly(1000)
	if cam.Distance != 60 {
		t.Errorf("expected max distance 60, got %f", cam.Distance)
	}
}

func TestPan_MovesTargetInViewPlane(t *testing.T) {
	cam := New(10, 2, 60)
	cam.Yaw = 0 // view axis along world X, right axis along world Z

	cam.Pan(2, 3)
	if math.Abs(float64(cam.TargetZ-2)) > 1e-4 {
		t.Errorf("expected target z 2, got %f", cam.TargetZ)
	}
	if cam.TargetY != 3 {
		t.Errorf("expected target y 3, got %f", cam.TargetY)
	}
	if math.Abs(float64(cam.TargetX)) > 1e-4 {
		t.Errorf("pan along right axis moved target x: %f", cam.TargetX)
	}
}

func TestPan_KeepsOrbitDistance(t *testing.T) {
	cam := New(10, 2, 60)
	cam.Pan(5, -2)
	x, y, z := cam.Position()
	dx, dy, dz := x-cam.TargetX, y-cam.TargetY, z-cam.TargetZ
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	if math.Abs(dist-10) > 1e-4 {
		t.Errorf("pan changed orbit distance: %f", dist)
	}
}
