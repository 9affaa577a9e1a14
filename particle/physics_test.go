package particle

import (
	"math"
	"testing"
)

func newTestIntegrator(capacity int) (*Buffers, Integrator) {
	b := NewBuffers(capacity, false)
	return b, NewCPUIntegrator(b)
}

func TestParamsPack_KernelLayout(t *testing.T) {
	p := PhysicsParams{
		ParticleSpeed:     2,
		Gravity:           9.8,
		Turbulence:        0.5,
		AttractorStrength: 3,
		Attractor:         Vec3{1, 2, 3},
	}
	got := p.pack(0.016)
	want := [paramFloats]float32{0.016, 2, 9.8, 0.5, 3, 0, 1, 2, 3, 0, 0, 0}
	if got != want {
		t.Errorf("param block layout mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestStep_AdvancesAge(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 2, Vec3{})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1})

	ig.Step(1.0/60, 1)
	if math.Abs(float64(b.Age(0)-1.0/60)) > 1e-6 {
		t.Errorf("expected age 1/60, got %f", b.Age(0))
	}
}

func TestStep_DeadParticleUntouched(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{1, 1, 1}, [3]float32{1, 1, 1}, 5, 2, Vec3{1, 0, 0})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1, Gravity: 9.8})

	ig.Step(1.0/60, 1)
	if b.Age(0) != 5 || b.Position(0) != (Vec3{1, 1, 1}) {
		t.Error("dead particle was integrated")
	}
}

func TestStep_SlotsPastActiveUntouched(t *testing.T) {
	b, ig := newTestIntegrator(2)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 2, Vec3{1, 0, 0})
	b.WriteSlot(1, Vec3{}, [3]float32{1, 1, 1}, 0, 2, Vec3{1, 0, 0})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1})

	ig.Step(1.0/60, 1)
	if b.Age(1) != 0 || b.Position(1) != (Vec3{}) {
		t.Error("slot past active count was integrated")
	}
}

func TestStep_GravityPullsDown(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 10, Vec3{})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1, Gravity: 9.8})

	dt := float32(1.0 / 60)
	ig.Step(dt, 1)
	wantVY := -9.8 * dt
	if math.Abs(float64(b.VelocityAt(0).Y-wantVY)) > 1e-6 {
		t.Errorf("expected vy %f, got %f", wantVY, b.VelocityAt(0).Y)
	}
	if b.Position(0).Y >= 0 {
		t.Error("gravity did not move particle down")
	}
}

func TestStep_ZeroGravityIsOff(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 10, Vec3{1, 0, 0})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1, Gravity: 0})

	ig.Step(1.0/60, 1)
	if b.VelocityAt(0).Y != 0 {
		t.Errorf("gravity applied at zero strength: vy %f", b.VelocityAt(0).Y)
	}
}

func TestStep_VelocityPersistsWithoutForces(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 10, Vec3{2, 3, 4})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1})

	for i := 0; i < 30; i++ {
		ig.Step(1.0/60, 1)
	}
	if b.VelocityAt(0) != (Vec3{2, 3, 4}) {
		t.Errorf("velocity drifted without forces: %+v", b.VelocityAt(0))
	}
	// 30 steps of 1/60 at speed multiplier 1
	wantX := 2.0 * 30.0 / 60.0
	if math.Abs(float64(b.Position(0).X)-wantX) > 1e-4 {
		t.Errorf("expected x %f, got %f", wantX, b.Position(0).X)
	}
}

func TestStep_AttractorPullsInward(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{5, 0, 0}, [3]float32{1, 1, 1}, 0, 10, Vec3{})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1, AttractorStrength: 10})

	ig.Step(1.0/60, 1)
	if b.VelocityAt(0).X >= 0 {
		t.Errorf("attractor at origin did not pull -X: vx %f", b.VelocityAt(0).X)
	}
}

func TestStep_AttractorDeadZone(t *testing.T) {
	b, ig := newTestIntegrator(1)
	// Inside the 0.1 dead zone around the attractor point.
	b.WriteSlot(0, Vec3{0.05, 0, 0}, [3]float32{1, 1, 1}, 0, 10, Vec3{})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1, AttractorStrength: 10})

	ig.Step(1.0/60, 1)
	if b.VelocityAt(0) != (Vec3{}) {
		t.Errorf("attractor applied inside dead zone: %+v", b.VelocityAt(0))
	}
}

func TestStep_AttractorInverseSquare(t *testing.T) {
	dt := float32(1.0 / 60)
	near, igNear := newTestIntegrator(1)
	near.WriteSlot(0, Vec3{1, 0, 0}, [3]float32{1, 1, 1}, 0, 10, Vec3{})
	igNear.SetParams(PhysicsParams{ParticleSpeed: 1, AttractorStrength: 4})
	igNear.Step(dt, 1)

	far, igFar := newTestIntegrator(1)
	far.WriteSlot(0, Vec3{2, 0, 0}, [3]float32{1, 1, 1}, 0, 10, Vec3{})
	igFar.SetParams(PhysicsParams{ParticleSpeed: 1, AttractorStrength: 4})
	igFar.Step(dt, 1)

	ratio := near.VelocityAt(0).X / far.VelocityAt(0).X
	if math.Abs(float64(ratio)-4) > 1e-3 {
		t.Errorf("expected 4x pull at half distance, got ratio %f", ratio)
	}
}

func TestStep_TimestepClampLimitsTravel(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 100, Vec3{1, 0, 0})
	ig.SetParams(PhysicsParams{ParticleSpeed: 1})

	// A one-second hitch still only advances position by the clamp.
	ig.Step(1.0, 1)
	if math.Abs(float64(b.Position(0).X)-float64(maxIntegrationStep)) > 1e-6 {
		t.Errorf("expected clamped travel %f, got %f", maxIntegrationStep, b.Position(0).X)
	}
	// Age still advances by the full dt.
	if math.Abs(float64(b.Age(0))-1.0) > 1e-6 {
		t.Errorf("expected age 1.0, got %f", b.Age(0))
	}
}

func TestStep_SpeedMultiplierScalesTravel(t *testing.T) {
	b, ig := newTestIntegrator(1)
	b.WriteSlot(0, Vec3{}, [3]float32{1, 1, 1}, 0, 10, Vec3{1, 0, 0})
	ig.SetParams(PhysicsParams{ParticleSpeed: 2})

	dt := float32(1.0 / 60)
	ig.Step(dt, 1)
	want := 2 * dt
	if math.Abs(float64(b.Position(0).X-want)) > 1e-6 {
		t.Errorf("expected x %f at 2x speed, got %f", want, b.Position(0).X)
	}
}

func TestReadback_ReturnsActivePrefix(t *testing.T) {
	b, ig := newTestIntegrator(4)
	b.WriteSlot(0, Vec3{1, 0, 0}, [3]float32{1, 1, 1}, 0, 5, Vec3{})
	b.WriteSlot(1, Vec3{2, 0, 0}, [3]float32{1, 1, 1}, 0, 5, Vec3{})

	inst, vel, err := ig.Readback(2)
	if err != nil {
		t.Fatalf("readback: %v", err)
	}
	if len(inst) != 2*InstanceStride || len(vel) != 2*VelocityStride {
		t.Fatalf("unexpected readback sizes: %d %d", len(inst), len(vel))
	}
	if inst[InstanceStride] != 2 {
		t.Errorf("second slot position wrong: %f", inst[InstanceStride])
	}
}
