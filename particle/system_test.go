package particle

import (
	"math"
	"testing"
)

func testOptions() Options {
	return Options{
		MaxParticles:     1000,
		BurstBatchSize:   1024,
		FixedStep:        1.0 / 60,
		MaxFrameGap:      1.0 / 30,
		ReadbackInterval: 10,
		Mirrored:         false,
	}
}

func newTestSystem(cfg *EmissionConfig, opts Options) *System {
	s := NewSystem(1, cfg, opts, NewCPUIntegrator)
	s.Spawn()
	return s
}

func TestBurst_FullCountImmediatelyAfterSpawn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 500
	s := newTestSystem(cfg, testOptions())

	if s.Active() != 500 {
		t.Errorf("expected 500 active after Spawn, got %d", s.Active())
	}
	if s.Emitting() {
		t.Error("burst system still emitting after Spawn")
	}

	s.Update(1.0 / 60)
	if s.Active() != 500 {
		t.Errorf("burst emitted again: %d active", s.Active())
	}
}

func TestBurst_SmallBatchStillCompletesAtSpawn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 500
	opts := testOptions()
	opts.BurstBatchSize = 128
	s := newTestSystem(cfg, opts)

	// Batching bounds single uploads, never defers part of the quota.
	if s.Active() != 500 {
		t.Errorf("expected 500 active after Spawn, got %d", s.Active())
	}
	if s.Emitting() {
		t.Error("burst still emitting after Spawn")
	}
}

func TestBurst_ClampedToCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 5000
	opts := testOptions()
	opts.MaxParticles = 200
	s := newTestSystem(cfg, opts)

	if s.Active() != 200 {
		t.Errorf("expected capacity clamp at 200, got %d", s.Active())
	}
	if s.Emitting() {
		t.Error("clamped burst still emitting after Spawn")
	}
}

func TestContinuous_TargetOverProvisionsForLifetime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 10
	cfg.EmissionDuration = 1
	cfg.Lifetime = 5 // longer than duration, so the window is 5s
	s := newTestSystem(cfg, testOptions())

	if s.targetCount != 50 {
		t.Errorf("expected target ceil(10*5)=50, got %d", s.targetCount)
	}
}

func TestContinuous_TargetClampedToCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 600
	cfg.EmissionDuration = 5
	opts := testOptions()
	opts.MaxParticles = 100
	s := newTestSystem(cfg, opts)

	if s.targetCount != 100 {
		t.Errorf("expected target clamped to 100, got %d", s.targetCount)
	}
	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() > 100 {
		t.Errorf("active %d exceeded capacity", s.Active())
	}
}

func TestContinuous_WholeRateEmitsExactly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 60
	cfg.EmissionDuration = 100
	cfg.Lifetime = 100
	s := newTestSystem(cfg, testOptions())

	// One particle per frame at 60/s and 60 fps, no fractional draw.
	for i := 0; i < 30; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() != 30 {
		t.Errorf("expected 30 particles after 30 frames, got %d", s.Active())
	}
}

func TestContinuous_FractionalRateAveragesOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 10
	cfg.EmissionDuration = 5
	cfg.Lifetime = 2
	s := newTestSystem(cfg, testOptions())
	s.SetSeed(42)

	if s.targetCount != 50 {
		t.Fatalf("expected target ceil(10*5)=50, got %d", s.targetCount)
	}

	// 10/s at 60 fps owes 1/6 of a particle per frame; the Bernoulli
	// draw on the fraction has to average out over the full duration.
	// A few extra frames absorb float accumulation around the cutoff.
	for i := 0; i < 310; i++ {
		s.Update(1.0 / 60)
	}
	emitted := s.Stats().Emitted
	if emitted < 45 || emitted > 55 {
		t.Errorf("expected roughly 50 emitted over 5s, got %d", emitted)
	}
	if s.Emitting() {
		t.Error("still emitting after duration elapsed")
	}
}

func TestContinuous_StopsAfterDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 60
	cfg.EmissionDuration = 0.1
	s := newTestSystem(cfg, testOptions())

	for i := 0; i < 30; i++ {
		s.Update(1.0 / 60)
	}
	if s.Emitting() {
		t.Error("still emitting past duration")
	}
	active := s.Active()
	s.Update(1.0 / 60)
	if s.Active() != active {
		t.Error("emitted after duration elapsed")
	}
}

func TestContinuous_LowRateStillEmits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 0.5
	cfg.EmissionDuration = 10
	cfg.Lifetime = 10
	s := newTestSystem(cfg, testOptions())

	// At 0.5/s the Bernoulli draw may miss for a while, but the forced
	// emission path must produce something within a few frames.
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() == 0 {
		t.Error("low-rate system emitted nothing in 10 frames")
	}
}

func TestSpawn_Restartable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 60
	s := newTestSystem(cfg, testOptions())

	for i := 0; i < 20; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() == 0 {
		t.Fatal("expected particles before respawn")
	}
	s.Spawn()
	if s.Active() != 0 {
		t.Errorf("expected 0 active after spawn, got %d", s.Active())
	}
	if !s.Emitting() {
		t.Error("spawn did not restart emission")
	}
	// All cleared slots must read dead so stale lanes no-op.
	for i := 0; i < 20; i++ {
		if !s.Buffers().Dead(i) {
			t.Fatalf("slot %d still live after spawn", i)
		}
	}
}

func TestSpawn_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSystem(cfg, testOptions())
	s.Spawn()
	s.Spawn()
	if s.Active() != 0 || !s.Emitting() {
		t.Error("double spawn changed state")
	}
}

func TestCompaction_DrainsDeadAfterEmission(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 50
	cfg.Lifetime = 0.2
	s := newTestSystem(cfg, testOptions())

	// Max jittered lifetime is 0.24s; 60 frames ages everything out and
	// crosses several readback cadences.
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() != 0 {
		t.Errorf("expected all particles compacted away, got %d", s.Active())
	}
	if s.Stats().Compacted != 50 {
		t.Errorf("expected 50 compacted, got %d", s.Stats().Compacted)
	}
}

func TestCompaction_SurvivorsStayLive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 100
	cfg.Lifetime = 1
	s := newTestSystem(cfg, testOptions())

	// Jitter spreads lifetimes across [0.8, 1.2]; at the 1.0s readback
	// roughly half are dead.
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60)
	}
	active := s.Active()
	if active == 0 || active == 100 {
		t.Fatalf("expected partial die-off, got %d of 100", active)
	}
	for i := 0; i < active; i++ {
		if s.Buffers().Dead(i) {
			t.Fatalf("slot %d dead after compaction", i)
		}
	}
}

func TestRespawn_HoldsPopulationWhileEmitting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 60
	cfg.EmissionDuration = 100
	cfg.Lifetime = 0.5
	opts := testOptions()
	opts.MaxParticles = 60
	s := newTestSystem(cfg, opts)

	// Run well past several lifetimes; dead particles respawn in place so
	// the population stays pinned at the target.
	for i := 0; i < 300; i++ {
		s.Update(1.0 / 60)
	}
	if s.Active() != 60 {
		t.Errorf("expected population held at 60, got %d", s.Active())
	}
	if s.Stats().Respawned == 0 {
		t.Error("expected in-place respawns during continuous emission")
	}
}

func TestUpdate_FixedStepDrain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 1
	s := newTestSystem(cfg, testOptions())
	s.Update(1.0 / 60) // emits

	before := s.Stats().Steps
	s.Update(0.07) // four fixed steps owed, with residue left over
	if got := s.Stats().Steps - before; got != 4 {
		t.Errorf("expected 4 fixed steps, got %d", got)
	}
}

func TestUpdate_ForcedStepOnStall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 1
	cfg.Lifetime = 10
	opts := testOptions()
	opts.FixedStep = 0.1
	opts.MaxFrameGap = 0.05
	s := newTestSystem(cfg, opts)
	s.Update(0.01) // emits, accumulator below the step

	before := s.Stats().Steps
	s.Update(0.06) // accumulator 0.07 < 0.1 but the frame gap forces one
	if s.Stats().Steps-before != 1 {
		t.Errorf("expected forced step, got %d", s.Stats().Steps-before)
	}
}

func TestRespawned_RebuildsEmitterAndRestarts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmissionRate = 60
	s := newTestSystem(cfg, testOptions())
	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
	}

	cfg.Shape = ShapeSphere
	cfg.SetOuterRadius(3)
	cfg.TranslationX = 10
	s.Respawned()

	if s.Active() != 0 {
		t.Errorf("respawn kept %d particles", s.Active())
	}
	s.Update(1.0 / 60)
	if s.Active() == 0 {
		t.Fatal("no particles after respawn")
	}
	p := s.Buffers().Position(0)
	if math.Abs(float64(p.X-10)) > 3+0.1 {
		t.Errorf("particle not sampled from moved shape: %+v", p)
	}
}

func TestAppearanceChanged_RewritesLiveColors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 10
	s := newTestSystem(cfg, testOptions())
	s.Update(1.0 / 60)

	cfg.Color = [3]float32{0, 1, 0}
	s.AppearanceChanged()

	inst := s.Buffers().Instance
	for i := 0; i < s.Active(); i++ {
		if inst[i*InstanceStride+3] != 0 || inst[i*InstanceStride+4] != 1 {
			t.Fatalf("slot %d color not rewritten", i)
		}
	}
}

func TestPhysicsChanged_PushesParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMode = true
	cfg.ParticleCount = 1
	s := newTestSystem(cfg, testOptions())
	s.Update(1.0 / 60)

	cfg.Gravity = 9.8
	s.PhysicsChanged()
	s.Update(4.0 / 60)

	if s.Buffers().VelocityAt(0).Y >= 0 {
		t.Error("gravity change not pushed to integrator")
	}
}

func TestSetSpeed_ScalesMotion(t *testing.T) {
	run := func(speed float32) float32 {
		cfg := DefaultConfig()
		cfg.BurstMode = true
		cfg.ParticleCount = 1
		cfg.Speed = 1
		cfg.OverrideX = true
		cfg.VelocityX = 1
		cfg.OverrideY = true
		cfg.OverrideZ = true
		s := newTestSystem(cfg, testOptions())
		s.SetSpeed(speed)
		for i := 0; i < 10; i++ {
			s.Update(1.0 / 60)
		}
		return s.Buffers().Position(0).X
	}

	x1 := run(1)
	x2 := run(2)
	if math.Abs(float64(x2/x1)-2) > 1e-3 {
		t.Errorf("expected 2x travel at 2x speed: %f vs %f", x2, x1)
	}
}

func TestBloomChanged_UpdatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSystem(cfg, testOptions())
	s.BloomChanged(2.5)
	if cfg.BloomIntensity != 2.5 {
		t.Errorf("expected bloom 2.5, got %f", cfg.BloomIntensity)
	}
}
