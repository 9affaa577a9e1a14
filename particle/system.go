package particle

import (
	"log/slog"
	"math"
	"math/rand"
)

// Options fixes the simulation cadence for a system. Values come from
// config.Cfg().Simulation plus Derived.
type Options struct {
	// MaxParticles caps live particles per system.
	MaxParticles int

	// BurstBatchSize bounds how many particles a burst emits per frame.
	BurstBatchSize int

	// FixedStep is the physics timestep in seconds.
	FixedStep float32

	// MaxFrameGap forces a physics step and an emission when a frame
	// stalls longer than this many seconds.
	MaxFrameGap float32

	// ReadbackInterval is the frame cadence for GPU readback and
	// compaction.
	ReadbackInterval int

	// Mirrored creates GPU mirror buffers. Headless runs pass false.
	Mirrored bool
}

// Stats are cumulative per-system simulation counters. The telemetry
// collector samples them each frame and works with deltas.
type Stats struct {
	Emitted   int
	Respawned int
	Compacted int
	Steps     int
	Readbacks int
}

// System owns one emitter's particles: buffers, integrator, emission
// bookkeeping and the compaction cadence. All methods run on the main
// thread.
type System struct {
	id   int
	cfg  *EmissionConfig
	opts Options

	buffers    *Buffers
	integrator Integrator
	emitter    *Emitter
	rng        *rand.Rand

	active   int
	emitting bool

	// continuous emission
	targetCount int
	elapsed     float32
	sinceEmit   float32

	// physics cadence
	accumulator float32
	frame       int

	speed float32
	stats Stats
}

// NewSystem builds a system over its own buffers. The factory picks the
// integrator; callers pass NewCPUIntegrator for headless runs.
func NewSystem(id int, cfg *EmissionConfig, opts Options, factory IntegratorFactory) *System {
	cfg.Normalize()
	buffers := NewBuffers(opts.MaxParticles, opts.Mirrored)
	s := &System{
		id:         id,
		cfg:        cfg,
		opts:       opts,
		buffers:    buffers,
		integrator: factory(buffers),
		emitter:    NewEmitter(cfg),
		rng:        rand.New(rand.NewSource(int64(id)*7919 + 1)),
		speed:      1,
	}
	s.pushPhysics()
	return s
}

// ID returns the system's stable identifier.
func (s *System) ID() int { return s.id }

// Config returns the live emission config. UI edits mutate it through
// the Set methods and then notify the system.
func (s *System) Config() *EmissionConfig { return s.cfg }

// Buffers exposes the particle state for rendering.
func (s *System) Buffers() *Buffers { return s.buffers }

// Active returns the live particle count.
func (s *System) Active() int { return s.active }

// Emitting reports whether the system is still producing particles.
func (s *System) Emitting() bool { return s.emitting }

// Stats returns the cumulative simulation counters.
func (s *System) Stats() Stats { return s.stats }

// SetSpeed installs the global simulation speed multiplier.
func (s *System) SetSpeed(speed float32) {
	s.speed = speed
	s.pushPhysics()
}

// SetSeed replaces the emission RNG, for reproducible headless runs.
func (s *System) SetSeed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Spawn restarts the system from an empty buffer. Any previous particles
// vanish; calling it twice in a row is the same as calling it once.
func (s *System) Spawn() {
	for i := 0; i < s.active; i++ {
		s.buffers.ClearSlot(i)
	}
	if s.active > 0 {
		s.buffers.UploadRange(0, s.active)
	}
	s.active = 0
	s.emitting = true
	s.elapsed = 0
	s.sinceEmit = 0
	s.accumulator = 0
	s.frame = 0

	if s.cfg.BurstMode {
		quota := s.cfg.ParticleCount
		if quota > s.opts.MaxParticles {
			quota = s.opts.MaxParticles
		}
		s.targetCount = quota
		// The whole burst lands this frame; batches only bound how much
		// any single GPU upload transfers.
		for quota > 0 {
			n := quota
			if n > s.opts.BurstBatchSize {
				n = s.opts.BurstBatchSize
			}
			if s.emit(n) < n {
				break
			}
			quota -= n
		}
		s.emitting = false
	} else {
		window := s.cfg.EmissionDuration
		if s.cfg.Lifetime > window {
			window = s.cfg.Lifetime
		}
		s.targetCount = int(math.Ceil(float64(s.cfg.EmissionRate * window)))
		if s.targetCount > s.opts.MaxParticles {
			s.targetCount = s.opts.MaxParticles
		}
	}
}

// Update advances the system by one rendered frame.
func (s *System) Update(frameTime float32) {
	if s.emitting {
		s.emitDue(frameTime)
	}

	s.accumulator += frameTime
	stepped := false
	for s.accumulator >= s.opts.FixedStep {
		s.integrator.Step(s.opts.FixedStep, s.active)
		s.accumulator -= s.opts.FixedStep
		s.stats.Steps++
		stepped = true
	}
	// A long stall still advances the simulation once so particles never
	// freeze mid-air.
	if !stepped && frameTime > s.opts.MaxFrameGap {
		s.integrator.Step(s.opts.FixedStep, s.active)
		s.accumulator = 0
		s.stats.Steps++
	}

	s.frame++
	if s.opts.ReadbackInterval > 0 && s.frame%s.opts.ReadbackInterval == 0 {
		s.reconcile()
	}
}

// emitDue produces the continuous-mode particles owed for this frame.
// Burst systems finish emitting inside Spawn and never reach here.
func (s *System) emitDue(frameTime float32) {
	s.elapsed += frameTime
	s.sinceEmit += frameTime

	due := s.cfg.EmissionRate * frameTime
	n := int(due)
	if frac := due - float32(n); frac > 0 && s.rng.Float32() < frac {
		n++
	}
	// Very low rates would otherwise starve between Bernoulli hits.
	if n == 0 && s.sinceEmit > s.opts.MaxFrameGap {
		n = 1
	}
	if n > 0 {
		if s.emit(n) > 0 {
			s.sinceEmit = 0
		}
	}
	if s.elapsed >= s.cfg.EmissionDuration {
		s.emitting = false
	}
}

// emit spawns up to n particles into the tail of the live range and
// mirrors just the touched slots. Returns the count actually spawned.
func (s *System) emit(n int) int {
	room := s.targetCount - s.active
	if n > room {
		n = room
	}
	if n <= 0 {
		return 0
	}
	first := s.active
	for i := 0; i < n; i++ {
		s.emitter.SpawnInto(s.buffers, first+i, s.rng)
	}
	s.active += n
	s.buffers.UploadRange(first, n)
	s.stats.Emitted += n
	return n
}

// reconcile pulls GPU state back to the CPU, then recycles dead slots.
// While emission is ongoing dead particles respawn in place so the
// population holds near its target; afterwards they are swap-compacted
// away until the system drains.
func (s *System) reconcile() {
	if s.active == 0 {
		return
	}
	inst, vel, err := s.integrator.Readback(s.active)
	if err != nil {
		slog.Warn("particle readback failed, skipping compaction",
			"system", s.id, "active", s.active, "error", err)
		return
	}
	s.buffers.ApplyReadback(inst, vel, s.active)
	s.stats.Readbacks++

	if s.emitting && !s.cfg.BurstMode {
		s.respawnDead()
	} else {
		s.compact()
	}
}

func (s *System) respawnDead() {
	changed := 0
	for i := 0; i < s.active; i++ {
		if s.buffers.Dead(i) {
			s.emitter.SpawnInto(s.buffers, i, s.rng)
			changed++
		}
	}
	if changed > 0 {
		s.buffers.UploadRange(0, s.active)
		s.stats.Respawned += changed
	}
}

func (s *System) compact() {
	old := s.active
	i := 0
	for i < s.active {
		if !s.buffers.Dead(i) {
			i++
			continue
		}
		last := s.active - 1
		if i != last {
			s.buffers.CopySlot(i, last)
		}
		s.buffers.ClearSlot(last)
		s.active--
	}
	if s.active != old {
		// Re-upload the compacted prefix plus the cleared tail so stale
		// GPU lanes read dead records.
		s.buffers.UploadRange(0, old)
		s.stats.Compacted += old - s.active
	}
}

// pushPhysics hands the config's force parameters to the integrator.
func (s *System) pushPhysics() {
	s.integrator.SetParams(PhysicsParams{
		ParticleSpeed:     s.speed,
		Gravity:           s.cfg.Gravity,
		Turbulence:        s.cfg.Turbulence,
		AttractorStrength: s.cfg.AttractorStrength,
		Attractor:         Vec3{s.cfg.AttractorX, s.cfg.AttractorY, s.cfg.AttractorZ},
	})
}

// Dispose releases the integrator and GPU buffers. The system must not
// be used afterwards.
func (s *System) Dispose() {
	s.integrator.Release()
	s.buffers.Release()
}

// Respawned implements ChangeObserver. Shape, emission and lifetime
// edits restart the system.
func (s *System) Respawned() {
	s.cfg.Normalize()
	s.emitter = NewEmitter(s.cfg)
	s.Spawn()
}

// AppearanceChanged implements ChangeObserver. Colors of live particles
// are rewritten in place; positions and ages stay put.
func (s *System) AppearanceChanged() {
	if s.cfg.ColorTransition {
		// Transition colors are derived per frame by the renderer from
		// age and lifetime, nothing to rewrite.
		return
	}
	for i := 0; i < s.active; i++ {
		inst := s.buffers.Instance[i*InstanceStride:]
		inst[offColR] = s.cfg.Color[0]
		inst[offColG] = s.cfg.Color[1]
		inst[offColB] = s.cfg.Color[2]
	}
	s.buffers.UploadRange(0, s.active)
}

// PhysicsChanged implements ChangeObserver.
func (s *System) PhysicsChanged() {
	s.pushPhysics()
}

// SpeedChanged implements ChangeObserver.
func (s *System) SpeedChanged() {
	s.pushPhysics()
}

// BloomChanged implements ChangeObserver.
func (s *System) BloomChanged(intensity float32) {
	s.cfg.BloomIntensity = intensity
}
