package particle

import (
	_ "embed"
	"fmt"

	"github.com/MankyDanky/particle-system-sub000/gpu"
)

//go:embed kernel.glsl
var kernelSource string

// maxIntegrationStep caps the per-step position advance so a stalled
// frame cannot teleport particles.
const maxIntegrationStep = 0.033

// kernel binding slots.
const (
	bindParams   = 0
	bindInstance = 1
	bindVelocity = 2
)

// paramFloats is the size of the kernel parameter block in float32
// values. Layout is fixed by the kernel and padded to 16-byte strides.
const paramFloats = 12

// PhysicsParams is the per-step state handed to the integration kernel.
type PhysicsParams struct {
	ParticleSpeed     float32
	Gravity           float32
	Turbulence        float32
	AttractorStrength float32
	Attractor         Vec3
}

// pack lays the params out in the kernel's parameter block order.
func (p PhysicsParams) pack(dt float32) [paramFloats]float32 {
	return [paramFloats]float32{
		dt,
		p.ParticleSpeed,
		p.Gravity,
		p.Turbulence,
		p.AttractorStrength,
		0,
		p.Attractor.X,
		p.Attractor.Y,
		p.Attractor.Z,
		0, 0, 0,
	}
}

// Integrator advances particle state by fixed timesteps. Implementations
// own whatever device state they need and free it in Release.
type Integrator interface {
	// SetParams installs the physics parameters used by subsequent steps.
	SetParams(PhysicsParams)

	// Step advances the first active particles by dt seconds.
	Step(dt float32, active int)

	// Readback returns current positions and velocities for the first
	// active particles, in the flat instance and velocity layouts.
	Readback(active int) (instance, velocity []float32, err error)

	// Release frees integrator-owned resources.
	Release()
}

// IntegratorFactory builds an integrator over a particle buffer set.
type IntegratorFactory func(*Buffers) Integrator

// NewCPUIntegrator returns an integrator that advances the CPU arrays
// directly. It is the reference for the compute kernel's semantics and
// the engine used in headless runs.
func NewCPUIntegrator(b *Buffers) Integrator {
	return &cpuIntegrator{buf: b}
}

type cpuIntegrator struct {
	buf    *Buffers
	params PhysicsParams
}

func (c *cpuIntegrator) SetParams(p PhysicsParams) {
	c.params = p
}

func (c *cpuIntegrator) Step(dt float32, active int) {
	p := c.params
	step := dt
	if step > maxIntegrationStep {
		step = maxIntegrationStep
	}
	for i := 0; i < active; i++ {
		inst := c.buf.Instance[i*InstanceStride:]
		if inst[offAge] >= inst[offLife] {
			continue
		}
		inst[offAge] += dt

		v := c.buf.Velocity[i*VelocityStride:]
		if p.Gravity > 0 {
			v[1] -= p.Gravity * dt
		}
		if p.AttractorStrength > 0 {
			to := p.Attractor.Sub(Vec3{inst[offPosX], inst[offPosY], inst[offPosZ]})
			dist := to.Length()
			if dist > 0.1 {
				falloff := p.AttractorStrength / max32(dist*dist, 0.01)
				pull := to.Normalized().Scale(falloff * dt)
				v[0] += pull.X
				v[1] += pull.Y
				v[2] += pull.Z
			}
		}
		inst[offPosX] += v[0] * p.ParticleSpeed * step
		inst[offPosY] += v[1] * p.ParticleSpeed * step
		inst[offPosZ] += v[2] * p.ParticleSpeed * step
	}
}

func (c *cpuIntegrator) Readback(active int) ([]float32, []float32, error) {
	return c.buf.Instance[:active*InstanceStride], c.buf.Velocity[:active*VelocityStride], nil
}

func (c *cpuIntegrator) Release() {}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Disabled returns an integrator whose steps are no-ops and whose
// readback reports compute as unavailable. Systems keep emitting and
// bookkeeping; visual movement resumes if a working integrator replaces
// it on respawn.
func Disabled() Integrator {
	return disabledIntegrator{}
}

type disabledIntegrator struct{}

func (disabledIntegrator) SetParams(PhysicsParams)     {}
func (disabledIntegrator) Step(dt float32, active int) {}
func (disabledIntegrator) Readback(active int) ([]float32, []float32, error) {
	return nil, nil, gpu.ErrComputeUnavailable
}
func (disabledIntegrator) Release() {}

// ComputeIntegrator dispatches the embedded compute kernel over the GPU
// mirror buffers. When the kernel fails to compile the integrator logs
// once via the returned error path and every Step becomes a no-op, so a
// machine without compute support still runs the sandbox.
type ComputeIntegrator struct {
	buf     *Buffers
	program *gpu.ComputeProgram
	params  *gpu.StorageBuffer
	state   PhysicsParams
	ready   bool
}

// NewComputeIntegrator compiles the particle kernel and allocates its
// parameter block. The buffers must have been created mirrored.
func NewComputeIntegrator(b *Buffers) (*ComputeIntegrator, error) {
	if !b.Mirrored() {
		return nil, fmt.Errorf("particle: compute integrator needs mirrored buffers: %w", gpu.ErrComputeUnavailable)
	}
	prog, err := gpu.NewComputeProgram(kernelSource)
	if err != nil {
		return nil, fmt.Errorf("particle: kernel compile: %w", err)
	}
	return &ComputeIntegrator{
		buf:     b,
		program: prog,
		params:  gpu.NewStorageBuffer(gpu.RoleParameterBlock, paramFloats),
		ready:   true,
	}, nil
}

func (g *ComputeIntegrator) SetParams(p PhysicsParams) {
	g.state = p
}

// Step uploads the parameter block and dispatches one workgroup per 64
// particles. Slots past active are zeroed by the owning system, so the
// kernel's lifetime guard masks them.
func (g *ComputeIntegrator) Step(dt float32, active int) {
	if !g.ready || active <= 0 {
		return
	}
	block := g.state.pack(dt)
	if err := g.params.UploadRange(0, block[:]); err != nil {
		return
	}
	g.params.Bind(bindParams)
	g.buf.InstanceBuffer().Bind(bindInstance)
	g.buf.VelocityBuffer().Bind(bindVelocity)

	groups := uint32((active + 63) / 64)
	g.program.Dispatch(groups)
}

// Readback synchronously copies GPU particle state for the first active
// slots. Callers invoke it on a cadence, never per frame.
func (g *ComputeIntegrator) Readback(active int) ([]float32, []float32, error) {
	if !g.ready {
		return nil, nil, gpu.ErrComputeUnavailable
	}
	inst, vel := g.buf.readbackScratch(active)
	if err := g.buf.InstanceBuffer().Read(inst); err != nil {
		return nil, nil, fmt.Errorf("particle: instance readback: %w", err)
	}
	if err := g.buf.VelocityBuffer().Read(vel); err != nil {
		return nil, nil, fmt.Errorf("particle: velocity readback: %w", err)
	}
	return inst, vel, nil
}

func (g *ComputeIntegrator) Release() {
	if g.program != nil {
		g.program.Release()
	}
	g.params.Release()
	g.ready = false
}
