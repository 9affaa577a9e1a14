package particle

import (
	"log/slog"

	"github.com/MankyDanky/particle-system-sub000/gpu"
)

// Flat particle record layout, fixed by the compute kernel ABI.
const (
	// InstanceStride is the float32 count per particle in the instance
	// array: position xyz, color rgb, age, lifetime.
	InstanceStride = 8

	// VelocityStride is the float32 count per particle in the velocity
	// array: velocity xyz plus one pad float for std430 vec alignment.
	VelocityStride = 4
)

// Instance array field offsets within a slot.
const (
	offPosX = 0
	offPosY = 1
	offPosZ = 2
	offColR = 3
	offColG = 4
	offColB = 5
	offAge  = 6
	offLife = 7
)

// Buffers owns the CPU-resident particle state and, when mirrored, the
// GPU storage buffers the compute kernel reads and writes. Slot i is live
// iff i < the owning system's active count; slots past it are garbage and
// are kept zeroed so stale kernel lanes see age >= lifetime and no-op.
type Buffers struct {
	// Instance holds InstanceStride float32 per slot.
	Instance []float32
	// Velocity holds VelocityStride float32 per slot.
	Velocity []float32

	capacity int

	gpuInstance *gpu.StorageBuffer
	gpuVelocity *gpu.StorageBuffer

	// readback scratch, reused across cadence cycles
	scratchInstance []float32
	scratchVelocity []float32
}

// NewBuffers allocates CPU arrays for capacity slots. When mirrored is
// true, matching zero-initialized GPU storage buffers are created; a
// headless simulation passes false and runs entirely on the CPU arrays.
func NewBuffers(capacity int, mirrored bool) *Buffers {
	b := &Buffers{
		Instance: make([]float32, capacity*InstanceStride),
		Velocity: make([]float32, capacity*VelocityStride),
		capacity: capacity,
	}
	if mirrored {
		b.gpuInstance = gpu.NewStorageBuffer(gpu.RoleComputeStorage, capacity*InstanceStride)
		b.gpuVelocity = gpu.NewStorageBuffer(gpu.RoleComputeStorage, capacity*VelocityStride)
		// Device buffer contents are undefined after allocation; push the
		// zeroed arrays so untouched slots read as dead on the GPU.
		b.uploadRange(0, capacity)
	}
	return b
}

// Capacity returns the slot capacity.
func (b *Buffers) Capacity() int {
	return b.capacity
}

// Mirrored reports whether GPU mirror buffers exist.
func (b *Buffers) Mirrored() bool {
	return b.gpuInstance != nil
}

// InstanceBuffer returns the GPU instance buffer, or nil when headless.
func (b *Buffers) InstanceBuffer() *gpu.StorageBuffer {
	return b.gpuInstance
}

// VelocityBuffer returns the GPU velocity buffer, or nil when headless.
func (b *Buffers) VelocityBuffer() *gpu.StorageBuffer {
	return b.gpuVelocity
}

// WriteSlot encodes a full particle record into slot i on the CPU arrays.
func (b *Buffers) WriteSlot(i int, pos Vec3, color [3]float32, age, lifetime float32, vel Vec3) {
	inst := b.Instance[i*InstanceStride:]
	inst[offPosX] = pos.X
	inst[offPosY] = pos.Y
	inst[offPosZ] = pos.Z
	inst[offColR] = color[0]
	inst[offColG] = color[1]
	inst[offColB] = color[2]
	inst[offAge] = age
	inst[offLife] = lifetime

	v := b.Velocity[i*VelocityStride:]
	v[0] = vel.X
	v[1] = vel.Y
	v[2] = vel.Z
	v[3] = 0
}

// CopySlot copies the full record from slot src into slot dst.
func (b *Buffers) CopySlot(dst, src int) {
	copy(b.Instance[dst*InstanceStride:(dst+1)*InstanceStride], b.Instance[src*InstanceStride:(src+1)*InstanceStride])
	copy(b.Velocity[dst*VelocityStride:(dst+1)*VelocityStride], b.Velocity[src*VelocityStride:(src+1)*VelocityStride])
}

// ClearSlot zeroes slot i so a stale GPU lane treats it as dead.
func (b *Buffers) ClearSlot(i int) {
	inst := b.Instance[i*InstanceStride : (i+1)*InstanceStride]
	for j := range inst {
		inst[j] = 0
	}
	v := b.Velocity[i*VelocityStride : (i+1)*VelocityStride]
	for j := range v {
		v[j] = 0
	}
}

// Age returns the age of slot i.
func (b *Buffers) Age(i int) float32 {
	return b.Instance[i*InstanceStride+offAge]
}

// Lifetime returns the lifetime of slot i.
func (b *Buffers) Lifetime(i int) float32 {
	return b.Instance[i*InstanceStride+offLife]
}

// Dead reports whether slot i has aged out.
func (b *Buffers) Dead(i int) bool {
	return b.Age(i) >= b.Lifetime(i)
}

// Position returns the position of slot i.
func (b *Buffers) Position(i int) Vec3 {
	inst := b.Instance[i*InstanceStride:]
	return Vec3{inst[offPosX], inst[offPosY], inst[offPosZ]}
}

// VelocityAt returns the velocity of slot i.
func (b *Buffers) VelocityAt(i int) Vec3 {
	v := b.Velocity[i*VelocityStride:]
	return Vec3{v[0], v[1], v[2]}
}

// UploadRange mirrors slots [first, first+count) to the GPU buffers.
// Only the touched byte ranges are transferred; emission of a handful of
// particles never rewrites the whole buffer.
func (b *Buffers) UploadRange(first, count int) {
	if !b.Mirrored() || count <= 0 {
		return
	}
	b.uploadRange(first, count)
}

func (b *Buffers) uploadRange(first, count int) {
	if err := b.gpuInstance.UploadRange(first*InstanceStride, b.Instance[first*InstanceStride:(first+count)*InstanceStride]); err != nil {
		slog.Warn("instance upload failed", "first", first, "count", count, "error", err)
	}
	if err := b.gpuVelocity.UploadRange(first*VelocityStride, b.Velocity[first*VelocityStride:(first+count)*VelocityStride]); err != nil {
		slog.Warn("velocity upload failed", "first", first, "count", count, "error", err)
	}
}

// ApplyReadback copies GPU-truth position/age and velocity data for the
// first active slots back into the CPU arrays. The slices may alias the
// CPU arrays themselves (CPU integrator), which copy handles safely.
func (b *Buffers) ApplyReadback(instance, velocity []float32, active int) {
	n := active * InstanceStride
	if n > len(instance) {
		n = len(instance)
	}
	copy(b.Instance[:n], instance[:n])

	n = active * VelocityStride
	if n > len(velocity) {
		n = len(velocity)
	}
	copy(b.Velocity[:n], velocity[:n])
}

// readbackScratch returns reusable scratch slices sized for active slots.
func (b *Buffers) readbackScratch(active int) (inst, vel []float32) {
	ni := active * InstanceStride
	nv := active * VelocityStride
	if cap(b.scratchInstance) < ni {
		b.scratchInstance = make([]float32, ni)
	}
	if cap(b.scratchVelocity) < nv {
		b.scratchVelocity = make([]float32, nv)
	}
	return b.scratchInstance[:ni], b.scratchVelocity[:nv]
}

// Release frees the GPU mirror buffers. The CPU arrays stay valid.
func (b *Buffers) Release() {
	b.gpuInstance.Release()
	b.gpuVelocity.Release()
}
