package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Buffer errors.
var (
	// ErrBufferReleased is returned when operating on a released buffer.
	ErrBufferReleased = errors.New("gpu: buffer has been released")

	// ErrRangeOutOfBounds is returned when an upload or read range exceeds
	// the buffer size.
	ErrRangeOutOfBounds = errors.New("gpu: range exceeds buffer size")
)

// StorageBuffer is a GPU shader storage buffer (SSBO) holding float32 data.
// Each buffer is exclusively owned by one particle system and must be
// released with Release when the owner is disposed.
type StorageBuffer struct {
	id       uint32
	role     BufferRole
	elems    int // capacity in float32 elements
	released bool
}

// NewStorageBuffer allocates a storage buffer sized for elems float32
// values, zero-initialized on the device.
func NewStorageBuffer(role BufferRole, elems int) *StorageBuffer {
	size := uint32(elems * 4)
	id := rl.LoadShaderBuffer(size, nil, role.usageHint())
	return &StorageBuffer{id: id, role: role, elems: elems}
}

// ID returns the backend buffer id.
func (b *StorageBuffer) ID() uint32 {
	return b.id
}

// Len returns the buffer capacity in float32 elements.
func (b *StorageBuffer) Len() int {
	return b.elems
}

// UploadRange copies data into the buffer starting at the given float32
// element offset. Only the touched range is transferred.
func (b *StorageBuffer) UploadRange(offset int, data []float32) error {
	if b.released {
		return ErrBufferReleased
	}
	if len(data) == 0 {
		return nil
	}
	if offset < 0 || offset+len(data) > b.elems {
		return fmt.Errorf("%w: offset %d len %d cap %d", ErrRangeOutOfBounds, offset, len(data), b.elems)
	}
	rl.UpdateShaderBuffer(b.id, unsafe.Pointer(&data[0]), uint32(len(data)*4), uint32(offset*4))
	return nil
}

// Read copies the first len(dest) float32 elements back to host memory.
// This is a synchronizing call; callers run it on a cadence, never per frame.
func (b *StorageBuffer) Read(dest []float32) error {
	if b.released {
		return ErrBufferReleased
	}
	if len(dest) == 0 {
		return nil
	}
	if len(dest) > b.elems {
		return fmt.Errorf("%w: want %d cap %d", ErrRangeOutOfBounds, len(dest), b.elems)
	}
	rl.ReadShaderBuffer(b.id, unsafe.Pointer(&dest[0]), uint32(len(dest)*4), 0)
	return nil
}

// Bind attaches the buffer to a shader binding slot for the next dispatch.
func (b *StorageBuffer) Bind(slot uint32) {
	if b.released {
		return
	}
	rl.BindShaderBuffer(b.id, slot)
}

// Release frees the device buffer. Safe to call more than once.
func (b *StorageBuffer) Release() {
	if b == nil || b.released {
		return
	}
	rl.UnloadShaderBuffer(b.id)
	b.released = true
}
