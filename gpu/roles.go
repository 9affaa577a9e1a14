// Package gpu wraps raylib's low-level compute API behind explicit buffer
// roles and small resource types with deterministic release.
package gpu

// BufferRole describes what a GPU buffer is used for. Roles are resolved
// to backend usage hints at the boundary instead of scattering raw GL
// bitmask constants through construction code.
type BufferRole int

const (
	// RoleComputeStorage is a storage buffer read and written by compute
	// kernels every dispatch (particle instance and velocity buffers).
	RoleComputeStorage BufferRole = iota

	// RoleParameterBlock is a small storage block rewritten from the host
	// before each dispatch (the physics parameter block).
	RoleParameterBlock

	// RoleReadbackStaging is a buffer whose contents the host copies back
	// on a cadence for compaction.
	RoleReadbackStaging
)

// GL buffer usage hints (glBufferData usage enum values). Kept here, at
// the role boundary, as the only place raw GL constants appear.
const (
	glStreamDraw  = 0x88E0
	glStaticDraw  = 0x88E4
	glDynamicDraw = 0x88E8
	glDynamicCopy = 0x88EA
	glDynamicRead = 0x88E9
)

// usageHint resolves the role to a GL usage hint.
func (r BufferRole) usageHint() int32 {
	switch r {
	case RoleParameterBlock:
		return glStreamDraw
	case RoleReadbackStaging:
		return glDynamicRead
	default:
		return glDynamicCopy
	}
}

// String returns the role name for logging.
func (r BufferRole) String() string {
	switch r {
	case RoleComputeStorage:
		return "compute-storage"
	case RoleParameterBlock:
		return "parameter-block"
	case RoleReadbackStaging:
		return "readback-staging"
	default:
		return "unknown"
	}
}
