// Package renderer draws particle systems as camera-facing billboards
// and applies the bloom post pass.
package renderer

import (
	_ "embed"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MankyDanky/particle-system-sub000/particle"
)

//go:embed shaders/billboard.vs
var billboardVS string

//go:embed shaders/billboard.fs
var billboardFS string

// instanceBinding is the SSBO slot the billboard shader reads particle
// records from, shared with the compute kernel.
const instanceBinding = 1

// ParticleRenderer draws every system's live particles in one instanced
// draw call per system, pulling positions straight from the GPU-resident
// instance buffer.
type ParticleRenderer struct {
	shader rl.Shader
	mesh   rl.Mesh
	mat    rl.Material

	// Instanced draws still want a transform slice; the shader ignores
	// it and positions quads from the instance buffer.
	transforms []rl.Matrix

	locCameraRight  int32
	locCameraUp     int32
	locBaseSize     int32
	locAspectRatio  int32
	locRandomSize   int32
	locMinSize      int32
	locMaxSize      int32
	locRotationMode int32
	locMinRotation  int32
	locMaxRotation  int32
	locFade         int32
	locOpacity      int32
	locColorTransit int32
	locEndColor     int32
}

// NewParticleRenderer loads the billboard shader and the shared quad.
func NewParticleRenderer(maxParticles int) *ParticleRenderer {
	r := &ParticleRenderer{
		transforms: make([]rl.Matrix, maxParticles),
	}
	identity := rl.MatrixIdentity()
	for i := range r.transforms {
		r.transforms[i] = identity
	}

	r.shader = rl.LoadShaderFromMemory(billboardVS, billboardFS)
	r.mesh = rl.GenMeshPlane(1, 1, 1, 1)
	r.mat = rl.LoadMaterialDefault()
	r.mat.Shader = r.shader

	r.locCameraRight = rl.GetShaderLocation(r.shader, "cameraRight")
	r.locCameraUp = rl.GetShaderLocation(r.shader, "cameraUp")
	r.locBaseSize = rl.GetShaderLocation(r.shader, "baseSize")
	r.locAspectRatio = rl.GetShaderLocation(r.shader, "aspectRatio")
	r.locRandomSize = rl.GetShaderLocation(r.shader, "randomSize")
	r.locMinSize = rl.GetShaderLocation(r.shader, "minSize")
	r.locMaxSize = rl.GetShaderLocation(r.shader, "maxSize")
	r.locRotationMode = rl.GetShaderLocation(r.shader, "rotationMode")
	r.locMinRotation = rl.GetShaderLocation(r.shader, "minRotation")
	r.locMaxRotation = rl.GetShaderLocation(r.shader, "maxRotation")
	r.locFade = rl.GetShaderLocation(r.shader, "fade")
	r.locOpacity = rl.GetShaderLocation(r.shader, "opacity")
	r.locColorTransit = rl.GetShaderLocation(r.shader, "colorTransition")
	r.locEndColor = rl.GetShaderLocation(r.shader, "endColor")

	return r
}

// Draw renders one system's live particles. Must be called inside
// BeginMode3D with the same camera.
func (r *ParticleRenderer) Draw(s *particle.System, cam rl.Camera3D, tex rl.Texture2D) {
	active := s.Active()
	if active == 0 {
		return
	}
	buf := s.Buffers().InstanceBuffer()
	if buf == nil {
		return
	}

	right, up := cameraAxes(cam)
	rl.SetShaderValue(r.shader, r.locCameraRight, []float32{right.X, right.Y, right.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.shader, r.locCameraUp, []float32{up.X, up.Y, up.Z}, rl.ShaderUniformVec3)

	cfg := s.Config()
	rl.SetShaderValue(r.shader, r.locBaseSize, []float32{cfg.Size}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.locAspectRatio, []float32{cfg.AspectRatio}, rl.ShaderUniformFloat)
	setShaderBool(r.shader, r.locRandomSize, cfg.RandomSize)
	rl.SetShaderValue(r.shader, r.locMinSize, []float32{cfg.MinSize}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.locMaxSize, []float32{cfg.MaxSize}, rl.ShaderUniformFloat)
	setShaderFloat(r.shader, r.locRotationMode, rotationModeIndex(cfg.RotationMode))
	rl.SetShaderValue(r.shader, r.locMinRotation, []float32{degToRad(cfg.MinRotation)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.locMaxRotation, []float32{degToRad(cfg.MaxRotation)}, rl.ShaderUniformFloat)
	setShaderBool(r.shader, r.locFade, cfg.Fade)
	rl.SetShaderValue(r.shader, r.locOpacity, []float32{cfg.Opacity}, rl.ShaderUniformFloat)
	setShaderBool(r.shader, r.locColorTransit, cfg.ColorTransition)
	rl.SetShaderValue(r.shader, r.locEndColor, cfg.EndColor[:], rl.ShaderUniformVec3)

	rl.SetMaterialTexture(&r.mat, rl.MapDiffuse, tex)

	buf.Bind(instanceBinding)
	rl.DrawMeshInstanced(r.mesh, r.mat, r.transforms[:active], active)
}

// Unload releases the shader and quad mesh.
func (r *ParticleRenderer) Unload() {
	rl.UnloadMesh(&r.mesh)
	rl.UnloadShader(r.shader)
}

func setShaderBool(sh rl.Shader, loc int32, v bool) {
	val := float32(0)
	if v {
		val = 1
	}
	rl.SetShaderValue(sh, loc, []float32{val}, rl.ShaderUniformFloat)
}

func setShaderFloat(sh rl.Shader, loc int32, v float32) {
	rl.SetShaderValue(sh, loc, []float32{v}, rl.ShaderUniformFloat)
}

func rotationModeIndex(m particle.RotationMode) float32 {
	switch m {
	case particle.RotationFixed:
		return 1
	case particle.RotationRandom:
		return 2
	default:
		return 0
	}
}

func degToRad(deg float32) float32 {
	return deg * float32(math.Pi) / 180
}

// cameraAxes derives the camera's screen-right and screen-up unit
// vectors for billboarding.
func cameraAxes(cam rl.Camera3D) (right, up rl.Vector3) {
	forward := rl.Vector3Normalize(rl.Vector3Subtract(cam.Target, cam.Position))
	right = rl.Vector3Normalize(rl.Vector3CrossProduct(forward, cam.Up))
	up = rl.Vector3CrossProduct(right, forward)
	return right, up
}
