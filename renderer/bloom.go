package renderer

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MankyDanky/particle-system-sub000/config"
)

//go:embed shaders/threshold.fs
var thresholdFS string

//go:embed shaders/blur.fs
var blurFS string

//go:embed shaders/composite.fs
var compositeFS string

// Bloom applies a threshold / separable gaussian blur / additive
// composite post pass over the rendered scene.
type Bloom struct {
	scene rl.RenderTexture2D
	ping  rl.RenderTexture2D
	pong  rl.RenderTexture2D

	threshold rl.Shader
	blur      rl.Shader
	composite rl.Shader

	locThreshold int32
	locDirection int32
	locBloomTex  int32
	locIntensity int32

	width, height int32
	passes        int
	thresholdVal  float32

	// Global multiplier stacked on each system's own bloom intensity.
	Intensity float32
}

// NewBloom creates render targets and post shaders from config.
func NewBloom() *Bloom {
	cfg := config.Cfg()
	w := int32(cfg.Screen.Width)
	h := int32(cfg.Screen.Height)

	b := &Bloom{
		scene:        rl.LoadRenderTexture(w, h),
		ping:         rl.LoadRenderTexture(w, h),
		pong:         rl.LoadRenderTexture(w, h),
		threshold:    rl.LoadShaderFromMemory("", thresholdFS),
		blur:         rl.LoadShaderFromMemory("", blurFS),
		composite:    rl.LoadShaderFromMemory("", compositeFS),
		width:        w,
		height:       h,
		passes:       cfg.Bloom.BlurPasses,
		thresholdVal: float32(cfg.Bloom.Threshold),
		Intensity:    float32(cfg.Bloom.Intensity),
	}

	b.locThreshold = rl.GetShaderLocation(b.threshold, "threshold")
	b.locDirection = rl.GetShaderLocation(b.blur, "direction")
	b.locBloomTex = rl.GetShaderLocation(b.composite, "bloomTexture")
	b.locIntensity = rl.GetShaderLocation(b.composite, "intensity")

	return b
}

// Begin redirects rendering into the scene target.
func (b *Bloom) Begin() {
	rl.BeginTextureMode(b.scene)
	rl.ClearBackground(rl.Black)
}

// End stops scene capture, runs the post chain and draws the composite
// to the backbuffer. systemIntensity scales the bloom contribution, the
// active system's own knob times the global one.
func (b *Bloom) End(systemIntensity float32) {
	rl.EndTextureMode()

	src := rl.Rectangle{Width: float32(b.width), Height: -float32(b.height)}
	origin := rl.Vector2{}

	// Bright-pass into ping
	rl.BeginTextureMode(b.ping)
	rl.SetShaderValue(b.threshold, b.locThreshold, []float32{b.thresholdVal}, rl.ShaderUniformFloat)
	rl.BeginShaderMode(b.threshold)
	rl.DrawTextureRec(b.scene.Texture, src, origin, rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// Separable blur, ping-ponging between targets
	for i := 0; i < b.passes; i++ {
		rl.BeginTextureMode(b.pong)
		rl.SetShaderValue(b.blur, b.locDirection, []float32{1 / float32(b.width), 0}, rl.ShaderUniformVec2)
		rl.BeginShaderMode(b.blur)
		rl.DrawTextureRec(b.ping.Texture, src, origin, rl.White)
		rl.EndShaderMode()
		rl.EndTextureMode()

		rl.BeginTextureMode(b.ping)
		rl.SetShaderValue(b.blur, b.locDirection, []float32{0, 1 / float32(b.height)}, rl.ShaderUniformVec2)
		rl.BeginShaderMode(b.blur)
		rl.DrawTextureRec(b.pong.Texture, src, origin, rl.White)
		rl.EndShaderMode()
		rl.EndTextureMode()
	}

	// Composite scene + blurred brights
	rl.SetShaderValue(b.composite, b.locIntensity, []float32{b.Intensity * systemIntensity}, rl.ShaderUniformFloat)
	rl.BeginShaderMode(b.composite)
	rl.SetShaderValueTexture(b.composite, b.locBloomTex, b.ping.Texture)
	rl.DrawTextureRec(b.scene.Texture, src, origin, rl.White)
	rl.EndShaderMode()
}

// Unload releases all render targets and shaders.
func (b *Bloom) Unload() {
	rl.UnloadRenderTexture(b.scene)
	rl.UnloadRenderTexture(b.ping)
	rl.UnloadRenderTexture(b.pong)
	rl.UnloadShader(b.threshold)
	rl.UnloadShader(b.blur)
	rl.UnloadShader(b.composite)
}
