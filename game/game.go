// Package game wires the particle simulation, renderer, camera, UI and
// telemetry into the interactive sandbox loop.
package game

import (
	"errors"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MankyDanky/particle-system-sub000/camera"
	"github.com/MankyDanky/particle-system-sub000/config"
	"github.com/MankyDanky/particle-system-sub000/particle"
	"github.com/MankyDanky/particle-system-sub000/renderer"
	"github.com/MankyDanky/particle-system-sub000/scene"
	"github.com/MankyDanky/particle-system-sub000/telemetry"
	"github.com/MankyDanky/particle-system-sub000/ui"
)

// Options configures a Game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	ScenePath      string
}

// Game owns the full sandbox state for one run.
type Game struct {
	opts Options

	manager *particle.Manager
	cam     *camera.Camera

	particles *renderer.ParticleRenderer
	bloom     *renderer.Bloom
	textures  *renderer.TextureCache
	panel     *ui.Panel

	collector *telemetry.Collector
	output    *telemetry.OutputManager

	frame int
}

// NewGameWithOptions builds the scene, renderer and telemetry stack.
// In headless mode no raylib resources are touched and physics runs on
// the CPU integrator.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	simOpts := particle.Options{
		MaxParticles:     cfg.Simulation.MaxParticles,
		BurstBatchSize:   cfg.Simulation.BurstBatchSize,
		FixedStep:        cfg.Derived.FixedStep,
		MaxFrameGap:      cfg.Derived.MaxFrameGap,
		ReadbackInterval: cfg.Simulation.ReadbackInterval,
		Mirrored:         !opts.Headless,
	}

	factory := particle.NewCPUIntegrator
	if !opts.Headless {
		factory = gpuFactory
	}

	g := &Game{
		opts:      opts,
		manager:   particle.NewManager(simOpts, factory),
		collector: telemetry.NewCollector(opts.StatsWindowSec),
	}
	g.manager.Active().SetSeed(opts.Seed)
	g.manager.Active().Spawn()

	if opts.ScenePath != "" {
		if doc, err := scene.Load(opts.ScenePath); err == nil {
			if err := scene.Apply(doc, g.manager); err != nil {
				slog.Warn("scene apply failed, using default", "path", opts.ScenePath, "error", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("scene load failed, using default", "path", opts.ScenePath, "error", err)
		}
	}

	out, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("output dir setup failed", "dir", opts.OutputDir, "error", err)
	} else {
		g.output = out
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Warn("config snapshot failed", "error", err)
		}
	}

	if !opts.Headless {
		g.cam = camera.New(float32(cfg.Camera.Distance), float32(cfg.Camera.MinDistance), float32(cfg.Camera.MaxDistance))
		g.particles = renderer.NewParticleRenderer(cfg.Simulation.MaxParticles)
		g.bloom = renderer.NewBloom()
		g.textures = renderer.NewTextureCache()
		g.panel = ui.NewPanel(cfg.Derived.ScreenW32-panelWidth, panelWidth)
	}

	return g
}

// gpuFactory builds a compute integrator, degrading to a frozen no-op
// when the kernel cannot compile. Emission and bookkeeping continue.
func gpuFactory(b *particle.Buffers) particle.Integrator {
	ig, err := particle.NewComputeIntegrator(b)
	if err != nil {
		slog.Warn("compute integrator unavailable, particle motion disabled", "error", err)
		return particle.Disabled()
	}
	return ig
}

const panelWidth = float32(320)

// Update advances one interactive frame: input, simulation, telemetry.
func (g *Game) Update() {
	ft := rl.GetFrameTime()

	g.textures.Process()
	g.handleInput(ft)

	g.manager.UpdateAll(ft)
	g.requestTextures()

	g.recordFrame(float64(ft))
}

// UpdateHeadless advances one fixed step without any rendering.
func (g *Game) UpdateHeadless() {
	step := config.Cfg().Derived.FixedStep
	g.manager.UpdateAll(step)
	g.recordFrame(float64(step))
}

func (g *Game) recordFrame(ft float64) {
	g.frame++
	g.collector.RecordFrame(ft)
	if g.collector.ShouldFlush() {
		stats := g.collector.Flush(g.manager)
		if g.opts.LogStats {
			stats.LogStats()
		}
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
}

// requestTextures keeps the texture cache in sync with each system's
// texture settings. Loads are async; the default texture covers the gap.
func (g *Game) requestTextures() {
	live := make(map[int]bool, len(g.manager.Systems()))
	for _, s := range g.manager.Systems() {
		live[s.ID()] = true
		cfg := s.Config()
		if cfg.Textured && cfg.TexturePath != "" {
			g.textures.Request(s.ID(), cfg.TexturePath)
		} else {
			g.textures.Release(s.ID())
		}
	}
	g.textures.Prune(live)
}

// Draw renders the scene through the bloom chain, then the UI on top.
func (g *Game) Draw() {
	cam3d := g.camera3D()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.bloom.Begin()
	rl.BeginMode3D(cam3d)
	rl.DrawGrid(20, 1)
	for _, s := range g.manager.Systems() {
		g.particles.Draw(s, cam3d, g.textureFor(s))
	}
	rl.EndMode3D()
	g.bloom.End(g.manager.Active().Config().BloomIntensity)

	actions := g.panel.Draw(g.manager)
	g.applyActions(actions)

	rl.DrawFPS(10, 10)
	rl.EndDrawing()
}

func (g *Game) textureFor(s *particle.System) rl.Texture2D {
	if s.Config().Textured {
		return g.textures.For(s.ID())
	}
	return g.textures.Default()
}

func (g *Game) camera3D() rl.Camera3D {
	x, y, z := g.cam.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: x, Y: y, Z: z},
		Target:     rl.Vector3{X: g.cam.TargetX, Y: g.cam.TargetY, Z: g.cam.TargetZ},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       float32(config.Cfg().Camera.FovY),
		Projection: rl.CameraPerspective,
	}
}

// applyActions performs the scene mutations the panel requested.
func (g *Game) applyActions(a ui.Actions) {
	m := g.manager
	switch {
	case a.NewSystem:
		m.Create(particle.DefaultConfig())
	case a.Duplicate:
		if _, err := m.Duplicate(m.ActiveIndex()); err != nil {
			slog.Warn("duplicate failed", "error", err)
		}
	case a.Remove:
		id := m.Active().ID()
		if err := m.Remove(m.ActiveIndex()); err != nil {
			slog.Warn("remove refused", "error", err)
		} else {
			g.textures.Release(id)
		}
	case a.SelectDelta != 0:
		m.SetActive(m.ActiveIndex() + a.SelectDelta)
	case a.SaveScene:
		g.saveScene()
	case a.LoadScene:
		g.loadScene()
	}
}

func (g *Game) saveScene() {
	path := g.scenePath()
	if err := scene.Save(path, scene.Capture(g.manager)); err != nil {
		slog.Warn("scene save failed", "path", path, "error", err)
	} else {
		slog.Info("scene saved", "path", path, "systems", len(g.manager.Systems()))
	}
}

func (g *Game) loadScene() {
	path := g.scenePath()
	doc, err := scene.Load(path)
	if err == nil {
		err = scene.Apply(doc, g.manager)
	}
	if err != nil {
		slog.Warn("scene load failed", "path", path, "error", err)
	}
}

func (g *Game) scenePath() string {
	if g.opts.ScenePath != "" {
		return g.opts.ScenePath
	}
	return "scene.json"
}

// Frame returns the number of frames simulated so far.
func (g *Game) Frame() int {
	return g.frame
}

// Manager exposes the particle systems, mainly for headless inspection.
func (g *Game) Manager() *particle.Manager {
	return g.manager
}

// Unload flushes telemetry and releases every GPU resource.
func (g *Game) Unload() {
	if g.collector != nil {
		stats := g.collector.Flush(g.manager)
		if g.opts.LogStats {
			stats.LogStats()
		}
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Warn("telemetry write failed", "error", err)
		}
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("output close failed", "error", err)
	}

	g.manager.Dispose()
	if g.particles != nil {
		g.particles.Unload()
	}
	if g.bloom != nil {
		g.bloom.Unload()
	}
	if g.textures != nil {
		g.textures.Unload()
	}
}
