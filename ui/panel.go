// Package ui renders the immediate-mode editor panel for the active
// particle system.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/MankyDanky/particle-system-sub000/particle"
)

// Actions collects the panel interactions a frame produced that the
// caller has to carry out (scene mutations the panel cannot do itself).
type Actions struct {
	NewSystem    bool
	Duplicate    bool
	Remove       bool
	SelectDelta  int
	SaveScene    bool
	LoadScene    bool
	TextureDirty bool
}

// Panel is the right-side control panel. It edits the active system's
// config through the bound-pairing setters and notifies the system of
// what changed, so the simulation applies the cheapest matching update.
type Panel struct {
	x     float32
	width float32

	// Global knobs owned by the panel between frames.
	Speed float32

	shapes []particle.Shape
	modes  []particle.RotationMode
}

// NewPanel creates a panel anchored at x with the given width.
func NewPanel(x, width float32) *Panel {
	return &Panel{
		x:     x,
		width: width,
		Speed: 1,
		shapes: []particle.Shape{
			particle.ShapePoint, particle.ShapeCube, particle.ShapeSphere,
			particle.ShapeSquare, particle.ShapeCircle, particle.ShapeCylinder,
		},
		modes: []particle.RotationMode{
			particle.RotationNone, particle.RotationFixed, particle.RotationRandom,
		},
	}
}

// Bounds reports whether a screen point falls inside the panel, so the
// caller can suppress camera input under the cursor.
func (p *Panel) Bounds(x, y float32) bool {
	return x >= p.x
}

// Draw renders every control and dispatches change notifications to the
// active system. Returns the actions the caller must apply.
func (p *Panel) Draw(m *particle.Manager) Actions {
	var act Actions
	s := m.Active()
	cfg := s.Config()

	y := float32(10)
	p.header(&y, fmt.Sprintf("System %d of %d", m.ActiveIndex()+1, len(m.Systems())))

	if p.button(&y, 0, "Prev") {
		act.SelectDelta = -1
	}
	if p.button(&y, 1, "Next") {
		act.SelectDelta = 1
	}
	y += 34
	if p.button(&y, 0, "New") {
		act.NewSystem = true
	}
	if p.button(&y, 1, "Duplicate") {
		act.Duplicate = true
	}
	y += 34
	if p.button(&y, 0, "Remove") {
		act.Remove = true
	}
	if p.button(&y, 1, "Respawn") {
		s.Respawned()
	}
	y += 40

	// Shape
	p.header(&y, "Shape")
	if p.button(&y, 0, string(cfg.Shape)) {
		cfg.Shape = next(p.shapes, cfg.Shape)
		s.Respawned()
	}
	y += 34
	respawn := false
	switch cfg.Shape {
	case particle.ShapeCube:
		respawn = p.pairSlider(&y, "Outer length", cfg.OuterLength, 0.1, 10, cfg.SetOuterLength) || respawn
		respawn = p.pairSlider(&y, "Inner length", cfg.InnerLength, 0, 10, cfg.SetInnerLength) || respawn
	case particle.ShapeSphere:
		respawn = p.pairSlider(&y, "Outer radius", cfg.OuterRadius, 0.1, 10, cfg.SetOuterRadius) || respawn
		respawn = p.pairSlider(&y, "Inner radius", cfg.InnerRadius, 0, 10, cfg.SetInnerRadius) || respawn
	case particle.ShapeSquare:
		respawn = p.pairSlider(&y, "Size", cfg.SquareSize, 0.1, 10, cfg.SetSquareSize) || respawn
		respawn = p.pairSlider(&y, "Inner size", cfg.SquareInnerSize, 0, 10, cfg.SetSquareInnerSize) || respawn
	case particle.ShapeCircle:
		respawn = p.pairSlider(&y, "Outer radius", cfg.CircleOuterRadius, 0.1, 10, cfg.SetCircleOuterRadius) || respawn
		respawn = p.pairSlider(&y, "Inner radius", cfg.CircleInnerRadius, 0, 10, cfg.SetCircleInnerRadius) || respawn
	case particle.ShapeCylinder:
		respawn = p.pairSlider(&y, "Radius", cfg.OuterRadius, 0.1, 10, cfg.SetOuterRadius) || respawn
		respawn = p.pairSlider(&y, "Inner radius", cfg.InnerRadius, 0, 10, cfg.SetInnerRadius) || respawn
		respawn = p.slider(&y, "Height", &cfg.CylinderHeight, 0.1, 10) || respawn
	}
	respawn = p.slider(&y, "Rotate X", &cfg.RotationX, -180, 180) || respawn
	respawn = p.slider(&y, "Rotate Y", &cfg.RotationY, -180, 180) || respawn
	respawn = p.slider(&y, "Rotate Z", &cfg.RotationZ, -180, 180) || respawn
	respawn = p.slider(&y, "Move X", &cfg.TranslationX, -10, 10) || respawn
	respawn = p.slider(&y, "Move Y", &cfg.TranslationY, -10, 10) || respawn
	respawn = p.slider(&y, "Move Z", &cfg.TranslationZ, -10, 10) || respawn

	// Emission
	p.header(&y, "Emission")
	respawn = p.checkbox(&y, "Burst", &cfg.BurstMode) || respawn
	if cfg.BurstMode {
		count := float32(cfg.ParticleCount)
		if p.slider(&y, "Count", &count, 1, 5000) {
			cfg.ParticleCount = int(count)
			respawn = true
		}
	} else {
		respawn = p.slider(&y, "Rate", &cfg.EmissionRate, 1, 2000) || respawn
		respawn = p.slider(&y, "Duration", &cfg.EmissionDuration, 0.1, 30) || respawn
	}
	respawn = p.slider(&y, "Lifetime", &cfg.Lifetime, 0.1, 20) || respawn

	// Velocity
	p.header(&y, "Velocity")
	respawn = p.checkbox(&y, "Random speed", &cfg.RandomSpeed) || respawn
	if cfg.RandomSpeed {
		respawn = p.pairSlider(&y, "Min speed", cfg.MinSpeed, 0, 20, cfg.SetMinSpeed) || respawn
		respawn = p.pairSlider(&y, "Max speed", cfg.MaxSpeed, 0, 20, cfg.SetMaxSpeed) || respawn
	} else {
		respawn = p.slider(&y, "Speed", &cfg.Speed, 0, 20) || respawn
	}
	if cfg.Shape == particle.ShapeCircle || cfg.Shape == particle.ShapeCylinder {
		respawn = p.checkbox(&y, "Tangential", &cfg.TangentialVelocity) || respawn
	}
	respawn = p.axisOverride(&y, "Override X", &cfg.OverrideX, &cfg.VelocityX) || respawn
	respawn = p.axisOverride(&y, "Override Y", &cfg.OverrideY, &cfg.VelocityY) || respawn
	respawn = p.axisOverride(&y, "Override Z", &cfg.OverrideZ, &cfg.VelocityZ) || respawn
	if respawn {
		s.Respawned()
	}

	// Appearance
	p.header(&y, "Appearance")
	appearance := false
	appearance = p.checkbox(&y, "Fade", &cfg.Fade) || appearance
	appearance = p.checkbox(&y, "Random size", &cfg.RandomSize) || appearance
	if cfg.RandomSize {
		appearance = p.pairSlider(&y, "Min size", cfg.MinSize, 0.01, 2, cfg.SetMinSize) || appearance
		appearance = p.pairSlider(&y, "Max size", cfg.MaxSize, 0.01, 2, cfg.SetMaxSize) || appearance
	} else {
		appearance = p.slider(&y, "Size", &cfg.Size, 0.01, 2) || appearance
	}
	appearance = p.slider(&y, "Aspect", &cfg.AspectRatio, 0.1, 4) || appearance
	if p.button(&y, 0, "Spin: "+string(cfg.RotationMode)) {
		cfg.RotationMode = next(p.modes, cfg.RotationMode)
		appearance = true
	}
	y += 34
	if cfg.RotationMode != particle.RotationNone {
		appearance = p.pairSlider(&y, "Min angle", cfg.MinRotation, 0, 360, cfg.SetMinRotation) || appearance
		appearance = p.pairSlider(&y, "Max angle", cfg.MaxRotation, 0, 360, cfg.SetMaxRotation) || appearance
	}
	appearance = p.checkbox(&y, "Color gradient", &cfg.ColorTransition) || appearance
	if cfg.ColorTransition {
		appearance = p.colorSliders(&y, "Start", &cfg.StartColor) || appearance
		appearance = p.colorSliders(&y, "End", &cfg.EndColor) || appearance
	} else {
		appearance = p.colorSliders(&y, "Color", &cfg.Color) || appearance
	}
	appearance = p.slider(&y, "Opacity", &cfg.Opacity, 0, 1) || appearance
	if p.checkbox(&y, "Textured", &cfg.Textured) {
		appearance = true
		act.TextureDirty = true
	}
	if appearance {
		s.AppearanceChanged()
	}

	// Physics
	p.header(&y, "Physics")
	physics := false
	physics = p.slider(&y, "Gravity", &cfg.Gravity, 0, 30) || physics
	physics = p.slider(&y, "Attract", &cfg.AttractorStrength, 0, 50) || physics
	if cfg.AttractorStrength > 0 {
		physics = p.slider(&y, "Target X", &cfg.AttractorX, -10, 10) || physics
		physics = p.slider(&y, "Target Y", &cfg.AttractorY, -10, 10) || physics
		physics = p.slider(&y, "Target Z", &cfg.AttractorZ, -10, 10) || physics
	}
	if physics {
		s.PhysicsChanged()
	}

	// Global
	p.header(&y, "Global")
	if p.slider(&y, "Sim speed", &p.Speed, 0, 4) {
		m.SetSpeed(p.Speed)
		s.SpeedChanged()
	}
	bloom := cfg.BloomIntensity
	if p.slider(&y, "Bloom", &bloom, 0, 4) {
		s.BloomChanged(bloom)
	}

	y += 10
	if p.button(&y, 0, "Save scene") {
		act.SaveScene = true
	}
	if p.button(&y, 1, "Load scene") {
		act.LoadScene = true
	}

	return act
}

func (p *Panel) header(y *float32, text string) {
	*y += 8
	rl.DrawText(text, int32(p.x)+10, int32(*y), 16, rl.RayWhite)
	*y += 24
}

// slider draws one labeled slider editing v directly. Reports change.
func (p *Panel) slider(y *float32, label string, v *float32, min, max float32) bool {
	rl.DrawText(label, int32(p.x)+10, int32(*y), 10, rl.LightGray)
	*y += 14
	got := gui.SliderBar(
		rl.Rectangle{X: p.x + 10, Y: *y, Width: p.width - 80, Height: 18},
		"", fmt.Sprintf("%.2f", *v),
		*v, min, max,
	)
	*y += 26
	if got != *v {
		*v = got
		return true
	}
	return false
}

// pairSlider draws a slider that routes its value through a paired-bound
// setter instead of writing the field directly.
func (p *Panel) pairSlider(y *float32, label string, v, min, max float32, set func(float32)) bool {
	rl.DrawText(label, int32(p.x)+10, int32(*y), 10, rl.LightGray)
	*y += 14
	got := gui.SliderBar(
		rl.Rectangle{X: p.x + 10, Y: *y, Width: p.width - 80, Height: 18},
		"", fmt.Sprintf("%.2f", v),
		v, min, max,
	)
	*y += 26
	if got != v {
		set(got)
		return true
	}
	return false
}

func (p *Panel) checkbox(y *float32, label string, v *bool) bool {
	got := gui.CheckBox(
		rl.Rectangle{X: p.x + 10, Y: *y, Width: 16, Height: 16},
		label, *v,
	)
	*y += 24
	if got != *v {
		*v = got
		return true
	}
	return false
}

// axisOverride pairs an enable checkbox with its value slider.
func (p *Panel) axisOverride(y *float32, label string, enabled *bool, v *float32) bool {
	changed := p.checkbox(y, label, enabled)
	if *enabled {
		changed = p.slider(y, "  value", v, -20, 20) || changed
	}
	return changed
}

func (p *Panel) colorSliders(y *float32, label string, c *[3]float32) bool {
	changed := false
	for i, ch := range []string{" R", " G", " B"} {
		changed = p.slider(y, label+ch, &c[i], 0, 1) || changed
	}
	return changed
}

// button draws a half-width button in column 0 or 1. The caller advances
// y once per row.
func (p *Panel) button(y *float32, col int, text string) bool {
	w := (p.width - 30) / 2
	x := p.x + 10 + float32(col)*(w+10)
	return gui.Button(rl.Rectangle{X: x, Y: *y, Width: w, Height: 26}, text)
}

// next cycles to the element after cur, wrapping around.
func next[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}
