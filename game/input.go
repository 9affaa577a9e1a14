package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	orbitSensitivity = 0.005
	panSensitivity   = 0.01
	dollySensitivity = 0.8
)

// handleInput applies mouse-driven camera controls. Input over the
// control panel is left to the panel.
func (g *Game) handleInput(_ float32) {
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) {
		if rl.IsKeyPressed(rl.KeyS) {
			g.saveScene()
		}
		if rl.IsKeyPressed(rl.KeyL) {
			g.loadScene()
		}
	}

	pos := rl.GetMousePosition()
	if g.panel.Bounds(pos.X, pos.Y) {
		return
	}

	delta := rl.GetMouseDelta()
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonMiddle),
		rl.IsMouseButtonDown(rl.MouseButtonLeft) && rl.IsKeyDown(rl.KeyLeftShift):
		g.cam.Pan(delta.X*panSensitivity, delta.Y*panSensitivity)
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.cam.Orbit(delta.X*orbitSensitivity, delta.Y*orbitSensitivity)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.Dolly(-wheel * dollySensitivity)
	}
}
