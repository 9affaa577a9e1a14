package particle

// ChangeObserver receives edit notifications from the UI layer. A System
// implements it; each method maps one class of control change to the
// cheapest state update that makes the change visible.
type ChangeObserver interface {
	// Respawned restarts emission from scratch. Shape, emission mode and
	// lifetime edits route here.
	Respawned()

	// AppearanceChanged re-derives per-particle visual state without
	// disturbing positions. Color, size and opacity edits route here.
	AppearanceChanged()

	// PhysicsChanged pushes new force parameters to the integrator.
	PhysicsChanged()

	// SpeedChanged pushes a new global speed multiplier to the integrator.
	SpeedChanged()

	// BloomChanged updates the system's bloom contribution.
	BloomChanged(intensity float32)
}
