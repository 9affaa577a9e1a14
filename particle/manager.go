package particle

import (
	"errors"
	"fmt"
)

// ErrLastSystem is returned when removing the only remaining system.
var ErrLastSystem = errors.New("particle: cannot remove the last system")

// Manager owns the scene's particle systems and the selection the UI
// edits. System ids are monotonic and never reused within a run.
type Manager struct {
	systems []*System
	active  int
	nextID  int

	opts    Options
	factory IntegratorFactory
	speed   float32
}

// NewManager starts with a single default system, already emitting.
func NewManager(opts Options, factory IntegratorFactory) *Manager {
	m := &Manager{opts: opts, factory: factory, speed: 1}
	m.Create(DefaultConfig())
	return m
}

// Systems returns the live system list. Callers must not reorder it.
func (m *Manager) Systems() []*System { return m.systems }

// ActiveIndex returns the index of the selected system.
func (m *Manager) ActiveIndex() int { return m.active }

// Active returns the selected system.
func (m *Manager) Active() *System { return m.systems[m.active] }

// SetActive selects the system the UI edits. Out-of-range indices leave
// the selection untouched and report false.
func (m *Manager) SetActive(i int) bool {
	if i < 0 || i >= len(m.systems) {
		return false
	}
	m.active = i
	return true
}

// Create appends a system for cfg, spawns it and selects it.
func (m *Manager) Create(cfg *EmissionConfig) *System {
	s := NewSystem(m.nextID, cfg, m.opts, m.factory)
	m.nextID++
	s.SetSpeed(m.speed)
	s.Spawn()
	m.systems = append(m.systems, s)
	m.active = len(m.systems) - 1
	return s
}

// Duplicate clones the system at i into a new selected system. The clone
// shares nothing with the original except, when textured, the texture
// path it will load from.
func (m *Manager) Duplicate(i int) (*System, error) {
	if i < 0 || i >= len(m.systems) {
		return nil, fmt.Errorf("particle: duplicate index %d out of range", i)
	}
	return m.Create(m.systems[i].Config().Clone()), nil
}

// Remove disposes the system at i. The last system cannot be removed so
// the UI always has something to edit.
func (m *Manager) Remove(i int) error {
	if i < 0 || i >= len(m.systems) {
		return fmt.Errorf("particle: remove index %d out of range", i)
	}
	if len(m.systems) == 1 {
		return ErrLastSystem
	}
	m.systems[i].Dispose()
	m.systems = append(m.systems[:i], m.systems[i+1:]...)
	if m.active >= len(m.systems) {
		m.active = len(m.systems) - 1
	} else if m.active > i {
		m.active--
	}
	return nil
}

// ReplaceAll swaps the whole scene in one step: all new systems are
// built first, and only once every one succeeds are the old systems
// disposed. A loaded scene that fails validation leaves the current
// scene untouched.
func (m *Manager) ReplaceAll(configs []*EmissionConfig, activeIndex int) error {
	if len(configs) == 0 {
		return errors.New("particle: scene has no systems")
	}
	fresh := make([]*System, 0, len(configs))
	for _, cfg := range configs {
		s := NewSystem(m.nextID, cfg, m.opts, m.factory)
		m.nextID++
		s.SetSpeed(m.speed)
		s.Spawn()
		fresh = append(fresh, s)
	}
	for _, old := range m.systems {
		old.Dispose()
	}
	m.systems = fresh
	if activeIndex < 0 || activeIndex >= len(fresh) {
		activeIndex = 0
	}
	m.active = activeIndex
	return nil
}

// SetSpeed installs the global speed multiplier on every system.
func (m *Manager) SetSpeed(speed float32) {
	m.speed = speed
	for _, s := range m.systems {
		s.SetSpeed(speed)
	}
}

// Speed returns the global speed multiplier.
func (m *Manager) Speed() float32 { return m.speed }

// UpdateAll advances every system by one frame.
func (m *Manager) UpdateAll(frameTime float32) {
	for _, s := range m.systems {
		s.Update(frameTime)
	}
}

// Dispose releases every system's GPU resources.
func (m *Manager) Dispose() {
	for _, s := range m.systems {
		s.Dispose()
	}
	m.systems = nil
}
