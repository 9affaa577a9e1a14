// Package telemetry aggregates per-window simulation statistics and
// writes them to CSV experiment output.
package telemetry

import "github.com/MankyDanky/particle-system-sub000/particle"

// Collector accumulates frame samples within time windows and produces
// WindowStats. System counters are cumulative, so the collector keeps
// the totals seen at the last flush and reports deltas.
type Collector struct {
	windowDurationSec float64

	windowStartFrame int
	windowStartTime  float64
	simTime          float64
	frame            int

	frameMs []float64

	// Totals at the last flush, for delta computation.
	last particle.Stats
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in wall seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 1
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame records one rendered frame of frameTime seconds.
func (c *Collector) RecordFrame(frameTime float64) {
	c.frame++
	c.simTime += frameTime
	c.frameMs = append(c.frameMs, frameTime*1000)
}

// ShouldFlush returns true once a full window has elapsed.
func (c *Collector) ShouldFlush() bool {
	return c.simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats from the manager's current state and
// resets the window.
func (c *Collector) Flush(m *particle.Manager) WindowStats {
	var totals particle.Stats
	var active int
	for _, s := range m.Systems() {
		st := s.Stats()
		totals.Emitted += st.Emitted
		totals.Respawned += st.Respawned
		totals.Compacted += st.Compacted
		totals.Steps += st.Steps
		totals.Readbacks += st.Readbacks
		active += s.Active()
	}

	mean, p50, p95, max := ComputeFrameStats(c.frameMs)
	windowSec := c.simTime - c.windowStartTime
	var fps float64
	if windowSec > 0 {
		fps = float64(c.frame-c.windowStartFrame) / windowSec
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.frame,
		SimTimeSec:       c.simTime,

		Systems:         len(m.Systems()),
		ActiveParticles: active,

		Emitted:      totals.Emitted - c.last.Emitted,
		Respawned:    totals.Respawned - c.last.Respawned,
		Compacted:    totals.Compacted - c.last.Compacted,
		PhysicsSteps: totals.Steps - c.last.Steps,
		Readbacks:    totals.Readbacks - c.last.Readbacks,

		FrameMsMean: mean,
		FrameMsP50:  p50,
		FrameMsP95:  p95,
		FrameMsMax:  max,
		FPS:         fps,
	}

	c.windowStartFrame = c.frame
	c.windowStartTime = c.simTime
	c.frameMs = c.frameMs[:0]
	c.last = totals

	return stats
}
