package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated simulation statistics for a time window.
type WindowStats struct {
	WindowStartFrame int     `csv:"-"`
	WindowEndFrame   int     `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Scene shape at window end
	Systems         int `csv:"systems"`
	ActiveParticles int `csv:"active_particles"`

	// Simulation events during the window
	Emitted      int `csv:"emitted"`
	Respawned    int `csv:"respawned"`
	Compacted    int `csv:"compacted"`
	PhysicsSteps int `csv:"physics_steps"`
	Readbacks    int `csv:"readbacks"`

	// Frame timing over the window
	FrameMsMean float64 `csv:"frame_ms_mean"`
	FrameMsP50  float64 `csv:"frame_ms_p50"`
	FrameMsP95  float64 `csv:"frame_ms_p95"`
	FrameMsMax  float64 `csv:"frame_ms_max"`
	FPS         float64 `csv:"fps"`
}

// ComputeFrameStats calculates mean, p50, p95 and max from frame times
// in milliseconds.
func ComputeFrameStats(frameMs []float64) (mean, p50, p95, max float64) {
	n := len(frameMs)
	if n == 0 {
		return 0, 0, 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, frameMs)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	max = sorted[n-1]
	return mean, p50, p95, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("systems", s.Systems),
		slog.Int("active_particles", s.ActiveParticles),
		slog.Int("emitted", s.Emitted),
		slog.Int("respawned", s.Respawned),
		slog.Int("compacted", s.Compacted),
		slog.Int("physics_steps", s.PhysicsSteps),
		slog.Int("readbacks", s.Readbacks),
		slog.Float64("frame_ms_mean", s.FrameMsMean),
		slog.Float64("frame_ms_p50", s.FrameMsP50),
		slog.Float64("frame_ms_p95", s.FrameMsP95),
		slog.Float64("frame_ms_max", s.FrameMsMax),
		slog.Float64("fps", s.FPS),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"systems", s.Systems,
		"active_particles", s.ActiveParticles,
		"emitted", s.Emitted,
		"respawned", s.Respawned,
		"compacted", s.Compacted,
		"physics_steps", s.PhysicsSteps,
		"readbacks", s.Readbacks,
		"frame_ms_mean", s.FrameMsMean,
		"frame_ms_p95", s.FrameMsP95,
		"fps", s.FPS,
	)
}
