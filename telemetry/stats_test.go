package telemetry

import (
	"math"
	"testing"
)

func TestComputeFrameStats_Empty(t *testing.T) {
	mean, p50, p95, max := ComputeFrameStats(nil)
	if mean != 0 || p50 != 0 || p95 != 0 || max != 0 {
		t.Errorf("expected zeros for empty input, got %f %f %f %f", mean, p50, p95, max)
	}
}

func TestComputeFrameStats_SingleValue(t *testing.T) {
	mean, p50, p95, max := ComputeFrameStats([]float64{16.6})
	if mean != 16.6 || p50 != 16.6 || p95 != 16.6 || max != 16.6 {
		t.Errorf("expected all 16.6, got %f %f %f %f", mean, p50, p95, max)
	}
}

func TestComputeFrameStats_Distribution(t *testing.T) {
	// Mostly steady frames with one spike.
	frames := make([]float64, 100)
	for i := range frames {
		frames[i] = 16.0
	}
	frames[50] = 100.0

	mean, p50, p95, max := ComputeFrameStats(frames)
	if math.Abs(mean-16.84) > 1e-9 {
		t.Errorf("expected mean 16.84, got %f", mean)
	}
	if p50 != 16.0 {
		t.Errorf("expected p50 16.0, got %f", p50)
	}
	if p95 != 16.0 {
		t.Errorf("expected p95 unaffected by single spike, got %f", p95)
	}
	if max != 100.0 {
		t.Errorf("expected max 100.0, got %f", max)
	}
}

func TestComputeFrameStats_DoesNotMutateInput(t *testing.T) {
	frames := []float64{5, 1, 3}
	ComputeFrameStats(frames)
	if frames[0] != 5 || frames[1] != 1 || frames[2] != 3 {
		t.Errorf("input mutated: %v", frames)
	}
}
