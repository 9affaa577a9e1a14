// Package main benchmarks the CPU simulation path across particle counts.
//
// Each run holds one continuous system at a steady-state population and
// measures per-frame update cost over a fixed number of frames. Results
// go to bench.csv in the output directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/MankyDanky/particle-system-sub000/config"
	"github.com/MankyDanky/particle-system-sub000/particle"
	"github.com/MankyDanky/particle-system-sub000/telemetry"
)

// benchResult is one CSV row: a (particle count, seed) run.
type benchResult struct {
	MaxParticles int     `csv:"max_particles"`
	Seed         int64   `csv:"seed"`
	Frames       int     `csv:"frames"`
	ActiveEnd    int     `csv:"active_end"`
	Emitted      int     `csv:"emitted"`
	Compacted    int     `csv:"compacted"`
	StepMsMean   float64 `csv:"step_ms_mean"`
	StepMsP50    float64 `csv:"step_ms_p50"`
	StepMsP95    float64 `csv:"step_ms_p95"`
	StepMsMax    float64 `csv:"step_ms_max"`
	FramesPerSec float64 `csv:"frames_per_sec"`
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	counts := flag.String("counts", "1000,5000,10000,50000", "Comma-separated particle counts to sweep")
	seeds := flag.Int("seeds", 3, "Number of seeds per count")
	frames := flag.Int("frames", 600, "Fixed-step frames per run")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	var sweep []int
	for _, field := range strings.Split(*counts, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			log.Fatalf("bad count %q", field)
		}
		sweep = append(sweep, n)
	}

	totalRuns := len(sweep) * *seeds
	results := make([]benchResult, 0, totalRuns)
	startTime := time.Now()

	fmt.Printf("Benchmarking %d counts x %d seeds, %d frames each\n", len(sweep), *seeds, *frames)

	run := 0
	for _, count := range sweep {
		for s := 0; s < *seeds; s++ {
			seed := int64(s*1000 + 42)
			res := runBench(cfg, count, seed, *frames)
			results = append(results, res)
			run++

			elapsed := time.Since(startTime)
			remaining := time.Duration(totalRuns-run) * (elapsed / time.Duration(run))
			fmt.Printf("Run %d/%d: count=%d seed=%d mean=%.3fms p95=%.3fms fps=%.0f | elapsed: %s, ETA: %s\n",
				run, totalRuns, count, seed, res.StepMsMean, res.StepMsP95, res.FramesPerSec,
				formatDuration(elapsed), formatDuration(remaining))
		}
	}

	csvPath := filepath.Join(*outputDir, "bench.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", csvPath, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(results, f); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}

	if err := cfg.WriteYAML(filepath.Join(*outputDir, "config.yaml")); err != nil {
		log.Printf("failed to write config snapshot: %v", err)
	}

	fmt.Printf("\nDone in %s, results in %s\n", formatDuration(time.Since(startTime)), csvPath)
}

// runBench simulates one continuous system sized to hold roughly count
// live particles and returns per-frame timing statistics.
func runBench(cfg *config.Config, count int, seed int64, frames int) benchResult {
	step := cfg.Derived.FixedStep

	ec := particle.DefaultConfig()
	ec.EmissionRate = float32(count) / ec.Lifetime
	ec.EmissionDuration = float32(frames+1) * step
	ec.Shape = particle.ShapeSphere
	ec.Gravity = 1
	ec.AttractorStrength = 1

	opts := particle.Options{
		MaxParticles:     count,
		BurstBatchSize:   cfg.Simulation.BurstBatchSize,
		FixedStep:        step,
		MaxFrameGap:      cfg.Derived.MaxFrameGap,
		ReadbackInterval: cfg.Simulation.ReadbackInterval,
		Mirrored:         false,
	}

	m := particle.NewManager(opts, particle.NewCPUIntegrator)
	defer m.Dispose()

	if err := m.ReplaceAll([]*particle.EmissionConfig{ec}, 0); err != nil {
		log.Fatalf("failed to configure run: %v", err)
	}
	m.Active().SetSeed(seed)
	m.Active().Spawn()

	frameMs := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		t0 := time.Now()
		m.UpdateAll(step)
		frameMs = append(frameMs, float64(time.Since(t0).Microseconds())/1000.0)
	}

	mean, p50, p95, max := telemetry.ComputeFrameStats(frameMs)
	stats := m.Active().Stats()

	fps := 0.0
	if mean > 0 {
		fps = 1000.0 / mean
	}

	return benchResult{
		MaxParticles: count,
		Seed:         seed,
		Frames:       frames,
		ActiveEnd:    m.Active().Active(),
		Emitted:      stats.Emitted,
		Compacted:    stats.Compacted,
		StepMsMean:   mean,
		StepMsP50:    p50,
		StepMsP95:    p95,
		StepMsMax:    max,
		FramesPerSec: fps,
	}
}
