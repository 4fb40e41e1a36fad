package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forcefield/config"
	"github.com/pthm-cable/forcefield/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files saved on bookmarks")
	resume := flag.String("resume", "", "Snapshot file to resume from")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "Seed for random tables and particle streams (0 = use config)")
	workers := flag.Int("workers", 0, "Force workers (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := sim.Options{
		Seed:           *seed,
		Workers:        *workers,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		ResumeFrom:     *resume,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if *headless {
		run(cfg, opts, *maxTicks)
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Force Field")
	defer rl.CloseWindow()
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	for !rl.WindowShouldClose() && !done(s, *maxTicks) {
		s.Update()
		s.Draw()
	}
}

// done reports whether s has reached maxTicks. maxTicks <= 0 never ends.
func done(s *sim.Sim, maxTicks int) bool {
	return maxTicks > 0 && int(s.Tick()) >= maxTicks
}

// run drives a headless simulation until maxTicks (0 = forever).
func run(cfg *config.Config, opts sim.Options, maxTicks int) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("starting headless simulation",
		"seed", s.Seed(),
		"forces", len(s.Forces()),
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for !done(s, maxTicks) {
		s.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", s.Tick(), "alive", s.Alive())
}
