package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/evogarden/config"
	"github.com/pthm-cable/evogarden/game"
	"github.com/pthm-cable/evogarden/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output report rows and window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	dbPath := flag.String("db", "", "SQLite file for report rows (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = population.seed from config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited, graphical mode only)")
	perf := flag.Bool("perf", false, "Collect per-phase tick timings")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *headless && *maxTicks <= 0 {
		slog.Error("headless runs need -max-ticks")
		os.Exit(1)
	}

	opts := game.Options{
		Seed:      *seed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		DBPath:    *dbPath,
		Perf:      *perf,
	}

	if err := run(cfg, opts, *headless, *maxTicks); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, opts game.Options, headless bool, maxTicks int) error {
	if !headless {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "EvoGarden")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	sim, err := game.New(cfg, opts)
	if err != nil {
		return err
	}

	start := time.Now()
	if headless {
		// Headless mode - pure CPU simulation, no raylib needed
		slog.Info("starting headless simulation", "seed", sim.Seed(), "max_ticks", maxTicks)
		sim.Run(maxTicks)
	} else {
		v := renderer.NewViewer(sim, maxTicks)
		v.Run()
		v.Unload()
	}

	herbs, carns := sim.Population()
	slog.Info("simulation finished",
		"tick", sim.Tick(),
		"herbivores", herbs,
		"carnivores", carns,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	return sim.Close()
}
