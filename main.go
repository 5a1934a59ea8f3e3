package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/natefinch/lumberjack"

	"github.com/pthm-cable/lattice/config"
	"github.com/pthm-cable/lattice/generator"
)

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := config.Init(f.configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	f.apply(cfg)
	if err := cfg.Resolve(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	// Set up slog (JSON for structured logging)
	var out io.Writer = os.Stdout
	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		defer rotator.Close()
		out = rotator
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, generator.Options{OutputDir: f.outputDir, LogStats: f.logStats}); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// flags holds the command line. Overrides left at their zero value fall
// back to the config, except seed, which applies whenever it was given.
type flags struct {
	configPath string
	logStats   bool
	outputDir  string
	logFile    string
	ticks      int
	seed       int
	seedSet    bool
	resolution int
	shape      string
	field      string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("lattice", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fs.BoolVar(&f.logStats, "log-stats", false, "Output field and perf stats via slog")
	fs.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to a rotating file instead of stdout (overrides config)")
	fs.IntVar(&f.ticks, "ticks", 0, "Number of ticks to run (0 = use config)")
	fs.IntVar(&f.seed, "seed", 0, "Field seed (unset = use config)")
	fs.IntVar(&f.resolution, "resolution", 0, "Grid resolution (0 = use config)")
	fs.StringVar(&f.shape, "shape", "", "Shape: plane, sphere or torus (empty = use config)")
	fs.StringVar(&f.field, "field", "", "Field: hash, noise or both (empty = use config)")

	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			f.seedSet = true
		}
	})
	return f, nil
}

// apply writes the CLI overrides into cfg. cfg still needs Resolve.
func (f flags) apply(cfg *config.Config) {
	if f.seedSet {
		cfg.Field.Seed = int32(f.seed)
	}
	if f.resolution != 0 {
		cfg.Visualization.Resolution = f.resolution
	}
	if f.shape != "" {
		cfg.Visualization.Shape = f.shape
	}
	if f.field != "" {
		cfg.Field.Kind = f.field
	}
	if f.ticks != 0 {
		cfg.Animation.Ticks = f.ticks
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
}

func run(ctx context.Context, cfg *config.Config, opts generator.Options) error {
	g, err := generator.New(cfg, opts)
	if err != nil {
		return err
	}

	slog.Info("starting",
		"seed", cfg.Field.Seed,
		"ticks", cfg.Animation.Ticks,
		"field", cfg.Field.Kind,
	)

	runErr := g.Run(ctx, cfg.Animation.Ticks)
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted", "tick", g.Tick())
		runErr = nil
	}
	if err := g.Close(); runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	for _, st := range g.Stats() {
		slog.Info("final", "stats", st)
	}
	slog.Info("done", "ticks", g.Tick())
	return nil
}
