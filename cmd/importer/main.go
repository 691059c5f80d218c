// Package main provides the entry point for the legacy data importer.
// This tool extracts rows from the legacy MySQL schema, transforms them
// into the new system's entities with backward-compatibility keys, and
// writes them through a SQL or API backend. A separate mode synchronizes
// image files into the new storage layout.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mwnf/legacy-importer/internal/config"
	"github.com/mwnf/legacy-importer/internal/imagesync"
	"github.com/mwnf/legacy-importer/internal/importer"
	"github.com/mwnf/legacy-importer/internal/legacy"
	"github.com/mwnf/legacy-importer/internal/target"
	"github.com/mwnf/legacy-importer/internal/tracker"
	"github.com/mwnf/legacy-importer/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to YAML configuration file")
		mode       = flag.String("mode", "import", "Execution mode: import, images, all")
		writeMode  = flag.String("write", "", "Write backend: sql or api (overrides configuration)")
		dryRun     = flag.Bool("dry-run", false, "Preview mode - log intended actions without writing")
		sampleOnly = flag.Bool("sample-only", false, "Like dry-run, for collecting representative rows")
		phaseList  = flag.String("phases", "", "Import phases to run (comma-separated, empty = all)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *writeMode != "" {
		cfg.Import.WriteMode = *writeMode
	}
	if *dryRun {
		cfg.Import.DryRun = true
	}
	if *sampleOnly {
		cfg.Import.SampleOnly = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var phases []string
	if *phaseList != "" {
		phases = strings.Split(*phaseList, ",")
		if err := importer.ValidatePhases(phases); err != nil {
			log.Fatalf("Invalid -phases value: %v", err)
		}
	}

	logg := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if cfg.Logger.File != "" {
		f, err := logg.WithFile(cfg.Logger.File)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	}

	logg.Info("Starting legacy data importer",
		"mode", *mode,
		"write", cfg.Import.WriteMode,
		"config", *configPath,
		"dry_run", cfg.Import.DryRun,
		"sample_only", cfg.Import.SampleOnly)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ok := true
	switch *mode {
	case "import":
		ok = runImport(ctx, cfg, logg, phases)
	case "images":
		ok = runImages(ctx, cfg, logg)
	case "all":
		ok = runAll(
			func() bool { return runImport(ctx, cfg, logg, phases) },
			func() bool { return runImages(ctx, cfg, logg) },
		)
	default:
		logg.Fatal("Unknown mode", "mode", *mode)
	}

	if !ok {
		logg.Error("Run finished with errors")
		os.Exit(1)
	}
	logg.Info("Run completed successfully")
}

// runAll executes every pass even when an earlier one fails, so a
// broken entity import does not leave the image files out of sync.
func runAll(passes ...func() bool) bool {
	ok := true
	for _, pass := range passes {
		if !pass() {
			ok = false
		}
	}
	return ok
}

// runImport executes the entity migration phases.
func runImport(ctx context.Context, cfg *config.Config, logg *logger.Logger, phases []string) bool {
	legacyDB, err := legacy.Connect(ctx, cfg.Legacy)
	if err != nil {
		logg.Error("Failed to connect to legacy database", "error", err)
		return false
	}
	defer legacyDB.Close()

	tr := tracker.NewMemory()

	var strategy target.Strategy
	switch cfg.Import.WriteMode {
	case config.WriteModeAPI:
		strategy = target.NewAPIStrategy(cfg.API)
	default:
		sqlStrategy, err := target.ConnectSQL(ctx, cfg.Target, tr)
		if err != nil {
			logg.Error("Failed to connect to target database", "error", err)
			return false
		}
		defer sqlStrategy.Close()
		strategy = sqlStrategy
	}

	ic := &importer.Context{
		Legacy:          legacyDB,
		Strategy:        strategy,
		Tracker:         tr,
		Log:             logg,
		Schema:          cfg.Import.LegacySchema,
		DefaultLanguage: cfg.Import.DefaultLanguage,
		DefaultContext:  cfg.Import.DefaultContext,
		DryRun:          cfg.Import.DryRun,
		SampleOnly:      cfg.Import.SampleOnly,
	}

	runner := importer.NewRunner(ic)
	if !ic.DryRun && !ic.SampleOnly {
		if err := runner.WarmTracker(ctx); err != nil {
			logg.Error("Failed to warm tracker from target store", "error", err)
			return false
		}
	}

	_, ok := runner.Run(ctx, phases)
	return ok
}

// runImages synchronizes legacy image files.
func runImages(ctx context.Context, cfg *config.Config, logg *logger.Logger) bool {
	store, err := imagesync.ConnectStore(ctx, cfg.Legacy)
	if err != nil {
		logg.Error("Failed to connect to legacy database", "error", err)
		return false
	}
	defer store.Close()

	syncer := imagesync.New(store, logg, cfg.Images, cfg.Import.DryRun)
	_, ok := syncer.Run(ctx)
	return ok
}
