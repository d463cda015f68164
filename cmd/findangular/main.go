package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sneh-ach/findangular/internal/angular"
	"github.com/sneh-ach/findangular/internal/catalog"
	"github.com/sneh-ach/findangular/internal/reduce"
	"github.com/sneh-ach/findangular/internal/resources"
)

func main() {
	defaultPath := defaultConfigPath
	if envPath := strings.TrimSpace(os.Getenv("FINDANGULAR_CONFIG")); envPath != "" {
		defaultPath = envPath
	}

	configPath := flag.String("config", defaultPath, "path to findangular config file (TOML style). Env override: FINDANGULAR_CONFIG")
	inputPath := flag.String("input", "", "catalog file path (overrides config)")
	threads := flag.Int("t", 1, "number of worker threads, 0 = auto (overrides config)")
	flag.Parse()

	log.SetFlags(log.LstdFlags)

	cfg, created, err := LoadOrCreateConfig(*configPath)
	if err != nil {
		fatalRun("load configuration", err)
	}
	if created {
		log.Printf("INFO created default config at %s", *configPath)
	}

	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	requested := cfg.Compute.Threads
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			requested = *threads
		}
	})
	if requested < 0 {
		fatalRun("validate configuration", fmt.Errorf("thread count %d: %w", requested, reduce.ErrInvalidWorkerCount))
	}

	mgr := resources.NewManager(resources.Config{
		MaxWorkers:          cfg.Resources.MaxWorkers,
		MemoryBudgetPercent: cfg.Resources.MemoryBudgetPercent,
	})
	workers := mgr.ResolveWorkers(requested)

	if fi, err := os.Stat(cfg.Input.Path); err == nil {
		// A catalog line is at least a dozen bytes, so size/8 overestimates
		// the record count; good enough to refuse absurd inputs up front.
		if err := mgr.CheckCatalogAllocation(int(fi.Size() / 8)); err != nil {
			fatalRun("reserve catalog memory", err)
		}
	}

	loadStart := time.Now()
	cat, err := catalog.Load(cfg.Input.Path, cfg.Input.MaxRecords)
	if err != nil {
		fatalRun("load catalog", err)
	}
	loadElapsed := time.Since(loadStart)
	log.Printf("INFO %d records read in %s", len(cat), formatDuration(loadElapsed))

	logStartupReport(cfg, *configPath, mgr, len(cat), workers)

	dist := func(i, j int) float64 {
		a, b := cat[i], cat[j]
		return angular.Distance(a.RightAscension, a.Declination, b.RightAscension, b.Declination)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := reduce.Run(ctx, len(cat), dist, reduce.Options{Workers: workers})
	if err != nil {
		fatalRun("compute angular distances", err)
	}

	printResults(os.Stdout, cfg.Output, result, workers)
}

func fatalRun(stage string, err error) {
	log.Printf("ERROR run failed at %s: %v", stage, err)

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		log.Printf("ERROR diagnostic: filesystem operation failed op=%s path=%s", pathErr.Op, pathErr.Path)
	}

	switch {
	case errors.Is(err, reduce.ErrNoPairs):
		log.Printf("ERROR diagnostic: the catalog has fewer than 2 points, so no pair statistics exist. check the input file contents.")
	case errors.Is(err, reduce.ErrInvalidWorkerCount):
		log.Printf("ERROR diagnostic: thread count must be positive. pass -t N with N >= 1, or -t 0 to pick a default from the CPU count.")
	case errors.Is(err, os.ErrNotExist):
		log.Printf("ERROR diagnostic: input path does not exist. verify input.path in the config or the -input flag.")
	case errors.Is(err, os.ErrPermission):
		log.Printf("ERROR diagnostic: permission denied. verify read permissions for the catalog file.")
	}

	os.Exit(1)
}
