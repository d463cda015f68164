package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/sneh-ach/findangular/internal/angular"
	"github.com/sneh-ach/findangular/internal/catalog"
	"github.com/sneh-ach/findangular/internal/reduce"
)

type config struct {
	input      string
	maxRecords int
	maxWorkers int
	repeats    int
}

type sweepRow struct {
	workers    int
	meanSecs   float64
	stddevSecs float64
	speedup    float64
}

func main() {
	cfg := parseFlags()
	if err := cfg.validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.input, "input", "data/tycho-trimmed.csv", "catalog file to benchmark against")
	flag.IntVar(&cfg.maxRecords, "max-records", 0, "record cap for ingestion (0 = unlimited)")
	flag.IntVar(&cfg.maxWorkers, "max-workers", 2*runtime.NumCPU(), "highest worker count in the sweep")
	flag.IntVar(&cfg.repeats, "repeats", 3, "runs per worker count")
	flag.Parse()
	return cfg
}

func (c config) validate() error {
	if c.input == "" {
		return errors.New("input is required")
	}
	if c.maxRecords < 0 {
		return errors.New("max-records must be >= 0")
	}
	if c.maxWorkers <= 0 {
		return errors.New("max-workers must be > 0")
	}
	if c.repeats <= 0 {
		return errors.New("repeats must be > 0")
	}
	return nil
}

func run(cfg config) error {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	runID := uuid.NewString()
	log.Printf("benchmark run: id=%s input=%s max_workers=%d repeats=%d gomaxprocs=%d",
		runID, cfg.input, cfg.maxWorkers, cfg.repeats, runtime.GOMAXPROCS(0))

	loadStart := time.Now()
	cat, err := catalog.Load(cfg.input, cfg.maxRecords)
	if err != nil {
		return err
	}
	log.Printf("catalog loaded: records=%d pairs=%d elapsed=%s",
		len(cat), reduce.PairCount(len(cat)), time.Since(loadStart).Round(time.Millisecond))

	dist := func(i, j int) float64 {
		a, b := cat[i], cat[j]
		return angular.Distance(a.RightAscension, a.Declination, b.RightAscension, b.Declination)
	}

	ctx := context.Background()
	var reference reduce.Result
	haveReference := false
	rows := make([]sweepRow, 0, cfg.maxWorkers)

	for workers := 1; workers <= cfg.maxWorkers; workers++ {
		samples := make([]float64, 0, cfg.repeats)
		for r := 0; r < cfg.repeats; r++ {
			result, err := reduce.Run(ctx, len(cat), dist, reduce.Options{Workers: workers})
			if err != nil {
				return fmt.Errorf("run workers=%d: %w", workers, err)
			}
			samples = append(samples, result.Elapsed.Seconds())

			if !haveReference {
				reference = result
				haveReference = true
				continue
			}
			if err := checkInvariance(reference, result, workers); err != nil {
				return err
			}
		}

		row := sweepRow{
			workers:  workers,
			meanSecs: stat.Mean(samples, nil),
		}
		if len(samples) > 1 {
			row.stddevSecs = stat.StdDev(samples, nil)
		}
		rows = append(rows, row)
		log.Printf("sweep: workers=%d mean=%.4fs stddev=%.4fs", row.workers, row.meanSecs, row.stddevSecs)
	}

	baseline := rows[0].meanSecs
	best := 0
	for i := range rows {
		if rows[i].meanSecs > 0 {
			rows[i].speedup = baseline / rows[i].meanSecs
		}
		if rows[i].meanSecs < rows[best].meanSecs {
			best = i
		}
	}

	fmt.Printf("%8s  %12s  %12s  %8s\n", "workers", "mean (s)", "stddev (s)", "speedup")
	for _, row := range rows {
		fmt.Printf("%8d  %12.4f  %12.4f  %8.2f\n", row.workers, row.meanSecs, row.stddevSecs, row.speedup)
	}

	log.Printf("benchmark complete: id=%s best_workers=%d best_mean=%.4fs min=%.6f max=%.6f mean=%.6f pairs=%d",
		runID, rows[best].workers, rows[best].meanSecs, reference.Min, reference.Max, reference.Mean, reference.Pairs)
	return nil
}

// checkInvariance verifies that min, max and pair count are bit-identical
// across worker counts, and that the mean differs only by summation order.
func checkInvariance(reference, got reduce.Result, workers int) error {
	if got.Min != reference.Min || got.Max != reference.Max || got.Pairs != reference.Pairs {
		return fmt.Errorf("workers=%d: result differs from single-worker reference: got min=%v max=%v pairs=%d, want min=%v max=%v pairs=%d",
			workers, got.Min, got.Max, got.Pairs, reference.Min, reference.Max, reference.Pairs)
	}
	if math.Abs(got.Mean-reference.Mean) > 1e-9 {
		return fmt.Errorf("workers=%d: mean drifted beyond summation tolerance: got=%v want=%v", workers, got.Mean, reference.Mean)
	}
	return nil
}
