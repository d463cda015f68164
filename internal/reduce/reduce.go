package reduce

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

// PairDistanceFunc returns the distance between catalog entries i and j.
// It must be pure: workers call it concurrently with no synchronization.
// Non-finite results are folded with ordinary floating-point comparison
// semantics, never rejected.
type PairDistanceFunc func(i, j int) float64

// ErrNoPairs reports a degenerate catalog (fewer than 2 points). The mean is
// undefined in that case and is never computed by silent division.
var ErrNoPairs = errors.New("no pairs to evaluate: catalog has fewer than 2 points")

// Partial is one worker's reduction over its range. It is owned exclusively
// by that worker until the join barrier hands it to Merge.
type Partial struct {
	Min   float64
	Max   float64
	Sum   float64
	Count uint64
}

func newPartial() Partial {
	return Partial{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (p *Partial) observe(d float64) {
	if d < p.Min {
		p.Min = d
	}
	if d > p.Max {
		p.Max = d
	}
	p.Sum += d
	p.Count++
}

// Result is the merged outcome of a full reduction run.
type Result struct {
	Min     float64
	Max     float64
	Mean    float64
	Pairs   uint64
	Elapsed time.Duration
}

// Merge combines worker partials into one result. It is associative and
// commutative: the order of the partials never changes min, max or count,
// and changes the mean only by float summation rounding.
func Merge(partials []Partial) (Result, error) {
	merged := newPartial()
	for _, p := range partials {
		if p.Min < merged.Min {
			merged.Min = p.Min
		}
		if p.Max > merged.Max {
			merged.Max = p.Max
		}
		merged.Sum += p.Sum
		merged.Count += p.Count
	}
	if merged.Count == 0 {
		return Result{}, ErrNoPairs
	}
	return Result{
		Min:   merged.Min,
		Max:   merged.Max,
		Mean:  merged.Sum / float64(merged.Count),
		Pairs: merged.Count,
	}, nil
}

// Options configures a reduction run.
type Options struct {
	// Workers is the number of concurrent reducers. Must be positive.
	Workers int
}

// Run reduces all unordered pairs of [0, n) with a static fork-join: the
// index space is partitioned once, one goroutine reduces each range into an
// exclusively-owned Partial, and the partials are merged single-threaded
// after every worker has finished. No shared state is touched inside the
// pairwise loop.
//
// Cancellation is honored at row granularity; a canceled run returns the
// context error and no partial result.
func Run(ctx context.Context, n int, dist PairDistanceFunc, opts Options) (Result, error) {
	start := time.Now()

	ranges, err := Partition(n, opts.Workers)
	if err != nil {
		return Result{}, err
	}

	partials := make([]Partial, len(ranges))
	workerErrs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for k, rng := range ranges {
		wg.Add(1)
		go func(k int, rng Range) {
			defer wg.Done()
			partials[k], workerErrs[k] = reduceRange(ctx, rng, n, dist)
		}(k, rng)
	}
	wg.Wait()

	for _, err := range workerErrs {
		if err != nil {
			return Result{}, err
		}
	}

	result, err := Merge(partials)
	if err != nil {
		return Result{}, err
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

// reduceRange folds every pair (i, j), i in [rng.Start, rng.End), j in
// (i, n), into a local partial. The full catalog index space is readable:
// the inner loop pairs i against indices well past the range's own end.
func reduceRange(ctx context.Context, rng Range, n int, dist PairDistanceFunc) (Partial, error) {
	p := newPartial()
	for i := rng.Start; i < rng.End; i++ {
		select {
		case <-ctx.Done():
			return Partial{}, ctx.Err()
		default:
		}
		for j := i + 1; j < n; j++ {
			p.observe(dist(i, j))
		}
	}
	return p, nil
}
