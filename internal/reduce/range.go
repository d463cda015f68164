package reduce

import (
	"errors"
	"fmt"
)

// Range is a half-open slice [Start, End) of catalog indices. The worker
// that owns a range evaluates every pair (i, j) with i in the range and
// j > i, up to the full catalog size.
type Range struct {
	Start int
	End   int
}

// Len returns the number of first-pair indices the range owns.
func (r Range) Len() int {
	return r.End - r.Start
}

// ErrInvalidWorkerCount reports a non-positive worker count. It is detected
// before any worker starts.
var ErrInvalidWorkerCount = errors.New("worker count must be positive")

// Partition splits the index space [0, n) into exactly `workers` contiguous
// disjoint ranges whose union covers [0, n). The division is even with the
// remainder absorbed by the last range; when workers exceeds n, early ranges
// are empty and the last range carries everything.
func Partition(n, workers int) ([]Range, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("partition %d indices: %w (got %d)", n, ErrInvalidWorkerCount, workers)
	}
	if n < 0 {
		n = 0
	}

	size := n / workers
	ranges := make([]Range, workers)
	for k := 0; k < workers-1; k++ {
		ranges[k] = Range{Start: k * size, End: (k + 1) * size}
	}
	ranges[workers-1] = Range{Start: (workers - 1) * size, End: n}
	return ranges, nil
}

// PairCount returns the number of unordered pairs in a catalog of n points.
func PairCount(n int) uint64 {
	if n < 2 {
		return 0
	}
	return uint64(n) * uint64(n-1) / 2
}
