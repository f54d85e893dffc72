// Package stat is a self-contained online-statistics utility: running
// mean/variance/min/max with range-bucketed tallies and JSON serialization.
// It is not part of the ads core; callers feed it observed values (e.g. ad
// load latencies) and snapshot it for diagnostics.
package stat

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnsortedBoundaries = errors.New("bucket boundaries must be strictly increasing")

// Running accumulates count, mean, variance (Welford), min and max.
type Running struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	m2    float64
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Add folds one observation into the accumulator.
func (r *Running) Add(x float64) {
	r.Count++
	if r.Count == 1 {
		r.Mean = x
		r.Min = x
		r.Max = x
		r.m2 = 0
		return
	}
	delta := x - r.Mean
	r.Mean += delta / float64(r.Count)
	r.m2 += delta * (x - r.Mean)
	if x < r.Min {
		r.Min = x
	}
	if x > r.Max {
		r.Max = x
	}
}

// Variance returns the sample variance; NaN until two observations exist.
func (r *Running) Variance() float64 {
	if r.Count < 2 {
		return math.NaN()
	}
	return r.m2 / float64(r.Count-1)
}

// StdDev returns the sample standard deviation.
func (r *Running) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// Bins tallies observations into half-open ranges [b[i], b[i+1]). Values
// below the first boundary land in the underflow bucket, values at or above
// the last in the overflow bucket.
type Bins struct {
	Boundaries []float64 `json:"boundaries"`
	Underflow  int64     `json:"underflow"`
	Counts     []int64   `json:"counts"`
	Overflow   int64     `json:"overflow"`
}

// NewBins creates a tally over the given strictly increasing boundaries.
func NewBins(boundaries []float64) (*Bins, error) {
	if !sort.Float64sAreSorted(boundaries) {
		return nil, ErrUnsortedBoundaries
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] == boundaries[i-1] {
			return nil, fmt.Errorf("%w: duplicate %g", ErrUnsortedBoundaries, boundaries[i])
		}
	}
	counts := 0
	if len(boundaries) > 0 {
		counts = len(boundaries) - 1
	}
	return &Bins{
		Boundaries: append([]float64(nil), boundaries...),
		Counts:     make([]int64, counts),
	}, nil
}

// Add tallies one observation.
func (b *Bins) Add(x float64) {
	if len(b.Boundaries) == 0 {
		return
	}
	if x < b.Boundaries[0] {
		b.Underflow++
		return
	}
	if x >= b.Boundaries[len(b.Boundaries)-1] {
		b.Overflow++
		return
	}
	idx := sort.SearchFloat64s(b.Boundaries, x)
	// SearchFloat64s returns the insertion point; an exact boundary match is
	// the start of its own bucket.
	if idx < len(b.Boundaries) && b.Boundaries[idx] == x {
		b.Counts[idx]++
		return
	}
	b.Counts[idx-1]++
}

// Total returns the number of tallied observations including out-of-range.
func (b *Bins) Total() int64 {
	total := b.Underflow + b.Overflow
	for _, c := range b.Counts {
		total += c
	}
	return total
}
