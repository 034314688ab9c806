package robust

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var ErrPercentileRange = errors.New("robust: percentile must be within [0, 100]")

// Percentile interpolates linearly between the closest ranks of the finite
// values, the numpy default.
func Percentile(xs []float64, p float64) float64 {
	cp := Finite(xs)
	if len(cp) == 0 || math.IsNaN(p) {
		return math.NaN()
	}
	slices.Sort(cp)
	return sortedPercentile(cp, p)
}

func sortedPercentile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// PercentileBounds returns the display range used for images: the low bound is
// the (100-p)th percentile and the high bound the pth.
func PercentileBounds(xs []float64, p float64) (lo, hi float64, err error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: %g", ErrPercentileRange, p)
	}
	cp := Finite(xs)
	if len(cp) == 0 {
		return math.NaN(), math.NaN(), nil
	}
	slices.Sort(cp)
	return sortedPercentile(cp, 100-p), sortedPercentile(cp, p), nil
}
