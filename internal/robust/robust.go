// Package robust holds the NaN-tolerant descriptive statistics shared by the
// product plots: medians, MAD-based scatter, keep masks and percentiles.
package robust

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// MADToSigma converts a median absolute deviation into a Gaussian sigma.
const MADToSigma = 0.67449

var ErrLengthMismatch = errors.New("robust: series lengths differ")

// Finite returns the finite values of xs in their original order.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// NanMedian is the median of the finite values, NaN when there are none.
func NanMedian(xs []float64) float64 {
	cp := Finite(xs)
	slices.Sort(cp)
	return median(cp)
}

// NanMean is the mean of the finite values, NaN when there are none.
func NanMean(xs []float64) float64 {
	cp := Finite(xs)
	if len(cp) == 0 {
		return math.NaN()
	}
	return stat.Mean(cp, nil)
}

// NanMax is the largest finite value, NaN when there are none.
func NanMax(xs []float64) float64 {
	m := math.NaN()
	for _, v := range Finite(xs) {
		if math.IsNaN(m) || v > m {
			m = v
		}
	}
	return m
}

// NanStd is the population standard deviation of the finite values.
func NanStd(xs []float64) float64 {
	_, std := MeanStd(Finite(xs))
	return std
}

// MeanStd returns the mean and population standard deviation of xs, the
// numpy mean/std pair. Non-finite input propagates into the result.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	return stat.PopMeanStdDev(xs, nil)
}

// CenterAndScale returns the median of the finite values and the MAD about it
// scaled to a Gaussian sigma. Both are NaN when nothing is finite.
func CenterAndScale(xs []float64) (center, scale float64) {
	cp := Finite(xs)
	if len(cp) == 0 {
		return math.NaN(), math.NaN()
	}
	slices.Sort(cp)
	center = median(cp)

	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - center)
	}
	slices.Sort(dev)
	return center, median(dev) / MADToSigma
}

// KeepMask marks values[i] < nsig*scale. NaN on either side compares false,
// which is how missing samples drop out of the plots.
func KeepMask(values []float64, scale, nsig float64) []bool {
	limit := nsig * scale
	keep := make([]bool, len(values))
	for i, v := range values {
		keep[i] = !math.IsInf(v, 0) && v < limit
	}
	return keep
}

// KeepAbsMask is KeepMask applied to |values[i]|.
func KeepAbsMask(values []float64, scale, nsig float64) []bool {
	limit := nsig * scale
	keep := make([]bool, len(values))
	for i, v := range values {
		keep[i] = !math.IsInf(v, 0) && math.Abs(v) < limit
	}
	return keep
}

// And combines masks elementwise. Masks must share a length.
func And(masks ...[]bool) ([]bool, error) {
	if len(masks) == 0 {
		return nil, nil
	}
	out := slices.Clone(masks[0])
	for _, m := range masks[1:] {
		if len(m) != len(out) {
			return nil, ErrLengthMismatch
		}
		for i := range out {
			out[i] = out[i] && m[i]
		}
	}
	return out, nil
}

// Select returns the values whose mask entry is true.
func Select(values []float64, keep []bool) []float64 {
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if i < len(keep) && keep[i] {
			out = append(out, v)
		}
	}
	return out
}

// Count is the number of true entries.
func Count(keep []bool) int {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	return n
}
