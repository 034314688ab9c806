// Package photometry turns catalog magnitudes into differential light curves.
package photometry

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

var (
	ErrLengthMismatch = errors.New("photometry: series lengths differ")
	ErrNoComparisons  = errors.New("photometry: no comparison series")
)

func checkLengths(n int, series ...[]float64) error {
	for _, s := range series {
		if len(s) != n {
			return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(s), n)
		}
	}
	return nil
}

// DifferentialMagnitude returns comp - target recentered on its median, and
// that median. NaN samples stay NaN.
func DifferentialMagnitude(target, comp []float64) (dm []float64, offset float64, err error) {
	if err := checkLengths(len(target), comp); err != nil {
		return nil, math.NaN(), err
	}
	dm = make([]float64, len(target))
	for i := range target {
		dm[i] = comp[i] - target[i]
	}
	offset = robust.NanMedian(dm)
	for i := range dm {
		dm[i] -= offset
	}
	return dm, offset, nil
}

// SumFluxMagnitude converts each comparator to relative flux, sums them per
// sample and converts back to a magnitude. Fluxes are summed in ascending
// order so the result does not depend on the order of comps. A sample whose
// sum is not positive is NaN.
func SumFluxMagnitude(comps [][]float64) ([]float64, error) {
	if len(comps) == 0 {
		return nil, ErrNoComparisons
	}
	n := len(comps[0])
	if err := checkLengths(n, comps[1:]...); err != nil {
		return nil, err
	}

	out := make([]float64, n)
	flux := make([]float64, len(comps))
	for i := 0; i < n; i++ {
		for j, c := range comps {
			flux[j] = math.Pow(10, -0.4*c[i])
		}
		slices.Sort(flux)
		sum := 0.
		for _, f := range flux {
			sum += f
		}
		if !(sum > 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = -2.5 * math.Log10(sum)
	}
	return out, nil
}

// QuadratureError is sqrt(a² + b²) per sample.
func QuadratureError(a, b []float64) ([]float64, error) {
	if err := checkLengths(len(a), b); err != nil {
		return nil, err
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = math.Hypot(a[i], b[i])
	}
	return out, nil
}

// CenteredOffset returns (x - median(x))*scale + shift and the median.
func CenteredOffset(x []float64, scale, shift float64) ([]float64, float64) {
	med := robust.NanMedian(x)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v-med)*scale + shift
	}
	return out, med
}

// RelativeMag returns median(m) - m + shift and the median, so brightening
// plots upwards.
func RelativeMag(m []float64, shift float64) ([]float64, float64) {
	med := robust.NanMedian(m)
	out := make([]float64, len(m))
	for i, v := range m {
		out[i] = med - v + shift
	}
	return out, med
}
