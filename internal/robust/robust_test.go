package robust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNanMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "odd length", input: []float64{9, 1, 7, 3, 5}, expected: 5},
		{name: "even length", input: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "ignores NaN", input: []float64{1, math.NaN(), 3}, expected: 2},
		{name: "ignores infinities", input: []float64{math.Inf(1), 2, math.Inf(-1)}, expected: 2},
		{name: "negative values", input: []float64{-5, -1, 0, 3, 7}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NanMedian(tt.input))
		})
	}

	assert.True(t, math.IsNaN(NanMedian(nil)))
	assert.True(t, math.IsNaN(NanMedian([]float64{math.NaN(), math.NaN()})))
}

func TestCenterAndScale(t *testing.T) {
	t.Run("outlier series", func(t *testing.T) {
		center, scale := CenterAndScale([]float64{1, 2, 3, 4, 5, 100})
		assert.Equal(t, 3.5, center)
		// |x-3.5| = 2.5 1.5 .5 .5 1.5 96.5, median 1.5
		assert.InDelta(t, 1.5/0.67449, scale, 1e-12)
	})

	t.Run("symmetric about zero", func(t *testing.T) {
		xs := []float64{-3, -2, -1, 0, 1, 2, 3}
		center, scale := CenterAndScale(xs)
		assert.InDelta(t, 0, center, 1e-15)
		assert.InDelta(t, 2/MADToSigma, scale, 1e-12)
	})

	t.Run("NaN samples are skipped", func(t *testing.T) {
		center, scale := CenterAndScale([]float64{math.NaN(), 1, 2, 3, math.NaN()})
		assert.Equal(t, 2.0, center)
		assert.InDelta(t, 1/MADToSigma, scale, 1e-12)
	})

	t.Run("all NaN", func(t *testing.T) {
		center, scale := CenterAndScale([]float64{math.NaN(), math.NaN()})
		assert.True(t, math.IsNaN(center))
		assert.True(t, math.IsNaN(scale))
	})

	t.Run("empty", func(t *testing.T) {
		center, scale := CenterAndScale(nil)
		assert.True(t, math.IsNaN(center))
		assert.True(t, math.IsNaN(scale))
	})
}

func TestKeepMask(t *testing.T) {
	assert.Equal(t, []bool{true, false, true}, KeepMask([]float64{1, math.NaN(), 3}, 2, 2))

	// the limit itself is rejected
	assert.Equal(t, []bool{true, false, false}, KeepMask([]float64{1, math.NaN(), 3}, 1, 2))
	assert.Equal(t, []bool{false}, KeepMask([]float64{2}, 1, 2))
	assert.Equal(t, []bool{false, true, false}, KeepMask([]float64{5, 0.1, math.Inf(-1)}, 1, 2))

	// a NaN scale rejects everything
	assert.Equal(t, []bool{false, false}, KeepMask([]float64{1, 2}, math.NaN(), 2))
}

func TestKeepAbsMask(t *testing.T) {
	got := KeepAbsMask([]float64{-1, 1, -3, math.NaN(), 2.5}, 1, 3)
	assert.Equal(t, []bool{true, true, false, false, true}, got)
}

func TestAndSelectCount(t *testing.T) {
	m, err := And([]bool{true, true, false}, []bool{true, false, false})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, m)
	assert.Equal(t, 1, Count(m))
	assert.Equal(t, []float64{10}, Select([]float64{10, 20, 30}, m))

	_, err = And([]bool{true}, []bool{true, false})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestNanMeanMaxStd(t *testing.T) {
	xs := []float64{2, math.NaN(), 4, 6}
	assert.Equal(t, 4.0, NanMean(xs))
	assert.Equal(t, 6.0, NanMax(xs))
	assert.InDelta(t, math.Sqrt(8.0/3.0), NanStd(xs), 1e-12)
	assert.True(t, math.IsNaN(NanMax([]float64{math.NaN()})))

	mean, std := MeanStd([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, mean)
	assert.InDelta(t, math.Sqrt(1.25), std, 1e-12)
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, Percentile(xs, 0))
	assert.Equal(t, 5.0, Percentile(xs, 100))
	assert.Equal(t, 3.0, Percentile(xs, 50))
	assert.InDelta(t, 1.04, Percentile(xs, 1), 1e-12)
	assert.InDelta(t, 4.96, Percentile(xs, 99), 1e-12)
	assert.InDelta(t, 2.5, Percentile([]float64{4, 1, math.NaN(), 3, 2}, 50), 1e-12)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestPercentileBounds(t *testing.T) {
	xs := []float64{0.3, 7, -2, 11, 4.5, 9, 1, 1, 6.25}
	for _, p := range []float64{0, 1, 12.5, 50, 98, 99.5, 100} {
		lo, _, err := PercentileBounds(xs, p)
		require.NoError(t, err)
		_, hi, err := PercentileBounds(xs, 100-p)
		require.NoError(t, err)
		assert.Equal(t, lo, hi, "p=%g", p)
	}

	lo, hi, err := PercentileBounds(xs, 99.5)
	require.NoError(t, err)
	assert.Less(t, lo, hi)

	for _, p := range []float64{-1, 100.5, math.NaN()} {
		_, _, err := PercentileBounds(xs, p)
		assert.ErrorIs(t, err, ErrPercentileRange)
	}
}

func TestCombineAxis(t *testing.T) {
	img := mat.NewDense(3, 2, []float64{
		1, 10,
		2, math.NaN(),
		6, 30,
	})

	cols, err := CombineAxis(img, 0, CombineMean)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 20}, cols)

	cols, err = CombineAxis(img, 0, CombineMedian)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 20}, cols)

	rows, err := CombineAxis(img, 1, CombineMean)
	require.NoError(t, err)
	assert.Equal(t, []float64{5.5, 2, 18}, rows)

	_, err = CombineAxis(img, 1, Combine("mode"))
	assert.ErrorIs(t, err, ErrCombineMethod)

	_, err = CombineAxis(img, 2, CombineMean)
	assert.Error(t, err)
}

func TestParseCombine(t *testing.T) {
	c, err := ParseCombine("Median")
	require.NoError(t, err)
	assert.Equal(t, CombineMedian, c)

	_, err = ParseCombine("sum")
	assert.ErrorIs(t, err, ErrCombineMethod)
}
