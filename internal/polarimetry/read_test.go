package polarimetry

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
)

func TestResultRoundTrip(t *testing.T) {
	in := Result{
		WaveplateAngles: []float64{0, 22.5, 45, 67.5},
		Zi: []Quantity{
			{Nominal: 0.01, StdDev: 0.001},
			{Nominal: -0.02, StdDev: 0.001},
			{Nominal: -0.01, StdDev: 0.002},
			{Nominal: 0.02, StdDev: 0.001},
		},
		Q:     Quantity{Nominal: 0.01, StdDev: 0.0005},
		U:     Quantity{Nominal: -0.02, StdDev: 0.0005},
		V:     Quantity{Nominal: math.NaN(), StdDev: math.NaN()},
		P:     Quantity{Nominal: 0.0224, StdDev: 0.0005},
		Theta: Quantity{Nominal: 148.3, StdDev: 0.6},
		K:     Quantity{Nominal: 1.01, StdDev: 0.01},
		Zero:  Quantity{Nominal: 0, StdDev: 0},
	}

	path := filepath.Join(t.TempDir(), "polar.fits")
	w, err := fitsdata.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteResult(w, "POLAR_RESULT", in))
	require.NoError(t, w.Close())

	p, err := fitsdata.Open(path)
	require.NoError(t, err)
	defer p.Close()
	tab, err := p.Table("POLAR_RESULT")
	require.NoError(t, err)
	hdr, err := p.Header("POLAR_RESULT")
	require.NoError(t, err)

	out, err := ReadResult(tab, hdr)
	require.NoError(t, err)
	assert.Equal(t, in.WaveplateAngles, out.WaveplateAngles)
	assert.Equal(t, in.ZiNominal(), out.ZiNominal())
	assert.Equal(t, in.ZiStdDev(), out.ZiStdDev())
	assert.InDelta(t, 0.01, out.Q.Nominal, 1e-12)
	assert.InDelta(t, 0.0005, out.U.StdDev, 1e-12)
	assert.InDelta(t, 148.3, out.Theta.Nominal, 1e-9)
	assert.True(t, math.IsNaN(out.V.Nominal))
	assert.True(t, math.IsNaN(out.V.StdDev))
}

func TestReadResultMissingColumns(t *testing.T) {
	tab, err := fitsdata.NewTable("X", []string{ColAngle}, map[string][]float64{ColAngle: {0, 45}})
	require.NoError(t, err)
	_, err = ReadResult(tab, fitsdata.Header{})
	assert.ErrorIs(t, err, fitsdata.ErrMissingColumn)
}
