package products

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/polarimetry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
	"github.com/sparc4-pipeline/sparc4-plots/internal/schema"
)

const (
	width  = 20
	height = 16
)

func frameData(planes int) []float64 {
	data := make([]float64, 0, width*height*planes)
	for k := 0; k < planes; k++ {
		for i := 0; i < height; i++ {
			for j := 0; j < width; j++ {
				data = append(data, float64(100*(k+1)+i*width+j)+math.Sin(float64(i*j)))
			}
		}
	}
	return data
}

func table(t *testing.T, name string, cols map[string][]float64, order ...string) *fitsdata.Table {
	t.Helper()
	tab, err := fitsdata.NewTable(name, order, cols)
	require.NoError(t, err)
	return tab
}

func writeCalFrame(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bias.fits")
	fr, err := fitsdata.NewFrame(width, height, 3, frameData(3))
	require.NoError(t, err)
	w, err := fitsdata.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteImage(fitsdata.PrimaryName, fr))
	require.NoError(t, w.Close())
	return path
}

func writeSciFrame(t *testing.T) string {
	t.Helper()
	s := schema.V1
	path := filepath.Join(t.TempDir(), "sci.fits")
	fr, err := fitsdata.NewFrame(width, height, 1, frameData(1))
	require.NoError(t, err)

	w, err := fitsdata.Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteImage(fitsdata.PrimaryName, fr))
	require.NoError(t, w.WriteTable("CATALOG_PHOT", table(t, "CATALOG_PHOT", map[string][]float64{
		s.XColumn:    {3, 8, 14},
		s.YColumn:    {4, 9, 12},
		s.AperColumn: {2, 2, 2},
	}, s.XColumn, s.YColumn, s.AperColumn)))
	require.NoError(t, w.WriteTable(s.PolarNorth, table(t, s.PolarNorth, map[string][]float64{
		s.XColumn:    {3, 10},
		s.YColumn:    {10, 10},
		s.AperColumn: {1.5, 1.5},
	}, s.XColumn, s.YColumn, s.AperColumn)))
	// the extraordinary beam shares the ordinary aperture and has no APER
	require.NoError(t, w.WriteTable(s.PolarSouth, table(t, s.PolarSouth, map[string][]float64{
		s.XColumn: {3, 10},
		s.YColumn: {4, 4},
	}, s.XColumn, s.YColumn)))
	require.NoError(t, w.Close())
	return path
}

func series(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func writeLightCurve(t *testing.T) string {
	t.Helper()
	s := schema.V1
	n := 40
	time := series(n, func(i int) float64 { return 2460000.5 + float64(i)*0.001 })
	wiggle := func(k int) func(i int) float64 {
		return func(i int) float64 { return 0.002 * math.Sin(float64(i*(k+2))) }
	}

	path := filepath.Join(t.TempDir(), "lc.fits")
	w, err := fitsdata.Create(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteTable(s.TimeCoords, table(t, s.TimeCoords, map[string][]float64{
		s.TimeColumn: time,
		s.X(0):       series(n, func(i int) float64 { return 512 + wiggle(0)(i)*100 }),
		s.Y(0):       series(n, func(i int) float64 { return 480 + wiggle(1)(i)*100 }),
		s.FWHM(0):    series(n, func(i int) float64 { return 4 + wiggle(2)(i)*10 }),
	}, s.TimeColumn, s.X(0), s.Y(0), s.FWHM(0))))

	diff := map[string][]float64{s.TimeColumn: time}
	order := []string{s.TimeColumn}
	for k := 0; k < 3; k++ {
		diff[s.DMag(k)] = series(n, func(i int) float64 { return -1.5 + float64(k) + wiggle(k)(i) })
		diff[s.EDMag(k)] = series(n, func(i int) float64 { return 0.001 })
		order = append(order, s.DMag(k), s.EDMag(k))
	}
	diff[s.EDMag(0)][5] = math.NaN()
	require.NoError(t, w.WriteTable(s.DiffPhotometry, table(t, s.DiffPhotometry, diff, order...)))

	cat := map[string][]float64{s.TimeColumn: time}
	order = []string{s.TimeColumn}
	for id := 0; id < 3; id++ {
		cat[s.Mag(id)] = series(n, func(i int) float64 { return 12 + float64(id) + wiggle(id)(i) })
		cat[s.EMag(id)] = series(n, func(i int) float64 { return 0.002 })
		order = append(order, s.Mag(id), s.EMag(id))
	}
	cat[s.SkyMag(0)] = series(n, func(i int) float64 { return 19 + wiggle(2)(i) })
	cat[s.ESkyMag(0)] = series(n, func(i int) float64 { return 0.01 })
	order = append(order, s.SkyMag(0), s.ESkyMag(0))
	require.NoError(t, w.WriteTable(s.PhotCatalog, table(t, s.PhotCatalog, cat, order...)))

	require.NoError(t, polarimetry.WriteResult(w, DefaultResultExt, polarimetry.Result{
		WaveplateAngles: []float64{0, 22.5, 45, 67.5, 90, 112.5, 135, 157.5},
		Zi: []polarimetry.Quantity{
			{Nominal: 0.011, StdDev: 0.001}, {Nominal: -0.019, StdDev: 0.001},
			{Nominal: -0.010, StdDev: 0.001}, {Nominal: 0.021, StdDev: 0.001},
			{Nominal: 0.009, StdDev: 0.001}, {Nominal: -0.020, StdDev: 0.001},
			{Nominal: -0.011, StdDev: 0.001}, {Nominal: 0.019, StdDev: 0.001},
		},
		Q:     polarimetry.Quantity{Nominal: 0.01, StdDev: 0.0004},
		U:     polarimetry.Quantity{Nominal: -0.02, StdDev: 0.0004},
		V:     polarimetry.Quantity{Nominal: 0, StdDev: 0},
		P:     polarimetry.Quantity{Nominal: 0.0224, StdDev: 0.0004},
		Theta: polarimetry.Quantity{Nominal: 148.3, StdDev: 0.5},
		K:     polarimetry.Quantity{Nominal: 1, StdDev: 0},
		Zero:  polarimetry.Quantity{Nominal: 0, StdDev: 0},
	}))
	require.NoError(t, w.Close())
	return path
}

func open(t *testing.T, path string) *fitsdata.Product {
	t.Helper()
	p, err := fitsdata.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func assertFile(t *testing.T, path string) {
	t.Helper()
	st, err := os.Stat(path)
	require.NoError(t, err, path)
	assert.Greater(t, st.Size(), int64(0))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "out/lc_coords.png", WithSuffix("out/lc.png", "coords"))
	assert.Equal(t, "lc_dmag", WithSuffix("lc", "dmag"))
	assert.Equal(t, "", WithSuffix("", "dmag"))
}

func TestCalFrame(t *testing.T) {
	p := open(t, writeCalFrame(t))

	opts := DefaultCalFrameOptions()
	opts.XCut, opts.YCut = 5, 7
	fig, err := BuildCalFrame(p, opts)
	require.NoError(t, err)
	assert.Len(t, fig.Panels(), 6)
	assert.Contains(t, fig.Panel(0, 0).Plot.Title.Text, "image: mean:")
	assert.Contains(t, fig.Panel(0, 1).Plot.Title.Text, "noise: mean:")
	assert.Equal(t, "flux", fig.Panel(1, 0).Plot.Y.Label.Text)

	opts.CombineRows, opts.CombineCols = true, true
	opts.Method = robust.CombineMedian
	fig, err = BuildCalFrame(p, opts)
	require.NoError(t, err)
	assert.Equal(t, "median flux", fig.Panel(1, 0).Plot.Y.Label.Text)
	assert.Equal(t, "median flux", fig.Panel(2, 0).Plot.Y.Label.Text)

	out := filepath.Join(t.TempDir(), "cal.png")
	require.NoError(t, CalFrame(p.Path(), opts, out))
	assertFile(t, out)
}

func TestCalFrameErrors(t *testing.T) {
	p := open(t, writeCalFrame(t))

	opts := DefaultCalFrameOptions()
	opts.XCut, opts.YCut = 5, 7
	opts.Method = "mode"
	_, err := BuildCalFrame(p, opts)
	assert.ErrorIs(t, err, robust.ErrCombineMethod)

	_, err = BuildCalFrame(p, DefaultCalFrameOptions())
	assert.ErrorContains(t, err, "outside")

	sci := open(t, writeSciFrame(t))
	opts.Method = robust.CombineMean
	_, err = BuildCalFrame(sci, opts)
	assert.ErrorContains(t, err, "noise planes")
}

func TestSciFrame(t *testing.T) {
	path := writeSciFrame(t)
	p := open(t, path)

	opts := DefaultSciFrameOptions()
	opts.CatalogExt = 1
	opts.NStars = 10
	fig, err := BuildSciFrame(p, opts)
	require.NoError(t, err)
	assert.Len(t, fig.Panels(), 1)

	opts.CatalogName = "CATALOG_PHOT"
	out := filepath.Join(t.TempDir(), "sci.png")
	require.NoError(t, SciFrame(path, opts, out))
	assertFile(t, out)

	opts.CatalogName = ""
	opts.CatalogExt = 0
	_, err = BuildSciFrame(p, opts)
	assert.ErrorIs(t, err, fitsdata.ErrNotTable)
}

func TestSciPolarFrame(t *testing.T) {
	path := writeSciFrame(t)
	out := filepath.Join(t.TempDir(), "polar.png")
	require.NoError(t, SciPolarFrame(path, DefaultSciPolarFrameOptions(), out))
	assertFile(t, out)

	_, err := BuildSciPolarFrame(open(t, writeCalFrame(t)), SciPolarFrameOptions{})
	assert.ErrorIs(t, err, fitsdata.ErrNoHDU)
}

func TestDiffLightCurve(t *testing.T) {
	path := writeLightCurve(t)
	p := open(t, path)

	opts := DefaultDiffLightCurveOptions()
	opts.Comps = []int{7, 9}
	opts.PlotComps = true
	fig, set, err := BuildDiffLightCurve(p, opts)
	require.NoError(t, err)
	require.NotNil(t, fig)
	require.Len(t, set.Curves, 3)
	assert.Equal(t, "SUM", set.Curves[0].Label)
	assert.Equal(t, "C007", set.Curves[1].Label)
	assert.Equal(t, "C009", set.Curves[2].Label)
	assert.False(t, set.Curves[0].Keep[5])
	assert.InDelta(t, 1.5, set.Curves[0].Offset, 0.01)
	assert.False(t, math.IsNaN(set.Baseline))

	out := filepath.Join(t.TempDir(), "difflc.png")
	got, err := DiffLightCurve(path, opts, out)
	require.NoError(t, err)
	assert.Len(t, got.Curves, 3)
	assertFile(t, out)
}

func TestLightCurve(t *testing.T) {
	path := writeLightCurve(t)
	p := open(t, path)

	opts := DefaultLightCurveOptions()
	opts.Comps = []int{1, 2}
	figs, res, err := BuildLightCurve(p, opts)
	require.NoError(t, err)
	require.Len(t, figs, 3)
	assert.Equal(t, []string{"coords", "rawmags", "dmag"}, []string{figs[0].Name, figs[1].Name, figs[2].Name})
	require.Len(t, res.Curves, 2)
	require.NotNil(t, res.Sum)
	assert.Equal(t, "C1", res.Curves[0].Label)
	assert.Equal(t, "SUM", res.All()[0].Label)
	assert.InDelta(t, 1.0, res.Curves[0].Offset, 0.01)

	opts.PlotCoords, opts.PlotRawMags = false, false
	figs, _, err = BuildLightCurve(p, opts)
	require.NoError(t, err)
	assert.Len(t, figs, 1)

	out := filepath.Join(t.TempDir(), "lc.png")
	_, err = LightCurve(path, DefaultLightCurveOptions(), out)
	require.NoError(t, err)
	for _, suffix := range []string{"coords", "rawmags"} {
		assertFile(t, WithSuffix(out, suffix))
	}
	_, err = os.Stat(WithSuffix(out, "dmag"))
	assert.True(t, os.IsNotExist(err), "no comparisons and no sum means no dmag figure")

	opts.Comps = []int{42}
	_, _, err = BuildLightCurve(p, opts)
	assert.ErrorIs(t, err, fitsdata.ErrMissingColumn)
}

func TestPolarimetryResults(t *testing.T) {
	path := writeLightCurve(t)
	out := filepath.Join(t.TempDir(), "polar.png")
	r, err := PolarimetryResults(path, DefaultPolarimetryOptions(), out)
	require.NoError(t, err)
	assert.Len(t, r.Zi, 8)
	assertFile(t, out)

	opts := DefaultPolarimetryOptions()
	opts.WavePlate = polarimetry.QuarterWave
	opts.Title = "HD 110984"
	fig, err := BuildPolarimetryResults(r, opts)
	require.NoError(t, err)
	assert.Contains(t, fig.Panel(0, 0).Plot.Title.Text, "HD 110984\nq: 1.00+-0.04 %")
	assert.Contains(t, fig.Panel(0, 0).Plot.Title.Text, "v: ")

	flat := polarimetry.ModelFunc(func(angles []float64, _ polarimetry.Result) []float64 {
		return make([]float64, len(angles))
	})
	opts.Model = flat
	_, err = BuildPolarimetryResults(r, opts)
	require.NoError(t, err)

	opts.WavePlate = "fullwave"
	_, err = BuildPolarimetryResults(r, opts)
	assert.ErrorIs(t, err, polarimetry.ErrWavePlate)

	opts = DefaultPolarimetryOptions()
	opts.Sampling = -1
	_, err = BuildPolarimetryResults(r, opts)
	assert.Error(t, err)
}

func TestMap2D(t *testing.T) {
	x := []float64{-10, -5, 0, 5, 10}
	y := []float64{2460000.1, 2460000.2, 2460000.3}
	z := [][]float64{{0, 1, 2, 1, 0}, {0, 2, 4, 2, 0}, {0, 1, 2, 1, 0}}

	fig, err := BuildMap2D(render.RepeatRows(x, len(y)), y, z, Map2DOptions{UseIndexInY: true})
	require.NoError(t, err)
	assert.Len(t, fig.Panels(), 2)
	assert.Equal(t, "Velocity [km/s]", fig.Panel(0, 0).Plot.X.Label.Text)

	_, err = BuildMap2D(render.RepeatRows(x, len(y)), y, z, Map2DOptions{ZLim: []float64{1}})
	assert.Error(t, err)
	_, err = BuildMap2D(render.RepeatRows(x, len(y)), y, z, Map2DOptions{Colormap: "jet"})
	assert.ErrorIs(t, err, render.ErrColormap)

	out := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, Map2D(writeCalFrame(t), Map2DOptions{Title: "bias"}, out))
	assertFile(t, out)
}

func TestLimit(t *testing.T) {
	l, err := limit(nil, []float64{3, math.NaN(), -1}, []float64{7})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-1, 7}, l)

	l, err = limit([]float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 1}, l)

	_, err = limit(nil, []float64{math.NaN()})
	assert.Error(t, err)
}
