package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

const paletteSize = 255

// matrixGrid exposes a matrix as a heat-map grid with pixel-index
// coordinates; row 0 is at the bottom.
type matrixGrid struct {
	m mat.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g matrixGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

func values(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}

// AddImage draws img as a heat map with display bounds at the
// (100-percentile, percentile) percentiles of its finite pixels, and
// returns those bounds in increasing order. A flat image gets a unit range
// above its value.
func (pn *Panel) AddImage(
	img mat.Matrix,
	percentile float64,
	cmap string,
) (
	lo, hi float64,
	err error,
) {

	lo, hi, err = robust.PercentileBounds(values(img), percentile)
	if err != nil {
		return lo, hi, err
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return lo, hi, fmt.Errorf("render: image has no finite pixels")
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		hi = lo + 1
	}

	cm, err := Colormap(cmap)
	if err != nil {
		return lo, hi, err
	}
	pal := cm.Palette(paletteSize)
	colors := pal.Colors()

	hm := plotter.NewHeatMap(matrixGrid{m: img}, pal)
	hm.Min, hm.Max = lo, hi
	hm.Underflow = colors[0]
	hm.Overflow = colors[len(colors)-1]
	hm.NaN = color.Transparent
	hm.Rasterized = true

	pn.Plot.Add(hm)
	pn.image = true
	return lo, hi, nil
}

// ColorMesh fills quadrilateral cells like a pcolor map: the value Z[n][k]
// colors the cell spanned by X[n][k], X[n][k+1], X[n+1][k], X[n+1][k+1] and
// Y[n], Y[n+1]. Values are clipped to the color map range.
type ColorMesh struct {
	X        [][]float64
	Y        []float64
	Z        [][]float64
	ColorMap palette.ColorMap
}

// NewColorMesh checks that z has one row per y value and that every row of
// z matches its row of x.
func NewColorMesh(
	x [][]float64,
	y []float64,
	z [][]float64,
	cm palette.ColorMap,
) (
	*ColorMesh,
	error,
) {

	if len(x) != len(y) || len(z) != len(y) {
		return nil, fmt.Errorf("render: mesh needs one x row and one z row per y value (x %d, y %d, z %d)", len(x), len(y), len(z))
	}
	for n := range z {
		if len(z[n]) != len(x[n]) {
			return nil, fmt.Errorf("render: mesh row %d has %d x values but %d z values", n, len(x[n]), len(z[n]))
		}
	}
	return &ColorMesh{X: x, Y: y, Z: z, ColorMap: cm}, nil
}

// RepeatRows uses the same x vector for every one of n rows.
func RepeatRows(x []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}

func (m *ColorMesh) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	lo, hi := m.ColorMap.Min(), m.ColorMap.Max()
	for n := 0; n+1 < len(m.Y); n++ {
		k1 := min(len(m.X[n]), len(m.X[n+1]), len(m.Z[n]))
		for k := 0; k+1 < k1; k++ {
			z := m.Z[n][k]
			corners := []float64{m.X[n][k], m.X[n][k+1], m.X[n+1][k+1], m.X[n+1][k], m.Y[n], m.Y[n+1]}
			if !finite(append(corners, z)...) {
				continue
			}
			col, err := m.ColorMap.At(math.Min(math.Max(z, lo), hi))
			if err != nil {
				continue
			}
			pts := []vg.Point{
				{X: trX(m.X[n][k]), Y: trY(m.Y[n])},
				{X: trX(m.X[n][k+1]), Y: trY(m.Y[n])},
				{X: trX(m.X[n+1][k+1]), Y: trY(m.Y[n+1])},
				{X: trX(m.X[n+1][k]), Y: trY(m.Y[n+1])},
			}
			c.FillPolygon(col, c.ClipPolygonXY(pts))
		}
	}
}

func (m *ColorMesh) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, row := range m.X {
		for _, v := range row {
			if finite(v) {
				xmin, xmax = math.Min(xmin, v), math.Max(xmax, v)
			}
		}
	}
	for _, v := range m.Y {
		if finite(v) {
			ymin, ymax = math.Min(ymin, v), math.Max(ymax, v)
		}
	}
	return xmin, xmax, ymin, ymax
}

// AddMesh draws a color mesh on the panel.
func (pn *Panel) AddMesh(m *ColorMesh) {
	pn.Plot.Add(m)
	pn.image = true
}

// NewColorBar returns a narrow panel holding a vertical color bar for cm.
func NewColorBar(cm palette.ColorMap, label string, style Style) *Panel {
	pn := NewPanel("", "", label, style)
	pn.Plot.HideX()
	pn.Plot.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: paletteSize})
	pn.image = true
	return pn
}
