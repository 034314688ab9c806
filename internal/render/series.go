package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Panel is one set of axes in a Figure. XY layers are also recorded so the
// panel can be replayed in a gnuplot window.
type Panel struct {
	Plot *plot.Plot

	limits [4]float64
	series []series
	image  bool
}

type series struct {
	name  string
	style string
	x, y  []float64
}

// NewPanel returns an empty, styled panel.
func NewPanel(title, xlabel, ylabel string, style Style) *Panel {
	nan := math.NaN()
	return &Panel{
		Plot:   prepPlot(title, xlabel, ylabel, style),
		limits: [4]float64{nan, nan, nan, nan},
	}
}

type ErrorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// buildData pairs x and y, dropping points where either is not finite.
func buildData(
	x, y []float64,
) (
	plotter.XYs,
	error,
) {

	if len(x) != len(y) {
		return nil, fmt.Errorf("render: %d x values but %d y values", len(x), len(y))
	}
	xy := make(plotter.XYs, 0, len(x))
	for i := range x {
		if finite(x[i], y[i]) {
			xy = append(xy, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return xy, nil
}

// buildErrors is buildData with symmetric y errors; a point is dropped
// when its error is not finite either.
func buildErrors(
	x, y, σ []float64,
) (
	ErrorPoints,
	error,
) {

	if len(x) != len(y) || len(x) != len(σ) {
		return ErrorPoints{}, fmt.Errorf("render: lengths differ (x %d, y %d, err %d)", len(x), len(y), len(σ))
	}
	var pts ErrorPoints
	for i := range x {
		if !finite(x[i], y[i], σ[i]) {
			continue
		}
		pts.XYs = append(pts.XYs, plotter.XY{X: x[i], Y: y[i]})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{σ[i], σ[i]})
	}
	return pts, nil
}

func (pn *Panel) record(name, style string, xy plotter.XYs) {
	s := series{name: name, style: style}
	for _, p := range xy {
		s.x = append(s.x, p.X)
		s.y = append(s.y, p.Y)
	}
	pn.series = append(pn.series, s)
}

// Fade returns c with the given opacity in [0, 1].
func Fade(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(math.Round(255 * alpha))}
}

// AddErrorSeries draws points with symmetric y error bars.
func (pn *Panel) AddErrorSeries(
	label string,
	x, y, yerr []float64,
	c color.Color,
) error {

	pts, err := buildErrors(x, y, yerr)
	if err != nil {
		return err
	}
	if len(pts.XYs) == 0 {
		return nil
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(1.5)
	sc.Shape = draw.CircleGlyph{}

	e, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	e.LineStyle.Color = c
	e.LineStyle.Width = vg.Points(0.5)
	e.CapWidth = vg.Points(2)

	pn.Plot.Add(e, sc)
	if label != "" {
		pn.Plot.Legend.Add(label, sc)
	}
	pn.record(label, "points", pts.XYs)
	return nil
}

// AddScatter draws unconnected markers.
func (pn *Panel) AddScatter(
	label string,
	x, y []float64,
	c color.Color,
	shape draw.GlyphDrawer,
	radius vg.Length,
) error {

	xy, err := buildData(x, y)
	if err != nil {
		return err
	}
	if len(xy) == 0 {
		return nil
	}
	sc, err := plotter.NewScatter(xy)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = radius
	sc.Shape = shape
	pn.Plot.Add(sc)
	if label != "" {
		pn.Plot.Legend.Add(label, sc)
	}
	pn.record(label, "points", xy)
	return nil
}

// AddLineSeries draws a polyline through the finite points.
func (pn *Panel) AddLineSeries(
	label string,
	x, y []float64,
	c color.Color,
	dashed bool,
) error {

	xy, err := buildData(x, y)
	if err != nil {
		return err
	}
	if len(xy) == 0 {
		return nil
	}
	l, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	}
	pn.Plot.Add(l)
	if label != "" {
		pn.Plot.Legend.Add(label, l)
	}
	pn.record(label, "lines", xy)
	return nil
}

// AddHLine draws a horizontal line at y from xmin to xmax.
func (pn *Panel) AddHLine(y, xmin, xmax float64, c color.Color, dashed bool) error {
	return pn.AddLineSeries("", []float64{xmin, xmax}, []float64{y, y}, c, dashed)
}

// AddLabels writes text next to data points.
func (pn *Panel) AddLabels(
	x, y []float64,
	text []string,
	c color.Color,
	size vg.Length,
) error {

	if len(text) != len(x) {
		return fmt.Errorf("render: %d labels for %d points", len(text), len(x))
	}
	var xyl plotter.XYLabels
	for i := range x {
		if i < len(y) && finite(x[i], y[i]) {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: x[i], Y: y[i]})
			xyl.Labels = append(xyl.Labels, text[i])
		}
	}
	if len(xyl.XYs) == 0 {
		return nil
	}
	l, err := plotter.NewLabels(xyl)
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Color = c
		l.TextStyle[i].Font.Size = size
	}
	pn.Plot.Add(l)
	return nil
}

// AddRings draws circles whose radius is given in data units.
func (pn *Panel) AddRings(x, y []float64, radius float64, c color.Color) error {
	xy, err := buildData(x, y)
	if err != nil {
		return err
	}
	if len(xy) == 0 || !(radius > 0) {
		return nil
	}
	r := &Rings{XYs: xy, Radius: radius}
	r.LineStyle = draw.LineStyle{Color: c, Width: vg.Points(1.5)}
	pn.Plot.Add(r)
	return nil
}

// Rings is a plotter of circles with a radius in data coordinates, used for
// photometric apertures.
type Rings struct {
	plotter.XYs
	Radius    float64
	LineStyle draw.LineStyle
}

func (r *Rings) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	c.SetLineStyle(r.LineStyle)
	for _, p := range r.XYs {
		center := vg.Point{X: trX(p.X), Y: trY(p.Y)}
		rad := trX(p.X+r.Radius) - center.X
		if rad <= 0 {
			continue
		}
		var path vg.Path
		path.Move(vg.Point{X: center.X + rad, Y: center.Y})
		path.Arc(center, rad, 0, 2*math.Pi)
		path.Close()
		c.Stroke(path)
	}
}

func (r *Rings) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax, ymin, ymax = plotter.XYRange(r.XYs)
	return xmin - r.Radius, xmax + r.Radius, ymin - r.Radius, ymax + r.Radius
}
