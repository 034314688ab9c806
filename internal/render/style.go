// Package render draws product figures with gonum/plot: styled panels laid
// out on a grid, error-bar and line series, heat maps with percentile
// bounds, color meshes and aperture overlays. Figures are written to an
// image file or shown in gnuplot windows.
package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Style selects font sizes. Slide mode is for projected figures.
type Style struct {
	Slide bool
}

func prepPlot(
	title, xlabel, ylabel string,
	style Style,
) (
	*plot.Plot,
) {

	p := plot.New()
	p.BackgroundColor = color.White
	p.Title.Text = title
	p.Title.TextStyle.Font.Typeface = "Liberation"
	p.Title.TextStyle.Font.Variant = "Sans"

	p.X.Label.Text = xlabel
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.LineStyle.Width = vg.Points(1)
	p.X.Tick.LineStyle.Width = vg.Points(1)
	p.X.Tick.Label.Font.Variant = "Sans"

	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.LineStyle.Width = vg.Points(1)
	p.Y.Tick.LineStyle.Width = vg.Points(1)
	p.Y.Tick.Label.Font.Variant = "Sans"

	p.Legend.TextStyle.Font.Variant = "Sans"
	p.Legend.Top = true
	p.Legend.Padding = vg.Points(4)
	p.Legend.ThumbnailWidth = vg.Points(20)

	if style.Slide {
		p.Title.TextStyle.Font.Size = 32
		p.Title.Padding = font.Length(16)
		p.X.Label.TextStyle.Font.Size = 24
		p.X.Label.Padding = font.Length(8)
		p.X.Tick.Label.Font.Size = 20
		p.Y.Label.TextStyle.Font.Size = 24
		p.Y.Label.Padding = font.Length(8)
		p.Y.Tick.Label.Font.Size = 20
		p.Legend.TextStyle.Font.Size = 18
	} else {
		p.Title.TextStyle.Font.Size = 16
		p.Title.Padding = font.Length(8)
		p.X.Label.TextStyle.Font.Size = 16
		p.X.Label.Padding = font.Length(4)
		p.X.Tick.Label.Font.Size = 12
		p.Y.Label.TextStyle.Font.Size = 16
		p.Y.Label.Padding = font.Length(4)
		p.Y.Tick.Label.Font.Size = 12
		p.Legend.TextStyle.Font.Size = 10
	}

	return p
}

// SetLimits fixes the axis ranges applied when the figure is drawn. NaN
// leaves a bound to autoscale.
func (pn *Panel) SetLimits(xmin, xmax, ymin, ymax float64) {
	pn.limits = [4]float64{xmin, xmax, ymin, ymax}
}

func (pn *Panel) applyLimits() {
	p := pn.Plot
	if v := pn.limits[0]; !math.IsNaN(v) {
		p.X.Min = v
	}
	if v := pn.limits[1]; !math.IsNaN(v) {
		p.X.Max = v
	}
	if v := pn.limits[2]; !math.IsNaN(v) {
		p.Y.Min = v
	}
	if v := pn.limits[3]; !math.IsNaN(v) {
		p.Y.Max = v
	}
}
