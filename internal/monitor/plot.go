package monitor

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
)

// Plot draws max flux against UT with one marker color per filter.
func Plot(s Series, style render.Style) (*render.Figure, error) {
	pn := render.NewPanel("", "Time (UT)", "Max Flux (ADU)", style)
	pn.Plot.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}

	for i, f := range s.Filters {
		obs := s.ByFilter[f]
		x := make([]float64, len(obs))
		y := make([]float64, len(obs))
		for j, o := range obs {
			x[j] = float64(o.Time.UnixNano()) / 1e9
			y[j] = o.MaxFlux
		}
		if err := pn.AddScatter("Filter "+f, x, y, render.Palette(i, false), draw.CircleGlyph{}, vg.Points(3)); err != nil {
			return nil, err
		}
	}

	fig := render.Single("monitor", pn)
	fig.Width, fig.Height = 12*vg.Inch, 6*vg.Inch
	return fig, nil
}
