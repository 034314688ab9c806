package products

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
)

// Map2DOptions controls the 2D map. Limits are [min, max] pairs; a nil
// limit spans the data.
type Map2DOptions struct {
	XLim, YLim, ZLim []float64
	XLabel           string
	YLabel           string
	ZLabel           string
	UseIndexInY      bool
	Title            string
	Colormap         string
	Style            render.Style
}

func DefaultMap2DOptions() Map2DOptions {
	return Map2DOptions{
		XLabel:   "Velocity [km/s]",
		YLabel:   "Time [BJD]",
		ZLabel:   "CCF",
		Colormap: "gist_heat",
	}
}

func (o Map2DOptions) withDefaults() Map2DOptions {
	d := DefaultMap2DOptions()
	if o.XLabel == "" && o.YLabel == "" && o.ZLabel == "" {
		o.XLabel, o.YLabel, o.ZLabel = d.XLabel, d.YLabel, d.ZLabel
	}
	if o.Colormap == "" {
		o.Colormap = d.Colormap
	}
	return o
}

func span(rows [][]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		for _, v := range row {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}
	return lo, hi
}

func limit(l []float64, rows ...[]float64) ([2]float64, error) {
	if l != nil {
		if len(l) != 2 {
			return [2]float64{}, fmt.Errorf("limits need two values, received %d", len(l))
		}
		return [2]float64{l[0], l[1]}, nil
	}
	lo, hi := span(rows)
	if lo > hi {
		return [2]float64{}, fmt.Errorf("no finite values to set limits from")
	}
	return [2]float64{lo, hi}, nil
}

// BuildMap2D draws z as a pcolor map. x holds one row of positions per y
// value (use render.RepeatRows for a shared axis) and z one row of values
// per y value.
func BuildMap2D(x [][]float64, y []float64, z [][]float64, opts Map2DOptions) (*render.Figure, error) {
	opts = opts.withDefaults()
	if opts.UseIndexInY {
		y = indices(len(y))
	}

	xl, err := limit(opts.XLim, x...)
	if err != nil {
		return nil, fmt.Errorf("x: %w", err)
	}
	yl, err := limit(opts.YLim, y)
	if err != nil {
		return nil, fmt.Errorf("y: %w", err)
	}
	zl, err := limit(opts.ZLim, z...)
	if err != nil {
		return nil, fmt.Errorf("z: %w", err)
	}

	cm, err := render.Colormap(opts.Colormap)
	if err != nil {
		return nil, err
	}
	if zl[1] <= zl[0] {
		zl[1] = zl[0] + 1
	}
	cm.SetMin(zl[0])
	cm.SetMax(zl[1])

	mesh, err := render.NewColorMesh(x, y, z, cm)
	if err != nil {
		return nil, err
	}
	pn := render.NewPanel(opts.Title, opts.XLabel, opts.YLabel, opts.Style)
	pn.AddMesh(mesh)
	pn.SetLimits(xl[0], xl[1], yl[0], yl[1])

	fig := render.NewFigure("map2d", 1, 2)
	fig.Width, fig.Height = 10*vg.Inch, 7*vg.Inch
	fig.WidthRatios = []float64{12, 1}
	fig.Set(0, 0, pn)
	fig.Set(0, 1, render.NewColorBar(cm, opts.ZLabel, opts.Style))
	return fig, nil
}

// linearAxis maps pixel indices to world values with the CRVAL/CDELT/CRPIX
// keywords of axis n, falling back to the index.
func linearAxis(h fitsdata.Header, n, size int) []float64 {
	crval := h.FloatOr(fmt.Sprintf("CRVAL%d", n), 0)
	cdelt := h.FloatOr(fmt.Sprintf("CDELT%d", n), 1)
	crpix := h.FloatOr(fmt.Sprintf("CRPIX%d", n), 1)
	out := make([]float64, size)
	for i := range out {
		out[i] = crval + (float64(i+1)-crpix)*cdelt
	}
	return out
}

// Map2D plots plane 0 of the primary image as a map, with axes from the
// linear world-coordinate keywords.
func Map2D(path string, opts Map2DOptions, output string) error {
	return withProduct(path, func(p *fitsdata.Product) error {
		img, err := plane(p, fitsdata.PrimaryName, 0)
		if err != nil {
			return err
		}
		hdr, err := p.Header(fitsdata.PrimaryName)
		if err != nil {
			return err
		}
		rows, cols := img.Dims()
		z := make([][]float64, rows)
		for i := range z {
			z[i] = img.RawRowView(i)
		}
		x := render.RepeatRows(linearAxis(hdr, 1, cols), rows)
		y := linearAxis(hdr, 2, rows)

		fig, err := BuildMap2D(x, y, z, opts)
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
}
