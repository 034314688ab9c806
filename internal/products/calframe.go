package products

import (
	"fmt"

	"gonum.org/v1/plot/vg"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

// CalFrameOptions controls the calibration frame figure.
type CalFrameOptions struct {
	Percentile  float64
	XCut        int
	YCut        int
	CombineRows bool
	CombineCols bool
	Method      robust.Combine
	Colormap    string
	Style       render.Style
}

// DefaultCalFrameOptions cuts through pixel 512 on both axes.
func DefaultCalFrameOptions() CalFrameOptions {
	return CalFrameOptions{
		Percentile: 99.5,
		XCut:       512,
		YCut:       512,
		Method:     robust.CombineMean,
		Colormap:   "viridis",
	}
}

func (o CalFrameOptions) withDefaults() CalFrameOptions {
	d := DefaultCalFrameOptions()
	if o.Percentile == 0 {
		o.Percentile = d.Percentile
	}
	if o.Method == "" {
		o.Method = d.Method
	}
	if o.Colormap == "" {
		o.Colormap = d.Colormap
	}
	return o
}

// BuildCalFrame lays out a master bias or flat: the image and noise planes
// on top, and under each a row cut (or column-combined profile) and a
// column cut (or row-combined profile).
func BuildCalFrame(p *fitsdata.Product, opts CalFrameOptions) (*render.Figure, error) {
	opts = opts.withDefaults()
	if _, err := robust.ParseCombine(string(opts.Method)); err != nil {
		return nil, err
	}

	fr, err := p.Image(fitsdata.PrimaryName)
	if err != nil {
		return nil, err
	}
	if fr.Planes < 2 {
		return nil, fmt.Errorf("calibration frame %s needs image and noise planes, found %d", p.Path(), fr.Planes)
	}
	img, err := fr.Plane(0)
	if err != nil {
		return nil, err
	}
	noise, err := fr.Plane(1)
	if err != nil {
		return nil, err
	}

	rows, cols := img.Dims()
	if opts.YCut < 0 || opts.YCut >= rows || opts.XCut < 0 || opts.XCut >= cols {
		return nil, fmt.Errorf("cut (x=%d, y=%d) outside the %dx%d frame", opts.XCut, opts.YCut, cols, rows)
	}
	x, y := indices(cols), indices(rows)

	fig := render.NewFigure("calframe", 3, 2)
	fig.Width, fig.Height = 16*vg.Inch, 8*vg.Inch
	fig.HeightRatios = []float64{4, 1, 1}

	imgPanel := render.NewPanel(meanStdTitle("image", img), pixelX, pixelY, opts.Style)
	if _, _, err := imgPanel.AddImage(img, opts.Percentile, opts.Colormap); err != nil {
		return nil, err
	}
	fig.Set(0, 0, imgPanel)

	rowPanel := render.NewPanel("", pixelX, "flux", opts.Style)
	if opts.CombineRows {
		prof, err := robust.CombineAxis(img, 0, opts.Method)
		if err != nil {
			return nil, err
		}
		rowPanel.Plot.Y.Label.Text = fmt.Sprintf("%s flux", opts.Method)
		if err := rowPanel.AddLineSeries("", x, prof, render.Palette(2, true), false); err != nil {
			return nil, err
		}
	} else if err := rowPanel.AddLineSeries("", x, img.RawRowView(opts.YCut), render.Palette(2, true), false); err != nil {
		return nil, err
	}
	fig.Set(1, 0, rowPanel)

	colPanel := render.NewPanel("", pixelY, "flux", opts.Style)
	if opts.CombineCols {
		prof, err := robust.CombineAxis(img, 1, opts.Method)
		if err != nil {
			return nil, err
		}
		colPanel.Plot.Y.Label.Text = fmt.Sprintf("%s flux", opts.Method)
		if err := colPanel.AddLineSeries("", y, prof, render.Palette(2, true), false); err != nil {
			return nil, err
		}
	} else {
		cut := make([]float64, rows)
		for i := range cut {
			cut[i] = img.At(i, opts.XCut)
		}
		if err := colPanel.AddLineSeries("", y, cut, render.Palette(2, true), false); err != nil {
			return nil, err
		}
	}
	fig.Set(2, 0, colPanel)

	noisePanel := render.NewPanel(meanStdTitle("noise", noise), pixelX, pixelY, opts.Style)
	if _, _, err := noisePanel.AddImage(noise, opts.Percentile, opts.Colormap); err != nil {
		return nil, err
	}
	fig.Set(0, 1, noisePanel)

	noiseRow := render.NewPanel("", pixelX, "σ", opts.Style)
	if err := noiseRow.AddLineSeries("", x, noise.RawRowView(opts.YCut), render.Palette(1, true), false); err != nil {
		return nil, err
	}
	fig.Set(1, 1, noiseRow)

	noiseCol := render.NewPanel("", pixelY, "σ", opts.Style)
	ncut := make([]float64, rows)
	for i := range ncut {
		ncut[i] = noise.At(i, opts.XCut)
	}
	if err := noiseCol.AddLineSeries("", y, ncut, render.Palette(1, true), false); err != nil {
		return nil, err
	}
	fig.Set(2, 1, noiseCol)

	return fig, nil
}

// CalFrame plots the calibration frame at path.
func CalFrame(path string, opts CalFrameOptions, output string) error {
	return withProduct(path, func(p *fitsdata.Product) error {
		fig, err := BuildCalFrame(p, opts)
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
}
