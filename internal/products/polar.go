package products

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/polarimetry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
)

// DefaultResultExt is the table HDU holding a stored polarimetry result.
const DefaultResultExt = "POLARIMETRY"

// PolarimetryOptions controls the polarimetry results figure. Model, when
// set, replaces the built-in model of the wave plate.
type PolarimetryOptions struct {
	Sampling  float64
	Title     string
	WavePlate polarimetry.WavePlate
	Model     polarimetry.Model
	ResultExt string
	Style     render.Style
}

func DefaultPolarimetryOptions() PolarimetryOptions {
	return PolarimetryOptions{Sampling: 1, WavePlate: polarimetry.HalfWave, ResultExt: DefaultResultExt}
}

func (o PolarimetryOptions) withDefaults() PolarimetryOptions {
	d := DefaultPolarimetryOptions()
	if o.Sampling == 0 {
		o.Sampling = d.Sampling
	}
	if o.WavePlate == "" {
		o.WavePlate = d.WavePlate
	}
	if o.ResultExt == "" {
		o.ResultExt = d.ResultExt
	}
	return o
}

// BuildPolarimetryResults draws Zi with its errors and the model curve on
// top, and the residuals below within ±5 sigma.
func BuildPolarimetryResults(r polarimetry.Result, opts PolarimetryOptions) (*render.Figure, error) {
	opts = opts.withDefaults()
	plate, err := polarimetry.ParseWavePlate(string(opts.WavePlate))
	if err != nil {
		return nil, err
	}
	model := opts.Model
	if model == nil {
		if model, err = polarimetry.ModelFor(plate); err != nil {
			return nil, err
		}
	}

	grid, err := polarimetry.ModelGrid(opts.Sampling)
	if err != nil {
		return nil, err
	}
	res, sig, err := polarimetry.Residuals(model, r)
	if err != nil {
		return nil, err
	}

	top := render.NewPanel(polarimetry.Title(opts.Title, r, plate), "", "Z(φ) = (f∥ - f⊥)/(f∥ + f⊥)", opts.Style)
	if err := top.AddLineSeries("Best fit model", grid, model.Eval(grid, r), render.Fade(render.Red, 0.8), true); err != nil {
		return nil, err
	}
	if err := top.AddErrorSeries("data", r.WaveplateAngles, r.ZiNominal(), r.ZiStdDev(), render.Fade(render.Black, 0.9)); err != nil {
		return nil, err
	}

	bottom := render.NewPanel("", "waveplate position angle, φ [deg]", "residuals", opts.Style)
	if err := bottom.AddErrorSeries("residuals", r.WaveplateAngles, res, r.ZiStdDev(), render.Fade(render.Black, 0.5)); err != nil {
		return nil, err
	}
	if err := bottom.AddHLine(0, 0, 360, render.Black, true); err != nil {
		return nil, err
	}
	if sig > 0 && !math.IsInf(sig, 0) {
		bottom.SetLimits(math.NaN(), math.NaN(), -5*sig, 5*sig)
	}

	fig := render.NewFigure("polar", 2, 1)
	fig.Width, fig.Height = 12*vg.Inch, 6*vg.Inch
	fig.HeightRatios = []float64{2, 1}
	fig.Set(0, 0, top)
	fig.Set(1, 0, bottom)
	return fig, nil
}

// ReadPolarimetryResult loads the stored result of a product.
func ReadPolarimetryResult(p *fitsdata.Product, ext string) (polarimetry.Result, error) {
	tab, err := p.Table(ext)
	if err != nil {
		return polarimetry.Result{}, err
	}
	hdr, err := p.Header(ext)
	if err != nil {
		return polarimetry.Result{}, err
	}
	return polarimetry.ReadResult(tab, hdr)
}

// PolarimetryResults plots the result stored at path.
func PolarimetryResults(path string, opts PolarimetryOptions, output string) (polarimetry.Result, error) {
	opts = opts.withDefaults()
	var r polarimetry.Result
	err := withProduct(path, func(p *fitsdata.Product) error {
		var err error
		if r, err = ReadPolarimetryResult(p, opts.ResultExt); err != nil {
			return err
		}
		fig, err := BuildPolarimetryResults(r, opts)
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
	return r, err
}
