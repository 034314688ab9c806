package products

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/photometry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
	"github.com/sparc4-pipeline/sparc4-plots/internal/schema"
)

func timeRange(t []float64) (lo, hi float64, err error) {
	f := robust.Finite(t)
	if len(f) == 0 {
		return 0, 0, fmt.Errorf("time column has no finite values")
	}
	return floats.Min(f), floats.Max(f), nil
}

func lightCurveFigure(name string, pn *render.Panel) *render.Figure {
	pn.Plot.Legend.Top = true
	pn.Plot.Legend.Left = false
	fig := render.Single(name, pn)
	fig.Width, fig.Height = 12*vg.Inch, 6*vg.Inch
	return fig
}

// DiffLightCurveOptions controls the differential light curve figure.
// Comps lists the comparison source ids in column order; they only label
// the curves.
type DiffLightCurveOptions struct {
	Comps     []int
	NSig      float64
	PlotSum   bool
	PlotComps bool
	Schema    schema.Schema
	Style     render.Style
}

func DefaultDiffLightCurveOptions() DiffLightCurveOptions {
	return DiffLightCurveOptions{NSig: 100, PlotSum: true}
}

func (o DiffLightCurveOptions) withDefaults() DiffLightCurveOptions {
	if o.NSig == 0 {
		o.NSig = DefaultDiffLightCurveOptions().NSig
	}
	o.Schema = layout(o.Schema)
	return o
}

// ReadDiffCurves computes the curves of a DIFFPHOTOMETRY extension.
func ReadDiffCurves(p *fitsdata.Product, opts DiffLightCurveOptions) (photometry.DiffSet, error) {
	opts = opts.withDefaults()
	s := opts.Schema

	tab, err := p.Table(s.DiffPhotometry)
	if err != nil {
		return photometry.DiffSet{}, err
	}
	time, err := tab.Column(s.TimeColumn)
	if err != nil {
		return photometry.DiffSet{}, err
	}

	nstars := schema.DiffStarCount(len(tab.Columns()))
	dmag := make([][]float64, nstars)
	edmag := make([][]float64, nstars)
	for i := 0; i < nstars; i++ {
		if dmag[i], err = tab.Column(s.DMag(i)); err != nil {
			return photometry.DiffSet{}, err
		}
		if edmag[i], err = tab.Column(s.EDMag(i)); err != nil {
			return photometry.DiffSet{}, err
		}
	}
	return photometry.DiffCurves(time, dmag, edmag, opts.Comps, opts.NSig)
}

// BuildDiffLightCurve draws the SUM curve, the comparison curves stacked on
// the baseline below it, and the baseline with its ±1 sigma band.
func BuildDiffLightCurve(p *fitsdata.Product, opts DiffLightCurveOptions) (*render.Figure, photometry.DiffSet, error) {
	opts = opts.withDefaults()
	set, err := ReadDiffCurves(p, opts)
	if err != nil {
		return nil, set, err
	}
	if len(set.Curves) == 0 {
		return nil, set, fmt.Errorf("%s has no differential photometry columns", p.Path())
	}
	tmin, tmax, err := timeRange(set.Curves[0].Time)
	if err != nil {
		return nil, set, err
	}

	pn := render.NewPanel("", timeX, dmagY, opts.Style)
	for i, c := range set.Curves {
		t, y, e := c.Kept()
		switch {
		case i == 0 && opts.PlotSum:
			err = pn.AddErrorSeries(c.Legend(), t, y, e, render.Fade(render.Black, 0.8))
		case i > 0 && opts.PlotComps:
			err = pn.AddErrorSeries(c.Legend(), t, y, e, render.Fade(render.Palette(i-1, false), 0.5))
		}
		if err != nil {
			return nil, set, err
		}
	}

	b, rms := set.Baseline, set.BaselineRMS
	if err := pn.AddHLine(b, tmin, tmax, render.Black, false); err != nil {
		return nil, set, err
	}
	if err := pn.AddHLine(b-rms, tmin, tmax, render.Black, true); err != nil {
		return nil, set, err
	}
	if err := pn.AddHLine(b+rms, tmin, tmax, render.Black, true); err != nil {
		return nil, set, err
	}

	return lightCurveFigure("difflc", pn), set, nil
}

// DiffLightCurve plots the differential light curve at path.
func DiffLightCurve(path string, opts DiffLightCurveOptions, output string) (photometry.DiffSet, error) {
	var set photometry.DiffSet
	err := withProduct(path, func(p *fitsdata.Product) error {
		fig, s, err := BuildDiffLightCurve(p, opts)
		set = s
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
	return set, err
}

// LightCurveOptions controls the catalog light curve figures.
type LightCurveOptions struct {
	Target      int
	Comps       []int
	NSig        float64
	PlateScale  float64
	Unit        string
	MagOffset   float64
	PlotCoords  bool
	PlotRawMags bool
	PlotSum     bool
	PlotComps   bool
	CatalogName string
	Schema      schema.Schema
	Style       render.Style
}

// DefaultLightCurveOptions uses the SPARC4 plate scale and draws every
// figure.
func DefaultLightCurveOptions() LightCurveOptions {
	return LightCurveOptions{
		NSig:        10,
		PlateScale:  0.335,
		Unit:        "arcsec",
		MagOffset:   0.1,
		PlotCoords:  true,
		PlotRawMags: true,
		PlotSum:     true,
		PlotComps:   true,
	}
}

func (o LightCurveOptions) withDefaults() LightCurveOptions {
	d := DefaultLightCurveOptions()
	if o.NSig == 0 {
		o.NSig = d.NSig
	}
	if o.PlateScale == 0 {
		o.PlateScale, o.Unit = d.PlateScale, d.Unit
	}
	if o.Unit == "" {
		o.Unit = "pix"
	}
	o.Schema = layout(o.Schema)
	if o.CatalogName == "" {
		o.CatalogName = o.Schema.PhotCatalog
	}
	return o
}

// LightCurveResult holds the curves behind the differential figure.
type LightCurveResult struct {
	Curves []photometry.Curve
	Sum    *photometry.Curve
}

// All returns the SUM curve first, then the comparison curves.
func (r LightCurveResult) All() []photometry.Curve {
	var out []photometry.Curve
	if r.Sum != nil {
		out = append(out, *r.Sum)
	}
	return append(out, r.Curves...)
}

func coordsFigure(p *fitsdata.Product, opts LightCurveOptions) (*render.Figure, error) {
	s := opts.Schema
	tab, err := p.Table(s.TimeCoords)
	if err != nil {
		return nil, err
	}
	time, err := tab.Column(s.TimeColumn)
	if err != nil {
		return nil, err
	}
	cols := map[string][]float64{}
	for _, name := range []string{s.X(opts.Target), s.Y(opts.Target), s.FWHM(opts.Target)} {
		if cols[name], err = tab.Column(name); err != nil {
			return nil, err
		}
	}

	pixoffset := 7 * opts.PlateScale
	dx, _ := photometry.CenteredOffset(cols[s.X(opts.Target)], opts.PlateScale, pixoffset)
	dy, _ := photometry.CenteredOffset(cols[s.Y(opts.Target)], opts.PlateScale, -pixoffset)
	dfwhm, mfwhm := photometry.CenteredOffset(cols[s.FWHM(opts.Target)], opts.PlateScale, 0)

	pn := render.NewPanel("", timeX, "Δ "+opts.Unit, opts.Style)
	if err := pn.AddScatter("x-offset", time, dx, render.DarkBlue, draw.CircleGlyph{}, vg.Points(1.5)); err != nil {
		return nil, err
	}
	if err := pn.AddScatter("y-offset", time, dy, render.Brown, draw.CircleGlyph{}, vg.Points(1.5)); err != nil {
		return nil, err
	}
	label := fmt.Sprintf("FWHM - median=%.1f %s", mfwhm*opts.PlateScale, opts.Unit)
	if err := pn.AddLineSeries(label, time, dfwhm, render.DarkGreen, false); err != nil {
		return nil, err
	}
	return lightCurveFigure("coords", pn), nil
}

func source(tab *fitsdata.Table, s schema.Schema, id int) (photometry.Source, error) {
	src := photometry.Source{ID: id}
	var err error
	if src.Mag, err = tab.Column(s.Mag(id)); err != nil {
		return src, err
	}
	if src.EMag, err = tab.Column(s.EMag(id)); err != nil {
		return src, err
	}
	return src, nil
}

// BuildLightCurve returns up to three figures (target coordinates, raw
// target and sky magnitudes, differential curves) and the curves behind
// the last one.
func BuildLightCurve(p *fitsdata.Product, opts LightCurveOptions) ([]*render.Figure, LightCurveResult, error) {
	opts = opts.withDefaults()
	s := opts.Schema
	var figs []*render.Figure
	var res LightCurveResult

	if opts.PlotCoords {
		f, err := coordsFigure(p, opts)
		if err != nil {
			return nil, res, err
		}
		figs = append(figs, f)
	}

	tab, err := p.Table(opts.CatalogName)
	if err != nil {
		return nil, res, err
	}
	time, err := tab.Column(s.TimeColumn)
	if err != nil {
		return nil, res, err
	}
	target, err := source(tab, s, opts.Target)
	if err != nil {
		return nil, res, err
	}

	if opts.PlotRawMags {
		skym, err := tab.Column(s.SkyMag(opts.Target))
		if err != nil {
			return nil, res, err
		}
		eskym, err := tab.Column(s.ESkyMag(opts.Target))
		if err != nil {
			return nil, res, err
		}
		obj, mmag := photometry.RelativeMag(target.Mag, -opts.MagOffset)
		sky, msky := photometry.RelativeMag(skym, opts.MagOffset)

		pn := render.NewPanel("", timeX, dmagY, opts.Style)
		if err := pn.AddErrorSeries(fmt.Sprintf("raw obj dmag, mean=%.4f", mmag), time, obj, target.EMag, render.Palette(2, true)); err != nil {
			return nil, res, err
		}
		if err := pn.AddErrorSeries(fmt.Sprintf("raw sky dmag, mean=%.4f", msky), time, sky, eskym, render.Palette(12, true)); err != nil {
			return nil, res, err
		}
		figs = append(figs, lightCurveFigure("rawmags", pn))
	}

	comps := make([]photometry.Source, 0, len(opts.Comps))
	for _, id := range opts.Comps {
		c, err := source(tab, s, id)
		if err != nil {
			return nil, res, err
		}
		comps = append(comps, c)
	}
	res.Curves, res.Sum, err = photometry.CatalogCurves(time, target, comps, opts.NSig)
	if err != nil {
		return nil, res, err
	}

	if (opts.PlotComps && len(res.Curves) > 0) || (opts.PlotSum && res.Sum != nil) {
		pn := render.NewPanel("", timeX, dmagY, opts.Style)
		if opts.PlotComps {
			for i, c := range res.Curves {
				t, y, e := c.Kept()
				if err := pn.AddErrorSeries(c.Legend(), t, y, e, render.Fade(render.Palette(i, false), 0.3)); err != nil {
					return nil, res, err
				}
			}
		}
		if opts.PlotSum && res.Sum != nil {
			t, y, e := res.Sum.Kept()
			if err := pn.AddErrorSeries(res.Sum.Legend(), t, y, e, render.Black); err != nil {
				return nil, res, err
			}
		}
		figs = append(figs, lightCurveFigure("dmag", pn))
	}
	return figs, res, nil
}

// LightCurve plots the catalog light curves at path.
func LightCurve(path string, opts LightCurveOptions, output string) (LightCurveResult, error) {
	var res LightCurveResult
	err := withProduct(path, func(p *fitsdata.Product) error {
		figs, r, err := BuildLightCurve(p, opts)
		res = r
		if err != nil {
			return err
		}
		return outputAll(figs, output)
	})
	return res, err
}
