package products

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
	"github.com/sparc4-pipeline/sparc4-plots/internal/schema"
)

// SciFrameOptions controls the science frame figure. CatalogName, when set,
// takes precedence over the CatalogExt index.
type SciFrameOptions struct {
	CatalogExt  int
	CatalogName string
	NStars      int
	Percentile  float64
	Colormap    string
	Schema      schema.Schema
	Style       render.Style
}

func DefaultSciFrameOptions() SciFrameOptions {
	return SciFrameOptions{CatalogExt: 9, NStars: 5, Percentile: 98, Colormap: "viridis"}
}

func (o SciFrameOptions) withDefaults() SciFrameOptions {
	d := DefaultSciFrameOptions()
	if o.Percentile == 0 {
		o.Percentile = d.Percentile
	}
	if o.Colormap == "" {
		o.Colormap = d.Colormap
	}
	o.Schema = layout(o.Schema)
	return o
}

type catalog struct {
	x, y []float64
	aper float64
}

// readPositions reads the source centers of a catalog.
func readPositions(tab *fitsdata.Table, s schema.Schema) (catalog, error) {
	var c catalog
	var err error
	if c.x, err = tab.Column(s.XColumn); err != nil {
		return c, err
	}
	if c.y, err = tab.Column(s.YColumn); err != nil {
		return c, err
	}
	if len(c.x) != len(c.y) {
		return c, fmt.Errorf("catalog %s: %d x but %d y values", tab.Name, len(c.x), len(c.y))
	}
	return c, nil
}

// readCatalog reads the source centers and the mean aperture radius.
func readCatalog(tab *fitsdata.Table, s schema.Schema) (catalog, error) {
	c, err := readPositions(tab, s)
	if err != nil {
		return c, err
	}
	aper, err := tab.Column(s.AperColumn)
	if err != nil {
		return c, err
	}
	c.aper = robust.NanMean(aper)
	if !(c.aper > 0) {
		return c, fmt.Errorf("catalog %s has no positive %s values", tab.Name, s.AperColumn)
	}
	return c, nil
}

func imagePanel(p *fitsdata.Product, percentile float64, cmap string, style render.Style) (*render.Panel, error) {
	img, err := plane(p, fitsdata.PrimaryName, 0)
	if err != nil {
		return nil, err
	}
	pn := render.NewPanel("", pixelX, pixelY, style)
	if _, _, err := pn.AddImage(img, percentile, cmap); err != nil {
		return nil, err
	}
	return pn, nil
}

func squareFigure(name string, pn *render.Panel) *render.Figure {
	fig := render.Single(name, pn)
	fig.Width, fig.Height = 10*vg.Inch, 10*vg.Inch
	return fig
}

// BuildSciFrame draws the reduced image with the catalog apertures; the
// first NStars sources are also marked with a cross and their index.
func BuildSciFrame(p *fitsdata.Product, opts SciFrameOptions) (*render.Figure, error) {
	opts = opts.withDefaults()

	var tab *fitsdata.Table
	var err error
	if opts.CatalogName != "" {
		tab, err = p.Table(opts.CatalogName)
	} else {
		tab, err = p.TableAt(opts.CatalogExt)
	}
	if err != nil {
		return nil, err
	}
	cat, err := readCatalog(tab, opts.Schema)
	if err != nil {
		return nil, err
	}

	pn, err := imagePanel(p, opts.Percentile, opts.Colormap, opts.Style)
	if err != nil {
		return nil, err
	}

	n := min(max(opts.NStars, 0), len(cat.x))
	if err := pn.AddRings(cat.x, cat.y, cat.aper, render.Fade(render.White, 0.7)); err != nil {
		return nil, err
	}
	if err := pn.AddScatter("", cat.x[:n], cat.y[:n], render.Fade(render.Black, 0.7), draw.CrossGlyph{}, vg.Points(2*cat.aper/3)); err != nil {
		return nil, err
	}

	lx := make([]float64, n)
	labels := make([]string, n)
	for i := range lx {
		lx[i] = cat.x[i] + 1.1*cat.aper
		labels[i] = strconv.Itoa(i)
	}
	if err := pn.AddLabels(lx, cat.y[:n], labels, render.DarkRed, vg.Points(18)); err != nil {
		return nil, err
	}
	return squareFigure("sciframe", pn), nil
}

// SciFrame plots the science frame at path.
func SciFrame(path string, opts SciFrameOptions, output string) error {
	return withProduct(path, func(p *fitsdata.Product) error {
		fig, err := BuildSciFrame(p, opts)
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
}

// SciPolarFrameOptions controls the polarimetric frame figure.
type SciPolarFrameOptions struct {
	Percentile float64
	Colormap   string
	Schema     schema.Schema
	Style      render.Style
}

func DefaultSciPolarFrameOptions() SciPolarFrameOptions {
	return SciPolarFrameOptions{Percentile: 99.5, Colormap: "viridis"}
}

func (o SciPolarFrameOptions) withDefaults() SciPolarFrameOptions {
	d := DefaultSciPolarFrameOptions()
	if o.Percentile == 0 {
		o.Percentile = d.Percentile
	}
	if o.Colormap == "" {
		o.Colormap = d.Colormap
	}
	o.Schema = layout(o.Schema)
	return o
}

// BuildSciPolarFrame draws a dual-beam frame: apertures of the ordinary (N)
// and extraordinary (S) beams, each pair joined and labelled by index. Both
// beams use the ordinary catalog aperture.
func BuildSciPolarFrame(p *fitsdata.Product, opts SciPolarFrameOptions) (*render.Figure, error) {
	opts = opts.withDefaults()

	ntab, err := p.Table(opts.Schema.PolarNorth)
	if err != nil {
		return nil, err
	}
	stab, err := p.Table(opts.Schema.PolarSouth)
	if err != nil {
		return nil, err
	}
	o, err := readCatalog(ntab, opts.Schema)
	if err != nil {
		return nil, err
	}
	e, err := readPositions(stab, opts.Schema)
	if err != nil {
		return nil, err
	}
	if len(o.x) != len(e.x) {
		return nil, fmt.Errorf("polar catalogs differ in length: %d ordinary, %d extraordinary sources", len(o.x), len(e.x))
	}

	pn, err := imagePanel(p, opts.Percentile, opts.Colormap, opts.Style)
	if err != nil {
		return nil, err
	}

	ring := render.Fade(render.White, 0.7)
	if err := pn.AddRings(o.x, o.y, o.aper, ring); err != nil {
		return nil, err
	}
	if err := pn.AddRings(e.x, e.y, o.aper, ring); err != nil {
		return nil, err
	}

	join := render.Fade(render.White, 0.5)
	lx := make([]float64, len(o.x))
	ly := make([]float64, len(o.x))
	labels := make([]string, len(o.x))
	for i := range o.x {
		xs := []float64{o.x[i], e.x[i]}
		ys := []float64{o.y[i], e.y[i]}
		if err := pn.AddLineSeries("", xs, ys, join, false); err != nil {
			return nil, err
		}
		if err := pn.AddScatter("", xs, ys, join, draw.CircleGlyph{}, vg.Points(3)); err != nil {
			return nil, err
		}
		lx[i] = (o.x[i]+e.x[i])/2 - 25
		ly[i] = (o.y[i]+e.y[i])/2 + 25
		labels[i] = strconv.Itoa(i)
	}
	if err := pn.AddLabels(lx, ly, labels, render.White, vg.Points(10)); err != nil {
		return nil, err
	}
	return squareFigure("polarframe", pn), nil
}

// SciPolarFrame plots the polar frame at path.
func SciPolarFrame(path string, opts SciPolarFrameOptions, output string) error {
	return withProduct(path, func(p *fitsdata.Product) error {
		fig, err := BuildSciPolarFrame(p, opts)
		if err != nil {
			return err
		}
		return render.Output(fig, output)
	})
}
