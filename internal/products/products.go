// Package products builds the quick-look figures of SPARC4 pipeline
// products: calibration and science frames, polar frames, light curves,
// polarimetry results and generic 2D maps.
//
// Each operation has a Build form that reads an open product and returns
// figures, and a path form that opens the file and saves or shows them.
package products

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
	"github.com/sparc4-pipeline/sparc4-plots/internal/schema"
)

const (
	pixelX = "columns (pixel)"
	pixelY = "rows (pixel)"
	timeX  = "time (BJD)"
	dmagY  = "Δmag"
)

// WithSuffix inserts suffix before the extension of path: a.png -> a_x.png.
// An empty path stays empty so that the figure is displayed.
func WithSuffix(path, suffix string) string {
	if path == "" || suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + suffix + ext
}

// outputAll writes figures in order, suffixing the output path with each
// figure name when there is more than one.
func outputAll(figs []*render.Figure, output string) error {
	for _, f := range figs {
		path := output
		if len(figs) > 1 {
			path = WithSuffix(output, f.Name)
		}
		if err := render.Output(f, path); err != nil {
			return fmt.Errorf("%s figure: %w", f.Name, err)
		}
	}
	return nil
}

func withProduct(path string, fn func(p *fitsdata.Product) error) error {
	p, err := fitsdata.Open(path)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(p)
}

func plane(p *fitsdata.Product, name string, i int) (*mat.Dense, error) {
	fr, err := p.Image(name)
	if err != nil {
		return nil, err
	}
	return fr.Plane(i)
}

func rawValues(m mat.RawMatrixer) []float64 {
	return m.RawMatrix().Data
}

func meanStdTitle(name string, m *mat.Dense) string {
	mean, std := robust.MeanStd(rawValues(m))
	return fmt.Sprintf("%s: mean: %.2f+-%.2f", name, mean, std)
}

func indices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// layout returns s, or the current schema when s is unset.
func layout(s schema.Schema) schema.Schema {
	if s.Version == 0 {
		return schema.V1
	}
	return s
}
