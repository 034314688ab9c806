//go:build gnuplot

package render

import (
	"errors"
	"fmt"

	"github.com/Arafatk/glot"
)

// Show opens one gnuplot window per XY panel. Figures holding images are
// saved under PlotsDir instead and the path is logged.
func (f *Figure) Show() error {
	for _, pn := range f.Panels() {
		if pn.image {
			return f.saveInPlotsDir()
		}
	}

	var errs []error
	for _, pn := range f.Panels() {
		if err := showPanel(pn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func showPanel(pn *Panel) error {
	dimensions := 2
	persist := true
	debug := false
	g, err := glot.NewPlot(dimensions, persist, debug)
	if err != nil {
		return fmt.Errorf("could not start gnuplot: %w", err)
	}

	p := pn.Plot
	if err := g.SetTitle(p.Title.Text); err != nil {
		return err
	}
	if err := g.SetXLabel(p.X.Label.Text); err != nil {
		return err
	}
	if err := g.SetYLabel(p.Y.Label.Text); err != nil {
		return err
	}
	for i, s := range pn.series {
		name := s.name
		if name == "" {
			name = fmt.Sprintf("series %d", i)
		}
		if err := g.AddPointGroup(name, s.style, [][]float64{s.x, s.y}); err != nil {
			return err
		}
	}
	return nil
}
