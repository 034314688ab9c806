package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotsRoot is where Show writes figures it does not open in gnuplot.
var PlotsRoot = "plots"

// Figure is a grid of panels drawn onto one image.
type Figure struct {
	Name         string
	Rows, Cols   int
	Width        vg.Length
	Height       vg.Length
	HeightRatios []float64
	WidthRatios  []float64

	panels []*Panel
}

// NewFigure returns a rows x cols figure.
func NewFigure(name string, rows, cols int) *Figure {
	return &Figure{
		Name:   name,
		Rows:   rows,
		Cols:   cols,
		Width:  12 * vg.Inch,
		Height: 8 * vg.Inch,
		panels: make([]*Panel, rows*cols),
	}
}

// Single wraps one panel in a figure.
func Single(name string, pn *Panel) *Figure {
	f := NewFigure(name, 1, 1)
	f.panels[0] = pn
	return f
}

// Set places a panel in the grid, row 0 at the top.
func (f *Figure) Set(row, col int, pn *Panel) {
	f.panels[row*f.Cols+col] = pn
}

// Panel returns the panel at row, col, or nil.
func (f *Figure) Panel(row, col int) *Panel {
	return f.panels[row*f.Cols+col]
}

// Panels lists the placed panels in row-major order.
func (f *Figure) Panels() []*Panel {
	var out []*Panel
	for _, p := range f.panels {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func weights(ratios []float64, n int) ([]float64, error) {
	if len(ratios) == 0 {
		out := make([]float64, n)
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}
	if len(ratios) != n {
		return nil, fmt.Errorf("render: %d ratios for %d cells", len(ratios), n)
	}
	for _, r := range ratios {
		if !(r > 0) {
			return nil, fmt.Errorf("render: ratios must be positive (received %g)", r)
		}
	}
	return ratios, nil
}

func spans(total vg.Length, w []float64, pad vg.Length) []vg.Length {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	avail := total - pad*vg.Length(len(w)-1)
	out := make([]vg.Length, len(w))
	for i, v := range w {
		out[i] = avail * vg.Length(v/sum)
	}
	return out
}

// Draw lays the panels out on dc.
func (f *Figure) Draw(dc draw.Canvas) error {
	hw, err := weights(f.HeightRatios, f.Rows)
	if err != nil {
		return err
	}
	ww, err := weights(f.WidthRatios, f.Cols)
	if err != nil {
		return err
	}

	pad := vg.Points(12)
	size := dc.Rectangle.Size()
	heights := spans(size.Y, hw, pad)
	widths := spans(size.X, ww, pad)

	top := dc.Rectangle.Max.Y
	for r := 0; r < f.Rows; r++ {
		left := dc.Rectangle.Min.X
		for c := 0; c < f.Cols; c++ {
			if pn := f.panels[r*f.Cols+c]; pn != nil {
				cell := draw.Canvas{
					Canvas: dc.Canvas,
					Rectangle: vg.Rectangle{
						Min: vg.Point{X: left, Y: top - heights[r]},
						Max: vg.Point{X: left + widths[c], Y: top},
					},
				}
				pn.applyLimits()
				pn.Plot.Draw(cell)
			}
			left += widths[c] + pad
		}
		top -= heights[r] + pad
	}
	return nil
}

// Encode renders the figure in format (png, svg, pdf, ...) to w.
func (f *Figure) Encode(w io.Writer, format string) error {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return err
	}
	if err := f.Draw(draw.New(c)); err != nil {
		return err
	}
	_, err = c.WriteTo(w)
	return err
}

// Save writes the figure; the file extension picks the format and
// defaults to PNG.
func (f *Figure) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
		path += ".png"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Encode(out, format); err != nil {
		_ = out.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return out.Close()
}

// PlotsDir is the dated directory plots/<date>/<time>: <note>.
func PlotsDir(
	t time.Time,
	note string,
) (
	string,
) {

	stamp := t.Format("15:04:05")
	if note != "" {
		stamp += ": " + note
	}
	return filepath.Join(PlotsRoot, t.Format("2006-Jan-02"), stamp)
}

// saveInPlotsDir writes the figure to PlotsDir/figure.png and logs the
// path.
func (f *Figure) saveInPlotsDir() error {
	path := filepath.Join(PlotsDir(time.Now(), f.Name), "figure.png")
	if err := f.Save(path); err != nil {
		return err
	}
	slog.Info("figure saved", "figure", f.Name, "path", path)
	return nil
}

// Output saves fig to path, or shows it when path is empty.
func Output(fig *Figure, path string) error {
	if path == "" {
		return fig.Show()
	}
	return fig.Save(path)
}
