package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

var ErrColormap = errors.New("render: unknown colormap")

var (
	Black     = color.RGBA{A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red       = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	DarkRed   = color.RGBA{R: 139, A: 255}
	DarkBlue  = color.RGBA{B: 139, A: 255}
	Brown     = color.RGBA{R: 165, G: 42, B: 42, A: 255}
	DarkGreen = color.RGBA{G: 100, A: 255}
)

var brushes = []color.RGBA{
	{R: 31, G: 211, B: 172, A: 255},
	{R: 255, G: 122, B: 180, A: 255},
	{R: 122, G: 156, B: 255, A: 255},
	{R: 91, G: 22, B: 22, A: 255},
	{R: 188, G: 117, B: 255, A: 255},
	{R: 234, G: 156, B: 172, A: 255},
	{R: 1, G: 56, B: 84, A: 255},
	{R: 46, G: 140, B: 60, A: 255},
	{R: 140, G: 46, B: 49, A: 255},
	{R: 122, G: 41, B: 104, A: 255},
	{R: 41, G: 122, B: 100, A: 255},
	{R: 122, G: 90, B: 41, A: 255},
	{R: 255, G: 193, B: 122, A: 255},
	{R: 22, G: 44, B: 91, A: 255},
	{R: 59, G: 17, B: 66, A: 255},
	{R: 27, G: 150, B: 146, A: 255},
	{R: 255, G: 102, B: 102, A: 255},
}

var darkBrushes = []color.RGBA{
	{R: 27, G: 170, B: 139, A: 255},
	{R: 201, G: 104, B: 146, A: 255},
	{R: 99, G: 124, B: 198, A: 255},
	{R: 91, G: 22, B: 22, A: 255},
	{R: 188, G: 117, B: 255, A: 255},
	{R: 234, G: 156, B: 172, A: 255},
	{R: 1, G: 56, B: 84, A: 255},
	{R: 46, G: 140, B: 60, A: 255},
	{R: 140, G: 46, B: 49, A: 255},
	{R: 122, G: 41, B: 104, A: 255},
	{R: 41, G: 122, B: 100, A: 255},
	{R: 122, G: 90, B: 41, A: 255},
	{R: 183, G: 139, B: 89, A: 255},
	{R: 22, G: 44, B: 91, A: 255},
	{R: 59, G: 17, B: 66, A: 255},
	{R: 18, G: 102, B: 99, A: 255},
	{R: 255, G: 102, B: 102, A: 255},
}

// Palette returns the series color for a brush index. The first brushes are
// fixed; later ones are spread around the hue circle so that any number of
// comparison stars gets distinct colors.
func Palette(
	brush int,
	dark bool,
) (
	color.RGBA,
) {

	if brush < 0 {
		brush = -brush
	}
	fixed := brushes
	if dark {
		fixed = darkBrushes
	}
	if brush < len(fixed) {
		return fixed[brush]
	}

	// golden-angle hue steps
	h := math.Mod(float64(brush-len(fixed))*137.508, 360)
	l := 0.65
	if dark {
		l = 0.45
	}
	r, g, b := colorful.Hcl(h, 0.55, l).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var gradientStops = map[string][]string{
	"viridis":   {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"cividis":   {"#00204d", "#00336f", "#39486b", "#575c6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#ffea46"},
	"gist_heat": {"#000000", "#600000", "#c00000", "#ff2000", "#ff8000", "#ffe000", "#ffffff"},
	"gray":      {"#000000", "#ffffff"},
	"greys":     {"#ffffff", "#000000"},
}

// Colormaps lists the accepted colormap names.
func Colormaps() []string {
	return []string{"viridis", "cividis", "gist_heat", "gray", "greys", "coolwarm", "blackbody", "kindlmann"}
}

// Colormap returns a color map by name with the range [0, 1].
func Colormap(name string) (palette.ColorMap, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var cm palette.ColorMap
	switch name {
	case "coolwarm":
		cm = moreland.SmoothBlueRed()
	case "blackbody":
		cm = moreland.BlackBody()
	case "kindlmann":
		cm = moreland.Kindlmann()
	default:
		hexes, ok := gradientStops[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrColormap, name, strings.Join(Colormaps(), ", "))
		}
		g := &gradient{max: 1, alpha: 1}
		for _, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				return nil, err
			}
			g.stops = append(g.stops, c)
		}
		cm = g
	}
	cm.SetMin(0)
	cm.SetMax(1)
	return cm, nil
}

// gradient is a piecewise Lab blend between evenly spaced color stops.
type gradient struct {
	stops    []colorful.Color
	min, max float64
	alpha    float64
}

func (g *gradient) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < g.min:
		return nil, palette.ErrUnderflow
	case v > g.max:
		return nil, palette.ErrOverflow
	}
	t := 0.0
	if g.max > g.min {
		t = (v - g.min) / (g.max - g.min)
	}
	seg := t * float64(len(g.stops)-1)
	i := int(seg)
	if i >= len(g.stops)-1 {
		i = len(g.stops) - 2
	}
	c := g.stops[i].BlendLab(g.stops[i+1], seg-float64(i)).Clamped()
	r, gg, b := c.RGB255()
	a := uint8(math.Round(255 * g.alpha))
	return color.NRGBA{R: r, G: gg, B: b, A: a}, nil
}

func (g *gradient) Max() float64       { return g.max }
func (g *gradient) Min() float64       { return g.min }
func (g *gradient) SetMax(v float64)   { g.max = v }
func (g *gradient) SetMin(v float64)   { g.min = v }
func (g *gradient) Alpha() float64     { return g.alpha }
func (g *gradient) SetAlpha(a float64) { g.alpha = a }
func (g *gradient) Palette(n int) palette.Palette {
	return sampled(g, n)
}

type swatch []color.Color

func (s swatch) Colors() []color.Color { return s }

func sampled(cm palette.ColorMap, n int) palette.Palette {
	if n < 2 {
		n = 2
	}
	out := make(swatch, n)
	span := cm.Max() - cm.Min()
	for i := range out {
		c, err := cm.At(cm.Min() + span*float64(i)/float64(n-1))
		if err != nil {
			c = color.Transparent
		}
		out[i] = c
	}
	return out
}
