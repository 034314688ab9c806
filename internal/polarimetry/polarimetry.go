// Package polarimetry holds the fitted polarimetry record shown by the
// results plot and the waveplate models evaluated against it.
//
// Fitting happens upstream. The half-wave and quarter-wave curves here are
// the usual closed forms; callers that need another convention plug in their
// own Model.
package polarimetry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

var ErrWavePlate = errors.New("polarimetry: wave plate must be halfwave or quarterwave")

// Quantity is a value with its one-sigma uncertainty.
type Quantity struct {
	Nominal float64
	StdDev  float64
}

func (q Quantity) String() string {
	return fmt.Sprintf("%g+-%g", q.Nominal, q.StdDev)
}

// Result is a fitted polarimetry measurement: the normalized flux difference
// Zi at each waveplate angle and the Stokes solution.
type Result struct {
	WaveplateAngles []float64
	Zi              []Quantity

	Q     Quantity
	U     Quantity
	V     Quantity
	P     Quantity
	Theta Quantity
	K     Quantity
	Zero  Quantity
}

// ZiNominal returns the Zi values without uncertainties.
func (r Result) ZiNominal() []float64 {
	out := make([]float64, len(r.Zi))
	for i, z := range r.Zi {
		out[i] = z.Nominal
	}
	return out
}

// ZiStdDev returns the Zi uncertainties.
func (r Result) ZiStdDev() []float64 {
	out := make([]float64, len(r.Zi))
	for i, z := range r.Zi {
		out[i] = z.StdDev
	}
	return out
}

// WavePlate selects the polarimetric mode.
type WavePlate string

const (
	HalfWave    WavePlate = "halfwave"
	QuarterWave WavePlate = "quarterwave"
)

// ParseWavePlate accepts halfwave or quarterwave.
func ParseWavePlate(s string) (WavePlate, error) {
	switch w := WavePlate(strings.ToLower(strings.TrimSpace(s))); w {
	case HalfWave, QuarterWave:
		return w, nil
	}
	return "", fmt.Errorf("%w (received %q)", ErrWavePlate, s)
}

// Model predicts Zi at the given waveplate angles (degrees) from a result.
type Model interface {
	Eval(angles []float64, r Result) []float64
}

// ModelFunc adapts a function to Model.
type ModelFunc func(angles []float64, r Result) []float64

func (f ModelFunc) Eval(angles []float64, r Result) []float64 { return f(angles, r) }

// HalfWaveModel is q cos 4ψ + u sin 4ψ.
var HalfWaveModel Model = ModelFunc(func(angles []float64, r Result) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		psi := a * math.Pi / 180
		out[i] = r.Q.Nominal*math.Cos(4*psi) + r.U.Nominal*math.Sin(4*psi)
	}
	return out
})

// QuarterWaveModel is q cos²2ψ + u sin2ψ cos2ψ − v sin2ψ with ψ offset by the
// zero angle.
var QuarterWaveModel Model = ModelFunc(func(angles []float64, r Result) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		psi2 := 2 * (a + r.Zero.Nominal) * math.Pi / 180
		c, s := math.Cos(psi2), math.Sin(psi2)
		out[i] = r.Q.Nominal*c*c + r.U.Nominal*s*c - r.V.Nominal*s
	}
	return out
})

// ModelFor returns the built-in model of a wave plate.
func ModelFor(w WavePlate) (Model, error) {
	switch w {
	case HalfWave:
		return HalfWaveModel, nil
	case QuarterWave:
		return QuarterWaveModel, nil
	}
	return nil, fmt.Errorf("%w (received %q)", ErrWavePlate, string(w))
}

// ModelGrid samples position angles from 0 up to, not including, 360 degrees.
func ModelGrid(sampling float64) ([]float64, error) {
	if !(sampling > 0) {
		return nil, fmt.Errorf("polarimetry: model sampling must be positive (received %g)", sampling)
	}
	n := int(math.Ceil(360 / sampling))
	grid := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		grid = append(grid, float64(i)*sampling)
	}
	return grid, nil
}

// Residuals returns model - observed at the measured angles and the
// population standard deviation of the finite residuals.
func Residuals(m Model, r Result) ([]float64, float64, error) {
	if len(r.Zi) != len(r.WaveplateAngles) {
		return nil, math.NaN(), fmt.Errorf("polarimetry: %d angles but %d Zi values", len(r.WaveplateAngles), len(r.Zi))
	}
	model := m.Eval(r.WaveplateAngles, r)
	res := make([]float64, len(model))
	for i := range model {
		res[i] = model[i] - r.Zi[i].Nominal
	}
	return res, robust.NanStd(res), nil
}

// Title is the summary line placed over the results plot: q, u, (v,) p in
// percent and θ in degrees.
func Title(label string, r Result, w WavePlate) string {
	pct := func(name string, q Quantity) string {
		return fmt.Sprintf("%s: %.2f+-%.2f %%", name, 100*q.Nominal, 100*q.StdDev)
	}
	parts := []string{pct("q", r.Q), pct("u", r.U)}
	if w == QuarterWave {
		parts = append(parts, pct("v", r.V))
	}
	parts = append(parts, pct("p", r.P), fmt.Sprintf("θ: %.2f+-%.2f deg", r.Theta.Nominal, r.Theta.StdDev))

	summary := strings.Join(parts, "  ")
	if label == "" {
		return summary
	}
	return label + "\n" + summary
}
