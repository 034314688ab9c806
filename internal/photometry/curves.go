package photometry

import (
	"fmt"
	"math"

	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

// SumLabel names the curve built from the summed comparator flux.
const SumLabel = "SUM"

// Curve is one differential light curve ready for plotting. Y, Err and Keep
// are index-aligned with Time.
type Curve struct {
	Label  string
	Time   []float64
	Y      []float64
	Err    []float64
	Offset float64 // median differential magnitude removed from (or reported for) Y
	RMS    float64 // robust scatter of Y in magnitudes
	Keep   []bool
}

// Kept returns the time, value and error samples that survived the mask.
func (c Curve) Kept() (t, y, e []float64) {
	return robust.Select(c.Time, c.Keep), robust.Select(c.Y, c.Keep), robust.Select(c.Err, c.Keep)
}

// Legend is the label used next to the curve in plots and tables.
func (c Curve) Legend() string {
	return fmt.Sprintf("%s Δmag=%.3f σ=%.2f mmag", c.Label, c.Offset, c.RMS*1000)
}

// Source is the magnitude series of one catalog source.
type Source struct {
	ID   int
	Mag  []float64
	EMag []float64
}

// CatalogCurves builds one curve per comparator against the target plus the
// SUM curve from the combined comparator flux. Samples are kept when finite
// and within nsig robust sigmas of zero. sum is nil without comparators.
func CatalogCurves(time []float64, target Source, comps []Source, nsig float64) (curves []Curve, sum *Curve, err error) {
	n := len(time)
	if err := checkLengths(n, target.Mag, target.EMag); err != nil {
		return nil, nil, fmt.Errorf("target %d: %w", target.ID, err)
	}

	mags := make([][]float64, 0, len(comps))
	for _, c := range comps {
		if err := checkLengths(n, c.Mag, c.EMag); err != nil {
			return nil, nil, fmt.Errorf("comparison %d: %w", c.ID, err)
		}
		mags = append(mags, c.Mag)

		curve, err := differentialCurve(time, target.Mag, c.Mag, nsig)
		if err != nil {
			return nil, nil, err
		}
		curve.Label = fmt.Sprintf("C%d", c.ID)
		curve.Err, err = QuadratureError(c.EMag, target.EMag)
		if err != nil {
			return nil, nil, err
		}
		curves = append(curves, curve)
	}

	if len(comps) == 0 {
		return curves, nil, nil
	}

	summed, err := SumFluxMagnitude(mags)
	if err != nil {
		return nil, nil, err
	}
	s, err := differentialCurve(time, target.Mag, summed, nsig)
	if err != nil {
		return nil, nil, err
	}
	s.Label = SumLabel
	s.Err = target.EMag
	return curves, &s, nil
}

func differentialCurve(time, target, comp []float64, nsig float64) (Curve, error) {
	dm, offset, err := DifferentialMagnitude(target, comp)
	if err != nil {
		return Curve{}, err
	}
	abs := make([]float64, len(dm))
	for i, v := range dm {
		abs[i] = math.Abs(v)
	}
	rms := robust.NanMedian(abs) / robust.MADToSigma

	return Curve{
		Time:   time,
		Y:      dm,
		Offset: offset,
		RMS:    rms,
		Keep:   robust.KeepAbsMask(dm, rms, nsig),
	}, nil
}

// DiffSet is the result of DiffCurves. Curves[0] is the SUM curve; the others
// are shifted onto Baseline so they stack below it.
type DiffSet struct {
	Curves      []Curve
	Baseline    float64
	BaselineRMS float64
}

// DiffCurves builds curves from differential photometry columns, where
// dmag[0] is the target against the summed comparators and dmag[i] the target
// against comps[i-1]. Magnitudes are negated so brightening plots upwards;
// samples are kept while their error is below nsig robust sigmas.
func DiffCurves(time []float64, dmag, edmag [][]float64, comps []int, nsig float64) (DiffSet, error) {
	if len(dmag) != len(edmag) {
		return DiffSet{}, fmt.Errorf("%w: %d magnitude vs %d error columns", ErrLengthMismatch, len(dmag), len(edmag))
	}

	set := DiffSet{Baseline: math.NaN(), BaselineRMS: math.NaN()}
	for i := range dmag {
		if err := checkLengths(len(time), dmag[i], edmag[i]); err != nil {
			return DiffSet{}, fmt.Errorf("star %d: %w", i, err)
		}

		lc := make([]float64, len(dmag[i]))
		for j, v := range dmag[i] {
			lc[j] = -v
		}
		mlc, rms := robust.CenterAndScale(lc)
		keep := robust.KeepMask(edmag[i], rms, nsig)

		c := Curve{
			Time:   time,
			Err:    edmag[i],
			Offset: mlc,
			RMS:    rms,
			Keep:   keep,
		}

		if i == 0 {
			c.Label = SumLabel
			c.Y = lc
			set.Baseline = robust.Percentile(robust.Select(lc, keep), 1.0) - 4.0*rms
			set.BaselineRMS = rms
		} else {
			id := i - 1
			if id < len(comps) {
				id = comps[id]
			}
			c.Label = fmt.Sprintf("C%03d", id)
			c.Y = make([]float64, len(lc))
			for j, v := range lc {
				c.Y[j] = (v - mlc) + set.Baseline
			}
		}
		set.Curves = append(set.Curves, c)
	}
	return set, nil
}
