package polarimetry

import (
	"fmt"
	"math"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
)

// Header keywords and table columns of a stored polarimetry result.
const (
	ColAngle = "WPPOS"
	ColZi    = "ZI"
	ColEZi   = "EZI"
)

var resultKeys = []struct {
	key string
	set func(r *Result) *Quantity
}{
	{"QPOL", func(r *Result) *Quantity { return &r.Q }},
	{"UPOL", func(r *Result) *Quantity { return &r.U }},
	{"VPOL", func(r *Result) *Quantity { return &r.V }},
	{"PPOL", func(r *Result) *Quantity { return &r.P }},
	{"THETAPOL", func(r *Result) *Quantity { return &r.Theta }},
	{"KPOL", func(r *Result) *Quantity { return &r.K }},
	{"ZEROPOL", func(r *Result) *Quantity { return &r.Zero }},
}

// ReadResult decodes a result from a table with WPPOS, ZI and EZI columns
// and a header carrying each quantity as <NAME> with its error in
// E<NAME>. Missing keywords and a missing EZI column read as NaN.
func ReadResult(tab *fitsdata.Table, hdr fitsdata.Header) (Result, error) {
	var r Result

	angles, err := tab.Column(ColAngle)
	if err != nil {
		return r, fmt.Errorf("polarimetry result: %w", err)
	}
	zi, err := tab.Column(ColZi)
	if err != nil {
		return r, fmt.Errorf("polarimetry result: %w", err)
	}
	ezi := tab.ColumnOrNaN(ColEZi)

	r.WaveplateAngles = append([]float64(nil), angles...)
	r.Zi = make([]Quantity, len(zi))
	for i := range zi {
		r.Zi[i] = Quantity{Nominal: zi[i], StdDev: ezi[i]}
	}

	nan := math.NaN()
	for _, k := range resultKeys {
		*k.set(&r) = Quantity{
			Nominal: hdr.FloatOr(k.key, nan),
			StdDev:  hdr.FloatOr("E"+k.key, nan),
		}
	}
	return r, nil
}

// WriteResult stores r in the layout ReadResult reads. NaN quantities
// are left out of the header.
func WriteResult(w *fitsdata.Writer, name string, r Result) error {
	tab, err := fitsdata.NewTable(name, []string{ColAngle, ColZi, ColEZi}, map[string][]float64{
		ColAngle: r.WaveplateAngles,
		ColZi:    r.ZiNominal(),
		ColEZi:   r.ZiStdDev(),
	})
	if err != nil {
		return err
	}
	var cards []fitsdata.Card
	for _, k := range resultKeys {
		q := *k.set(&r)
		if !math.IsNaN(q.Nominal) {
			cards = append(cards, fitsdata.Card{Key: k.key, Value: q.Nominal})
		}
		if !math.IsNaN(q.StdDev) {
			cards = append(cards, fitsdata.Card{Key: "E" + k.key, Value: q.StdDev})
		}
	}
	return w.WriteTable(name, tab, cards...)
}
