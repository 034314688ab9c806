package export

import (
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/photometry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/polarimetry"
)

func fmtFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func writeTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// CurveTable prints one row per curve: sample counts, offset and scatter.
func CurveTable(w io.Writer, curves []photometry.Curve) error {
	var data [][]string
	for _, c := range curves {
		kept := 0
		for _, k := range c.Keep {
			if k {
				kept++
			}
		}
		data = append(data, []string{
			c.Label,
			strconv.Itoa(len(c.Time)),
			strconv.Itoa(kept),
			fmtFloat(c.Offset, 4),
			fmtFloat(c.RMS*1000, 2),
		})
	}
	return writeTable(w, []string{"Curve", "Points", "Kept", "Offset (mag)", "RMS (mmag)"}, data)
}

// ObservationTable prints per filter the frame count, time span and peak flux.
func ObservationTable(w io.Writer, s monitor.Series) error {
	var data [][]string
	for _, f := range s.Filters {
		obs := s.ByFilter[f]
		row := []string{f, strconv.Itoa(len(obs)), "-", "-", "-"}
		if len(obs) > 0 {
			peak := math.Inf(-1)
			for _, o := range obs {
				peak = math.Max(peak, o.MaxFlux)
			}
			row[2] = obs[0].Time.Format("15:04:05")
			row[3] = obs[len(obs)-1].Time.Format("15:04:05")
			row[4] = fmtFloat(peak, 1)
		}
		data = append(data, row)
	}
	return writeTable(w, []string{"Filter", "Frames", "First (UT)", "Last (UT)", "Peak (ADU)"}, data)
}

// PolarimetryTable prints the fitted polarimetric quantities.
func PolarimetryTable(w io.Writer, r polarimetry.Result) error {
	rows := []struct {
		name string
		q    polarimetry.Quantity
	}{
		{"q", r.Q}, {"u", r.U}, {"v", r.V}, {"p", r.P},
		{"theta", r.Theta}, {"k", r.K}, {"zero", r.Zero},
	}
	var data [][]string
	for _, row := range rows {
		data = append(data, []string{row.name, fmtFloat(row.q.Nominal, 6), fmtFloat(row.q.StdDev, 6)})
	}
	data = append(data, []string{"angles", strconv.Itoa(len(r.WaveplateAngles)), "-"})
	return writeTable(w, []string{"Quantity", "Value", "Error"}, data)
}
