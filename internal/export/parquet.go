// Package export writes plotted series to Parquet files and prints them as
// terminal tables.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/photometry"
)

// CurvePoint is one sample of a differential light curve.
type CurvePoint struct {
	// Curve is the comparator label, or SUM.
	Curve string  `parquet:"curve,snappy,dict"`
	Time  float64 `parquet:"time,snappy"`
	DMag  float64 `parquet:"dmag,snappy"`
	EDMag float64 `parquet:"edmag,snappy"`
	// Offset is the median removed from DMag.
	Offset float64 `parquet:"offset,snappy"`
	Keep   bool    `parquet:"keep"`
}

// ObservationRow is one monitored frame.
type ObservationRow struct {
	Filter  string    `parquet:"filter,snappy,dict"`
	Path    string    `parquet:"path,snappy"`
	Time    time.Time `parquet:"time,snappy"`
	JD      float64   `parquet:"jd,snappy"`
	LST     float64   `parquet:"lst_hours,snappy"`
	MaxFlux float64   `parquet:"max_flux,snappy"`
}

// CurvePoints flattens curves into rows, curve by curve.
func CurvePoints(curves []photometry.Curve) []CurvePoint {
	var out []CurvePoint
	for _, c := range curves {
		for i := range c.Time {
			p := CurvePoint{Curve: c.Label, Time: c.Time[i], DMag: c.Y[i], Offset: c.Offset}
			if i < len(c.Err) {
				p.EDMag = c.Err[i]
			}
			if i < len(c.Keep) {
				p.Keep = c.Keep[i]
			}
			out = append(out, p)
		}
	}
	return out
}

// ObservationRows converts a monitor series, grouped by filter.
func ObservationRows(s monitor.Series) []ObservationRow {
	obs := s.All()
	out := make([]ObservationRow, len(obs))
	for i, o := range obs {
		out[i] = ObservationRow{
			Filter:  o.Filter,
			Path:    o.Path,
			Time:    o.Time,
			JD:      o.JD,
			LST:     o.LST,
			MaxFlux: o.MaxFlux,
		}
	}
	return out
}

func writeParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return file.Close()
}

// WriteCurves writes every sample of curves to a Parquet file.
func WriteCurves(curves []photometry.Curve, outputPath string) error {
	return writeParquet(CurvePoints(curves), outputPath)
}

// WriteObservations writes a monitor series to a Parquet file.
func WriteObservations(s monitor.Series, outputPath string) error {
	return writeParquet(ObservationRows(s), outputPath)
}
