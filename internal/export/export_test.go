package export

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/photometry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/polarimetry"
)

func testCurves() []photometry.Curve {
	return []photometry.Curve{
		{
			Label:  "C001",
			Time:   []float64{1, 2, 3},
			Y:      []float64{0.01, -0.01, 0.5},
			Err:    []float64{0.001, 0.001, 0.002},
			Offset: 1.25,
			RMS:    0.0123,
			Keep:   []bool{true, true, false},
		},
		{
			Label: photometry.SumLabel,
			Time:  []float64{1, 2},
			Y:     []float64{0, math.NaN()},
			Err:   []float64{0.001},
			Keep:  []bool{true},
		},
	}
}

func testSeries() monitor.Series {
	t0 := time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC)
	return monitor.Series{
		Filters: []string{"B", "V"},
		ByFilter: map[string][]monitor.Observation{
			"B": {
				{Filter: "B", Path: "a_B.fits", Time: t0, JD: 2460471.625, LST: 15.5, MaxFlux: 800},
				{Filter: "B", Path: "b_B.fits", Time: t0.Add(10 * time.Minute), JD: 2460471.632, LST: 15.7, MaxFlux: 950},
			},
		},
	}
}

func TestParquetSchema(t *testing.T) {
	tests := []struct {
		name    string
		row     any
		columns []string
	}{
		{"curve", new(CurvePoint), []string{"curve", "time", "dmag", "edmag", "offset", "keep"}},
		{"observation", new(ObservationRow), []string{"filter", "path", "time", "jd", "lst_hours", "max_flux"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := parquet.SchemaOf(tt.row)
			for _, col := range tt.columns {
				_, ok := schema.Lookup(col)
				assert.True(t, ok, "column %s", col)
			}
		})
	}
}

func TestCurvePoints(t *testing.T) {
	pts := CurvePoints(testCurves())
	require.Len(t, pts, 5)
	assert.Equal(t, CurvePoint{Curve: "C001", Time: 3, DMag: 0.5, EDMag: 0.002, Offset: 1.25}, pts[2])
	assert.Equal(t, "SUM", pts[4].Curve)
	assert.True(t, math.IsNaN(pts[4].DMag))
	assert.Zero(t, pts[4].EDMag)
	assert.False(t, pts[4].Keep)
}

func TestWriteCurves(t *testing.T) {
	out := filepath.Join(t.TempDir(), "curves.parquet")
	require.NoError(t, WriteCurves(testCurves(), out))

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[CurvePoint](file)
	defer reader.Close()
	rows := make([]CurvePoint, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 5, n)
	assert.Equal(t, "C001", rows[0].Curve)
	assert.Equal(t, 0.01, rows[0].DMag)
	assert.True(t, rows[1].Keep)
	assert.False(t, rows[2].Keep)
	assert.Equal(t, 1.25, rows[2].Offset)
}

func TestWriteObservations(t *testing.T) {
	out := filepath.Join(t.TempDir(), "monitor.parquet")
	s := testSeries()
	require.NoError(t, WriteObservations(s, out))

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ObservationRow](file)
	defer reader.Close()
	rows := make([]ObservationRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)
	assert.Equal(t, "b_B.fits", rows[1].Path)
	assert.Equal(t, 950.0, rows[1].MaxFlux)
	assert.WithinDuration(t, s.ByFilter["B"][1].Time, rows[1].Time, time.Nanosecond)
}

func TestWriteToMissingDir(t *testing.T) {
	err := WriteCurves(testCurves(), filepath.Join(t.TempDir(), "missing", "c.parquet"))
	assert.Error(t, err)
}

func TestCurveTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CurveTable(&buf, testCurves()))
	out := buf.String()
	assert.Contains(t, out, "C001")
	assert.Contains(t, out, "1.2500")
	assert.Contains(t, out, "12.30")
	assert.Contains(t, out, "SUM")
}

func TestObservationTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ObservationTable(&buf, testSeries()))
	out := buf.String()
	assert.Contains(t, out, "03:00:00")
	assert.Contains(t, out, "03:10:00")
	assert.Contains(t, out, "950.0")
}

func TestPolarimetryTable(t *testing.T) {
	r := polarimetry.Result{
		WaveplateAngles: []float64{0, 22.5, 45},
		Q:               polarimetry.Quantity{Nominal: 0.0125, StdDev: 0.0003},
		U:               polarimetry.Quantity{Nominal: math.NaN(), StdDev: math.NaN()},
	}
	var buf bytes.Buffer
	require.NoError(t, PolarimetryTable(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "0.012500")
	assert.Contains(t, out, "0.000300")
	assert.Contains(t, out, "theta")
}
