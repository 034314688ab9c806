package fitsdata

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/astrogo/fitsio"
)

// ErrNotNumeric is returned for columns holding text or vector cells.
var ErrNotNumeric = errors.New("fitsdata: column is not a numeric scalar")

// Table holds the scalar numeric columns of a table HDU in memory.
type Table struct {
	Name    string
	nrows   int
	names   []string
	cols    map[string][]float64
	skipped map[string]bool
}

// NewTable builds an in-memory table; all columns must share a length.
func NewTable(name string, names []string, cols map[string][]float64) (*Table, error) {
	t := &Table{Name: name, names: names, cols: map[string][]float64{}, skipped: map[string]bool{}}
	for i, n := range names {
		c, ok := cols[n]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
		if i == 0 {
			t.nrows = len(c)
		} else if len(c) != t.nrows {
			return nil, fmt.Errorf("fitsdata: column %s has %d rows, want %d", n, len(c), t.nrows)
		}
		t.cols[strings.ToUpper(n)] = c
	}
	return t, nil
}

func readTable(t *fitsio.Table) (*Table, error) {
	nrows := int(t.NumRows())
	tab := &Table{
		Name:    t.Name(),
		nrows:   nrows,
		cols:    map[string][]float64{},
		skipped: map[string]bool{},
	}
	for _, c := range t.Cols() {
		tab.names = append(tab.names, c.Name)
		tab.cols[strings.ToUpper(c.Name)] = make([]float64, nrows)
	}
	if nrows == 0 {
		return tab, nil
	}

	rows, err := t.Read(0, int64(nrows))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		cells := map[string]interface{}{}
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		for name, cell := range cells {
			key := strings.ToUpper(name)
			col, ok := tab.cols[key]
			if !ok || tab.skipped[key] {
				continue
			}
			v, ok := toFloat(cell)
			if !ok {
				tab.skipped[key] = true
				continue
			}
			col[row] = v
		}
		row++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for key := range tab.skipped {
		delete(tab.cols, key)
	}
	return tab, nil
}

func (t *Table) NumRows() int { return t.nrows }

// Columns lists every column name in file order, numeric or not.
func (t *Table) Columns() []string { return append([]string(nil), t.names...) }

// HasColumn reports whether a numeric column exists. Names are matched
// case-insensitively.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[strings.ToUpper(name)]
	return ok
}

// Column returns the values of a numeric column.
func (t *Table) Column(name string) ([]float64, error) {
	key := strings.ToUpper(name)
	if c, ok := t.cols[key]; ok {
		return c, nil
	}
	if t.skipped[key] {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, name)
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, name, t.Name)
}

// ColumnOrNaN returns the column, or a NaN-filled one when absent.
func (t *Table) ColumnOrNaN(name string) []float64 {
	if c, err := t.Column(name); err == nil {
		return c
	}
	out := make([]float64, t.nrows)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
