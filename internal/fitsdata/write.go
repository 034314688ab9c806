package fitsdata

import (
	"fmt"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// Card is a header keyword written alongside an HDU.
type Card struct {
	Key     string
	Value   interface{}
	Comment string
}

// Writer creates a FITS file HDU by HDU.
type Writer struct {
	fh *os.File
	f  *fitsio.File
	n  int
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Writer, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	f, err := fitsio.Create(fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return &Writer{fh: fh, f: f}, nil
}

func appendCards(hdr *fitsio.Header, name string, cards []Card) error {
	var out []fitsio.Card
	if name != "" && !strings.EqualFold(name, PrimaryName) {
		out = append(out, fitsio.Card{Name: "EXTNAME", Value: name})
	}
	for _, c := range cards {
		out = append(out, fitsio.Card{Name: c.Key, Value: c.Value, Comment: c.Comment})
	}
	if len(out) == 0 {
		return nil
	}
	return hdr.Append(out...)
}

// WriteImage appends fr as a 64-bit float image.
func (w *Writer) WriteImage(name string, fr *Frame, cards ...Card) error {
	axes := []int{fr.Width, fr.Height}
	if fr.Planes > 1 {
		axes = append(axes, fr.Planes)
	}
	img := fitsio.NewImage(-64, axes)
	defer img.Close()
	if err := appendCards(img.Header(), name, cards); err != nil {
		return err
	}
	if err := img.Write(fr.data); err != nil {
		return fmt.Errorf("could not write image %q: %w", name, err)
	}
	if err := w.f.Write(img); err != nil {
		return err
	}
	w.n++
	return nil
}

// WriteTable appends tab as a binary table of 64-bit float columns. An
// empty primary HDU is written first when the file has none.
func (w *Writer) WriteTable(name string, tab *Table, cards ...Card) error {
	if w.n == 0 {
		phdu, err := fitsio.NewPrimaryHDU(nil)
		if err != nil {
			return err
		}
		if err := w.f.Write(phdu); err != nil {
			return err
		}
		w.n++
	}

	names := tab.Columns()
	cols := make([]fitsio.Column, len(names))
	data := make([][]float64, len(names))
	for i, n := range names {
		c, err := tab.Column(n)
		if err != nil {
			return err
		}
		cols[i] = fitsio.Column{Name: n, Format: "D"}
		data[i] = c
	}

	t, err := fitsio.NewTable(name, cols, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer t.Close()
	if err := appendCards(t.Header(), "", cards); err != nil {
		return err
	}

	row := make([]float64, len(names))
	args := make([]interface{}, len(names))
	for i := range row {
		args[i] = &row[i]
	}
	for r := 0; r < tab.NumRows(); r++ {
		for i := range data {
			row[i] = data[i][r]
		}
		if err := t.Write(args...); err != nil {
			return fmt.Errorf("could not write row %d of %q: %w", r, name, err)
		}
	}
	if err := w.f.Write(t); err != nil {
		return err
	}
	w.n++
	return nil
}

// Close flushes the file.
func (w *Writer) Close() error {
	err := w.f.Close()
	if cerr := w.fh.Close(); err == nil {
		err = cerr
	}
	return err
}
