// Package fitsdata reads pipeline products: image planes, binary-table
// columns and header keywords, all as float64.
package fitsdata

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// PrimaryName addresses the first HDU whatever its EXTNAME.
const PrimaryName = "PRIMARY"

var (
	ErrNoHDU         = errors.New("fitsdata: no such HDU")
	ErrNotImage      = errors.New("fitsdata: HDU is not an image")
	ErrNotTable      = errors.New("fitsdata: HDU is not a table")
	ErrMissingKey    = errors.New("fitsdata: missing header keyword")
	ErrMissingColumn = errors.New("fitsdata: missing table column")
	ErrPlane         = errors.New("fitsdata: plane out of range")
)

// Product is an open FITS file.
type Product struct {
	path string
	fh   *os.File
	f    *fitsio.File
}

// Open opens a FITS product for reading.
func Open(path string) (*Product, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := fitsio.Open(fh)
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("could not read FITS file %s: %w", path, err)
	}
	return &Product{path: path, fh: fh, f: f}, nil
}

// Close releases the file.
func (p *Product) Close() error {
	err := p.f.Close()
	if cerr := p.fh.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *Product) Path() string { return p.path }

// NumHDUs is the number of header/data units in the file.
func (p *Product) NumHDUs() int { return len(p.f.HDUs()) }

func (p *Product) hduAt(i int) (fitsio.HDU, error) {
	if i < 0 || i >= p.NumHDUs() {
		return nil, fmt.Errorf("%w: index %d in %s (%d HDUs)", ErrNoHDU, i, p.path, p.NumHDUs())
	}
	return p.f.HDU(i), nil
}

func (p *Product) hdu(name string) (fitsio.HDU, error) {
	if name == "" || strings.EqualFold(name, PrimaryName) {
		return p.hduAt(0)
	}
	if !p.f.Has(name) {
		return nil, fmt.Errorf("%w: %q in %s", ErrNoHDU, name, p.path)
	}
	return p.f.Get(name), nil
}

// Image reads the named image HDU.
func (p *Product) Image(name string) (*Frame, error) {
	h, err := p.hdu(name)
	if err != nil {
		return nil, err
	}
	return p.image(h)
}

// ImageAt reads the image HDU at index i.
func (p *Product) ImageAt(i int) (*Frame, error) {
	h, err := p.hduAt(i)
	if err != nil {
		return nil, err
	}
	return p.image(h)
}

func (p *Product) image(h fitsio.HDU) (*Frame, error) {
	img, ok := h.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotImage, h.Name(), p.path)
	}
	fr, err := readFrame(img)
	if err != nil {
		return nil, fmt.Errorf("could not read image %q in %s: %w", h.Name(), p.path, err)
	}
	return fr, nil
}

// Table reads the named table HDU.
func (p *Product) Table(name string) (*Table, error) {
	h, err := p.hdu(name)
	if err != nil {
		return nil, err
	}
	return p.table(h)
}

// TableAt reads the table HDU at index i.
func (p *Product) TableAt(i int) (*Table, error) {
	h, err := p.hduAt(i)
	if err != nil {
		return nil, err
	}
	return p.table(h)
}

func (p *Product) table(h fitsio.HDU) (*Table, error) {
	t, ok := h.(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotTable, h.Name(), p.path)
	}
	tab, err := readTable(t)
	if err != nil {
		return nil, fmt.Errorf("could not read table %q in %s: %w", h.Name(), p.path, err)
	}
	return tab, nil
}

// Header returns the header of the named HDU.
func (p *Product) Header(name string) (Header, error) {
	h, err := p.hdu(name)
	if err != nil {
		return Header{}, err
	}
	return Header{hdr: h.Header()}, nil
}

// Header gives typed access to header keywords.
type Header struct {
	hdr *fitsio.Header
}

// String returns a keyword value as text.
func (h Header) String(key string) (string, error) {
	card := h.hdr.Get(key)
	if card == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	switch v := card.Value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Float returns a numeric keyword value.
func (h Header) Float(key string) (float64, error) {
	card := h.hdr.Get(key)
	if card == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	if v, ok := toFloat(card.Value); ok {
		return v, nil
	}
	if s, ok := card.Value.(string); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("fitsdata: keyword %s is not numeric (%v)", key, card.Value)
}

// FloatOr returns the keyword value or def when it is missing or not numeric.
func (h Header) FloatOr(key string, def float64) float64 {
	v, err := h.Float(key)
	if err != nil {
		return def
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
