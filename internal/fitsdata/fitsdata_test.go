package fitsdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.fits")

	fr, err := NewFrame(3, 2, 2, []float64{
		1, 2, 3,
		4, 5, 6,
		10, 20, 30,
		40, 50, 60,
	})
	require.NoError(t, err)

	tab, err := NewTable("CATALOG", []string{"TIME", "MAG"}, map[string][]float64{
		"TIME": {2459000.1, 2459000.2, 2459000.3},
		"MAG":  {12.5, 12.6, 12.4},
	})
	require.NoError(t, err)

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteImage(PrimaryName, fr,
		Card{Key: "DATE", Value: "2022-07-25T01:02:03"},
		Card{Key: "EXPTIME", Value: 2.5},
		Card{Key: "NSTARS", Value: 7},
	))
	require.NoError(t, w.WriteTable("CATALOG", tab, Card{Key: "QPOL", Value: 0.012}))
	require.NoError(t, w.Close())
	return path
}

func TestImagePlanes(t *testing.T) {
	p, err := Open(writeSample(t))
	require.NoError(t, err)
	defer p.Close()

	fr, err := p.Image(PrimaryName)
	require.NoError(t, err)
	assert.Equal(t, 3, fr.Width)
	assert.Equal(t, 2, fr.Height)
	assert.Equal(t, 2, fr.Planes)

	m, err := fr.Plane(1)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 60.0, m.At(1, 2))
	assert.Equal(t, 20.0, m.At(0, 1))

	_, err = fr.Plane(2)
	assert.ErrorIs(t, err, ErrPlane)

	same, err := p.ImageAt(0)
	require.NoError(t, err)
	v, err := same.Values(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, v)
}

func TestHeaderKeywords(t *testing.T) {
	p, err := Open(writeSample(t))
	require.NoError(t, err)
	defer p.Close()

	h, err := p.Header("")
	require.NoError(t, err)

	date, err := h.String("DATE")
	require.NoError(t, err)
	assert.Equal(t, "2022-07-25T01:02:03", date)

	exp, err := h.Float("EXPTIME")
	require.NoError(t, err)
	assert.Equal(t, 2.5, exp)

	n, err := h.Float("NSTARS")
	require.NoError(t, err)
	assert.Equal(t, 7.0, n)

	_, err = h.Float("MISSING")
	assert.ErrorIs(t, err, ErrMissingKey)
	_, err = h.String("MISSING")
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Equal(t, -1.0, h.FloatOr("MISSING", -1))

	th, err := p.Header("CATALOG")
	require.NoError(t, err)
	q, err := th.Float("QPOL")
	require.NoError(t, err)
	assert.InDelta(t, 0.012, q, 1e-12)
}

func TestTableColumns(t *testing.T) {
	p, err := Open(writeSample(t))
	require.NoError(t, err)
	defer p.Close()

	tab, err := p.Table("CATALOG")
	require.NoError(t, err)
	assert.Equal(t, 3, tab.NumRows())
	assert.Equal(t, []string{"TIME", "MAG"}, tab.Columns())
	assert.True(t, tab.HasColumn("mag"))
	assert.False(t, tab.HasColumn("EMAG"))

	mag, err := tab.Column("MAG")
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 12.6, 12.4}, mag)

	_, err = tab.Column("EMAG")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Len(t, tab.ColumnOrNaN("EMAG"), 3)

	same, err := p.TableAt(1)
	require.NoError(t, err)
	assert.Equal(t, 3, same.NumRows())
}

func TestWrongKind(t *testing.T) {
	p, err := Open(writeSample(t))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 2, p.NumHDUs())

	_, err = p.Image("CATALOG")
	assert.ErrorIs(t, err, ErrNotImage)
	_, err = p.TableAt(0)
	assert.ErrorIs(t, err, ErrNotTable)
	_, err = p.Table("NOPE")
	assert.ErrorIs(t, err, ErrNoHDU)
	_, err = p.ImageAt(5)
	assert.ErrorIs(t, err, ErrNoHDU)
}

func TestScaledIntegerImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "u16.fits")
	fh, err := os.Create(path)
	require.NoError(t, err)
	f, err := fitsio.Create(fh)
	require.NoError(t, err)

	img := fitsio.NewImage(16, []int{2, 2})
	require.NoError(t, img.Header().Append(
		fitsio.Card{Name: "BZERO", Value: 32768},
		fitsio.Card{Name: "BSCALE", Value: 1},
	))
	require.NoError(t, img.Write([]int16{-32768, 0, 1, 32767}))
	require.NoError(t, f.Write(img))
	require.NoError(t, img.Close())
	require.NoError(t, f.Close())
	require.NoError(t, fh.Close())

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()
	fr, err := p.ImageAt(0)
	require.NoError(t, err)
	v, err := fr.Values(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 32768, 32769, 65535}, v)
}

func TestNewFrameShape(t *testing.T) {
	_, err := NewFrame(2, 2, 1, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.fits"))
	assert.Error(t, err)
}
