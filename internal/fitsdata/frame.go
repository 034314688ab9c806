package fitsdata

import (
	"fmt"

	"github.com/astrogo/fitsio"
	"gonum.org/v1/gonum/mat"
)

// Frame holds the pixels of an image HDU. Planes are stored one after
// another, each in row-major order with NAXIS1 as the fastest axis.
type Frame struct {
	Width  int
	Height int
	Planes int
	data   []float64
}

// NewFrame wraps pixel data of the given shape.
func NewFrame(
	width, height, planes int,
	data []float64,
) (
	*Frame,
	error,
) {
	if width*height*planes != len(data) {
		return nil, fmt.Errorf("fitsdata: frame shape %dx%dx%d does not match %d pixels", width, height, planes, len(data))
	}
	return &Frame{Width: width, Height: height, Planes: planes, data: data}, nil
}

// Values returns the raw pixels of plane i.
func (f *Frame) Values(i int) ([]float64, error) {
	if i < 0 || i >= f.Planes {
		return nil, fmt.Errorf("%w: %d of %d", ErrPlane, i, f.Planes)
	}
	n := f.Width * f.Height
	return f.data[i*n : (i+1)*n], nil
}

// Plane returns plane i as a Height x Width matrix. The matrix shares
// storage with the frame.
func (f *Frame) Plane(i int) (*mat.Dense, error) {
	v, err := f.Values(i)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(f.Height, f.Width, v), nil
}

func readFrame(img fitsio.Image) (*Frame, error) {
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) == 0 {
		return nil, fmt.Errorf("fitsdata: image has no data axes")
	}
	width, height, planes := axes[0], 1, 1
	if len(axes) > 1 {
		height = axes[1]
	}
	if len(axes) > 2 {
		for _, n := range axes[2:] {
			planes *= n
		}
	}
	n := width * height * planes

	data, err := readPixels(img, hdr.Bitpix(), n)
	if err != nil {
		return nil, err
	}

	bzero := Header{hdr: hdr}.FloatOr("BZERO", 0)
	bscale := Header{hdr: hdr}.FloatOr("BSCALE", 1)
	if bzero != 0 || bscale != 1 {
		for i, v := range data {
			data[i] = bzero + bscale*v
		}
	}
	return NewFrame(width, height, planes, data)
}

// readPixels decodes n pixels into float64. The slice handed to
// fitsio must match the element size implied by BITPIX.
func readPixels(
	img fitsio.Image,
	bitpix, n int,
) (
	[]float64,
	error,
) {
	out := make([]float64, n)
	switch bitpix {
	case 8:
		raw := make([]byte, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return nil, err
		}
		for i, v := range raw {
			out[i] = float64(v)
		}
	case -64:
		if err := img.Read(&out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("fitsdata: unsupported BITPIX %d", bitpix)
	}
	return out, nil
}
