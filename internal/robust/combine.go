package robust

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Combine selects how an image is collapsed into a profile.
type Combine string

const (
	CombineMean   Combine = "mean"
	CombineMedian Combine = "median"
)

var ErrCombineMethod = errors.New("combine method must be mean or median")

// ParseCombine accepts "mean" or "median", case-insensitively.
func ParseCombine(s string) (Combine, error) {
	switch c := Combine(strings.ToLower(strings.TrimSpace(s))); c {
	case CombineMean, CombineMedian:
		return c, nil
	}
	return "", fmt.Errorf("%w (received %q)", ErrCombineMethod, s)
}

func (c Combine) reduce(xs []float64) (float64, error) {
	switch c {
	case CombineMean:
		return NanMean(xs), nil
	case CombineMedian:
		return NanMedian(xs), nil
	}
	return 0, fmt.Errorf("%w (received %q)", ErrCombineMethod, string(c))
}

// CombineAxis collapses img along axis 0 (down the rows, one value per column)
// or axis 1 (across the columns, one value per row), ignoring NaN.
func CombineAxis(img mat.Matrix, axis int, c Combine) ([]float64, error) {
	r, cols := img.Dims()
	switch axis {
	case 0:
		out := make([]float64, cols)
		buf := make([]float64, r)
		for j := 0; j < cols; j++ {
			mat.Col(buf, j, img)
			v, err := c.reduce(buf)
			if err != nil {
				return nil, err
			}
			out[j] = v
		}
		return out, nil
	case 1:
		out := make([]float64, r)
		buf := make([]float64, cols)
		for i := 0; i < r; i++ {
			mat.Row(buf, i, img)
			v, err := c.reduce(buf)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("robust: axis must be 0 or 1 (received %d)", axis)
}
