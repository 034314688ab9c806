//go:build !gnuplot

package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowSavesUnderPlotsDir(t *testing.T) {
	root := PlotsRoot
	PlotsRoot = t.TempDir()
	t.Cleanup(func() { PlotsRoot = root })

	pn := NewPanel("", "x", "y", Style{})
	require.NoError(t, pn.AddLineSeries("line", []float64{0, 1, 2}, []float64{1, 3, 2}, Black, false))

	require.NoError(t, Output(Single("xy", pn), ""))

	matches, err := filepath.Glob(filepath.Join(PlotsRoot, "*", "*: xy", "figure.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	st, err := os.Stat(matches[0])
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}
