//go:build !gnuplot

package render

// Show saves the figure under PlotsDir and logs the path. Build with the
// gnuplot tag to open XY panels in gnuplot windows instead.
func (f *Figure) Show() error {
	return f.saveInPlotsDir()
}
