package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sparc4-pipeline/sparc4-plots/internal/export"
	"github.com/sparc4-pipeline/sparc4-plots/internal/polarimetry"
	"github.com/sparc4-pipeline/sparc4-plots/internal/products"
)

var (
	polOpts      = products.DefaultPolarimetryOptions()
	polWavePlate string
)

var polarCmd = &cobra.Command{
	Use:   "polar <file.fits>",
	Short: "Plot a polarimetry fit: modulation data, model and residuals.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		wp, err := polarimetry.ParseWavePlate(polWavePlate)
		if err != nil {
			return err
		}
		opts := polOpts
		opts.WavePlate = wp
		opts.Style = cfg.Style
		r, err := products.PolarimetryResults(args[0], opts, cfg.Output)
		if err != nil {
			return err
		}
		reportOutput()
		return export.PolarimetryTable(os.Stdout, r)
	},
}

func init() {
	f := polarCmd.Flags()
	f.Float64Var(&polOpts.Sampling, "sampling", polOpts.Sampling, "Model sampling step in degrees")
	f.StringVar(&polOpts.Title, "title", "", "Label prefixed to the figure title")
	f.StringVar(&polWavePlate, "wave-plate", string(polarimetry.HalfWave), "Wave plate: halfwave or quarterwave")
	f.StringVar(&polOpts.ResultExt, "ext", polOpts.ResultExt, "Extension holding the polarimetry result")
}
