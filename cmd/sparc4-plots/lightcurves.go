package main

import (
	"github.com/spf13/cobra"

	"github.com/sparc4-pipeline/sparc4-plots/internal/products"
)

var (
	diffOpts = products.DefaultDiffLightCurveOptions()
	lcOpts   = products.DefaultLightCurveOptions()
)

var difflcCmd = &cobra.Command{
	Use:   "difflc <file.fits>",
	Short: "Plot the differential light curves of a photometry product.",
	Long: `Plot every DMAG/EDMAG curve of the differential photometry extension,
offset by its median, with the baseline curve's scatter band.

Examples:
  sparc4-plots difflc 20240610_s4c1_aumic_lc.fits
  sparc4-plots difflc lc.fits --comps 1,3 --plot-comps --export lc.parquet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := diffOpts
		opts.PlotSum = !mustBool(cmd, "no-sum")
		opts.Schema = cfg.Schema
		opts.Style = cfg.Style
		set, err := products.DiffLightCurve(args[0], opts, cfg.Output)
		if err != nil {
			return err
		}
		reportOutput()
		return finishCurves(set.Curves)
	},
}

var lcCmd = &cobra.Command{
	Use:   "lc <file.fits>",
	Short: "Plot coordinates, raw magnitudes and light curves from a catalog.",
	Long: `Build differential light curves of a target against comparison stars
from the photometry catalog, and plot source drifts and FWHM, raw target and
sky magnitudes, and the differential curves. With --output the figures are
written as <output>_coords, <output>_rawmags and <output>_dmag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := lcOpts
		opts.PlotCoords = !mustBool(cmd, "no-coords")
		opts.PlotRawMags = !mustBool(cmd, "no-rawmags")
		opts.PlotSum = !mustBool(cmd, "no-sum")
		opts.PlotComps = !mustBool(cmd, "no-comps")
		opts.Schema = cfg.Schema
		opts.Style = cfg.Style
		res, err := products.LightCurve(args[0], opts, cfg.Output)
		if err != nil {
			return err
		}
		reportOutput()
		return finishCurves(res.All())
	},
}

func mustBool(cmd *cobra.Command, name string) bool {
	b, _ := cmd.Flags().GetBool(name)
	return b
}

func init() {
	f := difflcCmd.Flags()
	f.IntSliceVar(&diffOpts.Comps, "comps", nil, "Comparison source ids labelling the curves, in column order")
	f.Float64Var(&diffOpts.NSig, "nsig", diffOpts.NSig, "Clip points beyond nsig robust sigmas")
	f.Bool("no-sum", false, "Do not plot the baseline curve")
	f.BoolVar(&diffOpts.PlotComps, "plot-comps", diffOpts.PlotComps, "Also plot the other curves")

	f = lcCmd.Flags()
	f.IntVar(&lcOpts.Target, "target", 0, "Catalog index of the target")
	f.IntSliceVar(&lcOpts.Comps, "comps", nil, "Catalog indices of the comparison stars")
	f.Float64Var(&lcOpts.NSig, "nsig", lcOpts.NSig, "Clip points beyond nsig robust sigmas")
	f.Float64Var(&lcOpts.PlateScale, "plate-scale", lcOpts.PlateScale, "Plate scale in units per pixel")
	f.StringVar(&lcOpts.Unit, "unit", lcOpts.Unit, "Unit of the plate scale")
	f.Float64Var(&lcOpts.MagOffset, "mag-offset", lcOpts.MagOffset, "Vertical spacing between curves (mag)")
	f.StringVar(&lcOpts.CatalogName, "catalog", lcOpts.CatalogName, "Photometry catalog extension")
	f.Bool("no-coords", false, "Skip the coordinates figure")
	f.Bool("no-rawmags", false, "Skip the raw magnitudes figure")
	f.Bool("no-sum", false, "Skip the summed comparison curve")
	f.Bool("no-comps", false, "Skip the per-comparison curves")
}
