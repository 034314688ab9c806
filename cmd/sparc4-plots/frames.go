package main

import (
	"github.com/spf13/cobra"

	"github.com/sparc4-pipeline/sparc4-plots/internal/products"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

var (
	calOpts   = products.DefaultCalFrameOptions()
	calMethod string

	sciOpts   = products.DefaultSciFrameOptions()
	polarOpts = products.DefaultSciPolarFrameOptions()
)

var calframeCmd = &cobra.Command{
	Use:   "calframe <file.fits>",
	Short: "Plot a calibration frame with its noise and cuts.",
	Long: `Plot a calibration product: image and noise planes side by side,
with row/column cuts (or combined profiles) below each.

Examples:
  sparc4-plots calframe 20240610_s4c1_MasterZero.fits
  sparc4-plots calframe flat.fits --combine-rows --method median -o flat.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m, err := robust.ParseCombine(calMethod)
		if err != nil {
			return err
		}
		opts := calOpts
		opts.Method = m
		opts.Style = cfg.Style
		if err := products.CalFrame(args[0], opts, cfg.Output); err != nil {
			return err
		}
		reportOutput()
		return nil
	},
}

var sciframeCmd = &cobra.Command{
	Use:   "sciframe <file.fits>",
	Short: "Plot a science frame with catalog apertures.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		opts := sciOpts
		opts.Schema = cfg.Schema
		opts.Style = cfg.Style
		if err := products.SciFrame(args[0], opts, cfg.Output); err != nil {
			return err
		}
		reportOutput()
		return nil
	},
}

var polarframeCmd = &cobra.Command{
	Use:   "polarframe <file.fits>",
	Short: "Plot a polarimetric frame with both beams of each source.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		opts := polarOpts
		opts.Schema = cfg.Schema
		opts.Style = cfg.Style
		if err := products.SciPolarFrame(args[0], opts, cfg.Output); err != nil {
			return err
		}
		reportOutput()
		return nil
	},
}

func init() {
	f := calframeCmd.Flags()
	f.Float64Var(&calOpts.Percentile, "percentile", calOpts.Percentile, "Display percentile")
	f.IntVar(&calOpts.XCut, "xcut", calOpts.XCut, "Column of the vertical cut")
	f.IntVar(&calOpts.YCut, "ycut", calOpts.YCut, "Row of the horizontal cut")
	f.BoolVar(&calOpts.CombineRows, "combine-rows", false, "Plot the combined row profile instead of a cut")
	f.BoolVar(&calOpts.CombineCols, "combine-cols", false, "Plot the combined column profile instead of a cut")
	f.StringVar(&calMethod, "method", string(robust.CombineMean), "Combine method: mean or median")
	f.StringVar(&calOpts.Colormap, "cmap", calOpts.Colormap, "Colormap")

	f = sciframeCmd.Flags()
	f.IntVar(&sciOpts.CatalogExt, "catalog-ext", sciOpts.CatalogExt, "HDU index of the photometry catalog")
	f.StringVar(&sciOpts.CatalogName, "catalog", "", "Catalog extension name (overrides --catalog-ext)")
	f.IntVar(&sciOpts.NStars, "nstars", sciOpts.NStars, "Number of sources to mark")
	f.Float64Var(&sciOpts.Percentile, "percentile", sciOpts.Percentile, "Display percentile")
	f.StringVar(&sciOpts.Colormap, "cmap", sciOpts.Colormap, "Colormap")

	f = polarframeCmd.Flags()
	f.Float64Var(&polarOpts.Percentile, "percentile", polarOpts.Percentile, "Display percentile")
	f.StringVar(&polarOpts.Colormap, "cmap", polarOpts.Colormap, "Colormap")
}
