package main

import (
	"github.com/spf13/cobra"

	"github.com/sparc4-pipeline/sparc4-plots/internal/products"
)

var mapOpts = products.DefaultMap2DOptions()

var map2dCmd = &cobra.Command{
	Use:   "map2d <file.fits>",
	Short: "Plot the primary image as a 2D map with a color bar.",
	Long: `Plot plane 0 of the primary image as a pcolor map. The x and y axes come
from the CRVAL/CDELT/CRPIX keywords of each axis, or from pixel indices.

Example:
  sparc4-plots map2d ccf.fits --xlim -50,50 --zlim 0.2,1 --cmap gist_heat`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		opts := mapOpts
		opts.Style = cfg.Style
		if err := products.Map2D(args[0], opts, cfg.Output); err != nil {
			return err
		}
		reportOutput()
		return nil
	},
}

func init() {
	f := map2dCmd.Flags()
	f.Float64SliceVar(&mapOpts.XLim, "xlim", nil, "x range as min,max")
	f.Float64SliceVar(&mapOpts.YLim, "ylim", nil, "y range as min,max")
	f.Float64SliceVar(&mapOpts.ZLim, "zlim", nil, "Color range as min,max")
	f.StringVar(&mapOpts.XLabel, "xlabel", mapOpts.XLabel, "x axis label")
	f.StringVar(&mapOpts.YLabel, "ylabel", mapOpts.YLabel, "y axis label")
	f.StringVar(&mapOpts.ZLabel, "zlabel", mapOpts.ZLabel, "Color bar label")
	f.BoolVar(&mapOpts.UseIndexInY, "index-y", false, "Use the row index as y")
	f.StringVar(&mapOpts.Title, "title", "", "Figure title")
	f.StringVar(&mapOpts.Colormap, "cmap", mapOpts.Colormap, "Colormap")
}
