package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparc4-pipeline/sparc4-plots/internal/config"
	"github.com/sparc4-pipeline/sparc4-plots/internal/export"
	"github.com/sparc4-pipeline/sparc4-plots/internal/logging"
	"github.com/sparc4-pipeline/sparc4-plots/internal/photometry"
)

var (
	v   = viper.New()
	cfg = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:   "sparc4-plots",
	Short: "Plot SPARC4 pipeline products.",
	Long: `Quick-look plots of SPARC4 reduction products: calibration and science
frames, differential light curves, polarimetry results and 2D maps.

Each command reads one FITS product. Without --output the figure is shown
with gnuplot; image figures are saved under ./plots/<date>/ instead.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./.sparc4plots.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
	rootCmd.PersistentFlags().Bool("no-color", false, "Print status lines without color")
	rootCmd.PersistentFlags().Bool("slide", false, "Use larger fonts for slides")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write the plot to this file instead of showing it")
	rootCmd.PersistentFlags().String("export", "", "Write the plotted series to this Parquet file")
	rootCmd.PersistentFlags().Int("schema", 1, "Product schema version")
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	config.SetDefaults(v)

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w (check usage with %s -h)", err, c.CommandPath())
	})

	rootCmd.AddCommand(calframeCmd, sciframeCmd, polarframeCmd)
	rootCmd.AddCommand(difflcCmd, lcCmd)
	rootCmd.AddCommand(polarCmd, map2dCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup resolves the configuration once flags are parsed.
func setup(cmd *cobra.Command, _ []string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	in, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := config.ProcessAndValidate(cfg, &in); err != nil {
		return err
	}
	logging.Setup(cfg.Verbose)
	logging.DisableColor(cfg.NoColor)
	return nil
}

func reportOutput() {
	if cfg.Output != "" {
		logging.Wrote(os.Stdout, cfg.Output)
	}
}

// finishCurves prints the curve summary and writes the export file.
func finishCurves(curves []photometry.Curve) error {
	if err := export.CurveTable(os.Stdout, curves); err != nil {
		return err
	}
	if cfg.Export == "" {
		return nil
	}
	if err := export.WriteCurves(curves, cfg.Export); err != nil {
		return err
	}
	logging.Wrote(os.Stdout, cfg.Export)
	return nil
}
