// Command sparc4-monitor plots the peak flux of each frame of a night in
// the four SPARC4 channels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparc4-pipeline/sparc4-plots/internal/config"
	"github.com/sparc4-pipeline/sparc4-plots/internal/export"
	"github.com/sparc4-pipeline/sparc4-plots/internal/logging"
	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
)

var (
	v   = viper.New()
	cfg = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:   "sparc4-monitor",
	Short: "Monitor the peak flux of SPARC4 frames.",
	Long: `Scan a data directory for <object>_<filter>.fits frames, read the peak
of each image and its DATE, and plot max flux against time per filter.

Examples:
  sparc4-monitor -d /data/20240610
  sparc4-monitor -i "/data/20240610/20240610_s4c*_aumic" -o monitor.png
  sparc4-monitor -d /data/20240610 --interval 30s --cache monitor.db -o monitor.png`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PreRunE:       setup,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	config.MonitorFlags(f)
	f.String("config", "", "Path to config file (default ./.sparc4plots.yaml)")
	f.BoolP("verbose", "v", false, "Log skipped files and scan progress")
	f.Bool("no-color", false, "Print status lines without color")
	f.Bool("slide", false, "Use larger fonts for slides")
	f.StringP("output", "o", "", "Write the plot to this file instead of showing it")
	f.String("export", "", "Write the observations to this Parquet file")
	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
	config.SetDefaults(v)

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w (check usage with %s -h)", err, c.CommandPath())
	})
}

func setup(_ *cobra.Command, _ []string) error {
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

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store monitor.Store
	if cfg.CachePath != "" {
		cache, err := monitor.OpenCache(ctx, cfg.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		store = cache
	}
	return monitor.Watch(ctx, cfg.Monitor, store, cfg.Interval, report)
}

// report prints, exports and plots one scan.
func report(s monitor.Series) error {
	if s.Len() == 0 {
		logging.Warn(os.Stdout, "no frames", fmt.Errorf("nothing matched %s", cfg.Monitor.Glob("*")))
	}
	if err := export.ObservationTable(os.Stdout, s); err != nil {
		return err
	}
	if cfg.Export != "" {
		if err := export.WriteObservations(s, cfg.Export); err != nil {
			return err
		}
		logging.Wrote(os.Stdout, cfg.Export)
	}

	fig, err := monitor.Plot(s, cfg.Style)
	if err != nil {
		return err
	}
	if err := render.Output(fig, cfg.Output); err != nil {
		return err
	}
	if cfg.Output != "" {
		logging.Wrote(os.Stdout, cfg.Output)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.Error(os.Stderr, err)
		os.Exit(1)
	}
}
