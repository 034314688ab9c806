// Package config resolves settings from defaults, an optional config file,
// SPARC4_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
	"github.com/sparc4-pipeline/sparc4-plots/internal/schema"
)

const (
	// FileName is the config file looked up in the working and home
	// directories, without extension.
	FileName  = ".sparc4plots"
	EnvPrefix = "SPARC4"

	DefaultAddr = ":8080"
)

var ErrInvalid = errors.New("config: invalid value")

// RawInput holds the unvalidated values from every source.
type RawInput struct {
	Config  string `mapstructure:"config"`
	Verbose bool   `mapstructure:"verbose"`
	NoColor bool   `mapstructure:"no-color"`
	Slide   bool   `mapstructure:"slide"`
	Output  string `mapstructure:"output"`
	Export  string `mapstructure:"export"`
	Schema  int    `mapstructure:"schema"`

	DataDir  string `mapstructure:"datadir"`
	Pattern  string `mapstructure:"pattern"`
	Object   string `mapstructure:"object"`
	Filters  string `mapstructure:"filters"`
	Interval string `mapstructure:"interval"`
	Cache    string `mapstructure:"cache"`
	Addr     string `mapstructure:"addr"`

	// Site fields left nil fall back to OPD.
	SiteName *string  `mapstructure:"site-name"`
	SiteLat  *float64 `mapstructure:"site-lat"`
	SiteLon  *float64 `mapstructure:"site-lon"`
	SiteAlt  *float64 `mapstructure:"site-alt"`
}

// Config is the validated configuration shared by both commands.
type Config struct {
	Verbose bool
	NoColor bool
	Style   render.Style
	// Output is the plot destination; empty shows the plot.
	Output string
	// Export is an optional Parquet path for the plotted series.
	Export string
	Schema schema.Schema

	Monitor   monitor.Config
	Interval  time.Duration
	CachePath string
	Addr      string
}

// SetDefaults registers every key so env variables and config files can
// override it even without a matching flag.
func SetDefaults(v *viper.Viper) {
	m := monitor.DefaultConfig()
	v.SetDefault("verbose", false)
	v.SetDefault("no-color", false)
	v.SetDefault("slide", false)
	v.SetDefault("output", "")
	v.SetDefault("export", "")
	v.SetDefault("schema", schema.V1.Version)
	v.SetDefault("datadir", m.DataDir)
	v.SetDefault("pattern", m.Pattern)
	v.SetDefault("object", m.ObjectSuffix)
	v.SetDefault("filters", strings.Join(m.Filters, ","))
	v.SetDefault("interval", "0s")
	v.SetDefault("cache", "")
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("site-name", m.Site.Name)
	v.SetDefault("site-lat", m.Site.Lat)
	v.SetDefault("site-lon", m.Site.Lon)
	v.SetDefault("site-alt", m.Site.Alt)
}

// Load reads the config file, if any, and unmarshals every resolved value.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (RawInput, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return RawInput{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var in RawInput
	if err := v.Unmarshal(&in); err != nil {
		return RawInput{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return in, nil
}

// ProcessAndValidate fills cfg from in.
func ProcessAndValidate(cfg *Config, in *RawInput) error {
	s, err := schema.Lookup(in.Schema)
	if err != nil {
		return err
	}
	cfg.Schema = s
	cfg.Verbose = in.Verbose
	cfg.NoColor = in.NoColor
	cfg.Style = render.Style{Slide: in.Slide}
	cfg.Output = in.Output
	cfg.Export = in.Export
	cfg.CachePath = in.Cache

	if err := processMonitor(cfg, in); err != nil {
		return err
	}

	cfg.Addr = in.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return nil
}

func processMonitor(cfg *Config, in *RawInput) error {
	m := monitor.DefaultConfig()
	if in.DataDir != "" {
		m.DataDir = in.DataDir
	}
	m.Pattern = in.Pattern
	if in.Object != "" {
		m.ObjectSuffix = in.Object
	}
	if in.Filters != "" {
		m.Filters = monitor.ParseFilters(in.Filters)
		if len(m.Filters) == 0 {
			return fmt.Errorf("%w: filters %q", ErrInvalid, in.Filters)
		}
	}

	site, err := processSite(in)
	if err != nil {
		return err
	}
	m.Site = site
	cfg.Monitor = m

	cfg.Interval = 0
	if in.Interval != "" {
		d, err := time.ParseDuration(in.Interval)
		if err != nil {
			return fmt.Errorf("%w: interval %q: %v", ErrInvalid, in.Interval, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: negative interval %s", ErrInvalid, d)
		}
		cfg.Interval = d
	}
	return nil
}

func processSite(in *RawInput) (monitor.Site, error) {
	site := monitor.OPD
	if in.SiteName != nil {
		site.Name = *in.SiteName
	}
	if in.SiteLat != nil {
		if *in.SiteLat < -90 || *in.SiteLat > 90 {
			return site, fmt.Errorf("%w: site latitude %g", ErrInvalid, *in.SiteLat)
		}
		site.Lat = *in.SiteLat
	}
	if in.SiteLon != nil {
		if *in.SiteLon < -180 || *in.SiteLon > 360 {
			return site, fmt.Errorf("%w: site longitude %g", ErrInvalid, *in.SiteLon)
		}
		site.Lon = *in.SiteLon
	}
	if in.SiteAlt != nil {
		site.Alt = *in.SiteAlt
	}
	return site, nil
}
