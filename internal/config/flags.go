package config

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
)

// MonitorFlags registers the directory scan flags. Their names match the
// RawInput keys so binding the set to viper is enough.
func MonitorFlags(f *pflag.FlagSet) {
	d := monitor.DefaultConfig()
	f.StringP("datadir", "d", d.DataDir, "Data directory")
	f.StringP("pattern", "i", "", "File pattern; files are <pattern>_<filter>.fits")
	f.String("object", d.ObjectSuffix, "Object name suffix of the files")
	f.String("filters", strings.Join(d.Filters, ","), "Comma separated filters")
	f.String("interval", "0s", "Rescan period such as 30s (0 scans once)")
	f.String("cache", "", "SQLite file caching per-file readings")
}
