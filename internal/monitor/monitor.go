// Package monitor follows a night of observations: it scans a directory for
// reduced frames of one object, reads each frame's peak flux and time, and
// plots flux against time per filter.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sparc4-pipeline/sparc4-plots/internal/fitsdata"
	"github.com/sparc4-pipeline/sparc4-plots/internal/robust"
)

// DateLayouts are the accepted FITS DATE keyword formats (isot, UTC), tried
// in order. Fractional seconds are accepted by the first.
var DateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads a DATE keyword value as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Config selects the files to scan.
type Config struct {
	DataDir      string
	Pattern      string
	ObjectSuffix string
	Filters      []string
	Site         Site
}

// DefaultConfig watches the current directory for AU Mic frames in the
// four SPARC4 channels.
func DefaultConfig() Config {
	return Config{
		DataDir:      "./",
		ObjectSuffix: "aumic",
		Filters:      []string{"B", "V", "R", "I"},
		Site:         OPD,
	}
}

// Glob is the file pattern of one filter.
func (c Config) Glob(filter string) string {
	if c.Pattern != "" {
		p := c.Pattern + "_" + filter + ".fits"
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.DataDir, p)
	}
	return filepath.Join(c.DataDir, "*"+c.ObjectSuffix+"_"+filter+".fits")
}

// Observation is one frame's data point.
type Observation struct {
	Filter  string
	Path    string
	Time    time.Time
	JD      float64
	LST     float64 // hours
	MaxFlux float64
}

// Series holds the observations of each filter in time order.
type Series struct {
	Filters  []string
	ByFilter map[string][]Observation
}

// All returns every observation, grouped by filter.
func (s Series) All() []Observation {
	var out []Observation
	for _, f := range s.Filters {
		out = append(out, s.ByFilter[f]...)
	}
	return out
}

// Len is the total number of observations.
func (s Series) Len() int {
	n := 0
	for _, obs := range s.ByFilter {
		n += len(obs)
	}
	return n
}

// ReadFrame extracts the peak of the finite pixels of plane 0 of the primary
// image and the DATE keyword.
func ReadFrame(path string) (Reading, error) {
	p, err := fitsdata.Open(path)
	if err != nil {
		return Reading{}, err
	}
	defer p.Close()

	fr, err := p.ImageAt(0)
	if err != nil {
		return Reading{}, err
	}
	v, err := fr.Values(0)
	if err != nil {
		return Reading{}, err
	}
	peak := robust.NanMax(v)
	if math.IsNaN(peak) {
		return Reading{}, fmt.Errorf("%s: no finite pixels", path)
	}

	hdr, err := p.Header(fitsdata.PrimaryName)
	if err != nil {
		return Reading{}, err
	}
	date, err := hdr.String("DATE")
	if err != nil {
		return Reading{}, err
	}
	t, err := ParseDate(date)
	if err != nil {
		return Reading{}, fmt.Errorf("%s: DATE: %w", path, err)
	}
	return Reading{Date: t, MaxFlux: peak}, nil
}

func read(ctx context.Context, path string, cache Store) (Reading, error) {
	if cache == nil {
		return ReadFrame(path)
	}
	st, err := os.Stat(path)
	if err != nil {
		return Reading{}, err
	}
	key := FileKey{Path: path, Size: st.Size(), ModTime: st.ModTime()}
	if r, ok, err := cache.Lookup(ctx, key); err != nil {
		slog.Warn("cache lookup failed", "path", path, "error", err)
	} else if ok {
		return r, nil
	}

	r, err := ReadFrame(path)
	if err != nil {
		return r, err
	}
	if err := cache.Save(ctx, key, r); err != nil {
		slog.Warn("cache save failed", "path", path, "error", err)
	}
	return r, nil
}

// Scan reads every matching file once. Files that cannot be read are
// skipped. cache may be nil.
func Scan(ctx context.Context, cfg Config, cache Store) (Series, error) {
	s := Series{Filters: cfg.Filters, ByFilter: map[string][]Observation{}}
	for _, filter := range cfg.Filters {
		paths, err := filepath.Glob(cfg.Glob(filter))
		if err != nil {
			return s, fmt.Errorf("bad pattern for filter %s: %w", filter, err)
		}
		slices.Sort(paths)

		var obs []Observation
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return s, err
			}
			r, err := read(ctx, path, cache)
			if err != nil {
				slog.Debug("skipping file", "path", path, "error", err)
				continue
			}
			obs = append(obs, Observation{
				Filter:  filter,
				Path:    path,
				Time:    r.Date,
				JD:      JulianDate(r.Date),
				LST:     cfg.Site.LST(r.Date),
				MaxFlux: r.MaxFlux,
			})
		}
		slices.SortStableFunc(obs, func(a, b Observation) int { return a.Time.Compare(b.Time) })
		s.ByFilter[filter] = obs
		slog.Debug("scanned filter", "filter", filter, "files", len(paths), "observations", len(obs))
	}
	return s, nil
}

// Watch scans, hands the series to fn, and repeats every interval until
// ctx ends. A zero interval scans once.
func Watch(
	ctx context.Context,
	cfg Config,
	cache Store,
	interval time.Duration,
	fn func(Series) error,
) error {

	if err := scanOnce(ctx, cfg, cache, fn); err != nil || interval <= 0 {
		return err
	}
	return Rescan(ctx, cfg, cache, interval, fn)
}

// Rescan is Watch without the first pass: it waits one interval before
// every scan. A zero interval returns at once.
func Rescan(
	ctx context.Context,
	cfg Config,
	cache Store,
	interval time.Duration,
	fn func(Series) error,
) error {

	if interval <= 0 {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := scanOnce(ctx, cfg, cache, fn); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func scanOnce(ctx context.Context, cfg Config, cache Store, fn func(Series) error) error {
	s, err := Scan(ctx, cfg, cache)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return fn(s)
}

// ParseFilters splits a comma separated filter list.
func ParseFilters(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
