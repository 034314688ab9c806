// Package schema names the extensions and per-source columns written by the
// upstream reduction stage. Column names carry a zero-padded source index;
// the padding differs between catalogs and differential photometry and must
// match existing files exactly.
package schema

import (
	"errors"
	"fmt"
)

var ErrUnknownSchema = errors.New("schema: unknown product schema version")

// Schema describes one version of the product layout.
type Schema struct {
	Version int

	Primary        string
	TimeCoords     string
	DiffPhotometry string
	PhotCatalog    string
	PolarNorth     string
	PolarSouth     string

	TimeColumn string
	XColumn    string
	YColumn    string
	AperColumn string

	MagFormat     string
	EMagFormat    string
	SkyMagFormat  string
	ESkyMagFormat string
	XFormat       string
	YFormat       string
	FWHMFormat    string
	DMagFormat    string
	EDMagFormat   string
}

// V1 is the layout of the current pipeline products.
var V1 = Schema{
	Version: 1,

	Primary:        "PRIMARY",
	TimeCoords:     "TIME_COORDS",
	DiffPhotometry: "DIFFPHOTOMETRY",
	PhotCatalog:    "CATALOG_PHOT_AP008",
	PolarNorth:     "CATALOG_POL_N_AP010",
	PolarSouth:     "CATALOG_POL_S_AP010",

	TimeColumn: "TIME",
	XColumn:    "x",
	YColumn:    "y",
	AperColumn: "APER",

	MagFormat:     "MAG%08d",
	EMagFormat:    "EMAG%08d",
	SkyMagFormat:  "SKYMAG%08d",
	ESkyMagFormat: "ESKYMAG%08d",
	XFormat:       "X%08d",
	YFormat:       "Y%08d",
	FWHMFormat:    "FWHM%08d",
	DMagFormat:    "DMAG%06d",
	EDMagFormat:   "EDMAG%06d",
}

var known = map[int]Schema{V1.Version: V1}

// Lookup returns the schema registered for version.
func Lookup(version int) (Schema, error) {
	s, ok := known[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %d", ErrUnknownSchema, version)
	}
	return s, nil
}

func (s Schema) Mag(id int) string     { return fmt.Sprintf(s.MagFormat, id) }
func (s Schema) EMag(id int) string    { return fmt.Sprintf(s.EMagFormat, id) }
func (s Schema) SkyMag(id int) string  { return fmt.Sprintf(s.SkyMagFormat, id) }
func (s Schema) ESkyMag(id int) string { return fmt.Sprintf(s.ESkyMagFormat, id) }
func (s Schema) X(id int) string       { return fmt.Sprintf(s.XFormat, id) }
func (s Schema) Y(id int) string       { return fmt.Sprintf(s.YFormat, id) }
func (s Schema) FWHM(id int) string    { return fmt.Sprintf(s.FWHMFormat, id) }
func (s Schema) DMag(id int) string    { return fmt.Sprintf(s.DMagFormat, id) }
func (s Schema) EDMag(id int) string   { return fmt.Sprintf(s.EDMagFormat, id) }

// DiffStarCount is the number of DMAG/EDMAG pairs in a differential
// photometry table with ncols columns (one of which is the time).
func DiffStarCount(ncols int) int {
	if ncols < 1 {
		return 0
	}
	return (ncols - 1) / 2
}
