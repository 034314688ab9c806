package monitor

import (
	"math"
	"time"
)

// Site is an observatory location. Longitude is east-positive degrees.
type Site struct {
	Name     string
	Lat, Lon float64
	Alt      float64 // meters
}

func dms(d, m, s float64) float64 {
	return d + (m+s/60)/60
}

// OPD is the Observatório do Pico dos Dias, home of SPARC4.
var OPD = Site{
	Name: "OPD",
	Lat:  -dms(22, 32, 4),
	Lon:  -dms(45, 34, 57),
	Alt:  1864,
}

const (
	unixEpochJD = 2440587.5
	j2000JD     = 2451545.0
)

// JulianDate converts a UTC instant to a Julian date.
func JulianDate(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixNano())/float64(24*time.Hour)
}

// LST is the local mean sidereal time at the site, in hours.
func (s Site) LST(t time.Time) float64 {
	d := JulianDate(t) - j2000JD
	gmst := 18.697374558 + 24.06570982441908*d
	return math.Mod(math.Mod(gmst+s.Lon/15, 24)+24, 24)
}
