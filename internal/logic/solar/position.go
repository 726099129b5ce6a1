// Package solar computes the sun's position with the simplified textbook model:
// Cooper's declination, a 15°/h hour angle and the spherical-triangle relations
// for elevation and azimuth. It is illustrative, not an ephemeris.
package solar

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// maxDeclinationDeg is the obliquity used by Cooper's equation.
	maxDeclinationDeg = 23.45
)

// SolarAngles holds the sun angles for one GeoTime. All angles are in radians.
type SolarAngles struct {
	DayOfYear   int
	Declination float64
	HourAngle   float64
	Elevation   float64
	// Azimuth is measured clockwise from geographic north, in [0, 2π).
	Azimuth float64
}

// ZenithAngle returns the complement of the elevation.
func (a SolarAngles) ZenithAngle() float64 {
	return math.Pi/2 - a.Elevation
}

// DeclinationDeg returns the declination in degrees.
func (a SolarAngles) DeclinationDeg() float64 { return a.Declination * radToDeg }

// HourAngleDeg returns the hour angle in degrees.
func (a SolarAngles) HourAngleDeg() float64 { return a.HourAngle * radToDeg }

// ElevationDeg returns the elevation in degrees.
func (a SolarAngles) ElevationDeg() float64 { return a.Elevation * radToDeg }

// ZenithAngleDeg returns the zenith angle in degrees.
func (a SolarAngles) ZenithAngleDeg() float64 { return a.ZenithAngle() * radToDeg }

// AzimuthDeg returns the azimuth in degrees, clockwise from north.
func (a SolarAngles) AzimuthDeg() float64 { return a.Azimuth * radToDeg }

// Compute evaluates the full chain for g.
func Compute(g GeoTime) SolarAngles {
	n := DayOfYear(g.Date())
	phi := g.Latitude()
	delta := Declination(n)
	omega := HourAngle(g.LocalSolarTime())
	h := SunElevation(phi, delta, omega)

	return SolarAngles{
		DayOfYear:   n,
		Declination: delta,
		HourAngle:   omega,
		Elevation:   h,
		Azimuth:     SunAzimuth(phi, delta, omega, h),
	}
}

// DayOfYear returns the ordinal day of date within its year (1 for January 1st).
func DayOfYear(date time.Time) int {
	return date.YearDay()
}

// Declination returns the solar declination for day n, in radians.
// Formula: δ = 23.45° × sin(360°/365 × (284 + n))
func Declination(n int) float64 {
	deg := maxDeclinationDeg * math.Sin(360.0/365.0*float64(284+n)*degToRad)
	return deg * degToRad
}

// HourAngle returns the hour angle for a local solar time in hours, in radians.
// Negative before solar noon, positive after.
// Formula: ω = 15° × (t − 12)
func HourAngle(localSolarTimeHours float64) float64 {
	return 15.0 * (localSolarTimeHours - 12.0) * degToRad
}

// SunElevation returns the sun elevation above the horizon, in radians.
// Formula: h = arcsin(sinφ·sinδ + cosφ·cosδ·cosω)
// The argument is clamped to [-1, 1] so rounding never yields NaN.
func SunElevation(latitude, declination, hourAngle float64) float64 {
	s := math.Sin(latitude)*math.Sin(declination) +
		math.Cos(latitude)*math.Cos(declination)*math.Cos(hourAngle)
	return math.Asin(clamp(s, -1, 1))
}

// SunAzimuthFromSouth returns the sun azimuth referenced to south (0 = south,
// positive toward west), in radians within [-π, π].
// Formula: a_s = atan2(cosδ·sinω, sinh·sinφ − sinδ)
//
// The pair is passed to atan2 un-normalized: dividing both terms by cos(h)·cos(φ)
// would be singular at the poles and with the sun at the zenith.
func SunAzimuthFromSouth(latitude, declination, hourAngle, elevation float64) float64 {
	y := math.Cos(declination) * math.Sin(hourAngle)
	x := math.Sin(elevation)*math.Sin(latitude) - math.Sin(declination)
	return math.Atan2(y, x)
}

// SunAzimuth returns the sun azimuth clockwise from north, in radians within [0, 2π).
func SunAzimuth(latitude, declination, hourAngle, elevation float64) float64 {
	az := SunAzimuthFromSouth(latitude, declination, hourAngle, elevation) + math.Pi
	if az >= 2*math.Pi {
		az -= 2 * math.Pi
	}
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
