package solar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrLatitudeOutOfRange is returned when the latitude is outside [-90, 90] degrees.
	ErrLatitudeOutOfRange = errors.New("latitude must be between -90 and 90 degrees")
	// ErrSolarTimeOutOfRange is returned when the local solar time is outside [0, 24] hours.
	ErrSolarTimeOutOfRange = errors.New("local solar time must be between 0 and 24 hours")
	// ErrMissingDate is returned for a zero date.
	ErrMissingDate = errors.New("date is required")
)

// GeoTime is the validated input of the calculator: where and when the sun is observed.
// The zero value is not valid; use NewGeoTime.
type GeoTime struct {
	latitudeDeg float64
	date        time.Time
	solarHours  float64
}

// NewGeoTime validates and builds a GeoTime.
// Only the calendar date of date is used; its clock time is ignored.
func NewGeoTime(latitudeDeg float64, date time.Time, localSolarTimeHours float64) (GeoTime, error) {
	if math.IsNaN(latitudeDeg) || latitudeDeg < -90 || latitudeDeg > 90 {
		return GeoTime{}, fmt.Errorf("%w, got %g", ErrLatitudeOutOfRange, latitudeDeg)
	}
	if math.IsNaN(localSolarTimeHours) || localSolarTimeHours < 0 || localSolarTimeHours > 24 {
		return GeoTime{}, fmt.Errorf("%w, got %g", ErrSolarTimeOutOfRange, localSolarTimeHours)
	}
	if date.IsZero() {
		return GeoTime{}, ErrMissingDate
	}

	y, m, d := date.Date()
	return GeoTime{
		latitudeDeg: latitudeDeg,
		date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		solarHours:  localSolarTimeHours,
	}, nil
}

// LatitudeDeg returns the latitude in degrees.
func (g GeoTime) LatitudeDeg() float64 { return g.latitudeDeg }

// Latitude returns the latitude in radians.
func (g GeoTime) Latitude() float64 { return g.latitudeDeg * math.Pi / 180.0 }

// Date returns the calendar date (midnight UTC).
func (g GeoTime) Date() time.Time { return g.date }

// LocalSolarTime returns the local solar time in fractional hours.
func (g GeoTime) LocalSolarTime() float64 { return g.solarHours }
