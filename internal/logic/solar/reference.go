package solar

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	meeussolar "github.com/soniakeys/meeus/v3/solar"
)

// ApparentDeclination returns the apparent solar declination at 12:00 UT on the
// calendar date of date, in radians, using Meeus' low-precision solar theory.
// It is a cross-check for Declination, not an input to any other computation.
func ApparentDeclination(date time.Time) float64 {
	y, m, d := date.Date()
	jd := julian.CalendarGregorianToJD(y, int(m), float64(d)+0.5)
	_, dec := meeussolar.ApparentEquatorial(jd)
	return dec.Rad()
}
