// Package report turns computed solar angles into the results table and formula
// reference shown next to the diagram.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cjeanneret/solargeo/internal/logic/geometry"
	"github.com/cjeanneret/solargeo/internal/logic/solar"
)

// Row keys, stable across releases; the web UI addresses rows by key.
const (
	KeyDayOfYear        = "day_of_year"
	KeyDeclination      = "declination"
	KeyHourAngle        = "hour_angle"
	KeyElevation        = "elevation"
	KeyZenith           = "zenith"
	KeyAzimuth          = "azimuth"
	KeyPanelTilt        = "panel_tilt"
	KeyPanelAzimuth     = "panel_azimuth"
	KeyIncidence        = "incidence"
	KeyMeeusDeclination = "meeus_declination"
)

// Panel is the fixed PV module the table reports on.
type Panel struct {
	TiltDeg    float64 `json:"tilt_deg"`
	AzimuthDeg float64 `json:"azimuth_deg"`
}

// DefaultPanel is a south-facing module tilted 22.3°.
func DefaultPanel() Panel {
	return Panel{TiltDeg: 22.3, AzimuthDeg: 180}
}

// Row is one quantity of the results table.
type Row struct {
	Key      string  `json:"key"`
	Quantity string  `json:"quantity"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit,omitempty"`
	Decimals int     `json:"decimals"`
}

// Text formats the value with the row's precision.
func (r Row) Text() string {
	return fmt.Sprintf("%.*f", r.Decimals, r.Value)
}

// Table returns the results rows for g and the angles computed from it. The incidence
// row uses the physical panel normal, so it exceeds 90° when the sun is behind the module.
func Table(g solar.GeoTime, a solar.SolarAngles, p Panel) []Row {
	const d2r = math.Pi / 180.0

	sun := geometry.Direction(a.Elevation, a.Azimuth)
	normal := geometry.FixedPanelNormal(p.TiltDeg*d2r, p.AzimuthDeg*d2r)
	incidence := geometry.IncidenceAngle(sun, normal) / d2r
	meeus := solar.ApparentDeclination(g.Date()) / d2r

	return []Row{
		{Key: KeyDayOfYear, Quantity: "Day of year", Value: float64(a.DayOfYear)},
		deg(KeyDeclination, "Declination δ", a.DeclinationDeg()),
		deg(KeyHourAngle, "Hour angle ω", a.HourAngleDeg()),
		deg(KeyElevation, "Sun elevation h", a.ElevationDeg()),
		deg(KeyZenith, "Sun zenith ψz", a.ZenithAngleDeg()),
		deg(KeyAzimuth, "Sun azimuth a_s", a.AzimuthDeg()),
		deg(KeyPanelTilt, "PV tilt β", p.TiltDeg),
		deg(KeyPanelAzimuth, "PV azimuth a", p.AzimuthDeg),
		deg(KeyIncidence, "Angle of incidence ψ", incidence),
		deg(KeyMeeusDeclination, "Declination δ (Meeus)", meeus),
	}
}

func deg(key, quantity string, v float64) Row {
	return Row{Key: key, Quantity: quantity, Value: v, Unit: "°", Decimals: 2}
}

// Find returns the row with the given key.
func Find(rows []Row, key string) (Row, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}

// Render writes rows as an aligned two-column table.
func Render(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "Quantity\tValue\t"); err != nil {
		return err
	}
	for _, r := range rows {
		label := r.Quantity
		if r.Unit != "" {
			label += " (" + r.Unit + ")"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", label, r.Text()); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Notes are the caveats printed under the table.
func Notes() []string {
	return []string{
		"PV is fixed south-facing.",
		"Sun moves east → south → west over the day.",
		"3D model is visualization only.",
	}
}
