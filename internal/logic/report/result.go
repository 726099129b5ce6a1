package report

import (
	"time"

	"github.com/cjeanneret/solargeo/internal/logic/geometry"
	"github.com/cjeanneret/solargeo/internal/logic/solar"
)

// Angles is the degree view of solar.SolarAngles.
type Angles struct {
	DayOfYear      int     `json:"day_of_year"`
	DeclinationDeg float64 `json:"declination_deg"`
	HourAngleDeg   float64 `json:"hour_angle_deg"`
	ElevationDeg   float64 `json:"elevation_deg"`
	ZenithDeg      float64 `json:"zenith_deg"`
	AzimuthDeg     float64 `json:"azimuth_deg"`
}

// AnglesOf converts a to degrees.
func AnglesOf(a solar.SolarAngles) Angles {
	return Angles{
		DayOfYear:      a.DayOfYear,
		DeclinationDeg: a.DeclinationDeg(),
		HourAngleDeg:   a.HourAngleDeg(),
		ElevationDeg:   a.ElevationDeg(),
		ZenithDeg:      a.ZenithAngleDeg(),
		AzimuthDeg:     a.AzimuthDeg(),
	}
}

// Result is everything produced for one set of inputs.
type Result struct {
	LatitudeDeg     float64                `json:"latitude_deg"`
	Date            string                 `json:"date"`
	LocalSolarTimeH float64                `json:"local_solar_time_h"`
	Angles          Angles                 `json:"angles"`
	Panel           Panel                  `json:"panel"`
	Table           []Row                  `json:"table"`
	Formulas        []Formula              `json:"formulas"`
	Notes           []string               `json:"notes"`
	Scene           geometry.SceneGeometry `json:"scene"`
}

// Evaluate computes the angles for g and assembles the result. The scene is built from
// params as given; with linkLive set, the computed sun replaces the illustrative one.
func Evaluate(g solar.GeoTime, panel Panel, params geometry.Params, linkLive bool) Result {
	a := solar.Compute(g)
	if linkLive {
		params = params.WithSun(a.Elevation, a.Azimuth)
	}

	return Result{
		LatitudeDeg:     g.LatitudeDeg(),
		Date:            g.Date().Format(time.DateOnly),
		LocalSolarTimeH: g.LocalSolarTime(),
		Angles:          AnglesOf(a),
		Panel:           panel,
		Table:           Table(g, a, panel),
		Formulas:        Formulas(),
		Notes:           Notes(),
		Scene:           geometry.Build(params),
	}
}
