package geometry

import "math"

// Primitive kinds understood by the renderer.
const (
	KindVector = "vector"
	KindArc    = "arc"
	KindRay    = "ray"
)

// Params describes the illustrated configuration. Angles are in degrees.
type Params struct {
	SunElevationDeg float64 `json:"sun_elevation_deg"`
	SunAzimuthDeg   float64 `json:"sun_azimuth_deg"`
	PanelTiltDeg    float64 `json:"panel_tilt_deg"`
	PanelAzimuthDeg float64 `json:"panel_azimuth_deg"`

	SunDistance   float64 `json:"sun_distance"`
	SunRadius     float64 `json:"sun_radius"`
	SunResolution int     `json:"sun_resolution"`

	PanelWidth  float64 `json:"panel_width"`
	PanelHeight float64 `json:"panel_height"`

	ArcSegments        int     `json:"arc_segments"`
	ElevationArcRadius float64 `json:"elevation_arc_radius"`
	ZenithArcRadius    float64 `json:"zenith_arc_radius"`
	IncidenceArcRadius float64 `json:"incidence_arc_radius"`

	GroundHalfExtent float64 `json:"ground_half_extent"`
	GroundDivisions  int     `json:"ground_divisions"`
}

// DefaultParams returns the fixed illustration: the sun at 35° elevation and 150° azimuth
// over a south-facing panel tilted 30°.
func DefaultParams() Params {
	return Params{
		SunElevationDeg:    35,
		SunAzimuthDeg:      150,
		PanelTiltDeg:       30,
		PanelAzimuthDeg:    180,
		SunDistance:        3.0,
		SunRadius:          0.3,
		SunResolution:      25,
		PanelWidth:         0.8,
		PanelHeight:        1.6,
		ArcSegments:        DefaultArcSegments,
		ElevationArcRadius: 0.45,
		ZenithArcRadius:    0.55,
		IncidenceArcRadius: 0.65,
		GroundHalfExtent:   1.0,
		GroundDivisions:    10,
	}
}

// WithSun returns a copy of p with the sun placed at the given elevation and
// azimuth (radians).
func (p Params) WithSun(elevation, azimuth float64) Params {
	p.SunElevationDeg = elevation * 180.0 / math.Pi
	p.SunAzimuthDeg = azimuth * 180.0 / math.Pi
	return p
}

// Polyline is an open line through Points: a vector from the origin, an angle arc or a ray.
type Polyline struct {
	Name   string    `json:"name"`
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Kind   string    `json:"kind"`
	Dashed bool      `json:"dashed,omitempty"`
	Points []Vector3 `json:"points"`
}

// Quad is a filled quadrilateral.
type Quad struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	PanelGeometry
}

// SceneAngles are the annotated angles in degrees.
type SceneAngles struct {
	ElevationDeg float64 `json:"elevation_deg"`
	ZenithDeg    float64 `json:"zenith_deg"`
	IncidenceDeg float64 `json:"incidence_deg"`
}

// SceneGeometry is everything the renderer needs to draw one diagram.
type SceneGeometry struct {
	Params  Params      `json:"params"`
	Vectors []Polyline  `json:"vectors"`
	Arcs    []Polyline  `json:"arcs"`
	Rays    []Polyline  `json:"rays"`
	Panel   Quad        `json:"panel"`
	Sun     Mesh        `json:"sun"`
	Ground  Mesh        `json:"ground"`
	Angles  SceneAngles `json:"angles"`
}

// Build computes the scene for p from scratch.
func Build(p Params) SceneGeometry {
	const d2r = math.Pi / 180.0

	sun := Direction(p.SunElevationDeg*d2r, p.SunAzimuthDeg*d2r)
	sunHoriz := sun.Horizontal()
	ground := sunHoriz.Normalize()
	normal := PanelNormal(p.PanelTiltDeg*d2r, p.PanelAzimuthDeg*d2r, sun)
	sunCenter := sun.Normalize().Scale(p.SunDistance)

	panel := NewPanel(normal, p.PanelWidth, p.PanelHeight)

	return SceneGeometry{
		Params: p,
		Vectors: []Polyline{
			vectorLine("sun_direction", "Sun direction", "orange", sun),
			vectorLine("zenith", "Zenith", "blue", Zenith),
			vectorLine("panel_normal", "PV normal", "green", normal),
			vectorLine("ground_reference", "Ground reference", "gray", ground),
		},
		Arcs: []Polyline{
			arcLine("elevation_arc", "h – Sun elevation", "red",
				AngleArc(sunHoriz, sun, p.ElevationArcRadius, p.ArcSegments)),
			arcLine("zenith_arc", "ψz – Sun zenith", "purple",
				AngleArc(sun, Zenith, p.ZenithArcRadius, p.ArcSegments)),
			arcLine("incidence_arc", "ψ – Incidence angle", "black",
				AngleArc(sun, normal, p.IncidenceArcRadius, p.ArcSegments)),
		},
		Rays: []Polyline{{
			Name:   "sun_rays",
			Label:  "Sun rays",
			Color:  "orange",
			Kind:   KindRay,
			Dashed: true,
			Points: []Vector3{sunCenter, Origin},
		}},
		Panel: Quad{
			Name:          "panel",
			Label:         "PV module",
			Color:         "darkblue",
			Opacity:       0.6,
			PanelGeometry: panel,
		},
		Sun:    SunSphereMesh(sunCenter, p.SunRadius, p.SunResolution),
		Ground: GroundPlaneMesh(p.GroundHalfExtent, p.GroundDivisions),
		Angles: SceneAngles{
			ElevationDeg: p.SunElevationDeg,
			ZenithDeg:    AngleBetween(sun, Zenith) / d2r,
			IncidenceDeg: IncidenceAngle(sun, normal) / d2r,
		},
	}
}

func vectorLine(name, label, color string, v Vector3) Polyline {
	return Polyline{Name: name, Label: label, Color: color, Kind: KindVector, Points: []Vector3{Origin, v}}
}

func arcLine(name, label, color string, points []Vector3) Polyline {
	return Polyline{Name: name, Label: label, Color: color, Kind: KindArc, Points: points}
}
