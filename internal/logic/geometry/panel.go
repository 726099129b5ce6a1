package geometry

import "math"

// PanelGeometry is a flat rectangular PV module anchored at the origin.
// Corners are ordered so that consecutive edges have lengths width, height, width, height,
// and (c1-c0) × (c3-c0) points along Normal.
type PanelGeometry struct {
	Normal  Vector3    `json:"normal"`
	Corners [4]Vector3 `json:"corners"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
}

// FixedPanelNormal returns the physical normal of a panel tilted by tilt from the
// horizontal and facing panelAzimuth (clockwise from north). Angles in radians.
func FixedPanelNormal(tilt, panelAzimuth float64) Vector3 {
	sinB, cosB := math.Sincos(tilt)
	sinA, cosA := math.Sincos(panelAzimuth)
	return Vector3{
		X: sinB * sinA,
		Y: sinB * cosA,
		Z: cosB,
	}
}

// PanelNormal returns the panel normal for the diagram: the fixed normal, flipped
// when it points away from the sun so the drawn normal always faces the sun's hemisphere.
func PanelNormal(tilt, panelAzimuth float64, sun Vector3) Vector3 {
	n := FixedPanelNormal(tilt, panelAzimuth)
	if n.Dot(sun) < 0 {
		return n.Neg()
	}
	return n
}

// PanelBasis returns an orthonormal in-plane basis (u, v) for a panel with the given
// normal: u is horizontal (zenith × normal) and v runs up the slope (normal × u).
// A flat panel has no horizontal edge direction, so world X is used for u.
func PanelBasis(normal Vector3) (u, v Vector3) {
	normal = normal.Normalize()
	u = Zenith.Cross(normal)
	if u.Norm() < Epsilon {
		u = WorldX
	}
	u = u.Normalize()
	v = normal.Cross(u).Normalize()
	return u, v
}

// PanelCorners returns the four corners of a width × height rectangle lying in the plane
// with the given normal, anchored at the origin.
func PanelCorners(normal Vector3, width, height float64) [4]Vector3 {
	u, v := PanelBasis(normal)
	w := u.Scale(width)
	h := v.Scale(height)
	return [4]Vector3{
		Origin,
		Origin.Add(w),
		Origin.Add(w).Add(h),
		Origin.Add(h),
	}
}

// NewPanel builds the panel geometry for a normal and its dimensions.
func NewPanel(normal Vector3, width, height float64) PanelGeometry {
	return PanelGeometry{
		Normal:  normal.Normalize(),
		Corners: PanelCorners(normal, width, height),
		Width:   width,
		Height:  height,
	}
}

// IncidenceAngle returns the angle between the sun direction and a surface normal,
// in radians. Values above π/2 mean the sun is behind the surface.
func IncidenceAngle(sun, normal Vector3) float64 {
	return AngleBetween(sun, normal)
}
