package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mesh is a parametric surface sampled on a regular grid. Points[i][j] is the
// sample at row i, column j; neighbouring samples form the surface quads.
type Mesh struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Points [][]Vector3 `json:"points"`
}

// Rows returns the number of grid rows.
func (m Mesh) Rows() int { return len(m.Points) }

// Cols returns the number of grid columns.
func (m Mesh) Cols() int {
	if len(m.Points) == 0 {
		return 0
	}
	return len(m.Points[0])
}

// SunSphereMesh returns a UV sphere of the given radius around center, with
// resolution samples along both the polar (0..π) and the azimuthal (0..2π) angle.
func SunSphereMesh(center Vector3, radius float64, resolution int) Mesh {
	if resolution < 2 {
		resolution = 2
	}
	phis := floats.Span(make([]float64, resolution), 0, math.Pi)
	thetas := floats.Span(make([]float64, resolution), 0, 2*math.Pi)

	points := make([][]Vector3, len(phis))
	for i, phi := range phis {
		sinPhi, cosPhi := math.Sincos(phi)
		row := make([]Vector3, len(thetas))
		for j, theta := range thetas {
			sinT, cosT := math.Sincos(theta)
			row[j] = Vector3{
				X: center.X + radius*sinPhi*cosT,
				Y: center.Y + radius*sinPhi*sinT,
				Z: center.Z + radius*cosPhi,
			}
		}
		points[i] = row
	}
	return Mesh{Name: "sun", Label: "Sun", Color: "yellow", Points: points}
}

// GroundPlaneMesh returns a flat square grid at z = 0 spanning [-halfExtent, halfExtent]
// on both axes, with divisions samples per side.
func GroundPlaneMesh(halfExtent float64, divisions int) Mesh {
	if divisions < 2 {
		divisions = 2
	}
	xs := floats.Span(make([]float64, divisions), -halfExtent, halfExtent)
	ys := floats.Span(make([]float64, divisions), -halfExtent, halfExtent)

	points := make([][]Vector3, len(ys))
	for i, y := range ys {
		row := make([]Vector3, len(xs))
		for j, x := range xs {
			row[j] = Vector3{X: x, Y: y}
		}
		points[i] = row
	}
	return Mesh{Name: "ground", Label: "Ground", Color: "lightgray", Points: points}
}
