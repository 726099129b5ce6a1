package geometry

import (
	"gonum.org/v1/gonum/floats"
)

// DefaultArcSegments is the number of segments used for angle annotation arcs.
const DefaultArcSegments = 40

// AngleArc returns points on a sphere of the given radius tracing the shortest arc
// from direction v1 to direction v2. The arc is v1 rotated around v1 × v2 and sampled
// at segments+1 evenly spaced angles in [0, θ], θ being the angle between v1 and v2.
//
// When v1 and v2 are parallel or antiparallel the rotation axis is undefined, and only
// the two radius-scaled endpoints are returned.
func AngleArc(v1, v2 Vector3, radius float64, segments int) []Vector3 {
	v1 = v1.Normalize()
	v2 = v2.Normalize()

	axis := v1.Cross(v2)
	if axis.Norm() < Epsilon {
		return []Vector3{v1.Scale(radius), v2.Scale(radius)}
	}
	axis = axis.Normalize()

	if segments < 1 {
		segments = 1
	}
	theta := AngleBetween(v1, v2)
	steps := floats.Span(make([]float64, segments+1), 0, theta)

	arc := make([]Vector3, len(steps))
	for i, t := range steps {
		arc[i] = v1.Rotate(axis, t).Scale(radius)
	}
	return arc
}
