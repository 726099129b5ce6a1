// Package geometry builds the illustrative 3D scene of the sun, a PV panel and
// the angles between them. Coordinates are local: x east, y north, z up.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-9

var (
	// Origin is the point all diagram vectors start from.
	Origin = Vector3{}
	// Zenith points straight up.
	Zenith = Vector3{Z: 1}
	// WorldX points east.
	WorldX = Vector3{X: 1}
)

// Vector3 is an immutable 3D vector or point. All operations return new values.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) vec() r3.Vec { return r3.Vec(v) }

func fromVec(p r3.Vec) Vector3 { return Vector3(p) }

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 { return fromVec(r3.Add(v.vec(), o.vec())) }

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 { return fromVec(r3.Sub(v.vec(), o.vec())) }

// Scale returns v * s.
func (v Vector3) Scale(s float64) Vector3 { return fromVec(r3.Scale(s, v.vec())) }

// Neg returns -v.
func (v Vector3) Neg() Vector3 { return v.Scale(-1) }

// Dot returns v · o.
func (v Vector3) Dot(o Vector3) float64 { return r3.Dot(v.vec(), o.vec()) }

// Cross returns v × o.
func (v Vector3) Cross(o Vector3) Vector3 { return fromVec(r3.Cross(v.vec(), o.vec())) }

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 { return r3.Norm(v.vec()) }

// Normalize returns v / |v|. A vector shorter than Epsilon is returned unchanged,
// so callers that need a direction must not pass a zero vector.
func (v Vector3) Normalize() Vector3 {
	if v.Norm() < Epsilon {
		return v
	}
	return fromVec(r3.Unit(v.vec()))
}

// Horizontal returns the projection of v onto the ground plane (z = 0).
func (v Vector3) Horizontal() Vector3 { return Vector3{X: v.X, Y: v.Y} }

// Rotate rotates v by angle radians around axis (right-handed), using Rodrigues' formula:
//
//	v' = v·cosθ + (k × v)·sinθ + k·(k · v)·(1 − cosθ)
//
// axis is normalized first; a zero axis leaves v unchanged.
func (v Vector3) Rotate(axis Vector3, angle float64) Vector3 {
	if axis.Norm() < Epsilon {
		return v
	}
	k := axis.Normalize()
	sin, cos := math.Sincos(angle)
	return v.Scale(cos).
		Add(k.Cross(v).Scale(sin)).
		Add(k.Scale(k.Dot(v) * (1 - cos)))
}

// IsZero reports whether v is shorter than Epsilon.
func (v Vector3) IsZero() bool { return v.Norm() < Epsilon }

// Direction converts an elevation and an azimuth (radians) into a unit vector.
// Azimuth is clockwise from north, elevation is up from the horizontal plane.
func Direction(elevation, azimuth float64) Vector3 {
	sinH, cosH := math.Sincos(elevation)
	sinA, cosA := math.Sincos(azimuth)
	return Vector3{
		X: cosH * sinA,
		Y: cosH * cosA,
		Z: sinH,
	}
}

// AngleBetween returns the angle between two directions, in radians within [0, π].
func AngleBetween(a, b Vector3) float64 {
	return math.Acos(clamp(a.Normalize().Dot(b.Normalize()), -1, 1))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
