package geometry

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

const tol = 1e-9

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func vecNear(a, b Vector3, eps float64) bool {
	return near(a.X, b.X, eps) && near(a.Y, b.Y, eps) && near(a.Z, b.Z, eps)
}

func rad(deg float64) float64 { return deg * math.Pi / 180.0 }

func TestVector3_Arithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{-4, 5, 0.5}

	assert.Equal(t, a.Add(b), Vector3{-3, 7, 3.5})
	assert.Equal(t, a.Sub(b), Vector3{5, -3, 2.5})
	assert.Equal(t, a.Scale(2), Vector3{2, 4, 6})
	assert.Equal(t, a.Neg(), Vector3{-1, -2, -3})
	assert.Equal(t, a.Dot(b), 7.5)
	assert.Equal(t, a.Horizontal(), Vector3{1, 2, 0})

	// Operations never mutate the receiver.
	assert.Equal(t, a, Vector3{1, 2, 3})
}

func TestVector3_CrossIsOrthogonal(t *testing.T) {
	a := Vector3{0.3, -1.2, 2}
	b := Vector3{4, 0.1, -0.7}
	c := a.Cross(b)

	assert.Assert(t, near(c.Dot(a), 0, tol))
	assert.Assert(t, near(c.Dot(b), 0, tol))
	assert.Equal(t, WorldX.Cross(Vector3{Y: 1}), Zenith)
}

func TestVector3_Normalize(t *testing.T) {
	v := Vector3{3, 4, 12}
	n := v.Normalize()
	assert.Assert(t, near(n.Norm(), 1, tol))
	assert.Assert(t, vecNear(n, Vector3{3.0 / 13, 4.0 / 13, 12.0 / 13}, tol))
}

func TestVector3_NormalizeZeroIsNoOp(t *testing.T) {
	cases := []Vector3{{}, {X: 1e-12}, {X: -1e-13, Z: 1e-13}}
	for _, v := range cases {
		got := v.Normalize()
		assert.Equal(t, got, v)
		assert.Assert(t, !math.IsNaN(got.X) && !math.IsNaN(got.Y) && !math.IsNaN(got.Z))
		assert.Assert(t, got.IsZero())
	}
}

func TestVector3_Rotate(t *testing.T) {
	cases := []struct {
		name  string
		v     Vector3
		axis  Vector3
		angle float64
		want  Vector3
	}{
		{"x_about_z_90", WorldX, Zenith, math.Pi / 2, Vector3{Y: 1}},
		{"x_about_z_180", WorldX, Zenith, math.Pi, Vector3{X: -1}},
		{"y_about_x_90", Vector3{Y: 1}, WorldX, math.Pi / 2, Zenith},
		{"unnormalized_axis", WorldX, Vector3{Z: 5}, math.Pi / 2, Vector3{Y: 1}},
		{"along_axis", Zenith, Zenith, 1.234, Zenith},
		{"zero_axis", WorldX, Vector3{}, 1.0, WorldX},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.v.Rotate(tc.axis, tc.angle)
			assert.Assert(t, vecNear(got, tc.want, tol), "got %+v, want %+v", got, tc.want)
		})
	}
}

func TestVector3_RotatePreservesLength(t *testing.T) {
	v := Vector3{0.2, -3, 1.5}
	axis := Vector3{1, 1, 1}
	for _, angle := range []float64{-2, 0.1, 1, math.Pi, 5} {
		assert.Assert(t, near(v.Rotate(axis, angle).Norm(), v.Norm(), 1e-12))
	}
}

func TestDirection(t *testing.T) {
	cases := []struct {
		name          string
		elev, azimuth float64
		want          Vector3
	}{
		{"north_horizon", 0, 0, Vector3{Y: 1}},
		{"east_horizon", 0, 90, Vector3{X: 1}},
		{"south_horizon", 0, 180, Vector3{Y: -1}},
		{"west_horizon", 0, 270, Vector3{X: -1}},
		{"zenith", 90, 123, Zenith},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Direction(rad(tc.elev), rad(tc.azimuth))
			assert.Assert(t, vecNear(got, tc.want, tol), "got %+v, want %+v", got, tc.want)
			assert.Assert(t, near(got.Norm(), 1, tol))
		})
	}
}

func TestAngleBetween(t *testing.T) {
	assert.Assert(t, near(AngleBetween(WorldX, Zenith), math.Pi/2, tol))
	assert.Assert(t, near(AngleBetween(WorldX, WorldX.Scale(7)), 0, tol))
	assert.Assert(t, near(AngleBetween(WorldX, WorldX.Neg()), math.Pi, tol))
}
