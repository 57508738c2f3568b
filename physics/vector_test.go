package physics

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func nearVec(a, b Vector2D, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol)
}

func TestVectorRotateRoundTrip(t *testing.T) {
	v := NewVector2D(3, -4)
	rot := Polar(0.7)

	got := v.Rotate(rot).Unrotate(rot)
	if !nearVec(got, v, eps) {
		t.Fatalf("Rotate/Unrotate = %v, want %v", got, v)
	}
	if m := v.Rotate(rot).Magnitude(); !near(m, 5, eps) {
		t.Fatalf("rotated magnitude = %f, want 5", m)
	}
}

func TestVectorPerpendiculars(t *testing.T) {
	v := NewVector2D(2, 1)
	if got := v.Left(); got != (Vector2D{X: -1, Y: 2}) {
		t.Fatalf("Left = %v, want (-1,2)", got)
	}
	if got := v.Right(); got != (Vector2D{X: 1, Y: -2}) {
		t.Fatalf("Right = %v, want (1,-2)", got)
	}
	if d := v.Dot(v.Left()); d != 0 {
		t.Fatalf("v·Left(v) = %f, want 0", d)
	}
	if c := v.Cross(v.Left()); c != v.MagnitudeSquared() {
		t.Fatalf("v×Left(v) = %f, want %f", c, v.MagnitudeSquared())
	}
}

func TestVectorNormalizeTo(t *testing.T) {
	if got := NewVector2D(3, 4).NormalizeTo(10); !nearVec(got, NewVector2D(6, 8), eps) {
		t.Fatalf("NormalizeTo(10) = %v, want (6,8)", got)
	}
	if got := (Vector2D{}).Normalize(); got != (Vector2D{}) {
		t.Fatalf("zero Normalize = %v, want zero", got)
	}
}

func TestAABBIntersection(t *testing.T) {
	a := NewAABB(NewVector2D(0, 0), NewVector2D(10, 10))
	tests := []struct {
		name   string
		b      AABB
		h, all bool
	}{
		{"overlap", NewAABB(NewVector2D(5, 5), NewVector2D(15, 15)), true, true},
		{"same band, below", NewAABB(NewVector2D(5, 20), NewVector2D(15, 30)), true, false},
		{"touching edge", NewAABB(NewVector2D(10, 0), NewVector2D(20, 10)), false, false},
		{"disjoint", NewAABB(NewVector2D(20, 20), NewVector2D(30, 30)), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.IntersectsH(tt.b); got != tt.h {
				t.Fatalf("IntersectsH = %v, want %v", got, tt.h)
			}
			if got := a.Intersects(tt.b); got != tt.all {
				t.Fatalf("Intersects = %v, want %v", got, tt.all)
			}
		})
	}
}
