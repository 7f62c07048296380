package core

import (
	"math"
	"testing"
)

func TestVec3DistanceTo(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}

	if got := a.DistanceTo(b); got != 5 {
		t.Errorf("DistanceTo = %v, want 5", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Errorf("self distance = %v, want 0", got)
	}
	if a.DistanceTo(b) != b.DistanceTo(a) {
		t.Error("distance is not symmetric")
	}
}

func TestVec3NormAndDot(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 0}
	if got := v.Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}
	if got := v.Dot(Vec3{X: 1, Y: 1, Z: 7}); got != 7 {
		t.Errorf("Dot = %v, want 7", got)
	}
	if got := v.Sub(Vec3{X: 3, Y: 4, Z: 0}); got != (Vec3{}) {
		t.Errorf("Sub = %+v, want zero", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if (Vec3{Z: math.Inf(-1)}).IsFinite() {
		t.Error("Inf component reported finite")
	}
}
