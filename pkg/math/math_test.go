package math

import "testing"

func TestVec3Axis(t *testing.T) {
	v := Vec3{1, 2, 3}
	for i, want := range []float32{1, 2, 3} {
		if got := v.Axis(i); got != want {
			t.Errorf("Vec3.Axis(%d) = %v, want %v", i, got, want)
		}
	}

	w := v.WithAxis(1, 9)
	if w != (Vec3{1, 9, 3}) {
		t.Errorf("Vec3.WithAxis() = %v, want {1 9 3}", w)
	}
	if v.Y != 2 {
		t.Error("WithAxis must not modify the receiver")
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 4, 0}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec3.Distance() = %v, want 5", got)
	}
}

func TestVec3NearlyEqual(t *testing.T) {
	a := Vec3{1, 1, 0}
	if !a.NearlyEqual(Vec3{1.00001, 0.99999, 0}, KindaSmallNumber) {
		t.Error("expected vectors to be nearly equal")
	}
	if a.NearlyEqual(Vec3{1.1, 1, 0}, KindaSmallNumber) {
		t.Error("expected vectors to differ")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float32
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestInterpConstantTo(t *testing.T) {
	tests := []struct {
		name                    string
		current, target, dt, sp float32
		want                    float32
	}{
		{"step up", 0, 1, 0.1, 2, 0.2},
		{"step down", 1, 0, 0.1, 2, 0.8},
		{"arrive", 0.9, 1, 0.1, 2, 1},
		{"no speed snaps", 0, 1, 0.1, 0, 1},
		{"already there", 0.5, 0.5, 0.1, 2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpConstantTo(tt.current, tt.target, tt.dt, tt.sp)
			if !NearlyEqual(got, tt.want, 1e-6) {
				t.Errorf("InterpConstantTo() = %v, want %v", got, tt.want)
			}
		})
	}
}
