package math

import "math"

const (
	// SmallNumber is the tolerance used for exact-ish comparisons.
	SmallNumber = 1e-8
	// KindaSmallNumber is the tolerance used for coordinate comparisons.
	KindaSmallNumber = 1e-4
)

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp interpolates from a to b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Floor returns the greatest integer value less than or equal to x.
func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

// Exp returns e**x.
func Exp(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// NearlyEqual reports whether a and b differ by at most tolerance.
func NearlyEqual(a, b, tolerance float32) bool {
	return Abs(a-b) <= tolerance
}

// InterpConstantTo moves current toward target by at most speed*deltaTime.
// A non-positive speed snaps to target.
func InterpConstantTo(current, target, deltaTime, speed float32) float32 {
	if speed <= 0 {
		return target
	}
	dist := target - current
	if dist*dist < SmallNumber {
		return target
	}
	step := speed * deltaTime
	return current + Clamp(dist, -step, step)
}
