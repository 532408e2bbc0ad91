package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}

// PowerOfTwoAtLeast doubles start until it reaches need or limit, whichever
// comes first. start is expected to be a power of two.
func PowerOfTwoAtLeast[T constraints.Integer](start, need, limit T) T {
	v := start
	for v < need && v < limit {
		v *= 2
	}
	return Clamp(v, start, limit)
}
