package math

import "golang.org/x/exp/constraints"

// Clamp limits f to [low, high]. Texture priorities go through it before
// reaching the driver.
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
