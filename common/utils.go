package common

import "cmp"

// Coalesce returns the first value that is not the zero value of T, or the zero value if there is none.
//
// Parameters:
//   - values: candidates in order of preference
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// InRange reports whether lo <= v <= hi. NaN is never in range.
func InRange[T cmp.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// BytesToMB converts a byte count to whole megabytes, rounding down.
func BytesToMB(b uint64) int {
	return int(b / 1024 / 1024)
}
