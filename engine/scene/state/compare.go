// Package state holds the ordering rules shared by render state objects
// and the small attribute nodes that are not worth a package of their own.
//
// Every Compare in the scene packages returns -1, 0 or 1 and walks its
// fields in a fixed priority order; the first unequal field decides.
package state

import "golang.org/x/exp/constraints"

// Compare orders two values of any ordered type.
func Compare[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareBools treats true as greater than false.
func CompareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// CompareSlices orders by length first, then element by element.
func CompareSlices[T constraints.Ordered](a, b []T) int {
	if c := Compare(len(a), len(b)); c != 0 {
		return c
	}
	for i := range a {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Chain returns the first non-zero result, so a field list reads top to
// bottom in priority order. Each argument is evaluated eagerly.
func Chain(results ...int) int {
	for _, r := range results {
		if r != 0 {
			return r
		}
	}
	return 0
}
