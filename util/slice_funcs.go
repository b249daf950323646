// Package util holds the small generic slice helpers shared across the
// compiler packages.
package util

// Contains reports whether elem occurs anywhere in slice.
func Contains[T comparable](slice []T, elem T) bool {
	for _, v := range slice {
		if v == elem {
			return true
		}
	}

	return false
}

// Map returns a new slice holding f applied to every element of slice, in
// order.
func Map[T, R any](slice []T, f func(T) R) []R {
	out := make([]R, len(slice))
	for i, v := range slice {
		out[i] = f(v)
	}

	return out
}
