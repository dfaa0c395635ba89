// Package random provides the unbiased shuffle and sampling primitives used
// by the discovery feed. All helpers operate on copies; callers' slices are
// never mutated.
package random

import "math/rand"

// intn draws from rng when provided, else from the locked package-level
// source in math/rand. A nil rng is therefore safe for concurrent use.
func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}

// Shuffle returns a uniformly random permutation of items using the
// Fisher-Yates algorithm on a copy of the input.
func Shuffle[T any](items []T) []T {
	return ShuffleWith(nil, items)
}

// ShuffleWith is Shuffle drawing randomness from rng. Tests pass a seeded
// source for deterministic permutations; a nil rng behaves like Shuffle.
func ShuffleWith[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns min(k, len(items)) elements chosen without replacement, in
// random order.
func Sample[T any](items []T, k int) []T {
	return SampleWith(nil, items, k)
}

// SampleWith is Sample drawing randomness from rng.
func SampleWith[T any](rng *rand.Rand, items []T, k int) []T {
	shuffled := ShuffleWith(rng, items)
	if k < 0 {
		k = 0
	}
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}

// PickOne returns a uniformly chosen element of items. The second return is
// false for an empty input.
func PickOne[T any](rng *rand.Rand, items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[intn(rng, len(items))], true
}
