// Package randutil holds the single family of pseudo-random primitives the
// search threads through its driver: a coin flip, uniform pick/range,
// shuffle, and pair partitioning (spec §4.9). Every function takes its
// *rand.Rand explicitly rather than reaching for a package-global source,
// so the driver's one generator state is the only source of randomness in
// a run.
package randutil

import "math/rand"

// Coin returns true with probability p. p<=0 and p>=1 are short-circuited
// without consuming the generator, matching the documented boundary
// behavior coin(0)=false, coin(1)=true.
func Coin(r *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// UniformPick returns a uniformly random element of xs, and false if xs is
// empty.
func UniformPick[T any](r *rand.Rand, xs []T) (T, bool) {
	var zero T
	if len(xs) == 0 {
		return zero, false
	}
	return xs[r.Intn(len(xs))], true
}

// UniformRange returns a uniformly random integer in [lo, hi], inclusive.
func UniformRange(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Shuffle returns a copy of xs in a uniformly random permutation, via the
// generator's own Fisher-Yates shuffle (rand.Rand.Shuffle).
func Shuffle[T any](r *rand.Rand, xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// PartitionInPairs draws pairs from xs without replacement until fewer than
// two elements remain; a trailing singleton is dropped.
func PartitionInPairs[T any](r *rand.Rand, xs []T) [][2]T {
	remaining := Shuffle(r, xs)
	var out [][2]T
	for len(remaining) >= 2 {
		out = append(out, [2]T{remaining[0], remaining[1]})
		remaining = remaining[2:]
	}
	return out
}
