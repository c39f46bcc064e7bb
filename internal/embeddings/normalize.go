package embeddings

import "math"

// normTolerance is how far a unit vector's L2 norm may drift before it is
// considered non-normalized. Embedding APIs return float32, so allow for
// rounding.
const normTolerance = 1e-3

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// IsNormalized reports whether v has unit L2 norm within tolerance.
// The index's distance-to-similarity transform assumes unit vectors, so
// this is checked explicitly at build time rather than trusted.
func IsNormalized(v []float32) bool {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Abs(math.Sqrt(sum)-1) <= normTolerance
}
