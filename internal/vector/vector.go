// Package vector holds the small amount of linear algebra the scoring pipeline needs.
package vector

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is returned when two vectors of different dimensionality are compared.
var ErrLengthMismatch = errors.New("vectors must have the same length")

// Vector is a dense embedding.
type Vector []float64

// FromFloat32 converts provider output (genai returns float32) into a Vector.
func FromFloat32(values []float32) Vector {
	v := make(Vector, len(values))
	for i, val := range values {
		v[i] = float64(val)
	}
	return v
}

// Cosine returns the cosine of the angle between a and b.
// It returns 0 when either vector has zero magnitude.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0, nil
	}

	return dot / denominator, nil
}

// Norm returns the Euclidean length of v.
func Norm(v Vector) float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned unchanged.
func Normalize(v Vector) Vector {
	out := make(Vector, len(v))
	norm := Norm(v)
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}
