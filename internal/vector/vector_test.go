package vector

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSelfSimilarity(t *testing.T) {
	t.Parallel()

	cases := []Vector{
		{1, 0, 0},
		{0.3, -2, 5.5},
		{1e-3, 1e3, 7},
	}

	for _, v := range cases {
		got, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-1) > 1e-12 {
			t.Fatalf("expected self similarity 1 for %v, got %v", v, got)
		}
	}
}

func TestCosineSymmetric(t *testing.T) {
	t.Parallel()

	a := Vector{1, 2, 3, 4}
	b := Vector{-4, 0.5, 2, 9}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ab != ba {
		t.Fatalf("expected symmetric similarity, got %v and %v", ab, ba)
	}
}

func TestCosineLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := Cosine(Vector{1, 2}, Vector{1, 2, 3})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestCosineZeroVector(t *testing.T) {
	t.Parallel()

	got, err := Cosine(Vector{0, 0, 0}, Vector{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for zero vector, got %v", got)
	}
}

func TestCosineOrthogonal(t *testing.T) {
	t.Parallel()

	got, err := Cosine(Vector{1, 0}, Vector{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for orthogonal vectors, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	v := Normalize(Vector{3, 4})
	if math.Abs(Norm(v)-1) > 1e-12 {
		t.Fatalf("expected unit norm, got %v", Norm(v))
	}
	if v[0] != 0.6 || v[1] != 0.8 {
		t.Fatalf("unexpected normalized vector: %v", v)
	}

	zero := Normalize(Vector{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("expected zero vector unchanged, got %v", zero)
	}
}

func TestFromFloat32(t *testing.T) {
	t.Parallel()

	v := FromFloat32([]float32{0.5, -1})
	if len(v) != 2 || v[0] != 0.5 || v[1] != -1 {
		t.Fatalf("unexpected conversion: %v", v)
	}
}
