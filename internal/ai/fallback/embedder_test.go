package fallback

import (
	"context"
	"math"
	"testing"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/vector"
)

func TestVectorDeterministic(t *testing.T) {
	t.Parallel()

	a := Vector("React, TypeScript, Node.js")
	b := Vector("React, TypeScript, Node.js")

	if len(a) != Dimensions {
		t.Fatalf("expected %d dimensions, got %d", Dimensions, len(a))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical vectors, differ at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestVectorDistinctAndNormalized(t *testing.T) {
	t.Parallel()

	a := Vector("Senior Software Engineer")
	b := Vector("Data Scientist")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected different text to produce different vectors")
	}

	for _, v := range []vector.Vector{a, b} {
		if norm := vector.Norm(v); math.Abs(norm-1) > 1e-9 {
			t.Fatalf("expected unit norm, got %v", norm)
		}
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect float64
	}{
		{input: "", expect: 0},
		{input: "a", expect: 97},
		// 97*31 + 98
		{input: "ab", expect: 3105},
		// 3105*31 + 99
		{input: "abc", expect: 96354},
	}

	for _, tt := range tests {
		if got := Hash(tt.input); got != tt.expect {
			t.Fatalf("Hash(%q): expected %v, got %v", tt.input, tt.expect, got)
		}
	}
}

func TestHashStable(t *testing.T) {
	t.Parallel()

	text := "A fairly long profile text with enough characters to overflow 32-bit arithmetic many times over."
	if Hash(text) != Hash(text) {
		t.Fatalf("expected stable hash")
	}
}

func TestHashEmbedderProvenance(t *testing.T) {
	t.Parallel()

	got, err := NewHashEmbedder().Embed(context.Background(), "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != ai.SourceFallback {
		t.Fatalf("expected fallback source, got %q", got.Source)
	}
}
