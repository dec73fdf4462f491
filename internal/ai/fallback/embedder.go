// Package fallback implements the deterministic, network-free paths used when no
// AI provider is configured or the provider fails.
package fallback

import (
	"context"
	"math"
	"unicode/utf16"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/vector"
)

// Dimensions is the length of every fallback embedding.
const Dimensions = 384

// HashEmbedder derives a stable pseudo-embedding from a rolling hash of the text.
// Identical text always yields the identical vector; there is no semantic meaning.
type HashEmbedder struct{}

// NewHashEmbedder returns the fallback embedder.
func NewHashEmbedder() HashEmbedder {
	return HashEmbedder{}
}

// Embed implements ai.Embedder. It never fails.
func (HashEmbedder) Embed(_ context.Context, text string) (ai.Embedding, error) {
	return ai.Embedding{Vector: Vector(text), Source: ai.SourceFallback}, nil
}

// Vector computes the normalized 384-dimensional vector for text.
func Vector(text string) vector.Vector {
	hash := Hash(text)

	v := make(vector.Vector, Dimensions)
	for i := range v {
		seed := hash + float64(i)*1000
		v[i] = math.Sin(seed)*0.5 + 0.5
	}

	return vector.Normalize(v)
}

// Hash is the (h<<5)-h+c rolling hash over UTF-16 code units. The shift
// operates on the 32-bit truncation of the accumulator while the subtraction
// and addition do not, so the result can leave the int32 range.
func Hash(text string) float64 {
	var acc float64
	for _, unit := range utf16.Encode([]rune(text)) {
		shifted := int32(uint32(toInt32(acc)) << 5)
		acc = float64(shifted) - acc + float64(unit)
	}
	return acc
}

func toInt32(x float64) int32 {
	return int32(uint32(int64(x)))
}
