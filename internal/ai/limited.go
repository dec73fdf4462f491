package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limited throttles calls to a remote embedder with a token bucket.
type Limited struct {
	next    Embedder
	limiter *rate.Limiter
}

// NewLimited allows perSecond calls per second with the given burst.
// A non-positive perSecond disables limiting.
func NewLimited(next Embedder, perSecond float64, burst int) *Limited {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Embed implements Embedder.
func (l *Limited) Embed(ctx context.Context, text string) (Embedding, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return Embedding{}, fmt.Errorf("wait for rate limiter: %w", err)
	}
	return l.next.Embed(ctx, text)
}
