package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/logger"
)

// ResilientEmbedder tries a remote embedder under a deadline and substitutes the
// fallback embedder on any failure. Remote errors never reach the caller.
type ResilientEmbedder struct {
	remote   Embedder
	fallback Embedder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResilientEmbedder wires remote and fallback together. A nil remote means no
// credential was configured and every call goes straight to the fallback.
func NewResilientEmbedder(remote, fallback Embedder, timeout time.Duration, log *zap.Logger) *ResilientEmbedder {
	log = logger.WithFields(log)
	if remote == nil {
		log.Info("remote embedding provider is not configured, using deterministic fallback embeddings")
	}

	return &ResilientEmbedder{
		remote:   remote,
		fallback: fallback,
		timeout:  timeout,
		logger:   log,
	}
}

// Embed implements Embedder.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) (Embedding, error) {
	if r.remote != nil {
		embedding, err := r.embedRemote(ctx, text)
		if err == nil {
			return embedding, nil
		}

		r.logger.Warn("remote embedding failed, falling back to deterministic embedding",
			zap.Int("text_length", len(text)),
			zap.Error(err),
		)
	}

	embedding, err := r.fallback.Embed(ctx, text)
	if err != nil {
		return Embedding{}, fmt.Errorf("fallback embedding: %w", err)
	}
	embedding.Source = SourceFallback

	return embedding, nil
}

func (r *ResilientEmbedder) embedRemote(ctx context.Context, text string) (Embedding, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	embedding, err := r.remote.Embed(ctx, text)
	if err != nil {
		return Embedding{}, err
	}
	if len(embedding.Vector) == 0 {
		return Embedding{}, fmt.Errorf("remote provider returned an empty vector")
	}
	embedding.Source = SourceRemote

	return embedding, nil
}

// ResilientParser is the resume-parsing counterpart of ResilientEmbedder.
type ResilientParser struct {
	remote   ResumeParser
	fallback ResumeParser
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResilientParser wires remote and fallback parsers together. A nil remote
// selects the fallback for every call.
func NewResilientParser(remote, fallback ResumeParser, timeout time.Duration, log *zap.Logger) *ResilientParser {
	log = logger.WithFields(log)
	if remote == nil {
		log.Info("remote resume parser is not configured, using keyword parser")
	}

	return &ResilientParser{
		remote:   remote,
		fallback: fallback,
		timeout:  timeout,
		logger:   log,
	}
}

// ParseResume implements ResumeParser.
func (r *ResilientParser) ParseResume(ctx context.Context, text string) (*ParsedResume, error) {
	if r.remote != nil {
		remoteCtx := ctx
		cancel := context.CancelFunc(func() {})
		if r.timeout > 0 {
			remoteCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		parsed, err := r.remote.ParseResume(remoteCtx, text)
		cancel()

		if err == nil && parsed != nil {
			parsed.Source = SourceRemote
			return parsed, nil
		}

		r.logger.Warn("remote resume parsing failed, falling back to keyword parser", zap.Error(err))
	}

	parsed, err := r.fallback.ParseResume(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("fallback resume parsing: %w", err)
	}
	parsed.Source = SourceFallback

	return parsed, nil
}
