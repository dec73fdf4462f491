package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/ai/fallback"
	"github.com/spigell/jobswap/internal/ai/gemini"
	"github.com/spigell/jobswap/internal/ai/openai"
	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/secrets"
	"github.com/spigell/jobswap/internal/swap"
)

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
	providerNone   = "none"
)

// remoteClient is implemented by every remote AI provider.
type remoteClient interface {
	ai.Embedder
	ai.Completer
	EmbeddingModel() string
	ChatModel() string
}

// runtime bundles what every command needs.
type runtime struct {
	config   *Config
	logger   *zap.Logger
	store    *swap.Memory
	embedder ai.Embedder
	fallback ai.Embedder
	parser   ai.ResumeParser
}

func newRuntime(ctx context.Context) (*runtime, error) {
	log := logger.New(viper.GetBool("json"), viper.GetBool("debug"))

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	log.Debug("starting", zap.String("app", app), zap.String("version", version))

	store, err := openStore(config.DataFile)
	if err != nil {
		return nil, err
	}

	remote, err := newRemote(ctx, config.AI, log)
	if err != nil {
		return nil, err
	}

	embedder, parser := buildAI(config.AI, remote, log)

	return &runtime{
		config:   config,
		logger:   log,
		store:    store,
		embedder: embedder,
		fallback: fallback.NewHashEmbedder(),
		parser:   parser,
	}, nil
}

func openStore(path string) (*swap.Memory, error) {
	if strings.TrimSpace(path) == "" {
		return swap.Demo()
	}

	store, err := swap.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	return store, nil
}

// save persists the store when a data file is configured. The demo dataset is never written.
func (r *runtime) save() error {
	path := strings.TrimSpace(r.config.DataFile)
	if path == "" {
		r.logger.Info("changes are kept in memory only", zap.String("hint", "set data-file to persist the dataset"))
		return nil
	}

	if err := r.store.Save(path); err != nil {
		return err
	}
	r.logger.Info("dataset saved", zap.String("path", path))
	return nil
}

func (r *runtime) scorer() (*compat.Scorer, error) {
	return compat.New(r.embedder, r.fallback, r.config.Scoring, r.logger)
}

// newRemote returns the configured provider, or nil when none is selected or
// no credential is available. A missing credential is not an error.
func newRemote(ctx context.Context, cfg *AIConfig, log *zap.Logger) (remoteClient, error) {
	if cfg == nil {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerNone:
		return nil, nil
	case providerOpenAI:
		opts := cfg.OpenAI
		if opts == nil {
			opts = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: opts.APIKey,
			File:  opts.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if errors.Is(err, secrets.ErrNotConfigured) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		client, err := openai.New(apiKey, openai.Options{
			BaseURL:        opts.BaseURL,
			EmbeddingModel: opts.EmbeddingModel,
			ChatModel:      opts.ChatModel,
			MaxRetries:     opts.MaxRetries,
		}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case providerGemini:
		opts := cfg.Gemini
		if opts == nil {
			opts = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: opts.APIKey,
			File:  opts.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if errors.Is(err, secrets.ErrNotConfigured) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		client, err := gemini.New(ctx, apiKey, gemini.Options{
			EmbeddingModel: opts.EmbeddingModel,
			ChatModel:      opts.ChatModel,
		}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// buildAI layers the degraded-mode wrappers: cache over resilient over rate-limited remote.
func buildAI(cfg *AIConfig, remote remoteClient, log *zap.Logger) (ai.Embedder, ai.ResumeParser) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	var (
		remoteEmbedder ai.Embedder
		remoteParser   ai.ResumeParser
		embedLog       = log
		parseLog       = log
	)
	if remote != nil {
		provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
		embedLog = logger.WithCommonFields(log, provider, remote.EmbeddingModel())
		parseLog = logger.WithCommonFields(log, provider, remote.ChatModel())

		remoteEmbedder = ai.NewLimited(remote, cfg.RateLimit, 1)
		remoteParser = ai.NewLLMResumeParser(remote, parseLog, cfg.MaxLogLength)
	}

	var embedder ai.Embedder = ai.NewResilientEmbedder(remoteEmbedder, fallback.NewHashEmbedder(), cfg.Timeout, embedLog)
	if cfg.Cache {
		embedder = ai.NewCache(embedder)
	}

	parser := ai.NewResilientParser(remoteParser, fallback.NewKeywordParser(), cfg.Timeout, parseLog)

	return embedder, parser
}

func printJSON(w io.Writer, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(pretty))
	return err
}
