package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/ai/openai"
)

func TestNewRemote(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	tests := []struct {
		name    string
		cfg     *AIConfig
		wantNil bool
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantNil: true},
		{name: "provider none", cfg: &AIConfig{Provider: "none"}, wantNil: true},
		{name: "openai without key", cfg: &AIConfig{Provider: "openai"}, wantNil: true},
		{name: "gemini without key", cfg: &AIConfig{Provider: "gemini"}, wantNil: true},
		{name: "openai with key", cfg: &AIConfig{Provider: "OpenAI", OpenAI: &OpenAIConfig{APIKey: "sk-test"}}},
		{name: "unsupported provider", cfg: &AIConfig{Provider: "llama"}, wantErr: true},
		{
			name:    "missing key file",
			cfg:     &AIConfig{Provider: "openai", OpenAI: &OpenAIConfig{APIKeyFile: "/nonexistent/key"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, err := newRemote(context.Background(), tt.cfg, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (remote == nil) != tt.wantNil {
				t.Fatalf("unexpected remote: %v", remote)
			}
		})
	}
}

func TestNewRemoteReadsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	remote, err := newRemote(context.Background(), &AIConfig{Provider: "openai"}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := remote.(*openai.Client); !ok {
		t.Fatalf("expected openai client, got %T", remote)
	}
}

func TestBuildAIWithoutRemote(t *testing.T) {
	embedder, parser := buildAI(&AIConfig{Cache: true}, nil, zap.NewNop())

	cache, ok := embedder.(*ai.Cache)
	if !ok {
		t.Fatalf("expected cache wrapper, got %T", embedder)
	}

	got, err := embedder.Embed(context.Background(), "Senior Software Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Source != ai.SourceFallback || len(got.Vector) != 384 {
		t.Fatalf("unexpected embedding: source=%s len=%d", got.Source, len(got.Vector))
	}
	if cache.Len() != 0 {
		t.Fatalf("fallback embeddings must not be cached")
	}

	parsed, err := parser.ParseResume(context.Background(), "Software Engineer with 5 years experience in Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Source != ai.SourceFallback || parsed.YearsExperience != 5 {
		t.Fatalf("unexpected resume: %+v", parsed)
	}
}

func TestBuildAIWithoutCache(t *testing.T) {
	embedder, _ := buildAI(&AIConfig{}, nil, nil)

	if _, ok := embedder.(*ai.ResilientEmbedder); !ok {
		t.Fatalf("expected resilient embedder, got %T", embedder)
	}
}

func TestOpenStore(t *testing.T) {
	demo, err := openStore("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := demo.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected dataset file: %v", err)
	}

	loaded, err := openStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := loaded.Employee("user-001"); err != nil {
		t.Fatalf("expected demo employee after reload: %v", err)
	}

	if _, err := openStore(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing dataset")
	}
}
