// Package gemini adapts the Google GenAI client to the embedding and completion contracts.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/vector"
)

const (
	defaultChatModel      = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"

	embeddingTaskType = "SEMANTIC_SIMILARITY"
	jsonMIMEType      = "application/json"
)

// models is the subset of *genai.Models used here.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Options selects the models. Empty values select the defaults.
type Options struct {
	ChatModel      string
	EmbeddingModel string
}

// Client implements ai.Embedder and ai.Completer on top of the Gemini API.
type Client struct {
	models         models
	chatModel      string
	embeddingModel string
	logger         *zap.Logger
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey string, opts Options, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, opts, log), nil
}

func newClient(m models, opts Options, log *zap.Logger) *Client {
	chatModel := strings.TrimSpace(opts.ChatModel)
	if chatModel == "" {
		chatModel = defaultChatModel
	}

	embeddingModel := strings.TrimSpace(opts.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	return &Client{
		models:         m,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		logger:         logger.WithFields(log),
	}
}

// Embed sends the text to the embedding model.
func (c *Client) Embed(ctx context.Context, text string) (ai.Embedding, error) {
	if c == nil || c.models == nil {
		return ai.Embedding{}, errors.New("gemini client is not initialized")
	}

	resp, err := c.models.EmbedContent(ctx, c.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: embeddingTaskType,
	})
	if err != nil {
		return ai.Embedding{}, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return ai.Embedding{}, errors.New("gemini api returned empty embedding")
	}

	return ai.Embedding{
		Vector: vector.FromFloat32(resp.Embeddings[0].Values),
		Source: ai.SourceRemote,
	}, nil
}

// Complete sends the system instruction and user message and returns the textual reply.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}

	user = strings.TrimSpace(user)
	if user == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		Temperature:      &temperature,
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := c.models.GenerateContent(ctx, c.chatModel, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// ChatModel returns the configured chat model.
func (c *Client) ChatModel() string {
	if c == nil {
		return ""
	}
	return c.chatModel
}

// EmbeddingModel returns the configured embedding model.
func (c *Client) EmbeddingModel() string {
	if c == nil {
		return ""
	}
	return c.embeddingModel
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
