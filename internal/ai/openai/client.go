// Package openai talks to OpenAI-compatible REST endpoints for embeddings and chat completions.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/ai"
	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/utils"
	"github.com/spigell/jobswap/internal/vector"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultChatModel      = "gpt-4o-mini"
	contentType           = "application/json"
	userAgent             = "spigell/jobswap"

	chatTemperature = 0.3
)

var retryBackoff = 500 * time.Millisecond

// Options configures the client. Zero values select the defaults.
type Options struct {
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	MaxRetries     int
}

// Client is a minimal OpenAI REST client.
type Client struct {
	apiKey         string
	baseURL        string
	embeddingModel string
	chatModel      string
	maxRetries     int
	logger         *zap.Logger

	HTTPClient *http.Client
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bad status: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("bad status: %s", e.Status)
}

// Temporary reports whether a retry can succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// New creates a client for the given API key.
func New(apiKey string, opts Options, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	embeddingModel := strings.TrimSpace(opts.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	chatModel := strings.TrimSpace(opts.ChatModel)
	if chatModel == "" {
		chatModel = defaultChatModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		apiKey:         apiKey,
		baseURL:        baseURL,
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
		maxRetries:     maxRetries,
		logger:         logger.WithFields(log),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// EmbeddingModel returns the configured embedding model.
func (c *Client) EmbeddingModel() string { return c.embeddingModel }

// ChatModel returns the configured chat model.
func (c *Client) ChatModel() string { return c.chatModel }

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed implements ai.Embedder.
func (c *Client) Embed(ctx context.Context, text string) (ai.Embedding, error) {
	var response embeddingResponse
	if err := c.post(ctx, "/embeddings", embeddingRequest{Model: c.embeddingModel, Input: text}, &response); err != nil {
		return ai.Embedding{}, fmt.Errorf("create embedding: %w", err)
	}

	if len(response.Data) == 0 || len(response.Data[0].Embedding) == 0 {
		return ai.Embedding{}, errors.New("create embedding: response contains no embedding")
	}

	return ai.Embedding{
		Vector: vector.Vector(response.Data[0].Embedding),
		Source: ai.SourceRemote,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements ai.Completer using JSON-object response mode.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	request := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    chatTemperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	var response chatResponse
	if err := c.post(ctx, "/chat/completions", request, &response); err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("create chat completion: response contains no choices")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("create chat completion: empty message content")
	}

	return content, nil
}

// post sends payload as JSON and decodes the response into target, retrying
// temporary failures with exponential backoff.
func (c *Client) post(ctx context.Context, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := utils.Backoff(retryBackoff, attempt)
			c.logger.Debug("retrying request",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return err
			}
		}

		lastErr = c.do(ctx, path, body, target)
		if lastErr == nil {
			return nil
		}

		var apiErr *APIError
		if !errors.As(lastErr, &apiErr) || !apiErr.Temporary() {
			return lastErr
		}
	}

	return lastErr
}

func (c *Client) do(ctx context.Context, path string, body []byte, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req = c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(data),
		}
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	return req
}

func errorMessage(data []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Error.Message)
}
