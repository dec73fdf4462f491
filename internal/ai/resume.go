package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/logger"
	"github.com/spigell/jobswap/internal/utils"
)

//go:embed resume_prompt.md
var resumeSystemPrompt string

const defaultMaxLogLength = 200

// LLMResumeParser asks a chat model to extract a resume profile as JSON.
type LLMResumeParser struct {
	completer Completer
	logger    *zap.Logger
	maxLogLen int
}

// NewLLMResumeParser creates a parser on top of the provided completer.
func NewLLMResumeParser(completer Completer, log *zap.Logger, maxLogLength int) *LLMResumeParser {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &LLMResumeParser{
		completer: completer,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}
}

// ParseResume implements ResumeParser.
func (p *LLMResumeParser) ParseResume(ctx context.Context, text string) (*ParsedResume, error) {
	if p.completer == nil {
		return nil, errors.New("resume parser completer is not configured")
	}

	user := "Parse this resume:\n\n" + text

	p.logger.Debug("resume parse request",
		zap.Int("resume_length", utf8.RuneCountInString(text)),
		zap.String("resume_preview", utils.TruncateForLog(text, p.maxLogLen)),
	)

	raw, err := p.completer.Complete(ctx, strings.TrimSpace(resumeSystemPrompt), user)
	if err != nil {
		return nil, fmt.Errorf("complete resume prompt: %w", err)
	}

	p.logger.Debug("resume parse response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	return parseResumeResponse(raw)
}

func parseResumeResponse(raw string) (*ParsedResume, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse resume response: %w", err)
	}

	return decodeResume(data), nil
}

// decodeResume defaults every missing or malformed field independently:
// lists become empty, the title becomes "" and experience becomes 0.
func decodeResume(data map[string]any) *ParsedResume {
	title, _ := decodeInto[string](data["job_title"])

	years, ok := decodeInto[float64](data["years_experience"])
	if !ok || math.IsNaN(years) || years < 0 {
		years = 0
	}

	return &ParsedResume{
		JobTitle:        strings.TrimSpace(title),
		Skills:          decodeList(data["skills"]),
		Tools:           decodeList(data["tools"]),
		YearsExperience: int(utils.RoundHalfUp(years)),
		Certifications:  decodeList(data["certifications"]),
		Education:       decodeList(data["education"]),
		Languages:       decodeList(data["languages"]),
	}
}

func decodeList(raw any) []string {
	if _, ok := raw.([]any); !ok {
		return []string{}
	}

	items, ok := decodeInto[[]string](raw)
	if !ok || items == nil {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func decodeInto[T any](raw any) (T, bool) {
	var out T
	if raw == nil {
		return out, false
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, false
	}

	if err := decoder.Decode(raw); err != nil {
		var zero T
		return zero, false
	}

	return out, true
}

// ExtractJSON strips markdown code fences that chat models like to wrap JSON in.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
