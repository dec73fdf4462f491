package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the AI packages.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	// FieldSource records whether a value came from the remote provider or the fallback path.
	FieldSource = "embedding_source"
)

// WithFields attaches fields to the logger. A nil logger becomes a no-op logger.
func WithFields(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// CommonFields describes the AI provider and model. Blank values are left out.
func CommonFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	return fields
}

// WithCommonFields attaches the provider and model fields to the logger.
func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(log, CommonFields(provider, model)...)
}

// Source returns the provenance field.
func Source(source string) zap.Field {
	return zap.String(FieldSource, source)
}
