// Package ai defines the embedding and resume-parsing contracts used by the scoring pipeline
// and the wrappers that keep them usable when a remote provider is missing or failing.
package ai

import (
	"context"
	"strings"

	"github.com/spigell/jobswap/internal/vector"
)

// Source records how a value was computed.
type Source string

const (
	// SourceRemote means the value came from an external AI provider.
	SourceRemote Source = "remote"
	// SourceFallback means the deterministic local path produced the value.
	SourceFallback Source = "fallback"
)

// Embedding is a vector together with its provenance.
type Embedding struct {
	Vector vector.Vector
	Source Source
	// Cached is set when the value was served from an in-process cache.
	Cached bool
}

// Degraded reports whether the embedding was produced by the fallback path.
func (e Embedding) Degraded() bool {
	return e.Source == SourceFallback
}

// Embedder turns text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
}

// Completer sends a system instruction and a user message to a chat model
// that is asked to reply with a JSON object, returning the raw reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ParsedResume is the structured profile extracted from free-form resume text.
type ParsedResume struct {
	JobTitle        string   `json:"job_title"`
	Skills          []string `json:"skills"`
	Tools           []string `json:"tools"`
	YearsExperience int      `json:"years_experience"`
	Certifications  []string `json:"certifications"`
	Education       []string `json:"education"`
	Languages       []string `json:"languages"`
	Source          Source   `json:"source"`
}

// ResumeParser extracts a ParsedResume from raw text.
type ResumeParser interface {
	ParseResume(ctx context.Context, text string) (*ParsedResume, error)
}

// ProfileText renders a job title and skills as a single embedding input.
func ProfileText(jobTitle string, skills []string) string {
	return jobTitle + ". Skills: " + strings.Join(skills, ", ")
}

