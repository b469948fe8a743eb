package llm

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultMaxLength is the generation budget used by the chat fallback.
const DefaultMaxLength = 100

const (
	ReplyMissingCredentials = "I encountered an error while generating a response."
	ReplyGenerationFailed   = "An error occurred while generating a response."
	ReplyEmpty              = "I couldn't generate a suitable response."
)

// Generator is the external text completion capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, maxLength int) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	return f(ctx, prompt, maxLength)
}

// ReplyCache stores generated replies by key.
type ReplyCache interface {
	GetReply(ctx context.Context, key string) (string, bool, error)
	SetReply(ctx context.Context, key string, reply string, ttl time.Duration) error
}

// IsCredentialError classifies errors that mean the generator is not
// configured rather than temporarily failing.
type IsCredentialError func(err error) bool

var markupPattern = regexp.MustCompile(`#{3,}|-{3,}`)

// StripMarkup removes heading markers and separator runs from generated text.
func StripMarkup(text string) string {
	return strings.TrimSpace(markupPattern.ReplaceAllString(text, ""))
}
