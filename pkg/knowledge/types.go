package knowledge

import (
	"context"
	"errors"
)

// DefaultMaxDistance is the exclusive upper bound on the squared L2 distance
// of an accepted match.
const DefaultMaxDistance = 1.0

var (
	ErrEmptyKnowledgeBase = errors.New("knowledge base is empty, cannot build index")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")
	ErrEmptyEmbedding     = errors.New("embedder returned an empty vector")
)

// Embedder turns text into a fixed-length vector. The same embedder must be
// used to build the index and to embed queries.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a plain function to Embedder.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// Entry is one canonical question and its canned answer.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type IRetriever interface {
	Retrieve(ctx context.Context, query string) (string, bool, error)
}
