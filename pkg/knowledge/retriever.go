package knowledge

import (
	"context"
	"fmt"
	"strings"

	contextPkg "FintechAgent/pkg/context"
	"github.com/sirupsen/logrus"
)

// Retriever answers a query with the canned answer of the closest canonical
// question, when that question is close enough.
type Retriever struct {
	embedder    Embedder
	index       *FlatIndex
	entries     []Entry
	maxDistance float32
	log         *logrus.Logger
}

// NewRetriever embeds every canonical question and builds the index. It
// fails when entries is empty or any question cannot be embedded.
func NewRetriever(ctx context.Context, embedder Embedder, entries []Entry, log *logrus.Logger) (*Retriever, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	questions := make([]string, len(entries))
	for i, e := range entries {
		questions[i] = e.Question
	}

	index, err := BuildIndex(ctx, embedder, questions)
	if err != nil {
		return nil, fmt.Errorf("building knowledge base index: %w", err)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"entries":    len(entries),
			"dimensions": index.Dim(),
		}).Info("Knowledge base index built")
	}

	return &Retriever{
		embedder:    embedder,
		index:       index,
		entries:     entries,
		maxDistance: DefaultMaxDistance,
		log:         log,
	}, nil
}

// Retrieve returns the matched answer and true on a hit. A miss is
// (_, false, nil); an error means the query could not be embedded.
func (r *Retriever) Retrieve(ctx context.Context, query string) (string, bool, error) {
	vec, err := r.embedder.Embed(ctx, strings.ToLower(query))
	if err != nil {
		return "", false, fmt.Errorf("embedding query: %w", err)
	}

	distances, indices, err := r.index.Search(Normalize(vec), 1)
	if err != nil {
		return "", false, err
	}
	if len(indices) == 0 {
		return "", false, nil
	}

	dist, pos := distances[0], indices[0]
	if r.log != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"distance":   dist,
			"index":      pos,
		}).Debug("Knowledge base search")
	}

	if dist >= r.maxDistance || pos < 0 || pos >= len(r.entries) {
		return "", false, nil
	}

	answer := r.entries[pos].Answer
	if answer == "" {
		return "", false, nil
	}
	return answer, true, nil
}

// Size returns the number of indexed questions.
func (r *Retriever) Size() int {
	return r.index.Len()
}
