package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// FlatIndex is an exact nearest-neighbour index over squared L2 distance.
// It is filled once and only read afterwards.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

func (ix *FlatIndex) Dim() int { return ix.dim }

func (ix *FlatIndex) Len() int { return len(ix.vectors) }

// Add appends vectors; positions follow insertion order.
func (ix *FlatIndex) Add(vectors ...[]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("vector %d has %d dimensions, index has %d: %w", i, len(v), ix.dim, ErrDimensionMismatch)
		}
		stored := make([]float32, len(v))
		copy(stored, v)
		ix.vectors = append(ix.vectors, stored)
	}
	return nil
}

// Search returns up to k nearest positions and their squared distances in
// ascending distance order. Equal distances keep insertion order.
func (ix *FlatIndex) Search(query []float32, k int) ([]float32, []int, error) {
	if len(query) != ix.dim {
		return nil, nil, fmt.Errorf("query has %d dimensions, index has %d: %w", len(query), ix.dim, ErrDimensionMismatch)
	}
	if k <= 0 || len(ix.vectors) == 0 {
		return nil, nil, nil
	}

	type hit struct {
		pos  int
		dist float32
	}
	hits := make([]hit, len(ix.vectors))
	for i, v := range ix.vectors {
		hits[i] = hit{pos: i, dist: squaredL2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	if k > len(hits) {
		k = len(hits)
	}
	distances := make([]float32, k)
	indices := make([]int, k)
	for i := 0; i < k; i++ {
		distances[i] = hits[i].dist
		indices[i] = hits[i].pos
	}
	return distances, indices, nil
}

// BuildIndex embeds every text concurrently and loads the normalised
// vectors into a new index in the same order as texts.
func BuildIndex(ctx context.Context, embedder Embedder, texts []string) (*FlatIndex, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyKnowledgeBase
	}

	vectors := make([][]float32, len(texts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, text := range texts {
		g.Go(func() error {
			vec, err := embedder.Embed(gCtx, text)
			if err != nil {
				return fmt.Errorf("embedding question %d: %w", i, err)
			}
			if len(vec) == 0 {
				return fmt.Errorf("embedding question %d: %w", i, ErrEmptyEmbedding)
			}
			vectors[i] = Normalize(vec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := NewFlatIndex(len(vectors[0]))
	if err := index.Add(vectors...); err != nil {
		return nil, err
	}
	return index, nil
}

// Normalize returns a unit-length copy of v. A zero vector stays zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
