package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// MockEmbedder generates deterministic embeddings without a model.
// Each word hashes to a pseudo-random direction and the text embeds as
// the normalized sum, so texts sharing words land near each other.
// Useful for tests and offline smoke runs; not a real semantic model.
type MockEmbedder struct {
	dims int
}

// NewMockEmbedder creates a mock embedder with 384 dimensions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{dims: 384}
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	vec := make(Vector, m.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(word))
		seed := h.Sum64()
		for i := 0; i < m.dims; i++ {
			// LCG stream seeded by the word hash
			seed = seed*6364136223846793005 + 1442695040888963407
			vec[i] += float32(int64(seed)) / float32(math.MaxInt64)
		}
	}
	return normalize(vec), nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	vecs := make([]Vector, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (m *MockEmbedder) Dims() int { return m.dims }

func normalize(vec Vector) Vector {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	n := float32(math.Sqrt(norm))
	for i := range vec {
		vec[i] /= n
	}
	return vec
}
