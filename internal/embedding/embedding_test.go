package embedding

import (
	"context"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
		delta    float64
	}{
		{"identical", Vector{1, 0, 0}, Vector{1, 0, 0}, 1.0, 0.001},
		{"orthogonal", Vector{1, 0, 0}, Vector{0, 1, 0}, 0.0, 0.001},
		{"opposite", Vector{1, 0, 0}, Vector{-1, 0, 0}, -1.0, 0.001},
		{"similar", Vector{1, 1, 0}, Vector{1, 0, 0}, 0.707, 0.01},
		{"empty", Vector{}, Vector{}, 0.0, 0.001},
		{"different lengths", Vector{1, 0}, Vector{1, 0, 0}, 0.0, 0.001},
		{"zero vector", Vector{0, 0, 0}, Vector{1, 0, 0}, 0.0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f (±%f)", tt.a, tt.b, got, tt.expected, tt.delta)
			}
		})
	}
}

func TestNewFromEnv_Disabled(t *testing.T) {
	// With no env vars set, should return nil
	e := NewFromEnv()
	if e != nil {
		t.Error("expected nil embedder when no provider configured")
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.Embed(ctx, "shipped the release")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, _ := m.Embed(ctx, "shipped the release")

	if len(a) != m.Dims() {
		t.Fatalf("expected %d dims, got %d", m.Dims(), len(a))
	}
	if CosineSimilarity(a, b) < 0.999 {
		t.Error("same text should embed identically")
	}
}

func TestMockEmbedder_SharedWordsAreCloser(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	v1, _ := m.Embed(ctx, "shipped v1")
	v2, _ := m.Embed(ctx, "shipped v2")
	other, _ := m.Embed(ctx, "watering the garden")

	near := CosineSimilarity(v1, v2)
	far := CosineSimilarity(v1, other)
	if near <= far {
		t.Errorf("texts sharing a word should be closer: near=%f far=%f", near, far)
	}
	if near < 0.4 {
		t.Errorf("expected overlap similarity above 0.4, got %f", near)
	}
}

func TestMockEmbedder_Batch(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	texts := []string{"one", "two", "three"}
	vecs, err := m.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatalf("embed batch: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}

	single, _ := m.Embed(ctx, "two")
	if CosineSimilarity(vecs[1], single) < 0.999 {
		t.Error("batch and single embeddings should match")
	}
}
