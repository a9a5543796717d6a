package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telic/vidsem/ai"
)

// stubBackend satisfies embeddings.Embedder with canned responses, standing
// in for the remote service.
type stubBackend struct {
	vectors [][]float32
	err     error
}

func (s *stubBackend) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return s.vectors, s.err
}

func (s *stubBackend) EmbedQuery(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.vectors) == 0 {
		return nil, nil
	}
	return s.vectors[0], nil
}

func newStubEmbedder(backend *stubBackend) *Embedder {
	return &Embedder{
		embedder: backend,
		logger:   slog.Default(),
	}
}

func TestEmbedTextEmptyInput(t *testing.T) {
	e := newStubEmbedder(&stubBackend{})

	_, err := e.EmbedText(context.Background(), "  \t\n")
	assert.ErrorIs(t, err, ai.ErrEmptyText)
}

func TestEmbedTextServiceError(t *testing.T) {
	backendErr := errors.New("connection refused")
	e := newStubEmbedder(&stubBackend{err: backendErr})

	_, err := e.EmbedText(context.Background(), "some text")
	assert.ErrorIs(t, err, backendErr)
}

func TestEmbedTextNoVectors(t *testing.T) {
	// A "successful" response with nothing in it must surface as a failure,
	// not as an empty vector that quietly matches nothing downstream.
	t.Run("empty batch", func(t *testing.T) {
		e := newStubEmbedder(&stubBackend{vectors: nil})

		_, err := e.EmbedText(context.Background(), "some text")
		assert.ErrorIs(t, err, ai.ErrNoEmbedding)
	})

	t.Run("zero-length vector", func(t *testing.T) {
		e := newStubEmbedder(&stubBackend{vectors: [][]float32{{}}})

		_, err := e.EmbedText(context.Background(), "some text")
		assert.ErrorIs(t, err, ai.ErrNoEmbedding)
	})
}

func TestEmbedTextReturnsFirstVector(t *testing.T) {
	want := []float32{0.6, 0.8}
	e := newStubEmbedder(&stubBackend{vectors: [][]float32{want}})

	got, err := e.EmbedText(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEmbedTexts(t *testing.T) {
	want := [][]float32{{1, 0}, {0, 1}}
	e := newStubEmbedder(&stubBackend{vectors: want})

	got, err := e.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
