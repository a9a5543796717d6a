package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a transcript repository is not provided.
	ErrRepositoryRequired = errors.New("transcript repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrNoSegments is returned when a transcript carries no segments.
	ErrNoSegments = errors.New("transcript has no segments")

	// ErrEmbeddingMismatch is returned when the embedder yields a different
	// number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
