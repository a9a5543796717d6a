package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// BatchProcessor regenerates embeddings for batches of segments.
type BatchProcessor struct {
	repo           storage.TranscriptRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts per embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.TranscriptRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of segments and writes the normalized vectors back.
func (bp *BatchProcessor) Process(ctx context.Context, segments []*core.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	texts := make([]string, len(segments))
	for i, segment := range segments {
		texts[i] = segment.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("generating embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(segments) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(segments), len(embeddings))
	}

	for i := range segments {
		segments[i].Vector = ai.NormalizeVector(embeddings[i])
	}

	if _, err := bp.repo.UpdateSegments(ctx, segments...); err != nil {
		return fmt.Errorf("updating segments: %w", err)
	}

	return nil
}
