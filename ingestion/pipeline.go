package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// DefaultBatchSize is the number of segments embedded per worker task.
const DefaultBatchSize = 32

// Pipeline ingests transcripts: it stores video metadata and segments, then
// embeds the segment texts through a worker pool and writes the normalized
// vectors back.
type Pipeline struct {
	repository storage.TranscriptRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many segments each embedding call covers.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.TranscriptRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		pool:       pool,
		batchSize:  DefaultBatchSize,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestTranscript stores one transcript and embeds its segments. Metadata
// and segments are written first; embedding batches then run on the worker
// pool, and the first batch failure is returned after all batches settle.
// Cancellation is honored between batch submissions.
func (p *Pipeline) IngestTranscript(ctx context.Context, transcript *Transcript) error {
	if transcript == nil || len(transcript.Segments) == 0 {
		return ErrNoSegments
	}

	if err := p.repository.PutVideoMetadata(ctx, &transcript.Metadata); err != nil {
		return fmt.Errorf("storing video metadata: %w", err)
	}

	added, err := p.repository.AddSegments(ctx, transcript.Segments...)
	if err != nil {
		return fmt.Errorf("storing segments: %w", err)
	}

	p.logger.Info("ingesting transcript",
		"videoID", transcript.Metadata.VideoID,
		"segments", len(added), "batchSize", p.batchSize)

	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for start := 0; start < len(added); start += p.batchSize {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		default:
		}

		end := min(start+p.batchSize, len(added))
		batch := added[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		})
		if submitErr != nil {
			wg.Done()
			errOnce.Do(func() { firstErr = submitErr })
			break
		}
	}

	wg.Wait()
	return firstErr
}

// IngestAll ingests transcripts sequentially, stopping at the first failure.
func (p *Pipeline) IngestAll(ctx context.Context, transcripts []*Transcript) error {
	for _, transcript := range transcripts {
		if err := p.IngestTranscript(ctx, transcript); err != nil {
			return fmt.Errorf("ingesting video %s: %w", transcript.Metadata.VideoID, err)
		}
	}
	return nil
}

// embedBatch embeds one batch of stored segments and writes the normalized
// vectors back.
func (p *Pipeline) embedBatch(ctx context.Context, segments []*core.Segment) error {
	texts := make([]string, len(segments))
	for i, segment := range segments {
		texts[i] = segment.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding segment batch: %w", err)
	}
	if len(embeddings) != len(segments) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(segments), len(embeddings))
	}

	for i := range segments {
		segments[i].Vector = ai.NormalizeVector(embeddings[i])
	}

	if _, err := p.repository.UpdateSegments(ctx, segments...); err != nil {
		return fmt.Errorf("updating segment vectors: %w", err)
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
