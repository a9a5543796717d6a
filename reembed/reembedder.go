// Copyright 2026 Telic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of segments to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of segments)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embeddings of every stored segment, typically
// after switching embedding models.
type Reembedder struct {
	repo      storage.TranscriptRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *SegmentIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.TranscriptRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewSegmentIterator(repo, config.BatchSize),
	}
}

// Run reembeds every segment in the database, reporting progress to the
// configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	segments, err := r.repo.ListSegments(ctx)
	if err != nil {
		return fmt.Errorf("counting segments: %w", err)
	}

	total := len(segments)
	if total == 0 {
		fmt.Fprintf(r.progress, "No segments found in database (0 segments)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d segments (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(batch []*core.Segment) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("processing batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d segments in %v (%.1f segments/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
