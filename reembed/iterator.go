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

	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// DefaultBatchSize is the default number of segments in each batch.
const DefaultBatchSize = 100

// SegmentIterator walks every stored segment in batches.
type SegmentIterator struct {
	repo      storage.TranscriptRepository
	batchSize int
}

// NewSegmentIterator creates a new segment iterator.
// batchSize: number of segments per batch (must be > 0)
func NewSegmentIterator(repo storage.TranscriptRepository, batchSize int) *SegmentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &SegmentIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of segments. Iteration stops on the first
// error from fn. Context cancellation is checked between batches.
func (it *SegmentIterator) ForEach(ctx context.Context, fn func([]*core.Segment) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	segments, err := it.repo.ListSegments(ctx)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return nil
	}

	for start := 0; start < len(segments); start += it.batchSize {
		end := min(start+it.batchSize, len(segments))

		if err := fn(segments[start:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
