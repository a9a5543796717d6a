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


package core

import (
	"fmt"
	"math"
)

// ValidateSegment validates a Segment according to domain rules.
//
// Validation rules:
//   - VideoID must not be empty
//   - Start and End must be finite
//
// NOT validated:
//   - Vector (can be empty until the embedding pipeline runs)
//   - Start <= End (untrusted input, clamped at render time)
//   - Text (transcripts can contain empty spans)
func ValidateSegment(segment *Segment) error {
	if segment == nil {
		return fmt.Errorf("%w: segment is nil", ErrInvalidSegment)
	}

	if segment.VideoID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSegment, ErrEmptyVideoID)
	}

	if !isFinite(segment.Start) || !isFinite(segment.End) {
		return fmt.Errorf("%w: non-finite segment offsets", ErrInvalidSegment)
	}

	return nil
}

// ValidateMetadata validates a VideoMetadata according to domain rules.
func ValidateMetadata(metadata *VideoMetadata) error {
	if metadata == nil {
		return fmt.Errorf("%w: metadata is nil", ErrInvalidMetadata)
	}

	if metadata.VideoID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMetadata, ErrEmptyVideoID)
	}

	return nil
}

// CheckMatchIntegrity verifies that a retrieved match honors the search
// service contract: a video id must be present and, when a similarity is
// carried, it must be a finite number in [0, 1]. A nil similarity is not an
// integrity violation; it simply fails the threshold check downstream.
func CheckMatchIntegrity(match *SegmentMatch) error {
	if match == nil || match.VideoID == "" {
		return ErrEmptyVideoID
	}

	if match.Similarity != nil {
		s := *match.Similarity
		if !isFinite(s) || s < 0 || s > 1 {
			return fmt.Errorf("%w: %v", ErrMalformedSimilarity, s)
		}
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
