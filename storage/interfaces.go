package storage

import (
	"context"

	"github.com/telic/vidsem/core"
)

// TranscriptRepository provides operations for managing transcribed video
// segments and their video-level metadata.
// Implementations must be thread-safe and support concurrent access.
type TranscriptRepository interface {
	// FindSimilar finds transcript segments similar to the given query vector.
	// Returns matches with similarity >= minSimilarity, ordered by descending
	// similarity, truncated to limit. Every match carries the metadata of its
	// source video. The same metric is used for the filter and the ordering;
	// callers are still expected to re-verify the threshold, since a float
	// round trip through storage can land marginally below the bound.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SegmentMatch, error)

	// AddSegments adds one or more transcript segments to storage.
	// Segments with Id=0 get a content-derived ID from their video and span.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns the segments with IDs and timestamps populated.
	AddSegments(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error)

	// UpdateSegments updates existing segments (typically to attach vectors).
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any segment doesn't exist.
	UpdateSegments(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error)

	// GetSegment retrieves a single segment by ID.
	// Returns ErrNotFound if the segment doesn't exist.
	GetSegment(ctx context.Context, id core.ID) (*core.Segment, error)

	// GetSegmentsByVideo retrieves all segments belonging to a video,
	// ordered by segment ID.
	GetSegmentsByVideo(ctx context.Context, videoID string) ([]*core.Segment, error)

	// ListSegments retrieves every stored segment. Used by batch jobs such
	// as reembedding; the corpus is expected to fit in memory.
	ListSegments(ctx context.Context) ([]*core.Segment, error)

	// DeleteVideo removes a video's metadata and all of its segments.
	// Returns ErrNotFound if the video doesn't exist.
	DeleteVideo(ctx context.Context, videoID string) error

	// PutVideoMetadata stores or replaces the metadata for a video.
	PutVideoMetadata(ctx context.Context, metadata *core.VideoMetadata) error

	// GetVideoMetadata retrieves the metadata for a video.
	// Returns ErrNotFound if the video doesn't exist.
	GetVideoMetadata(ctx context.Context, videoID string) (*core.VideoMetadata, error)

	// ListVideos retrieves the metadata of every stored video.
	ListVideos(ctx context.Context) ([]*core.VideoMetadata, error)

	// WithTransaction executes a function within a transaction. Repository
	// calls made with the context fn receives share that transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
