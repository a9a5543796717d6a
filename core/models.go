package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SegmentID derives a deterministic ID for a transcript segment from its
// video and time span. Re-ingesting the same segment overwrites rather than
// duplicates.
func SegmentID(videoID string, start, end float64) ID {
	key := videoID + "[" +
		strconv.FormatFloat(start, 'f', 3, 64) + "-" +
		strconv.FormatFloat(end, 'f', 3, 64) + "]"
	return IDFromContent(key)
}

// VideoMetadata holds the video-level attributes shared by every segment of
// one video. All segments carrying the same VideoID carry identical metadata;
// grouping trusts the first-seen instance.
type VideoMetadata struct {
	VideoID         string
	Title           string
	Description     string
	PublishedAt     time.Time
	DurationSeconds float64
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	FavoriteCount   int64
	Language        string
}

// Segment is a persisted, time-bounded span of a video's transcript.
// The Vector field is populated by the ingestion pipeline and is expected to
// be unit-normalized so that dot product equals cosine similarity.
type Segment struct {
	Id         ID
	VideoID    string
	Start      float64 // Offset into the video, in seconds
	End        float64
	Text       string
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// SegmentMatch is one retrieved unit: a segment paired with its similarity to
// the query and the metadata of its source video. Matches are transient,
// produced per query by the similarity search and discarded after
// presentation.
//
// Similarity is a pointer because upstream services can hand back rows with
// no usable score; a nil similarity fails the threshold check rather than
// defaulting to pass, and ranks as 0.
type SegmentMatch struct {
	VideoID    string
	Start      float64
	End        float64
	Text       string
	Similarity *float64
	Metadata   VideoMetadata
}

// SimilarityOrZero returns the match similarity, treating nil as 0.
func (m *SegmentMatch) SimilarityOrZero() float64 {
	if m.Similarity == nil {
		return 0
	}
	return *m.Similarity
}

// VideoGroup aggregates the matching segments of one video, ordered by
// descending similarity, together with the shared video metadata.
type VideoGroup struct {
	Metadata VideoMetadata
	Segments []*SegmentMatch
}

// Best returns the highest-similarity segment of the group, or nil for an
// empty group.
func (g *VideoGroup) Best() *SegmentMatch {
	if len(g.Segments) == 0 {
		return nil
	}
	return g.Segments[0]
}

// AdditionalCount returns the number of segments beyond the best one.
// A single-segment group has zero additional segments.
func (g *VideoGroup) AdditionalCount() int {
	if len(g.Segments) == 0 {
		return 0
	}
	return len(g.Segments) - 1
}

// GroupedResults is an ordered sequence of video groups, ordered by
// descending similarity of each group's best segment.
type GroupedResults struct {
	Groups []*VideoGroup
}

// Empty reports whether no segment passed the threshold. This is the normal
// "no matches" terminal state, distinct from a hard failure.
func (r *GroupedResults) Empty() bool {
	return len(r.Groups) == 0
}

// TotalSegments returns the number of segments across all groups.
func (r *GroupedResults) TotalSegments() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Segments)
	}
	return total
}
