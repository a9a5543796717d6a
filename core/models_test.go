package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	id1 := IDFromContent("some transcript text")
	id2 := IDFromContent("some transcript text")

	if id1 != id2 {
		t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
	}

	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestSegmentID(t *testing.T) {
	tests := []struct {
		name       string
		videoID    string
		start, end float64
		otherVideo string
		otherStart float64
		otherEnd   float64
		wantEqual  bool
	}{
		{
			name:    "same span produces same ID",
			videoID: "v1", start: 10, end: 20,
			otherVideo: "v1", otherStart: 10, otherEnd: 20,
			wantEqual: true,
		},
		{
			name:    "different video",
			videoID: "v1", start: 10, end: 20,
			otherVideo: "v2", otherStart: 10, otherEnd: 20,
			wantEqual: false,
		},
		{
			name:    "different span",
			videoID: "v1", start: 10, end: 20,
			otherVideo: "v1", otherStart: 10, otherEnd: 25,
			wantEqual: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := SegmentID(tt.videoID, tt.start, tt.end)
			id2 := SegmentID(tt.otherVideo, tt.otherStart, tt.otherEnd)
			if (id1 == id2) != tt.wantEqual {
				t.Errorf("SegmentID() equality = %v, want %v", id1 == id2, tt.wantEqual)
			}
		})
	}
}

func TestSegmentMatch_SimilarityOrZero(t *testing.T) {
	sim := 0.73
	match := &SegmentMatch{VideoID: "v1", Similarity: &sim}
	if got := match.SimilarityOrZero(); got != 0.73 {
		t.Errorf("SimilarityOrZero() = %v, want 0.73", got)
	}

	match = &SegmentMatch{VideoID: "v1"}
	if got := match.SimilarityOrZero(); got != 0 {
		t.Errorf("SimilarityOrZero() with nil similarity = %v, want 0", got)
	}
}

func TestVideoGroup_AdditionalCount(t *testing.T) {
	tests := []struct {
		name     string
		segments int
		want     int
	}{
		{name: "empty group", segments: 0, want: 0},
		{name: "single segment has no additional", segments: 1, want: 0},
		{name: "two segments", segments: 2, want: 1},
		{name: "five segments", segments: 5, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &VideoGroup{}
			for i := 0; i < tt.segments; i++ {
				g.Segments = append(g.Segments, &SegmentMatch{VideoID: "v1"})
			}
			if got := g.AdditionalCount(); got != tt.want {
				t.Errorf("AdditionalCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGroupedResults_TotalSegments(t *testing.T) {
	results := &GroupedResults{
		Groups: []*VideoGroup{
			{Segments: []*SegmentMatch{{VideoID: "v1"}, {VideoID: "v1"}}},
			{Segments: []*SegmentMatch{{VideoID: "v2"}}},
		},
	}

	if got := results.TotalSegments(); got != 3 {
		t.Errorf("TotalSegments() = %d, want 3", got)
	}
	if results.Empty() {
		t.Error("Empty() = true for non-empty results")
	}

	empty := &GroupedResults{}
	if !empty.Empty() {
		t.Error("Empty() = false for empty results")
	}
	if got := empty.TotalSegments(); got != 0 {
		t.Errorf("TotalSegments() on empty = %d, want 0", got)
	}
}
