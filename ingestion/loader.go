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

package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/telic/vidsem/core"
)

// Transcript is one video's metadata plus its transcribed segments, ready
// for ingestion.
type Transcript struct {
	Metadata core.VideoMetadata
	Segments []*core.Segment
}

// transcriptFile mirrors the transcript JSON produced by the transcription
// stage. Scraped metadata routinely has holes, so optional fields are
// pointers; normalization collapses them to zero values.
type transcriptFile struct {
	Video    videoJSON     `json:"video"`
	Segments []segmentJSON `json:"segments"`
}

type videoJSON struct {
	VideoID         string   `json:"video_id"`
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	PublishedAt     *string  `json:"published_at"`
	DurationSeconds *float64 `json:"duration_seconds"`
	ViewCount       *int64   `json:"view_count"`
	LikeCount       *int64   `json:"like_count"`
	CommentCount    *int64   `json:"comment_count"`
	FavoriteCount   *int64   `json:"favorite_count"`
	Language        *string  `json:"transcription_language"`
}

type segmentJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// LoadTranscript reads and normalizes one transcript JSON file.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript %s: %w", path, err)
	}

	var file transcriptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing transcript %s: %w", path, err)
	}
	if file.Video.VideoID == "" {
		return nil, fmt.Errorf("transcript %s: %w", path, core.ErrEmptyVideoID)
	}

	transcript := &Transcript{
		Metadata: core.VideoMetadata{
			VideoID:         file.Video.VideoID,
			Title:           stringOrEmpty(file.Video.Title),
			Description:     stringOrEmpty(file.Video.Description),
			PublishedAt:     parseTimestamp(file.Video.PublishedAt),
			DurationSeconds: float64OrZero(file.Video.DurationSeconds),
			ViewCount:       int64OrZero(file.Video.ViewCount),
			LikeCount:       int64OrZero(file.Video.LikeCount),
			CommentCount:    int64OrZero(file.Video.CommentCount),
			FavoriteCount:   int64OrZero(file.Video.FavoriteCount),
			Language:        stringOrEmpty(file.Video.Language),
		},
	}

	for _, segment := range file.Segments {
		transcript.Segments = append(transcript.Segments, &core.Segment{
			VideoID: file.Video.VideoID,
			Start:   segment.Start,
			End:     segment.End,
			Text:    segment.Text,
		})
	}

	return transcript, nil
}

// LoadTranscriptDir loads every .json transcript in a directory, in
// lexical filename order.
func LoadTranscriptDir(dir string) ([]*Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading transcript directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	transcripts := make([]*Transcript, 0, len(paths))
	for _, path := range paths {
		transcript, err := LoadTranscript(path)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, transcript)
	}
	return transcripts, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func float64OrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func int64OrZero(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

// parseTimestamp accepts RFC 3339 and bare dates; anything else collapses
// to the zero time, like the other absent metadata fields.
func parseTimestamp(s *string) time.Time {
	if s == nil {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
