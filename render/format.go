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

package render

import (
	"fmt"
	"strconv"
)

// FormatDuration renders a second count as M:SS, or H:MM:SS from one hour
// up. Negative input collapses to "0:00", matching the treatment of absent
// values elsewhere in the presentation layer.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		return "0:00"
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatCount renders large counts with one-decimal K/M suffixes.
// Negative input collapses to "0".
func FormatCount(n int64) string {
	switch {
	case n < 0:
		return "0"
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatSimilarity renders a similarity in [0, 1] as a one-decimal percent.
func FormatSimilarity(similarity float64) string {
	return fmt.Sprintf("%.1f%%", similarity*100)
}

// StartOffset converts a segment start to the whole-second offset used in
// watch and embed URLs, clamping negative offsets to zero.
func StartOffset(start float64) int {
	offset := int(start)
	if offset < 0 {
		return 0
	}
	return offset
}

// WatchURL builds the YouTube watch link for a video at a given offset.
func WatchURL(videoID string, start float64) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", videoID, StartOffset(start))
}

// EmbedURL builds the YouTube embed player link for a video at a given offset.
func EmbedURL(videoID string, start float64) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?start=%d", videoID, StartOffset(start))
}
