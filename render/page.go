package render

import (
	"fmt"
	"time"

	"github.com/telic/vidsem/core"
)

// Page is the fully formatted view model for one search result page. It is
// built once per query from the grouped results and carries no domain types,
// so the template stays free of logic beyond iteration.
type Page struct {
	Query          string
	UniqueVideos   int
	TotalSegments  int
	ThresholdLabel string
	GeneratedAt    string
	Cards          []Card
}

// Card presents one video group: the best segment up front, the rest behind
// an expandable list.
type Card struct {
	Index         int
	Title         string
	EmbedURL      string
	WatchURL      string
	BestText      string
	TimeRange     string
	Similarity    string
	Views         string
	Likes         string
	ExtraCount    int
	ExtraLabel    string
	ExtraSegments []ExtraSegment
}

// ExtraSegment is one collapsed segment beyond a card's best match.
type ExtraSegment struct {
	TimeRange  string
	Similarity string
	Text       string
	WatchURL   string
}

// BuildPage formats grouped results into a Page. The group and segment order
// of results is preserved as-is; ordering is the search pipeline's job.
func BuildPage(query string, results *core.GroupedResults, minSimilarity float64, now time.Time) Page {
	page := Page{
		Query:          query,
		UniqueVideos:   len(results.Groups),
		TotalSegments:  results.TotalSegments(),
		ThresholdLabel: fmt.Sprintf("%.0f%%", minSimilarity*100),
		GeneratedAt:    now.Format("2006-01-02 15:04:05"),
	}

	for i, group := range results.Groups {
		best := group.Best()
		if best == nil {
			continue
		}

		title := group.Metadata.Title
		if title == "" {
			title = "Untitled Video"
		}

		card := Card{
			Index:      i + 1,
			Title:      title,
			EmbedURL:   EmbedURL(group.Metadata.VideoID, best.Start),
			WatchURL:   WatchURL(group.Metadata.VideoID, best.Start),
			BestText:   best.Text,
			TimeRange:  formatTimeRange(best.Start, best.End),
			Similarity: FormatSimilarity(best.SimilarityOrZero()),
			Views:      FormatCount(group.Metadata.ViewCount),
			Likes:      FormatCount(group.Metadata.LikeCount),
			ExtraCount: group.AdditionalCount(),
			ExtraLabel: extraLabel(group.AdditionalCount()),
		}

		for _, segment := range group.Segments[1:] {
			card.ExtraSegments = append(card.ExtraSegments, ExtraSegment{
				TimeRange:  formatTimeRange(segment.Start, segment.End),
				Similarity: FormatSimilarity(segment.SimilarityOrZero()),
				Text:       segment.Text,
				WatchURL:   WatchURL(group.Metadata.VideoID, segment.Start),
			})
		}

		page.Cards = append(page.Cards, card)
	}

	return page
}

// extraLabel pluralizes the expand affordance: "1 more segment",
// "3 more segments". Unused at zero extras, where no affordance renders.
func extraLabel(count int) string {
	if count == 1 {
		return fmt.Sprintf("Show %d more segment", count)
	}
	return fmt.Sprintf("Show %d more segments", count)
}

func formatTimeRange(start, end float64) string {
	return FormatDuration(start) + " - " + FormatDuration(end)
}
