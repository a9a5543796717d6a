package search

import (
	"slices"

	"github.com/telic/vidsem/core"
)

// FilterByThreshold returns the order-preserving subsequence of candidates
// whose similarity is present and at least minSimilarity, plus the candidates
// excluded for violating the search service contract (missing video id, or a
// similarity that is not a finite number in [0, 1]).
//
// A nil similarity is the absence of a true value: it fails the check rather
// than defaulting to pass, and it is not counted as malformed.
func FilterByThreshold(candidates []*core.SegmentMatch, minSimilarity float64) (accepted, malformed []*core.SegmentMatch) {
	for _, candidate := range candidates {
		if err := core.CheckMatchIntegrity(candidate); err != nil {
			malformed = append(malformed, candidate)
			continue
		}
		if candidate.Similarity == nil {
			continue
		}
		if *candidate.Similarity >= minSimilarity {
			accepted = append(accepted, candidate)
		}
	}
	return accepted, malformed
}

// GroupByVideo partitions accepted matches into per-video groups and
// establishes the result ordering:
//
//   - groups form in first-seen order of distinct video ids, and each group
//     keeps the metadata of its first occurrence;
//   - within a group, segments sort by descending similarity (nil ranks
//     as 0), stable so ties keep retrieval order;
//   - groups re-order by the similarity of their top segment, again stable.
//
// If the search service's own tie-breaking is nondeterministic, group order
// among equal top scores inherits that nondeterminism; the sorts here never
// introduce any of their own.
//
// The returned result set is built from fresh slices; callers must treat it
// as read-only. An empty input yields an empty result set, not an error.
func GroupByVideo(accepted []*core.SegmentMatch) *core.GroupedResults {
	groups := make(map[string]*core.VideoGroup)
	var order []*core.VideoGroup

	for _, match := range accepted {
		group, ok := groups[match.VideoID]
		if !ok {
			group = &core.VideoGroup{Metadata: match.Metadata}
			groups[match.VideoID] = group
			order = append(order, group)
		}
		group.Segments = append(group.Segments, match)
	}

	for _, group := range order {
		slices.SortStableFunc(group.Segments, func(a, b *core.SegmentMatch) int {
			return compareDescending(a.SimilarityOrZero(), b.SimilarityOrZero())
		})
	}

	slices.SortStableFunc(order, func(a, b *core.VideoGroup) int {
		return compareDescending(a.Best().SimilarityOrZero(), b.Best().SimilarityOrZero())
	})

	return &core.GroupedResults{Groups: order}
}

func compareDescending(a, b float64) int {
	if a > b {
		return -1
	}
	if a < b {
		return 1
	}
	return 0
}
