package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// Searcher runs the retrieval-and-aggregation pipeline over transcribed video
// segments: embed the query, fetch ranked candidates, re-verify the
// similarity threshold, and group the survivors by source video.
type Searcher struct {
	repository storage.TranscriptRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Params holds the tunable search parameters.
type Params struct {
	// MinSimilarity is the minimum cosine similarity a segment must reach,
	// in [0, 1]. Applied both by the search service and re-verified here.
	MinSimilarity float64

	// MaxCandidates caps the rows fetched from the search service. It is
	// independent from the final group count and should sit well above it,
	// because filtering and grouping shrink the result set.
	MaxCandidates int
}

const (
	// DefaultMinSimilarity keeps only segments at 40% similarity or better.
	DefaultMinSimilarity = 0.4

	// DefaultMaxCandidates leaves headroom for post-filter shrinkage.
	DefaultMaxCandidates = 200
)

// DefaultParams returns the standard search parameters.
func DefaultParams() Params {
	return Params{
		MinSimilarity: DefaultMinSimilarity,
		MaxCandidates: DefaultMaxCandidates,
	}
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	repository storage.TranscriptRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   provider.Embedder(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs one query through the pipeline and returns the grouped result
// set. An empty result set is the normal "no matches" outcome, not an error;
// hard failures from the embedder or the search service propagate unchanged,
// wrapped with the pipeline stage that raised them.
func (s *Searcher) Search(ctx context.Context, query string, params Params) (*core.GroupedResults, error) {
	return s.SearchWithMonitor(ctx, query, params, nil)
}

// SearchWithMonitor runs a search with monitoring. The monitor receives
// callbacks at each stage of the pipeline.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, params Params, monitor Monitor) (*core.GroupedResults, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if params.MinSimilarity < 0 || params.MinSimilarity > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, params.MinSimilarity)
	}
	if params.MaxCandidates <= 0 {
		params.MaxCandidates = DefaultMaxCandidates
	}

	monitor.Start(query, params)

	// 1. Embed the query
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	// Stored vectors are unit length and the scan scores by dot product,
	// which is cosine similarity only when the query is unit length too.
	vector = ai.NormalizeVector(vector)
	monitor.AfterEmbedding(vector)

	// 2. Ranked retrieval from the search service
	candidates, err := s.repository.FindSimilar(ctx, vector, params.MinSimilarity, params.MaxCandidates)
	if err != nil {
		s.logger.Error("error querying for similar segments", "err", err)
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	monitor.AfterRetrieval(candidates)

	// 3. Re-verify the threshold. The service already filtered, but a float
	// round trip through storage can land marginally below the bound.
	accepted, malformed := FilterByThreshold(candidates, params.MinSimilarity)
	if len(malformed) > 0 {
		// Contract violation upstream; drop the records, keep the query.
		s.logger.Warn("excluded malformed candidates",
			"count", len(malformed), "total", len(candidates))
	}
	monitor.AfterThresholdFilter(accepted, malformed)

	s.logger.Info("similar segments found",
		"accepted", len(accepted), "minSimilarity", params.MinSimilarity)

	// 4. Group by source video
	results := GroupByVideo(accepted)
	monitor.Finish(results)

	return results, nil
}
