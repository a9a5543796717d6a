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

package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/ai/mock"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage/badger"
)

// stubRepository satisfies storage.TranscriptRepository with a controllable
// FindSimilar; the write-path methods are never reached from the searcher.
type stubRepository struct {
	findSimilarFunc func(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SegmentMatch, error)
}

func (r *stubRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SegmentMatch, error) {
	return r.findSimilarFunc(ctx, vector, minSimilarity, limit)
}

func (r *stubRepository) AddSegments(context.Context, ...*core.Segment) ([]*core.Segment, error) {
	return nil, nil
}

func (r *stubRepository) UpdateSegments(context.Context, ...*core.Segment) ([]*core.Segment, error) {
	return nil, nil
}

func (r *stubRepository) GetSegment(context.Context, core.ID) (*core.Segment, error) {
	return nil, nil
}

func (r *stubRepository) GetSegmentsByVideo(context.Context, string) ([]*core.Segment, error) {
	return nil, nil
}

func (r *stubRepository) ListSegments(context.Context) ([]*core.Segment, error) {
	return nil, nil
}

func (r *stubRepository) DeleteVideo(context.Context, string) error { return nil }

func (r *stubRepository) PutVideoMetadata(context.Context, *core.VideoMetadata) error { return nil }

func (r *stubRepository) GetVideoMetadata(context.Context, string) (*core.VideoMetadata, error) {
	return nil, nil
}

func (r *stubRepository) ListVideos(context.Context) ([]*core.VideoMetadata, error) {
	return nil, nil
}

func (r *stubRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *stubRepository) Close() error { return nil }

func stubRepoReturning(matches []*core.SegmentMatch, err error) *stubRepository {
	return &stubRepository{
		findSimilarFunc: func(context.Context, []float32, float64, int) ([]*core.SegmentMatch, error) {
			return matches, err
		},
	}
}

func simPtr(v float64) *float64 { return &v }

func matchFor(videoID string, similarity *float64) *core.SegmentMatch {
	return &core.SegmentMatch{
		VideoID:    videoID,
		Text:       "segment of " + videoID,
		Similarity: similarity,
		Metadata:   core.VideoMetadata{VideoID: videoID, Title: "title of " + videoID},
	}
}

func TestNewSearcher(t *testing.T) {
	repo := stubRepoReturning(nil, nil)

	t.Run("requires repository", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("succeeds with defaults", func(t *testing.T) {
		s, err := NewSearcher(repo, mock.NewMockProvider())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(repo, mock.NewMockProvider(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, s.logger)
	})
}

func TestSearchValidation(t *testing.T) {
	s, err := NewSearcher(stubRepoReturning(nil, nil), mock.NewMockProvider())
	require.NoError(t, err)

	t.Run("empty query", func(t *testing.T) {
		_, err := s.Search(context.Background(), "", DefaultParams())
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := s.Search(context.Background(), "   \t\n", DefaultParams())
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("negative threshold", func(t *testing.T) {
		_, err := s.Search(context.Background(), "query", Params{MinSimilarity: -0.1})
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("threshold above one", func(t *testing.T) {
		_, err := s.Search(context.Background(), "query", Params{MinSimilarity: 1.1})
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})
}

func TestSearchEmbedderFailure(t *testing.T) {
	embedErr := errors.New("model unavailable")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, embedErr
	}

	s, err := NewSearcher(stubRepoReturning(nil, nil), mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "query", DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, embedErr)
	assert.Contains(t, err.Error(), "encoding query")
}

func TestSearchRepositoryFailure(t *testing.T) {
	repoErr := errors.New("backend unavailable")
	s, err := NewSearcher(stubRepoReturning(nil, repoErr), mock.NewMockProvider())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "query", DefaultParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
	assert.Contains(t, err.Error(), "similarity search")
}

func TestSearchNoMatches(t *testing.T) {
	s, err := NewSearcher(stubRepoReturning(nil, nil), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "nothing like this", DefaultParams())
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.True(t, results.Empty())
	assert.Zero(t, results.TotalSegments())
}

func TestSearchThresholdReverification(t *testing.T) {
	// The service contract already filters, but a marginal value can slip
	// back through a float round trip; the pipeline must drop it again.
	matches := []*core.SegmentMatch{
		matchFor("video-1", simPtr(0.9)),
		matchFor("video-1", simPtr(0.4)),
		matchFor("video-1", simPtr(0.7)),
	}
	s, err := NewSearcher(stubRepoReturning(matches, nil), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "query", Params{MinSimilarity: 0.5})
	require.NoError(t, err)
	require.Len(t, results.Groups, 1)

	group := results.Groups[0]
	require.Len(t, group.Segments, 2)
	assert.Equal(t, 0.9, group.Segments[0].SimilarityOrZero())
	assert.Equal(t, 0.7, group.Segments[1].SimilarityOrZero())
}

func TestSearchGroupOrdering(t *testing.T) {
	matches := []*core.SegmentMatch{
		matchFor("video-1", simPtr(0.6)),
		matchFor("video-2", simPtr(0.8)),
		matchFor("video-1", simPtr(0.5)),
	}
	s, err := NewSearcher(stubRepoReturning(matches, nil), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "query", DefaultParams())
	require.NoError(t, err)
	require.Len(t, results.Groups, 2)

	assert.Equal(t, "video-2", results.Groups[0].Metadata.VideoID)
	assert.Equal(t, "video-1", results.Groups[1].Metadata.VideoID)
	assert.Equal(t, 3, results.TotalSegments())
}

func TestSearchNilSimilarityExcluded(t *testing.T) {
	matches := []*core.SegmentMatch{
		matchFor("video-1", nil),
		matchFor("video-2", nil),
	}
	s, err := NewSearcher(stubRepoReturning(matches, nil), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "query", DefaultParams())
	require.NoError(t, err)
	assert.True(t, results.Empty())
}

func TestSearchMalformedCandidatesSkipped(t *testing.T) {
	matches := []*core.SegmentMatch{
		matchFor("video-1", simPtr(0.9)),
		matchFor("video-1", simPtr(math.NaN())),
		matchFor("", simPtr(0.8)),
	}
	s, err := NewSearcher(stubRepoReturning(matches, nil), mock.NewMockProvider())
	require.NoError(t, err)

	results, err := s.Search(context.Background(), "query", DefaultParams())
	require.NoError(t, err)
	require.Len(t, results.Groups, 1)
	assert.Equal(t, 1, results.TotalSegments())
	assert.Equal(t, 0.9, results.Groups[0].Best().SimilarityOrZero())
}

func TestSearchNormalizesQueryVector(t *testing.T) {
	// The scan multiplies the query against unit-length stored vectors, so
	// a query with a different magnitude scales every similarity with it.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return []float32{3, 4}, nil
	}

	var gotVector []float32
	repo := &stubRepository{
		findSimilarFunc: func(_ context.Context, vector []float32, _ float64, _ int) ([]*core.SegmentMatch, error) {
			gotVector = vector
			return nil, nil
		},
	}
	s, err := NewSearcher(repo, mock.NewMockProviderWithEmbedder(embedder))
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "query", DefaultParams())
	require.NoError(t, err)

	require.Len(t, gotVector, 2)
	assert.InDelta(t, 0.6, gotVector[0], 1e-6)
	assert.InDelta(t, 0.8, gotVector[1], 1e-6)
}

func TestSearchFindsExactSegmentText(t *testing.T) {
	// End to end against a real store: a segment ingested through the
	// normalize-and-store path must come back with self-similarity 1 when
	// the query is its own text.
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ctx := context.Background()
	provider := mock.NewMockProvider()
	text := "the president addressed reporters on the tarmac"

	require.NoError(t, repo.PutVideoMetadata(ctx, &core.VideoMetadata{
		VideoID: "video-1",
		Title:   "Press conference",
	}))

	vec, err := provider.Embedder().EmbedText(ctx, text)
	require.NoError(t, err)
	_, err = repo.AddSegments(ctx, &core.Segment{
		VideoID: "video-1",
		Start:   10,
		End:     15,
		Text:    text,
		Vector:  ai.NormalizeVector(vec),
	})
	require.NoError(t, err)

	s, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	results, err := s.Search(ctx, text, DefaultParams())
	require.NoError(t, err)
	require.Len(t, results.Groups, 1)

	group := results.Groups[0]
	assert.Equal(t, "video-1", group.Metadata.VideoID)
	require.Len(t, group.Segments, 1)
	assert.Equal(t, text, group.Segments[0].Text)
	assert.InDelta(t, 1.0, group.Segments[0].SimilarityOrZero(), 1e-4)
}

func TestSearchDefaultsMaxCandidates(t *testing.T) {
	var gotLimit int
	repo := &stubRepository{
		findSimilarFunc: func(_ context.Context, _ []float32, _ float64, limit int) ([]*core.SegmentMatch, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	s, err := NewSearcher(repo, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "query", Params{MinSimilarity: 0.4})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxCandidates, gotLimit)
}

// recordingMonitor captures each pipeline callback for inspection.
type recordingMonitor struct {
	query      string
	params     Params
	vector     []float32
	candidates []*core.SegmentMatch
	accepted   []*core.SegmentMatch
	malformed  []*core.SegmentMatch
	results    *core.GroupedResults
}

func (m *recordingMonitor) Start(query string, params Params) {
	m.query = query
	m.params = params
}

func (m *recordingMonitor) AfterEmbedding(vector []float32) { m.vector = vector }

func (m *recordingMonitor) AfterRetrieval(candidates []*core.SegmentMatch) {
	m.candidates = candidates
}

func (m *recordingMonitor) AfterThresholdFilter(accepted, malformed []*core.SegmentMatch) {
	m.accepted = accepted
	m.malformed = malformed
}

func (m *recordingMonitor) Finish(results *core.GroupedResults) { m.results = results }

func TestSearchWithMonitor(t *testing.T) {
	matches := []*core.SegmentMatch{
		matchFor("video-1", simPtr(0.9)),
		matchFor("video-1", simPtr(math.Inf(1))),
		matchFor("video-2", simPtr(0.1)),
	}
	s, err := NewSearcher(stubRepoReturning(matches, nil), mock.NewMockProvider())
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), "query", DefaultParams(), monitor)
	require.NoError(t, err)

	assert.Equal(t, "query", monitor.query)
	assert.Equal(t, DefaultParams(), monitor.params)
	assert.NotEmpty(t, monitor.vector)
	assert.Len(t, monitor.candidates, 3)
	assert.Len(t, monitor.accepted, 1)
	assert.Len(t, monitor.malformed, 1)
	assert.Same(t, results, monitor.results)
}
