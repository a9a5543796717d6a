package reembed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telic/vidsem/ai/mock"
)

func TestBatchProcessor(t *testing.T) {
	t.Run("embeds and updates segments", func(t *testing.T) {
		repo := newTestRepo(t)
		seedSegments(t, repo, "vid-1", 3)

		segments, err := repo.GetSegmentsByVideo(context.Background(), "vid-1")
		require.NoError(t, err)

		bp := NewBatchProcessor(repo, mock.NewMockEmbedder(), 3, time.Millisecond)
		require.NoError(t, bp.Process(context.Background(), segments))

		updated, err := repo.GetSegmentsByVideo(context.Background(), "vid-1")
		require.NoError(t, err)
		for _, segment := range updated {
			require.NotEmpty(t, segment.Vector)

			var magnitude float64
			for _, v := range segment.Vector {
				magnitude += float64(v) * float64(v)
			}
			assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-4)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		bp := NewBatchProcessor(newTestRepo(t), mock.NewMockEmbedder(), 3, time.Millisecond)
		assert.NoError(t, bp.Process(context.Background(), nil))
	})

	t.Run("retries transient embedding failures", func(t *testing.T) {
		repo := newTestRepo(t)
		seedSegments(t, repo, "vid-1", 1)
		segments, err := repo.GetSegmentsByVideo(context.Background(), "vid-1")
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		failures := 2
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			if failures > 0 {
				failures--
				return nil, errors.New("transient")
			}
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		}

		bp := NewBatchProcessor(repo, embedder, 3, time.Millisecond)
		require.NoError(t, bp.Process(context.Background(), segments))
		assert.Zero(t, failures)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		repo := newTestRepo(t)
		seedSegments(t, repo, "vid-1", 1)
		segments, err := repo.GetSegmentsByVideo(context.Background(), "vid-1")
		require.NoError(t, err)

		embedErr := errors.New("permanently down")
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, embedErr
		}

		bp := NewBatchProcessor(repo, embedder, 2, time.Millisecond)
		err = bp.Process(context.Background(), segments)
		assert.ErrorIs(t, err, embedErr)
	})

	t.Run("embedding count mismatch", func(t *testing.T) {
		repo := newTestRepo(t)
		seedSegments(t, repo, "vid-1", 2)
		segments, err := repo.GetSegmentsByVideo(context.Background(), "vid-1")
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		}

		bp := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
		err = bp.Process(context.Background(), segments)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
	})
}
