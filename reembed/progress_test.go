package reembed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at interval", func(t *testing.T) {
		var sb strings.Builder
		tracker := NewProgressTracker(&sb, 100, 25)

		tracker.Start()
		tracker.Update(10) // below interval, silent
		assert.Empty(t, sb.String())

		tracker.Update(30)
		assert.Contains(t, sb.String(), "30/100")
		assert.Contains(t, sb.String(), "30.0%")
	})

	t.Run("finish reports completion", func(t *testing.T) {
		var sb strings.Builder
		tracker := NewProgressTracker(&sb, 50, 25)

		tracker.Start()
		tracker.Update(20)
		tracker.Finish()

		assert.Contains(t, sb.String(), "50/50")
		assert.Contains(t, sb.String(), "100.0%")
	})

	t.Run("caps at total", func(t *testing.T) {
		var sb strings.Builder
		tracker := NewProgressTracker(&sb, 10, 1)

		tracker.Start()
		tracker.Update(99)
		assert.Contains(t, sb.String(), "10/10")
	})

	t.Run("ignores updates before start", func(t *testing.T) {
		var sb strings.Builder
		tracker := NewProgressTracker(&sb, 10, 1)

		tracker.Update(5)
		tracker.Finish()
		assert.Empty(t, sb.String())
		assert.Zero(t, tracker.Elapsed())
	})

	t.Run("elapsed advances after start", func(t *testing.T) {
		var sb strings.Builder
		tracker := NewProgressTracker(&sb, 10, 1)

		tracker.Start()
		require.GreaterOrEqual(t, tracker.Elapsed().Nanoseconds(), int64(0))
	})
}
