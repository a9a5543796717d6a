package search

import "github.com/telic/vidsem/core"

// Monitor observes the stages of a search as they complete. Implementations
// are called synchronously from the search path and must be cheap; slices
// passed to callbacks are the pipeline's own and must not be mutated.
type Monitor interface {
	// Start fires once, after parameter validation, before embedding.
	Start(query string, params Params)

	// AfterEmbedding receives the query vector.
	AfterEmbedding(vector []float32)

	// AfterRetrieval receives the raw candidates from the search service,
	// before threshold re-verification.
	AfterRetrieval(candidates []*core.SegmentMatch)

	// AfterThresholdFilter receives the candidates that survived the
	// threshold check and the ones excluded as malformed.
	AfterThresholdFilter(accepted, malformed []*core.SegmentMatch)

	// Finish receives the final grouped results.
	Finish(results *core.GroupedResults)
}

type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (noopMonitor) Start(string, Params)                           {}
func (noopMonitor) AfterEmbedding([]float32)                       {}
func (noopMonitor) AfterRetrieval([]*core.SegmentMatch)            {}
func (noopMonitor) AfterThresholdFilter(_, _ []*core.SegmentMatch) {}
func (noopMonitor) Finish(*core.GroupedResults)                    {}
