// Package search implements the semantic search pipeline over transcribed
// video segments. A query string is embedded, ranked candidates are fetched
// from the transcript repository, the similarity threshold is re-verified in
// process, and the surviving segments are grouped by source video and ordered
// by each video's best match.
package search
