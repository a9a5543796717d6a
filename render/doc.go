// Package render turns grouped search results into a static HTML page:
// per-video cards with the best matching segment embedded, and the
// remaining segments behind an expandable list. Formatting helpers for
// durations, counts, and similarity percentages live here too, shared
// with the dashboard.
package render
