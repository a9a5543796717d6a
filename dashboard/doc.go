// Package dashboard serves the interactive search UI: a query form with
// similarity and result-count controls and a category selector, backed by
// the search pipeline and the shared HTML renderer.
package dashboard
