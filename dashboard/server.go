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

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/render"
	"github.com/telic/vidsem/search"
)

// SearchService is the slice of the search pipeline the dashboard needs.
// *search.Searcher satisfies it.
type SearchService interface {
	Search(ctx context.Context, query string, params search.Params) (*core.GroupedResults, error)
}

// Config holds the dashboard server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// CategoriesPath optionally points at a YAML category configuration.
	// Empty means the built-in categories.
	CategoriesPath string

	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// Server serves the interactive search dashboard: a query form with
// similarity and result-count controls plus a category selector, rendering
// results through the same page renderer as the static output.
type Server struct {
	searcher   SearchService
	categories Categories
	logger     *slog.Logger
	httpServer *http.Server
	shutdown   time.Duration
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// ErrSearcherRequired is returned by NewServer when no search service is
// supplied.
var ErrSearcherRequired = errors.New("search service is required")

// NewServer creates a dashboard server. Category configuration is loaded
// from cfg.CategoriesPath when set, otherwise the built-in set is used.
func NewServer(searcher SearchService, cfg Config, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	categories := DefaultCategories()
	if cfg.CategoriesPath != "" {
		loaded, err := LoadCategories(cfg.CategoriesPath)
		if err != nil {
			return nil, err
		}
		categories = loaded
	}

	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}

	s := &Server{
		searcher:   searcher,
		categories: categories,
		logger:     slog.Default(),
		shutdown:   shutdown,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /search", s.handleSearch)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// Handler exposes the server's routes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is canceled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	s.logger.Info("dashboard shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeForm(w, formState{
		MinSimilarity: search.DefaultMinSimilarity,
		MaxResults:    defaultMaxResults,
	})
}

const defaultMaxResults = 100

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)

	q := r.URL.Query()
	query := q.Get("q")
	mainCategory := q.Get("category")
	subCategory := q.Get("subcategory")
	minSimilarity := parseFloat(q.Get("min_similarity"), search.DefaultMinSimilarity)
	maxResults := parseInt(q.Get("max_results"), defaultMaxResults)

	if mainCategory != "" && !s.categories.Valid(mainCategory, subCategory) {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	params := search.Params{
		MinSimilarity: minSimilarity,
		MaxCandidates: maxResults,
	}

	logger.Info("dashboard search",
		"query", query, "category", mainCategory, "subcategory", subCategory,
		"minSimilarity", minSimilarity, "maxResults", maxResults)

	results, err := s.searcher.Search(r.Context(), query, params)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery), errors.Is(err, search.ErrInvalidThreshold):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Error("search failed", "err", err)
			http.Error(w, "search failed", http.StatusInternalServerError)
		}
		return
	}

	results = FilterGroups(results, subCategory)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteHTML(w, query, results, minSimilarity); err != nil {
		logger.Error("rendering results failed", "err", err)
	}
}

func parseFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
