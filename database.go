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

package vidsem

import (
	"io"
	"log/slog"

	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/ai/openai"
	"github.com/telic/vidsem/ingestion"
	"github.com/telic/vidsem/reembed"
	"github.com/telic/vidsem/search"
	"github.com/telic/vidsem/storage"
	"github.com/telic/vidsem/storage/badger"
)

// Database wires the storage backend, the transcript repository, and the AI
// provider into one handle with an ordered Close.
type Database struct {
	backend  *badger.Backend
	repo     storage.TranscriptRepository
	provider ai.Provider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already constructed AI provider, bypassing the
// embedding service configuration. Used by the seeder and by tests.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens (or creates) a transcript database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create transcript repository
	repo, err := badger.NewTranscriptRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the provider, the repository, and the backend, in that
// order. The first repository or backend failure is returned.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing transcript repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// TranscriptRepository returns the transcript repository.
func (db *Database) TranscriptRepository() storage.TranscriptRepository {
	return db.repo
}

// Provider returns the AI provider.
func (db *Database) Provider() ai.Provider {
	return db.provider
}

// NewSearcher creates a searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.repo, db.provider, opts...)
}

// NewIngestionPipeline creates an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.repo, db.provider, opts...)
}

// NewReembedder creates a reembedder over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.repo, db.provider.Embedder(), config, progress)
}
