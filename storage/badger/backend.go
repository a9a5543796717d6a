package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// txnKey carries the transaction opened by WithTransaction through the
// callback's context so repository calls made inside it join the same
// transaction.
type txnKey struct{}

// runTx executes fn within a BadgerDB transaction. When ctx carries a
// transaction opened by WithTransaction, fn joins it and commit stays with
// the opener; otherwise a fresh transaction is created and, for writes,
// committed here. The transaction is discarded if fn returns an error.
func (b *Backend) runTx(ctx context.Context, isWrite bool, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(txnKey{}).(*badger.Txn); ok {
		return fn(tx)
	}

	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// WithTransaction executes fn within a single write transaction. Repository
// calls made with the context fn receives share that transaction, so they
// commit or roll back as one unit. Nested calls join the outer transaction.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txnKey{}).(*badger.Txn); ok {
		return fn(ctx)
	}

	tx := b.db.NewTransaction(true)
	defer tx.Discard()

	if err := fn(context.WithValue(ctx, txnKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// FindSimilar scans stored segments for cosine similarity against the query
// vector. Matches at or above minSimilarity are joined with their video
// metadata, ordered by descending similarity, and truncated to limit. The
// filter and the ordering use the same dot-product metric so the result set
// stays consistent.
func (b *Backend) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SegmentMatch, error) {
	var results []*core.SegmentMatch

	err := b.runTx(ctx, false, func(tx *badger.Txn) error {
		metadataCache := make(map[string]core.VideoMetadata)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(segmentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var segment *core.Segment
			err := item.Value(func(val []byte) error {
				var err error
				segment, err = storage.UnmarshalSegment(val)
				return err
			})
			if err != nil {
				return err
			}
			if segment == nil {
				continue
			}

			// Skip segments without embeddings
			if len(segment.Vector) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			similarity := float64(dotProduct(vector, segment.Vector))

			if similarity < minSimilarity {
				continue
			}

			metadata, ok := metadataCache[segment.VideoID]
			if !ok {
				m, err := b.readVideoMetadata(tx, segment.VideoID)
				if err != nil {
					return err
				}
				if m == nil {
					// Segment without metadata violates the ingestion
					// contract; keep the match rather than drop data.
					b.logger.Warn("segment has no video metadata", "videoID", segment.VideoID)
					m = &core.VideoMetadata{VideoID: segment.VideoID}
				}
				metadata = *m
				metadataCache[segment.VideoID] = metadata
			}

			results = append(results, &core.SegmentMatch{
				VideoID:    segment.VideoID,
				Start:      segment.Start,
				End:        segment.End,
				Text:       segment.Text,
				Similarity: &similarity,
				Metadata:   metadata,
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending; stable so equal scores keep scan order
	slices.SortStableFunc(results, func(a, b *core.SegmentMatch) int {
		if *a.Similarity > *b.Similarity {
			return -1
		}
		if *a.Similarity < *b.Similarity {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readVideoMetadata reads a video's metadata inside a transaction.
// Returns nil if the video is unknown.
func (b *Backend) readVideoMetadata(tx *badger.Txn, videoID string) (*core.VideoMetadata, error) {
	item, err := tx.Get(makeVideoMetadataKey(videoID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var metadata *core.VideoMetadata
	err = item.Value(func(val []byte) error {
		var err error
		metadata, err = storage.UnmarshalVideoMetadata(val)
		return err
	})
	return metadata, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
