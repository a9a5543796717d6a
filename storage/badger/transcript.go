package badger

import (
	"context"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/telic/vidsem/core"
	"github.com/telic/vidsem/storage"
)

// TranscriptRepository implements storage.TranscriptRepository for BadgerDB.
type TranscriptRepository struct {
	backend *Backend
}

var _ storage.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(backend *Backend) (*TranscriptRepository, error) {
	return &TranscriptRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *TranscriptRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *TranscriptRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float64, limit int) ([]*core.SegmentMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *TranscriptRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSegments adds one or more transcript segments to storage.
// Segment IDs derive from content, so re-adding the same span overwrites.
func (r *TranscriptRepository) AddSegments(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, segment := range segments {
			if err := core.ValidateSegment(segment); err != nil {
				return err
			}

			if segment.Id == 0 {
				segment.Id = core.SegmentID(segment.VideoID, segment.Start, segment.End)
			}

			segment.InsertedAt = time.Now().UTC()
			segment.UpdatedAt = segment.InsertedAt

			// Store primary record
			key := makeSegmentKey(segment.Id)
			value := storage.MarshalSegment(segment)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update per-video index
			videoKey := makeSegmentVideoKey(segment.VideoID, segment.Id)
			if err := tx.Set(videoKey, storage.MarshalID(segment.Id)); err != nil {
				return err
			}
		}
		return nil
	})

	return segments, err
}

// UpdateSegments updates existing segments.
func (r *TranscriptRepository) UpdateSegments(ctx context.Context, segments ...*core.Segment) ([]*core.Segment, error) {
	err := r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		for _, segment := range segments {
			key := makeSegmentKey(segment.Id)

			old, err := r.readSegment(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			segment.UpdatedAt = time.Now().UTC()

			value := storage.MarshalSegment(segment)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return nil
	})

	return segments, err
}

// GetSegment retrieves a single segment by ID.
func (r *TranscriptRepository) GetSegment(ctx context.Context, id core.ID) (*core.Segment, error) {
	var segment *core.Segment

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		var err error
		segment, err = r.readSegment(tx, makeSegmentKey(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, storage.ErrNotFound
	}

	return segment, nil
}

// GetSegmentsByVideo retrieves all segments belonging to a video.
func (r *TranscriptRepository) GetSegmentsByVideo(ctx context.Context, videoID string) ([]*core.Segment, error) {
	var segments []*core.Segment

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSegmentVideoKey(videoID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			segment, err := r.readSegment(tx, makeSegmentKey(id))
			if err != nil {
				return err
			}
			if segment != nil {
				segments = append(segments, segment)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return segments, nil
}

// ListSegments retrieves every stored segment.
func (r *TranscriptRepository) ListSegments(ctx context.Context) ([]*core.Segment, error) {
	var segments []*core.Segment

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(segmentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var segment *core.Segment
			err := iter.Item().Value(func(val []byte) error {
				var err error
				segment, err = storage.UnmarshalSegment(val)
				return err
			})
			if err != nil {
				return err
			}
			if segment != nil {
				segments = append(segments, segment)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return segments, nil
}

// DeleteVideo removes a video's metadata and all of its segments.
func (r *TranscriptRepository) DeleteVideo(ctx context.Context, videoID string) error {
	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		metaKey := makeVideoMetadataKey(videoID)
		if _, err := tx.Get(metaKey); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(metaKey); err != nil {
			return err
		}

		// Collect index entries first; deleting while iterating is unsafe
		var indexKeys [][]byte
		var segmentIDs []core.ID

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialSegmentVideoKey(videoID)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))

			var id core.ID
			err := item.Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				iter.Close()
				return err
			}
			segmentIDs = append(segmentIDs, id)
		}
		iter.Close()

		for _, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		for _, id := range segmentIDs {
			if err := tx.Delete(makeSegmentKey(id)); err != nil {
				return err
			}
		}

		return nil
	})
}

// PutVideoMetadata stores or replaces the metadata for a video.
func (r *TranscriptRepository) PutVideoMetadata(ctx context.Context, metadata *core.VideoMetadata) error {
	if err := core.ValidateMetadata(metadata); err != nil {
		return err
	}

	return r.backend.runTx(ctx, true, func(tx *badger.Txn) error {
		key := makeVideoMetadataKey(metadata.VideoID)
		return tx.Set(key, storage.MarshalVideoMetadata(metadata))
	})
}

// GetVideoMetadata retrieves the metadata for a video.
func (r *TranscriptRepository) GetVideoMetadata(ctx context.Context, videoID string) (*core.VideoMetadata, error) {
	var metadata *core.VideoMetadata

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		var err error
		metadata, err = r.backend.readVideoMetadata(tx, videoID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if metadata == nil {
		return nil, storage.ErrNotFound
	}

	return metadata, nil
}

// ListVideos retrieves the metadata of every stored video.
func (r *TranscriptRepository) ListVideos(ctx context.Context) ([]*core.VideoMetadata, error) {
	var videos []*core.VideoMetadata

	err := r.backend.runTx(ctx, false, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(videoMetaPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			if !strings.HasPrefix(key, videoMetaPrefix+":") {
				continue
			}

			var metadata *core.VideoMetadata
			err := iter.Item().Value(func(val []byte) error {
				var err error
				metadata, err = storage.UnmarshalVideoMetadata(val)
				return err
			})
			if err != nil {
				return err
			}
			if metadata != nil {
				videos = append(videos, metadata)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return videos, nil
}

// readSegment reads a segment by key inside a transaction.
// Returns nil if the key does not exist.
func (r *TranscriptRepository) readSegment(tx *badger.Txn, key []byte) (*core.Segment, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var segment *core.Segment
	err = item.Value(func(val []byte) error {
		var err error
		segment, err = storage.UnmarshalSegment(val)
		return err
	})
	return segment, err
}
