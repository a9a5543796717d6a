package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/telic/vidsem/core"
)

// Key prefixes for different data types
const (
	segmentPrefix      = "tseg"
	segmentVideoPrefix = "tsegv"
	videoMetaPrefix    = "vmeta"
)

// makeSegmentKey generates a key for a segment by ID.
func makeSegmentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", segmentPrefix, id))
}

// makeSegmentVideoKey generates a composite key for the per-video index.
// Format: prefix:videoID:id
func makeSegmentVideoKey(videoID string, id core.ID) []byte {
	prefix := segmentVideoPrefix + ":" + videoID + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSegmentVideoKey generates a partial key for per-video queries.
// Format: prefix:videoID:
func makePartialSegmentVideoKey(videoID string) []byte {
	return []byte(segmentVideoPrefix + ":" + videoID + ":")
}

// makeVideoMetadataKey generates a key for a video's metadata.
func makeVideoMetadataKey(videoID string) []byte {
	return []byte(videoMetaPrefix + ":" + videoID)
}
