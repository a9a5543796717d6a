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


package storage

import (
	"github.com/telic/vidsem/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalSegment serializes a Segment to bytes.
func MarshalSegment(segment *core.Segment) []byte {
	buf := make([]byte, core.SegmentMUS.Size(*segment))
	core.SegmentMUS.Marshal(*segment, buf)
	return buf
}

// UnmarshalSegment deserializes a Segment from bytes.
func UnmarshalSegment(data []byte) (*core.Segment, error) {
	segment, _, err := core.SegmentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

// MarshalVideoMetadata serializes a VideoMetadata to bytes.
func MarshalVideoMetadata(metadata *core.VideoMetadata) []byte {
	buf := make([]byte, core.VideoMetadataMUS.Size(*metadata))
	core.VideoMetadataMUS.Marshal(*metadata, buf)
	return buf
}

// UnmarshalVideoMetadata deserializes a VideoMetadata from bytes.
func UnmarshalVideoMetadata(data []byte) (*core.VideoMetadata, error) {
	metadata, _, err := core.VideoMetadataMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}
