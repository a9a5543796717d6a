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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. Timestamps are stored as
// Unix microseconds; vectors as a length-prefixed run of float32 values.
var (
	IDMUS            = idMUS{}
	SegmentMUS       = segmentMUS{}
	VideoMetadataMUS = videoMetadataMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type segmentMUS struct{}

func (s segmentMUS) Marshal(v Segment, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.VideoID, bs[n:])
	n += varint.Float64.Marshal(v.Start, bs[n:])
	n += varint.Float64.Marshal(v.End, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += marshalVector(v.Vector, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (s segmentMUS) Unmarshal(bs []byte) (v Segment, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.VideoID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Start, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.End, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = unmarshalVector(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s segmentMUS) Size(v Segment) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.VideoID)
	size += varint.Float64.Size(v.Start)
	size += varint.Float64.Size(v.End)
	size += ord.String.Size(v.Text)
	size += sizeVector(v.Vector)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type videoMetadataMUS struct{}

func (s videoMetadataMUS) Marshal(v VideoMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.VideoID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += marshalTime(v.PublishedAt, bs[n:])
	n += varint.Float64.Marshal(v.DurationSeconds, bs[n:])
	n += varint.Int64.Marshal(v.ViewCount, bs[n:])
	n += varint.Int64.Marshal(v.LikeCount, bs[n:])
	n += varint.Int64.Marshal(v.CommentCount, bs[n:])
	n += varint.Int64.Marshal(v.FavoriteCount, bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	return n
}

func (s videoMetadataMUS) Unmarshal(bs []byte) (v VideoMetadata, n int, err error) {
	var n1 int
	if v.VideoID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.PublishedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DurationSeconds, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ViewCount, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.LikeCount, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CommentCount, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FavoriteCount, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Language, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s videoMetadataMUS) Size(v VideoMetadata) (size int) {
	size = ord.String.Size(v.VideoID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += sizeTime(v.PublishedAt)
	size += varint.Float64.Size(v.DurationSeconds)
	size += varint.Int64.Size(v.ViewCount)
	size += varint.Int64.Size(v.LikeCount)
	size += varint.Int64.Size(v.CommentCount)
	size += varint.Int64.Size(v.FavoriteCount)
	size += ord.String.Size(v.Language)
	return size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeVector(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
