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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSegment indicates a Segment failed validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrInvalidMetadata indicates a VideoMetadata failed validation.
	ErrInvalidMetadata = errors.New("invalid video metadata")

	// ErrEmptyVideoID indicates the VideoID field is empty.
	ErrEmptyVideoID = errors.New("video id cannot be empty")

	// ErrMalformedSimilarity indicates a similarity score that is not a
	// finite number in [0, 1]. Matches carrying one are a contract
	// violation by the search service.
	ErrMalformedSimilarity = errors.New("malformed similarity score")
)
