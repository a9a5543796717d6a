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


package ai

import "errors"

var (
	// ErrEmptyText is returned when an embedder is asked to encode text that
	// is empty after whitespace normalization. Encoding failures are
	// deterministic, so retrying is pointless.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNoEmbedding is returned when the embedding service reports success
	// but yields no vectors. An empty vector scores 0 against everything, so
	// swallowing it would turn a service fault into an empty result set.
	ErrNoEmbedding = errors.New("embedding service returned no vectors")
)
