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

package search

import "errors"

var (
	// ErrRepositoryRequired is returned by NewSearcher when no repository
	// is supplied.
	ErrRepositoryRequired = errors.New("transcript repository is required")

	// ErrProviderRequired is returned by NewSearcher when no AI provider
	// is supplied.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrEmptyQuery is returned when the search query is empty or blank.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidThreshold is returned when the similarity threshold falls
	// outside [0, 1].
	ErrInvalidThreshold = errors.New("minimum similarity must be in [0, 1]")
)
