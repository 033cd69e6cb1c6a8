// Copyright 2025 Poiesic Systems
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
	// ErrProviderRequired is returned when a catalog provider is not provided.
	ErrProviderRequired = errors.New("catalog provider required")

	// ErrStoreRequired is returned when a rule configuration store is not provided.
	ErrStoreRequired = errors.New("rule configuration store required")

	// ErrProviderUnavailable indicates the primary catalog listing failed.
	ErrProviderUnavailable = errors.New("catalog provider unavailable")

	// ErrSnapshotsNotConfigured indicates a snapshot-mode query against an
	// executor wired without a snapshot source.
	ErrSnapshotsNotConfigured = errors.New("snapshot source not configured")
)
