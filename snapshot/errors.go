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


package snapshot

import "errors"

var (
	// ErrSnapshotMissing indicates no snapshot document has been built yet.
	ErrSnapshotMissing = errors.New("snapshot document missing")

	// ErrSnapshotUnavailable indicates an on-demand build failed, so no
	// document can be served.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")

	// ErrSourceRequired is returned when a dataset source is not provided.
	ErrSourceRequired = errors.New("dataset source required")

	// ErrStoreRequired is returned when a snapshot store is not provided.
	ErrStoreRequired = errors.New("snapshot store required")

	// ErrBuilderRequired is returned when a builder is not provided.
	ErrBuilderRequired = errors.New("snapshot builder required")
)
