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


package client

import "errors"

var (
	// ErrBaseURLRequired is returned when an API client is created
	// without a server base URL.
	ErrBaseURLRequired = errors.New("base URL is required")

	// ErrStoreRequired is returned when a cache is created without an
	// entry store.
	ErrStoreRequired = errors.New("entry store is required")

	// ErrFetcherRequired is returned when a cache is created without a
	// fetcher for the server side.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrDirRequired is returned when a file store is created without a
	// directory.
	ErrDirRequired = errors.New("directory is required")

	// ErrUnexpectedStatus is returned when the server answers with a
	// status code the client cannot use.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
