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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedRef indicates a string outside the "kind:id" grammar.
	ErrMalformedRef = errors.New("malformed item reference")

	// ErrTermTooShort indicates a search term below the minimum length.
	ErrTermTooShort = errors.New("search term too short")

	// ErrInvalidMode indicates an unknown search mode.
	ErrInvalidMode = errors.New("invalid search mode")

	// ErrInvalidEffect indicates a Rule with an unknown Effect value.
	ErrInvalidEffect = errors.New("invalid rule effect")

	// ErrInvalidItemRef indicates an ItemRef that fails validation.
	ErrInvalidItemRef = errors.New("invalid item reference")
)
