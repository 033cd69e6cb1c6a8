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


package httpapi

import "errors"

var (
	// ErrExecutorRequired is returned when a server is created without a
	// search executor.
	ErrExecutorRequired = errors.New("search executor is required")

	// ErrRuleStoreRequired is returned when a server is created without a
	// rule configuration store.
	ErrRuleStoreRequired = errors.New("rule configuration store is required")
)
