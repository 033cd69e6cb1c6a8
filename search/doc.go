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


// Package search runs catalog queries through the rule and ranking pipeline.
//
// The Executor answers a query from one of three interchangeable backends
// (live, filtered-live, snapshot) behind a single code path, so exclusion
// filtering and tier tagging are applied identically everywhere. Candidates
// are over-fetched per kind, merged, stably ordered by tier, and capped.
// The DatasetBuilder assembles the full uncapped dataset used by client
// caches and by snapshot builds.
package search
