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


// Package snapshot builds, persists, and serves the periodically rebuilt
// full-catalog document.
//
// The Builder freezes every eligible item's tier at build time and
// overwrites the single Ready document in a BadgerDB-backed store. The
// Service hands out the current document, building one synchronously when
// none exists; the Scheduler rebuilds on a recurring interval. Concurrent
// build triggers from any source collapse into one in-flight build.
package snapshot
