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


// Package catalog defines the interface to the external catalog store.
//
// The catalog itself (item listing, full-text matching, stock and publish
// status, category membership) lives outside this system. Everything in
// searchbox consumes it through the Provider interface; the mem subpackage
// supplies an in-memory implementation for tests and local development.
package catalog
