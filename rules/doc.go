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


// Package rules parses operator rule text and expands it against the live
// catalog.
//
// Operators express rules one per line as "product:ID" or "category:ID" in
// three fields: excluded, highest priority, lowest priority. A category
// rule always applies to the category and all of its current member
// products. The Expander resolves that membership per evaluation and
// reconciles priority conflicts in favor of highest.
package rules
