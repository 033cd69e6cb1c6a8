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

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinTermLength is the minimum number of characters a search term must have
// before any provider call is made.
const MinTermLength = 3

// ValidateTerm validates a search term according to query rules.
//
// Validation rules:
//   - After trimming surrounding whitespace, the term must be at least
//     MinTermLength characters long (counted in runes, not bytes).
//
// Shorter terms are a caller error, not an empty result.
func ValidateTerm(term string) error {
	trimmed := strings.TrimSpace(term)
	if utf8.RuneCountInString(trimmed) < MinTermLength {
		return fmt.Errorf("%w: minimum %d characters required", ErrTermTooShort, MinTermLength)
	}
	return nil
}

// ValidateItemRef validates an ItemRef according to domain rules.
//
// Validation rules:
//   - Kind must be product or category
//   - ID must be positive
func ValidateItemRef(ref ItemRef) error {
	if ref.Kind != KindProduct && ref.Kind != KindCategory {
		return fmt.Errorf("%w: kind %q", ErrInvalidItemRef, ref.Kind)
	}
	if ref.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidItemRef, ref.ID)
	}
	return nil
}

// ValidateRule validates a Rule according to domain rules.
func ValidateRule(rule Rule) error {
	if err := ValidateItemRef(rule.Target); err != nil {
		return err
	}
	switch rule.Effect {
	case EffectExclude, EffectHighest, EffectLowest:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidEffect, rule.Effect)
	}
}
