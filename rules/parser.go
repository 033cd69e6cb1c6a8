package rules

import (
	"strings"

	"github.com/poiesic/searchbox/core"
)

// ParseRefs turns raw newline-delimited rule text into item references.
// Lines are trimmed; empty lines and lines outside the "kind:id" grammar
// are silently dropped. Operators paste stray text into the rule fields,
// so a bad line is never an error and never partially applied.
func ParseRefs(raw string) []core.ItemRef {
	if raw == "" {
		return nil
	}

	var refs []core.ItemRef
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ref, err := core.ParseItemRef(line)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// ParseRules parses raw rule text into typed rules with the given effect.
func ParseRules(raw string, effect core.Effect) []core.Rule {
	refs := ParseRefs(raw)
	if len(refs) == 0 {
		return nil
	}
	parsed := make([]core.Rule, 0, len(refs))
	for _, ref := range refs {
		parsed = append(parsed, core.Rule{Target: ref, Effect: effect})
	}
	return parsed
}

// ParseLines splits raw newline-delimited text into trimmed, non-empty
// lines without applying the rule grammar. Used for the configured custom
// item type list, which shares the rule fields' free-text format.
func ParseLines(raw string) []string {
	if raw == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
