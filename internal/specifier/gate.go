package specifier

import (
	"fmt"
	"regexp"
)

// Scope is the eligibility filter for bare specifiers. A zero Scope admits
// everything. Patterns are anchored regular expressions; a plain package name
// carries no metacharacters and therefore matches literally.
type Scope struct {
	patterns  []*regexp.Regexp
	predicate func(packageName string) bool
}

// NewScope compiles a pattern allow-list, or wraps a user predicate when one
// is supplied. Supplying both keeps the predicate: an explicit function is the
// stronger statement of intent.
func NewScope(patterns []string, predicate func(string) bool) (Scope, error) {
	if predicate != nil {
		return Scope{predicate: predicate}, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		expr, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return Scope{}, fmt.Errorf("compile resolve-only pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, expr)
	}
	return Scope{patterns: compiled}, nil
}

// Eligible reports whether a bare package name may be resolved. Relative
// specifiers never reach this check; they always bypass the gate.
func (s Scope) Eligible(packageName string) bool {
	if s.predicate != nil {
		return s.predicate(packageName)
	}
	if len(s.patterns) == 0 {
		return true
	}
	for _, pattern := range s.patterns {
		if pattern.MatchString(packageName) {
			return true
		}
	}
	return false
}

// Restricted reports whether the gate filters anything at all.
func (s Scope) Restricted() bool {
	return s.predicate != nil || len(s.patterns) > 0
}
