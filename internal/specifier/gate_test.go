package specifier

import (
	"strings"
	"testing"
)

func TestScopeUnrestrictedAdmitsEverything(t *testing.T) {
	scope, err := NewScope(nil, nil)
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if scope.Restricted() {
		t.Fatal("zero scope should not be restricted")
	}
	if !scope.Eligible("anything") {
		t.Fatal("zero scope should admit everything")
	}
}

func TestScopeLiteralNames(t *testing.T) {
	scope, err := NewScope([]string{"lodash", "@scope/pkg"}, nil)
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if !scope.Eligible("lodash") || !scope.Eligible("@scope/pkg") {
		t.Fatal("listed names must be eligible")
	}
	if scope.Eligible("lodash-es") {
		t.Fatal("a literal must not match a longer name")
	}
}

func TestScopePatterns(t *testing.T) {
	scope, err := NewScope([]string{`@company/.*`}, nil)
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if !scope.Eligible("@company/ui") {
		t.Fatal("pattern should match scoped packages")
	}
	if scope.Eligible("@other/ui") {
		t.Fatal("pattern should not match other scopes")
	}
}

func TestScopePredicateWins(t *testing.T) {
	scope, err := NewScope([]string{"ignored"}, func(name string) bool {
		return strings.HasPrefix(name, "ok-")
	})
	if err != nil {
		t.Fatalf("new scope: %v", err)
	}
	if !scope.Eligible("ok-pkg") || scope.Eligible("ignored") {
		t.Fatal("predicate must take precedence over patterns")
	}
}

func TestScopeInvalidPattern(t *testing.T) {
	if _, err := NewScope([]string{"("}, nil); err == nil {
		t.Fatal("expected a compile error for an invalid pattern")
	}
}
