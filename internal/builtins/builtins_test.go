package builtins

import "testing"

func TestRecognized(t *testing.T) {
	cases := map[string]bool{
		"fs":           true,
		"node:fs":      true,
		"fs/promises":  true,
		"node:path":    true,
		"lodash":       false,
		"node:lodash":  false,
		"_http_common": false,
		"":             false,
	}
	for specifier, want := range cases {
		if got := Recognized(specifier); got != want {
			t.Fatalf("Recognized(%q) = %v, want %v", specifier, got, want)
		}
	}
}

func TestStripNamespace(t *testing.T) {
	if got := StripNamespace("node:fs"); got != "fs" {
		t.Fatalf("unexpected strip result %q", got)
	}
	if got := StripNamespace("fs"); got != "fs" {
		t.Fatalf("strip must be a no-op without the prefix, got %q", got)
	}
}
