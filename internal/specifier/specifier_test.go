package specifier

import (
	"path/filepath"
	"testing"
)

func TestClassifyBarePackage(t *testing.T) {
	classified := Classify("lodash/merge", "/src/app.js", "/root")

	if classified.Kind != KindBare {
		t.Fatalf("expected bare classification, got %v", classified.Kind)
	}
	if classified.PackageName != "lodash" {
		t.Fatalf("unexpected package name %q", classified.PackageName)
	}
	if classified.BaseDir != "/src" {
		t.Fatalf("unexpected base dir %q", classified.BaseDir)
	}
	if classified.Target != "lodash/merge" {
		t.Fatalf("unexpected target %q", classified.Target)
	}
}

func TestClassifyScopedPackage(t *testing.T) {
	classified := Classify("@scope/pkg/util", "/src/app.js", "/root")

	if classified.PackageName != "@scope/pkg" {
		t.Fatalf("unexpected package name %q", classified.PackageName)
	}
	if classified.Kind != KindBare {
		t.Fatalf("expected bare classification, got %v", classified.Kind)
	}
}

func TestClassifyRelativeResolvesAgainstImporter(t *testing.T) {
	classified := Classify("../lib/util.js", "/src/app/main.js", "/root")

	if classified.Kind != KindRelative {
		t.Fatalf("expected relative classification, got %v", classified.Kind)
	}
	want := filepath.Join("/src", "lib", "util.js")
	if classified.Target != want {
		t.Fatalf("target = %q, want %q", classified.Target, want)
	}
}

func TestClassifyQuerySuffixPreserved(t *testing.T) {
	classified := Classify("pkg/file.js?commonjs-proxy", "/src/app.js", "/root")

	if classified.Bare != "pkg/file.js" {
		t.Fatalf("unexpected bare specifier %q", classified.Bare)
	}
	if classified.Query != "?commonjs-proxy" {
		t.Fatalf("unexpected query %q", classified.Query)
	}
}

func TestClassifyMissingImporterUsesRootDir(t *testing.T) {
	classified := Classify("./entry.js", "", "/project")

	if classified.BaseDir != "/project" {
		t.Fatalf("unexpected base dir %q", classified.BaseDir)
	}
	if classified.Target != filepath.Join("/project", "entry.js") {
		t.Fatalf("unexpected target %q", classified.Target)
	}
}

func TestLooksPathLike(t *testing.T) {
	cases := map[string]bool{
		"./x":      true,
		"../x":     true,
		"/abs/x":   true,
		"pkg":      false,
		"@s/p":     false,
		"file.js":  false,
		".hidden":  true,
	}
	for input, want := range cases {
		if got := LooksPathLike(input); got != want {
			t.Fatalf("LooksPathLike(%q) = %v, want %v", input, got, want)
		}
	}
}
