package specifier

import (
	"path/filepath"
	"strings"
)

type Kind int

const (
	KindBare Kind = iota
	KindRelative
)

// Classified is the parsed form of one raw import specifier. Classification is
// pure: nothing here touches the filesystem.
type Classified struct {
	Raw         string
	Bare        string // Raw with the ?query suffix removed
	Query       string // preserved verbatim, including the leading '?'
	PackageName string
	Kind        Kind
	BaseDir     string // importer's directory, or the root directory for entry points
	Target      string // absolute form of a relative specifier; Bare otherwise
}

// Classify splits the query suffix off a raw specifier, derives the candidate
// package name (scope-aware) and decides relative-vs-bare. A relative
// specifier is resolved against the importer's directory immediately; scoped,
// unscoped and absolute specifiers all classify as bare.
func Classify(raw, importer, rootDir string) Classified {
	bare, query := SplitQuery(raw)

	classified := Classified{
		Raw:         raw,
		Bare:        bare,
		Query:       query,
		PackageName: packageName(bare),
		Kind:        KindBare,
		BaseDir:     rootDir,
		Target:      bare,
	}
	if importer != "" {
		classified.BaseDir = filepath.Dir(importer)
	}
	if strings.HasPrefix(bare, ".") {
		classified.Kind = KindRelative
		classified.Target = filepath.Join(classified.BaseDir, bare)
	}
	return classified
}

// SplitQuery separates a trailing ?query suffix from a specifier. The suffix
// is kept verbatim so it can be reattached to the resolved id.
func SplitQuery(raw string) (bare, query string) {
	if index := strings.Index(raw, "?"); index >= 0 {
		return raw[:index], raw[index:]
	}
	return raw, ""
}

// packageName returns the leading path segment of a specifier, extended with a
// second segment for @scope/name specifiers.
func packageName(bare string) string {
	segments := strings.Split(bare, "/")
	if strings.HasPrefix(bare, "@") && len(segments) > 1 {
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}

// LooksPathLike reports whether a specifier is already written as a relative
// or absolute path rather than a bare name.
func LooksPathLike(bare string) bool {
	return strings.HasPrefix(bare, ".") || strings.HasPrefix(bare, "/") || filepath.IsAbs(bare)
}
