package noderesolve

import "context"

// Engine is the external path-resolution collaborator. Given a base directory
// and a specifier it performs the actual directory/package-manifest/extension
// search. The core consumes this contract; it never reimplements it.
type Engine interface {
	// Resolve probes one specifier. A non-empty Path is a success. An empty
	// Path with an empty Diagnostic means "no path here": later candidates
	// are still probed. A Diagnostic describes why this probe failed; a
	// returned error is a hard failure that aborts the whole request.
	Resolve(ctx context.Context, baseDir, specifier string) (EngineResult, error)
}

// EngineResult is the outcome of one engine probe.
type EngineResult struct {
	Path       string
	Diagnostic string
}

// EngineFactory builds an Engine from a configuration snapshot. It is invoked
// at build start, once per condition set, and the instances are reused for
// every request until teardown.
type EngineFactory func(snapshot Snapshot) (Engine, error)
