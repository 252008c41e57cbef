// Package noderesolve decides how a bundler should treat Node-style module
// specifiers: bundle them, leave them external, or reject them, and which file
// on disk (or virtual module) satisfies each one.
//
// The package is the arbitration layer only. The directory, package-manifest
// and extension search is performed by an injected Engine; the host pipeline's
// hook machinery drives the Hook shim and may re-resolve or override every
// result. Configuration is snapshotted once at build start and shared
// read-only by all requests.
package noderesolve
