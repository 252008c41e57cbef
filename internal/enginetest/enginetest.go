// Package enginetest provides Engine implementations for tests: a scripted
// engine with canned results, and a fixture engine that models just enough
// package-manifest semantics over a real directory tree to exercise the
// arbitration paths end to end. The production core never depends on this
// package; manifest evaluation stays behind the Engine contract.
package enginetest

import (
	"context"
	"sync"

	"github.com/bundlekit/noderesolve"
)

// Call records one engine probe.
type Call struct {
	BaseDir   string
	Specifier string
}

// Scripted returns canned results keyed by specifier and records every probe
// in order.
type Scripted struct {
	Results map[string]noderesolve.EngineResult
	Err     error

	mu    sync.Mutex
	calls []Call
}

func (s *Scripted) Resolve(_ context.Context, baseDir, spec string) (noderesolve.EngineResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{BaseDir: baseDir, Specifier: spec})
	s.mu.Unlock()
	if s.Err != nil {
		return noderesolve.EngineResult{}, s.Err
	}
	return s.Results[spec], nil
}

// Calls returns the probes recorded so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Factory adapts the scripted engine to the EngineFactory contract. Both
// condition sets share the one instance.
func (s *Scripted) Factory() noderesolve.EngineFactory {
	return func(noderesolve.Snapshot) (noderesolve.Engine, error) {
		return s, nil
	}
}
