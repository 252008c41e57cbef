// Package hosttest drives resolution hooks the way the host build pipeline
// does: hooks in registration order (the node-resolve hook registered last,
// matching its post ordering), then the host's own default resolution, with
// re-entrant Resolve support and the terminal unresolved-import failure.
package hosttest

import (
	"context"
	"fmt"

	"github.com/bundlekit/noderesolve"
	"github.com/bundlekit/noderesolve/diag"
)

// ResolverHook is the slice of the hook contract the pipeline drives.
type ResolverHook interface {
	ResolveID(ctx context.Context, args noderesolve.ResolveArgs, host noderesolve.HostResolver) (*noderesolve.HookResult, error)
}

// Pipeline is a minimal host build pipeline for tests.
type Pipeline struct {
	Hooks []ResolverHook

	// Default is the host's own fallback resolution, asked after every hook
	// passed. Nil means the host has no fallback.
	Default func(specifier, importer string) *noderesolve.HookResult
}

// ResolveEntry resolves a declared build input. An unclaimed entry is the
// build-terminating unresolved-import failure.
func (p *Pipeline) ResolveEntry(ctx context.Context, specifier string) (*noderesolve.HookResult, error) {
	return p.terminal(ctx, noderesolve.ResolveArgs{Specifier: specifier, IsEntry: true})
}

// ResolveImport resolves a specifier discovered in importer.
func (p *Pipeline) ResolveImport(ctx context.Context, specifier, importer string) (*noderesolve.HookResult, error) {
	return p.terminal(ctx, noderesolve.ResolveArgs{Specifier: specifier, Importer: importer})
}

func (p *Pipeline) terminal(ctx context.Context, args noderesolve.ResolveArgs) (*noderesolve.HookResult, error) {
	result, err := p.run(ctx, args, -1)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, diag.New(diag.CodeUnresolvedImport,
			fmt.Sprintf("could not resolve %q from %q", args.Specifier, args.Importer))
	}
	return result, nil
}

// run walks the hook chain. A non-nil result ends the walk; Excluded is the
// terminal "do not resolve" answer. Nothing claiming the specifier falls
// through to the host default.
func (p *Pipeline) run(ctx context.Context, args noderesolve.ResolveArgs, skip int) (*noderesolve.HookResult, error) {
	for index, hook := range p.Hooks {
		if index == skip {
			continue
		}
		result, err := hook.ResolveID(ctx, args, hostResolver{pipeline: p, self: index})
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	if p.Default != nil {
		if result := p.Default(args.Specifier, args.Importer); result != nil {
			return result, nil
		}
	}
	return nil, nil
}

// hostResolver is the re-entrant view handed to each hook. Unlike the
// terminal entry points it reports "nothing claimed it" as a nil result, the
// way the host's own resolve call does.
type hostResolver struct {
	pipeline *Pipeline
	self     int
}

func (h hostResolver) Resolve(ctx context.Context, specifier, importer string, opts noderesolve.HostResolveOptions) (*noderesolve.HookResult, error) {
	skip := -1
	if opts.SkipSelf {
		skip = h.self
	}
	return h.pipeline.run(ctx, noderesolve.ResolveArgs{
		Specifier: specifier,
		Importer:  importer,
		Custom:    opts.Custom,
	}, skip)
}

// HookFunc adapts a function to ResolverHook for inline test stages.
type HookFunc func(ctx context.Context, args noderesolve.ResolveArgs, host noderesolve.HostResolver) (*noderesolve.HookResult, error)

func (f HookFunc) ResolveID(ctx context.Context, args noderesolve.ResolveArgs, host noderesolve.HostResolver) (*noderesolve.HookResult, error) {
	return f(ctx, args, host)
}
