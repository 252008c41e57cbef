package noderesolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bundlekit/noderesolve/diag"
	"github.com/bundlekit/noderesolve/internal/builtins"
	"github.com/bundlekit/noderesolve/internal/specifier"
)

var ErrMissingEngineFactory = errors.New("noderesolve: Options.NewEngine is required")

// Request is one resolution call from the host.
type Request struct {
	Specifier string
	// Importer is the absolute path of the referencing file; empty for entry
	// points.
	Importer string
	// IsEntry marks a specifier supplied directly as a build input.
	IsEntry bool
	// IsRequire marks requests that originated from a synchronous-style
	// import; they resolve under require conditions instead of import ones.
	IsRequire bool
}

// Resolver is the resolution orchestrator. Constructed once at build start,
// shared read-only by every request afterwards.
type Resolver struct {
	snapshot      Snapshot
	importEngine  Engine
	requireEngine Engine
	preference    builtinPreference
	builtins      bool
	scope         specifier.Scope
	reporter      diag.Reporter
	entries       map[string]struct{}
}

// NewResolver builds the configuration snapshot from options merged over
// defaults and constructs the engine instances, one per condition set.
func NewResolver(opts Options, build BuildContext) (*Resolver, error) {
	if opts.NewEngine == nil {
		return nil, ErrMissingEngineFactory
	}
	snapshot, err := newSnapshot(opts, build)
	if err != nil {
		return nil, err
	}
	scope, err := specifier.NewScope(opts.ResolveOnly, opts.ResolveOnlyFunc)
	if err != nil {
		return nil, diag.New(diag.CodeInvalidConfig, err.Error())
	}

	importEngine, err := opts.NewEngine(snapshot)
	if err != nil {
		return nil, fmt.Errorf("construct engine: %w", err)
	}
	requireSnapshot := snapshot
	requireSnapshot.ConditionNames = requireConditions(snapshot.ConditionNames)
	requireEngine, err := opts.NewEngine(requireSnapshot)
	if err != nil {
		return nil, fmt.Errorf("construct engine: %w", err)
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.Default()
	}
	entries := make(map[string]struct{}, len(build.Entries))
	for _, entry := range build.Entries {
		entries[entry] = struct{}{}
	}

	return &Resolver{
		snapshot:      snapshot,
		importEngine:  importEngine,
		requireEngine: requireEngine,
		preference:    preferenceFromOptions(opts),
		builtins:      opts.builtinModules(),
		scope:         scope,
		reporter:      reporter,
		entries:       entries,
	}, nil
}

// Snapshot returns the build's immutable configuration.
func (r *Resolver) Snapshot() Snapshot {
	return r.snapshot
}

// Resolve turns one request into an outcome. Candidates are probed strictly
// sequentially: order encodes precedence and the engine's directory search is
// state-dependent, so a later candidate must never outrun an earlier one.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Outcome, error) {
	classified := specifier.Classify(req.Specifier, req.Importer, r.snapshot.RootDir)

	// Builtin arbitration runs once per request, ahead of the engine.
	isBuiltin := r.builtins && builtins.Recognized(classified.Bare)
	prefersBuiltin := isBuiltin && r.preference.prefers(req.Specifier)

	if classified.Kind == specifier.KindBare && r.scope.Restricted() && !r.scope.Eligible(classified.PackageName) {
		if r.isEntry(req, classified) {
			return Outcome{Kind: OutcomeDeferred}, nil
		}
		return Outcome{Kind: OutcomeRejected}, nil
	}

	// An explicit preference skips the engine entirely. The default-true
	// preference still probes so a shadowing local file can be reported.
	if prefersBuiltin && r.preference.explicit {
		return Outcome{Kind: OutcomeExternal, ID: classified.Bare}, nil
	}

	path, lastDiagnostic, err := r.probe(ctx, req, classified)
	if err != nil {
		return Outcome{}, err
	}

	if isBuiltin && prefersBuiltin {
		if path != "" {
			r.reporter.Warn(diag.Record{
				Code: diag.CodePreferBuiltins,
				Message: fmt.Sprintf(
					"%q resolves to a local file while a Node builtin of the same name exists; set PreferBuiltins to choose explicitly",
					req.Specifier),
				Specifier: req.Specifier,
				Importer:  req.Importer,
			})
		}
		return Outcome{Kind: OutcomeExternal, ID: classified.Bare}, nil
	}

	if path == "" {
		if lastDiagnostic != "" {
			// Engines special-case some builtins themselves, including ones
			// newer than the local table; their failure reports for those are
			// really External outcomes.
			if r.builtins && isBuiltinDiagnostic(lastDiagnostic) {
				return Outcome{Kind: OutcomeExternal, ID: classified.Bare}, nil
			}
			r.reporter.Warn(diag.Record{
				Code:      diag.CodeEngineDiagnostic,
				Message:   lastDiagnostic,
				Specifier: req.Specifier,
				Importer:  req.Importer,
			})
		}
		return Outcome{Kind: OutcomeNone}, nil
	}

	return Outcome{Kind: OutcomeResolved, ID: path + classified.Query}, nil
}

// probe walks the candidate list in declaration order and stops at the first
// candidate the engine maps to a path. The diagnostic of the last attempted
// candidate survives for reclassification.
func (r *Resolver) probe(ctx context.Context, req Request, classified specifier.Classified) (string, string, error) {
	engine := r.importEngine
	if req.IsRequire {
		engine = r.requireEngine
	}

	candidates := specifier.Candidates(classified, req.Importer, r.snapshot.ExtensionAlias)
	var lastDiagnostic string
	for _, candidate := range candidates {
		result, err := engine.Resolve(ctx, classified.BaseDir, candidate)
		if err != nil {
			return "", "", fmt.Errorf("resolve %q from %q: %w", req.Specifier, classified.BaseDir, err)
		}
		if result.Path != "" {
			return result.Path, "", nil
		}
		lastDiagnostic = result.Diagnostic
	}
	return "", lastDiagnostic, nil
}

func (r *Resolver) isEntry(req Request, classified specifier.Classified) bool {
	if req.IsEntry || req.Importer == "" {
		return true
	}
	_, declared := r.entries[classified.Raw]
	return declared
}

func isBuiltinDiagnostic(diagnostic string) bool {
	return strings.Contains(strings.ToLower(diagnostic), "builtin")
}
