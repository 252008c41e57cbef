package noderesolve

import (
	"context"
	"errors"
)

const (
	// HookName identifies this resolver in the host pipeline.
	HookName = "node-resolve"

	// MetaKey is the key under which this hook stores its provenance metadata
	// in the host's custom resolve options and module metadata.
	MetaKey = "node-resolve"

	// EmptyModuleID is the virtual-module sentinel substituted when a browser
	// field explicitly disables a module.
	EmptyModuleID = "\x00noderesolve:empty.js"
)

const emptyModuleSource = "export default {};\n"

// HookOrder is the host's hook-ordering tag.
type HookOrder string

// OrderPost runs this resolver after every other resolver-capable stage, so it
// only acts when nothing earlier claimed the specifier.
const OrderPost HookOrder = "post"

var ErrBuildNotStarted = errors.New("noderesolve: hook used before BuildStart")

// HookResult mirrors the host resolution-hook return surface: a resolved-id
// record, the host's explicit negative answer (Excluded, the host-native
// "false"), or a nil *HookResult for "no opinion".
type HookResult struct {
	ID          string
	External    bool
	Excluded    bool
	SideEffects *bool
	Meta        map[string]any
}

// ResolveArgs is one incoming hook invocation.
type ResolveArgs struct {
	Specifier string
	Importer  string
	IsEntry   bool
	// Custom is opaque pass-through metadata from the host. This hook reads
	// its own RequestMeta entry under MetaKey and ignores the rest.
	Custom map[string]any
}

// RequestMeta is the provenance metadata exchanged through Custom[MetaKey].
type RequestMeta struct {
	// Resolved, when set, records that an earlier stage already resolved this
	// exact request; the hook returns it unchanged instead of repeating work.
	Resolved *HookResult
	// IsRequire marks a synchronous-style import.
	IsRequire bool
}

// HostResolveOptions accompanies a re-entrant resolution into the host chain.
type HostResolveOptions struct {
	SkipSelf bool
	Custom   map[string]any
}

// HostResolver is the host pipeline's own resolution chain, re-entered after
// the core resolves so downstream stages may still claim ownership.
type HostResolver interface {
	Resolve(ctx context.Context, specifier, importer string, opts HostResolveOptions) (*HookResult, error)
}

// Hook adapts the Resolver to the host pipeline's resolution-hook contract.
type Hook struct {
	opts     Options
	resolver *Resolver
}

func NewHook(opts Options) *Hook {
	return &Hook{opts: opts}
}

func (h *Hook) Name() string {
	return HookName
}

func (h *Hook) Order() HookOrder {
	return OrderPost
}

// BuildStart constructs the build's configuration snapshot and engines.
// Misconfiguration surfaces here, before any request runs.
func (h *Hook) BuildStart(build BuildContext) error {
	resolver, err := NewResolver(h.opts, build)
	if err != nil {
		return err
	}
	h.resolver = resolver
	return nil
}

// ResolveID implements the host's resolution hook.
func (h *Hook) ResolveID(ctx context.Context, args ResolveArgs, host HostResolver) (*HookResult, error) {
	if args.Specifier == EmptyModuleID {
		return &HookResult{ID: EmptyModuleID}, nil
	}

	meta := requestMeta(args.Custom)
	if meta.Resolved != nil && meta.Resolved.ID == args.Specifier {
		return meta.Resolved, nil
	}

	if h.resolver == nil {
		return nil, ErrBuildNotStarted
	}

	outcome, err := h.resolver.Resolve(ctx, Request{
		Specifier: args.Specifier,
		Importer:  args.Importer,
		IsEntry:   args.IsEntry,
		IsRequire: meta.IsRequire,
	})
	if err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case OutcomeResolved:
		return h.submitToHost(ctx, args, meta, outcome, host)
	case OutcomeExternal:
		return &HookResult{ID: outcome.ID, External: true}, nil
	case OutcomeRejected:
		return &HookResult{Excluded: true}, nil
	default:
		// Deferred and no-resolution both yield to the host's own chain.
		return nil, nil
	}
}

// submitToHost re-submits a resolved id to the host chain. A downstream stage
// returning a different id wins outright; the same id merges metadata; a
// downstream external answer turns the local resolution into a rejection.
func (h *Hook) submitToHost(ctx context.Context, args ResolveArgs, meta RequestMeta, outcome Outcome, host HostResolver) (*HookResult, error) {
	local := &HookResult{
		ID:   outcome.ID,
		Meta: provenance(outcome, meta),
	}
	if host == nil {
		return local, nil
	}

	downstream, err := host.Resolve(ctx, outcome.ID, args.Importer, HostResolveOptions{
		SkipSelf: true,
		Custom:   local.Meta,
	})
	if err != nil {
		return nil, err
	}
	switch {
	case downstream == nil:
		return local, nil
	case downstream.Excluded || downstream.External:
		return &HookResult{Excluded: true}, nil
	case downstream.ID != outcome.ID:
		return downstream, nil
	default:
		merged := make(map[string]any, len(downstream.Meta)+1)
		for key, value := range downstream.Meta {
			merged[key] = value
		}
		merged[MetaKey] = local.Meta[MetaKey]
		return &HookResult{ID: outcome.ID, SideEffects: downstream.SideEffects, Meta: merged}, nil
	}
}

// Load implements the host's virtual-module load hook for the empty-module
// sentinel. Every other id is deferred.
func (h *Hook) Load(id string) (source string, ok bool) {
	if id == EmptyModuleID {
		return emptyModuleSource, true
	}
	return "", false
}

func provenance(outcome Outcome, meta RequestMeta) map[string]any {
	return map[string]any{
		MetaKey: RequestMeta{
			Resolved:  &HookResult{ID: outcome.ID},
			IsRequire: meta.IsRequire,
		},
	}
}

func requestMeta(custom map[string]any) RequestMeta {
	if custom == nil {
		return RequestMeta{}
	}
	meta, ok := custom[MetaKey].(RequestMeta)
	if !ok {
		return RequestMeta{}
	}
	return meta
}
