package noderesolve

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bundlekit/noderesolve/diag"
)

var (
	defaultExtensions     = []string{".mjs", ".js", ".json", ".node"}
	defaultMainFields     = []string{"module", "main"}
	defaultExportsFields  = []string{"exports"}
	defaultMainFiles      = []string{"index"}
	defaultConditionNames = []string{"default", "module", "import"}
)

const (
	conditionDevelopment = "development"
	conditionProduction  = "production"
	conditionBrowser     = "browser"
	conditionImport      = "import"
	conditionRequire     = "require"

	mainFieldBrowser = "browser"
)

// Options is the per-build configuration surface. The zero value resolves the
// way Node does for a server-side build; every field falls back to its
// documented default.
type Options struct {
	// Extensions is the ordered list of file-extension suffixes the engine
	// probes. Default: .mjs, .js, .json, .node.
	Extensions []string

	// ConditionNames selects among package-export targets, in order. Exactly
	// one of development/production is added per the Production flag when the
	// list names neither; naming both is a configuration error.
	ConditionNames []string

	// MainFields is the ordered package-manifest field list. Listing
	// "browser" activates browser-field semantics. Default: module, main.
	MainFields []string

	// ExportsFields names the manifest fields holding export maps.
	ExportsFields []string

	// MainFiles lists basenames probed inside a directory. Default: index.
	MainFiles []string

	// ExtensionAlias maps an output extension (".js") to the ordered source
	// extensions that may satisfy it, for TypeScript interop. Empty disables
	// extension aliasing.
	ExtensionAlias map[string][]string

	// BuiltinModules enables recognition of Node platform builtins.
	// Default true.
	BuiltinModules *bool

	// PreferBuiltins decides whether a builtin name wins over a local file of
	// the same name. Leaving it nil keeps the default (true) and arms the
	// shadow advisory; setting it suppresses the advisory.
	PreferBuiltins *bool

	// PreferBuiltinsFunc is the predicate form of PreferBuiltins, evaluated
	// against the raw specifier. Takes precedence over PreferBuiltins.
	PreferBuiltinsFunc func(specifier string) bool

	// ResolveOnly restricts resolution to bare specifiers matching one of the
	// given package names or anchored regular-expression patterns.
	ResolveOnly []string

	// ResolveOnlyFunc is the predicate form of ResolveOnly, evaluated against
	// the bare package name. Takes precedence over ResolveOnly.
	ResolveOnlyFunc func(packageName string) bool

	// RootDir is the base directory for entry-point resolution.
	// Default: the process working directory.
	RootDir string

	// Browser is a convenience flag equivalent to listing "browser" first in
	// MainFields and adding the "browser" condition.
	Browser bool

	// Production selects the "production" condition instead of "development"
	// when ConditionNames names neither.
	Production bool

	// Reporter receives non-fatal diagnostics. Default: structured logging on
	// stderr.
	Reporter diag.Reporter

	// NewEngine constructs the path-resolution engine from a configuration
	// snapshot. Required: the core drives the engine, it does not replace it.
	NewEngine EngineFactory
}

// BuildContext carries the host-provided state fixed at build start.
type BuildContext struct {
	// Entries are the build's declared entry-point specifiers.
	Entries []string

	// PreserveSymlinks mirrors the host's symlink handling and is handed to
	// the engine unchanged.
	PreserveSymlinks bool
}

// Snapshot is the immutable configuration handed to the engine factory. It is
// constructed once at build start and shared read-only by every request.
type Snapshot struct {
	Extensions       []string            `json:"extensions"`
	ConditionNames   []string            `json:"conditionNames"`
	MainFields       []string            `json:"mainFields"`
	ExportsFields    []string            `json:"exportsFields"`
	MainFiles        []string            `json:"mainFiles"`
	ExtensionAlias   map[string][]string `json:"extensionAlias,omitempty"`
	RootDir          string              `json:"rootDir"`
	PreserveSymlinks bool                `json:"preserveSymlinks"`
}

// BrowserActive reports whether browser-field semantics apply. They hinge on
// "browser" being listed in MainFields, nothing else.
func (s Snapshot) BrowserActive() bool {
	return slices.Contains(s.MainFields, mainFieldBrowser)
}

// Snapshot computes the effective configuration these options produce for a
// build, without constructing a resolver. Hosts and tooling use it to inspect
// or report the merged defaults.
func (o Options) Snapshot(build BuildContext) (Snapshot, error) {
	return newSnapshot(o, build)
}

func (o Options) builtinModules() bool {
	if o.BuiltinModules == nil {
		return true
	}
	return *o.BuiltinModules
}

func newSnapshot(o Options, build BuildContext) (Snapshot, error) {
	rootDir := o.RootDir
	if rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Snapshot{}, fmt.Errorf("resolve root directory: %w", err)
		}
		rootDir = cwd
	}

	mainFields := defaulted(o.MainFields, defaultMainFields)
	if o.Browser && !slices.Contains(mainFields, mainFieldBrowser) {
		mainFields = append([]string{mainFieldBrowser}, mainFields...)
	}

	conditions, err := conditionNames(o, mainFields)
	if err != nil {
		return Snapshot{}, err
	}
	for key := range o.ExtensionAlias {
		if !strings.HasPrefix(key, ".") {
			return Snapshot{}, diag.New(diag.CodeInvalidConfig,
				fmt.Sprintf("extensionAlias key %q is not a file extension", key))
		}
	}

	return Snapshot{
		Extensions:       defaulted(o.Extensions, defaultExtensions),
		ConditionNames:   conditions,
		MainFields:       mainFields,
		ExportsFields:    defaulted(o.ExportsFields, defaultExportsFields),
		MainFiles:        defaulted(o.MainFiles, defaultMainFiles),
		ExtensionAlias:   clonedAlias(o.ExtensionAlias),
		RootDir:          rootDir,
		PreserveSymlinks: build.PreserveSymlinks,
	}, nil
}

// conditionNames assembles the effective condition list: user order first,
// exactly one mode tag, and "browser" when browser semantics are active.
func conditionNames(o Options, mainFields []string) ([]string, error) {
	conditions := slices.Clone(defaulted(o.ConditionNames, defaultConditionNames))

	development := slices.Contains(conditions, conditionDevelopment)
	production := slices.Contains(conditions, conditionProduction)
	if development && production {
		return nil, diag.New(diag.CodeInvalidConfig,
			"conditionNames must include at most one of development/production")
	}
	if !development && !production {
		mode := conditionDevelopment
		if o.Production {
			mode = conditionProduction
		}
		conditions = append(conditions, mode)
	}

	if slices.Contains(mainFields, mainFieldBrowser) && !slices.Contains(conditions, conditionBrowser) {
		conditions = append(conditions, conditionBrowser)
	}
	return conditions, nil
}

// requireConditions swaps the import condition for require, for requests that
// originated from a synchronous-style import.
func requireConditions(conditions []string) []string {
	swapped := slices.Clone(conditions)
	for i, name := range swapped {
		if name == conditionImport {
			swapped[i] = conditionRequire
			return swapped
		}
	}
	return append(swapped, conditionRequire)
}

// clonedAlias deep-copies the extension-alias table so later mutation of the
// caller's map cannot reach the snapshot.
func clonedAlias(alias map[string][]string) map[string][]string {
	if len(alias) == 0 {
		return nil
	}
	cloned := make(map[string][]string, len(alias))
	for key, values := range alias {
		cloned[key] = slices.Clone(values)
	}
	return cloned
}

func defaulted(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}

// builtinPreference is the tagged form of the preferBuiltins option. The
// explicit bit distinguishes a user choice from the default, which is what
// arms the builtin-shadow advisory.
type builtinPreference struct {
	value    bool
	fn       func(specifier string) bool
	explicit bool
}

func preferenceFromOptions(o Options) builtinPreference {
	switch {
	case o.PreferBuiltinsFunc != nil:
		return builtinPreference{fn: o.PreferBuiltinsFunc, explicit: true}
	case o.PreferBuiltins != nil:
		return builtinPreference{value: *o.PreferBuiltins, explicit: true}
	default:
		return builtinPreference{value: true}
	}
}

func (p builtinPreference) prefers(specifier string) bool {
	if p.fn != nil {
		return p.fn(specifier)
	}
	return p.value
}
