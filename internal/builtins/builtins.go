// Package builtins recognises Node.js platform built-in modules so the
// resolver can arbitrate between a builtin and a local file of the same name.
package builtins

import "strings"

const namespacePrefix = "node:"

// Recognized reports whether a specifier names a Node built-in module. It
// accepts an optional node: namespace prefix and subpath forms such as
// "fs/promises", which are checked against the base module name.
func Recognized(specifier string) bool {
	name := StripNamespace(specifier)
	if index := strings.IndexByte(name, '/'); index >= 0 {
		name = name[:index]
	}
	_, ok := builtinModules[name]
	return ok
}

// StripNamespace removes a leading node: prefix when present.
func StripNamespace(specifier string) string {
	return strings.TrimPrefix(specifier, namespacePrefix)
}

// builtinModules lists the top-level Node.js core modules, excluding private
// modules (leading underscore) and subpath exports.
//
// Regenerate with:
//
//	node -p "require('module').builtinModules.filter(m => !m.startsWith('_') && !m.includes('/')).sort().join('\n')"
//
// Last updated against Node.js v24.x.
var builtinModules = map[string]struct{}{
	"assert":              {},
	"async_hooks":         {},
	"buffer":              {},
	"child_process":       {},
	"cluster":             {},
	"console":             {},
	"constants":           {},
	"crypto":              {},
	"dgram":               {},
	"diagnostics_channel": {},
	"dns":                 {},
	"domain":              {},
	"events":              {},
	"fs":                  {},
	"http":                {},
	"http2":               {},
	"https":               {},
	"inspector":           {},
	"module":              {},
	"net":                 {},
	"os":                  {},
	"path":                {},
	"perf_hooks":          {},
	"process":             {},
	"punycode":            {},
	"querystring":         {},
	"readline":            {},
	"repl":                {},
	"stream":              {},
	"string_decoder":      {},
	"sys":                 {},
	"timers":              {},
	"tls":                 {},
	"trace_events":        {},
	"tty":                 {},
	"url":                 {},
	"util":                {},
	"v8":                  {},
	"vm":                  {},
	"wasi":                {},
	"worker_threads":      {},
	"zlib":                {},
}
