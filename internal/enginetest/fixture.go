package enginetest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bundlekit/noderesolve"
	"github.com/bundlekit/noderesolve/internal/builtins"
)

const manifestName = "package.json"

// Fixture resolves specifiers against a real directory tree of test fixtures.
// It honours the snapshot's extensions, main files, main fields, exports
// fields and condition names.
type Fixture struct {
	snap noderesolve.Snapshot
}

// Factory is an EngineFactory building fixture engines.
func Factory(snap noderesolve.Snapshot) (noderesolve.Engine, error) {
	return &Fixture{snap: snap}, nil
}

func (f *Fixture) Resolve(_ context.Context, baseDir, spec string) (noderesolve.EngineResult, error) {
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return f.resolvePath(filepath.Join(baseDir, spec), baseDir), nil
	case filepath.IsAbs(spec):
		return f.resolvePath(spec, baseDir), nil
	default:
		return f.resolveBare(baseDir, spec), nil
	}
}

// resolvePath loads a relative or absolute request, applying the enclosing
// package's object-form browser remaps first. A remap only applies when the
// importing directory is the one holding the manifest; imports from a strictly
// deeper subdirectory see the tree as-is.
func (f *Fixture) resolvePath(target, baseDir string) noderesolve.EngineResult {
	if f.snap.BrowserActive() {
		if mapped, disabled, ok := f.remapPath(target, baseDir); ok {
			if disabled {
				return noderesolve.EngineResult{Path: noderesolve.EmptyModuleID}
			}
			target = mapped
		}
	}
	if path := f.loadFile(target); path != "" {
		return noderesolve.EngineResult{Path: path}
	}
	return noderesolve.EngineResult{}
}

func (f *Fixture) resolveBare(baseDir, name string) noderesolve.EngineResult {
	if f.snap.BrowserActive() {
		if result, ok := f.remapBare(baseDir, name); ok {
			return result
		}
	}

	pkgName, subpath := splitPackage(name)
	if pkgDir := findPackageDir(baseDir, pkgName); pkgDir != "" {
		return f.resolvePackage(pkgDir, pkgName, subpath)
	}

	if builtins.Recognized(name) {
		return noderesolve.EngineResult{
			Diagnostic: fmt.Sprintf("%q is a Node.js builtin module", name),
		}
	}
	return noderesolve.EngineResult{
		Diagnostic: fmt.Sprintf("cannot find module %q", name),
	}
}

func (f *Fixture) resolvePackage(pkgDir, pkgName, subpath string) noderesolve.EngineResult {
	manifest := readManifest(pkgDir)

	// An exports map, when declared, owns every lookup into the package and
	// wins over browser-field remapping.
	if exports := f.exportsField(manifest); exports != nil {
		key := "."
		if subpath != "" {
			key = "./" + subpath
		}
		target, ok := f.resolveExports(exports, key)
		if !ok {
			return noderesolve.EngineResult{
				Diagnostic: fmt.Sprintf("package subpath %q is not exported by %s", key, pkgName),
			}
		}
		if path := f.loadFile(filepath.Join(pkgDir, target)); path != "" {
			return noderesolve.EngineResult{Path: path}
		}
		return noderesolve.EngineResult{}
	}

	if subpath != "" {
		if f.snap.BrowserActive() {
			if browser := objectBrowser(manifest); browser != nil {
				if value, ok := lookupBrowser(browser, "./"+subpath, f.snap.Extensions); ok {
					return f.browserValue(pkgDir, value)
				}
			}
		}
		if path := f.loadFile(filepath.Join(pkgDir, subpath)); path != "" {
			return noderesolve.EngineResult{Path: path}
		}
		return noderesolve.EngineResult{}
	}

	for _, field := range f.snap.MainFields {
		entry, ok := manifest[field].(string)
		if !ok {
			continue
		}
		if path := f.loadFile(filepath.Join(pkgDir, entry)); path != "" {
			return noderesolve.EngineResult{Path: path}
		}
	}
	if path := f.loadFile(pkgDir); path != "" {
		return noderesolve.EngineResult{Path: path}
	}
	return noderesolve.EngineResult{}
}

func (f *Fixture) remapPath(target, baseDir string) (mapped string, disabled, ok bool) {
	manifestDir := nearestManifestDir(filepath.Dir(target))
	if manifestDir == "" || manifestDir != baseDir {
		return "", false, false
	}
	browser := objectBrowser(readManifest(manifestDir))
	if browser == nil {
		return "", false, false
	}
	rel, err := filepath.Rel(manifestDir, target)
	if err != nil {
		return "", false, false
	}
	value, found := lookupBrowser(browser, "./"+filepath.ToSlash(rel), f.snap.Extensions)
	if !found {
		return "", false, false
	}
	replacement, isString := value.(string)
	if !isString {
		return "", true, true
	}
	return filepath.Join(manifestDir, replacement), false, true
}

func (f *Fixture) remapBare(baseDir, name string) (noderesolve.EngineResult, bool) {
	manifestDir := nearestManifestDir(baseDir)
	if manifestDir == "" || manifestDir != baseDir {
		return noderesolve.EngineResult{}, false
	}
	browser := objectBrowser(readManifest(manifestDir))
	if browser == nil {
		return noderesolve.EngineResult{}, false
	}
	value, found := browser[name]
	if !found {
		return noderesolve.EngineResult{}, false
	}
	return f.browserValue(manifestDir, value), true
}

func (f *Fixture) browserValue(dir string, value any) noderesolve.EngineResult {
	replacement, isString := value.(string)
	if !isString {
		return noderesolve.EngineResult{Path: noderesolve.EmptyModuleID}
	}
	if path := f.loadFile(filepath.Join(dir, replacement)); path != "" {
		return noderesolve.EngineResult{Path: path}
	}
	return noderesolve.EngineResult{}
}

// resolveExports evaluates a literal exports map: subpath keys first, then a
// condition object walked in the snapshot's condition order.
func (f *Fixture) resolveExports(exports any, key string) (string, bool) {
	switch value := exports.(type) {
	case string:
		if key == "." {
			return value, true
		}
		return "", false
	case map[string]any:
		if hasSubpathKeys(value) {
			entry, ok := value[key]
			if !ok {
				return "", false
			}
			return f.resolveExportTarget(entry)
		}
		if key != "." {
			return "", false
		}
		return f.resolveExportTarget(value)
	default:
		return "", false
	}
}

func (f *Fixture) resolveExportTarget(entry any) (string, bool) {
	switch value := entry.(type) {
	case string:
		return value, true
	case map[string]any:
		for _, condition := range f.snap.ConditionNames {
			if target, ok := value[condition]; ok {
				return f.resolveExportTarget(target)
			}
		}
		return "", false
	default:
		return "", false
	}
}

func (f *Fixture) exportsField(manifest map[string]any) any {
	for _, field := range f.snap.ExportsFields {
		if value, ok := manifest[field]; ok {
			return value
		}
	}
	return nil
}

// loadFile probes a path as a file, then with each configured extension, then
// as a directory holding one of the configured main files.
func (f *Fixture) loadFile(target string) string {
	if isFile(target) {
		return target
	}
	for _, ext := range f.snap.Extensions {
		if isFile(target + ext) {
			return target + ext
		}
	}
	if isDir(target) {
		for _, name := range f.snap.MainFiles {
			base := filepath.Join(target, name)
			if isFile(base) {
				return base
			}
			for _, ext := range f.snap.Extensions {
				if isFile(base + ext) {
					return base + ext
				}
			}
		}
	}
	return ""
}

func lookupBrowser(browser map[string]any, key string, extensions []string) (any, bool) {
	if value, ok := browser[key]; ok {
		return value, true
	}
	if filepath.Ext(key) == "" {
		for _, ext := range extensions {
			if value, ok := browser[key+ext]; ok {
				return value, true
			}
		}
	}
	return nil, false
}

func objectBrowser(manifest map[string]any) map[string]any {
	browser, _ := manifest["browser"].(map[string]any)
	return browser
}

func hasSubpathKeys(exports map[string]any) bool {
	for key := range exports {
		if strings.HasPrefix(key, ".") {
			return true
		}
	}
	return false
}

func readManifest(dir string) map[string]any {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil
	}
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	return manifest
}

func nearestManifestDir(dir string) string {
	for current := dir; ; current = filepath.Dir(current) {
		if isFile(filepath.Join(current, manifestName)) {
			return current
		}
		if filepath.Dir(current) == current {
			return ""
		}
	}
}

func findPackageDir(baseDir, pkgName string) string {
	for current := baseDir; ; current = filepath.Dir(current) {
		candidate := filepath.Join(current, "node_modules", filepath.FromSlash(pkgName))
		if isDir(candidate) {
			return candidate
		}
		if filepath.Dir(current) == current {
			return ""
		}
	}
}

func splitPackage(name string) (pkgName, subpath string) {
	segments := strings.Split(name, "/")
	prefix := 1
	if strings.HasPrefix(name, "@") && len(segments) > 1 {
		prefix = 2
	}
	if len(segments) <= prefix {
		return name, ""
	}
	return strings.Join(segments[:prefix], "/"), strings.Join(segments[prefix:], "/")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
