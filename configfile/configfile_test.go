package configfile

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bundlekit/noderesolve"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "resolver.yaml", strings.Join([]string{
		"mainFields:",
		"  - browser",
		"  - module",
		"  - main",
		"preferBuiltins: false",
		"resolveOnly:",
		"  - lodash",
	}, "\n"))

	overrides, err := Load(path)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if !reflect.DeepEqual(overrides.MainFields, []string{"browser", "module", "main"}) {
		t.Fatalf("unexpected main fields %v", overrides.MainFields)
	}
	if overrides.PreferBuiltins == nil || *overrides.PreferBuiltins {
		t.Fatalf("preferBuiltins should load as explicit false, got %v", overrides.PreferBuiltins)
	}
	if !reflect.DeepEqual(overrides.ResolveOnly, []string{"lodash"}) {
		t.Fatalf("unexpected resolveOnly %v", overrides.ResolveOnly)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "resolver.toml", strings.Join([]string{
		`extensions = [".mjs", ".js"]`,
		`browser = true`,
		``,
		`[extensionAlias]`,
		`".js" = [".ts", ".js"]`,
	}, "\n"))

	overrides, err := Load(path)
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	if !reflect.DeepEqual(overrides.Extensions, []string{".mjs", ".js"}) {
		t.Fatalf("unexpected extensions %v", overrides.Extensions)
	}
	if overrides.Browser == nil || !*overrides.Browser {
		t.Fatalf("browser flag should load as true, got %v", overrides.Browser)
	}
	if !reflect.DeepEqual(overrides.ExtensionAlias[".js"], []string{".ts", ".js"}) {
		t.Fatalf("unexpected extension alias %v", overrides.ExtensionAlias)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "resolver.json", `{"conditionNames":["default","import","production"],"rootDir":"/builds/app"}`)

	overrides, err := Load(path)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if !reflect.DeepEqual(overrides.ConditionNames, []string{"default", "import", "production"}) {
		t.Fatalf("unexpected condition names %v", overrides.ConditionNames)
	}
	if overrides.RootDir == nil || *overrides.RootDir != "/builds/app" {
		t.Fatalf("unexpected rootDir %v", overrides.RootDir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "resolver.yaml", "mainfields: [browser]\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for unknown keys")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestApplyOverridesKeepBase(t *testing.T) {
	preferFalse := false
	base := noderesolve.Options{
		Extensions: []string{".js"},
		RootDir:    "/base",
	}
	applied := Overrides{
		MainFields:     []string{"browser", "main"},
		PreferBuiltins: &preferFalse,
	}.Apply(base)

	if !reflect.DeepEqual(applied.Extensions, []string{".js"}) {
		t.Fatalf("base extensions must survive, got %v", applied.Extensions)
	}
	if applied.RootDir != "/base" {
		t.Fatalf("base root dir must survive, got %q", applied.RootDir)
	}
	if !reflect.DeepEqual(applied.MainFields, []string{"browser", "main"}) {
		t.Fatalf("override main fields missing, got %v", applied.MainFields)
	}
	if applied.PreferBuiltins == nil || *applied.PreferBuiltins {
		t.Fatalf("explicit preferBuiltins=false lost: %v", applied.PreferBuiltins)
	}
}
