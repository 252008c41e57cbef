// Package configfile loads optional on-disk resolver configuration and merges
// it over programmatic options. YAML, TOML and JSON are accepted; unknown keys
// are rejected in every format.
package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bundlekit/noderesolve"
)

const (
	readConfigFileErrFmt  = "read config file %s: %w"
	parseConfigFileErrFmt = "parse config file %s: %w"
)

// Overrides holds the file-supplied option values. Pointer fields distinguish
// "absent" from an explicit zero, which matters for preferBuiltins.
type Overrides struct {
	Extensions     []string            `yaml:"extensions" toml:"extensions" json:"extensions,omitempty"`
	ConditionNames []string            `yaml:"conditionNames" toml:"conditionNames" json:"conditionNames,omitempty"`
	MainFields     []string            `yaml:"mainFields" toml:"mainFields" json:"mainFields,omitempty"`
	ExportsFields  []string            `yaml:"exportsFields" toml:"exportsFields" json:"exportsFields,omitempty"`
	MainFiles      []string            `yaml:"mainFiles" toml:"mainFiles" json:"mainFiles,omitempty"`
	ExtensionAlias map[string][]string `yaml:"extensionAlias" toml:"extensionAlias" json:"extensionAlias,omitempty"`
	BuiltinModules *bool               `yaml:"builtinModules" toml:"builtinModules" json:"builtinModules,omitempty"`
	PreferBuiltins *bool               `yaml:"preferBuiltins" toml:"preferBuiltins" json:"preferBuiltins,omitempty"`
	ResolveOnly    []string            `yaml:"resolveOnly" toml:"resolveOnly" json:"resolveOnly,omitempty"`
	RootDir        *string             `yaml:"rootDir" toml:"rootDir" json:"rootDir,omitempty"`
	Browser        *bool               `yaml:"browser" toml:"browser" json:"browser,omitempty"`
	Production     *bool               `yaml:"production" toml:"production" json:"production,omitempty"`
}

// Load reads and parses one config file, dispatching on its extension.
func Load(path string) (Overrides, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Overrides{}, fmt.Errorf(readConfigFileErrFmt, path, err)
	}
	overrides, err := parse(path, data)
	if err != nil {
		return Overrides{}, fmt.Errorf(parseConfigFileErrFmt, path, err)
	}
	return overrides, nil
}

func parse(path string, data []byte) (Overrides, error) {
	var overrides Overrides
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&overrides); err != nil {
			return Overrides{}, fmt.Errorf("invalid TOML config: %w", err)
		}
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&overrides); err != nil {
			return Overrides{}, fmt.Errorf("invalid JSON config: %w", err)
		}
		if decoder.More() {
			return Overrides{}, fmt.Errorf("invalid JSON config: multiple JSON values")
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&overrides); err != nil {
			return Overrides{}, fmt.Errorf("invalid YAML config: %w", err)
		}
	}
	return overrides, nil
}

// Apply lays the file overrides over base options. Absent fields keep the base
// value; the result feeds noderesolve.NewResolver unchanged.
func (o Overrides) Apply(base noderesolve.Options) noderesolve.Options {
	applied := base
	if len(o.Extensions) > 0 {
		applied.Extensions = o.Extensions
	}
	if len(o.ConditionNames) > 0 {
		applied.ConditionNames = o.ConditionNames
	}
	if len(o.MainFields) > 0 {
		applied.MainFields = o.MainFields
	}
	if len(o.ExportsFields) > 0 {
		applied.ExportsFields = o.ExportsFields
	}
	if len(o.MainFiles) > 0 {
		applied.MainFiles = o.MainFiles
	}
	if len(o.ExtensionAlias) > 0 {
		applied.ExtensionAlias = o.ExtensionAlias
	}
	if o.BuiltinModules != nil {
		applied.BuiltinModules = o.BuiltinModules
	}
	if o.PreferBuiltins != nil {
		applied.PreferBuiltins = o.PreferBuiltins
	}
	if len(o.ResolveOnly) > 0 {
		applied.ResolveOnly = o.ResolveOnly
	}
	if o.RootDir != nil {
		applied.RootDir = *o.RootDir
	}
	if o.Browser != nil {
		applied.Browser = *o.Browser
	}
	if o.Production != nil {
		applied.Production = *o.Production
	}
	return applied
}
