// Command noderesolve inspects resolver configuration from the command line:
// it merges an optional config file over the defaults, prints the effective
// configuration, and classifies any specifiers given as arguments the way the
// resolver would see them.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bundlekit/noderesolve"
	"github.com/bundlekit/noderesolve/configfile"
	"github.com/bundlekit/noderesolve/internal/specifier"
)

var exitFunc = os.Exit

const usage = `Usage:
  noderesolve [--config PATH] [--root DIR] [--importer PATH] [--browser] [--production] [SPECIFIER...]

Prints the effective resolver configuration as JSON. Each SPECIFIER argument
is additionally classified: its kind, package name, query suffix and the
ordered candidate list the resolver would probe.

Options:
  --config PATH    Load option overrides from a YAML, TOML or JSON file
  --root DIR       Base directory for entry-point resolution (default: .)
  --importer PATH  Classify specifiers as if imported from this file
  --browser        Apply browser-field semantics
  --production     Select the production condition
  -h, --help       Show this help text
`

var errHelpRequested = errors.New("help requested")

type request struct {
	configPath string
	rootDir    string
	importer   string
	browser    bool
	production bool
	specifiers []string
}

func parseArgs(args []string) (request, error) {
	fs := flag.NewFlagSet("noderesolve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var req request
	fs.StringVar(&req.configPath, "config", "", "config file path")
	fs.StringVar(&req.rootDir, "root", "", "root directory")
	fs.StringVar(&req.importer, "importer", "", "importing file")
	fs.BoolVar(&req.browser, "browser", false, "browser-field semantics")
	fs.BoolVar(&req.production, "production", false, "production condition")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, errHelpRequested
		}
		return req, err
	}
	req.specifiers = fs.Args()
	return req, nil
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	req, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, errHelpRequested) {
			fmt.Fprint(out, usage)
			return 0
		}
		fmt.Fprintf(errOut, "error: %v\n\n", err)
		fmt.Fprint(errOut, usage)
		return 2
	}

	opts := noderesolve.Options{
		RootDir:    req.rootDir,
		Browser:    req.browser,
		Production: req.production,
	}
	if req.configPath != "" {
		overrides, err := configfile.Load(req.configPath)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return 1
		}
		opts = overrides.Apply(opts)
	}

	snapshot, err := opts.Snapshot(noderesolve.BuildContext{})
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	if err := printSnapshot(out, snapshot); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	for _, spec := range req.specifiers {
		printClassification(out, spec, req.importer, snapshot)
	}
	return 0
}

func printSnapshot(out io.Writer, snapshot noderesolve.Snapshot) error {
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	fmt.Fprintf(out, "%s\n", encoded)
	return nil
}

func printClassification(out io.Writer, spec, importer string, snapshot noderesolve.Snapshot) {
	classified := specifier.Classify(spec, importer, snapshot.RootDir)

	kind := "bare"
	if classified.Kind == specifier.KindRelative {
		kind = "relative"
	}
	fmt.Fprintf(out, "\n%s\n", classified.Raw)
	fmt.Fprintf(out, "  kind:       %s\n", kind)
	fmt.Fprintf(out, "  package:    %s\n", classified.PackageName)
	if classified.Query != "" {
		fmt.Fprintf(out, "  query:      %s\n", classified.Query)
	}
	fmt.Fprintf(out, "  candidates:\n")
	for _, candidate := range specifier.Candidates(classified, importer, snapshot.ExtensionAlias) {
		fmt.Fprintf(out, "    %s\n", candidate)
	}
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}
