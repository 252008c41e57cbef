// Package diag carries resolution diagnostics between the core and the host's
// diagnostic channel. Every record and error carries a stable machine-readable
// code so tooling can tell "cannot find module" apart from other failures.
package diag

import (
	"os"

	"github.com/charmbracelet/log"
)

const (
	CodeUnresolvedImport = "UNRESOLVED_IMPORT"
	CodePreferBuiltins   = "PREFER_BUILTINS_ADVISORY"
	CodeEngineDiagnostic = "ENGINE_DIAGNOSTIC"
	CodeInvalidConfig    = "INVALID_CONFIG"
)

// Record is one non-fatal diagnostic emitted during resolution.
type Record struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Specifier string `json:"specifier,omitempty"`
	Importer  string `json:"importer,omitempty"`
}

// Reporter receives non-fatal diagnostics. The host supplies its own channel;
// Default falls back to structured logging on stderr.
type Reporter interface {
	Warn(record Record)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Record)

func (f ReporterFunc) Warn(record Record) {
	f(record)
}

// Default returns a Reporter backed by a leveled stderr logger.
func Default() Reporter {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "noderesolve",
	})
	return &logReporter{logger: logger}
}

type logReporter struct {
	logger *log.Logger
}

func (r *logReporter) Warn(record Record) {
	keyvals := []interface{}{"code", record.Code}
	if record.Specifier != "" {
		keyvals = append(keyvals, "specifier", record.Specifier)
	}
	if record.Importer != "" {
		keyvals = append(keyvals, "importer", record.Importer)
	}
	r.logger.Warn(record.Message, keyvals...)
}

// Error is a build-aborting failure with a stable classification code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds a coded Error.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}
