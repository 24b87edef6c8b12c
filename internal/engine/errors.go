// Package engine orchestrates one dump run: attach, read names and
// objects, fix class sizes, build packages, solve the reference graph,
// render. Grounded on original_source/Dumper/dumper.cpp's Dumper::Init
// and Dumper::Dump control flow, restructured around an explicit,
// read-only-after-construction Context the way
// golang-debug/internal/gocore.Process aggregates its own dependencies
// into one struct built once by gocore.Core.
package engine

import (
	"errors"
	"fmt"
)

// The sentinel errors of spec.md §7's taxonomy (its two anomaly kinds are
// the AnomalyKind values below). EnvironmentError and ConfigError are
// fatal and stop the run. IoError is returned when the output directory,
// NamesDump.txt, ObjectsDump.txt, the SDK directory or SDK.h cannot be
// created or written, and that ends the run; a package whose own files
// fail to write is only listed in Result.UnsavedPackages, and the run
// goes on with no IoError for it.
// ReflectionError wraps a single failed typed read, already absorbed by
// internal/remote/internal/model returning zero values, and only
// surfaces here if a caller chooses to treat one as fatal.
var (
	EnvironmentError = errors.New("engine: environment error")
	ConfigError      = errors.New("engine: config error")
	IoError          = errors.New("engine: io error")
	ReflectionError  = errors.New("engine: reflection error")
)

// Exit codes, mirroring spec.md §6's CLI contract and
// viewcore/main.go's command-to-exit-code lookup table shape.
const (
	ExitSuccess = 0
	ExitHelp    = 1

	ExitWindowNotFound     = 2
	ExitProcessNotFound    = 3
	ExitReaderError        = 4
	ExitCannotGetProcName  = 5
	ExitModuleNotFound     = 6
	ExitCannotReadImage    = 7
	ExitEngineNotSupported = 8
	ExitFileNotOpen        = 9
	ExitZeroPackages       = 10
)

// ExitCode maps a returned error to the process exit code spec.md §6
// requires, the same table-lookup shape as viewcore/main.go's per-command
// exit mapping. A nil error (success) maps to ExitSuccess.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrZeroPackages):
		return ExitZeroPackages
	case errors.Is(err, ErrWindowNotFound):
		return ExitWindowNotFound
	case errors.Is(err, ErrProcessNotFound):
		return ExitProcessNotFound
	case errors.Is(err, ErrCannotGetProcName):
		return ExitCannotGetProcName
	case errors.Is(err, ErrModuleNotFound):
		return ExitModuleNotFound
	case errors.Is(err, ErrCannotReadImage):
		return ExitCannotReadImage
	case errors.Is(err, ConfigError):
		return ExitEngineNotSupported
	case errors.Is(err, IoError):
		return ExitFileNotOpen
	case errors.Is(err, EnvironmentError):
		return ExitReaderError
	default:
		return ExitReaderError
	}
}

// Sentinels for the specific EnvironmentError causes spec.md §6 lists
// by name, each wrapping EnvironmentError so a caller can match on
// either the specific cause or the broad category.
var (
	ErrWindowNotFound    = fmt.Errorf("target process not found: %w", EnvironmentError)
	ErrProcessNotFound   = fmt.Errorf("target pid could not be resolved: %w", EnvironmentError)
	ErrCannotGetProcName = fmt.Errorf("could not read process name: %w", EnvironmentError)
	ErrModuleNotFound    = fmt.Errorf("main module not found: %w", EnvironmentError)
	ErrCannotReadImage   = fmt.Errorf("could not read module image: %w", EnvironmentError)
	ErrZeroPackages      = fmt.Errorf("no packages survived object enumeration: %w", EnvironmentError)
)

// Anomaly is a non-fatal, recorded condition: ShapeAnomaly (a member's
// offset fell below its struct's inherited region, or resolved to zero
// size) or NameAnomaly (invalid UTF-8, an empty name, a keyword
// collision needing a suffix). Anomalies are data, not errors -- they
// never stop a run, matching spec.md §7's "rewritten/commented in
// place, nothing retried" handling and the teacher's own p.warnings
// []string pattern on core.Process for conditions worth surfacing but
// not worth failing on.
type Anomaly struct {
	Kind    AnomalyKind
	Subject string // a full name, member name, or similar identifying string
	Detail  string
}

// AnomalyKind distinguishes the two soft conditions spec.md §7 names.
type AnomalyKind int

const (
	ShapeAnomaly AnomalyKind = iota
	NameAnomaly
)

func (a Anomaly) String() string {
	kind := "shape"
	if a.Kind == NameAnomaly {
		kind = "name"
	}
	return fmt.Sprintf("%s anomaly: %s (%s)", kind, a.Subject, a.Detail)
}
