package migrate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wayneeseguin/migrate/internal/utils/ansi"
)

// ErrorKind classifies the ways an action or a migration can fail to apply,
// per the closed MigrationError variant set.
type ErrorKind string

const (
	// MissingPath indicates a path node could not be resolved against the
	// focused value (an absent field, an index out of range, ...).
	MissingPath ErrorKind = "missing_path"

	// NoMatch indicates a Case path node focused a Variant whose case name
	// did not match the expected one, in a context where that is an error
	// rather than a silent skip.
	NoMatch ErrorKind = "no_match"

	// TypeMismatch indicates the focused value was not of the shape an
	// action or path node required (e.g. Field on a non-Record).
	TypeMismatch ErrorKind = "type_mismatch"

	// CaseRemoved indicates a RemoveCase action matched its target case.
	CaseRemoved ErrorKind = "case_removed"

	// ConversionFailed indicates a Convert expression could not coerce
	// between the requested primitive tags.
	ConversionFailed ErrorKind = "conversion_failed"

	// ImpureExpr indicates an Expr could not be constructed or evaluated
	// because it would require an opaque host-language callable.
	ImpureExpr ErrorKind = "impure_expr"

	// Incomplete indicates a strict build or validate_shape call found
	// source or target fields the migration does not cover.
	Incomplete ErrorKind = "incomplete"
)

// MigrationError is the single error type returned by the interpreter and
// the migration algebra. It always carries the path at which the failure
// occurred (empty for root-level or migration-wide failures).
type MigrationError struct {
	Kind ErrorKind
	Path string

	// ExpectedCase/ActualCase are populated for NoMatch.
	ExpectedCase string
	ActualCase   string

	// ExpectedKind/ActualKind are populated for TypeMismatch.
	ExpectedKind string
	ActualKind   string

	// CaseName is populated for CaseRemoved.
	CaseName string

	// FromTag/ToTag/Reason are populated for ConversionFailed.
	FromTag string
	ToTag   string
	Reason  string

	// MissingSourceFields/MissingTargetFields are populated for Incomplete.
	MissingSourceFields []string
	MissingTargetFields []string

	Cause error
}

func (e *MigrationError) Error() string {
	switch e.Kind {
	case MissingPath:
		return fmt.Sprintf("missing path: $.%s", e.Path)
	case NoMatch:
		return fmt.Sprintf("no match at $.%s: expected case %q, got %q", e.Path, e.ExpectedCase, e.ActualCase)
	case TypeMismatch:
		return fmt.Sprintf("type mismatch at $.%s: expected %s, got %s", e.Path, e.ExpectedKind, e.ActualKind)
	case CaseRemoved:
		return fmt.Sprintf("case removed at $.%s: %q no longer exists", e.Path, e.CaseName)
	case ConversionFailed:
		msg := fmt.Sprintf("conversion failed at $.%s: %s -> %s", e.Path, e.FromTag, e.ToTag)
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		return msg
	case ImpureExpr:
		return fmt.Sprintf("impure expression at $.%s: %s", e.Path, e.Reason)
	case Incomplete:
		return fmt.Sprintf("incomplete migration: %d missing source field(s), %d missing target field(s)",
			len(e.MissingSourceFields), len(e.MissingTargetFields))
	default:
		return fmt.Sprintf("migration error (%s) at $.%s", e.Kind, e.Path)
	}
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// WithElement returns a copy of the error with an Elements/MapKeys/MapValues
// broadcast index appended to the path, so diagnostics can pinpoint exactly
// which element of a broadcast failed.
func (e *MigrationError) WithElement(node string) *MigrationError {
	cp := *e
	if cp.Path == "" {
		cp.Path = node
	} else {
		cp.Path = cp.Path + "." + node
	}
	return &cp
}

func newMissingPath(path string) *MigrationError {
	return &MigrationError{Kind: MissingPath, Path: path}
}

func newNoMatch(path, expected, actual string) *MigrationError {
	return &MigrationError{Kind: NoMatch, Path: path, ExpectedCase: expected, ActualCase: actual}
}

func newTypeMismatch(path, expected, actual string) *MigrationError {
	return &MigrationError{Kind: TypeMismatch, Path: path, ExpectedKind: expected, ActualKind: actual}
}

func newCaseRemoved(path, name string) *MigrationError {
	return &MigrationError{Kind: CaseRemoved, Path: path, CaseName: name}
}

func newConversionFailed(path, from, to, reason string) *MigrationError {
	return &MigrationError{Kind: ConversionFailed, Path: path, FromTag: from, ToTag: to, Reason: reason}
}

func newImpureExpr(path, reason string) *MigrationError {
	return &MigrationError{Kind: ImpureExpr, Path: path, Reason: reason}
}

// NewIncomplete builds the Incomplete error a strict build or a direct call
// to ValidateShape returns when coverage does not fully span source/target.
func NewIncomplete(missingSource, missingTarget []string) *MigrationError {
	return &MigrationError{Kind: Incomplete, MissingSourceFields: missingSource, MissingTargetFields: missingTarget}
}

// MultiError aggregates several errors gathered during the same pass,
// rendered the way the teacher's
// MultiError renders operator-setup failures.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s", err))
	}
	sort.Strings(lines)
	return ansi.Sprintf("@r{%d} error(s) detected:\n%s\n", len(e.Errors), strings.Join(lines, "\n"))
}

// Count returns the number of errors aggregated so far.
func (e *MultiError) Count() int {
	return len(e.Errors)
}

// Append adds err to the aggregate, flattening nested MultiErrors and
// ignoring nil.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if mult, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, mult.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}
