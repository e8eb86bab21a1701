package planerr

import (
	"errors"
	"fmt"

	"github.com/genezhang/clickgraph/diag"
)

// Kind names one of the five planning-error categories. Kind mirrors
// diag.CodeCategory but excludes CategorySentinel: every PlanError wraps an
// issue raised against a real failure, never a bookkeeping sentinel.
type Kind uint8

const (
	SchemaErrorKind Kind = iota
	ValidationErrorKind
	InferenceErrorKind
	ResolutionErrorKind
	InternalErrorKind
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case SchemaErrorKind:
		return "SchemaError"
	case ValidationErrorKind:
		return "ValidationError"
	case InferenceErrorKind:
		return "InferenceError"
	case ResolutionErrorKind:
		return "ResolutionError"
	case InternalErrorKind:
		return "InternalError"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// kindForCategory maps a diag.Code's category to its planning-error kind.
// Panics on CategorySentinel: sentinel codes (E_LIMIT_REACHED) never back a
// PlanError.
func kindForCategory(cat diag.CodeCategory) Kind {
	switch cat {
	case diag.CategorySchema:
		return SchemaErrorKind
	case diag.CategoryValidation:
		return ValidationErrorKind
	case diag.CategoryInference:
		return InferenceErrorKind
	case diag.CategoryResolution:
		return ResolutionErrorKind
	case diag.CategoryInternal:
		return InternalErrorKind
	default:
		panic(fmt.Sprintf("planerr: no planning-error kind for category %s", cat))
	}
}

// PlanError is a planning failure: a kind, the diag.Issue that describes it,
// and (for SchemaError/ValidationError/InferenceError/ResolutionError) no
// further recovery path. InternalError additionally indicates a broken
// invariant in this codebase rather than a problem with the input query.
type PlanError struct {
	kind  Kind
	issue diag.Issue
}

// New wraps issue in a PlanError, deriving its Kind from the issue's code
// category. Panics if issue is a sentinel-coded issue (E_LIMIT_REACHED),
// which never represents an aborting planning failure.
func New(issue diag.Issue) *PlanError {
	return &PlanError{kind: kindForCategory(issue.Code().Category()), issue: issue}
}

// Kind returns the planning-error category.
func (e *PlanError) Kind() Kind { return e.kind }

// Issue returns the underlying diagnostic.
func (e *PlanError) Issue() diag.Issue { return e.issue }

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.issue.PassName() != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.kind, e.issue.Code(), e.issue.PassName(), e.issue.Message())
	}
	return fmt.Sprintf("%s: %s: %s", e.kind, e.issue.Code(), e.issue.Message())
}

// Is supports errors.Is against the sentinel Kind values
// (SchemaErrorKind, etc. do not implement error themselves, so match via
// the exported IsKind helper instead; Is here only supports unwrapping to
// a plain PlanError for errors.As).
func (e *PlanError) Is(target error) bool {
	var other *PlanError
	if errors.As(target, &other) {
		return e.kind == other.kind
	}
	return false
}

// IsKind reports whether err is a *PlanError of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *PlanError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.kind == kind
}

// SchemaError wraps a catalog-lookup failure: unknown label, missing
// relationship composite key, polymorphic wildcard with no matches.
func SchemaError(issue diag.Issue) *PlanError { return &PlanError{kind: SchemaErrorKind, issue: issue} }

// ValidationError wraps a structural violation: directed edge against
// schema, non-transitive VLP, zero-length path, composite-key mismatch.
func ValidationError(issue diag.Issue) *PlanError {
	return &PlanError{kind: ValidationErrorKind, issue: issue}
}

// InferenceError wraps an analyzer ambiguity: untyped pattern expansion
// exceeding the combination limit, unresolved direction ambiguity.
func InferenceError(issue diag.Issue) *PlanError {
	return &PlanError{kind: InferenceErrorKind, issue: issue}
}

// ResolutionError wraps a variable/property/CTE-column lookup failure once
// the plan shape is otherwise valid.
func ResolutionError(issue diag.Issue) *PlanError {
	return &PlanError{kind: ResolutionErrorKind, issue: issue}
}

// InternalError wraps a broken invariant: duplicate CTE name, missing
// PatternSchemaContext, an unhandled LogicalPlan variant.
func InternalError(issue diag.Issue) *PlanError {
	return &PlanError{kind: InternalErrorKind, issue: issue}
}
