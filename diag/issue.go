package diag

import "github.com/genezhang/clickgraph/location"

// Issue represents a single diagnostic issue.
//
// Issue is immutable after construction. All fields are unexported to preserve
// immutability; use accessor methods to read values. Construct Issues using
// [NewIssue] and [IssueBuilder].
//
// Direct struct literal construction bypasses validity checks and will cause
// panics when the issue is collected via [Collector.Collect].
//
// Zero-value note: The Go zero value for Severity is Fatal (value 0). When
// constructing Issue literals in tests, set severity explicitly to avoid
// unintentionally creating Fatal issues.
type Issue struct {
	span     location.Span          // source location in the schema YAML; check HasSpan() or span.IsZero()
	passName string                 // analyzer pass that raised the issue (e.g., "resolve-properties")
	fragment string                 // offending Cypher fragment or alias (e.g., "p.age", "m")
	severity Severity               // issue severity level
	code     Code                   // stable programmatic identifier
	message  string                 // human-readable description (no embedded locations)
	hint     string                 // optional resolution suggestion
	related  []location.RelatedInfo // additional locations (e.g., "previous definition here")
	details  []Detail               // additional key-value context
}

// Severity returns the issue's severity level.
func (i Issue) Severity() Severity {
	return i.severity
}

// Code returns the issue's stable programmatic identifier.
func (i Issue) Code() Code {
	return i.code
}

// Message returns the human-readable description.
//
// Messages should not contain embedded locations; use [Issue.Span],
// [Issue.PassName], and [Issue.Fragment] for location information.
func (i Issue) Message() string {
	return i.message
}

// Span returns the source location span within the schema YAML document.
//
// Span-backed issues come from catalog loading (E_MALFORMED_YAML,
// E_DUPLICATE_NODE_LABEL, and the like). Use [Issue.HasSpan] to check presence,
// or check span.IsZero() directly.
func (i Issue) Span() location.Span {
	return i.span
}

// PassName returns the name of the analyzer pass that raised the issue.
//
// This is set for plan-time issues (validation, inference, resolution,
// internal) and empty for schema-load issues, which carry a [Issue.Span]
// instead.
func (i Issue) PassName() string {
	return i.passName
}

// Fragment returns the offending Cypher fragment or alias.
//
// Examples: an unbound variable name, an "alias.property" reference, or a
// relationship type. Fragment is set alongside [Issue.PassName] for plan-time
// issues that have no source span to point at.
func (i Issue) Fragment() string {
	return i.fragment
}

// Hint returns the optional resolution suggestion.
func (i Issue) Hint() string {
	return i.hint
}

// HasSpan reports whether the issue has a non-zero span.
//
// Use this instead of manually checking Span().IsZero() for clarity.
func (i Issue) HasSpan() bool {
	return !i.span.IsZero()
}

// IsZero reports whether the issue is a zero value.
//
// A zero-value issue has no code, no message, and no provenance.
func (i Issue) IsZero() bool {
	return i.code.IsZero() && i.message == "" && i.span.IsZero() &&
		i.passName == "" && i.fragment == ""
}

// IsValid reports whether the issue has the minimum required fields set.
//
// An issue is valid if it has:
//   - A valid code (not zero)
//   - A non-empty message
//   - A valid severity (not an undefined value like Severity(255))
//
// This method exists for documentation and testing; production code using
// [IssueBuilder] never needs to call it because the builder guarantees validity.
// The severity check catches diag-internal mistakes where issues are constructed
// directly rather than via the builder pattern.
func (i Issue) IsValid() bool {
	return !i.code.IsZero() &&
		i.message != "" &&
		i.severity <= Hint // Hint (4) is the highest valid severity value
}

// IsSchemaLoadIssue reports whether the issue originates from catalog loading
// rather than plan analysis.
//
// Schema-load issues carry a source span into the schema YAML and no pass
// name; plan-time issues carry a pass name and usually no span.
func (i Issue) IsSchemaLoadIssue() bool {
	return i.HasSpan() && i.passName == ""
}

// IsPlanTimeIssue reports whether the issue originates from analyzer pass
// execution rather than catalog loading.
func (i Issue) IsPlanTimeIssue() bool {
	return i.passName != ""
}

// Related returns a copy of the related location information.
//
// Returns nil if no related info is present. The returned slice is a defensive
// copy; modifications do not affect the original issue.
//
// Ordering contract: When related locations represent an ordered sequence
// (e.g., a polymorphic resolution cycle), slice order is significant: index 0
// is the first step, index N-1 is the last. For unordered collections,
// order is arbitrary but stable.
func (i Issue) Related() []location.RelatedInfo {
	if len(i.related) == 0 {
		return nil
	}
	cp := make([]location.RelatedInfo, len(i.related))
	copy(cp, i.related)
	return cp
}

// Details returns a copy of the detail key-value pairs.
//
// Returns nil if no details are present. The returned slice is a defensive
// copy; modifications do not affect the original issue.
func (i Issue) Details() []Detail {
	if len(i.details) == 0 {
		return nil
	}
	cp := make([]Detail, len(i.details))
	copy(cp, i.details)
	return cp
}

// Clone returns a deep copy of the issue.
//
// INVARIANT: All slice element types (RelatedInfo, Detail) must not contain
// mutable reference fields (maps, slices, pointers, funcs, chans). Strings
// are permitted (immutable). If mutable reference fields are ever added to
// these types, this method must be updated to deep-copy their targets to
// preserve immutability guarantees.
func (i Issue) Clone() Issue {
	clone := i
	if len(i.related) > 0 {
		clone.related = make([]location.RelatedInfo, len(i.related))
		copy(clone.related, i.related)
	}
	if len(i.details) > 0 {
		clone.details = make([]Detail, len(i.details))
		copy(clone.details, i.details)
	}
	return clone
}
