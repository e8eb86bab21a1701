package analyzer

import (
	"github.com/genezhang/clickgraph/diag"
)

// newIssue builds a minimal internal-category issue tagged with the failing
// pass name. Passes that have a more specific diag.Code (schema,
// validation, inference, resolution) build their own diag.Issue directly
// and wrap it with the matching planerr constructor instead of calling
// this; newIssue exists for the handful of failure paths — cancellation,
// truly-unreachable default arms — that have no more specific category.
func newIssue(passName, message string) diag.Issue {
	return diag.NewIssue(diag.Error, diag.E_INTERNAL, message).
		WithPass(passName, "").
		Build()
}

// unhandledVariant builds the issue a closed-sum-type switch's default arm
// reports, per §9's "default: panic" guidance generalized to a recoverable
// planning error instead of a panic, since an unhandled variant reached
// through a Cypher query (as opposed to a programming bug in this package)
// should surface to the caller as a structured error, not crash the
// process planning someone else's query.
func unhandledVariant(passName string, plan interface {
	Op() string
}) diag.Issue {
	return diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
		"unhandled plan node variant: "+plan.Op()).
		WithPass(passName, "").
		Build()
}
