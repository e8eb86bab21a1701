package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genezhang/clickgraph/diag"
)

// TestCodeEmission_AllCodes verifies that every defined code can be used
// to create a valid issue that passes through the diagnostic pipeline.
func TestCodeEmission_AllCodes(t *testing.T) {
	t.Parallel()

	codes := diag.AllCodes()
	require.NotEmpty(t, codes, "AllCodes should return all defined codes")

	for _, code := range codes {
		t.Run(code.String(), func(t *testing.T) {
			t.Parallel()

			issue := diag.NewIssue(diag.Error, code, "test message for "+code.String()).Build()

			assert.True(t, issue.IsValid(), "Issue with %s should be valid", code.String())
			assert.Equal(t, code, issue.Code())
			assert.Contains(t, issue.Message(), code.String())

			collector := diag.NewCollector(100)
			collector.Collect(issue)

			result := collector.Result()
			assert.True(t, result.HasErrors())

			foundCode := false
			for i := range result.Issues() {
				if i.Code() == code {
					foundCode = true
					break
				}
			}
			assert.True(t, foundCode, "Code %s should be present in result", code.String())
		})
	}
}

// TestCodeEmission_Categories verifies that each category has at least one code.
func TestCodeEmission_Categories(t *testing.T) {
	t.Parallel()

	categories := []diag.CodeCategory{
		diag.CategorySentinel,
		diag.CategorySchema,
		diag.CategoryValidation,
		diag.CategoryInference,
		diag.CategoryResolution,
		diag.CategoryInternal,
	}

	for _, cat := range categories {
		t.Run(cat.String(), func(t *testing.T) {
			t.Parallel()
			codes := diag.CodesByCategory(cat)
			assert.NotEmpty(t, codes, "category %s should have at least one code", cat)
			for _, c := range codes {
				assert.Equal(t, cat, c.Category())
			}
		})
	}
}

// TestCodeEmission_SchemaCodeWithoutSpanOrPass verifies that a catalog-load
// code built without WithSpan or WithPass carries no span and is not
// classified as a plan-time issue.
func TestCodeEmission_SchemaCodeWithoutSpanOrPass(t *testing.T) {
	t.Parallel()

	issue := diag.NewIssue(diag.Error, diag.E_MALFORMED_YAML, "unexpected mapping key").Build()
	assert.False(t, issue.HasSpan(), "issue built without WithSpan should have no span")
	assert.False(t, issue.IsPlanTimeIssue(), "issue built without WithPass should not be a plan-time issue")
}

// TestCodeEmission_PlanTimeCodesCarryPass verifies that analyzer-pass errors
// carry pass/fragment provenance rather than a source span.
func TestCodeEmission_PlanTimeCodesCarryPass(t *testing.T) {
	t.Parallel()

	issue := diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE, `alias "m" is not bound`).
		WithPass("resolve-properties", "m").
		Build()

	assert.True(t, issue.IsPlanTimeIssue())
	assert.Equal(t, "resolve-properties", issue.PassName())
	assert.Equal(t, "m", issue.Fragment())
	assert.False(t, issue.HasSpan())
}
