package analyzer

import (
	"fmt"
	"strconv"

	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// unwindPropertyRewriter is §4.3 pass 19: validate every "alias.prop"
// access against the tuple-arity metadata UnwindTupleEnricher (pass 15)
// attached to an Unwind node. Cypher has no named-field syntax for a
// positional tuple, so a property access on an unwound tuple variable is
// already written as a small-integer index ("pair.0", "pair.1"); this pass
// just confirms the index is in range for the tuple width pass 15
// recorded, rather than producing a new expression shape — an in-range
// numeric PropertyAccess already is the positional access form the SQL
// emitter renders directly.
func (r *runner) unwindPropertyRewriter() error {
	tupleVars := map[string]int{}
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		u, ok := p.(*logicalplan.Unwind)
		if !ok || u.TupleArity == 0 {
			return
		}
		tupleVars[u.As] = u.TupleArity
	})
	if len(tupleVars) == 0 {
		return nil
	}

	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		for _, e := range expressionsOf(p) {
			if e == nil || firstErr != nil {
				continue
			}
			walkExpr(e, func(n cypherast.Expression) {
				if firstErr != nil {
					return
				}
				prop, ok := n.(cypherast.PropertyAccess)
				if !ok {
					return
				}
				ident, ok := prop.Entity.(cypherast.Identifier)
				if !ok {
					return
				}
				arity, ok := tupleVars[ident.Name]
				if !ok {
					return
				}
				idx, err := strconv.Atoi(prop.Property)
				if err != nil || idx < 0 || idx >= arity {
					firstErr = planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_UNHANDLED_VARIANT,
						fmt.Sprintf("unwound tuple %q has no positional field %q", ident.Name, prop.Property)).
						WithPass("unwind_property_rewriter", ident.Name).Build())
				}
			})
		}
	})
	return firstErr
}
