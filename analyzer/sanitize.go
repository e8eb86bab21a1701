package analyzer

import "github.com/genezhang/clickgraph/logicalplan"

// planSanitization is §4.3 pass 18: resolve any PropertyAccess/IDAccess
// that survived every earlier pass untouched. The only place this happens
// is GraphRel.WherePredicate (and its VLP counterpart) — an inline
// relationship-pattern constraint like "[r:FOLLOWS {since: 2020}]" sits on
// the GraphRel itself rather than inside a Filter node, so FilterTagging
// (pass 7) never walks it.
//
// There is no separate Column expression type to convert into: this
// planner represents a resolved column reference with the same
// PropertyAccess node it started from, just with Property holding the
// physical column name instead of the Cypher property name (see
// filterTagging's doc comment). So "sanitizing" a PropertyAccess means
// resolving it in place exactly like every other pass does, not producing
// a new node shape.
func (r *runner) planSanitization() error {
	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		switch n := p.(type) {
		case *logicalplan.GraphRel:
			if n.WherePredicate == nil {
				return
			}
			resolved, err := r.resolveVariableReferences(n.WherePredicate)
			if err != nil {
				firstErr = err
				return
			}
			n.WherePredicate = resolved
		case *logicalplan.VlpScan:
			if n.WherePredicate == nil {
				return
			}
			resolved, err := r.resolveVariableReferences(n.WherePredicate)
			if err != nil {
				firstErr = err
				return
			}
			n.WherePredicate = resolved
		}
	})
	return firstErr
}
