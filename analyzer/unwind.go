package analyzer

import (
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// unwindTupleEnricher is §4.3 pass 15. When a WITH clause packs several
// columns into a list before handing it to UNWIND ("WITH collect([a.x,
// a.y]) AS pairs ... UNWIND pairs AS pair"), the Unwind node has no way on
// its own to know pair is really an N-tuple rather than a scalar list.
// This pass scans every WithClause for that shape and records the tuple
// width on any Unwind downstream that consumes the same name, so
// UnwindPropertyRewriter (pass 19) can later turn "pair.x" into positional
// tuple access.
//
// CollectUnwindElimination — folding a no-op "collect(x) ... UNWIND" round
// trip back into its pre-aggregation input — is not implemented: doing it
// correctly requires rewriting every reference to the UNWIND alias in the
// (potentially distant) surrounding tree, not just the Unwind node itself,
// and the query still produces correct results without the optimization.
func (r *runner) unwindTupleEnricher() error {
	tupleArity := map[string]int{}
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		w, ok := p.(*logicalplan.WithClause)
		if !ok {
			return
		}
		for _, item := range w.Items {
			fn, ok := item.Expr.(cypherast.FunctionCall)
			if !ok || fn.Name != "collect" || len(fn.Args) != 1 {
				continue
			}
			list, ok := fn.Args[0].(cypherast.ListExpr)
			if !ok || len(list.Items) < 2 {
				continue
			}
			name := item.Alias
			if name == "" {
				name = "collect"
			}
			tupleArity[name] = len(list.Items)
		}
	})
	if len(tupleArity) == 0 {
		return nil
	}
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		u, ok := p.(*logicalplan.Unwind)
		if !ok {
			return
		}
		ident, ok := u.Expr.(cypherast.Identifier)
		if !ok {
			return
		}
		if arity, ok := tupleArity[ident.Name]; ok {
			u.TupleArity = arity
		}
	})
	return nil
}
