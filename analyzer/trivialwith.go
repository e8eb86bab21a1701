package analyzer

import (
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// trivialWithElimination is §4.3 pass 16: drop a WITH clause that only
// forwards bound variables unchanged ("WITH a, b"), with no DISTINCT,
// WHERE, ORDER BY, SKIP or LIMIT of its own.
//
// This is safe to run this late, after CteReferencePopulator has already
// resolved references through it, because a bare-identifier WITH item
// never produces a usable per-property CTE column mapping in the first
// place: CteSchemaResolver's cteOutputFor only fills in a (alias,
// property) -> column entry when the item carries a property access or an
// explicit alias. "WITH a" registers (a, "") -> "a", which "a.prop"
// lookups never hit. So any a.prop access downstream of a trivial WITH was
// left untouched by CteReferencePopulator, still naming the original
// scan-bound alias — exactly what splicing the WithClause back out here
// restores.
func (r *runner) trivialWithElimination() error {
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		w, ok := p.(*logicalplan.WithClause)
		if !ok || !isTrivialForward(w) {
			return p
		}
		return w.Child
	})
	return nil
}

func isTrivialForward(w *logicalplan.WithClause) bool {
	if w.Distinct || w.Where != nil || len(w.Sort) != 0 || w.SkipCount != nil || w.LimitCount != nil {
		return false
	}
	for _, item := range w.Items {
		if item.Alias != "" {
			return false
		}
		if _, ok := item.Expr.(cypherast.Identifier); !ok {
			return false
		}
	}
	return true
}
