package analyzer

import (
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// propertyRequirementsAnalyzer is §4.3 pass 17: record, for every alias,
// which physical columns the query actually reads, so the render-plan
// builder can select only those columns off each scan instead of `SELECT
// *`. By this point every alias.prop access still standing has already
// been resolved to its physical column name (FilterTagging,
// VariableResolver, CteReferencePopulator), except inside an inline
// relationship predicate (GraphRel/VlpScan.WherePredicate), which
// PlanSanitization resolves only afterwards in pass 18, so reads there are
// recorded under their Cypher property name. A single forward sweep over
// every expression-bearing node collecting PropertyAccess occurrences
// yields the same result a backward flow would: the set read is the set
// read, independent of which direction the tree is walked.
func (r *runner) propertyRequirementsAnalyzer() error {
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		for _, e := range expressionsOf(p) {
			r.recordPropertyReads(e)
		}
	})
	return nil
}

// expressionsOf returns every top-level expression a plan node carries, so
// callers can walk them uniformly without a type switch per consumer.
func expressionsOf(p logicalplan.LogicalPlan) []cypherast.Expression {
	switch n := p.(type) {
	case *logicalplan.Filter:
		return []cypherast.Expression{n.Predicate}
	case *logicalplan.Projection:
		exprs := make([]cypherast.Expression, len(n.Items))
		for i, item := range n.Items {
			exprs[i] = item.Expr
		}
		return exprs
	case *logicalplan.GroupBy:
		return n.Keys
	case *logicalplan.OrderBy:
		exprs := make([]cypherast.Expression, len(n.Items))
		for i, item := range n.Items {
			exprs[i] = item.Expr
		}
		return exprs
	case *logicalplan.WithClause:
		exprs := make([]cypherast.Expression, 0, len(n.Items)+len(n.Sort)+1)
		for _, item := range n.Items {
			exprs = append(exprs, item.Expr)
		}
		for _, item := range n.Sort {
			exprs = append(exprs, item.Expr)
		}
		if n.Where != nil {
			exprs = append(exprs, n.Where)
		}
		return exprs
	case *logicalplan.GraphRel:
		if n.WherePredicate != nil {
			return []cypherast.Expression{n.WherePredicate}
		}
	case *logicalplan.VlpScan:
		if n.WherePredicate != nil {
			return []cypherast.Expression{n.WherePredicate}
		}
	case *logicalplan.GraphJoins:
		return n.CorrelationPredicates
	}
	return nil
}

func (r *runner) recordPropertyReads(e cypherast.Expression) {
	if e == nil {
		return
	}
	walkExpr(e, func(n cypherast.Expression) {
		prop, ok := n.(cypherast.PropertyAccess)
		if !ok {
			return
		}
		if ident, ok := prop.Entity.(cypherast.Identifier); ok {
			r.planCtx.RequireProperty(ident.Name, prop.Property)
		}
	})
}
