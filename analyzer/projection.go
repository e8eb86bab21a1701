package analyzer

import (
	"sort"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// projectionTagging is §4.3 pass 9: expand "RETURN *" to one projection
// item per currently bound alias (sorted for deterministic output), and
// decide count(n) semantics — count(n), non-DISTINCT, counts rows and so
// becomes count(*); count(DISTINCT n) counts distinct entities and so
// becomes count(DISTINCT n.{id_column}).
func (r *runner) projectionTagging() error {
	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		proj, ok := p.(*logicalplan.Projection)
		if !ok {
			return
		}
		items, err := r.expandStar(proj.Items)
		if err != nil {
			firstErr = err
			return
		}
		for i, item := range items {
			rewritten, err := r.tagCountSemantics(item.Expr)
			if err != nil {
				firstErr = err
				return
			}
			items[i].Expr = rewritten
		}
		proj.Items = items
	})
	return firstErr
}

func (r *runner) expandStar(items []logicalplan.ProjectionItem) ([]logicalplan.ProjectionItem, error) {
	hasStar := false
	for _, item := range items {
		if item.IsStar {
			hasStar = true
			break
		}
	}
	if !hasStar {
		return items, nil
	}

	aliases := r.planCtx.BoundAliases()
	sort.Strings(aliases)

	expanded := make([]logicalplan.ProjectionItem, 0, len(items)-1+len(aliases))
	for _, item := range items {
		if item.IsStar {
			for _, alias := range aliases {
				expanded = append(expanded, logicalplan.ProjectionItem{Expr: cypherast.Identifier{Name: alias}})
			}
			continue
		}
		expanded = append(expanded, item)
	}
	return expanded, nil
}

func (r *runner) tagCountSemantics(e cypherast.Expression) (cypherast.Expression, error) {
	var firstErr error
	out := rewriteExpr(e, func(n cypherast.Expression) cypherast.Expression {
		if firstErr != nil {
			return n
		}
		fn, ok := n.(cypherast.FunctionCall)
		if !ok || fn.Name != "count" || len(fn.Args) != 1 {
			return n
		}
		ident, ok := fn.Args[0].(cypherast.Identifier)
		if !ok {
			return n
		}
		if !fn.Distinct {
			return cypherast.FunctionCall{Name: "count", Args: []cypherast.Expression{cypherast.Literal{Val: "*"}}}
		}
		label, ok := r.planCtx.AliasLabel(ident.Name)
		if !ok {
			return n
		}
		schema, err := r.schema.Node(catalog.Label(label))
		if err != nil {
			firstErr = planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
				"unknown node label in count(DISTINCT ...)").
				WithPass("projection_tagging", ident.Name).
				WithDetail(diag.DetailKeyLabel, label).Build())
			return n
		}
		idCol := schema.NodeID().Column()
		return cypherast.FunctionCall{Name: "count", Distinct: true,
			Args: []cypherast.Expression{cypherast.PropertyAccess{Entity: ident, Property: idCol}}}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// groupByBuilding is §4.3 pass 10: when a Projection or WithClause mixes
// aggregate and non-aggregate expressions, synthesize a GroupBy over the
// non-aggregate ones, the set SQL requires appear in GROUP BY for a valid
// aggregate query. WITH needs the same treatment as RETURN since it is
// itself a projection barrier ("WITH n, count(r) AS c" groups by n exactly
// like "RETURN n, count(r) AS c" would).
func (r *runner) groupByBuilding() error {
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		switch n := p.(type) {
		case *logicalplan.Projection:
			if keys, ok := aggregateGroupKeys(n.Items); ok {
				n.Child = &logicalplan.GroupBy{Child: n.Child, Keys: keys}
			}
			return n
		case *logicalplan.WithClause:
			if keys, ok := aggregateGroupKeys(n.Items); ok {
				n.Child = &logicalplan.GroupBy{Child: n.Child, Keys: keys}
			}
			return n
		default:
			return p
		}
	})
	return nil
}

// aggregateGroupKeys reports the non-aggregate expressions of items that
// need a GROUP BY, and whether any aggregate was present at all (ok is
// false when there is nothing to group, whether because no item aggregates
// or because every item does).
func aggregateGroupKeys(items []logicalplan.ProjectionItem) (keys []cypherast.Expression, ok bool) {
	hasAggregate := false
	for _, item := range items {
		if containsAggregate(item.Expr) {
			hasAggregate = true
			continue
		}
		keys = append(keys, item.Expr)
	}
	return keys, hasAggregate && len(keys) > 0
}

func containsAggregate(e cypherast.Expression) bool {
	found := false
	walkExpr(e, func(n cypherast.Expression) {
		if fn, ok := n.(cypherast.FunctionCall); ok && fn.IsAggregate() {
			found = true
		}
	})
	return found
}
