package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// cteSchemaResolver is §4.3 pass 3: every WithClause materializes as a CTE
// once rendered, so this pass pre-registers, for each of its projection
// items, the (alias, cypher property) -> CTE output column name mapping
// passes downstream of the WITH barrier will need. Naming follows the
// {alias}_{property} convention named in the pass description.
func (r *runner) cteSchemaResolver() error {
	cteCount := 0
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		w, ok := p.(*logicalplan.WithClause)
		if !ok {
			return
		}
		cteCount++
		cteName := fmt.Sprintf("cte_%d", cteCount)
		w.SetCteName(cteName)
		for _, item := range w.Items {
			alias, property, outputName := cteOutputFor(item)
			r.planCtx.RegisterCteColumn(alias, property, outputName)
			r.planCtx.BindVariable(outputName, logicalplan.VariableCte)
			r.planCtx.RegisterVariableCte(outputName, cteName)
		}
	})
	return nil
}

// cteOutputFor derives the (bound-alias, cypher-property) key and the
// physical output column name a WITH projection item will expose.
// "RETURN n.name" exposes column "n_name"; a user-assigned alias
// ("RETURN n.name AS label") exposes the alias verbatim and is keyed the
// same way so either spelling resolves downstream.
func cteOutputFor(item logicalplan.ProjectionItem) (alias, property, outputName string) {
	switch e := item.Expr.(type) {
	case cypherast.PropertyAccess:
		if ident, ok := e.Entity.(cypherast.Identifier); ok {
			alias, property = ident.Name, e.Property
		}
	case cypherast.Identifier:
		alias, property = e.Name, ""
	}
	if item.Alias != "" {
		outputName = item.Alias
	} else if property != "" {
		outputName = fmt.Sprintf("%s_%s", alias, property)
	} else {
		outputName = alias
	}
	return alias, property, outputName
}

// cteReferencePopulator is §4.3 pass 14: once CTE output columns are known
// (pass 3) and the plan tree is stable, rewrite every alias.prop access
// that resolves to a CTE-bound variable into its output column, and record
// the CTE's alias as a GraphRel.CteReferences entry so the render-plan
// builder knows which CTEs a join chain reads from.
func (r *runner) cteReferencePopulator() error {
	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		switch n := p.(type) {
		case *logicalplan.Filter:
			resolved, err := r.resolveCteAccess(n.Predicate)
			if err != nil {
				firstErr = err
				return
			}
			n.Predicate = resolved
		case *logicalplan.Projection:
			for i, item := range n.Items {
				resolved, err := r.resolveCteAccess(item.Expr)
				if err != nil {
					firstErr = err
					return
				}
				n.Items[i].Expr = resolved
			}
		case *logicalplan.GraphRel:
			if cteName, ok := r.planCtx.VariableCteName(n.LeftConnection); ok {
				n.AddCteReference(cteName)
			}
			if cteName, ok := r.planCtx.VariableCteName(n.RightConnection); ok {
				n.AddCteReference(cteName)
			}
		}
	})
	return firstErr
}

func (r *runner) resolveCteAccess(e cypherast.Expression) (cypherast.Expression, error) {
	return rewriteExpr(e, func(n cypherast.Expression) cypherast.Expression {
		prop, ok := n.(cypherast.PropertyAccess)
		if !ok {
			return n
		}
		ident, ok := prop.Entity.(cypherast.Identifier)
		if !ok || r.planCtx.VariableKind(ident.Name) != logicalplan.VariableCte {
			return n
		}
		col, ok := r.planCtx.CteColumn(ident.Name, prop.Property)
		if !ok {
			return n
		}
		return cypherast.Identifier{Name: col}
	}), nil
}
