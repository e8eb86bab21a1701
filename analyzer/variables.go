package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// variableResolver is §4.3 pass 13: resolve every remaining scan-bound
// alias.prop access outside of WHERE (FilterTagging already handled WHERE
// in pass 7) into its physical column, and reject any alias that resolves
// to neither a scan nor a CTE output column. CTE-bound aliases are left
// untouched here; CteReferencePopulator (pass 14) rewrites those once it
// runs, honoring the forward-resolution rule: a property access downstream
// of a WITH barrier always resolves through the CTE's exported columns,
// never by reaching back into the pre-WITH scan it was built from.
func (r *runner) variableResolver() error {
	// UNWIND introduces its row variable directly from parsing, with no
	// earlier pass registering it; bind it here, before resolution runs, so
	// an access like "pair.0" isn't mistaken for an out-of-scope alias.
	// Resolving what the access means (positional tuple field vs. opaque
	// map/list element) is UnwindPropertyRewriter's job (pass 19), so a row
	// variable is left untouched here the same way a CTE-bound one is.
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if u, ok := p.(*logicalplan.Unwind); ok && u.As != "" {
			r.planCtx.BindVariable(u.As, logicalplan.VariableRow)
		}
	})

	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		switch n := p.(type) {
		case *logicalplan.WithClause:
			if n.Where != nil {
				if resolved, err := r.resolveVariableReferences(n.Where); err != nil {
					firstErr = err
				} else {
					n.Where = resolved
				}
			}
			for i, item := range n.Sort {
				resolved, err := r.resolveVariableReferences(item.Expr)
				if err != nil {
					firstErr = err
					return
				}
				n.Sort[i].Expr = resolved
			}
		case *logicalplan.Projection:
			for i, item := range n.Items {
				resolved, err := r.resolveVariableReferences(item.Expr)
				if err != nil {
					firstErr = err
					return
				}
				n.Items[i].Expr = resolved
			}
		case *logicalplan.OrderBy:
			for i, item := range n.Items {
				resolved, err := r.resolveVariableReferences(item.Expr)
				if err != nil {
					firstErr = err
					return
				}
				n.Items[i].Expr = resolved
			}
		case *logicalplan.GroupBy:
			for i, key := range n.Keys {
				resolved, err := r.resolveVariableReferences(key)
				if err != nil {
					firstErr = err
					return
				}
				n.Keys[i] = resolved
			}
		}
	})
	return firstErr
}

func (r *runner) resolveVariableReferences(e cypherast.Expression) (cypherast.Expression, error) {
	if e == nil {
		return nil, nil
	}
	var firstErr error
	out := rewriteExpr(e, func(n cypherast.Expression) cypherast.Expression {
		if firstErr != nil {
			return n
		}
		switch v := n.(type) {
		case cypherast.IDAccess:
			ident, ok := v.Entity.(cypherast.Identifier)
			if !ok {
				return n
			}
			return cypherast.PropertyAccess{Entity: ident, Property: nodeIDMarker}
		case cypherast.PropertyAccess:
			ident, ok := v.Entity.(cypherast.Identifier)
			if !ok {
				return n
			}
			switch r.planCtx.VariableKind(ident.Name) {
			case logicalplan.VariableScan:
				col, err := r.resolveScanColumn(ident.Name, v.Property)
				if err != nil {
					firstErr = err
					return n
				}
				return cypherast.PropertyAccess{Entity: ident, Property: col}
			case logicalplan.VariableCte, logicalplan.VariableRow:
				return n
			default:
				firstErr = planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
					fmt.Sprintf("variable %q is not in scope", ident.Name)).
					WithPass("variable_resolver", ident.Name).
					WithDetail(diag.DetailKeyAlias, ident.Name).Build())
				return n
			}
		default:
			return n
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
