package renderplan

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// rewriteExpr rebuilds e bottom-up, applying fn to every node after its
// children have already been rewritten. Mirrors the analyzer package's
// unexported helper of the same shape; cypherast.Expression has no
// general-purpose tree-rewrite of its own, and the two packages can't share
// an unexported helper across the import boundary.
func rewriteExpr(e cypherast.Expression, fn func(cypherast.Expression) cypherast.Expression) cypherast.Expression {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case cypherast.Literal, cypherast.Parameter, cypherast.Identifier:
		return fn(e)
	case cypherast.PropertyAccess:
		v.Entity = rewriteExpr(v.Entity, fn)
		return fn(v)
	case cypherast.IDAccess:
		v.Entity = rewriteExpr(v.Entity, fn)
		return fn(v)
	case cypherast.FunctionCall:
		args := make([]cypherast.Expression, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewriteExpr(a, fn)
		}
		v.Args = args
		return fn(v)
	case cypherast.BinaryOp:
		v.Left = rewriteExpr(v.Left, fn)
		v.Right = rewriteExpr(v.Right, fn)
		return fn(v)
	case cypherast.UnaryOp:
		v.Operand = rewriteExpr(v.Operand, fn)
		return fn(v)
	case cypherast.ListExpr:
		items := make([]cypherast.Expression, len(v.Items))
		for i, item := range v.Items {
			items[i] = rewriteExpr(item, fn)
		}
		v.Items = items
		return fn(v)
	case cypherast.PatternPredicate:
		return fn(v)
	default:
		return fn(e)
	}
}

// resolveNodeIDMarkers rewrites every PropertyAccess carrying
// logicalplan.NodeIDMarker into the bound alias's actual schema ID column.
// It is the last property resolution step of the whole pipeline: by render
// time every pass that could still rebind an alias (CTE materialization,
// traversal planning) has already run, so AliasLabel is final.
//
// A composite node ID has no single column; this renders it as the
// ClickHouse tuple() of its component columns, which compares and groups
// the same way a single column does but can't be ordered by meaningfully on
// its own without also specifying component order, a limitation left to the
// caller.
func (b *builder) resolveNodeIDMarkers(e cypherast.Expression) (cypherast.Expression, error) {
	if e == nil {
		return nil, nil
	}
	var firstErr error
	out := rewriteExpr(e, func(n cypherast.Expression) cypherast.Expression {
		if firstErr != nil {
			return n
		}
		prop, ok := n.(cypherast.PropertyAccess)
		if !ok || prop.Property != logicalplan.NodeIDMarker {
			return n
		}
		ident, ok := prop.Entity.(cypherast.Identifier)
		if !ok {
			return n
		}
		label, ok := b.planCtx.AliasLabel(ident.Name)
		if !ok {
			firstErr = planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
				fmt.Sprintf("no label registered for alias %q", ident.Name)).
				WithPass("render_plan_build", ident.Name).
				WithDetail(diag.DetailKeyAlias, ident.Name).Build())
			return n
		}
		node, err := b.schema.Node(catalog.Label(label))
		if err != nil {
			firstErr = err
			return n
		}
		id := node.NodeID()
		if id.Kind() == catalog.NodeIDSingle {
			return cypherast.PropertyAccess{Entity: ident, Property: id.Column()}
		}
		return cypherast.FunctionCall{
			Name: "tuple",
			Args: columnRefs(ident, id.Columns()),
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func columnRefs(entity cypherast.Identifier, columns []string) []cypherast.Expression {
	out := make([]cypherast.Expression, len(columns))
	for i, c := range columns {
		out[i] = cypherast.PropertyAccess{Entity: entity, Property: c}
	}
	return out
}
