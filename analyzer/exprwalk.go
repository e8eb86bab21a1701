package analyzer

import "github.com/genezhang/clickgraph/cypherast"

// rewriteExpr rebuilds e bottom-up, applying fn to every node after its
// children have already been rewritten. cypherast.Expression is a closed
// sum type with no general-purpose tree-rewrite helper of its own (unlike
// logicalplan, which has Rewrite), so passes that resolve property access
// or decode id() calls go through this instead.
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

// walkExpr visits every node of e, parent last, without rebuilding it.
func walkExpr(e cypherast.Expression, visit func(cypherast.Expression)) {
	if e == nil {
		return
	}
	for _, c := range e.Children() {
		walkExpr(c, visit)
	}
	visit(e)
}
