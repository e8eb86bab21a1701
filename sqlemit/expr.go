// Package sqlemit is §4.5: the final stage turning a renderplan.RenderPlan
// into SQL text. It has no knowledge of Cypher; everything it renders is
// already the flat, column-resolved shape renderplan produced.
package sqlemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/internal/textlit"
	"github.com/genezhang/clickgraph/renderplan"
)

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "!=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"AND": true, "OR": true, "LIKE": true, "IN": true,
}

// renderExpr serializes expr as SQL text, table-prefixing every column
// reference (§4.5's invariant that every column in emitted SQL carries its
// table/CTE alias, never a bare name that could be ambiguous across a JOIN).
func renderExpr(b *strings.Builder, expr cypherast.Expression) error {
	switch e := expr.(type) {
	case cypherast.Literal:
		return renderLiteral(b, e.Val)
	case cypherast.Parameter:
		b.WriteByte('{')
		b.WriteString(e.Name)
		b.WriteString(":String}")
		return nil
	case cypherast.Identifier:
		b.WriteString(e.Name)
		return nil
	case cypherast.PropertyAccess:
		return renderPropertyAccess(b, e)
	case cypherast.IDAccess:
		return fmt.Errorf("sqlemit: unresolved id()/elementId() access on %v reached the emitter", e.Entity)
	case cypherast.FunctionCall:
		return renderFunctionCall(b, e)
	case cypherast.BinaryOp:
		return renderBinaryOp(b, e)
	case cypherast.UnaryOp:
		return renderUnaryOp(b, e)
	case cypherast.ListExpr:
		return renderListExpr(b, e)
	case cypherast.PatternPredicate:
		return fmt.Errorf("sqlemit: pattern predicates must be lowered to EXISTS subqueries before emission")
	default:
		return fmt.Errorf("sqlemit: cannot render expression of type %T", expr)
	}
}

func renderPropertyAccess(b *strings.Builder, p cypherast.PropertyAccess) error {
	ident, ok := p.Entity.(cypherast.Identifier)
	if !ok {
		return fmt.Errorf("sqlemit: property access entity must be a resolved alias, got %T", p.Entity)
	}
	b.WriteString(ident.Name)
	b.WriteByte('.')
	b.WriteString(p.Property)
	return nil
}

// renderLiteral formats a Go runtime value as a SQL literal. This does not
// consult catalog.SchemaType: by the time a literal reaches renderplan, its
// comparison site only carries a physical column name, with no retained
// mapping back to the Cypher property (and hence SchemaType) that produced
// it, so dialect-specific formatting (toDateTime(...), toUUID(...)) is left
// to whatever cast the schema's property mapping already wraps the column in
// (see catalog.PropertyValue).
func renderLiteral(b *strings.Builder, val any) error {
	switch v := val.(type) {
	case nil:
		b.WriteString("NULL")
	case string:
		b.WriteString(textlit.QuoteSQLString(v))
	case bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case int:
		b.WriteString(strconv.Itoa(v))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return fmt.Errorf("sqlemit: cannot render literal of type %T", val)
	}
	return nil
}

func renderFunctionCall(b *strings.Builder, f cypherast.FunctionCall) error {
	// allShortestPaths() wrapping: renderplan synthesizes this sentinel call
	// around the single column it wants MIN'd over the whole CTE; render it
	// as a real scalar subquery instead of a bare aggregate call.
	if f.Name == renderplan.ScalarMinSubqueryFunc && len(f.Args) == 1 {
		prop, ok := f.Args[0].(cypherast.PropertyAccess)
		ident, identOk := prop.Entity.(cypherast.Identifier)
		if !ok || !identOk {
			return fmt.Errorf("sqlemit: %s expects a single table-qualified column, got %v", renderplan.ScalarMinSubqueryFunc, f.Args)
		}
		b.WriteString("(SELECT MIN(")
		b.WriteString(prop.Property)
		b.WriteString(") FROM ")
		b.WriteString(ident.Name)
		b.WriteByte(')')
		return nil
	}
	b.WriteString(sqlFunctionName(f.Name))
	b.WriteByte('(')
	if f.Distinct {
		b.WriteString("DISTINCT ")
	}
	for i, arg := range f.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		// projection_tagging (analyzer pass 9) rewrites a non-DISTINCT
		// count(n) into count(Literal{"*"}) as a row-counting sentinel, not
		// a string argument; render it as the bare "*" SQL needs.
		if lit, ok := arg.(cypherast.Literal); ok && f.Name == "count" && lit.Val == "*" {
			b.WriteByte('*')
			continue
		}
		if err := renderExpr(b, arg); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

// sqlFunctionName maps a handful of Cypher built-ins with no identical SQL
// name onto their ClickHouse equivalent; anything else passes through
// unchanged (toUpper, toLower, and most scalar functions already share a
// name or are pre-mapped by the property layer).
func sqlFunctionName(name string) string {
	switch name {
	case "count", "sum", "avg", "min", "max":
		return name
	case "collect":
		return "groupArray"
	case "stDev":
		return "stddevPop"
	case "percentileCont":
		return "quantile"
	case "percentileDisc":
		return "quantileExact"
	case "toUpper":
		return "upper"
	case "toLower":
		return "lower"
	case "size", "length":
		return "length"
	default:
		return name
	}
}

func renderBinaryOp(b *strings.Builder, op cypherast.BinaryOp) error {
	sqlOp := op.Op_
	if sqlOp == "=" {
		// Cypher's "=" and SQL's "=" already agree; kept explicit since a
		// future dialect-specific NULL-handling rewrite would hook in here.
	}
	if err := renderOperand(b, op.Left); err != nil {
		return err
	}
	b.WriteByte(' ')
	b.WriteString(sqlOp)
	b.WriteByte(' ')
	return renderOperand(b, op.Right)
}

// renderOperand wraps a nested binary/unary expression in parens to preserve
// precedence; leaves, property accesses, and function calls never need them.
func renderOperand(b *strings.Builder, expr cypherast.Expression) error {
	needsParens := false
	switch e := expr.(type) {
	case cypherast.BinaryOp:
		needsParens = binaryOps[e.Op_]
	case cypherast.UnaryOp:
		needsParens = true
	}
	if !needsParens {
		return renderExpr(b, expr)
	}
	b.WriteByte('(')
	if err := renderExpr(b, expr); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}

func renderUnaryOp(b *strings.Builder, op cypherast.UnaryOp) error {
	switch op.Op_ {
	case "NOT":
		b.WriteString("NOT ")
		return renderOperand(b, op.Operand)
	case "-":
		b.WriteByte('-')
		return renderOperand(b, op.Operand)
	case "IS NULL", "IS NOT NULL":
		if err := renderOperand(b, op.Operand); err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(op.Op_)
		return nil
	default:
		return fmt.Errorf("sqlemit: unknown unary operator %q", op.Op_)
	}
}

func renderListExpr(b *strings.Builder, l cypherast.ListExpr) error {
	b.WriteByte('[')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := renderExpr(b, item); err != nil {
			return err
		}
	}
	b.WriteByte(']')
	return nil
}

// RenderExpr is the exported entry point for rendering one standalone
// expression, used directly by tests and by emit.go's column/predicate/sort
// rendering.
func RenderExpr(expr cypherast.Expression) (string, error) {
	var b strings.Builder
	if err := renderExpr(&b, expr); err != nil {
		return "", err
	}
	return b.String(), nil
}
