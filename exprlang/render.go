package exprlang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genezhang/clickgraph/internal/textlit"
)

// AliasResolver rewrites a column's table alias immediately before rendering,
// letting a single parsed Expression be reused against different table
// aliases in a rendered plan (e.g., the same relationship filter applied to
// both directions of an undirected pattern).
type AliasResolver func(alias, property string) string

// Render serializes expr back to SQL text. resolve is called for every
// Column node to produce the qualified column reference; pass nil to render
// columns as stored ("alias.property" or bare "property").
func Render(expr Expression, resolve AliasResolver) (string, error) {
	var b strings.Builder
	if err := render(&b, expr, resolve); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, expr Expression, resolve AliasResolver) error {
	switch e := expr.(type) {
	case Column:
		if resolve != nil {
			b.WriteString(resolve(e.Alias, e.Property))
			return nil
		}
		if e.Alias != "" {
			b.WriteString(e.Alias)
			b.WriteByte('.')
		}
		b.WriteString(e.Property)
		return nil

	case *Literal:
		return renderLiteral(b, e.Val)

	case SExpr:
		return renderSExpr(b, e, resolve)

	case Op:
		b.WriteString(string(e))
		return nil

	default:
		return fmt.Errorf("exprlang: cannot render expression of type %T", expr)
	}
}

func renderLiteral(b *strings.Builder, val any) error {
	switch v := val.(type) {
	case nil:
		b.WriteString("NULL")
	case string:
		b.WriteString(textlit.QuoteSQLString(v))
	case bool:
		if v {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return fmt.Errorf("exprlang: cannot render literal of type %T", val)
	}
	return nil
}

var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"AND": true, "OR": true, "LIKE": true,
}

func renderSExpr(b *strings.Builder, e SExpr, resolve AliasResolver) error {
	op := e.Op()
	children := e.Children()

	switch {
	case op == "neg":
		b.WriteByte('-')
		return renderChild(b, children[0], resolve)

	case op == "NOT":
		b.WriteString("NOT ")
		return renderChild(b, children[0], resolve)

	case op == "IS NULL" || op == "IS NOT NULL":
		if err := renderChild(b, children[0], resolve); err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(op)
		return nil

	case op == "IN":
		if err := renderChild(b, children[0], resolve); err != nil {
			return err
		}
		b.WriteString(" IN (")
		for i, item := range children[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := render(b, item, resolve); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil

	case binaryOps[op] && len(children) == 2:
		if err := renderChild(b, children[0], resolve); err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(op)
		b.WriteByte(' ')
		return renderChild(b, children[1], resolve)

	default:
		// function call: op(args...)
		b.WriteString(op)
		b.WriteByte('(')
		for i, arg := range children {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := render(b, arg, resolve); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	}
}

// renderChild wraps nested boolean/arithmetic SExprs in parens to preserve
// precedence; leaves and function calls never need them.
func renderChild(b *strings.Builder, expr Expression, resolve AliasResolver) error {
	nested, ok := expr.(SExpr)
	if !ok || !binaryOps[nested.Op()] {
		return render(b, expr, resolve)
	}
	b.WriteByte('(')
	if err := render(b, expr, resolve); err != nil {
		return err
	}
	b.WriteByte(')')
	return nil
}
