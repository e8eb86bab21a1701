package catalog

import (
	"fmt"

	"github.com/genezhang/clickgraph/exprlang"
)

// PropertyValue describes how a Cypher property name maps onto the
// underlying store: either a bare column reference or a parsed SQL scalar
// expression evaluated against the row.
type PropertyValue struct {
	column string
	expr   exprlang.Expression
}

// NewColumnProperty creates a PropertyValue backed by a direct column
// reference.
func NewColumnProperty(column string) PropertyValue {
	if column == "" {
		panic("catalog: NewColumnProperty: empty column name")
	}
	return PropertyValue{column: column}
}

// NewExpressionProperty creates a PropertyValue backed by a parsed SQL
// scalar expression (for computed/derived properties).
func NewExpressionProperty(source string) (PropertyValue, error) {
	expr, err := exprlang.Parse(source)
	if err != nil {
		return PropertyValue{}, fmt.Errorf("catalog: invalid property expression %q: %w", source, err)
	}
	return PropertyValue{expr: expr}, nil
}

// IsColumn reports whether this PropertyValue is a direct column reference.
func (p PropertyValue) IsColumn() bool {
	return p.expr == nil
}

// IsExpression reports whether this PropertyValue is a parsed expression.
func (p PropertyValue) IsExpression() bool {
	return p.expr != nil
}

// Column returns the underlying column name. Only valid when IsColumn.
func (p PropertyValue) Column() string {
	return p.column
}

// Expression returns the parsed expression. Only valid when IsExpression.
func (p PropertyValue) Expression() exprlang.Expression {
	return p.expr
}

// Render serializes this property value as SQL, rewriting any column
// references inside an expression through resolve.
func (p PropertyValue) Render(alias string, resolve exprlang.AliasResolver) (string, error) {
	if p.IsColumn() {
		if resolve != nil {
			return resolve(alias, p.column), nil
		}
		if alias == "" {
			return p.column, nil
		}
		return alias + "." + p.column, nil
	}
	return exprlang.Render(p.expr, resolve)
}
