// Package exprlang parses SQL scalar expressions and WHERE predicates used in
// schema property mappings, relationship filters, and node/relationship
// constraints, producing an AST the SQL emitter can render with a
// caller-supplied table alias.
//
// # Grammar
//
// Expressions follow standard SQL precedence, loosest to tightest:
//
//	OR
//	AND
//	NOT
//	comparison (=, !=, <>, <, <=, >, >=, IS [NOT] NULL, [NOT] IN (...), [NOT] LIKE)
//	additive (+, -)
//	multiplicative (*, /, %)
//	unary (-)
//
// Identifiers followed by "(" parse as function calls; a bare identifier or
// "alias.property" parses as a [Column] reference.
//
// # AST
//
// [Expression] is a closed sum type: [SExpr], [*Literal], [Column], and [Op]
// are the only variants. [SExpr] represents an operation applied to operands,
// S-expression style: the first element is an [Op], the rest are the operands.
//
// # Usage
//
//	expr, err := exprlang.Parse("p.age > 30 AND p.active")
//	if err != nil {
//	    // handle syntax error
//	}
//	sql, err := exprlang.Render(expr, func(alias, property string) string {
//	    return "t0." + property
//	})
package exprlang
