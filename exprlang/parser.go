package exprlang

import (
	"fmt"
	"strconv"

	"github.com/genezhang/clickgraph/internal/textlit"
)

// Parse parses a SQL scalar expression or WHERE predicate into an Expression
// tree. Precedence, loosest to tightest: OR, AND, NOT, comparison (including
// IS [NOT] NULL, IN, LIKE), additive, multiplicative, unary.
func Parse(src string) (Expression, error) {
	p := &parser{lex: newLexer(src), src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("exprlang: unexpected trailing input %q at position %d", p.cur.text, p.cur.pos)
	}
	return expr, nil
}

type parser struct {
	lex *lexer
	src string
	cur token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expectOp(texts ...string) bool {
	if p.cur.kind != tokOp {
		return false
	}
	for _, t := range texts {
		if p.cur.text == t {
			return true
		}
	}
	return false
}

func (p *parser) expectKeyword(kw string) bool {
	return p.cur.kind == tokKeyword && p.cur.text == kw
}

// parseOr := parseAnd (OR parseAnd)*
func (p *parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.expectKeyword("OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = SExpr{Op("OR"), left, right}
	}
	return left, nil
}

// parseAnd := parseNot (AND parseNot)*
func (p *parser) parseAnd() (Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.expectKeyword("AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = SExpr{Op("AND"), left, right}
	}
	return left, nil
}

// parseNot := NOT parseNot | parseComparison
func (p *parser) parseNot() (Expression, error) {
	if p.expectKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return SExpr{Op("NOT"), operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = []string{"=", "!=", "<>", "<", "<=", ">", ">="}

// parseComparison := parseAdditive ( comparisonOp parseAdditive
//
//	| IS [NOT] NULL
//	| [NOT] IN ( expr, ... )
//	| [NOT] LIKE parseAdditive )?
func (p *parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if p.expectOp(comparisonOps...) {
		op := normalizeComparisonOp(p.cur.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return SExpr{Op(op), left, right}, nil
	}

	if p.expectKeyword("IS") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		negate := false
		if p.expectKeyword("NOT") {
			negate = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if !p.expectKeyword("NULL") {
			return nil, fmt.Errorf("exprlang: expected NULL after IS[ NOT] at position %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if negate {
			return SExpr{Op("IS NOT NULL"), left}, nil
		}
		return SExpr{Op("IS NULL"), left}, nil
	}

	negate := false
	if p.expectKeyword("NOT") {
		negate = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.expectKeyword("IN") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		items, err := p.parseParenList()
		if err != nil {
			return nil, err
		}
		expr := Expression(append(SExpr{Op("IN"), left}, items...))
		if negate {
			return SExpr{Op("NOT"), expr}, nil
		}
		return expr, nil
	}

	if p.expectKeyword("LIKE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr := Expression(SExpr{Op("LIKE"), left, right})
		if negate {
			return SExpr{Op("NOT"), expr}, nil
		}
		return expr, nil
	}

	if negate {
		return nil, fmt.Errorf("exprlang: expected IN or LIKE after NOT at position %d", p.cur.pos)
	}

	return left, nil
}

func normalizeComparisonOp(text string) string {
	if text == "<>" {
		return "!="
	}
	return text
}

// parseParenList parses "( expr, expr, ... )".
func (p *parser) parseParenList() ([]Expression, error) {
	if p.cur.kind != tokParenL {
		return nil, fmt.Errorf("exprlang: expected ( at position %d", p.cur.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	var items []Expression
	if p.cur.kind != tokParenR {
		for {
			item, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.cur.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if p.cur.kind != tokParenR {
		return nil, fmt.Errorf("exprlang: expected ) at position %d", p.cur.pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return items, nil
}

// parseAdditive := parseMultiplicative ((+ | -) parseMultiplicative)*
func (p *parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.expectOp("+", "-") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = SExpr{Op(op), left, right}
	}
	return left, nil
}

// parseMultiplicative := parseUnary ((* | / | %) parseUnary)*
func (p *parser) parseMultiplicative() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.expectOp("*", "/", "%") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = SExpr{Op(op), left, right}
	}
	return left, nil
}

// parseUnary := "-" parseUnary | parsePrimary
func (p *parser) parseUnary() (Expression, error) {
	if p.expectOp("-") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return SExpr{Op("neg"), operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary := NUMBER | STRING | TRUE | FALSE | NULL
//
//	| IDENT [. IDENT] | IDENT ( args )
//	| ( expr )
func (p *parser) parsePrimary() (Expression, error) {
	switch p.cur.kind {
	case tokNumber:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return parseNumberLiteral(text)

	case tokString:
		text := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		s, err := textlit.UnquoteSQLString(text)
		if err != nil {
			return nil, fmt.Errorf("exprlang: %w", err)
		}
		return NewLiteral(s), nil

	case tokKeyword:
		switch p.cur.text {
		case "TRUE":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return NewLiteral(true), nil
		case "FALSE":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return NewLiteral(false), nil
		case "NULL":
			if err := p.advance(); err != nil {
				return nil, err
			}
			return NewLiteral(nil), nil
		}
		return nil, fmt.Errorf("exprlang: unexpected keyword %q at position %d", p.cur.text, p.cur.pos)

	case tokParenL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokParenR {
			return nil, fmt.Errorf("exprlang: expected ) at position %d", p.cur.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil

	case tokIdent:
		first := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokIdent {
				return nil, fmt.Errorf("exprlang: expected property name after '.' at position %d", p.cur.pos)
			}
			prop := p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			return NewColumn(first, prop), nil
		}
		if p.cur.kind == tokParenL {
			args, err := p.parseParenList()
			if err != nil {
				return nil, err
			}
			return Expression(append(SExpr{Op(first)}, args...)), nil
		}
		return NewColumn("", first), nil

	default:
		return nil, fmt.Errorf("exprlang: unexpected token %q at position %d", p.cur.text, p.cur.pos)
	}
}

func parseNumberLiteral(text string) (Expression, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewLiteral(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("exprlang: invalid numeric literal %q: %w", text, err)
	}
	return NewLiteral(f), nil
}
