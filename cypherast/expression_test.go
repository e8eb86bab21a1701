package cypherast_test

import (
	"testing"

	"github.com/genezhang/clickgraph/cypherast"
)

func TestFunctionCall_IsAggregate(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"count", true},
		{"sum", true},
		{"collect", true},
		{"toUpper", false},
		{"size", false},
	}
	for _, c := range cases {
		fc := cypherast.FunctionCall{Name: c.name}
		if got := fc.IsAggregate(); got != c.want {
			t.Errorf("FunctionCall{Name: %q}.IsAggregate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	s, ok := cypherast.StringLiteral(cypherast.Literal{Val: "hello"})
	if !ok || s != "hello" {
		t.Errorf("StringLiteral = %q, %v, want hello, true", s, ok)
	}

	if _, ok := cypherast.StringLiteral(cypherast.Literal{Val: 42}); ok {
		t.Error("StringLiteral should report false for a non-string literal")
	}

	if _, ok := cypherast.StringLiteral(cypherast.Identifier{Name: "x"}); ok {
		t.Error("StringLiteral should report false for a non-literal expression")
	}
}

func TestIntLiteral(t *testing.T) {
	n, ok := cypherast.IntLiteral(cypherast.Literal{Val: int64(7)})
	if !ok || n != 7 {
		t.Errorf("IntLiteral(int64) = %d, %v, want 7, true", n, ok)
	}

	n, ok = cypherast.IntLiteral(cypherast.Literal{Val: 7})
	if !ok || n != 7 {
		t.Errorf("IntLiteral(int) = %d, %v, want 7, true", n, ok)
	}

	if _, ok := cypherast.IntLiteral(cypherast.Literal{Val: "7"}); ok {
		t.Error("IntLiteral should report false for a string-valued literal")
	}
}

func TestPropertyAccess_Children(t *testing.T) {
	entity := cypherast.Identifier{Name: "n"}
	p := cypherast.PropertyAccess{Entity: entity, Property: "name"}
	children := p.Children()
	if len(children) != 1 || children[0] != cypherast.Expression(entity) {
		t.Errorf("Children() = %v, want [entity]", children)
	}
}

func TestBinaryOp_Op(t *testing.T) {
	b := cypherast.BinaryOp{Op_: "=", Left: cypherast.Literal{Val: 1}, Right: cypherast.Literal{Val: 1}}
	if b.Op() != "=" {
		t.Errorf("Op() = %q, want =", b.Op())
	}
}
