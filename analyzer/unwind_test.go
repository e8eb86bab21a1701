package analyzer_test

import (
	"context"
	"testing"

	"github.com/genezhang/clickgraph/analyzer"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

func buildCollectUnwindPlan(t *testing.T) (*logicalplan.WithClause, *logicalplan.Unwind) {
	t.Helper()
	node := logicalplan.NewGraphNode("a", []string{"Person"}, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{node})
	with := logicalplan.NewWithClause(joins,
		[]logicalplan.ProjectionItem{{
			Expr: cypherast.FunctionCall{
				Name: "collect",
				Args: []cypherast.Expression{cypherast.ListExpr{Items: []cypherast.Expression{
					cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "a"}, Property: "id"},
					cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "a"}, Property: "id"},
				}}},
			},
			Alias: "pairs",
		}},
		false, nil, nil, nil, nil)
	unwind := &logicalplan.Unwind{
		Child: with,
		Expr:  cypherast.Identifier{Name: "pairs"},
		As:    "pair",
	}
	return with, unwind
}

func TestUnwindTupleEnricher_RecordsArityFromCollect(t *testing.T) {
	schema := oneLabelSchema(t)
	_, unwind := buildCollectUnwindPlan(t)
	proj := &logicalplan.Projection{
		Child: unwind,
		Items: []logicalplan.ProjectionItem{
			{Expr: cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "pair"}, Property: "0"}},
			{Expr: cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "pair"}, Property: "1"}},
		},
	}

	out, _, err := analyzer.Run(context.Background(), proj, schema, analyzer.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top := out.(*logicalplan.Projection)
	var u *logicalplan.Unwind
	logicalplan.Walk(top, func(p logicalplan.LogicalPlan) {
		if n, ok := p.(*logicalplan.Unwind); ok {
			u = n
		}
	})
	if u == nil {
		t.Fatalf("no Unwind node found in %+v", top)
	}
	if u.TupleArity != 2 {
		t.Errorf("TupleArity = %d, want 2", u.TupleArity)
	}
}

func TestUnwindPropertyRewriter_RejectsOutOfRangeIndex(t *testing.T) {
	schema := oneLabelSchema(t)
	_, unwind := buildCollectUnwindPlan(t)
	proj := &logicalplan.Projection{
		Child: unwind,
		Items: []logicalplan.ProjectionItem{
			{Expr: cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "pair"}, Property: "5"}},
		},
	}

	if _, _, err := analyzer.Run(context.Background(), proj, schema, analyzer.DefaultConfig()); err == nil {
		t.Error("Run with out-of-range tuple index should fail")
	}
}
