package analyzer_test

import (
	"context"
	"testing"

	"github.com/genezhang/clickgraph/analyzer"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

func TestVariableResolver_ResolvesScanAliasInOrderBy(t *testing.T) {
	schema := personWithNameSchema(t)
	node := logicalplan.NewGraphNode("p", []string{"Person"}, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{node})
	order := &logicalplan.OrderBy{
		Child: joins,
		Items: []logicalplan.SortItem{
			{Expr: cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "p"}, Property: "name"}},
		},
	}

	out, _, err := analyzer.Run(context.Background(), order, schema, analyzer.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	top := out.(*logicalplan.OrderBy)
	prop := top.Items[0].Expr.(cypherast.PropertyAccess)
	if prop.Property != "name" {
		t.Errorf("resolved property = %q, want name", prop.Property)
	}
}

func TestVariableResolver_RejectsUnboundAlias(t *testing.T) {
	schema := oneLabelSchema(t)
	node := logicalplan.NewGraphNode("p", []string{"Person"}, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{node})
	proj := &logicalplan.Projection{
		Child: joins,
		Items: []logicalplan.ProjectionItem{
			{Expr: cypherast.PropertyAccess{Entity: cypherast.Identifier{Name: "ghost"}, Property: "name"}},
		},
	}

	if _, _, err := analyzer.Run(context.Background(), proj, schema, analyzer.DefaultConfig()); err == nil {
		t.Error("Run referencing an unbound alias should fail")
	}
}
