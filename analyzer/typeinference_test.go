package analyzer_test

import (
	"context"
	"testing"

	"github.com/genezhang/clickgraph/analyzer"
	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

func twoLabelSchema(t *testing.T) *catalog.GraphSchema {
	t.Helper()
	schema := catalog.NewGraphSchema("test")

	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	if err := schema.AddNode(person); err != nil {
		t.Fatalf("AddNode(Person): %v", err)
	}
	company := catalog.NewNodeSchema("Company", "companies", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	if err := schema.AddNode(company); err != nil {
		t.Fatalf("AddNode(Company): %v", err)
	}

	worksAt := catalog.NewRelationshipSchema("WORKS_AT", "Person", "Company", "employment", "",
		catalog.NewSingleJoinColumn("person_id"), catalog.NewSingleJoinColumn("company_id"))
	if err := schema.AddRelationship(worksAt); err != nil {
		t.Fatalf("AddRelationship(WORKS_AT): %v", err)
	}
	return schema
}

func oneLabelSchema(t *testing.T) *catalog.GraphSchema {
	t.Helper()
	schema := catalog.NewGraphSchema("test")
	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	if err := schema.AddNode(person); err != nil {
		t.Fatalf("AddNode(Person): %v", err)
	}
	return schema
}

func TestUnifiedTypeInference_TypedNodeResolvesToViewScan(t *testing.T) {
	schema := oneLabelSchema(t)
	node := logicalplan.NewGraphNode("p", []string{"Person"}, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{node})

	out, _, err := analyzer.Run(context.Background(), joins, schema, analyzer.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	gj, ok := out.(*logicalplan.GraphJoins)
	if !ok {
		t.Fatalf("out = %T, want *GraphJoins", out)
	}
	scan, ok := gj.ChildPlans[0].(logicalplan.ViewScan)
	if !ok {
		t.Fatalf("child = %T, want ViewScan", gj.ChildPlans[0])
	}
	if scan.Table != "persons" || scan.Label != "Person" {
		t.Errorf("scan = %+v, want table persons / label Person", scan)
	}
}

func TestUnifiedTypeInference_AdjacentLabelInference(t *testing.T) {
	schema := twoLabelSchema(t)
	p := logicalplan.NewGraphNode("p", []string{"Person"}, nil)
	c := logicalplan.NewGraphNode("c", nil, nil)
	rel := logicalplan.NewGraphRel("r", []string{"WORKS_AT"}, cypherast.Outgoing, nil, "p", "c")
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{p, c, rel})

	out, _, err := analyzer.Run(context.Background(), joins, schema, analyzer.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	gj := out.(*logicalplan.GraphJoins)
	var foundCompany bool
	for _, child := range gj.ChildPlans {
		if scan, ok := child.(logicalplan.ViewScan); ok && scan.Alias == "c" {
			foundCompany = true
			if scan.Label != "Company" {
				t.Errorf("c resolved to label %q, want Company", scan.Label)
			}
		}
	}
	if !foundCompany {
		t.Fatalf("no ViewScan found for alias c in %+v", gj.ChildPlans)
	}
}

func TestUnifiedTypeInference_StandaloneUntypedBuildsUnion(t *testing.T) {
	schema := twoLabelSchema(t)
	n := logicalplan.NewGraphNode("n", nil, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{n})

	out, _, err := analyzer.Run(context.Background(), joins, schema, analyzer.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	union, ok := out.(*logicalplan.Union)
	if !ok {
		t.Fatalf("out = %T, want *Union", out)
	}
	if len(union.Branches) != 2 {
		t.Fatalf("len(Branches) = %d, want 2", len(union.Branches))
	}
}

func TestUnifiedTypeInference_UnknownLabelFails(t *testing.T) {
	schema := oneLabelSchema(t)
	node := logicalplan.NewGraphNode("p", []string{"Ghost"}, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{node})

	if _, _, err := analyzer.Run(context.Background(), joins, schema, analyzer.DefaultConfig()); err == nil {
		t.Error("Run with unknown label should fail")
	}
}
