package complete_test

import (
	"testing"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/internal/complete"
	"github.com/genezhang/clickgraph/diag"
)

func TestComplete_SealsOnSuccess(t *testing.T) {
	schema := catalog.NewGraphSchema("test")
	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	company := catalog.NewNodeSchema("Company", "companies", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	schema.AddNode(person)
	schema.AddNode(company)
	worksAt := catalog.NewRelationshipSchema("WORKS_AT", "Person", "Company", "employment", "",
		catalog.NewSingleJoinColumn("person_id"), catalog.NewSingleJoinColumn("company_id"))
	schema.AddRelationship(worksAt)

	collector := diag.NewCollector(0)
	if !complete.Complete(schema, collector) {
		t.Fatalf("Complete failed: %v", collector.Result())
	}
	if !schema.IsSealed() {
		t.Error("Complete should seal the schema on success")
	}
}

func TestComplete_PolymorphicNoMatch(t *testing.T) {
	schema := catalog.NewGraphSchema("test")
	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	schema.AddNode(person)

	rel := catalog.NewRelationshipSchema("OWNS", "Person", catalog.AnyLabel, "ownership", "",
		catalog.NewSingleJoinColumn("owner_id"), catalog.NewSingleJoinColumn("asset_id"))
	schema.AddRelationship(rel)

	collector := diag.NewCollector(0)
	if complete.Complete(schema, collector) {
		t.Fatal("Complete should fail: $any has no matching node labels")
	}
	if !collector.HasErrors() {
		t.Error("expected a collected error")
	}
}

func TestComplete_PolymorphicResolvesAgainstOtherLabels(t *testing.T) {
	schema := catalog.NewGraphSchema("test")
	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	asset := catalog.NewNodeSchema("Asset", "assets", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	schema.AddNode(person)
	schema.AddNode(asset)

	rel := catalog.NewRelationshipSchema("OWNS", "Person", catalog.AnyLabel, "ownership", "",
		catalog.NewSingleJoinColumn("owner_id"), catalog.NewSingleJoinColumn("asset_id"))
	schema.AddRelationship(rel)

	collector := diag.NewCollector(0)
	if !complete.Complete(schema, collector) {
		t.Fatalf("Complete failed: %v", collector.Result())
	}
}

func TestComplete_MirrorsDenormalizedProperties(t *testing.T) {
	schema := catalog.NewGraphSchema("test")
	person := catalog.NewNodeSchema("Person", "persons", "", catalog.NewSingleNodeID("id", catalog.TypeUUID))
	schema.AddNode(person)

	tag := catalog.NewDenormalizedNodeSchema("Tag", catalog.NewSingleNodeID("tag_id", catalog.TypeString))
	tag.SetToProperty("label", catalog.NewColumnProperty("tag_label"))
	schema.AddNode(tag)

	rel := catalog.NewRelationshipSchema("TAGGED", "Person", "Tag", "tagging", "",
		catalog.NewSingleJoinColumn("person_id"), catalog.NewSingleJoinColumn("tag_id"))
	schema.AddRelationship(rel)

	collector := diag.NewCollector(0)
	if !complete.Complete(schema, collector) {
		t.Fatalf("Complete failed: %v", collector.Result())
	}

	sealed, err := schema.Rel("TAGGED", "Person", "Tag")
	if err != nil {
		t.Fatalf("Rel: %v", err)
	}
	if _, ok := sealed.ToNodeProperty("label"); !ok {
		t.Error("expected mirrored to-node property \"label\" on the relationship")
	}
}
