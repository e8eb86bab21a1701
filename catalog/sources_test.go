package catalog_test

import (
	"testing"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/location"
)

func TestSources_NilRegistryIsSafe(t *testing.T) {
	var s *catalog.Sources
	if _, ok := s.ContentBySource(location.SourceID{}); ok {
		t.Error("ContentBySource on nil Sources should return false")
	}
	if s.Len() != 0 {
		t.Error("Len on nil Sources should be 0")
	}
	if s.SourceIDs() != nil {
		t.Error("SourceIDs on nil Sources should be nil")
	}
}

func TestMemorySourceRegistry_PutAndLookup(t *testing.T) {
	reg := catalog.NewMemorySourceRegistry()
	id := location.MustNewSourceID("inline:schema")
	reg.Put(id, []byte("nodes: []"))

	s := catalog.NewSources(reg)
	if !s.Has(id) {
		t.Fatal("Has should report the registered source")
	}
	content, ok := s.ContentBySource(id)
	if !ok || string(content) != "nodes: []" {
		t.Errorf("ContentBySource = %q, %v", content, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestMemorySourceRegistry_SortedKeys(t *testing.T) {
	reg := catalog.NewMemorySourceRegistry()
	idB := location.MustNewSourceID("inline:b")
	idA := location.MustNewSourceID("inline:a")
	reg.Put(idB, []byte("b"))
	reg.Put(idA, []byte("a"))

	s := catalog.NewSources(reg)
	ids := s.SourceIDs()
	if len(ids) != 2 || ids[0].String() != idA.String() || ids[1].String() != idB.String() {
		t.Errorf("SourceIDs() not sorted: %v", ids)
	}

	var seen []string
	for id := range s.SourceIDsIter() {
		seen = append(seen, id.String())
	}
	if len(seen) != 2 || seen[0] != idA.String() {
		t.Errorf("SourceIDsIter() order = %v", seen)
	}
}
