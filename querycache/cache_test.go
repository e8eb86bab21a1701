package querycache_test

import (
	"testing"

	"github.com/genezhang/clickgraph/querycache"
)

func TestCache_PutGet(t *testing.T) {
	c := querycache.New(2)
	key := querycache.Key{QueryShape: "MATCH (u:User) RETURN u.name", SchemaName: "main", SchemaGen: 1}
	entry := querycache.Entry{SQL: "SELECT full_name AS name FROM users", ColumnNames: []string{"name"}}

	c.Put(key, entry)
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get should find the entry just put")
	}
	if got.SQL != entry.SQL {
		t.Errorf("SQL = %q, want %q", got.SQL, entry.SQL)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := querycache.New(1)
	k1 := querycache.Key{QueryShape: "a"}
	k2 := querycache.Key{QueryShape: "b"}

	c.Put(k1, querycache.Entry{SQL: "select a"})
	c.Put(k2, querycache.Entry{SQL: "select b"})

	if _, ok := c.Get(k1); ok {
		t.Error("k1 should have been evicted when k2 was added to a size-1 cache")
	}
	if _, ok := c.Get(k2); !ok {
		t.Error("k2 should still be present")
	}
}

func TestCache_InvalidateSchema(t *testing.T) {
	c := querycache.New(10)
	old := querycache.Key{QueryShape: "q", SchemaName: "main", SchemaGen: 1}
	fresh := querycache.Key{QueryShape: "q", SchemaName: "main", SchemaGen: 2}

	c.Put(old, querycache.Entry{SQL: "old"})
	c.Put(fresh, querycache.Entry{SQL: "fresh"})

	c.InvalidateSchema("main", 2)

	if _, ok := c.Get(old); ok {
		t.Error("entries from an older schema generation should be invalidated")
	}
	if _, ok := c.Get(fresh); !ok {
		t.Error("entries from the current schema generation should survive")
	}
}
