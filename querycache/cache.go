// Package querycache caches compiled render plans keyed by the normalized
// shape of a Cypher query (its text with literal parameters lifted out),
// avoiding a full catalog lookup and analyzer run for repeated queries that
// differ only in parameter values.
package querycache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies a cached plan: the normalized query text, the name and
// generation of the schema it was planned against, and the parameter count
// (a hot-reloaded schema invalidates entries keyed against its old
// generation via SchemaGen; see [Cache.InvalidateSchema]).
type Key struct {
	QueryShape string
	SchemaName string
	SchemaGen  uint64
	ParamArity int
}

// Entry is a cached plan result: the emitted SQL template (with parameter
// placeholders) and the metadata the caller needs to bind parameters and
// interpret the result set.
type Entry struct {
	SQL           string
	ColumnNames   []string
	HasElementIDs bool
}

// Cache is a thread-safe, fixed-capacity LRU cache of planned queries.
type Cache struct {
	lru *lru.Cache[Key, Entry]
}

// New creates a Cache holding at most size entries. Panics if size <= 0.
func New(size int) *Cache {
	c, err := lru.New[Key, Entry](size)
	if err != nil {
		panic("querycache: " + err.Error())
	}
	return &Cache{lru: c}
}

// Get looks up a cached plan.
func (c *Cache) Get(key Key) (Entry, bool) {
	return c.lru.Get(key)
}

// Put stores a planned query, evicting the least recently used entry if the
// cache is at capacity.
func (c *Cache) Put(key Key, entry Entry) {
	c.lru.Add(key, entry)
}

// InvalidateSchema removes every entry keyed against an older generation of
// the given schema name, called after a hot reload replaces the active
// schema with a new immutable instance.
func (c *Cache) InvalidateSchema(schemaName string, currentGen uint64) {
	for _, key := range c.lru.Keys() {
		if key.SchemaName == schemaName && key.SchemaGen < currentGen {
			c.lru.Remove(key)
		}
	}
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge removes every cached entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}
