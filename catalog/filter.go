package catalog

import (
	"fmt"

	"github.com/genezhang/clickgraph/exprlang"
)

// SchemaFilter is a schema-level WHERE predicate applied to every query
// against a node or relationship, e.g. to scope a shared table down to one
// logical entity ("WHERE kind = 'person'").
type SchemaFilter struct {
	expr exprlang.Expression
}

// ParseSchemaFilter parses a SQL predicate string into a SchemaFilter.
func ParseSchemaFilter(source string) (SchemaFilter, error) {
	expr, err := exprlang.Parse(source)
	if err != nil {
		return SchemaFilter{}, fmt.Errorf("catalog: invalid schema filter %q: %w", source, err)
	}
	return SchemaFilter{expr: expr}, nil
}

// IsZero reports whether no filter was declared.
func (f SchemaFilter) IsZero() bool {
	return f.expr == nil
}

// Render serializes the filter as SQL, rewriting column references through
// resolve.
func (f SchemaFilter) Render(alias string, resolve exprlang.AliasResolver) (string, error) {
	if f.IsZero() {
		return "", nil
	}
	return exprlang.Render(f.expr, resolve)
}

// EngineKind classifies the declared ClickHouse table engine family.
type EngineKind uint8

const (
	EngineOther EngineKind = iota
	EngineMergeTree
)

// String returns the name of the engine kind.
func (k EngineKind) String() string {
	switch k {
	case EngineMergeTree:
		return "MergeTree"
	default:
		return "Other"
	}
}

// EngineInfo describes the declared or discovered table engine. MergeTree
// family engines require a FINAL modifier on reads to see the post-merge
// view of a row (ReplacingMergeTree dedup, SummingMergeTree aggregation,
// and so on).
type EngineInfo struct {
	Name string
	Kind EngineKind
}

// ClassifyEngine maps a raw ClickHouse engine name (as reported by
// system.tables) to an EngineKind.
func ClassifyEngine(name string) EngineInfo {
	if hasMergeTreeSuffix(name) {
		return EngineInfo{Name: name, Kind: EngineMergeTree}
	}
	return EngineInfo{Name: name, Kind: EngineOther}
}

func hasMergeTreeSuffix(name string) bool {
	const suffix = "MergeTree"
	return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
}
