package patterncontext

import (
	"fmt"
	"sync"

	"github.com/genezhang/clickgraph/catalog"
)

// Triple identifies one (left node label, edge type, right node label)
// combination extracted from a GraphRel. The same triple may recur many
// times across a query (a VLP's base and recursive cases, a pattern
// repeated in two branches of a UNION), so callers key their own lookups
// by Triple to reuse one Context.
type Triple struct {
	Left  catalog.Label
	Edge  catalog.RelType
	Right catalog.Label
}

// Context is the resolved access and join strategy for one Triple, plus the
// column names each role (left/edge/right) resolves a Cypher property name
// to.
type Context struct {
	Rel *catalog.RelationshipSchema

	NodeAccess NodeAccessStrategy // left endpoint; query RightNodeAccess for the right endpoint when it differs
	RightNodeAccess NodeAccessStrategy
	EdgeAccess EdgeAccessStrategy
	Join       JoinStrategy

	leftColumns  map[string]string
	edgeColumns  map[string]string
	rightColumns map[string]string
}

// Column resolves a Cypher property name for the given role ("left",
// "edge", "right") to its backing SQL column name.
func (c *Context) Column(role, property string) (string, bool) {
	var m map[string]string
	switch role {
	case "left":
		m = c.leftColumns
	case "edge":
		m = c.edgeColumns
	case "right":
		m = c.rightColumns
	default:
		return "", false
	}
	col, ok := m[property]
	return col, ok
}

// Store computes and caches Context values for a single GraphSchema.
type Store struct {
	schema *catalog.GraphSchema

	mu    sync.RWMutex
	cache map[Triple]*Context
}

// New creates a Store over schema. schema must already be sealed.
func New(schema *catalog.GraphSchema) *Store {
	return &Store{schema: schema, cache: make(map[Triple]*Context)}
}

// For returns the cached Context for the triple, computing and caching it
// on first request.
func (s *Store) For(left catalog.Label, edge catalog.RelType, right catalog.Label) (*Context, error) {
	t := Triple{Left: left, Edge: edge, Right: right}

	s.mu.RLock()
	ctx, ok := s.cache[t]
	s.mu.RUnlock()
	if ok {
		return ctx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx, ok := s.cache[t]; ok {
		return ctx, nil
	}

	ctx, err := s.build(t)
	if err != nil {
		return nil, err
	}
	s.cache[t] = ctx
	return ctx, nil
}

func (s *Store) build(t Triple) (*Context, error) {
	rel, err := s.schema.Rel(t.Edge, t.Left, t.Right)
	if err != nil {
		return nil, fmt.Errorf("patterncontext: %w", err)
	}

	leftNode, err := s.schema.Node(t.Left)
	if err != nil {
		return nil, fmt.Errorf("patterncontext: %w", err)
	}
	rightNode, err := s.schema.Node(t.Right)
	if err != nil {
		return nil, fmt.Errorf("patterncontext: %w", err)
	}

	ctx := &Context{
		Rel:          rel,
		leftColumns:  make(map[string]string),
		edgeColumns:  make(map[string]string),
		rightColumns: make(map[string]string),
	}

	ctx.NodeAccess = nodeAccessFor(leftNode)
	ctx.RightNodeAccess = nodeAccessFor(rightNode)

	switch {
	case rel.IsFkEdge():
		ctx.EdgeAccess = FkEdge
	case rel.IsPolymorphic():
		ctx.EdgeAccess = Polymorphic
	default:
		ctx.EdgeAccess = SeparateTable
	}

	ctx.Join = joinStrategyFor(ctx.NodeAccess, ctx.RightNodeAccess, ctx.EdgeAccess)

	resolveColumns(ctx.leftColumns, leftNode.PropertyNames(), leftNode.Property)
	resolveColumns(ctx.rightColumns, rightNode.PropertyNames(), rightNode.Property)
	resolveColumns(ctx.edgeColumns, rel.PropertyNames(), rel.Property)
	// Denormalized endpoints store their properties on the edge table under
	// from_properties/to_properties; surface those through the same
	// left/right column maps so FilterTagging doesn't need to know which
	// table a property physically lives on.
	if ctx.NodeAccess == EmbeddedInEdge {
		mergeDenormalized(ctx.leftColumns, rel.FromNodeProperty, leftNode.FromPropertyNames())
	}
	if ctx.RightNodeAccess == EmbeddedInEdge {
		mergeDenormalized(ctx.rightColumns, rel.ToNodeProperty, rightNode.ToPropertyNames())
	}

	return ctx, nil
}

func nodeAccessFor(n *catalog.NodeSchema) NodeAccessStrategy {
	if n.IsDenormalized() {
		return EmbeddedInEdge
	}
	return OwnTable
}

// joinStrategyFor picks the JOIN shape from the two endpoints' access
// strategies and the edge's own access strategy. An FK edge always gets
// FkEdgeJoin; otherwise both endpoints embedded in the edge row give
// SingleTableScan, one embedded endpoint gives MixedAccess, and two
// OwnTable endpoints (including over a polymorphic edge) give Traditional.
// EdgeToEdge and CoupledSameRow are never returned here.
func joinStrategyFor(left, right NodeAccessStrategy, edge EdgeAccessStrategy) JoinStrategy {
	switch {
	case edge == FkEdge:
		return FkEdgeJoin
	case left == EmbeddedInEdge && right == EmbeddedInEdge:
		return SingleTableScan
	case left == EmbeddedInEdge || right == EmbeddedInEdge:
		return MixedAccess
	default:
		return Traditional
	}
}

func resolveColumns(dst map[string]string, names []string, lookup func(string) (catalog.PropertyValue, bool)) {
	for _, name := range names {
		if v, ok := lookup(name); ok && v.IsColumn() {
			dst[name] = v.Column()
		}
	}
}

func mergeDenormalized(dst map[string]string, lookup func(string) (catalog.PropertyValue, bool), names []string) {
	for _, name := range names {
		if v, ok := lookup(name); ok && v.IsColumn() {
			dst[name] = v.Column()
		}
	}
}
