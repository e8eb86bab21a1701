package analyzer

import (
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/logicalplan"
)

// bidirectionalUnion is §4.3 pass 4: an undirected edge "(a)-[r]-(b)" is
// ambiguous about which endpoint is the schema's "from" side, so it
// expands into a Union of the Outgoing and Incoming directed
// interpretations. The dedup guard only applies the expansion when at
// least one endpoint is still unbound going into this pass — if both are
// already bound (e.g. from an earlier MATCH or a WHERE-resolved literal),
// the direction is no longer ambiguous in practice and expanding would
// just generate two recursive CTEs that return the same rows.
func (r *runner) bidirectionalUnion() error {
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		rel, ok := p.(*logicalplan.GraphRel)
		if !ok || rel.Direction != cypherast.Either {
			return p
		}
		if r.planCtx.VariableKind(rel.LeftConnection) != logicalplan.VariableUnbound &&
			r.planCtx.VariableKind(rel.RightConnection) != logicalplan.VariableUnbound {
			outgoing := *rel
			outgoing.Direction = cypherast.Outgoing
			return &outgoing
		}
		outgoing := *rel
		outgoing.Direction = cypherast.Outgoing
		incoming := *rel
		incoming.Direction = cypherast.Incoming
		incoming.LeftConnection, incoming.RightConnection = rel.RightConnection, rel.LeftConnection
		return logicalplan.NewUnion([]logicalplan.LogicalPlan{&outgoing, &incoming}, true)
	})
	return nil
}
