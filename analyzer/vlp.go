package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// vlpTransitivityCheck is §4.3 pass 2: a variable-length pattern
// "[:TYPE*min..max]" only has a well-formed recursive expansion when every
// schema entry for TYPE connects a label back to itself (a relationship
// from Person to Company can't be walked an unbounded number of times and
// still type-check at each hop). A GraphRel that is still untyped at this
// point (its type will be narrowed later, or never) is left for
// graph_traversal_planning to reject once it knows the type.
func (r *runner) vlpTransitivityCheck() error {
	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		rel, ok := p.(*logicalplan.GraphRel)
		if !ok || !rel.IsVariableLength() {
			return
		}
		if rel.Length.MaxHops != nil && *rel.Length.MaxHops == 0 {
			firstErr = planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_ZERO_LENGTH_PATH,
				"variable length path has a maximum of zero hops").
				WithPass("vlp_transitivity_check", rel.Alias).Build())
			return
		}
		for _, t := range rel.Types {
			relType := catalog.RelType(t)
			keys := r.schema.RelsForType(relType)
			if len(keys) == 0 {
				firstErr = planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_REL_TYPE,
					fmt.Sprintf("unknown relationship type %q", relType)).
					WithPass("vlp_transitivity_check", rel.Alias).
					WithDetail(diag.DetailKeyRelType, string(relType)).Build())
				return
			}
			for _, key := range keys {
				_, from, to, ok := key.Parts()
				if !ok || from != to {
					firstErr = planerr.ValidationError(diag.NewIssue(diag.Error, diag.E_NON_TRANSITIVE_VLP,
						fmt.Sprintf("relationship type %q is not transitive: cannot be used with variable length", relType)).
						WithPass("vlp_transitivity_check", rel.Alias).
						WithDetail(diag.DetailKeyRelType, string(relType)).Build())
					return
				}
			}
		}
	})
	return firstErr
}
