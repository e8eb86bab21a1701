package complete

import (
	"strings"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/diag"
)

// detectPolymorphicCycles rejects a schema where chained "$any" resolutions
// loop back on themselves: e.g. A -[:R1]->$any resolving to B, and
// B -[:R2]->$any resolving back to A, with no concrete base case. Such a
// schema would make expand_generic recurse forever when a planner tries to
// enumerate every concrete path through the wildcard chain.
func (c *completer) detectPolymorphicCycles() bool {
	edges := make(map[catalog.Label][]catalog.Label)
	for _, rel := range c.schema.Relationships() {
		if !rel.IsPolymorphic() {
			continue
		}
		fixed, wildcard := polymorphicFixedSide(rel)
		if fixed == "" {
			continue
		}
		for _, candidate := range candidateLabels(c.schema, rel) {
			_ = wildcard
			edges[fixed] = append(edges[fixed], candidate)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[catalog.Label]int)
	var path []catalog.Label

	var visit func(label catalog.Label) bool
	visit = func(label catalog.Label) bool {
		color[label] = gray
		path = append(path, label)
		for _, next := range edges[label] {
			switch color[next] {
			case white:
				if !visit(next) {
					return false
				}
			case gray:
				reportCycle(c.collector, append(append([]catalog.Label{}, path...), next))
				return false
			}
		}
		path = path[:len(path)-1]
		color[label] = black
		return true
	}

	ok := true
	for label := range edges {
		if color[label] == white {
			if !visit(label) {
				ok = false
			}
		}
	}
	return ok
}

// polymorphicFixedSide returns the non-wildcard endpoint label and a marker
// for the wildcard side; returns "" for fixed when both endpoints are "$any"
// (no fixed anchor to build a graph edge from).
func polymorphicFixedSide(rel *catalog.RelationshipSchema) (fixed catalog.Label, wildcardSide string) {
	switch {
	case rel.FromNode().IsAny() && !rel.ToNode().IsAny():
		return rel.ToNode(), "from"
	case rel.ToNode().IsAny() && !rel.FromNode().IsAny():
		return rel.FromNode(), "to"
	default:
		return "", ""
	}
}

func reportCycle(collector *diag.Collector, cycle []catalog.Label) {
	names := make([]string, len(cycle))
	for i, l := range cycle {
		names[i] = string(l)
	}
	collector.Collect(diag.NewIssue(diag.Error, diag.E_POLYMORPHIC_CYCLE,
		"polymorphic relationship resolution cycles back on itself: "+strings.Join(names, " -> ")).
		WithPass("catalog-complete", strings.Join(names, "->")).
		WithDetail(diag.DetailKeyCycle, strings.Join(names, "->")).
		Build())
}
