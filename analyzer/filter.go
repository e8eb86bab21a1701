package analyzer

import (
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/cypherast"
	"github.com/genezhang/clickgraph/diag"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// nodeIDMarker is the synthetic property name id() decoding produces. It is
// NOT resolved to the schema ID column here: the render-plan builder does
// that once, right before emission (see logicalplan.NodeIDMarker), since by
// then every pass that could still rebind the alias (CTE materialization,
// traversal planning) has already run.
const nodeIDMarker = logicalplan.NodeIDMarker

// filterTagging is §4.3 pass 7: decode id(x)/elementId(x) into the
// __node_id__ marker, then resolve every scan-bound alias.prop access into
// its physical column name. CTE-bound aliases are left untouched here —
// CteReferencePopulator (pass 14) rewrites those once CTE output column
// names are known.
func (r *runner) filterTagging() error {
	var firstErr error
	logicalplan.Walk(r.plan, func(p logicalplan.LogicalPlan) {
		if firstErr != nil {
			return
		}
		f, ok := p.(*logicalplan.Filter)
		if !ok || f.Predicate == nil {
			return
		}
		resolved, err := r.resolvePredicate(f.Predicate)
		if err != nil {
			firstErr = err
			return
		}
		f.Predicate = resolved
	})
	return firstErr
}

func (r *runner) resolvePredicate(e cypherast.Expression) (cypherast.Expression, error) {
	var firstErr error
	out := rewriteExpr(e, func(n cypherast.Expression) cypherast.Expression {
		if firstErr != nil {
			return n
		}
		switch v := n.(type) {
		case cypherast.IDAccess:
			ident, ok := v.Entity.(cypherast.Identifier)
			if !ok {
				return n
			}
			return cypherast.PropertyAccess{Entity: ident, Property: nodeIDMarker}
		case cypherast.PropertyAccess:
			ident, ok := v.Entity.(cypherast.Identifier)
			if !ok {
				return n
			}
			if r.planCtx.VariableKind(ident.Name) != logicalplan.VariableScan {
				return n
			}
			col, err := r.resolveScanColumn(ident.Name, v.Property)
			if err != nil {
				firstErr = err
				return n
			}
			return cypherast.PropertyAccess{Entity: ident, Property: col}
		default:
			return n
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (r *runner) resolveScanColumn(alias, property string) (string, error) {
	label, ok := r.planCtx.AliasLabel(alias)
	if !ok {
		return "", planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
			fmt.Sprintf("variable %q is not in scope", alias)).
			WithPass("filter_tagging", alias).
			WithDetail(diag.DetailKeyAlias, alias).Build())
	}
	schema, err := r.schema.Node(catalog.Label(label))
	if err != nil {
		return "", planerr.SchemaError(diag.NewIssue(diag.Error, diag.E_UNKNOWN_LABEL,
			fmt.Sprintf("unknown node label %q", label)).
			WithPass("filter_tagging", alias).
			WithDetail(diag.DetailKeyLabel, label).Build())
	}
	if property == nodeIDMarker {
		return schema.NodeID().Column(), nil
	}
	value, ok := schema.Property(property)
	if !ok || !value.IsColumn() {
		return "", planerr.ResolutionError(diag.NewIssue(diag.Error, diag.E_VARIABLE_NOT_IN_SCOPE,
			fmt.Sprintf("unknown property %q on %q", property, label)).
			WithPass("filter_tagging", alias).
			WithDetail(diag.DetailKeyProperty, property).Build())
	}
	return value.Column(), nil
}

// cartesianJoinExtraction is §4.3 pass 8: a WHERE equality between a
// property of one alias and a property of a different alias (the shape
// CartesianProduct patterns like "MATCH (a),(b) WHERE id(a) = id(b)",
// "a.id = b.id" or "a.x = b.y" produce) becomes a correlation JOIN
// condition on the enclosing GraphJoins
// instead of a post-join filter, so CartesianProduct's factors don't
// materialize an unconstrained cross product before filtering it down.
func (r *runner) cartesianJoinExtraction() error {
	var firstErr error
	r.plan = logicalplan.Rewrite(r.plan, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		if firstErr != nil {
			return p
		}
		f, ok := p.(*logicalplan.Filter)
		if !ok {
			return p
		}
		gj, ok := f.Child.(*logicalplan.GraphJoins)
		if !ok {
			return p
		}
		remaining, extracted := extractCorrelationPredicates(f.Predicate)
		if len(extracted) == 0 {
			return p
		}
		newGj := *gj
		for _, pred := range extracted {
			newGj.AddCorrelationPredicate(pred)
		}
		if remaining == nil {
			return &newGj
		}
		return &logicalplan.Filter{Child: &newGj, Predicate: remaining}
	})
	return firstErr
}

// extractCorrelationPredicates splits AND-conjoined cross-alias equality
// predicates out of e, returning the remainder (nil if everything was
// extracted) and the extracted predicates.
func extractCorrelationPredicates(e cypherast.Expression) (cypherast.Expression, []cypherast.Expression) {
	and, ok := e.(cypherast.BinaryOp)
	if !ok || and.Op_ != "AND" {
		if isCrossAliasEquality(e) {
			return nil, []cypherast.Expression{e}
		}
		return e, nil
	}
	leftRemaining, leftExtracted := extractCorrelationPredicates(and.Left)
	rightRemaining, rightExtracted := extractCorrelationPredicates(and.Right)
	extracted := append(leftExtracted, rightExtracted...)
	switch {
	case leftRemaining == nil && rightRemaining == nil:
		return nil, extracted
	case leftRemaining == nil:
		return rightRemaining, extracted
	case rightRemaining == nil:
		return leftRemaining, extracted
	default:
		return cypherast.BinaryOp{Op_: "AND", Left: leftRemaining, Right: rightRemaining}, extracted
	}
}

func isCrossAliasEquality(e cypherast.Expression) bool {
	bin, ok := e.(cypherast.BinaryOp)
	if !ok || bin.Op_ != "=" {
		return false
	}
	leftProp, leftOk := bin.Left.(cypherast.PropertyAccess)
	rightProp, rightOk := bin.Right.(cypherast.PropertyAccess)
	if !leftOk || !rightOk {
		return false
	}
	leftIdent, leftIdentOk := leftProp.Entity.(cypherast.Identifier)
	rightIdent, rightIdentOk := rightProp.Entity.(cypherast.Identifier)
	return leftIdentOk && rightIdentOk && leftIdent.Name != rightIdent.Name
}
