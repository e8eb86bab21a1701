package analyzer

import (
	"context"
	"fmt"

	"github.com/genezhang/clickgraph/catalog"
	"github.com/genezhang/clickgraph/catalog/patterncontext"
	"github.com/genezhang/clickgraph/internal/trace"
	"github.com/genezhang/clickgraph/logicalplan"
	"github.com/genezhang/clickgraph/planerr"
)

// Run plans a fully-built initial LogicalPlan (the output of
// logicalplan.Build) against schema, returning the finalized, sealed plan
// ready for the render-plan builder, or the first planning error
// encountered. Planning has no "continue with partial results" concept
// (§A.2): the first pass that fails aborts the whole run.
func Run(ctx context.Context, plan logicalplan.LogicalPlan, schema *catalog.GraphSchema, cfg Config) (logicalplan.LogicalPlan, *logicalplan.PlanCtx, error) {
	if cfg.MaxUntypedCombinations <= 0 {
		cfg = DefaultConfig()
	}
	planCtx := logicalplan.NewPlanCtx(patterncontext.New(schema), cfg.MaxUntypedCombinations)

	r := &runner{
		ctx:     ctx,
		schema:  schema,
		planCtx: planCtx,
		plan:    plan,
	}

	for _, p := range passes {
		if cancelErr := ctx.Err(); cancelErr != nil {
			return nil, nil, planerr.InternalError(newIssue(p.name,
				fmt.Sprintf("planning cancelled: %v", cancelErr)))
		}
		op := trace.Begin(ctx, nil, "clickgraph.analyzer."+p.name)
		err := p.fn(r)
		op.End(err)
		if err != nil {
			return nil, nil, err
		}
	}

	sealTree(r.plan)
	return r.plan, r.planCtx, nil
}

// runner carries the mutable state one planning run threads through every
// pass: the current plan (reassigned wholesale as passes replace subtrees),
// the analysis-state bus, and the schema being planned against.
type runner struct {
	ctx     context.Context
	schema  *catalog.GraphSchema
	planCtx *logicalplan.PlanCtx
	plan    logicalplan.LogicalPlan
}

type pass struct {
	name string
	fn   func(*runner) error
}

// passes is the full ordered pipeline, §4.3. Ordering is load-bearing: each
// pass may depend on state written by every pass before it.
var passes = []pass{
	{"unified_type_inference", (*runner).unifiedTypeInference},
	{"vlp_transitivity_check", (*runner).vlpTransitivityCheck},
	{"cte_schema_resolver", (*runner).cteSchemaResolver},
	{"bidirectional_union", (*runner).bidirectionalUnion},
	{"union_distribution", (*runner).unionDistribution},
	{"graph_join_inference", (*runner).graphJoinInference},
	{"filter_tagging", (*runner).filterTagging},
	{"cartesian_join_extraction", (*runner).cartesianJoinExtraction},
	{"projection_tagging", (*runner).projectionTagging},
	{"group_by_building", (*runner).groupByBuilding},
	{"graph_traversal_planning", (*runner).graphTraversalPlanning},
	{"duplicate_scans_removing", (*runner).duplicateScansRemoving},
	{"variable_resolver", (*runner).variableResolver},
	{"cte_reference_populator", (*runner).cteReferencePopulator},
	{"unwind_tuple_enricher", (*runner).unwindTupleEnricher},
	{"trivial_with_elimination", (*runner).trivialWithElimination},
	{"property_requirements_analyzer", (*runner).propertyRequirementsAnalyzer},
	{"plan_sanitization", (*runner).planSanitization},
	{"unwind_property_rewriter", (*runner).unwindPropertyRewriter},
}

// sealTree seals every node in the final tree that supports sealing, per
// §9: PlanSanitization is the last content-changing pass, so sealing
// happens once here rather than inside planSanitization itself, keeping the
// "is this the last pass" decision in one place.
func sealTree(plan logicalplan.LogicalPlan) {
	logicalplan.Walk(plan, func(p logicalplan.LogicalPlan) {
		switch n := p.(type) {
		case *logicalplan.GraphNode:
			n.Seal()
		case *logicalplan.GraphRel:
			n.Seal()
		case *logicalplan.GraphJoins:
			n.Seal()
		case *logicalplan.WithClause:
			n.Seal()
		case *logicalplan.VlpScan:
			n.Seal()
		}
	})
}
