package logicalplan

import "github.com/genezhang/clickgraph/catalog/patterncontext"

// VariableKind classifies what a bound Cypher variable currently refers to,
// for VariableResolver (§4.3 pass 13).
type VariableKind uint8

const (
	// VariableUnbound has not been resolved to a source yet.
	VariableUnbound VariableKind = iota
	// VariableScan refers to a table scan (a GraphNode/GraphRel alias).
	VariableScan
	// VariableCte refers to a materialized WithClause output.
	VariableCte
	// VariableRow refers to the per-row variable an UNWIND clause
	// introduces, which is neither a table scan nor a CTE column.
	VariableRow
)

// NodeIDMarker is the synthetic property name id()/elementId() decoding
// produces during expression resolution (FilterTagging, VariableResolver).
// It is carried as an ordinary PropertyAccess.Property value rather than
// resolved immediately, the same way a CTE-bound access is deferred: the
// render-plan builder resolves it to the bound alias's schema ID column
// once, right before emission, using the same AliasLabel record those
// passes populated.
const NodeIDMarker = "__node_id__"

// cteColumnKey is the (alias, cypher property) pair CTE schema resolution
// maps to an output column name.
type cteColumnKey struct {
	alias, property string
}

// VlpEndpoints records which aliases are bound at the two ends of a
// variable-length path pattern, so GraphTraversalPlanning knows which
// endpoint is already fixed by an earlier MATCH and which is free.
type VlpEndpoints struct {
	LeftBound  bool
	RightBound bool
}

// PlanCtx is the mutable analysis-state bus threaded through every pass of
// one query's planning run. It is not part of the LogicalPlan sum type:
// passes read and write it alongside whatever plan node they're
// transforming, the way a compiler threads a symbol table alongside an AST.
// A PlanCtx is single-query, single-goroutine: it carries no synchronization
// of its own, unlike the patterncontext.Store it wraps, which is shared
// read-only across concurrently-planning queries.
type PlanCtx struct {
	Patterns *patterncontext.Store

	// variableKinds tracks what each bound alias currently resolves to.
	variableKinds map[string]VariableKind

	// cteColumns maps (alias, cypher property) to the output column name of
	// the CTE that materializes alias, once CTE schema resolution has run.
	cteColumns map[cteColumnKey]string

	// optionalAliases holds every alias introduced under an OPTIONAL MATCH;
	// GraphJoinInference and the renderer both consult this to decide
	// between an INNER and a LEFT join.
	optionalAliases map[string]bool

	// projectionAliases holds user-assigned RETURN/WITH aliases so
	// ProjectionTagging can detect and reject (or reuse, per pass rules)
	// collisions with bound pattern variables.
	projectionAliases map[string]bool

	// propertyRequirements accumulates, per alias, the minimal set of
	// properties PropertyRequirementsAnalyzer's backward pass determined
	// are actually read downstream. A nil entry (as opposed to an absent
	// one) means "requirements not yet computed for this alias".
	propertyRequirements map[string]map[string]bool

	vlpEndpoints map[string]VlpEndpoints

	// aliasLabels maps a scan-bound alias to the node label ViewScan
	// resolution gave it, so later passes (FilterTagging resolving
	// alias.prop, GroupByBuilding's id column lookups) can find the
	// property/column mapping without re-walking the tree for the original
	// GraphNode, which UnifiedTypeInference has already replaced.
	aliasLabels map[string]string

	// variableCte maps a CTE-bound variable name to the materialized CTE
	// name it is exposed through, so CteReferencePopulator can record which
	// CTEs a downstream GraphRel depends on.
	variableCte map[string]string

	untypedCombinationCount int
	maxUntypedCombinations  int
}

// NewPlanCtx creates an empty PlanCtx over the given pattern-context store.
// maxUntypedCombinations bounds untyped label/type enumeration (§4.3 pass 1,
// limits); 0 selects the default of 4.
func NewPlanCtx(patterns *patterncontext.Store, maxUntypedCombinations int) *PlanCtx {
	if maxUntypedCombinations <= 0 {
		maxUntypedCombinations = 4
	}
	return &PlanCtx{
		Patterns:              patterns,
		variableKinds:         make(map[string]VariableKind),
		cteColumns:            make(map[cteColumnKey]string),
		optionalAliases:       make(map[string]bool),
		projectionAliases:     make(map[string]bool),
		propertyRequirements:  make(map[string]map[string]bool),
		vlpEndpoints:          make(map[string]VlpEndpoints),
		aliasLabels:           make(map[string]string),
		variableCte:           make(map[string]string),
		maxUntypedCombinations: maxUntypedCombinations,
	}
}

// RegisterAliasLabel records the node label a scan-bound alias resolved to.
func (p *PlanCtx) RegisterAliasLabel(alias, label string) {
	p.aliasLabels[alias] = label
}

// AliasLabel returns the node label registered for alias, if any.
func (p *PlanCtx) AliasLabel(alias string) (string, bool) {
	label, ok := p.aliasLabels[alias]
	return label, ok
}

// BoundAliases returns every alias RegisterAliasLabel has recorded, for
// "RETURN *" expansion.
func (p *PlanCtx) BoundAliases() []string {
	aliases := make([]string, 0, len(p.aliasLabels))
	for alias := range p.aliasLabels {
		aliases = append(aliases, alias)
	}
	return aliases
}

// RegisterVariableCte records which materialized CTE a CTE-bound variable
// is exposed through.
func (p *PlanCtx) RegisterVariableCte(variable, cteName string) {
	p.variableCte[variable] = cteName
}

// VariableCteName returns the materialized CTE name registered for
// variable, if any.
func (p *PlanCtx) VariableCteName(variable string) (string, bool) {
	name, ok := p.variableCte[variable]
	return name, ok
}

// BindVariable records what kind of source alias currently resolves to.
func (p *PlanCtx) BindVariable(alias string, kind VariableKind) {
	p.variableKinds[alias] = kind
}

// VariableKind reports what alias currently resolves to. Unbound aliases
// report VariableUnbound.
func (p *PlanCtx) VariableKind(alias string) VariableKind {
	return p.variableKinds[alias]
}

// RegisterCteColumn records the output column name a WithClause's CTE
// exposes for (alias, property), per the CTE schema resolver pass.
func (p *PlanCtx) RegisterCteColumn(alias, property, column string) {
	p.cteColumns[cteColumnKey{alias, property}] = column
}

// CteColumn resolves (alias, property) to its CTE output column name, if
// the CTE schema resolver has registered one.
func (p *PlanCtx) CteColumn(alias, property string) (string, bool) {
	col, ok := p.cteColumns[cteColumnKey{alias, property}]
	return col, ok
}

// MarkOptional records that alias was introduced under an OPTIONAL MATCH.
func (p *PlanCtx) MarkOptional(alias string) {
	p.optionalAliases[alias] = true
}

// IsOptional reports whether alias was introduced under an OPTIONAL MATCH.
func (p *PlanCtx) IsOptional(alias string) bool {
	return p.optionalAliases[alias]
}

// RegisterProjectionAlias records a user-assigned RETURN/WITH alias.
func (p *PlanCtx) RegisterProjectionAlias(alias string) {
	p.projectionAliases[alias] = true
}

// HasProjectionAlias reports whether alias was registered by
// RegisterProjectionAlias.
func (p *PlanCtx) HasProjectionAlias(alias string) bool {
	return p.projectionAliases[alias]
}

// RequireProperty records that alias.property is read somewhere downstream
// of the current pass.
func (p *PlanCtx) RequireProperty(alias, property string) {
	set, ok := p.propertyRequirements[alias]
	if !ok {
		set = make(map[string]bool)
		p.propertyRequirements[alias] = set
	}
	set[property] = true
}

// RequiredProperties returns the property names PropertyRequirementsAnalyzer
// has determined are needed for alias. A nil, false result means no
// requirements have been recorded yet for that alias.
func (p *PlanCtx) RequiredProperties(alias string) ([]string, bool) {
	set, ok := p.propertyRequirements[alias]
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names, true
}

// SetVlpEndpoints records which ends of a variable-length path alias are
// already bound by an earlier MATCH.
func (p *PlanCtx) SetVlpEndpoints(alias string, endpoints VlpEndpoints) {
	p.vlpEndpoints[alias] = endpoints
}

// VlpEndpoints returns the recorded endpoint-binding state for alias.
func (p *PlanCtx) VlpEndpoints(alias string) VlpEndpoints {
	return p.vlpEndpoints[alias]
}

// MaxUntypedCombinations returns the configured bound on untyped label/type
// enumeration during UnifiedTypeInference sub-phase 2.
func (p *PlanCtx) MaxUntypedCombinations() int {
	return p.maxUntypedCombinations
}

// NoteUntypedCombination increments the running count of untyped
// combinations generated so far and reports whether the configured bound
// has been exceeded.
func (p *PlanCtx) NoteUntypedCombination() (exceeded bool) {
	p.untypedCombinationCount++
	return p.untypedCombinationCount > p.maxUntypedCombinations
}
