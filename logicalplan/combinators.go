package logicalplan

// CartesianProduct is the product of independently-matched patterns in a
// single comma-separated MATCH ("MATCH (a), (b)"), before
// CartesianJoinExtraction turns any cross-pattern WHERE predicate into a
// real JOIN condition.
type CartesianProduct struct {
	Factors []LogicalPlan
}

func NewCartesianProduct(factors []LogicalPlan) *CartesianProduct {
	return &CartesianProduct{Factors: factors}
}

func (c *CartesianProduct) Op() string              { return "CartesianProduct" }
func (c *CartesianProduct) Children() []LogicalPlan { return c.Factors }
func (*CartesianProduct) logicalPlan()              {}

// Union combines sibling branches, either produced by a user-written
// Cypher UNION/UNION ALL or synthesized by schema-driven type-inference
// expansion (untyped pattern enumeration, bidirectional-edge splitting).
type Union struct {
	Branches []LogicalPlan
	All      bool
}

func NewUnion(branches []LogicalPlan, all bool) *Union {
	return &Union{Branches: branches, All: all}
}

func (u *Union) Op() string              { return "Union" }
func (u *Union) Children() []LogicalPlan { return u.Branches }
func (*Union) logicalPlan()              {}
