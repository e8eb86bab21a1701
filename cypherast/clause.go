package cypherast

// Query is the root of a parsed Cypher query: an ordered sequence of
// clauses, exactly as the external parser produced them. The logical plan
// builder walks this slice once, left to right.
type Query struct {
	Clauses []Clause
}

// Clause is the closed sum type of top-level Cypher clauses.
type Clause interface {
	Op() string
	clause()
}

// ProjectionItem is one "expr [AS alias]" entry in a WITH/RETURN list, or
// the bare "*" wildcard (IsStar).
type ProjectionItem struct {
	Expr    Expression
	Alias   string
	IsStar  bool
}

// SortItem is one "expr [ASC|DESC]" entry in an ORDER BY list.
type SortItem struct {
	Expr       Expression
	Descending bool
}

// MatchClause is a MATCH or OPTIONAL MATCH, with comma-separated patterns
// and an optional inline WHERE.
type MatchClause struct {
	Optional bool
	Patterns []Pattern
	Where    Expression // nil if absent
}

func (MatchClause) Op() string { return "match" }
func (MatchClause) clause()    {}

// WithClause is a WITH projection barrier: it carries its own WHERE (post-
// projection filter), ORDER BY, SKIP, and LIMIT, all scoped to the
// projected variables only.
type WithClause struct {
	Items    []ProjectionItem
	Distinct bool
	Where    Expression
	OrderBy  []SortItem
	Skip     Expression
	Limit    Expression
}

func (WithClause) Op() string { return "with" }
func (WithClause) clause()    {}

// ReturnClause is the terminal projection of a query.
type ReturnClause struct {
	Items    []ProjectionItem
	Distinct bool
	OrderBy  []SortItem
	Skip     Expression
	Limit    Expression
}

func (ReturnClause) Op() string { return "return" }
func (ReturnClause) clause()    {}

// UnwindClause expands a list-valued expression into one row per element,
// binding each to As.
type UnwindClause struct {
	Expr Expression
	As   string
}

func (UnwindClause) Op() string { return "unwind" }
func (UnwindClause) clause()    {}

// UnionClause separates two query segments; it has no payload beyond
// whether duplicates are kept (UNION ALL) or removed (UNION).
type UnionClause struct {
	All bool
}

func (UnionClause) Op() string { return "union" }
func (UnionClause) clause()    {}

// CallClause invokes a procedure, optionally yielding named outputs into
// scope.
type CallClause struct {
	ProcedureName string
	Args          []Expression
	Yield         []string
}

func (CallClause) Op() string { return "call" }
func (CallClause) clause()    {}
