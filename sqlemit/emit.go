package sqlemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genezhang/clickgraph/renderplan"
)

// MaxRecursiveCteEvaluationDepth is the ClickHouse session setting applied to
// every emitted query containing at least one recursive CTE, bounding how
// many iterations the recursive arm may run before ClickHouse aborts the
// query. The value is fixed at 100; Emit offers no way to override it.
const MaxRecursiveCteEvaluationDepth = 100

// Emit renders a RenderPlan as a single SQL statement: a flat WITH clause
// (singular WITH RECURSIVE keyword even when only one CTE is recursive,
// §4.5's flatten_all_ctes invariant) followed by the final SELECT, with a
// SETTINGS clause appended when recursion is present.
func Emit(plan *renderplan.RenderPlan) (string, error) {
	var b strings.Builder
	if len(plan.Ctes) > 0 {
		if plan.HasRecursion() {
			b.WriteString("WITH RECURSIVE ")
		} else {
			b.WriteString("WITH ")
		}
		for i, cte := range plan.Ctes {
			if i > 0 {
				b.WriteString(",\n")
			}
			b.WriteString(cte.Name)
			b.WriteString(" AS (\n")
			if err := emitCteBody(&b, cte.Body); err != nil {
				return "", fmt.Errorf("sqlemit: cte %q: %w", cte.Name, err)
			}
			b.WriteString("\n)")
		}
		b.WriteString("\n")
	}

	if err := emitSelect(&b, plan.Final); err != nil {
		return "", err
	}

	if plan.HasRecursion() {
		b.WriteString("\nSETTINGS max_recursive_cte_evaluation_depth = ")
		b.WriteString(strconv.Itoa(MaxRecursiveCteEvaluationDepth))
	}
	return b.String(), nil
}

func emitCteBody(b *strings.Builder, body renderplan.CteBody) error {
	switch v := body.(type) {
	case *renderplan.Select:
		return emitSelect(b, v)
	case *renderplan.RecursiveSelect:
		if err := emitSelect(b, v.Base); err != nil {
			return err
		}
		b.WriteString("\nUNION ALL\n")
		if err := emitSelect(b, v.Recursive); err != nil {
			return err
		}
		if v.FinalFilter != nil {
			return fmt.Errorf("sqlemit: RecursiveSelect.FinalFilter rendering is not implemented; the render-plan builder should have attached it to the consuming Select instead")
		}
		return nil
	default:
		return fmt.Errorf("sqlemit: unknown CTE body type %T", body)
	}
}

func emitSelect(b *strings.Builder, sel *renderplan.Select) error {
	b.WriteString("SELECT ")
	if sel.Distinct {
		b.WriteString("DISTINCT ")
	}
	if err := emitColumns(b, sel.Columns); err != nil {
		return err
	}

	b.WriteString("\nFROM ")
	emitFromItem(b, sel.From)

	for _, j := range sel.Joins {
		b.WriteByte('\n')
		if err := emitJoin(b, j); err != nil {
			return err
		}
	}

	if sel.ArrayJoin != nil {
		b.WriteByte('\n')
		if err := emitArrayJoin(b, sel.ArrayJoin); err != nil {
			return err
		}
	}

	if sel.Where != nil {
		b.WriteString("\nWHERE ")
		if err := renderExpr(b, sel.Where); err != nil {
			return err
		}
	}

	if len(sel.GroupBy) > 0 {
		b.WriteString("\nGROUP BY ")
		for i, k := range sel.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := renderExpr(b, k); err != nil {
				return err
			}
		}
	}

	if sel.Having != nil {
		b.WriteString("\nHAVING ")
		if err := renderExpr(b, sel.Having); err != nil {
			return err
		}
	}

	if len(sel.OrderBy) > 0 {
		b.WriteString("\nORDER BY ")
		for i, o := range sel.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := renderExpr(b, o.Expr); err != nil {
				return err
			}
			if o.Descending {
				b.WriteString(" DESC")
			}
		}
	}

	if sel.Limit != nil {
		b.WriteString("\nLIMIT ")
		if err := renderExpr(b, sel.Limit); err != nil {
			return err
		}
	}

	if sel.Skip != nil {
		b.WriteString("\nOFFSET ")
		if err := renderExpr(b, sel.Skip); err != nil {
			return err
		}
	}

	for _, branch := range sel.UnionWith {
		if sel.UnionAll {
			b.WriteString("\nUNION ALL\n")
		} else {
			b.WriteString("\nUNION DISTINCT\n")
		}
		if err := emitSelect(b, branch); err != nil {
			return err
		}
	}
	return nil
}

func emitColumns(b *strings.Builder, cols []renderplan.SelectColumn) error {
	if len(cols) == 0 {
		b.WriteByte('*')
		return nil
	}
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		if c.Expr == nil {
			b.WriteByte('*')
			continue
		}
		if err := renderExpr(b, c.Expr); err != nil {
			return err
		}
		if c.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(c.Alias)
		}
	}
	return nil
}

func emitFromItem(b *strings.Builder, f renderplan.FromItem) {
	if f.Database != "" {
		b.WriteString(f.Database)
		b.WriteByte('.')
	}
	b.WriteString(f.Table)
	if f.Final {
		b.WriteString(" FINAL")
	}
	if f.Alias != "" && f.Alias != f.Table {
		b.WriteString(" AS ")
		b.WriteString(f.Alias)
	}
}

func emitJoin(b *strings.Builder, j renderplan.Join) error {
	b.WriteString(j.Kind.String())
	b.WriteString(" JOIN ")
	b.WriteString(j.TableOrCte)
	if j.Final {
		b.WriteString(" FINAL")
	}
	if j.Alias != "" && j.Alias != j.TableOrCte {
		b.WriteString(" AS ")
		b.WriteString(j.Alias)
	}
	if j.OnLeftAlias == "" && j.OnLeftCol == "" && j.OnRightCol == "" && len(j.ExtraOn) == 0 {
		return nil
	}
	b.WriteString(" ON ")
	b.WriteString(j.OnLeftAlias)
	b.WriteByte('.')
	b.WriteString(j.OnLeftCol)
	b.WriteString(" = ")
	b.WriteString(j.Alias)
	b.WriteByte('.')
	b.WriteString(j.OnRightCol)
	for _, extra := range j.ExtraOn {
		b.WriteString(" AND ")
		if err := renderExpr(b, extra); err != nil {
			return err
		}
	}
	return nil
}

func emitArrayJoin(b *strings.Builder, a *renderplan.ArrayJoinClause) error {
	if a.Left {
		b.WriteString("LEFT ")
	}
	b.WriteString("ARRAY JOIN ")
	if err := renderExpr(b, a.Expr); err != nil {
		return err
	}
	b.WriteString(" AS ")
	b.WriteString(a.Alias)
	return nil
}
