package logicalplan_test

import (
	"testing"

	"github.com/genezhang/clickgraph/logicalplan"
)

func TestWithChildren_Filter(t *testing.T) {
	a := logicalplan.NewGraphNode("a", nil, nil)
	b := logicalplan.NewGraphNode("b", nil, nil)
	f := &logicalplan.Filter{Child: a}

	replaced := logicalplan.WithChildren(f, []logicalplan.LogicalPlan{b})
	rf, ok := replaced.(*logicalplan.Filter)
	if !ok {
		t.Fatalf("replaced = %T, want *Filter", replaced)
	}
	if rf.Child != logicalplan.LogicalPlan(b) {
		t.Errorf("Child = %v, want b", rf.Child)
	}
	if f.Child != logicalplan.LogicalPlan(a) {
		t.Error("WithChildren must not mutate the original node")
	}
}

func TestWithChildren_WrongArityPanics(t *testing.T) {
	a := logicalplan.NewGraphNode("a", nil, nil)
	f := &logicalplan.Filter{Child: a}

	defer func() {
		if recover() == nil {
			t.Error("WithChildren with wrong arity should panic")
		}
	}()
	logicalplan.WithChildren(f, nil)
}

func TestWalk_VisitsAllNodes(t *testing.T) {
	a := logicalplan.NewGraphNode("a", nil, nil)
	b := logicalplan.NewGraphNode("b", nil, nil)
	joins := logicalplan.NewGraphJoins([]logicalplan.LogicalPlan{a, b})
	f := &logicalplan.Filter{Child: joins}

	var ops []string
	logicalplan.Walk(f, func(p logicalplan.LogicalPlan) {
		ops = append(ops, p.Op())
	})

	if len(ops) != 4 {
		t.Fatalf("Walk visited %v, want 4 nodes", ops)
	}
	if ops[len(ops)-1] != "Filter" {
		t.Errorf("last visited = %q, want Filter (bottom-up, parent last)", ops[len(ops)-1])
	}
}

func TestRewrite_ReplacesMatchingNode(t *testing.T) {
	a := logicalplan.NewGraphNode("a", nil, nil)
	f := &logicalplan.Filter{Child: a}

	scan := logicalplan.ViewScan{Alias: "a", Table: "persons"}
	rewritten := logicalplan.Rewrite(f, func(p logicalplan.LogicalPlan) logicalplan.LogicalPlan {
		if n, ok := p.(*logicalplan.GraphNode); ok && n.Alias == "a" {
			return scan
		}
		return p
	})

	rf, ok := rewritten.(*logicalplan.Filter)
	if !ok {
		t.Fatalf("rewritten = %T, want *Filter", rewritten)
	}
	if rf.Child != logicalplan.LogicalPlan(scan) {
		t.Errorf("Child = %v, want the ViewScan replacement", rf.Child)
	}
}
