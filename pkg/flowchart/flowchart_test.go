package flowchart

import (
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

func buildChart(t *testing.T) *FlowChart {
	t.Helper()
	f := New("LR")
	f.AddNode(&Node{ID: "A", Label: "Start"})
	f.AddNode(&Node{ID: "B"})
	f.AddNode(&Node{ID: "C", Shape: ShapeDiamond})
	if err := f.AddEdge(&Edge{From: "A", To: "B", Head: ArrowPoint}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := f.AddEdge(&Edge{From: "B", To: "C", Label: "check"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	f.Subgraphs = append(f.Subgraphs, &Subgraph{ID: "grp", Members: []string{"B", "C"}})
	return f
}

func TestAddNode(t *testing.T) {
	f := New("")
	if f.Direction != "TB" {
		t.Errorf("direction = %q, want TB default", f.Direction)
	}

	n := f.AddNode(&Node{ID: "A"})
	if n.Label != "A" {
		t.Errorf("label = %q, want id fallback", n.Label)
	}
	if n.Shape != ShapeRectangle {
		t.Errorf("shape = %q, want rectangle default", n.Shape)
	}

	// Redeclaration updates in place, order is unchanged.
	f.AddNode(&Node{ID: "B"})
	f.AddNode(&Node{ID: "A", Label: "again", Shape: ShapeCircle})
	if len(f.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(f.Nodes))
	}
	if f.Nodes[0].Label != "again" || f.Nodes[0].Shape != ShapeCircle {
		t.Errorf("node A = %+v, want updated in place", f.Nodes[0])
	}

	// The chart copies the caller's node.
	in := &Node{ID: "C", Styles: map[string]string{"fill": "#fff"}}
	added := f.AddNode(in)
	in.Label = "mutated"
	in.Styles["fill"] = "#000"
	if added.Label == "mutated" || added.Styles["fill"] != "#fff" {
		t.Error("AddNode must copy the input node")
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	f := buildChart(t)

	if !f.RemoveNode("B") {
		t.Fatal("RemoveNode(B) = false")
	}
	if f.HasNode("B") {
		t.Error("B still present")
	}
	for _, e := range f.Edges {
		if e.From == "B" || e.To == "B" {
			t.Errorf("edge %s->%s survived node removal", e.From, e.To)
		}
	}
	if len(f.Edges) != 0 {
		t.Errorf("edges = %d, want 0 after cascade", len(f.Edges))
	}
	if got := f.Subgraphs[0].Members; len(got) != 1 || got[0] != "C" {
		t.Errorf("subgraph members = %v, want [C]", got)
	}

	if f.RemoveNode("B") {
		t.Error("RemoveNode of a missing node should return false")
	}
}

func TestRenameNode(t *testing.T) {
	f := buildChart(t)

	if err := f.RenameNode("B", "Mid"); err != nil {
		t.Fatalf("RenameNode: %v", err)
	}
	if f.HasNode("B") || !f.HasNode("Mid") {
		t.Error("rename did not move the id")
	}
	// B had the default label, so the label follows the id.
	if f.Node("Mid").Label != "Mid" {
		t.Errorf("label = %q, want Mid", f.Node("Mid").Label)
	}
	if f.Edges[0].To != "Mid" || f.Edges[1].From != "Mid" {
		t.Error("edge endpoints not rewritten")
	}
	if f.Subgraphs[0].Members[0] != "Mid" {
		t.Errorf("members = %v, want Mid first", f.Subgraphs[0].Members)
	}

	if err := f.RenameNode("nope", "X"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing node: code = %v, want NOT_FOUND", errors.GetCode(err))
	}
	if err := f.RenameNode("A", "C"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("taken id: code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestRenameNodeKeepsCustomLabel(t *testing.T) {
	f := buildChart(t)
	if err := f.RenameNode("A", "Begin"); err != nil {
		t.Fatalf("RenameNode: %v", err)
	}
	if f.Node("Begin").Label != "Start" {
		t.Errorf("label = %q, want Start preserved", f.Node("Begin").Label)
	}
}

func TestAddEdgeValidation(t *testing.T) {
	f := buildChart(t)

	err := f.AddEdge(&Edge{From: "A", To: "missing"})
	if !errors.Is(err, errors.ErrCodeDanglingReference) {
		t.Errorf("code = %v, want DANGLING_REFERENCE", errors.GetCode(err))
	}
	err = f.AddEdge(&Edge{From: "missing", To: "A"})
	if !errors.Is(err, errors.ErrCodeDanglingReference) {
		t.Errorf("code = %v, want DANGLING_REFERENCE", errors.GetCode(err))
	}

	if err := f.AddEdge(&Edge{From: "C", To: "A"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if got := f.Edges[len(f.Edges)-1].Style; got != LineSolid {
		t.Errorf("style = %q, want solid default", got)
	}
}

func TestRemoveEdge(t *testing.T) {
	f := buildChart(t)

	if !f.RemoveEdge("A", "B") {
		t.Fatal("RemoveEdge(A, B) = false")
	}
	if len(f.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(f.Edges))
	}
	if f.RemoveEdge("A", "B") {
		t.Error("removing a removed edge should return false")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := buildChart(t)
	f.Nodes[0].Styles = map[string]string{"fill": "#abc"}

	c := f.Clone()
	if !f.Equal(c) {
		t.Fatal("clone not equal to original")
	}

	c.Nodes[0].Label = "changed"
	c.Nodes[0].Styles["fill"] = "#000"
	c.Edges[0].Label = "changed"
	c.Subgraphs[0].Members[0] = "changed"
	c.AddNode(&Node{ID: "Z"})

	if f.Nodes[0].Label == "changed" || f.Nodes[0].Styles["fill"] != "#abc" {
		t.Error("clone shares node memory")
	}
	if f.Edges[0].Label == "changed" {
		t.Error("clone shares edge memory")
	}
	if f.Subgraphs[0].Members[0] == "changed" {
		t.Error("clone shares member slices")
	}
	if f.HasNode("Z") {
		t.Error("clone shares node index")
	}
}

func TestEqual(t *testing.T) {
	f := buildChart(t)

	tests := []struct {
		name   string
		mutate func(*FlowChart)
	}{
		{"Direction", func(c *FlowChart) { c.Direction = "RL" }},
		{"NodeLabel", func(c *FlowChart) { c.Nodes[0].Label = "x" }},
		{"NodeShape", func(c *FlowChart) { c.Nodes[2].Shape = ShapeHexagon }},
		{"EdgeLabel", func(c *FlowChart) { c.Edges[1].Label = "x" }},
		{"EdgeHead", func(c *FlowChart) { c.Edges[0].Head = ArrowCross }},
		{"ExtraNode", func(c *FlowChart) { c.AddNode(&Node{ID: "Z"}) }},
		{"Members", func(c *FlowChart) { c.Subgraphs[0].Members[0] = "A" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.Clone()
			if !f.Equal(c) {
				t.Fatal("fresh clone should be equal")
			}
			tt.mutate(c)
			if f.Equal(c) {
				t.Error("charts should differ after mutation")
			}
		})
	}
}
