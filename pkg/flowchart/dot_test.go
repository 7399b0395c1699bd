package flowchart

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	f := New("LR")
	f.AddNode(&Node{ID: "A", Label: "Start", Shape: ShapeRounded})
	f.AddNode(&Node{ID: "B", Shape: ShapeDiamond, Styles: map[string]string{"fill": "#f9f", "stroke": "#333"}})
	f.AddNode(&Node{ID: "C", Shape: ShapeSubroutine})
	f.AddEdge(&Edge{From: "A", To: "B", Label: "go", Head: ArrowPoint})
	f.AddEdge(&Edge{From: "B", To: "C", Style: LineDotted})
	f.AddEdge(&Edge{From: "C", To: "A", Style: LineThick, Head: ArrowCross, Tail: ArrowCircle})

	dot := f.ToDOT(DOTOptions{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"A" [label="Start", shape=box, style="rounded,filled"]`,
		`shape=diamond`,
		`fillcolor="#f9f"`,
		`color="#333"`,
		"peripheries=2",
		`"A" -> "B" [label="go"]`,
		"style=dotted",
		"arrowhead=none", // dotted edge has no head
		"style=bold",
		"dir=both",
		"arrowtail=odot",
		"arrowhead=vee",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTSubgraphClusters(t *testing.T) {
	f := New("TB")
	f.AddNode(&Node{ID: "out"})
	f.AddNode(&Node{ID: "in1"})
	f.AddNode(&Node{ID: "in2"})
	f.Subgraphs = append(f.Subgraphs, &Subgraph{ID: "grp", Title: "Group", Members: []string{"in1", "in2"}})

	dot := f.ToDOT(DOTOptions{})

	if !strings.Contains(dot, `subgraph "cluster_0"`) {
		t.Errorf("DOT missing cluster:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Group";`) {
		t.Errorf("DOT missing cluster label:\n%s", dot)
	}
	// Grouped nodes render inside the cluster only.
	if strings.Count(dot, `"in1" [`) != 1 {
		t.Errorf("in1 should be declared exactly once:\n%s", dot)
	}
}

func TestToDOTCompact(t *testing.T) {
	f := New("TB")
	f.AddNode(&Node{ID: "A", Label: "A long descriptive label"})

	dot := f.ToDOT(DOTOptions{Compact: true})
	if strings.Contains(dot, "A long descriptive label") {
		t.Errorf("compact DOT should drop labels:\n%s", dot)
	}
	if !strings.Contains(dot, `label="A"`) {
		t.Errorf("compact DOT should use the id:\n%s", dot)
	}
}

func TestToDOTUnknownDirection(t *testing.T) {
	f := New("sideways")
	f.AddNode(&Node{ID: "A"})
	if !strings.Contains(f.ToDOT(DOTOptions{}), "rankdir=TB;") {
		t.Error("unknown direction should fall back to TB")
	}
}
