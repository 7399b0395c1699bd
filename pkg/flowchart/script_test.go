package flowchart

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
)

// reconvert parses a script and converts it back into a chart.
func reconvert(t *testing.T, script string) *FlowChart {
	t.Helper()
	doc, err := engine.Default().Parse(context.Background(), diagram.Source{Text: script})
	if err != nil {
		t.Fatalf("Parse(%q): %v", script, err)
	}
	fc, err := Convert(doc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return fc
}

func TestScriptRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func() *FlowChart
	}{
		{
			name: "Minimal",
			build: func() *FlowChart {
				f := New("TB")
				f.AddNode(&Node{ID: "A"})
				return f
			},
		},
		{
			name: "Shapes",
			build: func() *FlowChart {
				f := New("LR")
				shapes := []ShapeKind{
					ShapeRectangle, ShapeRounded, ShapeStadium, ShapeSubroutine,
					ShapeCylinder, ShapeCircle, ShapeDoubleCircle, ShapeAsymmetric,
					ShapeDiamond, ShapeHexagon, ShapeParallelogram,
					ShapeParallelogramAlt, ShapeTrapezoid, ShapeTrapezoidAlt,
				}
				for i, s := range shapes {
					f.AddNode(&Node{ID: string(rune('A' + i)), Label: "node", Shape: s})
				}
				return f
			},
		},
		{
			name: "EdgeStylesAndHeads",
			build: func() *FlowChart {
				f := New("TB")
				for _, id := range []string{"A", "B", "C", "D", "E"} {
					f.AddNode(&Node{ID: id})
				}
				f.AddEdge(&Edge{From: "A", To: "B", Head: ArrowPoint})
				f.AddEdge(&Edge{From: "B", To: "C", Style: LineDotted, Head: ArrowCircle, Tail: ArrowCircle})
				f.AddEdge(&Edge{From: "C", To: "D", Style: LineThick, Head: ArrowCross})
				f.AddEdge(&Edge{From: "D", To: "E", Style: LineInvisible})
				f.AddEdge(&Edge{From: "A", To: "E", Head: ArrowPoint, Tail: ArrowPoint})
				f.AddEdge(&Edge{From: "B", To: "D"})
				return f
			},
		},
		{
			name: "LabelsAndStyles",
			build: func() *FlowChart {
				f := New("RL")
				f.AddNode(&Node{ID: "A", Label: "plain label"})
				f.AddNode(&Node{ID: "B", Label: "tricky [label]", Styles: map[string]string{"fill": "#f9f", "stroke": "#333"}})
				f.AddEdge(&Edge{From: "A", To: "B", Label: "with label", Head: ArrowPoint})
				return f
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.build()
			got := reconvert(t, f.Script())
			if !f.Equal(got) {
				t.Errorf("round trip mismatch:\noriginal: %s\nscript:\n%s", tt.name, f.Script())
			}
		})
	}
}

func TestScriptSubgraphs(t *testing.T) {
	f := New("TB")
	f.AddNode(&Node{ID: "client"})
	f.AddNode(&Node{ID: "api"})
	f.AddNode(&Node{ID: "db", Shape: ShapeCylinder})
	f.AddEdge(&Edge{From: "client", To: "api", Head: ArrowPoint})
	f.AddEdge(&Edge{From: "api", To: "db", Head: ArrowPoint})
	f.Subgraphs = append(f.Subgraphs, &Subgraph{ID: "backend", Title: "Backend", Members: []string{"api", "db"}})

	script := f.Script()
	if !strings.Contains(script, "subgraph backend [Backend]") {
		t.Errorf("script missing subgraph header:\n%s", script)
	}
	if !strings.Contains(script, "\tend\n") {
		t.Errorf("script missing subgraph end:\n%s", script)
	}

	got := reconvert(t, script)
	if len(got.Subgraphs) != 1 {
		t.Fatalf("subgraphs = %d, want 1", len(got.Subgraphs))
	}
	sg := got.Subgraphs[0]
	if sg.ID != "backend" || sg.Title != "Backend" {
		t.Errorf("subgraph = %+v", sg)
	}
	if len(sg.Members) != 2 || sg.Members[0] != "api" || sg.Members[1] != "db" {
		t.Errorf("members = %v, want [api db]", sg.Members)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Errorf("nodes/edges = %d/%d, want 3/2", len(got.Nodes), len(got.Edges))
	}
}

func TestScriptUnknownShapeFallsBack(t *testing.T) {
	f := New("TB")
	f.AddNode(&Node{ID: "A", Shape: ShapeUnknown, RawShape: "hedgehog"})

	script := f.Script()
	if !strings.Contains(script, "A[A]") {
		t.Errorf("unknown shape should render as rectangle:\n%s", script)
	}
	// Still parseable.
	reconvert(t, script)
}
