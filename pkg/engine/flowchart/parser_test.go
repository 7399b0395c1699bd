package flowchart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

func mustParse(t *testing.T, src string) *payload {
	t.Helper()
	out, err := newParser(src).parse()
	if err != nil {
		t.Fatalf("parse(%q): %v", src, err)
	}
	return out
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		open  string
		close string
		shape string
	}{
		{"[", "]", ShapeRectangle},
		{"(", ")", ShapeRounded},
		{"([", "])", ShapeStadium},
		{"[[", "]]", ShapeSubroutine},
		{"[(", ")]", ShapeCylinder},
		{"((", "))", ShapeCircle},
		{"(((", ")))", ShapeDoubleCircle},
		{">", "]", ShapeAsymmetric},
		{"{", "}", ShapeDiamond},
		{"{{", "}}", ShapeHexagon},
		{"[/", "/]", ShapeParallelogram},
		{"[\\", "\\]", ShapeParallelogramAlt},
		{"[/", "\\]", ShapeTrapezoid},
		{"[\\", "/]", ShapeTrapezoidAlt},
	}

	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			src := fmt.Sprintf("flowchart TD\nA%sLabel%s", tt.open, tt.close)
			out := mustParse(t, src)

			if len(out.Vertices) != 1 {
				t.Fatalf("vertices = %d, want 1", len(out.Vertices))
			}
			v := out.Vertices[0]
			if v.ID != "A" {
				t.Errorf("id = %q, want A", v.ID)
			}
			if v.Label != "Label" {
				t.Errorf("label = %q, want Label", v.Label)
			}
			if v.Shape != tt.shape {
				t.Errorf("shape = %q, want %q", v.Shape, tt.shape)
			}
		})
	}
}

func TestParseLinks(t *testing.T) {
	tests := []struct {
		link      string
		style     string
		headLeft  string
		headRight string
	}{
		{"-->", StyleSolid, "", ">"},
		{"---", StyleSolid, "", ""},
		{"<-->", StyleSolid, "<", ">"},
		{"-.->", StyleDotted, "", ">"},
		{"-.-", StyleDotted, "", ""},
		{"o-.-o", StyleDotted, "o", "o"},
		{"==>", StyleThick, "", ">"},
		{"===", StyleThick, "", ""},
		{"x==x", StyleThick, "x", "x"},
		{"~~~", StyleInvisible, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			out := mustParse(t, fmt.Sprintf("flowchart LR\nA %s B", tt.link))

			if len(out.Edges) != 1 {
				t.Fatalf("edges = %d, want 1", len(out.Edges))
			}
			e := out.Edges[0]
			if e.Source != "A" || e.Target != "B" {
				t.Errorf("edge = %s->%s, want A->B", e.Source, e.Target)
			}
			if e.Style != tt.style {
				t.Errorf("style = %q, want %q", e.Style, tt.style)
			}
			if e.HeadLeft != tt.headLeft {
				t.Errorf("headLeft = %q, want %q", e.HeadLeft, tt.headLeft)
			}
			if e.HeadRight != tt.headRight {
				t.Errorf("headRight = %q, want %q", e.HeadRight, tt.headRight)
			}
		})
	}
}

func TestParseLinkLabels(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		label string
	}{
		{"Piped", "flowchart TD\nA --> |go| B", "go"},
		{"PipedNoSpace", "flowchart TD\nA -->|go| B", "go"},
		{"Inline", "flowchart TD\nA -- hello world --> B", "hello world"},
		{"InlineDotted", "flowchart TD\nA -. hop .-> B", "hop"},
		{"None", "flowchart TD\nA --> B", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustParse(t, tt.src)
			if len(out.Edges) != 1 {
				t.Fatalf("edges = %d, want 1", len(out.Edges))
			}
			if got := out.Edges[0].Label; got != tt.label {
				t.Errorf("label = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestParseChainAndAmpersand(t *testing.T) {
	out := mustParse(t, "flowchart TD\nA --> B --> C")
	if len(out.Edges) != 2 {
		t.Fatalf("chain edges = %d, want 2", len(out.Edges))
	}
	if out.Edges[0].Source != "A" || out.Edges[0].Target != "B" {
		t.Errorf("edge 0 = %s->%s, want A->B", out.Edges[0].Source, out.Edges[0].Target)
	}
	if out.Edges[1].Source != "B" || out.Edges[1].Target != "C" {
		t.Errorf("edge 1 = %s->%s, want B->C", out.Edges[1].Source, out.Edges[1].Target)
	}

	out = mustParse(t, "flowchart TD\nA & B --> C & D")
	if len(out.Edges) != 4 {
		t.Fatalf("cross product edges = %d, want 4", len(out.Edges))
	}
	want := [][2]string{{"A", "C"}, {"A", "D"}, {"B", "C"}, {"B", "D"}}
	for i, w := range want {
		if out.Edges[i].Source != w[0] || out.Edges[i].Target != w[1] {
			t.Errorf("edge %d = %s->%s, want %s->%s", i, out.Edges[i].Source, out.Edges[i].Target, w[0], w[1])
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"flowchart TD", "TB"},
		{"flowchart TB", "TB"},
		{"flowchart LR", "LR"},
		{"flowchart RL", "RL"},
		{"flowchart BT", "BT"},
		{"flowchart", "TB"},
		{"graph LR", "LR"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			out := mustParse(t, tt.header)
			if out.Direction != tt.want {
				t.Errorf("direction = %q, want %q", out.Direction, tt.want)
			}
		})
	}
}

func TestParseSubgraph(t *testing.T) {
	src := `flowchart TD
subgraph backend [Backend Services]
  api --> db[(Store)]
end
client --> api`
	out := mustParse(t, src)

	if len(out.Subgraphs) != 1 {
		t.Fatalf("subgraphs = %d, want 1", len(out.Subgraphs))
	}
	sg := out.Subgraphs[0]
	if sg.ID != "backend" {
		t.Errorf("id = %q, want backend", sg.ID)
	}
	if sg.Title != "Backend Services" {
		t.Errorf("title = %q, want Backend Services", sg.Title)
	}
	if len(sg.Members) != 2 || sg.Members[0] != "api" || sg.Members[1] != "db" {
		t.Errorf("members = %v, want [api db]", sg.Members)
	}

	// client is declared outside the subgraph
	for _, m := range sg.Members {
		if m == "client" {
			t.Error("client should not be a subgraph member")
		}
	}
}

func TestParseNestedSubgraphs(t *testing.T) {
	src := `flowchart TD
subgraph outer
  subgraph inner
    A --> B
  end
  C
end`
	out := mustParse(t, src)

	if len(out.Subgraphs) != 2 {
		t.Fatalf("subgraphs = %d, want 2", len(out.Subgraphs))
	}
	inner := out.Subgraphs[1]
	if inner.ID != "inner" || len(inner.Members) != 2 {
		t.Errorf("inner = %q members %v, want inner [A B]", inner.ID, inner.Members)
	}
	outer := out.Subgraphs[0]
	if len(outer.Members) != 1 || outer.Members[0] != "C" {
		t.Errorf("outer members = %v, want [C]", outer.Members)
	}
}

func TestParseStyleStatement(t *testing.T) {
	out := mustParse(t, "flowchart TD\nA[Start]\nstyle A fill:#f9f, stroke:#333")

	if len(out.Vertices) != 1 {
		t.Fatalf("vertices = %d, want 1", len(out.Vertices))
	}
	v := out.Vertices[0]
	if v.Styles["fill"] != "#f9f" {
		t.Errorf("fill = %q, want #f9f", v.Styles["fill"])
	}
	if v.Styles["stroke"] != "#333" {
		t.Errorf("stroke = %q, want #333", v.Styles["stroke"])
	}
}

func TestParseRepeatedNodeUpdatesInPlace(t *testing.T) {
	out := mustParse(t, "flowchart TD\nA[First] --> B\nA[Second] --> C")

	if len(out.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(out.Vertices))
	}
	if out.Vertices[0].ID != "A" || out.Vertices[0].Label != "Second" {
		t.Errorf("vertex 0 = %q/%q, want A/Second", out.Vertices[0].ID, out.Vertices[0].Label)
	}
}

func TestParseCommentsAndSemicolons(t *testing.T) {
	src := `flowchart TD
%% full line comment
A --> B %% trailing comment
B --> C; C --> D
E["100%% sure"]`
	out := mustParse(t, src)

	if len(out.Edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(out.Edges))
	}
	var quoted *vertex
	for i := range out.Vertices {
		if out.Vertices[i].ID == "E" {
			quoted = &out.Vertices[i]
		}
	}
	if quoted == nil {
		t.Fatal("vertex E missing")
	}
	if !strings.Contains(quoted.Label, "%%") {
		t.Errorf("quoted label = %q, want %%%% preserved", quoted.Label)
	}
}

func TestParseQuotedNodeLabel(t *testing.T) {
	out := mustParse(t, `flowchart TD`+"\n"+`A["a ] b"]`)
	if out.Vertices[0].Label != "a ] b" {
		t.Errorf("label = %q, want %q", out.Vertices[0].Label, "a ] b")
	}
}

func TestParseNonASCIILabels(t *testing.T) {
	// Multi-byte runes in a label must not throw off the cursor for the
	// rest of the statement.
	out := mustParse(t, "flowchart TD\nA[héllo wörld] --> B{日本語}")

	if len(out.Vertices) != 2 {
		t.Fatalf("vertices = %d, want 2", len(out.Vertices))
	}
	if got := out.Vertices[0].Label; got != "héllo wörld" {
		t.Errorf("label = %q, want %q", got, "héllo wörld")
	}
	if got := out.Vertices[1].Label; got != "日本語" {
		t.Errorf("label = %q, want %q", got, "日本語")
	}
	if len(out.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(out.Edges))
	}
	if e := out.Edges[0]; e.Source != "A" || e.Target != "B" {
		t.Errorf("edge = %s->%s, want A->B", e.Source, e.Target)
	}
}

func TestParseEmptyDiagram(t *testing.T) {
	out := mustParse(t, "flowchart TD")
	if len(out.Vertices) != 0 || len(out.Edges) != 0 {
		t.Fatalf("vertices/edges = %d/%d, want 0/0", len(out.Vertices), len(out.Edges))
	}

	// The wire form must carry empty arrays, not nulls.
	raw, err := New().Parse(context.Background(), "flowchart TD")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, want := range []string{`"vertices":[]`, `"edges":[]`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("payload %s missing %s", raw, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"MissingHeader", "A --> B"},
		{"BadHeaderKeyword", "pie TD"},
		{"UnknownDirection", "flowchart XX"},
		{"UnclosedSubgraph", "flowchart TD\nsubgraph s\nA"},
		{"EndWithoutSubgraph", "flowchart TD\nend"},
		{"UnterminatedNodeLabel", "flowchart TD\nA[Start"},
		{"UnterminatedQuotedLabel", "flowchart TD\nA[\"Start]"},
		{"UnterminatedPipedLabel", "flowchart TD\nA --> |go B"},
		{"UnterminatedInlineLabel", "flowchart TD\nA -- text B"},
		{"DanglingLink", "flowchart TD\nA -->"},
		{"MalformedStyle", "flowchart TD\nstyle A fill"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser(tt.src).parse()
			if err == nil {
				t.Fatalf("parse(%q) succeeded, want error", tt.src)
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeParse)
			}
		})
	}
}
