package flowchart

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// shapeBrackets maps shape kinds to their mermaid bracket pair.
var shapeBrackets = map[ShapeKind][2]string{
	ShapeRectangle:        {"[", "]"},
	ShapeRounded:          {"(", ")"},
	ShapeStadium:          {"([", "])"},
	ShapeSubroutine:       {"[[", "]]"},
	ShapeCylinder:         {"[(", ")]"},
	ShapeCircle:           {"((", "))"},
	ShapeDoubleCircle:     {"(((", ")))"},
	ShapeAsymmetric:       {">", "]"},
	ShapeDiamond:          {"{", "}"},
	ShapeHexagon:          {"{{", "}}"},
	ShapeParallelogram:    {"[/", "/]"},
	ShapeParallelogramAlt: {"[\\", "\\]"},
	ShapeTrapezoid:        {"[/", "\\]"},
	ShapeTrapezoidAlt:     {"[\\", "/]"},
}

var lineBodies = map[LineStyle][2]string{
	LineSolid:     {"---", "--"},
	LineDotted:    {"-.-", "-.-"},
	LineThick:     {"===", "=="},
	LineInvisible: {"~~~", "~~~"},
}

var arrowChars = map[ArrowKind]string{
	ArrowPoint:  ">",
	ArrowCircle: "o",
	ArrowCross:  "x",
}

var tailChars = map[ArrowKind]string{
	ArrowPoint:  "<",
	ArrowCircle: "o",
	ArrowCross:  "x",
}

// Script regenerates mermaid flowchart text for the chart. The output
// is canonical: node declarations first (grouped into their subgraphs),
// then edges, then style statements. Parsing and converting the script
// yields a structurally equal chart.
func (f *FlowChart) Script() string {
	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", f.Direction)

	inSubgraph := make(map[string]bool)
	for _, sg := range f.Subgraphs {
		for _, m := range sg.Members {
			inSubgraph[m] = true
		}
	}

	for _, n := range f.Nodes {
		if !inSubgraph[n.ID] {
			b.WriteString("\t" + nodeDecl(n) + "\n")
		}
	}

	for _, sg := range f.Subgraphs {
		if sg.Title != "" {
			fmt.Fprintf(&b, "\tsubgraph %s [%s]\n", sg.ID, sg.Title)
		} else {
			fmt.Fprintf(&b, "\tsubgraph %s\n", sg.ID)
		}
		for _, m := range sg.Members {
			if n := f.Node(m); n != nil {
				b.WriteString("\t\t" + nodeDecl(n) + "\n")
			}
		}
		b.WriteString("\tend\n")
	}

	for _, e := range f.Edges {
		b.WriteString("\t" + edgeDecl(e) + "\n")
	}

	for _, n := range f.Nodes {
		if len(n.Styles) == 0 {
			continue
		}
		pairs := make([]string, 0, len(n.Styles))
		for _, k := range slices.Sorted(maps.Keys(n.Styles)) {
			pairs = append(pairs, k+":"+n.Styles[k])
		}
		fmt.Fprintf(&b, "\tstyle %s %s\n", n.ID, strings.Join(pairs, ","))
	}

	return b.String()
}

func nodeDecl(n *Node) string {
	brackets, ok := shapeBrackets[n.Shape]
	if !ok {
		brackets = shapeBrackets[ShapeRectangle]
	}
	return n.ID + brackets[0] + quoteLabel(n.Label) + brackets[1]
}

// quoteLabel wraps a label in quotes when it contains characters that
// would confuse the bracket scanner.
func quoteLabel(label string) string {
	if strings.ContainsAny(label, `[](){}|"<>`) {
		return `"` + strings.ReplaceAll(label, `"`, "'") + `"`
	}
	return label
}

func edgeDecl(e *Edge) string {
	bodies := lineBodies[e.Style]
	if bodies[0] == "" {
		bodies = lineBodies[LineSolid]
	}

	op := bodies[0]
	if head, ok := arrowChars[e.Head]; ok && e.Style != LineInvisible {
		op = bodies[1] + head
	}
	if tail, ok := tailChars[e.Tail]; ok && e.Style != LineInvisible {
		op = tail + op
	}

	if e.Label != "" {
		return fmt.Sprintf("%s %s|%s| %s", e.From, op, e.Label, e.To)
	}
	return fmt.Sprintf("%s %s %s", e.From, op, e.To)
}
