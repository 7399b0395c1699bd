package flowchart

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Compact drops node labels and renders ids only.
	Compact bool
}

var dotShapes = map[ShapeKind]string{
	ShapeRectangle:        "box",
	ShapeRounded:          "box",
	ShapeStadium:          "oval",
	ShapeSubroutine:       "box",
	ShapeCylinder:         "cylinder",
	ShapeCircle:           "circle",
	ShapeDoubleCircle:     "doublecircle",
	ShapeAsymmetric:       "cds",
	ShapeDiamond:          "diamond",
	ShapeHexagon:          "hexagon",
	ShapeParallelogram:    "parallelogram",
	ShapeParallelogramAlt: "parallelogram",
	ShapeTrapezoid:        "trapezium",
	ShapeTrapezoidAlt:     "invtrapezium",
	ShapeUnknown:          "box",
}

var dotArrowheads = map[ArrowKind]string{
	ArrowNone:   "none",
	ArrowPoint:  "normal",
	ArrowCircle: "odot",
	ArrowCross:  "vee",
}

// ToDOT converts the chart to Graphviz DOT format. The resulting DOT
// string can be rendered with [render.SVG] or [render.PNG]. Subgraphs
// become clusters; edge line styles map to the closest Graphviz pen
// style.
func (f *FlowChart) ToDOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dotRankdir(f.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	grouped := make(map[string]bool)
	for _, sg := range f.Subgraphs {
		for _, m := range sg.Members {
			grouped[m] = true
		}
	}

	for _, n := range f.Nodes {
		if grouped[n.ID] {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}
	for i, sg := range f.Subgraphs {
		title := sg.Title
		if title == "" {
			title = sg.ID
		}
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", title)
		for _, m := range sg.Members {
			n := f.Node(m)
			if n == nil {
				continue
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotRankdir(direction string) string {
	switch direction {
	case "LR", "RL", "BT", "TB":
		return direction
	default:
		return "TB"
	}
}

func nodeAttrs(n *Node, opts DOTOptions) []string {
	label := n.ID
	if !opts.Compact && n.Label != "" {
		label = n.Label
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("shape=%s", dotShapes[n.Shape]),
	}
	switch n.Shape {
	case ShapeRounded, ShapeStadium:
		attrs = append(attrs, "style=\"rounded,filled\"")
	case ShapeSubroutine:
		attrs = append(attrs, "peripheries=2")
	}
	for _, k := range slices.Sorted(maps.Keys(n.Styles)) {
		switch k {
		case "fill":
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Styles[k]))
		case "stroke":
			attrs = append(attrs, fmt.Sprintf("color=%q", n.Styles[k]))
		}
	}
	return attrs
}

func edgeAttrs(e *Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Style {
	case LineDotted:
		attrs = append(attrs, "style=dotted")
	case LineThick:
		attrs = append(attrs, "style=bold")
	case LineInvisible:
		attrs = append(attrs, "style=invis")
	}
	if e.Tail != ArrowNone {
		attrs = append(attrs, "dir=both",
			fmt.Sprintf("arrowtail=%s", dotArrowheads[e.Tail]))
	}
	if e.Head != ArrowPoint {
		attrs = append(attrs, fmt.Sprintf("arrowhead=%s", dotArrowheads[e.Head]))
	}
	return attrs
}
