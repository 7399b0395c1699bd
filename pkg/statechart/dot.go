package statechart

import (
	"bytes"
	"fmt"
	"strings"
)

// ToDOT converts the chart to Graphviz DOT format. Composite states
// become clusters, start markers render as filled points and end
// markers as double circles. Notes attach as dashed boxes.
func (c *Chart) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dotRankdir(c.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, s := range c.States {
		if s.Parent != "" {
			continue
		}
		c.writeDOTState(&buf, s, "  ")
	}

	buf.WriteString("\n")
	for _, tr := range c.Transitions {
		if tr.From == nil || tr.To == nil {
			continue
		}
		if tr.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", tr.From.ID, tr.To.ID, tr.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", tr.From.ID, tr.To.ID)
		}
	}

	for i, n := range c.Notes {
		if n.Target == nil {
			continue
		}
		id := fmt.Sprintf("note_%d", i)
		fmt.Fprintf(&buf, "  %q [label=%q, shape=note, style=\"filled,dashed\", fillcolor=lightyellow];\n",
			id, n.Content)
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", id, n.Target.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (c *Chart) writeDOTState(buf *bytes.Buffer, s *State, indent string) {
	switch {
	case s.Kind == KindStart:
		fmt.Fprintf(buf, "%s%q [shape=point, width=0.2, fillcolor=black];\n", indent, s.ID)
	case s.Kind == KindEnd:
		fmt.Fprintf(buf, "%s%q [shape=doublecircle, label=\"\", width=0.2, fillcolor=black];\n", indent, s.ID)
	case s.Kind == KindComposite || len(c.Children(s.ID)) > 0:
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, s.ID)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, s.Display())
		for _, child := range c.States {
			if child.Parent == s.ID && child != s {
				c.writeDOTState(buf, child, indent+"  ")
			}
		}
		fmt.Fprintf(buf, "%s}\n", indent)
	default:
		fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, s.ID, s.Display())
	}
}

func dotRankdir(direction string) string {
	switch strings.ToUpper(direction) {
	case "LR", "RL", "BT", "TB":
		return strings.ToUpper(direction)
	default:
		return "TB"
	}
}
