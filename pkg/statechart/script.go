package statechart

import (
	"strings"
)

// Script renders the chart back to mermaid state diagram text. The
// output parses to an equivalent chart: state hierarchy is emitted as
// nested blocks, parallel regions as divider-separated groups, and
// transitions inside the scope that owns their source state so that
// re-parsing resolves the same hierarchy.
func (c *Chart) Script() string {
	var b strings.Builder
	b.WriteString("stateDiagram-v2\n")
	if c.Direction != "" {
		b.WriteString("    direction " + c.Direction + "\n")
	}

	w := &scriptWriter{chart: c, b: &b}
	w.writeScope("", 1)
	w.writeNotes()
	return b.String()
}

type scriptWriter struct {
	chart *Chart
	b     *strings.Builder
}

func (w *scriptWriter) line(depth int, s string) {
	w.b.WriteString(strings.Repeat("    ", depth) + s + "\n")
}

// writeScope emits the declarations and transitions owned by one
// scope. The scope id is "" at root.
func (w *scriptWriter) writeScope(scope string, depth int) {
	for _, s := range w.chart.States {
		if s.Parent != scope || s.IsMarker() {
			continue
		}
		w.writeState(s, depth)
	}
	for _, tr := range w.chart.Transitions {
		if transitionScope(tr) != scope {
			continue
		}
		w.line(depth, transitionText(tr))
	}
}

func (w *scriptWriter) writeState(s *State, depth int) {
	switch {
	case len(s.Regions) > 0:
		w.line(depth, "state "+s.ID+" {")
		// The first group is the composite's own scope; the groups
		// behind dividers follow.
		inRegion := make(map[string]bool)
		for _, region := range s.Regions {
			for _, id := range region.States {
				inRegion[id] = true
			}
		}
		for _, child := range w.chart.States {
			if child.Parent != s.ID || child.IsMarker() || inRegion[child.ID] {
				continue
			}
			w.writeState(child, depth+1)
		}
		for _, tr := range w.chart.Transitions {
			if transitionScope(tr) != s.ID || tr.From == nil || inRegion[tr.From.ID] {
				continue
			}
			w.line(depth+1, transitionText(tr))
		}
		for _, region := range s.Regions {
			w.line(depth+1, "--")
			w.writeRegion(s, region, depth+1)
		}
		w.line(depth, "}")
	case s.Kind == KindComposite || len(w.chart.Children(s.ID)) > 0:
		if s.Content != "" {
			w.line(depth, s.ID+" : "+s.Content)
		}
		w.line(depth, "state "+s.ID+" {")
		w.writeScope(s.ID, depth+1)
		w.line(depth, "}")
	case s.Content != "":
		w.line(depth, s.ID+" : "+s.Content)
	case s.Parent != "":
		w.line(depth, "state "+s.ID)
	}
}

// writeRegion emits one parallel region: its member states followed by
// the transitions whose source lives in the region.
func (w *scriptWriter) writeRegion(parent *State, region Region, depth int) {
	members := make(map[string]bool, len(region.States))
	for _, id := range region.States {
		members[id] = true
	}
	for _, id := range region.States {
		s := w.chart.State(id)
		if s == nil || s.IsMarker() {
			continue
		}
		if s.Content != "" {
			w.line(depth, s.ID+" : "+s.Content)
		} else {
			w.line(depth, "state "+s.ID)
		}
	}
	for _, tr := range w.chart.Transitions {
		if tr.From == nil || !members[tr.From.ID] {
			continue
		}
		w.line(depth, transitionText(tr))
	}
}

func (w *scriptWriter) writeNotes() {
	for _, n := range w.chart.Notes {
		if n.Target == nil {
			continue
		}
		pos := n.Position
		if pos == "" {
			pos = "right of"
		}
		if strings.Contains(n.Content, "\n") {
			w.line(1, "note "+pos+" "+n.Target.ID)
			for _, ln := range strings.Split(n.Content, "\n") {
				w.line(2, ln)
			}
			w.line(1, "end note")
		} else {
			w.line(1, "note "+pos+" "+n.Target.ID+" : "+n.Content)
		}
	}
}

// transitionScope returns the composite id owning a transition, based
// on its source state.
func transitionScope(tr *Transition) string {
	if tr.From != nil {
		return tr.From.Parent
	}
	return ""
}

func transitionText(tr *Transition) string {
	s := refText(tr.From) + " --> " + refText(tr.To)
	if tr.Label != "" {
		s += " : " + tr.Label
	}
	return s
}

func refText(s *State) string {
	if s == nil {
		return "[*]"
	}
	if s.IsMarker() {
		return "[*]"
	}
	return s.ID
}
