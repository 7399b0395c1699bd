// Package flowchart provides an editable object model for mermaid
// flowchart diagrams and the converter that builds it from a parsed
// diagram document.
//
// The model is plain data: a [FlowChart] owns ordered node and edge
// slices that callers may inspect and mutate freely. Mutation helpers
// (AddNode, RemoveNode, RenameNode, AddEdge, ...) keep the single model
// invariant intact: every edge endpoint refers to a node present in the
// same chart.
//
// # Typical use
//
//	doc, _ := engine.Default().Parse(ctx, diagram.Source{Text: text})
//	fc, err := flowchart.Convert(doc)
//	fc.AddNode(&flowchart.Node{ID: "Z", Label: "Cleanup"})
//	fc.AddEdge(&flowchart.Edge{From: "B", To: "Z"})
//	fmt.Print(fc.Script())
package flowchart

import (
	"maps"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// ShapeKind enumerates the node shapes of the flowchart grammar.
type ShapeKind string

// Node shapes. ShapeUnknown preserves the raw shape string of a foreign
// document so unknown shapes survive a round trip.
const (
	ShapeRectangle        ShapeKind = "rectangle"
	ShapeRounded          ShapeKind = "rounded"
	ShapeStadium          ShapeKind = "stadium"
	ShapeSubroutine       ShapeKind = "subroutine"
	ShapeCylinder         ShapeKind = "cylinder"
	ShapeCircle           ShapeKind = "circle"
	ShapeDoubleCircle     ShapeKind = "double_circle"
	ShapeAsymmetric       ShapeKind = "asymmetric"
	ShapeDiamond          ShapeKind = "diamond"
	ShapeHexagon          ShapeKind = "hexagon"
	ShapeParallelogram    ShapeKind = "parallelogram"
	ShapeParallelogramAlt ShapeKind = "parallelogram_alt"
	ShapeTrapezoid        ShapeKind = "trapezoid"
	ShapeTrapezoidAlt     ShapeKind = "trapezoid_alt"
	ShapeUnknown          ShapeKind = "unknown"
)

// LineStyle enumerates edge line styles.
type LineStyle string

// Edge line styles.
const (
	LineSolid     LineStyle = "solid"
	LineDotted    LineStyle = "dotted"
	LineThick     LineStyle = "thick"
	LineInvisible LineStyle = "invisible"
)

// ArrowKind enumerates edge arrow heads.
type ArrowKind string

// Arrow heads. ArrowNone renders an open line end.
const (
	ArrowNone   ArrowKind = ""
	ArrowPoint  ArrowKind = "arrow"
	ArrowCircle ArrowKind = "circle"
	ArrowCross  ArrowKind = "cross"
)

// Node is one flowchart vertex.
type Node struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Shape    ShapeKind         `json:"shape"`
	RawShape string            `json:"raw_shape,omitempty"` // set when Shape is ShapeUnknown
	Styles   map[string]string `json:"styles,omitempty"`
}

// Edge is one directed flowchart connection.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Label string    `json:"label,omitempty"`
	Style LineStyle `json:"style"`
	Head  ArrowKind `json:"head,omitempty"` // arrow at the To end
	Tail  ArrowKind `json:"tail,omitempty"` // arrow at the From end
}

// Subgraph groups member nodes under a title. Membership is advisory:
// removing a node from the chart also removes it from its subgraph.
type Subgraph struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Members []string `json:"members,omitempty"`
}

// FlowChart is the editable object model of one flowchart diagram.
// Nodes and Edges keep insertion order (first-seen order after a
// conversion). All mutation goes through the helper methods so edge
// endpoints always resolve to chart nodes.
type FlowChart struct {
	Direction string      `json:"direction"`
	Nodes     []*Node     `json:"nodes"`
	Edges     []*Edge     `json:"edges"`
	Subgraphs []*Subgraph `json:"subgraphs,omitempty"`

	index map[string]*Node
}

// New creates an empty flowchart with the given direction ("TB" when empty).
func New(direction string) *FlowChart {
	if direction == "" {
		direction = "TB"
	}
	return &FlowChart{Direction: direction, index: make(map[string]*Node)}
}

// reindex rebuilds the id lookup. Charts decoded from JSON arrive
// without one.
func (f *FlowChart) reindex() {
	if f.index != nil {
		return
	}
	f.index = make(map[string]*Node, len(f.Nodes))
	for _, n := range f.Nodes {
		f.index[n.ID] = n
	}
}

// Node returns the node with the given id, or nil.
func (f *FlowChart) Node(id string) *Node {
	f.reindex()
	return f.index[id]
}

// HasNode reports whether a node with the given id exists.
func (f *FlowChart) HasNode(id string) bool {
	f.reindex()
	_, ok := f.index[id]
	return ok
}

// AddNode inserts a node. An existing node with the same id is updated
// in place (label, shape and styles; last write wins), matching the
// grammar's redeclaration semantics.
func (f *FlowChart) AddNode(n *Node) *Node {
	f.reindex()
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Shape == "" {
		n.Shape = ShapeRectangle
	}

	if existing, ok := f.index[n.ID]; ok {
		existing.Label = n.Label
		existing.Shape = n.Shape
		existing.RawShape = n.RawShape
		if n.Styles != nil {
			existing.Styles = maps.Clone(n.Styles)
		}
		return existing
	}

	cp := *n
	cp.Styles = maps.Clone(n.Styles)
	f.Nodes = append(f.Nodes, &cp)
	f.index[cp.ID] = &cp
	return &cp
}

// RemoveNode deletes a node and every edge touching it. Subgraph member
// lists are updated. Returns false if the node does not exist.
func (f *FlowChart) RemoveNode(id string) bool {
	f.reindex()
	if _, ok := f.index[id]; !ok {
		return false
	}
	delete(f.index, id)

	nodes := f.Nodes[:0]
	for _, n := range f.Nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}
	f.Nodes = nodes

	edges := f.Edges[:0]
	for _, e := range f.Edges {
		if e.From != id && e.To != id {
			edges = append(edges, e)
		}
	}
	f.Edges = edges

	for _, sg := range f.Subgraphs {
		members := sg.Members[:0]
		for _, m := range sg.Members {
			if m != id {
				members = append(members, m)
			}
		}
		sg.Members = members
	}
	return true
}

// RenameNode changes a node's id and rewrites edge endpoints and
// subgraph memberships. Fails when the old id is missing or the new id
// is already taken.
func (f *FlowChart) RenameNode(oldID, newID string) error {
	f.reindex()
	n, ok := f.index[oldID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", oldID)
	}
	if _, taken := f.index[newID]; taken {
		return errors.New(errors.ErrCodeInvalidInput, "node %q already exists", newID)
	}

	if n.Label == oldID {
		n.Label = newID
	}
	n.ID = newID
	delete(f.index, oldID)
	f.index[newID] = n

	for _, e := range f.Edges {
		if e.From == oldID {
			e.From = newID
		}
		if e.To == oldID {
			e.To = newID
		}
	}
	for _, sg := range f.Subgraphs {
		for i, m := range sg.Members {
			if m == oldID {
				sg.Members[i] = newID
			}
		}
	}
	return nil
}

// AddEdge inserts an edge. Both endpoints must already exist.
func (f *FlowChart) AddEdge(e *Edge) error {
	if !f.HasNode(e.From) {
		return errors.New(errors.ErrCodeDanglingReference, "edge source %q not found", e.From)
	}
	if !f.HasNode(e.To) {
		return errors.New(errors.ErrCodeDanglingReference, "edge target %q not found", e.To)
	}
	if e.Style == "" {
		e.Style = LineSolid
	}
	cp := *e
	f.Edges = append(f.Edges, &cp)
	return nil
}

// RemoveEdge deletes the first edge matching from → to. Returns false
// when no such edge exists.
func (f *FlowChart) RemoveEdge(from, to string) bool {
	for i, e := range f.Edges {
		if e.From == from && e.To == to {
			f.Edges = append(f.Edges[:i], f.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent deep copy of the chart.
func (f *FlowChart) Clone() *FlowChart {
	out := New(f.Direction)
	for _, n := range f.Nodes {
		out.AddNode(n)
	}
	for _, e := range f.Edges {
		cp := *e
		out.Edges = append(out.Edges, &cp)
	}
	for _, sg := range f.Subgraphs {
		cp := Subgraph{ID: sg.ID, Title: sg.Title, Members: append([]string(nil), sg.Members...)}
		out.Subgraphs = append(out.Subgraphs, &cp)
	}
	return out
}

// Equal reports structural equality: same direction, nodes, edges and
// subgraphs in the same order.
func (f *FlowChart) Equal(other *FlowChart) bool {
	if f.Direction != other.Direction ||
		len(f.Nodes) != len(other.Nodes) ||
		len(f.Edges) != len(other.Edges) ||
		len(f.Subgraphs) != len(other.Subgraphs) {
		return false
	}
	for i, n := range f.Nodes {
		o := other.Nodes[i]
		if n.ID != o.ID || n.Label != o.Label || n.Shape != o.Shape || n.RawShape != o.RawShape {
			return false
		}
		if !maps.Equal(n.Styles, o.Styles) {
			return false
		}
	}
	for i, e := range f.Edges {
		o := other.Edges[i]
		if *e != *o {
			return false
		}
	}
	for i, sg := range f.Subgraphs {
		o := other.Subgraphs[i]
		if sg.ID != o.ID || sg.Title != o.Title || len(sg.Members) != len(o.Members) {
			return false
		}
		for j, m := range sg.Members {
			if m != o.Members[j] {
				return false
			}
		}
	}
	return true
}
