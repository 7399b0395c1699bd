// Package flowchart implements the grammar engine for mermaid flowchart
// diagrams ("flowchart TD" and the legacy "graph TD" header).
//
// The engine parses a practical subset of the flowchart grammar: node
// statements with the full set of bracket shapes, links with arrow heads
// and inline or piped labels, chains, ampersand lists, subgraphs, and
// style statements. The output payload is the loosely schematized JSON
// consumed by pkg/flowchart's converter:
//
//	{
//	  "direction": "TD",
//	  "vertices": [{"id": "A", "label": "Start", "shape": "rectangle"}],
//	  "edges":    [{"source": "A", "target": "B", "label": "go", "style": "solid"}]
//	}
package flowchart

import (
	"context"
	"encoding/json"
)

// Line styles emitted in edge records.
const (
	StyleSolid     = "solid"
	StyleDotted    = "dotted"
	StyleThick     = "thick"
	StyleInvisible = "invisible"
)

// Shape names emitted in vertex records.
const (
	ShapeRectangle        = "rectangle"
	ShapeRounded          = "rounded"
	ShapeStadium          = "stadium"
	ShapeSubroutine       = "subroutine"
	ShapeCylinder         = "cylinder"
	ShapeCircle           = "circle"
	ShapeDoubleCircle     = "double_circle"
	ShapeAsymmetric       = "asymmetric"
	ShapeDiamond          = "diamond"
	ShapeHexagon          = "hexagon"
	ShapeParallelogram    = "parallelogram"
	ShapeParallelogramAlt = "parallelogram_alt"
	ShapeTrapezoid        = "trapezoid"
	ShapeTrapezoidAlt     = "trapezoid_alt"
)

// payload is the wire schema of a parsed flowchart.
type payload struct {
	Direction string     `json:"direction"`
	Vertices  []vertex   `json:"vertices"`
	Edges     []edgeRec  `json:"edges"`
	Subgraphs []subgraph `json:"subgraphs,omitempty"`
}

type vertex struct {
	ID     string            `json:"id"`
	Label  string            `json:"label,omitempty"`
	Shape  string            `json:"shape,omitempty"`
	Styles map[string]string `json:"styles,omitempty"`
}

type edgeRec struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Label     string `json:"label,omitempty"`
	Style     string `json:"style,omitempty"`
	HeadLeft  string `json:"head_left,omitempty"`
	HeadRight string `json:"head_right,omitempty"`
}

type subgraph struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Members []string `json:"members,omitempty"`
}

// Engine parses flowchart source text. It is stateless and safe to reuse.
type Engine struct{}

// New creates a flowchart grammar engine.
func New() *Engine {
	return &Engine{}
}

// Parse parses flowchart source text into its JSON payload.
func (e *Engine) Parse(ctx context.Context, text string) (json.RawMessage, error) {
	p := newParser(text)
	out, err := p.parse()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
