package flowchart

import (
	"encoding/json"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// wire mirrors the flowchart engine payload. The converter keeps its
// own copy of the schema instead of importing the engine's types: the
// payload shape is a best-effort contract, and decoding into local
// structs is what lets the converter fail with a precise schema error
// when the engine side drifts.
type wire struct {
	Direction string         `json:"direction"`
	Vertices  *[]wireVertex  `json:"vertices"`
	Edges     *[]wireEdge    `json:"edges"`
	Subgraphs []wireSubgraph `json:"subgraphs"`
}

type wireVertex struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Shape  string            `json:"shape"`
	Styles map[string]string `json:"styles"`
}

type wireEdge struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Label     string `json:"label"`
	Style     string `json:"style"`
	HeadLeft  string `json:"head_left"`
	HeadRight string `json:"head_right"`
}

type wireSubgraph struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Members []string `json:"members"`
}

// knownShapes maps payload shape strings to shape kinds. Anything else
// becomes ShapeUnknown with the raw string preserved.
var knownShapes = map[string]ShapeKind{
	"rectangle":         ShapeRectangle,
	"rounded":           ShapeRounded,
	"stadium":           ShapeStadium,
	"subroutine":        ShapeSubroutine,
	"cylinder":          ShapeCylinder,
	"circle":            ShapeCircle,
	"double_circle":     ShapeDoubleCircle,
	"asymmetric":        ShapeAsymmetric,
	"diamond":           ShapeDiamond,
	"hexagon":           ShapeHexagon,
	"parallelogram":     ShapeParallelogram,
	"parallelogram_alt": ShapeParallelogramAlt,
	"trapezoid":         ShapeTrapezoid,
	"trapezoid_alt":     ShapeTrapezoidAlt,
}

var knownLineStyles = map[string]LineStyle{
	"solid":     LineSolid,
	"dotted":    LineDotted,
	"thick":     LineThick,
	"invisible": LineInvisible,
}

var arrowKinds = map[string]ArrowKind{
	"":  ArrowNone,
	">": ArrowPoint,
	"<": ArrowPoint,
	"o": ArrowCircle,
	"x": ArrowCross,
}

// Convert builds an editable FlowChart from a parsed diagram document.
// Defined only for flowchart documents.
//
// Vertices convert in first-seen order; a repeated id updates the
// existing node (last write wins). A vertex without a label uses its id.
// An edge without a style defaults to solid. Unrecognized shape strings
// map to ShapeUnknown with the raw string preserved.
//
// Errors:
//   - SCHEMA_MISMATCH when doc is not a flowchart document or the
//     payload lacks the vertex/edge lists entirely
//   - DANGLING_REFERENCE when an edge endpoint is not among the vertices
//
// No partial result is ever returned: on error the FlowChart is nil.
func Convert(doc *diagram.Document) (*FlowChart, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "nil document")
	}
	if doc.Type != diagram.TypeFlowchart {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "document type is %q, expected %q", doc.Type, diagram.TypeFlowchart)
	}

	var w wire
	if err := json.Unmarshal(doc.Data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "decode flowchart payload")
	}
	if w.Vertices == nil || w.Edges == nil {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "flowchart payload missing vertex or edge list")
	}

	out := New(w.Direction)

	for _, v := range *w.Vertices {
		if v.ID == "" {
			return nil, errors.New(errors.ErrCodeSchemaMismatch, "vertex record missing id")
		}
		n := Node{ID: v.ID, Label: v.Label, Styles: v.Styles}
		if v.Shape == "" {
			n.Shape = ShapeRectangle
		} else if kind, ok := knownShapes[v.Shape]; ok {
			n.Shape = kind
		} else {
			// Shape kinds are added upstream faster than this layer
			// tracks them; keep the raw string for round-tripping.
			n.Shape = ShapeUnknown
			n.RawShape = v.Shape
		}
		out.AddNode(&n)
	}

	for _, e := range *w.Edges {
		if !out.HasNode(e.Source) {
			return nil, errors.New(errors.ErrCodeDanglingReference, "edge source %q not among parsed nodes", e.Source)
		}
		if !out.HasNode(e.Target) {
			return nil, errors.New(errors.ErrCodeDanglingReference, "edge target %q not among parsed nodes", e.Target)
		}

		style := LineSolid
		if e.Style != "" {
			s, ok := knownLineStyles[e.Style]
			if !ok {
				return nil, errors.New(errors.ErrCodeSchemaMismatch, "unknown edge style %q", e.Style)
			}
			style = s
		}

		out.Edges = append(out.Edges, &Edge{
			From:  e.Source,
			To:    e.Target,
			Label: e.Label,
			Style: style,
			Head:  arrowKinds[e.HeadRight],
			Tail:  arrowKinds[e.HeadLeft],
		})
	}

	for _, sg := range w.Subgraphs {
		out.Subgraphs = append(out.Subgraphs, &Subgraph{
			ID:      sg.ID,
			Title:   sg.Title,
			Members: append([]string(nil), sg.Members...),
		})
	}

	return out, nil
}
