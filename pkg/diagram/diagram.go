// Package diagram defines the shared value types that flow between the
// grammar engines and the diagram-specific converters.
//
// A caller hands a [Source] (raw mermaid text plus an optional declared
// type) to the engine registry and receives a [Document]: the loosely
// schematized JSON description of the diagram's structure. Converters such
// as pkg/flowchart and pkg/statechart turn Documents into editable object
// models. The Document schema is engine-defined and intentionally treated
// as a best-effort contract; converters validate what they consume.
package diagram

import (
	"encoding/json"
	"strings"
)

// Type identifies a diagram grammar by its leading keyword.
type Type string

// Known diagram types. Only a subset has a registered grammar engine;
// the rest are recognized during detection so the caller gets a precise
// "unsupported" error instead of a syntax error.
const (
	TypeUnknown   Type = ""
	TypeFlowchart Type = "flowchart"
	TypeState     Type = "stateDiagram"
	TypeSequence  Type = "sequenceDiagram"
	TypeClass     Type = "classDiagram"
	TypeER        Type = "erDiagram"
	TypeGantt     Type = "gantt"
	TypePie       Type = "pie"
)

// Source is one diagram-definition input: the raw text and, optionally,
// the declared type. When Type is TypeUnknown the registry auto-detects
// it from the text's leading keyword.
type Source struct {
	Text string
	Type Type
}

// Document is the normalized JSON description of one parsed diagram.
// Data holds the type-specific payload; its shape is only loosely
// schematized (for flowcharts: vertex and edge lists, for state diagrams:
// a rootDoc statement list).
type Document struct {
	Type Type            `json:"graph_type"`
	Data json.RawMessage `json:"graph_data"`
}

// headerKeywords maps leading keywords of a mermaid source to diagram types.
// Longer keywords are matched first where one is a prefix of another.
var headerKeywords = []struct {
	keyword string
	typ     Type
}{
	{"flowchart", TypeFlowchart},
	{"graph", TypeFlowchart}, // legacy flowchart header
	{"stateDiagram-v2", TypeState},
	{"stateDiagram", TypeState},
	{"sequenceDiagram", TypeSequence},
	{"classDiagram", TypeClass},
	{"erDiagram", TypeER},
	{"gantt", TypeGantt},
	{"pie", TypePie},
}

// DetectType infers the diagram type from the first meaningful line of
// text. Front-matter blocks (--- ... ---) and %% comment lines are
// skipped. Returns TypeUnknown when no keyword matches.
func DetectType(text string) Type {
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		// Skip a leading front-matter block (title, config).
		if line == "---" {
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == "---" {
					break
				}
			}
			continue
		}

		for _, h := range headerKeywords {
			if line == h.keyword || strings.HasPrefix(line, h.keyword+" ") || strings.HasPrefix(line, h.keyword+"\t") {
				return h.typ
			}
		}
		return TypeUnknown
	}

	return TypeUnknown
}
