// Package pkg provides the core libraries for mermaidflow diagram processing.
//
// # Overview
//
// Mermaidflow parses mermaid diagram source text into normalized JSON
// documents and typed object models, and renders them through Graphviz.
// The pkg directory is organized into four main areas:
//
//  1. Parsing  - [engine] and its per-type grammar engines
//  2. Models   - [flowchart] and [statechart] object models and converters
//  3. Output   - [render] (DOT, SVG, PNG, PDF)
//  4. Infra    - [cache], [store], [errors], [observability]
//
// # Architecture
//
// The typical data flow through mermaidflow:
//
//	Mermaid source text
//	         ↓
//	    [engine] package (detect type, run grammar engine)
//	         ↓
//	    [diagram] document (type + JSON payload)
//	         ↓
//	    [flowchart] / [statechart] converters (typed object model)
//	         ↓
//	    [render] package (DOT → SVG/PNG/PDF)
//
// # Quick Start
//
// Parse a diagram and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/mermaidflow/pkg/diagram"
//	    "github.com/matzehuels/mermaidflow/pkg/engine"
//	    "github.com/matzehuels/mermaidflow/pkg/render"
//	)
//
//	// 1. Parse source text into a normalized document
//	doc, _ := engine.Default().Parse(context.Background(), diagram.Source{
//	    Text: "flowchart LR\n  A --> B",
//	})
//
//	// 2. Render the document
//	svg, _ := render.Document(context.Background(), doc, render.FormatSVG)
//
// # Main Packages
//
// [diagram] - Shared diagram vocabulary: the [diagram.Type] constants,
// keyword-based type detection, and the normalized [diagram.Document]
// envelope every engine produces.
//
// [engine] - The parse gateway. Maps diagram types to grammar engines,
// auto-detects the type from the source's leading keyword, and serializes
// engine invocations. Subpackages engine/flowchart and engine/statechart
// hold the two grammar engines.
//
// [flowchart] - Typed flowchart object model (nodes, edges, subgraphs)
// with conversion from documents, mutation helpers, mermaid script
// serialization, and DOT output.
//
// [statechart] - Typed state diagram object model (states, transitions,
// regions, notes) with the same document-in, script/DOT-out surface.
//
// [render] - Output formats. Converts documents to Graphviz DOT and
// renders SVG in-process; PNG and PDF go through rsvg-convert.
//
// # Infrastructure
//
// [cache] - Render artifact cache with file, Redis, and null backends,
// plus retry helpers for transient backend failures.
//
// [store] - Diagram persistence with memory and MongoDB backends.
//
// [errors] - Coded errors shared by every package; codes map to HTTP
// statuses in the API server.
//
// [observability] - Optional hooks for parse, render, and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/engine/...           # Specific package
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/diagram
// [engine]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/engine
// [flowchart]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/flowchart
// [statechart]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/statechart
// [render]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/store
// [errors]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/mermaidflow/pkg/observability
package pkg
