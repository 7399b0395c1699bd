// Package render produces visual output from parsed diagram documents.
//
// # Overview
//
// This package contains the rendering pipeline that transforms diagram
// documents into visual outputs. It provides:
//
//   - Document-to-DOT conversion for supported diagram types
//   - In-process SVG rendering via Graphviz
//   - Format conversion (SVG to PDF/PNG)
//
// # Rendering
//
// [Document] is the high-level entry point: it converts a parsed
// document to Graphviz DOT and renders it in the requested [Format].
// [DocumentDOT] exposes the DOT stage on its own.
//
//	doc, _ := engine.Default().Parse(ctx, diagram.Source{Text: src})
//	svg, err := render.Document(ctx, doc, render.FormatSVG)
//	png, err := render.Document(ctx, doc, render.FormatPNG, render.WithScale(2.0))
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats
// using the external rsvg-convert tool (from librsvg). SVG output is
// produced in-process and needs no external tools.
//
//	svg, _ := render.SVG(ctx, dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render
