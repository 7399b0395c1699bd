package render

import (
	"context"
	"time"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/observability"
	"github.com/matzehuels/mermaidflow/pkg/statechart"
)

// Document converts a parsed diagram document to DOT and renders it in
// the given format. Diagram types without a converter return an
// UNSUPPORTED error.
func Document(ctx context.Context, doc *diagram.Document, format Format, opts ...Option) ([]byte, error) {
	dot, err := DocumentDOT(doc)
	if err != nil {
		return nil, err
	}
	observability.Render().OnRenderStart(ctx, string(format))
	start := time.Now()
	out, err := Bytes(ctx, dot, format, opts...)
	observability.Render().OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering failed")
	}
	return out, nil
}

// DocumentDOT converts a parsed diagram document to Graphviz DOT.
func DocumentDOT(doc *diagram.Document) (string, error) {
	if doc == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	switch doc.Type {
	case diagram.TypeFlowchart:
		fc, err := flowchart.Convert(doc)
		if err != nil {
			return "", err
		}
		return fc.ToDOT(flowchart.DOTOptions{}), nil
	case diagram.TypeState:
		ch, err := statechart.Convert(doc)
		if err != nil {
			return "", err
		}
		return ch.ToDOT(), nil
	default:
		return "", errors.New(errors.ErrCodeUnsupported,
			"no renderer for diagram type %s", doc.Type)
	}
}
