// Package engine dispatches diagram source text to per-type grammar
// engines and returns normalized diagram documents.
//
// Each mermaid diagram type (flowchart, state diagram, ...) has its own
// [Engine] implementation that parses source text into a type-specific
// JSON payload. The [Registry] owns the type → engine mapping, detects
// the diagram type from the source's leading keyword when the caller
// does not declare one, and serializes all engine invocations behind a
// single mutex.
//
// The serialization policy is deliberately conservative: the engine
// behind a type is pluggable, and callers cannot assume an arbitrary
// implementation is safe for concurrent use. Serializing at the gateway
// keeps the guarantee independent of which engine is plugged in.
//
// # Usage
//
//	doc, err := engine.Default().Parse(ctx, diagram.Source{Text: text})
//	if errors.Is(err, errors.ErrCodeUnsupportedDiagram) {
//	    // no engine registered for this diagram type
//	}
package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/observability"
)

// Engine parses source text of one diagram type into its JSON payload.
// Implementations must be stateless: Parse is called with the gateway
// lock held, but the payload it returns must not share memory between
// calls.
type Engine interface {
	// Parse converts diagram source text into the type-specific payload.
	// The text includes the diagram header line.
	Parse(ctx context.Context, text string) (json.RawMessage, error)
}

// Registry maps diagram types to grammar engines and acts as the parse
// gateway. The zero value is not usable; construct with New.
type Registry struct {
	mu      sync.Mutex
	engines map[diagram.Type]Engine
}

// New creates an empty registry. Engines are added with Register.
func New() *Registry {
	return &Registry{engines: make(map[diagram.Type]Engine)}
}

// Register adds or replaces the engine for a diagram type.
func (r *Registry) Register(t diagram.Type, e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[t] = e
}

// Supports reports whether an engine is registered for the given type.
func (r *Registry) Supports(t diagram.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.engines[t]
	return ok
}

// Types returns the diagram types with a registered engine.
func (r *Registry) Types() []diagram.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]diagram.Type, 0, len(r.engines))
	for t := range r.engines {
		out = append(out, t)
	}
	return out
}

// Parse validates the source, resolves its diagram type, and invokes the
// matching engine. Engine calls are serialized: concurrent callers queue
// rather than race.
//
// Errors:
//   - INVALID_INPUT for empty or malformed source text
//   - UNSUPPORTED_DIAGRAM when the type has no registered engine
//   - PARSE_ERROR when the engine rejects the source
func (r *Registry) Parse(ctx context.Context, src diagram.Source) (*diagram.Document, error) {
	if err := errors.ValidateSource(src.Text); err != nil {
		return nil, err
	}

	typ := src.Type
	if typ == diagram.TypeUnknown {
		typ = diagram.DetectType(src.Text)
	}
	if typ == diagram.TypeUnknown {
		return nil, errors.New(errors.ErrCodeUnsupportedDiagram, "cannot detect diagram type from source")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	eng, ok := r.engines[typ]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedDiagram, "no engine registered for diagram type %q", typ)
	}

	observability.Parse().OnParseStart(ctx, string(typ))
	start := time.Now()
	data, err := eng.Parse(ctx, src.Text)
	observability.Parse().OnParseComplete(ctx, string(typ), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &diagram.Document{Type: typ, Data: data}, nil
}

