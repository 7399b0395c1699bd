package engine

import (
	"sync"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/engine/statechart"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry with all built-in engines.
// The registry is shared: its gateway lock serializes parse calls from
// every caller in the process.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
		defaultRegistry.Register(diagram.TypeFlowchart, flowchart.New())
		defaultRegistry.Register(diagram.TypeState, statechart.New())
	})
	return defaultRegistry
}
