// Package statechart provides an editable object model for mermaid
// state diagrams and the converter that builds it from a parsed
// diagram document.
//
// State diagrams are hierarchical: composite states own nested states,
// and a state referenced from several sibling scopes is owned by the
// nearest common ancestor scope. The converter resolves that hierarchy
// from the flat statement list the grammar engine emits; see Convert.
package statechart

import (
	"strings"
)

// Kind classifies a state.
type Kind string

// State kinds. Start and End are the [*] pseudo-states, scoped per
// composite ("root_start", "On_end", ...).
const (
	KindState     Kind = "state"
	KindStart     Kind = "start"
	KindEnd       Kind = "end"
	KindComposite Kind = "composite"
)

// State is one state in the diagram.
type State struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"` // display description; empty means the id
	Parent  string `json:"parent,omitempty"`  // owning composite id, empty at root
	Kind    Kind   `json:"kind"`

	// Regions is set on composites with parallel regions.
	Regions []Region `json:"regions,omitempty"`
}

// Region is one parallel region of a composite state.
type Region struct {
	Name    string   `json:"name"`
	States  []string `json:"states,omitempty"`  // member state ids
	Initial string   `json:"initial,omitempty"` // state targeted by the region's start marker
}

// IsMarker reports whether the state is a start or end pseudo-state.
func (s *State) IsMarker() bool {
	return s.Kind == KindStart || s.Kind == KindEnd
}

// Display returns the content if set, otherwise the id.
func (s *State) Display() string {
	if s.Content != "" {
		return s.Content
	}
	return s.ID
}

// Transition is one directed transition between two states.
type Transition struct {
	From  *State `json:"-"`
	To    *State `json:"-"`
	Label string `json:"label,omitempty"`
}

// Note is a note attached to a state.
type Note struct {
	Target   *State `json:"-"`
	Position string `json:"position"` // "left of" or "right of"
	Content  string `json:"content"`
}

// Chart is the editable object model of one state diagram.
// States keep resolution order; Transitions and Notes keep source order.
type Chart struct {
	Title       string
	Direction   string
	States      []*State
	Transitions []*Transition
	Notes       []*Note
}

// State returns the first state with the given id, or nil. Marker
// states share their scoped marker id.
func (c *Chart) State(id string) *State {
	for _, s := range c.States {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Children returns the ids of states whose parent is the given id, in
// chart order. An empty id returns the root-level states.
func (c *Chart) Children(parent string) []string {
	var out []string
	for _, s := range c.States {
		if s.Parent == parent && !s.IsMarker() {
			out = append(out, s.ID)
		}
	}
	return out
}

// AddTransition appends a transition between two chart states.
func (c *Chart) AddTransition(from, to *State, label string) {
	c.Transitions = append(c.Transitions, &Transition{From: from, To: to, Label: label})
}

// markerSuffix reports whether an id names a start or end marker.
func isStartMarker(id string) bool { return strings.Contains(id, "_start") }
func isEndMarker(id string) bool   { return strings.Contains(id, "_end") }
func isMarkerID(id string) bool    { return isStartMarker(id) || isEndMarker(id) }
