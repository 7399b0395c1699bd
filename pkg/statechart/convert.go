package statechart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// Wire-format statement list as produced by the state diagram engine.
// Kept local so the converter only depends on the document contract,
// not on any particular engine implementation.
type wire struct {
	Direction string      `json:"direction,omitempty"`
	RootDoc   *[]wireStmt `json:"rootDoc"`
}

type wireStmt struct {
	Stmt        string     `json:"stmt"`
	ID          string     `json:"id,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	Doc         []wireStmt `json:"doc,omitempty"`
	Note        *wireNote  `json:"note,omitempty"`
	State1      *wireRef   `json:"state1,omitempty"`
	State2      *wireRef   `json:"state2,omitempty"`
}

type wireNote struct {
	Position string `json:"position"`
	Text     string `json:"text"`
}

type wireRef struct {
	ID string `json:"id"`
}

// Convert builds a Chart from a parsed state diagram document.
//
// The statement list is flat per scope; the converter assigns every
// state a scope-qualified key ("Parent_Child") so equally named states
// in different composites stay distinct, and re-parents states that
// are referenced across sibling scopes to the nearest common ancestor.
// It returns SCHEMA_MISMATCH when the document is not a state diagram
// payload. Marker references ([*]) resolve to per-scope start and end
// pseudo-states.
func Convert(doc *diagram.Document) (*Chart, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "document is nil")
	}
	if doc.Type != diagram.TypeState {
		return nil, errors.New(errors.ErrCodeSchemaMismatch,
			"expected a %s document, got %q", diagram.TypeState, doc.Type)
	}
	var w wire
	if err := json.Unmarshal(doc.Data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "payload is not a state diagram object")
	}
	if w.RootDoc == nil {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "payload is missing the statement list")
	}

	cv := &converter{states: make(map[string]*State)}
	if err := cv.convertScope(*w.RootDoc, "", ""); err != nil {
		return nil, err
	}

	chart := &Chart{
		Title:       "State Diagram",
		Direction:   w.Direction,
		Transitions: cv.transitions,
		Notes:       cv.notes,
	}
	for _, key := range cv.order {
		chart.States = append(chart.States, cv.states[key])
	}
	return chart, nil
}

// converter accumulates states across nested scopes. States are keyed
// by their scope-qualified key; order tracks key insertion order, with
// re-parented states moving to the end.
type converter struct {
	states      map[string]*State
	order       []string
	transitions []*Transition
	notes       []*Note
}

// put registers a state under a key, appending it to the order.
func (cv *converter) put(key string, s *State) {
	if _, ok := cv.states[key]; !ok {
		cv.order = append(cv.order, key)
	}
	cv.states[key] = s
}

// move re-keys a state, dropping the old key and appending the new one.
func (cv *converter) move(oldKey, newKey string) {
	s := cv.states[oldKey]
	delete(cv.states, oldKey)
	for i, k := range cv.order {
		if k == oldKey {
			cv.order = append(cv.order[:i], cv.order[i+1:]...)
			break
		}
	}
	cv.put(newKey, s)
}

// scopedKey qualifies a state id with its owning scope. Marker ids
// already carry their scope in the name and stay as-is.
func scopedKey(id, parent string) string {
	if parent != "" && !isMarkerID(id) {
		return parent + "_" + id
	}
	return id
}

// newState builds a State from a statement, classifying markers and
// composites.
func newState(item wireStmt, parent string) *State {
	s := &State{ID: item.ID, Content: item.Description, Parent: parent, Kind: KindState}
	switch {
	case isStartMarker(item.ID):
		s.Kind = KindStart
	case isEndMarker(item.ID):
		s.Kind = KindEnd
	case len(item.Doc) > 0:
		s.Kind = KindComposite
	}
	return s
}

// find resolves a state reference from inside a scope. Resolution
// order: the current scope, the global key, enclosing scopes from the
// innermost out, then (when allowed) any state with a matching id in a
// sibling scope. At root a final pass accepts any scoped occurrence of
// the id. Returns the state and the key it is registered under.
func (cv *converter) find(id, parentPath string, allowSibling bool) (*State, string) {
	if key := scopedKey(id, parentPath); key != id {
		if s, ok := cv.states[key]; ok {
			return s, key
		}
	}
	if s, ok := cv.states[id]; ok {
		return s, id
	}
	if strings.Contains(parentPath, "_") {
		parts := strings.Split(parentPath, "_")
		for i := len(parts) - 1; i >= 1; i-- {
			key := strings.Join(parts[:i], "_") + "_" + id
			if s, ok := cv.states[key]; ok {
				return s, key
			}
		}
	}
	if allowSibling && parentPath != "" {
		for _, key := range cv.order {
			if s := cv.states[key]; s.ID == id {
				return s, key
			}
		}
	}
	if parentPath == "" {
		for _, key := range cv.order {
			if key != id && !strings.HasSuffix(key, "_"+id) {
				continue
			}
			if s := cv.states[key]; s.ID == id {
				return s, key
			}
		}
	}
	return nil, ""
}

// commonAncestor returns the shared leading scope of two scope paths,
// or "" when they diverge immediately.
func commonAncestor(a, b string) string {
	pa, pb := strings.Split(a, "_"), strings.Split(b, "_")
	var common []string
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			break
		}
		common = append(common, pa[i])
	}
	return strings.Join(common, "_")
}

// convertScope processes one statement list. parent is the owning
// composite id ("" at root); parentPath is the full scope path used
// for key qualification.
func (cv *converter) convertScope(doc []wireStmt, parent, parentPath string) error {
	if parentPath == "" {
		parentPath = parent
	}

	local := make(map[string]*State)
	var composites []wireStmt
	var dividers []wireStmt

	// First pass: states and notes at this level.
	for _, item := range doc {
		if item.Stmt != "state" {
			continue
		}
		if item.Type == "divider" {
			dividers = append(dividers, item)
			continue
		}
		if item.Note != nil {
			target, ok := local[item.ID]
			if !ok {
				target = newState(wireStmt{ID: item.ID}, parent)
				local[item.ID] = target
				cv.put(scopedKey(item.ID, parentPath), target)
			}
			cv.notes = append(cv.notes, &Note{
				Target:   target,
				Position: item.Note.Position,
				Content:  item.Note.Text,
			})
			continue
		}
		key := scopedKey(item.ID, parentPath)
		if _, ok := cv.states[key]; !ok {
			s := newState(item, parent)
			local[item.ID] = s
			cv.put(key, s)
			if len(item.Doc) > 0 {
				composites = append(composites, item)
			}
		} else if item.Description != "" {
			if s, ok := local[item.ID]; ok {
				s.Content = item.Description
			}
		}
	}

	// At root the composite bodies settle first so that root-level
	// transitions can reference (and promote) deeply nested states.
	// Inside a composite the scope's own transitions resolve before
	// recursing further down.
	if parent == "" {
		for _, item := range composites {
			childPath := scopedKey(item.ID, parentPath)
			if err := cv.convertScope(item.Doc, item.ID, childPath); err != nil {
				return err
			}
		}
		if err := cv.convertTransitions(doc, local, parent, parentPath); err != nil {
			return err
		}
	} else {
		if err := cv.convertTransitions(doc, local, parent, parentPath); err != nil {
			return err
		}
		for _, item := range composites {
			childPath := scopedKey(item.ID, parentPath)
			if err := cv.convertScope(item.Doc, item.ID, childPath); err != nil {
				return err
			}
		}
	}

	if len(dividers) > 0 {
		if err := cv.convertRegions(dividers, parent, parentPath); err != nil {
			return err
		}
	}
	return nil
}

// convertTransitions resolves the relation statements of one scope.
func (cv *converter) convertTransitions(doc []wireStmt, local map[string]*State, parent, parentPath string) error {
	for _, item := range doc {
		if item.Stmt != "relation" || item.State1 == nil || item.State2 == nil {
			continue
		}
		fromID, toID := item.State1.ID, item.State2.ID

		from, fromKey := cv.find(fromID, parentPath, true)
		if from != nil && parent == "" && strings.Contains(fromKey, "_") && !isMarkerID(fromID) {
			// A root-level reference to a nested state pulls it up
			// to the root scope.
			if _, ok := cv.states[fromID]; !ok {
				from.Parent = ""
				cv.move(fromKey, fromID)
			} else {
				from = cv.states[fromID]
			}
		}
		if from == nil {
			from = cv.createRef(fromID, local, parent, parentPath)
		}

		initial := isStartMarker(fromID)
		to, toKey := cv.find(toID, parentPath, !initial)
		if to != nil && toKey != "" && parentPath != "" && !isMarkerID(toID) {
			// A reference across sibling scopes re-parents the target
			// to the nearest common ancestor of both scopes.
			if idx := strings.LastIndex(toKey, "_"); idx > 0 {
				statePath := toKey[:idx]
				if statePath != parentPath {
					if common := commonAncestor(statePath, parentPath); common != "" {
						parts := strings.Split(common, "_")
						to.Parent = parts[len(parts)-1]
						newKey := scopedKey(toID, common)
						if newKey != toKey {
							cv.move(toKey, newKey)
						}
					}
				}
			}
		}
		if to == nil {
			to = cv.createRef(toID, local, parent, parentPath)
		}

		cv.transitions = append(cv.transitions, &Transition{From: from, To: to, Label: item.Description})
	}
	return nil
}

// createRef creates a state for an id first seen in a transition. A
// composite referring to itself stays registered at root scope.
func (cv *converter) createRef(id string, local map[string]*State, parent, parentPath string) *State {
	var s *State
	switch {
	case parent != "" && id == parent:
		s = newState(wireStmt{ID: id}, "")
		cv.put(id, s)
	case isMarkerID(id), parent != "":
		s = newState(wireStmt{ID: id}, parent)
		cv.put(scopedKey(id, parentPath), s)
	default:
		s = newState(wireStmt{ID: id}, "")
		cv.put(id, s)
	}
	local[id] = s
	return s
}

// convertRegions processes the parallel regions of a composite state.
// Each divider group becomes an isolated sub-scope; the region's
// member states are recorded on the composite along with the state
// its start marker targets.
func (cv *converter) convertRegions(dividers []wireStmt, parent, parentPath string) error {
	comp, _ := cv.find(parent, "", true)
	for i, div := range dividers {
		name := fmt.Sprintf("region_%d", i)
		regionPath := parentPath + "_" + name

		before := len(cv.order)
		if err := cv.convertScope(div.Doc, parent, regionPath); err != nil {
			return err
		}

		region := Region{Name: name}
		var start *State
		for _, key := range cv.order[before:] {
			s := cv.states[key]
			region.States = append(region.States, s.ID)
			if s.Kind == KindStart {
				start = s
			}
		}
		if start != nil {
			for _, tr := range cv.transitions {
				if tr.From == start {
					region.Initial = tr.To.ID
					break
				}
			}
		}
		if comp != nil {
			comp.Regions = append(comp.Regions, region)
		}
	}
	return nil
}
