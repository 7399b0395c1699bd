package statechart

import "encoding/json"

// MarshalJSON flattens the transition endpoints to state ids.
func (t *Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Label string `json:"label,omitempty"`
	}{stateID(t.From), stateID(t.To), t.Label})
}

// MarshalJSON flattens the note target to a state id.
func (n *Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Target   string `json:"target"`
		Position string `json:"position"`
		Content  string `json:"content"`
	}{stateID(n.Target), n.Position, n.Content})
}

func stateID(s *State) string {
	if s == nil {
		return ""
	}
	return s.ID
}
