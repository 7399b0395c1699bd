package statechart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// mustConvert parses mermaid source and converts it into a chart.
func mustConvert(t *testing.T, src string) *Chart {
	t.Helper()
	doc, err := engine.Default().Parse(context.Background(), diagram.Source{Text: src})
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	c, err := Convert(doc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return c
}

func stateIDs(c *Chart) []string {
	out := make([]string, len(c.States))
	for i, s := range c.States {
		out[i] = s.ID
	}
	return out
}

func TestConvertSimple(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
[*] --> Still
Still --> Moving : push
Moving --> [*]`)

	if len(c.States) != 4 {
		t.Fatalf("states = %v, want 4", stateIDs(c))
	}
	if len(c.Transitions) != 3 {
		t.Fatalf("transitions = %d, want 3", len(c.Transitions))
	}

	start := c.State("root_start")
	if start == nil || start.Kind != KindStart {
		t.Fatal("root_start marker missing or wrong kind")
	}
	end := c.State("root_end")
	if end == nil || end.Kind != KindEnd {
		t.Fatal("root_end marker missing or wrong kind")
	}
	if s := c.State("Still"); s == nil || s.Kind != KindState || s.Parent != "" {
		t.Errorf("Still = %+v", s)
	}

	tr := c.Transitions[1]
	if tr.From.ID != "Still" || tr.To.ID != "Moving" || tr.Label != "push" {
		t.Errorf("transition = %s->%s (%q)", tr.From.ID, tr.To.ID, tr.Label)
	}
}

func TestConvertComposite(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
[*] --> Off
Off --> On
state On {
  [*] --> Idle
  Idle --> Printing : print
  Printing --> Idle : done
}
On --> Off : power`)

	on := c.State("On")
	if on == nil || on.Kind != KindComposite {
		t.Fatalf("On = %+v, want composite", on)
	}
	if got := c.Children("On"); len(got) != 2 || got[0] != "Idle" || got[1] != "Printing" {
		t.Errorf("Children(On) = %v, want [Idle Printing]", got)
	}
	for _, id := range []string{"Idle", "Printing"} {
		if s := c.State(id); s == nil || s.Parent != "On" {
			t.Errorf("%s = %+v, want parent On", id, s)
		}
	}
	// The inner start marker is scoped to the composite.
	if s := c.State("On_start"); s == nil || s.Kind != KindStart || s.Parent != "On" {
		t.Errorf("On_start = %+v", s)
	}
	if len(c.Transitions) != 6 {
		t.Errorf("transitions = %d, want 6", len(c.Transitions))
	}
}

// A root-level transition that names a nested state pulls it up to root.
func TestConvertPromotesNestedStateToRoot(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state On {
  [*] --> Idle
}
Idle --> [*]`)

	idle := c.State("Idle")
	if idle == nil {
		t.Fatal("Idle missing")
	}
	if idle.Parent != "" {
		t.Errorf("Idle parent = %q, want root", idle.Parent)
	}
	if got := c.Children("On"); len(got) != 0 {
		t.Errorf("Children(On) = %v, want none after promotion", got)
	}
	// Only one Idle exists; both transitions resolve to it.
	var count int
	for _, s := range c.States {
		if s.ID == "Idle" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Idle occurrences = %d, want 1", count)
	}
}

// A state referenced across sibling composites moves to the nearest
// common ancestor.
func TestConvertPromotesAcrossSiblingScopes(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state A {
  state C {
    c1 --> c1
  }
  state B {
    b1 --> c1
  }
}`)

	c1 := c.State("c1")
	if c1 == nil {
		t.Fatal("c1 missing")
	}
	if c1.Parent != "A" {
		t.Errorf("c1 parent = %q, want common ancestor A", c1.Parent)
	}
}

// A composite referring to itself stays a single root-scoped state.
func TestConvertSelfReference(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state On {
  [*] --> Idle
  Idle --> On : reset
}`)

	var count int
	for _, s := range c.States {
		if s.ID == "On" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("On occurrences = %d, want 1", count)
	}

	var reset *Transition
	for _, tr := range c.Transitions {
		if tr.Label == "reset" {
			reset = tr
		}
	}
	if reset == nil {
		t.Fatal("reset transition missing")
	}
	if reset.To != c.State("On") {
		t.Error("self reference should resolve to the composite itself")
	}
}

func TestConvertDescriptions(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state "Waiting for input" as Idle
Idle : still waiting
Plain`)

	idle := c.State("Idle")
	if idle == nil {
		t.Fatal("Idle missing")
	}
	if idle.Content != "still waiting" {
		t.Errorf("content = %q, want last write", idle.Content)
	}
	if idle.Display() != "still waiting" {
		t.Errorf("Display = %q", idle.Display())
	}
	if p := c.State("Plain"); p == nil || p.Display() != "Plain" {
		t.Errorf("Plain.Display = %v, want id fallback", p)
	}
}

func TestConvertNotes(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
[*] --> Active
Active --> Done
note right of Active : busy
note left of Done
  multi
  line
end note
note right of Ghost : spooky`)

	if len(c.Notes) != 3 {
		t.Fatalf("notes = %d, want 3", len(c.Notes))
	}
	if len(c.States) != 4 {
		t.Fatalf("states = %v, want 4 (note targets included)", stateIDs(c))
	}

	n := c.Notes[0]
	if n.Target.ID != "Active" || n.Position != "right of" || n.Content != "busy" {
		t.Errorf("note 0 = %+v", n)
	}
	if c.Notes[1].Content != "multi\nline" {
		t.Errorf("block note content = %q", c.Notes[1].Content)
	}
	// A note can target a state never declared elsewhere.
	if ghost := c.State("Ghost"); ghost == nil || ghost != c.Notes[2].Target {
		t.Error("Ghost note target not registered as a state")
	}
	// The note target and the transition endpoint are the same object.
	if c.Notes[0].Target != c.Transitions[0].To {
		t.Error("note target and transition endpoint should share the state")
	}
}

func TestConvertRegions(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state Active {
  NumLockOff --> NumLockOn
  --
  [*] --> CapsLockOff
  CapsLockOff --> CapsLockOn
}`)

	active := c.State("Active")
	if active == nil {
		t.Fatal("Active missing")
	}
	if len(active.Regions) != 1 {
		t.Fatalf("regions = %d, want 1", len(active.Regions))
	}

	r := active.Regions[0]
	if r.Name != "region_0" {
		t.Errorf("region name = %q", r.Name)
	}
	if r.Initial != "CapsLockOff" {
		t.Errorf("region initial = %q, want CapsLockOff", r.Initial)
	}
	members := make(map[string]bool)
	for _, id := range r.States {
		members[id] = true
	}
	if !members["CapsLockOff"] || !members["CapsLockOn"] {
		t.Errorf("region states = %v", r.States)
	}
	if members["NumLockOff"] {
		t.Errorf("first group belongs to the composite, not the region: %v", r.States)
	}
}

func TestConvertDirection(t *testing.T) {
	c := mustConvert(t, "stateDiagram-v2\ndirection LR\nA --> B")
	if c.Direction != "LR" {
		t.Errorf("direction = %q, want LR", c.Direction)
	}
}

func TestConvertSchemaMismatch(t *testing.T) {
	flowDoc := &diagram.Document{Type: diagram.TypeFlowchart, Data: json.RawMessage(`{"vertices": [], "edges": []}`)}

	tests := []struct {
		name string
		doc  *diagram.Document
	}{
		{"NilDocument", nil},
		{"WrongType", flowDoc},
		{"MalformedJSON", &diagram.Document{Type: diagram.TypeState, Data: json.RawMessage(`{`)}},
		{"MissingRootDoc", &diagram.Document{Type: diagram.TypeState, Data: json.RawMessage(`{}`)}},
		{"NullRootDoc", &diagram.Document{Type: diagram.TypeState, Data: json.RawMessage(`{"rootDoc": null}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Convert(tt.doc)
			if !errors.Is(err, errors.ErrCodeSchemaMismatch) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeSchemaMismatch)
			}
			if c != nil {
				t.Error("chart must be nil on error")
			}
		})
	}
}

func TestConvertEmptyDiagram(t *testing.T) {
	c := mustConvert(t, "stateDiagram-v2")
	if len(c.States) != 0 || len(c.Transitions) != 0 || len(c.Notes) != 0 {
		t.Errorf("empty diagram: %d states, %d transitions, %d notes",
			len(c.States), len(c.Transitions), len(c.Notes))
	}
}
