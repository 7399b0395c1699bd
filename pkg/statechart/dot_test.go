package statechart

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
direction LR
[*] --> Off
Off --> On : power
state On {
  [*] --> Idle
}
On --> [*]
note right of Off : unplugged`)

	dot := c.ToDOT()

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		"compound=true;",
		`"root_start" [shape=point`,
		`"root_end" [shape=doublecircle`,
		`subgraph "cluster_On" {`,
		`"On_start" [shape=point`,
		`"Off" -> "On" [label="power"];`,
		`"On_start" -> "Idle";`,
		`"note_0" [label="unplugged", shape=note`,
		`"note_0" -> "Off" [style=dashed, arrowhead=none];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDisplaysContent(t *testing.T) {
	c := mustConvert(t, `stateDiagram-v2
state "Waiting for work" as Idle
Idle --> Idle`)

	dot := c.ToDOT()
	if !strings.Contains(dot, `label="Waiting for work"`) {
		t.Errorf("DOT should use the state description:\n%s", dot)
	}
}

func TestToDOTDefaultRankdir(t *testing.T) {
	c := mustConvert(t, "stateDiagram-v2\nA --> B")
	if !strings.Contains(c.ToDOT(), "rankdir=TB;") {
		t.Error("missing direction should fall back to TB")
	}
}
