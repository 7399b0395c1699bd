package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/statechart"

	tea "github.com/charmbracelet/bubbletea"
)

// newInspectCmd creates the inspect command, an interactive terminal
// browser for diagram contents.
func newInspectCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse a diagram interactively in the terminal",
		Long: `Parse a mermaid diagram and browse its contents interactively.

Flowcharts list nodes with their connections; state diagrams list
states with their transitions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runInspect(c, path, typ)
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "diagram type (auto-detected if empty)")

	return cmd
}

func runInspect(c *cobra.Command, path, typeFlag string) error {
	ctx := c.Context()

	text, name, err := readSource(path)
	if err != nil {
		return err
	}
	typ, err := resolveType(typeFlag)
	if err != nil {
		return err
	}

	doc, err := engine.Default().Parse(ctx, diagram.Source{Text: text, Type: typ})
	if err != nil {
		return err
	}

	var items []inspectItem
	switch doc.Type {
	case diagram.TypeFlowchart:
		fc, err := flowchart.Convert(doc)
		if err != nil {
			return err
		}
		items = flowchartItems(fc)
	case diagram.TypeState:
		ch, err := statechart.Convert(doc)
		if err != nil {
			return err
		}
		items = statechartItems(ch)
	default:
		return errors.New(errors.ErrCodeUnsupported, "no inspector for diagram type %s", doc.Type)
	}

	model := newInspectModel(fmt.Sprintf("%s (%s)", name, doc.Type), items)
	_, err = tea.NewProgram(model).Run()
	return err
}

// flowchartItems builds the browsable rows for a flowchart: one row
// per node, with its edges as detail lines.
func flowchartItems(fc *flowchart.FlowChart) []inspectItem {
	items := make([]inspectItem, 0, len(fc.Nodes))
	for _, n := range fc.Nodes {
		item := inspectItem{
			ID:    n.ID,
			Label: n.Label,
			Kind:  string(n.Shape),
		}
		for _, e := range fc.Edges {
			switch {
			case e.From == n.ID && e.To == n.ID:
				item.Details = append(item.Details, detailLine(iconArrow+" "+e.To+" (self)", e.Label))
			case e.From == n.ID:
				item.Details = append(item.Details, detailLine(iconArrow+" "+e.To, e.Label))
			case e.To == n.ID:
				item.Details = append(item.Details, detailLine("← "+e.From, e.Label))
			}
		}
		items = append(items, item)
	}
	return items
}

// statechartItems builds the browsable rows for a state diagram: one
// row per state, with its transitions as detail lines.
func statechartItems(ch *statechart.Chart) []inspectItem {
	items := make([]inspectItem, 0, len(ch.States))
	for _, s := range ch.States {
		item := inspectItem{
			ID:    s.ID,
			Label: s.Content,
			Kind:  string(s.Kind),
		}
		if s.Parent != "" {
			item.Kind += " in " + s.Parent
		}
		for _, tr := range ch.Transitions {
			switch {
			case tr.From == s:
				item.Details = append(item.Details, detailLine(iconArrow+" "+tr.To.ID, tr.Label))
			case tr.To == s:
				item.Details = append(item.Details, detailLine("← "+tr.From.ID, tr.Label))
			}
		}
		for _, n := range ch.Notes {
			if n.Target == s {
				item.Details = append(item.Details, "note: "+n.Content)
			}
		}
		items = append(items, item)
	}
	return items
}

func detailLine(connection, label string) string {
	if label == "" {
		return connection
	}
	return connection + "  [" + label + "]"
}
