package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/statechart"
)

// newFmtCmd creates the fmt command. It parses a diagram, converts it
// to the object model, and prints the model's canonical mermaid text.
// Comments and layout quirks of the input are not preserved.
func newFmtCmd() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reprint a diagram in canonical form",
		Long: `Parse a mermaid diagram and print it back in canonical form.

The output is semantically equivalent to the input: same nodes, edges,
and hierarchy, with normalized spacing and statement order.

Examples:
  mermaidflow fmt diagram.mmd
  mermaidflow fmt diagram.mmd -o diagram.mmd`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runFmt(c, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "diagram type (auto-detected if empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runFmt(c *cobra.Command, path string, opts parseOpts) error {
	ctx := c.Context()

	text, _, err := readSource(path)
	if err != nil {
		return err
	}
	typ, err := resolveType(opts.typ)
	if err != nil {
		return err
	}

	doc, err := engine.Default().Parse(ctx, diagram.Source{Text: text, Type: typ})
	if err != nil {
		return err
	}

	var script string
	switch doc.Type {
	case diagram.TypeFlowchart:
		fc, err := flowchart.Convert(doc)
		if err != nil {
			return err
		}
		script = fc.Script()
	case diagram.TypeState:
		ch, err := statechart.Convert(doc)
		if err != nil {
			return err
		}
		script = ch.Script()
	default:
		return errors.New(errors.ErrCodeUnsupported, "no serializer for diagram type %s", doc.Type)
	}

	return writeOutput(opts.output, []byte(script))
}
