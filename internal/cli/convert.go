package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/errors"
	"github.com/matzehuels/mermaidflow/pkg/flowchart"
	"github.com/matzehuels/mermaidflow/pkg/statechart"
)

// newConvertCmd creates the convert command. It parses mermaid text
// and converts the result to the editable object model, printed as
// JSON.
func newConvertCmd() *cobra.Command {
	opts := parseOpts{pretty: true}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Parse and convert a diagram to its object model",
		Long: `Parse mermaid text and convert the result to an editable object model.

Flowcharts convert to a node/edge model; state diagrams to a state
hierarchy with transitions and notes.

Examples:
  mermaidflow convert diagram.mmd
  mermaidflow convert -o model.json diagram.mmd`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runConvert(c, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "diagram type (auto-detected if empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", opts.pretty, "indent the JSON output")

	return cmd
}

func runConvert(c *cobra.Command, path string, opts parseOpts) error {
	ctx := c.Context()
	logger := loggerFromContext(ctx)

	text, name, err := readSource(path)
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

	var model any
	switch doc.Type {
	case diagram.TypeFlowchart:
		fc, err := flowchart.Convert(doc)
		if err != nil {
			return err
		}
		logger.Debugf("converted %s: %d nodes, %d edges", name, len(fc.Nodes), len(fc.Edges))
		model = fc
	case diagram.TypeState:
		ch, err := statechart.Convert(doc)
		if err != nil {
			return err
		}
		logger.Debugf("converted %s: %d states, %d transitions", name, len(ch.States), len(ch.Transitions))
		model = ch
	default:
		return errors.New(errors.ErrCodeUnsupported, "no converter for diagram type %s", doc.Type)
	}

	var data []byte
	if opts.pretty {
		data, err = json.MarshalIndent(model, "", "  ")
	} else {
		data, err = json.Marshal(model)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writeOutput(opts.output, data)
}
