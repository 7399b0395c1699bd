package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/engine"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	typ    string // diagram type override, auto-detected if empty
	output string // output file path (stdout if empty)
	pretty bool   // indent the JSON output
}

// newParseCmd creates the parse command. It reads mermaid text from a
// file or stdin and prints the parsed diagram document as JSON.
func newParseCmd() *cobra.Command {
	opts := parseOpts{pretty: true}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse mermaid text into a diagram document",
		Long: `Parse mermaid diagram text into a structured JSON document.

The diagram type is detected from the source header. Reads from stdin
when no file is given or the file is "-".

Examples:
  mermaidflow parse diagram.mmd
  cat diagram.mmd | mermaidflow parse
  mermaidflow parse --type flowchart diagram.mmd`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(c, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.typ, "type", "t", "", "diagram type (auto-detected if empty)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", opts.pretty, "indent the JSON output")

	return cmd
}

func runParse(c *cobra.Command, path string, opts parseOpts) error {
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

	prog := newProgress(logger)
	doc, err := engine.Default().Parse(ctx, diagram.Source{Text: text, Type: typ})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %s as %s", name, doc.Type))

	var data []byte
	if opts.pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote diagram document")
		printFile(opts.output)
	}
	return nil
}
