package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// readSource reads diagram text from the given path, or from stdin
// when the path is "-" or empty. Returns the text and a display name
// for the source.
func readSource(path string) (string, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.Wrap(errors.ErrCodeFileNotFound, err, "no such file %s", path)
		}
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), path, nil
}

// writeOutput writes data to the given path, or to stdout when the
// path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// resolveType validates an optional --type flag value.
func resolveType(s string) (diagram.Type, error) {
	if s == "" {
		return "", nil
	}
	typ := diagram.Type(s)
	switch typ {
	case diagram.TypeFlowchart, diagram.TypeState, diagram.TypeSequence,
		diagram.TypeClass, diagram.TypeER, diagram.TypeGantt, diagram.TypePie:
		return typ, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown diagram type %q", s)
	}
}
