package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
	"github.com/matzehuels/mermaidflow/pkg/errors"
)

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.mmd")
	if err := os.WriteFile(path, []byte("flowchart TD\nA --> B"), 0644); err != nil {
		t.Fatal(err)
	}

	text, name, err := readSource(path)
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if text != "flowchart TD\nA --> B" || name != path {
		t.Errorf("text = %q, name = %q", text, name)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	_, _, err := readSource(filepath.Join(t.TempDir(), "missing.mmd"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeOutput(path, []byte("{}")); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}" {
		t.Errorf("data = %q err=%v", data, err)
	}
}

func TestResolveType(t *testing.T) {
	tests := []struct {
		in      string
		want    diagram.Type
		wantErr bool
	}{
		{"", diagram.TypeUnknown, false},
		{"flowchart", diagram.TypeFlowchart, false},
		{"stateDiagram", diagram.TypeState, false},
		{"pie", diagram.TypePie, false},
		{"mindmap", diagram.TypeUnknown, true},
		{"Flowchart", diagram.TypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := resolveType(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("resolveType(%q) err = %v, want INVALID_INPUT", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveType(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}
