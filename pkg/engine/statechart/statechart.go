// Package statechart implements the grammar engine for mermaid state
// diagrams ("stateDiagram-v2", with the v1 header accepted as an alias).
//
// Supported grammar subset: start/end markers ([*]), transitions with
// optional labels, state description lines, named state declarations
// (including the "state "desc" as X" form), composite state blocks,
// parallel region dividers (--), and notes in both block and inline form.
//
// The payload mirrors the statement-list schema of the upstream mermaid
// parser: a "rootDoc" list where each entry is either a state statement
// (possibly carrying a nested doc or a note) or a relation statement:
//
//	{"rootDoc": [
//	  {"stmt": "relation", "state1": {"id": "root_start"}, "state2": {"id": "Off"}},
//	  {"stmt": "state", "id": "On", "doc": [...]}
//	]}
package statechart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// Statement kinds in the rootDoc list.
const (
	StmtState    = "state"
	StmtRelation = "relation"
)

// TypeDivider marks a parallel-region statement.
const TypeDivider = "divider"

// Payload is the wire schema of a parsed state diagram.
type Payload struct {
	Direction string `json:"direction,omitempty"`
	RootDoc   []Stmt `json:"rootDoc"`
}

// Stmt is one parsed statement. Fields are populated according to Stmt:
// state statements carry ID/Description/Doc/Note, relation statements
// carry State1/State2/Description.
type Stmt struct {
	Stmt        string `json:"stmt"`
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Doc         []Stmt `json:"doc,omitempty"`
	Note        *Note  `json:"note,omitempty"`
	State1      *Ref   `json:"state1,omitempty"`
	State2      *Ref   `json:"state2,omitempty"`
}

// Ref names one endpoint of a relation.
type Ref struct {
	ID string `json:"id"`
}

// Note is a note attached to a state.
type Note struct {
	Position string `json:"position"`
	Text     string `json:"text"`
}

// Engine parses state diagram source text. It is stateless and safe to reuse.
type Engine struct{}

// New creates a state diagram grammar engine.
func New() *Engine {
	return &Engine{}
}

// Parse parses state diagram source text into its JSON payload.
func (e *Engine) Parse(ctx context.Context, text string) (json.RawMessage, error) {
	p := &parser{scopes: []string{"root"}}
	out, err := p.parse(text)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

type parser struct {
	out       Payload
	sawHeader bool

	// stack of open composite statements; index 0 is the root document.
	stack []*Stmt
	// scopes tracks composite ids for [*] marker naming; scopes[0] is "root".
	scopes []string
	// dividerOpen mirrors stack: per frame, whether statements route
	// into that frame's newest divider doc.
	dividerOpen []bool

	// open note block, collected until "end note"
	noteTarget string
	notePos    string
	noteLines  []string
}

func (p *parser) parse(text string) (*Payload, error) {
	root := &Stmt{} // dummy holder for the root doc
	p.stack = []*Stmt{root}
	p.dividerOpen = []bool{false}

	for lineNo, raw := range strings.Split(text, "\n") {
		if err := p.parseLine(raw, lineNo+1); err != nil {
			return nil, err
		}
	}

	if !p.sawHeader {
		return nil, errors.New(errors.ErrCodeParse, "missing stateDiagram header")
	}
	if p.noteTarget != "" {
		return nil, errors.New(errors.ErrCodeParse, "unterminated note block")
	}
	if len(p.stack) > 1 {
		return nil, errors.New(errors.ErrCodeParse, "unclosed state block %q", p.stack[len(p.stack)-1].ID)
	}

	p.out.RootDoc = root.Doc
	if p.out.RootDoc == nil {
		// Empty array, not null: an empty diagram is still well-formed.
		p.out.RootDoc = []Stmt{}
	}
	return &p.out, nil
}

func (p *parser) parseLine(raw string, line int) error {
	stmt := strings.TrimSpace(raw)

	// Inside a note block everything except the terminator is note text.
	if p.noteTarget != "" {
		if stmt == "end note" {
			p.emitNote(strings.Join(p.noteLines, "\n"))
			return nil
		}
		p.noteLines = append(p.noteLines, stmt)
		return nil
	}

	if stmt == "" || strings.HasPrefix(stmt, "%%") {
		return nil
	}

	if !p.sawHeader {
		if stmt != "stateDiagram-v2" && stmt != "stateDiagram" {
			return errors.New(errors.ErrCodeParse, "line %d: expected stateDiagram header, got %q", line, stmt)
		}
		p.sawHeader = true
		return nil
	}

	switch {
	case strings.HasPrefix(stmt, "direction "):
		p.out.Direction = strings.TrimSpace(strings.TrimPrefix(stmt, "direction "))
		return nil

	case strings.HasPrefix(stmt, "note "):
		return p.parseNote(strings.TrimPrefix(stmt, "note "), line)

	case stmt == "--":
		return p.openDivider(line)

	case stmt == "}":
		if len(p.stack) == 1 {
			return errors.New(errors.ErrCodeParse, "line %d: unexpected closing brace", line)
		}
		closed := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.scopes = p.scopes[:len(p.scopes)-1]
		p.dividerOpen = p.dividerOpen[:len(p.dividerOpen)-1]
		p.append(*closed)
		return nil

	case strings.HasPrefix(stmt, "state "):
		return p.parseStateDecl(strings.TrimSpace(strings.TrimPrefix(stmt, "state ")), line)

	case strings.Contains(stmt, "-->"):
		return p.parseRelation(stmt, line)

	case strings.Contains(stmt, ":"):
		id, desc, _ := strings.Cut(stmt, ":")
		p.append(Stmt{Stmt: StmtState, ID: strings.TrimSpace(id), Description: strings.TrimSpace(desc)})
		return nil

	default:
		// Bare identifier: a simple state declaration.
		if strings.ContainsAny(stmt, " \t{}") {
			return errors.New(errors.ErrCodeParse, "line %d: cannot parse statement %q", line, stmt)
		}
		p.append(Stmt{Stmt: StmtState, ID: stmt})
		return nil
	}
}

// append adds a statement to the innermost open doc: the current
// divider's doc when one is open, otherwise the current composite's.
func (p *parser) append(s Stmt) {
	top := p.stack[len(p.stack)-1]
	if n := len(top.Doc); n > 0 && top.Doc[n-1].Type == TypeDivider && p.dividerOpen[len(p.dividerOpen)-1] {
		top.Doc[n-1].Doc = append(top.Doc[n-1].Doc, s)
		return
	}
	top.Doc = append(top.Doc, s)
}

func (p *parser) openDivider(line int) error {
	if len(p.stack) == 1 {
		return errors.New(errors.ErrCodeParse, "line %d: divider outside composite state", line)
	}
	top := p.stack[len(p.stack)-1]
	idx := 0
	for _, s := range top.Doc {
		if s.Type == TypeDivider {
			idx++
		}
	}
	top.Doc = append(top.Doc, Stmt{Stmt: StmtState, Type: TypeDivider, ID: fmt.Sprintf("divider%d", idx+1)})
	p.dividerOpen[len(p.dividerOpen)-1] = true
	return nil
}

func (p *parser) parseStateDecl(rest string, line int) error {
	opensBlock := strings.HasSuffix(rest, "{")
	if opensBlock {
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
	}

	s := Stmt{Stmt: StmtState}
	switch {
	case strings.HasPrefix(rest, `"`):
		// state "Long description" as X
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return errors.New(errors.ErrCodeParse, "line %d: unterminated state description", line)
		}
		desc := rest[1 : 1+end]
		tail := strings.TrimSpace(rest[2+end:])
		if !strings.HasPrefix(tail, "as ") {
			return errors.New(errors.ErrCodeParse, "line %d: expected 'as <id>' after state description", line)
		}
		s.ID = strings.TrimSpace(strings.TrimPrefix(tail, "as "))
		s.Description = desc
	default:
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return errors.New(errors.ErrCodeParse, "line %d: state requires an identifier", line)
		}
		s.ID = fields[0]
	}

	if !opensBlock {
		p.append(s)
		return nil
	}

	open := s
	p.stack = append(p.stack, &open)
	p.scopes = append(p.scopes, open.ID)
	p.dividerOpen = append(p.dividerOpen, false)
	return nil
}

func (p *parser) parseRelation(stmt string, line int) error {
	leftRaw, rightRaw, _ := strings.Cut(stmt, "-->")
	label := ""
	if i := strings.Index(rightRaw, ":"); i >= 0 {
		label = strings.TrimSpace(rightRaw[i+1:])
		rightRaw = rightRaw[:i]
	}

	from := strings.TrimSpace(leftRaw)
	to := strings.TrimSpace(rightRaw)
	if from == "" || to == "" {
		return errors.New(errors.ErrCodeParse, "line %d: malformed transition %q", line, stmt)
	}

	rel := Stmt{
		Stmt:        StmtRelation,
		State1:      &Ref{ID: p.markerID(from, "_start")},
		State2:      &Ref{ID: p.markerID(to, "_end")},
		Description: label,
	}
	p.append(rel)
	return nil
}

// markerID resolves the [*] pseudo-state to a scoped marker id
// ("root_start", "On_end", ...) so markers stay unique per scope.
func (p *parser) markerID(id, suffix string) string {
	if id != "[*]" {
		return id
	}
	return p.scopes[len(p.scopes)-1] + suffix
}

func (p *parser) parseNote(rest string, line int) error {
	pos := ""
	switch {
	case strings.HasPrefix(rest, "right of "):
		pos = "right of"
		rest = strings.TrimPrefix(rest, "right of ")
	case strings.HasPrefix(rest, "left of "):
		pos = "left of"
		rest = strings.TrimPrefix(rest, "left of ")
	default:
		return errors.New(errors.ErrCodeParse, "line %d: note requires a position (left of / right of)", line)
	}

	if target, text, ok := strings.Cut(rest, ":"); ok {
		p.noteTarget = strings.TrimSpace(target)
		p.notePos = pos
		p.emitNote(strings.TrimSpace(text))
		return nil
	}

	p.noteTarget = strings.TrimSpace(rest)
	p.notePos = pos
	p.noteLines = nil
	return nil
}

// emitNote appends a note-bearing state statement and resets note state.
func (p *parser) emitNote(text string) {
	p.append(Stmt{
		Stmt: StmtState,
		ID:   p.noteTarget,
		Note: &Note{Position: p.notePos, Text: text},
	})
	p.noteTarget = ""
	p.notePos = ""
	p.noteLines = nil
}
