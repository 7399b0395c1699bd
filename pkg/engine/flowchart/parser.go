package flowchart

import (
	"strings"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// bracketShapes maps node bracket pairs to shape names. Openers are
// matched longest-first; some openers allow more than one closer (the
// trapezoid variants share openers with the parallelograms).
var bracketShapes = []struct {
	open    string
	closers []bracketCloser
}{
	{"(((", []bracketCloser{{")))", ShapeDoubleCircle}}},
	{"([", []bracketCloser{{"])", ShapeStadium}}},
	{"[[", []bracketCloser{{"]]", ShapeSubroutine}}},
	{"[(", []bracketCloser{{")]", ShapeCylinder}}},
	{"((", []bracketCloser{{"))", ShapeCircle}}},
	{"[/", []bracketCloser{{"/]", ShapeParallelogram}, {"\\]", ShapeTrapezoid}}},
	{"[\\", []bracketCloser{{"\\]", ShapeParallelogramAlt}, {"/]", ShapeTrapezoidAlt}}},
	{"{{", []bracketCloser{{"}}", ShapeHexagon}}},
	{"{", []bracketCloser{{"}", ShapeDiamond}}},
	{"[", []bracketCloser{{"]", ShapeRectangle}}},
	{"(", []bracketCloser{{")", ShapeRounded}}},
	{">", []bracketCloser{{"]", ShapeAsymmetric}}},
}

type bracketCloser struct {
	close string
	shape string
}

// directions accepted in the diagram header.
var directions = map[string]bool{
	"TB": true, "TD": true, "BT": true, "LR": true, "RL": true,
}

// skipKeywords are recognized statement keywords the engine ignores.
// They affect rendering only, not diagram structure.
var skipKeywords = map[string]bool{
	"classDef":  true,
	"class":     true,
	"click":     true,
	"linkStyle": true,
	"direction": true,
	"accTitle":  true,
	"accDescr":  true,
}

type parser struct {
	out      payload
	index    map[string]int // vertex id -> index into out.Vertices
	subStack []int          // open subgraphs, indexes into out.Subgraphs

	text      string
	sawHeader bool
}

func newParser(text string) *parser {
	return &parser{
		text:  text,
		index: make(map[string]int),
	}
}

func (p *parser) parse() (*payload, error) {
	p.out.Direction = "TB"
	// Empty arrays, not nulls: an empty diagram is still well-formed.
	p.out.Vertices = []vertex{}
	p.out.Edges = []edgeRec{}

	for lineNo, raw := range strings.Split(p.text, "\n") {
		line := stripComment(raw)
		for _, stmt := range splitStatements(line) {
			if err := p.parseStatement(stmt, lineNo+1); err != nil {
				return nil, err
			}
		}
	}

	if !p.sawHeader {
		return nil, errors.New(errors.ErrCodeParse, "missing flowchart header")
	}
	if len(p.subStack) > 0 {
		return nil, errors.New(errors.ErrCodeParse, "unclosed subgraph %q", p.out.Subgraphs[p.subStack[len(p.subStack)-1]].ID)
	}
	return &p.out, nil
}

// stripComment removes a trailing %% comment, respecting double quotes.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i+1 < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '%':
			if !inQuote && line[i+1] == '%' {
				return line[:i]
			}
		}
	}
	return line
}

// splitStatements splits a line on top-level semicolons. Semicolons
// inside quotes or node brackets stay put.
func splitStatements(line string) []string {
	var out []string
	depth := 0
	inQuote := false
	start := 0
	for i, c := range line {
		switch c {
		case '"':
			inQuote = !inQuote
		case '[', '(', '{':
			if !inQuote {
				depth++
			}
		case ']', ')', '}':
			if !inQuote && depth > 0 {
				depth--
			}
		case ';':
			if !inQuote && depth == 0 {
				out = append(out, line[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, line[start:])
	return out
}

func (p *parser) parseStatement(stmt string, line int) error {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return nil
	}

	if !p.sawHeader {
		return p.parseHeader(stmt, line)
	}

	keyword := stmt
	if i := strings.IndexAny(stmt, " \t"); i >= 0 {
		keyword = stmt[:i]
	}

	switch {
	case keyword == "subgraph":
		return p.openSubgraph(strings.TrimSpace(stmt[len("subgraph"):]), line)
	case stmt == "end":
		if len(p.subStack) == 0 {
			return errors.New(errors.ErrCodeParse, "line %d: end without open subgraph", line)
		}
		p.subStack = p.subStack[:len(p.subStack)-1]
		return nil
	case keyword == "style":
		return p.parseStyle(strings.TrimSpace(stmt[len("style"):]), line)
	case skipKeywords[keyword]:
		return nil
	default:
		return p.parseChain(stmt, line)
	}
}

func (p *parser) parseHeader(stmt string, line int) error {
	fields := strings.Fields(stmt)
	if fields[0] != "flowchart" && fields[0] != "graph" {
		return errors.New(errors.ErrCodeParse, "line %d: expected flowchart header, got %q", line, fields[0])
	}
	if len(fields) > 1 {
		dir := fields[1]
		if !directions[dir] {
			return errors.New(errors.ErrCodeParse, "line %d: unknown direction %q", line, dir)
		}
		if dir == "TD" {
			dir = "TB"
		}
		p.out.Direction = dir
	}
	p.sawHeader = true
	return nil
}

func (p *parser) openSubgraph(rest string, line int) error {
	if rest == "" {
		return errors.New(errors.ErrCodeParse, "line %d: subgraph requires an identifier", line)
	}

	sg := subgraph{}
	if i := strings.Index(rest, "["); i >= 0 {
		j := strings.LastIndex(rest, "]")
		if j < i {
			return errors.New(errors.ErrCodeParse, "line %d: unterminated subgraph title", line)
		}
		sg.ID = strings.TrimSpace(rest[:i])
		sg.Title = strings.TrimSpace(rest[i+1 : j])
	} else {
		fields := strings.Fields(rest)
		sg.ID = fields[0]
		sg.Title = strings.Join(fields[1:], " ")
	}

	p.out.Subgraphs = append(p.out.Subgraphs, sg)
	p.subStack = append(p.subStack, len(p.out.Subgraphs)-1)
	return nil
}

// parseStyle handles "style <id> k:v,k:v" statements. The styles are
// attached to the vertex, which is created if not yet declared.
func (p *parser) parseStyle(rest string, line int) error {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return errors.New(errors.ErrCodeParse, "line %d: style requires a node id and attributes", line)
	}

	idx := p.ensureVertex(fields[0])
	v := &p.out.Vertices[idx]
	if v.Styles == nil {
		v.Styles = make(map[string]string)
	}

	for _, pair := range strings.Split(strings.Join(fields[1:], " "), ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, val, ok := strings.Cut(pair, ":")
		if !ok {
			return errors.New(errors.ErrCodeParse, "line %d: malformed style attribute %q", line, pair)
		}
		v.Styles[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return nil
}

// parseChain parses a node/link statement: a node group optionally
// followed by any number of link + node group pairs.
//
//	A[Start] --> |go| B[End]
//	A & B --> C --> D
func (p *parser) parseChain(stmt string, line int) error {
	sc := &scanner{src: []rune(stmt), line: line}

	left, err := p.parseNodeGroup(sc)
	if err != nil {
		return err
	}

	for {
		sc.skipSpaces()
		if sc.eof() {
			return nil
		}

		link, err := sc.scanLink()
		if err != nil {
			return err
		}

		right, err := p.parseNodeGroup(sc)
		if err != nil {
			return err
		}

		for _, from := range left {
			for _, to := range right {
				p.out.Edges = append(p.out.Edges, edgeRec{
					Source:    from,
					Target:    to,
					Label:     link.label,
					Style:     link.style,
					HeadLeft:  link.headLeft,
					HeadRight: link.headRight,
				})
			}
		}
		left = right
	}
}

// parseNodeGroup parses one node or an ampersand list (A & B & C) and
// returns the ids in declaration order.
func (p *parser) parseNodeGroup(sc *scanner) ([]string, error) {
	var ids []string
	for {
		id, err := p.parseNode(sc)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)

		sc.skipSpaces()
		if sc.peek() != '&' {
			return ids, nil
		}
		sc.next()
		sc.skipSpaces()
	}
}

// parseNode parses a node reference with an optional shape bracket and
// records the vertex. A repeated id updates the existing vertex in place.
func (p *parser) parseNode(sc *scanner) (string, error) {
	sc.skipSpaces()
	id := sc.scanRun(isIdentChar)
	if id == "" {
		return "", sc.errf("expected node identifier")
	}

	idx := p.ensureVertex(id)

	for _, b := range bracketShapes {
		if !sc.consume(b.open) {
			continue
		}
		label, closer, err := sc.scanBracketLabel(b.closers)
		if err != nil {
			return "", err
		}
		v := &p.out.Vertices[idx]
		v.Label = label
		v.Shape = closer.shape
		break
	}

	return id, nil
}

// ensureVertex records a vertex on first appearance and returns its index.
func (p *parser) ensureVertex(id string) int {
	if idx, ok := p.index[id]; ok {
		return idx
	}
	p.out.Vertices = append(p.out.Vertices, vertex{ID: id})
	idx := len(p.out.Vertices) - 1
	p.index[id] = idx

	if len(p.subStack) > 0 {
		sg := &p.out.Subgraphs[p.subStack[len(p.subStack)-1]]
		sg.Members = append(sg.Members, id)
	}
	return idx
}

func isIdentChar(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isLinkChar(c rune) bool {
	return c == '-' || c == '.' || c == '=' || c == '~'
}
