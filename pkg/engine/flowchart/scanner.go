package flowchart

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/mermaidflow/pkg/errors"
)

// scanner is a rune cursor over one statement. Statements never span
// lines, so a single line number covers every error it reports.
type scanner struct {
	src  []rune
	pos  int
	line int
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.src)
}

// peek returns the current rune, or 0 at end of input.
func (sc *scanner) peek() rune {
	return sc.peekAt(0)
}

func (sc *scanner) peekAt(offset int) rune {
	if sc.pos+offset >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos+offset]
}

func (sc *scanner) next() rune {
	c := sc.peek()
	sc.pos++
	return c
}

func (sc *scanner) skipSpaces() {
	for !sc.eof() && (sc.peek() == ' ' || sc.peek() == '\t') {
		sc.pos++
	}
}

// consume advances past s if it appears at the cursor.
func (sc *scanner) consume(s string) bool {
	if sc.pos+len(s) > len(sc.src) {
		return false
	}
	if string(sc.src[sc.pos:sc.pos+len(s)]) != s {
		return false
	}
	sc.pos += len(s)
	return true
}

// scanRun reads a maximal run of runes matching pred.
func (sc *scanner) scanRun(pred func(rune) bool) string {
	start := sc.pos
	for !sc.eof() && pred(sc.peek()) {
		sc.pos++
	}
	return string(sc.src[start:sc.pos])
}

func (sc *scanner) errf(format string, args ...any) error {
	args = append([]any{sc.line}, args...)
	return errors.New(errors.ErrCodeParse, "line %d: "+format, args...)
}

// link is a scanned edge operator: optional heads on either side, the
// line style derived from the body characters, and an optional label.
type link struct {
	headLeft  string
	headRight string
	style     string
	label     string
}

// scanLink reads one link operator. Supported forms:
//
//	-->  ---  <-->  o--o  x==x  -.->  -.-  ==>  ===  ~~~
//	--> |label|          piped label after a complete link
//	-- label -->         inline label closing the link
func (sc *scanner) scanLink() (link, error) {
	sc.skipSpaces()
	var l link

	if c := sc.peek(); (c == '<' || c == 'o' || c == 'x') && isLinkChar(sc.peekAt(1)) {
		l.headLeft = string(c)
		sc.next()
	}

	body := sc.scanRun(isLinkChar)
	if len(body) < 2 {
		return l, sc.errf("invalid link %q", string(sc.peek()))
	}

	l.headRight = sc.scanHead()

	if l.headRight == "" && !completeBody(body) {
		// Open link: `-- label -->` with the text between two runs.
		label, closing, err := sc.scanInlineLabel()
		if err != nil {
			return l, err
		}
		l.label = label
		l.headRight = closing
	} else {
		sc.skipSpaces()
		if sc.peek() == '|' {
			sc.next()
			start := sc.pos
			for !sc.eof() && sc.peek() != '|' {
				sc.pos++
			}
			if sc.eof() {
				return l, sc.errf("unterminated link label")
			}
			l.label = strings.TrimSpace(string(sc.src[start:sc.pos]))
			sc.next()
		}
	}

	l.style = styleForBody(body)
	return l, nil
}

// scanHead reads an adjacent right arrow head. `>` is always a head;
// `o` and `x` only when not followed by an identifier character, since
// those letters can also start a node id.
func (sc *scanner) scanHead() string {
	c := sc.peek()
	if c == '>' {
		sc.next()
		return ">"
	}
	if (c == 'o' || c == 'x') && !isIdentChar(sc.peekAt(1)) {
		sc.next()
		return string(c)
	}
	return ""
}

// scanInlineLabel reads the text of an open link until its closing run
// (e.g. `-->` after `-- label`). Returns the label and the closing head.
func (sc *scanner) scanInlineLabel() (string, string, error) {
	start := sc.pos
	for !sc.eof() {
		if isLinkChar(sc.peek()) && isLinkChar(sc.peekAt(1)) {
			label := strings.TrimSpace(string(sc.src[start:sc.pos]))
			if label == "" {
				return "", "", sc.errf("empty link label")
			}
			sc.scanRun(isLinkChar)
			return label, sc.scanHead(), nil
		}
		sc.pos++
	}
	return "", "", sc.errf("unterminated link")
}

// completeBody reports whether a link body stands on its own without a
// closing head: `---`, `-.-`, `===`, `~~~` and stretched variants are
// complete; `--`, `-.` and `==` require a head or an inline label.
func completeBody(body string) bool {
	if len(body) < 3 {
		return false
	}
	switch body[0] {
	case '~':
		return true
	case '=':
		return true
	default:
		return body[len(body)-1] == '-'
	}
}

func styleForBody(body string) string {
	switch {
	case strings.ContainsRune(body, '.'):
		return StyleDotted
	case body[0] == '=':
		return StyleThick
	case body[0] == '~':
		return StyleInvisible
	default:
		return StyleSolid
	}
}

// scanBracketLabel reads a node label up to one of the allowed closers.
// Quoted labels may contain closer characters.
func (sc *scanner) scanBracketLabel(closers []bracketCloser) (string, bracketCloser, error) {
	sc.skipSpaces()

	if sc.peek() == '"' {
		sc.next()
		start := sc.pos
		for !sc.eof() && sc.peek() != '"' {
			sc.pos++
		}
		if sc.eof() {
			return "", bracketCloser{}, sc.errf("unterminated quoted label")
		}
		label := string(sc.src[start:sc.pos])
		sc.next()
		sc.skipSpaces()
		for _, c := range closers {
			if sc.consume(c.close) {
				return label, c, nil
			}
		}
		return "", bracketCloser{}, sc.errf("unterminated node label")
	}

	// Unquoted: find the earliest closer occurrence.
	rest := string(sc.src[sc.pos:])
	bestIdx := -1
	var best bracketCloser
	for _, c := range closers {
		if i := strings.Index(rest, c.close); i >= 0 && (bestIdx < 0 || i < bestIdx) {
			bestIdx = i
			best = c
		}
	}
	if bestIdx < 0 {
		return "", bracketCloser{}, sc.errf("unterminated node label")
	}

	label := strings.TrimSpace(rest[:bestIdx])
	// bestIdx is a byte offset into rest; the cursor is rune-indexed.
	sc.pos += utf8.RuneCountInString(rest[:bestIdx]) + len(best.close)
	return label, best, nil
}
