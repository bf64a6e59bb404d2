package dotfmt

import (
	"strings"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

// literalParser parses one transition literal — the text carried by a DOT
// edge's `label = ...` attribute — of the grammar
//
//	<role> ('?' | '!') <label> [ '(' params ')' ] [ '[' assignments ']' ]
//
// Parameters and assignments are opaque payload (spec.md §3): this parser
// only needs to find their extent, not interpret the refinement expressions
// inside them, so it scans by tracking bracket depth rather than running a
// full expression grammar.
type literalParser struct {
	text string
	pos  int
	base int // byte offset of text within the outer source, for error Pos
	errs *[]error
}

func parseLiteral(text string, base int, errs *[]error) (fsm.Transition[string, string], bool) {
	p := &literalParser{text: text, base: base, errs: errs}

	role, ok := p.ident()
	if !ok {
		p.fail(MissingOperand, "a role", "end of literal")
		return fsm.Transition[string, string]{}, false
	}

	var action fsm.Action
	switch {
	case p.peek() == '!':
		action = fsm.Send
		p.pos++
	case p.peek() == '?':
		action = fsm.Receive
		p.pos++
	default:
		p.fail(UnexpectedToken, "'!' or '?'", p.peekDesc())
		return fsm.Transition[string, string]{}, false
	}

	label, ok := p.ident()
	if !ok {
		p.fail(MissingOperand, "a label", "end of literal")
		return fsm.Transition[string, string]{}, false
	}

	msg := fsm.FromLabel(label)

	if p.peek() == '(' {
		params, ok := p.parameters()
		if !ok {
			return fsm.Transition[string, string]{}, false
		}
		msg.Parameters = params
	}

	if p.peek() == '[' {
		assigns, ok := p.assignments()
		if !ok {
			return fsm.Transition[string, string]{}, false
		}
		msg.Assignments = assigns
	}

	p.skipSpace()
	if p.pos != len(p.text) {
		p.fail(UnexpectedExpression, "", p.peekDesc())
		return fsm.Transition[string, string]{}, false
	}

	return fsm.NewTransition(role, action, msg), true
}

func (p *literalParser) fail(kind ErrorKind, expected, actual string) {
	*p.errs = append(*p.errs, &ParseError{Kind: kind, Pos: p.base + p.pos, Expected: expected, Actual: actual})
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
}

func (p *literalParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return 0
	}
	return p.text[p.pos]
}

func (p *literalParser) peekDesc() string {
	if p.pos >= len(p.text) {
		return "end of literal"
	}
	return string(p.text[p.pos])
}

// ident consumes a label/role token: either a normal identifier, or a
// bare numeral (DOT labels are frequently plain numbers, e.g. "0", "1").
func (p *literalParser) ident() (string, bool) {
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.text) {
		return "", false
	}
	switch {
	case isIdentStart(p.text[p.pos]):
		for p.pos < len(p.text) && isIdentCont(p.text[p.pos]) {
			p.pos++
		}
	case p.text[p.pos] >= '0' && p.text[p.pos] <= '9':
		for p.pos < len(p.text) && p.text[p.pos] >= '0' && p.text[p.pos] <= '9' {
			p.pos++
		}
	default:
		return "", false
	}
	return p.text[start:p.pos], true
}

// balanced returns the raw text strictly between a matching pair of open/
// close bytes starting at the current position (which must be open), with
// nesting of the same pair accounted for.
func (p *literalParser) balanced(open, close byte) (string, bool) {
	if p.peek() != open {
		return "", false
	}
	p.pos++
	start := p.pos
	depth := 1
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				text := p.text[start:p.pos]
				p.pos++
				return text, true
			}
		}
		p.pos++
	}
	p.fail(UnclosedBracket, string(close), "end of literal")
	return "", false
}

func splitTop(s string, open, close byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) || len(parts) > 0 {
		parts = append(parts, s[start:])
	}
	return parts
}

func (p *literalParser) parameters() (fsm.Parameters[string], bool) {
	raw, ok := p.balanced('(', ')')
	if !ok {
		return fsm.Parameters[string]{}, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fsm.Parameters[string]{}, true
	}

	var params fsm.Parameters[string]
	sawNamed, sawUnnamed := false, false

	for _, part := range splitTop(raw, '{', '}') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if idx := topIndex(part, ':'); idx >= 0 {
			sawNamed = true
			name := strings.TrimSpace(part[:idx])
			rest := strings.TrimSpace(part[idx+1:])
			sort, refinement, hasRefine := splitRefinement(rest)
			params.NamedParams = append(params.NamedParams, fsm.NamedParameter[string]{
				Name: name, Sort: sort, Refinement: refinement, HasRefine: hasRefine,
			})
		} else {
			sawUnnamed = true
			sort, _, _ := splitRefinement(part)
			params.Unnamed = append(params.Unnamed, sort)
		}
	}

	if sawNamed && sawUnnamed {
		p.fail(MixedParameters, "", "")
		return fsm.Parameters[string]{}, false
	}
	params.Named = sawNamed
	return params, true
}

func (p *literalParser) assignments() ([]fsm.Assignment[string], bool) {
	raw, ok := p.balanced('[', ']')
	if !ok {
		return nil, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}

	var out []fsm.Assignment[string]
	for _, part := range splitTop(raw, '(', ')') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := topIndex(part, '=')
		if idx < 0 {
			p.fail(MissingOperand, "'='", "assignment without a right-hand side")
			return nil, false
		}
		name := strings.TrimSpace(part[:idx])
		expr := strings.TrimSpace(part[idx+1:])
		out = append(out, fsm.Assignment[string]{Name: name, Refinement: expr})
	}
	return out, true
}

// splitRefinement separates a sort name from a trailing `{refinement}`.
func splitRefinement(s string) (sort, refinement string, hasRefine bool) {
	if idx := strings.IndexByte(s, '{'); idx >= 0 && strings.HasSuffix(s, "}") {
		return strings.TrimSpace(s[:idx]), s[idx+1 : len(s)-1], true
	}
	return s, "", false
}

// topIndex finds the first occurrence of b outside of any '{'..'}' nesting.
func topIndex(s string, b byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case b:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
