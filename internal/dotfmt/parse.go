package dotfmt

import (
	"fmt"

	"github.com/dantte-lp/gosubtype/internal/fsm"
)

type pendingTransition struct {
	fromName, toName string
	fromPos, toPos   int
	transition       fsm.Transition[string, string]
}

// Parser drives one parse of a DOT source, accumulating every error it
// finds rather than stopping at the first (spec.md §7).
type Parser struct {
	lex  *lexer
	tok  token
	errs []error
}

func newParser(src string) *Parser {
	p := &Parser{lex: newLexer(src)}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.lex.next()
}

func (p *Parser) expect(kind tokenKind) (token, bool) {
	if p.tok.kind != kind {
		p.errs = append(p.errs, &ParseError{
			Kind: UnexpectedToken, Pos: p.tok.pos,
			Expected: kind.String(), Actual: p.describeCurrent(),
		})
		return token{}, false
	}
	tok := p.tok
	p.advance()
	return tok, true
}

func (p *Parser) describeCurrent() string {
	if p.tok.kind == tokEOF {
		return "end of input"
	}
	if p.tok.kind == tokIdent {
		return fmt.Sprintf("identifier %q", p.tok.text)
	}
	return p.tok.kind.String()
}

// Parse parses a DOT document of the form `digraph <role> { <stmt>* }` into
// an Fsm, per spec.md §6. It returns every accumulated error. Once the
// `digraph <role>` header has been read, a non-nil *fsm.Fsm is returned even
// on error for callers that want partial results, but it should not be
// trusted unless errs is empty; if the header itself fails, the Fsm is nil.
func Parse(src string) (*fsm.Fsm[string, string], []error) {
	p := newParser(src)

	if _, ok := p.expect(tokDigraph); !ok {
		return nil, p.errs
	}
	roleTok, ok := p.expect(tokIdent)
	if !ok {
		return nil, p.errs
	}
	f := fsm.New[string, string](roleTok.text)

	if _, ok := p.expect(tokLBrace); !ok {
		return f, p.errs
	}

	states := map[string]fsm.StateIndex{}
	var pending []pendingTransition

	for {
		if p.tok.kind == tokRBrace {
			p.advance()
			break
		}
		if p.tok.kind == tokEOF {
			p.errs = append(p.errs, &ParseError{Kind: UnexpectedToken, Pos: p.tok.pos, Expected: tokRBrace.String(), Actual: "end of input"})
			break
		}
		p.parseEntry(f, states, &pending)
	}

	for _, pt := range pending {
		from, fromOK := states[pt.fromName]
		if !fromOK {
			p.errs = append(p.errs, &ParseError{Kind: UndefinedState, Pos: pt.fromPos, Actual: pt.fromName})
		}
		to, toOK := states[pt.toName]
		if !toOK {
			p.errs = append(p.errs, &ParseError{Kind: UndefinedState, Pos: pt.toPos, Actual: pt.toName})
		}
		if !fromOK || !toOK {
			continue
		}
		if err := f.AddTransition(from, to, pt.transition); err != nil {
			p.errs = append(p.errs, fmt.Errorf("dotfmt: %d: %w", pt.fromPos, err))
		}
	}

	return f, p.errs
}

func (p *Parser) parseEntry(f *fsm.Fsm[string, string], states map[string]fsm.StateIndex, pending *[]pendingTransition) {
	left, ok := p.expect(tokIdent)
	if !ok {
		p.advance()
		return
	}

	if p.tok.kind == tokSemicolon {
		p.advance()
		if _, exists := states[left.text]; exists {
			p.errs = append(p.errs, &ParseError{Kind: DuplicateState, Pos: left.pos, Actual: left.text})
			return
		}
		states[left.text] = f.AddState()
		return
	}

	if _, ok := p.expect(tokArrow); !ok {
		return
	}
	right, ok := p.expect(tokIdent)
	if !ok {
		return
	}
	if _, ok := p.expect(tokLSquare); !ok {
		return
	}
	if _, ok := p.expect(tokLabel); !ok {
		return
	}
	if _, ok := p.expect(tokEqual); !ok {
		return
	}
	literal, ok := p.expect(tokIdent)
	if !ok {
		return
	}

	if p.tok.kind == tokComma {
		p.advance()
	}
	if _, ok := p.expect(tokRSquare); !ok {
		return
	}
	if _, ok := p.expect(tokSemicolon); !ok {
		return
	}

	transition, ok := parseLiteral(literal.text, literal.pos, &p.errs)
	if !ok {
		return
	}

	for _, pt := range *pending {
		if pt.fromName == left.text && pt.toName == right.text && pt.transition.Equal(transition) {
			p.errs = append(p.errs, &ParseError{Kind: DuplicateTransition, Pos: left.pos})
			return
		}
	}

	*pending = append(*pending, pendingTransition{
		fromName: left.text, toName: right.text,
		fromPos: left.pos, toPos: right.pos,
		transition: transition,
	})
}
