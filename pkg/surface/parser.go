package surface

import (
	"strings"

	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Parse lexes and parses src, a sequence of directives belonging to
// module (used to qualify any bare, undotted symbol reference).
func Parse(src, module string) ([]Directive, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, module: module}
	return p.parseProgram()
}

// parser is a recursive-descent, Pratt-flavoured parser over the token
// stream produced by Lexer. scope holds the names of binders currently
// open, innermost last, so that resolveIdent can recover a de Bruijn
// index by counting back from the end.
type parser struct {
	toks   []Token
	i      int
	module string
	scope  []string

	holes    map[string]int
	nextHole int
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) peekAt(off int) Token {
	idx := p.i + off
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) advance() Token {
	tok := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return tok
}

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) expect(tt TokenType) (Token, error) {
	if !p.check(tt) {
		tok := p.peek()
		return tok, &SyntaxError{Line: tok.Line, Col: tok.Col, Message: "unexpected token"}
	}
	return p.advance(), nil
}

func (p *parser) locOf(tok Token) *perr.SourceLocation {
	return &perr.SourceLocation{Line: tok.Line, Column: tok.Col}
}

func (p *parser) pushScope(name string) { p.scope = append(p.scope, name) }
func (p *parser) popScope()             { p.scope = p.scope[:len(p.scope)-1] }

func (p *parser) resolveIdent(name string) term.Term {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if p.scope[i] == name {
			return term.Var{Index: len(p.scope) - 1 - i}
		}
	}
	module, bare := p.module, name
	if m, n, ok := strings.Cut(name, "."); ok {
		module, bare = m, n
	}
	return term.Sym{Module: module, Name: bare}
}

func (p *parser) resolveHole(name string) int {
	if p.holes == nil {
		p.holes = map[string]int{}
	}
	if idx, ok := p.holes[name]; ok {
		return idx
	}
	idx := p.nextHole
	p.holes[name] = idx
	p.nextHole++
	return idx
}

func (p *parser) canStartPrimary() bool {
	switch p.peek().Type {
	case TokIdent, TokHole, TokLParen, TokBackslash, TokKwType, TokKwKind:
		return true
	default:
		return false
	}
}

// parseTerm parses a full term, including non-dependent arrows ("A ->
// B", right-associative). Dependent products ("(x : A) -> B") are
// parsed entirely within parsePrimary, since the binder syntax starts
// with the same '(' token a parenthesised grouping does.
func (p *parser) parseTerm() (term.Term, error) {
	left, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if p.check(TokArrow) {
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return term.Prod{Domain: left, Codomain: term.Shift(1, 0, right)}, nil
	}
	return left, nil
}

// parseApp parses a left-associative application spine of primaries.
func (p *parser) parseApp() (term.Term, error) {
	head, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.canStartPrimary() {
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		head = term.App{Fun: head, Arg: arg}
	}
	return head, nil
}

func (p *parser) parsePrimary() (term.Term, error) {
	tok := p.peek()
	switch tok.Type {
	case TokKwType:
		p.advance()
		return term.TypeSort{}, nil
	case TokKwKind:
		p.advance()
		return term.Kind{}, nil
	case TokHole:
		p.advance()
		return term.PatHole{Index: p.resolveHole(tok.Lexeme)}, nil
	case TokIdent:
		p.advance()
		return p.resolveIdent(tok.Lexeme), nil
	case TokBackslash:
		return p.parseLambda()
	case TokLParen:
		if p.peekAt(1).Type == TokIdent && p.peekAt(2).Type == TokColon {
			return p.parseDependentProd()
		}
		p.advance()
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Line: tok.Line, Col: tok.Col, Message: "expected a term"}
	}
}

func (p *parser) parseDependentProd() (term.Term, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	domain, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokArrow); err != nil {
		return nil, err
	}
	p.pushScope(nameTok.Lexeme)
	codomain, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return term.Prod{Domain: domain, Codomain: codomain}, nil
}

func (p *parser) parseLambda() (term.Term, error) {
	if _, err := p.expect(TokBackslash); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	var annotation term.Term
	if p.check(TokColon) {
		p.advance()
		annotation, err = p.parseTerm()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	p.pushScope(nameTok.Lexeme)
	body, err := p.parseTerm()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return term.Abst{Annotation: annotation, Body: body}, nil
}

func (p *parser) parseProgram() ([]Directive, error) {
	var dirs []Directive
	for !p.check(TokEOF) {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

func (p *parser) parseDirective() (Directive, error) {
	switch p.peek().Type {
	case TokKwStatic:
		return p.parseDeclare(false)
	case TokKwDef:
		return p.parseDeclare(true)
	case TokKwRule:
		return p.parseRule()
	case TokKwInfer:
		return p.parseInfer()
	case TokKwEval:
		return p.parseEval()
	case TokKwAssert:
		return p.parseAssertion(true)
	case TokKwCheck:
		return p.parseAssertion(false)
	default:
		tok := p.peek()
		return nil, &SyntaxError{Line: tok.Line, Col: tok.Col, Message: "expected a directive (static/def/rule/infer/eval/assert/check)"}
	}
}

func (p *parser) parseDeclare(definable bool) (Directive, error) {
	kw := p.advance()
	loc := p.locOf(kw)
	nameTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	typ, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	if definable {
		return &DeclareDefinable{Module: p.module, Name: nameTok.Lexeme, Type: typ, Loc: loc}, nil
	}
	return &DeclareStatic{Module: p.module, Name: nameTok.Lexeme, Type: typ, Loc: loc}, nil
}

// parseRule parses "rule head pat1 pat2 ... -> rhs.", where each
// pattern argument is a primary — an application or a lambda pattern
// must be parenthesised, matching §4.3's grammar where a pattern
// position is exactly one term, not a juxtaposed sequence.
func (p *parser) parseRule() (Directive, error) {
	kw := p.advance()
	loc := p.locOf(kw)
	headTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	module, name := p.module, headTok.Lexeme
	if m, n, ok := strings.Cut(headTok.Lexeme, "."); ok {
		module, name = m, n
	}

	p.holes = map[string]int{}
	p.nextHole = 0

	var lhsArgs []term.Term
	for !p.check(TokArrow) {
		pat, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		lhsArgs = append(lhsArgs, pat)
	}
	arity := p.nextHole

	if _, err := p.expect(TokArrow); err != nil {
		return nil, err
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}

	rule := &symtab.Rule{
		Head:     symtab.Ref{Module: module, Name: name},
		Arity:    arity,
		LHSArgs:  lhsArgs,
		RHS:      rhs,
		Declarer: p.module,
	}
	return &AddRule{Rule: rule, Loc: loc}, nil
}

func (p *parser) parseInfer() (Directive, error) {
	kw := p.advance()
	loc := p.locOf(kw)
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	return &Infer{Term: t, Loc: loc}, nil
}

func (p *parser) parseEval() (Directive, error) {
	kw := p.advance()
	loc := p.locOf(kw)
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	mode := EvalSNF
	switch {
	case p.check(TokKwWhnf):
		p.advance()
		mode = EvalWHNF
	case p.check(TokKwSnf):
		p.advance()
		mode = EvalSNF
	}

	budget := 0
	if p.check(TokKwWith) {
		p.advance()
		if _, err := p.expect(TokKwBudget); err != nil {
			return nil, err
		}
		tok, err := p.expect(TokInt)
		if err != nil {
			return nil, err
		}
		budget = tok.IntVal
	}

	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	return &Eval{Term: t, Mode: mode, Budget: budget, Loc: loc}, nil
}

func (p *parser) parseAssertion(asserting bool) (Directive, error) {
	kw := p.advance()
	loc := p.locOf(kw)
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	var assertion Assertion
	assertion.Asserting = asserting
	assertion.Loc = loc

	switch {
	case p.check(TokEqEq):
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		assertion.Conv = &ConvAssertion{Left: left, Right: right}
	case p.check(TokColon):
		p.advance()
		typ, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		assertion.Typing = &TypeAssertion{Subject: left, Type: typ}
	default:
		tok := p.peek()
		return nil, &SyntaxError{Line: tok.Line, Col: tok.Col, Message: "expected '==' or ':' after the asserted term"}
	}

	if _, err := p.expect(TokDot); err != nil {
		return nil, err
	}
	return &assertion, nil
}
