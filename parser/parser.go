// Package parser builds a program tree from Zin tokens by recursive descent.
package parser

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lexer"
)

// SyntaxError reports the first token that does not fit the grammar.
type SyntaxError struct {
	Token   lexer.Token
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s, got %s", e.Token.Pos, e.Message, describe(e.Token))
}

func describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

type parser struct {
	toks []lexer.Token
	pos  int
}

// Parse builds the program tree. There is no error recovery: the first
// mismatch is returned as a *SyntaxError.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		var end lexer.Pos
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			end = last.Pos
			end.Offset = last.End()
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Kind: lexer.EOF, Pos: end})
	}
	p := &parser{toks: tokens}
	prog, err := p.program()
	if err != nil {
		return nil, err
	}
	log.Trace().
		Str("program", prog.Name).
		Int("variables", len(prog.Variables)).
		Int("modules", len(prog.Modules)).
		Msg("parsed program")
	return prog, nil
}

// ParseSource tokenizes and parses src.
func ParseSource(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

func (p *parser) peek() lexer.Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() lexer.Token {
	t := p.peek()
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t lexer.Token, format string, args ...any) error {
	return &SyntaxError{Token: t, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) atKeyword(kw lexer.Keyword) bool {
	return p.peek().Is(kw)
}

func (p *parser) atSymbol(s string) bool {
	return p.peek().IsSymbol(s)
}

func (p *parser) acceptSymbol(s string) bool {
	if p.atSymbol(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw lexer.Keyword) error {
	if !p.atKeyword(kw) {
		return p.errorf(p.peek(), "expected %s", kw)
	}
	p.next()
	return nil
}

func (p *parser) expectSymbol(s string) error {
	if !p.atSymbol(s) {
		return p.errorf(p.peek(), "expected %q", s)
	}
	p.next()
	return nil
}

func (p *parser) expectIdent(what string) (lexer.Token, error) {
	t := p.peek()
	if t.Kind != lexer.IDENTIFIER {
		return t, p.errorf(t, "expected %s", what)
	}
	p.next()
	return t, nil
}

// terminator consumes the period that ends a statement or declaration.
func (p *parser) terminator(after string) error {
	if !p.atSymbol(".") {
		return p.errorf(p.peek(), "expected \".\" after %s", after)
	}
	p.next()
	return nil
}

// adjacent reports whether b starts exactly where a ends.
func adjacent(a, b lexer.Token) bool {
	return a.End() == b.Pos.Offset
}

func (p *parser) program() (*ast.Program, error) {
	prog := &ast.Program{}
	if err := p.header(prog); err != nil {
		return nil, err
	}
	if err := p.implementation(prog); err != nil {
		return nil, err
	}
	if err := p.execution(prog); err != nil {
		return nil, err
	}
	if p.atKeyword(lexer.KwFim) {
		p.next()
		if err := p.programTitle(prog.Name); err != nil {
			return nil, err
		}
	}
	if t := p.peek(); t.Kind != lexer.EOF {
		return nil, p.errorf(t, "expected end of program")
	}
	return prog, nil
}

// programTitle matches `PROGAMA <name>.` where name must repeat the header.
func (p *parser) programTitle(name string) error {
	if err := p.expectKeyword(lexer.KwPrograma); err != nil {
		return err
	}
	t, err := p.expectIdent("program name")
	if err != nil {
		return err
	}
	if t.Lexeme != name {
		return p.errorf(t, "expected program name %q", name)
	}
	return p.terminator("program name")
}

func (p *parser) header(prog *ast.Program) error {
	if err := p.expectKeyword(lexer.KwInicio); err != nil {
		return err
	}
	if err := p.expectKeyword(lexer.KwPrograma); err != nil {
		return err
	}
	t, err := p.expectIdent("program name")
	if err != nil {
		return err
	}
	prog.Name = t.Lexeme
	if err := p.terminator("program name"); err != nil {
		return err
	}

	seen := map[string]bool{}
	for {
		switch {
		case p.atKeyword(lexer.KwImporte):
			imp, err := p.importStmt()
			if err != nil {
				return err
			}
			prog.Imports = append(prog.Imports, imp.Name)
		case p.atKeyword(lexer.KwVariavel):
			start := p.peek()
			v, err := p.variable()
			if err != nil {
				return err
			}
			if seen[v.Name] {
				return p.errorf(start, "variable %q declared twice", v.Name)
			}
			seen[v.Name] = true
			prog.Variables = append(prog.Variables, v)
		default:
			return nil
		}
	}
}

func (p *parser) implementation(prog *ast.Program) error {
	if err := p.expectKeyword(lexer.KwImplementacao); err != nil {
		return err
	}
	if err := p.programTitle(prog.Name); err != nil {
		return err
	}
	if err := p.expectKeyword(lexer.KwPrincipal); err != nil {
		return err
	}
	if err := p.terminator("PRINCIPAL"); err != nil {
		return err
	}
	main, err := p.block(func(t lexer.Token) bool { return t.Is(lexer.KwFim) })
	if err != nil {
		return err
	}
	prog.Main = main
	if err := p.closing(lexer.KwPrincipal); err != nil {
		return err
	}

	prog.AfterMain, err = p.block(func(t lexer.Token) bool {
		return t.Is(lexer.KwModulo) || t.Is(lexer.KwExecucao)
	})
	if err != nil {
		return err
	}

	for p.atKeyword(lexer.KwModulo) {
		start := p.peek()
		m, err := p.module()
		if err != nil {
			return err
		}
		if _, dup := prog.Module(m.Name); dup {
			return p.errorf(start, "module %q declared twice", m.Name)
		}
		prog.Modules = append(prog.Modules, m)
	}
	return nil
}

// closing matches `FIM <kw>.`.
func (p *parser) closing(kw lexer.Keyword) error {
	if err := p.expectKeyword(lexer.KwFim); err != nil {
		return err
	}
	if err := p.expectKeyword(kw); err != nil {
		return err
	}
	return p.terminator("FIM " + string(kw))
}

func (p *parser) module() (*ast.Module, error) {
	p.next() // MODULO
	t, err := p.expectIdent("module name")
	if err != nil {
		return nil, err
	}
	if err := p.terminator("module name"); err != nil {
		return nil, err
	}
	m := &ast.Module{Name: t.Lexeme}
	for !p.atKeyword(lexer.KwFim) {
		if !p.atKeyword(lexer.KwFuncao) {
			return nil, p.errorf(p.peek(), "expected funcao in module %s", m.Name)
		}
		start := p.peek()
		f, err := p.function()
		if err != nil {
			return nil, err
		}
		if _, dup := m.Function(f.Name); dup {
			return nil, p.errorf(start, "function %q declared twice in module %s", f.Name, m.Name)
		}
		m.Functions = append(m.Functions, f)
	}
	if len(m.Functions) == 0 {
		return nil, p.errorf(p.peek(), "module %s has no functions", m.Name)
	}
	if err := p.closing(lexer.KwModulo); err != nil {
		return nil, err
	}
	log.Trace().Str("module", m.Name).Int("functions", len(m.Functions)).Msg("parsed module")
	return m, nil
}

func (p *parser) function() (*ast.Function, error) {
	p.next() // funcao
	t, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	f := &ast.Function{Name: t.Lexeme}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for !p.atSymbol(")") {
		param, err := p.expectIdent("parameter name")
		if err != nil {
			return nil, err
		}
		if seen[param.Lexeme] {
			return nil, p.errorf(param, "duplicate parameter %q", param.Lexeme)
		}
		seen[param.Lexeme] = true
		f.Params = append(f.Params, param.Lexeme)
		if !p.acceptSymbol(",") && !p.atSymbol(")") {
			return nil, p.errorf(p.peek(), "expected \",\" or \")\" in parameter list")
		}
	}
	p.next() // )

	f.Body, err = p.block(func(t lexer.Token) bool { return t.Is(lexer.KwRetorne) })
	if err != nil {
		return nil, err
	}
	p.next() // retorne
	if f.Return, err = p.expr(); err != nil {
		return nil, err
	}
	if err := p.terminator("return expression"); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *parser) execution(prog *ast.Program) error {
	if err := p.expectKeyword(lexer.KwExecucao); err != nil {
		return err
	}
	if err := p.programTitle(prog.Name); err != nil {
		return err
	}
	for p.atKeyword(lexer.KwExecutar) {
		p.next()
		var name string
		if p.atKeyword(lexer.KwPrincipal) {
			p.next()
			name = ast.MainBlock
		} else {
			t, err := p.expectIdent("PRINCIPAL or a module name")
			if err != nil {
				return err
			}
			name = t.Lexeme
		}
		if err := p.terminator("run directive"); err != nil {
			return err
		}
		prog.Execution = append(prog.Execution, name)
	}
	return nil
}
