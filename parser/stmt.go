package parser

import (
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lexer"
)

// block parses statements until stop reports true for the next token. The
// stopping token is left in place.
func (p *parser) block(stop func(lexer.Token) bool) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for !stop(p.peek()) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	t := p.peek()
	switch t.Kind {
	case lexer.IDENTIFIER:
		return p.identStatement()
	case lexer.KEYWORD:
		switch t.Keyword {
		case lexer.KwEscreva:
			return p.writeStmt()
		case lexer.KwPergunte:
			return p.askStmt()
		case lexer.KwSe:
			return p.ifStmt()
		case lexer.KwEnquanto:
			return p.whileStmt()
		case lexer.KwPara:
			return p.forStmt()
		case lexer.KwRepita:
			return p.repeatStmt()
		case lexer.KwExecutar:
			return p.executeStmt()
		case lexer.KwImporte:
			return p.importStmt()
		case lexer.KwArquivoInicio:
			return p.fileCreate()
		case lexer.KwArquivoEscreva:
			return p.fileWrite()
		case lexer.KwArquivoLeia:
			return p.fileRead()
		}
	}
	return nil, p.errorf(t, "expected a statement")
}

// identStatement parses an assignment or a call used as a statement.
func (p *parser) identStatement() (ast.Stmt, error) {
	name := p.peek()
	if p.peekAt(1).Kind == lexer.ASSIGN {
		p.next()
		p.next()
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.terminator("assignment"); err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name.Lexeme, Value: val}, nil
	}

	e, err := p.term()
	if err != nil {
		return nil, err
	}
	switch e.(type) {
	case *ast.ModuleCall, *ast.PlainCall:
	default:
		return nil, p.errorf(p.peek(), "expected \"=\" after %s", name.Lexeme)
	}
	if err := p.terminator("call"); err != nil {
		return nil, err
	}
	return &ast.CallStmt{Call: e}, nil
}

// stringArg consumes a string literal and returns its unquoted text.
func (p *parser) stringArg(what string) (string, error) {
	t := p.peek()
	if t.Kind != lexer.STRING {
		return "", p.errorf(t, "expected %s", what)
	}
	p.next()
	return lexer.Unquote(t.Lexeme), nil
}

func (p *parser) writeStmt() (ast.Stmt, error) {
	p.next()
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	text, err := p.stringArg("a string to write")
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.terminator("escreva"); err != nil {
		return nil, err
	}
	return &ast.Write{Text: text}, nil
}

// askStmt parses pergunte("prompt" {target}).
func (p *parser) askStmt() (ast.Stmt, error) {
	p.next()
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	prompt, err := p.stringArg("a prompt string")
	if err != nil {
		return nil, err
	}
	target, err := p.bracedTarget()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.terminator("pergunte"); err != nil {
		return nil, err
	}
	return &ast.Ask{Prompt: prompt, Target: target}, nil
}

func (p *parser) bracedTarget() (string, error) {
	if err := p.expectSymbol("{"); err != nil {
		return "", err
	}
	t, err := p.expectIdent("target variable")
	if err != nil {
		return "", err
	}
	if err := p.expectSymbol("}"); err != nil {
		return "", err
	}
	return t.Lexeme, nil
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	p.next()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.KwEntao); err != nil {
		return nil, err
	}
	if err := p.terminator("ENTAO"); err != nil {
		return nil, err
	}
	s := &ast.If{Cond: cond}
	s.Then, err = p.block(func(t lexer.Token) bool {
		return t.Is(lexer.KwSenao) || t.Is(lexer.KwFim)
	})
	if err != nil {
		return nil, err
	}
	if p.atKeyword(lexer.KwSenao) {
		p.next()
		if err := p.terminator("SENAO"); err != nil {
			return nil, err
		}
		els, err := p.block(func(t lexer.Token) bool { return t.Is(lexer.KwFim) })
		if err != nil {
			return nil, err
		}
		s.Else = append([]ast.Stmt{}, els...)
	}
	if err := p.closing(lexer.KwSe); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	p.next()
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.KwFaca); err != nil {
		return nil, err
	}
	if err := p.terminator("FACA"); err != nil {
		return nil, err
	}
	body, err := p.block(func(t lexer.Token) bool { return t.Is(lexer.KwFim) })
	if err != nil {
		return nil, err
	}
	if err := p.closing(lexer.KwEnquanto); err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// forStmt parses PARA i = a ATE b [PASSO s] FACA. ... FIM PARA. The body ends
// at a FIM whose next token is PARA.
func (p *parser) forStmt() (ast.Stmt, error) {
	p.next()
	v, err := p.expectIdent("loop variable")
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != lexer.ASSIGN {
		return nil, p.errorf(p.peek(), "expected \"=\" after loop variable")
	}
	p.next()
	s := &ast.For{Var: v.Lexeme}
	if s.Start, err = p.expr(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.KwAte); err != nil {
		return nil, err
	}
	if s.End, err = p.expr(); err != nil {
		return nil, err
	}
	if p.atKeyword(lexer.KwPasso) {
		p.next()
		if s.Step, err = p.expr(); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword(lexer.KwFaca); err != nil {
		return nil, err
	}
	if err := p.terminator("FACA"); err != nil {
		return nil, err
	}
	s.Body, err = p.block(func(t lexer.Token) bool {
		return t.Kind == lexer.EOF || (t.Is(lexer.KwFim) && p.peekAt(1).Is(lexer.KwPara))
	})
	if err != nil {
		return nil, err
	}
	if err := p.closing(lexer.KwPara); err != nil {
		return nil, err
	}
	return s, nil
}

// repeatStmt parses REPITA. ... ATE cond with an optional final period.
func (p *parser) repeatStmt() (ast.Stmt, error) {
	p.next()
	if err := p.terminator("REPITA"); err != nil {
		return nil, err
	}
	body, err := p.block(func(t lexer.Token) bool { return t.Is(lexer.KwAte) })
	if err != nil {
		return nil, err
	}
	p.next() // ATE
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.acceptSymbol(".")
	return &ast.RepeatUntil{Body: body, Cond: cond}, nil
}

func (p *parser) executeStmt() (ast.Stmt, error) {
	p.next()
	s := &ast.ExecuteModule{Bare: true}
	if p.atKeyword(lexer.KwModulo) {
		p.next()
		s.Bare = false
	}
	t, err := p.expectIdent("module name")
	if err != nil {
		return nil, err
	}
	s.Name = t.Lexeme
	if err := p.terminator("EXECUTAR"); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) importStmt() (*ast.Import, error) {
	p.next()
	t, err := p.expectIdent("module name")
	if err != nil {
		return nil, err
	}
	if err := p.terminator("importe"); err != nil {
		return nil, err
	}
	return &ast.Import{Name: t.Lexeme}, nil
}

// pathArg parses a file argument: a string literal, a name.ext pair written
// without spaces, or a bare variable name holding the path.
func (p *parser) pathArg() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case lexer.STRING:
		p.next()
		return &ast.TextLit{Value: lexer.Unquote(t.Lexeme)}, nil
	case lexer.IDENTIFIER:
		p.next()
		dot, ext := p.peek(), p.peekAt(1)
		if dot.IsSymbol(".") && ext.Kind == lexer.IDENTIFIER && adjacent(t, dot) && adjacent(dot, ext) {
			p.next()
			p.next()
			return &ast.TextLit{Value: t.Lexeme + "." + ext.Lexeme}, nil
		}
		return &ast.VarRef{Name: t.Lexeme}, nil
	}
	return nil, p.errorf(t, "expected a file name")
}

// fileCreate parses ARQUIVO-INICIO(name, .ext). The extension may be
// written as .ext, as a string, or left out.
func (p *parser) fileCreate() (ast.Stmt, error) {
	p.next()
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	name, err := p.pathArg()
	if err != nil {
		return nil, err
	}
	s := &ast.FileCreate{Name: name}
	if p.acceptSymbol(",") {
		switch t := p.peek(); {
		case t.IsSymbol("."):
			p.next()
			ext, err := p.expectIdent("file extension")
			if err != nil {
				return nil, err
			}
			s.Ext = "." + ext.Lexeme
		case t.Kind == lexer.STRING:
			p.next()
			s.Ext = lexer.Unquote(t.Lexeme)
		default:
			return nil, p.errorf(t, "expected a file extension")
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.terminator("ARQUIVO-INICIO"); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) fileWrite() (ast.Stmt, error) {
	p.next()
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	content, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(","); err != nil {
		return nil, err
	}
	path, err := p.pathArg()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.terminator("ARQUIVO-ESCREVA"); err != nil {
		return nil, err
	}
	return &ast.FileWrite{Content: content, Path: path}, nil
}

func (p *parser) fileRead() (ast.Stmt, error) {
	p.next()
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	path, err := p.pathArg()
	if err != nil {
		return nil, err
	}
	s := &ast.FileRead{Path: path}
	if p.atSymbol("{") {
		if s.Target, err = p.bracedTarget(); err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.terminator("ARQUIVO-LEIA"); err != nil {
		return nil, err
	}
	return s, nil
}
