package parser

import (
	"strconv"
	"strings"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lexer"
)

// expr parses term (OPERATOR term)*. Operators chain strictly left to right
// with no precedence: a + b * c is (a + b) * c.
func (p *parser) expr() (ast.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == lexer.OPERATOR {
		op := p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op.Lexeme, Right: right}
	}
	return left, nil
}

func (p *parser) term() (ast.Expr, error) {
	t := p.peek()
	switch {
	case t.Kind == lexer.NUMBER:
		p.next()
		return numberLiteral(t, false)
	case t.Kind == lexer.OPERATOR && t.Lexeme == "-" && p.peekAt(1).Kind == lexer.NUMBER:
		p.next()
		return numberLiteral(p.next(), true)
	case t.Kind == lexer.STRING:
		p.next()
		return &ast.TextLit{Value: lexer.Unquote(t.Lexeme)}, nil
	case t.Kind == lexer.IDENTIFIER:
		return p.identTerm()
	case t.IsSymbol("("):
		p.next()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, p.errorf(t, "expected an expression")
}

func numberLiteral(t lexer.Token, negative bool) (ast.Literal, error) {
	text := t.Lexeme
	if negative {
		text = "-" + text
	}
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &SyntaxError{Token: t, Message: "invalid number"}
		}
		return &ast.FloatLit{Value: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, &SyntaxError{Token: t, Message: "integer out of range"}
	}
	return &ast.IntLit{Value: n}, nil
}

// member reports whether the tokens at the cursor are `.name` written flush
// against the previous token. A period with space on either side ends the
// statement instead.
func (p *parser) member(prev lexer.Token) bool {
	dot, name := p.peek(), p.peekAt(1)
	return dot.IsSymbol(".") && name.Kind == lexer.IDENTIFIER && adjacent(prev, dot) && adjacent(dot, name)
}

func (p *parser) identTerm() (ast.Expr, error) {
	id := p.next()
	switch {
	case p.member(id):
		p.next()
		name := p.next()
		if p.atSymbol("(") {
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			return &ast.ModuleCall{Module: id.Lexeme, Function: name.Lexeme, Args: args}, nil
		}
		return &ast.ModuleAttr{Module: id.Lexeme, Name: name.Lexeme}, nil
	case p.atSymbol("("):
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &ast.PlainCall{Name: id.Lexeme, Args: args}, nil
	case p.atSymbol("["):
		p.next()
		idx, err := p.expr()
		if err != nil {
			return nil, err
		}
		closing := p.peek()
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		if p.member(closing) {
			p.next()
			field := p.next()
			return &ast.RecordAccess{Name: id.Lexeme, Index: idx, Field: field.Lexeme}, nil
		}
		return &ast.ListAccess{Name: id.Lexeme, Index: idx}, nil
	}
	return &ast.VarRef{Name: id.Lexeme}, nil
}

func (p *parser) args() ([]ast.Expr, error) {
	p.next() // (
	var out []ast.Expr
	for !p.atSymbol(")") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if !p.acceptSymbol(",") && !p.atSymbol(")") {
			return nil, p.errorf(p.peek(), "expected \",\" or \")\" in argument list")
		}
	}
	p.next() // )
	return out, nil
}
