package parser

import (
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lexer"
)

// variable parses `variavel <name> tipo <type> [= <init>] [.]`.
func (p *parser) variable() (*ast.VariableDeclaration, error) {
	p.next() // variavel
	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword(lexer.KwTipo); err != nil {
		return nil, err
	}
	typ := p.peek()
	if typ.Kind != lexer.TYPE {
		return nil, p.errorf(typ, "expected a type name")
	}
	p.next()

	v := &ast.VariableDeclaration{Name: name.Lexeme, Type: string(typ.Keyword)}
	switch typ.Keyword {
	case lexer.TypeLista:
		v.Kind = ast.ListVar
	case lexer.TypeGrupo:
		v.Kind = ast.TableVar
		v.Table = &ast.TableLiteral{}
	default:
		v.Kind = ast.ScalarVar
	}

	if p.peek().Kind == lexer.ASSIGN {
		p.next()
		switch v.Kind {
		case ast.ListVar:
			v.List, err = p.listLiteral()
		case ast.TableVar:
			v.Table, err = p.tableLiteral()
		default:
			v.Init, err = p.dataLiteral()
		}
		if err != nil {
			return nil, err
		}
	}
	p.acceptSymbol(".")
	return v, nil
}

// dataLiteral parses a number, a negative number or a string stored as data.
// Digit-only strings become integers.
func (p *parser) dataLiteral() (ast.Literal, error) {
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
		return ast.NormalizeData(lexer.Unquote(t.Lexeme)), nil
	}
	return nil, p.errorf(t, "expected a number or a string")
}

func (p *parser) listLiteral() ([]ast.Literal, error) {
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	var out []ast.Literal
	for !p.atSymbol("]") {
		l, err := p.dataLiteral()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
		if !p.acceptSymbol(",") && !p.atSymbol("]") {
			return nil, p.errorf(p.peek(), "expected \",\" or \"]\" in list")
		}
	}
	p.next() // ]
	return out, nil
}

// tableLiteral parses GRUPO(["F1", "F2"], [v1, v2], ...).
func (p *parser) tableLiteral() (*ast.TableLiteral, error) {
	if err := p.expectKeyword(lexer.KwGrupo); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("["); err != nil {
		return nil, err
	}
	table := &ast.TableLiteral{}
	seen := map[string]bool{}
	for !p.atSymbol("]") {
		t := p.peek()
		if t.Kind != lexer.STRING {
			return nil, p.errorf(t, "expected a field name string")
		}
		p.next()
		field := lexer.Unquote(t.Lexeme)
		if seen[field] {
			return nil, p.errorf(t, "duplicate field %q", field)
		}
		seen[field] = true
		table.Fields = append(table.Fields, field)
		if !p.acceptSymbol(",") && !p.atSymbol("]") {
			return nil, p.errorf(p.peek(), "expected \",\" or \"]\" in field list")
		}
	}
	p.next() // ]

	for p.acceptSymbol(",") {
		if p.atSymbol(")") {
			break
		}
		start := p.peek()
		row, err := p.listLiteral()
		if err != nil {
			return nil, err
		}
		if len(row) != len(table.Fields) {
			return nil, p.errorf(start, "row has %d values for %d fields", len(row), len(table.Fields))
		}
		table.Rows = append(table.Rows, row)
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return table, nil
}
