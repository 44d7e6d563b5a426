package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zin-lang/zin/ast"
)

const modulesProgram = `
INICIO PROGAMA TESTE_MODULOS.
importe zin_math.
variavel nome tipo texto
variavel idade tipo inteiro
variavel taxa tipo decimal = 1.5.
variavel lista_numeros tipo lista = [10, "20", 'trinta']
variavel grupo_pessoas tipo grupo = GRUPO(
    ["NOME", "FUNCAO", "IDADE"],
    ["joao", "administrador", 15],
    ["vitor", "supervisor", 16]
)

IMPLEMENTACAO PROGAMA TESTE_MODULOS.
PRINCIPAL.
    pergunte("Qual o seu nome?" {nome}).
    escreva("Nome da segunda pessoa: {grupo_pessoas[1].NOME}").
    resultado = 10 / zin_math.raiz_quadrada(49).
    EXECUTAR MODULO SAUDACAO.
FIM PRINCIPAL.

escreva("entre blocos").

MODULO SAUDACAO.
funcao cumprimenta(nome, idade)
    escreva("Olá {nome}!").
retorne null.
funcao despede()
retorne 0.
FIM MODULO.

EXECUCAO PROGAMA TESTE_MODULOS.
EXECUTAR PRINCIPAL.
EXECUTAR SAUDACAO.

FIM PROGAMA TESTE_MODULOS.
`

func wrap(decls, main string) string {
	return "INICIO PROGAMA T.\n" + decls +
		"\nIMPLEMENTACAO PROGAMA T.\nPRINCIPAL.\n" + main +
		"\nFIM PRINCIPAL.\nEXECUCAO PROGAMA T.\nEXECUTAR PRINCIPAL.\n"
}

func parseMain(t *testing.T, main string) []ast.Stmt {
	t.Helper()
	prog, err := ParseSource(wrap("", main))
	require.NoError(t, err)
	return prog.Main
}

func TestParseProgramStructure(t *testing.T) {
	prog, err := ParseSource(modulesProgram)
	require.NoError(t, err)

	assert.Equal(t, "TESTE_MODULOS", prog.Name)
	assert.Equal(t, []string{"zin_math"}, prog.Imports)
	require.Len(t, prog.Variables, 5)
	assert.Equal(t, &ast.VariableDeclaration{Name: "nome", Type: "texto", Kind: ast.ScalarVar}, prog.Variables[0])
	assert.Equal(t, &ast.FloatLit{Value: 1.5}, prog.Variables[2].Init)
	assert.Equal(t, []ast.Literal{&ast.IntLit{Value: 10}, &ast.IntLit{Value: 20}, &ast.TextLit{Value: "trinta"}}, prog.Variables[3].List)

	table := prog.Variables[4].Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"NOME", "FUNCAO", "IDADE"}, table.Fields)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, &ast.TextLit{Value: "vitor"}, table.Rows[1][0])
	assert.Equal(t, &ast.IntLit{Value: 16}, table.Rows[1][2])

	require.Len(t, prog.Main, 4)
	assert.Equal(t, &ast.Ask{Prompt: "Qual o seu nome?", Target: "nome"}, prog.Main[0])
	assert.Equal(t, &ast.Write{Text: "Nome da segunda pessoa: {grupo_pessoas[1].NOME}"}, prog.Main[1])
	assert.Equal(t, &ast.Assign{Name: "resultado", Value: &ast.BinaryOp{
		Left:  &ast.IntLit{Value: 10},
		Op:    "/",
		Right: &ast.ModuleCall{Module: "zin_math", Function: "raiz_quadrada", Args: []ast.Expr{&ast.IntLit{Value: 49}}},
	}}, prog.Main[2])
	assert.Equal(t, &ast.ExecuteModule{Name: "SAUDACAO"}, prog.Main[3])

	assert.Equal(t, []ast.Stmt{&ast.Write{Text: "entre blocos"}}, prog.AfterMain)

	require.Len(t, prog.Modules, 1)
	m := prog.Modules[0]
	assert.Equal(t, "SAUDACAO", m.Name)
	require.Len(t, m.Functions, 2)
	assert.Equal(t, []string{"nome", "idade"}, m.Functions[0].Params)
	assert.Equal(t, &ast.VarRef{Name: "null"}, m.Functions[0].Return)
	assert.Nil(t, m.Functions[1].Params)
	assert.Nil(t, m.Functions[1].Body)

	assert.Equal(t, []string{ast.MainBlock, "SAUDACAO"}, prog.Execution)
}

func TestParseIsStable(t *testing.T) {
	first, err := ParseSource(modulesProgram)
	require.NoError(t, err)
	second, err := ParseSource(modulesProgram)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated parse differs (-first +second):\n%s", diff)
	}

	a, err := ast.Encode(first, ast.JSON)
	require.NoError(t, err)
	decoded, err := ast.Decode(a, ast.JSON)
	require.NoError(t, err)
	if diff := cmp.Diff(first, decoded); diff != "" {
		t.Fatalf("decoded tree differs (-parsed +decoded):\n%s", diff)
	}
	b, err := ast.Encode(decoded, ast.JSON)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExpressionsHaveNoPrecedence(t *testing.T) {
	stmts := parseMain(t, "x = 1 + 2 * 3.")
	assert.Equal(t, &ast.Assign{Name: "x", Value: &ast.BinaryOp{
		Left:  &ast.BinaryOp{Left: &ast.IntLit{Value: 1}, Op: "+", Right: &ast.IntLit{Value: 2}},
		Op:    "*",
		Right: &ast.IntLit{Value: 3},
	}}, stmts[0])

	stmts = parseMain(t, "x = 1 + (2 * 3).")
	assert.Equal(t, &ast.BinaryOp{
		Left:  &ast.IntLit{Value: 1},
		Op:    "+",
		Right: &ast.BinaryOp{Left: &ast.IntLit{Value: 2}, Op: "*", Right: &ast.IntLit{Value: 3}},
	}, stmts[0].(*ast.Assign).Value)
}

func TestExpressionTerms(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Expr
	}{
		{"x = 10 / -3.", &ast.BinaryOp{Left: &ast.IntLit{Value: 10}, Op: "/", Right: &ast.IntLit{Value: -3}}},
		{"x = 2.5.", &ast.FloatLit{Value: 2.5}},
		{`x = "ola".`, &ast.TextLit{Value: "ola"}},
		{"x = zin_math.pi.", &ast.ModuleAttr{Module: "zin_math", Name: "pi"}},
		{"x = dobro(2, y).", &ast.PlainCall{Name: "dobro", Args: []ast.Expr{&ast.IntLit{Value: 2}, &ast.VarRef{Name: "y"}}}},
		{"x = vazio().", &ast.PlainCall{Name: "vazio"}},
		{"x = numeros[i + 1].", &ast.ListAccess{Name: "numeros", Index: &ast.BinaryOp{Left: &ast.VarRef{Name: "i"}, Op: "+", Right: &ast.IntLit{Value: 1}}}},
		{"x = pessoas[1].NOME.", &ast.RecordAccess{Name: "pessoas", Index: &ast.IntLit{Value: 1}, Field: "NOME"}},
		{"x = numeros[2].", &ast.ListAccess{Name: "numeros", Index: &ast.IntLit{Value: 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			stmts := parseMain(t, tc.src)
			require.Len(t, stmts, 1)
			assert.Equal(t, tc.want, stmts[0].(*ast.Assign).Value)
		})
	}
}

func TestPeriodEndsStatementUnlessFlush(t *testing.T) {
	stmts := parseMain(t, "x = y.\nz = w. v = 1.")
	require.Len(t, stmts, 3)
	assert.Equal(t, &ast.VarRef{Name: "y"}, stmts[0].(*ast.Assign).Value)
	assert.Equal(t, &ast.VarRef{Name: "w"}, stmts[1].(*ast.Assign).Value)
}

func TestParseControlFlow(t *testing.T) {
	stmts := parseMain(t, `
SE x > 1 ENTAO.
    escreva("a").
SENAO.
FIM SE.
SE x ENTAO.
FIM SE.
ENQUANTO i < 3 FAÇA.
    i = i + 1.
FIM ENQUANTO.
PARA i = 5 ATE 1 PASSO -1 FACA.
    SE i == 3 ENTAO.
        escreva("meio").
    FIM SE.
    escreva("{i}").
FIM PARA.
REPITA.
    escreva("x").
ATE (1==1).
REPITA.
    escreva("y").
ATE 1 == 1
escreva("depois").
`)
	require.Len(t, stmts, 7)

	withElse := stmts[0].(*ast.If)
	assert.Equal(t, []ast.Stmt{&ast.Write{Text: "a"}}, withElse.Then)
	assert.NotNil(t, withElse.Else)
	assert.Empty(t, withElse.Else)
	assert.Nil(t, stmts[1].(*ast.If).Else)

	loop := stmts[3].(*ast.For)
	assert.Equal(t, "i", loop.Var)
	assert.Equal(t, &ast.IntLit{Value: -1}, loop.Step)
	require.Len(t, loop.Body, 2)

	rep := stmts[4].(*ast.RepeatUntil)
	assert.Equal(t, &ast.BinaryOp{Left: &ast.IntLit{Value: 1}, Op: "==", Right: &ast.IntLit{Value: 1}}, rep.Cond)
	assert.IsType(t, &ast.RepeatUntil{}, stmts[5])
	assert.Equal(t, &ast.Write{Text: "depois"}, stmts[6])
}

func TestParseCommands(t *testing.T) {
	stmts := parseMain(t, `
importe zin_file.
EXECUTAR MODULO A.
EXECUTAR B.
ARQUIVO-INICIO("saida", .txt).
ARQUIVO-INICIO("outro", ".csv").
ARQUIVO-INICIO(nome).
ARQUIVO-ESCREVA("ola {x}", saida.txt).
ARQUIVO-ESCREVA(conteudo, caminho).
ARQUIVO-LEIA("saida.txt").
ARQUIVO-LEIA(saida.txt {texto}).
zin_file.criar_arquivo("b.txt").
limpar().
`)
	want := []ast.Stmt{
		&ast.Import{Name: "zin_file"},
		&ast.ExecuteModule{Name: "A"},
		&ast.ExecuteModule{Name: "B", Bare: true},
		&ast.FileCreate{Name: &ast.TextLit{Value: "saida"}, Ext: ".txt"},
		&ast.FileCreate{Name: &ast.TextLit{Value: "outro"}, Ext: ".csv"},
		&ast.FileCreate{Name: &ast.VarRef{Name: "nome"}},
		&ast.FileWrite{Content: &ast.TextLit{Value: "ola {x}"}, Path: &ast.TextLit{Value: "saida.txt"}},
		&ast.FileWrite{Content: &ast.VarRef{Name: "conteudo"}, Path: &ast.VarRef{Name: "caminho"}},
		&ast.FileRead{Path: &ast.TextLit{Value: "saida.txt"}},
		&ast.FileRead{Path: &ast.TextLit{Value: "saida.txt"}, Target: "texto"},
		&ast.CallStmt{Call: &ast.ModuleCall{Module: "zin_file", Function: "criar_arquivo", Args: []ast.Expr{&ast.TextLit{Value: "b.txt"}}}},
		&ast.CallStmt{Call: &ast.PlainCall{Name: "limpar"}},
	}
	if diff := cmp.Diff(want, stmts); diff != "" {
		t.Fatalf("statements differ (-want +got):\n%s", diff)
	}
}

func TestParseEnglishAliases(t *testing.T) {
	src := `
begin program HELLO.
var n type inteiro
implementation program HELLO.
main.
    for i = 1 to 3 do.
        write("{i}").
    end for.
    if n == null then.
        write("vazio").
    else.
        run module GREET.
    end if.
    repeat.
        n = 1.
    until n == 1.
end main.
module GREET.
function hi()
    write("hi").
return 0.
end module.
execution program HELLO.
run main.
run GREET.
end program HELLO.
`
	prog, err := ParseSource(src)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", prog.Name)
	require.Len(t, prog.Main, 3)
	assert.IsType(t, &ast.For{}, prog.Main[0])
	assert.Equal(t, []string{ast.MainBlock, "GREET"}, prog.Execution)
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
		line int
	}{
		{"missing period", wrap("", "x = 1\ny = 2."), `expected "." after assignment`, 6},
		{"name mismatch", "INICIO PROGAMA A.\nIMPLEMENTACAO PROGAMA B.\n", `expected program name "A"`, 2},
		{"duplicate parameter", wrap("", "FIM PRINCIPAL.\nMODULO M.\nfuncao f(a, a)\nretorne a.\nFIM MODULO.\nPRINCIPAL."), `duplicate parameter "a"`, 7},
		{"row arity", wrap(`variavel g tipo grupo = GRUPO(["A", "B"], [1])`, ""), "row has 1 values for 2 fields", 2},
		{"bad list value", wrap(`variavel l tipo lista = [x]`, ""), "expected a number or a string", 2},
		{"unknown statement", wrap("", "SENAO."), "expected a statement", 5},
		{"assignment without value", wrap("", "x = ."), "expected an expression", 5},
		{"bare identifier", wrap("", "x."), `expected "=" after x`, 5},
		{"missing end", "INICIO PROGAMA A.\nIMPLEMENTACAO PROGAMA A.\nPRINCIPAL.\nx = 1.\n", "expected a statement", 5},
		{"trailing tokens", wrap("", "") + "x = 1.", "expected end of program", 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSource(tc.src)
			require.Error(t, err)
			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr), "got %v", err)
			assert.Contains(t, synErr.Message, tc.msg)
			assert.Equal(t, tc.line, synErr.Token.Pos.Line, "error: %v", err)
		})
	}
}

func TestEmptyModuleIsRejected(t *testing.T) {
	src := "INICIO PROGAMA A.\nIMPLEMENTACAO PROGAMA A.\nPRINCIPAL.\nFIM PRINCIPAL.\nMODULO M.\nFIM MODULO.\nEXECUCAO PROGAMA A.\n"
	_, err := ParseSource(src)
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Error(), "module M has no functions")
}

func TestParseWithoutEOFToken(t *testing.T) {
	_, err := Parse(nil)
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Contains(t, synErr.Error(), "end of input")
}
