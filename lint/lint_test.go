package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/parser"
)

var builtins = []string{"zin_file", "zin_math"}

func program(header, main, modules string) string {
	return "INICIO PROGAMA T.\n" + header +
		"\nIMPLEMENTACAO PROGAMA T.\nPRINCIPAL.\n" + main +
		"\nFIM PRINCIPAL.\n" + modules +
		"\nEXECUCAO PROGAMA T.\nEXECUTAR PRINCIPAL.\n"
}

func check(t *testing.T, src string) []Diagnostic {
	t.Helper()
	prog, err := parser.ParseSource(src)
	require.NoError(t, err)
	return Check(prog, builtins)
}

func messages(ds []Diagnostic, sev Severity) []string {
	var out []string
	for _, d := range ds {
		if d.Severity == sev {
			out = append(out, d.Message)
		}
	}
	return out
}

const pessoas = `variavel numeros tipo lista = [1, 2, 3]
variavel pessoas tipo grupo = GRUPO(
    ["NOME", "IDADE"],
    ["joao", 15]
)
variavel r tipo texto`

const modulo = `MODULO M.
funcao altera(x)
    x = x + 1.
    PARA i = 1 ATE 3 FACA.
        escreva("{i}").
    FIM PARA.
retorne x.
FIM MODULO.`

func TestCleanProgram(t *testing.T) {
	ds := check(t, program("importe zin_math.\n"+pessoas+"\nvariavel n tipo inteiro = 0.", `
n = n + 1.
r = altera(n).
r = M.altera(2).
r = zin_math.raiz_quadrada(numeros[0]).
r = pessoas[0].NOME.
ARQUIVO-LEIA("a.txt" {conteudo}).
escreva("{n} {conteudo}").
EXECUTAR MODULO M.`, modulo))
	assert.Empty(t, ds)
	assert.False(t, HasErrors(ds))
}

func TestUndeclaredAssignment(t *testing.T) {
	ds := check(t, program("variavel nome tipo texto.", `
nomee = "a".
nomee = "b".
pergunte("idade?" {idade}).`, ""))
	errs := messages(ds, Error)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], `variable "nomee" assigned before being declared`)
	assert.Contains(t, errs[0], `did you mean "nome"`)
	assert.Contains(t, errs[1], `variable "idade" read before being declared`)
	assert.Equal(t, ast.MainBlock, ds[0].Where)
}

func TestLiteralTypeMismatch(t *testing.T) {
	ds := check(t, program(`variavel n tipo inteiro = 1.5.
variavel d tipo decimal = 2.
variavel t tipo texto = "123".`, `
n = "abc".
n = "12".
d = 3.
t = 4.`, ""))
	errs := messages(ds, Error)
	require.Len(t, errs, 3)
	assert.Equal(t, `incompatible initial value for "n": expected inteiro, found decimal`, errs[0])
	assert.Equal(t, `incompatible type for "n": expected inteiro, found texto`, errs[1])
	assert.Equal(t, `incompatible type for "t": expected texto, found inteiro`, errs[2])
	assert.Equal(t, "variaveis", ds[0].Where)
}

func TestUnknownNames(t *testing.T) {
	ds := check(t, program("importe zin_mat.\n"+pessoas, `
r = M.alterar(1).
r = X.f().
r = pessoas[0].NOMEE.
r = numeros[0].NOME.
r = alterra(1).
EXECUTAR MODULO N.`, modulo))
	errs := messages(ds, Error)
	require.Len(t, errs, 7)
	assert.Contains(t, errs[0], `import of unknown module "zin_mat" (did you mean "zin_math"?)`)
	assert.Contains(t, errs[1], `module "M" has no function "alterar" (did you mean "altera"?)`)
	assert.Contains(t, errs[2], `call to module "X" that is neither imported nor defined`)
	assert.Contains(t, errs[3], `group "pessoas" has no field "NOMEE" (did you mean "NOME"?)`)
	assert.Contains(t, errs[4], `field access on "numeros", which is declared lista`)
	assert.Contains(t, errs[5], `call to unknown function "alterra" (did you mean "altera"?)`)
	assert.Contains(t, errs[6], `unknown module "N"`)
}

func TestImportsInsideBlocks(t *testing.T) {
	ds := check(t, program("variavel r tipo decimal.", `
importe zin_math.
r = zin_math.pi.`, ""))
	assert.Empty(t, ds)

	ds = check(t, program("variavel r tipo decimal.", "r = zin_math.pi.", ""))
	assert.Equal(t, []string{`attribute of module "zin_math" that is not imported`}, messages(ds, Error))

	prog, err := parser.ParseSource(program("importe qualquer.", "", ""))
	require.NoError(t, err)
	assert.Empty(t, Check(prog, nil))
}

func TestIndexingScalarWarns(t *testing.T) {
	ds := check(t, program("variavel n tipo inteiro = 1.\nvariavel r tipo inteiro.", "r = n[0].", ""))
	assert.Equal(t, []string{`"n" is declared inteiro and cannot be indexed`}, messages(ds, Warning))
	assert.False(t, HasErrors(ds))
}

func TestRunDirectives(t *testing.T) {
	prog := &ast.Program{
		Name:      "T",
		Main:      []ast.Stmt{&ast.Write{Text: "main"}},
		AfterMain: []ast.Stmt{&ast.Write{Text: "nunca"}},
		Modules:   []*ast.Module{{Name: "SAUDACAO", Functions: []*ast.Function{{Name: "oi", Return: &ast.IntLit{}}}}},
		Execution: []string{"principal", "SAUDACAO", "SAUDACA"},
	}
	ds := Check(prog, builtins)
	require.Len(t, ds, 2)
	assert.Equal(t, "warning: PRINCIPAL: 1 statements after FIM PRINCIPAL are never run", ds[0].String())
	assert.Equal(t, `error: execucao: run directive names unknown module "SAUDACA" (did you mean "SAUDACAO"?)`, ds[1].String())

	prog.AfterMain = nil
	prog.Execution = nil
	ds = Check(prog, builtins)
	require.Len(t, ds, 1)
	assert.Equal(t, Warning, ds[0].Severity)
	assert.Equal(t, "no run directives; the program does nothing", ds[0].Message)
}
