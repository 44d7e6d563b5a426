package ast

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgram() *Program {
	return &Program{
		Name:    "TESTE",
		Imports: []string{"zin_math"},
		Variables: []*VariableDeclaration{
			{Name: "x", Type: "inteiro", Kind: ScalarVar},
			{Name: "taxa", Type: "decimal", Kind: ScalarVar, Init: &FloatLit{Value: 7}},
			{Name: "numeros", Type: "lista", Kind: ListVar, List: []Literal{&IntLit{Value: 1}, &IntLit{Value: 2}, &TextLit{Value: "tres"}}},
			{Name: "pessoas", Type: "grupo", Kind: TableVar, Table: &TableLiteral{
				Fields: []string{"NOME", "IDADE"},
				Rows: [][]Literal{
					{&TextLit{Value: "ana"}, &IntLit{Value: 30}},
					{&TextLit{Value: "vitor"}, &IntLit{Value: 25}},
				},
			}},
		},
		Main: []Stmt{
			&Assign{Name: "x", Value: &BinaryOp{Left: &IntLit{Value: 10}, Op: "/", Right: &IntLit{Value: -3}}},
			&Write{Text: "x vale {x}"},
			&Ask{Prompt: "Nome?", Target: "x"},
			&If{
				Cond: &BinaryOp{Left: &VarRef{Name: "x"}, Op: ">", Right: &FloatLit{Value: 2.5}},
				Then: []Stmt{&Write{Text: "grande"}},
			},
			&If{
				Cond: &VarRef{Name: "x"},
				Then: []Stmt{&Write{Text: "sim"}},
				Else: []Stmt{},
			},
			&While{Cond: &BinaryOp{Left: &VarRef{Name: "x"}, Op: "<", Right: &IntLit{Value: 3}}, Body: []Stmt{
				&Assign{Name: "x", Value: &BinaryOp{Left: &VarRef{Name: "x"}, Op: "+", Right: &IntLit{Value: 1}}},
			}},
			&For{Var: "i", Start: &IntLit{Value: 5}, End: &IntLit{Value: 1}, Step: &IntLit{Value: -1}, Body: []Stmt{&Write{Text: "{i}"}}},
			&For{Var: "j", Start: &IntLit{Value: 1}, End: &IntLit{Value: 2}},
			&RepeatUntil{Body: []Stmt{&Write{Text: "uma vez"}}, Cond: &BinaryOp{Left: &IntLit{Value: 1}, Op: "==", Right: &IntLit{Value: 1}}},
			&ExecuteModule{Name: "CALC"},
			&ExecuteModule{Name: "CALC", Bare: true},
			&Import{Name: "zin_file"},
			&FileCreate{Name: &TextLit{Value: "saida"}, Ext: ".txt"},
			&FileWrite{Content: &TextLit{Value: "ola {x}"}, Path: &VarRef{Name: "arquivo"}},
			&FileRead{Path: &TextLit{Value: "saida.txt"}, Target: "x"},
			&FileRead{Path: &TextLit{Value: "saida.txt"}},
			&CallStmt{Call: &ModuleCall{Module: "zin_file", Function: "criar_arquivo", Args: []Expr{&TextLit{Value: "b.txt"}}}},
			&Assign{Name: "x", Value: &ModuleAttr{Module: "zin_math", Name: "pi"}},
			&Assign{Name: "x", Value: &PlainCall{Name: "dobro", Args: []Expr{&ListAccess{Name: "numeros", Index: &IntLit{Value: 2}}}}},
			&Assign{Name: "x", Value: &RecordAccess{Name: "pessoas", Index: &IntLit{Value: 1}, Field: "NOME"}},
			&CallStmt{Call: &PlainCall{Name: "vazio"}},
		},
		AfterMain: []Stmt{&Write{Text: "nunca"}},
		Modules: []*Module{
			{Name: "CALC", Functions: []*Function{
				{Name: "dobro", Params: []string{"n"}, Body: []Stmt{
					&Assign{Name: "n", Value: &BinaryOp{Left: &VarRef{Name: "n"}, Op: "*", Right: &IntLit{Value: 2}}},
				}, Return: &VarRef{Name: "n"}},
				{Name: "vazio", Return: &IntLit{Value: 0}},
			}},
			{Name: "SAIDA", Functions: []*Function{
				{Name: "mostrar", Body: []Stmt{&Write{Text: "{x}"}}, Return: &VarRef{Name: "x"}},
			}},
		},
		Execution: []string{MainBlock, "CALC"},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, f := range []Format{JSON, Msgpack, CBOR} {
		t.Run(string(f), func(t *testing.T) {
			want := sampleProgram()
			data, err := Encode(want, f)
			require.NoError(t, err)
			got, err := Decode(data, f)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// Encoding the decoded tree again is stable.
			again, err := Encode(got, f)
			require.NoError(t, err)
			if f != Msgpack {
				assert.Equal(t, data, again)
			}
		})
	}
}

func reversedModules() *Program {
	fn := func(n int64) []*Function {
		return []*Function{{Name: "f", Return: &IntLit{Value: n}}}
	}
	return &Program{
		Name:      "ORDEM",
		Main:      []Stmt{&Assign{Name: "r", Value: &PlainCall{Name: "f"}}},
		Modules:   []*Module{{Name: "ZETA", Functions: fn(1)}, {Name: "ALFA", Functions: fn(2)}, {Name: "MEIO", Functions: fn(3)}},
		Execution: []string{MainBlock},
	}
}

func moduleOrder(p *Program) []string {
	var out []string
	for _, m := range p.Modules {
		out = append(out, m.Name)
	}
	return out
}

func TestCodecsKeepModuleOrder(t *testing.T) {
	for _, f := range []Format{JSON, Msgpack, CBOR} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(reversedModules(), f)
			require.NoError(t, err)
			got, err := Decode(data, f)
			require.NoError(t, err)
			assert.Equal(t, []string{"ZETA", "ALFA", "MEIO"}, moduleOrder(got))
			m, _, ok := got.Function("f")
			require.True(t, ok)
			assert.Equal(t, "ZETA", m.Name)
		})
	}

	data, err := Encode(reversedModules(), JSON)
	require.NoError(t, err)
	text := string(data)
	zeta, alfa := strings.Index(text, `"ZETA": [`), strings.Index(text, `"ALFA": [`)
	require.True(t, zeta > 0 && alfa > 0)
	assert.Less(t, zeta, alfa)
}

func TestDecodeLegacyModuleOrder(t *testing.T) {
	src := `{"programa": {"nome": "VELHO", "implementacao": {"modulos": {
    "ZETA": [{"nome": "f", "parametros": [], "corpo": [], "retorno": 1}],
    "ALFA": [{"nome": "f", "parametros": [], "corpo": [], "retorno": 2}]
}}}}`
	p, err := Decode([]byte(src), JSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"ZETA", "ALFA"}, moduleOrder(p))

	doc := ToDoc(reversedModules())
	impl := doc["programa"].(map[string]any)["implementacao"].(map[string]any)
	delete(impl, "ordem_modulos")
	_, err = FromDoc(doc)
	var docErr *DocError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, "programa.implementacao.ordem_modulos", docErr.Path)

	impl["ordem_modulos"] = []any{"ZETA", "ZETA", "ALFA"}
	_, err = FromDoc(doc)
	require.True(t, errors.As(err, &docErr))
}

func TestJSONKeepsFloatsDistinct(t *testing.T) {
	data, err := Encode(sampleProgram(), JSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valor": 7.0`)
	assert.Contains(t, string(data), `"right": 2.5`)
	assert.Contains(t, string(data), `"right": -3`)
	assert.True(t, bytes.HasPrefix(data, []byte("{\n    \"programa\"")))
}

func TestYAMLIsDumpOnly(t *testing.T) {
	data, err := Encode(sampleProgram(), YAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "programa:")
	_, err = Decode(data, YAML)
	require.Error(t, err)
}

func TestDecodeLegacyDocument(t *testing.T) {
	src := `{
    "programa": {
        "nome": "VELHO",
        "variaveis": [
            {"nome": "numeros", "tipo": "lista", "valores": ["'a'", "12", 3]},
            {"nome": "pessoas", "tipo": "grupo", "valores": {"campos": ["\"NOME\""], "dados": [["\"ana\""]]}}
        ],
        "implementacao": {
            "principal": [
                {"arquivo_inicio": {"nome": "\"saida\"", "extensao": ".txt"}},
                {"escreva": "{numeros[1]}"}
            ],
            "execucoes_apos_principal": []
        },
        "execucao": {"modulos": ["PRINCIPAL"]}
    }
}`
	p, err := Decode([]byte(src), JSON)
	require.NoError(t, err)
	require.Len(t, p.Variables, 2)
	assert.Equal(t, []Literal{&TextLit{Value: "a"}, &IntLit{Value: 12}, &IntLit{Value: 3}}, p.Variables[0].List)
	assert.Equal(t, []string{"NOME"}, p.Variables[1].Table.Fields)
	assert.Equal(t, &TextLit{Value: "ana"}, p.Variables[1].Table.Rows[0][0])
	assert.Equal(t, &FileCreate{Name: &TextLit{Value: "saida"}, Ext: ".txt"}, p.Main[0])
	assert.Nil(t, p.Modules)
	assert.Equal(t, []string{MainBlock}, p.Execution)
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	_, err := Decode([]byte(`{"programa": {"nome": 3, "implementacao": {}}}`), JSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")

	_, err = Decode([]byte(`{"programa": {"nome": "X", "implementacao": {"principal": [{"desconhecido": 1}]}}}`), JSON)
	var docErr *DocError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, "programa.implementacao.principal[0]", docErr.Path)

	_, err = Decode([]byte(`{"programa": {"nome": "X", "variaveis": [{"nome": "g", "tipo": "grupo", "valores": {"campos": ["A", "B"], "dados": [[1]]}}], "implementacao": {}}}`), JSON)
	require.True(t, errors.As(err, &docErr))
	assert.Contains(t, docErr.Message, "row has 1 values for 2 fields")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CBOR")
	require.NoError(t, err)
	assert.Equal(t, CBOR, f)
	assert.Equal(t, ".cbor", f.Ext())
	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestFormatExpr(t *testing.T) {
	e := &BinaryOp{
		Left:  &BinaryOp{Left: &IntLit{Value: 1}, Op: "+", Right: &FloatLit{Value: 2}},
		Op:    "*",
		Right: &RecordAccess{Name: "p", Index: &VarRef{Name: "i"}, Field: "NOME"},
	}
	assert.Equal(t, "((1 + 2.0) * p[i].NOME)", FormatExpr(e))
	assert.Equal(t, `m.f("a", x)`, FormatExpr(&ModuleCall{Module: "m", Function: "f", Args: []Expr{&TextLit{Value: "a"}, &VarRef{Name: "x"}}}))
}

func TestDebugPrint(t *testing.T) {
	var buf bytes.Buffer
	sampleProgram().DebugPrint(&buf)
	out := buf.String()
	assert.Contains(t, out, "Program: TESTE")
	assert.Contains(t, out, "*** MODULO CALC")
	assert.Contains(t, out, "  funcao dobro(n)")
	assert.Contains(t, out, "PARA i = 5 ATE 1 PASSO -1 FACA")
}
