package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zin-lang/zin/ast"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{IntValue(-4), "-4"},
		{FloatValue(7), "7.0"},
		{FloatValue(2.5), "2.5"},
		{FloatValue(1e20), "1e+20"},
		{StrValue("olá"), "olá"},
		{True, "true"},
		{False, "false"},
		{Null, "null"},
		{ListValue{IntValue(1), StrValue("a"), FloatValue(0.5)}, "[1, 'a', 0.5]"},
		{ListValue{}, "[]"},
		{&TableValue{Fields: []string{"NOME"}, Rows: [][]Value{{StrValue("ana")}}}, "{'campos': ['NOME'], 'dados': [['ana']]}"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in))
		})
	}
}

func TestAsBool(t *testing.T) {
	assert.False(t, Null.AsBool())
	assert.False(t, IntValue(0).AsBool())
	assert.True(t, IntValue(-1).AsBool())
	assert.False(t, StrValue("").AsBool())
	assert.True(t, StrValue("0").AsBool())
	assert.False(t, ListValue(nil).AsBool())
	assert.True(t, (&TableValue{Rows: [][]Value{{}}}).AsBool())
}

func TestCloneIsDeep(t *testing.T) {
	orig := &TableValue{
		Fields: []string{"A"},
		Rows:   [][]Value{{ListValue{IntValue(1)}}},
	}
	cp := orig.Clone().(*TableValue)
	cp.Rows[0][0].(ListValue)[0] = IntValue(99)
	cp.Fields[0] = "B"
	assert.Equal(t, IntValue(1), orig.Rows[0][0].(ListValue)[0])
	assert.Equal(t, "A", orig.Fields[0])
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(IntValue(2), FloatValue(2)))
	assert.True(t, Equal(StrValue("a"), StrValue("a")))
	assert.False(t, Equal(StrValue("1"), IntValue(1)))
	assert.True(t, Equal(Null, Null))
	assert.False(t, Equal(Null, IntValue(0)))
	assert.True(t, Equal(ListValue{IntValue(1), StrValue("x")}, ListValue{FloatValue(1), StrValue("x")}))
	assert.False(t, Equal(ListValue{IntValue(1)}, ListValue{IntValue(1), IntValue(2)}))
}

func TestFromDeclaration(t *testing.T) {
	assert.Equal(t, Null, FromDeclaration(&ast.VariableDeclaration{Name: "x", Type: "inteiro"}))
	assert.Equal(t, FloatValue(1.5), FromDeclaration(&ast.VariableDeclaration{Name: "x", Type: "decimal", Init: &ast.FloatLit{Value: 1.5}}))

	list := FromDeclaration(&ast.VariableDeclaration{Kind: ast.ListVar, List: []ast.Literal{&ast.IntLit{Value: 1}, &ast.TextLit{Value: "b"}}})
	assert.Equal(t, ListValue{IntValue(1), StrValue("b")}, list)
	assert.Equal(t, ListValue{}, FromDeclaration(&ast.VariableDeclaration{Kind: ast.ListVar}))

	table := FromDeclaration(&ast.VariableDeclaration{Kind: ast.TableVar, Table: &ast.TableLiteral{
		Fields: []string{"NOME", "IDADE"},
		Rows:   [][]ast.Literal{{&ast.TextLit{Value: "vitor"}, &ast.IntLit{Value: 16}}},
	}})
	tv, ok := table.(*TableValue)
	require.True(t, ok)
	assert.Equal(t, 1, tv.FieldIndex("IDADE"))
	assert.Equal(t, -1, tv.FieldIndex("FUNCAO"))
	assert.Equal(t, StrValue("vitor"), tv.Rows[0][0])
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "inteiro", TypeName(IntValue(1)))
	assert.Equal(t, "grupo", TypeName(&TableValue{}))
	assert.Equal(t, "null", TypeName(Null))
}
