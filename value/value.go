// Package value defines the runtime values of the Zin interpreter.
package value

import (
	"github.com/zin-lang/zin/ast"
)

// Value is a tagged union over the runtime types. Each variant is a distinct
// Go type; switch on the concrete type to dispatch.
type Value interface {
	isValue()
	AsBool() bool
	Clone() Value
}

type IntValue int64

func (IntValue) isValue() {}
func (i IntValue) AsBool() bool { return i != 0 }
func (i IntValue) Clone() Value { return i }

type FloatValue float64

func (FloatValue) isValue() {}
func (f FloatValue) AsBool() bool { return f != 0 }
func (f FloatValue) Clone() Value { return f }

type StrValue string

func (StrValue) isValue() {}
func (s StrValue) AsBool() bool { return s != "" }
func (s StrValue) Clone() Value { return s }

type BoolValue bool

var (
	True  = BoolValue(true)
	False = BoolValue(false)
)

func (BoolValue) isValue() {}
func (b BoolValue) AsBool() bool { return bool(b) }
func (b BoolValue) Clone() Value { return b }

type ListValue []Value

func (ListValue) isValue() {}
func (l ListValue) AsBool() bool { return len(l) != 0 }
func (l ListValue) Clone() Value {
	if l == nil {
		return ListValue(nil)
	}
	out := make(ListValue, len(l))
	for i, v := range l {
		out[i] = v.Clone()
	}
	return out
}

// TableValue is a record table: ordered field names and positional rows.
// Every row has exactly one value per field.
type TableValue struct {
	Fields []string
	Rows   [][]Value
}

func (*TableValue) isValue() {}
func (t *TableValue) AsBool() bool { return len(t.Rows) != 0 }
func (t *TableValue) Clone() Value {
	out := &TableValue{Fields: append([]string(nil), t.Fields...)}
	for _, r := range t.Rows {
		row := make([]Value, len(r))
		for i, v := range r {
			row[i] = v.Clone()
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// FieldIndex returns the position of a field, or -1.
func (t *TableValue) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// ModuleValue is a handle on a capability module bound into the context.
type ModuleValue struct {
	Capability Capability
}

func (ModuleValue) isValue() {}
func (ModuleValue) AsBool() bool { return true }
func (m ModuleValue) Clone() Value { return m }

type NullValue struct{}

// Null is the value of declared but unassigned variables.
var Null = NullValue{}

func (NullValue) isValue() {}
func (NullValue) AsBool() bool { return false }
func (NullValue) Clone() Value { return Null }

// Func is a native function exposed by a capability module.
type Func func(args []Value) (Value, error)

// Capability is a named table of native functions and constants.
type Capability interface {
	Name() string
	Function(name string) (Func, bool)
	Constant(name string) (Value, bool)
	// Names lists every function and constant name, for suggestions.
	Names() []string
}

// FromLiteral converts a tree literal into a runtime value.
func FromLiteral(l ast.Literal) Value {
	switch l := l.(type) {
	case *ast.IntLit:
		return IntValue(l.Value)
	case *ast.FloatLit:
		return FloatValue(l.Value)
	case *ast.TextLit:
		return StrValue(l.Value)
	}
	return Null
}

// FromDeclaration builds the initial value of a declared variable: scalars
// start as Null unless initialised, lists and tables hold their literals.
func FromDeclaration(d *ast.VariableDeclaration) Value {
	switch d.Kind {
	case ast.ListVar:
		out := make(ListValue, 0, len(d.List))
		for _, l := range d.List {
			out = append(out, FromLiteral(l))
		}
		return out
	case ast.TableVar:
		t := &TableValue{}
		if d.Table != nil {
			t.Fields = append(t.Fields, d.Table.Fields...)
			for _, r := range d.Table.Rows {
				row := make([]Value, len(r))
				for i, l := range r {
					row[i] = FromLiteral(l)
				}
				t.Rows = append(t.Rows, row)
			}
		}
		return t
	}
	if d.Init != nil {
		return FromLiteral(d.Init)
	}
	return Null
}

// TypeName names the type of v using the language's type names.
func TypeName(v Value) string {
	switch v.(type) {
	case IntValue:
		return "inteiro"
	case FloatValue:
		return "decimal"
	case StrValue:
		return "texto"
	case BoolValue:
		return "booleano"
	case ListValue:
		return "lista"
	case *TableValue:
		return "grupo"
	case ModuleValue:
		return "modulo"
	case NullValue:
		return "null"
	}
	return "unknown"
}

// Equal compares two values. Integers and floats compare numerically;
// other kinds must match exactly.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return av == bv
		case FloatValue:
			return float64(av) == float64(bv)
		}
		return false
	case FloatValue:
		switch bv := b.(type) {
		case IntValue:
			return float64(av) == float64(bv)
		case FloatValue:
			return av == bv
		}
		return false
	case ListValue:
		bv, ok := b.(ListValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *TableValue:
		bv, ok := b.(*TableValue)
		if !ok || len(av.Fields) != len(bv.Fields) || len(av.Rows) != len(bv.Rows) {
			return false
		}
		for i := range av.Fields {
			if av.Fields[i] != bv.Fields[i] {
				return false
			}
		}
		for i := range av.Rows {
			if !Equal(ListValue(av.Rows[i]), ListValue(bv.Rows[i])) {
				return false
			}
		}
		return true
	case ModuleValue:
		bv, ok := b.(ModuleValue)
		return ok && av.Capability.Name() == bv.Capability.Name()
	}
	return a == b
}
