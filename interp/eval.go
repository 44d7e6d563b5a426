package interp

import (
	"fmt"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lib"
	"github.com/zin-lang/zin/value"
)

func (in *Interpreter) eval(e ast.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return value.IntValue(e.Value), nil
	case *ast.FloatLit:
		return value.FloatValue(e.Value), nil
	case *ast.TextLit:
		return value.StrValue(e.Value), nil
	case *ast.VarRef:
		if v, ok := in.frame.Lookup(e.Name); ok {
			return v, nil
		}
		if e.Name == "null" {
			return value.Null, nil
		}
		// Unbound names stand for their own text.
		return value.StrValue(e.Name), nil
	case *ast.BinaryOp:
		l, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		v, err := binaryOp(e.Op, l, r)
		if err != nil {
			return nil, wrapErr("operador", err, "%s", ast.FormatExpr(e))
		}
		return v, nil
	case *ast.ModuleCall:
		return in.moduleCall(e)
	case *ast.ModuleAttr:
		return in.moduleAttr(e)
	case *ast.PlainCall:
		_, fn, ok := in.program.Function(e.Name)
		if !ok {
			return nil, runtimeErr("func_call", "unknown function %q%s", e.Name, didYouMean(lib.Suggest(e.Name, in.functionNames())))
		}
		args, err := in.evalArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return in.callFunction(fn, args)
	case *ast.ListAccess:
		idx, err := in.eval(e.Index)
		if err != nil {
			return nil, err
		}
		return in.element(e.Name, idx)
	case *ast.RecordAccess:
		idx, err := in.eval(e.Index)
		if err != nil {
			return nil, err
		}
		return in.field(e.Name, idx, e.Field)
	case nil:
		return value.Null, nil
	}
	return nil, runtimeErr("expressao", "malformed expression %T", e)
}

func (in *Interpreter) evalArgs(exprs []ast.Expr) ([]value.Value, error) {
	args := make([]value.Value, 0, len(exprs))
	for _, a := range exprs {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// moduleCall resolves m.f(args): an imported capability bound in the
// context first, then a module of the program.
func (in *Interpreter) moduleCall(e *ast.ModuleCall) (value.Value, error) {
	args, err := in.evalArgs(e.Args)
	if err != nil {
		return nil, err
	}
	if v, ok := in.frame.Lookup(e.Module); ok {
		mv, ok := v.(value.ModuleValue)
		if !ok {
			return nil, runtimeErr("chamada_modulo", "%q is a %s, not a module", e.Module, value.TypeName(v))
		}
		out, err := lib.Call(mv.Capability, e.Function, args)
		if err != nil {
			return nil, wrapErr("chamada_modulo", err, "%s.%s", e.Module, e.Function)
		}
		return out, nil
	}
	if m, ok := in.program.Module(e.Module); ok {
		fn, ok := m.Function(e.Function)
		if !ok {
			names := make([]string, len(m.Functions))
			for i, f := range m.Functions {
				names[i] = f.Name
			}
			return nil, runtimeErr("chamada_modulo", "module %q has no function %q%s", e.Module, e.Function, didYouMean(lib.Suggest(e.Function, names)))
		}
		return in.callFunction(fn, args)
	}
	return nil, runtimeErr("chamada_modulo", "unknown module %q%s", e.Module, in.suggestModule(e.Module))
}

func (in *Interpreter) moduleAttr(e *ast.ModuleAttr) (value.Value, error) {
	v, ok := in.frame.Lookup(e.Module)
	if !ok {
		return nil, runtimeErr("acesso_modulo", "unknown module %q%s", e.Module, in.suggestModule(e.Module))
	}
	mv, ok := v.(value.ModuleValue)
	if !ok {
		return nil, runtimeErr("acesso_modulo", "%q is a %s, not a module", e.Module, value.TypeName(v))
	}
	if c, ok := mv.Capability.Constant(e.Name); ok {
		return c, nil
	}
	if _, ok := mv.Capability.Function(e.Name); ok {
		return nil, runtimeErr("acesso_modulo", "%s.%s is a function and must be called", e.Module, e.Name)
	}
	return nil, wrapErr("acesso_modulo", &lib.NotFoundError{
		Kind:       "attribute",
		Module:     e.Module,
		Name:       e.Name,
		Suggestion: lib.Suggest(e.Name, mv.Capability.Names()),
	}, "%s.%s", e.Module, e.Name)
}

// element implements name[idx]. Indexing a table yields its row as a list.
func (in *Interpreter) element(name string, idx value.Value) (value.Value, error) {
	coll, ok := in.frame.Lookup(name)
	if !ok {
		return nil, runtimeErr("acesso_lista", "undeclared collection %q", name)
	}
	i, err := toIndex(idx)
	if err != nil {
		return nil, wrapErr("acesso_lista", err, "%s[%s]", name, value.Format(idx))
	}
	switch c := coll.(type) {
	case value.ListValue:
		if i >= len(c) {
			return nil, runtimeErr("acesso_lista", "index %d out of range for %s with %d elements", i, name, len(c))
		}
		return c[i], nil
	case *value.TableValue:
		if i >= len(c.Rows) {
			return nil, runtimeErr("acesso_lista", "index %d out of range for %s with %d rows", i, name, len(c.Rows))
		}
		return value.ListValue(c.Rows[i]).Clone(), nil
	}
	return nil, runtimeErr("acesso_lista", "%s is a %s and cannot be indexed", name, value.TypeName(coll))
}

// field implements name[idx].field on a record table.
func (in *Interpreter) field(name string, idx value.Value, field string) (value.Value, error) {
	coll, ok := in.frame.Lookup(name)
	if !ok {
		return nil, runtimeErr("acesso_grupo", "undeclared group %q", name)
	}
	t, ok := coll.(*value.TableValue)
	if !ok {
		return nil, runtimeErr("acesso_grupo", "%s is a %s, not a group", name, value.TypeName(coll))
	}
	i, err := toIndex(idx)
	if err != nil {
		return nil, wrapErr("acesso_grupo", err, "%s[%s].%s", name, value.Format(idx), field)
	}
	if i >= len(t.Rows) {
		return nil, runtimeErr("acesso_grupo", "index %d out of range for %s with %d rows", i, name, len(t.Rows))
	}
	col := t.FieldIndex(field)
	if col < 0 {
		return nil, runtimeErr("acesso_grupo", "group %s has no field %q%s", name, field, didYouMean(lib.Suggest(field, t.Fields)))
	}
	return t.Rows[i][col], nil
}

func toIndex(v value.Value) (int, error) {
	switch i := coerceDigits(v).(type) {
	case value.IntValue:
		if i < 0 {
			return 0, fmt.Errorf("negative index %d", i)
		}
		return int(i), nil
	}
	return 0, fmt.Errorf("index must be an integer, got %s", value.TypeName(v))
}

func (in *Interpreter) functionNames() []string {
	var out []string
	for _, m := range in.program.Modules {
		for _, f := range m.Functions {
			out = append(out, f.Name)
		}
	}
	return out
}

func (in *Interpreter) suggestModule(name string) string {
	var names []string
	for _, m := range in.program.Modules {
		names = append(names, m.Name)
	}
	for _, k := range in.frame.Names() {
		if _, ok := in.frame.Variables[k].(value.ModuleValue); ok {
			names = append(names, k)
		}
	}
	return didYouMean(lib.Suggest(name, names))
}

func didYouMean(s string) string {
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", s)
}
