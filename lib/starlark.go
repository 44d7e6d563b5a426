package lib

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/value"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// LoadStarlark executes a Starlark script and exposes its top-level globals
// as a capability module. Callables become functions; every other global
// becomes a constant. Names starting with an underscore stay private.
// src follows starlark.ExecFile: nil reads the file at path.
func LoadStarlark(name, path string, src any) (*Module, error) {
	thread := &starlark.Thread{
		Name:  name,
		Print: starlarkPrint(name),
	}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, path, src, nil)
	if err != nil {
		return nil, fmt.Errorf("loading module %s: %w", name, err)
	}
	m := &Module{
		ModuleName: name,
		Funcs:      make(map[string]value.Func),
		Consts:     make(map[string]value.Value),
	}
	for _, k := range globals.Keys() {
		if strings.HasPrefix(k, "_") {
			continue
		}
		v := globals[k]
		if fn, ok := v.(starlark.Callable); ok {
			m.Funcs[k] = starlarkFunc(name, fn)
			continue
		}
		cv, err := fromStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("module %s constant %s: %w", name, k, err)
		}
		m.Consts[k] = cv
	}
	log.Debug().Str("module", name).Int("functions", len(m.Funcs)).Int("constants", len(m.Consts)).Msg("loaded starlark module")
	return m, nil
}

func starlarkPrint(module string) func(*starlark.Thread, string) {
	return func(_ *starlark.Thread, msg string) {
		log.Info().Str("module", module).Msg(msg)
	}
}

func starlarkFunc(module string, fn starlark.Callable) value.Func {
	return func(args []value.Value) (value.Value, error) {
		tuple := make(starlark.Tuple, len(args))
		for i, a := range args {
			v, err := toStarlark(a)
			if err != nil {
				return nil, fmt.Errorf("%s() argument %d: %w", fn.Name(), i+1, err)
			}
			tuple[i] = v
		}
		thread := &starlark.Thread{
			Name:  module + "." + fn.Name(),
			Print: starlarkPrint(module),
		}
		out, err := starlark.Call(thread, fn, tuple, nil)
		if err != nil {
			return nil, err
		}
		return fromStarlark(out)
	}
}

func toStarlark(v value.Value) (starlark.Value, error) {
	switch val := v.(type) {
	case value.IntValue:
		return starlark.MakeInt64(int64(val)), nil
	case value.FloatValue:
		return starlark.Float(val), nil
	case value.StrValue:
		return starlark.String(val), nil
	case value.BoolValue:
		return starlark.Bool(val), nil
	case value.NullValue:
		return starlark.None, nil
	case value.ListValue:
		elems := make([]starlark.Value, len(val))
		for i, e := range val {
			sv, err := toStarlark(e)
			if err != nil {
				return nil, err
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case *value.TableValue:
		fields := make([]starlark.Value, len(val.Fields))
		for i, f := range val.Fields {
			fields[i] = starlark.String(f)
		}
		rows := make([]starlark.Value, len(val.Rows))
		for i, r := range val.Rows {
			sr, err := toStarlark(value.ListValue(r))
			if err != nil {
				return nil, err
			}
			rows[i] = sr
		}
		d := starlark.NewDict(2)
		if err := d.SetKey(starlark.String("campos"), starlark.NewList(fields)); err != nil {
			return nil, err
		}
		if err := d.SetKey(starlark.String("dados"), starlark.NewList(rows)); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("cannot pass %s to starlark", value.TypeName(v))
}

func fromStarlark(v starlark.Value) (value.Value, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return value.Null, nil
	case starlark.Bool:
		return value.BoolValue(val), nil
	case starlark.Int:
		if i, ok := val.Int64(); ok {
			return value.IntValue(i), nil
		}
		return value.FloatValue(val.Float()), nil
	case starlark.Float:
		return value.FloatValue(val), nil
	case starlark.String:
		return value.StrValue(val), nil
	case *starlark.List, starlark.Tuple:
		seq := val.(starlark.Indexable)
		out := make(value.ListValue, seq.Len())
		for i := range out {
			e, err := fromStarlark(seq.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported starlark value of type %s", v.Type())
}
