package interp

import (
	"fmt"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/value"
)

func (in *Interpreter) execModule(m *ast.Module) error {
	in.log.Trace().Str("module", m.Name).Int("functions", len(m.Functions)).Msg("run module")
	for _, fn := range m.Functions {
		if _, err := in.callFunction(fn, nil); err != nil {
			return err
		}
	}
	return nil
}

// callFunction runs fn on a copy of the current context. The current frame
// is saved on the stack and restored when the call returns, whether or not
// it fails, so nothing the callee writes is visible afterwards.
func (in *Interpreter) callFunction(fn *ast.Function, args []value.Value) (value.Value, error) {
	if len(args) > len(fn.Params) {
		return nil, runtimeErr("funcao", "%s() takes %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(in.stack) >= in.maxCallDepth {
		return nil, runtimeErr("funcao", "call depth limit %d exceeded calling %s()", in.maxCallDepth, fn.Name)
	}

	local := in.frame.Clone()
	local.Function = fn.Name
	for i, p := range fn.Params {
		switch {
		case i < len(args):
			local.StoreVar(p, args[i])
		case !local.Has(p):
			local.StoreVar(p, value.Null)
		}
	}

	in.stack.Append(in.frame)
	in.frame = local
	defer func() {
		in.frame = in.stack.PopStack()
	}()

	in.log.Trace().Str("function", fn.Name).Int("depth", len(in.stack)).Int("args", len(args)).Msg("call")
	if in.debug != nil {
		fmt.Fprintf(in.debug, "calling %s with context %s\n", fn.Name, local.PrettyPrint())
	}

	if err := in.execBlock(fn.Body); err != nil {
		return nil, err
	}
	return in.eval(fn.Return)
}
