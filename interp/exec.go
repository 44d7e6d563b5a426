package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/value"
)

func (in *Interpreter) execBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(s ast.Stmt) error {
	if in.tracer != nil {
		in.tracer(s, in.frame)
	}
	if e := in.log.Trace(); e.Enabled() {
		e.Str("stmt", ast.FormatStmt(s)).Int("depth", len(in.stack)).Msg("exec")
	}

	switch s := s.(type) {
	case *ast.Assign:
		v, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		in.frame.StoreVar(s.Name, v)
		return nil
	case *ast.Write:
		text, err := in.interpolate(s.Text)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(in.stdout, text)
		return err
	case *ast.Ask:
		return in.ask(s)
	case *ast.If:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return err
		}
		if cond.AsBool() {
			return in.execBlock(s.Then)
		}
		return in.execBlock(s.Else)
	case *ast.While:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !cond.AsBool() {
				return nil
			}
			if err := in.execBlock(s.Body); err != nil {
				return err
			}
		}
	case *ast.For:
		return in.forLoop(s)
	case *ast.RepeatUntil:
		for {
			if err := in.execBlock(s.Body); err != nil {
				return err
			}
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if cond.AsBool() {
				return nil
			}
		}
	case *ast.ExecuteModule:
		m, ok := in.program.Module(s.Name)
		if !ok {
			return runtimeErr("executar_modulo", "unknown module %q%s", s.Name, in.suggestModule(s.Name))
		}
		return in.execModule(m)
	case *ast.Import:
		return in.importModule(s.Name)
	case *ast.FileCreate:
		name, err := in.pathOf(s.Name)
		if err != nil {
			return err
		}
		if err := in.files.CreateEmpty(name + s.Ext); err != nil {
			return wrapErr("arquivo_inicio", err, "cannot create %q", name+s.Ext)
		}
		return nil
	case *ast.FileWrite:
		return in.fileWrite(s)
	case *ast.FileRead:
		path, err := in.pathOf(s.Path)
		if err != nil {
			return err
		}
		content, err := in.files.ReadText(path)
		if err != nil {
			return wrapErr("arquivo_leia", err, "cannot read %q", path)
		}
		if s.Target != "" {
			in.frame.StoreVar(s.Target, value.StrValue(content))
			return nil
		}
		_, err = fmt.Fprintln(in.stdout, content)
		return err
	case *ast.CallStmt:
		_, err := in.eval(s.Call)
		return err
	}
	return runtimeErr("exec", "unsupported statement %T", s)
}

// forLoop evaluates its bounds once. The counter lives outside the context
// and is rebound to the loop variable at the start of every iteration.
func (in *Interpreter) forLoop(s *ast.For) error {
	start, err := in.forBound(s.Start, "start")
	if err != nil {
		return err
	}
	end, err := in.forBound(s.End, "end")
	if err != nil {
		return err
	}
	var step value.Value = value.IntValue(1)
	if s.Step != nil {
		if step, err = in.forBound(s.Step, "step"); err != nil {
			return err
		}
	}
	if isZero(step) {
		return runtimeErr("para", "step must not be zero")
	}
	up := !isNegative(step)
	for cur := start; ; {
		cmp, err := compare(cur, end)
		if err != nil {
			return wrapErr("para", err, "bad loop bounds")
		}
		if (up && cmp > 0) || (!up && cmp < 0) {
			return nil
		}
		in.frame.StoreVar(s.Var, cur)
		if err := in.execBlock(s.Body); err != nil {
			return err
		}
		if cur, err = arith("+", cur, step); err != nil {
			return wrapErr("para", err, "bad loop step")
		}
	}
}

func (in *Interpreter) forBound(e ast.Expr, which string) (value.Value, error) {
	v, err := in.eval(e)
	if err != nil {
		return nil, err
	}
	v = coerceDigits(v)
	switch v.(type) {
	case value.IntValue, value.FloatValue:
		return v, nil
	}
	return nil, runtimeErr("para", "loop %s must be a number, got %s %q", which, value.TypeName(v), value.Format(v))
}

func (in *Interpreter) ask(s *ast.Ask) error {
	prompt, err := in.interpolate(s.Prompt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(in.stdout, prompt+" "); err != nil {
		return err
	}
	line, err := in.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return wrapErr("pergunte", err, "no input for %q", s.Target)
	}
	line = strings.TrimRight(line, "\r\n")
	in.frame.StoreVar(s.Target, in.convertAnswer(s.Target, line))
	return nil
}

// convertAnswer converts input when the target currently holds an integer
// (or a decimal). Anything else, including a declared but unset variable,
// keeps the raw text, as does input that does not convert.
func (in *Interpreter) convertAnswer(target, line string) value.Value {
	cur, _ := in.frame.Lookup(target)
	trimmed := strings.TrimSpace(line)
	switch cur.(type) {
	case value.IntValue:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return value.IntValue(n)
		}
	case value.FloatValue:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return value.FloatValue(f)
		}
	}
	return value.StrValue(line)
}

func (in *Interpreter) fileWrite(s *ast.FileWrite) error {
	content, err := in.eval(s.Content)
	if err != nil {
		return err
	}
	text := value.Format(content)
	if _, ok := content.(value.StrValue); ok {
		if text, err = in.interpolate(text); err != nil {
			return err
		}
	}
	path, err := in.pathOf(s.Path)
	if err != nil {
		return err
	}
	if err := in.files.WriteText(path, text); err != nil {
		return wrapErr("arquivo_escreva", err, "cannot write %q", path)
	}
	return nil
}

// pathOf evaluates a file argument. Bare names that are not bound evaluate
// to their own text, so ARQUIVO-LEIA(notas) reads "notas".
func (in *Interpreter) pathOf(e ast.Expr) (string, error) {
	v, err := in.eval(e)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case value.StrValue, value.IntValue:
		return value.Format(v), nil
	}
	return "", runtimeErr("arquivo", "file name must be text, got %s", value.TypeName(v))
}

func (in *Interpreter) importModule(name string) error {
	c, err := in.registry.Lookup(name)
	if err != nil {
		return wrapErr("importe", err, "cannot import %q", name)
	}
	in.frame.StoreVar(name, value.ModuleValue{Capability: c})
	in.log.Trace().Str("module", name).Msg("imported")
	return nil
}
