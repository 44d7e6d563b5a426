package lint

import (
	"github.com/zin-lang/zin/ast"
)

func (c *checker) checkInit(d *ast.VariableDeclaration) {
	if d.Kind != ast.ScalarVar || d.Init == nil {
		return
	}
	// Digit-only strings in declarations are normalized to integers, so a
	// texto may hold an integer literal.
	if _, ok := d.Init.(*ast.IntLit); ok && d.Type == "texto" {
		return
	}
	if found := literalType(d.Init); !compatible(d.Type, d.Init) {
		c.errorf("incompatible initial value for %q: expected %s, found %s", d.Name, d.Type, found)
	}
}

func literalType(e ast.Expr) string {
	switch e.(type) {
	case *ast.IntLit:
		return "inteiro"
	case *ast.FloatLit:
		return "decimal"
	case *ast.TextLit:
		return "texto"
	}
	return ""
}

// compatible reports whether a literal may be stored in a variable of type
// typ. Digit-only texts count as integers, as they do at run time.
func compatible(typ string, lit ast.Expr) bool {
	switch l := lit.(type) {
	case *ast.IntLit:
		return typ == "inteiro" || typ == "decimal" || typ == "booleano"
	case *ast.FloatLit:
		return typ == "decimal"
	case *ast.TextLit:
		if typ == "texto" {
			return true
		}
		return ast.IsDigits(l.Value) && (typ == "inteiro" || typ == "decimal")
	}
	return true
}

func (c *checker) stmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.stmt(s)
	}
}

func (c *checker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		c.expr(s.Value)
		c.target(s.Name, "assigned")
		if d, ok := c.vars[s.Name]; ok && literalType(s.Value) != "" {
			if d.Kind != ast.ScalarVar {
				c.errorf("incompatible type for %q: expected %s, found %s", s.Name, d.Type, literalType(s.Value))
			} else if !compatible(d.Type, s.Value) {
				c.errorf("incompatible type for %q: expected %s, found %s", s.Name, d.Type, literalType(s.Value))
			}
		}
	case *ast.Ask:
		c.target(s.Target, "read")
	case *ast.If:
		c.expr(s.Cond)
		c.stmts(s.Then)
		c.stmts(s.Else)
	case *ast.While:
		c.expr(s.Cond)
		c.stmts(s.Body)
	case *ast.For:
		c.expr(s.Start)
		c.expr(s.End)
		c.expr(s.Step)
		if _, ok := c.vars[s.Var]; !ok {
			c.locals[s.Var] = true
		}
		c.stmts(s.Body)
	case *ast.RepeatUntil:
		c.stmts(s.Body)
		c.expr(s.Cond)
	case *ast.ExecuteModule:
		if _, ok := c.prog.Module(s.Name); !ok {
			c.errorf("unknown module %q%s", s.Name, c.suggest(s.Name, c.moduleNames()))
		}
	case *ast.FileCreate:
		c.expr(s.Name)
	case *ast.FileWrite:
		c.expr(s.Content)
		c.expr(s.Path)
	case *ast.FileRead:
		c.expr(s.Path)
		if s.Target != "" {
			c.locals[s.Target] = true
		}
	case *ast.CallStmt:
		c.expr(s.Call)
	}
}

// target checks a variable written by a statement. Undeclared names are
// reported once and then treated as declared.
func (c *checker) target(name, verb string) {
	if _, ok := c.vars[name]; ok || c.locals[name] {
		return
	}
	c.errorf("variable %q %s before being declared%s", name, verb, c.suggest(name, c.varNames))
	c.locals[name] = true
}

func (c *checker) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.BinaryOp:
		c.expr(e.Left)
		c.expr(e.Right)
	case *ast.ModuleCall:
		c.exprs(e.Args)
		if c.imports[e.Module] {
			return
		}
		if m, ok := c.prog.Module(e.Module); ok {
			if _, ok := m.Function(e.Function); !ok {
				var names []string
				for _, f := range m.Functions {
					names = append(names, f.Name)
				}
				c.errorf("module %q has no function %q%s", e.Module, e.Function, c.suggest(e.Function, names))
			}
			return
		}
		c.errorf("call to module %q that is neither imported nor defined%s", e.Module, c.suggest(e.Module, c.callableModules()))
	case *ast.ModuleAttr:
		if !c.imports[e.Module] {
			c.errorf("attribute of module %q that is not imported%s", e.Module, c.suggest(e.Module, c.callableModules()))
		}
	case *ast.PlainCall:
		c.exprs(e.Args)
		if _, _, ok := c.prog.Function(e.Name); !ok {
			var names []string
			for _, m := range c.prog.Modules {
				for _, f := range m.Functions {
					names = append(names, f.Name)
				}
			}
			c.errorf("call to unknown function %q%s", e.Name, c.suggest(e.Name, names))
		}
	case *ast.ListAccess:
		c.expr(e.Index)
		if d, ok := c.vars[e.Name]; ok && d.Kind == ast.ScalarVar {
			c.warnf("%q is declared %s and cannot be indexed", e.Name, d.Type)
		}
	case *ast.RecordAccess:
		c.expr(e.Index)
		d, ok := c.vars[e.Name]
		if !ok {
			return
		}
		if d.Kind != ast.TableVar {
			c.errorf("field access on %q, which is declared %s", e.Name, d.Type)
			return
		}
		if d.Table == nil {
			return
		}
		for _, f := range d.Table.Fields {
			if f == e.Field {
				return
			}
		}
		c.errorf("group %q has no field %q%s", e.Name, e.Field, c.suggest(e.Field, d.Table.Fields))
	}
}

func (c *checker) exprs(es []ast.Expr) {
	for _, e := range es {
		c.expr(e)
	}
}

func (c *checker) callableModules() []string {
	out := c.moduleNames()
	for name := range c.imports {
		out = append(out, name)
	}
	return out
}
