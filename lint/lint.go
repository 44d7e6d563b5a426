// Package lint checks a program tree for mistakes that would otherwise only
// surface at run time.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lib"
)

type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

type Diagnostic struct {
	Severity Severity
	// Where names the block: "variaveis", "PRINCIPAL" or "M.f".
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Where, d.Message)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

type checker struct {
	prog     *ast.Program
	vars     map[string]*ast.VariableDeclaration
	imports  map[string]bool
	known    []string
	diags    []Diagnostic
	where    string
	locals   map[string]bool
	varNames []string
}

// Check walks prog. available lists the capability modules that can be
// imported; when nil, imports are not checked against it.
func Check(prog *ast.Program, available []string) []Diagnostic {
	c := &checker{
		prog:    prog,
		vars:    make(map[string]*ast.VariableDeclaration),
		imports: make(map[string]bool),
		known:   available,
	}
	c.where = "variaveis"
	for _, d := range prog.Variables {
		c.vars[d.Name] = d
		c.varNames = append(c.varNames, d.Name)
		c.checkInit(d)
	}
	sort.Strings(c.varNames)

	for _, name := range prog.Imports {
		c.importModule(name)
	}
	c.collectImports(prog.Main)
	for _, m := range prog.Modules {
		for _, f := range m.Functions {
			c.collectImports(f.Body)
		}
	}

	c.where = ast.MainBlock
	c.locals = map[string]bool{}
	c.stmts(prog.Main)

	if len(prog.AfterMain) > 0 {
		c.where = ast.MainBlock
		c.warnf("%d statements after FIM PRINCIPAL are never run", len(prog.AfterMain))
	}

	for _, m := range prog.Modules {
		for _, f := range m.Functions {
			c.where = m.Name + "." + f.Name
			c.locals = map[string]bool{}
			for _, p := range f.Params {
				c.locals[p] = true
			}
			c.stmts(f.Body)
			c.expr(f.Return)
		}
	}

	c.where = "execucao"
	for _, target := range prog.Execution {
		if strings.EqualFold(target, ast.MainBlock) {
			continue
		}
		if _, ok := prog.Module(target); !ok {
			c.errorf("run directive names unknown module %q%s", target, c.suggest(target, c.moduleNames()))
		}
	}
	if len(prog.Execution) == 0 {
		c.warnf("no run directives; the program does nothing")
	}

	log.Debug().Str("program", prog.Name).Int("diagnostics", len(c.diags)).Msg("lint finished")
	return c.diags
}

func (c *checker) errorf(format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Severity: Error, Where: c.where, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) warnf(format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Severity: Warning, Where: c.where, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) suggest(name string, candidates []string) string {
	s := lib.Suggest(name, candidates)
	if s == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", s)
}

func (c *checker) importModule(name string) {
	c.imports[name] = true
	if c.known == nil {
		return
	}
	for _, k := range c.known {
		if k == name {
			return
		}
	}
	c.errorf("import of unknown module %q%s", name, c.suggest(name, c.known))
}

func (c *checker) collectImports(stmts []ast.Stmt) {
	walk(stmts, func(s ast.Stmt) {
		if imp, ok := s.(*ast.Import); ok && !c.imports[imp.Name] {
			c.where = "importe"
			c.importModule(imp.Name)
		}
	})
}

func walk(stmts []ast.Stmt, fn func(ast.Stmt)) {
	for _, s := range stmts {
		fn(s)
		switch s := s.(type) {
		case *ast.If:
			walk(s.Then, fn)
			walk(s.Else, fn)
		case *ast.While:
			walk(s.Body, fn)
		case *ast.For:
			walk(s.Body, fn)
		case *ast.RepeatUntil:
			walk(s.Body, fn)
		}
	}
}

func (c *checker) moduleNames() []string {
	var out []string
	for _, m := range c.prog.Modules {
		out = append(out, m.Name)
	}
	return out
}
