package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DebugPrint writes an indented outline of the program.
func (p *Program) DebugPrint(w io.Writer) {
	fmt.Fprintf(w, "Program: %s\n", p.Name)
	if len(p.Imports) > 0 {
		fmt.Fprintf(w, "Imports: %v\n", p.Imports)
	}
	for _, v := range p.Variables {
		fmt.Fprintf(w, "Var %s %s", v.Name, v.Type)
		switch v.Kind {
		case ListVar:
			fmt.Fprintf(w, " = [%s]", literals(v.List))
		case TableVar:
			if v.Table != nil {
				fmt.Fprintf(w, " fields=%v rows=%d", v.Table.Fields, len(v.Table.Rows))
			}
		default:
			if v.Init != nil {
				fmt.Fprintf(w, " = %s", FormatExpr(v.Init))
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "*** PRINCIPAL")
	printStmts(w, p.Main, 1)
	if len(p.AfterMain) > 0 {
		fmt.Fprintln(w, "*** after PRINCIPAL (not run)")
		printStmts(w, p.AfterMain, 1)
	}
	for _, m := range p.Modules {
		fmt.Fprintf(w, "*** MODULO %s\n", m.Name)
		for _, f := range m.Functions {
			fmt.Fprintf(w, "  funcao %s(%s)\n", f.Name, strings.Join(f.Params, ", "))
			printStmts(w, f.Body, 2)
			fmt.Fprintf(w, "    retorne %s\n", FormatExpr(f.Return))
		}
	}
	fmt.Fprintf(w, "Execution: %v\n", p.Execution)
}

func literals(ls []Literal) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = FormatExpr(l)
	}
	return strings.Join(parts, ", ")
}

func printStmts(w io.Writer, stmts []Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range stmts {
		fmt.Fprintf(w, "%s%s\n", indent, FormatStmt(s))
		switch s := s.(type) {
		case *If:
			printStmts(w, s.Then, depth+1)
			if s.Else != nil {
				fmt.Fprintf(w, "%sSENAO\n", indent)
				printStmts(w, s.Else, depth+1)
			}
		case *While:
			printStmts(w, s.Body, depth+1)
		case *For:
			printStmts(w, s.Body, depth+1)
		case *RepeatUntil:
			printStmts(w, s.Body, depth+1)
			fmt.Fprintf(w, "%sATE %s\n", indent, FormatExpr(s.Cond))
		}
	}
}

// FormatStmt renders the head of a statement on one line. Nested blocks are
// not included.
func FormatStmt(s Stmt) string {
	switch s := s.(type) {
	case *Assign:
		return fmt.Sprintf("%s = %s", s.Name, FormatExpr(s.Value))
	case *Write:
		return fmt.Sprintf("escreva(%q)", s.Text)
	case *Ask:
		return fmt.Sprintf("pergunte(%q {%s})", s.Prompt, s.Target)
	case *If:
		return "SE " + FormatExpr(s.Cond) + " ENTAO"
	case *While:
		return "ENQUANTO " + FormatExpr(s.Cond) + " FACA"
	case *For:
		out := fmt.Sprintf("PARA %s = %s ATE %s", s.Var, FormatExpr(s.Start), FormatExpr(s.End))
		if s.Step != nil {
			out += " PASSO " + FormatExpr(s.Step)
		}
		return out + " FACA"
	case *RepeatUntil:
		return "REPITA"
	case *ExecuteModule:
		if s.Bare {
			return "EXECUTAR " + s.Name
		}
		return "EXECUTAR MODULO " + s.Name
	case *Import:
		return "importe " + s.Name
	case *FileCreate:
		return fmt.Sprintf("ARQUIVO-INICIO(%s, %s)", FormatExpr(s.Name), s.Ext)
	case *FileWrite:
		return fmt.Sprintf("ARQUIVO-ESCREVA(%s, %s)", FormatExpr(s.Content), FormatExpr(s.Path))
	case *FileRead:
		if s.Target != "" {
			return fmt.Sprintf("ARQUIVO-LEIA(%s {%s})", FormatExpr(s.Path), s.Target)
		}
		return fmt.Sprintf("ARQUIVO-LEIA(%s)", FormatExpr(s.Path))
	case *CallStmt:
		return FormatExpr(s.Call)
	}
	return fmt.Sprintf("%T", s)
}

// FormatExpr renders an expression in source-like syntax.
func FormatExpr(e Expr) string {
	switch e := e.(type) {
	case nil:
		return "<none>"
	case *IntLit:
		return strconv.FormatInt(e.Value, 10)
	case *FloatLit:
		s := strconv.FormatFloat(e.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case *TextLit:
		return strconv.Quote(e.Value)
	case *VarRef:
		return e.Name
	case *BinaryOp:
		return "(" + FormatExpr(e.Left) + " " + e.Op + " " + FormatExpr(e.Right) + ")"
	case *ModuleCall:
		return e.Module + "." + e.Function + "(" + formatArgs(e.Args) + ")"
	case *ModuleAttr:
		return e.Module + "." + e.Name
	case *PlainCall:
		return e.Name + "(" + formatArgs(e.Args) + ")"
	case *ListAccess:
		return e.Name + "[" + FormatExpr(e.Index) + "]"
	case *RecordAccess:
		return e.Name + "[" + FormatExpr(e.Index) + "]." + e.Field
	}
	return fmt.Sprintf("%T", e)
}

func formatArgs(args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = FormatExpr(a)
	}
	return strings.Join(parts, ", ")
}
