package ast

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// ToDoc converts a program into the nested key-value document used by tree
// files. Key names match trees written by earlier Zin tools.
func ToDoc(p *Program) map[string]any {
	vars := []any{}
	for _, v := range p.Variables {
		vars = append(vars, varToDoc(v))
	}
	impl := map[string]any{
		"principal":                stmtsToDoc(p.Main),
		"execucoes_apos_principal": stmtsToDoc(p.AfterMain),
	}
	if len(p.Modules) > 0 {
		mods := map[string]any{}
		order := []any{}
		for _, m := range p.Modules {
			fns := []any{}
			for _, f := range m.Functions {
				fns = append(fns, funcToDoc(f))
			}
			mods[m.Name] = fns
			order = append(order, m.Name)
		}
		impl["modulos"] = mods
		impl["ordem_modulos"] = order
	}
	exec := []any{}
	for _, e := range p.Execution {
		exec = append(exec, e)
	}
	prog := map[string]any{
		"nome":          p.Name,
		"variaveis":     vars,
		"implementacao": impl,
		"execucao":      map[string]any{"modulos": exec},
	}
	if len(p.Imports) > 0 {
		imports := []any{}
		for _, name := range p.Imports {
			imports = append(imports, map[string]any{"importe": name})
		}
		prog["importes"] = imports
	}
	return map[string]any{"programa": prog}
}

func varToDoc(v *VariableDeclaration) map[string]any {
	out := map[string]any{"nome": v.Name, "tipo": v.Type}
	switch v.Kind {
	case ListVar:
		vals := []any{}
		for _, l := range v.List {
			vals = append(vals, dataToDoc(l))
		}
		out["valores"] = vals
	case TableVar:
		fields := []any{}
		rows := []any{}
		if v.Table != nil {
			for _, f := range v.Table.Fields {
				fields = append(fields, f)
			}
			for _, r := range v.Table.Rows {
				row := []any{}
				for _, l := range r {
					row = append(row, dataToDoc(l))
				}
				rows = append(rows, row)
			}
		}
		out["valores"] = map[string]any{"campos": fields, "dados": rows}
	default:
		if v.Init != nil {
			out["valor"] = dataToDoc(v.Init)
		}
	}
	return out
}

// dataToDoc encodes a literal stored as data: texts are plain strings here,
// unlike in expression position where a plain string names a variable.
func dataToDoc(l Literal) any {
	switch l := l.(type) {
	case *IntLit:
		return l.Value
	case *FloatLit:
		return l.Value
	case *TextLit:
		return l.Value
	}
	return nil
}

func funcToDoc(f *Function) map[string]any {
	params := []any{}
	for _, p := range f.Params {
		params = append(params, p)
	}
	return map[string]any{
		"nome":       f.Name,
		"parametros": params,
		"corpo":      stmtsToDoc(f.Body),
		"retorno":    exprToDoc(f.Return),
	}
}

func stmtsToDoc(stmts []Stmt) []any {
	out := []any{}
	for _, s := range stmts {
		out = append(out, stmtToDoc(s))
	}
	return out
}

func stmtToDoc(s Stmt) map[string]any {
	switch s := s.(type) {
	case *Assign:
		return map[string]any{"atribuir": map[string]any{"variavel": s.Name, "valor": exprToDoc(s.Value)}}
	case *Write:
		return map[string]any{"escreva": s.Text}
	case *Ask:
		return map[string]any{"pergunte": map[string]any{"texto": s.Prompt, "variavel": s.Target}}
	case *If:
		var elseDoc any
		if s.Else != nil {
			elseDoc = stmtsToDoc(s.Else)
		}
		return map[string]any{"tipo": "SE", "condicao": exprToDoc(s.Cond), "bloco_se": stmtsToDoc(s.Then), "bloco_senao": elseDoc}
	case *While:
		return map[string]any{"tipo": "ENQUANTO", "condicao": exprToDoc(s.Cond), "bloco": stmtsToDoc(s.Body)}
	case *For:
		return map[string]any{"tipo": "PARA", "var": s.Var, "start": exprToDoc(s.Start), "end": exprToDoc(s.End), "step": exprToDoc(s.Step), "bloco": stmtsToDoc(s.Body)}
	case *RepeatUntil:
		return map[string]any{"tipo": "REPITA", "bloco": stmtsToDoc(s.Body), "condicao": exprToDoc(s.Cond)}
	case *ExecuteModule:
		if s.Bare {
			return map[string]any{"executar": s.Name}
		}
		return map[string]any{"executar_modulo": s.Name}
	case *Import:
		return map[string]any{"importe": s.Name}
	case *FileCreate:
		return map[string]any{"arquivo_inicio": map[string]any{"nome": exprToDoc(s.Name), "extensao": s.Ext}}
	case *FileWrite:
		return map[string]any{"arquivo_escreva": map[string]any{"conteudo": exprToDoc(s.Content), "nome": exprToDoc(s.Path)}}
	case *FileRead:
		body := map[string]any{"nome": exprToDoc(s.Path)}
		if s.Target != "" {
			body["variavel"] = s.Target
		}
		return map[string]any{"arquivo_leia": body}
	case *CallStmt:
		return map[string]any{"chamada": exprToDoc(s.Call)}
	}
	panic(fmt.Sprintf("unhandled statement type %T", s))
}

func exprsToDoc(exprs []Expr) []any {
	out := []any{}
	for _, e := range exprs {
		out = append(out, exprToDoc(e))
	}
	return out
}

func exprToDoc(e Expr) any {
	switch e := e.(type) {
	case nil:
		return nil
	case *IntLit:
		return e.Value
	case *FloatLit:
		return e.Value
	case *TextLit:
		return map[string]any{"texto": e.Value}
	case *VarRef:
		return e.Name
	case *BinaryOp:
		return map[string]any{"left": exprToDoc(e.Left), "operator": e.Op, "right": exprToDoc(e.Right)}
	case *ModuleCall:
		return map[string]any{"chamada_modulo": map[string]any{"modulo": e.Module, "funcao": e.Function, "argumentos": exprsToDoc(e.Args)}}
	case *ModuleAttr:
		return map[string]any{"acesso_modulo": map[string]any{"modulo": e.Module, "nome": e.Name}}
	case *PlainCall:
		return map[string]any{"func_call": map[string]any{"nome": e.Name, "args": exprsToDoc(e.Args)}}
	case *ListAccess:
		return map[string]any{"acesso_lista": map[string]any{"nome": e.Name, "indice": exprToDoc(e.Index)}}
	case *RecordAccess:
		return map[string]any{"acesso_grupo": map[string]any{"nome": e.Name, "indice": exprToDoc(e.Index), "campo": e.Field}}
	}
	panic(fmt.Sprintf("unhandled expression type %T", e))
}

// DocError reports a tree document that does not describe a program.
type DocError struct {
	Path    string
	Message string
}

func (e *DocError) Error() string {
	return fmt.Sprintf("invalid tree document at %s: %s", e.Path, e.Message)
}

func docErr(path, format string, args ...any) error {
	return &DocError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// FromDoc rebuilds a program from a decoded tree document. It accepts the
// generic shapes produced by the JSON, msgpack and CBOR decoders.
func FromDoc(doc any) (*Program, error) {
	return fromDoc(doc, nil)
}

// fromDoc takes the module order seen in the encoded document, used when the
// document has no "ordem_modulos" list.
func fromDoc(doc any, moduleOrder []string) (*Program, error) {
	root, ok := asMap(doc)
	if !ok {
		return nil, docErr("$", "expected an object, got %T", doc)
	}
	prog, ok := asMap(root["programa"])
	if !ok {
		return nil, docErr("$", "missing \"programa\"")
	}
	p := &Program{}
	if p.Name, ok = asString(prog["nome"]); !ok {
		return nil, docErr("programa.nome", "expected a string")
	}

	if raw, present := prog["importes"]; present {
		list, ok := asList(raw)
		if !ok {
			return nil, docErr("programa.importes", "expected a list")
		}
		for i, item := range list {
			m, ok := asMap(item)
			if !ok {
				return nil, docErr(fmt.Sprintf("programa.importes[%d]", i), "expected an object")
			}
			name, ok := asString(m["importe"])
			if !ok {
				return nil, docErr(fmt.Sprintf("programa.importes[%d].importe", i), "expected a string")
			}
			p.Imports = append(p.Imports, name)
		}
	}

	if raw, present := prog["variaveis"]; present && raw != nil {
		list, ok := asList(raw)
		if !ok {
			return nil, docErr("programa.variaveis", "expected a list")
		}
		for i, item := range list {
			v, err := varFromDoc(fmt.Sprintf("programa.variaveis[%d]", i), item)
			if err != nil {
				return nil, err
			}
			p.Variables = append(p.Variables, v)
		}
	}

	impl, ok := asMap(prog["implementacao"])
	if !ok {
		return nil, docErr("programa.implementacao", "expected an object")
	}
	var err error
	if p.Main, err = stmtsFromDoc("programa.implementacao.principal", impl["principal"]); err != nil {
		return nil, err
	}
	if p.AfterMain, err = stmtsFromDoc("programa.implementacao.execucoes_apos_principal", impl["execucoes_apos_principal"]); err != nil {
		return nil, err
	}
	if raw, present := impl["modulos"]; present && raw != nil {
		mods, ok := asMap(raw)
		if !ok {
			return nil, docErr("programa.implementacao.modulos", "expected an object")
		}
		names, err := moduleNames(impl, mods, moduleOrder)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			path := "programa.implementacao.modulos." + name
			fns, ok := asList(mods[name])
			if !ok {
				return nil, docErr(path, "expected a list of functions")
			}
			m := &Module{Name: name}
			for i, raw := range fns {
				f, err := funcFromDoc(fmt.Sprintf("%s[%d]", path, i), raw)
				if err != nil {
					return nil, err
				}
				m.Functions = append(m.Functions, f)
			}
			p.Modules = append(p.Modules, m)
		}
	}

	if raw, present := prog["execucao"]; present && raw != nil {
		exec, ok := asMap(raw)
		if !ok {
			return nil, docErr("programa.execucao", "expected an object")
		}
		if raw, present := exec["modulos"]; present && raw != nil {
			list, ok := asList(raw)
			if !ok {
				return nil, docErr("programa.execucao.modulos", "expected a list")
			}
			for i, item := range list {
				name, ok := asString(item)
				if !ok {
					return nil, docErr(fmt.Sprintf("programa.execucao.modulos[%d]", i), "expected a string")
				}
				p.Execution = append(p.Execution, name)
			}
		}
	}
	return p, nil
}

// moduleNames lists the modules in declaration order. Plain calls resolve
// against the first module defining a function, so the order must survive
// every codec.
func moduleNames(impl, mods map[string]any, fallback []string) ([]string, error) {
	const path = "programa.implementacao.ordem_modulos"
	order := fallback
	if raw, present := impl["ordem_modulos"]; present && raw != nil {
		list, ok := asList(raw)
		if !ok {
			return nil, docErr(path, "expected a list")
		}
		order = nil
		for i, item := range list {
			name, ok := asString(item)
			if !ok {
				return nil, docErr(fmt.Sprintf("%s[%d]", path, i), "expected a string")
			}
			order = append(order, name)
		}
	}
	if order == nil && len(mods) == 1 {
		for name := range mods {
			order = append(order, name)
		}
	}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if _, ok := mods[name]; !ok || seen[name] {
			return nil, docErr(path, "module order names %q, which is missing or repeated", name)
		}
		seen[name] = true
	}
	if len(seen) != len(mods) {
		return nil, docErr(path, "module order lists %d of %d modules", len(seen), len(mods))
	}
	return order, nil
}

func varFromDoc(path string, raw any) (*VariableDeclaration, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, docErr(path, "expected an object")
	}
	v := &VariableDeclaration{}
	if v.Name, ok = asString(m["nome"]); !ok {
		return nil, docErr(path+".nome", "expected a string")
	}
	if v.Type, ok = asString(m["tipo"]); !ok {
		return nil, docErr(path+".tipo", "expected a string")
	}
	switch v.Type {
	case "lista":
		v.Kind = ListVar
		if vals, present := m["valores"]; present && vals != nil {
			list, ok := asList(vals)
			if !ok {
				return nil, docErr(path+".valores", "expected a list")
			}
			for i, item := range list {
				l, err := dataFromDoc(fmt.Sprintf("%s.valores[%d]", path, i), item)
				if err != nil {
					return nil, err
				}
				v.List = append(v.List, l)
			}
		}
	case "grupo":
		v.Kind = TableVar
		v.Table = &TableLiteral{}
		if vals, present := m["valores"]; present && vals != nil {
			tm, ok := asMap(vals)
			if !ok {
				return nil, docErr(path+".valores", "expected an object")
			}
			if fields, present := tm["campos"]; present && fields != nil {
				list, ok := asList(fields)
				if !ok {
					return nil, docErr(path+".valores.campos", "expected a list")
				}
				for i, f := range list {
					name, ok := asString(f)
					if !ok {
						return nil, docErr(fmt.Sprintf("%s.valores.campos[%d]", path, i), "expected a string")
					}
					v.Table.Fields = append(v.Table.Fields, unquote(name))
				}
			}
			if rows, present := tm["dados"]; present && rows != nil {
				list, ok := asList(rows)
				if !ok {
					return nil, docErr(path+".valores.dados", "expected a list")
				}
				for i, r := range list {
					rowPath := fmt.Sprintf("%s.valores.dados[%d]", path, i)
					cells, ok := asList(r)
					if !ok {
						return nil, docErr(rowPath, "expected a list")
					}
					if len(cells) != len(v.Table.Fields) {
						return nil, docErr(rowPath, "row has %d values for %d fields", len(cells), len(v.Table.Fields))
					}
					var row []Literal
					for j, c := range cells {
						l, err := dataFromDoc(fmt.Sprintf("%s[%d]", rowPath, j), c)
						if err != nil {
							return nil, err
						}
						row = append(row, l)
					}
					v.Table.Rows = append(v.Table.Rows, row)
				}
			}
		}
	default:
		v.Kind = ScalarVar
		if init, present := m["valor"]; present && init != nil {
			l, err := dataFromDoc(path+".valor", init)
			if err != nil {
				return nil, err
			}
			v.Init = l
		}
	}
	return v, nil
}

// dataFromDoc decodes a stored literal. Trees written by older tools keep
// the quotes of string literals and digit-only strings stand for integers.
func dataFromDoc(path string, raw any) (Literal, error) {
	if l, ok := asNumber(raw); ok {
		return l, nil
	}
	s, ok := asString(raw)
	if !ok {
		return nil, docErr(path, "expected a number or a string, got %T", raw)
	}
	return NormalizeData(unquote(s)), nil
}

// NormalizeData turns a digit-only string into an integer literal.
func NormalizeData(s string) Literal {
	if IsDigits(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &IntLit{Value: n}
		}
	}
	return &TextLit{Value: s}
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func funcFromDoc(path string, raw any) (*Function, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, docErr(path, "expected an object")
	}
	f := &Function{}
	if f.Name, ok = asString(m["nome"]); !ok {
		return nil, docErr(path+".nome", "expected a string")
	}
	if raw, present := m["parametros"]; present && raw != nil {
		list, ok := asList(raw)
		if !ok {
			return nil, docErr(path+".parametros", "expected a list")
		}
		for i, p := range list {
			name, ok := asString(p)
			if !ok {
				return nil, docErr(fmt.Sprintf("%s.parametros[%d]", path, i), "expected a string")
			}
			f.Params = append(f.Params, name)
		}
	}
	var err error
	if f.Body, err = stmtsFromDoc(path+".corpo", m["corpo"]); err != nil {
		return nil, err
	}
	if f.Return, err = exprFromDoc(path+".retorno", m["retorno"]); err != nil {
		return nil, err
	}
	return f, nil
}

func stmtsFromDoc(path string, raw any) ([]Stmt, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := asList(raw)
	if !ok {
		return nil, docErr(path, "expected a list of statements")
	}
	var out []Stmt
	for i, item := range list {
		s, err := stmtFromDoc(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stmtFromDoc(path string, raw any) (Stmt, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, docErr(path, "expected an object")
	}
	if tipo, present := m["tipo"]; present {
		return controlFromDoc(path, tipo, m)
	}
	switch {
	case has(m, "atribuir"):
		body, ok := asMap(m["atribuir"])
		if !ok {
			return nil, docErr(path+".atribuir", "expected an object")
		}
		name, ok := asString(body["variavel"])
		if !ok {
			return nil, docErr(path+".atribuir.variavel", "expected a string")
		}
		val, err := exprFromDoc(path+".atribuir.valor", body["valor"])
		if err != nil {
			return nil, err
		}
		return &Assign{Name: name, Value: val}, nil
	case has(m, "escreva"):
		text, ok := asString(m["escreva"])
		if !ok {
			return nil, docErr(path+".escreva", "expected a string")
		}
		return &Write{Text: text}, nil
	case has(m, "pergunte"):
		body, ok := asMap(m["pergunte"])
		if !ok {
			return nil, docErr(path+".pergunte", "expected an object")
		}
		prompt, _ := asString(body["texto"])
		target, ok := asString(body["variavel"])
		if !ok {
			return nil, docErr(path+".pergunte.variavel", "expected a string")
		}
		return &Ask{Prompt: prompt, Target: target}, nil
	case has(m, "executar_modulo"):
		name, ok := asString(m["executar_modulo"])
		if !ok {
			return nil, docErr(path+".executar_modulo", "expected a string")
		}
		return &ExecuteModule{Name: name}, nil
	case has(m, "executar"):
		name, ok := asString(m["executar"])
		if !ok {
			return nil, docErr(path+".executar", "expected a string")
		}
		return &ExecuteModule{Name: name, Bare: true}, nil
	case has(m, "importe"):
		name, ok := asString(m["importe"])
		if !ok {
			return nil, docErr(path+".importe", "expected a string")
		}
		return &Import{Name: name}, nil
	case has(m, "arquivo_inicio"):
		body, ok := asMap(m["arquivo_inicio"])
		if !ok {
			return nil, docErr(path+".arquivo_inicio", "expected an object")
		}
		name, err := fileArgFromDoc(path+".arquivo_inicio.nome", body["nome"])
		if err != nil {
			return nil, err
		}
		ext, _ := asString(body["extensao"])
		return &FileCreate{Name: name, Ext: unquote(ext)}, nil
	case has(m, "arquivo_escreva"):
		body, ok := asMap(m["arquivo_escreva"])
		if !ok {
			return nil, docErr(path+".arquivo_escreva", "expected an object")
		}
		content, err := fileArgFromDoc(path+".arquivo_escreva.conteudo", body["conteudo"])
		if err != nil {
			return nil, err
		}
		name, err := fileArgFromDoc(path+".arquivo_escreva.nome", body["nome"])
		if err != nil {
			return nil, err
		}
		return &FileWrite{Content: content, Path: name}, nil
	case has(m, "arquivo_leia"):
		body, ok := asMap(m["arquivo_leia"])
		if !ok {
			return nil, docErr(path+".arquivo_leia", "expected an object")
		}
		name, err := fileArgFromDoc(path+".arquivo_leia.nome", body["nome"])
		if err != nil {
			return nil, err
		}
		target, _ := asString(body["variavel"])
		return &FileRead{Path: name, Target: target}, nil
	case has(m, "chamada"):
		call, err := exprFromDoc(path+".chamada", m["chamada"])
		if err != nil {
			return nil, err
		}
		return &CallStmt{Call: call}, nil
	}
	return nil, docErr(path, "unknown statement with keys %v", keys(m))
}

// fileArgFromDoc accepts the expression encoding and, for trees written by
// older tools, a quoted string standing for a literal file name.
func fileArgFromDoc(path string, raw any) (Expr, error) {
	if s, ok := asString(raw); ok && len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		return &TextLit{Value: unquote(s)}, nil
	}
	return exprFromDoc(path, raw)
}

func controlFromDoc(path string, tipo any, m map[string]any) (Stmt, error) {
	kind, _ := asString(tipo)
	switch kind {
	case "SE":
		cond, err := exprFromDoc(path+".condicao", m["condicao"])
		if err != nil {
			return nil, err
		}
		then, err := stmtsFromDoc(path+".bloco_se", m["bloco_se"])
		if err != nil {
			return nil, err
		}
		s := &If{Cond: cond, Then: then}
		if raw := m["bloco_senao"]; raw != nil {
			els, err := stmtsFromDoc(path+".bloco_senao", raw)
			if err != nil {
				return nil, err
			}
			s.Else = append([]Stmt{}, els...)
		}
		return s, nil
	case "ENQUANTO":
		cond, err := exprFromDoc(path+".condicao", m["condicao"])
		if err != nil {
			return nil, err
		}
		body, err := stmtsFromDoc(path+".bloco", m["bloco"])
		if err != nil {
			return nil, err
		}
		return &While{Cond: cond, Body: body}, nil
	case "PARA":
		name, ok := asString(m["var"])
		if !ok {
			return nil, docErr(path+".var", "expected a string")
		}
		s := &For{Var: name}
		var err error
		if s.Start, err = exprFromDoc(path+".start", m["start"]); err != nil {
			return nil, err
		}
		if s.End, err = exprFromDoc(path+".end", m["end"]); err != nil {
			return nil, err
		}
		if s.Step, err = exprFromDoc(path+".step", m["step"]); err != nil {
			return nil, err
		}
		if s.Body, err = stmtsFromDoc(path+".bloco", m["bloco"]); err != nil {
			return nil, err
		}
		return s, nil
	case "REPITA":
		body, err := stmtsFromDoc(path+".bloco", m["bloco"])
		if err != nil {
			return nil, err
		}
		cond, err := exprFromDoc(path+".condicao", m["condicao"])
		if err != nil {
			return nil, err
		}
		return &RepeatUntil{Body: body, Cond: cond}, nil
	}
	return nil, docErr(path+".tipo", "unknown control statement %v", tipo)
}

func exprsFromDoc(path string, raw any) ([]Expr, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := asList(raw)
	if !ok {
		return nil, docErr(path, "expected a list")
	}
	var out []Expr
	for i, item := range list {
		e, err := exprFromDoc(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func exprFromDoc(path string, raw any) (Expr, error) {
	if raw == nil {
		return nil, nil
	}
	if l, ok := asNumber(raw); ok {
		return l, nil
	}
	if s, ok := asString(raw); ok {
		return &VarRef{Name: s}, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return nil, docErr(path, "unexpected expression value %T", raw)
	}
	switch {
	case has(m, "left"):
		op, ok := asString(m["operator"])
		if !ok {
			return nil, docErr(path+".operator", "expected a string")
		}
		left, err := exprFromDoc(path+".left", m["left"])
		if err != nil {
			return nil, err
		}
		right, err := exprFromDoc(path+".right", m["right"])
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Left: left, Op: op, Right: right}, nil
	case has(m, "texto"):
		s, ok := asString(m["texto"])
		if !ok {
			return nil, docErr(path+".texto", "expected a string")
		}
		return &TextLit{Value: s}, nil
	case has(m, "chamada_modulo"):
		body, ok := asMap(m["chamada_modulo"])
		if !ok {
			return nil, docErr(path+".chamada_modulo", "expected an object")
		}
		mod, _ := asString(body["modulo"])
		fn, _ := asString(body["funcao"])
		args, err := exprsFromDoc(path+".chamada_modulo.argumentos", body["argumentos"])
		if err != nil {
			return nil, err
		}
		return &ModuleCall{Module: mod, Function: fn, Args: args}, nil
	case has(m, "acesso_modulo"):
		body, ok := asMap(m["acesso_modulo"])
		if !ok {
			return nil, docErr(path+".acesso_modulo", "expected an object")
		}
		mod, _ := asString(body["modulo"])
		name, _ := asString(body["nome"])
		return &ModuleAttr{Module: mod, Name: name}, nil
	case has(m, "func_call"):
		body, ok := asMap(m["func_call"])
		if !ok {
			return nil, docErr(path+".func_call", "expected an object")
		}
		name, _ := asString(body["nome"])
		args, err := exprsFromDoc(path+".func_call.args", body["args"])
		if err != nil {
			return nil, err
		}
		return &PlainCall{Name: name, Args: args}, nil
	case has(m, "acesso_lista"):
		body, ok := asMap(m["acesso_lista"])
		if !ok {
			return nil, docErr(path+".acesso_lista", "expected an object")
		}
		name, _ := asString(body["nome"])
		idx, err := exprFromDoc(path+".acesso_lista.indice", body["indice"])
		if err != nil {
			return nil, err
		}
		return &ListAccess{Name: name, Index: idx}, nil
	case has(m, "acesso_grupo"):
		body, ok := asMap(m["acesso_grupo"])
		if !ok {
			return nil, docErr(path+".acesso_grupo", "expected an object")
		}
		name, _ := asString(body["nome"])
		field, _ := asString(body["campo"])
		idx, err := exprFromDoc(path+".acesso_grupo.indice", body["indice"])
		if err != nil {
			return nil, err
		}
		return &RecordAccess{Name: name, Index: idx, Field: field}, nil
	}
	return nil, docErr(path, "unknown expression with keys %v", keys(m))
}

func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asNumber converts any decoded numeric representation into a literal.
func asNumber(v any) (Literal, bool) {
	switch n := v.(type) {
	case json.Number:
		s := n.String()
		if strings.ContainsAny(s, ".eE") {
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return &FloatLit{Value: f}, true
		}
		i, err := n.Int64()
		if err != nil {
			return nil, false
		}
		return &IntLit{Value: i}, true
	case float32:
		return &FloatLit{Value: float64(n)}, true
	case float64:
		return &FloatLit{Value: n}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &IntLit{Value: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &IntLit{Value: int64(rv.Uint())}, true
	}
	return nil, false
}
