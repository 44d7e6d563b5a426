// Package ast defines the program tree built by the parser and walked by the
// interpreter.
package ast

// MainBlock is the run directive naming the main block.
const MainBlock = "PRINCIPAL"

type Program struct {
	Name      string
	Imports   []string
	Variables []*VariableDeclaration
	Main      []Stmt
	// AfterMain holds statements written between the main block and the
	// first module. They are kept in the tree but never run implicitly.
	AfterMain []Stmt
	Modules   []*Module
	// Execution lists run directives in order: MainBlock or a module name.
	Execution []string
}

// Module returns the program module with the given name.
func (p *Program) Module(name string) (*Module, bool) {
	for _, m := range p.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Function finds a function by name across all modules, in declaration order.
func (p *Program) Function(name string) (*Module, *Function, bool) {
	for _, m := range p.Modules {
		if f, ok := m.Function(name); ok {
			return m, f, true
		}
	}
	return nil, nil, false
}

type VarKind int

const (
	ScalarVar VarKind = iota
	ListVar
	TableVar
)

func (k VarKind) String() string {
	switch k {
	case ListVar:
		return "list"
	case TableVar:
		return "table"
	default:
		return "scalar"
	}
}

type VariableDeclaration struct {
	Name string
	// Type is the declared type name (inteiro, texto, decimal, booleano,
	// lista, grupo).
	Type string
	Kind VarKind
	// Init is the optional initial value of a scalar.
	Init  Literal
	List  []Literal
	Table *TableLiteral
}

type TableLiteral struct {
	Fields []string
	Rows   [][]Literal
}

type Module struct {
	Name      string
	Functions []*Function
}

func (m *Module) Function(name string) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

type Function struct {
	Name   string
	Params []string
	Body   []Stmt
	Return Expr
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

// Literal is an expression that is a constant: IntLit, FloatLit or TextLit.
type Literal interface {
	Expr
	literalNode()
}

type Assign struct {
	Name  string
	Value Expr
}

// Write prints Text after resolving its {placeholders}.
type Write struct {
	Text string
}

type Ask struct {
	Prompt string
	Target string
}

type If struct {
	Cond Expr
	Then []Stmt
	// Else is nil when the statement has no else branch.
	Else []Stmt
}

type While struct {
	Cond Expr
	Body []Stmt
}

type For struct {
	Var   string
	Start Expr
	End   Expr
	// Step is nil when omitted.
	Step Expr
	Body []Stmt
}

type RepeatUntil struct {
	Body []Stmt
	Cond Expr
}

type ExecuteModule struct {
	Name string
	// Bare is set for the `EXECUTAR X.` spelling without MODULO.
	Bare bool
}

type Import struct {
	Name string
}

// FileCreate creates an empty file named Name followed by Ext.
type FileCreate struct {
	Name Expr
	Ext  string
}

type FileWrite struct {
	Content Expr
	Path    Expr
}

// FileRead prints the file, or stores it in Target when one is given.
type FileRead struct {
	Path   Expr
	Target string
}

// CallStmt evaluates a call for its effects and drops the result.
type CallStmt struct {
	Call Expr
}

func (*Assign) stmtNode()        {}
func (*Write) stmtNode()         {}
func (*Ask) stmtNode()           {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*For) stmtNode()           {}
func (*RepeatUntil) stmtNode()   {}
func (*ExecuteModule) stmtNode() {}
func (*Import) stmtNode()        {}
func (*FileCreate) stmtNode()    {}
func (*FileWrite) stmtNode()     {}
func (*FileRead) stmtNode()      {}
func (*CallStmt) stmtNode()      {}

type IntLit struct {
	Value int64
}

type FloatLit struct {
	Value float64
}

type TextLit struct {
	Value string
}

type VarRef struct {
	Name string
}

type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

// ModuleCall is module.function(args); the module is either a capability
// module bound in the context or a program module.
type ModuleCall struct {
	Module   string
	Function string
	Args     []Expr
}

// ModuleAttr is module.name without an argument list.
type ModuleAttr struct {
	Module string
	Name   string
}

type PlainCall struct {
	Name string
	Args []Expr
}

type ListAccess struct {
	Name  string
	Index Expr
}

type RecordAccess struct {
	Name  string
	Index Expr
	Field string
}

func (*IntLit) exprNode()       {}
func (*FloatLit) exprNode()     {}
func (*TextLit) exprNode()      {}
func (*VarRef) exprNode()       {}
func (*BinaryOp) exprNode()     {}
func (*ModuleCall) exprNode()   {}
func (*ModuleAttr) exprNode()   {}
func (*PlainCall) exprNode()    {}
func (*ListAccess) exprNode()   {}
func (*RecordAccess) exprNode() {}

func (*IntLit) literalNode()   {}
func (*FloatLit) literalNode() {}
func (*TextLit) literalNode()  {}
