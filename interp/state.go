package interp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/value"
)

// NewFrame builds the program-level context from the declared variables.
func NewFrame(decls []*ast.VariableDeclaration) *StackFrame {
	f := &StackFrame{}
	for _, d := range decls {
		f.StoreVar(d.Name, value.FromDeclaration(d))
	}
	return f
}

// Clone deep-copies the frame, so writes to the copy never reach the
// original.
func (f *StackFrame) Clone() *StackFrame {
	out := &StackFrame{
		Function: f.Function,
	}
	for k, v := range f.Variables {
		out.StoreVar(k, v.Clone())
	}
	return out
}

func (f *StackFrame) StoreVar(key string, v value.Value) {
	if f.Variables == nil {
		f.Variables = make(map[string]value.Value)
	}
	f.Variables[key] = v
}

func (f *StackFrame) Has(key string) bool {
	if f.Variables == nil {
		return false
	}
	_, ok := f.Variables[key]
	return ok
}

func (f *StackFrame) Lookup(key string) (value.Value, bool) {
	v, ok := f.Variables[key]
	return v, ok
}

// Names returns the bound names in sorted order.
func (f *StackFrame) Names() []string {
	keys := make([]string, 0, len(f.Variables))
	for k := range f.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PrettyPrint renders the frame as {name: value, ...} with sorted names.
// Module handles are left out.
func (f *StackFrame) PrettyPrint() string {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for _, k := range f.Names() {
		v := f.Variables[k]
		if _, ok := v.(value.ModuleValue); ok {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s: %s", k, value.Repr(v))
	}
	sb.WriteString("}")
	return sb.String()
}
