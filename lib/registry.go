// Package lib holds the capability modules a program can import: a registry
// keyed by module name, the built-in zin_math and zin_file modules, and
// modules scripted in Starlark.
package lib

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/zin-lang/zin/value"
)

// Module is a capability backed by fixed tables of Go functions and constants.
type Module struct {
	ModuleName string
	Funcs      map[string]value.Func
	Consts     map[string]value.Value
}

func (m *Module) Name() string { return m.ModuleName }

func (m *Module) Function(name string) (value.Func, bool) {
	f, ok := m.Funcs[name]
	return f, ok
}

func (m *Module) Constant(name string) (value.Value, bool) {
	v, ok := m.Consts[name]
	return v, ok
}

func (m *Module) Names() []string {
	out := make([]string, 0, len(m.Funcs)+len(m.Consts))
	for k := range m.Funcs {
		out = append(out, k)
	}
	for k := range m.Consts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NotFoundError reports a lookup of a module or module member that does not
// exist.
type NotFoundError struct {
	Kind       string // "module", "function" or "attribute"
	Module     string
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	var msg string
	if e.Kind == "module" {
		msg = fmt.Sprintf("unknown module %q", e.Name)
	} else {
		msg = fmt.Sprintf("module %q has no %s %q", e.Module, e.Kind, e.Name)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Registry maps module names to capabilities.
type Registry struct {
	modules map[string]value.Capability
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]value.Capability)}
}

// DefaultRegistry returns a registry holding zin_math and a zin_file module
// that works through fs.
func DefaultRegistry(fs *FileSystem) *Registry {
	r := NewRegistry()
	r.Register(MathModule())
	r.Register(FileModule(fs))
	return r
}

// Register adds c, replacing any module of the same name.
func (r *Registry) Register(c value.Capability) {
	r.modules[c.Name()] = c
}

func (r *Registry) Lookup(name string) (value.Capability, error) {
	if c, ok := r.modules[name]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Kind: "module", Name: name, Suggestion: Suggest(name, r.Names())}
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.modules))
	for k := range r.modules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Call invokes a function of c, producing a NotFoundError when it is missing.
func Call(c value.Capability, fn string, args []value.Value) (value.Value, error) {
	f, ok := c.Function(fn)
	if !ok {
		return nil, &NotFoundError{Kind: "function", Module: c.Name(), Name: fn, Suggestion: Suggest(fn, c.Names())}
	}
	return f(args)
}

// Suggest picks the candidate closest to target, or "" when nothing is close.
// Fuzzy subsequence matches win; otherwise the nearest candidate by edit
// distance is used if it is within a third of the target's length.
func Suggest(target string, candidates []string) string {
	if len(candidates) == 0 || target == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", len(target)/3+1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(target, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
