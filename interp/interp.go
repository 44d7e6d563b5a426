// Package interp walks a program tree and executes it.
//
// A program runs against one variable context. Calls are snapshot calls: the
// callee runs on a deep copy of the caller's context and the caller's context
// is restored untouched when the call returns. There are no closures and no
// write-back of any kind.
package interp

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zin-lang/zin/ast"
	"github.com/zin-lang/zin/lib"
)

const (
	DefaultMaxCallDepth = 1000

	// maxInterpolationPasses bounds placeholder resolution in escreva.
	maxInterpolationPasses = 32
)

// Tracer is called before every statement runs, with the current context.
type Tracer func(s ast.Stmt, frame *StackFrame)

type Interpreter struct {
	program *ast.Program

	registry     *lib.Registry
	files        *lib.FileSystem
	stdout       io.Writer
	stdin        *bufio.Reader
	debug        io.Writer
	tracer       Tracer
	maxCallDepth int
	runID        string

	frame *StackFrame
	stack StackFrames
	log   zerolog.Logger
}

type Option func(*Interpreter)

func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

func WithStdin(r io.Reader) Option {
	return func(in *Interpreter) { in.stdin = bufio.NewReader(r) }
}

// WithDebug reports every function entry, with its context, to w.
func WithDebug(w io.Writer) Option {
	return func(in *Interpreter) { in.debug = w }
}

func WithRegistry(r *lib.Registry) Option {
	return func(in *Interpreter) { in.registry = r }
}

func WithFileSystem(fs *lib.FileSystem) Option {
	return func(in *Interpreter) { in.files = fs }
}

func WithTracer(t Tracer) Option {
	return func(in *Interpreter) { in.tracer = t }
}

func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxCallDepth = n
		}
	}
}

func WithRunID(id string) Option {
	return func(in *Interpreter) { in.runID = id }
}

func New(prog *ast.Program, opts ...Option) *Interpreter {
	in := &Interpreter{
		program:      prog,
		stdout:       os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, o := range opts {
		o(in)
	}
	if in.files == nil {
		in.files = &lib.FileSystem{}
	}
	if in.registry == nil {
		in.registry = lib.DefaultRegistry(in.files)
	}
	if in.stdin == nil {
		in.stdin = bufio.NewReader(os.Stdin)
	}
	if in.runID == "" {
		in.runID = uuid.NewString()
	}
	in.log = log.With().Str("run_id", in.runID).Str("program", prog.Name).Logger()
	return in
}

// Frame returns the current variable context.
func (in *Interpreter) Frame() *StackFrame {
	return in.frame
}

// Depth returns the number of calls in progress.
func (in *Interpreter) Depth() int {
	return len(in.stack)
}

// Run declares the program's variables, binds its imports and then runs the
// execution directives in order.
func (in *Interpreter) Run() error {
	in.frame = NewFrame(in.program.Variables)
	in.stack = nil
	in.log.Debug().Int("variables", len(in.program.Variables)).Strs("execution", in.program.Execution).Msg("run start")

	for _, name := range in.program.Imports {
		if err := in.importModule(name); err != nil {
			return err
		}
	}
	for _, target := range in.program.Execution {
		if strings.EqualFold(target, ast.MainBlock) {
			in.log.Trace().Msg("run main block")
			if err := in.execBlock(in.program.Main); err != nil {
				return err
			}
			continue
		}
		m, ok := in.program.Module(target)
		if !ok {
			return runtimeErr("execucao", "unknown run directive %q%s", target, in.suggestModule(target))
		}
		if err := in.execModule(m); err != nil {
			return err
		}
	}
	in.log.Debug().Msg("run finished")
	return nil
}
