package interp

import (
	"fmt"

	"github.com/zin-lang/zin/value"
)

// StackFrame is a variable context. The program level runs in one frame;
// every function call runs in a deep copy of its caller's frame.
type StackFrame struct {
	// Function is the name of the function running in this frame, empty at
	// the program level.
	Function  string
	Variables map[string]value.Value
}

// StackFrames holds the frames saved by calls in progress. The top entry is
// the frame the innermost running call returns to.
type StackFrames []*StackFrame

func (s *StackFrames) PopStack() *StackFrame {
	f := s.CurrentStack()
	*s = (*s)[:len(*s)-1]
	return f
}

func (s *StackFrames) Append(f *StackFrame) {
	*s = append(*s, f)
}

func (s StackFrames) CurrentStack() *StackFrame {
	return s[len(s)-1]
}

// RuntimeError aborts evaluation. Op names the operation that failed.
type RuntimeError struct {
	Op      string
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("runtime error in %s: %s", e.Op, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func runtimeErr(op, format string, args ...any) *RuntimeError {
	return &RuntimeError{Op: op, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(op string, err error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}
