package markup

import (
	"errors"
	"fmt"
)

// ErrCompile is matched by every *CompileError via errors.Is.
var ErrCompile = errors.New("compile error")

// CompileError reports the stage that failed to compile a body.
type CompileError struct {
	Stage string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile stage %s: %v", e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is makes every CompileError match ErrCompile.
func (e *CompileError) Is(target error) bool { return target == ErrCompile }
