package editor

import "fmt"

// InvariantError is the panic value raised when a row or column outside the
// buffer is addressed. It signals a defect in the caller, never user input.
type InvariantError struct {
	Op  string
	Pos Position
	Msg string
}

// Error implements error.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("editor: %s at %s: %s", e.Op, e.Pos, e.Msg)
}

func violation(op string, pos Position, format string, args ...any) {
	panic(&InvariantError{Op: op, Pos: pos, Msg: fmt.Sprintf(format, args...)})
}
