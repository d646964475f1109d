package cli

import (
	"errors"
	"fmt"
)

// ErrInvalidNumber is wrapped by the CommandError for a bad --number.
var ErrInvalidNumber = errors.New("must be a non-negative integer")

// CommandError reports a command-line argument that cannot be used.
type CommandError struct {
	Arg   string
	Value string
	Err   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Arg, e.Value, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
