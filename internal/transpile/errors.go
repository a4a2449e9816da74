package transpile

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/nodeid"
)

var (
	// ErrUnknownInput is returned when a node has a link into an input its
	// operation schema does not declare.
	ErrUnknownInput = errors.New("unknown input")
	// ErrInvariantViolation is returned when a rewrite pass finds a
	// statement it would otherwise rewrite incorrectly.
	ErrInvariantViolation = errors.New("rewrite pass invariant violation")
)

// UnknownInputError names the node and the undeclared input.
type UnknownInputError struct {
	Node  nodeid.ID
	Type  string
	Input string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("node %s (%s): linked input %q is not declared by the operation", e.Node, e.Type, e.Input)
}

func (e *UnknownInputError) Unwrap() error { return ErrUnknownInput }

// InvariantError reports a failed self-check of a rewrite pass.
type InvariantError struct {
	Pass      string
	Node      nodeid.ID
	Statement string
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s pass, node %s: %s: %q", e.Pass, e.Node, e.Reason, e.Statement)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }
