package cli

import (
	"errors"

	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/pngmeta"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/transpile"
	"github.com/specialistvlad/wfscript/internal/workflow"
)

// Process exit codes.
const (
	ExitFailure            = 1
	ExitUsage              = 2
	ExitMalformed          = 3
	ExitUnsupportedVersion = 4
	ExitUnknownOperation   = 5
	ExitInvariant          = 6
)

// FromError maps an application error to an ExitError carrying the exit
// code of its kind. nil stays nil and ExitErrors pass through.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &ExitError{Code: exitCode(err), Message: err.Error()}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, graph.ErrUnsupportedVersion):
		return ExitUnsupportedVersion
	case errors.Is(err, graph.ErrMalformedGraph),
		errors.Is(err, workflow.ErrInvalidDocument),
		errors.Is(err, pngmeta.ErrNotPNG),
		errors.Is(err, pngmeta.ErrCorrupt):
		return ExitMalformed
	case errors.Is(err, registry.ErrUnknownOperationType),
		errors.Is(err, transpile.ErrUnknownInput):
		return ExitUnknownOperation
	case errors.Is(err, transpile.ErrInvariantViolation):
		return ExitInvariant
	}
	return ExitFailure
}
