package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/wfscript/internal/model"
)

// ErrUnknownOperationType is returned when no schema is registered for an
// operation type.
var ErrUnknownOperationType = errors.New("unknown operation type")

// UnknownOperationError names the operation type that could not be resolved.
type UnknownOperationError struct {
	Type string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownOperationType, e.Type)
}

func (e *UnknownOperationError) Unwrap() error {
	return ErrUnknownOperationType
}

// Module is the interface that all compiled-in schema catalogs must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the operation schemas known to a single application
// instance. It implements model.SchemaProvider.
type Registry struct {
	operations map[string]*model.Operation
}

var _ model.SchemaProvider = (*Registry)(nil)

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		operations: make(map[string]*model.Operation),
	}
}

// RegisterOperation registers a compiled-in schema. Registering the same
// type twice is a programming error.
func (r *Registry) RegisterOperation(op *model.Operation) {
	if _, exists := r.operations[op.Type]; exists {
		panic(fmt.Sprintf("operation schema with type '%s' already registered", op.Type))
	}
	slog.Debug("Registering operation schema.", "type", op.Type)
	r.operations[op.Type] = op
}

// Merge adds schemas loaded at runtime. Later sources replace earlier
// definitions of the same type; the number of replaced types is returned.
func (r *Registry) Merge(ops []*model.Operation) int {
	replaced := 0
	for _, op := range ops {
		if _, exists := r.operations[op.Type]; exists {
			replaced++
		}
		r.operations[op.Type] = op
	}
	return replaced
}

// Operation returns the schema registered for opType.
func (r *Registry) Operation(opType string) (*model.Operation, bool) {
	op, ok := r.operations[opType]
	return op, ok
}

// Types returns all registered operation types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.operations))
	for t := range r.operations {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.operations)
}

// InputGroups implements model.SchemaProvider.
func (r *Registry) InputGroups(opType string) (model.InputGroups, error) {
	op, ok := r.operations[opType]
	if !ok {
		return model.InputGroups{}, &UnknownOperationError{Type: opType}
	}
	return op.Groups(), nil
}

// Outputs implements model.SchemaProvider.
func (r *Registry) Outputs(opType string) ([]model.Output, error) {
	op, ok := r.operations[opType]
	if !ok {
		return nil, &UnknownOperationError{Type: opType}
	}
	return op.Outputs, nil
}
