package builder

import (
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/registry"
)

// Editor-only node types. They never reach an execution engine, so no
// schema source describes them.
const (
	TypeReroute        = "Reroute"
	TypeRerouteRgthree = "Reroute (rgthree)"
	TypePrimitive      = "PrimitiveNode"
	TypeNote           = "Note"
)

var builtinOperations = map[string]*model.Operation{
	TypeReroute: {
		Type:     TypeReroute,
		Required: []model.Input{{Name: "", Type: model.TypeWildcard}},
		Outputs:  []model.Output{{Name: "", Type: model.TypeWildcard}},
	},
	TypeRerouteRgthree: {
		Type:     TypeRerouteRgthree,
		Required: []model.Input{{Name: "", Type: model.TypeWildcard}},
		Outputs:  []model.Output{{Name: "", Type: model.TypeWildcard}},
	},
	TypePrimitive: {
		Type:     TypePrimitive,
		Required: []model.Input{{Name: "value", Type: model.TypeWildcard}},
		Outputs:  []model.Output{{Name: "value", Type: model.TypeWildcard}},
	},
	TypeNote: {
		Type:     TypeNote,
		Required: []model.Input{{Name: "", Type: model.TypeString}},
	},
}

// IsReroute reports whether opType is a pass-through reroute.
func IsReroute(opType string) bool {
	return opType == TypeReroute || opType == TypeRerouteRgthree
}

// IsBuiltin reports whether opType has a built-in schema.
func IsBuiltin(opType string) bool {
	_, ok := builtinOperations[opType]
	return ok
}

type builtinSchemas struct {
	next model.SchemaProvider
}

// WithBuiltins returns a SchemaProvider that answers for the editor-only
// types itself and delegates everything else to next.
func WithBuiltins(next model.SchemaProvider) model.SchemaProvider {
	if b, ok := next.(builtinSchemas); ok {
		return b
	}
	return builtinSchemas{next: next}
}

func (b builtinSchemas) InputGroups(opType string) (model.InputGroups, error) {
	if op, ok := builtinOperations[opType]; ok {
		return op.Groups(), nil
	}
	if b.next == nil {
		return model.InputGroups{}, &registry.UnknownOperationError{Type: opType}
	}
	return b.next.InputGroups(opType)
}

func (b builtinSchemas) Outputs(opType string) ([]model.Output, error) {
	if op, ok := builtinOperations[opType]; ok {
		return op.Outputs, nil
	}
	if b.next == nil {
		return nil, &registry.UnknownOperationError{Type: opType}
	}
	return b.next.Outputs(opType)
}
