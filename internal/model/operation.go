// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Operation, the schema of an operation type, and the
// SchemaProvider lookup that consumers of schemas depend on.
//
// Why keep inputs as ordered slices rather than maps?
//
// A serialized workflow stores widget values positionally, and a generated
// script passes arguments positionally. Both are only meaningful relative to
// the declared input order, so the order is part of the contract.
package model

import (
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/zclconf/go-cty/cty"
)

// Primitive widget-carrying type names.
const (
	TypeInt      = "INT"
	TypeFloat    = "FLOAT"
	TypeString   = "STRING"
	TypeBoolean  = "BOOLEAN"
	TypeCombo    = "COMBO"
	TypeWildcard = "*"
)

// Operation is the format-agnostic schema of an operation type.
type Operation struct {
	Type          string
	DisplayName   string
	Description   string
	Category      string
	OutputNode    bool
	FSInformation *FSInfo

	Required []Input
	Optional []Input
	Hidden   []Input
	Outputs  []Output
}

// Groups returns the input groups of the operation.
func (o *Operation) Groups() InputGroups {
	return InputGroups{Required: o.Required, Optional: o.Optional, Hidden: o.Hidden}
}

// Input is a named input slot of an operation.
type Input struct {
	Name        string
	Type        string
	Description string

	// Choices is the closed value set of an enum input; nil otherwise.
	Choices []cty.Value
	// Default is used when a workflow leaves the input unset.
	Default *literal.Literal

	// ControlAfterGenerate marks inputs followed by the editor's
	// "control after generate" widget.
	ControlAfterGenerate bool
	// ImageUpload marks inputs followed by the editor's upload widget.
	ImageUpload bool
}

// IsEnum reports whether the input selects from a closed set of values.
func (i Input) IsEnum() bool {
	return i.Choices != nil || i.Type == TypeCombo
}

// CarriesWidget reports whether the editor renders the input as an inline
// widget whose value is stored in widgets_values.
func (i Input) CarriesWidget() bool {
	if i.IsEnum() {
		return true
	}
	switch i.Type {
	case TypeInt, TypeFloat, TypeString, TypeBoolean:
		return true
	}
	return false
}

// Output is a named output slot of an operation.
type Output struct {
	Name   string
	Type   string
	IsList bool
}

// InputGroups is the ordered input schema of an operation.
type InputGroups struct {
	Required []Input
	Optional []Input
	Hidden   []Input
}

// Positional returns the required inputs followed by the optional ones,
// the order used for positional arguments.
func (g InputGroups) Positional() []Input {
	out := make([]Input, 0, len(g.Required)+len(g.Optional))
	out = append(out, g.Required...)
	return append(out, g.Optional...)
}

// Lookup finds a required or optional input by name.
func (g InputGroups) Lookup(name string) (Input, bool) {
	for _, in := range g.Positional() {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// SchemaProvider resolves operation types to their schemas. Implementations
// must treat the returned data as read-only.
type SchemaProvider interface {
	InputGroups(opType string) (InputGroups, error)
	Outputs(opType string) ([]Output, error)
}
