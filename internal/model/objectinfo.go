// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes the engine's `object_info` document, the schema listing
// a running engine serves for every operation type it knows about.
//
// Each input is described by a JSON array: the first element is either a
// type name ("MODEL", "INT") or a list of choices; the optional second
// element is a config object (default, image_upload, options, ...).
package model

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/jsonorder"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/zclconf/go-cty/cty"
)

type objectInfoEntry struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"display_name"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	OutputNode   bool              `json:"output_node"`
	Input        objectInfoInputs  `json:"input"`
	Output       []json.RawMessage `json:"output"`
	OutputName   []string          `json:"output_name"`
	OutputIsList []bool            `json:"output_is_list"`
}

type objectInfoInputs struct {
	Required jsonorder.Object `json:"required"`
	Optional jsonorder.Object `json:"optional"`
	Hidden   jsonorder.Object `json:"hidden"`
}

type inputConfig struct {
	Default              json.RawMessage   `json:"default"`
	Tooltip              string            `json:"tooltip"`
	ImageUpload          bool              `json:"image_upload"`
	ControlAfterGenerate bool              `json:"control_after_generate"`
	Options              []json.RawMessage `json:"options"`
}

// ParseObjectInfo decodes an object_info document into operation schemas,
// in document order.
func ParseObjectInfo(data []byte, source string) ([]*Operation, error) {
	var root jsonorder.Object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode object_info from %s: %w", source, err)
	}

	ops := make([]*Operation, 0, len(root))
	for _, member := range root {
		var entry objectInfoEntry
		if err := json.Unmarshal(member.Value, &entry); err != nil {
			return nil, fmt.Errorf("object_info %s: operation %q: %w", source, member.Key, err)
		}

		op := &Operation{
			Type:          member.Key,
			DisplayName:   entry.DisplayName,
			Description:   entry.Description,
			Category:      entry.Category,
			OutputNode:    entry.OutputNode,
			FSInformation: NewFSInfo(source),
		}

		var err error
		if op.Required, err = decodeInputGroup(entry.Input.Required); err != nil {
			return nil, fmt.Errorf("object_info %s: operation %q: %w", source, member.Key, err)
		}
		if op.Optional, err = decodeInputGroup(entry.Input.Optional); err != nil {
			return nil, fmt.Errorf("object_info %s: operation %q: %w", source, member.Key, err)
		}
		if op.Hidden, err = decodeInputGroup(entry.Input.Hidden); err != nil {
			return nil, fmt.Errorf("object_info %s: operation %q: %w", source, member.Key, err)
		}
		if op.Outputs, err = decodeOutputs(entry); err != nil {
			return nil, fmt.Errorf("object_info %s: operation %q: %w", source, member.Key, err)
		}

		ops = append(ops, op)
	}
	return ops, nil
}

func decodeInputGroup(group jsonorder.Object) ([]Input, error) {
	inputs := make([]Input, 0, len(group))
	for _, member := range group {
		input, err := decodeInputSpec(member.Key, member.Value)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", member.Key, err)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func decodeInputSpec(name string, raw json.RawMessage) (Input, error) {
	input := Input{Name: name}

	var spec []json.RawMessage
	if jsonorder.IsArray(raw) {
		if err := json.Unmarshal(raw, &spec); err != nil {
			return input, err
		}
	} else {
		// Hidden inputs are sometimes given as a bare type string.
		spec = []json.RawMessage{raw}
	}
	if len(spec) == 0 {
		return input, fmt.Errorf("empty input specification")
	}

	var cfg inputConfig
	if len(spec) > 1 && jsonorder.IsObject(spec[1]) {
		if err := json.Unmarshal(spec[1], &cfg); err != nil {
			return input, fmt.Errorf("invalid input config: %w", err)
		}
	}

	switch {
	case jsonorder.IsArray(spec[0]):
		var choices []json.RawMessage
		if err := json.Unmarshal(spec[0], &choices); err != nil {
			return input, err
		}
		input.Type = TypeCombo
		vals, err := choiceValues(choices)
		if err != nil {
			return input, err
		}
		input.Choices = vals
	default:
		if err := json.Unmarshal(spec[0], &input.Type); err != nil {
			return input, fmt.Errorf("invalid input type %s: %w", spec[0], err)
		}
		if input.Type == TypeCombo {
			vals, err := choiceValues(cfg.Options)
			if err != nil {
				return input, err
			}
			input.Choices = vals
		}
	}

	input.Description = cfg.Tooltip
	input.ImageUpload = cfg.ImageUpload
	input.ControlAfterGenerate = cfg.ControlAfterGenerate
	if len(cfg.Default) > 0 {
		lit, err := literal.FromJSON(cfg.Default)
		if err != nil {
			return input, fmt.Errorf("invalid default: %w", err)
		}
		input.Default = &lit
	}
	return input, nil
}

func choiceValues(raw []json.RawMessage) ([]cty.Value, error) {
	vals := make([]cty.Value, 0, len(raw))
	for _, item := range raw {
		lit, err := literal.FromJSON(item)
		if err != nil {
			return nil, fmt.Errorf("invalid choice: %w", err)
		}
		vals = append(vals, lit.Value)
	}
	return vals, nil
}

func decodeOutputs(entry objectInfoEntry) ([]Output, error) {
	outputs := make([]Output, 0, len(entry.Output))
	for i, raw := range entry.Output {
		out := Output{}
		if jsonorder.IsArray(raw) {
			// Enum outputs are published as their choice list.
			out.Type = TypeCombo
		} else if err := json.Unmarshal(raw, &out.Type); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		out.Name = out.Type
		if i < len(entry.OutputName) && entry.OutputName[i] != "" {
			out.Name = entry.OutputName[i]
		}
		if i < len(entry.OutputIsList) {
			out.IsList = entry.OutputIsList[i]
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}
