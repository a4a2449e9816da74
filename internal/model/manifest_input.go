// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes the `input` blocks of an operation manifest.
//
// Every input declares either a `type` or a `choices` list. Enum inputs get
// the COMBO type unless a type is given explicitly. The `group` attribute
// places the input into the required (default), optional or hidden group.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/wfscript/internal/hclutil"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Input group names accepted by the `group` attribute.
const (
	GroupRequired = "required"
	GroupOptional = "optional"
	GroupHidden   = "hidden"
)

// inputBodySchema is the HCL schema for the body of an `input` block.
var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "choices"},
		{Name: "description"},
		{Name: "default"},
		{Name: "group"},
		{Name: "control_after_generate"},
		{Name: "image_upload"},
	},
}

// parseOperationInputs finds and decodes all 'input' blocks from an operation's HCL body.
func parseOperationInputs(blocks hcl.Blocks) (InputGroups, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var groups InputGroups
	seen := make(map[string]bool)

	for _, block := range blocks.OfType("input") {
		// The schema guarantees us one label.
		inputName := block.Labels[0]

		if seen[inputName] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate input definition",
				Detail:   fmt.Sprintf("An input named '%s' has already been defined.", inputName),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[inputName] = true

		bodyContent, contentDiags := block.Body.Content(inputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		input, group, inputDiags := decodeInput(inputName, block, bodyContent)
		diags = append(diags, inputDiags...)
		if inputDiags.HasErrors() {
			continue
		}

		switch group {
		case GroupRequired:
			groups.Required = append(groups.Required, input)
		case GroupOptional:
			groups.Optional = append(groups.Optional, input)
		case GroupHidden:
			groups.Hidden = append(groups.Hidden, input)
		}
	}

	return groups, diags
}

func decodeInput(name string, block *hcl.Block, content *hcl.BodyContent) (Input, string, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	input := Input{Name: name}

	typeAttr, hasType := content.Attributes["type"]
	choicesAttr, hasChoices := content.Attributes["choices"]
	if !hasType && !hasChoices {
		missingItemRange := block.Body.MissingItemRange()
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing 'type' attribute",
			Detail:   "An input block needs a 'type' attribute or a 'choices' list.",
			Subject:  &missingItemRange,
		})
		return input, "", diags
	}

	if hasType {
		typeName, typeDiags := hclutil.TypeName(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		input.Type = typeName
	} else {
		input.Type = TypeCombo
	}

	if hasChoices {
		choices, choiceDiags := hclutil.Choices(choicesAttr.Expr)
		diags = append(diags, choiceDiags...)
		input.Choices = choices
	}

	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "description", &input.Description)...)
	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "control_after_generate", &input.ControlAfterGenerate)...)
	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "image_upload", &input.ImageUpload)...)

	group := GroupRequired
	if groupAttr, exists := content.Attributes["group"]; exists {
		diags = append(diags, gohcl.DecodeExpression(groupAttr.Expr, nil, &group)...)
		switch group {
		case GroupRequired, GroupOptional, GroupHidden:
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid input group",
				Detail:   fmt.Sprintf("Input '%s' has group %q; expected required, optional or hidden.", name, group),
				Subject:  groupAttr.Expr.Range().Ptr(),
			})
		}
	}

	if defaultAttr, exists := content.Attributes["default"]; exists && !diags.HasErrors() {
		// A nil eval context is used because defaults must be literal values.
		val, valDiags := defaultAttr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if !valDiags.HasErrors() {
			if err := checkDefault(input, val); err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid default value",
					Detail:   fmt.Sprintf("The default value for '%s' is not valid: %s.", name, err),
					Subject:  defaultAttr.Expr.Range().Ptr(),
				})
			} else if lit, err := literal.FromCty(val); err == nil {
				input.Default = &lit
			}
		}
	}

	return input, group, diags
}

// checkDefault ensures a default conforms to the declared type of input.
func checkDefault(input Input, val cty.Value) error {
	if val.IsNull() {
		return nil
	}
	if input.Choices != nil {
		for _, choice := range input.Choices {
			if literal.Matches(choice, val) {
				return nil
			}
		}
		return fmt.Errorf("value is not one of the declared choices")
	}

	switch input.Type {
	case TypeInt:
		var n int64
		if err := gocty.FromCtyValue(val, &n); err != nil {
			return fmt.Errorf("expected an integer: %w", err)
		}
	case TypeFloat:
		if !val.Type().Equals(cty.Number) {
			return fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
		}
	case TypeString:
		if !val.Type().Equals(cty.String) {
			return fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
		}
	case TypeBoolean:
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return fmt.Errorf("expected a bool: %w", err)
		}
	}
	return nil
}
