// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes the `output` blocks of an operation manifest. The label
// is the output name; `type` defaults to the name, matching the engine's
// habit of naming outputs after their type.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/wfscript/internal/hclutil"
)

// outputBodySchema is the HCL schema for the body of an `output` block.
var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "is_list"},
	},
}

// parseOperationOutputs finds and decodes all 'output' blocks from an operation's HCL body.
func parseOperationOutputs(blocks hcl.Blocks) ([]Output, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var outputs []Output
	seen := make(map[string]bool)

	for _, block := range blocks.OfType("output") {
		// The schema guarantees us one label for the output name.
		outputName := block.Labels[0]

		if seen[outputName] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate output definition",
				Detail:   fmt.Sprintf("An output named '%s' has already been defined.", outputName),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[outputName] = true

		bodyContent, contentDiags := block.Body.Content(outputBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		output := Output{Name: outputName, Type: outputName}
		if typeAttr, exists := bodyContent.Attributes["type"]; exists {
			typeName, typeDiags := hclutil.TypeName(typeAttr.Expr)
			diags = append(diags, typeDiags...)
			if typeDiags.HasErrors() {
				continue
			}
			output.Type = typeName
		}
		diags = append(diags, hclutil.DecodeOptional(bodyContent.Attributes, "is_list", &output.IsList)...)

		outputs = append(outputs, output)
	}

	return outputs, diags
}
