// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hclutil holds small HCL decoding helpers shared by the manifest
// parsers.
package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Duplicate %q block", name),
				Detail:   fmt.Sprintf("Only one %q block is allowed.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		found = block
	}

	return found, diags
}

// DecodeOptional decodes attribute name from attrs into target when it is
// present. Missing attributes leave target untouched.
func DecodeOptional(attrs hcl.Attributes, name string, target any) hcl.Diagnostics {
	attr, exists := attrs[name]
	if !exists {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}
