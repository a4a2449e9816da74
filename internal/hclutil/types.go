// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hclutil

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// TypeName reads a slot type from an HCL expression. Plain type names may
// be written as bare keywords (`type = MODEL`); names that are not valid
// identifiers must be quoted (`type = "*"`).
func TypeName(expr hcl.Expression) (string, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	// A bare keyword parses as a single-step traversal.
	if traversal, travDiags := hcl.AbsTraversalForExpr(expr); !travDiags.HasErrors() {
		if len(traversal) == 1 && traversal.RootName() != "" {
			return traversal.RootName(), nil
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   "The 'type' attribute must be a single type keyword like MODEL or INT, or a quoted type name.",
			Subject:  expr.Range().Ptr(),
		})
		return "", diags
	}

	val, valDiags := expr.Value(nil)
	if valDiags.HasErrors() {
		return "", append(diags, valDiags...)
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) || val.AsString() == "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid type specification",
			Detail:   fmt.Sprintf("Expected a type keyword or a non-empty string, got %s.", val.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		})
		return "", diags
	}
	return val.AsString(), diags
}

// Choices evaluates an enum choice list. Every element must be a known,
// non-null primitive value.
func Choices(expr hcl.Expression) ([]cty.Value, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType() || ty.IsSetType()) {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid choices",
			Detail:   "The 'choices' attribute must be a list of strings, numbers or bools.",
			Subject:  expr.Range().Ptr(),
		})
	}

	choices := make([]cty.Value, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || !elem.IsKnown() || !elem.Type().IsPrimitiveType() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid choice",
				Detail:   "Every choice must be a literal string, number or bool.",
				Subject:  expr.Range().Ptr(),
			})
			continue
		}
		choices = append(choices, elem)
	}
	return choices, diags
}
