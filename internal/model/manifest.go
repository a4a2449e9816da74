// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes HCL manifests into Operation schemas.
//
// A manifest file holds one or more `operation` blocks:
//
//	operation "KSampler" {
//	  description = "Denoises a latent image."
//
//	  meta {
//	    category = "sampling"
//	  }
//
//	  input "model" { type = MODEL }
//	  input "seed" {
//	    type    = INT
//	    default = 0
//	  }
//	  input "sampler_name" { choices = ["euler", "ddim"] }
//	  input "mask" {
//	    type  = MASK
//	    group = "optional"
//	  }
//
//	  output "LATENT" {}
//	}
//
// Input and output blocks are read in source order, which becomes the
// declared slot order.
package model

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/hclutil"
)

// NewOperations is a factory function for creating Operation schemas from a
// parsed manifest file.
func NewOperations(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Operation, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating operation schemas", "file_path", filePath)

	ops, diags := ParseManifestFile(ctx, hclFile, filePath)
	if diags.HasErrors() {
		return nil, diags
	}

	return ops, nil
}

// manifestRootSchema defines the top-level structure of the file, expecting one or more 'operation' blocks.
type manifestRootSchema struct {
	Operations []*hclOperation `hcl:"operation,block"`
}

// hclOperation represents a single 'operation' block in the HCL file for decoding purposes.
type hclOperation struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// operationBodySchema is the schema for the body of an 'operation' block.
var operationBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "meta"},
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

// metaBodySchema is the schema for the optional 'meta' block.
var metaBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "category"},
		{Name: "display_name"},
		{Name: "output_node"},
	},
}

// ParseManifestFile decodes an HCL file that contains one or more 'operation' blocks.
func ParseManifestFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Operation, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing operation schemas from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	root := &manifestRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, root)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	ops := make([]*Operation, 0, len(root.Operations))
	for _, parsed := range root.Operations {
		bodyContent, contentDiags := parsed.Body.Content(operationBodySchema)
		allDiags = append(allDiags, contentDiags...)
		if contentDiags.HasErrors() {
			continue // Skip this operation but continue parsing others
		}

		op := &Operation{
			Type:          parsed.Type,
			FSInformation: NewFSInfo(filePath),
		}

		allDiags = append(allDiags, hclutil.DecodeOptional(bodyContent.Attributes, "description", &op.Description)...)
		allDiags = append(allDiags, parseMeta(op, bodyContent.Blocks)...)

		groups, inputDiags := parseOperationInputs(bodyContent.Blocks)
		allDiags = append(allDiags, inputDiags...)
		op.Required, op.Optional, op.Hidden = groups.Required, groups.Optional, groups.Hidden

		var outputDiags hcl.Diagnostics
		op.Outputs, outputDiags = parseOperationOutputs(bodyContent.Blocks)
		allDiags = append(allDiags, outputDiags...)

		ops = append(ops, op)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed operation schemas", "count", len(ops))
	return ops, nil
}

func parseMeta(op *Operation, blocks hcl.Blocks) hcl.Diagnostics {
	block, diags := hclutil.FindUniqueBlock(blocks, "meta")
	if block == nil || diags.HasErrors() {
		return diags
	}

	content, contentDiags := block.Body.Content(metaBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return diags
	}

	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "category", &op.Category)...)
	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "display_name", &op.DisplayName)...)
	diags = append(diags, hclutil.DecodeOptional(content.Attributes, "output_node", &op.OutputNode)...)
	return diags
}
