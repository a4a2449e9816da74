package model

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseManifest(t *testing.T, src string) ([]*Operation, error) {
	t.Helper()
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(src), "manifest.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	return NewOperations(context.Background(), file, "manifest.hcl")
}

func TestParseManifestFile_Success(t *testing.T) {
	ops, err := parseManifest(t, `
operation "KSampler" {
  description = "Denoises a latent."

  meta {
    category    = "sampling"
    output_node = false
  }

  input "model" { type = MODEL }
  input "seed" {
    type    = INT
    default = 0
  }
  input "sampler_name" {
    choices = ["euler", "ddim"]
    default = "euler"
  }
  input "denoise" {
    type    = FLOAT
    default = 1.0
  }
  input "mask" {
    type  = MASK
    group = "optional"
  }
  input "prompt" {
    type  = PROMPT
    group = "hidden"
  }

  output "LATENT" {}
}

operation "Reroute Any" {
  input "" { type = "*" }
  output "out" { type = "*" }
}
`)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	ks := ops[0]
	assert.Equal(t, "KSampler", ks.Type)
	assert.Equal(t, "Denoises a latent.", ks.Description)
	assert.Equal(t, "sampling", ks.Category)
	assert.Equal(t, "manifest.hcl", ks.FSInformation.FilePath)

	names := func(inputs []Input) []string {
		var out []string
		for _, in := range inputs {
			out = append(out, in.Name)
		}
		return out
	}
	assert.Equal(t, []string{"model", "seed", "sampler_name", "denoise"}, names(ks.Required))
	assert.Equal(t, []string{"mask"}, names(ks.Optional))
	assert.Equal(t, []string{"prompt"}, names(ks.Hidden))

	sampler := ks.Required[2]
	assert.Equal(t, TypeCombo, sampler.Type)
	assert.True(t, sampler.IsEnum())
	require.Len(t, sampler.Choices, 2)
	assert.True(t, sampler.Choices[1].RawEquals(cty.StringVal("ddim")))
	require.NotNil(t, sampler.Default)
	assert.Equal(t, "'euler'", sampler.Default.Expr)

	denoise := ks.Required[3]
	require.NotNil(t, denoise.Default)
	assert.Equal(t, "1", denoise.Default.Expr)
	assert.True(t, denoise.CarriesWidget())
	assert.False(t, ks.Required[0].CarriesWidget())

	assert.Equal(t, []Output{{Name: "LATENT", Type: "LATENT"}}, ks.Outputs)
	assert.Equal(t, []Output{{Name: "out", Type: "*"}}, ops[1].Outputs)
	assert.Equal(t, "*", ops[1].Required[0].Type)
}

func TestParseManifestFile_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name: "missing type and choices",
			src: `operation "X" {
  input "a" {}
}`,
			wantErr: "Missing 'type' attribute",
		},
		{
			name: "duplicate input",
			src: `operation "X" {
  input "a" { type = INT }
  input "a" { type = INT }
}`,
			wantErr: "Duplicate input definition",
		},
		{
			name: "duplicate output",
			src: `operation "X" {
  output "IMAGE" {}
  output "IMAGE" {}
}`,
			wantErr: "Duplicate output definition",
		},
		{
			name: "fractional default for INT",
			src: `operation "X" {
  input "steps" {
    type    = INT
    default = 2.5
  }
}`,
			wantErr: "Invalid default value",
		},
		{
			name: "default outside choices",
			src: `operation "X" {
  input "mode" {
    choices = ["a", "b"]
    default = "c"
  }
}`,
			wantErr: "Invalid default value",
		},
		{
			name: "unknown group",
			src: `operation "X" {
  input "a" {
    type  = INT
    group = "extra"
  }
}`,
			wantErr: "Invalid input group",
		},
		{
			name: "duplicate meta block",
			src: `operation "X" {
  meta {}
  meta {}
}`,
			wantErr: "Duplicate \"meta\" block",
		},
		{
			name:    "unknown top-level block",
			src:     `runner "X" {}`,
			wantErr: "Unsupported block type",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseManifest(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseManifestFile_NilFile(t *testing.T) {
	_, diags := ParseManifestFile(context.Background(), nil, "none.hcl")
	require.True(t, diags.HasErrors())
}
