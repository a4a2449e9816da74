package core

import (
	"context"
	"testing"

	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	require.NoError(t, r.ValidateRegistry(context.Background()))
	assert.GreaterOrEqual(t, r.Len(), 40)

	ckpt, ok := r.Operation("CheckpointLoaderSimple")
	require.True(t, ok)
	assert.Equal(t, "Load Checkpoint", ckpt.DisplayName)
	require.Len(t, ckpt.Outputs, 3)
	assert.Equal(t, []string{"MODEL", "CLIP", "VAE"}, []string{ckpt.Outputs[0].Type, ckpt.Outputs[1].Type, ckpt.Outputs[2].Type})

	save, ok := r.Operation("SaveImage")
	require.True(t, ok)
	assert.True(t, save.OutputNode)
	assert.Empty(t, save.Outputs)
	require.Len(t, save.Hidden, 2)
}

func TestModule_WidgetFlags(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	groups, err := r.InputGroups("KSampler")
	require.NoError(t, err)
	seed, ok := groups.Lookup("seed")
	require.True(t, ok)
	assert.True(t, seed.ControlAfterGenerate)
	assert.Equal(t, model.TypeInt, seed.Type)

	sampler, ok := groups.Lookup("sampler_name")
	require.True(t, ok)
	assert.True(t, sampler.IsEnum())

	groups, err = r.InputGroups("LoadImage")
	require.NoError(t, err)
	image, ok := groups.Lookup("image")
	require.True(t, ok)
	assert.True(t, image.ImageUpload)

	groups, err = r.InputGroups("ControlNetApplyAdvanced")
	require.NoError(t, err)
	require.Len(t, groups.Optional, 1)
	assert.Equal(t, "vae", groups.Optional[0].Name)

	outputs, err := r.Outputs("SplitSigmasDenoise")
	require.NoError(t, err)
	assert.Equal(t, "high_sigmas", outputs[0].Name)
	assert.Equal(t, "SIGMAS", outputs[0].Type)
}
