package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawID(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"KSampler", "KSampler"},
		{"  CR Load LoRA", "CR_Load_LoRA"},
		{"Reroute (rgthree)", "Reroute_rgthree"},
		{"4x-UltraSharp", "_4x_UltraSharp"},
		{"a  --  b", "a_b"},
		{"___", "_"},
		{"", "_"},
		{"class", "class_"},
		{"None", "None_"},
		{"画像 出力", "画像_出力"},
		{"①x", "_x"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, RawID(tc.in))
		})
	}
}

func TestCase(t *testing.T) {
	assert.Equal(t, "clip_text_encode", ToSnake("ClipTextEncode"))
	assert.Equal(t, "vae", ToSnake("VAE"))
	assert.Equal(t, "vaedecode", VarID("VAEDecode"))
	assert.Equal(t, "empty_latent_image", VarID("EmptyLatentImage"))
	assert.Equal(t, "model", VarID("MODEL"))
	assert.Equal(t, "positive_prompt", VarID("Positive Prompt"))

	assert.Equal(t, "Vae", ToCamel("VAE"))
	assert.Equal(t, "CLIPTextEncode", ToCamel("CLIPTextEncode"))
	assert.Equal(t, "CRLoadLoRA", ClassID("CR Load LoRA"))
	assert.Equal(t, "RerouteRgthree", ClassID("Reroute (rgthree)"))
	assert.Equal(t, "ImageScaleBy", ClassID("ImageScaleBy"))
	assert.Equal(t, "", ToCamel(""))
}

type producer struct {
	node string
	slot int
}

func TestTable_Assign(t *testing.T) {
	tbl := NewTable()

	a := tbl.Assign("image", producer{"1", 0})
	b := tbl.Assign("image", producer{"2", 0})
	c := tbl.Assign("image", producer{"3", 0})
	assert.Equal(t, []string{"image", "image2", "image3"}, []string{a, b, c})

	// Idempotent per producer.
	assert.Equal(t, "image2", tbl.Assign("image", producer{"2", 0}))
	assert.Equal(t, "image2", tbl.Assign("other", producer{"2", 0}))
	assert.Equal(t, 3, tbl.Len())

	tbl.Release("image2")
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "image2", tbl.Assign("image", producer{"4", 0}))

	tbl.Release("missing")
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_DeclareFirstWins(t *testing.T) {
	tbl := NewTable()
	require.Equal(t, "KSampler", tbl.Declare("KSampler"))
	require.Equal(t, "KSampler", tbl.Declare("KSampler"))
	assert.Equal(t, 1, tbl.Len())

	// A declared name is never handed to a producer.
	assert.Equal(t, "KSampler2", tbl.Assign("KSampler", producer{"1", 0}))
}
