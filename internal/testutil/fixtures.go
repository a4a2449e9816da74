package testutil

import (
	"bytes"
	"embed"
	"image"
	"image/png"
	"testing"

	"github.com/specialistvlad/wfscript/internal/pngmeta"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.json
var fixtures embed.FS

// DefaultScript is the script of the default.json and default.api.json
// fixtures against the compiled-in catalogs.
const DefaultScript = `model, clip, vae = CheckpointLoaderSimple('v1-5-pruned-emaonly.ckpt')
conditioning = CLIPTextEncode('beautiful scenery nature glass bottle landscape, , purple galaxy bottle,', clip)
conditioning2 = CLIPTextEncode('text, watermark', clip)
latent = EmptyLatentImage(512, 512, 1)
latent = KSampler(model, 156680208700286, 20, 8, 'euler', 'normal', conditioning, conditioning2, latent, 1)
image = VAEDecode(latent, vae)
SaveImage(image, 'ComfyUI')
`

// Fixture returns a shared workflow fixture by file name.
func Fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

// PNGWithText returns a small PNG image carrying the given text chunks in
// order.
func PNGWithText(t *testing.T, texts ...pngmeta.Text) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	data := buf.Bytes()
	for _, text := range texts {
		var out bytes.Buffer
		require.NoError(t, pngmeta.Embed(&out, data, text.Keyword, text.Value))
		data = out.Bytes()
	}
	return data
}
