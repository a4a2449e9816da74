package pngmeta

import (
	"bytes"
	"compress/zlib"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func embed(t *testing.T, data []byte, keyword, value string) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Embed(&out, data, keyword, value))
	return out.Bytes()
}

func TestEmbed_RoundTrip(t *testing.T) {
	data := tinyPNG(t)
	data = embed(t, data, KeyPrompt, `{"1": {}}`)
	data = embed(t, data, KeyWorkflow, `{"version": 0.4}`)

	texts, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []Text{
		{Keyword: KeyPrompt, Value: `{"1": {}}`},
		{Keyword: KeyWorkflow, Value: `{"version": 0.4}`},
	}, texts)

	// The image itself is unchanged.
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, color.RGBAModel.Convert(img.At(1, 1)))
}

func TestEmbed_ReplacesKeyword(t *testing.T) {
	data := embed(t, tinyPNG(t), "script", "old")
	data = embed(t, data, "script", "positive = CLIPTextEncode('café', clip)")

	texts, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, texts, 1)
	v, ok := Lookup(texts, "script")
	require.True(t, ok)
	assert.Equal(t, "positive = CLIPTextEncode('café', clip)", v)

	_, ok = Lookup(texts, KeyWorkflow)
	assert.False(t, ok)
}

func TestDecode_CompressedText(t *testing.T) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, _ = zw.Write([]byte("compressed value"))
	require.NoError(t, zw.Close())

	data := tinyPNG(t)
	var out bytes.Buffer
	out.Write(data[:len(data)-12])
	require.NoError(t, writeChunk(&out, chunk{typ: typeCompressedText, data: append([]byte("k\x00\x00"), z.Bytes()...)}))
	out.Write(data[len(data)-12:])

	texts, err := Decode(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []Text{{Keyword: "k", Value: "compressed value"}}, texts)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"nodes": []}`))
	assert.ErrorIs(t, err, ErrNotPNG)

	data := embed(t, tinyPNG(t), KeyWorkflow, "{}")
	corrupt := bytes.Clone(data)
	i := bytes.Index(corrupt, []byte("tEXt"))
	corrupt[i+5] ^= 0xff
	_, err = Decode(corrupt)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(data[:len(data)-12])
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestEmbed_InvalidKeyword(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, Embed(&out, tinyPNG(t), "", "x"))
	assert.Error(t, Embed(&out, tinyPNG(t), "bad\nkey", "x"))
}
