package app_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/wfscript/internal/app"
	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/pngmeta"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/specialistvlad/wfscript/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertScript(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_WorkflowFormats(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
	}{
		{"editor", testutil.Fixture(t, "default.json")},
		{"prompt", testutil.Fixture(t, "default.api.json")},
		{"image", testutil.PNGWithText(t, pngmeta.Text{Keyword: pngmeta.KeyWorkflow, Value: string(testutil.Fixture(t, "default.json"))})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunApp(t, map[string][]byte{"input": tc.input}, app.Config{InputPath: "input"})
			require.NoError(t, result.Err)
			assertScript(t, testutil.DefaultScript, result.Stdout)
		})
	}
}

func TestRun_ImageFallsBackToPrompt(t *testing.T) {
	image := testutil.PNGWithText(t,
		pngmeta.Text{Keyword: pngmeta.KeyWorkflow, Value: `{"version": 0.4, "nodes": [{"id": 1, "type": "NoSuchNode", "pos": [0, 0], "mode": 0}], "links": []}`},
		pngmeta.Text{Keyword: pngmeta.KeyPrompt, Value: string(testutil.Fixture(t, "default.api.json"))},
	)

	result := testutil.RunApp(t, map[string][]byte{"in.png": image}, app.Config{InputPath: "in.png"})
	require.NoError(t, result.Err)
	assertScript(t, testutil.DefaultScript, result.Stdout)
	assert.Contains(t, result.LogOutput, "Image metadata could not be used")
}

func TestRun_PreferAPIFormat(t *testing.T) {
	image := testutil.PNGWithText(t,
		pngmeta.Text{Keyword: pngmeta.KeyWorkflow, Value: string(testutil.Fixture(t, "default.json"))},
		pngmeta.Text{Keyword: pngmeta.KeyPrompt, Value: `{"5": {"class_type": "EmptyLatentImage", "inputs": {"width": 64, "height": 64, "batch_size": 2}}}`},
	)

	result := testutil.RunApp(t, map[string][]byte{"in.png": image}, app.Config{InputPath: "in.png", PreferAPIFormat: true})
	require.NoError(t, result.Err)
	assertScript(t, "# _ = EmptyLatentImage(64, 64, 2)\n", result.Stdout)
}

func TestRun_ImageWithoutWorkflow(t *testing.T) {
	image := testutil.PNGWithText(t, pngmeta.Text{Keyword: "Software", Value: "paint"})
	result := testutil.RunApp(t, map[string][]byte{"in.png": image}, app.Config{InputPath: "in.png"})
	assert.ErrorIs(t, result.Err, app.ErrNoWorkflow)
}

func TestRun_EndNodesAndOutputFile(t *testing.T) {
	result := testutil.RunApp(t,
		map[string][]byte{"wf.json": testutil.Fixture(t, "default.json")},
		app.Config{InputPath: "wf.json", OutputPath: "out/script.py", EndNodes: []nodeid.ID{nodeid.FromInt(5)}},
	)
	// The output directory does not exist.
	require.Error(t, result.Err)

	result = testutil.RunApp(t,
		map[string][]byte{"wf.json": testutil.Fixture(t, "default.json"), "out/.keep": nil},
		app.Config{InputPath: "wf.json", OutputPath: "out/script.py", EndNodes: []nodeid.ID{nodeid.FromInt(5)}},
	)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Stdout)

	data, err := os.ReadFile(filepath.Join(result.Dir, "out", "script.py"))
	require.NoError(t, err)
	assert.Equal(t, "latent = EmptyLatentImage(512, 512, 1)\n", string(data))
}

func TestRun_Embed(t *testing.T) {
	image := testutil.PNGWithText(t, pngmeta.Text{Keyword: pngmeta.KeyWorkflow, Value: string(testutil.Fixture(t, "default.json"))})

	result := testutil.RunApp(t, map[string][]byte{"in.png": image},
		app.Config{Command: app.CommandEmbed, InputPath: "in.png", ScriptKey: "script", Runtime: true})
	require.NoError(t, result.Err)

	data, err := os.ReadFile(filepath.Join(result.Dir, "in.png"))
	require.NoError(t, err)
	texts, err := pngmeta.Decode(data)
	require.NoError(t, err)

	_, ok := pngmeta.Lookup(texts, pngmeta.KeyWorkflow)
	assert.True(t, ok, "the workflow chunk is kept")
	script, ok := pngmeta.Lookup(texts, "script")
	require.True(t, ok)
	assert.Contains(t, script, "with Workflow():\n    model, clip, vae = CheckpointLoaderSimple(")

	result = testutil.RunApp(t, map[string][]byte{"wf.json": testutil.Fixture(t, "default.json")},
		app.Config{Command: app.CommandEmbed, InputPath: "wf.json", ScriptKey: "script"})
	assert.ErrorIs(t, result.Err, pngmeta.ErrNotPNG)
}

const extraManifest = `
operation "EmptyLatentImage" {
  input "width" {
    type    = INT
    default = 512
  }
  input "height" {
    type    = INT
    default = 512
  }
  input "batch_size" {
    type    = INT
    default = 1
  }
  output "samples" { type = LATENT }
}
`

func TestRun_SchemaSources(t *testing.T) {
	prompt := []byte(`{"1": {"class_type": "EmptyLatentImage", "inputs": {"width": 8, "height": 8, "batch_size": 1}}, "2": {"class_type": "Upscale", "inputs": {"samples": ["1", 0]}}}`)
	objectInfo := []byte(`{"Upscale": {"input": {"required": {"samples": ["LATENT"], "scale": ["FLOAT", {"default": 2.0}]}}, "output": ["LATENT"], "output_name": ["LATENT"]}}`)

	t.Run("files", func(t *testing.T) {
		result := testutil.RunApp(t,
			map[string][]byte{"p.json": prompt, "schemas/extra.hcl": []byte(extraManifest), "info.json": objectInfo},
			app.Config{InputPath: "p.json", Manifests: []string{"schemas"}, ObjectInfo: []string{"info.json"}},
		)
		require.NoError(t, result.Err)
		assertScript(t, "samples = EmptyLatentImage(8, 8, 1)\n# _ = Upscale(samples, 2.0)\n", result.Stdout)
	})

	t.Run("endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(objectInfo)
		}))
		defer srv.Close()

		result := testutil.RunApp(t, map[string][]byte{"p.json": prompt}, app.Config{InputPath: "p.json", Endpoint: srv.URL})
		require.NoError(t, result.Err)
		assertScript(t, "latent = EmptyLatentImage(8, 8, 1)\n# _ = Upscale(latent, 2.0)\n", result.Stdout)
	})

	t.Run("unknown type", func(t *testing.T) {
		result := testutil.RunApp(t, map[string][]byte{"p.json": prompt}, app.Config{InputPath: "p.json"})
		assert.ErrorIs(t, result.Err, registry.ErrUnknownOperationType)
	})
}

func TestNewApp_StartupPanics(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string][]byte
		cfg     app.Config
		message string
	}{
		{
			name:    "no schemas",
			cfg:     app.Config{NoBuiltin: true},
			message: "no operation schemas available",
		},
		{
			name:    "broken manifest",
			files:   map[string][]byte{"m/bad.hcl": []byte(`operation "X" {`)},
			cfg:     app.Config{Manifests: []string{"m"}},
			message: "failed to parse",
		},
		{
			name: "invalid rule extension",
			cfg: app.Config{Rules: rules.Spec{Multiplexers: map[string]rules.MultiplexerSpec{
				"X": {Branches: []rules.BranchSpec{{Input: "a", When: map[string]any{"k": 1}}}},
			}}},
			message: "invalid rule extensions",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			files := tc.files
			if files == nil {
				files = map[string][]byte{}
			}
			files["wf.json"] = testutil.Fixture(t, "default.json")
			tc.cfg.InputPath = "wf.json"

			result := testutil.RunApp(t, files, tc.cfg)
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), "application startup panicked")
			assert.Contains(t, result.Err.Error(), tc.message)
		})
	}
}

func TestNewConfig(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	assert.ErrorContains(t, err, "InputPath")

	_, err = app.NewConfig(app.Config{InputPath: "x", Command: "explode"})
	assert.ErrorContains(t, err, "unknown command")

	_, err = app.NewConfig(app.Config{InputPath: "x", Command: app.CommandEmbed})
	assert.ErrorContains(t, err, "ScriptKey")

	cfg, err := app.NewConfig(app.Config{InputPath: "x"})
	require.NoError(t, err)
	assert.Equal(t, app.CommandTranspile, cfg.Command)
	assert.Equal(t, "warn", cfg.LogLevel)
}
