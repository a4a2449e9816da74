package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/wfscript/internal/app"
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/transpile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := parse([]string{"wf.json"}, &bytes.Buffer{}, noEnv)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, app.CommandTranspile, cfg.Command)
	assert.Equal(t, "wf.json", cfg.InputPath)
	assert.Equal(t, transpile.ArgsPositional, cfg.ArgsFormat)
	assert.Equal(t, transpile.DefaultRuntimeModule, cfg.RuntimeModule)
	assert.Equal(t, 10*time.Second, cfg.EndpointTimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.EndNodes)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := parse([]string{
		"--args", "KWD", "--runtime", "-e", "9,10", "-e", "sampler",
		"--manifests", "a,b", "--log-level", "DEBUG", "-o", "out.py", "wf.png",
	}, &bytes.Buffer{}, noEnv)
	require.NoError(t, err)

	assert.Equal(t, transpile.ArgsKeyword, cfg.ArgsFormat)
	assert.True(t, cfg.Runtime)
	assert.Equal(t, []nodeid.ID{nodeid.FromInt(9), nodeid.FromInt(10), nodeid.FromString("sampler")}, cfg.EndNodes)
	assert.Equal(t, []string{"a", "b"}, cfg.Manifests)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out.py", cfg.OutputPath)
}

func TestParse_Embed(t *testing.T) {
	cfg, _, err := parse([]string{"embed", "--key", "code", "image.png"}, &bytes.Buffer{}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, app.CommandEmbed, cfg.Command)
	assert.Equal(t, "image.png", cfg.InputPath)
	assert.Equal(t, "code", cfg.ScriptKey)
}

func TestParse_SettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transpile:\n  args_format: pos2kwd\n  runtime: true\nlog:\n  level: info\nschemas:\n  object_info: [info.json]\n"), 0o644))

	env := func(k string) string {
		if k == "WFSCRIPT_CONFIG" {
			return path
		}
		return ""
	}

	cfg, _, err := parse([]string{"wf.json"}, &bytes.Buffer{}, env)
	require.NoError(t, err)
	assert.Equal(t, transpile.ArgsPos2OrKeyword, cfg.ArgsFormat)
	assert.True(t, cfg.Runtime)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"info.json"}, cfg.ObjectInfo)

	// Explicit flags win over the file.
	cfg, _, err = parse([]string{"--args", "pos", "--runtime=false", "wf.json"}, &bytes.Buffer{}, env)
	require.NoError(t, err)
	assert.Equal(t, transpile.ArgsPositional, cfg.ArgsFormat)
	assert.False(t, cfg.Runtime)
}

func TestParse_ShouldExit(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {}, {"embed", "--help"}} {
		t.Run(fmt.Sprint(args), func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := parse(args, out, noEnv)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		message string
	}{
		{"unknown flag", []string{"--nope", "wf.json"}, "unknown flag: --nope"},
		{"bad format", []string{"--args", "named", "wf.json"}, "unknown argument format"},
		{"bad log level", []string{"--log-level", "loud", "wf.json"}, "invalid log-level"},
		{"bad log format", []string{"--log-format", "xml", "wf.json"}, "invalid log-format"},
		{"too many inputs", []string{"a.json", "b.json"}, "accepts at most 1 arg"},
		{"missing settings file", []string{"--config", "/does/not/exist.yaml", "wf.json"}, "settings file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parse(tc.args, &bytes.Buffer{}, noEnv)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.message)
		})
	}
}

func TestFromError(t *testing.T) {
	testCases := []struct {
		err  error
		code int
	}{
		{graph.Malformed("cycle through node %s", "1"), ExitMalformed},
		{fmt.Errorf("build: %w", &graph.VersionError{Got: "0.3", Want: "0.4"}), ExitUnsupportedVersion},
		{&registry.UnknownOperationError{Type: "X"}, ExitUnknownOperation},
		{&transpile.UnknownInputError{Type: "X", Input: "y"}, ExitUnknownOperation},
		{&transpile.InvariantError{Pass: "switch"}, ExitInvariant},
		{fmt.Errorf("disk full"), ExitFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			var exitErr *ExitError
			require.ErrorAs(t, FromError(tc.err), &exitErr)
			assert.Equal(t, tc.code, exitErr.Code)
		})
	}

	assert.NoError(t, FromError(nil))
	usage := &ExitError{Code: ExitUsage, Message: "x"}
	assert.Same(t, usage, FromError(usage))
}
