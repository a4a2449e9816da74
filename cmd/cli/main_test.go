package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/wfscript/internal/cli"
	"github.com/specialistvlad/wfscript/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A manifest with a syntax error is guaranteed to cause a panic while
	// app.NewApp loads schemas.
	tempDir := t.TempDir()
	manifest := filepath.Join(tempDir, "broken.hcl")
	require.NoError(t, os.WriteFile(manifest, []byte(`operation "X" {`), 0o600))
	workflow := filepath.Join(tempDir, "wf.json")
	require.NoError(t, os.WriteFile(workflow, testutil.Fixture(t, "default.json"), 0o600))

	args := []string{"--manifests", manifest, workflow}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, errOut, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse")
	require.Empty(t, out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed")
	require.Empty(t, out.String(), "stdout is reserved for the script")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, args)

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_Transpile(t *testing.T) {
	t.Parallel()

	workflow := filepath.Join(t.TempDir(), "wf.json")
	require.NoError(t, os.WriteFile(workflow, testutil.Fixture(t, "default.json"), 0o600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, run(out, errOut, []string{workflow}))
	require.Equal(t, testutil.DefaultScript, out.String())
}

func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		document string
		args     []string
		code     int
	}{
		{"malformed", `{"version": 0.4, "nodes": [], "links": [[1, 1, 0, 2, 0, "X"]]}`, nil, cli.ExitMalformed},
		{"not json", `nodes`, nil, cli.ExitMalformed},
		{"strict version", `{"version": 0.3, "nodes": [], "links": []}`, []string{"--strict-version"}, cli.ExitUnsupportedVersion},
		{"unknown type", `{"1": {"class_type": "NoSuchNode", "inputs": {}}}`, nil, cli.ExitUnknownOperation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "wf.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.document), 0o600))

			err := run(&bytes.Buffer{}, &bytes.Buffer{}, append(tc.args, path))
			var exitErr *cli.ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			require.Equal(t, tc.code, exitErr.Code, exitErr.Message)
		})
	}
}
