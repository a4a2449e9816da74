package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/wfscript/internal/app"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	Dir       string
	Stdout    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp provides a standardized harness for running the application end
// to end. files are written into a fresh directory; relative paths in cfg
// (input, output, schema sources) are resolved against it. A startup panic
// is recovered and reported through Err.
func RunApp(t *testing.T, files map[string][]byte, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	cfg.InputPath = resolve(cfg.InputPath)
	cfg.OutputPath = resolve(cfg.OutputPath)
	for i, p := range cfg.Manifests {
		cfg.Manifests[i] = resolve(p)
	}
	for i, p := range cfg.ObjectInfo {
		cfg.ObjectInfo[i] = resolve(p)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Dir: dir}

	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(stdout, logBuffer, validated, modules...)
	}()
	if result.Err == nil {
		result.Err = result.App.Run(context.Background())
	}

	if os.Getenv("WFSCRIPT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result.Stdout = stdout.String()
	result.LogOutput = logBuffer.String()
	return result
}
