package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/pngmeta"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "input", a.config.InputPath)

	data, err := os.ReadFile(a.config.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	script, err := a.script(ctx, data)
	if err != nil {
		return err
	}

	switch a.config.Command {
	case CommandEmbed:
		err = a.embed(data, script)
	default:
		err = a.writeScript(script)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) writeScript(script string) error {
	if a.config.OutputPath == "" {
		_, err := fmt.Fprint(a.outW, script)
		return err
	}
	return writeFileAtomic(a.config.OutputPath, []byte(script))
}

func (a *App) embed(image []byte, script string) error {
	if !pngmeta.IsPNG(image) {
		return fmt.Errorf("embed: %s: %w", a.config.InputPath, pngmeta.ErrNotPNG)
	}

	var buf bytes.Buffer
	if err := pngmeta.Embed(&buf, image, a.config.ScriptKey, script); err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	out := a.config.OutputPath
	if out == "" {
		out = a.config.InputPath
	}
	if err := writeFileAtomic(out, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Info("Script embedded.", "image", out, "key", a.config.ScriptKey)
	return nil
}

// writeFileAtomic replaces path through a temporary file in the same
// directory so a failed write never leaves a truncated file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
