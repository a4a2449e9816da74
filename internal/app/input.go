package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/builder"
	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/pngmeta"
	"github.com/specialistvlad/wfscript/internal/workflow"
)

// ErrNoWorkflow is returned for images without workflow metadata.
var ErrNoWorkflow = errors.New("image carries no workflow metadata")

// script transpiles data, a workflow document or a PNG image carrying one.
// An image stores the workflow in two forms; when the preferred one cannot
// be transpiled the other is tried, and the first error is reported if
// both fail.
func (a *App) script(ctx context.Context, data []byte) (string, error) {
	if !pngmeta.IsPNG(data) {
		return a.transpileDocument(ctx, data)
	}

	texts, err := pngmeta.Decode(data)
	if err != nil {
		return "", err
	}

	keys := []string{pngmeta.KeyWorkflow, pngmeta.KeyPrompt}
	if a.config.PreferAPIFormat {
		keys[0], keys[1] = keys[1], keys[0]
	}

	var firstErr error
	for _, key := range keys {
		text, ok := pngmeta.Lookup(texts, key)
		if !ok {
			continue
		}
		script, err := a.transpileDocument(ctx, []byte(text))
		if err == nil {
			a.logger.Debug("Using image metadata.", "key", key)
			return script, nil
		}
		if firstErr != nil {
			return "", firstErr
		}
		a.logger.Warn("Image metadata could not be used, trying the next form.", "key", key, "error", err)
		firstErr = err
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", ErrNoWorkflow
}

func (a *App) transpileDocument(ctx context.Context, data []byte) (string, error) {
	logger := ctxlog.FromContext(ctx)

	doc, err := workflow.Parse(ctx, data, a.registry)
	if err != nil {
		return "", err
	}
	g, err := builder.Build(ctx, doc, builder.Options{StrictVersion: a.config.StrictVersion})
	if err != nil {
		return "", fmt.Errorf("failed to build graph: %w", err)
	}
	logger.Debug("Graph built.", "nodes", len(g.Nodes()), "links", len(g.Links()))

	return a.transpiler.ToScript(ctx, g, a.config.EndNodes...)
}
