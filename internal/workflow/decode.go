package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/jsonorder"
	"github.com/specialistvlad/wfscript/internal/model"
)

// ErrInvalidDocument is returned when the input is not a workflow in
// either supported shape.
var ErrInvalidDocument = errors.New("invalid workflow document")

// Format names a serialized workflow shape.
type Format string

const (
	FormatEditor Format = "workflow"
	FormatPrompt Format = "prompt"
)

// Detect reports which shape data has. Editor documents carry a version
// or a node list; any other JSON object is treated as a prompt.
func Detect(data []byte) (Format, error) {
	data = bytes.TrimSpace(data)
	if !jsonorder.IsObject(data) {
		return "", fmt.Errorf("%w: top level must be a JSON object", ErrInvalidDocument)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if _, ok := probe["version"]; ok {
		return FormatEditor, nil
	}
	if nodes, ok := probe["nodes"]; ok && jsonorder.IsArray(nodes) {
		return FormatEditor, nil
	}
	return FormatPrompt, nil
}

// Parse decodes either shape into an editor-format document. schemas is
// only consulted for prompts.
func Parse(ctx context.Context, data []byte, schemas model.SchemaProvider) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	format, err := Detect(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("Detected workflow format.", "format", format)

	if format == FormatPrompt {
		return FromPrompt(ctx, data, schemas)
	}
	return ParseEditor(data)
}

// ParseEditor decodes an editor-format document.
func ParseEditor(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	for i, n := range doc.Nodes {
		if n == nil {
			return nil, fmt.Errorf("%w: node %d is null", ErrInvalidDocument, i)
		}
	}
	return &doc, nil
}
