package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/jsonorder"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/nodeid"
)

// promptSpacing is the horizontal distance between reconstructed nodes.
const promptSpacing = 150

type promptNode struct {
	ClassType string           `json:"class_type"`
	Inputs    jsonorder.Object `json:"inputs"`
}

// FromPrompt reconstructs an editor-format document from an
// execution-request map. Positions are laid out left to right in request
// order, inputs keep the request order, and output slots and fan-out come
// from the schemas.
func FromPrompt(ctx context.Context, data []byte, schemas model.SchemaProvider) (*Document, error) {
	logger := ctxlog.FromContext(ctx)

	var prompt jsonorder.Object
	if err := json.Unmarshal(data, &prompt); err != nil {
		return nil, fmt.Errorf("%w: prompt: %w", ErrInvalidDocument, err)
	}

	doc := &Document{
		Version:    json.Number(SupportedVersion),
		FromPrompt: true,
	}
	byID := make(map[nodeid.ID]*Node, len(prompt))
	entries := make([]promptNode, len(prompt))

	for i, member := range prompt {
		id, err := nodeid.Parse(member.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: prompt node %q: %w", ErrInvalidDocument, member.Key, err)
		}
		if err := json.Unmarshal(member.Value, &entries[i]); err != nil {
			return nil, fmt.Errorf("%w: prompt node %q: %w", ErrInvalidDocument, member.Key, err)
		}
		if entries[i].ClassType == "" {
			return nil, fmt.Errorf("%w: prompt node %q has no class_type", ErrInvalidDocument, member.Key)
		}

		outputs, err := schemas.Outputs(entries[i].ClassType)
		if err != nil {
			return nil, fmt.Errorf("prompt node %q: %w", member.Key, err)
		}

		n := &Node{
			ID:            id,
			Type:          entries[i].ClassType,
			Pos:           Position{float64(len(doc.Nodes) * promptSpacing), 0},
			Mode:          ModeAlways,
			WidgetsValues: &WidgetValues{IsNamed: true, Named: jsonorder.Object{}},
			Inputs:        []Input{},
			Outputs:       make([]Output, len(outputs)),
		}
		for slot, out := range outputs {
			n.Outputs[slot] = Output{Name: out.Name, Type: TypeName(out.Type), Links: []int64{}}
		}
		doc.Nodes = append(doc.Nodes, n)
		byID[id] = n
	}

	var nextLink int64
	for i, n := range doc.Nodes {
		groups, err := schemas.InputGroups(n.Type)
		if err != nil {
			return nil, fmt.Errorf("prompt node %q: %w", n.ID, err)
		}

		for _, member := range entries[i].Inputs {
			if !jsonorder.IsArray(member.Value) {
				n.WidgetsValues.Named = append(n.WidgetsValues.Named, member)
				continue
			}

			in, ok := groups.Lookup(member.Key)
			if !ok {
				logger.Debug("Ignoring link to an input without schema.", "node", n.ID, "input", member.Key)
				continue
			}

			origin, slot, err := parsePromptLink(member.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: prompt node %q input %q: %w", ErrInvalidDocument, n.ID, member.Key, err)
			}

			linkID := nextLink
			nextLink++
			doc.Links = append(doc.Links, Link{
				ID:         linkID,
				Origin:     origin,
				OriginSlot: slot,
				Target:     n.ID,
				TargetSlot: len(n.Inputs),
				Type:       TypeName(in.Type),
			})
			n.Inputs = append(n.Inputs, Input{Name: member.Key, Type: TypeName(in.Type), Link: &linkID})

			if producer, ok := byID[origin]; ok && slot >= 0 && slot < len(producer.Outputs) {
				producer.Outputs[slot].Links = append(producer.Outputs[slot].Links, linkID)
			}
		}
	}

	logger.Debug("Reconstructed workflow from prompt.", "nodes", len(doc.Nodes), "links", len(doc.Links))
	return doc, nil
}

// parsePromptLink decodes a `[node_id, slot]` input reference.
func parsePromptLink(raw json.RawMessage) (nodeid.ID, int, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nodeid.ID{}, 0, err
	}
	if len(parts) != 2 {
		return nodeid.ID{}, 0, fmt.Errorf("link reference %s must have two elements", raw)
	}

	var origin nodeid.ID
	if err := json.Unmarshal(parts[0], &origin); err != nil {
		return nodeid.ID{}, 0, err
	}
	// Prompt keys are strings even for numeric ids.
	if !origin.Numeric {
		if parsed, err := nodeid.Parse(origin.Text); err == nil {
			origin = parsed
		}
	}

	var slot int
	if err := json.Unmarshal(parts[1], &slot); err != nil {
		return nodeid.ID{}, 0, fmt.Errorf("slot: %w", err)
	}
	return origin, slot, nil
}
