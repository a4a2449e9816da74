// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/wfscript/internal/jsonorder"
	"github.com/specialistvlad/wfscript/internal/nodeid"
)

// SupportedVersion is the editor format version this package is written against.
const SupportedVersion = "0.4"

// Mode is the execution mode of a node as stored by the editor.
type Mode int

const (
	ModeAlways  Mode = 0
	ModeOnEvent Mode = 1
	ModeNever   Mode = 2
	ModeTrigger Mode = 3
	ModeBypass  Mode = 4
)

// Document is an editor-format workflow.
type Document struct {
	Version json.Number `json:"version"`
	Nodes   []*Node     `json:"nodes"`
	Links   []Link      `json:"links"`

	// FromPrompt marks documents reconstructed from the execution-request format.
	FromPrompt bool `json:"-"`
}

// VersionSupported reports whether the document declares the supported
// format version.
func (d *Document) VersionSupported() bool {
	v, err := strconv.ParseFloat(d.Version.String(), 64)
	if err != nil {
		return false
	}
	want, _ := strconv.ParseFloat(SupportedVersion, 64)
	return v == want
}

// Node is a single operation node.
type Node struct {
	ID            nodeid.ID     `json:"id"`
	Type          string        `json:"type"`
	Pos           Position      `json:"pos"`
	Mode          Mode          `json:"mode"`
	Title         string        `json:"title,omitempty"`
	WidgetsValues *WidgetValues `json:"widgets_values,omitempty"`
	Inputs        []Input       `json:"inputs,omitempty"`
	Outputs       []Output      `json:"outputs,omitempty"`
}

// Input is an input slot of a node.
type Input struct {
	Name string   `json:"name"`
	Type TypeName `json:"type"`
	Link *int64   `json:"link"`
}

// Output is an output slot of a node.
type Output struct {
	Name      string   `json:"name"`
	Type      TypeName `json:"type"`
	SlotIndex *int     `json:"slot_index,omitempty"`
	Links     []int64  `json:"links"`
}

// Position is a 2D editor coordinate.
type Position [2]float64

// Sum returns x + y, the key used to order independent sinks.
func (p Position) Sum() float64 {
	return p[0] + p[1]
}

// UnmarshalJSON accepts `[x, y]` and the `{"0": x, "1": y}` object form
// some editor versions emit.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = Position{}
		return nil
	}

	if jsonorder.IsObject(data) {
		var obj map[string]float64
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid position %s: %w", data, err)
		}
		*p = Position{obj["0"], obj["1"]}
		return nil
	}

	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("invalid position %s: %w", data, err)
	}
	if len(arr) < 2 {
		return fmt.Errorf("position needs two coordinates, got %d", len(arr))
	}
	*p = Position{arr[0], arr[1]}
	return nil
}

// TypeName is a declared value type. A few editors store a list of
// accepted types; those are joined with a comma.
type TypeName string

// UnmarshalJSON accepts a string, a list of strings or a number (some
// third-party nodes store a placeholder 0 here).
func (t *TypeName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case jsonorder.IsArray(data):
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid type list %s: %w", data, err)
		}
		*t = TypeName(strings.Join(parts, ","))
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TypeName(s)
	default:
		*t = TypeName(string(data))
	}
	return nil
}

// WidgetValues holds inline literal values, either positional (editor
// format) or already keyed by input name (reconstructed prompts).
type WidgetValues struct {
	List  []json.RawMessage
	Named jsonorder.Object
	// IsNamed reports whether Named is the active representation.
	IsNamed bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *WidgetValues) UnmarshalJSON(data []byte) error {
	if jsonorder.IsObject(data) {
		w.IsNamed = true
		return json.Unmarshal(data, &w.Named)
	}
	w.IsNamed = false
	return json.Unmarshal(data, &w.List)
}

// MarshalJSON implements json.Marshaler.
func (w WidgetValues) MarshalJSON() ([]byte, error) {
	if w.IsNamed {
		return json.Marshal(w.Named)
	}
	if w.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w.List)
}

// Len returns the number of values.
func (w *WidgetValues) Len() int {
	if w == nil {
		return 0
	}
	if w.IsNamed {
		return len(w.Named)
	}
	return len(w.List)
}

// Link is a typed connection from an output slot to an input slot.
type Link struct {
	ID         int64
	Origin     nodeid.ID
	OriginSlot int
	Target     nodeid.ID
	TargetSlot int
	Type       TypeName
}

// linkObject is the object form of a link.
type linkObject struct {
	ID         int64     `json:"id"`
	OriginID   nodeid.ID `json:"origin_id"`
	OriginSlot int       `json:"origin_slot"`
	TargetID   nodeid.ID `json:"target_id"`
	TargetSlot int       `json:"target_slot"`
	Type       TypeName  `json:"type"`
}

// UnmarshalJSON accepts the compact array form
// `[id, origin, origin_slot, target, target_slot, type]` and the object form.
func (l *Link) UnmarshalJSON(data []byte) error {
	if jsonorder.IsObject(data) {
		var obj linkObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("invalid link object: %w", err)
		}
		*l = Link{
			ID:         obj.ID,
			Origin:     obj.OriginID,
			OriginSlot: obj.OriginSlot,
			Target:     obj.TargetID,
			TargetSlot: obj.TargetSlot,
			Type:       obj.Type,
		}
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("invalid link %s: %w", data, err)
	}
	if len(parts) < 5 {
		return fmt.Errorf("link %s has %d fields, want 6", data, len(parts))
	}

	var out Link
	fields := []any{&out.ID, &out.Origin, &out.OriginSlot, &out.Target, &out.TargetSlot}
	for i, field := range fields {
		if err := json.Unmarshal(parts[i], field); err != nil {
			return fmt.Errorf("link %s field %d: %w", data, i, err)
		}
	}
	if len(parts) > 5 {
		if err := json.Unmarshal(parts[5], &out.Type); err != nil {
			return fmt.Errorf("link %s type: %w", data, err)
		}
	}
	*l = out
	return nil
}

// MarshalJSON writes the compact array form.
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.ID, l.Origin, l.OriginSlot, l.Target, l.TargetSlot, l.Type})
}
