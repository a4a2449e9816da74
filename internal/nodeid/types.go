// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodeid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the identity of a workflow node. The zero value is invalid.
type ID struct {
	// Text is the canonical textual form, e.g. "7" or "sampler".
	Text string
	// Numeric reports whether the id was serialized as a JSON number.
	Numeric bool
}

// FromInt builds a numeric id.
func FromInt(n int64) ID {
	return ID{Text: strconv.FormatInt(n, 10), Numeric: true}
}

// FromString builds a string id.
func FromString(s string) ID {
	return ID{Text: s}
}

// String returns the canonical textual form of the id.
func (id ID) String() string {
	return id.Text
}

// IsZero reports whether the id was never set.
func (id ID) IsZero() bool {
	return id.Text == ""
}

// Int returns the numeric value of the id when its text is an integer.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(id.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes the id back in the form it was read in.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.Numeric {
		return []byte(id.Text), nil
	}
	return json.Marshal(id.Text)
}

// UnmarshalJSON accepts both JSON integers and JSON strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("node id cannot be null")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid node id %s: %w", data, err)
		}
		if s == "" {
			return fmt.Errorf("node id cannot be empty")
		}
		*id = FromString(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid node id %s: %w", data, err)
	}
	n, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("node id %s is not an integer", data)
		}
		n = int64(f)
	}
	*id = FromInt(n)
	return nil
}
