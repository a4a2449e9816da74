// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package nodeid

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse turns a user supplied identifier (for example a command-line end
// node) into an ID. Integer-looking input becomes a numeric id; everything
// else is kept as a string id. Use Candidates to match it against a document
// that uses the other form.
func Parse(rawID string) (ID, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return ID{}, fmt.Errorf("identifier cannot be empty")
	}
	if n, err := strconv.ParseInt(rawID, 10, 64); err == nil {
		return FromInt(n), nil
	}
	return FromString(rawID), nil
}

// ParseList parses a comma separated or repeated list of identifiers.
func ParseList(raw []string) ([]ID, error) {
	var ids []ID
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := Parse(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Candidates returns the id followed by its coerced alternative form, if
// one exists: a numeric id also matches its string spelling, and a string
// id holding an integer also matches the numeric form.
func Candidates(id ID) []ID {
	if id.Numeric {
		return []ID{id, FromString(id.Text)}
	}
	if n, ok := id.Int(); ok {
		return []ID{id, FromInt(n)}
	}
	return []ID{id}
}

// Less orders ids deterministically: numeric ids first by value, then
// string ids lexicographically.
func Less(a, b ID) bool {
	if a.Numeric != b.Numeric {
		return a.Numeric
	}
	if a.Numeric {
		an, _ := a.Int()
		bn, _ := b.Int()
		if an != bn {
			return an < bn
		}
	}
	return a.Text < b.Text
}
