// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package rules

import (
	"sort"

	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/zclconf/go-cty/cty"
)

// Field is a required value of one named input.
type Field struct {
	Name  string
	Value cty.Value
}

// Condition is a set of fields that must all hold.
type Condition []Field

// Multiplexer describes a node selecting one of several inputs of
// ValueType depending on its widget values.
type Multiplexer struct {
	ValueType string
	// Branches are tried in order; the first whose condition holds is selected.
	Branches []Branch
}

// Branch is one selectable input.
type Branch struct {
	Input string
	When  Condition
}

// Tables holds the switch and multiplexer rules by operation type.
type Tables struct {
	switches     map[string][]Condition
	multiplexers map[string]Multiplexer
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		switches:     make(map[string][]Condition),
		multiplexers: make(map[string]Multiplexer),
	}
}

// SetSwitch replaces the disabling conditions of opType.
func (t *Tables) SetSwitch(opType string, conditions ...Condition) {
	t.switches[opType] = conditions
}

// SetMultiplexer replaces the multiplexer rule of opType.
func (t *Tables) SetMultiplexer(opType string, m Multiplexer) {
	t.multiplexers[opType] = m
}

// Switch returns the disabling conditions of opType. The node is a no-op
// when any one of them holds.
func (t *Tables) Switch(opType string) ([]Condition, bool) {
	c, ok := t.switches[opType]
	return c, ok
}

// Multiplexer returns the multiplexer rule of opType.
func (t *Tables) Multiplexer(opType string) (Multiplexer, bool) {
	m, ok := t.multiplexers[opType]
	return m, ok
}

// SwitchTypes returns the operation types with switch rules, sorted.
func (t *Tables) SwitchTypes() []string {
	return sortedKeys(t.switches)
}

// MultiplexerTypes returns the operation types with multiplexer rules, sorted.
func (t *Tables) MultiplexerTypes() []string {
	return sortedKeys(t.multiplexers)
}

// Values is a lookup of literal input values by name.
type Values func(name string) (cty.Value, bool)

// Holds reports whether every field of c has a value equal to the required
// one. A missing value fails the condition.
func (c Condition) Holds(values Values) bool {
	for _, f := range c {
		v, ok := values(f.Name)
		if !ok || !literal.Matches(f.Value, v) {
			return false
		}
	}
	return true
}

// Admits is like Holds but ignores fields without a value: an input
// removed from the node cannot rule a branch out.
func (c Condition) Admits(values Values) bool {
	for _, f := range c {
		v, ok := values(f.Name)
		if ok && !literal.Matches(f.Value, v) {
			return false
		}
	}
	return true
}

// AnyHolds reports whether at least one condition holds.
func AnyHolds(conditions []Condition, values Values) bool {
	for _, c := range conditions {
		if c.Holds(values) {
			return true
		}
	}
	return false
}

// Constrained reports whether at least one field of c has a value.
func (c Condition) Constrained(values Values) bool {
	for _, f := range c {
		if _, ok := values(f.Name); ok {
			return true
		}
	}
	return false
}

// Select returns the first branch admitted by values. A branch none of
// whose fields has a value is never selected.
func (m Multiplexer) Select(values Values) (Branch, bool) {
	for _, b := range m.Branches {
		if b.When.Constrained(values) && b.When.Admits(values) {
			return b, true
		}
	}
	return Branch{}, false
}

// Branch returns the branch reading input.
func (m Multiplexer) Branch(input string) (Branch, bool) {
	for _, b := range m.Branches {
		if b.Input == input {
			return b, true
		}
	}
	return Branch{}, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
