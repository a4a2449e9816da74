package rules

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Spec is the configuration-file form of rule extensions. An entry
// replaces the built-in rule of the same type; an empty entry removes it.
type Spec struct {
	Switches     map[string][]map[string]any `yaml:"switches"`
	Multiplexers map[string]MultiplexerSpec  `yaml:"multiplexers"`
}

// MultiplexerSpec is the configuration-file form of a Multiplexer.
type MultiplexerSpec struct {
	Type     string       `yaml:"type"`
	Branches []BranchSpec `yaml:"branches"`
}

// BranchSpec is the configuration-file form of a Branch.
type BranchSpec struct {
	Input string         `yaml:"input"`
	When  map[string]any `yaml:"when"`
}

// Apply merges spec into the tables.
func (t *Tables) Apply(spec Spec) error {
	for _, opType := range sortedKeys(spec.Switches) {
		entries := spec.Switches[opType]
		if len(entries) == 0 {
			delete(t.switches, opType)
			continue
		}
		conditions := make([]Condition, 0, len(entries))
		for i, fields := range entries {
			c, err := conditionFromSpec(fields)
			if err != nil {
				return fmt.Errorf("switch rule %q, condition %d: %w", opType, i, err)
			}
			conditions = append(conditions, c)
		}
		t.SetSwitch(opType, conditions...)
	}

	for _, opType := range sortedKeys(spec.Multiplexers) {
		ms := spec.Multiplexers[opType]
		if len(ms.Branches) == 0 {
			delete(t.multiplexers, opType)
			continue
		}
		if ms.Type == "" {
			return fmt.Errorf("multiplexer rule %q: missing value type", opType)
		}
		m := Multiplexer{ValueType: ms.Type}
		seen := make(map[string]bool)
		for i, bs := range ms.Branches {
			if bs.Input == "" {
				return fmt.Errorf("multiplexer rule %q, branch %d: missing input", opType, i)
			}
			if seen[bs.Input] {
				return fmt.Errorf("multiplexer rule %q: duplicate branch %q", opType, bs.Input)
			}
			seen[bs.Input] = true
			c, err := conditionFromSpec(bs.When)
			if err != nil {
				return fmt.Errorf("multiplexer rule %q, branch %q: %w", opType, bs.Input, err)
			}
			m.Branches = append(m.Branches, Branch{Input: bs.Input, When: c})
		}
		t.SetMultiplexer(opType, m)
	}
	return nil
}

func conditionFromSpec(fields map[string]any) (Condition, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("condition has no fields")
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	c := make(Condition, 0, len(names))
	for _, name := range names {
		v, err := toValue(fields[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		c = append(c, Field{Name: name, Value: v})
	}
	return c, nil
}

// toValue converts a decoded configuration scalar into a cty value.
func toValue(raw any) (cty.Value, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, err
	}
	if !ty.IsPrimitiveType() {
		return cty.NilVal, fmt.Errorf("value must be a string, number or bool, got %s", ty.FriendlyName())
	}
	return ctyjson.Unmarshal(data, ty)
}
