// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package literal turns inline workflow values into script expressions.
//
// A Literal carries two views of the same constant: a cty.Value used for
// comparisons (rule tables, schema defaults) and the rendered source text
// that ends up in the generated script. Rendering happens once, at
// construction, so that integer/float spelling from the source document
// survives even though cty numbers do not keep that distinction.
package literal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/specialistvlad/wfscript/internal/jsonorder"
	"github.com/zclconf/go-cty/cty"
)

// None is the script spelling of an absent value.
const None = "None"

// Literal is an inline constant value and its script expression.
type Literal struct {
	Value cty.Value
	Expr  string
}

// Null returns the None literal.
func Null() Literal {
	return Literal{Value: cty.NullVal(cty.DynamicPseudoType), Expr: None}
}

// FromString builds a string literal.
func FromString(s string) Literal {
	return Literal{Value: cty.StringVal(s), Expr: String(s)}
}

// FromJSON converts a raw JSON value into a literal, keeping object member
// order and the integer/float spelling of numbers.
func FromJSON(raw json.RawMessage) (Literal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Null(), nil
	}

	switch raw[0] {
	case '{':
		var obj jsonorder.Object
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Literal{}, err
		}
		attrs := make(map[string]cty.Value, len(obj))
		parts := make([]string, 0, len(obj))
		for _, m := range obj {
			member, err := FromJSON(m.Value)
			if err != nil {
				return Literal{}, fmt.Errorf("member %q: %w", m.Key, err)
			}
			attrs[m.Key] = member.Value
			parts = append(parts, String(m.Key)+": "+member.Expr)
		}
		return Literal{Value: cty.ObjectVal(attrs), Expr: "{" + strings.Join(parts, ", ") + "}"}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Literal{}, err
		}
		if len(items) == 0 {
			return Literal{Value: cty.EmptyTupleVal, Expr: "[]"}, nil
		}
		vals := make([]cty.Value, 0, len(items))
		parts := make([]string, 0, len(items))
		for i, item := range items {
			elem, err := FromJSON(item)
			if err != nil {
				return Literal{}, fmt.Errorf("element %d: %w", i, err)
			}
			vals = append(vals, elem.Value)
			parts = append(parts, elem.Expr)
		}
		return Literal{Value: cty.TupleVal(vals), Expr: "[" + strings.Join(parts, ", ") + "]"}, nil

	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Literal{}, err
		}
		return FromString(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Literal{}, err
		}
		return Literal{Value: cty.BoolVal(b), Expr: Bool(b)}, nil

	case 'n':
		if string(raw) != "null" {
			return Literal{}, fmt.Errorf("invalid JSON value %q", raw)
		}
		return Null(), nil
	}

	text := string(raw)
	val, err := cty.ParseNumberVal(text)
	if err != nil {
		return Literal{}, fmt.Errorf("invalid number %q: %w", text, err)
	}
	expr, err := Number(text)
	if err != nil {
		return Literal{}, err
	}
	return Literal{Value: val, Expr: expr}, nil
}

// FromCty converts a cty value, such as an HCL schema default, into a
// literal. Integral numbers render without a fractional part.
func FromCty(v cty.Value) (Literal, error) {
	if !v.IsKnown() {
		return Literal{}, fmt.Errorf("value is not known")
	}
	if v.IsNull() {
		return Literal{Value: v, Expr: None}, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return Literal{Value: v, Expr: String(v.AsString())}, nil
	case ty == cty.Bool:
		return Literal{Value: v, Expr: Bool(v.True())}, nil
	case ty == cty.Number:
		return Literal{Value: v, Expr: bigFloat(v.AsBigFloat())}, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			lit, err := FromCty(elem)
			if err != nil {
				return Literal{}, err
			}
			parts = append(parts, lit.Expr)
		}
		return Literal{Value: v, Expr: "[" + strings.Join(parts, ", ") + "]"}, nil
	case ty.IsObjectType() || ty.IsMapType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			lit, err := FromCty(elem)
			if err != nil {
				return Literal{}, err
			}
			parts = append(parts, String(key.AsString())+": "+lit.Expr)
		}
		return Literal{Value: v, Expr: "{" + strings.Join(parts, ", ") + "}"}, nil
	}
	return Literal{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}

// Matches reports whether two values are equal for rule matching purposes.
// Numbers compare by value, so 1 matches 1.0. Values of different types
// never match.
func Matches(a, b cty.Value) bool {
	if !a.IsKnown() || !b.IsKnown() {
		return false
	}
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if !a.Type().Equals(b.Type()) {
		return false
	}
	return a.Equals(b).True()
}

// String renders s as a string literal. Strings containing a backslash
// become raw strings; strings with a newline or a single quote use the
// triple-quoted form with trailing quotes escaped. Anything neither form
// can hold, such as a trailing backslash, is written with escapes.
func String(s string) string {
	if s == "" {
		return "''"
	}

	raw := strings.Contains(s, `\`)
	plain := !strings.ContainsAny(s, "\n\r'")
	switch {
	case plain && !raw:
		return "'" + s + "'"
	case raw && strings.HasSuffix(s, `\`):
		return escaped(s)
	case plain:
		return "r'" + s + "'"
	case strings.Contains(s, "\r") || strings.Contains(s, "'''"):
		return escaped(s)
	}

	trimmed := strings.TrimRight(s, "'")
	if raw {
		// A raw string cannot escape its trailing quotes.
		if len(trimmed) != len(s) {
			return escaped(s)
		}
		return "r'''" + s + "'''"
	}
	return "'''" + trimmed + strings.Repeat(`\'`, len(s)-len(trimmed)) + "'''"
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, "'", `\'`, "\n", `\n`, "\r", `\r`)

func escaped(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// Bool renders a boolean literal.
func Bool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// Number renders a JSON number. Integers keep their digits; anything with
// a fraction or an exponent is rendered as a float.
func Number(text string) (string, error) {
	if !strings.ContainsAny(text, ".eE") {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return "", fmt.Errorf("invalid integer %q", text)
		}
		return n.String(), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", fmt.Errorf("invalid number %q: %w", text, err)
	}
	return Float(f), nil
}

// Float renders a float with the shortest round-trip representation,
// switching to exponent notation for very small or very large magnitudes.
func Float(f float64) string {
	switch {
	case math.IsNaN(f):
		return "float('nan')"
	case math.IsInf(f, 1):
		return "float('inf')"
	case math.IsInf(f, -1):
		return "-float('inf')"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func bigFloat(f *big.Float) string {
	if f.IsInt() {
		n, _ := f.Int(nil)
		return n.String()
	}
	v, _ := f.Float64()
	return Float(v)
}
