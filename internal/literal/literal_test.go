package literal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "", want: "''"},
		{in: "euler", want: "'euler'"},
		{in: `C:\models\x.ckpt`, want: `r'C:\models\x.ckpt'`},
		{in: "line one\nline two", want: "'''line one\nline two'''"},
		{in: "it's", want: "'''it's'''"},
		{in: "quote'", want: `'''quote\''''`},
		{in: `a\'`, want: `'a\\\''`},
		{in: `C:\dir\`, want: `'C:\\dir\\'`},
		{in: "C:\\dir\nnext", want: "r'''C:\\dir\nnext'''"},
		{in: `it's C:\x`, want: `r'''it's C:\x'''`},
		{in: "a'''b", want: `'a\'\'\'b'`},
		{in: "cr\r", want: `'cr\r'`},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.in))
		})
	}
}

func TestNumber(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "8", want: "8"},
		{in: "-3", want: "-3"},
		{in: "156680208700286", want: "156680208700286"},
		{in: "8.0", want: "8.0"},
		{in: "0.5", want: "0.5"},
		{in: "1e2", want: "100.0"},
		{in: "0.00001", want: "1e-05"},
		{in: "1.5e-7", want: "1.5e-07"},
		{in: "12345678901234567.0", want: "1.2345678901234568e+16"},
		{in: "-0.0", want: "-0.0"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Number(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Number("abc")
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantExpr string
		wantVal  cty.Value
	}{
		{name: "integer", raw: `20`, wantExpr: "20", wantVal: cty.NumberIntVal(20)},
		{name: "float", raw: `7.5`, wantExpr: "7.5", wantVal: cty.NumberFloatVal(7.5)},
		{name: "string", raw: `"normal"`, wantExpr: "'normal'", wantVal: cty.StringVal("normal")},
		{name: "bool", raw: `true`, wantExpr: "True", wantVal: cty.True},
		{name: "null", raw: `null`, wantExpr: "None", wantVal: cty.NullVal(cty.DynamicPseudoType)},
		{name: "empty list", raw: `[]`, wantExpr: "[]", wantVal: cty.EmptyTupleVal},
		{
			name:     "list",
			raw:      `[1, "a", false]`,
			wantExpr: "[1, 'a', False]",
			wantVal:  cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a"), cty.False}),
		},
		{
			name:     "object keeps member order",
			raw:      `{"z": 1, "a": "b"}`,
			wantExpr: "{'z': 1, 'a': 'b'}",
			wantVal:  cty.ObjectVal(map[string]cty.Value{"z": cty.NumberIntVal(1), "a": cty.StringVal("b")}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lit, err := FromJSON(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.wantExpr, lit.Expr)
			assert.True(t, lit.Value.RawEquals(tc.wantVal) || Matches(lit.Value, tc.wantVal), "value %#v", lit.Value)
		})
	}

	_, err := FromJSON(json.RawMessage(`nope`))
	assert.Error(t, err)
}

func TestFromCty(t *testing.T) {
	lit, err := FromCty(cty.NumberFloatVal(8))
	require.NoError(t, err)
	assert.Equal(t, "8", lit.Expr)

	lit, err = FromCty(cty.NumberFloatVal(0.25))
	require.NoError(t, err)
	assert.Equal(t, "0.25", lit.Expr)

	lit, err = FromCty(cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}))
	require.NoError(t, err)
	assert.Equal(t, "['a', 'b']", lit.Expr)

	lit, err = FromCty(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.Equal(t, None, lit.Expr)

	_, err = FromCty(cty.UnknownVal(cty.String))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches(cty.NumberIntVal(1), cty.NumberFloatVal(1.0)))
	assert.True(t, Matches(cty.StringVal("Off"), cty.StringVal("Off")))
	assert.False(t, Matches(cty.StringVal("0"), cty.NumberIntVal(0)))
	assert.False(t, Matches(cty.NullVal(cty.DynamicPseudoType), cty.NumberIntVal(0)))
	assert.True(t, Matches(cty.NullVal(cty.DynamicPseudoType), cty.NullVal(cty.String)))
}
