package nodeid

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		rawID      string
		expectErr  bool
		expectedID ID
	}{
		{
			name:       "integer becomes numeric",
			rawID:      "12",
			expectedID: ID{Text: "12", Numeric: true},
		},
		{
			name:       "surrounding spaces are trimmed",
			rawID:      " 3 ",
			expectedID: ID{Text: "3", Numeric: true},
		},
		{
			name:       "non-integer stays a string",
			rawID:      "sampler",
			expectedID: ID{Text: "sampler"},
		},
		{
			name:      "error - empty string",
			rawID:     "",
			expectErr: true,
		},
		{
			name:      "error - only spaces",
			rawID:     "   ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.rawID)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func TestParseList(t *testing.T) {
	ids, err := ParseList([]string{"9,10", "save", ""})
	require.NoError(t, err)
	assert.Equal(t, []ID{FromInt(9), FromInt(10), FromString("save")}, ids)
}

func TestID_JSON(t *testing.T) {
	t.Run("numeric and string forms stay distinct", func(t *testing.T) {
		var ids []ID
		require.NoError(t, json.Unmarshal([]byte(`[4, "4", "vae", 7.0]`), &ids))
		assert.Equal(t, []ID{FromInt(4), FromString("4"), FromString("vae"), FromInt(7)}, ids)

		out, err := json.Marshal(ids)
		require.NoError(t, err)
		assert.JSONEq(t, `[4, "4", "vae", 7]`, string(out))
	})

	t.Run("rejects null, fractions and empty strings", func(t *testing.T) {
		for _, raw := range []string{`null`, `1.5`, `""`, `true`} {
			var id ID
			assert.Error(t, json.Unmarshal([]byte(raw), &id), raw)
		}
	})
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []ID{FromInt(5), FromString("5")}, Candidates(FromInt(5)))
	assert.Equal(t, []ID{FromString("5"), FromInt(5)}, Candidates(FromString("5")))
	assert.Equal(t, []ID{FromString("x")}, Candidates(FromString("x")))
}

func TestLess(t *testing.T) {
	ids := []ID{FromString("b"), FromInt(10), FromString("a"), FromInt(2)}
	sort.Slice(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })
	assert.Equal(t, []ID{FromInt(2), FromInt(10), FromString("a"), FromString("b")}, ids)
}
