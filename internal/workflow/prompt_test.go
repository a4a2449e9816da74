package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoSchema = errors.New("no schema")

// stubSchemas is a fixed in-memory schema source.
type stubSchemas map[string]*model.Operation

func (s stubSchemas) InputGroups(opType string) (model.InputGroups, error) {
	op, ok := s[opType]
	if !ok {
		return model.InputGroups{}, errNoSchema
	}
	return op.Groups(), nil
}

func (s stubSchemas) Outputs(opType string) ([]model.Output, error) {
	op, ok := s[opType]
	if !ok {
		return nil, errNoSchema
	}
	return op.Outputs, nil
}

var testSchemas = stubSchemas{
	"LoadImage": {
		Type:     "LoadImage",
		Required: []model.Input{{Name: "image", Type: model.TypeCombo}},
		Outputs:  []model.Output{{Name: "IMAGE", Type: "IMAGE"}, {Name: "MASK", Type: "MASK"}},
	},
	"ImageBlend": {
		Type: "ImageBlend",
		Required: []model.Input{
			{Name: "image1", Type: "IMAGE"},
			{Name: "image2", Type: "IMAGE"},
			{Name: "blend_factor", Type: model.TypeFloat},
		},
		Hidden:  []model.Input{{Name: "unique_id", Type: "UNIQUE_ID"}},
		Outputs: []model.Output{{Name: "IMAGE", Type: "IMAGE"}},
	},
}

const promptFixture = `{
  "9": {"class_type": "ImageBlend", "inputs": {
    "image2": ["3", 0],
    "blend_factor": 0.5,
    "image1": ["3", 0],
    "unique_id": ["3", 1]
  }},
  "3": {"class_type": "LoadImage", "inputs": {"image": "a.png"}}
}`

func TestFromPrompt(t *testing.T) {
	doc, err := FromPrompt(context.Background(), []byte(promptFixture), testSchemas)
	require.NoError(t, err)

	assert.True(t, doc.FromPrompt)
	assert.True(t, doc.VersionSupported())
	require.Len(t, doc.Nodes, 2)

	blend, load := doc.Nodes[0], doc.Nodes[1]
	assert.Equal(t, nodeid.FromInt(9), blend.ID)
	assert.Equal(t, Position{0, 0}, blend.Pos)
	assert.Equal(t, Position{150, 0}, load.Pos)

	// Inputs follow request order; the hidden link is dropped.
	require.Len(t, blend.Inputs, 2)
	assert.Equal(t, "image2", blend.Inputs[0].Name)
	assert.Equal(t, "image1", blend.Inputs[1].Name)
	assert.Equal(t, TypeName("IMAGE"), blend.Inputs[0].Type)
	assert.EqualValues(t, 0, *blend.Inputs[0].Link)
	assert.EqualValues(t, 1, *blend.Inputs[1].Link)
	assert.Equal(t, []string{"blend_factor"}, blend.WidgetsValues.Named.Keys())

	require.Len(t, load.Outputs, 2)
	assert.Equal(t, []int64{0, 1}, load.Outputs[0].Links)
	assert.Empty(t, load.Outputs[1].Links)

	require.Len(t, doc.Links, 2)
	assert.Equal(t, Link{ID: 1, Origin: nodeid.FromInt(3), OriginSlot: 0, Target: nodeid.FromInt(9), TargetSlot: 1, Type: "IMAGE"}, doc.Links[1])
}

func TestFromPrompt_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"not an object", `[1]`, true},
		{"missing class_type", `{"1": {"inputs": {}}}`, true},
		{"bad reference", `{"1": {"class_type": "LoadImage", "inputs": {"image": ["3"]}}}`, true},
		{"unknown type", `{"1": {"class_type": "Mystery", "inputs": {}}}`, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromPrompt(context.Background(), []byte(tc.data), testSchemas)
			require.Error(t, err)
			if tc.invalid {
				assert.ErrorIs(t, err, ErrInvalidDocument)
			} else {
				assert.ErrorIs(t, err, errNoSchema)
			}
		})
	}
}

func TestDetectAndParse(t *testing.T) {
	format, err := Detect([]byte(editorFixture))
	require.NoError(t, err)
	assert.Equal(t, FormatEditor, format)

	format, err = Detect([]byte(promptFixture))
	require.NoError(t, err)
	assert.Equal(t, FormatPrompt, format)

	format, err = Detect([]byte(`{"nodes": [], "links": []}`))
	require.NoError(t, err)
	assert.Equal(t, FormatEditor, format)

	_, err = Detect([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	doc, err := Parse(context.Background(), []byte(promptFixture), testSchemas)
	require.NoError(t, err)
	assert.True(t, doc.FromPrompt)

	doc, err = Parse(context.Background(), []byte(editorFixture), nil)
	require.NoError(t, err)
	assert.False(t, doc.FromPrompt)
}
