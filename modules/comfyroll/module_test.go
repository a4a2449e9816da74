package comfyroll

import (
	"context"
	"testing"

	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	lora, ok := r.Operation("CR Load LoRA")
	require.True(t, ok)
	require.Len(t, lora.Outputs, 3)
	assert.Equal(t, "show_help", lora.Outputs[2].Name)
	assert.Equal(t, "STRING", lora.Outputs[2].Type)
}

// Every multiplexer rule for a Comfyroll switch must name inputs the
// catalog declares, with the rule's value type.
func TestModule_MatchesMultiplexerRules(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	tables := rules.Default()

	checked := 0
	for _, opType := range tables.MultiplexerTypes() {
		op, ok := r.Operation(opType)
		if !ok {
			continue
		}
		checked++
		m, _ := tables.Multiplexer(opType)
		for _, b := range m.Branches {
			in, ok := op.Groups().Lookup(b.Input)
			if assert.True(t, ok, "%s: branch %s", opType, b.Input) {
				assert.Equal(t, m.ValueType, in.Type, "%s: branch %s", opType, b.Input)
			}
		}
	}
	assert.Equal(t, 8, checked)
}
