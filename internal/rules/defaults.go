package rules

import "github.com/zclconf/go-cty/cty"

func num(n int64) cty.Value { return cty.NumberIntVal(n) }

func is(name string, v cty.Value) Field { return Field{Name: name, Value: v} }

// Default returns the built-in rule tables for the core and widely used
// community operation types.
func Default() *Tables {
	t := NewTables()

	zero := func(name string) Condition { return Condition{is(name, num(0))} }
	off := Condition{is("switch", cty.StringVal("Off"))}

	t.SetSwitch("HypernetworkLoader", zero("strength"))
	t.SetSwitch("CLIPSetLastLayer", Condition{is("stop_at_clip_layer", num(-1))})
	t.SetSwitch("ConditioningSetArea", zero("strength"))
	t.SetSwitch("ConditioningSetAreaPercentage", zero("strength"))
	t.SetSwitch("ConditioningSetMask", zero("strength"))
	t.SetSwitch("ControlNetApply", zero("strength"))
	t.SetSwitch("ControlNetApplyAdvanced", zero("strength"))
	t.SetSwitch("CR Apply ControlNet", off, zero("strength"))
	t.SetSwitch("CR Color Tint", zero("strength"))
	t.SetSwitch("CR Load LoRA", off, Condition{is("strength_model", num(0)), is("strength_clip", num(0))})
	t.SetSwitch("LatentMultiply", Condition{is("multiplier", num(1))})
	t.SetSwitch("TomePatchModel", zero("ratio"))
	t.SetSwitch("unCLIPConditioning", zero("strength"))

	pair := func(valueType, first, second, field string, firstValue, secondValue int64) Multiplexer {
		return Multiplexer{
			ValueType: valueType,
			Branches: []Branch{
				{Input: first, When: Condition{is(field, num(firstValue))}},
				{Input: second, When: Condition{is(field, num(secondValue))}},
			},
		}
	}
	inputSwitch := func(valueType, first, second string) Multiplexer {
		return pair(valueType, first, second, "Input", 1, 2)
	}

	t.SetMultiplexer("CLIPMergeSimple", pair("CLIP", "clip1", "clip2", "ratio", 1, 0))
	t.SetMultiplexer("ConditioningAverage", pair("CONDITIONING", "conditioning_to", "conditioning_from", "conditioning_to_strength", 1, 0))
	t.SetMultiplexer("CR Clip Input Switch", inputSwitch("CLIP", "clip1", "clip2"))
	t.SetMultiplexer("CR Conditioning Input Switch", inputSwitch("CONDITIONING", "conditioning1", "conditioning2"))
	t.SetMultiplexer("CR ControlNet Input Switch", inputSwitch("CONTROL_NET", "control_net1", "control_net2"))
	t.SetMultiplexer("CR Image Input Switch", inputSwitch("IMAGE", "image1", "image2"))
	t.SetMultiplexer("CR Latent Input Switch", inputSwitch("LATENT", "latent1", "latent2"))
	t.SetMultiplexer("CR Model Input Switch", inputSwitch("MODEL", "model1", "model2"))
	t.SetMultiplexer("CR Pipe Switch", inputSwitch("PIPE_LINE", "pipe1", "pipe2"))
	t.SetMultiplexer("CR Image Input Switch (4 way)", Multiplexer{
		ValueType: "IMAGE",
		Branches: []Branch{
			{Input: "image1", When: Condition{is("Input", num(1))}},
			{Input: "image2", When: Condition{is("Input", num(2))}},
			{Input: "image3", When: Condition{is("Input", num(3))}},
			{Input: "image4", When: Condition{is("Input", num(4))}},
		},
	})

	normal := cty.StringVal("normal")
	t.SetMultiplexer("ImageBlend", Multiplexer{
		ValueType: "IMAGE",
		Branches: []Branch{
			{Input: "image1", When: Condition{is("blend_mode", normal), is("blend_factor", num(0))}},
			{Input: "image2", When: Condition{is("blend_mode", normal), is("blend_factor", num(1))}},
		},
	})
	t.SetMultiplexer("LatentBlend", Multiplexer{
		ValueType: "LATENT",
		Branches: []Branch{
			{Input: "samples1", When: Condition{is("blend_mode", normal), is("blend_factor", num(1))}},
			{Input: "samples2", When: Condition{is("blend_mode", normal), is("blend_factor", num(0))}},
		},
	})
	t.SetMultiplexer("ModelMergeBlocks", Multiplexer{
		ValueType: "MODEL",
		Branches: []Branch{
			{Input: "model1", When: Condition{is("input", num(1)), is("middle", num(1)), is("out", num(1))}},
			{Input: "model2", When: Condition{is("input", num(0)), is("middle", num(0)), is("out", num(0))}},
		},
	})
	t.SetMultiplexer("ModelMergeSimple", pair("MODEL", "model1", "model2", "ratio", 1, 0))

	return t
}
