package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// ValidateRegistry performs consistency checks over every registered
// schema: input names must be unique across groups, enum defaults must be
// one of the declared choices, and primitive defaults must match their
// declared type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, opType := range r.Types() {
		op := r.operations[opType]
		source := op.FSInformation.String()

		seen := make(map[string]string)
		check := func(group string, inputs []model.Input) {
			for _, in := range inputs {
				if prev, dup := seen[in.Name]; dup {
					errs = append(errs, fmt.Sprintf("operation '%s' (%s): input '%s' declared in both %s and %s", opType, source, in.Name, prev, group))
					continue
				}
				seen[in.Name] = group

				if in.Type == "" {
					errs = append(errs, fmt.Sprintf("operation '%s' (%s): input '%s' has no type", opType, source, in.Name))
				}
				if in.Type == model.TypeWildcard && in.Default != nil {
					logger.Warn("Wildcard input declares a default, which is never rendered as a widget.", "operation", opType, "input", in.Name)
				}
				if msg := checkDefault(in); msg != "" {
					errs = append(errs, fmt.Sprintf("operation '%s' (%s), input '%s': %s", opType, source, in.Name, msg))
				}
			}
		}
		check(model.GroupRequired, op.Required)
		check(model.GroupOptional, op.Optional)
		check(model.GroupHidden, op.Hidden)

		for i, out := range op.Outputs {
			if out.Type == "" {
				errs = append(errs, fmt.Sprintf("operation '%s' (%s): output %d has no type", opType, source, i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "operations", r.Len())
	return nil
}

func checkDefault(in model.Input) string {
	if in.Default == nil || in.Default.Value.IsNull() {
		return ""
	}
	val := in.Default.Value

	if len(in.Choices) > 0 {
		for _, choice := range in.Choices {
			if literal.Matches(choice, val) {
				return ""
			}
		}
		return fmt.Sprintf("default %s is not one of the declared choices", in.Default.Expr)
	}

	var want cty.Type
	switch in.Type {
	case model.TypeInt, model.TypeFloat:
		want = cty.Number
	case model.TypeString:
		want = cty.String
	case model.TypeBoolean:
		want = cty.Bool
	default:
		return ""
	}
	if !val.Type().Equals(want) {
		return fmt.Sprintf("type mismatch. Schema requires '%s' but default %s is '%s'", in.Type, in.Default.Expr, val.Type().FriendlyName())
	}
	return ""
}
