package transpile

import (
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/zclconf/go-cty/cty"
)

// Discard is the placeholder for a value nothing reads.
const Discard = "_"

// BindingKind tells what an argument is bound to.
type BindingKind int

const (
	// BindLiteral is an inline constant.
	BindLiteral BindingKind = iota
	// BindVariable reads the identifier of a producer output.
	BindVariable
	// BindNone is an input the node leaves unset.
	BindNone
	// BindDiscard reads a value that is never produced: its producer is
	// dead or the input was deselected.
	BindDiscard
)

// Binding is the value of one argument.
type Binding struct {
	Kind BindingKind
	// Expr is the script text of the value.
	Expr string
	// Value is the constant of a literal binding.
	Value cty.Value
	// Moved is set on a variable whose only reader is this argument.
	Moved bool
}

func literalBinding(lit literal.Literal) Binding {
	return Binding{Kind: BindLiteral, Expr: lit.Expr, Value: lit.Value}
}

func variableBinding(name string, moved bool) Binding {
	return Binding{Kind: BindVariable, Expr: name, Moved: moved}
}

var (
	noneBinding    = Binding{Kind: BindNone, Expr: literal.None}
	discardBinding = Binding{Kind: BindDiscard, Expr: Discard}
)

// Linked reports whether the binding comes from a link.
func (b Binding) Linked() bool {
	return b.Kind == BindVariable || b.Kind == BindDiscard
}

// Arg is an argument of a call, in schema order.
type Arg struct {
	Name string
	Type string
	Binding
}

// resolveArgs binds every required and optional input of n. Links win over
// widget values; inputs with neither take the schema default or None.
func (s *session) resolveArgs(n *graph.Node, groups model.InputGroups, w *widgetValues) ([]Arg, error) {
	branch, selected := s.selections[n]
	m, _ := s.t.opts.Rules.Multiplexer(n.Type)

	type linkedInput struct {
		typ     string
		binding Binding
	}
	linked := make(map[string]linkedInput)
	for _, in := range n.Inputs {
		if in.Link == nil {
			continue
		}
		if _, declared := groups.Lookup(in.Name); !declared {
			if isHidden(groups, in.Name) {
				s.logger.Debug("Dropping link into hidden input.", "node", n.DisplayName(), "input", in.Name)
				continue
			}
			return nil, &UnknownInputError{Node: n.ID, Type: n.Type, Input: in.Name}
		}

		b := s.bindLink(in.Link)
		if selected && in.Name != branch.Input {
			if _, isBranch := m.Branch(in.Name); isBranch {
				b = discardBinding
			}
		}
		linked[in.Name] = linkedInput{typ: in.Type, binding: b}
	}

	positional := groups.Positional()
	declared := make(map[string]bool, len(positional))
	args := make([]Arg, 0, len(positional))
	for _, in := range positional {
		declared[in.Name] = true
		arg := Arg{Name: in.Name, Type: in.Type}
		if li, ok := linked[in.Name]; ok {
			if li.typ != "" {
				arg.Type = li.typ
			}
			arg.Binding = li.binding
		} else if lit, ok := w.values[in.Name]; ok {
			arg.Binding = literalBinding(lit)
		} else if in.Default != nil {
			arg.Binding = literalBinding(*in.Default)
		} else {
			arg.Binding = noneBinding
		}
		args = append(args, arg)
	}

	for _, name := range w.names {
		if !declared[name] && !isAuxiliaryWidget(name) {
			s.logger.Debug("Dropping widget value without a declared input.", "node", n.DisplayName(), "widget", name)
		}
	}
	return args, nil
}

// bindLink resolves the value read through l.
func (s *session) bindLink(l *graph.Link) Binding {
	id, ok := s.outputs[l.Origin][l.OriginSlot]
	if !ok {
		return discardBinding
	}
	moved := !id.Shared && len(l.Origin.Consumers(l.OriginSlot)) == 1
	return variableBinding(id.Name, moved)
}

func isAuxiliaryWidget(name string) bool {
	return name == "control_after_generate" || name == "upload"
}

// argValues exposes the literal arguments to rule conditions.
func argValues(args []Arg) rules.Values {
	return func(name string) (cty.Value, bool) {
		for _, a := range args {
			if a.Name != name {
				continue
			}
			switch a.Kind {
			case BindLiteral:
				return a.Value, true
			case BindNone:
				return cty.NilVal, false
			default:
				return cty.DynamicVal, true
			}
		}
		return cty.NilVal, false
	}
}
