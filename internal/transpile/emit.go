package transpile

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/wfscript/internal/builder"
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/naming"
)

// emit builds the statement of n and binds its output identifiers. All
// producers of n must have been emitted before.
func (s *session) emit(n *graph.Node) (*Statement, error) {
	groups, err := s.inputGroups(n)
	if err != nil {
		return nil, err
	}
	w, err := s.widgetsOf(n, groups)
	if err != nil {
		return nil, err
	}
	args, err := s.resolveArgs(n, groups, w)
	if err != nil {
		return nil, err
	}
	outs, err := s.outputDescriptors(n)
	if err != nil {
		return nil, err
	}

	st := &Statement{Node: n, Args: args, outputs: outs}
	st.Targets = s.bindOutputs(n, outs, args)

	if n.Bypassed() {
		st.Kind = KindCopy
		s.renderCopy(st)
		return st, nil
	}

	st.Kind = KindCall
	st.Callee = s.classes.Declare(naming.ClassID(n.Type))
	st.Text = s.renderCall(st)
	return st, nil
}

// outputDescriptors returns the output slots of n. Nodes that carry no
// descriptors get them from the schema, and a link reading past the schema
// outputs is malformed. Descriptors naming a slot the schema does not have
// are kept but never bound.
func (s *session) outputDescriptors(n *graph.Node) ([]slotOutput, error) {
	schemaOuts, err := s.t.schemas.Outputs(n.Type)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}

	if len(n.Outputs) == 0 {
		for _, slot := range n.ConsumedSlots() {
			if slot >= len(schemaOuts) {
				return nil, graph.Malformed("link %d reads missing output slot %d of node %s", n.Consumers(slot)[0].ID, slot, n.ID)
			}
		}
		outs := make([]slotOutput, len(schemaOuts))
		for i, o := range schemaOuts {
			outs[i] = slotOutput{Output: &graph.Output{Name: o.Name, Type: o.Type, Slot: i}, valid: true}
		}
		return outs, nil
	}

	outs := make([]slotOutput, len(n.Outputs))
	seen := make(map[int]bool, len(n.Outputs))
	for i, o := range n.Outputs {
		outs[i] = slotOutput{Output: o, valid: true}
		switch {
		case o.Slot < 0 || o.Slot >= len(schemaOuts):
			s.logger.Warn("Skipping output with a slot the operation does not have.", "node", n.DisplayName(), "output", o.Name, "slot", o.Slot)
			outs[i].valid = false
		case seen[o.Slot]:
			s.logger.Warn("Skipping duplicate output slot.", "node", n.DisplayName(), "output", o.Name, "slot", o.Slot)
			outs[i].valid = false
		}
		seen[o.Slot] = true
		if outs[i].valid && o.Type == "" {
			outs[i].Output = &graph.Output{Name: o.Name, Type: schemaOuts[o.Slot].Type, Slot: o.Slot}
		}
	}
	return outs, nil
}

// bindOutputs gives every read output of n an identifier and returns the
// assignment targets.
func (s *session) bindOutputs(n *graph.Node, outs []slotOutput, args []Arg) []string {
	ids := make(map[int]outputID, len(outs))
	s.outputs[n] = ids

	taken := make(map[int]bool)
	targets := make([]string, len(outs))
	for i, o := range outs {
		targets[i] = Discard
		if !o.valid || len(n.Consumers(o.Slot)) == 0 {
			continue
		}
		id, ok := s.outputID(n, o.Output, len(outs), args, taken)
		if !ok {
			s.logger.Debug("Output has no value to bind.", "node", n.DisplayName(), "slot", o.Slot)
			continue
		}
		ids[o.Slot] = id
		targets[i] = id.Name
	}
	return targets
}

// outputID picks the identifier of one output. A reroute always forwards
// its linked argument. Other outputs take over the identifier of the single
// moved argument of their type, or the single wildcard argument of a
// one-output node; otherwise they get a fresh one.
func (s *session) outputID(n *graph.Node, o *graph.Output, outputs int, args []Arg, taken map[int]bool) (outputID, bool) {
	if builder.IsReroute(n.Type) {
		j, ok := single(args, func(a Arg) bool { return a.Linked() })
		if !ok || args[j].Kind == BindDiscard {
			return outputID{}, false
		}
		taken[j] = true
		return outputID{Name: args[j].Expr, Shared: !args[j].Moved}, true
	}

	if j, ok := single(args, func(a Arg) bool { return a.Kind == BindVariable && a.Type == o.Type }); ok {
		if args[j].Moved && !taken[j] {
			taken[j] = true
			return outputID{Name: args[j].Expr}, true
		}
	}

	if outputs == 1 {
		if j, ok := single(args, func(a Arg) bool { return a.Linked() && a.Type == model.TypeWildcard }); ok {
			a := args[j]
			if a.Kind == BindDiscard {
				return outputID{}, false
			}
			taken[j] = true
			return outputID{Name: a.Expr, Shared: !a.Moved}, true
		}
	}

	name := s.vars.Assign(varBase(n, o, outputs > 1), producerKey{node: n, slot: o.Slot})
	return outputID{Name: name, Allocated: true}, true
}

// single returns the index of the only argument matching pred.
func single(args []Arg, pred func(Arg) bool) (int, bool) {
	found := -1
	for j, a := range args {
		if !pred(a) {
			continue
		}
		if found >= 0 {
			return -1, false
		}
		found = j
	}
	return found, found >= 0
}

// varBase derives the base identifier of an output: the node title (with
// the slot name when there are several outputs), else the slot name, else
// the type.
func varBase(n *graph.Node, o *graph.Output, multi bool) string {
	var label string
	switch {
	case n.Title != "" && multi && o.Name != "":
		label = n.Title + " " + o.Name
	case n.Title != "":
		label = n.Title
	case o.Name != "":
		label = o.Name
	default:
		label = o.Type
	}
	if id := naming.VarID(label); id != Discard {
		return id
	}
	return "value"
}

func (s *session) renderCall(st *Statement) string {
	positional := builder.IsBuiltin(st.Node.Type)
	call := st.Callee + "(" + s.t.opts.Format.render(st.Args, positional) + ")"
	if len(st.Targets) == 0 {
		return call
	}
	text := strings.Join(st.Targets, ", ") + " = " + call
	if st.Dead() {
		text = "# " + text
	}
	return text
}

// renderCopy renders a bypassed node as a copy of its inputs to its read
// outputs. Each output copies the argument of the same name, else the
// first unused argument of its type.
func (s *session) renderCopy(st *Statement) {
	used := make(map[int]bool)
	pick := func(o *graph.Output) (string, bool) {
		candidates := []func(Arg) bool{
			func(a Arg) bool { return o.Name != "" && a.Name == o.Name },
			func(a Arg) bool { return a.Type == o.Type || a.Type == model.TypeWildcard },
		}
		for _, match := range candidates {
			for j, a := range st.Args {
				if used[j] || a.Kind != BindVariable || !match(a) {
					continue
				}
				used[j] = true
				return a.Expr, true
			}
		}
		return "", false
	}

	var targets []string
	for i, o := range st.outputs {
		if st.Targets[i] == Discard {
			continue
		}
		src, ok := pick(o.Output)
		if !ok {
			s.logger.Warn("Bypassed node has no input to pass through, using None.", "node", st.Node.DisplayName(), "output", o.Name)
			src = literal.None
		}
		targets = append(targets, st.Targets[i])
		st.Sources = append(st.Sources, src)
	}

	if len(targets) == 0 {
		s.logger.Debug("Bypassed node has no read outputs.", "node", st.Node.DisplayName())
		st.delete()
		return
	}
	st.Text = strings.Join(targets, ", ") + " = " + strings.Join(st.Sources, ", ")
}
