// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package transpile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/wfscript/internal/builder"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/rules"
)

// pass is one rewrite of a freshly emitted statement. It reports whether
// the statement was deleted; a violation is returned as a plain reason and
// wrapped by rewrite.
type pass struct {
	name  string
	apply func(s *session, st *Statement) (deleted bool, err error)
}

// pipeline runs in order and stops at the first deletion.
var pipeline = []pass{
	{"reroute", (*session).eliminateReroute},
	{"bypass", (*session).eliminateBypassMove},
	{"primitive", (*session).inlinePrimitive},
	{"switch", (*session).eliminateSwitch},
	{"multiplexer", (*session).eliminateMultiplexer},
}

func (s *session) rewrite(st *Statement) error {
	for _, p := range pipeline {
		if st.Deleted() {
			return nil
		}
		text := st.Text
		deleted, err := p.apply(s, st)
		if err != nil {
			return &InvariantError{Pass: p.name, Node: st.Node.ID, Statement: text, Reason: err.Error()}
		}
		if deleted {
			st.delete()
			return nil
		}
	}
	return nil
}

// rerouteCall matches `[# ]target = Callee(arg)`.
var rerouteCall = regexp.MustCompile(`^(?:# )?(\S+) = [A-Za-z_0-9]+\((\S+)\)\s*$`)

// eliminateReroute deletes reroutes. Their output already holds the
// identifier of their input, so the statement must be `x = F(x)` or, when
// nothing reads it, `_ = F(x)`.
func (s *session) eliminateReroute(st *Statement) (bool, error) {
	if !builder.IsReroute(st.Node.Type) || st.Kind != KindCall {
		return false, nil
	}
	m := rerouteCall.FindStringSubmatch(st.Text)
	if m == nil {
		return false, fmt.Errorf("reroute is not a single-argument call")
	}
	target, arg := m[1], m[2]
	if target != Discard && target != arg {
		return false, fmt.Errorf("reroute output %s does not reuse its input %s", target, arg)
	}
	if target == Discard && st.Node.OutDegree() > 0 {
		for _, a := range st.Args {
			if a.Kind == BindVariable {
				return false, fmt.Errorf("reroute drops %s read by %d link(s)", a.Expr, st.Node.OutDegree())
			}
		}
	}
	return true, nil
}

// eliminateBypassMove deletes bypass copies that assign every value to
// itself.
func (s *session) eliminateBypassMove(st *Statement) (bool, error) {
	if st.Kind != KindCopy {
		return false, nil
	}
	return isSelfAssignment(st.Text), nil
}

// isSelfAssignment reports whether text is `x = x` for some x, comment
// marker aside.
func isSelfAssignment(text string) bool {
	text = strings.TrimRight(strings.TrimPrefix(text, "# "), " \t\r\n")
	const sep = " = "
	for i := strings.Index(text, sep); i >= 0; {
		if text[:i] == text[i+len(sep):] {
			return true
		}
		next := strings.Index(text[i+1:], sep)
		if next < 0 {
			break
		}
		i += 1 + next
	}
	return false
}

// primitiveCall matches the call part of `targets = PrimitiveNode(value)`.
var primitiveCall = regexp.MustCompile(` = PrimitiveNode\(([\S\s]+)\)(\s*)$`)

// inlinePrimitive replaces a constant-injection call by its value.
func (s *session) inlinePrimitive(st *Statement) (bool, error) {
	if st.Node.Type != builder.TypePrimitive || st.Kind != KindCall {
		return false, nil
	}
	text := primitiveCall.ReplaceAllString(st.Text, " = ${1}${2}")
	if text == st.Text {
		return false, fmt.Errorf("constant was not inlined")
	}
	st.Text = text
	st.Kind = KindValue
	return false, nil
}

// eliminateSwitch deletes nodes whose literal arguments match one of the
// disabling conditions of their type, rebinding each read output to the
// input it passes through.
func (s *session) eliminateSwitch(st *Statement) (bool, error) {
	if st.Kind != KindCall {
		return false, nil
	}
	conditions, ok := s.t.opts.Rules.Switch(st.Node.Type)
	if !ok || !rules.AnyHolds(conditions, argValues(st.Args)) {
		return false, nil
	}

	perType := make(map[string]int)
	for i, o := range st.outputs {
		if st.Targets[i] == Discard {
			continue
		}
		nth := perType[o.Type]
		perType[o.Type]++

		arg, err := passThrough(st.Args, o.Name, o.Type, nth)
		if err != nil {
			return false, err
		}
		s.rebind(st, o.Slot, arg)
	}
	s.logger.Debug("Switch node disabled by its widget values.", "node", st.Node.DisplayName())
	return true, nil
}

// passThrough finds the linked argument an output forwards: the only one
// of its type, else the one of its name, else the nth one of its type.
func passThrough(args []Arg, name, typ string, nth int) (Arg, error) {
	var sameType []Arg
	for _, a := range args {
		if a.Linked() && (a.Type == typ || a.Type == model.TypeWildcard) {
			sameType = append(sameType, a)
		}
	}
	switch {
	case len(sameType) == 1:
		return sameType[0], nil
	case len(sameType) == 0:
		return Arg{}, fmt.Errorf("no linked input of type %s to pass through", typ)
	}
	for _, a := range sameType {
		if a.Name == name {
			return a, nil
		}
	}
	if nth < len(sameType) {
		return sameType[nth], nil
	}
	return Arg{}, fmt.Errorf("ambiguous pass-through for output %q of type %s", name, typ)
}

// eliminateMultiplexer deletes a multiplexer whose branch was selected
// during traversal and binds its output to the selected input.
func (s *session) eliminateMultiplexer(st *Statement) (bool, error) {
	branch, ok := s.selections[st.Node]
	if !ok || st.Kind != KindCall {
		return false, nil
	}
	m, _ := s.t.opts.Rules.Multiplexer(st.Node.Type)

	var selected *Arg
	for i, a := range st.Args {
		if a.Name == branch.Input {
			selected = &st.Args[i]
			continue
		}
		if _, isBranch := m.Branch(a.Name); isBranch && a.Linked() && a.Kind != BindDiscard {
			return false, fmt.Errorf("deselected input %q still reads %s", a.Name, a.Expr)
		}
	}
	if selected == nil || !selected.Linked() {
		return false, fmt.Errorf("selected input %q is not linked", branch.Input)
	}

	for i, o := range st.outputs {
		if st.Targets[i] == Discard {
			continue
		}
		if o.Type != m.ValueType {
			return false, fmt.Errorf("output %q of type %s is read", o.Name, o.Type)
		}
		s.rebind(st, o.Slot, *selected)
	}
	s.logger.Debug("Multiplexer replaced by its selected input.", "node", st.Node.DisplayName(), "input", branch.Input)
	return true, nil
}

// rebind points output slot of the statement's node at the value of arg
// and frees any identifier allocated for the slot.
func (s *session) rebind(st *Statement, slot int, arg Arg) {
	ids := s.outputs[st.Node]
	if old, ok := ids[slot]; ok && old.Allocated {
		s.vars.Release(old.Name)
	}
	if arg.Kind == BindDiscard {
		delete(ids, slot)
		return
	}
	ids[slot] = outputID{Name: arg.Expr, Shared: !arg.Moved}
}
