package transpile

import (
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/zclconf/go-cty/cty"
)

// frame is one entry of the traversal stack.
type frame struct {
	node *graph.Node
	deps []*graph.Node
	next int
}

// order returns the nodes reachable from ends, every node after the
// producers of its relevant inputs. Each node appears once.
func (s *session) order(ends []*graph.Node) ([]*graph.Node, error) {
	var (
		out     []*graph.Node
		done    = make(map[*graph.Node]bool)
		onStack = make(map[*graph.Node]bool)
		stack   []*frame
	)

	push := func(n *graph.Node) error {
		deps, err := s.relevantInputs(n)
		if err != nil {
			return err
		}
		onStack[n] = true
		stack = append(stack, &frame{node: n, deps: deps})
		return nil
	}

	for _, end := range ends {
		if done[end] {
			continue
		}
		if err := push(end); err != nil {
			return nil, err
		}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++
				if onStack[dep] {
					return nil, graph.Malformed("cycle through node %s", dep.ID)
				}
				if done[dep] {
					continue
				}
				if err := push(dep); err != nil {
					return nil, err
				}
				continue
			}

			stack = stack[:len(stack)-1]
			onStack[top.node] = false
			done[top.node] = true
			out = append(out, top.node)
		}
	}
	return out, nil
}

// relevantInputs returns the producers feeding n, in input order. Inputs
// of branches a multiplexer deselects are left out.
func (s *session) relevantInputs(n *graph.Node) ([]*graph.Node, error) {
	branch, selected, err := s.selectBranch(n)
	if err != nil {
		return nil, err
	}
	m, _ := s.t.opts.Rules.Multiplexer(n.Type)

	var deps []*graph.Node
	for _, in := range n.Inputs {
		if in.Link == nil {
			continue
		}
		if selected && in.Name != branch.Input {
			if _, isBranch := m.Branch(in.Name); isBranch {
				continue
			}
		}
		deps = append(deps, in.Link.Origin)
	}
	return deps, nil
}

// selectBranch decides whether n is a multiplexer whose widget values pick
// one linked branch. The choice is remembered for emission.
func (s *session) selectBranch(n *graph.Node) (rules.Branch, bool, error) {
	if b, ok := s.selections[n]; ok {
		return b, true, nil
	}
	m, ok := s.t.opts.Rules.Multiplexer(n.Type)
	if !ok || n.Bypassed() {
		return rules.Branch{}, false, nil
	}
	if n.Widgets == nil {
		s.logger.Debug("Multiplexer has no widget values, keeping node.", "node", n.DisplayName())
		return rules.Branch{}, false, nil
	}

	groups, err := s.inputGroups(n)
	if err != nil {
		return rules.Branch{}, false, err
	}
	w, err := s.widgetsOf(n, groups)
	if err != nil {
		return rules.Branch{}, false, err
	}

	branch, ok := m.Select(widgetLookup(n, w))
	if !ok {
		return rules.Branch{}, false, nil
	}
	if !isLinked(n, branch.Input) {
		s.logger.Debug("Multiplexer selects an unconnected input, keeping node.", "node", n.DisplayName(), "input", branch.Input)
		return rules.Branch{}, false, nil
	}
	for _, out := range n.Outputs {
		if out.Type != m.ValueType && len(n.Consumers(out.Slot)) > 0 {
			s.logger.Debug("Multiplexer has consumers of another output, keeping node.", "node", n.DisplayName(), "output", out.Name)
			return rules.Branch{}, false, nil
		}
	}

	s.logger.Debug("Multiplexer branch selected.", "node", n.DisplayName(), "input", branch.Input)
	s.selections[n] = branch
	return branch, true, nil
}

// widgetLookup exposes the widget values of n to rule conditions. A
// widget converted to a linked input has no known value.
func widgetLookup(n *graph.Node, w *widgetValues) rules.Values {
	return func(name string) (cty.Value, bool) {
		if isLinked(n, name) {
			return cty.DynamicVal, true
		}
		lit, ok := w.values[name]
		return lit.Value, ok
	}
}

func isLinked(n *graph.Node, name string) bool {
	for _, in := range n.Inputs {
		if in.Name == name && in.Link != nil {
			return true
		}
	}
	return false
}

// isHidden reports whether name is a hidden input of the operation.
func isHidden(groups model.InputGroups, name string) bool {
	for _, in := range groups.Hidden {
		if in.Name == name {
			return true
		}
	}
	return false
}
