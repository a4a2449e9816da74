package transpile

import (
	"fmt"

	"github.com/specialistvlad/wfscript/internal/builder"
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/literal"
	"github.com/specialistvlad/wfscript/internal/model"
)

// widgetValues are the inline values of a node by input name.
type widgetValues struct {
	names  []string
	values map[string]literal.Literal
}

func (w *widgetValues) set(name string, lit literal.Literal) {
	if _, ok := w.values[name]; !ok {
		w.names = append(w.names, name)
	}
	w.values[name] = lit
}

// widgetsOf names the widget values of n. List-form values are matched
// positionally against the widget-carrying inputs of the schema; the
// editor's auxiliary widgets take a position but carry no input.
func (s *session) widgetsOf(n *graph.Node, groups model.InputGroups) (*widgetValues, error) {
	if w, ok := s.widgets[n]; ok {
		return w, nil
	}
	w := &widgetValues{values: make(map[string]literal.Literal)}
	s.widgets[n] = w

	if n.Widgets == nil {
		return w, nil
	}

	if n.Widgets.IsNamed {
		for _, m := range n.Widgets.Named {
			lit, err := literal.FromJSON(m.Value)
			if err != nil {
				return nil, fmt.Errorf("node %s: widget %q: %w", n.ID, m.Key, err)
			}
			w.set(m.Key, lit)
		}
		return w, nil
	}

	list := n.Widgets.List
	primitive := n.Type == builder.TypePrimitive
	pos := 0
	for _, in := range groups.Positional() {
		if !primitive && !in.CarriesWidget() {
			continue
		}
		if pos >= len(list) {
			break
		}
		lit, err := literal.FromJSON(list[pos])
		if err != nil {
			return nil, fmt.Errorf("node %s: widget %q: %w", n.ID, in.Name, err)
		}
		w.set(in.Name, lit)
		pos++

		if primitive || hasControlWidget(in) {
			pos++
		}
		if in.ImageUpload {
			pos++
		}
	}
	if pos < len(list) {
		s.logger.Debug("Ignoring widget values without a matching input.", "node", n.DisplayName(), "extra", len(list)-pos)
	}
	return w, nil
}

// hasControlWidget reports whether the editor follows in with a
// "control after generate" widget.
func hasControlWidget(in model.Input) bool {
	if in.ControlAfterGenerate {
		return true
	}
	return in.Type == model.TypeInt && (in.Name == "seed" || in.Name == "noise_seed")
}
