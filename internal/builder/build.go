package builder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/dag"
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/workflow"
)

// Options tunes graph construction.
type Options struct {
	// StrictVersion turns a format version mismatch into an error instead of
	// a warning.
	StrictVersion bool
}

// Build constructs a checked graph from a decoded workflow document.
func Build(ctx context.Context, doc *workflow.Document, opts Options) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	if !doc.VersionSupported() {
		verr := &graph.VersionError{Got: doc.Version.String(), Want: workflow.SupportedVersion}
		if opts.StrictVersion {
			return nil, verr
		}
		logger.Warn("Unsupported workflow version, continuing best-effort.", "version", verr.Got, "supported", verr.Want)
	}

	g := graph.New(doc.Version.String(), doc.FromPrompt)

	// First pass: create all nodes.
	if err := createNodes(ctx, doc, g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(g.Nodes()))

	// Second pass: register links and connect inputs.
	if err := linkNodes(ctx, doc, g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.", "link_count", len(g.Links()))

	// Final validation: Cycle detection.
	if err := detectCycles(g); err != nil {
		return nil, err
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Debug("Build: Graph construction successful.")
	return g, nil
}

// createNodes performs the first pass of graph creation.
func createNodes(ctx context.Context, doc *workflow.Document, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	for i, wn := range doc.Nodes {
		if wn.ID.IsZero() {
			return graph.Malformed("node at index %d has no id", i)
		}
		if wn.Type == "" {
			return graph.Malformed("node %s has no type", wn.ID)
		}

		n := &graph.Node{
			ID:      wn.ID,
			Type:    wn.Type,
			Pos:     wn.Pos,
			Mode:    wn.Mode,
			Title:   wn.Title,
			Widgets: wn.WidgetsValues,
			Inputs:  make([]*graph.Input, len(wn.Inputs)),
			Outputs: orderOutputs(wn.Outputs),
		}
		for j, in := range wn.Inputs {
			n.Inputs[j] = &graph.Input{Name: in.Name, Type: string(in.Type)}
		}

		if err := g.AddNode(n); err != nil {
			return err
		}
		logger.Debug("Created node.", "id", n.ID, "type", n.Type, "inputs", len(n.Inputs), "outputs", len(n.Outputs))
	}
	return nil
}

// orderOutputs sorts output descriptors by declared slot index, undeclared
// ones last, and resolves the slot of each. A lone output without an index
// is slot 0; otherwise an undeclared index falls back to the position.
func orderOutputs(outputs []workflow.Output) []*graph.Output {
	sorted := make([]workflow.Output, len(outputs))
	copy(sorted, outputs)
	key := func(o workflow.Output) int {
		if o.SlotIndex == nil {
			return math.MaxInt
		}
		return *o.SlotIndex
	}
	sort.SliceStable(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })

	out := make([]*graph.Output, len(sorted))
	for i, o := range sorted {
		slot := i
		if o.SlotIndex != nil {
			slot = *o.SlotIndex
		} else if len(sorted) == 1 {
			slot = 0
		}
		out[i] = &graph.Output{Name: o.Name, Type: string(o.Type), Slot: slot}
	}
	return out
}

// linkNodes performs the second pass: every link is checked against its
// endpoints, then every input link reference is resolved.
func linkNodes(ctx context.Context, doc *workflow.Document, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	for _, wl := range doc.Links {
		origin, ok := g.Lookup(wl.Origin)
		if !ok {
			return graph.Malformed("link %d starts at unknown node %s", wl.ID, wl.Origin)
		}
		target, ok := g.Lookup(wl.Target)
		if !ok {
			return graph.Malformed("link %d ends at unknown node %s", wl.ID, wl.Target)
		}
		// Nodes without output descriptors are checked against their schema
		// by the transpiler.
		if wl.OriginSlot < 0 || (len(origin.Outputs) > 0 && !hasOutputSlot(origin, wl.OriginSlot)) {
			return graph.Malformed("link %d reads missing output slot %d of node %s", wl.ID, wl.OriginSlot, origin.ID)
		}
		if wl.TargetSlot < 0 || wl.TargetSlot >= len(target.Inputs) {
			return graph.Malformed("link %d writes missing input slot %d of node %s", wl.ID, wl.TargetSlot, target.ID)
		}

		err := g.AddLink(&graph.Link{
			ID:         wl.ID,
			Origin:     origin,
			OriginSlot: wl.OriginSlot,
			Target:     target,
			TargetSlot: wl.TargetSlot,
			Type:       string(wl.Type),
		})
		if err != nil {
			return err
		}
	}

	claimed := make(map[int64]bool)
	for i, wn := range doc.Nodes {
		n := g.Nodes()[i]
		for j, in := range wn.Inputs {
			if in.Link == nil {
				continue
			}
			l, ok := g.Link(*in.Link)
			if !ok {
				return graph.Malformed("input %q of node %s references missing link %d", in.Name, n.ID, *in.Link)
			}
			if l.Target != n {
				return graph.Malformed("input %q of node %s references link %d, which targets node %s", in.Name, n.ID, l.ID, l.Target.ID)
			}
			if claimed[l.ID] {
				return graph.Malformed("link %d is referenced by more than one input", l.ID)
			}
			claimed[l.ID] = true
			g.Connect(n, j, l)
		}
	}

	for _, l := range g.Links() {
		if !claimed[l.ID] {
			logger.Debug("Ignoring link not referenced by any input.", "link", l.ID)
		}
	}
	return nil
}

func hasOutputSlot(n *graph.Node, slot int) bool {
	for _, out := range n.Outputs {
		if out.Slot == slot {
			return true
		}
	}
	return false
}

// detectCycles mirrors the connected links into a dag and checks it.
func detectCycles(g *graph.Graph) error {
	d := dag.New()
	for _, n := range g.Nodes() {
		d.AddNode(n.ID.String())
	}
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs {
			if in.Link == nil {
				continue
			}
			if err := d.AddEdge(in.Link.Origin.ID.String(), n.ID.String()); err != nil {
				return graph.Malformed("link %d: %v", in.Link.ID, err)
			}
		}
	}

	if err := d.DetectCycles(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return graph.Malformed("%v", cycleErr)
		}
		return fmt.Errorf("error validating dependency graph: %w", err)
	}
	return nil
}
