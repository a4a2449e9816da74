package graph

import (
	"sort"

	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/workflow"
)

// Graph is a checked workflow graph.
type Graph struct {
	// Version is the format version of the source document.
	Version string
	// FromPrompt marks graphs reconstructed from the execution-request format.
	FromPrompt bool

	nodes []*Node
	byID  map[nodeid.ID]*Node
	links map[int64]*Link
}

// Node is an operation node.
type Node struct {
	ID      nodeid.ID
	Type    string
	Pos     workflow.Position
	Mode    workflow.Mode
	Title   string
	Widgets *workflow.WidgetValues
	Inputs  []*Input
	// Outputs are ordered by slot.
	Outputs []*Output

	consumers map[int][]*Link
}

// Input is an input slot. Link is nil for unconnected inputs.
type Input struct {
	Name string
	Type string
	Link *Link
}

// Output is an output slot descriptor.
type Output struct {
	Name string
	Type string
	Slot int
}

// Link is a connection from an output slot to an input slot.
type Link struct {
	ID         int64
	Origin     *Node
	OriginSlot int
	Target     *Node
	TargetSlot int
	Type       string
}

// New creates an empty graph.
func New(version string, fromPrompt bool) *Graph {
	return &Graph{
		Version:    version,
		FromPrompt: fromPrompt,
		byID:       make(map[nodeid.ID]*Node),
		links:      make(map[int64]*Link),
	}
}

// AddNode adds a node. Two ids that only differ in their JSON form (7 and
// "7") are duplicates, since lookups coerce between them.
func (g *Graph) AddNode(n *Node) error {
	for _, candidate := range nodeid.Candidates(n.ID) {
		if _, exists := g.byID[candidate]; exists {
			return Malformed("duplicate node id %s", n.ID)
		}
	}
	if n.consumers == nil {
		n.consumers = make(map[int][]*Link)
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	return nil
}

// AddLink adds a link between two nodes already in the graph.
func (g *Graph) AddLink(l *Link) error {
	if _, exists := g.links[l.ID]; exists {
		return Malformed("duplicate link id %d", l.ID)
	}
	if l.Origin == nil || l.Target == nil {
		return Malformed("link %d has a missing endpoint", l.ID)
	}
	g.links[l.ID] = l
	return nil
}

// Connect binds input slot idx of n to link l and records n as a consumer
// of the link's origin slot.
func (g *Graph) Connect(n *Node, idx int, l *Link) {
	n.Inputs[idx].Link = l
	l.Origin.consumers[l.OriginSlot] = append(l.Origin.consumers[l.OriginSlot], l)
}

// Node returns the node with exactly this id.
func (g *Graph) Node(id nodeid.ID) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Lookup finds a node, trying the coerced numeric or string form of id when
// the exact form is absent.
func (g *Graph) Lookup(id nodeid.ID) (*Node, bool) {
	for _, candidate := range nodeid.Candidates(id) {
		if n, ok := g.byID[candidate]; ok {
			return n, true
		}
	}
	return nil, false
}

// Link returns the link with the given id.
func (g *Graph) Link(id int64) (*Link, bool) {
	l, ok := g.links[id]
	return l, ok
}

// Nodes returns all nodes in document order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Links returns all links ordered by id.
func (g *Graph) Links() []*Link {
	out := make([]*Link, 0, len(g.links))
	for _, l := range g.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sinks returns the nodes without consumers, ordered top-left first by the
// sum of their coordinates. Ties keep document order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.nodes {
		if n.OutDegree() == 0 {
			sinks = append(sinks, n)
		}
	}
	sort.SliceStable(sinks, func(i, j int) bool {
		return sinks[i].Pos.Sum() < sinks[j].Pos.Sum()
	})
	return sinks
}

// Consumers returns the links reading output slot of n.
func (n *Node) Consumers(slot int) []*Link {
	return n.consumers[slot]
}

// OutDegree returns the number of links leaving n.
func (n *Node) OutDegree() int {
	total := 0
	for _, links := range n.consumers {
		total += len(links)
	}
	return total
}

// ConsumedSlots returns the output slots of n read by at least one link,
// in ascending order.
func (n *Node) ConsumedSlots() []int {
	slots := make([]int, 0, len(n.consumers))
	for slot, links := range n.consumers {
		if len(links) > 0 {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots
}

// Bypassed reports whether the node is disabled in pass-through mode.
func (n *Node) Bypassed() bool {
	return n.Mode == workflow.ModeBypass
}

// DisplayName is a short label for diagnostics.
func (n *Node) DisplayName() string {
	if n.Title != "" {
		return n.Title + " (" + n.ID.String() + ")"
	}
	return n.Type + " (" + n.ID.String() + ")"
}
