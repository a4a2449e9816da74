package dag

import (
	"fmt"
	"sort"
	"strings"
)

// New returns an empty Graph.
func New() *Graph {
	return &Graph{succ: make(map[string]map[string]struct{})}
}

// AddNode adds id to the graph. Adding a known id is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.succ[id]; !ok {
		g.succ[id] = make(map[string]struct{})
	}
}

// AddEdge records that to consumes a value produced by from. Both nodes must
// exist and differ. Parallel edges collapse into one.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", from, to)
	}
	out, ok := g.succ[from]
	if !ok {
		return fmt.Errorf("source node not found: %s", from)
	}
	if _, ok := g.succ[to]; !ok {
		return fmt.Errorf("destination node not found: %s", to)
	}
	out[to] = struct{}{}
	return nil
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node '%s': %s", e.Path[0], strings.Join(e.Path, " -> "))
}

// DetectCycles returns a *CycleError for the first cycle found. Nodes and
// edges are walked in sorted ID order, so the reported path is stable.
func (g *Graph) DetectCycles() error {
	const (
		unseen = iota
		onPath
		done
	)
	state := make(map[string]int, len(g.succ))
	var path []string

	var walk func(id string) error
	walk = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case onPath:
			i := len(path) - 1
			for path[i] != id {
				i--
			}
			cycle := append(append([]string{}, path[i:]...), id)
			return &CycleError{Path: cycle}
		}

		state[id] = onPath
		path = append(path, id)
		for _, next := range sortedIDs(g.succ[id]) {
			if err := walk(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range sortedIDs(g.succ) {
		if err := walk(id); err != nil {
			return err
		}
	}
	return nil
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
