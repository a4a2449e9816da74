package dag

// Graph is a set of node IDs and the directed edges between them. It is
// built and checked by one goroutine.
type Graph struct {
	// succ maps a node ID to the set of IDs that consume its outputs.
	succ map[string]map[string]struct{}
}

// CycleError reports a dependency cycle. Path starts and ends with the same node.
type CycleError struct {
	Path []string
}
