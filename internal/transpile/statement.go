package transpile

import (
	"github.com/specialistvlad/wfscript/internal/graph"
)

// StatementKind is the shape of a statement.
type StatementKind int

const (
	// KindCall is `targets = Callee(args)` or a bare call.
	KindCall StatementKind = iota
	// KindCopy is the `targets = sources` copy of a bypassed node.
	KindCopy
	// KindValue is `targets = value`, a call whose constant was inlined.
	KindValue
)

func (k StatementKind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindCopy:
		return "copy"
	case KindValue:
		return "value"
	}
	return "unknown"
}

// Statement is the script line of one node.
type Statement struct {
	Node *graph.Node
	Kind StatementKind
	// Targets holds one identifier per output slot, Discard for unused
	// ones. It is empty for nodes without outputs.
	Targets []string
	Callee  string
	Args    []Arg
	// Sources are the copied values of a KindCopy statement, one per
	// non-discard target.
	Sources []string
	// Text is the rendered line; empty once the statement is deleted.
	Text string

	outputs []slotOutput
}

// slotOutput is an output descriptor checked against the schema.
type slotOutput struct {
	*graph.Output
	valid bool
}

// Deleted reports whether a pass removed the statement.
func (st *Statement) Deleted() bool {
	return st.Text == ""
}

// Dead reports whether no output of the statement is read.
func (st *Statement) Dead() bool {
	if len(st.Targets) == 0 {
		return false
	}
	for _, t := range st.Targets {
		if t != Discard {
			return false
		}
	}
	return true
}

func (st *Statement) delete() {
	st.Text = ""
}
