// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package transpile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/wfscript/internal/builder"
	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/graph"
	"github.com/specialistvlad/wfscript/internal/model"
	"github.com/specialistvlad/wfscript/internal/naming"
	"github.com/specialistvlad/wfscript/internal/nodeid"
	"github.com/specialistvlad/wfscript/internal/rules"
)

// Options controls how scripts are generated.
type Options struct {
	// Format selects how arguments are written. Defaults to ArgsPositional.
	Format ArgsFormat
	// Rules are the elimination tables. Defaults to rules.Default().
	Rules *rules.Tables
	// Runtime wraps the script in the runtime imports and a workflow block.
	Runtime bool
	// RuntimeModule is the module imported by the runtime header. Defaults
	// to DefaultRuntimeModule.
	RuntimeModule string
}

// Transpiler turns checked graphs into scripts. It holds no per-call
// state and may be shared between goroutines.
type Transpiler struct {
	schemas model.SchemaProvider
	opts    Options
}

// New returns a Transpiler resolving operation types through schemas. The
// editor-only types are answered without consulting schemas.
func New(schemas model.SchemaProvider, opts Options) *Transpiler {
	if opts.Format == "" {
		opts.Format = ArgsPositional
	}
	if opts.Rules == nil {
		opts.Rules = rules.Default()
	}
	if opts.RuntimeModule == "" {
		opts.RuntimeModule = DefaultRuntimeModule
	}
	return &Transpiler{schemas: builder.WithBuiltins(schemas), opts: opts}
}

// ToScript renders g as a script. When end is empty every node without
// consumers is an end node.
func (t *Transpiler) ToScript(ctx context.Context, g *graph.Graph, end ...nodeid.ID) (string, error) {
	statements, err := t.Statements(ctx, g, end...)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(statements))
	for i, st := range statements {
		lines[i] = st.Text
	}
	return assemble(lines, t.opts), nil
}

// Statements returns the statements of the script in order, after the
// rewrite passes. Deleted statements are left out.
func (t *Transpiler) Statements(ctx context.Context, g *graph.Graph, end ...nodeid.ID) ([]*Statement, error) {
	logger := ctxlog.FromContext(ctx)
	s := t.newSession(logger, g)

	ends, err := s.endNodes(end)
	if err != nil {
		return nil, err
	}
	logger.Debug("ToScript: Starting traversal.", "end_nodes", len(ends))

	order, err := s.order(ends)
	if err != nil {
		return nil, err
	}
	logger.Debug("ToScript: Traversal complete.", "node_count", len(order))

	var out []*Statement
	for _, n := range order {
		st, err := s.emit(n)
		if err != nil {
			return nil, err
		}
		if err := s.rewrite(st); err != nil {
			return nil, err
		}
		if st.Deleted() {
			logger.Debug("Statement eliminated.", "node", n.DisplayName())
			continue
		}
		out = append(out, st)
	}
	logger.Debug("ToScript: Emission complete.", "statement_count", len(out), "variables", s.vars.Len())
	return out, nil
}

// session is the state of one ToScript call.
type session struct {
	t      *Transpiler
	logger *slog.Logger
	g      *graph.Graph

	classes *naming.Table
	vars    *naming.Table

	outputs    map[*graph.Node]map[int]outputID
	selections map[*graph.Node]rules.Branch
	widgets    map[*graph.Node]*widgetValues
}

// outputID is the identifier bound to an output slot.
type outputID struct {
	Name string
	// Allocated is set when Name was allocated for this slot rather than
	// taken over from an argument.
	Allocated bool
	// Shared is set when Name is still readable through another path, so
	// no consumer may overwrite it.
	Shared bool
}

// producerKey identifies a produced value in the variable table.
type producerKey struct {
	node *graph.Node
	slot int
}

func (t *Transpiler) newSession(logger *slog.Logger, g *graph.Graph) *session {
	return &session{
		t:          t,
		logger:     logger,
		g:          g,
		classes:    naming.NewTable(),
		vars:       naming.NewTable(),
		outputs:    make(map[*graph.Node]map[int]outputID),
		selections: make(map[*graph.Node]rules.Branch),
		widgets:    make(map[*graph.Node]*widgetValues),
	}
}

func (s *session) endNodes(ids []nodeid.ID) ([]*graph.Node, error) {
	if len(ids) == 0 {
		return s.g.Sinks(), nil
	}
	ends := make([]*graph.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := s.g.Lookup(id)
		if !ok {
			return nil, graph.Malformed("end node %s does not exist", id)
		}
		ends = append(ends, n)
	}
	return ends, nil
}

func (s *session) inputGroups(n *graph.Node) (model.InputGroups, error) {
	groups, err := s.t.schemas.InputGroups(n.Type)
	if err != nil {
		return model.InputGroups{}, fmt.Errorf("node %s: %w", n.ID, err)
	}
	return groups, nil
}

// assemble joins the statement lines into the final script.
func assemble(lines []string, opts Options) string {
	var b strings.Builder
	indent := ""
	if opts.Runtime {
		b.WriteString(runtimeHeader(opts.RuntimeModule))
		indent = "    "
		if len(lines) == 0 {
			lines = []string{"pass"}
		}
	}
	for _, line := range lines {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
