// Package snapshot builds flat, pointer-free views of a script's analysis
// and catalog state (§2 "Flat Snapshot") for consumption by a caller
// outside this module — a UI, a test harness, or a process in another
// language. Packing these views onto an actual cross-language wire format
// is an external collaborator's job (see SPEC_FULL.md's Non-goals); this
// package only produces the plain Go values that collaborator would encode.
package snapshot

import (
	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/querygraph"
)

// DiagnosticSnapshot is one diag.Issue reduced to plain fields.
type DiagnosticSnapshot struct {
	Severity string
	Code     string
	Message  string
	Hint     string
	Line     int
	Column   int
	Byte     int
}

// TableBindingSnapshot is one analysis.TableBinding reduced to plain fields.
type TableBindingSnapshot struct {
	Alias      string
	Database   string
	Schema     string
	Table      string
	ResolvedOK bool
}

// ScopeSnapshot is one analysis.Scope reduced to plain fields.
type ScopeSnapshot struct {
	StatementIndex int
	Tables         []TableBindingSnapshot
}

// ColumnRefSnapshot is one analysis.ColumnResolution reduced to plain fields.
type ColumnRefSnapshot struct {
	Node       int32
	TableAlias string
	ColumnName string
	Resolved   bool
}

// EdgeSnapshot is one querygraph.Edge reduced to plain fields.
type EdgeSnapshot struct {
	StatementIndex int
	Operator       string
	LeftAlias      string
	LeftColumn     string
	RightAlias     string
	RightColumn    string
	LikelyKeyed    bool
}

// ScriptSnapshot is a complete, dependency-free view of one analyzed
// script plus the catalog it was analyzed against.
type ScriptSnapshot struct {
	Source      string
	Diagnostics []DiagnosticSnapshot
	Scopes      []ScopeSnapshot
	ColumnRefs  []ColumnRefSnapshot
	Edges       []EdgeSnapshot
	Catalog     catalog.FlatCatalog
}

// Build assembles a ScriptSnapshot from an analyzed script, its (optional,
// may be nil) query graph, and the catalog it was analyzed against.
func Build(analyzed *analysis.AnalyzedScript, graph *querygraph.Result, cat *catalog.Catalog) ScriptSnapshot {
	snap := ScriptSnapshot{}
	if analyzed == nil {
		return snap
	}
	snap.Source = analyzed.Scanned.ScriptID.String()

	snap.Diagnostics = make([]DiagnosticSnapshot, 0, len(analyzed.Diagnostics))
	for _, issue := range analyzed.Diagnostics {
		span := issue.Span()
		snap.Diagnostics = append(snap.Diagnostics, DiagnosticSnapshot{
			Severity: issue.Severity().String(),
			Code:     issue.Code().String(),
			Message:  issue.Message(),
			Hint:     issue.Hint(),
			Line:     span.Start.Line,
			Column:   span.Start.Column,
			Byte:     span.Start.Byte,
		})
	}

	snap.Scopes = make([]ScopeSnapshot, 0, len(analyzed.Scopes))
	for _, scope := range analyzed.Scopes {
		s := ScopeSnapshot{StatementIndex: scope.StatementIndex}
		for _, b := range scope.Tables {
			s.Tables = append(s.Tables, TableBindingSnapshot{
				Alias:      b.Alias,
				Database:   b.Qualified.Database,
				Schema:     b.Qualified.Schema,
				Table:      b.Qualified.Table,
				ResolvedOK: b.ResolvedOK,
			})
		}
		snap.Scopes = append(snap.Scopes, s)
	}

	snap.ColumnRefs = make([]ColumnRefSnapshot, 0, len(analyzed.ColumnRefs))
	for _, ref := range analyzed.ColumnRefs {
		snap.ColumnRefs = append(snap.ColumnRefs, ColumnRefSnapshot{
			Node:       ref.Node,
			TableAlias: ref.Binding.Alias,
			ColumnName: ref.ColumnName,
			Resolved:   ref.Resolved,
		})
	}

	for _, e := range graph.Edges() {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			StatementIndex: e.StatementIndex(),
			Operator:       e.Operator().String(),
			LeftAlias:      e.Left().Binding.Alias,
			LeftColumn:     e.Left().ColumnName,
			RightAlias:     e.Right().Binding.Alias,
			RightColumn:    e.Right().ColumnName,
			LikelyKeyed:    e.Cardinality() == querygraph.CardinalityLikelyKeyed,
		})
	}

	if cat != nil {
		snap.Catalog = cat.Flatten()
	}

	return snap
}
