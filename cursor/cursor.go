// Package cursor locates where a byte offset sits within a parsed,
// analyzed script (§4.4): the matched scanner symbol, the innermost AST
// node and enclosing statement, the statement's name-resolution scope, and
// a coarse classification of what kind of reference the cursor sits in —
// inputs the completion engine (§4.5) builds its suggestions from.
//
// Cursor works entirely in byte offsets; translating an editor's line/column
// (and, for LSP clients, UTF-16 code units) position into a byte offset is
// the adapter layer's job, not this package's (see lsp/posconv.go).
package cursor

import (
	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/scanner"
)

// Context coarsely classifies what a cursor is positioned in, driving which
// completion strategy applies.
type Context int

const (
	// ContextNone means no more specific context was detected; completion
	// falls back to keyword/statement-start suggestions.
	ContextNone Context = iota
	// ContextTableRef means the cursor sits within a FROM/JOIN table name
	// path.
	ContextTableRef
	// ContextColumnRef means the cursor sits within a column name path
	// (select list, WHERE, ON, GROUP BY, HAVING, ORDER BY).
	ContextColumnRef
)

// ScriptCursor is the result of Move.
type ScriptCursor struct {
	Offset   int
	Location scanner.LocationInfo

	// Node is the innermost AST node index containing Offset, or -1 if
	// Offset falls outside every node's range (e.g. an empty script, or
	// trailing whitespace after the last statement).
	Node int32
	// Statement is the index into AST.Statements containing Node, or -1.
	Statement int
	// Scope is the index into the owning AnalyzedScript.Scopes for
	// Statement, or -1 if Statement has no resolved scope (not a SELECT,
	// or analysis was not run).
	Scope int

	Context Context
}

// Move resolves offset against scanned/parsed/analyzed. analyzed may be nil
// (a script that scanned and parsed but was never analyzed still supports
// keyword completion via Context/Node, just not scope-aware column
// completion).
func Move(scanned *scanner.ScannedScript, parsed parser.Result, analyzed *analysis.AnalyzedScript, offset int) ScriptCursor {
	cur := ScriptCursor{
		Offset:    offset,
		Location:  scanned.FindSymbol(offset),
		Node:      -1,
		Statement: -1,
		Scope:     -1,
	}

	cur.Node = innermostNode(parsed.AST, offset)
	if cur.Node == -1 {
		return cur
	}
	cur.Statement = parsed.AST.StatementFor(cur.Node)
	cur.Context = classify(parsed.AST, cur.Node)

	if analyzed != nil && cur.Statement >= 0 {
		for i, scope := range analyzed.Scopes {
			if scope.StatementIndex == cur.Statement {
				cur.Scope = i
				break
			}
		}
	}

	return cur
}

// innermostNode returns the node index of smallest length whose
// [Offset, Offset+Length] range contains offset, preferring the node whose
// range ends exactly at offset (so completion triggered by typing
// immediately after an identifier still anchors to that identifier).
func innermostNode(tree *ast.AST, offset int) int32 {
	best := int32(-1)
	bestLen := -1
	for i, n := range tree.Nodes {
		if n.Length == 0 && n.Offset == 0 {
			continue // unset range (e.g. synthetic clause-wrapper nodes)
		}
		if offset < n.Offset || offset > n.Offset+n.Length {
			continue
		}
		if best == -1 || n.Length < bestLen {
			best = int32(i)
			bestLen = n.Length
		}
	}
	return best
}

// classify walks from node up to its statement root looking for the
// nearest TableRef or ColumnRef ancestor (or node itself).
func classify(tree *ast.AST, node int32) Context {
	for _, n := range tree.PathToRoot(node) {
		switch tree.Nodes[n].Kind {
		case ast.TableRef:
			return ContextTableRef
		case ast.ColumnRef:
			return ContextColumnRef
		}
	}
	return ContextNone
}
