// Package querygraph builds the Query Graph (§2): candidate join edges
// inferred from comparison predicates between two resolved column
// references. script.Script builds it after each Analyze and
// snapshot.Build exposes its edges; completion and the cursor do not
// consult it.
package querygraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/token"
)

// Error sentinels for internal query-graph failures; data issues (an
// unresolved column) are reported through analysis.AnalyzedScript.Diagnostics
// instead, not through these.
var (
	ErrInternal    = errors.New("internal querygraph failure")
	ErrNilAnalyzed = fmt.Errorf("%w: nil *analysis.AnalyzedScript", ErrInternal)
)

// Cardinality is a coarse hint about an edge's join selectivity, inferred
// from naming convention rather than declared key constraints (this
// engine's CREATE TABLE grammar does not model PRIMARY KEY constraints).
type Cardinality int

const (
	// CardinalityUnknown is the default: neither side looks like a primary
	// key column.
	CardinalityUnknown Cardinality = iota
	// CardinalityLikelyKeyed indicates at least one side is named "id" or
	// ends in "_id", suggesting a foreign-key-style join.
	CardinalityLikelyKeyed
)

// Edge is a candidate join between two resolved column references compared
// in a WHERE or ON clause.
//
// Edge is nil-safe: every accessor returns the zero value for a nil
// receiver, matching how callers may hold an edge from a Result slice
// after the underlying script was re-analyzed.
type Edge struct {
	statementIndex int
	operator       token.Kind
	left, right    analysis.ColumnResolution
	cardinality    Cardinality
}

// StatementIndex returns the index of the statement the comparison was
// found in.
func (e *Edge) StatementIndex() int {
	if e == nil {
		return -1
	}
	return e.statementIndex
}

// Operator returns the comparison operator token (EQ, LT, and so on).
func (e *Edge) Operator() token.Kind {
	if e == nil {
		return token.ILLEGAL
	}
	return e.operator
}

// Left returns the left-hand column reference.
func (e *Edge) Left() analysis.ColumnResolution {
	if e == nil {
		return analysis.ColumnResolution{}
	}
	return e.left
}

// Right returns the right-hand column reference.
func (e *Edge) Right() analysis.ColumnResolution {
	if e == nil {
		return analysis.ColumnResolution{}
	}
	return e.right
}

// Cardinality returns the edge's naming-convention-derived cardinality hint.
func (e *Edge) Cardinality() Cardinality {
	if e == nil {
		return CardinalityUnknown
	}
	return e.cardinality
}

// Result is an immutable snapshot of every candidate join edge found in a
// script.
type Result struct {
	edges []*Edge
}

// Edges returns every edge, sorted by (statement index, left table alias,
// left column, right table alias, right column) for deterministic output.
func (r *Result) Edges() []*Edge {
	if r == nil {
		return nil
	}
	return r.edges
}

func looksLikeKey(col string) bool {
	if col == "id" {
		return true
	}
	if len(col) > 3 && col[len(col)-3:] == "_id" {
		return true
	}
	return false
}

// Build walks analyzed's AST for comparison expressions between two
// resolved column references and records one edge per such pair.
func Build(analyzed *analysis.AnalyzedScript) (*Result, error) {
	if analyzed == nil {
		return nil, ErrNilAnalyzed
	}

	byNode := make(map[int32]analysis.ColumnResolution, len(analyzed.ColumnRefs))
	for _, ref := range analyzed.ColumnRefs {
		if ref.Resolved {
			byNode[ref.Node] = ref
		}
	}

	tree := analyzed.Parsed.AST
	result := &Result{}

	for i := range tree.Nodes {
		node := int32(i)
		if tree.Nodes[node].Kind != ast.BinaryExpr {
			continue
		}
		opKind, ok := analyzed.Parsed.Operator(node)
		if !ok || !opKind.IsComparison() {
			continue
		}
		children := tree.Children(node)
		if len(children) != 2 {
			continue
		}
		left, leftOK := byNode[children[0]]
		right, rightOK := byNode[children[1]]
		if !leftOK || !rightOK {
			continue
		}

		cardinality := CardinalityUnknown
		if looksLikeKey(left.ColumnName) || looksLikeKey(right.ColumnName) {
			cardinality = CardinalityLikelyKeyed
		}

		result.edges = append(result.edges, &Edge{
			statementIndex: tree.StatementFor(node),
			operator:       opKind,
			left:           left,
			right:          right,
			cardinality:    cardinality,
		})
	}

	sortEdges(result.edges)
	return result, nil
}

func sortEdges(edges []*Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.statementIndex != b.statementIndex {
			return a.statementIndex < b.statementIndex
		}
		if a.left.Binding.Alias != b.left.Binding.Alias {
			return a.left.Binding.Alias < b.left.Binding.Alias
		}
		if a.left.ColumnName != b.left.ColumnName {
			return a.left.ColumnName < b.left.ColumnName
		}
		if a.right.Binding.Alias != b.right.Binding.Alias {
			return a.right.Binding.Alias < b.right.Binding.Alias
		}
		return a.right.ColumnName < b.right.ColumnName
	})
}
