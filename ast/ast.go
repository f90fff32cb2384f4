// Package ast defines the flat AST produced by the parser: a node vector
// addressed by index rather than by pointer, so that name resolution can
// walk it in post-order without per-node allocation.
package ast

import "github.com/ankoh/sqlynx-sub000/name"

// Kind identifies the syntactic role of a node.
type Kind int32

const (
	Invalid Kind = iota
	StatementRoot
	Select
	SelectList
	SelectItem
	From
	TableRef
	TableAlias
	Where
	GroupBy
	Having
	OrderBy
	Join
	JoinCondition
	ColumnRef
	NamePath     // a dotted sequence of name components (table.col, db.schema.table)
	NameComponent
	BinaryExpr
	UnaryExpr
	Literal
	FunctionCall
	CreateTable
	CreateTableAs
	ColumnDef
	ColumnConstraint
	TypeName
	Star // select *
)

// AttrKey discriminates the meaning of a leaf node's Value field, since a
// single flat Node slot is reused for several attribute shapes.
type AttrKey int32

const (
	AttrNone AttrKey = iota
	AttrNameID
	AttrOperatorKind // token.Kind stored in Value
	AttrLiteralText  // index into AST.Literals
)

// Node is one entry in the flat AST vector.
//
// ChildrenBegin/ChildrenCount index into AST.ChildIndices, a separate flat
// vector of child node indices, rather than requiring children to be
// contiguous within Nodes itself.
type Node struct {
	Kind          Kind
	Parent        int32 // -1 for the statement root
	ChildrenBegin int32
	ChildrenCount int32
	Attr          AttrKey
	Value         int32 // meaning depends on Attr; holds name.ID for AttrNameID
	Offset        int
	Length        int
}

// NameID returns the node's attached name, valid when Attr == AttrNameID.
func (n Node) NameID() name.ID {
	return name.ID(n.Value)
}

// StatementKind classifies a top-level statement.
type StatementKind int

const (
	StatementUnknown StatementKind = iota
	StatementSelect
	StatementCreateTable
	StatementInsert
	StatementUpdate
	StatementDelete
)

// Statement is a top-level unit within a script: a kind, its root node
// index, and the contiguous [NodesBegin, NodesEnd) range of node indices
// that belong to it. Statements are ordered by root node location.
type Statement struct {
	Kind       StatementKind
	Root       int32
	NodesBegin int32
	NodesEnd   int32
}

// AST is the full flat syntax tree for one script.
type AST struct {
	Nodes        []Node
	ChildIndices []int32
	Statements   []Statement
	Literals     []string
}

// Children returns the immediate child node indices of node n.
func (a *AST) Children(n int32) []int32 {
	node := a.Nodes[n]
	if node.ChildrenCount == 0 {
		return nil
	}
	return a.ChildIndices[node.ChildrenBegin : node.ChildrenBegin+node.ChildrenCount]
}

// StatementFor returns the index of the statement containing node n, or -1
// if n is out of range of every statement (should not happen for a
// well-formed AST).
func (a *AST) StatementFor(n int32) int {
	for i, st := range a.Statements {
		if n >= st.NodesBegin && n < st.NodesEnd {
			return i
		}
	}
	return -1
}

// Builder constructs an AST bottom-up: children are built and finished
// before their parent, matching how a recursive-descent parser naturally
// produces nodes.
type Builder struct {
	ast *AST
}

// NewBuilder creates a Builder over a fresh, empty AST.
func NewBuilder() *Builder {
	return &Builder{ast: &AST{}}
}

// AST returns the tree built so far. Valid to call at any point, but
// statement ranges are only meaningful after FinishStatement has been
// called for every top-level statement.
func (b *Builder) AST() *AST {
	return b.ast
}

// NewLeaf appends a childless node and returns its index.
func (b *Builder) NewLeaf(kind Kind, attr AttrKey, value int32, offset, length int) int32 {
	idx := int32(len(b.ast.Nodes))
	b.ast.Nodes = append(b.ast.Nodes, Node{
		Kind:   kind,
		Parent: -1,
		Attr:   attr,
		Value:  value,
		Offset: offset,
		Length: length,
	})
	return idx
}

// NewNode appends a node with children, wiring up parent backlinks on each
// child and recording the children in the shared ChildIndices vector.
func (b *Builder) NewNode(kind Kind, children []int32, offset, length int) int32 {
	idx := int32(len(b.ast.Nodes))
	begin := int32(len(b.ast.ChildIndices))
	b.ast.ChildIndices = append(b.ast.ChildIndices, children...)
	b.ast.Nodes = append(b.ast.Nodes, Node{
		Kind:          kind,
		Parent:        -1,
		ChildrenBegin: begin,
		ChildrenCount: int32(len(children)),
		Offset:        offset,
		Length:        length,
	})
	for _, c := range children {
		b.ast.Nodes[c].Parent = idx
	}
	return idx
}

// AddLiteral interns a literal text value and returns its index.
func (b *Builder) AddLiteral(text string) int32 {
	idx := int32(len(b.ast.Literals))
	b.ast.Literals = append(b.ast.Literals, text)
	return idx
}

// FinishStatement records a top-level statement spanning [nodesBegin,
// nodesEnd) rooted at root. Statements must be finished in source order so
// the resulting Statements slice stays ordered by root location, as §3
// requires.
func (b *Builder) FinishStatement(kind StatementKind, root int32, nodesBegin, nodesEnd int32) {
	b.ast.Statements = append(b.ast.Statements, Statement{
		Kind:       kind,
		Root:       root,
		NodesBegin: nodesBegin,
		NodesEnd:   nodesEnd,
	})
}

// NextIndex returns the index the next node appended to the builder will
// receive; parsers use this to compute a statement's NodesBegin before
// parsing its body.
func (b *Builder) NextIndex() int32 {
	return int32(len(b.ast.Nodes))
}
