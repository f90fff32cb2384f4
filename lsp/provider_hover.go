package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/cursor"
	"github.com/ankoh/sqlynx-sub000/script"
)

// textDocumentHover handles textDocument/hover requests: it resolves the
// table or column reference under the cursor against the script's own
// scope and the shared catalog.
//
//nolint:nilnil // LSP protocol: nil result means "no hover info"
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	snap := s.workspace.GetDocumentSnapshot(uri)
	if snap == nil {
		return nil, nil
	}

	offset, ok := s.byteOffsetForPosition(snap, params.Position)
	if !ok {
		return nil, nil
	}

	cur, ok := snap.Script.CursorAt(offset)
	if !ok {
		return nil, nil
	}

	switch cur.Context {
	case cursor.ContextTableRef:
		return s.hoverForTableRef(snap, cur)
	case cursor.ContextColumnRef:
		return s.hoverForColumnRef(snap, cur)
	default:
		return nil, nil
	}
}

//nolint:nilnil
func (s *Server) hoverForTableRef(snap *DocumentSnapshot, cur script.CursorResult) (*protocol.Hover, error) {
	analyzed := cur.Analyzed
	if analyzed == nil || cur.Scope < 0 {
		return nil, nil
	}
	scope := analyzed.Scopes[cur.Scope]
	path := analyzed.Parsed.AST.PathToRoot(cur.Node)
	for _, binding := range scope.Tables {
		if !binding.ResolvedOK || !containsNode(path, binding.TableRefNode) {
			continue
		}
		return s.markdownHover(hoverForTableDecl(binding.Resolved)), nil
	}
	return nil, nil
}

func containsNode(path []int32, node int32) bool {
	for _, n := range path {
		if n == node {
			return true
		}
	}
	return false
}

//nolint:nilnil
func (s *Server) hoverForColumnRef(snap *DocumentSnapshot, cur script.CursorResult) (*protocol.Hover, error) {
	analyzed := cur.Analyzed
	if analyzed == nil {
		return nil, nil
	}
	path := analyzed.Parsed.AST.PathToRoot(cur.Node)
	for _, ref := range analyzed.ColumnRefs {
		if !ref.Resolved || !containsNode(path, ref.Node) {
			continue
		}
		return s.markdownHover(hoverForColumn(ref)), nil
	}
	return nil, nil
}

func hoverForTableDecl(decl catalog.TableDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**table** `%s.%s.%s`\n\n", decl.Name.Database, decl.Name.Schema, decl.Name.Table)
	if len(decl.Columns) > 0 {
		b.WriteString("Columns:\n")
		for _, c := range decl.Columns {
			fmt.Fprintf(&b, "- `%s`\n", c.Name)
		}
	}
	return b.String()
}

func hoverForColumn(ref analysis.ColumnResolution) string {
	var b strings.Builder
	owner := ref.Binding.Qualified.Table
	if ref.Binding.ResolvedOK {
		owner = ref.Binding.Resolved.Name.Table
	}
	fmt.Fprintf(&b, "**column** `%s.%s`\n", owner, ref.ColumnName)
	return b.String()
}

func (s *Server) markdownHover(content string) *protocol.Hover {
	if content == "" {
		return nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}
}
