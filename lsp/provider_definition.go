package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/cursor"
	"github.com/ankoh/sqlynx-sub000/internal/source"
)

// textDocumentDefinition handles textDocument/definition requests: it
// resolves the table reference under the cursor to the TableDecl it bound
// to during analysis, then locates that declaration's DeclSpan — possibly
// in a different open document, since every script loads into one shared
// catalog.
//
//nolint:nilnil // LSP protocol: nil result means "no definition found"
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
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
	if !ok || cur.Context != cursor.ContextTableRef || cur.Analyzed == nil || cur.Scope < 0 {
		return nil, nil
	}

	scope := cur.Analyzed.Scopes[cur.Scope]
	path := cur.Analyzed.Parsed.AST.PathToRoot(cur.Node)
	var decl catalog.TableDecl
	found := false
	for _, binding := range scope.Tables {
		if !binding.ResolvedOK || !containsNode(path, binding.TableRefNode) {
			continue
		}
		decl = binding.Resolved
		found = true
		break
	}
	if !found || decl.DeclSpan.IsZero() {
		return nil, nil
	}

	loc := s.locationForDecl(decl)
	if loc == nil {
		return nil, nil
	}
	return loc, nil
}

//nolint:nilnil
func (s *Server) locationForDecl(decl catalog.TableDecl) *protocol.Location {
	declDoc := s.workspace.DocumentForScript(decl.ID.EntryID)
	if declDoc == nil {
		return nil
	}

	reg := source.NewRegistry()
	if err := reg.Register(declDoc.ScriptID, []byte(declDoc.Text)); err != nil {
		return nil
	}

	start, end, ok := SpanToLSPRange(reg, decl.DeclSpan, s.workspace.PositionEncoding())
	if !ok {
		return nil
	}

	return &protocol.Location{
		URI: declDoc.URI,
		Range: protocol.Range{
			Start: protocol.Position{Line: toUInteger(start[0]), Character: toUInteger(start[1])},
			End:   protocol.Position{Line: toUInteger(end[0]), Character: toUInteger(end[1])},
		},
	}
}
