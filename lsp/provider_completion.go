package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ankoh/sqlynx-sub000/completion"
	"github.com/ankoh/sqlynx-sub000/internal/source"
)

// textDocumentCompletion handles textDocument/completion requests: it moves
// the script's cursor to the requested position and ranks candidates
// against the shared catalog and the script's own scope.
//
//nolint:nilnil // LSP protocol: nil result means no completions
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := params.TextDocument.URI
	snap := s.workspace.GetDocumentSnapshot(uri)
	if snap == nil {
		return nil, nil
	}

	offset, ok := s.byteOffsetForPosition(snap, params.Position)
	if !ok {
		return nil, nil
	}
	if err := snap.Script.MoveCursor(offset); err != nil {
		return nil, nil
	}

	items, err := snap.Script.CompleteAtCursor(completion.Options{Limit: 50})
	if err != nil {
		return nil, nil
	}

	result := make([]protocol.CompletionItem, 0, len(items))
	for _, item := range items {
		kind := completionItemKind(item.Kind)
		var detail *string
		if item.Detail != "" {
			d := item.Detail
			detail = &d
		}
		result = append(result, protocol.CompletionItem{
			Label:  item.Label,
			Kind:   &kind,
			Detail: detail,
		})
	}
	return result, nil
}

func completionItemKind(k completion.Kind) protocol.CompletionItemKind {
	switch k {
	case completion.KindTable:
		return protocol.CompletionItemKindClass
	case completion.KindColumn:
		return protocol.CompletionItemKindField
	case completion.KindAlias:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindKeyword
	}
}

// byteOffsetForPosition converts an LSP position to a byte offset within
// snap's text: it registers the text in a fresh source registry and
// converts through ByteOffsetFromLSP, with no other fallback path.
func (s *Server) byteOffsetForPosition(snap *DocumentSnapshot, pos protocol.Position) (int, bool) {
	reg := source.NewRegistry()
	if err := reg.Register(snap.ScriptID, []byte(snap.Text)); err != nil {
		return 0, false
	}
	return ByteOffsetFromLSP(reg, snap.ScriptID, int(pos.Line), int(pos.Character), s.workspace.PositionEncoding())
}
