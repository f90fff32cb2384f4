package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/internal/source"
	"github.com/ankoh/sqlynx-sub000/location"
)

// textDocumentDocumentSymbol handles textDocument/documentSymbol requests:
// it lists the CREATE TABLE declarations this script itself contributes,
// each with its columns as children, for an editor's outline view.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	uri := params.TextDocument.URI
	snap := s.workspace.GetDocumentSnapshot(uri)
	if snap == nil {
		return []protocol.DocumentSymbol{}, nil
	}

	tables := snap.Script.Tables()
	if len(tables) == 0 {
		return []protocol.DocumentSymbol{}, nil
	}

	reg := source.NewRegistry()
	if err := reg.Register(snap.ScriptID, []byte(snap.Text)); err != nil {
		return []protocol.DocumentSymbol{}, nil
	}

	enc := s.workspace.PositionEncoding()
	symbols := make([]protocol.DocumentSymbol, 0, len(tables))
	for _, t := range tables {
		symbols = append(symbols, tableDocumentSymbol(enc, reg, t))
	}
	return symbols, nil
}

func tableDocumentSymbol(enc PositionEncoding, reg *source.Registry, t catalog.TableDecl) protocol.DocumentSymbol {
	kind := protocol.SymbolKindClass
	detail := t.Name.Database + "." + t.Name.Schema
	rng := declRange(enc, reg, t.DeclSpan)

	children := make([]protocol.DocumentSymbol, 0, len(t.Columns))
	for _, c := range t.Columns {
		children = append(children, protocol.DocumentSymbol{
			Name:           c.Name,
			Kind:           protocol.SymbolKindField,
			Range:          rng,
			SelectionRange: rng,
		})
	}

	return protocol.DocumentSymbol{
		Name:           t.Name.Table,
		Detail:         &detail,
		Kind:           kind,
		Range:          rng,
		SelectionRange: rng,
		Children:       children,
	}
}

func declRange(enc PositionEncoding, reg *source.Registry, span location.Span) protocol.Range {
	if span.IsZero() {
		return protocol.Range{}
	}
	start, end, ok := SpanToLSPRange(reg, span, enc)
	if !ok {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: protocol.Position{Line: toUInteger(start[0]), Character: toUInteger(start[1])},
		End:   protocol.Position{Line: toUInteger(end[0]), Character: toUInteger(end[1])},
	}
}
