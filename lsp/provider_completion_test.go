package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestServer_CompletionAfterFromSuggestsTables(t *testing.T) {
	s := NewServer(nil, Config{})
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///tmp/schema.sql", Version: 1, Text: "create table users (id, email)"},
	}))
	require.NoError(t, s.textDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///tmp/query.sql", Version: 1, Text: "select id from us"},
	}))

	result, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/query.sql"},
			Position:     protocol.Position{Line: 0, Character: 17},
		},
	})
	require.NoError(t, err)

	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)

	var found bool
	for _, item := range items {
		if item.Label == "users" {
			found = true
		}
	}
	assert.True(t, found, "expected completion to suggest the declared table")
}

func TestServer_CompletionUnknownDocumentReturnsNil(t *testing.T) {
	s := NewServer(nil, Config{})
	result, err := s.textDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/missing.sql"},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}
