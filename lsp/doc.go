// Package lsp implements a Language Server Protocol (LSP) server over the
// interactive SQL analysis engine.
//
// The server provides:
//   - Real-time diagnostics per script: the analysis issues (unresolved or
//     ambiguous table and column references); scanner and parser errors
//     are not published
//   - Completion over catalog tables/columns and SQL keywords
//   - Hover information for resolved table and column references
//   - Go-to-definition from a table reference to its CREATE TABLE declaration
//   - Document symbols for outline views over a script's own declarations
//
// The server communicates via JSON-RPC 2.0 over stdio and implements LSP
// 3.16 (via github.com/tliron/glsp).
//
// # Architecture
//
// The server consists of:
//   - Server: protocol lifecycle and request routing
//   - Workspace: open scripts, debounced analysis, diagnostic publication
//   - Feature providers: completion, hover, definition, document symbols
//
// Every open script is loaded into one shared catalog.Catalog, so a table
// declared in one buffer resolves column and table references made in
// another — the workspace is the multi-script view of the same catalog
// surface the core packages expose for a single script.
//
// # Limitations
//
// LSP 3.16 does not support position encoding negotiation (added in 3.17);
// UTF-16 is assumed for all character positions unless a client explicitly
// requests UTF-8 via a future negotiation mechanism. Only file:// URIs are
// recognized; documents opened under other schemes are ignored.
//
// Scripts are synchronized by full-text replacement (TextDocumentSyncKindFull)
// rather than incremental edits, mirroring the engine's own full-text
// SetText model — there is no rope buffer to splice into.
package lsp
