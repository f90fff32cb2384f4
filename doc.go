// Package sqlynx provides an interactive SQL analysis engine for Go
// applications.
//
// The engine turns raw SQL text into a scanned, parsed, name-resolved
// representation suitable for editor-grade tooling: completion, hover,
// and catalog-aware diagnostics. It is built around a flat, arena-style
// AST and symbol stream so that scripts can be re-analyzed incrementally
// without tree-pointer churn.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no dependencies on higher tiers; diag imports location):
//	  - location: Script positions, spans, and script identity
//	  - diag: Structured diagnostics with stable error codes
//
//	Core library tier:
//	  - token: SQL token kinds and keyword tables
//	  - name: Per-script deduplicated name registry
//	  - scanner: Lexical analysis producing a flat symbol stream
//	  - ast: Flat AST node arrays and statement ranges
//	  - parser: Restartable recursive-descent parser
//	  - catalog: Cross-script database/schema/table catalog
//	  - descriptor: JSONC catalog descriptor loading
//	  - analysis: Name resolution over the flat AST
//	  - querygraph: Table/column reference graph
//	  - cursor: Cursor-to-AST-location mapping
//	  - completion: Ranked, cursor-driven completion
//	  - snapshot: Cross-language read views of pipeline state
//	  - script: Pipeline orchestration (scan/parse/analyze/complete)
//
//	Adapter tier:
//	  - lsp: Language Server Protocol server
//
// # Entry Points
//
// Running a script through the pipeline:
//
//	import "github.com/ankoh/sqlynx-sub000/script"
//
//	s := script.New(id, sourceID, cat, rank)
//	s.SetText(text)
//	s.Scan(ctx, logger)
//	if err := s.Parse(ctx, logger); err != nil {
//	    // Stage-ordering error (*script.StatusError)
//	}
//	if err := s.Analyze(ctx, logger); err != nil {
//	    // Stage-ordering error (*script.StatusError)
//	}
//	for _, issue := range s.Diagnostics() {
//	    // Analysis diagnostics
//	}
//
// Requesting completion at a cursor:
//
//	import "github.com/ankoh/sqlynx-sub000/completion"
//
//	if err := s.MoveCursor(textOffset); err != nil {
//	    // Script not parsed yet
//	}
//	items, err := s.CompleteAtCursor(completion.Options{Limit: 20})
//
// Loading a catalog descriptor:
//
//	import "github.com/ankoh/sqlynx-sub000/descriptor"
//
//	pool, result := descriptor.Parse(sourceID, descriptorBytes)
//	if result.HasErrors() {
//	    // Malformed descriptor
//	}
//	if err := pool.LoadInto(cat, id, rank); err != nil {
//	    // *catalog.ErrOutOfSync
//	}
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/ankoh/sqlynx-sub000/diag]: Structured diagnostics
//   - [github.com/ankoh/sqlynx-sub000/location]: Source location tracking
//   - [github.com/ankoh/sqlynx-sub000/token]: SQL token kinds
//   - [github.com/ankoh/sqlynx-sub000/name]: Name registry
//   - [github.com/ankoh/sqlynx-sub000/scanner]: Lexical analysis
//   - [github.com/ankoh/sqlynx-sub000/ast]: Flat AST
//   - [github.com/ankoh/sqlynx-sub000/parser]: SQL parser
//   - [github.com/ankoh/sqlynx-sub000/catalog]: Catalog management
//   - [github.com/ankoh/sqlynx-sub000/descriptor]: Catalog descriptor loading
//   - [github.com/ankoh/sqlynx-sub000/analysis]: Name resolution
//   - [github.com/ankoh/sqlynx-sub000/querygraph]: Reference graph
//   - [github.com/ankoh/sqlynx-sub000/cursor]: Cursor mapping
//   - [github.com/ankoh/sqlynx-sub000/completion]: Completion engine
//   - [github.com/ankoh/sqlynx-sub000/snapshot]: Pipeline snapshots
//   - [github.com/ankoh/sqlynx-sub000/script]: Pipeline orchestration
//   - [github.com/ankoh/sqlynx-sub000/lsp]: Language Server Protocol server
package sqlynx
