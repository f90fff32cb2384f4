// Package script orchestrates one script's pipeline stages (§6): scan,
// parse, analyze, optional catalog load, cursor movement, and completion.
// It enforces the pipeline's stage ordering (you cannot parse before
// scanning, analyze before parsing, or complete before moving a cursor)
// the way the predecessor's workspace/analyzer layer gates recompute on a
// document's current state.
package script

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/completion"
	"github.com/ankoh/sqlynx-sub000/cursor"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/internal/trace"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/querygraph"
	"github.com/ankoh/sqlynx-sub000/scanner"
	"github.com/ankoh/sqlynx-sub000/snapshot"
)

// StatusError is a pipeline-ordering or precondition failure, tagged with
// the stable diag.Code a caller across a language boundary would switch on
// (spec's non-exhaustive status code list).
type StatusError struct {
	Code diag.Code
}

func (e *StatusError) Error() string {
	return e.Code.String()
}

var (
	// ErrNotScanned is returned by Parse when Scan has not yet run.
	ErrNotScanned = &StatusError{Code: diag.E_PARSER_INPUT_NOT_SCANNED}
	// ErrNotParsed is returned by Analyze when Parse has not yet run.
	ErrNotParsed = &StatusError{Code: diag.E_ANALYZER_INPUT_NOT_PARSED}
	// ErrNotAnalyzed is returned by Load when Analyze has not yet run.
	ErrNotAnalyzed = &StatusError{Code: diag.E_CATALOG_SCRIPT_NOT_ANALYZED}
	// ErrNoCursor is returned by CompleteAtCursor before MoveCursor has run.
	ErrNoCursor = &StatusError{Code: diag.E_COMPLETION_MISSES_CURSOR}
	// ErrCursorHasNoToken is returned by CompleteAtCursor when the cursor's
	// offset fell outside every scanned symbol (an empty script, or past
	// the end of the last statement).
	ErrCursorHasNoToken = &StatusError{Code: diag.E_COMPLETION_MISSES_SCANNER_TOKEN}
)

// Statistics carries per-stage timing, refreshed on every Scan/Parse/
// Analyze call (spec's "memory + timing counters per stage").
type Statistics struct {
	ScanDuration    time.Duration
	ParseDuration   time.Duration
	AnalyzeDuration time.Duration
	TextBytes       int
	NodeCount       int
	DiagnosticCount int
}

// Script is a single script's pipeline state, analogous to the
// predecessor's per-document Workspace entry but scoped to one script
// instead of a whole import closure.
type Script struct {
	mu sync.Mutex

	id       catalog.ExternalID
	sourceID location.ScriptID
	cat      *catalog.Catalog
	rank     int

	text string

	scanned  *scanner.ScannedScript
	parsed   parser.Result
	parsedOK bool
	analyzed *analysis.AnalyzedScript
	graph    *querygraph.Result

	cur    cursor.ScriptCursor
	curSet bool

	stats Statistics
}

// New creates a Script bound to id (its catalog entry identity once
// loaded), sourceID (for diagnostics and span provenance), and the
// catalog it will resolve table/column references against. rank controls
// priority among same-named tables across scripts loaded into cat (see
// catalog.Catalog.ResolveTable).
func New(id catalog.ExternalID, sourceID location.ScriptID, cat *catalog.Catalog, rank int) *Script {
	return &Script{id: id, sourceID: sourceID, cat: cat, rank: rank}
}

// ID returns the script's catalog entry identity.
func (s *Script) ID() catalog.ExternalID {
	return s.id
}

// SetText replaces the script's full text, invalidating every downstream
// pipeline stage. Scripts in this engine are edited by full-text
// replacement rather than incremental rope splicing (see SPEC_FULL.md's
// Non-goals on the rope text buffer).
func (s *Script) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.scanned = nil
	s.parsed = parser.Result{}
	s.parsedOK = false
	s.analyzed = nil
	s.graph = nil
	s.curSet = false
}

// Text returns the script's current full text.
func (s *Script) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Scan tokenizes the script's current text.
func (s *Script) Scan(ctx context.Context, logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	op := trace.Begin(ctx, logger, "sqlynx.script.scan")
	start := time.Now()
	s.scanned = scanner.Scan(s.sourceID, s.text)
	s.stats.ScanDuration = time.Since(start)
	s.stats.TextBytes = len(s.text)
	op.End(nil)

	s.parsed = parser.Result{}
	s.parsedOK = false
	s.analyzed = nil
	s.graph = nil
	s.curSet = false
}

// Parse runs the restartable parser over the current scan. Returns
// ErrNotScanned if Scan has not yet produced output for the current text.
func (s *Script) Parse(ctx context.Context, logger *slog.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanned == nil {
		return ErrNotScanned
	}

	op := trace.Begin(ctx, logger, "sqlynx.script.parse")
	start := time.Now()
	s.parsed = parser.Parse(s.scanned)
	s.parsedOK = true
	s.stats.ParseDuration = time.Since(start)
	s.stats.NodeCount = len(s.parsed.AST.Nodes)
	op.End(nil)

	s.analyzed = nil
	s.graph = nil
	s.curSet = false
	return nil
}

// Analyze resolves table and column references against cat. Returns
// ErrNotParsed if Parse has not yet run for the current scan.
func (s *Script) Analyze(ctx context.Context, logger *slog.Logger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.parsedOK {
		return ErrNotParsed
	}

	start := time.Now()
	s.analyzed = analysis.Analyze(ctx, logger, s.scanned, s.parsed, s.cat, s.id)
	s.stats.AnalyzeDuration = time.Since(start)
	s.stats.DiagnosticCount = len(s.analyzed.Diagnostics)

	graph, err := querygraph.Build(s.analyzed)
	if err == nil {
		s.graph = graph
	}

	s.curSet = false
	return nil
}

// Load publishes the script's analyzed table declarations into its
// catalog under its rank, replacing any declarations it previously
// published. Returns ErrNotAnalyzed if Analyze has not yet run.
func (s *Script) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzed == nil {
		return ErrNotAnalyzed
	}
	return s.cat.LoadScript(s.id, s.rank, s.analyzed.CatalogInput())
}

// Drop removes the script's declarations from its catalog.
func (s *Script) Drop() {
	s.cat.DropScript(s.id)
}

// MoveCursor relocates the script's cursor to a byte offset, the anchor
// for a subsequent CompleteAtCursor call. Moving the cursor works even if
// Analyze has not yet run (cursor.Move accepts a nil *AnalyzedScript);
// completion then offers no column candidates, only tables and keywords.
func (s *Script) MoveCursor(offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanned == nil || !s.parsedOK {
		return ErrNotParsed
	}
	s.cur = cursor.Move(s.scanned, s.parsed, s.analyzed, offset)
	s.curSet = true
	return nil
}

// CursorResult is a read-only view of a cursor position, for callers (the
// LSP server's hover and definition providers) that need to inspect the
// resolved scope and reference context directly rather than only rank
// completion candidates.
type CursorResult struct {
	Context  cursor.Context
	Node     int32
	Scope    int
	Analyzed *analysis.AnalyzedScript
}

// CursorAt moves the script's cursor to offset and returns its resolution
// context. Returns ok=false if the script has not been parsed yet.
func (s *Script) CursorAt(offset int) (CursorResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanned == nil || !s.parsedOK {
		return CursorResult{}, false
	}
	cur := cursor.Move(s.scanned, s.parsed, s.analyzed, offset)
	s.cur = cur
	s.curSet = true
	return CursorResult{Context: cur.Context, Node: cur.Node, Scope: cur.Scope, Analyzed: s.analyzed}, true
}

// CompleteAtCursor ranks completion candidates at the script's current
// cursor position. Returns ErrNoCursor if MoveCursor has not yet run, or
// ErrCursorHasNoToken if the cursor's offset fell outside every scanned
// symbol.
func (s *Script) CompleteAtCursor(opts completion.Options) ([]completion.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.curSet {
		return nil, ErrNoCursor
	}
	if s.cur.Node == -1 {
		return nil, ErrCursorHasNoToken
	}
	return completion.Complete(s.scanned, s.parsed, s.analyzed, s.cat, s.cur, opts), nil
}

// Snapshot builds a flat, pointer-free view of the script's current
// analysis state for handing to an external caller.
func (s *Script) Snapshot() snapshot.ScriptSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Build(s.analyzed, s.graph, s.cat)
}

// Statistics returns the most recent per-stage timing and size counters.
func (s *Script) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Tables returns the CREATE TABLE declarations this script itself
// contributed during the most recent Analyze call, or nil if the script
// has not been analyzed. Each declaration's DeclSpan locates it within
// this script's own text, for building an outline view.
func (s *Script) Tables() []catalog.TableDecl {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzed == nil {
		return nil
	}
	return s.analyzed.Tables
}

// Diagnostics returns the issues raised by the most recent Analyze call, or
// nil if the script has not been analyzed. Callers that need a pointer-free
// view should use Snapshot instead; this accessor exists for callers (such
// as the LSP server) that need the full diag.Issue, including its Related
// entries, to render an LSP diagnostic.
func (s *Script) Diagnostics() []diag.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzed == nil {
		return nil
	}
	return s.analyzed.Diagnostics
}
