package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/internal/source"
	"github.com/ankoh/sqlynx-sub000/internal/trace"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/script"
)

// PositionEncoding represents the position encoding used for LSP communication.
// LSP 3.17 introduced position encoding negotiation; prior versions assumed UTF-16.
type PositionEncoding string

const (
	// PositionEncodingUTF16 counts positions in UTF-16 code units, the
	// default for LSP compatibility (VS Code and most editors).
	PositionEncodingUTF16 PositionEncoding = "utf-16"

	// PositionEncodingUTF8 counts positions in UTF-8 bytes.
	PositionEncodingUTF8 PositionEncoding = "utf-8"
)

// debounceDelay is the delay before triggering analysis after a change.
const debounceDelay = 150 * time.Millisecond

// debounceEntry tracks a pending analysis for a single document. A struct
// with pointer identity lets a completed callback clean up only its own
// entry, avoiding the race where a stale callback deletes a newer entry
// scheduled while analysis was running.
type debounceEntry struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// Notifier sends an LSP notification. Capturing only this function (rather
// than a whole glsp.Context) keeps debounce closures and tests decoupled
// from the transport.
type Notifier func(method string, params any)

// Config holds server-wide defaults.
type Config struct {
	// DefaultDatabase/DefaultSchema seed the shared catalog's implicit
	// prefix for unqualified table references (see catalog.New).
	DefaultDatabase string
	DefaultSchema   string
}

// Document is one open script buffer.
type Document struct {
	URI       string
	ScriptID  location.ScriptID
	Version   int
	Text      string
	OpenOrder int

	script *script.Script
}

// DocumentSnapshot is an immutable view of a document at a point in time,
// safe to read outside the workspace lock.
type DocumentSnapshot struct {
	URI      string
	ScriptID location.ScriptID
	Version  int
	Text     string
	Script   *script.Script
}

// Workspace manages the set of open scripts and their shared catalog.
type Workspace struct {
	mu sync.RWMutex

	logger *slog.Logger
	config Config
	cat    *catalog.Catalog

	open        map[string]*Document
	openCounter int

	posEncoding PositionEncoding

	debounces  map[string]*debounceEntry
	debounceMu sync.Mutex

	publishedURIs map[string]struct{}
}

// NewWorkspace creates a Workspace over a fresh catalog. If logger is nil,
// slog.Default() is used.
func NewWorkspace(logger *slog.Logger, cfg Config) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	defaultDatabase := cfg.DefaultDatabase
	if defaultDatabase == "" {
		defaultDatabase = "default"
	}
	defaultSchema := cfg.DefaultSchema
	if defaultSchema == "" {
		defaultSchema = "default"
	}
	return &Workspace{
		logger:        logger.With(slog.String("component", "workspace")),
		config:        cfg,
		cat:           catalog.New(defaultDatabase, defaultSchema),
		open:          make(map[string]*Document),
		posEncoding:   PositionEncodingUTF16,
		debounces:     make(map[string]*debounceEntry),
		publishedURIs: make(map[string]struct{}),
	}
}

// Catalog returns the workspace's shared catalog.
func (w *Workspace) Catalog() *catalog.Catalog {
	return w.cat
}

// SetPositionEncoding sets the position encoding to use.
func (w *Workspace) SetPositionEncoding(enc PositionEncoding) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.posEncoding = enc
}

// PositionEncoding returns the negotiated position encoding.
func (w *Workspace) PositionEncoding() PositionEncoding {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.posEncoding
}

// DocumentOpened handles a document being opened: it creates the script's
// pipeline state and runs it through scan/parse/analyze/load immediately so
// the first completion or hover request has something to work with even
// before the debounce timer on a subsequent edit fires.
func (w *Workspace) DocumentOpened(ctx context.Context, logger *slog.Logger, uri string, version int, text string) {
	w.mu.Lock()

	if uri == "" {
		w.mu.Unlock()
		w.logger.Warn("refusing to open document with empty URI")
		return
	}
	sourceID := location.NewScriptID(uri)

	text = normalizeLineEndings(text)
	w.openCounter++
	doc := &Document{
		URI:       uri,
		ScriptID:  sourceID,
		Version:   version,
		Text:      text,
		OpenOrder: w.openCounter,
		script:    script.New(catalog.NewExternalID(), sourceID, w.cat, w.openCounter),
	}
	doc.script.SetText(text)
	w.open[uri] = doc
	w.mu.Unlock()

	w.runPipeline(ctx, logger, doc)
}

// DocumentChanged handles a document content change, ignoring stale updates
// where version <= current version (unless version is 0/unknown).
func (w *Workspace) DocumentChanged(uri string, version int, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.open[uri]
	if !ok {
		return
	}
	if version != 0 && doc.Version != 0 && version <= doc.Version {
		w.logger.Debug("ignoring stale document change",
			slog.String("uri", uri), slog.Int("incoming_version", version), slog.Int("current_version", doc.Version))
		return
	}
	doc.Version = version
	doc.Text = normalizeLineEndings(text)
	doc.script.SetText(doc.Text)
}

// DocumentClosed handles a document being closed: it drops the script's
// declarations from the catalog (so other open scripts stop resolving
// against them) and clears any diagnostics the client is still showing.
func (w *Workspace) DocumentClosed(notify Notifier, uri string) {
	w.mu.Lock()
	doc, ok := w.open[uri]
	delete(w.open, uri)
	w.mu.Unlock()

	if !ok {
		return
	}
	doc.script.Drop()
	w.cancelPendingAnalysis(uri)

	w.mu.Lock()
	_, wasPublished := w.publishedURIs[uri]
	delete(w.publishedURIs, uri)
	w.mu.Unlock()

	if wasPublished {
		w.publishDiagnostics(notify, uri, nil)
	}
}

// ScheduleAnalysis schedules a debounced pipeline run for the given document.
func (w *Workspace) ScheduleAnalysis(glspCtx *glsp.Context, uri string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if existing, ok := w.debounces[uri]; ok {
		existing.timer.Stop()
		existing.cancel()
	}

	analyzeCtx, cancel := context.WithCancel(context.Background())
	entry := &debounceEntry{cancel: cancel}

	var notify Notifier
	if glspCtx != nil {
		notify = func(method string, params any) { glspCtx.Notify(method, params) }
	}

	entry.timer = time.AfterFunc(debounceDelay, func() {
		select {
		case <-analyzeCtx.Done():
			return
		default:
			w.mu.RLock()
			doc := w.open[uri]
			w.mu.RUnlock()
			if doc != nil {
				w.runPipelineAndPublish(analyzeCtx, notify, doc)
			}
			w.debounceMu.Lock()
			if w.debounces[uri] == entry {
				delete(w.debounces, uri)
			}
			w.debounceMu.Unlock()
		}
	})

	w.debounces[uri] = entry
}

// runPipeline runs scan/parse/analyze/load for doc without publishing
// diagnostics (used for the immediate first analysis on open, where no
// notifier may yet be wired).
func (w *Workspace) runPipeline(ctx context.Context, logger *slog.Logger, doc *Document) {
	doc.script.Scan(ctx, logger)
	if err := doc.script.Parse(ctx, logger); err != nil {
		return
	}
	if err := doc.script.Analyze(ctx, logger); err != nil {
		return
	}
	if err := doc.script.Load(); err != nil {
		w.logger.Warn("catalog load failed", slog.String("uri", doc.URI), slog.String("error", err.Error()))
	}
}

// runPipelineAndPublish runs the pipeline and publishes the resulting
// diagnostics, gating on the document's version so a result computed for
// stale text never overwrites fresher diagnostics.
func (w *Workspace) runPipelineAndPublish(ctx context.Context, notify Notifier, doc *Document) {
	op := trace.Begin(ctx, w.logger, "sqlynx.lsp.analyze")
	entryVersion := doc.Version

	w.runPipeline(ctx, w.logger, doc)

	if ctx.Err() != nil {
		op.End(ctx.Err())
		return
	}

	w.mu.RLock()
	current, ok := w.open[doc.URI]
	stale := !ok || current.Version != entryVersion
	w.mu.RUnlock()
	if stale {
		op.End(nil)
		return
	}

	w.publishScriptDiagnostics(notify, doc)
	op.End(nil)
}

// publishScriptDiagnostics converts doc's analyzed diagnostics to LSP form
// and publishes them under doc's own URI — scripts in this engine have no
// import closure, so diagnostics never need remapping to another file.
func (w *Workspace) publishScriptDiagnostics(notify Notifier, doc *Document) {
	if notify == nil {
		return
	}

	issues := doc.script.Diagnostics()

	reg := source.NewRegistry()
	_ = reg.Register(doc.ScriptID, []byte(doc.Text))
	renderer := diag.NewRenderer(diag.WithSourceProvider(reg), diag.WithLSPByteFallback(diag.LSPByteFallbackApproximate))

	collector := diag.NewCollectorUnlimited()
	collector.CollectAll(issues)

	lspDiags := renderer.LSPDiagnostics(collector.Result())
	protoDiags := make([]protocol.Diagnostic, 0, len(lspDiags))
	for _, d := range lspDiags {
		severity := protocol.DiagnosticSeverity(d.Severity) //nolint:gosec // diag.LSPSeverity* are small positive constants
		source := d.Source
		protoDiags = append(protoDiags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: toUInteger(d.Range.Start.Line), Character: toUInteger(d.Range.Start.Character)},
				End:   protocol.Position{Line: toUInteger(d.Range.End.Line), Character: toUInteger(d.Range.End.Character)},
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   &source,
			Message:  d.Message,
		})
	}

	w.mu.Lock()
	if len(protoDiags) > 0 {
		w.publishedURIs[doc.URI] = struct{}{}
	} else {
		delete(w.publishedURIs, doc.URI)
	}
	w.mu.Unlock()

	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: protoDiags,
	})
}

// publishDiagnostics publishes diagnostics for a URI directly (used to clear
// stale diagnostics on close). Does not require the workspace lock.
func (w *Workspace) publishDiagnostics(notify Notifier, uri string, diagnostics []protocol.Diagnostic) {
	if notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// cancelPendingAnalysis cancels any pending analysis for a URI.
func (w *Workspace) cancelPendingAnalysis(uri string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if entry, ok := w.debounces[uri]; ok {
		entry.timer.Stop()
		entry.cancel()
		delete(w.debounces, uri)
	}
}

// Shutdown cancels all pending analysis operations.
func (w *Workspace) Shutdown() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	for uri, entry := range w.debounces {
		entry.timer.Stop()
		entry.cancel()
		delete(w.debounces, uri)
	}
}

// GetDocumentSnapshot returns an immutable snapshot of the document for a
// URI, or nil if it is not open.
func (w *Workspace) GetDocumentSnapshot(uri string) *DocumentSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.open[uri]
	if !ok {
		return nil
	}
	return &DocumentSnapshot{URI: doc.URI, ScriptID: doc.ScriptID, Version: doc.Version, Text: doc.Text, Script: doc.script}
}

// Documents returns a snapshot of every open document, for jumping from one
// script's table reference to another script's declaration.
func (w *Workspace) Documents() []*DocumentSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*DocumentSnapshot, 0, len(w.open))
	for _, doc := range w.open {
		out = append(out, &DocumentSnapshot{URI: doc.URI, ScriptID: doc.ScriptID, Version: doc.Version, Text: doc.Text, Script: doc.script})
	}
	return out
}

// DocumentForScript returns the open document whose script carries id, or
// nil if no open document's script has that catalog entry id (e.g. the
// declaring script was closed after its tables were loaded).
func (w *Workspace) DocumentForScript(id catalog.ExternalID) *DocumentSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, doc := range w.open {
		if doc.script.ID() == id {
			return &DocumentSnapshot{URI: doc.URI, ScriptID: doc.ScriptID, Version: doc.Version, Text: doc.Text, Script: doc.script}
		}
	}
	return nil
}

// URIToPath converts a file:// URI to a filesystem path.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse URI %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file URI: %s", uri)
	}
	path := u.Path
	if runtime.GOOS == "windows" {
		if len(path) >= 3 && path[0] == '/' && isWindowsDriveLetter(path[1]) && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}
	return path, nil
}

// PathToURI converts a filesystem path to a file:// URI.
func PathToURI(path string) string {
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	path = filepath.ToSlash(path)
	if runtime.GOOS == "windows" && len(path) >= 2 && isWindowsDriveLetter(path[0]) && path[1] == ':' {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

func isWindowsDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
