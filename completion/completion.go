// Package completion ranks completion candidates at a cursor location
// (§4.5): dot-path completion when the cursor sits immediately after a
// name-path separator, scope-aware column/table suggestions otherwise, and
// keyword suggestions derived from the restartable parser's grammar
// lookahead. Results are bounded to the top-K highest-scored candidates via
// a min-heap so scoring a large catalog never requires sorting it whole.
package completion

import (
	"sort"
	"strings"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/cursor"
	"github.com/ankoh/sqlynx-sub000/name"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/scanner"
	"github.com/ankoh/sqlynx-sub000/token"
)

// Kind classifies a completion candidate's origin.
type Kind int

const (
	KindKeyword Kind = iota
	KindTable
	KindColumn
	KindAlias
)

// Item is a single ranked completion candidate.
type Item struct {
	Label  string
	Kind   Kind
	Detail string // e.g. the owning table name for a column candidate
}

// Options bounds and configures a completion request.
type Options struct {
	// Limit caps the number of items returned; non-positive defaults to 20.
	Limit int
}

func (o Options) limit() int {
	if o.Limit > 0 {
		return o.Limit
	}
	return 20
}

// Complete returns ranked completion candidates for cur. analyzed may be
// nil, in which case no column candidates are produced; table candidates
// (from cat) and keyword candidates are unaffected.
func Complete(scanned *scanner.ScannedScript, parsed parser.Result, analyzed *analysis.AnalyzedScript, cat *catalog.Catalog, cur cursor.ScriptCursor, opts Options) []Item {
	prefix, qualifier, hasDot := prefixAt(scanned, cur)
	top := newTopK(opts.limit())

	switch {
	case hasDot && cur.Context == cursor.ContextColumnRef:
		completeDotPathColumns(top, analyzed, cur, qualifier, prefix)
	case cur.Context == cursor.ContextColumnRef:
		completeScopeColumns(top, analyzed, cur, prefix)
	case cur.Context == cursor.ContextTableRef:
		completeTables(top, cat, prefix)
	default:
		completeKeywords(top, scanned, cur, prefix)
	}

	return top.items()
}

// prefixAt reads the identifier text (if any) the cursor is positioned
// within or immediately after, along with a preceding dot-qualifier
// component, if the symbol before the identifier is a DOT.
func prefixAt(scanned *scanner.ScannedScript, cur cursor.ScriptCursor) (prefix, qualifier string, hasDot bool) {
	idx := cur.Location.SymbolIndex
	if idx < 0 || idx >= len(scanned.Symbols) {
		return "", "", false
	}
	sym := scanned.Symbols[idx]
	if sym.Kind == token.IDENT && (cur.Location.Relative == scanner.MidOfSymbol || cur.Location.Relative == scanner.EndOfSymbol) {
		prefix = scanned.Names.Get(sym.NameID).Text
		if idx > 0 && scanned.Symbols[idx-1].Kind == token.DOT && idx > 1 {
			q := scanned.Symbols[idx-2]
			if q.Kind == token.IDENT {
				qualifier = scanned.Names.Get(q.NameID).Text
				hasDot = true
			}
		}
		return prefix, qualifier, hasDot
	}
	if sym.Kind == token.DOT && idx > 0 {
		q := scanned.Symbols[idx-1]
		if q.Kind == token.IDENT {
			qualifier = scanned.Names.Get(q.NameID).Text
			hasDot = true
		}
	}
	return "", qualifier, hasDot
}

// scoreMatch ranks text against prefix: exact match highest, prefix match
// next (shorter candidates ranked slightly above longer ones), substring
// match lowest; returns ok=false when text does not match prefix at all.
func scoreMatch(text, prefix string) (int, bool) {
	if prefix == "" {
		return 1, true
	}
	switch {
	case text == prefix:
		return 1000, true
	case strings.HasPrefix(text, prefix):
		return 500 - len(text), true
	case strings.Contains(text, prefix):
		return 100 - len(text), true
	default:
		return 0, false
	}
}

func completeDotPathColumns(top *topK, analyzed *analysis.AnalyzedScript, cur cursor.ScriptCursor, qualifier, prefix string) {
	if analyzed == nil || cur.Scope < 0 {
		return
	}
	scope := analyzed.Scopes[cur.Scope]
	binding, ok := scope.BindingFor(qualifier)
	if !ok || !binding.ResolvedOK {
		return
	}
	for _, col := range binding.Resolved.Columns {
		if score, ok := scoreMatch(col.Name, prefix); ok {
			top.offer(Item{Label: col.Name, Kind: KindColumn, Detail: binding.Resolved.Name.Table}, score)
		}
	}
}

func completeScopeColumns(top *topK, analyzed *analysis.AnalyzedScript, cur cursor.ScriptCursor, prefix string) {
	if analyzed == nil || cur.Scope < 0 {
		return
	}
	scope := analyzed.Scopes[cur.Scope]
	for _, binding := range scope.Tables {
		if binding.Alias != "" {
			if score, ok := scoreMatch(binding.Alias, prefix); ok {
				top.offer(Item{Label: binding.Alias, Kind: KindAlias}, score-1) // aliases rank just under equal-scoring columns
			}
		}
		if !binding.ResolvedOK {
			continue
		}
		for _, col := range binding.Resolved.Columns {
			if score, ok := scoreMatch(col.Name, prefix); ok {
				top.offer(Item{Label: col.Name, Kind: KindColumn, Detail: binding.Resolved.Name.Table}, score)
			}
		}
	}
}

// completeTables ranks table-name candidates from the catalog's per-entry
// name index (the authoritative fuzzy-search structure; see
// catalog.Catalog.SearchNames), rather than scanning a flattened snapshot.
func completeTables(top *topK, cat *catalog.Catalog, prefix string) {
	if cat == nil {
		return
	}
	for _, m := range cat.SearchNames(prefix) {
		if !m.Tags.Has(name.TABLE_NAME) {
			continue
		}
		score, ok := scoreMatch(m.Text, prefix)
		if !ok {
			continue
		}
		detail := ""
		if len(m.Tables) > 0 {
			if t, ok := cat.ResolveTableByID(m.Tables[0]); ok {
				detail = t.Name.Schema
			}
		}
		top.offer(Item{Label: m.Text, Kind: KindTable, Detail: detail}, score)
	}
}

func completeKeywords(top *topK, scanned *scanner.ScannedScript, cur cursor.ScriptCursor, prefix string) {
	probeIndex := cur.Location.SymbolIndex
	if probeIndex < 0 {
		probeIndex = 0
	}
	expected := parser.ExpectedSymbols(scanned, probeIndex)
	sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })
	seen := make(map[token.Kind]bool, len(expected))
	for _, kind := range expected {
		if !kind.IsKeyword() || seen[kind] {
			continue
		}
		seen[kind] = true
		text := strings.ToLower(kind.String())
		if score, ok := scoreMatch(text, prefix); ok {
			top.offer(Item{Label: text, Kind: KindKeyword}, score)
		}
	}
}
