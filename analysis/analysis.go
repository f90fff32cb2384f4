// Package analysis implements name resolution (§4.2): a first pass over the
// parsed statements collects every CREATE TABLE declaration, and a second
// pass builds one flat scope per SELECT statement, resolves its table and
// column references against the script's own declarations and the catalog,
// and tags every resolved name in the script's name registry.
package analysis

import (
	"context"
	"log/slog"

	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/internal/trace"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/name"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/scanner"
)

// TableBinding is one table visible within a scope: the FROM-clause entry
// a column reference without a qualifier may resolve against.
type TableBinding struct {
	Alias        string // folded alias, or the table's own name if unaliased
	TableRefNode int32
	Qualified    catalog.QualifiedTableName
	Resolved     catalog.TableDecl
	ResolvedOK   bool
}

// Scope is the set of table bindings visible to a statement. Scopes are
// per-statement: this engine's grammar subset has no nested subqueries that
// would need a scope forest deeper than one level, so Scope does not carry
// a parent link.
type Scope struct {
	StatementIndex int
	Tables         []TableBinding
}

// BindingFor returns the table binding whose alias matches qualifier, if
// any.
func (s Scope) BindingFor(qualifier string) (TableBinding, bool) {
	for _, b := range s.Tables {
		if b.Alias == qualifier {
			return b, true
		}
	}
	return TableBinding{}, false
}

// ColumnResolution records what a ColumnRef node resolved to.
type ColumnResolution struct {
	Node       int32
	Binding    TableBinding
	ColumnName string
	Resolved   bool
}

// AnalyzedScript is the output of Analyze.
type AnalyzedScript struct {
	Scanned *scanner.ScannedScript
	Parsed  parser.Result

	Scopes      []Scope
	ColumnRefs  []ColumnResolution
	Diagnostics []diag.Issue

	// Tables are the CREATE TABLE declarations this script contributes to
	// the catalog, ready to hand to catalog.LoadScript.
	Tables       []catalog.TableDecl
	DatabaseRefs map[string]int64
	SchemaRefs   map[[2]string]int64
}

// CatalogInput returns the ScriptTables value this script contributes,
// for passing to Catalog.LoadScript/UpdateScript.
func (a *AnalyzedScript) CatalogInput() catalog.ScriptTables {
	return catalog.ScriptTables{
		Tables:       a.Tables,
		DatabaseRefs: a.DatabaseRefs,
		SchemaRefs:   a.SchemaRefs,
	}
}

// analyzer carries the shared state threaded through one Analyze call.
type analyzer struct {
	scanned  *scanner.ScannedScript
	parsed   parser.Result
	cat      *catalog.Catalog
	selfID   catalog.ExternalID
	defaultD string
	defaultS string

	localTables map[catalog.QualifiedTableName][]catalog.TableColumn

	out *AnalyzedScript
}

// Analyze resolves table and column references in parsed against cat. selfID
// is the ExternalID this script will eventually be loaded into the catalog
// under; table references are resolved ignoring any entry already loaded
// under selfID, so re-analyzing a script after an edit sees the catalog as
// it exists independent of this script's own prior contribution.
//
// Analyze is idempotent: it clears previously attached resolution tags and
// backlinks from scanned.Names before resolving, so it may be called
// repeatedly as a script is edited (spec §4.2's "re-analysis" requirement).
func Analyze(ctx context.Context, logger *slog.Logger, scanned *scanner.ScannedScript, parsed parser.Result, cat *catalog.Catalog, selfID catalog.ExternalID) *AnalyzedScript {
	op := trace.Begin(ctx, logger, "sqlynx.analysis.analyze")
	var err error
	defer func() { op.End(err) }()

	scanned.Names.ClearResolved()

	defaultD, defaultS := cat.Defaults()
	a := &analyzer{
		scanned:     scanned,
		parsed:      parsed,
		cat:         cat,
		selfID:      selfID,
		defaultD:    defaultD,
		defaultS:    defaultS,
		localTables: make(map[catalog.QualifiedTableName][]catalog.TableColumn),
		out: &AnalyzedScript{
			Scanned:      scanned,
			Parsed:       parsed,
			DatabaseRefs: make(map[string]int64),
			SchemaRefs:   make(map[[2]string]int64),
		},
	}

	// Phase 1: collect every CREATE TABLE declaration so later statements in
	// the same script (and this pass's own SELECTs) can resolve against
	// tables declared earlier without a catalog round-trip.
	for i, st := range parsed.AST.Statements {
		if st.Kind == ast.StatementCreateTable {
			a.analyzeCreateTable(i, st)
		}
	}

	// Phase 2: resolve SELECT scopes and their column references against
	// both locally declared tables and the shared catalog.
	for i, st := range parsed.AST.Statements {
		if st.Kind == ast.StatementSelect {
			a.analyzeSelect(i, st)
		}
	}

	return a.out
}

func (a *analyzer) qualify(parts []string) catalog.QualifiedTableName {
	switch len(parts) {
	case 1:
		return catalog.QualifiedTableName{Database: a.defaultD, Schema: a.defaultS, Table: parts[0]}
	case 2:
		return catalog.QualifiedTableName{Database: a.defaultD, Schema: parts[0], Table: parts[1]}
	default:
		return catalog.QualifiedTableName{Database: parts[0], Schema: parts[1], Table: parts[2]}
	}
}

// namePathParts reads the folded text of each NameComponent child of a
// NamePath node.
func (a *analyzer) namePathParts(namePathNode int32) []string {
	children := a.parsed.AST.Children(namePathNode)
	parts := make([]string, 0, len(children))
	for _, c := range children {
		node := a.parsed.AST.Nodes[c]
		if node.Attr != ast.AttrNameID {
			continue
		}
		entry := a.scanned.Names.Get(node.NameID())
		parts = append(parts, entry.Text)
	}
	return parts
}

func (a *analyzer) tagNamePathAsQualifiedTable(namePathNode int32) {
	children := a.parsed.AST.Children(namePathNode)
	n := len(children)
	for i, c := range children {
		node := a.parsed.AST.Nodes[c]
		if node.Attr != ast.AttrNameID {
			continue
		}
		switch {
		case n == 3 && i == 0:
			a.scanned.Names.Tag(node.NameID(), name.DATABASE_NAME)
		case n >= 2 && i == n-2:
			a.scanned.Names.Tag(node.NameID(), name.SCHEMA_NAME)
		case i == n-1:
			a.scanned.Names.Tag(node.NameID(), name.TABLE_NAME)
		}
	}
}

func (a *analyzer) addIssue(node int32, severity diag.Severity, code diag.Code, msg string) {
	offset := a.parsed.AST.Nodes[node].Offset
	span := location.PointWithByte(a.scanned.ScriptID, 0, 0, offset)
	a.out.Diagnostics = append(a.out.Diagnostics, diag.NewIssue(severity, code, msg).WithSpan(span).Build())
}

// addIssueReason is addIssue plus a DetailKeyReason discriminant, for
// unresolved-reference diagnostics whose failure mode a caller may want to
// branch on programmatically (e.g. an editor deciding whether "absent"
// warrants a quick-fix to add a FROM clause, versus "target_missing" which
// does not).
func (a *analyzer) addIssueReason(node int32, severity diag.Severity, code diag.Code, msg, reason string) {
	offset := a.parsed.AST.Nodes[node].Offset
	span := location.PointWithByte(a.scanned.ScriptID, 0, 0, offset)
	a.out.Diagnostics = append(a.out.Diagnostics,
		diag.NewIssue(severity, code, msg).WithSpan(span).WithDetail(diag.DetailKeyReason, reason).Build())
}

// nodeSpan returns node's byte range as a Span. Line/column are left at 0
// since callers of this span (definition lookups) only need the byte range
// to seek within the owning script's text.
func (a *analyzer) nodeSpan(node int32) location.Span {
	n := a.parsed.AST.Nodes[node]
	return location.RangeWithBytes(a.scanned.ScriptID, 0, 0, n.Offset, 0, 0, n.Offset+n.Length)
}
