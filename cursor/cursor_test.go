package cursor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/scanner"
)

func setup(t *testing.T, src string) (*scanner.ScannedScript, parser.Result, *analysis.AnalyzedScript) {
	t.Helper()
	cat := catalog.New("mydb", "default")
	dbID, schemaID := cat.AllocateSchemaID("mydb", "default")
	require.NoError(t, cat.LoadScript(catalog.NewExternalID(), 0, catalog.ScriptTables{
		Tables: []catalog.TableDecl{{
			DatabaseID: dbID, SchemaID: schemaID,
			Name:    catalog.QualifiedTableName{Database: "mydb", Schema: "default", Table: "users"},
			Columns: []catalog.TableColumn{{Name: "id"}, {Name: "email"}},
		}},
	}))
	scanned := scanner.Scan(location.MustNewScriptID("test://query.sql"), src)
	parsed := parser.Parse(scanned)
	analyzed := analysis.Analyze(context.Background(), nil, scanned, parsed, cat, catalog.NewExternalID())
	return scanned, parsed, analyzed
}

func TestMove_InsideColumnRef(t *testing.T) {
	src := "select email from users"
	scanned, parsed, analyzed := setup(t, src)
	offset := strings.Index(src, "email") + 2
	cur := Move(scanned, parsed, analyzed, offset)
	assert.Equal(t, ContextColumnRef, cur.Context)
	assert.GreaterOrEqual(t, cur.Statement, 0)
}

func TestMove_InsideTableRef(t *testing.T) {
	src := "select email from users"
	scanned, parsed, analyzed := setup(t, src)
	offset := strings.Index(src, "users") + 2
	cur := Move(scanned, parsed, analyzed, offset)
	assert.Equal(t, ContextTableRef, cur.Context)
}

func TestMove_ResolvesScopeForStatement(t *testing.T) {
	src := "select email from users"
	scanned, parsed, analyzed := setup(t, src)
	offset := strings.Index(src, "email")
	cur := Move(scanned, parsed, analyzed, offset)
	require.GreaterOrEqual(t, cur.Scope, 0)
	assert.Equal(t, cur.Statement, analyzed.Scopes[cur.Scope].StatementIndex)
}

func TestMove_NilAnalyzedStillClassifiesContext(t *testing.T) {
	src := "select email from users"
	scanned, parsed, _ := setup(t, src)
	offset := strings.Index(src, "email")
	cur := Move(scanned, parsed, nil, offset)
	assert.Equal(t, ContextColumnRef, cur.Context)
	assert.Equal(t, -1, cur.Scope)
}

func TestMove_EmptyScriptHasNoNode(t *testing.T) {
	scanned, parsed, analyzed := setup(t, "")
	cur := Move(scanned, parsed, analyzed, 0)
	assert.Equal(t, int32(-1), cur.Node)
	assert.Equal(t, ContextNone, cur.Context)
}
