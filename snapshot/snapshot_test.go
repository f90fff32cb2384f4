package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankoh/sqlynx-sub000/analysis"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/parser"
	"github.com/ankoh/sqlynx-sub000/querygraph"
	"github.com/ankoh/sqlynx-sub000/scanner"
)

func analyzeSQL(t *testing.T, src string) (*analysis.AnalyzedScript, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New("mydb", "default")
	dbID, schemaID := cat.AllocateSchemaID("mydb", "default")
	require.NoError(t, cat.LoadScript(catalog.NewExternalID(), 0, catalog.ScriptTables{
		Tables: []catalog.TableDecl{
			{DatabaseID: dbID, SchemaID: schemaID, Name: catalog.QualifiedTableName{Database: "mydb", Schema: "default", Table: "a"}, Columns: []catalog.TableColumn{{Name: "id"}, {Name: "b_id"}}},
			{DatabaseID: dbID, SchemaID: schemaID, Name: catalog.QualifiedTableName{Database: "mydb", Schema: "default", Table: "b"}, Columns: []catalog.TableColumn{{Name: "id"}}},
		},
	}))
	scanned := scanner.Scan(location.MustNewScriptID("test://query.sql"), src)
	parsed := parser.Parse(scanned)
	return analysis.Analyze(context.Background(), nil, scanned, parsed, cat, catalog.NewExternalID()), cat
}

func TestBuild_PopulatesScopesAndEdges(t *testing.T) {
	analyzed, cat := analyzeSQL(t, "select a.id from a join b on a.b_id = b.id")
	graph, err := querygraph.Build(analyzed)
	require.NoError(t, err)

	snap := Build(analyzed, graph, cat)

	require.Len(t, snap.Scopes, 1)
	require.Len(t, snap.Scopes[0].Tables, 2)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "b_id", snap.Edges[0].LeftColumn)
	assert.True(t, snap.Edges[0].LikelyKeyed)
	require.Len(t, snap.Catalog.Tables, 2)
}

func TestBuild_NilAnalyzedReturnsZeroValue(t *testing.T) {
	snap := Build(nil, nil, nil)
	assert.Empty(t, snap.Source)
	assert.Nil(t, snap.Scopes)
}

func TestBuild_CarriesDiagnostics(t *testing.T) {
	analyzed, cat := analyzeSQL(t, "select x from nosuchtable")
	graph, err := querygraph.Build(analyzed)
	require.NoError(t, err)

	snap := Build(analyzed, graph, cat)
	require.NotEmpty(t, snap.Diagnostics)
	assert.Equal(t, "hint", snap.Diagnostics[0].Severity)
}

func TestBuild_NilQueryGraphYieldsNoEdges(t *testing.T) {
	analyzed, cat := analyzeSQL(t, "select a.id from a")
	snap := Build(analyzed, nil, cat)
	assert.Empty(t, snap.Edges)
}
