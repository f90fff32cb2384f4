package script

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/completion"
	"github.com/ankoh/sqlynx-sub000/location"
)

func newTestScript(t *testing.T, cat *catalog.Catalog) *Script {
	t.Helper()
	return New(catalog.NewExternalID(), location.MustNewScriptID("test://query.sql"), cat, 0)
}

func TestScript_ParseBeforeScanReturnsErrNotScanned(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	err := s.Parse(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotScanned)
}

func TestScript_AnalyzeBeforeParseReturnsErrNotParsed(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("select 1")
	s.Scan(context.Background(), nil)
	err := s.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotParsed)
}

func TestScript_LoadBeforeAnalyzeReturnsErrNotAnalyzed(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("create table users (id, email)")
	s.Scan(context.Background(), nil)
	require.NoError(t, s.Parse(context.Background(), nil))
	err := s.Load()
	assert.ErrorIs(t, err, ErrNotAnalyzed)
}

func TestScript_FullPipelineLoadsTableIntoCatalog(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("create table users (id, email)")
	s.Scan(context.Background(), nil)
	require.NoError(t, s.Parse(context.Background(), nil))
	require.NoError(t, s.Analyze(context.Background(), nil))
	require.NoError(t, s.Load())

	flat := cat.Flatten()
	require.Len(t, flat.Tables, 1)
	assert.Equal(t, "users", flat.Tables[0].Name.Table)
}

func TestScript_CompleteAtCursorBeforeMoveCursorReturnsErrNoCursor(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("select 1")
	s.Scan(context.Background(), nil)
	require.NoError(t, s.Parse(context.Background(), nil))
	_, err := s.CompleteAtCursor(completion.Options{})
	assert.ErrorIs(t, err, ErrNoCursor)
}

func TestScript_CompleteAtCursorAfterMoveCursor(t *testing.T) {
	cat := catalog.New("mydb", "default")
	dbID, schemaID := cat.AllocateSchemaID("mydb", "default")
	require.NoError(t, cat.LoadScript(catalog.NewExternalID(), 0, catalog.ScriptTables{
		Tables: []catalog.TableDecl{{
			DatabaseID: dbID, SchemaID: schemaID,
			Name:    catalog.QualifiedTableName{Database: "mydb", Schema: "default", Table: "users"},
			Columns: []catalog.TableColumn{{Name: "id"}, {Name: "email"}},
		}},
	}))

	s := newTestScript(t, cat)
	src := "select em from users"
	s.SetText(src)
	s.Scan(context.Background(), nil)
	require.NoError(t, s.Parse(context.Background(), nil))
	require.NoError(t, s.Analyze(context.Background(), nil))

	offset := strings.Index(src, "em") + 2
	require.NoError(t, s.MoveCursor(offset))

	items, err := s.CompleteAtCursor(completion.Options{Limit: 5})
	require.NoError(t, err)
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	assert.Contains(t, labels, "email")
}

func TestScript_SetTextInvalidatesDownstreamStages(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("select 1")
	s.Scan(context.Background(), nil)
	require.NoError(t, s.Parse(context.Background(), nil))

	s.SetText("select 2")
	err := s.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotParsed)
}

func TestScript_StatisticsReflectLastScan(t *testing.T) {
	cat := catalog.New("mydb", "default")
	s := newTestScript(t, cat)
	s.SetText("select 1")
	s.Scan(context.Background(), nil)
	stats := s.Statistics()
	assert.Equal(t, len("select 1"), stats.TextBytes)
}
