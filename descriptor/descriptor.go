package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/location"
)

// Pool is a parsed descriptor document, ready to be loaded into a catalog
// via LoadInto.
type Pool struct {
	Database string
	Schema   string
	Tables   []TableDescriptor
}

// TableDescriptor is one table entry of a descriptor document.
type TableDescriptor struct {
	Name    string
	Columns []string
}

// document is the wire shape of a descriptor JSONC document:
//
//	{
//	  "database": "mydb",
//	  "schema": "default",
//	  "tables": [
//	    {"name": "users", "columns": ["id", "email", "created_at"]}
//	  ]
//	}
type document struct {
	Database string `json:"database"`
	Schema   string `json:"schema"`
	Tables   []struct {
		Name    string   `json:"name"`
		Columns []string `json:"columns"`
	} `json:"tables"`
}

// Parse decodes a JSONC descriptor document. Comments and trailing commas
// are accepted, matching the predecessor's tolerant-JSON input handling.
func Parse(source location.ScriptID, data []byte) (Pool, diag.Result) {
	collector := diag.NewCollectorUnlimited()

	processed := jsonc.ToJSON(data)
	dec := json.NewDecoder(bytes.NewReader(processed))
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_CATALOG_DESCRIPTOR_TABLES_NULL,
			"invalid descriptor JSON").WithPath(source.String(), "$").
			WithDetail(diag.DetailKeyDetail, err.Error()).Build())
		return Pool{}, collector.Result()
	}

	if doc.Tables == nil {
		collector.Collect(diag.NewIssue(diag.Error, diag.E_CATALOG_DESCRIPTOR_TABLES_NULL,
			"descriptor document has no \"tables\" array").WithPath(source.String(), "$.tables").Build())
		return Pool{}, collector.Result()
	}

	pool := Pool{Database: doc.Database, Schema: doc.Schema}
	seen := make(map[string]bool, len(doc.Tables))
	for i, t := range doc.Tables {
		path := fmt.Sprintf("$.tables[%d].name", i)
		if t.Name == "" {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_CATALOG_DESCRIPTOR_TABLE_NAME_EMPTY,
				"descriptor table name must not be empty").WithPath(source.String(), path).Build())
			continue
		}
		if seen[t.Name] {
			collector.Collect(diag.NewIssue(diag.Error, diag.E_CATALOG_DESCRIPTOR_TABLE_NAME_COLLISION,
				fmt.Sprintf("descriptor table %q declared more than once", t.Name)).WithPath(source.String(), path).Build())
			continue
		}
		seen[t.Name] = true
		cols := make([]string, len(t.Columns))
		copy(cols, t.Columns)
		pool.Tables = append(pool.Tables, TableDescriptor{Name: t.Name, Columns: cols})
	}

	return pool, collector.Result()
}

// LoadInto publishes the descriptor pool's tables into cat as a catalog
// entry under id at rank. Resolution prefers the lowest rank, so a
// descriptor loaded at a higher rank than the scripts lets script-declared
// tables of the same name take priority (spec §4.3's rank-ordering of
// cross-script identically named tables).
func (p Pool) LoadInto(cat *catalog.Catalog, id catalog.ExternalID, rank int) error {
	dbName := p.Database
	schemaName := p.Schema
	if dbName == "" || schemaName == "" {
		defDB, defSchema := cat.Defaults()
		if dbName == "" {
			dbName = defDB
		}
		if schemaName == "" {
			schemaName = defSchema
		}
	}

	dbID, schemaID := cat.AllocateSchemaID(dbName, schemaName)

	tables := make([]catalog.TableDecl, len(p.Tables))
	for i, t := range p.Tables {
		cols := make([]catalog.TableColumn, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = catalog.TableColumn{Name: c}
		}
		tables[i] = catalog.TableDecl{
			DatabaseID: dbID,
			SchemaID:   schemaID,
			Name:       catalog.QualifiedTableName{Database: dbName, Schema: schemaName, Table: t.Name},
			Columns:    cols,
		}
	}

	return cat.LoadScript(id, rank, catalog.ScriptTables{
		Tables:       tables,
		DatabaseRefs: map[string]int64{dbName: dbID},
		SchemaRefs:   map[[2]string]int64{{dbName, schemaName}: schemaID},
	})
}
