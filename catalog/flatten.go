package catalog

import "sort"

// FlatDatabase is a flattened database declaration.
type FlatDatabase struct {
	ID   int64
	Name string
}

// FlatSchema is a flattened schema declaration.
type FlatSchema struct {
	ID         int64
	DatabaseID int64
	Name       string
}

// FlatTable is a flattened table declaration, annotated with the rank of
// the entry that declared it (lower rank wins name-resolution ties).
type FlatTable struct {
	ID      TableID
	Rank    int
	Name    QualifiedTableName
	Columns []TableColumn
}

// FlatCatalog is a point-in-time, dependency-free view of the catalog
// suitable for handing to a UI or another process (spec §2's "flattened,
// cross-language-friendly views").
type FlatCatalog struct {
	Version   int64
	Databases []FlatDatabase
	Schemas   []FlatSchema
	Tables    []FlatTable
}

// Flatten produces a consistent snapshot of the catalog's current state.
func (c *Catalog) Flatten() FlatCatalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := FlatCatalog{Version: c.version}

	out.Databases = make([]FlatDatabase, 0, len(c.databasesByID))
	for _, d := range c.databasesByID {
		out.Databases = append(out.Databases, FlatDatabase{ID: d.id, Name: d.name})
	}
	sort.Slice(out.Databases, func(i, j int) bool { return out.Databases[i].ID < out.Databases[j].ID })

	out.Schemas = make([]FlatSchema, 0, len(c.schemasByID))
	for _, s := range c.schemasByID {
		out.Schemas = append(out.Schemas, FlatSchema{ID: s.id, DatabaseID: s.databaseID, Name: s.name})
	}
	sort.Slice(out.Schemas, func(i, j int) bool { return out.Schemas[i].ID < out.Schemas[j].ID })

	// c.rows is kept sorted by (databaseID, schemaID, rank, entryID), so the
	// first row seen for a given qualified name is the rank-winning
	// declaration; later duplicates for the same name are omitted.
	seen := make(map[QualifiedTableName]bool, len(c.rows))
	out.Tables = make([]FlatTable, 0, len(c.rows))
	for _, row := range c.rows {
		entry, ok := c.entries[row.entryID]
		if !ok {
			continue
		}
		t := entry.Tables[row.tableIndex]
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out.Tables = append(out.Tables, FlatTable{ID: t.ID, Rank: row.rank, Name: t.Name, Columns: t.Columns})
	}
	return out
}
