package catalog

import (
	"fmt"

	"github.com/ankoh/sqlynx-sub000/name"
)

// ErrOutOfSync is returned by LoadScript/UpdateScript when the incoming
// script's pre-allocated database or schema ids no longer match the
// catalog's canonical allocation for that name — for example, the script
// was analyzed against a stale catalog snapshot and a different entry has
// since claimed the same name with a different id.
type ErrOutOfSync struct {
	Kind string // "database" or "schema"
	Name string
	Want int64
	Got  int64
}

func (e *ErrOutOfSync) Error() string {
	return fmt.Sprintf("catalog: %s %q id out of sync: catalog has %d, script has %d", e.Kind, e.Name, e.Want, e.Got)
}

// ErrDescriptorTableNameEmpty is returned when a descriptor declares a
// table with an empty name.
var ErrDescriptorTableNameEmpty = fmt.Errorf("catalog: descriptor table name must not be empty")

// ScriptTables is the set of declarations an analyzed script or descriptor
// pool contributes to the catalog: its own table declarations plus the
// (name -> id) pairs it resolved its database/schema references to during
// analysis.
type ScriptTables struct {
	Tables       []TableDecl
	DatabaseRefs map[string]int64
	SchemaRefs   map[[2]string]int64
}

// reconcileDatabaseRefsLocked checks that every (name, id) pair in refs agrees with the
// catalog's current allocation for that name, inserting a fresh allocation
// (and advancing the monotonic counter past it) if the catalog has none
// yet. Returns an error on the first mismatch found.
func (c *Catalog) reconcileDatabaseRefsLocked(refs map[string]int64) error {
	for name, id := range refs {
		if d, ok := c.databasesByName[name]; ok {
			if d.id != id {
				return &ErrOutOfSync{Kind: "database", Name: name, Want: d.id, Got: id}
			}
			continue
		}
		d := &databaseDecl{id: id, name: name}
		c.databasesByName[name] = d
		c.databasesByID[id] = d
		if id >= c.nextDatabaseID {
			c.nextDatabaseID = id + 1
		}
	}
	return nil
}

func (c *Catalog) reconcileSchemaRefsLocked(refs map[[2]string]int64) error {
	for key, id := range refs {
		if s, ok := c.schemasByName[key]; ok {
			if s.id != id {
				return &ErrOutOfSync{Kind: "schema", Name: key[1], Want: s.id, Got: id}
			}
			continue
		}
		dbID := c.allocateDatabaseIDLocked(key[0])
		s := &schemaDecl{id: id, databaseID: dbID, name: key[1]}
		c.schemasByName[key] = s
		c.schemasByID[id] = s
		if id >= c.nextSchemaID {
			c.nextSchemaID = id + 1
		}
	}
	return nil
}

// buildEntryNameIndex registers every table and column name an entry
// declares into a fresh registry and builds a fuzzy-search index over it.
// A column name shared by several tables in the same entry is registered
// once, with a resolved backlink per owning table so callers can recover
// which table(s) a matched column belongs to.
func buildEntryNameIndex(tables []TableDecl) *name.Index {
	reg := name.New()
	for _, t := range tables {
		id := reg.Register(t.Name.Table, t.Name.Table, 0, 0, name.TABLE_NAME)
		reg.AttachResolved(id, t.ID)
		for _, col := range t.Columns {
			cid := reg.Register(col.Name, col.Name, 0, 0, name.COLUMN_NAME)
			reg.AttachResolved(cid, t.ID)
		}
	}
	return name.BuildIndex(reg)
}

// LoadScript reconciles input's database/schema references against the
// catalog's current allocation and, on success, publishes input's tables
// as a rank-ordered catalog entry under id. Loading an id that is already
// present replaces the prior entry (UpdateScript is the same operation).
func (c *Catalog) LoadScript(id ExternalID, rank int, input ScriptTables) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Check every ref before reconciling any, so a mismatch leaves the
	// catalog unchanged.
	for name, id := range input.DatabaseRefs {
		if d, ok := c.databasesByName[name]; ok && d.id != id {
			return &ErrOutOfSync{Kind: "database", Name: name, Want: d.id, Got: id}
		}
	}
	for key, id := range input.SchemaRefs {
		if s, ok := c.schemasByName[key]; ok && s.id != id {
			return &ErrOutOfSync{Kind: "schema", Name: key[1], Want: s.id, Got: id}
		}
	}

	if err := c.reconcileDatabaseRefsLocked(input.DatabaseRefs); err != nil {
		return err
	}
	if err := c.reconcileSchemaRefsLocked(input.SchemaRefs); err != nil {
		return err
	}

	if old, ok := c.entries[id]; ok {
		c.releaseDatabaseSchemaRefsLocked(old)
		c.removeRowsForEntryLocked(id)
	}

	entry := &Entry{
		ID:           id,
		Rank:         rank,
		Tables:       make([]TableDecl, len(input.Tables)),
		tablesByName: make(map[QualifiedTableName]int, len(input.Tables)),
		databaseRefs: input.DatabaseRefs,
		schemaRefs:   input.SchemaRefs,
	}
	copy(entry.Tables, input.Tables)
	for i, t := range entry.Tables {
		t.ID = TableID{EntryID: id, LocalIndex: i}
		entry.Tables[i] = t
		entry.tablesByName[t.Name] = i // last-inserted wins within the entry
	}
	entry.NameIndex = buildEntryNameIndex(entry.Tables)

	c.entries[id] = entry
	c.acquireDatabaseSchemaRefsLocked(entry)

	rows := make([]schemaRow, 0, len(entry.Tables))
	for i, t := range entry.Tables {
		rows = append(rows, schemaRow{
			databaseID: t.DatabaseID,
			schemaID:   t.SchemaID,
			rank:       rank,
			entryID:    id,
			tableIndex: i,
		})
	}
	c.insertRowsLocked(rows)

	c.version++
	return nil
}

// UpdateScript is the same operation as LoadScript: reloading an id that is
// already present replaces its prior entry at the given rank.
func (c *Catalog) UpdateScript(id ExternalID, rank int, input ScriptTables) error {
	return c.LoadScript(id, rank, input)
}

// DropScript removes a previously loaded entry, releasing its database and
// schema references.
func (c *Catalog) DropScript(id ExternalID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return
	}
	c.releaseDatabaseSchemaRefsLocked(entry)
	c.removeRowsForEntryLocked(id)
	delete(c.entries, id)
	c.version++
}

// Entry returns the currently loaded entry for id, if any.
func (c *Catalog) Entry(id ExternalID) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

// ResolveTable finds the table declaration for name with the lowest
// (rank, entry id) among all loaded entries, optionally excluding one
// entry (a script resolving its own pending CREATE TABLE should not see
// its own not-yet-loaded declaration reflected back through the catalog).
func (c *Catalog) ResolveTable(name QualifiedTableName, ignoreEntry ExternalID) (TableDecl, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, dbOK := c.databasesByName[name.Database]
	if !dbOK {
		return TableDecl{}, false
	}
	schema, schemaOK := c.schemasByName[[2]string{name.Database, name.Schema}]
	if !schemaOK {
		return TableDecl{}, false
	}

	for _, row := range c.rows {
		if row.databaseID != db.id || row.schemaID != schema.id {
			continue
		}
		if row.entryID == ignoreEntry {
			continue
		}
		entry, ok := c.entries[row.entryID]
		if !ok {
			continue
		}
		t := entry.Tables[row.tableIndex]
		if t.Name == name {
			return t, true
		}
	}
	return TableDecl{}, false
}

// ResolveTableByID looks up a table declaration by its stable id.
func (c *Catalog) ResolveTableByID(id TableID) (TableDecl, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id.EntryID]
	if !ok || id.LocalIndex < 0 || id.LocalIndex >= len(entry.Tables) {
		return TableDecl{}, false
	}
	return entry.Tables[id.LocalIndex], true
}
