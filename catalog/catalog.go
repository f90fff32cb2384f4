package catalog

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/name"
)

// ExternalID identifies a catalog entry (an analyzed script or a
// descriptor pool) across its lifetime. Callers that do not maintain their
// own identity scheme can mint one with NewExternalID.
type ExternalID = uuid.UUID

// NewExternalID mints a fresh external id.
func NewExternalID() ExternalID {
	return uuid.New()
}

// Bootstrap values for the monotonic id counters: low values are reserved
// for sentinels and catalog defaults, matching the predecessor's reserved
// low-id convention for its own type/schema identifiers.
const (
	firstDatabaseID int64 = 1 << 8
	firstSchemaID   int64 = 1 << 16
)

// QualifiedTableName is the (database, schema, table) triple identifying a
// table declaration.
type QualifiedTableName struct {
	Database string
	Schema   string
	Table    string
}

// TableColumn is a named column within a table declaration.
type TableColumn struct {
	Name string
}

// TableID identifies a table declaration by its owning entry and the
// table's index within that entry's local table vector.
type TableID struct {
	EntryID    ExternalID
	LocalIndex int
}

// TableDecl is a table declared either by an analyzed script or a
// descriptor pool, with columns sorted lexicographically by name.
type TableDecl struct {
	ID         TableID
	DatabaseID int64
	SchemaID   int64
	Name       QualifiedTableName
	Columns    []TableColumn

	// DeclSpan is where this table was declared in its owning script (the
	// qualified name in its CREATE TABLE statement), used by definition
	// lookups to jump from a table reference to its declaration. Zero for
	// tables contributed by a descriptor pool, which has no source text.
	DeclSpan location.Span
}

// ColumnIndex returns the index of column name within Columns, or -1.
func (t TableDecl) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

type databaseDecl struct {
	id       int64
	name     string
	refcount int
}

type schemaDecl struct {
	id         int64
	databaseID int64
	name       string
	refcount   int
}

// schemaRow is one row of the per-schema table index, sorted by (rank,
// external id) for deterministic flattening and rank-ordered resolution.
type schemaRow struct {
	databaseID int64
	schemaID   int64
	rank       int
	entryID    ExternalID
	tableIndex int // index into the owning entry's Tables slice
}

// Entry is one catalog entry: an analyzed script or a descriptor pool.
type Entry struct {
	ID     ExternalID
	Rank   int
	Tables []TableDecl

	// NameIndex is the fuzzy-search index over this entry's own table and
	// column names (§9 resolved open question 2: the per-entry name index
	// is the sole, authoritative search structure completion ranks
	// against — no competing fuzzy structure is built elsewhere).
	NameIndex *name.Index

	// tablesByName resolves the entry's own tables by name; within an
	// entry last-inserted wins for a given qualified name.
	tablesByName map[QualifiedTableName]int
	// databaseRefs/schemaRefs are the (name -> id) pairs this entry
	// referenced when it was loaded, used by UpdateScript's diff and by
	// DropScript's refcount release.
	databaseRefs map[string]int64
	schemaRefs   map[[2]string]int64
}

// Catalog owns the cross-script database/schema namespace.
type Catalog struct {
	mu sync.Mutex

	defaultDatabase string
	defaultSchema   string

	nextDatabaseID int64
	nextSchemaID   int64

	databasesByName map[string]*databaseDecl
	databasesByID   map[int64]*databaseDecl
	schemasByName   map[[2]string]*schemaDecl
	schemasByID     map[int64]*schemaDecl

	entries map[ExternalID]*Entry
	rows    []schemaRow // per-schema index, kept sorted by (db,schema,rank,id)

	version int64
}

// New creates a Catalog whose default database/schema names become the
// implicit prefix for unqualified table references during analysis.
func New(defaultDatabase, defaultSchema string) *Catalog {
	return &Catalog{
		defaultDatabase:  defaultDatabase,
		defaultSchema:    defaultSchema,
		nextDatabaseID:   firstDatabaseID,
		nextSchemaID:     firstSchemaID,
		databasesByName:  make(map[string]*databaseDecl),
		databasesByID:    make(map[int64]*databaseDecl),
		schemasByName:    make(map[[2]string]*schemaDecl),
		schemasByID:      make(map[int64]*schemaDecl),
		entries:          make(map[ExternalID]*Entry),
	}
}

// Defaults returns the configured default (database, schema) names.
func (c *Catalog) Defaults() (string, string) {
	return c.defaultDatabase, c.defaultSchema
}

// Version returns the monotonic modification counter. It strictly
// increases on every successful LoadScript/UpdateScript/DropScript and
// descriptor pool mutation.
func (c *Catalog) Version() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// AllocateDatabaseID returns the existing id for name if one exists, else
// allocates and returns the next monotonic id. Ids are never reused within
// the catalog's lifetime.
func (c *Catalog) AllocateDatabaseID(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocateDatabaseIDLocked(name)
}

func (c *Catalog) allocateDatabaseIDLocked(name string) int64 {
	if d, ok := c.databasesByName[name]; ok {
		return d.id
	}
	d := &databaseDecl{id: c.nextDatabaseID, name: name}
	c.nextDatabaseID++
	c.databasesByName[name] = d
	c.databasesByID[d.id] = d
	return d.id
}

// AllocateSchemaID returns the existing (database_id, schema_id) pair for
// (dbName, schemaName) if one exists, else allocates both ids (allocating
// the database id first if needed).
func (c *Catalog) AllocateSchemaID(dbName, schemaName string) (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocateSchemaIDLocked(dbName, schemaName)
}

func (c *Catalog) allocateSchemaIDLocked(dbName, schemaName string) (int64, int64) {
	dbID := c.allocateDatabaseIDLocked(dbName)
	key := [2]string{dbName, schemaName}
	if s, ok := c.schemasByName[key]; ok {
		return dbID, s.id
	}
	s := &schemaDecl{id: c.nextSchemaID, databaseID: dbID, name: schemaName}
	c.nextSchemaID++
	c.schemasByName[key] = s
	c.schemasByID[s.id] = s
	return dbID, s.id
}

// DatabaseName returns the declared name for a database id.
func (c *Catalog) DatabaseName(id int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.databasesByID[id]
	if !ok {
		return "", false
	}
	return d.name, true
}

// SchemaName returns the declared name for a schema id.
func (c *Catalog) SchemaName(id int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.schemasByID[id]
	if !ok {
		return "", false
	}
	return s.name, true
}

func rowLess(a, b schemaRow) bool {
	if a.databaseID != b.databaseID {
		return a.databaseID < b.databaseID
	}
	if a.schemaID != b.schemaID {
		return a.schemaID < b.schemaID
	}
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return uuidLess(a.entryID, b.entryID)
}

func uuidLess(a, b ExternalID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (c *Catalog) insertRowsLocked(rows []schemaRow) {
	c.rows = append(c.rows, rows...)
	sort.Slice(c.rows, func(i, j int) bool { return rowLess(c.rows[i], c.rows[j]) })
}

func (c *Catalog) removeRowsForEntryLocked(id ExternalID) {
	out := c.rows[:0]
	for _, r := range c.rows {
		if r.entryID != id {
			out = append(out, r)
		}
	}
	c.rows = out
}

// releaseDatabaseSchemaRefsLocked decrements refcounts for the names an
// entry referenced and erases declarations with no remaining references.
func (c *Catalog) releaseDatabaseSchemaRefsLocked(e *Entry) {
	for key := range e.schemaRefs {
		if s, ok := c.schemasByName[key]; ok {
			s.refcount--
			if s.refcount <= 0 {
				delete(c.schemasByName, key)
				delete(c.schemasByID, s.id)
			}
		}
	}
	for name := range e.databaseRefs {
		if d, ok := c.databasesByName[name]; ok {
			d.refcount--
			if d.refcount <= 0 {
				delete(c.databasesByName, name)
				delete(c.databasesByID, d.id)
			}
		}
	}
}

func (c *Catalog) acquireDatabaseSchemaRefsLocked(e *Entry) {
	for name := range e.databaseRefs {
		if d, ok := c.databasesByName[name]; ok {
			d.refcount++
		}
	}
	for key := range e.schemaRefs {
		if s, ok := c.schemasByName[key]; ok {
			s.refcount++
		}
	}
}
