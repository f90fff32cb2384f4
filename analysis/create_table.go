package analysis

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/name"
)

// analyzeCreateTable resolves a CREATE TABLE statement's qualified name and
// column list, allocating stable database/schema ids for its (database,
// schema) pair and recording the resulting declaration for later loading
// into the catalog.
//
// CREATE TABLE AS declares the table under its catalog-visible name but
// without a known column list: its body is a SELECT that may itself
// reference tables not yet visible to this script, and the engine does not
// attempt to derive a projected column list from an arbitrary SELECT.
func (a *analyzer) analyzeCreateTable(stmtIndex int, st ast.Statement) {
	root := a.parsed.AST.Nodes[st.Root]
	children := a.parsed.AST.Children(st.Root)
	if len(children) == 0 {
		return
	}
	namePathNode := children[0]

	parts := a.namePathParts(namePathNode)
	if len(parts) == 0 {
		return
	}
	a.tagNamePathAsQualifiedTable(namePathNode)
	qname := a.qualify(parts)

	dbID, schemaID := a.cat.AllocateSchemaID(qname.Database, qname.Schema)
	a.out.DatabaseRefs[qname.Database] = dbID
	a.out.SchemaRefs[[2]string{qname.Database, qname.Schema}] = schemaID

	var columns []catalog.TableColumn
	if root.Kind == ast.CreateTable {
		for _, c := range children[1:] {
			colNode := a.parsed.AST.Nodes[c]
			if colNode.Kind != ast.ColumnDef {
				continue
			}
			colChildren := a.parsed.AST.Children(c)
			if len(colChildren) == 0 {
				continue
			}
			nameNode := a.parsed.AST.Nodes[colChildren[0]]
			if nameNode.Attr != ast.AttrNameID {
				continue
			}
			a.scanned.Names.Tag(nameNode.NameID(), name.COLUMN_NAME)
			entry := a.scanned.Names.Get(nameNode.NameID())
			columns = append(columns, catalog.TableColumn{Name: entry.Text})
		}
	}

	decl := catalog.TableDecl{
		DatabaseID: dbID,
		SchemaID:   schemaID,
		Name:       qname,
		Columns:    columns,
		DeclSpan:   a.nodeSpan(namePathNode),
	}
	a.out.Tables = append(a.out.Tables, decl)
	a.localTables[qname] = columns

	entry, ok := a.scanned.Names.Lookup(qname.Table)
	if ok {
		a.scanned.Names.AttachResolved(entry.ID, decl)
	}
}
