package analysis

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/catalog"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/name"
)

// analyzeSelect builds the statement's scope from its FROM clause, then
// resolves every ColumnRef reachable from the statement's root against that
// scope.
func (a *analyzer) analyzeSelect(stmtIndex int, st ast.Statement) {
	scope := Scope{StatementIndex: stmtIndex}

	for _, c := range a.parsed.AST.Children(st.Root) {
		if a.parsed.AST.Nodes[c].Kind == ast.From {
			for _, ref := range a.collectTableRefs(c) {
				scope.Tables = append(scope.Tables, a.bindTableRef(ref))
			}
		}
	}
	scopeIndex := len(a.out.Scopes)
	a.out.Scopes = append(a.out.Scopes, scope)

	for _, n := range a.parsed.AST.PostOrder(st.Root) {
		if a.parsed.AST.Nodes[n].Kind == ast.ColumnRef {
			a.resolveColumnRef(n, &a.out.Scopes[scopeIndex])
		}
	}
}

// collectTableRefs flattens a FROM clause's children into individual
// TableRef node indices, descending through Join nodes (whose left/right
// children may themselves be TableRef or nested Join nodes) and skipping
// JoinCondition children.
func (a *analyzer) collectTableRefs(fromOrJoin int32) []int32 {
	var out []int32
	var visit func(n int32)
	visit = func(n int32) {
		switch a.parsed.AST.Nodes[n].Kind {
		case ast.TableRef:
			out = append(out, n)
		case ast.Join, ast.From:
			for _, c := range a.parsed.AST.Children(n) {
				if a.parsed.AST.Nodes[c].Kind == ast.JoinCondition {
					continue
				}
				visit(c)
			}
		}
	}
	visit(fromOrJoin)
	return out
}

func (a *analyzer) bindTableRef(refNode int32) TableBinding {
	children := a.parsed.AST.Children(refNode)
	if len(children) == 0 {
		return TableBinding{TableRefNode: refNode}
	}
	namePathNode := children[0]
	parts := a.namePathParts(namePathNode)
	if len(parts) == 0 {
		return TableBinding{TableRefNode: refNode}
	}
	a.tagNamePathAsQualifiedTable(namePathNode)
	qname := a.qualify(parts)

	binding := TableBinding{
		TableRefNode: refNode,
		Qualified:    qname,
		Alias:        qname.Table,
	}

	for _, c := range children[1:] {
		if a.parsed.AST.Nodes[c].Kind != ast.TableAlias {
			continue
		}
		aliasChildren := a.parsed.AST.Children(c)
		if len(aliasChildren) == 0 {
			continue
		}
		aliasNode := a.parsed.AST.Nodes[aliasChildren[0]]
		if aliasNode.Attr != ast.AttrNameID {
			continue
		}
		a.scanned.Names.Tag(aliasNode.NameID(), name.TABLE_ALIAS)
		binding.Alias = a.scanned.Names.Get(aliasNode.NameID()).Text
	}

	if cols, ok := a.localTables[qname]; ok {
		binding.Resolved = catalog.TableDecl{Name: qname, Columns: cols}
		binding.ResolvedOK = true
		return binding
	}

	if decl, ok := a.cat.ResolveTable(qname, a.selfID); ok {
		binding.Resolved = decl
		binding.ResolvedOK = true
		return binding
	}

	a.addIssueReason(refNode, diag.Hint, diag.E_UNRESOLVED_TABLE_REF, "unresolved table reference: "+qname.Table, "absent")
	return binding
}

// resolveColumnRef looks up a ColumnRef's name path in scope: a one-part
// path ("col") searches every bound table for a matching column; a
// two-part path ("alias.col" or "table.col") resolves the qualifier to a
// specific binding first.
func (a *analyzer) resolveColumnRef(node int32, scope *Scope) {
	children := a.parsed.AST.Children(node)
	if len(children) == 0 {
		return
	}
	namePathNode := children[0]
	parts := a.namePathParts(namePathNode)
	if len(parts) == 0 {
		return
	}

	nameComponents := a.parsed.AST.Children(namePathNode)

	var qualifier, column string
	var columnComponentNode int32
	switch len(parts) {
	case 1:
		column = parts[0]
		columnComponentNode = nameComponents[0]
	default:
		qualifier = parts[len(parts)-2]
		column = parts[len(parts)-1]
		columnComponentNode = nameComponents[len(nameComponents)-1]
	}

	resolution := ColumnResolution{Node: node, ColumnName: column}

	if qualifier != "" {
		binding, ok := scope.BindingFor(qualifier)
		if !ok || !binding.ResolvedOK || binding.Resolved.ColumnIndex(column) < 0 {
			reason := "absent"
			if ok && binding.ResolvedOK {
				reason = "target_missing"
			}
			a.addIssueReason(node, diag.Hint, diag.E_UNRESOLVED_COLUMN_REF,
				"unresolved column reference: "+qualifier+"."+column, reason)
		} else {
			resolution.Binding = binding
			resolution.Resolved = true
			a.tagColumnComponentNode(columnComponentNode)
		}
		a.out.ColumnRefs = append(a.out.ColumnRefs, resolution)
		return
	}

	var matches []TableBinding
	for _, binding := range scope.Tables {
		if !binding.ResolvedOK {
			continue
		}
		if binding.Resolved.ColumnIndex(column) >= 0 {
			matches = append(matches, binding)
		}
	}

	switch len(matches) {
	case 0:
		a.addIssueReason(node, diag.Hint, diag.E_UNRESOLVED_COLUMN_REF,
			"unresolved column reference: "+column, "empty")
	case 1:
		resolution.Binding = matches[0]
		resolution.Resolved = true
		a.tagColumnComponentNode(columnComponentNode)
	default:
		a.addAmbiguousColumnIssue(node, column, matches)
	}
	a.out.ColumnRefs = append(a.out.ColumnRefs, resolution)
}

// addAmbiguousColumnIssue reports an unqualified column reference that
// matches a column in more than one bound table, with one related location
// per candidate so an editor can point the user at each table it could mean.
func (a *analyzer) addAmbiguousColumnIssue(node int32, column string, matches []TableBinding) {
	builder := diag.NewIssue(diag.Hint, diag.E_AMBIGUOUS_COLUMN_REF,
		"column '"+column+"' is ambiguous").WithSpan(a.nodeSpan(node))
	for _, m := range matches {
		builder = builder.WithRelated(location.RelatedInfo{
			Span:    a.nodeSpan(m.TableRefNode),
			Message: location.MsgCandidateHere,
		})
	}
	a.out.Diagnostics = append(a.out.Diagnostics, builder.Build())
}

func (a *analyzer) tagColumnComponentNode(n int32) {
	node := a.parsed.AST.Nodes[n]
	if node.Attr == ast.AttrNameID {
		a.scanned.Names.Tag(node.NameID(), name.COLUMN_NAME)
	}
}
