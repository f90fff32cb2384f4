package parser

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/token"
)

// parseCreateTable parses:
//
//	CREATE TABLE [db.schema.]table ( columnDef {, columnDef} )
//	CREATE TABLE [db.schema.]table AS select
func (p *parserState) parseCreateTable() int32 {
	offset, _ := p.currentOffsetLen()
	p.advance() // CREATE
	p.expect(token.TABLE)

	name := p.parseNamePath()
	children := []int32{name}

	p.offer(token.AS, token.LPAREN)
	if _, ok := p.accept(token.AS); ok {
		if p.is(token.SELECT) {
			children = append(children, p.parseSelect())
		}
		endOffset, endLen := p.currentOffsetLen()
		return p.builder.NewNode(ast.CreateTableAs, children, offset, endOffset+endLen-offset)
	}

	p.expect(token.LPAREN)
	if !p.is(token.RPAREN) {
		children = append(children, p.parseColumnDef())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			if p.isTableConstraintStart() {
				p.skipTableConstraint()
				continue
			}
			children = append(children, p.parseColumnDef())
		}
	}
	p.expect(token.RPAREN)

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.CreateTable, children, offset, endOffset+endLen-offset)
}

func (p *parserState) isTableConstraintStart() bool {
	switch p.current().Kind {
	case token.PRIMARY, token.FOREIGN, token.UNIQUE, token.CHECK, token.CONSTRAINT:
		return true
	default:
		return false
	}
}

// skipTableConstraint consumes a table-level constraint clause without
// modeling it in the AST: constraint shape does not participate in name
// resolution (spec §4.2 resolves columns and tables, not constraints).
func (p *parserState) skipTableConstraint() {
	depth := 0
	for {
		switch p.current().Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			if depth == 0 {
				return
			}
			depth--
		case token.COMMA:
			if depth == 0 {
				return
			}
		case token.EOF:
			return
		}
		p.advance()
	}
}

// parseColumnDef parses `name type [constraint...]`, skipping constraint
// detail beyond the column name and type, which name resolution does not
// need.
func (p *parserState) parseColumnDef() int32 {
	offset, _ := p.currentOffsetLen()
	nameLeaf := p.parseIdentLeaf()

	p.offer(token.INT_TYPE, token.BIGINT, token.SMALLINT, token.BOOLEAN,
		token.VARCHAR, token.TEXT, token.CHAR_TYPE, token.DECIMAL,
		token.NUMERIC, token.FLOAT_TYPE, token.DOUBLE, token.DATE, token.TIMESTAMP)
	typeNode := p.parseTypeName()

	children := []int32{nameLeaf, typeNode}

	for !p.is(token.COMMA) && !p.is(token.RPAREN) && !p.is(token.EOF) {
		p.advance() // skip constraint tokens (NOT NULL, PRIMARY KEY, DEFAULT ..., etc.)
		if p.is(token.LPAREN) {
			p.skipParenGroup()
		}
	}

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.ColumnDef, children, offset, endOffset+endLen-offset)
}

func (p *parserState) skipParenGroup() {
	depth := 0
	for {
		switch p.current().Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.EOF:
			return
		}
		p.advance()
	}
}

func (p *parserState) parseTypeName() int32 {
	offset, length := p.currentOffsetLen()
	if p.current().Kind != token.IDENT {
		p.advance()
	} else {
		p.advance()
	}
	if _, ok := p.accept(token.LPAREN); ok {
		p.skipParenGroupAfterOpen()
	}
	return p.builder.NewLeaf(ast.TypeName, ast.AttrNone, 0, offset, length)
}

func (p *parserState) skipParenGroupAfterOpen() {
	depth := 1
	for depth > 0 {
		switch p.current().Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		case token.EOF:
			return
		}
		p.advance()
	}
}
