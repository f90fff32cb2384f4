package parser

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/token"
)

// parseSelect parses a (possibly simplified) SELECT statement:
//
//	SELECT [DISTINCT] selectList
//	FROM tableRef { , tableRef | joinClause }
//	[WHERE expr]
//	[GROUP BY expr {, expr}]
//	[HAVING expr]
//	[ORDER BY expr [ASC|DESC] {, ...}]
//	[LIMIT expr]
func (p *parserState) parseSelect() int32 {
	offset, _ := p.currentOffsetLen()
	p.advance() // SELECT

	if _, ok := p.accept(token.DISTINCT); ok {
		// no-op for the flat AST: DISTINCT does not affect name resolution.
	}

	var children []int32
	children = append(children, p.parseSelectList())

	p.offer(token.FROM)
	if _, ok := p.accept(token.FROM); ok {
		children = append(children, p.parseFrom())
	}

	p.offer(token.WHERE)
	if _, ok := p.accept(token.WHERE); ok {
		expr := p.parseExpr(0)
		children = append(children, p.builder.NewNode(ast.Where, []int32{expr}, 0, 0))
	}

	p.offer(token.GROUP)
	if _, ok := p.accept(token.GROUP); ok {
		p.expect(token.BY)
		var items []int32
		items = append(items, p.parseExpr(0))
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			items = append(items, p.parseExpr(0))
		}
		children = append(children, p.builder.NewNode(ast.GroupBy, items, 0, 0))
	}

	p.offer(token.HAVING)
	if _, ok := p.accept(token.HAVING); ok {
		expr := p.parseExpr(0)
		children = append(children, p.builder.NewNode(ast.Having, []int32{expr}, 0, 0))
	}

	p.offer(token.ORDER)
	if _, ok := p.accept(token.ORDER); ok {
		p.expect(token.BY)
		var items []int32
		items = append(items, p.parseOrderItem())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			items = append(items, p.parseOrderItem())
		}
		children = append(children, p.builder.NewNode(ast.OrderBy, items, 0, 0))
	}

	p.offer(token.LIMIT)
	if _, ok := p.accept(token.LIMIT); ok {
		p.parseExpr(0)
	}

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.Select, children, offset, endOffset+endLen-offset)
}

func (p *parserState) parseOrderItem() int32 {
	expr := p.parseExpr(0)
	p.offer(token.ASC, token.DESC)
	if p.is(token.ASC) || p.is(token.DESC) {
		p.advance()
	}
	return expr
}

func (p *parserState) expect(kind token.Kind) {
	p.offer(kind)
	if _, ok := p.accept(kind); !ok {
		p.errorf("expected " + kind.String())
	}
}

// parseSelectList parses the comma-separated select item list, including
// the bare "*" form.
func (p *parserState) parseSelectList() int32 {
	offset, _ := p.currentOffsetLen()
	var items []int32

	parseItem := func() int32 {
		if off, length := p.currentOffsetLen(); p.is(token.ASTERISK) {
			p.advance()
			return p.builder.NewLeaf(ast.Star, ast.AttrNone, 0, off, length)
		}
		expr := p.parseExpr(0)
		if _, ok := p.accept(token.AS); ok {
			p.parseIdentLeaf()
		}
		return expr
	}

	items = append(items, parseItem())
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		items = append(items, parseItem())
	}

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.SelectList, items, offset, endOffset+endLen-offset)
}

// parseFrom parses the FROM clause: a comma-separated or joined sequence
// of table references.
func (p *parserState) parseFrom() int32 {
	offset, _ := p.currentOffsetLen()
	var refs []int32
	refs = append(refs, p.parseTableRefWithJoins())
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		refs = append(refs, p.parseTableRefWithJoins())
	}
	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.From, refs, offset, endOffset+endLen-offset)
}

func (p *parserState) parseTableRefWithJoins() int32 {
	left := p.parseTableRef()
	for {
		p.offer(token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS)
		joined := false
		switch p.current().Kind {
		case token.JOIN:
			p.advance()
			joined = true
		case token.INNER, token.LEFT, token.RIGHT, token.FULL:
			p.advance()
			if _, ok := p.accept(token.OUTER); ok {
				// LEFT/RIGHT/FULL OUTER JOIN
			}
			p.expect(token.JOIN)
			joined = true
		case token.CROSS:
			p.advance()
			p.expect(token.JOIN)
			joined = true
		}
		if !joined {
			return left
		}
		right := p.parseTableRef()
		children := []int32{left, right}
		p.offer(token.ON, token.USING)
		if _, ok := p.accept(token.ON); ok {
			cond := p.parseExpr(0)
			children = append(children, p.builder.NewNode(ast.JoinCondition, []int32{cond}, 0, 0))
		} else if _, ok := p.accept(token.USING); ok {
			p.expect(token.LPAREN)
			p.parseIdentLeaf()
			for {
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				p.parseIdentLeaf()
			}
			p.expect(token.RPAREN)
		}
		left = p.builder.NewNode(ast.Join, children, 0, 0)
	}
}

// parseTableRef parses a qualified table name path and optional alias.
func (p *parserState) parseTableRef() int32 {
	offset, _ := p.currentOffsetLen()
	path := p.parseNamePath()
	children := []int32{path}

	if _, ok := p.accept(token.AS); ok {
		alias := p.parseIdentLeaf()
		children = append(children, p.builder.NewNode(ast.TableAlias, []int32{alias}, 0, 0))
	} else if p.is(token.IDENT) {
		alias := p.parseIdentLeaf()
		children = append(children, p.builder.NewNode(ast.TableAlias, []int32{alias}, 0, 0))
	}

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.TableRef, children, offset, endOffset+endLen-offset)
}

// parseNamePath parses a dotted sequence of identifiers (1 to 3
// components), producing a NamePath node over NameComponent leaves.
func (p *parserState) parseNamePath() int32 {
	offset, _ := p.currentOffsetLen()
	var comps []int32
	comps = append(comps, p.parseIdentLeaf())
	for p.is(token.DOT) {
		p.advance()
		comps = append(comps, p.parseIdentLeaf())
	}
	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.NamePath, comps, offset, endOffset+endLen-offset)
}

func (p *parserState) parseIdentLeaf() int32 {
	p.offer(token.IDENT)
	sym := p.current()
	offset, length := p.currentOffsetLen()
	if sym.Kind == token.IDENT {
		p.advance()
		return p.builder.NewLeaf(ast.NameComponent, ast.AttrNameID, int32(sym.NameID), offset, length)
	}
	p.errorf("expected an identifier")
	return p.builder.NewLeaf(ast.NameComponent, ast.AttrNone, 0, offset, length)
}
