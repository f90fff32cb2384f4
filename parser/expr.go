package parser

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/token"
)

// precedence returns the binding power of a binary operator kind, or -1 if
// kind does not introduce a binary expression.
func precedence(kind token.Kind) int {
	switch kind {
	case token.OR:
		return 1
	case token.AND:
		return 2
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE,
		token.IN, token.LIKE, token.ILIKE, token.SIMILAR, token.IS, token.BETWEEN:
		return 3
	case token.PLUS, token.MINUS, token.CONCAT:
		return 4
	case token.ASTERISK, token.SLASH, token.PERCENT:
		return 5
	default:
		return -1
	}
}

// parseExpr parses a binary expression using precedence climbing; minPrec
// is the minimum binding power an operator must have to be consumed at
// this recursion level.
func (p *parserState) parseExpr(minPrec int) int32 {
	left := p.parseUnary()
	for {
		p.offer(token.AND, token.OR, token.EQ, token.NEQ, token.LT, token.GT,
			token.LTE, token.GTE, token.PLUS, token.MINUS, token.ASTERISK,
			token.SLASH, token.IN, token.LIKE, token.BETWEEN)
		opKind := p.current().Kind
		prec := precedence(opKind)
		if prec < 0 || prec < minPrec {
			return left
		}
		_, _ = p.currentOffsetLen()
		p.advance()
		right := p.parseExpr(prec + 1)
		children := []int32{left, right}
		left = p.builder.NewNode(ast.BinaryExpr, children, 0, 0)
		p.markOperator(left, opKind)
	}
}

// operatorTable records which token.Kind a BinaryExpr node was built with,
// since the node's own Attr slot is already used to distinguish it from
// other expression kinds. Keyed by node index.
//
// This is a small side table rather than a field on Node because Node is a
// fixed-width flat record shared by every node kind; adding a
// rarely-needed field there would grow every node in the AST.
type operatorTable map[int32]token.Kind

func (p *parserState) markOperator(node int32, kind token.Kind) {
	if p.operators == nil {
		p.operators = make(operatorTable)
	}
	p.operators[node] = kind
}

func (p *parserState) parseUnary() int32 {
	if p.is(token.NOT) || p.is(token.MINUS) {
		offset, _ := p.currentOffsetLen()
		op := p.current().Kind
		p.advance()
		operand := p.parseUnary()
		node := p.builder.NewNode(ast.UnaryExpr, []int32{operand}, offset, 0)
		p.markOperator(node, op)
		return node
	}
	return p.parsePrimary()
}

func (p *parserState) parsePrimary() int32 {
	offset, length := p.currentOffsetLen()
	p.offer(token.IDENT, token.INT, token.FLOAT, token.STRING, token.LPAREN,
		token.NULL, token.TRUE, token.FALSE, token.CASE, token.CAST, token.ASTERISK, token.EXISTS)

	switch p.current().Kind {
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr(0)
		p.expect(token.RPAREN)
		return inner
	case token.INT, token.FLOAT, token.STRING, token.NULL, token.TRUE, token.FALSE, token.HEXLIT:
		p.advance()
		lit := p.builder.AddLiteral(p.scanned.ReadTextAtLocation(offset, length))
		return p.builder.NewLeaf(ast.Literal, ast.AttrLiteralText, lit, offset, length)
	case token.ASTERISK:
		p.advance()
		return p.builder.NewLeaf(ast.Star, ast.AttrNone, 0, offset, length)
	case token.CASE:
		return p.parseCase()
	case token.EXISTS:
		p.advance()
		p.expect(token.LPAREN)
		if p.is(token.SELECT) {
			p.parseSelect()
		}
		p.expect(token.RPAREN)
		return p.builder.NewLeaf(ast.Literal, ast.AttrNone, 0, offset, length)
	case token.IDENT:
		return p.parseColumnRefOrCall()
	default:
		p.errorf("expected an expression")
		p.advance()
		return p.builder.NewLeaf(ast.Literal, ast.AttrNone, 0, offset, length)
	}
}

// parseColumnRefOrCall disambiguates `name` / `name.name` (a column
// reference, possibly alias-qualified) from `name(...)` (a function call)
// by a single token of lookahead after the name path.
func (p *parserState) parseColumnRefOrCall() int32 {
	offset, _ := p.currentOffsetLen()
	path := p.parseNamePath()

	if _, ok := p.accept(token.LPAREN); ok {
		var args []int32
		if !p.is(token.RPAREN) {
			if _, ok := p.accept(token.ASTERISK); ok {
				args = append(args, p.builder.NewLeaf(ast.Star, ast.AttrNone, 0, 0, 0))
			} else {
				args = append(args, p.parseExpr(0))
				for {
					if _, ok := p.accept(token.COMMA); !ok {
						break
					}
					args = append(args, p.parseExpr(0))
				}
			}
		}
		p.expect(token.RPAREN)
		endOffset, endLen := p.currentOffsetLen()
		children := append([]int32{path}, args...)
		return p.builder.NewNode(ast.FunctionCall, children, offset, endOffset+endLen-offset)
	}

	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.ColumnRef, []int32{path}, offset, endOffset+endLen-offset)
}

func (p *parserState) parseCase() int32 {
	offset, _ := p.currentOffsetLen()
	p.advance() // CASE
	var children []int32
	for p.is(token.WHEN) {
		p.advance()
		cond := p.parseExpr(0)
		p.expect(token.THEN)
		result := p.parseExpr(0)
		children = append(children, cond, result)
	}
	if _, ok := p.accept(token.ELSE); ok {
		children = append(children, p.parseExpr(0))
	}
	p.expect(token.END)
	endOffset, endLen := p.currentOffsetLen()
	return p.builder.NewNode(ast.Literal, children, offset, endOffset+endLen-offset)
}
