// Package parser implements a restartable recursive-descent parser that
// consumes a scanner symbol stream and emits a flat AST plus statement
// ranges.
//
// The parser is a hand-rolled, minimal stand-in for the external
// grammar/parser generator described by spec: it is sufficient to drive
// name resolution, cursor location, and completion, not a claim that full
// SQL-dialect grammar generation is in scope here.
package parser

import (
	"github.com/ankoh/sqlynx-sub000/ast"
	"github.com/ankoh/sqlynx-sub000/diag"
	"github.com/ankoh/sqlynx-sub000/location"
	"github.com/ankoh/sqlynx-sub000/scanner"
	"github.com/ankoh/sqlynx-sub000/token"
)

// Result is the output of Parse.
type Result struct {
	AST       *ast.AST
	Errors    []diag.Issue
	operators operatorTable
}

// Operator returns the token kind a BinaryExpr or UnaryExpr node was built
// with. Needed because Node's own Attr slot is reused by other node kinds,
// so operator kind is tracked in a side table keyed by node index instead.
func (r Result) Operator(node int32) (token.Kind, bool) {
	k, ok := r.operators[node]
	return k, ok
}

// Parse consumes every statement in scanned and returns the flat AST.
// Parse errors are recoverable: on a syntax error within a statement, the
// parser skips forward to the next statement-terminating semicolon (or
// EOF) and continues, so a single malformed statement does not prevent
// later statements in the same script from being analyzed.
func Parse(scanned *scanner.ScannedScript) Result {
	p := &parserState{
		scanned: scanned,
		builder: ast.NewBuilder(),
	}
	p.parseAll()
	return Result{AST: p.builder.AST(), Errors: p.errors, operators: p.operators}
}

// ExpectedSymbols runs the parser in probe mode, returning every token kind
// that was offered as a valid continuation at the symbol index atIndex.
// Used by the completion engine's grammar-lookahead strategy (spec §4.5
// step 3) when the cursor is not immediately after a dot.
func ExpectedSymbols(scanned *scanner.ScannedScript, atIndex int) []token.Kind {
	p := &parserState{
		scanned:    scanned,
		builder:    ast.NewBuilder(),
		probeIndex: atIndex,
		probing:    true,
	}
	p.parseAll()
	return p.expectedAtProbe
}

type parserState struct {
	scanned   *scanner.ScannedScript
	builder   *ast.Builder
	pos       int
	errors    []diag.Issue
	operators operatorTable

	probing         bool
	probeIndex      int
	expectedAtProbe []token.Kind
}

func (p *parserState) current() scanner.Symbol {
	return p.scanned.Symbols[p.pos]
}

func (p *parserState) currentOffsetLen() (int, int) {
	s := p.current()
	return s.Offset, s.Length
}

func (p *parserState) advance() scanner.Symbol {
	s := p.current()
	if p.pos < len(p.scanned.Symbols)-1 {
		p.pos++
	}
	return s
}

// offer records kinds as candidates at the probe position without
// affecting normal parsing; callers invoke this at every grammar choice
// point alongside their ordinary dispatch logic.
func (p *parserState) offer(kinds ...token.Kind) {
	if !p.probing || p.pos != p.probeIndex {
		return
	}
	p.expectedAtProbe = append(p.expectedAtProbe, kinds...)
}

func (p *parserState) is(kind token.Kind) bool {
	return p.current().Kind == kind
}

func (p *parserState) accept(kind token.Kind) (scanner.Symbol, bool) {
	if p.is(kind) {
		return p.advance(), true
	}
	return scanner.Symbol{}, false
}

func (p *parserState) errorf(msg string) {
	offset, length := p.currentOffsetLen()
	span := location.PointWithByte(p.scanned.ScriptID, 0, 0, offset)
	p.errors = append(p.errors, diag.NewIssue(diag.Error, diag.E_SYNTAX, msg).WithSpan(span).Build())
	_ = length
}

// parseAll drives the statement loop. It always attempts at least one
// parseStatement call even when the script is already at EOF, so that
// probing the symbol at index 0 of an empty or whitespace-only script
// still offers the set of statement-starting keywords.
func (p *parserState) parseAll() {
	for {
		p.parseStatement()
		if p.current().Kind == token.EOF {
			return
		}
		p.skipToStatementEnd()
		if p.current().Kind == token.EOF {
			return
		}
	}
}

func (p *parserState) skipToStatementEnd() {
	for p.current().Kind != token.EOF && p.current().Kind != token.SEMICOLON {
		p.advance()
	}
	if p.is(token.SEMICOLON) {
		p.advance()
	}
}

func (p *parserState) parseStatement() {
	p.offer(token.SELECT, token.CREATE, token.INSERT, token.UPDATE, token.DELETE)
	begin := p.builder.NextIndex()
	switch p.current().Kind {
	case token.SELECT:
		root := p.parseSelect()
		p.builder.FinishStatement(ast.StatementSelect, root, begin, p.builder.NextIndex())
	case token.CREATE:
		root := p.parseCreateTable()
		p.builder.FinishStatement(ast.StatementCreateTable, root, begin, p.builder.NextIndex())
	default:
		if p.current().Kind != token.EOF {
			p.errorf("expected a statement")
		}
	}
}
