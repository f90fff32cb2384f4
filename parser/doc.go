// Package parser consumes a scanner symbol stream and produces the flat
// AST. It is restartable: [ExpectedSymbols] re-derives the set of grammar
// symbols that would have been valid at a given symbol index, which the
// completion engine uses for keyword suggestions.
package parser
