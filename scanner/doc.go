// Package scanner turns script text into an ordered symbol stream plus the
// script's name registrations.
//
// Scan never stops at the first lexical error: malformed tokens are
// recorded in ScannedScript.Errors and scanning continues to EOF so later
// pipeline stages can still produce partial results over the rest of the
// script.
package scanner
