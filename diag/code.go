package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories represent the semantic domain of an error, not necessarily the
// pipeline stage that emits it. Most codes are emitted exclusively by their
// category's stage, but some codes represent cross-cutting concerns.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryScanner is for lexical scanning errors.
	CategoryScanner

	// CategorySyntax is for parser errors.
	CategorySyntax

	// CategoryAnalysis is for name-resolution errors.
	CategoryAnalysis

	// CategoryCatalog is for catalog integrity failures.
	CategoryCatalog

	// CategoryCompletion is for completion-engine fallbacks.
	CategoryCompletion
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryScanner:
		return "scanner"
	case CategorySyntax:
		return "syntax"
	case CategoryAnalysis:
		return "analysis"
	case CategoryCatalog:
		return "catalog"
	case CategoryCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_SYNTAX").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	// It does not automatically trigger Result.LimitReached(); use
	// Collector.LimitReached() to check limit status. Callers may inject
	// this code manually when desired.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	// Use for conditions that should never occur in correct code.
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Scanner codes.
var (
	// E_LEXICAL indicates a malformed token (unterminated literal, stray
	// byte) encountered during scanning. Scanning continues to end-of-file.
	E_LEXICAL = code("E_LEXICAL", CategoryScanner)
)

// Syntax (parser) codes.
var (
	// E_SYNTAX indicates a syntax error encountered while parsing symbols
	// into the flat AST. Parsing continues on a best-effort basis.
	E_SYNTAX = code("E_SYNTAX", CategorySyntax)

	// E_PARSER_INPUT_NOT_SCANNED indicates Parse was invoked before Scan.
	E_PARSER_INPUT_NOT_SCANNED = code("E_PARSER_INPUT_NOT_SCANNED", CategorySyntax)
)

// Analysis codes.
var (
	// E_ANALYZER_INPUT_NOT_PARSED indicates Analyze was invoked before Parse.
	E_ANALYZER_INPUT_NOT_PARSED = code("E_ANALYZER_INPUT_NOT_PARSED", CategoryAnalysis)

	// E_UNRESOLVED_TABLE_REF is a hint-level diagnostic for a table
	// reference that could not be matched to any catalog declaration.
	E_UNRESOLVED_TABLE_REF = code("E_UNRESOLVED_TABLE_REF", CategoryAnalysis)

	// E_UNRESOLVED_COLUMN_REF is a hint-level diagnostic for a column
	// reference that could not be matched within any enclosing scope.
	E_UNRESOLVED_COLUMN_REF = code("E_UNRESOLVED_COLUMN_REF", CategoryAnalysis)

	// E_AMBIGUOUS_COLUMN_REF is a hint-level diagnostic for an unqualified
	// column reference that matches a column in more than one bound table
	// (e.g. "SELECT id FROM users, orders" when both tables have an "id"
	// column).
	E_AMBIGUOUS_COLUMN_REF = code("E_AMBIGUOUS_COLUMN_REF", CategoryAnalysis)
)

// Catalog codes.
var (
	// E_CATALOG_EXTERNAL_ID_COLLISION indicates a LoadScript or
	// add_descriptor_pool call used an external id already held by a
	// different kind of entry.
	E_CATALOG_EXTERNAL_ID_COLLISION = code("E_CATALOG_EXTERNAL_ID_COLLISION", CategoryCatalog)

	// E_CATALOG_ID_OUT_OF_SYNC indicates a script's pre-allocated
	// database_id/schema_id disagrees with the catalog's live allocation.
	E_CATALOG_ID_OUT_OF_SYNC = code("E_CATALOG_ID_OUT_OF_SYNC", CategoryCatalog)

	// E_CATALOG_SCRIPT_NOT_ANALYZED indicates LoadScript was called with a
	// script that has not completed analysis.
	E_CATALOG_SCRIPT_NOT_ANALYZED = code("E_CATALOG_SCRIPT_NOT_ANALYZED", CategoryCatalog)

	// E_CATALOG_MISMATCH indicates a reconciliation check between a script's
	// referenced declarations and the catalog's own failed.
	E_CATALOG_MISMATCH = code("E_CATALOG_MISMATCH", CategoryCatalog)

	// E_CATALOG_DESCRIPTOR_TABLES_NULL indicates a schema descriptor was
	// loaded with a null tables list.
	E_CATALOG_DESCRIPTOR_TABLES_NULL = code("E_CATALOG_DESCRIPTOR_TABLES_NULL", CategoryCatalog)

	// E_CATALOG_DESCRIPTOR_TABLE_NAME_EMPTY indicates a descriptor table has
	// an empty name.
	E_CATALOG_DESCRIPTOR_TABLE_NAME_EMPTY = code("E_CATALOG_DESCRIPTOR_TABLE_NAME_EMPTY", CategoryCatalog)

	// E_CATALOG_DESCRIPTOR_TABLE_NAME_COLLISION indicates a descriptor
	// declares the same table name twice.
	E_CATALOG_DESCRIPTOR_TABLE_NAME_COLLISION = code("E_CATALOG_DESCRIPTOR_TABLE_NAME_COLLISION", CategoryCatalog)
)

// Completion codes.
var (
	// E_COMPLETION_MISSES_CURSOR indicates completion was requested before
	// move_cursor succeeded for the current script revision.
	E_COMPLETION_MISSES_CURSOR = code("E_COMPLETION_MISSES_CURSOR", CategoryCompletion)

	// E_COMPLETION_MISSES_SCANNER_TOKEN indicates the cursor's matched
	// symbol could not be resolved against the current scan.
	E_COMPLETION_MISSES_SCANNER_TOKEN = code("E_COMPLETION_MISSES_SCANNER_TOKEN", CategoryCompletion)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	// Sentinel
	E_LIMIT_REACHED,
	E_INTERNAL,
	// Scanner
	E_LEXICAL,
	// Syntax
	E_SYNTAX,
	E_PARSER_INPUT_NOT_SCANNED,
	// Analysis
	E_ANALYZER_INPUT_NOT_PARSED,
	E_UNRESOLVED_TABLE_REF,
	E_UNRESOLVED_COLUMN_REF,
	E_AMBIGUOUS_COLUMN_REF,
	// Catalog
	E_CATALOG_EXTERNAL_ID_COLLISION,
	E_CATALOG_ID_OUT_OF_SYNC,
	E_CATALOG_SCRIPT_NOT_ANALYZED,
	E_CATALOG_MISMATCH,
	E_CATALOG_DESCRIPTOR_TABLES_NULL,
	E_CATALOG_DESCRIPTOR_TABLE_NAME_EMPTY,
	E_CATALOG_DESCRIPTOR_TABLE_NAME_COLLISION,
	// Completion
	E_COMPLETION_MISSES_CURSOR,
	E_COMPLETION_MISSES_SCANNER_TOKEN,
}

// AllCodes returns all defined codes.
//
// This function is useful for tooling and testing. The returned slice is a
// copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
