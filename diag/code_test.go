package diag

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func TestCode_String(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{E_LIMIT_REACHED, "E_LIMIT_REACHED"},
		{E_INTERNAL, "E_INTERNAL"},
		{E_LEXICAL, "E_LEXICAL"},
		{E_SYNTAX, "E_SYNTAX"},
		{E_CATALOG_ID_OUT_OF_SYNC, "E_CATALOG_ID_OUT_OF_SYNC"},
		{E_COMPLETION_MISSES_CURSOR, "E_COMPLETION_MISSES_CURSOR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.String(); got != tt.want {
				t.Errorf("Code.String() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code Code
		want CodeCategory
	}{
		{E_LIMIT_REACHED, CategorySentinel},
		{E_INTERNAL, CategorySentinel},
		{E_LEXICAL, CategoryScanner},
		{E_SYNTAX, CategorySyntax},
		{E_PARSER_INPUT_NOT_SCANNED, CategorySyntax},
		{E_ANALYZER_INPUT_NOT_PARSED, CategoryAnalysis},
		{E_UNRESOLVED_TABLE_REF, CategoryAnalysis},
		{E_CATALOG_ID_OUT_OF_SYNC, CategoryCatalog},
		{E_CATALOG_MISMATCH, CategoryCatalog},
		{E_COMPLETION_MISSES_CURSOR, CategoryCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.Category(); got != tt.want {
				t.Errorf("%s.Category() = %s; want %s", tt.code, got, tt.want)
			}
		})
	}
}

func TestCode_IsZero(t *testing.T) {
	tests := []struct {
		name string
		code Code
		want bool
	}{
		{"zero value", Code{}, true},
		{"empty string value", code("", CategorySentinel), true},
		{"valid code", E_SYNTAX, false},
		{"sentinel code", E_LIMIT_REACHED, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.IsZero(); got != tt.want {
				t.Errorf("Code.IsZero() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestCodeCategory_String(t *testing.T) {
	tests := []struct {
		cat  CodeCategory
		want string
	}{
		{CategorySentinel, "sentinel"},
		{CategoryScanner, "scanner"},
		{CategorySyntax, "syntax"},
		{CategoryAnalysis, "analysis"},
		{CategoryCatalog, "catalog"},
		{CategoryCompletion, "completion"},
		{CodeCategory(255), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.cat.String(); got != tt.want {
				t.Errorf("CodeCategory(%d).String() = %q; want %q", tt.cat, got, tt.want)
			}
		})
	}
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()

	if len(codes) < 10 {
		t.Errorf("AllCodes() returned %d codes; expected at least 10", len(codes))
	}

	// Verify the slice is a copy (modifications don't affect internal state)
	original := AllCodes()
	codes[0] = Code{}
	afterMod := AllCodes()
	if afterMod[0].IsZero() {
		t.Error("AllCodes() should return a copy, not the internal slice")
	}
	if original[0].IsZero() {
		t.Error("original should not be affected by modifications to copy")
	}
}

func TestAllCodes_Uniqueness(t *testing.T) {
	codes := AllCodes()
	seen := make(map[string]Code)

	for _, c := range codes {
		str := c.String()
		if str == "" {
			t.Error("found code with empty string")
			continue
		}
		if prev, ok := seen[str]; ok {
			t.Errorf("duplicate code string %q: categories %s and %s",
				str, prev.Category(), c.Category())
		}
		seen[str] = c
	}

	if len(seen) != len(codes) {
		t.Errorf("unique codes: %d, total codes: %d", len(seen), len(codes))
	}
}

func TestAllCodes_NoZeroValues(t *testing.T) {
	for _, c := range AllCodes() {
		if c.IsZero() {
			t.Errorf("AllCodes() contains zero-value code")
		}
	}
}

func TestCodesByCategory(t *testing.T) {
	tests := []struct {
		cat         CodeCategory
		minExpected int
		mustContain []Code
	}{
		{
			cat:         CategorySentinel,
			minExpected: 2,
			mustContain: []Code{E_LIMIT_REACHED, E_INTERNAL},
		},
		{
			cat:         CategoryScanner,
			minExpected: 1,
			mustContain: []Code{E_LEXICAL},
		},
		{
			cat:         CategorySyntax,
			minExpected: 2,
			mustContain: []Code{E_SYNTAX, E_PARSER_INPUT_NOT_SCANNED},
		},
		{
			cat:         CategoryAnalysis,
			minExpected: 2,
			mustContain: []Code{E_ANALYZER_INPUT_NOT_PARSED, E_UNRESOLVED_TABLE_REF},
		},
		{
			cat:         CategoryCatalog,
			minExpected: 5,
			mustContain: []Code{E_CATALOG_ID_OUT_OF_SYNC, E_CATALOG_MISMATCH},
		},
		{
			cat:         CategoryCompletion,
			minExpected: 2,
			mustContain: []Code{E_COMPLETION_MISSES_CURSOR, E_COMPLETION_MISSES_SCANNER_TOKEN},
		},
	}

	for _, tt := range tests {
		t.Run(tt.cat.String(), func(t *testing.T) {
			codes := CodesByCategory(tt.cat)

			if len(codes) < tt.minExpected {
				t.Errorf("CodesByCategory(%s) returned %d codes; expected at least %d",
					tt.cat, len(codes), tt.minExpected)
			}

			for _, c := range codes {
				if c.Category() != tt.cat {
					t.Errorf("code %s has category %s; expected %s",
						c, c.Category(), tt.cat)
				}
			}

			codeSet := make(map[string]bool)
			for _, c := range codes {
				codeSet[c.String()] = true
			}
			for _, required := range tt.mustContain {
				if !codeSet[required.String()] {
					t.Errorf("CodesByCategory(%s) missing required code %s",
						tt.cat, required)
				}
			}
		})
	}
}

func TestCodesByCategory_ReturnsNewSlice(t *testing.T) {
	codes1 := CodesByCategory(CategoryCatalog)
	if len(codes1) == 0 {
		t.Skip("no catalog codes to test with")
	}

	codes1[0] = Code{}
	codes2 := CodesByCategory(CategoryCatalog)

	if codes2[0].IsZero() {
		t.Error("CodesByCategory should return a new slice each time")
	}
}

func TestCodesByCategory_AllCategoriesCovered(t *testing.T) {
	allByCategory := make(map[string]bool)
	categories := []CodeCategory{
		CategorySentinel,
		CategoryScanner,
		CategorySyntax,
		CategoryAnalysis,
		CategoryCatalog,
		CategoryCompletion,
	}

	for _, cat := range categories {
		for _, c := range CodesByCategory(cat) {
			if allByCategory[c.String()] {
				t.Errorf("code %s appears in multiple categories", c)
			}
			allByCategory[c.String()] = true
		}
	}

	for _, c := range AllCodes() {
		if !allByCategory[c.String()] {
			t.Errorf("code %s not returned by any CodesByCategory call", c)
		}
	}
}

// TestStatusMappedCodesExist verifies that every status code spelled out in
// the external interface contract has a corresponding
// diag.Code of the same category.
func TestStatusMappedCodesExist(t *testing.T) {
	requiredCodes := []struct {
		code     Code
		category CodeCategory
	}{
		{E_LIMIT_REACHED, CategorySentinel},
		{E_INTERNAL, CategorySentinel},
		{E_LEXICAL, CategoryScanner},
		{E_SYNTAX, CategorySyntax},
		{E_PARSER_INPUT_NOT_SCANNED, CategorySyntax},
		{E_ANALYZER_INPUT_NOT_PARSED, CategoryAnalysis},
		{E_CATALOG_ID_OUT_OF_SYNC, CategoryCatalog},
		{E_CATALOG_SCRIPT_NOT_ANALYZED, CategoryCatalog},
		{E_COMPLETION_MISSES_CURSOR, CategoryCompletion},
		{E_COMPLETION_MISSES_SCANNER_TOKEN, CategoryCompletion},
	}

	for _, tc := range requiredCodes {
		t.Run(tc.code.String(), func(t *testing.T) {
			if tc.code.IsZero() {
				t.Errorf("code %s is zero", tc.code)
			}
			if tc.code.Category() != tc.category {
				t.Errorf("code %s has category %s; want %s",
					tc.code, tc.code.Category(), tc.category)
			}
		})
	}
}

// TestAllCodes_MatchesDefinedCodes uses AST parsing to verify that every
// exported E_* variable in code.go appears in allCodes exactly once.
// This prevents drift between code definitions and the allCodes slice.
func TestAllCodes_MatchesDefinedCodes(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "code.go", nil, 0)
	if err != nil {
		t.Fatalf("failed to parse code.go: %v", err)
	}

	definedCodes := make(map[string]bool)
	ast.Inspect(f, func(n ast.Node) bool {
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			return true
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for _, name := range valueSpec.Names {
				if strings.HasPrefix(name.Name, "E_") && name.IsExported() {
					definedCodes[name.Name] = true
				}
			}
		}
		return true
	})

	if len(definedCodes) == 0 {
		t.Fatal("no E_* variables found in code.go")
	}

	allCodesMap := make(map[string]bool)
	for _, c := range AllCodes() {
		str := c.String()
		if allCodesMap[str] {
			t.Errorf("allCodes contains duplicate: %s", str)
		}
		allCodesMap[str] = true
	}

	for name := range definedCodes {
		if !allCodesMap[name] {
			t.Errorf("E_* variable %s defined in code.go but missing from allCodes", name)
		}
	}

	for name := range allCodesMap {
		if !definedCodes[name] {
			t.Errorf("allCodes contains %s but no matching E_* variable in code.go", name)
		}
	}

	t.Logf("found %d E_* definitions, %d entries in allCodes", len(definedCodes), len(allCodesMap))
}
