// Package analysis resolves table and column references in a parsed
// script: see analysis.go for Analyze's two-phase walk and select.go for
// scope construction.
package analysis
