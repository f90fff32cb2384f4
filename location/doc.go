// Package location provides source location tracking for diagnostics.
//
// This package defines the core types used by the SQL analysis engine's
// diagnostic system to track source locations. It sits at the foundation
// tier and can be imported by all other packages without introducing
// circular dependencies.
//
// # ScriptID
//
// ScriptID identifies a script uniquely within a build. Scripts are
// in-memory text buffers, not files: the identifier is the editor
// document's URI for scripts opened through the language server, or any
// caller-chosen string (conventionally scheme-prefixed, e.g. "test://" or
// "inline:") for scripts created programmatically or in tests. ScriptID
// performs no filesystem canonicalization — there is no path to resolve.
//
// ScriptID is comparable and safe for use as map keys.
//
// # Position
//
// Position identifies a point in a UTF-8 encoded script:
//   - Line: 1-based line number (0 = unknown)
//   - Column: 1-based column counting Unicode code points (runes), not bytes
//   - Byte: 0-based byte offset (-1 = unknown)
//
// Use IsZero() to check for unknown positions, IsKnown() to check for valid
// line/column, and HasByte() to check for known byte offsets.
//
// # Span
//
// Span represents a half-open range [Start, End) in a script:
//   - Source: ScriptID identifying the script
//   - Start: Inclusive start position
//   - End: Exclusive end position (equals Start for point spans)
//
// Create spans via Point, PointWithByte, Range, or RangeWithBytes. The Range
// constructors panic if end < start (geometric soundness invariant).
//
// Use IsZero() to check for "no location", IsValid() to check for LSP
// compatibility, and IsGeometricallySafe() to validate spans from untrusted
// sources.
//
// # RelatedInfo
//
// RelatedInfo provides supplementary location context for diagnostics, such
// as "previous definition here" for duplicate type errors. Use the Msg*
// constants for consistent message formatting.
//
// # PositionRegistry
//
// PositionRegistry is an interface for byte-offset-to-position conversion,
// bridging script text buffers and source content registries. The primary
// implementation is internal/source.Registry.
//
// # Dependencies
//
// This package depends only on the standard library. It does not import any
// other packages, enabling it to be imported by all other packages without
// cycles.
package location
