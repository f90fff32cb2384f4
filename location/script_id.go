package location

// ScriptID identifies a script uniquely within a build.
//
// Scripts in this engine are in-memory text buffers (§4.1), not files on
// disk: a script is opened from an editor buffer, created inline for a
// test fixture, or loaded from an embedded descriptor, and it has no
// independent existence once its owning session drops it. A ScriptID is
// therefore an opaque caller-chosen identifier, not a canonicalized
// filesystem path — there is no symlink resolution, NFC normalization, or
// drive-letter handling to perform, because there is no filesystem lookup
// behind it.
//
// For scripts opened through the language server, the identifier is the
// document's URI exactly as the client sent it (e.g.
// "file:///home/alice/query.sql"); the workspace already treats that URI
// as the unique key for the open document, so ScriptID does not need to
// re-derive or canonicalize it. For scripts created programmatically or in
// tests, the identifier is any caller-chosen string, conventionally a
// scheme-prefixed name such as "inline:fixture" or "test://unit/query.sql".
//
// ScriptID is a value type with an unexported field. Always pass by value.
// The zero value is invalid; use IsZero() to check.
//
// ScriptID is comparable and safe for use as map keys. Equality is
// structural (string comparison).
type ScriptID struct {
	id string
}

// NewScriptID creates a ScriptID from an identifier.
//
// WARNING: Prefer [MustNewScriptID] for new code. NewScriptID bypasses
// validation: an empty string produces a zero-value ScriptID (IsZero()
// returns true), which is invalid and may cause map key anomalies.
//
// NewScriptID is appropriate for internal use where the identifier is
// known-valid at compile time (e.g., string literals in test code).
func NewScriptID(identifier string) ScriptID {
	return ScriptID{id: identifier}
}

// MustNewScriptID creates a ScriptID, panicking if identifier is empty.
//
// Use in application code, tests, and high-level APIs where an empty
// identifier would indicate a caller bug.
func MustNewScriptID(identifier string) ScriptID {
	if identifier == "" {
		panic("location.MustNewScriptID: " + ErrEmptyScriptID.Error())
	}
	return ScriptID{id: identifier}
}

// String returns the underlying identifier: a document URI for
// editor-backed scripts, or the caller-chosen synthetic identifier
// otherwise.
func (s ScriptID) String() string {
	return s.id
}

// IsZero reports whether this is a zero-value ScriptID.
// The zero value is invalid and should not be used.
func (s ScriptID) IsZero() bool {
	return s.id == ""
}
