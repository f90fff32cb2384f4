package location

import "errors"

// ErrEmptyScriptID describes an empty script identifier.
//
// MustNewScriptID panics with its message; no function returns it.
var ErrEmptyScriptID = errors.New("location: script ID cannot be empty")
