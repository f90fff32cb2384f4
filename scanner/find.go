package scanner

import "sort"

// FindSymbol maps a byte offset to the last symbol whose location begins at
// or before the offset, via a chunk-granular linear scan followed by binary
// search within the chunk. Offsets past the end of the user text are
// clamped to TextLen (the user text length, which excludes the sentinel
// bytes) so callers never see the sentinel bytes reflected in a result.
func (s *ScannedScript) FindSymbol(offset int) LocationInfo {
	clamped := offset
	maxOffset := s.TextLen
	if clamped > maxOffset {
		clamped = maxOffset
	}
	if clamped < 0 {
		clamped = 0
	}

	atEOF := clamped >= maxOffset
	n := len(s.Symbols)
	if n == 0 {
		return LocationInfo{SymbolIndex: -1, Relative: NewSymbolBefore, AtEOF: atEOF}
	}

	// Coarse chunk scan: find the chunk whose first symbol offset is the
	// last one <= clamped, then binary search within it.
	chunkStart := 0
	for chunkStart+chunkSize < n && s.Symbols[chunkStart+chunkSize].Offset <= clamped {
		chunkStart += chunkSize
	}
	chunkEnd := chunkStart + chunkSize
	if chunkEnd > n {
		chunkEnd = n
	}
	window := s.Symbols[chunkStart:chunkEnd]

	idx := sort.Search(len(window), func(i int) bool {
		return window[i].Offset > clamped
	})
	// idx is the first symbol strictly after clamped; the match is idx-1,
	// unless that's before the start of the stream.
	var matchIdx int
	if idx == 0 {
		matchIdx = chunkStart
	} else {
		matchIdx = chunkStart + idx - 1
	}
	if matchIdx >= n {
		matchIdx = n - 1
	}

	sym := s.Symbols[matchIdx]
	var rel RelativePosition
	switch {
	case clamped < sym.Offset:
		rel = NewSymbolBefore
	case clamped == sym.Offset:
		rel = BeginOfSymbol
	case clamped == sym.End():
		rel = EndOfSymbol
	case clamped < sym.End():
		rel = MidOfSymbol
	default:
		rel = NewSymbolAfter
	}

	return LocationInfo{
		SymbolIndex: matchIdx,
		Symbol:      sym,
		Relative:    rel,
		AtEOF:       atEOF,
	}
}

// ReadTextAtLocation returns the user-text slice covered by [offset, offset+length).
func (s *ScannedScript) ReadTextAtLocation(offset, length int) string {
	if offset < 0 || offset+length > s.TextLen {
		return ""
	}
	return string(s.Text[offset : offset+length])
}
