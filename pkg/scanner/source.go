package scanner

import "github.com/lambdapp/lambdapp/pkg/types"

// SourceBuffer owns the raw bytes of one translation unit together with the
// scanner's line cursor. There is exactly one logical cursor per file,
// threaded through every recursive scan invocation; the Line counter is
// mutated only by the scanner as it advances past newlines.
type SourceBuffer struct {
	File string
	Data []byte
	Line int // current 1-based line
}

// NewSourceBuffer wraps raw file bytes for scanning. The file name is only
// used for diagnostics and line markers.
func NewSourceBuffer(file string, data []byte) *SourceBuffer {
	return &SourceBuffer{File: file, Data: data, Line: 1}
}

func (s *SourceBuffer) errorf(format string, args ...any) *types.ParseError {
	return types.Errorf(s.File, s.Line, format, args...)
}
