package types

import "fmt"

// ParseError is a structural failure found while scanning a source file.
// The whole transform for that file is abandoned; no output is produced.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d error: %s", e.File, e.Line, e.Message)
}

// Errorf builds a ParseError with a formatted message.
func Errorf(file string, line int, format string, args ...any) *ParseError {
	return &ParseError{File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}
