package msd

import "fmt"

// ErrorKind classifies parse errors.
type ErrorKind int

const (
	// ErrStrayText reports non-whitespace text outside any #...; block.
	ErrStrayText ErrorKind = iota
	// ErrUnexpectedEOF reports input that ends while a block is still open.
	ErrUnexpectedEOF
)

func (k ErrorKind) String() string {
	switch k {
	case ErrStrayText:
		return "stray text"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	}
	return "unknown"
}

// ParseError is the error type returned by the parser. Any ParseError is
// terminal: once the parser returns one, it returns the same error on
// every subsequent call.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	if e.Pos.File != "" {
		return fmt.Sprintf("%s: line %d, col %d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}
