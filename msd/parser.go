package msd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

type state int

const (
	stateOutside state = iota
	stateKey
	stateValue
	stateComment
	stateEscape
)

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithFile sets the file name reported in positions and error messages.
func WithFile(name string) Option {
	return func(p *Parser) {
		p.pos.File = name
	}
}

// WithoutEscapes disables backslash escapes: '\' becomes an ordinary
// literal character and ':' and ';' always act as separators.
func WithoutEscapes() Option {
	return func(p *Parser) {
		p.escapes = false
	}
}

// IgnoreStrayText makes the parser silently discard non-whitespace text
// found outside a #...; block instead of failing on it.
func IgnoreStrayText() Option {
	return func(p *Parser) {
		p.ignoreStray = true
	}
}

// Parser reads MSD parameters from a stream.
//
// The parser consumes the reader strictly forward, one character at a
// time, and never buffers more than bufio's window. It is a single
// resumable state machine: each call to Next picks up exactly where the
// previous call stopped, whether that was mid-block or mid-comment.
// A Parser is not safe for concurrent use and cannot be reused after
// its input is exhausted or an error is returned.
type Parser struct {
	escapes     bool
	ignoreStray bool

	r        *bufio.Reader
	pos      Position // position of the next unread character
	state    state
	returnTo state // state to resume after a comment or escape

	buf        strings.Builder // component being accumulated
	components []string        // finished components of the open block
	blockPos   Position        // position of the open block's '#'

	lastKey    string
	hasEmitted bool

	err error // terminal error, io.EOF included
}

// NewParser creates a Parser reading MSD text from r.
// By default escapes are enabled and stray text is a fatal error,
// matching the modern simfile dialect.
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		escapes: true,
		r:       bufio.NewReader(r),
		pos:     Position{Line: 1, Column: 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads r to exhaustion and returns all parameters.
func Parse(r io.Reader, opts ...Option) ([]Parameter, error) {
	return NewParser(r, opts...).ReadAll()
}

// Next returns the next parameter in the stream.
//
// At the end of well-formed input Next returns io.EOF. Any other error
// is a *ParseError or an I/O error from the underlying reader; after
// one is returned, every later call returns that same error.
func (p *Parser) Next() (Parameter, error) {
	if p.err != nil {
		return Parameter{}, p.err
	}
	for {
		ch, at, err := p.read()
		if err == io.EOF {
			return p.finish()
		}
		if err != nil {
			p.err = err
			return Parameter{}, err
		}
		param, emitted, err := p.step(ch, at)
		if err != nil {
			p.err = err
			return Parameter{}, err
		}
		if emitted {
			return param, nil
		}
	}
}

// ReadAll drains the parser and returns the remaining parameters.
// A clean end of input is not an error.
func (p *Parser) ReadAll() ([]Parameter, error) {
	var params []Parameter
	for {
		param, err := p.Next()
		if err == io.EOF {
			return params, nil
		}
		if err != nil {
			return params, err
		}
		params = append(params, param)
	}
}

// read consumes one rune and advances the position bookkeeping.
// The returned position is that of the rune itself.
func (p *Parser) read() (rune, Position, error) {
	ch, size, err := p.r.ReadRune()
	if err != nil {
		return 0, p.pos, err
	}
	at := p.pos
	p.pos.Offset += size
	if ch == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
	return ch, at, nil
}

// step feeds one character to the state machine. It reports whether a
// parameter was completed by this character.
func (p *Parser) step(ch rune, at Position) (Parameter, bool, error) {
	switch p.state {
	case stateComment:
		// Comment text never reaches a buffer, and neither does the
		// newline that ends the comment. A bare '\r' is comment text.
		if ch == '\n' {
			p.state = p.returnTo
		}

	case stateEscape:
		// Exactly one character taken literally, then back to where
		// the backslash appeared.
		p.buf.WriteRune(ch)
		p.state = p.returnTo

	case stateOutside:
		switch {
		case ch == '#':
			p.state = stateKey
			p.blockPos = at
			p.buf.Reset()
			p.components = p.components[:0]
		case ch == '/':
			comment, err := p.enterComment(stateOutside)
			if err != nil {
				return Parameter{}, false, err
			}
			if !comment {
				return Parameter{}, false, p.stray(ch, at)
			}
		case ch == '\uFEFF' || unicode.IsSpace(ch):
			// Blank lines and a BOM between blocks are always fine.
		default:
			return Parameter{}, false, p.stray(ch, at)
		}

	case stateKey, stateValue:
		switch {
		case ch == '\\' && p.escapes:
			p.returnTo = p.state
			p.state = stateEscape
		case ch == '/':
			comment, err := p.enterComment(p.state)
			if err != nil {
				return Parameter{}, false, err
			}
			if !comment {
				p.buf.WriteRune(ch)
			}
		case ch == ':':
			p.components = append(p.components, p.buf.String())
			p.buf.Reset()
			p.state = stateValue
		case ch == ';':
			return p.emit(), true, nil
		default:
			p.buf.WriteRune(ch)
		}
	}
	return Parameter{}, false, nil
}

// enterComment checks whether a '/' that was just consumed opens a '//'
// comment. If it does, the second slash is consumed and the machine
// switches to the comment state, remembering where to resume.
func (p *Parser) enterComment(from state) (bool, error) {
	ch, _, err := p.r.ReadRune()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if ch != '/' {
		// Cannot fail directly after a successful ReadRune.
		_ = p.r.UnreadRune()
		return false, nil
	}
	p.pos.Offset++
	p.pos.Column++
	p.returnTo = from
	p.state = stateComment
	return true, nil
}

// emit closes the open block and resets per-block state.
func (p *Parser) emit() Parameter {
	p.components = append(p.components, p.buf.String())
	param := Parameter{
		Components: append([]string(nil), p.components...),
		Pos:        p.blockPos,
	}
	p.lastKey = p.components[0]
	p.hasEmitted = true
	p.buf.Reset()
	p.components = p.components[:0]
	p.state = stateOutside
	return param
}

// stray builds the error for non-whitespace text outside a block, or
// nil when stray text is being ignored.
func (p *Parser) stray(ch rune, at Position) error {
	if p.ignoreStray {
		return nil
	}
	context := "at start of document"
	if p.hasEmitted {
		context = fmt.Sprintf("after '%s' parameter", p.lastKey)
	}
	return &ParseError{
		Kind:    ErrStrayText,
		Message: fmt.Sprintf("stray %q encountered %s", ch, context),
		Pos:     at,
	}
}

// finish handles end of input. A comment running to the end of input is
// harmless as such, but a block left open without its ';' is an error
// even when the input ends inside that comment.
func (p *Parser) finish() (Parameter, error) {
	resumed := p.state
	if resumed == stateComment {
		resumed = p.returnTo
	}
	if resumed == stateOutside {
		p.err = io.EOF
		return Parameter{}, io.EOF
	}
	p.err = &ParseError{
		Kind:    ErrUnexpectedEOF,
		Message: fmt.Sprintf("unexpected end of input: parameter opened at line %d has no ';'", p.blockPos.Line),
		Pos:     p.pos,
	}
	return Parameter{}, p.err
}
