package parser

import (
	"errors"
	"fmt"
)

// SyntaxError is the single fault a parse reports for malformed input.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
	// AtEOF is set when the parse ran out of input.
	AtEOF bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("(%d,%d): %s", e.Line, e.Column, e.Message)
}

// InternalError signals a mismatch between the token kinds and the
// operator tables. Well-formed input never triggers it.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal parser error: " + e.Message
}

// bailout carries a fault from the point of detection up to Parse.
type bailout struct {
	err error
}

func raise(err error) {
	panic(bailout{err: err})
}

func syntaxErrorAt(tok Token, msg string) {
	raise(&SyntaxError{
		File:    tok.Pos.File,
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
		Message: msg + " near " + nearText(tok),
		AtEOF:   tok.Kind == TokenEOF,
	})
}

// IsIncomplete reports whether err means the input ended before a construct
// was closed, so that more input could make it parse.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.AtEOF
}

func internalError(format string, args ...any) {
	raise(&InternalError{Message: fmt.Sprintf(format, args...)})
}

func nearText(tok Token) string {
	if tok.Kind == TokenEOF {
		return "<eof>"
	}
	return "'" + tok.Literal + "'"
}

// recoverFault turns a bailout panic into err. Any other panic is re-raised.
func recoverFault(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if b, ok := r.(bailout); ok {
		*err = b.err
		return
	}
	panic(r)
}
