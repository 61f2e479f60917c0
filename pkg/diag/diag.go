// Package diag defines the html7 compile error and its source-excerpt
// formatter.
package diag

import (
	"fmt"
)

// ToEnd is the Length value meaning "underline to the end of the snippet".
const ToEnd = -1

// Kind classifies compile errors.
type Kind uint8

// Error kinds.
const (
	// KindLexical is reported by the lexer (unterminated comments).
	KindLexical Kind = iota
	// KindStructural is reported by the tree builder and the renderer.
	KindStructural
	// KindUnexpected wraps a recovered panic.
	KindUnexpected
)

// String returns the name printed in front of formatted messages.
func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "LexicalError"
	case KindStructural:
		return "StructuralError"
	case KindUnexpected:
		return "UnexpectedError"
	default:
		return "Error"
	}
}

// Error is a compile failure anchored to a source snippet.
type Error struct {
	Kind    Kind
	Message string
	// Snippet is the offending source excerpt.
	Snippet string
	// Offset is the first underlined byte, counting line contents only.
	Offset int
	// Length is the number of underlined bytes, or ToEnd.
	Length int
	// StartLine is the source line number of the snippet's first line.
	// Zero disables line numbers.
	StartLine int
}

// Option configures an Error.
type Option func(*Error)

// WithOffset sets the caret offset.
func WithOffset(offset int) Option {
	return func(e *Error) { e.Offset = offset }
}

// WithLength sets the caret length.
func WithLength(length int) Option {
	return func(e *Error) { e.Length = length }
}

// WithStartLine enables line numbers starting at line.
func WithStartLine(line int) Option {
	return func(e *Error) { e.StartLine = line }
}

// WithKind sets the error kind.
func WithKind(kind Kind) Option {
	return func(e *Error) { e.Kind = kind }
}

// New returns an error of the given kind. Without options the whole snippet
// is underlined and no line numbers are shown.
func New(kind Kind, snippet, message string, opts ...Option) *Error {
	err := &Error{
		Kind:    kind,
		Message: message,
		Snippet: snippet,
		Length:  ToEnd,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Lexical returns a KindLexical error.
func Lexical(snippet, message string, opts ...Option) *Error {
	return New(KindLexical, snippet, message, opts...)
}

// Structural returns a KindStructural error.
func Structural(snippet, message string, opts ...Option) *Error {
	return New(KindStructural, snippet, message, opts...)
}

// Unexpected converts a recovered panic value into an error.
func Unexpected(recovered any) *Error {
	var message string
	switch v := recovered.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprint(v)
	}
	return New(KindUnexpected, "Unexpected error", message)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Format renders the snippet with caret underlines followed by the message.
func (e *Error) Format() string {
	return e.Report().String()
}

// Format renders snippet and message without constructing an Error first.
// The kind defaults to KindStructural.
func Format(snippet, message string, opts ...Option) string {
	return New(KindStructural, snippet, message, opts...).Format()
}
