// Package lexer converts html7 source text into a flat token stream.
//
// Scanning is a state machine over a byte index. At each position the first
// matching rule wins:
//
//  1. `<!--` ... `-->`            html comment
//  2. `/*` ... `*/`               multi-line comment
//  3. `//` ... end of line        single-line comment
//  4. `<name ...>`                open tag (`<name .../>` is self-closing)
//  5. `</name>` or `</>`          close tag
//  6. `<!name ...>`               rule, e.g. `<!DOCTYPE html7>`
//  7. bytes up to `<` or `>`      text
//
// Comments are recognised only where a token starts. Once a text run has
// begun, including one that starts with whitespace, it extends to the next
// `<` or `>` and any `//` or `/*` inside it stays text. A `<` or `>` that
// starts none of the rules is skipped.
package lexer

import (
	"strings"

	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/syntax"
)

const (
	htmlCommentOpen   = "<!--"
	htmlCommentClose  = "-->"
	multiCommentOpen  = "/*"
	multiCommentClose = "*/"
	lineCommentOpen   = "//"
)

// Tokenize scans text into tokens. On failure no tokens are returned.
func Tokenize(text string) ([]syntax.Token, error) {
	text = trimTrailingNewline(text)

	if err := checkUnterminated(text); err != nil {
		return nil, err
	}

	s := &scanner{src: text}
	for s.pos < len(s.src) {
		s.step()
	}
	return s.tokens, nil
}

type scanner struct {
	src    string
	pos    int
	tokens []syntax.Token
}

func (s *scanner) emit(tok syntax.Token) {
	s.tokens = append(s.tokens, tok)
}

func (s *scanner) step() {
	rest := s.src[s.pos:]

	switch {
	case strings.HasPrefix(rest, htmlCommentOpen):
		s.blockComment(htmlCommentOpen, htmlCommentClose, syntax.CommentHTML)
	case strings.HasPrefix(rest, multiCommentOpen):
		s.blockComment(multiCommentOpen, multiCommentClose, syntax.CommentMulti)
	case strings.HasPrefix(rest, lineCommentOpen):
		s.lineComment()
	case rest[0] == '<':
		if !s.tag() {
			s.pos++
		}
	case rest[0] == '>':
		s.pos++
	default:
		s.text()
	}
}

func (s *scanner) blockComment(open, closer string, style syntax.CommentStyle) {
	body := s.src[s.pos+len(open):]
	end := strings.Index(body, closer)
	if end < 0 {
		// checkUnterminated rejects this before scanning starts.
		end = len(body)
		s.pos = len(s.src)
	} else {
		s.pos += len(open) + end + len(closer)
	}
	s.emit(syntax.Token{
		Kind:  syntax.TokenComment,
		Value: strings.TrimSpace(body[:end]),
		Style: style,
	})
}

func (s *scanner) lineComment() {
	body := s.src[s.pos+len(lineCommentOpen):]
	end := strings.IndexByte(body, '\n')
	if end < 0 {
		end = len(body)
		s.pos = len(s.src)
	} else {
		s.pos += len(lineCommentOpen) + end + 1
	}
	s.emit(syntax.Token{
		Kind:  syntax.TokenComment,
		Value: strings.TrimSpace(body[:end]),
		Style: syntax.CommentSingle,
	})
}

// tag scans an open tag, close tag or rule at s.pos. It reports false when
// the `<` starts none of them.
func (s *scanner) tag() bool {
	rest := s.src[s.pos:]
	if len(rest) < 2 {
		return false
	}

	switch rest[1] {
	case '/':
		name := scanName(rest[2:])
		end := 2 + len(name)
		if end >= len(rest) || rest[end] != '>' {
			return false
		}
		s.emit(syntax.Token{Kind: syntax.TokenClose, Name: name})
		s.pos += end + 1
		return true

	case '!':
		name := scanName(rest[2:])
		if name == "" {
			return false
		}
		raw, ok := untilClose(rest[2+len(name):])
		if !ok {
			return false
		}
		s.emit(syntax.Token{
			Kind:       syntax.TokenRule,
			Name:       name,
			Attributes: ParseAttributes(raw),
		})
		s.pos += 2 + len(name) + len(raw) + 1
		return true

	default:
		name := scanName(rest[1:])
		if name == "" {
			return false
		}
		raw, ok := untilClose(rest[1+len(name):])
		if !ok {
			return false
		}
		s.emit(syntax.Token{
			Kind:        syntax.TokenOpen,
			Name:        name,
			Attributes:  ParseAttributes(raw),
			SelfClosing: strings.HasSuffix(raw, "/"),
		})
		s.pos += 1 + len(name) + len(raw) + 1
		return true
	}
}

// text scans a run of character data up to the next `<` or `>`.
func (s *scanner) text() {
	start := s.pos
	if end := strings.IndexAny(s.src[start:], "<>"); end >= 0 {
		s.pos += end
	} else {
		s.pos = len(s.src)
	}

	if value := strings.TrimSpace(s.src[start:s.pos]); value != "" {
		s.emit(syntax.Token{Kind: syntax.TokenText, Value: value})
	}
}

// untilClose returns the bytes before the first '>'.
func untilClose(s string) (string, bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", false
	}
	return s[:end], true
}

func scanName(s string) string {
	i := 0
	for i < len(s) && isTagNameByte(s[i]) {
		i++
	}
	return s[:i]
}

func isTagNameByte(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func trimTrailingNewline(text string) string {
	if strings.HasSuffix(text, "\r\n") {
		return text[:len(text)-2]
	}
	return strings.TrimSuffix(text, "\n")
}

// checkUnterminated reports the first block comment opener without a
// matching terminator after it.
func checkUnterminated(text string) error {
	pos := 0
	for pos < len(text) {
		at, open, closer := nextBlockOpener(text[pos:])
		if at < 0 {
			return nil
		}
		start := pos + at
		bodyStart := start + len(open)
		end := strings.Index(text[bodyStart:], closer)
		if end < 0 {
			return unterminated(text, start)
		}
		pos = bodyStart + end + len(closer)
	}
	return nil
}

func nextBlockOpener(s string) (int, string, string) {
	html := strings.Index(s, htmlCommentOpen)
	multi := strings.Index(s, multiCommentOpen)
	switch {
	case html < 0 && multi < 0:
		return -1, "", ""
	case multi < 0 || (html >= 0 && html < multi):
		return html, htmlCommentOpen, htmlCommentClose
	default:
		return multi, multiCommentOpen, multiCommentClose
	}
}

func unterminated(text string, start int) *diag.Error {
	snippet := text[start:]
	newlines := strings.Count(snippet, "\n")
	return diag.Lexical(snippet, "unterminated comment",
		diag.WithStartLine(strings.Count(text[:start], "\n")+1),
		diag.WithOffset(len(snippet)-1-newlines),
		diag.WithLength(diag.ToEnd),
	)
}
