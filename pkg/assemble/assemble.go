// Package assemble injects the extracted payloads and auxiliary snippets
// into rendered html7 markup to produce the final document.
package assemble

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/html7/pkg/fsutil"
	"github.com/yaklabco/html7/pkg/syntax"
)

// Credits is the comment placed in front of the <html> element.
const Credits = "<!--' Created with HTML7: https://github.com/MaksymIgnatiev/html7 '-->"

// Markers used in html-add files to keep a line in one output mode only.
const (
	minifyMarker    = "%%minify:"
	noMinifyMarker  = "%%!minify:"
	closingHead     = "</head>"
	closingBody     = "</body>"
	bodyElementName = "body"
	htmlElementName = "html"
)

// Options controls assembly.
type Options struct {
	Minify bool
	// Credits places the Credits comment before <html>.
	Credits bool
	// HTMLAdd is the prepared html-add snippet (see PrepareHTMLAdd). It is
	// inserted only when the document carries an extended script payload.
	HTMLAdd string
}

// Assemble builds parsed.OutHTML from parsed.RawHTML and the payloads.
func Assemble(parsed *syntax.ParsedSyntax, opts Options) {
	out := parsed.RawHTML

	indent := ""
	if !opts.Minify {
		indent = DetectIndent(out)
	}

	if parsed.ExtendedJS != "" && opts.HTMLAdd != "" {
		out = InsertBefore(out, closingBody, opts.HTMLAdd, indent, opts.Minify)
	}
	if parsed.RawJS != "" {
		out = InsertBefore(out, closingBody, parsed.RawJS, indent, opts.Minify)
	}
	if parsed.RawCSS != "" {
		out = InsertBefore(out, closingHead, parsed.RawCSS, indent, opts.Minify)
	}
	if opts.Credits {
		if at := openTagIndex(out, htmlElementName); at >= 0 {
			out = insertAt(out, at, Credits, "", opts.Minify)
		}
	}

	parsed.OutHTML = out
}

// LoadHTMLAdd reads the html-add file. A missing file yields "".
func LoadHTMLAdd(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := fsutil.ReadOptional(ctx, path)
	if err != nil {
		return "", fmt.Errorf("load html-add: %w", err)
	}
	return string(content), nil
}

// PrepareHTMLAdd applies the mode markers of an html-add snippet.
//
// In minify mode `%%minify:` markers are dropped and everything from a
// `%%!minify:` marker to the end of its line is removed; otherwise the roles
// are swapped. Minify mode finally strips tabs and newlines.
func PrepareHTMLAdd(text string, minify bool) string {
	text = strings.TrimSuffix(text, "\n")

	keep, drop := noMinifyMarker, minifyMarker
	if minify {
		keep, drop = minifyMarker, noMinifyMarker
	}

	text = removeMarkedLines(text, drop)
	text = strings.ReplaceAll(text, keep, "")

	if minify {
		text = strings.NewReplacer("\t", "", "\n", "").Replace(text)
	}
	return text
}

// removeMarkedLines removes every marker together with the rest of its line
// and the line's newline.
func removeMarkedLines(text, marker string) string {
	var b strings.Builder
	for {
		at := strings.Index(text, marker)
		if at < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:at])
		rest := text[at:]
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return b.String()
		}
		text = rest[nl+1:]
	}
}

// DetectIndent returns the indentation of the first element inside <body>,
// or "" when the body does not start with an indented element.
func DetectIndent(html string) string {
	at := openTagIndex(html, bodyElementName)
	if at < 0 {
		return ""
	}
	end := strings.IndexByte(html[at:], '>')
	if end < 0 {
		return ""
	}
	rest := html[at+end+1:]

	ws := len(rest) - len(strings.TrimLeft(rest, " \t\r\n"))
	if ws == 0 || ws == len(rest) || rest[ws] != '<' {
		return ""
	}
	return rest[1:ws]
}

// InsertBefore inserts snippet before the first occurrence of anchor. In
// minify mode the snippet is inserted verbatim; otherwise each snippet line
// is prefixed with indent and placed on its own line above the anchor's
// line. Without an occurrence html is returned unchanged.
func InsertBefore(html, anchor, snippet, indent string, minify bool) string {
	at := strings.Index(html, anchor)
	if at < 0 {
		return html
	}
	return insertAt(html, at, snippet, indent, minify)
}

func insertAt(html string, at int, snippet, indent string, minify bool) string {
	if minify {
		return html[:at] + snippet + html[at:]
	}

	lineStart := strings.LastIndexByte(html[:at], '\n') + 1

	var b strings.Builder
	b.Grow(len(html) + len(snippet) + 16)
	b.WriteString(html[:lineStart])
	for _, line := range strings.Split(snippet, "\n") {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(html[lineStart:])
	return b.String()
}

// openTagIndex finds `<name>` or `<name ` and returns the index of '<'.
func openTagIndex(html, name string) int {
	prefix := "<" + name
	offset := 0
	for {
		at := strings.Index(html[offset:], prefix)
		if at < 0 {
			return -1
		}
		at += offset
		next := at + len(prefix)
		if next < len(html) && (html[next] == '>' || html[next] == ' ') {
			return at
		}
		offset = next
	}
}
