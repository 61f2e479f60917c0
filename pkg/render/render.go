// Package render serialises an html7 forest into HTML markup and extracts
// the style and script payloads.
package render

import (
	"strings"

	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/syntax"
	"github.com/yaklabco/html7/pkg/tags"
)

// DefaultIndent is the per-level indentation of non-minified output.
const DefaultIndent = "\t"

// dialectToken is rewritten to html in rules such as `<!DOCTYPE html7>`.
const dialectToken = "html7"

// Options controls rendering.
type Options struct {
	// Minify suppresses the newline and indentation before each fragment.
	Minify bool
	// Indent is repeated once per depth level. Empty selects DefaultIndent.
	Indent string
}

type item struct {
	node  *syntax.Node
	depth int
}

type openTag struct {
	tag   string
	depth int
}

// Render walks forest in pre-order and produces the markup and payloads.
// A nil tables value selects tags.Default().
func Render(forest syntax.Syntax, tables *tags.Tables, opts Options) (parsed *syntax.ParsedSyntax, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed = nil
			err = diag.Unexpected(r)
		}
	}()

	if tables == nil {
		tables = tags.Default()
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}

	r := &renderer{opts: opts}

	// pending is a LIFO work list; children are pushed in reverse so they
	// are visited before the remaining siblings.
	pending := make([]item, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		pending = append(pending, item{node: forest[i]})
	}

	for len(pending) > 0 {
		cur := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		r.closeTo(cur.depth)

		node := cur.node
		switch node.Kind {
		case syntax.NodeTag:
			if !tables.Standard.Has(node.Tag) {
				return nil, diag.Structural("<"+node.Tag+">", node.Tag+" is not a valid HTML5 tag")
			}
			switch node.Tag {
			case "style":
				r.css.WriteString(node.FirstText())
				r.css.WriteByte('\n')
				continue
			case "script":
				r.js.WriteString(node.FirstText())
				r.js.WriteByte('\n')
				continue
			}

			fragment := "<" + node.Tag + formatAttributes(node.Attributes, false)
			if node.SelfClosing {
				r.fragment(cur.depth, fragment+" />")
			} else {
				r.fragment(cur.depth, fragment+">")
				r.open = append(r.open, openTag{tag: node.Tag, depth: cur.depth})
			}

			for i := len(node.Children) - 1; i >= 0; i-- {
				pending = append(pending, item{node: node.Children[i], depth: cur.depth + 1})
			}

		case syntax.NodeText:
			r.fragment(cur.depth, node.Value)

		case syntax.NodeRule:
			r.fragment(cur.depth, "<!"+node.Tag+formatAttributes(node.Attributes, true)+">")
		}
	}
	r.closeTo(0)

	out := &syntax.ParsedSyntax{
		RawHTML: strings.TrimSpace(r.html.String()),
	}
	if r.css.Len() > 0 {
		out.RawCSS = strings.TrimSpace("<style>\n" + r.css.String() + "</style>")
	}
	if r.js.Len() > 0 {
		out.RawJS = strings.TrimSpace("<script>\n" + r.js.String() + "</script>")
	}
	return out, nil
}

type renderer struct {
	opts Options
	html strings.Builder
	css  strings.Builder
	js   strings.Builder
	open []openTag
}

// closeTo closes every open tag at depth or deeper.
func (r *renderer) closeTo(depth int) {
	for len(r.open) > 0 && r.open[len(r.open)-1].depth >= depth {
		top := r.open[len(r.open)-1]
		r.open = r.open[:len(r.open)-1]
		r.fragment(top.depth, "</"+top.tag+">")
	}
}

func (r *renderer) fragment(depth int, s string) {
	if !r.opts.Minify {
		r.html.WriteByte('\n')
		r.html.WriteString(strings.Repeat(r.opts.Indent, depth))
	}
	r.html.WriteString(s)
}

// formatAttributes renders attributes in insertion order. In rules the
// first html7 flag becomes html.
func formatAttributes(attrs *syntax.Attributes, rule bool) string {
	var b strings.Builder
	rewritten := false
	for name, value := range attrs.All() {
		b.WriteByte(' ')
		if value.Flag {
			if rule && !rewritten && name == dialectToken {
				name = "html"
				rewritten = true
			}
			b.WriteString(name)
			continue
		}
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(value.Text)
		b.WriteByte('"')
	}
	return b.String()
}
