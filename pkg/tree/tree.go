// Package tree assembles lexer tokens into an html7 forest.
package tree

import (
	"strconv"

	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/syntax"
	"github.com/yaklabco/html7/pkg/tags"
)

// Options controls tree construction.
type Options struct {
	// AllowOptionalSelfClosing accepts `<name/>` for tags in the optional
	// self-closing table.
	AllowOptionalSelfClosing bool
}

// Build nests tokens into a forest. Comment tokens are dropped. A nil tables
// value selects tags.Default().
func Build(tokens []syntax.Token, tables *tags.Tables, opts Options) (forest syntax.Syntax, err error) {
	defer func() {
		if r := recover(); r != nil {
			forest = nil
			err = diag.Unexpected(r)
		}
	}()

	if tables == nil {
		tables = tags.Default()
	}

	b := &builder{tables: tables, opts: opts}
	for _, tok := range tokens {
		if err := b.consume(tok); err != nil {
			return nil, err
		}
	}

	if top := b.top(); top != nil {
		return nil, diag.Structural("<"+top.Tag+">", "Unclosed tag: <"+top.Tag+">")
	}
	return b.forest, nil
}

// builder keeps one frame per open tag. The top frame receives new nodes.
type builder struct {
	tables *tags.Tables
	opts   Options
	forest syntax.Syntax
	stack  []*syntax.Node
}

func (b *builder) top() *syntax.Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) append(n *syntax.Node) {
	if top := b.top(); top != nil {
		top.AppendChild(n)
		return
	}
	b.forest = append(b.forest, n)
}

func (b *builder) consume(tok syntax.Token) error {
	switch tok.Kind {
	case syntax.TokenOpen:
		return b.open(tok)
	case syntax.TokenClose:
		return b.close(tok)
	case syntax.TokenText:
		if b.top() == nil {
			return diag.Structural(tok.Value, "Text outside of root element")
		}
		b.append(syntax.NewText(tok.Value))
	case syntax.TokenRule:
		b.append(syntax.NewRule(tok.Name, tok.Attributes))
	case syntax.TokenComment:
	default:
		panic("unknown token kind " + strconv.Itoa(int(tok.Kind)))
	}
	return nil
}

func (b *builder) open(tok syntax.Token) error {
	mandatory := b.tables.SelfClosing.Has(tok.Name)
	if mandatory && !tok.SelfClosing {
		return diag.Structural("<"+tok.Name+">", tok.Name+" is a selfclosing tag")
	}
	if !mandatory && tok.SelfClosing && !b.optionalAllowed(tok.Name) {
		return diag.Structural("<"+tok.Name+">", tok.Name+" is not a selfclosing tag")
	}

	node := syntax.NewTag(tok.Name, tok.Attributes, tok.SelfClosing)
	b.append(node)
	if !tok.SelfClosing {
		b.stack = append(b.stack, node)
	}
	return nil
}

func (b *builder) optionalAllowed(name string) bool {
	return b.opts.AllowOptionalSelfClosing && b.tables.OptionalSelfClosing.Has(name)
}

func (b *builder) close(tok syntax.Token) error {
	top := b.top()
	if top == nil || (tok.Name != "" && tok.Name != top.Tag) {
		return diag.Structural("</"+tok.Name+">", "Mismatched closing tag: </"+tok.Name+">")
	}
	b.stack = b.stack[:len(b.stack)-1]
	return nil
}
