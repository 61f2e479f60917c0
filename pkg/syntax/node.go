package syntax

// NodeKind identifies the kind of a forest node.
type NodeKind uint8

// Node kinds.
const (
	NodeTag NodeKind = iota
	NodeRule
	NodeText
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeTag:
		return "tag"
	case NodeRule:
		return "rule"
	case NodeText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is an element of the html7 forest.
//
// Tag nodes own Children; rule and text nodes are leaves. Self-closing tags
// never have children.
type Node struct {
	Kind        NodeKind
	Tag         string
	Value       string
	Attributes  *Attributes
	SelfClosing bool
	Children    []*Node
}

// NewTag returns a tag node.
func NewTag(name string, attrs *Attributes, selfClosing bool) *Node {
	return &Node{Kind: NodeTag, Tag: name, Attributes: attrs, SelfClosing: selfClosing}
}

// NewRule returns a directive node such as `<!DOCTYPE html7>`.
func NewRule(name string, attrs *Attributes) *Node {
	return &Node{Kind: NodeRule, Tag: name, Attributes: attrs}
}

// NewText returns a character data node.
func NewText(value string) *Node {
	return &Node{Kind: NodeText, Value: value}
}

// AppendChild adds child to n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// FirstText returns the value of n's first child when it is a text node.
func (n *Node) FirstText() string {
	if len(n.Children) == 0 || n.Children[0].Kind != NodeText {
		return ""
	}
	return n.Children[0].Value
}

// Syntax is the top-level forest produced by the tree builder.
type Syntax []*Node

// ParsedSyntax is the output of a compile: the markup and the extracted
// style and script payloads.
type ParsedSyntax struct {
	// RawHTML is the rendered markup without injected payloads.
	RawHTML string
	// RawCSS is the style payload wrapped in a <style> element, or empty.
	RawCSS string
	// RawJS is the script payload wrapped in a <script> element, or empty.
	RawJS string
	// ExtendedJS is reserved for runtime extensions. The core leaves it empty.
	ExtendedJS string
	// OutHTML is the final document after assembly.
	OutHTML string
}
