package syntax

// TokenKind identifies the kind of a lexer token.
type TokenKind uint8

// Token kinds.
const (
	TokenComment TokenKind = iota
	TokenOpen
	TokenClose
	TokenRule
	TokenText
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenComment:
		return "comment"
	case TokenOpen:
		return "open"
	case TokenClose:
		return "close"
	case TokenRule:
		return "rule"
	case TokenText:
		return "text"
	default:
		return "unknown"
	}
}

// CommentStyle records which comment syntax produced a comment token.
type CommentStyle uint8

// Comment styles.
const (
	// CommentHTML is a `<!-- ... -->` comment.
	CommentHTML CommentStyle = iota
	// CommentMulti is a `/* ... */` comment.
	CommentMulti
	// CommentSingle is a `// ...` comment running to the end of the line.
	CommentSingle
)

// String returns the comment style name.
func (s CommentStyle) String() string {
	switch s {
	case CommentHTML:
		return "html"
	case CommentMulti:
		return "html7:multi"
	case CommentSingle:
		return "html7:single"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of html7 source.
//
// Which fields are meaningful depends on Kind:
//   - comment: Value, Style
//   - open: Name, Attributes, SelfClosing
//   - close: Name (empty for the anonymous `</>`)
//   - rule: Name, Attributes
//   - text: Value
type Token struct {
	Kind        TokenKind
	Name        string
	Value       string
	Style       CommentStyle
	Attributes  *Attributes
	SelfClosing bool
}
