// Package syntax defines the data model shared by the html7 compiler stages:
// lexer tokens, attribute maps, forest nodes and the rendered payloads.
package syntax
