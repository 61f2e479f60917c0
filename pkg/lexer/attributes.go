package lexer

import (
	"strings"

	"github.com/yaklabco/html7/pkg/syntax"
)

// ParseAttributes parses the raw text between a tag name and its closing
// `>`. It recognises `name`, `name="v"`, `name='v'` and `name=bare`, with
// optional whitespace around `=`. Names and bare values are made of ASCII
// letters, digits and `-`. Bytes that start no attribute are skipped.
//
// A name without a valid value is stored as a flag. A repeated name keeps
// its first position and takes the last value.
func ParseAttributes(raw string) *syntax.Attributes {
	attrs := syntax.NewAttributes()

	for i := 0; i < len(raw); {
		if !isAttrByte(raw[i]) {
			i++
			continue
		}

		start := i
		for i < len(raw) && isAttrByte(raw[i]) {
			i++
		}
		name := raw[start:i]

		value, next, ok := scanValue(raw, i)
		if !ok {
			attrs.Set(name, syntax.Flag())
			continue
		}
		attrs.Set(name, syntax.String(value))
		i = next
	}

	return attrs
}

// scanValue parses `= value` starting at i. It returns the value and the
// index just past it.
func scanValue(raw string, i int) (string, int, bool) {
	j := skipSpaces(raw, i)
	if j >= len(raw) || raw[j] != '=' {
		return "", i, false
	}
	j = skipSpaces(raw, j+1)
	if j >= len(raw) {
		return "", i, false
	}

	switch quote := raw[j]; quote {
	case '"', '\'':
		end := strings.IndexByte(raw[j+1:], quote)
		if end < 0 {
			return "", i, false
		}
		return raw[j+1 : j+1+end], j + end + 2, true
	default:
		k := j
		for k < len(raw) && isAttrByte(raw[k]) {
			k++
		}
		if k == j {
			return "", i, false
		}
		return raw[j:k], k, true
	}
}

func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isAttrByte(c byte) bool {
	return isAlnum(c) || c == '-'
}
