package rule

import (
	"github.com/tdewolff/minhtml/parser"
	"github.com/tdewolff/parse/v2"
)

var (
	ltEntityBytes    = []byte("&lt;")
	ampEntityBytes   = []byte("&amp")
	ampSemicolon     = []byte("&amp;")
	braceEntityBytes = []byte("&#123;")
)

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// escapeText appends the text to buf with the least escaping that reads back to the same text.
// Only a < that starts markup and an & that starts a character reference need escaping. In
// RCDATA only the end tag of the element needs escaping. The byte written after the text is
// given by after, or zero at the end of the output.
func (m *minifier) escapeText(buf, b, rcdata []byte, after byte) []byte {
	start := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		next := after
		if i+1 < len(b) {
			next = b[i+1]
		}

		var escaped []byte
		switch c {
		case '<':
			if next == '%' && m.c.PreserveChevronPercentTemplateSyntax {
				escaped = ltEntityBytes
			} else if rcdata != nil {
				if next == '/' && i+2 <= len(b) && isEndTag(b[i+2:], rcdata) {
					escaped = ltEntityBytes
				}
			} else if next == '/' || isLetter(next) || next == '!' || next == '?' {
				escaped = ltEntityBytes
			}
		case '&':
			if parser.IsTextReference(b[i:]) {
				escaped = ampEntityBytes
				if next == ';' {
					escaped = ampSemicolon
				}
			}
		case '{':
			if m.c.PreserveBraceTemplateSyntax && (next == '{' || next == '%' || next == '#') {
				escaped = braceEntityBytes
			}
		}
		if escaped != nil {
			buf = append(buf, b[start:i]...)
			buf = append(buf, escaped...)
			start = i + 1
		}
	}
	return append(buf, b[start:]...)
}

// isEndTag returns true if b starts with the name, case-insensitive, followed by whitespace,
// / or >. The end of the text is followed by a < or the end of the output, which don't end
// the name.
func isEndTag(b, name []byte) bool {
	if len(b) <= len(name) || !parse.EqualFold(b[:len(name)], name) {
		return false
	}
	c := b[len(name)]
	return parse.IsWhitespace(c) || c == '/' || c == '>'
}
