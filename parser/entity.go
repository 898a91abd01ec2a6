package parser

import (
	"bytes"

	"golang.org/x/net/html"
)

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isDigit(c byte, hex bool) bool {
	return '0' <= c && c <= '9' || hex && ('a' <= c && c <= 'f' || 'A' <= c && c <= 'F')
}

// unescapeText decodes character references in text content. Legacy named references without
// a semicolon are matched by their longest prefix.
func unescapeText(b []byte) []byte {
	if bytes.IndexByte(b, '&') == -1 {
		return b
	}
	return []byte(html.UnescapeString(string(b)))
}

// unescapeAttr decodes character references in attribute values. A named reference is only
// decoded when it matches as a whole, and references without a semicolon that are followed
// by = are kept as written.
func unescapeAttr(b []byte) []byte {
	i := bytes.IndexByte(b, '&')
	if i == -1 {
		return b
	}

	out := make([]byte, 0, len(b))
	for i != -1 {
		out = append(out, b[:i]...)
		b = b[i:]
		n, ok := attrReference(b)
		if ok {
			out = append(out, html.UnescapeString(string(b[:n]))...)
		} else {
			out = append(out, b[:n]...)
		}
		b = b[n:]
		i = bytes.IndexByte(b, '&')
	}
	return append(out, b...)
}

// attrReference returns the length of the character reference at the start of b, which starts
// with &, and whether it is decoded inside an attribute value.
func attrReference(b []byte) (int, bool) {
	n := 1
	if 1 < len(b) && b[1] == '#' {
		n++
		hex := false
		if n < len(b) && (b[n] == 'x' || b[n] == 'X') {
			hex = true
			n++
		}
		start := n
		for n < len(b) && isDigit(b[n], hex) {
			n++
		}
		if n == start {
			return 1, false
		}
		if n < len(b) && b[n] == ';' {
			n++
		}
		return n, true
	}

	for n < len(b) && isAlnum(b[n]) {
		n++
	}
	if n == 1 {
		return 1, false
	}
	last := b[n-1]
	if n < len(b) && b[n] == ';' {
		n++
		// a partial match decodes a prefix and leaves the remainder as written
		dec := html.UnescapeString(string(b[:n]))
		partial := 2 <= len(dec) && dec[len(dec)-2] == last && dec[len(dec)-1] == ';'
		return n, !partial
	} else if n < len(b) && b[n] == '=' {
		return n, false
	}
	dec := html.UnescapeString(string(b[:n]))
	return n, !isAlnum(dec[len(dec)-1])
}

// IsTextReference returns true if b, which starts with &, starts with a character reference
// that is decoded in text.
func IsTextReference(b []byte) bool {
	n := 1
	if 1 < len(b) && b[1] == '#' {
		n++
		if n < len(b) && (b[n] == 'x' || b[n] == 'X') {
			n++
		}
	}
	for n < len(b) && isAlnum(b[n]) {
		n++
	}
	if n < len(b) && b[n] == ';' {
		n++
	}
	return html.UnescapeString(string(b[:n])) != string(b[:n])
}

// IsAttrReference returns true if b, which starts with &, starts with a character reference
// that is decoded in an attribute value.
func IsAttrReference(b []byte) bool {
	_, ok := attrReference(b)
	return ok
}
