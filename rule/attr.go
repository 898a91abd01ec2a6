package rule

import (
	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/minhtml/parser"
	"github.com/tdewolff/minhtml/table"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"
)

var (
	escapedSingleQuoteBytes = []byte("&#39;")
	escapedDoubleQuoteBytes = []byte("&#34;")
	inlineStyleMediatype    = "text/css;inline=1"
)

// attrs writes the attributes of a start tag and returns whether the last value was written
// unquoted.
func (m *minifier) attrs(e *ast.Element) bool {
	html := e.Namespace == ast.HTML
	quoted := false
	unquoted := false
	for _, attr := range e.Attrs {
		if attr.Template {
			m.w.Write(spaceBytes)
			if len(attr.Name) != 0 {
				m.w.Write(attr.Name)
				m.w.Write(isBytes)
			}
			m.w.Write(attr.Raw)
			quoted, unquoted = false, false
			continue
		}

		val := attr.Value
		if html {
			var ok bool
			if val, ok = m.attrValue(e, attr.Name, val); !ok {
				continue
			}
		}

		if !quoted || m.c.KeepSpacesBetweenAttributes {
			m.w.Write(spaceBytes)
		}
		m.w.Write(attr.Name)
		if len(val) == 0 || html && table.IsBooleanAttr(attr.Name) {
			quoted, unquoted = false, false
			continue
		}
		m.w.Write(isBytes)
		m.attrBuffer = escapeAttrVal(m.attrBuffer[:0], val, m.c.EnsureSpecCompliantUnquotedAttributeValues)
		m.w.Write(m.attrBuffer)
		quoted = m.attrBuffer[0] == '"' || m.attrBuffer[0] == '\''
		unquoted = !quoted
	}
	return unquoted
}

// attrValue returns the value to write for an HTML attribute, or false if it is removed.
func (m *minifier) attrValue(e *ast.Element, name, val []byte) ([]byte, bool) {
	switch string(name) {
	case "class":
		val = parse.TrimWhitespace(collapse(val))
		return val, len(val) != 0
	case "style":
		val = parse.TrimWhitespace(val)
		if len(val) == 0 {
			return nil, false
		} else if m.c.MinifyCSS && m.d != nil {
			val = m.delegate(inlineStyleMediatype, val)
			return val, len(val) != 0
		}
		return val, true
	case "type":
		if string(e.Name) == "script" {
			return val, !table.IsJSType(val)
		} else if string(e.Name) == "input" && m.c.KeepInputTypeTextAttr {
			return val, true
		}
	}
	return val, !table.IsDefaultAttr(e.Name, name, val)
}

// escapeAttrVal appends the shortest representation of the attribute value to buf: unquoted if
// possible, else quoted by the quote that occurs least often in the value.
func escapeAttrVal(buf, b []byte, specCompliant bool) []byte {
	singles := 0
	doubles := 0
	unquoted := len(b) != 0 && b[0] != '"' && b[0] != '\''
	for _, c := range b {
		if c == '"' {
			doubles++
		} else if c == '\'' {
			singles++
		} else if c == '>' || parse.IsWhitespace(c) {
			unquoted = false
		} else if specCompliant && (c == '`' || c == '<' || c == '=') {
			unquoted = false
		}
	}
	if specCompliant && (0 < singles || 0 < doubles) {
		unquoted = false
	}

	var quote byte
	var escapedQuote []byte
	if !unquoted {
		if doubles > singles {
			quote = '\''
			escapedQuote = escapedSingleQuoteBytes
		} else {
			quote = '"'
			escapedQuote = escapedDoubleQuoteBytes
		}
		buf = append(buf, quote)
	}

	start := 0
	for i, c := range b {
		var escaped []byte
		if c == '&' {
			if parser.IsAttrReference(b[i:]) {
				escaped = ampSemicolon
			}
		} else if c == quote && !unquoted {
			escaped = escapedQuote
		}
		if escaped != nil {
			buf = append(buf, b[start:i]...)
			buf = append(buf, escaped...)
			start = i + 1
		}
	}
	buf = append(buf, b[start:]...)
	if !unquoted {
		buf = append(buf, quote)
	}
	return buf
}

// delegate minifies embedded code with the delegate minifier. The original is returned if the
// delegate fails or its result is longer.
func (m *minifier) delegate(mediatype string, code []byte) []byte {
	w := buffer.NewWriter(make([]byte, 0, len(code)))
	if err := m.d.Minify(mediatype, w, buffer.NewReader(code)); err != nil || len(code) < w.Len() {
		return code
	}
	return w.Bytes()
}
