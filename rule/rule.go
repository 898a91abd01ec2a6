// Package rule writes a parsed document back out in its smallest form. Whitespace is collapsed
// where rendering ignores it, optional tags and default attributes are left out, and attribute
// values and text are written with minimal quoting and escaping.
package rule

import (
	"io"

	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/minhtml/cfg"
	"github.com/tdewolff/minhtml/table"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"
	"golang.org/x/net/html/atom"
)

var (
	ltBytes          = []byte("<")
	gtBytes          = []byte(">")
	isBytes          = []byte("=")
	spaceBytes       = []byte(" ")
	endBytes         = []byte("</")
	voidBytes        = []byte("/>")
	commentBytes     = []byte("<!--")
	commentEndBytes  = []byte("-->")
	bangBytes        = []byte("<!")
	instructionBytes = []byte("<?")
	doctypeBytes     = []byte("<!doctypehtml>")
)

// Delegate minifies embedded CSS and JS. It is satisfied by *minify.M.
type Delegate interface {
	Minify(mediatype string, w io.Writer, r io.Reader) error
}

type minifier struct {
	c *cfg.Cfg
	d Delegate
	w *buffer.Writer

	plan map[*ast.Text][]byte
	pos  map[*ast.Element]*position
	omit map[*ast.Element]bool

	text       []byte // pending text, escaped when flushed
	rcdata     []byte // name of the RCDATA element holding the pending text
	attrBuffer []byte
}

// Minify writes the minified document. The delegate may be nil, in which case embedded CSS
// and JS are written as they are.
func Minify(doc *ast.Document, c *cfg.Cfg, d Delegate) []byte {
	m := &minifier{
		c:    cfg.Or(c),
		d:    d,
		pos:  map[*ast.Element]*position{},
		omit: map[*ast.Element]bool{},
	}
	m.plan = planWhitespace(doc)
	m.index(doc.Children, nil)

	m.w = buffer.NewWriter(make([]byte, 0, 4096))
	m.nodes(doc.Children, nil)
	m.flush(0)
	return m.w.Bytes()
}

// textValue returns the text as it will be written, before escaping.
func (m *minifier) textValue(t *ast.Text) []byte {
	if v, ok := m.plan[t]; ok {
		return v
	}
	return t.Value
}

// keepComment returns true for comments that are written. Unterminated comments are always
// written, since they extend to the end of the input.
func (m *minifier) keepComment(c *ast.Comment) bool {
	return m.c.KeepComments || !c.Ended || !c.Bogus && table.IsSSIComment(c.Code)
}

// flush writes the pending text, followed by the byte after or zero at the end of the output.
// Text nodes that end up adjacent after removing the nodes in between are escaped together.
func (m *minifier) flush(after byte) {
	if len(m.text) != 0 {
		m.attrBuffer = m.escapeText(m.attrBuffer[:0], m.text, m.rcdata, after)
		m.w.Write(m.attrBuffer)
		m.text = m.text[:0]
	}
}

func (m *minifier) write(b ...[]byte) {
	if len(m.text) != 0 {
		var after byte
		for _, s := range b {
			if 0 < len(s) {
				after = s[0]
				break
			}
		}
		m.flush(after)
	}
	for _, s := range b {
		m.w.Write(s)
	}
}

func (m *minifier) nodes(nodes []ast.Node, parent *ast.Element) {
	var rcdata []byte
	if parent != nil && parent.Namespace == ast.HTML && table.Is(parent.Name, table.RCDATA) {
		rcdata = parent.Name
	}
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Text:
			if v := m.textValue(n); len(v) != 0 {
				if len(m.text) == 0 {
					m.rcdata = rcdata
				}
				m.text = append(m.text, v...)
			}
		case *ast.Element:
			m.element(n)
		case *ast.Comment:
			if !m.keepComment(n) {
				continue
			} else if n.Bogus {
				m.write(endBytes, n.Code)
				if n.Ended {
					m.write(gtBytes)
				}
			} else {
				m.write(commentBytes, n.Code)
				if n.Ended {
					m.write(commentEndBytes)
				}
			}
		case *ast.Bang:
			if m.c.RemoveBangs {
				continue
			} else if !m.c.DoNotMinifyDoctype && n.Ended && isHTML5Doctype(n.Code) {
				m.write(doctypeBytes)
			} else {
				m.write(bangBytes, n.Code)
				if n.Ended {
					m.write(gtBytes)
				}
			}
		case *ast.Instruction:
			if m.c.RemoveProcessingInstructions {
				continue
			}
			m.write(instructionBytes, n.Code)
			if n.Ended {
				m.write(gtBytes)
			}
		case *ast.Template:
			m.write(n.Code)
		case *ast.ScriptOrStyleContent:
			m.write(m.rawText(n))
		}
	}
}

func (m *minifier) element(e *ast.Element) {
	if e.Stray {
		if !m.omitClosing(e) {
			m.write(endBytes, e.Name, gtBytes)
		}
		return
	} else if e.Ignored {
		m.write(ltBytes, e.Name)
		m.attrs(e)
		m.write(gtBytes)
		return
	}

	if !m.omitStartTag(e) {
		m.write(ltBytes, e.Name)
		unquoted := m.attrs(e)
		if e.Closing == ast.SelfClosing {
			if unquoted {
				m.write(spaceBytes)
			}
			m.write(voidBytes)
		} else {
			m.write(gtBytes)
		}
	}
	if e.Closing == ast.Void || e.Closing == ast.SelfClosing {
		return
	}

	m.nodes(e.Children, e)
	if e.Closing == ast.Present && !m.omitClosing(e) {
		m.write(endBytes, e.Name, gtBytes)
	}
}

// omitStartTag returns true for html, head and body start tags without attributes that the
// parser puts back at the same place.
func (m *minifier) omitStartTag(e *ast.Element) bool {
	if m.c.KeepHTMLAndHeadOpeningTags || e.Namespace != ast.HTML || e.HasAttrs() {
		return false
	}

	var first ast.Node
	for _, child := range e.Children {
		if m.writes(child) {
			first = child
			break
		}
	}
	switch atom.Lookup(e.Name) {
	case atom.Html:
		return !isCommentLike(first)
	case atom.Head:
		_, elem := first.(*ast.Element)
		return first == nil || elem
	case atom.Body:
		switch n := first.(type) {
		case nil:
			return true
		case *ast.Comment, *ast.Bang, *ast.Instruction, *ast.Template:
			return false
		case *ast.Text:
			v := m.textValue(n)
			return !isSpace(v[0])
		case *ast.Element:
			switch atom.Lookup(n.Name) {
			case atom.Meta, atom.Link, atom.Script, atom.Style, atom.Template:
				return false
			}
		}
		return true
	}
	return false
}

// rawText writes script and style content, minified by the delegate if enabled.
func (m *minifier) rawText(n *ast.ScriptOrStyleContent) []byte {
	if m.d == nil {
		return n.Code
	}

	var mediatype string
	var end []byte
	switch {
	case n.Lang == ast.JS && m.c.MinifyJS:
		mediatype, end = "application/javascript", []byte("</script")
	case n.Lang == ast.CSS && m.c.MinifyCSS:
		mediatype, end = "text/css", []byte("</style")
	default:
		return n.Code
	}

	code := m.delegate(mediatype, n.Code)
	// the minified code may not end the element or open a comment that the original didn't
	if containsFold(code, end) || containsFold(code, commentBytes) && !containsFold(n.Code, commentBytes) {
		return n.Code
	}
	return code
}

// isCommentLike returns true for nodes that are tokenized as comments.
func isCommentLike(n ast.Node) bool {
	switch n.(type) {
	case *ast.Comment, *ast.Bang, *ast.Instruction:
		return true
	}
	return false
}

func isHTML5Doctype(b []byte) bool {
	if len(b) < 7 || !parse.EqualFold(b[:7], []byte("doctype")) || len(b) == 7 || !parse.IsWhitespace(b[7]) {
		return false
	}
	return parse.EqualFold(parse.TrimWhitespace(b[7:]), []byte("html"))
}

func containsFold(b, s []byte) bool {
	for i := 0; i+len(s) <= len(b); i++ {
		if parse.EqualFold(b[i:i+len(s)], s) {
			return true
		}
	}
	return false
}
