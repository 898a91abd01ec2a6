// Package parser builds the document tree of an HTML document. It never fails: every byte
// sequence produces a tree, and the tree keeps enough of the source to reproduce how the
// browser will see it, including unterminated constructs and foreign SVG and MathML content.
package parser

import (
	"bytes"

	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/minhtml/cfg"
	"github.com/tdewolff/minhtml/table"
	"github.com/tdewolff/parse/v2"
	"golang.org/x/net/html/atom"
)

// element is an open element on the stack.
type element struct {
	*ast.Element
	lname   []byte // lowercase name
	tag     atom.Atom
	traits  table.Traits
	childNS ast.Namespace
}

// mode tracks whether the head and body have started, explicitly or implicitly.
type mode int

const (
	beforeHead mode = iota
	inHead
	inBody
)

type parser struct {
	r     *parse.Input
	cfg   *cfg.Cfg
	doc   *ast.Document
	stack []*element

	mode    mode
	content bool // an element or text other than whitespace was seen
}

// Parse parses src into a document tree. Nodes may reference src.
func Parse(src []byte, c *cfg.Cfg) *ast.Document {
	p := &parser{
		r:   parse.NewInputBytes(src),
		cfg: cfg.Or(c),
		doc: &ast.Document{},
	}
	defer p.r.Restore()

	for !p.eof(0) {
		if end := p.templateEnd(); end != "" {
			p.flushText()
			ended := p.skipTemplate(end)
			p.add(&ast.Template{Code: p.r.Shift(), Ended: ended})
			continue
		} else if p.r.Peek(0) == '<' && p.markup() {
			continue
		}
		p.r.Move(1)
	}
	p.flushText()
	return p.doc
}

////////////////////////////////////////////////////////////////

func (p *parser) eof(i int) bool {
	return p.r.PeekErr(i) != nil
}

// peek returns the byte at position i, or zero past the end of the input.
func (p *parser) peek(i int) byte {
	if p.r.PeekErr(i) != nil {
		return 0
	}
	return p.r.Peek(i)
}

func (p *parser) at(s string) bool {
	for i := 0; i < len(s); i++ {
		if p.peek(i) != s[i] || p.eof(i) {
			return false
		}
	}
	return true
}

// atTag returns true if the lowercase name followed by whitespace, / or > is at position i.
func (p *parser) atTag(i int, name []byte) bool {
	for j, c := range name {
		d := p.peek(i + j)
		if 'A' <= d && d <= 'Z' {
			d += 'a' - 'A'
		}
		if d != c {
			return false
		}
	}
	c := p.peek(i + len(name))
	return parse.IsWhitespace(c) || c == '/' || c == '>'
}

func (p *parser) skipWhitespace() {
	for !p.eof(0) && parse.IsWhitespace(p.r.Peek(0)) {
		p.r.Move(1)
	}
}

// templateEnd returns the closing delimiter if a template starts at the current position.
func (p *parser) templateEnd() string {
	if p.cfg.PreserveBraceTemplateSyntax && p.peek(0) == '{' {
		switch p.peek(1) {
		case '{':
			return "}}"
		case '%':
			return "%}"
		case '#':
			return "#}"
		}
	}
	if p.cfg.PreserveChevronPercentTemplateSyntax && p.peek(0) == '<' && p.peek(1) == '%' {
		return "%>"
	}
	return ""
}

// skipTemplate moves past the template at the current position, up to the end of input if
// it is never closed.
func (p *parser) skipTemplate(end string) bool {
	p.r.Move(2)
	for !p.eof(0) {
		if p.at(end) {
			p.r.Move(len(end))
			return true
		}
		p.r.Move(1)
	}
	return false
}

func (p *parser) hasTemplate(b []byte) bool {
	if p.cfg.PreserveBraceTemplateSyntax {
		if bytes.Contains(b, []byte("{{")) || bytes.Contains(b, []byte("{%")) || bytes.Contains(b, []byte("{#")) {
			return true
		}
	}
	return p.cfg.PreserveChevronPercentTemplateSyntax && bytes.Contains(b, []byte("<%"))
}

// lower returns a lowercase version of b without touching the source.
func lower(b []byte) []byte {
	for _, c := range b {
		if 'A' <= c && c <= 'Z' {
			return parse.ToLower(parse.Copy(b))
		}
	}
	return b
}

////////////////////////////////////////////////////////////////

func (p *parser) top() *element {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// childNS is the namespace in which the next start tag is interpreted.
func (p *parser) childNS() ast.Namespace {
	if e := p.top(); e != nil {
		return e.childNS
	}
	return ast.HTML
}

func (p *parser) add(n ast.Node) {
	if e := p.top(); e != nil {
		e.Children = append(e.Children, n)
	} else {
		p.doc.Children = append(p.doc.Children, n)
	}
}

func (p *parser) push(e *element) {
	p.add(e.Element)
	p.stack = append(p.stack, e)
}

// popTo closes the element at index i and all elements above it. Elements above it were
// closed implicitly.
func (p *parser) popTo(i int, closing ast.ElementClosingTag) {
	p.stack[i].Closing = closing
	p.stack = p.stack[:i]
}

func (p *parser) isHTML(e *element, tag atom.Atom) bool {
	return e.Namespace == ast.HTML && e.tag == tag
}

// isSpecial returns true for elements in the special category of the HTML standard.
func (p *parser) isSpecial(e *element) bool {
	if e.Namespace == ast.HTML {
		return e.traits&table.Special != 0
	}
	return e.childNS == ast.HTML || string(e.lname) == "annotation-xml"
}

type scope int

const (
	defaultScope scope = iota
	listItemScope
	buttonScope
	tableScope
)

func (p *parser) isBoundary(e *element, s scope) bool {
	if e.Namespace != ast.HTML {
		return s != tableScope && p.isSpecial(e)
	}
	switch s {
	case tableScope:
		return e.tag == atom.Html || e.tag == atom.Table || e.tag == atom.Template
	case listItemScope:
		if e.tag == atom.Ol || e.tag == atom.Ul {
			return true
		}
	case buttonScope:
		if e.tag == atom.Button {
			return true
		}
	}
	return e.traits&table.Scope != 0
}

// inScope returns the index of the topmost open element matching f that is in scope, or -1.
func (p *parser) inScope(f func(*element) bool, s scope) int {
	for i := len(p.stack) - 1; 0 <= i; i-- {
		if f(p.stack[i]) {
			return i
		} else if p.isBoundary(p.stack[i], s) {
			break
		}
	}
	return -1
}

func (p *parser) tagInScope(tag atom.Atom, s scope) int {
	return p.inScope(func(e *element) bool { return p.isHTML(e, tag) }, s)
}

func (p *parser) tagInStack(tag atom.Atom) bool {
	for _, e := range p.stack {
		if p.isHTML(e, tag) {
			return true
		}
	}
	return false
}

// atDocumentLevel returns true if no element other than html and head is open.
func (p *parser) atDocumentLevel() bool {
	top := p.top()
	return top == nil || p.isHTML(top, atom.Html) || p.isHTML(top, atom.Head)
}

func isHeading(tag atom.Atom) bool {
	switch tag {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

////////////////////////////////////////////////////////////////

func (p *parser) flushText() {
	if b := p.r.Shift(); 0 < len(b) {
		p.addText(unescapeText(b))
	}
}

// addText appends decoded text, merging it with a preceding text node.
func (p *parser) addText(b []byte) {
	if !parse.IsAllWhitespace(b) {
		if p.atDocumentLevel() {
			p.mode = inBody
		}
		p.content = true
	}
	if e := p.top(); e != nil && p.isHTML(e, atom.Head) && !parse.IsAllWhitespace(b) {
		p.stack = p.stack[:len(p.stack)-1]
	}

	var children []ast.Node
	if e := p.top(); e != nil {
		children = e.Children
	} else {
		children = p.doc.Children
	}
	if 0 < len(children) {
		if prev, ok := children[len(children)-1].(*ast.Text); ok {
			prev.Value = append(prev.Value[:len(prev.Value):len(prev.Value)], b...)
			return
		}
	}
	p.add(&ast.Text{Value: b})
}

// markup parses the construct starting with < at the current position. It returns false if
// the < is text.
func (p *parser) markup() bool {
	switch c := p.peek(1); {
	case c == '!':
		p.flushText()
		if p.peek(2) == '-' && p.peek(3) == '-' {
			p.comment()
		} else {
			p.bang()
		}
	case c == '?':
		p.flushText()
		p.instruction()
	case c == '/':
		if c2 := p.peek(2); isLetter(c2) {
			p.flushText()
			p.endTag()
		} else if c2 == '>' {
			p.flushText()
			p.r.Move(3)
			p.r.Skip()
		} else if p.eof(2) {
			return false
		} else {
			p.flushText()
			p.bogusComment()
		}
	case isLetter(c):
		p.flushText()
		p.startTag()
	default:
		return false
	}
	return true
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func (p *parser) comment() {
	p.r.Move(4)
	p.r.Skip()
	if p.peek(0) == '>' {
		p.r.Move(1)
		p.r.Skip()
		p.add(&ast.Comment{Ended: true})
		return
	} else if p.peek(0) == '-' && p.peek(1) == '>' {
		p.r.Move(2)
		p.r.Skip()
		p.add(&ast.Comment{Ended: true})
		return
	}

	for !p.eof(0) {
		if p.r.Peek(0) == '-' && p.peek(1) == '-' {
			n := 0
			if p.peek(2) == '>' {
				n = 3
			} else if p.peek(2) == '!' && p.peek(3) == '>' {
				n = 4
			}
			if n != 0 {
				code := p.r.Lexeme()
				p.r.Move(n)
				p.r.Skip()
				p.add(&ast.Comment{Code: code, Ended: true})
				return
			}
		}
		p.r.Move(1)
	}
	p.add(&ast.Comment{Code: p.r.Shift()})
}

// until moves to the next c and returns the bytes before it and whether it was found.
func (p *parser) until(c byte) ([]byte, bool) {
	for !p.eof(0) && p.r.Peek(0) != c {
		p.r.Move(1)
	}
	code := p.r.Lexeme()
	if p.eof(0) {
		p.r.Skip()
		return code, false
	}
	p.r.Move(1)
	p.r.Skip()
	return code, true
}

func (p *parser) bang() {
	p.r.Move(2)
	if p.childNS() != ast.HTML && p.at("[CDATA[") {
		p.r.Move(7)
		p.r.Skip()
		for !p.eof(0) {
			if p.at("]]>") {
				text := p.r.Lexeme()
				p.r.Move(3)
				p.r.Skip()
				p.addText(text)
				return
			}
			p.r.Move(1)
		}
		p.addText(p.r.Shift())
		return
	}

	p.r.Skip()
	code, ended := p.until('>')
	p.add(&ast.Bang{Code: code, Ended: ended})
}

func (p *parser) instruction() {
	p.r.Move(2)
	p.r.Skip()
	code, ended := p.until('>')
	p.add(&ast.Instruction{Code: code, Ended: ended})
}

func (p *parser) bogusComment() {
	p.r.Move(2)
	p.r.Skip()
	code, ended := p.until('>')
	p.add(&ast.Comment{Code: code, Ended: ended, Bogus: true})
}

////////////////////////////////////////////////////////////////

// tagName reads a tag name, which may contain templates.
func (p *parser) tagName() ([]byte, bool) {
	start := p.r.Pos()
	template := false
	for !p.eof(0) {
		if end := p.templateEnd(); end != "" {
			template = true
			p.skipTemplate(end)
			continue
		}
		c := p.r.Peek(0)
		if parse.IsWhitespace(c) || c == '/' || c == '>' {
			break
		}
		p.r.Move(1)
	}
	return p.r.Lexeme()[start:], template
}

// attrs reads the attributes up to and including the closing > of a tag. It returns false if
// the input ends inside the tag, in which case the tag is dropped.
func (p *parser) attrs() (attrs []ast.Attr, selfClosing, ok bool) {
	for {
		p.skipWhitespace()
		if p.eof(0) {
			return nil, false, false
		}

		c := p.r.Peek(0)
		if c == '>' {
			p.r.Move(1)
			return attrs, false, true
		} else if c == '/' {
			if p.peek(1) == '>' {
				p.r.Move(2)
				return attrs, true, true
			}
			p.r.Move(1)
			continue
		} else if end := p.templateEnd(); end != "" {
			start := p.r.Pos()
			p.skipTemplate(end)
			attrs = append(attrs, ast.Attr{Raw: p.r.Lexeme()[start:], Template: true})
			continue
		}

		start := p.r.Pos()
		p.r.Move(1)
		for !p.eof(0) {
			c = p.r.Peek(0)
			if parse.IsWhitespace(c) || c == '/' || c == '>' || c == '=' {
				break
			}
			p.r.Move(1)
		}
		attr := ast.Attr{Name: p.r.Lexeme()[start:]}

		p.skipWhitespace()
		if p.peek(0) == '=' {
			p.r.Move(1)
			p.skipWhitespace()
			start = p.r.Pos()
			if q := p.peek(0); q == '"' || q == '\'' {
				p.r.Move(1)
				for {
					if p.eof(0) {
						return nil, false, false
					} else if p.r.Peek(0) == q {
						p.r.Move(1)
						break
					} else if end := p.templateEnd(); end != "" {
						attr.Template = true
						p.skipTemplate(end)
						continue
					}
					p.r.Move(1)
				}
				attr.Raw = p.r.Lexeme()[start:]
				attr.Value = attr.Raw[1 : len(attr.Raw)-1]
			} else {
				for !p.eof(0) {
					if end := p.templateEnd(); end != "" {
						attr.Template = true
						p.skipTemplate(end)
						continue
					}
					c = p.r.Peek(0)
					if parse.IsWhitespace(c) || c == '>' {
						break
					}
					p.r.Move(1)
				}
				attr.Raw = p.r.Lexeme()[start:]
				attr.Value = attr.Raw
			}
			if !attr.Template {
				attr.Value = unescapeAttr(attr.Value)
			}
		}
		attrs = append(attrs, attr)
	}
}

// addAttrs keeps the first of duplicate attributes, and lowercases names of HTML elements.
func addAttrs(attrs []ast.Attr, ns ast.Namespace) []ast.Attr {
	unique := attrs[:0]
	for _, attr := range attrs {
		if !attr.Template {
			if ns == ast.HTML {
				attr.Name = lower(attr.Name)
			}
			duplicate := false
			for _, prev := range unique {
				if !prev.Template && bytes.EqualFold(prev.Name, attr.Name) {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
		}
		unique = append(unique, attr)
	}
	return unique
}

func attrValue(attrs []ast.Attr, name string) ([]byte, bool) {
	for _, attr := range attrs {
		if !attr.Template && parse.EqualFold(attr.Name, []byte(name)) {
			return attr.Value, true
		}
	}
	return nil, false
}

func (p *parser) startTag() {
	p.r.Move(1)
	p.r.Skip()
	name, template := p.tagName()
	attrs, selfClosing, ok := p.attrs()
	p.r.Skip()
	if !ok {
		return
	}

	lname := lower(name)
	ns := p.childNS()
	if ns != ast.HTML {
		_, color := attrValue(attrs, "color")
		_, face := attrValue(attrs, "face")
		_, size := attrValue(attrs, "size")
		if table.IsBreakout(lname, color || face || size) {
			for ns != ast.HTML {
				p.stack = p.stack[:len(p.stack)-1]
				ns = p.childNS()
			}
		} else if parent := p.top(); parent.Namespace == ast.MathML && string(parent.lname) == "annotation-xml" && string(lname) == "svg" {
			ns = ast.SVG
		}
	} else if parent := p.top(); parent != nil && parent.Namespace == ast.MathML && (string(lname) == "mglyph" || string(lname) == "malignmark") {
		ns = ast.MathML
	} else {
		ns = table.Namespace(lname, ast.HTML)
	}

	e := &element{
		Element: &ast.Element{
			Name:      lname,
			Namespace: ns,
			Attrs:     addAttrs(attrs, ns),
		},
		lname:   lname,
		childNS: ns,
	}
	if ns != ast.HTML {
		p.started(e)
		e.Name = name
		encoding, _ := attrValue(e.Attrs, "encoding")
		if table.IsIntegrationPoint(ns, lname, encoding) {
			e.childNS = ast.HTML
		}
		if selfClosing {
			e.Closing = ast.SelfClosing
			p.add(e.Element)
			return
		}
		p.push(e)
		return
	} else if template {
		e.Name = name
	}

	e.tag, e.traits = table.Lookup(lname)
	if !p.allowed(e) {
		if (e.tag == atom.Html || e.tag == atom.Body) && e.HasAttrs() {
			e.Closing = ast.Void
			e.Ignored = true
			p.add(e.Element)
		}
		return
	}
	p.implicitClose(e)
	if e.traits&table.Void != 0 {
		e.Closing = ast.Void
		p.add(e.Element)
		return
	}
	p.push(e)

	switch {
	case e.tag == atom.Script:
		lang := ast.Data
		if typ, ok := attrValue(e.Attrs, "type"); !ok || table.IsJSType(typ) || table.IsModuleType(typ) {
			lang = ast.JS
		}
		p.rawText(e, lang, true)
	case e.tag == atom.Style:
		lang := ast.Data
		if typ, ok := attrValue(e.Attrs, "type"); !ok || table.IsCSSType(typ) {
			lang = ast.CSS
		}
		p.rawText(e, lang, false)
	case e.traits&table.RawText != 0:
		p.rawText(e, ast.Data, false)
	case e.tag == atom.Plaintext:
		for !p.eof(0) {
			p.r.Move(1)
		}
		if code := p.r.Shift(); 0 < len(code) {
			e.Children = append(e.Children, &ast.ScriptOrStyleContent{Code: code, Lang: ast.Data})
		}
	case e.traits&table.RCDATA != 0:
		p.rcdata(e)
	}
}

// started records that the head or body started with the start tag of e.
func (p *parser) started(e *element) {
	if p.atDocumentLevel() {
		if e.Namespace == ast.HTML && e.traits&table.Metadata != 0 {
			if p.mode == beforeHead {
				p.mode = inHead
			}
		} else {
			p.mode = inBody
		}
	}
	p.content = true
}

// allowed returns false for start tags that are ignored at the current position: html, head
// and body once they are open or implied, and table parts outside a table. The attributes of
// an ignored html or body are added to the open element.
func (p *parser) allowed(e *element) bool {
	switch e.tag {
	case atom.Html:
		if p.content {
			return false
		}
	case atom.Head:
		if p.mode != beforeHead {
			return false
		}
		p.mode = inHead
	case atom.Body:
		if p.mode == inBody || p.tagInStack(atom.Template) {
			return false
		}
		p.mode = inBody
	case atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr:
		p.started(e)
		return p.inScope(func(e *element) bool {
			return p.isHTML(e, atom.Table) || p.isHTML(e, atom.Template)
		}, tableScope) != -1
	default:
		p.started(e)
		return true
	}
	p.content = true
	return true
}

// implicitClose closes the open elements that the start tag of e closes.
func (p *parser) implicitClose(e *element) {
	if top := p.top(); top != nil && p.isHTML(top, atom.Head) && e.traits&table.Metadata == 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}

	switch e.tag {
	case atom.Li:
		p.closeListItem(atom.Li, atom.Li)
	case atom.Dd, atom.Dt:
		p.closeListItem(atom.Dd, atom.Dt)
	}
	if e.traits&table.ClosesP != 0 {
		if i := p.tagInScope(atom.P, buttonScope); i != -1 {
			p.popTo(i, ast.Omitted)
		}
	}

	switch e.tag {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		if top := p.top(); top != nil && top.Namespace == ast.HTML && isHeading(top.tag) {
			p.stack = p.stack[:len(p.stack)-1]
		}
	case atom.Button:
		if i := p.tagInScope(atom.Button, defaultScope); i != -1 {
			p.popTo(i, ast.Omitted)
		}
	case atom.A, atom.Nobr:
		for i := len(p.stack) - 1; 0 <= i; i-- {
			if p.isHTML(p.stack[i], e.tag) {
				p.popTo(i, ast.Omitted)
				break
			} else if p.isBoundary(p.stack[i], defaultScope) {
				break
			}
		}
	case atom.Option:
		p.popCurrent(atom.Option)
	case atom.Optgroup:
		p.popCurrent(atom.Option)
		p.popCurrent(atom.Optgroup)
	case atom.Hr:
		if p.tagInScope(atom.Select, defaultScope) != -1 {
			p.popCurrent(atom.Option)
			p.popCurrent(atom.Optgroup)
		}
	case atom.Rb, atom.Rtc, atom.Rp, atom.Rt:
		if p.tagInScope(atom.Ruby, defaultScope) != -1 {
			for top := p.top(); top != nil && top.Namespace == ast.HTML && top.traits&table.Implied != 0; top = p.top() {
				if top.tag == atom.Rtc && (e.tag == atom.Rp || e.tag == atom.Rt) {
					break
				}
				p.stack = p.stack[:len(p.stack)-1]
			}
		}
	case atom.Tr:
		p.closeTableContext(atom.Tbody, atom.Thead, atom.Tfoot, atom.Table)
	case atom.Td, atom.Th:
		p.closeTableContext(atom.Tr, atom.Tbody, atom.Thead, atom.Tfoot, atom.Table)
	case atom.Tbody, atom.Thead, atom.Tfoot, atom.Caption, atom.Colgroup:
		p.closeTableContext(atom.Table)
	case atom.Col:
		p.closeTableContext(atom.Colgroup, atom.Table)
	}
}

func (p *parser) popCurrent(tag atom.Atom) {
	if top := p.top(); top != nil && p.isHTML(top, tag) {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// closeListItem closes an open li, or dd and dt, unless another special element is in between.
func (p *parser) closeListItem(a, b atom.Atom) {
	for i := len(p.stack) - 1; 0 <= i; i-- {
		e := p.stack[i]
		if p.isHTML(e, a) || p.isHTML(e, b) {
			p.popTo(i, ast.Omitted)
			return
		} else if p.isSpecial(e) && !p.isHTML(e, atom.Address) && !p.isHTML(e, atom.Div) && !p.isHTML(e, atom.P) {
			return
		}
	}
}

// closeTableContext closes open elements up to the nearest of the given table elements.
func (p *parser) closeTableContext(stops ...atom.Atom) {
	for i := len(p.stack) - 1; 0 <= i; i-- {
		e := p.stack[i]
		if e.Namespace != ast.HTML {
			return
		}
		for _, stop := range stops {
			if e.tag == stop {
				p.stack = p.stack[:i+1]
				return
			}
		}
		if e.tag == atom.Html || e.tag == atom.Template || e.tag == atom.Table {
			return
		}
	}
}

// rawText reads the content of e up to its end tag. Script content additionally follows the
// escape states of <!-- and <script.
func (p *parser) rawText(e *element, lang ast.ScriptOrStyleLang, script bool) {
	const (
		data = iota
		escaped
		doubleEscaped
	)
	state := data
	for !p.eof(0) {
		if p.r.Peek(0) == '<' {
			if p.peek(1) == '/' && state != doubleEscaped && p.atTag(2, e.lname) {
				p.endRawText(e, lang)
				return
			} else if script && state == data && p.at("<!--") {
				p.r.Move(4)
				for p.peek(0) == '-' {
					p.r.Move(1)
				}
				state = escaped
				if p.peek(0) == '>' {
					state = data
				}
				continue
			} else if script && state == escaped && p.atTag(1, e.lname) {
				state = doubleEscaped
			} else if script && state == doubleEscaped && p.peek(1) == '/' && p.atTag(2, e.lname) {
				p.r.Move(2 + len(e.lname))
				state = escaped
				continue
			}
		} else if script && state != data && p.at("-->") {
			p.r.Move(3)
			state = data
			continue
		}
		p.r.Move(1)
	}
	p.addRawText(e, p.r.Shift(), lang)
}

// endRawText consumes the end tag at the current position.
func (p *parser) endRawText(e *element, lang ast.ScriptOrStyleLang) {
	p.addRawText(e, p.r.Shift(), lang)
	p.r.Move(2 + len(e.lname))
	if _, _, ok := p.attrs(); ok {
		p.popTo(len(p.stack)-1, ast.Present)
	}
	p.r.Skip()
}

func (p *parser) addRawText(e *element, code []byte, lang ast.ScriptOrStyleLang) {
	if len(code) == 0 {
		return
	}
	if lang != ast.Data && p.hasTemplate(code) {
		lang = ast.Data
	}
	e.Children = append(e.Children, &ast.ScriptOrStyleContent{Code: code, Lang: lang})
}

// rcdata reads the text content of textarea and title up to the end tag. Templates are read
// as in other content.
func (p *parser) rcdata(e *element) {
	for !p.eof(0) {
		if end := p.templateEnd(); end != "" {
			p.rcdataText(e)
			ended := p.skipTemplate(end)
			e.Children = append(e.Children, &ast.Template{Code: p.r.Shift(), Ended: ended})
			continue
		} else if p.r.Peek(0) == '<' && p.peek(1) == '/' && p.atTag(2, e.lname) {
			p.rcdataText(e)
			p.r.Move(2 + len(e.lname))
			if _, _, ok := p.attrs(); ok {
				p.popTo(len(p.stack)-1, ast.Present)
			}
			p.r.Skip()
			return
		}
		p.r.Move(1)
	}
	p.rcdataText(e)
}

func (p *parser) rcdataText(e *element) {
	if text := p.r.Shift(); 0 < len(text) {
		e.Children = append(e.Children, &ast.Text{Value: unescapeText(text)})
	}
}

////////////////////////////////////////////////////////////////

func (p *parser) endTag() {
	p.r.Move(2)
	p.r.Skip()
	name, _ := p.tagName()
	_, _, ok := p.attrs()
	p.r.Skip()
	if !ok {
		return
	}

	lname := lower(name)
	if top := p.top(); top != nil && top.Namespace != ast.HTML && string(lname) != "br" && string(lname) != "p" {
		for i := len(p.stack) - 1; 0 <= i; i-- {
			e := p.stack[i]
			if e.Namespace == ast.HTML {
				break
			} else if bytes.Equal(e.lname, lname) {
				p.popTo(i, ast.Present)
				return
			}
		}
	}

	tag, traits := table.Lookup(lname)
	switch {
	case tag == atom.Br:
		p.add(&ast.Element{Name: lname, Closing: ast.Void})
	case tag == atom.P:
		if i := p.tagInScope(atom.P, buttonScope); i != -1 {
			p.popTo(i, ast.Present)
		} else {
			p.add(&ast.Element{Name: lname, Closing: ast.Present, Stray: true})
		}
	case tag == atom.Form:
		if i := p.tagInScope(atom.Form, defaultScope); i != -1 && i == len(p.stack)-1 {
			p.popTo(i, ast.Present)
		} else if i != -1 {
			p.add(&ast.Element{Name: lname, Closing: ast.Present, Stray: true})
		}
	case traits&table.Adoption != 0:
		// formatting elements stay active after they are closed, the end tag is kept when it
		// doesn't simply close the current element
		for i := len(p.stack) - 1; 0 <= i; i-- {
			e := p.stack[i]
			if p.isHTML(e, tag) {
				p.popTo(i, ast.Present)
				return
			} else if p.isSpecial(e) {
				break
			}
		}
		p.add(&ast.Element{Name: lname, Closing: ast.Present, Stray: true})
	case traits&table.Special != 0:
		s := defaultScope
		f := func(e *element) bool { return p.isHTML(e, tag) }
		switch tag {
		case atom.Li:
			s = listItemScope
		case atom.Table, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr, atom.Td, atom.Th, atom.Caption, atom.Colgroup:
			s = tableScope
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			f = func(e *element) bool { return e.Namespace == ast.HTML && isHeading(e.tag) }
		}
		if i := p.inScope(f, s); i != -1 {
			p.popTo(i, ast.Present)
		} else if (tag == atom.Body || tag == atom.Html) && !p.tagInStack(tag) {
			// comments that follow are placed after the body
			p.add(&ast.Element{Name: lname, Closing: ast.Present, Stray: true})
		}
	default:
		for i := len(p.stack) - 1; 0 <= i; i-- {
			e := p.stack[i]
			if e.Namespace == ast.HTML && bytes.Equal(e.lname, lname) {
				p.popTo(i, ast.Present)
				return
			} else if p.isSpecial(e) {
				return
			}
		}
	}
}
