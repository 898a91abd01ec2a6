// Package ast defines the document tree produced by the parser and consumed by the rule engine.
package ast

// Namespace is the markup namespace of an element.
type Namespace int

// Namespaces.
const (
	HTML Namespace = iota
	SVG
	MathML
)

func (ns Namespace) String() string {
	switch ns {
	case SVG:
		return "svg"
	case MathML:
		return "math"
	}
	return "html"
}

// ElementClosingTag records how the source closed an element.
type ElementClosingTag int

// Closing tag modes.
const (
	Omitted ElementClosingTag = iota
	Present
	SelfClosing
	Void
)

func (c ElementClosingTag) String() string {
	switch c {
	case Present:
		return "Present"
	case SelfClosing:
		return "SelfClosing"
	case Void:
		return "Void"
	}
	return "Omitted"
}

// ScriptOrStyleLang is the language of raw text content.
type ScriptOrStyleLang int

// Raw text languages.
const (
	Data ScriptOrStyleLang = iota
	CSS
	JS
)

func (l ScriptOrStyleLang) String() string {
	switch l {
	case CSS:
		return "CSS"
	case JS:
		return "JS"
	}
	return "Data"
}

////////////////////////////////////////////////////////////////

// Document is the ordered list of top-level nodes of one input buffer.
type Document struct {
	Children []Node
}

// Node is one of *Bang, *Comment, *Instruction, *Element, *ScriptOrStyleContent, *Text or *Template.
type Node interface {
	node()
}

// Bang is a <!...> declaration such as a doctype.
type Bang struct {
	Code  []byte // between <! and >
	Ended bool   // false if the input ended before >
}

// Comment is a <!--...--> comment.
type Comment struct {
	Code  []byte // between <!-- and -->
	Ended bool   // false if the input ended before -->
	Bogus bool   // written as </...> in the source
}

// Instruction is a <?...?> processing instruction.
type Instruction struct {
	Code  []byte // between <? and >
	Ended bool   // false if the input ended before >
}

// Attr is an attribute of an element. Attributes with Template set are emitted verbatim from
// Raw, which holds the source bytes of the value including quotes, or of the whole template
// span when Name is empty.
type Attr struct {
	Name     []byte
	Value    []byte
	Raw      []byte
	Template bool
}

// Element is an element with its attributes and children.
type Element struct {
	Name      []byte
	Namespace Namespace
	Attrs     []Attr
	Children  []Node
	Closing   ElementClosingTag

	// Stray is set for an unmatched end tag that still has an effect, such as </p>, </body>
	// and </html>. It is kept as written.
	Stray bool
	// Ignored is set for an html or body start tag that opens no element since one is already
	// open. Only its attributes count, it is kept as written.
	Ignored bool
}

// ScriptOrStyleContent is the raw content of a script, style or other raw text element.
// Entities are never decoded.
type ScriptOrStyleContent struct {
	Code []byte
	Lang ScriptOrStyleLang
}

// Text is entity-decoded character data.
type Text struct {
	Value []byte
}

// Template is a template-syntax span that is copied through untouched.
type Template struct {
	Code  []byte // including delimiters
	Ended bool   // false if the input ended before the closing delimiter
}

func (*Bang) node()                 {}
func (*Comment) node()              {}
func (*Instruction) node()          {}
func (*Element) node()              {}
func (*ScriptOrStyleContent) node() {}
func (*Text) node()                 {}
func (*Template) node()             {}

// Attr returns the attribute with the given lowercase name, or nil.
func (e *Element) Attr(name string) *Attr {
	for i := range e.Attrs {
		if !e.Attrs[i].Template && string(e.Attrs[i].Name) == name {
			return &e.Attrs[i]
		}
	}
	return nil
}

// HasAttrs returns true if the element has any attribute, including template spans.
func (e *Element) HasAttrs() bool {
	return 0 < len(e.Attrs)
}
