package table

import (
	"golang.org/x/net/html/atom"
)

// Omission is the condition under which an end tag may be left out.
type Omission int

// Omission conditions, see https://html.spec.whatwg.org/multipage/syntax.html#optional-tags.
// Sibling lists are restricted to start tags that close the element in the tree builder, which
// is stricter than the standard for colgroup and caption.
const (
	NeverOmit          Omission = iota
	BeforeSibling               // before one of the listed sibling start tags, or last in the parent
	UnlessComment               // unless followed by a comment
	UnlessSpaceComment          // unless followed by whitespace or a comment
)

// ClosingRule describes when the end tag of an element may be omitted.
type ClosingRule struct {
	Omission
	Siblings  map[atom.Atom]bool
	LastChild bool // omittable when nothing follows in the parent
}

func set(tags ...atom.Atom) map[atom.Atom]bool {
	m := make(map[atom.Atom]bool, len(tags))
	for _, tag := range tags {
		m[tag] = true
	}
	return m
}

// the table start tag is not listed for p, it doesn't close p in quirks mode
var pSiblings = set(atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Details, atom.Dialog, atom.Div, atom.Dl, atom.Fieldset, atom.Figcaption, atom.Figure, atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Header, atom.Hgroup, atom.Hr, atom.Main, atom.Menu, atom.Nav, atom.Ol, atom.P, atom.Pre, atom.Search, atom.Section, atom.Ul)

var closingMap = map[atom.Atom]ClosingRule{
	atom.Html:     {Omission: UnlessComment},
	atom.Head:     {Omission: UnlessSpaceComment},
	atom.Body:     {Omission: UnlessComment},
	atom.Li:       {BeforeSibling, set(atom.Li), true},
	atom.Dt:       {BeforeSibling, set(atom.Dt, atom.Dd), false},
	atom.Dd:       {BeforeSibling, set(atom.Dt, atom.Dd), true},
	atom.P:        {BeforeSibling, pSiblings, false},
	atom.Rt:       {BeforeSibling, set(atom.Rt, atom.Rp), true},
	atom.Rp:       {BeforeSibling, set(atom.Rt, atom.Rp), true},
	atom.Optgroup: {BeforeSibling, set(atom.Optgroup, atom.Hr), true},
	atom.Option:   {BeforeSibling, set(atom.Option, atom.Optgroup, atom.Hr), true},
	atom.Colgroup: {BeforeSibling, set(atom.Caption, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr, atom.Td, atom.Th), true},
	atom.Caption:  {BeforeSibling, set(atom.Caption, atom.Col, atom.Colgroup, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr, atom.Td, atom.Th), true},
	atom.Thead:    {BeforeSibling, set(atom.Tbody, atom.Tfoot), false},
	atom.Tbody:    {BeforeSibling, set(atom.Tbody, atom.Tfoot), true},
	atom.Tfoot:    {BeforeSibling, nil, true},
	atom.Tr:       {BeforeSibling, set(atom.Tr), true},
	atom.Td:       {BeforeSibling, set(atom.Td, atom.Th), true},
	atom.Th:       {BeforeSibling, set(atom.Td, atom.Th), true},
}

// Closing returns the end tag omission rule of an HTML element.
func Closing(tag atom.Atom) ClosingRule {
	return closingMap[tag]
}
