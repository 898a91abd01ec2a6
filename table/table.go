// Package table holds the static classification of HTML tags and attributes that drives
// both parsing and minification. All tables are read-only after initialization.
package table

import (
	"golang.org/x/net/html/atom"
)

// Traits is a set of classification flags of a tag.
type Traits uint32

// Tag traits.
const (
	Void        Traits = 1 << iota // never has content or a closing tag
	Formatting                     // inline, whitespace around and inside is significant
	Invisible                      // not rendered, transparent for whitespace
	Block                          // whitespace at its boundaries is insignificant
	Layout                         // whitespace-only text children are insignificant
	PreserveWS                     // whitespace in descendants is kept verbatim
	RawText                        // content is raw text up to the matching end tag
	RCDATA                         // content is text with entities up to the matching end tag
	ClosesP                        // start tag implicitly closes an open p
	Special                        // stops the implicit close search of li, dd and dt
	Scope                          // end tag search doesn't pass through it
	Breakout                       // start tag leaves foreign content
	Metadata                       // allowed inside head
	Implied                        // popped when generating implied end tags
	Adoption                       // end tag runs the adoption agency algorithm
)

var tagMap = map[atom.Atom]Traits{
	atom.A:          Formatting | Adoption,
	atom.Abbr:       Formatting,
	atom.Acronym:    Formatting,
	atom.Address:    Block | ClosesP | Special,
	atom.Applet:     Special | Scope,
	atom.Area:       Void | Special,
	atom.Article:    Block | ClosesP | Special,
	atom.Aside:      Block | ClosesP | Special,
	atom.B:          Formatting | Breakout | Adoption,
	atom.Base:       Void | Invisible | Special | Metadata,
	atom.Basefont:   Void | Invisible | Special | Metadata,
	atom.Bdi:        Formatting,
	atom.Bdo:        Formatting,
	atom.Bgsound:    Void | Invisible | Special | Metadata,
	atom.Big:        Formatting | Breakout | Adoption,
	atom.Blockquote: Block | ClosesP | Special | Breakout,
	atom.Body:       Block | Special | Breakout,
	atom.Br:         Void | Block | Special | Breakout,
	atom.Button:     Special,
	atom.Caption:    Block | Special | Scope,
	atom.Center:     Block | ClosesP | Special | Breakout,
	atom.Cite:       Formatting,
	atom.Code:       Formatting | Breakout | Adoption,
	atom.Col:        Void | Special,
	atom.Colgroup:   Block | Layout | Special,
	atom.Data:       Formatting,
	atom.Datalist:   Layout,
	atom.Dd:         Block | ClosesP | Special | Breakout | Implied,
	atom.Del:        Formatting,
	atom.Details:    Block | ClosesP | Special,
	atom.Dfn:        Formatting,
	atom.Dialog:     Block | ClosesP,
	atom.Dir:        Block | ClosesP | Special,
	atom.Div:        Block | ClosesP | Special | Breakout,
	atom.Dl:         Block | ClosesP | Special | Breakout,
	atom.Dt:         Block | ClosesP | Special | Breakout | Implied,
	atom.Em:         Formatting | Breakout | Adoption,
	atom.Embed:      Void | Special | Breakout,
	atom.Fieldset:   Block | ClosesP | Special,
	atom.Figcaption: Block | ClosesP | Special,
	atom.Figure:     Block | ClosesP | Special,
	atom.Font:       Formatting | Adoption,
	atom.Footer:     Block | ClosesP | Special,
	atom.Form:       Block | ClosesP | Special,
	atom.Frame:      Void | Special,
	atom.Frameset:   Block | Layout | Special,
	atom.H1:         Block | ClosesP | Special | Breakout,
	atom.H2:         Block | ClosesP | Special | Breakout,
	atom.H3:         Block | ClosesP | Special | Breakout,
	atom.H4:         Block | ClosesP | Special | Breakout,
	atom.H5:         Block | ClosesP | Special | Breakout,
	atom.H6:         Block | ClosesP | Special | Breakout,
	atom.Head:       Block | Layout | Special | Breakout,
	atom.Header:     Block | ClosesP | Special,
	atom.Hgroup:     Block | ClosesP | Special,
	atom.Hr:         Void | Block | ClosesP | Special | Breakout,
	atom.Html:       Block | Special | Scope,
	atom.I:          Formatting | Breakout | Adoption,
	atom.Iframe:     RawText | Special,
	atom.Image:      Void | Special,
	atom.Img:        Void | Special | Breakout,
	atom.Input:      Void | Special,
	atom.Ins:        Formatting,
	atom.Kbd:        Formatting,
	atom.Keygen:     Void | Special,
	atom.Legend:     Block,
	atom.Li:         Block | ClosesP | Special | Breakout | Implied,
	atom.Link:       Void | Invisible | Special | Metadata,
	atom.Listing:    Block | PreserveWS | ClosesP | Special | Breakout,
	atom.Main:       Block | ClosesP | Special,
	atom.Mark:       Formatting,
	atom.Marquee:    Special | Scope,
	atom.Menu:       Block | ClosesP | Special | Breakout,
	atom.Meta:       Void | Invisible | Special | Breakout | Metadata,
	atom.Nav:        Block | ClosesP | Special,
	atom.Nobr:       Formatting | Breakout | Adoption,
	atom.Noembed:    RawText | Special,
	atom.Noframes:   RawText | Special | Metadata,
	atom.Noscript:   Invisible | Special | Metadata,
	atom.Object:     Special | Scope,
	atom.Ol:         Block | ClosesP | Special | Breakout,
	atom.Optgroup:   Block | Layout | Implied,
	atom.Option:     Block | Implied,
	atom.P:          Block | ClosesP | Special | Breakout | Implied,
	atom.Param:      Void | Special,
	atom.Plaintext:  Block | PreserveWS | ClosesP | Special,
	atom.Pre:        Block | PreserveWS | ClosesP | Special | Breakout,
	atom.Q:          Formatting,
	atom.Rb:         Formatting | Implied,
	atom.Rp:         Formatting | Implied,
	atom.Rt:         Formatting | Implied,
	atom.Rtc:        Formatting | Implied,
	atom.Ruby:       Formatting | Breakout,
	atom.S:          Formatting | Breakout | Adoption,
	atom.Samp:       Formatting,
	atom.Script:     RawText | Invisible | Special | Metadata,
	atom.Search:     Block | ClosesP | Special,
	atom.Section:    Block | ClosesP | Special,
	atom.Select:     Layout | Special,
	atom.Small:      Formatting | Breakout | Adoption,
	atom.Source:     Void | Special,
	atom.Span:       Formatting | Breakout,
	atom.Strike:     Formatting | Breakout | Adoption,
	atom.Strong:     Formatting | Breakout | Adoption,
	atom.Style:      RawText | Invisible | Special | Metadata,
	atom.Sub:        Formatting | Breakout,
	atom.Summary:    Block | ClosesP | Special,
	atom.Sup:        Formatting | Breakout,
	atom.Table:      Block | Layout | ClosesP | Special | Scope | Breakout,
	atom.Tbody:      Block | Layout | Special,
	atom.Td:         Block | Special | Scope,
	atom.Template:   Invisible | Special | Scope | Metadata,
	atom.Textarea:   RCDATA | PreserveWS | Special,
	atom.Tfoot:      Block | Layout | Special,
	atom.Th:         Block | Special | Scope,
	atom.Thead:      Block | Layout | Special,
	atom.Time:       Formatting,
	atom.Title:      RCDATA | Invisible | Special | Metadata,
	atom.Tr:         Block | Layout | Special,
	atom.Track:      Void | Special,
	atom.Tt:         Formatting | Breakout | Adoption,
	atom.U:          Formatting | Breakout | Adoption,
	atom.Ul:         Block | ClosesP | Special | Breakout,
	atom.Var:        Formatting | Breakout,
	atom.Wbr:        Void | Formatting | Special,
	atom.Xmp:        RawText | ClosesP | Special,
}

// Lookup returns the tag and its traits for a lowercase HTML tag name. Unknown tags return
// zero for both.
func Lookup(name []byte) (atom.Atom, Traits) {
	a := atom.Lookup(name)
	return a, tagMap[a]
}

// Is returns true if the lowercase tag name has all the given traits.
func Is(name []byte, traits Traits) bool {
	_, t := Lookup(name)
	return t&traits == traits
}
