package table

import (
	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/parse/v2"
)

var svgIntegrationPoints = map[string]bool{
	"foreignobject": true,
	"desc":          true,
	"title":         true,
}

var mathIntegrationPoints = map[string]bool{
	"mi":    true,
	"mo":    true,
	"mn":    true,
	"ms":    true,
	"mtext": true,
}

// IsIntegrationPoint returns true if the children of a foreign element with the lowercase name
// are parsed as HTML. The encoding attribute only matters for MathML annotation-xml.
func IsIntegrationPoint(ns ast.Namespace, name, encoding []byte) bool {
	switch ns {
	case ast.SVG:
		return svgIntegrationPoints[string(name)]
	case ast.MathML:
		if string(name) == "annotation-xml" {
			encoding = parse.TrimWhitespace(encoding)
			return parse.EqualFold(encoding, []byte("text/html")) || parse.EqualFold(encoding, []byte("application/xhtml+xml"))
		}
		return mathIntegrationPoints[string(name)]
	}
	return false
}

// Namespace returns the namespace a start tag with the lowercase name switches to.
func Namespace(name []byte, parent ast.Namespace) ast.Namespace {
	switch string(name) {
	case "svg":
		return ast.SVG
	case "math":
		return ast.MathML
	}
	return parent
}

// IsBreakout returns true if the lowercase start tag leaves foreign content. The font tag only
// breaks out when it has a color, face or size attribute.
func IsBreakout(name []byte, fontAttr bool) bool {
	if string(name) == "font" {
		return fontAttr
	}
	return Is(name, Breakout)
}
