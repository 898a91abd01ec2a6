package table

import (
	"bytes"

	"github.com/tdewolff/parse/v2"
)

var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"compact":         true,
	"controls":        true,
	"declare":         true,
	"default":         true,
	"defaultchecked":  true,
	"defaultmuted":    true,
	"defaultselected": true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"inert":           true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nohref":          true,
	"nomodule":        true,
	"noresize":        true,
	"noshade":         true,
	"novalidate":      true,
	"nowrap":          true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"scoped":          true,
	"seamless":        true,
	"selected":        true,
	"truespeed":       true,
	"typemustmatch":   true,
}

// IsBooleanAttr returns true if only the presence of the attribute matters.
// hidden is not included as hidden="until-found" differs from hidden.
func IsBooleanAttr(name []byte) bool {
	return booleanAttrs[string(name)]
}

// defaultAttrs maps tag and attribute to the value that is equal to leaving out the attribute.
// Values are compared ASCII case-insensitively.
var defaultAttrs = map[string]map[string]string{
	"area":     {"shape": "rect"},
	"button":   {"type": "submit"},
	"col":      {"span": "1"},
	"colgroup": {"span": "1"},
	"form":     {"method": "get", "enctype": "application/x-www-form-urlencoded", "autocomplete": "on"},
	"iframe":   {"loading": "eager"},
	"img":      {"decoding": "auto", "loading": "eager"},
	"input":    {"type": "text"},
	"link":     {"media": "all", "type": "text/css"},
	"ol":       {"type": "1"},
	"style":    {"media": "all", "type": "text/css"},
	"td":       {"colspan": "1", "rowspan": "1"},
	"textarea": {"wrap": "soft"},
	"th":       {"colspan": "1", "rowspan": "1"},
	"track":    {"kind": "subtitles"},
}

// IsDefaultAttr returns true if the attribute of the lowercase tag has its default value.
// The type attribute of script is handled by IsJSType.
func IsDefaultAttr(tag, name, val []byte) bool {
	attrs, ok := defaultAttrs[string(tag)]
	if !ok {
		return false
	}
	def, ok := attrs[string(name)]
	return ok && parse.EqualFold(parse.TrimWhitespace(val), []byte(def))
}

var jsTypes = map[string]bool{
	"":                         true,
	"application/ecmascript":   true,
	"application/javascript":   true,
	"application/x-ecmascript": true,
	"application/x-javascript": true,
	"text/ecmascript":          true,
	"text/javascript":          true,
	"text/javascript1.0":       true,
	"text/javascript1.1":       true,
	"text/javascript1.2":       true,
	"text/javascript1.3":       true,
	"text/javascript1.4":       true,
	"text/javascript1.5":       true,
	"text/jscript":             true,
	"text/livescript":          true,
	"text/x-ecmascript":        true,
	"text/x-javascript":        true,
}

// IsJSType returns true if a script with the given type attribute value is a classic script.
// Media type parameters are ignored.
func IsJSType(typ []byte) bool {
	mimetype, _ := parse.Mediatype(parse.TrimWhitespace(parse.ToLower(parse.Copy(typ))))
	return jsTypes[string(mimetype)]
}

// IsModuleType returns true for a module script.
func IsModuleType(typ []byte) bool {
	return parse.EqualFold(parse.TrimWhitespace(typ), []byte("module"))
}

// IsCSSType returns true if a style element with the given type attribute value holds CSS.
func IsCSSType(typ []byte) bool {
	mimetype, _ := parse.Mediatype(parse.TrimWhitespace(parse.ToLower(parse.Copy(typ))))
	return len(mimetype) == 0 || bytes.Equal(mimetype, []byte("text/css"))
}

// IsSSIComment returns true for a server side include directive such as <!--#include file="x" -->.
func IsSSIComment(code []byte) bool {
	return 0 < len(code) && code[0] == '#'
}
