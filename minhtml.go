// Package minhtml minifies HTML documents to the smallest byte stream that parses to the same
// tree. Embedded CSS and JS are minified by the CSS and JS minifiers of tdewolff/minify.
//
// Minify never fails: malformed or truncated input is minified as it is, not repaired.
package minhtml

import (
	"io"
	"net/http"
	"regexp"

	"github.com/tdewolff/minhtml/cfg"
	"github.com/tdewolff/minhtml/parser"
	"github.com/tdewolff/minhtml/rule"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/parse/v2"
)

// Cfg is the minification configuration, see package cfg.
type Cfg = cfg.Cfg

// Mediatype is the mediatype the HTML minifier is registered under.
const Mediatype = "text/html"

var jsMediatype = regexp.MustCompile("^(application|text)/(x-)?(java|ecma|j|live)script(1\\.[0-5])?$|^module$")

// Default minifies embedded CSS and JS.
var Default *minify.M

func init() {
	Default = minify.New()
	Default.AddFunc("text/css", css.Minify)
	Default.AddFuncRegexp(jsMediatype, js.Minify)
}

// Minify returns the minified document. A nil configuration minifies with all options off.
func Minify(src []byte, c *Cfg) []byte {
	return rule.Minify(parser.Parse(src, c), c, Default)
}

// String minifies an HTML string.
func String(s string, c *Cfg) string {
	return string(Minify([]byte(s), c))
}

////////////////////////////////////////////////////////////////

// Minifier is an HTML minifier that can be added to a minify.M. Embedded CSS and JS are
// delegated to that same minify.M.
type Minifier struct {
	Cfg
}

// Minify minifies HTML data, it reads from r and writes to w.
func (o *Minifier) Minify(m *minify.M, w io.Writer, r io.Reader, _ map[string]string) error {
	z := parse.NewInput(r)
	defer z.Restore()
	if err := z.Err(); err != nil && err != io.EOF {
		return err
	}

	var d rule.Delegate
	if m != nil {
		d = m
	}
	src := z.Bytes()
	_, err := w.Write(rule.Minify(parser.Parse(src, &o.Cfg), &o.Cfg, d))
	return err
}

// New returns a minify.M that minifies HTML with the given configuration, and CSS and JS with
// their default minifiers.
func New(c *Cfg) *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(jsMediatype, js.Minify)
	m.Add(Mediatype, &Minifier{*cfg.Or(c)})
	return m
}

// Middleware minifies HTML responses of the next handler.
func Middleware(c *Cfg, next http.Handler) http.Handler {
	return New(c).Middleware(next)
}
