package rule

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/tdewolff/minhtml/cfg"
	"github.com/tdewolff/minhtml/parser"
	"github.com/tdewolff/test"
)

func minify(src string, c *cfg.Cfg, d Delegate) string {
	return string(Minify(parser.Parse([]byte(src), c), c, d))
}

func TestWhitespace(t *testing.T) {
	var tests = []struct {
		html     string
		expected string
	}{
		{`<p>a   b</p>`, `<p>a b</p>`},
		{`<div>  <p>x</p>  </div>`, `<div><p>x</p></div>`},
		{`<p>a <b> b </b> c</p>`, `<p>a <b>b </b>c</p>`},
		{`<div> a <span> </span> b </div>`, `<div>a <span></span>b</div>`},
		{`<div> <pre> a  b </pre> </div>`, `<div><pre> a  b </pre></div>`},
		{`<p>a<br> b</p>`, `<p>a<br>b</p>`},
		{"<p>a\n\t b</p>", `<p>a b</p>`},
		{`<p>a<!-- x --> b</p>`, `<p>a b</p>`},
		{`<select> <option> a </option> </select>`, `<select><option>a</select>`},
		{`<textarea>  a  </textarea>`, `<textarea>  a  </textarea>`},
		{`<svg> <g> <text> a  b </text> </g> </svg>`, `<svg><g><text> a b </text></g></svg>`},
		{`<span> a </span>`, `<span>a</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, nil, nil), tt.expected)
		})
	}
}

func TestClosingTags(t *testing.T) {
	var tests = []struct {
		html     string
		expected string
	}{
		{`<ul><li>a</li><li>b</li></ul>`, `<ul><li>a<li>b</ul>`},
		{`<p>a</p><p>b</p>`, `<p>a<p>b</p>`},
		{`<p>a</p><span>b</span>`, `<p>a</p><span>b</span>`},
		{`<p>a</p>b`, `<p>a</p>b`},
		{`<p>a<span>b</span></p><div>c</div>`, `<p>a<span>b</span><div>c</div>`},
		{`<dl><dt>a</dt><dd>b</dd></dl>`, `<dl><dt>a<dd>b</dl>`},
		{`<select><option>a</option><option>b</option></select>`, `<select><option>a<option>b</select>`},
		{`<table> <tr> <td> a </td> </tr> </table>`, `<table><tr><td>a</table>`},
		{`<ul><li>a<li>b</ul>`, `<ul><li>a<li>b</ul>`},
		{`<div><p>a</p></div>`, `<div><p>a</p></div>`},
		{`</p>`, `</p>`},
		{`<!DOCTYPE html><html><head><title>x</title></head><body><p>y</p></body></html>`, `<!doctypehtml><title>x</title><p>y</p>`},
		{`<html><head></head><body></body></html>`, ``},
		{`<html lang=en><p>x</p></html>`, `<html lang=en><p>x</p>`},
		{`<body><p>x</p></body><!--#include virtual="footer" -->`, `<p>x</p></body><!--#include virtual="footer" -->`},
		{`<body>a</body><!doctype html>`, `a</body><!doctypehtml>`},
		{`a</body>b`, `ab`},
		{`a </body> b`, `a b`},

		// start tags that are ignored
		{`<div><td>x</div>y`, `<div>x</div>y`},
		{`<p>a <colgroup>b</p>`, `<p>a b</p>`},
		{`<i>a <body>b</i>`, `<i>a b</i>`},
		{`<p>a<body class=" x ">b</p>`, `<p>a<body class=x>b</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, nil, nil), tt.expected)
		})
	}

	keep := &cfg.Cfg{KeepClosingTags: true, KeepHTMLAndHeadOpeningTags: true}
	test.String(t, minify(`<ul><li>a</li></ul>`, keep, nil), `<ul><li>a</li></ul>`)
	test.String(t, minify(`<html><head></head><body></body></html>`, keep, nil), `<html><head></head><body></body></html>`)
	test.String(t, minify(`<html><head></head><body></body></html>`, &cfg.Cfg{KeepHTMLAndHeadOpeningTags: true}, nil), `<html><head><body>`)
}

func TestAttributes(t *testing.T) {
	var tests = []struct {
		html     string
		expected string
	}{
		{`<input type="text" value="a b" disabled="disabled">`, `<input value="a b"disabled>`},
		{`<a href="x" title='y"z'>a</a>`, `<a href=x title=y"z>a</a>`},
		{`<a title='say "hi" now'>x</a>`, `<a title='say "hi" now'>x</a>`},
		{`<a title="a'b &quot;c">x</a>`, `<a title="a'b &#34;c">x</a>`},
		{`<a href="?a=1&amp;b=2">x</a>`, `<a href=?a=1&b=2>x</a>`},
		{`<a title="&amp;lt;">x</a>`, `<a title=&amp;lt;>x</a>`},
		{`<div class="  a   b ">x</div>`, `<div class="a b">x</div>`},
		{`<div class=" " style="">x</div>`, `<div>x</div>`},
		{`<form method="GET">x</form>`, `<form>x</form>`},
		{`<script type="text/javascript">a</script>`, `<script>a</script>`},
		{`<script type="module">a</script>`, `<script type=module>a</script>`},
		{`<input value="">`, `<input value>`},
		{`<svg viewBox="0 0 1 1"><path d="M0 0"/></svg>`, `<svg viewBox="0 0 1 1"><path d="M0 0"/></svg>`},
		{`<svg><rect x=1 /></svg>`, `<svg><rect x=1 /></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, nil, nil), tt.expected)
		})
	}

	test.String(t, minify(`<input type=text>`, &cfg.Cfg{KeepInputTypeTextAttr: true}, nil), `<input type=text>`)
	test.String(t, minify(`<div id="a b" class="c">x</div>`, &cfg.Cfg{KeepSpacesBetweenAttributes: true}, nil), `<div id="a b" class=c>x</div>`)
	test.String(t, minify(`<div id="a b" class="c">x</div>`, nil, nil), `<div id="a b"class=c>x</div>`)

	spec := &cfg.Cfg{EnsureSpecCompliantUnquotedAttributeValues: true}
	test.String(t, minify(`<a title="a=b">x</a>`, spec, nil), `<a title="a=b">x</a>`)
	test.String(t, minify(`<a title="it's">x</a>`, spec, nil), `<a title="it's">x</a>`)
	test.String(t, minify(`<a title="a=b">x</a>`, nil, nil), `<a title=a=b>x</a>`)
}

func TestText(t *testing.T) {
	var tests = []struct {
		html     string
		expected string
	}{
		{`<p>a &amp; b</p>`, `<p>a & b</p>`},
		{`<p>&amp;copy;</p>`, `<p>&ampcopy;</p>`},
		{`<p>&lt;div&gt;</p>`, `<p>&lt;div></p>`},
		{`<p>a &lt; 3</p>`, `<p>a < 3</p>`},
		{`<p>&#x41;&quot;</p>`, `<p>A"</p>`},
		{`<textarea>&lt;p&gt;&lt;/textarea&gt;</textarea>`, `<textarea><p>&lt;/textarea></textarea>`},
		{`&<!--b-->amp;`, `&ampamp;`},
		{`<textarea></b></textarea>`, `<textarea></b></textarea>`},
		{`<title></b></title>`, `<title></b></title>`},
		{`<textarea>&lt;/TEXTAREA x</textarea>`, `<textarea>&lt;/TEXTAREA x</textarea>`},
		{`<textarea>&lt;/textareax</textarea>`, `<textarea></textareax</textarea>`},
		{`<title>a&lt;/title&gt;</title>`, `<title>a&lt;/title></title>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, nil, nil), tt.expected)
		})
	}
}

func TestCommentsAndBangs(t *testing.T) {
	var tests = []struct {
		html     string
		c        *cfg.Cfg
		expected string
	}{
		{`a<!-- x -->b`, nil, `ab`},
		{`a<!-- x -->b`, &cfg.Cfg{KeepComments: true}, `a<!-- x -->b`},
		{`<!--#include virtual="x" -->`, nil, `<!--#include virtual="x" -->`},
		{`a<!-- x --><!--#include virtual="x" -->`, &cfg.Cfg{KeepSSIComments: true}, `a<!--#include virtual="x" -->`},
		{`a<!--b`, nil, `a<!--b`},
		{`a<!--b`, &cfg.Cfg{KeepComments: true}, `a<!--b`},
		{`</body><!--x-->`, &cfg.Cfg{KeepComments: true}, `</body><!--x-->`},
		{`</ x>`, &cfg.Cfg{KeepComments: true}, `</ x>`},
		{`<!DOCTYPE html>`, nil, `<!doctypehtml>`},
		{`<!DOCTYPE html>`, &cfg.Cfg{DoNotMinifyDoctype: true}, `<!DOCTYPE html>`},
		{`<!DOCTYPE html>`, &cfg.Cfg{RemoveBangs: true}, ``},
		{`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN">`, nil, `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN">`},
		{`<?xml version="1.0"?>`, nil, `<?xml version="1.0"?>`},
		{`<?xml version="1.0"?>`, &cfg.Cfg{RemoveProcessingInstructions: true}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, tt.c, nil), tt.expected)
		})
	}

	for _, c := range configs {
		test.String(t, minify(`<!-- never closed`, c, nil), `<!-- never closed`)
	}
}

func TestTemplates(t *testing.T) {
	c := &cfg.Cfg{
		PreserveBraceTemplateSyntax:          true,
		PreserveChevronPercentTemplateSyntax: true,
	}
	var tests = []struct {
		html     string
		expected string
	}{
		{`<p>{{ a }}  b</p>`, `<p>{{ a }} b</p>`},
		{`<div class="{{ c }}">x</div>`, `<div class="{{ c }}">x</div>`},
		{`<p>&#123;{ x }}</p>`, `<p>&#123;{ x }}</p>`},
		{`<p>&lt;% x</p>`, `<p>&lt;% x</p>`},
		{`<p><% if x %>a<% end %></p>`, `<p><% if x %>a<% end %></p>`},
		{`<p>  {{ name }}  </p>`, `<p>{{ name }}</p>`},
		{`&#123;{<!--c-->{{ t }}`, `&#123;&#123;{{ t }}`},
		{`<title><% q %></title>`, `<title><% q %></title>`},
		{`<title>&lt;% q</title>`, `<title>&lt;% q</title>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, minify(tt.html, c, nil), tt.expected)
		})
	}

	test.String(t, minify(`<p>&lt;% x</p>`, nil, nil), `<p><% x</p>`)
}

type trimDelegate struct {
	mediatypes []string
	out        []byte // written instead of the trimmed input if not nil
	err        error
}

func (d *trimDelegate) Minify(mediatype string, w io.Writer, r io.Reader) error {
	d.mediatypes = append(d.mediatypes, mediatype)
	if d.err != nil {
		return d.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	} else if d.out != nil {
		b = d.out
	}
	_, err = w.Write(bytes.TrimSpace(b))
	return err
}

func TestDelegate(t *testing.T) {
	c := &cfg.Cfg{MinifyCSS: true, MinifyJS: true}

	d := &trimDelegate{}
	test.String(t, minify(`<style> a{} </style><script> b() </script>`, c, d), `<style>a{}</style><script>b()</script>`)
	test.T(t, len(d.mediatypes), 2)
	test.String(t, d.mediatypes[0], "text/css")
	test.String(t, d.mediatypes[1], "application/javascript")

	d = &trimDelegate{}
	test.String(t, minify(`<p style=" color: red ">x</p>`, c, d), `<p style="color: red">x</p>`)
	test.String(t, d.mediatypes[0], "text/css;inline=1")

	test.String(t, minify(`<script> b() </script>`, nil, &trimDelegate{}), `<script> b() </script>`, "disabled")
	test.String(t, minify(`<script> b() </script>`, c, nil), `<script> b() </script>`, "no delegate")
	test.String(t, minify(`<script type="text/template"> b </script>`, c, &trimDelegate{}), `<script type=text/template> b </script>`, "data")
	test.String(t, minify(`<script> b() </script>`, c, &trimDelegate{err: errors.New("syntax error")}), `<script> b() </script>`, "error")
	test.String(t, minify(`<script>b</script>`, c, &trimDelegate{out: []byte("longer")}), `<script>b</script>`, "longer")
	test.String(t, minify(`<script>aaaaaaaaaaaa</script>`, c, &trimDelegate{out: []byte("</script>")}), `<script>aaaaaaaaaaaa</script>`, "unsafe")
}

var configs = []*cfg.Cfg{
	nil,
	{KeepClosingTags: true, KeepHTMLAndHeadOpeningTags: true, KeepComments: true},
	{EnsureSpecCompliantUnquotedAttributeValues: true, KeepSpacesBetweenAttributes: true},
	{PreserveBraceTemplateSyntax: true, PreserveChevronPercentTemplateSyntax: true},
	{RemoveBangs: true, RemoveProcessingInstructions: true, DoNotMinifyDoctype: true},
}

// The minified output must never be longer than the input and must be stable under a second
// minification.
func TestProperties(t *testing.T) {
	var tests = []string{
		`<p>a   b</p>`,
		`<div>  <p>x</p>  </div>`,
		`<ul><li>a</li><li>b</li></ul>`,
		`<table> <tr> <td> a </td> </tr> </table>`,
		`<!DOCTYPE html><html><head><title>x</title></head><body><p>y</p></body></html>`,
		`<p>a <b> b </b> c</p>`,
		`<input type="text" value="a b" disabled="disabled">`,
		`<a href="x" title='y"z'>a</a>`,
		`<p>&amp;copy; &lt;div&gt;</p>`,
		`<svg viewBox="0 0 1 1"><path d="M0 0"/></svg>`,
		`<select> <option> a </option> </select>`,
		`<p>a</p><p>b</p>`,
		`<dl><dt>a</dt><dd>b</dd></dl>`,

		// malformed
		`</form>`,
		`a</form>b`,
		`<div><td>x</div>y`,
		`<p>a <colgroup>b</p>`,
		`<i>a <body>b</i>`,
		`<p>a<body class=x>b</p>`,
		`<table><td>a</table>`,
		`<p>a</b>c`,
		`<svg><p>x`,
		`<script>x</script`,
		`a<!x`,
		`<?x`,
		`<!-- never closed`,
		`<body><p>x</p></body><!--#include virtual="footer" -->`,
		`<body>a</body><!doctype html>`,
		`a </body> b`,

		// rcdata
		`<textarea></b></textarea>`,
		`<title></b></title>`,
		`<textarea>&lt;/textarea x</textarea>`,

		// templates
		`<p>  {{ name }}  </p>`,
		`&#123;{<!--c-->{{ t }}`,
		`{# c`,
		`<title><% q %></title>`,
		`<title>&lt;% q</title>`,
	}
	for _, src := range tests {
		for _, c := range configs {
			t.Run(src, func(t *testing.T) {
				out := minify(src, c, nil)
				test.That(t, len(out) <= len(src), "output is longer than input:", out)
				test.String(t, minify(out, c, nil), out, "not idempotent")
			})
		}
	}
}
