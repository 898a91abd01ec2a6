package minhtml

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/test"
)

func TestMinify(t *testing.T) {
	c := &Cfg{MinifyCSS: true, MinifyJS: true}
	var tests = []struct {
		html     string
		expected string
	}{
		{`<p>  a  </p>`, `<p>a</p>`},
		{`<style> a { color : red ; } </style>`, `<style>a{color:red}</style>`},
		{`<p style=" color : red ; ">x</p>`, `<p style=color:red>x</p>`},
		{`<script type="text/javascript"> var a = 1 ; </script>`, `<script>var a=1</script>`},
		{`<script type="text/x-template"> var a = 1 ; </script>`, `<script type=text/x-template> var a = 1 ; </script>`},
	}
	for _, tt := range tests {
		t.Run(tt.html, func(t *testing.T) {
			test.String(t, String(tt.html, c), tt.expected)
		})
	}
}

func TestMinifyNilCfg(t *testing.T) {
	test.Bytes(t, Minify([]byte(`<style> a { color : red ; } </style>`), nil), []byte(`<style> a { color : red ; } </style>`))
	test.Bytes(t, Minify(nil, nil), []byte{})
}

func TestMinifier(t *testing.T) {
	input := `<div> <style> a { color : red } </style> </div>`
	m := New(&Cfg{MinifyCSS: true})
	s, err := m.String("text/html", input)
	test.Minify(t, input, err, s, `<div><style>a{color:red}</style></div>`)

	// without a CSS minifier the code is left as it is
	input = `<style> a { color : red } </style>`
	m = minify.New()
	m.Add("text/html", &Minifier{Cfg{MinifyCSS: true}})
	s, err = m.String("text/html", input)
	test.Minify(t, input, err, s, input)
}

func TestMinifierReaderError(t *testing.T) {
	m := New(nil)
	err := m.Minify("text/html", io.Discard, test.NewErrorReader(0))
	test.That(t, err != nil, "must return the read error")
}

func TestMiddleware(t *testing.T) {
	h := Middleware(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<ul> <li> a </li> <li> b </li> </ul>`)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	test.T(t, rec.Code, http.StatusOK)
	test.String(t, rec.Body.String(), `<ul><li>a<li>b</ul>`)
}

// FuzzMinify checks that the output is never longer than the input and that minifying it again
// doesn't change it.
func FuzzMinify(f *testing.F) {
	f.Add([]byte(`<!DOCTYPE html><html><head><title> x </title></head><body><p> a  b </p></body></html>`))
	f.Add([]byte(`<ul> <li> a </li> <li> b </li> </ul><table><tr><td>c</table>`))
	f.Add([]byte(`<body><p>x</p></body><!--#include virtual="footer" -->`))
	f.Add([]byte(`<div><td>x</div>y<p>a <colgroup>b</p>a</form>b`))
	f.Add([]byte(`<textarea></b></textarea><title></b></title>`))
	f.Add([]byte(`<svg><p>x<!-- never closed`))
	f.Fuzz(func(t *testing.T, data []byte) {
		out := Minify(data, nil)
		if len(data) < len(out) {
			t.Fatalf("output longer than input: %q", out)
		} else if again := Minify(out, nil); !bytes.Equal(again, out) {
			t.Fatalf("output not stable: %q then %q", out, again)
		}
	})
}

////////////////////////////////////////////////////////////////

func ExampleMinify() {
	c := &Cfg{MinifyCSS: true}
	if _, err := os.Stdout.Write(Minify([]byte(`<p class=" a  b ">  Hello,   <b>world</b>!  </p>`), c)); err != nil {
		panic(err)
	}
	// Output: <p class="a b">Hello, <b>world</b>!</p>
}

func ExampleMiddleware() {
	fs := http.FileServer(http.Dir("www/"))
	http.Handle("/", Middleware(&Cfg{MinifyCSS: true, MinifyJS: true}, fs))
}

func ExampleString() {
	s := String(strings.Repeat(" <b>a</b> ", 2), nil)
	fmt.Println(s)
	// Output: <b>a</b> <b>a</b>
}
