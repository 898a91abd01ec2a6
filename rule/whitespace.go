package rule

import (
	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/minhtml/table"
	"github.com/tdewolff/parse/v2"
	"golang.org/x/net/html/atom"
)

type eventKind int

const (
	blockEvent       eventKind = iota // whitespace next to it is insignificant
	opaqueEvent                       // rendered inline content
	transparentEvent                  // not rendered, looked through
	textEvent
)

type event struct {
	kind eventKind
	text *ast.Text
}

// planner decides the output of every collapsible text node. Text nodes that are absent from
// the plan are written as they are.
type planner struct {
	plan map[*ast.Text][]byte
	flow []event
}

func planWhitespace(doc *ast.Document) map[*ast.Text][]byte {
	p := &planner{plan: map[*ast.Text][]byte{}}
	p.isolated(doc.Children, nil)
	return p.plan
}

// isolated plans nodes as the content of a block that has no surrounding inline context.
func (p *planner) isolated(nodes []ast.Node, parent *ast.Element) {
	outer := p.flow
	p.flow = []event{{kind: blockEvent}}
	p.walk(nodes, parent)
	p.flow = append(p.flow, event{kind: blockEvent})
	p.resolve()
	p.flow = outer
}

func (p *planner) add(kind eventKind) {
	p.flow = append(p.flow, event{kind: kind})
}

func (p *planner) walk(nodes []ast.Node, parent *ast.Element) {
	layout := parent != nil && parent.Namespace == ast.HTML && table.Is(parent.Name, table.Layout)
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Text:
			if layout && parse.IsAllWhitespace(n.Value) {
				p.plan[n] = nil
			} else {
				p.flow = append(p.flow, event{kind: textEvent, text: n})
			}
		case *ast.Element:
			p.element(n)
		case *ast.Template, *ast.ScriptOrStyleContent:
			p.add(opaqueEvent)
		default:
			p.add(transparentEvent)
		}
	}
}

func (p *planner) element(e *ast.Element) {
	if e.Namespace != ast.HTML {
		p.add(opaqueEvent)
		p.foreign(e)
		return
	}

	tag, traits := table.Lookup(e.Name)
	if e.Ignored {
		p.add(transparentEvent)
		return
	} else if e.Stray {
		if traits&table.Block != 0 && tag != atom.Body && tag != atom.Html {
			p.add(blockEvent)
		} else {
			p.add(transparentEvent)
		}
		return
	}

	switch {
	case traits&table.Invisible != 0:
		p.add(transparentEvent)
		p.isolated(e.Children, e)
	case traits&table.PreserveWS != 0:
		if traits&table.Block != 0 {
			p.add(blockEvent)
		} else {
			p.add(opaqueEvent)
		}
	case traits&table.Block != 0:
		p.add(blockEvent)
		p.walk(e.Children, e)
		p.add(blockEvent)
	case traits&table.Formatting != 0:
		p.add(transparentEvent)
		p.walk(e.Children, e)
		p.add(transparentEvent)
	default:
		p.add(opaqueEvent)
		p.walk(e.Children, e)
		if len(e.Children) != 0 {
			p.add(opaqueEvent)
		}
	}
}

// resolve collapses whitespace runs of the current flow and removes the runs next to block
// boundaries and the runs that follow another run.
func (p *planner) resolve() {
	space := true
	for i, ev := range p.flow {
		switch ev.kind {
		case blockEvent:
			space = true
		case opaqueEvent:
			space = false
		case textEvent:
			v := collapse(ev.text.Value)
			if 0 < len(v) && v[0] == ' ' && space {
				v = v[1:]
			}
			if 0 < len(v) && v[len(v)-1] == ' ' && p.blockFollows(i) {
				v = v[:len(v)-1]
			}
			p.plan[ev.text] = v
			if 0 < len(v) {
				space = v[len(v)-1] == ' '
			}
		}
	}
}

// blockFollows returns true if the next rendered content after flow[i] is a block boundary.
func (p *planner) blockFollows(i int) bool {
	for _, ev := range p.flow[i+1:] {
		switch ev.kind {
		case blockEvent:
			return true
		case opaqueEvent:
			return false
		case textEvent:
			if !parse.IsAllWhitespace(ev.text.Value) {
				return false
			}
		}
	}
	return true
}

var textBearing = map[string]bool{
	"a":        true,
	"text":     true,
	"textpath": true,
	"tspan":    true,
}

// foreign plans the subtree of an SVG or MathML element. Runs are collapsed but only removed
// when the element doesn't render text.
func (p *planner) foreign(e *ast.Element) {
	name := parse.ToLower(parse.Copy(e.Name))
	if string(name) == "script" || string(name) == "style" {
		return
	} else if attr := e.Attr("xml:space"); attr != nil && string(attr.Value) == "preserve" {
		return
	}

	var encoding []byte
	if attr := e.Attr("encoding"); attr != nil {
		encoding = attr.Value
	}
	if table.IsIntegrationPoint(e.Namespace, name, encoding) {
		p.isolated(e.Children, e)
		return
	}

	for _, node := range e.Children {
		switch n := node.(type) {
		case *ast.Text:
			if parse.IsAllWhitespace(n.Value) && !textBearing[string(name)] {
				p.plan[n] = nil
			} else {
				p.plan[n] = collapse(n.Value)
			}
		case *ast.Element:
			if n.Namespace == ast.HTML {
				p.isolated([]ast.Node{n}, e)
			} else {
				p.foreign(n)
			}
		}
	}
}

// collapse replaces every whitespace run by a single space.
func collapse(b []byte) []byte {
	b = parse.ReplaceMultipleWhitespace(parse.Copy(b))
	for i, c := range b {
		if c == '\n' {
			b[i] = ' '
		}
	}
	return b
}
