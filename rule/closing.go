package rule

import (
	"github.com/tdewolff/minhtml/ast"
	"github.com/tdewolff/minhtml/table"
	"golang.org/x/net/html/atom"
)

// position is where an element sits among the nodes that are written.
type position struct {
	parent *ast.Element
	next   ast.Node // next sibling that writes anything, or nil
	last   ast.Node // last child that writes anything, or nil
}

// index records the position of every element below nodes and returns the last node that
// writes anything.
func (m *minifier) index(nodes []ast.Node, parent *ast.Element) ast.Node {
	var next, last ast.Node
	for i := len(nodes) - 1; 0 <= i; i-- {
		if e, ok := nodes[i].(*ast.Element); ok {
			pos := &position{parent: parent, next: next}
			pos.last = m.index(e.Children, e)
			m.pos[e] = pos
			if e.Stray && m.omitClosing(e) {
				continue
			}
		} else if !m.writes(nodes[i]) {
			continue
		}
		if last == nil {
			last = nodes[i]
		}
		next = nodes[i]
	}
	return last
}

// writes returns false for nodes that are removed entirely.
func (m *minifier) writes(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Text:
		if v, ok := m.plan[n]; ok {
			return len(v) != 0
		}
		return len(n.Value) != 0
	case *ast.Comment:
		return m.keepComment(n)
	case *ast.Bang:
		return !m.c.RemoveBangs
	case *ast.Instruction:
		return !m.c.RemoveProcessingInstructions
	case *ast.ScriptOrStyleContent:
		return len(n.Code) != 0
	}
	return true
}

// omitClosing returns true if the end tag of an element that was closed in the source can be
// left out without changing the parsed tree.
func (m *minifier) omitClosing(e *ast.Element) bool {
	if omit, ok := m.omit[e]; ok {
		return omit
	}
	omit := m.decideClosing(e)
	m.omit[e] = omit
	return omit
}

func (m *minifier) open(e *ast.Element) bool {
	return e.Closing == ast.Omitted || e.Closing == ast.Present && m.omitClosing(e)
}

func (m *minifier) decideClosing(e *ast.Element) bool {
	tag := atom.Lookup(e.Name)
	if m.c.KeepClosingTags || e.Namespace != ast.HTML || e.Stray && tag != atom.Body && tag != atom.Html {
		return false
	}
	pos := m.pos[e]
	rule := table.Closing(tag)
	switch rule.Omission {
	case table.UnlessComment:
		return !isCommentLike(pos.next)
	case table.UnlessSpaceComment:
		switch n := pos.next.(type) {
		case *ast.Comment, *ast.Bang, *ast.Instruction:
			return false
		case *ast.Text:
			v := m.textValue(n)
			return len(v) == 0 || !isSpace(v[0])
		}
		return true
	case table.BeforeSibling:
		if pos.next == nil {
			if !rule.LastChild || !m.parentCloses(e) {
				return false
			}
			return m.tailSafe(e, atom.Atom(0))
		}
		next, ok := pos.next.(*ast.Element)
		if !ok || next.Stray || next.Ignored || next.Namespace != ast.HTML {
			return false
		}
		nextTag := atom.Lookup(next.Name)
		if !rule.Siblings[nextTag] {
			return false
		}
		return m.tailSafe(e, nextTag)
	}
	return false
}

// endCloser returns the ancestor whose end tag is the first thing written after e, or nil for
// the end of the input. It returns false if a start tag comes first.
func (m *minifier) endCloser(e *ast.Element) (*ast.Element, bool) {
	pos := m.pos[e]
	parent := pos.parent
	for parent != nil && parent.Closing == ast.Omitted {
		if m.pos[parent].next != nil {
			return nil, false
		}
		parent = m.pos[parent].parent
	}
	if parent != nil && (parent.Closing != ast.Present || parent.Namespace != ast.HTML) {
		return nil, false
	}
	return parent, true
}

// isSpecialEnd returns true if the end tag pops every element up to the matching one.
func isSpecialEnd(e *ast.Element) bool {
	tag, traits := table.Lookup(e.Name)
	return traits&table.Special != 0 && traits&table.Adoption == 0 && tag != atom.Form
}

// parentCloses returns true if whatever ends the parent also closes the open element.
func (m *minifier) parentCloses(e *ast.Element) bool {
	closer, ok := m.endCloser(e)
	if !ok {
		return false
	} else if closer == nil {
		return true
	}

	_, traits := table.Lookup(e.Name)
	if !isSpecialEnd(closer) {
		// an end tag that is not special only pops elements that are not special
		return traits&table.Special == 0
	} else if traits&table.Scope != 0 {
		// cells and captions are only passed by end tags of the table
		switch atom.Lookup(closer.Name) {
		case atom.Table, atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr:
			return true
		}
		return false
	}
	return true
}

// openChain returns the elements that are still open at the end of e, outermost first.
func (m *minifier) openChain(e *ast.Element) []*ast.Element {
	var chain []*ast.Element
	for {
		c, ok := m.pos[e].last.(*ast.Element)
		if !ok || !m.open(c) {
			return chain
		}
		chain = append(chain, c)
		e = c
	}
}

// tailSafe returns true if the elements that stay open at the end of e are closed together with
// e, either by the start tag of the next sibling, or by the end tag of the parent if next is zero.
func (m *minifier) tailSafe(e *ast.Element, next atom.Atom) bool {
	tag := atom.Lookup(e.Name)
	switch tag {
	case atom.Html, atom.Head, atom.Body, atom.Colgroup, atom.Caption:
		return true
	}

	// only special end tags pass through special elements
	nonSpecial := false
	if next == 0 {
		closer, _ := m.endCloser(e)
		if closer == nil {
			return true
		}
		nonSpecial = !isSpecialEnd(closer)
	}

	chain := m.openChain(e)
	if tag == atom.Tbody || tag == atom.Thead || tag == atom.Tfoot {
		if 0 < len(chain) && isHTML(chain[0], atom.Tr) {
			chain = chain[1:]
		}
		tag = atom.Tr
	}
	if tag == atom.Tr {
		if 0 < len(chain) && (isHTML(chain[0], atom.Td) || isHTML(chain[0], atom.Th)) {
			chain = chain[1:]
		}
		tag = atom.Td
	}
	if tag == atom.Optgroup {
		if 0 < len(chain) && isHTML(chain[0], atom.Option) {
			chain = chain[1:]
		}
		tag = atom.Option
	}

	for _, c := range chain {
		if c.Namespace != ast.HTML {
			return false
		}
		ctag, ctraits := table.Lookup(c.Name)
		if ctraits&table.Adoption != 0 || nonSpecial && ctraits&table.Special != 0 {
			return false
		}
		switch tag {
		case atom.Li, atom.Dd, atom.Dt:
			if ctraits&table.Special != 0 && ctag != atom.Address && ctag != atom.Div && ctag != atom.P {
				return false
			}
		case atom.Rt, atom.Rp:
			if ctraits&table.Implied == 0 {
				return false
			}
		case atom.P, atom.Td, atom.Th:
			if ctraits&table.Scope != 0 || ctag == atom.Button || ctag == atom.Select {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isHTML(e *ast.Element, tag atom.Atom) bool {
	return e.Namespace == ast.HTML && atom.Lookup(e.Name) == tag
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
